// Package docs registers the OpenAPI description served in development
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/health": {
            "get": {"tags": ["System"], "summary": "Health check", "produces": ["application/json"],
                "responses": {"200": {"description": "Service is healthy", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}}
        },
        "/api/v1/auth/signup": {
            "post": {"tags": ["Authentication"], "summary": "User Registration", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.SignupRequest"}}],
                "responses": {
                    "201": {"description": "Account created", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "409": {"description": "User already exists", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}}
        },
        "/api/v1/auth/login": {
            "post": {"tags": ["Authentication"], "summary": "User Login", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}],
                "responses": {
                    "200": {"description": "Login successful", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}}
        },
        "/api/v1/auth/refresh": {
            "post": {"tags": ["Authentication"], "summary": "Refresh Tokens", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.RefreshTokenRequest"}}],
                "responses": {
                    "200": {"description": "Tokens refreshed", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Invalid refresh token", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}}
        },
        "/api/v1/auth/logout": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Authentication"], "summary": "Logout", "produces": ["application/json"],
                "responses": {"200": {"description": "Logged out", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}}
        },
        "/api/v1/auth/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Authentication"], "summary": "Current User", "produces": ["application/json"],
                "responses": {"200": {"description": "Current user", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}}
        },
        "/api/v1/audience-options": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Catalog"], "summary": "Audience Options", "produces": ["application/json"],
                "responses": {"200": {"description": "Options", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}}
        },
        "/api/v1/entities/search": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Catalog"], "summary": "Search Entities", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "query", "in": "query", "required": true},
                    {"type": "string", "name": "type", "in": "query", "enum": ["movie", "person", "artist", "book", "brand", "place", "tv_show", "video_game", "podcast"]}],
                "responses": {
                    "200": {"description": "Results", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}}
        },
        "/api/v1/audience": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Audiences"], "summary": "Create Audience", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.CreateAudienceRequest"}}],
                "responses": {
                    "201": {"description": "Audience created", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "500": {"description": "Taste graph or storage failure", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}}
        },
        "/api/v1/audiences": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Audiences"], "summary": "List Audiences", "produces": ["application/json"],
                "responses": {"200": {"description": "Audiences", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}}
        },
        "/api/v1/audiences/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Audiences"], "summary": "Get Audience", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Audience", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Audience not found", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}}
        },
        "/api/v1/audiences/{id}/export": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Audiences"], "summary": "Export Audience",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "XLSX workbook", "schema": {"type": "file"}},
                    "404": {"description": "Audience not found", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}}
        },
        "/api/v1/generate-content": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Content"], "summary": "Generate Content", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.GenerateContentRequest"}}],
                "responses": {
                    "201": {"description": "Job created", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "403": {"description": "Caller may not generate content", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Audience not found", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "500": {"description": "Generation failed", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}}
        },
        "/api/v1/jobs": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Content"], "summary": "List Jobs", "produces": ["application/json"],
                "responses": {"200": {"description": "Jobs", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}}
        },
        "/api/v1/jobs/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Content"], "summary": "Get Job", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Job", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Job not found", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}}
        }
    },
    "definitions": {
        "dto.APIResponse": {"type": "object", "properties": {
            "success": {"type": "boolean"}, "message": {"type": "string"}, "data": {},
            "error": {"type": "string"}, "code": {"type": "string"}, "details": {}}},
        "dto.SignupRequest": {"type": "object", "required": ["email", "password", "display_name"], "properties": {
            "email": {"type": "string", "maxLength": 255, "example": "jane@example.com"},
            "password": {"type": "string", "minLength": 8, "maxLength": 128, "example": "SecurePass123!"},
            "display_name": {"type": "string", "maxLength": 100, "example": "Jane Doe"}}},
        "dto.LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {
            "email": {"type": "string", "example": "jane@example.com"},
            "password": {"type": "string", "example": "SecurePass123!"}}},
        "dto.RefreshTokenRequest": {"type": "object", "required": ["refresh_token"], "properties": {
            "refresh_token": {"type": "string"}}},
        "dto.EntityRef": {"type": "object", "properties": {
            "entity_id": {"type": "string"}, "name": {"type": "string"}}},
        "dto.CreateAudienceRequest": {"type": "object", "required": ["name"], "properties": {
            "name": {"type": "string", "maxLength": 100, "example": "Coffee Lovers"},
            "entities": {"type": "array", "maxItems": 50, "items": {"$ref": "#/definitions/dto.EntityRef"}},
            "audiences": {"type": "array", "items": {"type": "string"}},
            "genres": {"type": "array", "items": {"type": "string"}},
            "age_group": {"type": "array", "items": {"type": "string", "enum": ["24_and_younger", "25_to_29", "30_to_34", "35_to_44", "45_to_54", "55_and_older"]}},
            "gender": {"type": "string", "enum": ["all", "male", "female"]}}},
        "dto.GenerateContentRequest": {"type": "object", "required": ["audience_id", "content_type", "context"], "properties": {
            "audience_id": {"type": "string"},
            "content_type": {"type": "string", "maxLength": 100, "example": "Instagram caption"},
            "title": {"type": "string", "maxLength": 200},
            "context": {"type": "string", "maxLength": 2000},
            "existing_content": {"type": "string", "maxLength": 5000}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "AdaptMuse API",
	Description:      "Audience aggregation and audience-tailored content generation",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
