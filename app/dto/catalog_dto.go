package dto

import "github.com/amirphl/AdaptMuse/models"

// AudienceOptionsResponse lists the fixed selection catalogs
type AudienceOptionsResponse struct {
	Audiences []models.AudienceOptionGroup `json:"audiences"`
	Genres    []models.AudienceOptionGroup `json:"genres"`
	AgeGroups []models.AgeGroup            `json:"age_groups"`
	Genders   []models.Gender              `json:"genders"`
}

// EntitySearchRequest is bound from the query string
type EntitySearchRequest struct {
	Query string `query:"query" validate:"required,min=1,max=100" example:"blue bottle"`
	Type  string `query:"type" validate:"omitempty,oneof=movie person artist book brand place tv_show video_game podcast" example:"brand"`
}

// EntitySearchResponse holds search hits
type EntitySearchResponse struct {
	Results []models.Entity `json:"results"`
}
