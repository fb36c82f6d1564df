package dto

import (
	"time"

	"github.com/amirphl/AdaptMuse/models"
)

// EntityRef is a user-picked taste-graph entity
type EntityRef struct {
	EntityID string `json:"entity_id" validate:"required,max=128" example:"B1C2D3E4-0000-0000-0000-000000000000"`
	Name     string `json:"name,omitempty" example:"Blue Bottle Coffee"`
}

// CreateAudienceRequest carries the audience name and the raw selections
type CreateAudienceRequest struct {
	Name      string      `json:"name" example:"Coffee Lovers"`
	Entities  []EntityRef `json:"entities"`
	Audiences []string    `json:"audiences" example:"urn:audience:hobbies_and_interests:coffee"`
	Genres    []string    `json:"genres" example:"urn:tag:genre:media:drama"`
	AgeGroup  []string    `json:"age_group" example:"25_to_29"`
	Gender    string      `json:"gender" example:"female"`
}

// AudienceDTO is the persisted audience as returned to clients
type AudienceDTO struct {
	ID                  string                 `json:"id"`
	Name                string                 `json:"name"`
	ImageURL            *string                `json:"image_url"`
	Entities            []models.Entity        `json:"entities"`
	RecommendedEntities []models.Entity        `json:"recommended_entities"`
	AgeTotals           models.AgeTotals       `json:"age_totals"`
	GenderTotals        models.GenderTotals    `json:"gender_totals"`
	Demographics        []string               `json:"demographics"`
	SelectedOptions     models.SelectedOptions `json:"selected_options"`
	CreatedAt           time.Time              `json:"created_at"`
}

// AudienceSummaryDTO is the list view of an audience
type AudienceSummaryDTO struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	ImageURL            *string   `json:"image_url"`
	EntityCount         int       `json:"entity_count"`
	RecommendationCount int       `json:"recommendation_count"`
	Demographics        []string  `json:"demographics"`
	CreatedAt           time.Time `json:"created_at"`
}

// AudienceExport is a rendered spreadsheet
type AudienceExport struct {
	FileName    string
	ContentType string
	Content     []byte
}
