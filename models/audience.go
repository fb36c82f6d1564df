package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// SelectedOptions records what the user picked when building an audience
type SelectedOptions struct {
	Audiences map[string][]string `json:"audiences"` // category -> option values
	Genres    map[string][]string `json:"genres"`    // medium -> genre tag values
	AgeGroups []string            `json:"age_groups"`
	Gender    Gender              `json:"gender"`
}

// Audience is a persisted persona: the user's entities, recommendations and aggregated demographics.
// Entity lists and totals are stored as JSONB documents; Demographics holds option labels as TEXT[].
type Audience struct {
	ID                  string                              `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              string                              `gorm:"type:uuid;not null;index:idx_audiences_user_created,priority:1" json:"user_id"`
	Name                string                              `gorm:"size:100;not null" json:"name"`
	ImageURL            *string                             `gorm:"type:text" json:"image_url"`
	Entities            datatypes.JSONSlice[Entity]         `gorm:"type:jsonb;not null" json:"entities"`
	RecommendedEntities datatypes.JSONSlice[Entity]         `gorm:"type:jsonb;not null" json:"recommended_entities"`
	AgeTotals           datatypes.JSONType[AgeTotals]       `gorm:"type:jsonb;not null" json:"age_totals"`
	GenderTotals        datatypes.JSONType[GenderTotals]    `gorm:"type:jsonb;not null" json:"gender_totals"`
	Demographics        pq.StringArray                      `gorm:"type:text[]" json:"demographics"`
	SelectedOptions     datatypes.JSONType[SelectedOptions] `gorm:"type:jsonb" json:"selected_options"`

	CreatedAt time.Time `gorm:"not null;index:idx_audiences_user_created,priority:2" json:"created_at"`
}

func (Audience) TableName() string {
	return "audiences"
}

// IsWellFormed reports whether a loaded audience carries the fields generation depends on
func (a *Audience) IsWellFormed() bool {
	return a != nil && a.ID != "" && a.Name != "" && a.Entities != nil && a.RecommendedEntities != nil
}

// AudienceFilter represents filter criteria for audience queries
type AudienceFilter struct {
	ID     *string
	UserID *string
}
