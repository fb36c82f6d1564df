package models

import (
	"time"

	"gorm.io/datatypes"
)

// DefaultJobIcon is used whenever the suggested icon is not a known name
const DefaultJobIcon = "file-text"

// JobIcons is the closed set of icon names a job can carry
var JobIcons = []string{
	"file-text",
	"mail",
	"megaphone",
	"message-square",
	"share-2",
	"instagram",
	"linkedin",
	"twitter",
	"facebook",
	"youtube",
	"video",
	"image",
	"newspaper",
	"mic",
	"shopping-bag",
	"calendar",
	"pen-tool",
	"globe",
}

func IsJobIcon(name string) bool {
	for _, icon := range JobIcons {
		if icon == name {
			return true
		}
	}
	return false
}

// JobAudience is the audience snapshot embedded in a job
type JobAudience struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ImageURL *string `json:"image_url"`
}

// Job is one piece of generated content for an audience.
// A refinement creates a new job carrying the previous text as OriginalContent.
type Job struct {
	ID               string                          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           string                          `gorm:"type:uuid;not null;index:idx_jobs_user_created,priority:1" json:"user_id"`
	AudienceID       string                          `gorm:"type:uuid;not null;index:idx_jobs_audience_id" json:"audience_id"`
	Title            string                          `gorm:"size:200;not null" json:"title"`
	Audience         datatypes.JSONType[JobAudience] `gorm:"type:jsonb;not null" json:"audience"`
	Icon             string                          `gorm:"size:50;not null" json:"icon"`
	ContentType      string                          `gorm:"size:100;not null" json:"content_type"`
	OriginalContent  *string                         `gorm:"type:text" json:"original_content"`
	GeneratedContent string                          `gorm:"type:text;not null" json:"generated_content"`
	Context          string                          `gorm:"type:text;not null" json:"context"`

	CreatedAt time.Time `gorm:"not null;index:idx_jobs_user_created,priority:2" json:"created_at"`
}

func (Job) TableName() string {
	return "jobs"
}

// JobFilter represents filter criteria for job queries
type JobFilter struct {
	ID         *string
	UserID     *string
	AudienceID *string
}
