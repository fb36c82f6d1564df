package dto

import (
	"time"

	"github.com/amirphl/AdaptMuse/models"
)

// GenerateContentRequest asks for new content, or a refinement when ExistingContent is set
type GenerateContentRequest struct {
	AudienceID      string  `json:"audience_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	ContentType     string  `json:"content_type" example:"Instagram caption"`
	Title           string  `json:"title,omitempty" example:"Summer launch"`
	Context         string  `json:"context" example:"We are launching a cold brew subscription"`
	ExistingContent *string `json:"existing_content,omitempty"`
}

// JobDTO is a generated content job as returned to clients
type JobDTO struct {
	ID               string             `json:"id"`
	Title            string             `json:"title"`
	Audience         models.JobAudience `json:"audience"`
	Icon             string             `json:"icon"`
	ContentType      string             `json:"content_type"`
	OriginalContent  *string            `json:"original_content"`
	GeneratedContent string             `json:"generated_content"`
	Context          string             `json:"context"`
	CreatedAt        time.Time          `json:"created_at"`
}
