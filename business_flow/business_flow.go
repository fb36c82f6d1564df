package businessflow

import (
	"github.com/amirphl/AdaptMuse/app/dto"
	"github.com/amirphl/AdaptMuse/models"
)

// ToAudienceDTO converts a persisted audience to its API shape
func ToAudienceDTO(a *models.Audience) *dto.AudienceDTO {
	entities := []models.Entity(a.Entities)
	if entities == nil {
		entities = []models.Entity{}
	}
	recommended := []models.Entity(a.RecommendedEntities)
	if recommended == nil {
		recommended = []models.Entity{}
	}
	demographics := []string(a.Demographics)
	if demographics == nil {
		demographics = []string{}
	}

	return &dto.AudienceDTO{
		ID:                  a.ID,
		Name:                a.Name,
		ImageURL:            a.ImageURL,
		Entities:            entities,
		RecommendedEntities: recommended,
		AgeTotals:           a.AgeTotals.Data(),
		GenderTotals:        a.GenderTotals.Data(),
		Demographics:        demographics,
		SelectedOptions:     a.SelectedOptions.Data(),
		CreatedAt:           a.CreatedAt,
	}
}

func ToAudienceSummaryDTO(a *models.Audience) dto.AudienceSummaryDTO {
	demographics := []string(a.Demographics)
	if demographics == nil {
		demographics = []string{}
	}
	return dto.AudienceSummaryDTO{
		ID:                  a.ID,
		Name:                a.Name,
		ImageURL:            a.ImageURL,
		EntityCount:         len(a.Entities),
		RecommendationCount: len(a.RecommendedEntities),
		Demographics:        demographics,
		CreatedAt:           a.CreatedAt,
	}
}

func ToJobDTO(j *models.Job) *dto.JobDTO {
	return &dto.JobDTO{
		ID:               j.ID,
		Title:            j.Title,
		Audience:         j.Audience.Data(),
		Icon:             j.Icon,
		ContentType:      j.ContentType,
		OriginalContent:  j.OriginalContent,
		GeneratedContent: j.GeneratedContent,
		Context:          j.Context,
		CreatedAt:        j.CreatedAt,
	}
}

func ToUserDTO(u *models.User, canGenerate bool) dto.UserDTO {
	return dto.UserDTO{
		ID:              u.ID,
		Email:           u.Email,
		DisplayName:     u.DisplayName,
		IsEmailVerified: u.IsEmailVerified,
		CanGenerate:     canGenerate,
		CreatedAt:       u.CreatedAt,
		LastLoginAt:     u.LastLoginAt,
	}
}
