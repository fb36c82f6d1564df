package businessflow

import (
	"context"
	"fmt"

	"github.com/amirphl/AdaptMuse/app/dto"
	"github.com/amirphl/AdaptMuse/app/services"
	"github.com/amirphl/AdaptMuse/logger"
	"github.com/amirphl/AdaptMuse/models"
	"github.com/amirphl/AdaptMuse/utils"
	"go.uber.org/zap"
)

// CatalogFlow serves the selection catalogs and entity search used by the audience builder
type CatalogFlow interface {
	AudienceOptions(ctx context.Context) *dto.AudienceOptionsResponse
	SearchEntities(ctx context.Context, req *dto.EntitySearchRequest) (*dto.EntitySearchResponse, error)
}

type CatalogFlowImpl struct {
	tasteGraph services.TasteGraphClient
}

func NewCatalogFlow(tasteGraph services.TasteGraphClient) CatalogFlow {
	return &CatalogFlowImpl{tasteGraph: tasteGraph}
}

func (f *CatalogFlowImpl) AudienceOptions(_ context.Context) *dto.AudienceOptionsResponse {
	return &dto.AudienceOptionsResponse{
		Audiences: models.AudienceOptionCatalog,
		Genres:    models.GenreCatalog,
		AgeGroups: models.AgeGroups,
		Genders:   []models.Gender{models.GenderAll, models.GenderMale, models.GenderFemale},
	}
}

// SearchEntities proxies a free-text search to the taste graph
func (f *CatalogFlowImpl) SearchEntities(ctx context.Context, req *dto.EntitySearchRequest) (*dto.EntitySearchResponse, error) {
	query := utils.SanitizeText(req.Query)
	if query == "" {
		return nil, validationError("query is required")
	}
	if utils.RuneLen(query) > utils.EntitySearchQueryMaxLen {
		return nil, validationError("query must be at most %d characters", utils.EntitySearchQueryMaxLen)
	}

	var entityType *models.EntityType
	if req.Type != "" {
		t, ok := models.ParseEntityType(req.Type)
		if !ok {
			return nil, validationError("Unknown entity type: %s", req.Type)
		}
		entityType = &t
	}

	results, err := f.tasteGraph.Search(ctx, query, entityType, utils.EntitySearchMaxResults)
	if err != nil {
		logger.FromContext(ctx).Error("entity search failed", zap.String("query", query), zap.Error(err))
		return nil, NewBusinessError("ENTITY_SEARCH_FAILED", "Failed to search entities", fmt.Errorf("%w: %w", ErrExternalAPI, err))
	}
	if len(results) > utils.EntitySearchMaxResults {
		results = results[:utils.EntitySearchMaxResults]
	}
	if results == nil {
		results = []models.Entity{}
	}

	return &dto.EntitySearchResponse{Results: results}, nil
}
