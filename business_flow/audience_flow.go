package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirphl/AdaptMuse/app/dto"
	"github.com/amirphl/AdaptMuse/app/services"
	"github.com/amirphl/AdaptMuse/logger"
	"github.com/amirphl/AdaptMuse/models"
	"github.com/amirphl/AdaptMuse/repository"
	"github.com/amirphl/AdaptMuse/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

// AudienceFlow handles audience aggregation and retrieval
type AudienceFlow interface {
	CreateAudience(ctx context.Context, userID string, req *dto.CreateAudienceRequest) (*dto.AudienceDTO, error)
	ListAudiences(ctx context.Context, userID string) (*dto.ListResponse[dto.AudienceSummaryDTO], error)
	GetAudience(ctx context.Context, userID, audienceID string) (*dto.AudienceDTO, error)
	ExportAudience(ctx context.Context, userID, audienceID string) (*dto.AudienceExport, error)
}

// AudienceFlowImpl implements the audience aggregation pipeline
type AudienceFlowImpl struct {
	audienceRepo repository.AudienceRepository
	tasteGraph   services.TasteGraphClient
	avatars      services.AvatarGenerator
	cache        services.SessionCache
}

func NewAudienceFlow(
	audienceRepo repository.AudienceRepository,
	tasteGraph services.TasteGraphClient,
	avatars services.AvatarGenerator,
	cache services.SessionCache,
) AudienceFlow {
	if avatars == nil {
		avatars = services.DisabledAvatarGenerator{}
	}
	if cache == nil {
		cache = services.NoopSessionCache{}
	}
	return &AudienceFlowImpl{
		audienceRepo: audienceRepo,
		tasteGraph:   tasteGraph,
		avatars:      avatars,
		cache:        cache,
	}
}

// audienceSelections is a validated, de-duplicated view of a create request
type audienceSelections struct {
	name         string
	entityIDs    []string
	audienceIDs  []string
	genreTags    []string
	ageGroups    []string
	gender       models.Gender
	options      models.SelectedOptions
	demographics []string
}

// CreateAudience validates the selections, resolves and recommends entities,
// aggregates demographic totals and persists the audience in one write
func (f *AudienceFlowImpl) CreateAudience(ctx context.Context, userID string, req *dto.CreateAudienceRequest) (*dto.AudienceDTO, error) {
	log := logger.FromContext(ctx).With(zap.String("user_id", userID))

	sel, err := normalizeAudienceRequest(req)
	if err != nil {
		return nil, err
	}

	resolved := []models.Entity{}
	if len(sel.entityIDs) > 0 {
		resolved, err = f.tasteGraph.LookupEntities(ctx, sel.entityIDs)
		if err != nil {
			log.Error("entity resolution failed", zap.Error(err))
			return nil, NewBusinessError("ENTITY_RESOLUTION_FAILED", "Failed to resolve entities", fmt.Errorf("%w: %w", ErrExternalAPI, err))
		}
	}

	recommended := f.recommend(ctx, log, resolved, sel)

	ids := make([]string, 0, len(resolved)+len(recommended))
	for _, e := range resolved {
		ids = append(ids, e.EntityID)
	}
	for _, e := range recommended {
		ids = append(ids, e.EntityID)
	}
	curves := f.demographics(ctx, uniqueStrings(ids))
	if curves.IsDegraded() {
		log.Warn("demographics unavailable, continuing without curves", zap.Error(curves.Reason))
	}

	entities := MergeDemographics(resolved, curves.Value)
	recommended = MergeDemographics(recommended, curves.Value)

	all := make([]models.Entity, 0, len(entities)+len(recommended))
	all = append(all, entities...)
	all = append(all, recommended...)
	ageTotals, genderTotals := CalculateDemographicTotals(all)
	RoundTotals(&ageTotals, &genderTotals)

	imageURL, err := f.avatars.Generate(ctx, sel.name, ageTotals, genderTotals)
	if err != nil {
		log.Warn("avatar generation failed", zap.Error(err))
		imageURL = nil
	}

	audience := &models.Audience{
		ID:                  uuid.NewString(),
		UserID:              userID,
		Name:                sel.name,
		ImageURL:            imageURL,
		Entities:            entities,
		RecommendedEntities: recommended,
		AgeTotals:           datatypes.NewJSONType(ageTotals),
		GenderTotals:        datatypes.NewJSONType(genderTotals),
		Demographics:        sel.demographics,
		SelectedOptions:     datatypes.NewJSONType(sel.options),
		CreatedAt:           utils.UTCNow(),
	}
	SanitizeForStorage(audience)

	if err := f.audienceRepo.Save(ctx, audience); err != nil {
		log.Error("failed to save audience", zap.Error(err))
		return nil, NewBusinessError("AUDIENCE_SAVE_FAILED", "Failed to save audience", err)
	}

	if err := f.cache.InvalidateAudiences(ctx, userID); err != nil {
		log.Warn("failed to invalidate audience cache", zap.Error(err))
	}

	log.Info("audience created",
		zap.String("audience_id", audience.ID),
		zap.Int("entities", len(entities)),
		zap.Int("recommended", len(recommended)),
	)

	return ToAudienceDTO(audience), nil
}

// recommend issues one insights request per category concurrently and keeps
// usable results in category declaration order
func (f *AudienceFlowImpl) recommend(ctx context.Context, log *zap.Logger, resolved []models.Entity, sel *audienceSelections) []models.Entity {
	interestIDs := make([]string, 0, len(resolved))
	for _, e := range resolved {
		interestIDs = append(interestIDs, e.EntityID)
	}

	results := make([]services.Degraded[*models.Entity], len(models.RecommendationCategories))

	var g errgroup.Group
	for i, category := range models.RecommendationCategories {
		g.Go(func() error {
			e, err := f.tasteGraph.Insights(ctx, services.InsightsQuery{
				Category:    category,
				EntityIDs:   interestIDs,
				AudienceIDs: sel.audienceIDs,
				AgeGroups:   sel.ageGroups,
				Gender:      sel.gender,
				GenreTags:   sel.genreTags,
			})
			if err != nil {
				results[i] = services.Fallback[*models.Entity](nil, err)
				return nil
			}
			results[i] = services.Ok(e)
			return nil
		})
	}
	_ = g.Wait()

	recommended := make([]models.Entity, 0, len(results))
	for i, r := range results {
		category := string(models.RecommendationCategories[i])
		if r.IsDegraded() || r.Value == nil {
			services.RecordDegradedRecommendation(category)
			log.Warn("no recommendation for category", zap.String("category", category), zap.Error(r.Reason))
			continue
		}
		recommended = append(recommended, *r.Value)
	}
	return recommended
}

// demographics never fails: any upstream error degrades to an empty curve map
func (f *AudienceFlowImpl) demographics(ctx context.Context, ids []string) services.Degraded[map[string]services.EntityDemographics] {
	empty := map[string]services.EntityDemographics{}
	if len(ids) == 0 {
		return services.Ok(empty)
	}
	curves, err := f.tasteGraph.Demographics(ctx, ids)
	if err != nil {
		return services.Fallback(empty, err)
	}
	return services.Ok(curves)
}

func normalizeAudienceRequest(req *dto.CreateAudienceRequest) (*audienceSelections, error) {
	if req == nil {
		return nil, validationError("Request body is required")
	}

	name := strings.TrimSpace(req.Name)
	switch n := utils.RuneLen(name); {
	case n == 0:
		return nil, validationError("Audience name is required")
	case n > utils.AudienceNameMaxLength:
		return nil, validationError("Audience name must be at most %d characters", utils.AudienceNameMaxLength)
	}

	if len(req.Entities) > utils.AudienceMaxEntities {
		return nil, validationError("At most %d entities can be selected", utils.AudienceMaxEntities)
	}
	entityIDs := make([]string, 0, len(req.Entities))
	for i, e := range req.Entities {
		id := strings.TrimSpace(e.EntityID)
		if id == "" {
			return nil, validationError("Entity at position %d has no entity_id", i+1)
		}
		entityIDs = append(entityIDs, id)
	}

	ageGroups := make([]string, 0, len(req.AgeGroup))
	for _, g := range req.AgeGroup {
		g = strings.TrimSpace(g)
		if !models.IsAgeGroup(g) {
			return nil, validationError("Unknown age group: %s", g)
		}
		ageGroups = append(ageGroups, g)
	}

	gender := models.Gender(strings.ToLower(strings.TrimSpace(req.Gender)))
	switch gender {
	case "":
		gender = models.GenderAll
	case models.GenderAll, models.GenderMale, models.GenderFemale:
	default:
		return nil, validationError("Gender must be one of: all, male, female")
	}

	sel := &audienceSelections{
		name:         name,
		entityIDs:    uniqueStrings(entityIDs),
		audienceIDs:  uniqueStrings(trimAll(req.Audiences)),
		genreTags:    uniqueStrings(trimAll(req.Genres)),
		ageGroups:    uniqueStrings(ageGroups),
		gender:       gender,
		demographics: []string{},
	}

	sel.options = models.SelectedOptions{
		Audiences: map[string][]string{},
		Genres:    map[string][]string{},
		AgeGroups: sel.ageGroups,
		Gender:    gender,
	}
	for _, v := range sel.audienceIDs {
		category, opt, ok := models.LookupOption(models.AudienceOptionCatalog, v)
		label := v
		if ok {
			label = opt.Label
		} else {
			category = models.OtherOptionCategory
		}
		sel.options.Audiences[category] = append(sel.options.Audiences[category], v)
		sel.demographics = append(sel.demographics, label)
	}
	for _, v := range sel.genreTags {
		category, _, ok := models.LookupOption(models.GenreCatalog, v)
		if !ok {
			category = models.OtherOptionCategory
		}
		sel.options.Genres[category] = append(sel.options.Genres[category], v)
	}

	return sel, nil
}

// ListAudiences returns the caller's audiences, newest first
func (f *AudienceFlowImpl) ListAudiences(ctx context.Context, userID string) (*dto.ListResponse[dto.AudienceSummaryDTO], error) {
	log := logger.FromContext(ctx)

	audiences, hit, err := f.cache.Audiences(ctx, userID)
	if err != nil {
		log.Warn("audience cache read failed", zap.Error(err))
	}
	if !hit {
		audiences, err = f.audienceRepo.ListByUser(ctx, userID, 0, 0)
		if err != nil {
			return nil, NewBusinessError("AUDIENCE_LIST_FAILED", "Failed to list audiences", err)
		}
		if err := f.cache.SetAudiences(ctx, userID, audiences); err != nil {
			log.Warn("audience cache write failed", zap.Error(err))
		}
	}

	items := make([]dto.AudienceSummaryDTO, 0, len(audiences))
	for _, a := range audiences {
		items = append(items, ToAudienceSummaryDTO(a))
	}
	return &dto.ListResponse[dto.AudienceSummaryDTO]{Items: items, Total: len(items)}, nil
}

func (f *AudienceFlowImpl) GetAudience(ctx context.Context, userID, audienceID string) (*dto.AudienceDTO, error) {
	audience, err := f.loadAudience(ctx, userID, audienceID)
	if err != nil {
		return nil, err
	}
	return ToAudienceDTO(audience), nil
}

// loadAudience reads an audience from the caller's namespace; malformed rows count as absent
func (f *AudienceFlowImpl) loadAudience(ctx context.Context, userID, audienceID string) (*models.Audience, error) {
	return loadOwnedAudience(ctx, f.audienceRepo, userID, audienceID)
}

func loadOwnedAudience(ctx context.Context, repo repository.AudienceRepository, userID, audienceID string) (*models.Audience, error) {
	if _, err := uuid.Parse(audienceID); err != nil {
		return nil, NewBusinessError("AUDIENCE_NOT_FOUND", "Audience not found", ErrAudienceNotFound)
	}

	audience, err := repo.ByUserAndID(ctx, userID, audienceID)
	if err != nil {
		return nil, NewBusinessError("AUDIENCE_LOAD_FAILED", "Failed to load audience", err)
	}
	if !audience.IsWellFormed() {
		return nil, NewBusinessError("AUDIENCE_NOT_FOUND", "Audience not found", ErrAudienceNotFound)
	}
	return audience, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// uniqueStrings drops repeats, keeping first occurrence order
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
