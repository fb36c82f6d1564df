package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirphl/AdaptMuse/app/dto"
	"github.com/amirphl/AdaptMuse/app/services"
	"github.com/amirphl/AdaptMuse/config"
	"github.com/amirphl/AdaptMuse/logger"
	"github.com/amirphl/AdaptMuse/models"
	"github.com/amirphl/AdaptMuse/repository"
	"github.com/amirphl/AdaptMuse/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

const iconTemperature = 0.0

// ContentFlow handles LLM content generation for an audience
type ContentFlow interface {
	GenerateContent(ctx context.Context, caller dto.Caller, req *dto.GenerateContentRequest) (*dto.JobDTO, error)
}

// AllowList holds the emails or user ids permitted to generate content
type AllowList []string

// Permits reports whether the caller's email or id is listed
func (l AllowList) Permits(userID, email string) bool {
	return utils.ContainsFold(l, email) || utils.ContainsFold(l, userID)
}

// ContentFlowImpl implements the content generation pipeline
type ContentFlowImpl struct {
	audienceRepo repository.AudienceRepository
	jobRepo      repository.JobRepository
	content      services.Completer
	icon         services.Completer
	cache        services.SessionCache
	allowList    AllowList
	llmCfg       config.LLMConfig
}

func NewContentFlow(
	audienceRepo repository.AudienceRepository,
	jobRepo repository.JobRepository,
	completer services.Completer,
	cache services.SessionCache,
	allowList AllowList,
	llmCfg config.LLMConfig,
) ContentFlow {
	if cache == nil {
		cache = services.NoopSessionCache{}
	}
	return &ContentFlowImpl{
		audienceRepo: audienceRepo,
		jobRepo:      jobRepo,
		content:      services.WithPurpose(completer, "content"),
		icon:         services.WithPurpose(completer, "icon"),
		cache:        cache,
		allowList:    allowList,
		llmCfg:       llmCfg,
	}
}

type contentInput struct {
	audienceID      string
	contentType     string
	title           string
	context         string
	existingContent *string
}

// GenerateContent authorizes, validates, generates content and icon concurrently and persists a new job
func (f *ContentFlowImpl) GenerateContent(ctx context.Context, caller dto.Caller, req *dto.GenerateContentRequest) (*dto.JobDTO, error) {
	log := logger.FromContext(ctx).With(zap.String("user_id", caller.UserID))

	if !f.allowList.Permits(caller.UserID, caller.Email) {
		log.Warn("content generation denied by allow-list")
		return nil, NewBusinessError("GENERATION_NOT_ALLOWED", "You are not allowed to generate content", ErrForbidden)
	}

	in, err := normalizeContentRequest(req)
	if err != nil {
		return nil, err
	}

	audience, err := loadOwnedAudience(ctx, f.audienceRepo, caller.UserID, in.audienceID)
	if err != nil {
		return nil, err
	}

	if in.title == "" {
		in.title = truncateRunes(fmt.Sprintf("%s for %s", in.contentType, audience.Name), utils.JobTitleMaxLength)
	}

	contentPrompt := buildContentPrompt(audience, in.contentType, in.context, in.existingContent)
	iconPrompt := buildIconPrompt(in.contentType, in.title)

	var generated, rawIcon string
	var contentErr, iconErr error

	var g errgroup.Group
	g.Go(func() error {
		generated, contentErr = f.content.Complete(ctx, contentPrompt, f.llmCfg.ContentMaxTokens, f.llmCfg.ContentTemperature)
		return nil
	})
	g.Go(func() error {
		rawIcon, iconErr = f.icon.Complete(ctx, iconPrompt, f.llmCfg.IconMaxTokens, iconTemperature)
		return nil
	})
	_ = g.Wait()

	if contentErr != nil {
		log.Error("content generation failed", zap.Error(contentErr))
		return nil, NewBusinessError("GENERATION_FAILED", "Failed to generate content", fmt.Errorf("%w: content: %w", ErrGenerationFailed, contentErr))
	}
	if iconErr != nil {
		log.Error("icon generation failed", zap.Error(iconErr))
		return nil, NewBusinessError("GENERATION_FAILED", "Failed to generate icon", fmt.Errorf("%w: icon: %w", ErrGenerationFailed, iconErr))
	}

	generated = strings.TrimSpace(generated)
	if generated == "" {
		return nil, NewBusinessError("GENERATION_FAILED", "Failed to generate content", fmt.Errorf("%w: content: %w", ErrGenerationFailed, services.ErrEmptyCompletion))
	}

	icon := normalizeIcon(rawIcon)
	if icon != strings.ToLower(strings.TrimSpace(rawIcon)) {
		log.Debug("icon suggestion normalised", zap.String("raw", rawIcon), zap.String("icon", icon))
	}

	job := &models.Job{
		ID:         uuid.NewString(),
		UserID:     caller.UserID,
		AudienceID: audience.ID,
		Title:      in.title,
		Audience: datatypes.NewJSONType(models.JobAudience{
			ID:       audience.ID,
			Name:     audience.Name,
			ImageURL: audience.ImageURL,
		}),
		Icon:             icon,
		ContentType:      in.contentType,
		OriginalContent:  in.existingContent,
		GeneratedContent: generated,
		Context:          in.context,
		CreatedAt:        utils.UTCNow(),
	}

	if err := f.jobRepo.Save(ctx, job); err != nil {
		log.Error("failed to save job", zap.Error(err))
		return nil, NewBusinessError("JOB_SAVE_FAILED", "Failed to save generated content", err)
	}

	if err := f.cache.InvalidateJobs(ctx, caller.UserID); err != nil {
		log.Warn("failed to invalidate job cache", zap.Error(err))
	}

	log.Info("content generated", zap.String("job_id", job.ID), zap.String("audience_id", audience.ID), zap.String("icon", icon))

	return ToJobDTO(job), nil
}

// normalizeContentRequest sanitizes every text field before checking bounds
func normalizeContentRequest(req *dto.GenerateContentRequest) (*contentInput, error) {
	if req == nil {
		return nil, validationError("Request body is required")
	}

	in := &contentInput{
		audienceID:      strings.TrimSpace(req.AudienceID),
		contentType:     utils.SanitizeText(req.ContentType),
		title:           utils.SanitizeText(req.Title),
		context:         utils.SanitizeText(req.Context),
		existingContent: utils.SanitizeTextPtr(req.ExistingContent),
	}

	if in.audienceID == "" {
		return nil, validationError("audience_id is required")
	}
	if in.contentType == "" {
		return nil, validationError("content_type is required")
	}
	if utils.RuneLen(in.contentType) > utils.ContentTypeMaxLength {
		return nil, validationError("content_type must be at most %d characters", utils.ContentTypeMaxLength)
	}
	if utils.RuneLen(in.title) > utils.JobTitleMaxLength {
		return nil, validationError("title must be at most %d characters", utils.JobTitleMaxLength)
	}
	if in.context == "" {
		return nil, validationError("context is required")
	}
	if utils.RuneLen(in.context) > utils.ContextMaxLength {
		return nil, validationError("context must be at most %d characters", utils.ContextMaxLength)
	}
	if in.existingContent != nil && utils.RuneLen(*in.existingContent) > utils.ExistingContentMaxLen {
		return nil, validationError("existing_content must be at most %d characters", utils.ExistingContentMaxLen)
	}

	return in, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
