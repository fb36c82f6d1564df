package businessflow

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/amirphl/AdaptMuse/app/services"
	"github.com/amirphl/AdaptMuse/models"
)

var errStore = errors.New("store unavailable")

type memAudienceRepo struct {
	mu        sync.Mutex
	audiences map[string]*models.Audience
	saveErr   error
	saves     int
}

func newMemAudienceRepo(seed ...*models.Audience) *memAudienceRepo {
	r := &memAudienceRepo{audiences: map[string]*models.Audience{}}
	for _, a := range seed {
		r.audiences[a.ID] = a
	}
	return r
}

func (r *memAudienceRepo) ByID(_ context.Context, id string) (*models.Audience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.audiences[id], nil
}

func (r *memAudienceRepo) ByFilter(_ context.Context, filter models.AudienceFilter, _ string, _, _ int) ([]*models.Audience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Audience
	for _, a := range r.audiences {
		if filter.UserID != nil && a.UserID != *filter.UserID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *memAudienceRepo) Save(_ context.Context, a *models.Audience) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.audiences[a.ID] = a
	return nil
}

func (r *memAudienceRepo) Count(ctx context.Context, filter models.AudienceFilter) (int64, error) {
	out, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(out)), nil
}

func (r *memAudienceRepo) Exists(ctx context.Context, filter models.AudienceFilter) (bool, error) {
	n, _ := r.Count(ctx, filter)
	return n > 0, nil
}

func (r *memAudienceRepo) ByUserAndID(_ context.Context, userID, id string) (*models.Audience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.audiences[id]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	return a, nil
}

func (r *memAudienceRepo) ListByUser(ctx context.Context, userID string, _, _ int) ([]*models.Audience, error) {
	out, _ := r.ByFilter(ctx, models.AudienceFilter{UserID: &userID}, "", 0, 0)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memJobRepo struct {
	mu      sync.Mutex
	jobs    map[string]*models.Job
	saveErr error
	lists   int
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: map[string]*models.Job{}}
}

func (r *memJobRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

func (r *memJobRepo) ByID(_ context.Context, id string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.jobs[id], nil
}

func (r *memJobRepo) ByFilter(_ context.Context, filter models.JobFilter, _ string, _, _ int) ([]*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Job
	for _, j := range r.jobs {
		if filter.UserID != nil && j.UserID != *filter.UserID {
			continue
		}
		out = append(out, j)
	}
	return out, nil
}

func (r *memJobRepo) Save(_ context.Context, j *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.jobs[j.ID] = j
	return nil
}

func (r *memJobRepo) Count(ctx context.Context, filter models.JobFilter) (int64, error) {
	out, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(out)), nil
}

func (r *memJobRepo) Exists(ctx context.Context, filter models.JobFilter) (bool, error) {
	n, _ := r.Count(ctx, filter)
	return n > 0, nil
}

func (r *memJobRepo) ByUserAndID(_ context.Context, userID, id string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok || j.UserID != userID {
		return nil, nil
	}
	return j, nil
}

func (r *memJobRepo) ListByUser(ctx context.Context, userID string, _, _ int) ([]*models.Job, error) {
	r.mu.Lock()
	r.lists++
	r.mu.Unlock()
	out, _ := r.ByFilter(ctx, models.JobFilter{UserID: &userID}, "", 0, 0)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memUserRepo struct {
	mu      sync.Mutex
	users   map[string]*models.User
	saveCtx context.Context
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*models.User{}}
}

func (r *memUserRepo) ByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *memUserRepo) ByFilter(_ context.Context, filter models.UserFilter, _ string, _, _ int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.users {
		if filter.Email != nil && u.Email != *filter.Email {
			continue
		}
		if filter.ID != nil && u.ID != *filter.ID {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *memUserRepo) Save(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCtx = ctx
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	out, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(out)), nil
}

func (r *memUserRepo) Exists(ctx context.Context, filter models.UserFilter) (bool, error) {
	n, _ := r.Count(ctx, filter)
	return n > 0, nil
}

func (r *memUserRepo) ByEmail(ctx context.Context, email string) (*models.User, error) {
	out, _ := r.ByFilter(ctx, models.UserFilter{Email: &email}, "", 0, 0)
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *memUserRepo) UpdateLastLogin(_ context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

// fakeTasteGraph answers from fixed tables and records every call
type fakeTasteGraph struct {
	mu sync.Mutex

	entities     map[string]models.Entity
	insights     map[models.EntityType]*models.Entity
	insightErrs  map[models.EntityType]error
	curves       map[string]services.EntityDemographics
	lookupErr    error
	curvesErr    error
	searchResult []models.Entity

	lookupCalls   int
	insightCalls  []services.InsightsQuery
	curvesCalls   int
	curvesIDs     []string
	searchQueries []string
}

func (f *fakeTasteGraph) LookupEntities(_ context.Context, ids []string) ([]models.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookupCalls++
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	out := []models.Entity{}
	for _, id := range ids {
		if e, ok := f.entities[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeTasteGraph) Insights(_ context.Context, q services.InsightsQuery) (*models.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insightCalls = append(f.insightCalls, q)
	if err := f.insightErrs[q.Category]; err != nil {
		return nil, err
	}
	if e, ok := f.insights[q.Category]; ok {
		return e, nil
	}
	return nil, services.ErrNoRecommendation
}

func (f *fakeTasteGraph) Demographics(_ context.Context, ids []string) (map[string]services.EntityDemographics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.curvesCalls++
	f.curvesIDs = append([]string(nil), ids...)
	if f.curvesErr != nil {
		return nil, f.curvesErr
	}
	return f.curves, nil
}

func (f *fakeTasteGraph) Search(_ context.Context, query string, _ *models.EntityType, _ int) ([]models.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchQueries = append(f.searchQueries, query)
	return f.searchResult, nil
}

// scriptedCompleter picks its answer by prompt kind
type scriptedCompleter struct {
	mu         sync.Mutex
	content    string
	icon       string
	contentErr error
	iconErr    error
	prompts    []string
}

func (c *scriptedCompleter) Provider() string { return "scripted" }

func (c *scriptedCompleter) Complete(_ context.Context, prompt string, _ int, _ float64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	if strings.Contains(prompt, "single icon") {
		return c.icon, c.iconErr
	}
	return c.content, c.contentErr
}

func (c *scriptedCompleter) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

func ptr[T any](v T) *T { return &v }
