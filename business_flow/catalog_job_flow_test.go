package businessflow

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/amirphl/AdaptMuse/app/dto"
	"github.com/amirphl/AdaptMuse/models"
	testutil "github.com/amirphl/AdaptMuse/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudienceOptions(t *testing.T) {
	flow := NewCatalogFlow(&fakeTasteGraph{})
	opts := flow.AudienceOptions(context.Background())

	assert.NotEmpty(t, opts.Audiences)
	assert.NotEmpty(t, opts.Genres)
	assert.Equal(t, models.AgeGroups, opts.AgeGroups)
	assert.Equal(t, []models.Gender{models.GenderAll, models.GenderMale, models.GenderFemale}, opts.Genders)
}

func TestSearchEntities(t *testing.T) {
	hits := make([]models.Entity, 25)
	for i := range hits {
		hits[i] = testutil.NewTestEntity(uuid.NewString(), "hit", models.EntityTypeBrand)
	}
	tg := &fakeTasteGraph{searchResult: hits}
	flow := NewCatalogFlow(tg)
	ctx := context.Background()

	res, err := flow.SearchEntities(ctx, &dto.EntitySearchRequest{Query: " blue <bottle> ", Type: "brand"})
	require.NoError(t, err)
	assert.Len(t, res.Results, 20)
	assert.Equal(t, []string{"blue bottle"}, tg.searchQueries)

	_, err = flow.SearchEntities(ctx, &dto.EntitySearchRequest{Query: "  "})
	assert.True(t, IsValidation(err))

	_, err = flow.SearchEntities(ctx, &dto.EntitySearchRequest{Query: strings.Repeat("q", 101)})
	assert.True(t, IsValidation(err))

	_, err = flow.SearchEntities(ctx, &dto.EntitySearchRequest{Query: "x", Type: "spaceship"})
	assert.True(t, IsValidation(err))

	empty, err := NewCatalogFlow(&fakeTasteGraph{}).SearchEntities(ctx, &dto.EntitySearchRequest{Query: "x"})
	require.NoError(t, err)
	assert.NotNil(t, empty.Results)
}

func TestJobReads(t *testing.T) {
	repo := newMemJobRepo()
	older := &models.Job{ID: uuid.NewString(), UserID: testUserID, Title: "older", CreatedAt: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)}
	newer := &models.Job{ID: uuid.NewString(), UserID: testUserID, Title: "newer", CreatedAt: time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)}
	foreign := &models.Job{ID: uuid.NewString(), UserID: uuid.NewString(), Title: "foreign"}
	for _, j := range []*models.Job{older, newer, foreign} {
		require.NoError(t, repo.Save(context.Background(), j))
	}
	flow := NewJobFlow(repo, nil)
	ctx := context.Background()

	list, err := flow.ListJobs(ctx, testUserID)
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "newer", list.Items[0].Title)
	assert.Equal(t, "older", list.Items[1].Title)

	got, err := flow.GetJob(ctx, testUserID, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "older", got.Title)

	_, err = flow.GetJob(ctx, testUserID, foreign.ID)
	assert.True(t, IsJobNotFound(err))

	_, err = flow.GetJob(ctx, testUserID, "nope")
	assert.True(t, IsJobNotFound(err))
}
