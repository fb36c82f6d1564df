package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amirphl/AdaptMuse/models"
	"github.com/amirphl/AdaptMuse/repository"
	testutil "github.com/amirphl/AdaptMuse/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerID = "11111111-1111-4111-8111-111111111111"
	otherID = "22222222-2222-4222-8222-222222222222"
)

func setupMockDB(t *testing.T) *testutil.MockDB {
	t.Helper()
	mdb, err := testutil.SetupMockDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mdb.ExpectationsWereMet())
		_ = mdb.Close()
	})
	return mdb
}

func audienceColumns() []string {
	return []string{
		"id", "user_id", "name", "image_url", "entities", "recommended_entities",
		"age_totals", "gender_totals", "demographics", "selected_options", "created_at",
	}
}

func TestAudienceRepository_ByUserAndID(t *testing.T) {
	t.Run("owned row decodes json columns", func(t *testing.T) {
		mdb := setupMockDB(t)
		repo := repository.NewAudienceRepository(mdb.DB)

		created := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows(audienceColumns()).AddRow(
			"a-1", ownerID, "Coffee Lovers", nil,
			`[{"entity_id":"E1","name":"Blue Bottle Coffee","type":"brand"}]`,
			`[]`,
			`{"24_and_younger":0.1,"25_to_29":0.2,"30_to_34":0,"35_to_44":0,"45_to_54":0,"55_and_older":0}`,
			`{"male":0.3,"female":0.4}`,
			`{"Coffee Enthusiasts"}`,
			`{"audiences":{},"genres":{},"age_groups":[],"gender":"all"}`,
			created,
		)
		mdb.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "audiences" WHERE id = $1 AND user_id = $2`)).
			WillReturnRows(rows)

		audience, err := repo.ByUserAndID(context.Background(), ownerID, "a-1")
		require.NoError(t, err)
		require.NotNil(t, audience)

		assert.Equal(t, "Coffee Lovers", audience.Name)
		require.Len(t, audience.Entities, 1)
		assert.Equal(t, "Blue Bottle Coffee", audience.Entities[0].Name)
		assert.Empty(t, audience.RecommendedEntities)
		assert.InDelta(t, 0.2, audience.AgeTotals.Data().Age25To29, 1e-9)
		assert.InDelta(t, 0.4, audience.GenderTotals.Data().Female, 1e-9)
		assert.Equal(t, []string{"Coffee Enthusiasts"}, []string(audience.Demographics))
		assert.True(t, audience.IsWellFormed())
	})

	t.Run("other user's row is absent", func(t *testing.T) {
		mdb := setupMockDB(t)
		repo := repository.NewAudienceRepository(mdb.DB)

		mdb.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "audiences" WHERE id = $1 AND user_id = $2`)).
			WillReturnRows(sqlmock.NewRows(audienceColumns()))

		audience, err := repo.ByUserAndID(context.Background(), otherID, "a-1")
		require.NoError(t, err)
		assert.Nil(t, audience)
	})

	t.Run("query failure is wrapped", func(t *testing.T) {
		mdb := setupMockDB(t)
		repo := repository.NewAudienceRepository(mdb.DB)

		mdb.Mock.ExpectQuery(`SELECT \* FROM "audiences"`).WillReturnError(errors.New("connection reset"))

		_, err := repo.ByUserAndID(context.Background(), ownerID, "a-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to find audiences by filter")
	})
}

func TestAudienceRepository_ListByUserNewestFirst(t *testing.T) {
	mdb := setupMockDB(t)
	repo := repository.NewAudienceRepository(mdb.DB)

	mdb.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "audiences" WHERE user_id = $1 ORDER BY created_at DESC`)).
		WillReturnRows(sqlmock.NewRows(audienceColumns()))

	rows, err := repo.ListByUser(context.Background(), ownerID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAudienceRepository_Save(t *testing.T) {
	t.Run("commits a single insert", func(t *testing.T) {
		mdb := setupMockDB(t)
		repo := repository.NewAudienceRepository(mdb.DB)

		mdb.Mock.ExpectBegin()
		mdb.Mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "audiences"`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mdb.Mock.ExpectCommit()

		require.NoError(t, repo.Save(context.Background(), testutil.NewTestAudience(ownerID, "Coffee Lovers")))
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		mdb := setupMockDB(t)
		repo := repository.NewAudienceRepository(mdb.DB)

		mdb.Mock.ExpectBegin()
		mdb.Mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "audiences"`)).
			WillReturnError(errors.New("disk full"))
		mdb.Mock.ExpectRollback()

		err := repo.Save(context.Background(), testutil.NewTestAudience(ownerID, "Coffee Lovers"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save entity")
	})
}

func TestJobRepository(t *testing.T) {
	columns := []string{
		"id", "user_id", "audience_id", "title", "audience", "icon", "content_type",
		"original_content", "generated_content", "context", "created_at",
	}

	t.Run("ByUserAndID", func(t *testing.T) {
		mdb := setupMockDB(t)
		repo := repository.NewJobRepository(mdb.DB)

		mdb.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "jobs" WHERE id = $1 AND user_id = $2`)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				"j-1", ownerID, "a-1", "Summer launch",
				`{"id":"a-1","name":"Coffee Lovers","image_url":null}`,
				"instagram", "Instagram caption", nil, "Cold brew season is here", "launch", time.Now(),
			))

		job, err := repo.ByUserAndID(context.Background(), ownerID, "j-1")
		require.NoError(t, err)
		require.NotNil(t, job)
		assert.Equal(t, "instagram", job.Icon)
		assert.Equal(t, "Coffee Lovers", job.Audience.Data().Name)
		assert.Nil(t, job.OriginalContent)
	})

	t.Run("ListByUser", func(t *testing.T) {
		mdb := setupMockDB(t)
		repo := repository.NewJobRepository(mdb.DB)

		mdb.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "jobs" WHERE user_id = $1 ORDER BY created_at DESC`)).
			WillReturnRows(sqlmock.NewRows(columns))

		jobs, err := repo.ListByUser(context.Background(), ownerID, 0, 0)
		require.NoError(t, err)
		assert.Empty(t, jobs)
	})
}

func TestUserRepository(t *testing.T) {
	columns := []string{"id", "email", "password_hash", "display_name", "is_email_verified", "created_at", "updated_at", "last_login_at"}

	t.Run("ByEmail normalizes case", func(t *testing.T) {
		mdb := setupMockDB(t)
		repo := repository.NewUserRepository(mdb.DB)

		now := time.Now()
		mdb.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(ownerID, "jane@example.com", "hash", "Jane", false, now, now, nil))

		user, err := repo.ByEmail(context.Background(), "  Jane@Example.COM ")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, ownerID, user.ID)
	})

	t.Run("ByEmail missing", func(t *testing.T) {
		mdb := setupMockDB(t)
		repo := repository.NewUserRepository(mdb.DB)

		mdb.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
			WillReturnRows(sqlmock.NewRows(columns))

		user, err := repo.ByEmail(context.Background(), "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("Exists", func(t *testing.T) {
		mdb := setupMockDB(t)
		repo := repository.NewUserRepository(mdb.DB)

		mdb.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE email = $1`)).
			WithArgs("jane@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		email := "jane@example.com"
		exists, err := repo.Exists(context.Background(), models.UserFilter{Email: &email})
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("UpdateLastLogin", func(t *testing.T) {
		mdb := setupMockDB(t)
		repo := repository.NewUserRepository(mdb.DB)

		mdb.Mock.ExpectBegin()
		mdb.Mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mdb.Mock.ExpectCommit()

		require.NoError(t, repo.UpdateLastLogin(context.Background(), ownerID, time.Now()))
	})

	t.Run("ByID missing row", func(t *testing.T) {
		mdb := setupMockDB(t)
		repo := repository.NewUserRepository(mdb.DB)

		mdb.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
			WillReturnRows(sqlmock.NewRows(columns))

		user, err := repo.ByID(context.Background(), ownerID)
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestWithTransaction(t *testing.T) {
	t.Run("writes share the outer transaction", func(t *testing.T) {
		mdb := setupMockDB(t)
		audiences := repository.NewAudienceRepository(mdb.DB)
		jobs := repository.NewJobRepository(mdb.DB)

		mdb.Mock.ExpectBegin()
		mdb.Mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "audiences"`)).WillReturnResult(sqlmock.NewResult(0, 1))
		mdb.Mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "jobs"`)).WillReturnResult(sqlmock.NewResult(0, 1))
		mdb.Mock.ExpectCommit()

		audience := testutil.NewTestAudience(ownerID, "Coffee Lovers")
		err := repository.WithTransaction(context.Background(), mdb.DB, func(ctx context.Context) error {
			if err := audiences.Save(ctx, audience); err != nil {
				return err
			}
			return jobs.Save(ctx, &models.Job{
				ID:               "33333333-3333-4333-8333-333333333333",
				UserID:           ownerID,
				AudienceID:       audience.ID,
				Title:            "Summer launch",
				Icon:             models.DefaultJobIcon,
				ContentType:      "Email",
				GeneratedContent: "Hello",
				Context:          "launch",
				CreatedAt:        time.Now(),
			})
		})
		require.NoError(t, err)
	})

	t.Run("runner wraps exists and insert", func(t *testing.T) {
		mdb := setupMockDB(t)
		users := repository.NewUserRepository(mdb.DB)
		run := repository.NewTxRunner(mdb.DB)

		mdb.Mock.ExpectBegin()
		mdb.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE email = $1`)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mdb.Mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users"`)).WillReturnResult(sqlmock.NewResult(0, 1))
		mdb.Mock.ExpectCommit()

		email := "kim@example.com"
		err := run(context.Background(), func(ctx context.Context) error {
			exists, err := users.Exists(ctx, models.UserFilter{Email: &email})
			if err != nil || exists {
				return errors.Join(err, errors.New("unexpected existing user"))
			}
			now := time.Now()
			return users.Save(ctx, &models.User{ID: ownerID, Email: email, PasswordHash: "hash", DisplayName: "Kim", CreatedAt: now, UpdatedAt: now})
		})
		require.NoError(t, err)
	})

	t.Run("callback error rolls back", func(t *testing.T) {
		mdb := setupMockDB(t)

		mdb.Mock.ExpectBegin()
		mdb.Mock.ExpectRollback()

		boom := errors.New("boom")
		err := repository.WithTransaction(context.Background(), mdb.DB, func(context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
	})
}
