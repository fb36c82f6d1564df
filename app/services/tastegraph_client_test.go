package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/amirphl/AdaptMuse/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	path   string
	query  map[string][]string
	apiKey string
}

func newTasteGraphServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*TasteGraphClientImpl, *[]recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var calls []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, recordedRequest{path: r.URL.Path, query: r.URL.Query(), apiKey: r.Header.Get("X-Api-Key")})
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewTasteGraphClient(srv.URL+"/", "test-key", 5*time.Second), &calls
}

func TestLookupEntities(t *testing.T) {
	t.Run("empty id list makes no call", func(t *testing.T) {
		client, calls := newTasteGraphServer(t, func(w http.ResponseWriter, r *http.Request) {})
		entities, err := client.LookupEntities(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, entities)
		assert.NotNil(t, entities)
		assert.Empty(t, *calls)
	})

	t.Run("batched lookup", func(t *testing.T) {
		client, calls := newTasteGraphServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results":[
				{"entity_id":"E1","name":"Blue Bottle","type":"urn:entity:brand","popularity":0.91,"properties":{"image":{"url":"https://img/e1.jpg"}}},
				{"name":"no id"},
				{"entity_id":"E2","name":"Dune","type":"urn:entity:movie"}
			]}`))
		})

		entities, err := client.LookupEntities(context.Background(), []string{"E1", "E2"})
		require.NoError(t, err)
		require.Len(t, entities, 2)

		assert.Equal(t, "E1", entities[0].EntityID)
		assert.Equal(t, models.EntityTypeBrand, entities[0].Type)
		require.NotNil(t, entities[0].Popularity)
		assert.InDelta(t, 0.91, *entities[0].Popularity, 1e-9)
		require.NotNil(t, entities[0].ImageURL)
		assert.Equal(t, "https://img/e1.jpg", *entities[0].ImageURL)

		assert.Equal(t, models.EntityTypeMovie, entities[1].Type)
		assert.Nil(t, entities[1].ImageURL)

		require.Len(t, *calls, 1)
		call := (*calls)[0]
		assert.Equal(t, "/entities", call.path)
		assert.Equal(t, []string{"E1,E2"}, call.query["entity_ids"])
		assert.Equal(t, "test-key", call.apiKey)
	})

	t.Run("non-2xx fails", func(t *testing.T) {
		client, _ := newTasteGraphServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := client.LookupEntities(context.Background(), []string{"E1"})
		assert.ErrorIs(t, err, ErrTasteGraphUnavailable)
	})

	t.Run("missing envelope is rejected", func(t *testing.T) {
		client, _ := newTasteGraphServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":[]}`))
		})
		_, err := client.LookupEntities(context.Background(), []string{"E1"})
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestBuildInsightsParams(t *testing.T) {
	tests := []struct {
		name       string
		query      InsightsQuery
		wantGender string
		absent     []string
	}{
		{
			name:   "gender all is never forwarded",
			query:  InsightsQuery{Category: models.EntityTypeMovie, Gender: models.GenderAll},
			absent: []string{"signal.demographics.gender", "signal.interests.entities", "signal.demographics.audiences", "signal.demographics.age", "signal.interests.tags"},
		},
		{
			name:       "female forwarded",
			query:      InsightsQuery{Category: models.EntityTypeBook, Gender: models.GenderFemale, AgeGroups: []string{"25_to_29"}},
			wantGender: "female",
		},
		{
			name:       "male forwarded with every signal",
			query:      InsightsQuery{Category: models.EntityTypePodcast, Gender: models.GenderMale, EntityIDs: []string{"E1", "E2"}, AudienceIDs: []string{"urn:audience:a"}, GenreTags: []string{"urn:tag:genre:drama"}},
			wantGender: "male",
		},
		{
			name:   "empty gender behaves as all",
			query:  InsightsQuery{Category: models.EntityTypeBrand},
			absent: []string{"signal.demographics.gender"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := buildInsightsParams(tt.query)
			assert.Equal(t, tt.query.Category.URN(), params.Get("filter.type"))
			assert.Equal(t, "1", params.Get("take"))
			assert.Equal(t, tt.wantGender, params.Get("signal.demographics.gender"))
			for _, key := range tt.absent {
				assert.False(t, params.Has(key), "unexpected %s", key)
			}
			if len(tt.query.EntityIDs) > 0 {
				assert.Equal(t, "E1,E2", params.Get("signal.interests.entities"))
			}
		})
	}
}

func TestInsights(t *testing.T) {
	t.Run("first entity wins and inherits category", func(t *testing.T) {
		client, calls := newTasteGraphServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success":true,"results":{"entities":[{"entity_id":"R1","name":"Chef's Table","type":"urn:tag"},{"entity_id":"R2","name":"Other"}]}}`))
		})

		e, err := client.Insights(context.Background(), InsightsQuery{Category: models.EntityTypeTVShow, Gender: models.GenderAll})
		require.NoError(t, err)
		assert.Equal(t, "R1", e.EntityID)
		assert.Equal(t, models.EntityTypeTVShow, e.Type)
		require.Len(t, *calls, 1)
		assert.Equal(t, "/v2/insights", (*calls)[0].path)
		assert.NotContains(t, (*calls)[0].query, "signal.demographics.gender")
	})

	t.Run("empty entities list", func(t *testing.T) {
		client, _ := newTasteGraphServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results":{"entities":[]}}`))
		})
		_, err := client.Insights(context.Background(), InsightsQuery{Category: models.EntityTypeMovie})
		assert.ErrorIs(t, err, ErrNoRecommendation)
	})

	t.Run("shape mismatch", func(t *testing.T) {
		client, _ := newTasteGraphServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results":[]}`))
		})
		_, err := client.Insights(context.Background(), InsightsQuery{Category: models.EntityTypeMovie})
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestDemographics(t *testing.T) {
	t.Run("empty ids short-circuit", func(t *testing.T) {
		client, calls := newTasteGraphServer(t, func(w http.ResponseWriter, r *http.Request) {})
		out, err := client.Demographics(context.Background(), []string{})
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Empty(t, *calls)
	})

	t.Run("curves keyed by entity", func(t *testing.T) {
		client, calls := newTasteGraphServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results":{"demographics":[
				{"entity_id":"E1","query":{"age":{"25_to_29":0.2,"30_to_34":-0.1},"gender":{"male":0.1,"female":-0.1}}},
				{"query":{"age":{"25_to_29":9}}}
			]}}`))
		})

		out, err := client.Demographics(context.Background(), []string{"E1", "R1"})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.InDelta(t, -0.1, out["E1"].Age["30_to_34"], 1e-9)
		assert.InDelta(t, 0.1, out["E1"].Gender["male"], 1e-9)

		require.Len(t, *calls, 1)
		assert.Equal(t, "urn:demographics", (*calls)[0].query["filter.type"][0])
		assert.Equal(t, "E1,R1", (*calls)[0].query["signal.interests.entities"][0])
	})
}

func TestSearch(t *testing.T) {
	client, calls := newTasteGraphServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"entity_id":"A1","name":"Radiohead","type":"urn:entity:artist"}]}`))
	})

	artist := models.EntityTypeArtist
	out, err := client.Search(context.Background(), "radio", &artist, 20)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Radiohead", out[0].Name)

	require.Len(t, *calls, 1)
	assert.Equal(t, "/search", (*calls)[0].path)
	assert.Equal(t, "radio", (*calls)[0].query["query"][0])
	assert.Equal(t, "urn:entity:artist", (*calls)[0].query["types"][0])
	assert.Equal(t, "20", (*calls)[0].query["take"][0])
}
