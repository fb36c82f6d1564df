package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amirphl/AdaptMuse/models"
	"github.com/goccy/go-json"
)

var (
	// ErrTasteGraphUnavailable wraps transport failures and non-2xx answers
	ErrTasteGraphUnavailable = errors.New("taste-graph request failed")
	// ErrMalformedResponse is returned when a response does not carry the expected results envelope
	ErrMalformedResponse = errors.New("malformed taste-graph response")
	// ErrNoRecommendation is returned by Insights when the category produced no entity
	ErrNoRecommendation = errors.New("no recommendation for category")
)

const tasteGraphAPIKeyHeader = "X-Api-Key"

// TasteGraphClient talks to the external taste-graph recommendation API
type TasteGraphClient interface {
	// LookupEntities resolves entity ids in one batched call; an empty id list makes no call
	LookupEntities(ctx context.Context, ids []string) ([]models.Entity, error)
	// Insights returns the top entity of one category for the given signals
	Insights(ctx context.Context, q InsightsQuery) (*models.Entity, error)
	// Demographics returns age and gender affinity curves keyed by entity id; an empty id list makes no call
	Demographics(ctx context.Context, ids []string) (map[string]EntityDemographics, error)
	// Search finds entities by free text, optionally restricted to one type
	Search(ctx context.Context, query string, entityType *models.EntityType, take int) ([]models.Entity, error)
}

// InsightsQuery holds the signals forwarded to one filtered-insights request
type InsightsQuery struct {
	Category    models.EntityType
	EntityIDs   []string
	AudienceIDs []string
	AgeGroups   []string
	Gender      models.Gender
	GenreTags   []string
}

// EntityDemographics is the affinity curve pair returned for one entity
type EntityDemographics struct {
	Age    map[string]float64
	Gender map[string]float64
}

type tasteGraphEntity struct {
	EntityID   string         `json:"entity_id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Popularity *float64       `json:"popularity"`
	Properties map[string]any `json:"properties"`
}

type entitiesEnvelope struct {
	Results *[]tasteGraphEntity `json:"results"`
}

type insightsEnvelope struct {
	Results *struct {
		Entities *[]tasteGraphEntity `json:"entities"`
	} `json:"results"`
}

type demographicsEnvelope struct {
	Results *struct {
		Demographics *[]struct {
			EntityID string `json:"entity_id"`
			Query    struct {
				Age    map[string]float64 `json:"age"`
				Gender map[string]float64 `json:"gender"`
			} `json:"query"`
		} `json:"demographics"`
	} `json:"results"`
}

// TasteGraphClientImpl implements TasteGraphClient over HTTP
type TasteGraphClientImpl struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewTasteGraphClient creates a client; timeout bounds every request
func NewTasteGraphClient(baseURL, apiKey string, timeout time.Duration) *TasteGraphClientImpl {
	return &TasteGraphClientImpl{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *TasteGraphClientImpl) LookupEntities(ctx context.Context, ids []string) ([]models.Entity, error) {
	if len(ids) == 0 {
		return []models.Entity{}, nil
	}

	params := url.Values{}
	params.Set("entity_ids", strings.Join(ids, ","))

	var env entitiesEnvelope
	if err := c.get(ctx, "entities", "/entities", params, &env); err != nil {
		return nil, err
	}
	if env.Results == nil {
		return nil, fmt.Errorf("%w: entities response has no results list", ErrMalformedResponse)
	}

	return toEntities(*env.Results, ""), nil
}

func (c *TasteGraphClientImpl) Insights(ctx context.Context, q InsightsQuery) (*models.Entity, error) {
	var env insightsEnvelope
	if err := c.get(ctx, "insights", "/v2/insights", buildInsightsParams(q), &env); err != nil {
		return nil, err
	}
	if env.Results == nil || env.Results.Entities == nil {
		return nil, fmt.Errorf("%w: insights response has no entities list", ErrMalformedResponse)
	}

	entities := toEntities(*env.Results.Entities, q.Category)
	if len(entities) == 0 {
		return nil, ErrNoRecommendation
	}
	return &entities[0], nil
}

// buildInsightsParams encodes the recommendation signals; gender "all" is never forwarded
func buildInsightsParams(q InsightsQuery) url.Values {
	params := url.Values{}
	params.Set("filter.type", q.Category.URN())
	if len(q.EntityIDs) > 0 {
		params.Set("signal.interests.entities", strings.Join(q.EntityIDs, ","))
	}
	if len(q.AudienceIDs) > 0 {
		params.Set("signal.demographics.audiences", strings.Join(q.AudienceIDs, ","))
	}
	if len(q.AgeGroups) > 0 {
		params.Set("signal.demographics.age", strings.Join(q.AgeGroups, ","))
	}
	if q.Gender == models.GenderMale || q.Gender == models.GenderFemale {
		params.Set("signal.demographics.gender", string(q.Gender))
	}
	if len(q.GenreTags) > 0 {
		params.Set("signal.interests.tags", strings.Join(q.GenreTags, ","))
	}
	params.Set("take", "1")
	return params
}

func (c *TasteGraphClientImpl) Demographics(ctx context.Context, ids []string) (map[string]EntityDemographics, error) {
	out := make(map[string]EntityDemographics)
	if len(ids) == 0 {
		return out, nil
	}

	params := url.Values{}
	params.Set("filter.type", "urn:demographics")
	params.Set("signal.interests.entities", strings.Join(ids, ","))

	var env demographicsEnvelope
	if err := c.get(ctx, "demographics", "/v2/insights", params, &env); err != nil {
		return nil, err
	}
	if env.Results == nil || env.Results.Demographics == nil {
		return nil, fmt.Errorf("%w: demographics response has no demographics list", ErrMalformedResponse)
	}

	for _, d := range *env.Results.Demographics {
		if d.EntityID == "" {
			continue
		}
		out[d.EntityID] = EntityDemographics{Age: d.Query.Age, Gender: d.Query.Gender}
	}
	return out, nil
}

func (c *TasteGraphClientImpl) Search(ctx context.Context, query string, entityType *models.EntityType, take int) ([]models.Entity, error) {
	params := url.Values{}
	params.Set("query", query)
	if entityType != nil {
		params.Set("types", entityType.URN())
	}
	if take > 0 {
		params.Set("take", strconv.Itoa(take))
	}

	var env entitiesEnvelope
	if err := c.get(ctx, "search", "/search", params, &env); err != nil {
		return nil, err
	}
	if env.Results == nil {
		return nil, fmt.Errorf("%w: search response has no results list", ErrMalformedResponse)
	}

	var fallback models.EntityType
	if entityType != nil {
		fallback = *entityType
	}
	return toEntities(*env.Results, fallback), nil
}

func (c *TasteGraphClientImpl) get(ctx context.Context, endpoint, path string, params url.Values, dst any) (err error) {
	start := time.Now()
	defer func() {
		tasteGraphCallsTotal.WithLabelValues(endpoint, outcomeOf(err)).Inc()
		tasteGraphCallDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	endpointURL := c.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		endpointURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(tasteGraphAPIKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTasteGraphUnavailable, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s response: %v", ErrTasteGraphUnavailable, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned status %d", ErrTasteGraphUnavailable, endpoint, resp.StatusCode)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrMalformedResponse, endpoint, err)
	}
	return nil
}

// toEntities maps wire items to domain entities, skipping items without an id
func toEntities(items []tasteGraphEntity, fallback models.EntityType) []models.Entity {
	out := make([]models.Entity, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.EntityID) == "" {
			continue
		}

		entityType, ok := models.ParseEntityType(item.Type)
		if !ok {
			entityType = fallback
			if entityType == "" {
				entityType = models.EntityType(strings.TrimPrefix(item.Type, "urn:entity:"))
			}
		}

		out = append(out, models.Entity{
			EntityID:   item.EntityID,
			Name:       item.Name,
			Type:       entityType,
			Popularity: item.Popularity,
			ImageURL:   imageURL(item.Properties),
			Properties: item.Properties,
		})
	}
	return out
}

func imageURL(properties map[string]any) *string {
	image, ok := properties["image"].(map[string]any)
	if !ok {
		return nil
	}
	u, ok := image["url"].(string)
	if !ok || u == "" {
		return nil
	}
	return &u
}
