// Package models contains domain entities and persistence models for audiences and generated content
package models

import "strings"

// EntityType is a taste-graph entity category
type EntityType string

const (
	EntityTypeMovie     EntityType = "movie"
	EntityTypePerson    EntityType = "person"
	EntityTypeArtist    EntityType = "artist"
	EntityTypeBook      EntityType = "book"
	EntityTypeBrand     EntityType = "brand"
	EntityTypePlace     EntityType = "place"
	EntityTypeTVShow    EntityType = "tv_show"
	EntityTypeVideoGame EntityType = "video_game"
	EntityTypePodcast   EntityType = "podcast"
)

const entityURNPrefix = "urn:entity:"

// RecommendationCategories is the fixed fan-out order used when recommending entities
var RecommendationCategories = []EntityType{
	EntityTypeMovie,
	EntityTypePerson,
	EntityTypeArtist,
	EntityTypeBook,
	EntityTypeBrand,
	EntityTypePlace,
	EntityTypeTVShow,
	EntityTypeVideoGame,
	EntityTypePodcast,
}

// URN returns the wire form of the type, e.g. urn:entity:movie
func (t EntityType) URN() string {
	return entityURNPrefix + string(t)
}

// ParseEntityType accepts either the short name or the URN form
func ParseEntityType(s string) (EntityType, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), entityURNPrefix)
	for _, t := range RecommendationCategories {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// AgeGroup is one of the fixed demographic age buckets
type AgeGroup string

const (
	AgeGroup24AndYounger AgeGroup = "24_and_younger"
	AgeGroup25To29       AgeGroup = "25_to_29"
	AgeGroup30To34       AgeGroup = "30_to_34"
	AgeGroup35To44       AgeGroup = "35_to_44"
	AgeGroup45To54       AgeGroup = "45_to_54"
	AgeGroup55AndOlder   AgeGroup = "55_and_older"
)

// AgeGroups lists the age buckets in ascending order
var AgeGroups = []AgeGroup{
	AgeGroup24AndYounger,
	AgeGroup25To29,
	AgeGroup30To34,
	AgeGroup35To44,
	AgeGroup45To54,
	AgeGroup55AndOlder,
}

func IsAgeGroup(s string) bool {
	for _, g := range AgeGroups {
		if string(g) == s {
			return true
		}
	}
	return false
}

// Gender filters recommendations by audience gender
type Gender string

const (
	GenderAll    Gender = "all"
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Entity is a taste-graph item, either picked by the user or recommended
type Entity struct {
	EntityID   string             `json:"entity_id"`
	Name       string             `json:"name"`
	Type       EntityType         `json:"type"`
	Popularity *float64           `json:"popularity"`
	ImageURL   *string            `json:"image_url"`
	Age        map[string]float64 `json:"age"`
	Gender     map[string]float64 `json:"gender"`
	Properties map[string]any     `json:"properties"`
}

// AgeTotals holds the aggregated demographic score per age bucket.
// Every bucket is always present when serialized.
type AgeTotals struct {
	Age24AndYounger float64 `json:"24_and_younger"`
	Age25To29       float64 `json:"25_to_29"`
	Age30To34       float64 `json:"30_to_34"`
	Age35To44       float64 `json:"35_to_44"`
	Age45To54       float64 `json:"45_to_54"`
	Age55AndOlder   float64 `json:"55_and_older"`
}

func (a *AgeTotals) field(key string) *float64 {
	switch AgeGroup(key) {
	case AgeGroup24AndYounger:
		return &a.Age24AndYounger
	case AgeGroup25To29:
		return &a.Age25To29
	case AgeGroup30To34:
		return &a.Age30To34
	case AgeGroup35To44:
		return &a.Age35To44
	case AgeGroup45To54:
		return &a.Age45To54
	case AgeGroup55AndOlder:
		return &a.Age55AndOlder
	}
	return nil
}

// Add accumulates v into the named bucket; unknown keys are ignored and reported false
func (a *AgeTotals) Add(key string, v float64) bool {
	f := a.field(key)
	if f == nil {
		return false
	}
	*f += v
	return true
}

// Get returns the value of the named bucket
func (a AgeTotals) Get(key string) (float64, bool) {
	f := a.field(key)
	if f == nil {
		return 0, false
	}
	return *f, true
}

// Apply replaces every bucket with fn(bucket)
func (a *AgeTotals) Apply(fn func(float64) float64) {
	for _, g := range AgeGroups {
		f := a.field(string(g))
		*f = fn(*f)
	}
}

// GenderTotals holds the aggregated demographic score per gender
type GenderTotals struct {
	Male   float64 `json:"male"`
	Female float64 `json:"female"`
}

// Add accumulates v into the named gender; unknown keys are ignored and reported false
func (g *GenderTotals) Add(key string, v float64) bool {
	switch Gender(key) {
	case GenderMale:
		g.Male += v
	case GenderFemale:
		g.Female += v
	default:
		return false
	}
	return true
}

// Apply replaces both values with fn(value)
func (g *GenderTotals) Apply(fn func(float64) float64) {
	g.Male = fn(g.Male)
	g.Female = fn(g.Female)
}
