package businessflow

import (
	"math"
	"reflect"

	"github.com/amirphl/AdaptMuse/app/services"
	"github.com/amirphl/AdaptMuse/models"
	"github.com/amirphl/AdaptMuse/utils"
	"gorm.io/datatypes"
)

// roundingEpsilon is float64 machine epsilon (2^-52); it nudges values sitting
// on a representable boundary such as 1.00005 toward the intended half-up result.
const roundingEpsilon = 0x1p-52

// RoundTo rounds v to the given number of decimal places, half away from zero
func RoundTo(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow10(places)
	r := math.Round((v+roundingEpsilon)*p) / p
	if r == 0 {
		// drop the sign of negative zero so totals encode as 0
		return 0
	}
	return r
}

// CalculateDemographicTotals sums every entity's age and gender affinities into the fixed buckets.
// Keys outside the fixed buckets are ignored; negative affinities are summed as-is.
func CalculateDemographicTotals(entities []models.Entity) (models.AgeTotals, models.GenderTotals) {
	var age models.AgeTotals
	var gender models.GenderTotals

	for _, e := range entities {
		for key, v := range e.Age {
			age.Add(key, v)
		}
		for key, v := range e.Gender {
			gender.Add(key, v)
		}
	}

	return age, gender
}

// RoundTotals rounds both totals in place to utils.TotalsPrecision decimals
func RoundTotals(age *models.AgeTotals, gender *models.GenderTotals) {
	round := func(v float64) float64 { return RoundTo(v, utils.TotalsPrecision) }
	age.Apply(round)
	gender.Apply(round)
}

// MergeDemographics returns a copy of entities with curves attached from the lookup.
// Entities without a record pass through unchanged.
func MergeDemographics(entities []models.Entity, curves map[string]services.EntityDemographics) []models.Entity {
	out := make([]models.Entity, len(entities))
	for i, e := range entities {
		if c, ok := curves[e.EntityID]; ok {
			if c.Age != nil {
				e.Age = c.Age
			}
			if c.Gender != nil {
				e.Gender = c.Gender
			}
		}
		out[i] = e
	}
	return out
}

// SanitizeForStorage normalises an audience so every collection is present and every
// free-form leaf is JSON-encodable. Applying it twice is the same as applying it once.
func SanitizeForStorage(a *models.Audience) {
	if a == nil {
		return
	}

	a.Entities = sanitizeEntities(a.Entities)
	a.RecommendedEntities = sanitizeEntities(a.RecommendedEntities)
	if a.Demographics == nil {
		a.Demographics = []string{}
	}

	opts := a.SelectedOptions.Data()
	if opts.Audiences == nil {
		opts.Audiences = map[string][]string{}
	}
	if opts.Genres == nil {
		opts.Genres = map[string][]string{}
	}
	if opts.AgeGroups == nil {
		opts.AgeGroups = []string{}
	}
	if opts.Gender == "" {
		opts.Gender = models.GenderAll
	}
	a.SelectedOptions = datatypes.NewJSONType(opts)
}

func sanitizeEntities(entities datatypes.JSONSlice[models.Entity]) datatypes.JSONSlice[models.Entity] {
	out := make(datatypes.JSONSlice[models.Entity], 0, len(entities))
	for _, e := range entities {
		e.Age = finiteOnly(e.Age)
		e.Gender = finiteOnly(e.Gender)
		if e.Popularity != nil && !isFinite(*e.Popularity) {
			e.Popularity = nil
		}
		if e.Properties != nil {
			props, _ := sanitizeValue(e.Properties).(map[string]any)
			e.Properties = props
		}
		out = append(out, e)
	}
	return out
}

// sanitizeValue walks maps and slices; typed nils and non-finite floats become nil
func sanitizeValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = sanitizeValue(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = sanitizeValue(child)
		}
		return out
	case float64:
		if !isFinite(t) {
			return nil
		}
		return t
	case float32:
		if !isFinite(float64(t)) {
			return nil
		}
		return t
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return nil
		}
	}
	return v
}

func finiteOnly(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if isFinite(v) {
			out[k] = v
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
