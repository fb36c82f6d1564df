package businessflow

import (
	"math"
	"testing"

	"github.com/amirphl/AdaptMuse/app/services"
	"github.com/amirphl/AdaptMuse/models"
	testutil "github.com/amirphl/AdaptMuse/testing"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestRoundTo(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{0.12344, 0.1234},
		{0.12346, 0.1235},
		{1.00005, 1.0001},
		{-0.33333, -0.3333},
		{2, 2},
		{-0.00001, 0},
		{-0.00004999, 0},
	}
	for _, tt := range tests {
		got := RoundTo(tt.in, 4)
		assert.Equal(t, tt.want, got, "RoundTo(%v)", tt.in)
		assert.Equal(t, got, RoundTo(got, 4), "rounding %v twice", tt.in)
		assert.False(t, math.Signbit(got) && got == 0, "RoundTo(%v) is negative zero", tt.in)
	}
	assert.True(t, math.IsNaN(RoundTo(math.NaN(), 4)))
}

func TestRoundTotals_NoNegativeZeroInJSON(t *testing.T) {
	age := models.AgeTotals{Age25To29: -0.00001, Age30To34: 0.12346}
	gender := models.GenderTotals{Male: -0.00002}
	RoundTotals(&age, &gender)

	raw, err := json.Marshal(age)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"25_to_29":0,`)
	assert.NotContains(t, string(raw), "-0")

	raw, err = json.Marshal(gender)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "-0")

	again := age
	againGender := gender
	RoundTotals(&again, &againGender)
	assert.Equal(t, age, again)
	assert.Equal(t, gender, againGender)
}

func TestCalculateDemographicTotals(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		age, gender := CalculateDemographicTotals(nil)
		assert.Equal(t, models.AgeTotals{}, age)
		assert.Equal(t, models.GenderTotals{}, gender)
	})

	t.Run("SumsKnownBucketsOnly", func(t *testing.T) {
		entities := []models.Entity{
			testutil.NewTestEntityWithCurves("A", "a", models.EntityTypeMovie,
				map[string]float64{"24_and_younger": 0.2, "55_and_older": -0.3, "13_to_17": 5},
				map[string]float64{"male": 0.4, "nonbinary": 1}),
			testutil.NewTestEntityWithCurves("B", "b", models.EntityTypeBook,
				map[string]float64{"24_and_younger": 0.1},
				map[string]float64{"female": 0.25}),
			testutil.NewTestEntity("C", "c", models.EntityTypeBrand),
		}

		age, gender := CalculateDemographicTotals(entities)
		assert.InDelta(t, 0.3, age.Age24AndYounger, 1e-12)
		assert.InDelta(t, -0.3, age.Age55AndOlder, 1e-12)
		assert.Zero(t, age.Age25To29)
		assert.InDelta(t, 0.4, gender.Male, 1e-12)
		assert.InDelta(t, 0.25, gender.Female, 1e-12)
	})
}

func TestMergeDemographics(t *testing.T) {
	own := testutil.NewTestEntityWithCurves("A", "a", models.EntityTypeMovie,
		map[string]float64{"25_to_29": 1}, map[string]float64{"male": 1})
	bare := testutil.NewTestEntity("B", "b", models.EntityTypeBook)

	merged := MergeDemographics([]models.Entity{own, bare}, map[string]services.EntityDemographics{
		"B": {Age: map[string]float64{"30_to_34": 0.5}},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, own.Age, merged[0].Age)
	assert.Equal(t, map[string]float64{"30_to_34": 0.5}, merged[1].Age)
	assert.Nil(t, merged[1].Gender)
	assert.Nil(t, bare.Age, "input is not mutated")
}

func TestSanitizeForStorage(t *testing.T) {
	var typedNil *string
	pop := math.Inf(1)
	audience := &models.Audience{
		ID:   "a",
		Name: "n",
		Entities: datatypes.JSONSlice[models.Entity]{{
			EntityID:   "E1",
			Popularity: &pop,
			Age:        map[string]float64{"25_to_29": math.NaN(), "30_to_34": 0.2},
			Properties: map[string]any{
				"missing": typedNil,
				"score":   math.NaN(),
				"nested":  map[string]any{"list": []any{1.5, math.Inf(-1)}},
			},
		}},
	}

	SanitizeForStorage(audience)

	require.NotNil(t, audience.RecommendedEntities)
	require.NotNil(t, audience.Demographics)
	e := audience.Entities[0]
	assert.Nil(t, e.Popularity)
	assert.Equal(t, map[string]float64{"30_to_34": 0.2}, e.Age)
	assert.Nil(t, e.Properties["missing"])
	assert.Nil(t, e.Properties["score"])
	assert.Equal(t, []any{1.5, nil}, e.Properties["nested"].(map[string]any)["list"])
	assert.Equal(t, models.GenderAll, audience.SelectedOptions.Data().Gender)

	once := *audience
	SanitizeForStorage(audience)
	assert.Equal(t, once.Entities, audience.Entities)
	assert.Equal(t, once.SelectedOptions.Data(), audience.SelectedOptions.Data())
}
