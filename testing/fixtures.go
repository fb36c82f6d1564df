package testing

import (
	"fmt"
	"time"

	"github.com/amirphl/AdaptMuse/models"
	"github.com/amirphl/AdaptMuse/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// TestPassword is the plain-text password of users built by NewTestUser
const TestPassword = "TestPass123!"

// NewTestUser builds a user with a bcrypt hash of TestPassword
func NewTestUser(email string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := utils.UTCNow()
	return &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		DisplayName:  "Jane Doe",
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NewTestEntity builds an entity without demographic curves
func NewTestEntity(id, name string, entityType models.EntityType) models.Entity {
	return models.Entity{
		EntityID: id,
		Name:     name,
		Type:     entityType,
	}
}

// NewTestEntityWithCurves builds an entity carrying age and gender curves
func NewTestEntityWithCurves(id, name string, entityType models.EntityType, age, gender map[string]float64) models.Entity {
	e := NewTestEntity(id, name, entityType)
	e.Age = age
	e.Gender = gender
	return e
}

// NewTestAudience builds a well-formed audience owned by userID
func NewTestAudience(userID, name string) *models.Audience {
	return &models.Audience{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
		Entities: datatypes.JSONSlice[models.Entity]{
			NewTestEntity("E1", "Blue Bottle Coffee", models.EntityTypeBrand),
		},
		RecommendedEntities: datatypes.JSONSlice[models.Entity]{
			NewTestEntity("R1", "Chef's Table", models.EntityTypeTVShow),
		},
		AgeTotals: datatypes.NewJSONType(models.AgeTotals{
			Age25To29: 0.25,
			Age30To34: 0.1,
		}),
		GenderTotals: datatypes.NewJSONType(models.GenderTotals{Male: 0.1, Female: 0.2}),
		Demographics: []string{"Coffee Enthusiasts"},
		SelectedOptions: datatypes.NewJSONType(models.SelectedOptions{
			Audiences: map[string][]string{"Hobbies and Interests": {"urn:audience:hobbies_and_interests:coffee"}},
			Genres:    map[string][]string{},
			AgeGroups: []string{},
			Gender:    models.GenderAll,
		}),
		CreatedAt: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
	}
}
