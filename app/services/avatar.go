package services

import (
	"context"

	"github.com/amirphl/AdaptMuse/models"
)

// AvatarGenerator produces a portrait image URL for a freshly aggregated audience.
// A nil URL with a nil error means "no image".
type AvatarGenerator interface {
	Generate(ctx context.Context, name string, age models.AgeTotals, gender models.GenderTotals) (*string, error)
}

// DisabledAvatarGenerator never produces an image and never touches the network
type DisabledAvatarGenerator struct{}

func (DisabledAvatarGenerator) Generate(context.Context, string, models.AgeTotals, models.GenderTotals) (*string, error) {
	return nil, nil
}
