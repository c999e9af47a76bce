package settings

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppSettings_Update(t *testing.T) {
	s := DefaultAppSettings()

	err := s.Update(" Corner Shop ", "1 Main St", "555", "shop@example.com", "TX-1", "eur", "Bye", decimal.NewFromInt(15))
	require.NoError(t, err)
	assert.Equal(t, "Corner Shop", s.BusinessName)
	assert.Equal(t, "EUR", s.Currency)

	assert.Error(t, s.Update("", "", "", "", "", "", "", decimal.Zero))
	assert.Error(t, s.Update("Shop", "", "", "not-an-email", "", "", "", decimal.Zero))
	assert.Error(t, s.Update("Shop", "", "", "", "", "EURO", "", decimal.Zero))
	assert.Error(t, s.Update("Shop", "", "", "", "", "", "", decimal.NewFromInt(101)))
}

func TestShopContent_FeaturedIDs(t *testing.T) {
	c := DefaultShopContent()
	assert.Empty(t, c.FeaturedIDs())

	a, b := uuid.New(), uuid.New()
	require.NoError(t, c.SetFeaturedIDs([]uuid.UUID{a, b, a}))
	assert.Equal(t, []uuid.UUID{a, b}, c.FeaturedIDs())

	assert.Error(t, c.SetFeaturedIDs([]uuid.UUID{uuid.Nil}))

	c.FeaturedProductIDs = "{broken"
	assert.Empty(t, c.FeaturedIDs())
}
