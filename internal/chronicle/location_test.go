// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package chronicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocation(t *testing.T) {
	l, err := NewLocation("Duskhollow", "A mining town under the cliffs.", LocationTypeTown)
	require.NoError(t, err)
	assert.Equal(t, "Duskhollow", l.Name)
	assert.Equal(t, LocationTypeTown, l.Type)
	assert.False(t, l.Discovered)
	assert.Equal(t, Coordinates{}, l.Coordinates)
	assert.NotNil(t, l.RelatedQuests)
	assert.NotNil(t, l.RelatedItems)
}

func TestNewLocationDefaults(t *testing.T) {
	l, err := NewLocation("Somewhere", "", "")
	require.NoError(t, err)
	assert.Equal(t, LocationTypeOther, l.Type)
}

func TestNewLocationInvalid(t *testing.T) {
	_, err := NewLocation("", "", LocationTypeCity)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	_, err = NewLocation("Atlantis", "", "sunken")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "type", verr.Field)
}

func TestLocationTypeValidate(t *testing.T) {
	for _, typ := range []LocationType{
		LocationTypeCity, LocationTypeTown, LocationTypeVillage, LocationTypeDungeon,
		LocationTypeWilderness, LocationTypeLandmark, LocationTypeOther,
	} {
		assert.NoError(t, typ.Validate())
	}
	assert.ErrorIs(t, LocationType("plane").Validate(), ErrInvalidLocationType)
}

func TestLocationSetCoordinates(t *testing.T) {
	l, err := NewLocation("Watchtower", "", LocationTypeLandmark)
	require.NoError(t, err)

	l.SetCoordinates(12.5, -3.25)
	assert.Equal(t, Coordinates{X: 12.5, Y: -3.25}, l.Coordinates)
}

func TestLocationMarkDiscovered(t *testing.T) {
	l, err := NewLocation("Hidden Grotto", "", LocationTypeDungeon)
	require.NoError(t, err)

	l.MarkDiscovered()
	assert.True(t, l.Discovered)
	first := l.UpdatedAt

	// Already discovered, timestamp stays put.
	l.MarkDiscovered()
	assert.Equal(t, first, l.UpdatedAt)
}

func TestLocationRelatedEntities(t *testing.T) {
	l, err := NewLocation("Forge District", "", LocationTypeCity)
	require.NoError(t, err)

	l.AddRelatedQuest("quest-1")
	l.AddRelatedQuest("quest-1")
	assert.Equal(t, []string{"quest-1"}, l.RelatedQuests)
	l.RemoveRelatedQuest("quest-1")
	assert.Empty(t, l.RelatedQuests)

	l.AddRelatedItem("item-1")
	l.AddRelatedItem("item-2")
	assert.Equal(t, []string{"item-1", "item-2"}, l.RelatedItems)
	l.RemoveRelatedItem("item-1")
	assert.Equal(t, []string{"item-2"}, l.RelatedItems)
}
