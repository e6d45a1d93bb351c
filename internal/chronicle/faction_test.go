// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package chronicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFaction(t *testing.T) {
	f, err := NewFaction("Order of the Lantern", FactionOrder)
	require.NoError(t, err)
	assert.Equal(t, "Order of the Lantern", f.Name)
	assert.Equal(t, FactionOrder, f.Type)
	assert.Equal(t, AttitudeNeutral, f.Attitude)
	assert.Equal(t, 0, f.Influence)
	assert.True(t, f.Active)
	assert.NotNil(t, f.Relationships)
	assert.NotNil(t, f.Goals)
	assert.NotNil(t, f.Leaders)
	assert.NotNil(t, f.Tags)
}

func TestNewFactionDefaults(t *testing.T) {
	f, err := NewFaction("The Unaligned", "")
	require.NoError(t, err)
	assert.Equal(t, FactionOther, f.Type)
}

func TestNewFactionInvalid(t *testing.T) {
	_, err := NewFaction("", FactionGuild)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	_, err = NewFaction("Void Court", "court")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "type", verr.Field)
}

func TestFactionTypeValidate(t *testing.T) {
	for _, typ := range []FactionType{
		FactionGuild, FactionKingdom, FactionCult, FactionOrder,
		FactionTribe, FactionCompany, FactionOther,
	} {
		assert.NoError(t, typ.Validate())
	}
	assert.ErrorIs(t, FactionType("syndicate").Validate(), ErrInvalidFactionType)
}

func TestFactionAttitudeValidate(t *testing.T) {
	for _, a := range []FactionAttitude{
		AttitudeHostile, AttitudeUnfriendly, AttitudeNeutral, AttitudeFriendly, AttitudeAllied,
	} {
		assert.NoError(t, a.Validate())
	}
	assert.ErrorIs(t, FactionAttitude("wary").Validate(), ErrInvalidFactionAttitude)
}

func TestFactionSetAttitude(t *testing.T) {
	f, err := NewFaction("Iron Syndicate", FactionCompany)
	require.NoError(t, err)

	require.NoError(t, f.SetAttitude(AttitudeFriendly))
	assert.Equal(t, AttitudeFriendly, f.Attitude)

	first := f.UpdatedAt
	require.NoError(t, f.SetAttitude(AttitudeFriendly))
	assert.Equal(t, first, f.UpdatedAt)

	err = f.SetAttitude("wary")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "attitude", verr.Field)
	assert.Equal(t, AttitudeFriendly, f.Attitude)
}

func TestFactionUpdateInfluence(t *testing.T) {
	f, err := NewFaction("River Tribe", FactionTribe)
	require.NoError(t, err)

	f.UpdateInfluence(40)
	assert.Equal(t, 40, f.Influence)

	f.UpdateInfluence(200)
	assert.Equal(t, MaxInfluence, f.Influence)

	f.UpdateInfluence(-500)
	assert.Equal(t, MinInfluence, f.Influence)
}

func TestFactionRelationships(t *testing.T) {
	f, err := NewFaction("River Tribe", FactionTribe)
	require.NoError(t, err)

	require.NoError(t, f.SetRelationship("faction-2", 60))
	assert.Equal(t, 60, f.Relationships["faction-2"])

	require.NoError(t, f.SetRelationship("faction-2", 500))
	assert.Equal(t, MaxRelationship, f.Relationships["faction-2"])

	require.NoError(t, f.SetRelationship("faction-3", -500))
	assert.Equal(t, MinRelationship, f.Relationships["faction-3"])

	err = f.SetRelationship("", 10)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "relationships", verr.Field)

	f.RemoveRelationship("faction-2")
	_, ok := f.Relationships["faction-2"]
	assert.False(t, ok)
}

func TestFactionSetRelationshipNilMap(t *testing.T) {
	f, err := NewFaction("River Tribe", FactionTribe)
	require.NoError(t, err)

	f.Relationships = nil
	require.NoError(t, f.SetRelationship("faction-2", 10))
	assert.Equal(t, 10, f.Relationships["faction-2"])
}

func TestFactionValidateBounds(t *testing.T) {
	f, err := NewFaction("River Tribe", FactionTribe)
	require.NoError(t, err)

	f.Influence = 101
	var verr *ValidationError
	require.ErrorAs(t, f.Validate(), &verr)
	assert.Equal(t, "influence", verr.Field)

	f.Influence = 50
	f.Relationships["faction-2"] = -101
	require.ErrorAs(t, f.Validate(), &verr)
	assert.Equal(t, "relationships.faction-2", verr.Field)
}

func TestFactionLists(t *testing.T) {
	f, err := NewFaction("Order of the Lantern", FactionOrder)
	require.NoError(t, err)

	f.AddGoal("map the undercity")
	f.AddGoal("map the undercity")
	assert.Equal(t, []string{"map the undercity"}, f.Goals)
	f.RemoveGoal("map the undercity")
	assert.Empty(t, f.Goals)

	f.AddLeader("High Keeper Selene")
	assert.Equal(t, []string{"High Keeper Selene"}, f.Leaders)
	f.RemoveLeader("High Keeper Selene")
	assert.Empty(t, f.Leaders)

	f.AddTag("religious")
	f.AddTag("secretive")
	assert.Equal(t, []string{"religious", "secretive"}, f.Tags)
	f.RemoveTag("religious")
	assert.Equal(t, []string{"secretive"}, f.Tags)
}

func TestFactionSetActive(t *testing.T) {
	f, err := NewFaction("Iron Syndicate", FactionCompany)
	require.NoError(t, err)

	first := f.UpdatedAt
	f.SetActive(true)
	assert.Equal(t, first, f.UpdatedAt)

	f.SetActive(false)
	assert.False(t, f.Active)
}
