// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package chronicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNote(t *testing.T) {
	n, err := NewNote("The Whispering Vault", "Sealed by the old order", NoteCategoryLore)
	require.NoError(t, err)

	assert.Equal(t, NoteCategoryLore, n.Category)
	assert.NotNil(t, n.Tags)
	assert.NotNil(t, n.RelatedEntities.Quests)
	assert.NotNil(t, n.RelatedEntities.Items)

	n, err = NewNote("Uncategorized", "", "")
	require.NoError(t, err)
	assert.Equal(t, NoteCategoryOther, n.Category)

	_, err = NewNote("", "no title", NoteCategoryLore)
	require.Error(t, err)

	_, err = NewNote("Bad", "", NoteCategory("gossip"))
	require.Error(t, err)
}

func TestNoteCategoryValidate(t *testing.T) {
	valid := []NoteCategory{
		NoteCategoryLore, NoteCategoryCharacter, NoteCategoryLocation,
		NoteCategoryQuest, NoteCategorySession, NoteCategoryOther,
	}
	for _, c := range valid {
		assert.NoError(t, c.Validate())
	}
	assert.ErrorIs(t, NoteCategory("gossip").Validate(), ErrInvalidNoteCategory)
}

func TestNoteNormalize(t *testing.T) {
	n := &Note{Entity: NewEntity(), Title: "t", Category: NoteCategoryOther}

	n.Normalize()

	assert.Equal(t, []string{}, n.Tags)
	assert.Equal(t, []string{}, n.RelatedEntities.Quests)
	assert.Equal(t, []string{}, n.RelatedEntities.Locations)
	assert.Equal(t, []string{}, n.RelatedEntities.Characters)
	assert.Equal(t, []string{}, n.RelatedEntities.Items)

	// Populated lists survive.
	n.Tags = []string{"undead"}
	n.Normalize()
	assert.Equal(t, []string{"undead"}, n.Tags)
}

func TestNoteTags(t *testing.T) {
	n, err := NewNote("t", "", NoteCategorySession)
	require.NoError(t, err)

	n.AddTag("undead")
	n.AddTag("undead")
	n.AddTag("vault")
	assert.Equal(t, []string{"undead", "vault"}, n.Tags)

	n.RemoveTag("undead")
	assert.Equal(t, []string{"vault"}, n.Tags)
}

func TestNoteRelatedEntities(t *testing.T) {
	n, err := NewNote("t", "", NoteCategoryQuest)
	require.NoError(t, err)

	n.AddRelatedQuest("q1")
	n.AddRelatedQuest("q1")
	n.AddRelatedLocation("l1")
	n.AddRelatedCharacter("c1")
	n.AddRelatedItem("i1")

	assert.Equal(t, []string{"q1"}, n.RelatedEntities.Quests)
	assert.Equal(t, []string{"l1"}, n.RelatedEntities.Locations)
	assert.Equal(t, []string{"c1"}, n.RelatedEntities.Characters)
	assert.Equal(t, []string{"i1"}, n.RelatedEntities.Items)

	n.RemoveRelatedQuest("q1")
	n.RemoveRelatedLocation("l1")
	n.RemoveRelatedCharacter("c1")
	n.RemoveRelatedItem("i1")

	assert.Empty(t, n.RelatedEntities.Quests)
	assert.Empty(t, n.RelatedEntities.Locations)
	assert.Empty(t, n.RelatedEntities.Characters)
	assert.Empty(t, n.RelatedEntities.Items)
}
