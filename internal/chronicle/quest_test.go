// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package chronicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuest(t *testing.T) {
	q, err := NewQuest("Find the amulet", "Lost in the catacombs", QuestTypeMain)
	require.NoError(t, err)

	assert.Equal(t, QuestStatusOngoing, q.Status, "new quests start ongoing")
	assert.Equal(t, QuestTypeMain, q.Type)
	require.Len(t, q.StatusHistory, 1, "creation seeds the status history")
	assert.Equal(t, QuestStatusOngoing, q.StatusHistory[0].Status)
	assert.Equal(t, q.CreatedAt, q.StatusHistory[0].Timestamp)
	assert.NotNil(t, q.JournalEntries)
	assert.NotNil(t, q.RelatedLocations)
}

func TestNewQuestDefaultsAndValidation(t *testing.T) {
	q, err := NewQuest("Untyped", "", "")
	require.NoError(t, err)
	assert.Equal(t, QuestTypeOther, q.Type, "empty type defaults to other")

	_, err = NewQuest("", "no title", QuestTypeSide)
	require.Error(t, err)

	_, err = NewQuest("Bad type", "", QuestType("epic"))
	require.Error(t, err)
}

func TestQuestTypeValidate(t *testing.T) {
	for _, qt := range []QuestType{QuestTypeMain, QuestTypeSide, QuestTypeGuild, QuestTypeOther} {
		assert.NoError(t, qt.Validate())
	}
	assert.ErrorIs(t, QuestType("epic").Validate(), ErrInvalidQuestType)
}

func TestQuestStatusValidate(t *testing.T) {
	for _, st := range []QuestStatus{QuestStatusAvailable, QuestStatusOngoing, QuestStatusCompleted, QuestStatusFailed} {
		assert.NoError(t, st.Validate())
	}
	assert.ErrorIs(t, QuestStatus("paused").Validate(), ErrInvalidQuestStatus)
}

func TestQuestSetStatus(t *testing.T) {
	q, err := NewQuest("The Iron Road", "", QuestTypeMain)
	require.NoError(t, err)

	require.NoError(t, q.SetStatus(QuestStatusCompleted))
	assert.Equal(t, QuestStatusCompleted, q.Status)
	require.Len(t, q.StatusHistory, 2)
	assert.Equal(t, QuestStatusCompleted, q.StatusHistory[1].Status)

	// Same-status transition is a no-op, history stays append-only.
	require.NoError(t, q.SetStatus(QuestStatusCompleted))
	assert.Len(t, q.StatusHistory, 2)

	err = q.SetStatus(QuestStatus("paused"))
	require.Error(t, err)
	assert.Equal(t, QuestStatusCompleted, q.Status)
	assert.Len(t, q.StatusHistory, 2)
}

func TestQuestJournal(t *testing.T) {
	q, err := NewQuest("The Iron Road", "", QuestTypeSide)
	require.NoError(t, err)

	require.NoError(t, q.AddJournalEntry("Met the blacksmith"))
	require.NoError(t, q.AddJournalEntry("Found the first waystone"))
	assert.Len(t, q.JournalEntries, 2)

	err = q.AddJournalEntry("")
	require.Error(t, err)
	assert.Len(t, q.JournalEntries, 2)
}

func TestQuestRelatedLists(t *testing.T) {
	q, err := NewQuest("The Iron Road", "", QuestTypeSide)
	require.NoError(t, err)

	q.AddRelatedLocation("loc1")
	q.AddRelatedLocation("loc1")
	assert.Equal(t, []string{"loc1"}, q.RelatedLocations)

	q.AddRelatedCharacter("char1")
	q.AddRelatedItem("item1")
	assert.Equal(t, []string{"char1"}, q.RelatedCharacters)
	assert.Equal(t, []string{"item1"}, q.RelatedItems)

	q.RemoveRelatedLocation("loc1")
	q.RemoveRelatedCharacter("char1")
	q.RemoveRelatedItem("item1")
	assert.Empty(t, q.RelatedLocations)
	assert.Empty(t, q.RelatedCharacters)
	assert.Empty(t, q.RelatedItems)
}
