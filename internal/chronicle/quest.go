// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package chronicle

import (
	"errors"
	"time"
)

// QuestType categorizes a quest.
type QuestType string

// Quest types.
const (
	QuestTypeMain  QuestType = "main"
	QuestTypeSide  QuestType = "side"
	QuestTypeGuild QuestType = "guild"
	QuestTypeOther QuestType = "other"
)

// ErrInvalidQuestType is returned for unknown quest types.
var ErrInvalidQuestType = errors.New("invalid quest type")

// Validate checks that the quest type is a known value.
func (t QuestType) Validate() error {
	switch t {
	case QuestTypeMain, QuestTypeSide, QuestTypeGuild, QuestTypeOther:
		return nil
	default:
		return ErrInvalidQuestType
	}
}

// QuestStatus is a quest's lifecycle state.
type QuestStatus string

// Quest statuses.
const (
	QuestStatusAvailable QuestStatus = "available"
	QuestStatusOngoing   QuestStatus = "ongoing"
	QuestStatusCompleted QuestStatus = "completed"
	QuestStatusFailed    QuestStatus = "failed"
)

// ErrInvalidQuestStatus is returned for unknown quest statuses.
var ErrInvalidQuestStatus = errors.New("invalid quest status")

// Validate checks that the status is a known value.
func (s QuestStatus) Validate() error {
	switch s {
	case QuestStatusAvailable, QuestStatusOngoing, QuestStatusCompleted, QuestStatusFailed:
		return nil
	default:
		return ErrInvalidQuestStatus
	}
}

// StatusChange is one entry in a quest's append-only status history.
type StatusChange struct {
	Status    QuestStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}

// JournalEntry is a dated quest journal note.
type JournalEntry struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Quest represents a campaign quest.
type Quest struct {
	Entity
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Type              QuestType      `json:"type"`
	Status            QuestStatus    `json:"status"`
	StatusHistory     []StatusChange `json:"statusHistory"`
	JournalEntries    []JournalEntry `json:"journalEntries"`
	RelatedLocations  []string       `json:"relatedLocations"`
	RelatedCharacters []string       `json:"relatedCharacters"`
	RelatedItems      []string       `json:"relatedItems"`
}

// NewQuest creates a quest in the ongoing status with an empty journal.
// An empty type defaults to "other".
func NewQuest(title, description string, questType QuestType) (*Quest, error) {
	if questType == "" {
		questType = QuestTypeOther
	}
	q := &Quest{
		Entity:            NewEntity(),
		Title:             title,
		Description:       description,
		Type:              questType,
		Status:            QuestStatusOngoing,
		StatusHistory:     []StatusChange{},
		JournalEntries:    []JournalEntry{},
		RelatedLocations:  []string{},
		RelatedCharacters: []string{},
		RelatedItems:      []string{},
	}
	q.StatusHistory = append(q.StatusHistory, StatusChange{Status: q.Status, Timestamp: q.CreatedAt})
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// Validate checks quest invariants.
func (q *Quest) Validate() error {
	if err := q.validateBase(); err != nil {
		return err
	}
	if err := validateName("title", q.Title); err != nil {
		return err
	}
	if err := q.Type.Validate(); err != nil {
		return &ValidationError{Field: "type", Message: err.Error()}
	}
	if err := q.Status.Validate(); err != nil {
		return &ValidationError{Field: "status", Message: err.Error()}
	}
	return nil
}

// SetStatus transitions the quest and appends to the status history.
// The history is append-only; entries are never rewritten.
func (q *Quest) SetStatus(status QuestStatus) error {
	if err := status.Validate(); err != nil {
		return &ValidationError{Field: "status", Message: err.Error()}
	}
	if status == q.Status {
		return nil
	}
	q.Status = status
	q.touch()
	q.StatusHistory = append(q.StatusHistory, StatusChange{Status: status, Timestamp: q.UpdatedAt})
	return nil
}

// AddJournalEntry appends a journal entry. Entries are de-duplicated
// by content and timestamp pair.
func (q *Quest) AddJournalEntry(content string) error {
	if content == "" {
		return &ValidationError{Field: "content", Message: "cannot be empty"}
	}
	entry := JournalEntry{Content: content, Timestamp: time.Now().UTC()}
	for _, existing := range q.JournalEntries {
		if existing.Content == entry.Content && existing.Timestamp.Equal(entry.Timestamp) {
			return nil
		}
	}
	q.JournalEntries = append(q.JournalEntries, entry)
	q.touch()
	return nil
}

// AddRelatedLocation links a location by id. Idempotent.
func (q *Quest) AddRelatedLocation(id string) {
	q.RelatedLocations = addID(q.RelatedLocations, id)
	q.touch()
}

// RemoveRelatedLocation unlinks a location by id.
func (q *Quest) RemoveRelatedLocation(id string) {
	q.RelatedLocations = removeID(q.RelatedLocations, id)
	q.touch()
}

// AddRelatedCharacter links a character by id. Idempotent.
func (q *Quest) AddRelatedCharacter(id string) {
	q.RelatedCharacters = addID(q.RelatedCharacters, id)
	q.touch()
}

// RemoveRelatedCharacter unlinks a character by id.
func (q *Quest) RemoveRelatedCharacter(id string) {
	q.RelatedCharacters = removeID(q.RelatedCharacters, id)
	q.touch()
}

// AddRelatedItem links an item by id. Idempotent.
func (q *Quest) AddRelatedItem(id string) {
	q.RelatedItems = addID(q.RelatedItems, id)
	q.touch()
}

// RemoveRelatedItem unlinks an item by id.
func (q *Quest) RemoveRelatedItem(id string) {
	q.RelatedItems = removeID(q.RelatedItems, id)
	q.touch()
}
