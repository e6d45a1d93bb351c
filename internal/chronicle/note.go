// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package chronicle

import "errors"

// NoteCategory groups notes.
type NoteCategory string

// Note categories.
const (
	NoteCategoryLore      NoteCategory = "lore"
	NoteCategoryCharacter NoteCategory = "character"
	NoteCategoryLocation  NoteCategory = "location"
	NoteCategoryQuest     NoteCategory = "quest"
	NoteCategorySession   NoteCategory = "session"
	NoteCategoryOther     NoteCategory = "other"
)

// ErrInvalidNoteCategory is returned for unknown note categories.
var ErrInvalidNoteCategory = errors.New("invalid note category")

// Validate checks that the category is a known value.
func (c NoteCategory) Validate() error {
	switch c {
	case NoteCategoryLore, NoteCategoryCharacter, NoteCategoryLocation,
		NoteCategoryQuest, NoteCategorySession, NoteCategoryOther:
		return nil
	default:
		return ErrInvalidNoteCategory
	}
}

// RelatedEntities holds a note's cross-references by id. References
// are not enforced against the target collections; deleting a
// referenced entity leaves a dangling id behind.
type RelatedEntities struct {
	Quests     []string `json:"quests"`
	Locations  []string `json:"locations"`
	Characters []string `json:"characters"`
	Items      []string `json:"items"`
}

// Note is a free-form campaign note.
type Note struct {
	Entity
	Title           string          `json:"title"`
	Content         string          `json:"content"`
	Category        NoteCategory    `json:"category"`
	Tags            []string        `json:"tags"`
	RelatedEntities RelatedEntities `json:"relatedEntities"`
}

// NewNote creates a note. An empty category defaults to "other".
func NewNote(title, content string, category NoteCategory) (*Note, error) {
	if category == "" {
		category = NoteCategoryOther
	}
	n := &Note{
		Entity:   NewEntity(),
		Title:    title,
		Content:  content,
		Category: category,
		Tags:     []string{},
		RelatedEntities: RelatedEntities{
			Quests:     []string{},
			Locations:  []string{},
			Characters: []string{},
			Items:      []string{},
		},
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate checks note invariants.
func (n *Note) Validate() error {
	if err := n.validateBase(); err != nil {
		return err
	}
	if err := validateName("title", n.Title); err != nil {
		return err
	}
	if err := n.Category.Validate(); err != nil {
		return &ValidationError{Field: "category", Message: err.Error()}
	}
	return nil
}

// Normalize repairs corrupted list fields, restoring each id list and
// the tag list to an empty array if it went missing. Called on every
// repository read.
func (n *Note) Normalize() {
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if n.RelatedEntities.Quests == nil {
		n.RelatedEntities.Quests = []string{}
	}
	if n.RelatedEntities.Locations == nil {
		n.RelatedEntities.Locations = []string{}
	}
	if n.RelatedEntities.Characters == nil {
		n.RelatedEntities.Characters = []string{}
	}
	if n.RelatedEntities.Items == nil {
		n.RelatedEntities.Items = []string{}
	}
}

// AddTag adds a tag. Set semantics: adding twice is a no-op.
func (n *Note) AddTag(tag string) {
	n.Normalize()
	n.Tags = addID(n.Tags, tag)
	n.touch()
}

// RemoveTag removes a tag by value.
func (n *Note) RemoveTag(tag string) {
	n.Normalize()
	n.Tags = removeID(n.Tags, tag)
	n.touch()
}

// AddRelatedQuest links a quest by id. Idempotent.
func (n *Note) AddRelatedQuest(id string) {
	n.Normalize()
	n.RelatedEntities.Quests = addID(n.RelatedEntities.Quests, id)
	n.touch()
}

// RemoveRelatedQuest unlinks a quest by id.
func (n *Note) RemoveRelatedQuest(id string) {
	n.Normalize()
	n.RelatedEntities.Quests = removeID(n.RelatedEntities.Quests, id)
	n.touch()
}

// AddRelatedLocation links a location by id. Idempotent.
func (n *Note) AddRelatedLocation(id string) {
	n.Normalize()
	n.RelatedEntities.Locations = addID(n.RelatedEntities.Locations, id)
	n.touch()
}

// RemoveRelatedLocation unlinks a location by id.
func (n *Note) RemoveRelatedLocation(id string) {
	n.Normalize()
	n.RelatedEntities.Locations = removeID(n.RelatedEntities.Locations, id)
	n.touch()
}

// AddRelatedCharacter links a character by id. Idempotent.
func (n *Note) AddRelatedCharacter(id string) {
	n.Normalize()
	n.RelatedEntities.Characters = addID(n.RelatedEntities.Characters, id)
	n.touch()
}

// RemoveRelatedCharacter unlinks a character by id.
func (n *Note) RemoveRelatedCharacter(id string) {
	n.Normalize()
	n.RelatedEntities.Characters = removeID(n.RelatedEntities.Characters, id)
	n.touch()
}

// AddRelatedItem links an item by id. Idempotent.
func (n *Note) AddRelatedItem(id string) {
	n.Normalize()
	n.RelatedEntities.Items = addID(n.RelatedEntities.Items, id)
	n.touch()
}

// RemoveRelatedItem unlinks an item by id.
func (n *Note) RemoveRelatedItem(id string) {
	n.Normalize()
	n.RelatedEntities.Items = removeID(n.RelatedEntities.Items, id)
	n.touch()
}
