// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package chronicle

import "errors"

// XPPerLevel is the experience span of one level: level is derived as
// floor(xp/1000)+1.
const XPPerLevel = 1000

// PlayerClass is a character's class.
type PlayerClass string

// Player classes.
const (
	ClassWarrior PlayerClass = "warrior"
	ClassMage    PlayerClass = "mage"
	ClassRogue   PlayerClass = "rogue"
	ClassCleric  PlayerClass = "cleric"
	ClassRanger  PlayerClass = "ranger"
	ClassBard    PlayerClass = "bard"
	ClassOther   PlayerClass = "other"
)

// ErrInvalidPlayerClass is returned for unknown classes.
var ErrInvalidPlayerClass = errors.New("invalid player class")

// Validate checks that the class is a known value.
func (c PlayerClass) Validate() error {
	switch c {
	case ClassWarrior, ClassMage, ClassRogue, ClassCleric, ClassRanger, ClassBard, ClassOther:
		return nil
	default:
		return ErrInvalidPlayerClass
	}
}

// Player represents a player character. Level is derived from
// experience and never decreases; experience never goes negative.
type Player struct {
	Entity
	Name          string      `json:"name"`
	Class         PlayerClass `json:"class"`
	Level         int         `json:"level"`
	Experience    int         `json:"experience"`
	Inventory     []string    `json:"inventory"`
	QuestProgress []string    `json:"questProgress"`
}

// NewPlayer creates a level-1 character with no experience. An empty
// class defaults to "other".
func NewPlayer(name string, class PlayerClass) (*Player, error) {
	if class == "" {
		class = ClassOther
	}
	p := &Player{
		Entity:        NewEntity(),
		Name:          name,
		Class:         class,
		Level:         1,
		Experience:    0,
		Inventory:     []string{},
		QuestProgress: []string{},
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks player invariants.
func (p *Player) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}
	if err := validateName("name", p.Name); err != nil {
		return err
	}
	if err := p.Class.Validate(); err != nil {
		return &ValidationError{Field: "class", Message: err.Error()}
	}
	if p.Experience < 0 {
		return &ValidationError{Field: "experience", Message: "cannot be negative"}
	}
	if p.Level < 1 {
		return &ValidationError{Field: "level", Message: "must be at least 1"}
	}
	if p.Level < p.derivedLevel() {
		return &ValidationError{Field: "level", Message: "cannot be below the level derived from experience"}
	}
	return nil
}

func (p *Player) derivedLevel() int {
	return p.Experience/XPPerLevel + 1
}

// AddExperience grants experience and re-derives the level. The level
// is monotonically non-decreasing.
func (p *Player) AddExperience(amount int) error {
	if amount < 0 {
		return &ValidationError{Field: "experience", Message: "amount cannot be negative"}
	}
	if amount == 0 {
		return nil
	}
	p.Experience += amount
	if derived := p.derivedLevel(); derived > p.Level {
		p.Level = derived
	}
	p.touch()
	return nil
}

// AddToInventory records possession of an item by id. Idempotent.
func (p *Player) AddToInventory(itemID string) {
	p.Inventory = addID(p.Inventory, itemID)
	p.touch()
}

// RemoveFromInventory drops an item by id.
func (p *Player) RemoveFromInventory(itemID string) {
	p.Inventory = removeID(p.Inventory, itemID)
	p.touch()
}

// TrackQuest adds a quest to the character's progress list. Idempotent.
func (p *Player) TrackQuest(questID string) {
	p.QuestProgress = addID(p.QuestProgress, questID)
	p.touch()
}

// UntrackQuest removes a quest from the progress list.
func (p *Player) UntrackQuest(questID string) {
	p.QuestProgress = removeID(p.QuestProgress, questID)
	p.touch()
}
