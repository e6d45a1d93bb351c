// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package chronicle

import "errors"

// LocationType categorizes a location.
type LocationType string

// Location types.
const (
	LocationTypeCity       LocationType = "city"
	LocationTypeTown       LocationType = "town"
	LocationTypeVillage    LocationType = "village"
	LocationTypeDungeon    LocationType = "dungeon"
	LocationTypeWilderness LocationType = "wilderness"
	LocationTypeLandmark   LocationType = "landmark"
	LocationTypeOther      LocationType = "other"
)

// ErrInvalidLocationType is returned for unknown location types.
var ErrInvalidLocationType = errors.New("invalid location type")

// Validate checks that the location type is a known value.
func (t LocationType) Validate() error {
	switch t {
	case LocationTypeCity, LocationTypeTown, LocationTypeVillage, LocationTypeDungeon,
		LocationTypeWilderness, LocationTypeLandmark, LocationTypeOther:
		return nil
	default:
		return ErrInvalidLocationType
	}
}

// Coordinates places a location on the campaign map.
type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Location represents a place in the campaign world.
type Location struct {
	Entity
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Type          LocationType `json:"type"`
	Coordinates   Coordinates  `json:"coordinates"`
	Discovered    bool         `json:"discovered"`
	RelatedQuests []string     `json:"relatedQuests"`
	RelatedItems  []string     `json:"relatedItems"`
}

// NewLocation creates an undiscovered location. An empty type defaults
// to "other".
func NewLocation(name, description string, locType LocationType) (*Location, error) {
	if locType == "" {
		locType = LocationTypeOther
	}
	l := &Location{
		Entity:        NewEntity(),
		Name:          name,
		Description:   description,
		Type:          locType,
		RelatedQuests: []string{},
		RelatedItems:  []string{},
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate checks location invariants.
func (l *Location) Validate() error {
	if err := l.validateBase(); err != nil {
		return err
	}
	if err := validateName("name", l.Name); err != nil {
		return err
	}
	if err := l.Type.Validate(); err != nil {
		return &ValidationError{Field: "type", Message: err.Error()}
	}
	return nil
}

// SetCoordinates moves the location on the map.
func (l *Location) SetCoordinates(x, y float64) {
	l.Coordinates = Coordinates{X: x, Y: y}
	l.touch()
}

// MarkDiscovered flags the location as found by the party.
func (l *Location) MarkDiscovered() {
	if l.Discovered {
		return
	}
	l.Discovered = true
	l.touch()
}

// AddRelatedQuest links a quest by id. Idempotent.
func (l *Location) AddRelatedQuest(id string) {
	l.RelatedQuests = addID(l.RelatedQuests, id)
	l.touch()
}

// RemoveRelatedQuest unlinks a quest by id.
func (l *Location) RemoveRelatedQuest(id string) {
	l.RelatedQuests = removeID(l.RelatedQuests, id)
	l.touch()
}

// AddRelatedItem links an item by id. Idempotent.
func (l *Location) AddRelatedItem(id string) {
	l.RelatedItems = addID(l.RelatedItems, id)
	l.touch()
}

// RemoveRelatedItem unlinks an item by id.
func (l *Location) RemoveRelatedItem(id string) {
	l.RelatedItems = removeID(l.RelatedItems, id)
	l.touch()
}
