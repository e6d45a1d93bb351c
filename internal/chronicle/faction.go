// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package chronicle

import "errors"

// Influence and relationship bounds.
const (
	MinInfluence    = 0
	MaxInfluence    = 100
	MinRelationship = -100
	MaxRelationship = 100
)

// FactionType categorizes a faction.
type FactionType string

// Faction types.
const (
	FactionGuild   FactionType = "guild"
	FactionKingdom FactionType = "kingdom"
	FactionCult    FactionType = "cult"
	FactionOrder   FactionType = "order"
	FactionTribe   FactionType = "tribe"
	FactionCompany FactionType = "company"
	FactionOther   FactionType = "other"
)

// ErrInvalidFactionType is returned for unknown faction types.
var ErrInvalidFactionType = errors.New("invalid faction type")

// Validate checks that the faction type is a known value.
func (t FactionType) Validate() error {
	switch t {
	case FactionGuild, FactionKingdom, FactionCult, FactionOrder,
		FactionTribe, FactionCompany, FactionOther:
		return nil
	default:
		return ErrInvalidFactionType
	}
}

// FactionAttitude is a faction's stance toward the party.
type FactionAttitude string

// Faction attitudes.
const (
	AttitudeHostile    FactionAttitude = "hostile"
	AttitudeUnfriendly FactionAttitude = "unfriendly"
	AttitudeNeutral    FactionAttitude = "neutral"
	AttitudeFriendly   FactionAttitude = "friendly"
	AttitudeAllied     FactionAttitude = "allied"
)

// ErrInvalidFactionAttitude is returned for unknown attitudes.
var ErrInvalidFactionAttitude = errors.New("invalid faction attitude")

// Validate checks that the attitude is a known value.
func (a FactionAttitude) Validate() error {
	switch a {
	case AttitudeHostile, AttitudeUnfriendly, AttitudeNeutral, AttitudeFriendly, AttitudeAllied:
		return nil
	default:
		return ErrInvalidFactionAttitude
	}
}

// Faction represents an organization in the campaign world.
// Influence stays in [0,100]; relationship deltas stay in [-100,100].
type Faction struct {
	Entity
	Name          string          `json:"name"`
	Type          FactionType     `json:"type"`
	Attitude      FactionAttitude `json:"attitude"`
	Influence     int             `json:"influence"`
	Relationships map[string]int  `json:"relationships"`
	Goals         []string        `json:"goals"`
	Leaders       []string        `json:"leaders"`
	Tags          []string        `json:"tags"`
	Active        bool            `json:"active"`
}

// NewFaction creates an active, neutral faction with no influence.
// An empty type defaults to "other".
func NewFaction(name string, factionType FactionType) (*Faction, error) {
	if factionType == "" {
		factionType = FactionOther
	}
	f := &Faction{
		Entity:        NewEntity(),
		Name:          name,
		Type:          factionType,
		Attitude:      AttitudeNeutral,
		Influence:     0,
		Relationships: map[string]int{},
		Goals:         []string{},
		Leaders:       []string{},
		Tags:          []string{},
		Active:        true,
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks faction invariants.
func (f *Faction) Validate() error {
	if err := f.validateBase(); err != nil {
		return err
	}
	if err := validateName("name", f.Name); err != nil {
		return err
	}
	if err := f.Type.Validate(); err != nil {
		return &ValidationError{Field: "type", Message: err.Error()}
	}
	if err := f.Attitude.Validate(); err != nil {
		return &ValidationError{Field: "attitude", Message: err.Error()}
	}
	if f.Influence < MinInfluence || f.Influence > MaxInfluence {
		return &ValidationError{Field: "influence", Message: "must be between 0 and 100"}
	}
	for id, delta := range f.Relationships {
		if delta < MinRelationship || delta > MaxRelationship {
			return &ValidationError{Field: "relationships." + id, Message: "must be between -100 and 100"}
		}
	}
	return nil
}

// SetAttitude changes the faction's stance toward the party.
func (f *Faction) SetAttitude(attitude FactionAttitude) error {
	if err := attitude.Validate(); err != nil {
		return &ValidationError{Field: "attitude", Message: err.Error()}
	}
	if attitude == f.Attitude {
		return nil
	}
	f.Attitude = attitude
	f.touch()
	return nil
}

// UpdateInfluence shifts influence by delta, clamped to [0,100].
func (f *Faction) UpdateInfluence(delta int) {
	f.Influence = clamp(f.Influence+delta, MinInfluence, MaxInfluence)
	f.touch()
}

// SetRelationship records the stance toward another faction, clamped
// to [-100,100].
func (f *Faction) SetRelationship(factionID string, delta int) error {
	if factionID == "" {
		return &ValidationError{Field: "relationships", Message: "faction id cannot be empty"}
	}
	if f.Relationships == nil {
		f.Relationships = map[string]int{}
	}
	f.Relationships[factionID] = clamp(delta, MinRelationship, MaxRelationship)
	f.touch()
	return nil
}

// RemoveRelationship forgets the stance toward another faction.
func (f *Faction) RemoveRelationship(factionID string) {
	delete(f.Relationships, factionID)
	f.touch()
}

// AddGoal records a faction goal. Idempotent.
func (f *Faction) AddGoal(goal string) {
	f.Goals = addID(f.Goals, goal)
	f.touch()
}

// RemoveGoal drops a faction goal.
func (f *Faction) RemoveGoal(goal string) {
	f.Goals = removeID(f.Goals, goal)
	f.touch()
}

// AddLeader records a leader by name or id. Idempotent.
func (f *Faction) AddLeader(leader string) {
	f.Leaders = addID(f.Leaders, leader)
	f.touch()
}

// RemoveLeader drops a leader.
func (f *Faction) RemoveLeader(leader string) {
	f.Leaders = removeID(f.Leaders, leader)
	f.touch()
}

// AddTag adds a tag. Set semantics.
func (f *Faction) AddTag(tag string) {
	f.Tags = addID(f.Tags, tag)
	f.touch()
}

// RemoveTag removes a tag by value.
func (f *Faction) RemoveTag(tag string) {
	f.Tags = removeID(f.Tags, tag)
	f.touch()
}

// SetActive flags whether the faction still operates.
func (f *Faction) SetActive(active bool) {
	if f.Active == active {
		return
	}
	f.Active = active
	f.touch()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
