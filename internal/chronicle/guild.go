// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package chronicle

import "errors"

// GuildActivityType categorizes guild activities.
type GuildActivityType string

// Guild activity types.
const (
	ActivityContract   GuildActivityType = "contract"
	ActivityExpedition GuildActivityType = "expedition"
	ActivityTraining   GuildActivityType = "training"
	ActivitySocial     GuildActivityType = "social"
	ActivityOther      GuildActivityType = "other"
)

// ErrInvalidActivityType is returned for unknown activity types.
var ErrInvalidActivityType = errors.New("invalid guild activity type")

// Validate checks that the activity type is a known value.
func (t GuildActivityType) Validate() error {
	switch t {
	case ActivityContract, ActivityExpedition, ActivityTraining, ActivitySocial, ActivityOther:
		return nil
	default:
		return ErrInvalidActivityType
	}
}

// GuildActivityStatus is an activity's lifecycle state.
type GuildActivityStatus string

// Guild activity statuses.
const (
	ActivityPlanned   GuildActivityStatus = "planned"
	ActivityActive    GuildActivityStatus = "active"
	ActivityCompleted GuildActivityStatus = "completed"
	ActivityCancelled GuildActivityStatus = "cancelled"
)

// ErrInvalidActivityStatus is returned for unknown activity statuses.
var ErrInvalidActivityStatus = errors.New("invalid guild activity status")

// Validate checks that the status is a known value.
func (s GuildActivityStatus) Validate() error {
	switch s {
	case ActivityPlanned, ActivityActive, ActivityCompleted, ActivityCancelled:
		return nil
	default:
		return ErrInvalidActivityStatus
	}
}

// GuildActivity is an undertaking logged in the guild ledger.
type GuildActivity struct {
	Entity
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Type        GuildActivityType   `json:"type"`
	Status      GuildActivityStatus `json:"status"`
}

// NewGuildActivity creates a planned activity. An empty type defaults
// to "other".
func NewGuildActivity(name, description string, activityType GuildActivityType) (*GuildActivity, error) {
	if activityType == "" {
		activityType = ActivityOther
	}
	a := &GuildActivity{
		Entity:      NewEntity(),
		Name:        name,
		Description: description,
		Type:        activityType,
		Status:      ActivityPlanned,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks activity invariants.
func (a *GuildActivity) Validate() error {
	if err := a.validateBase(); err != nil {
		return err
	}
	if err := validateName("name", a.Name); err != nil {
		return err
	}
	if err := a.Type.Validate(); err != nil {
		return &ValidationError{Field: "type", Message: err.Error()}
	}
	if err := a.Status.Validate(); err != nil {
		return &ValidationError{Field: "status", Message: err.Error()}
	}
	return nil
}

// SetStatus transitions the activity.
func (a *GuildActivity) SetStatus(status GuildActivityStatus) error {
	if err := status.Validate(); err != nil {
		return &ValidationError{Field: "status", Message: err.Error()}
	}
	if status == a.Status {
		return nil
	}
	a.Status = status
	a.touch()
	return nil
}

// GuildResourceType categorizes guild resources.
type GuildResourceType string

// Guild resource types.
const (
	ResourceGold       GuildResourceType = "gold"
	ResourceSupplies   GuildResourceType = "supplies"
	ResourceMaterials  GuildResourceType = "materials"
	ResourceProvisions GuildResourceType = "provisions"
	ResourceOther      GuildResourceType = "other"
)

// ErrInvalidResourceType is returned for unknown resource types.
var ErrInvalidResourceType = errors.New("invalid guild resource type")

// Validate checks that the resource type is a known value.
func (t GuildResourceType) Validate() error {
	switch t {
	case ResourceGold, ResourceSupplies, ResourceMaterials, ResourceProvisions, ResourceOther:
		return nil
	default:
		return ErrInvalidResourceType
	}
}

// GuildResource is a stockpiled quantity in the guild ledger.
// Quantity never goes negative: removal clamps at zero.
type GuildResource struct {
	Entity
	Name     string            `json:"name"`
	Type     GuildResourceType `json:"type"`
	Quantity int               `json:"quantity"`
}

// NewGuildResource creates a resource with the given starting
// quantity. Negative starting quantities are rejected. An empty type
// defaults to "other".
func NewGuildResource(name string, resourceType GuildResourceType, quantity int) (*GuildResource, error) {
	if resourceType == "" {
		resourceType = ResourceOther
	}
	r := &GuildResource{
		Entity:   NewEntity(),
		Name:     name,
		Type:     resourceType,
		Quantity: quantity,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks resource invariants.
func (r *GuildResource) Validate() error {
	if err := r.validateBase(); err != nil {
		return err
	}
	if err := validateName("name", r.Name); err != nil {
		return err
	}
	if err := r.Type.Validate(); err != nil {
		return &ValidationError{Field: "type", Message: err.Error()}
	}
	if r.Quantity < 0 {
		return &ValidationError{Field: "quantity", Message: "cannot be negative"}
	}
	return nil
}

// AddQuantity increases the stock.
func (r *GuildResource) AddQuantity(amount int) error {
	if amount < 0 {
		return &ValidationError{Field: "quantity", Message: "amount cannot be negative"}
	}
	if amount == 0 {
		return nil
	}
	r.Quantity += amount
	r.touch()
	return nil
}

// RemoveQuantity decreases the stock, clamping at zero.
func (r *GuildResource) RemoveQuantity(amount int) error {
	if amount < 0 {
		return &ValidationError{Field: "quantity", Message: "amount cannot be negative"}
	}
	if amount == 0 {
		return nil
	}
	r.Quantity -= amount
	if r.Quantity < 0 {
		r.Quantity = 0
	}
	r.touch()
	return nil
}
