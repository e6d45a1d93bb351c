// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package chronicle

import "errors"

// ItemType categorizes an item.
type ItemType string

// Item types.
const (
	ItemTypeWeapon     ItemType = "weapon"
	ItemTypeArmor      ItemType = "armor"
	ItemTypeConsumable ItemType = "consumable"
	ItemTypeQuest      ItemType = "quest"
	ItemTypeTreasure   ItemType = "treasure"
	ItemTypeMisc       ItemType = "misc"
)

// ErrInvalidItemType is returned for unknown item types.
var ErrInvalidItemType = errors.New("invalid item type")

// Validate checks that the item type is a known value.
func (t ItemType) Validate() error {
	switch t {
	case ItemTypeWeapon, ItemTypeArmor, ItemTypeConsumable,
		ItemTypeQuest, ItemTypeTreasure, ItemTypeMisc:
		return nil
	default:
		return ErrInvalidItemType
	}
}

// ItemRarity grades an item.
type ItemRarity string

// Item rarities.
const (
	RarityCommon    ItemRarity = "common"
	RarityUncommon  ItemRarity = "uncommon"
	RarityRare      ItemRarity = "rare"
	RarityEpic      ItemRarity = "epic"
	RarityLegendary ItemRarity = "legendary"
)

// ErrInvalidItemRarity is returned for unknown rarities.
var ErrInvalidItemRarity = errors.New("invalid item rarity")

// Validate checks that the rarity is a known value.
func (r ItemRarity) Validate() error {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary:
		return nil
	default:
		return ErrInvalidItemRarity
	}
}

// Item represents an object in the party's possession or lore.
// IsCursed is derived: true exactly when CurseEffects is non-empty.
type Item struct {
	Entity
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Type          ItemType   `json:"type"`
	Rarity        ItemRarity `json:"rarity"`
	CurseEffects  []string   `json:"curseEffects"`
	IsCursed      bool       `json:"isCursed"`
	OwnerID       *string    `json:"ownerId"`
	QuestSourceID *string    `json:"questSourceId"`
}

// NewItem creates an item. Empty type defaults to misc, empty rarity
// to common.
func NewItem(name, description string, itemType ItemType, rarity ItemRarity) (*Item, error) {
	if itemType == "" {
		itemType = ItemTypeMisc
	}
	if rarity == "" {
		rarity = RarityCommon
	}
	it := &Item{
		Entity:       NewEntity(),
		Name:         name,
		Description:  description,
		Type:         itemType,
		Rarity:       rarity,
		CurseEffects: []string{},
	}
	if err := it.Validate(); err != nil {
		return nil, err
	}
	return it, nil
}

// Validate checks item invariants.
func (it *Item) Validate() error {
	if err := it.validateBase(); err != nil {
		return err
	}
	if err := validateName("name", it.Name); err != nil {
		return err
	}
	if err := it.Type.Validate(); err != nil {
		return &ValidationError{Field: "type", Message: err.Error()}
	}
	if err := it.Rarity.Validate(); err != nil {
		return &ValidationError{Field: "rarity", Message: err.Error()}
	}
	if it.IsCursed != (len(it.CurseEffects) > 0) {
		return &ValidationError{Field: "isCursed", Message: "must match curse effects"}
	}
	return nil
}

// AddCurseEffect records a curse effect and re-derives IsCursed.
func (it *Item) AddCurseEffect(effect string) error {
	if effect == "" {
		return &ValidationError{Field: "curseEffects", Message: "effect cannot be empty"}
	}
	it.CurseEffects = addID(it.CurseEffects, effect)
	it.IsCursed = len(it.CurseEffects) > 0
	it.touch()
	return nil
}

// RemoveCurseEffect removes a curse effect and re-derives IsCursed.
func (it *Item) RemoveCurseEffect(effect string) {
	it.CurseEffects = removeID(it.CurseEffects, effect)
	it.IsCursed = len(it.CurseEffects) > 0
	it.touch()
}

// SetOwner assigns the owning character id; nil clears ownership.
func (it *Item) SetOwner(characterID *string) {
	it.OwnerID = characterID
	it.touch()
}

// SetQuestSource records the quest this item came from; nil clears it.
func (it *Item) SetQuestSource(questID *string) {
	it.QuestSourceID = questID
	it.touch()
}
