// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package chronicle

import "github.com/lorekeep/lorekeep/internal/schema"

// State tree keys.
const (
	KeyQuests      = "quests"
	KeyNotes       = "notes"
	KeyItems       = "items"
	KeyLocations   = "locations"
	KeyPlayers     = "players"
	KeyGuild       = "guild"
	KeyFactions    = "factions"
	KeyPreferences = "preferences"

	keyActivities = "activities"
	keyResources  = "resources"
)

// InitialState returns the default state tree: empty collections, an
// empty guild ledger, and default preferences.
func InitialState() map[string]any {
	return map[string]any{
		KeyQuests:    []any{},
		KeyNotes:     []any{},
		KeyItems:     []any{},
		KeyLocations: []any{},
		KeyPlayers:   []any{},
		KeyGuild: map[string]any{
			keyActivities: []any{},
			keyResources:  []any{},
		},
		KeyFactions: []any{},
		KeyPreferences: map[string]any{
			"theme":               "dark",
			"showCompletedQuests": true,
		},
	}
}

// baseProperties are the schema properties every entity shares.
func baseProperties() map[string]*schema.Schema {
	return map[string]*schema.Schema{
		"id":        {Type: "string"},
		"createdAt": {Type: "string", Format: "date-time"},
		"updatedAt": {Type: "string", Format: "date-time"},
	}
}

// entitySchema builds an object schema from the base entity shape plus
// extra properties and required fields.
func entitySchema(properties map[string]*schema.Schema, required ...string) *schema.Schema {
	props := baseProperties()
	for name, s := range properties {
		props[name] = s
	}
	return &schema.Schema{
		Type:       "object",
		Properties: props,
		Required:   append([]string{"id", "createdAt", "updatedAt"}, required...),
	}
}

func idList() *schema.Schema {
	return &schema.Schema{Type: "array", Items: &schema.Schema{Type: "string"}}
}

func enumOf(values ...string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// StateSchema describes the full Lorekeep state tree for the
// declarative validator.
func StateSchema() schema.StateSchema {
	questSchema := entitySchema(map[string]*schema.Schema{
		"title":       {Type: "string"},
		"description": {Type: "string"},
		"type":        {Type: "string", Enum: enumOf("main", "side", "guild", "other")},
		"status":      {Type: "string", Enum: enumOf("available", "ongoing", "completed", "failed")},
		"statusHistory": {Type: "array", Items: &schema.Schema{
			Type: "object",
			Properties: map[string]*schema.Schema{
				"status":    {Type: "string", Enum: enumOf("available", "ongoing", "completed", "failed")},
				"timestamp": {Type: "string", Format: "date-time"},
			},
			Required: []string{"status", "timestamp"},
		}},
		"journalEntries": {Type: "array", Items: &schema.Schema{
			Type: "object",
			Properties: map[string]*schema.Schema{
				"content":   {Type: "string"},
				"timestamp": {Type: "string", Format: "date-time"},
			},
			Required: []string{"content", "timestamp"},
		}},
		"relatedLocations":  idList(),
		"relatedCharacters": idList(),
		"relatedItems":      idList(),
	}, "title", "type", "status")

	noteSchema := entitySchema(map[string]*schema.Schema{
		"title":    {Type: "string"},
		"content":  {Type: "string"},
		"category": {Type: "string", Enum: enumOf("lore", "character", "location", "quest", "session", "other")},
		"tags":     idList(),
		"relatedEntities": {
			Type: "object",
			Properties: map[string]*schema.Schema{
				"quests":     idList(),
				"locations":  idList(),
				"characters": idList(),
				"items":      idList(),
			},
		},
	}, "title", "category")

	itemSchema := entitySchema(map[string]*schema.Schema{
		"name":         {Type: "string"},
		"description":  {Type: "string"},
		"type":         {Type: "string", Enum: enumOf("weapon", "armor", "consumable", "quest", "treasure", "misc")},
		"rarity":       {Type: "string", Enum: enumOf("common", "uncommon", "rare", "epic", "legendary")},
		"curseEffects": idList(),
		"isCursed":     {Type: "boolean"},
		"ownerId":      {Type: "string"},
		"questSourceId": {
			Type: "string",
		},
	}, "name", "type", "rarity")

	locationSchema := entitySchema(map[string]*schema.Schema{
		"name":        {Type: "string"},
		"description": {Type: "string"},
		"type":        {Type: "string", Enum: enumOf("city", "town", "village", "dungeon", "wilderness", "landmark", "other")},
		"coordinates": {
			Type: "object",
			Properties: map[string]*schema.Schema{
				"x": {Type: "number"},
				"y": {Type: "number"},
			},
			Required: []string{"x", "y"},
		},
		"discovered":    {Type: "boolean"},
		"relatedQuests": idList(),
		"relatedItems":  idList(),
	}, "name", "type")

	playerSchema := entitySchema(map[string]*schema.Schema{
		"name":          {Type: "string"},
		"class":         {Type: "string", Enum: enumOf("warrior", "mage", "rogue", "cleric", "ranger", "bard", "other")},
		"level":         {Type: "number", Minimum: schema.Float(1)},
		"experience":    {Type: "number", Minimum: schema.Float(0)},
		"inventory":     idList(),
		"questProgress": idList(),
	}, "name", "class", "level", "experience")

	activitySchema := entitySchema(map[string]*schema.Schema{
		"name":        {Type: "string"},
		"description": {Type: "string"},
		"type":        {Type: "string", Enum: enumOf("contract", "expedition", "training", "social", "other")},
		"status":      {Type: "string", Enum: enumOf("planned", "active", "completed", "cancelled")},
	}, "name", "type", "status")

	resourceSchema := entitySchema(map[string]*schema.Schema{
		"name":     {Type: "string"},
		"type":     {Type: "string", Enum: enumOf("gold", "supplies", "materials", "provisions", "other")},
		"quantity": {Type: "number", Minimum: schema.Float(0)},
	}, "name", "type", "quantity")

	factionSchema := entitySchema(map[string]*schema.Schema{
		"name":      {Type: "string"},
		"type":      {Type: "string", Enum: enumOf("guild", "kingdom", "cult", "order", "tribe", "company", "other")},
		"attitude":  {Type: "string", Enum: enumOf("hostile", "unfriendly", "neutral", "friendly", "allied")},
		"influence": {Type: "number", Minimum: schema.Float(0), Maximum: schema.Float(100)},
		"relationships": {
			Type: "object",
		},
		"goals":   idList(),
		"leaders": idList(),
		"tags":    idList(),
		"active":  {Type: "boolean"},
	}, "name", "type", "attitude", "influence")

	return schema.StateSchema{
		KeyQuests:    {Type: "array", Items: questSchema},
		KeyNotes:     {Type: "array", Items: noteSchema},
		KeyItems:     {Type: "array", Items: itemSchema},
		KeyLocations: {Type: "array", Items: locationSchema},
		KeyPlayers:   {Type: "array", Items: playerSchema},
		KeyGuild: {
			Type: "object",
			Properties: map[string]*schema.Schema{
				keyActivities: {Type: "array", Items: activitySchema},
				keyResources:  {Type: "array", Items: resourceSchema},
			},
			Required: []string{keyActivities, keyResources},
		},
		KeyFactions: {Type: "array", Items: factionSchema},
		KeyPreferences: {
			Type: "object",
			Properties: map[string]*schema.Schema{
				"theme":               {Type: "string", Enum: enumOf("dark", "light", "parchment")},
				"showCompletedQuests": {Type: "boolean"},
			},
		},
	}
}
