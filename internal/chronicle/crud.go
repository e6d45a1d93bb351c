// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lorekeep Contributors

package chronicle

import (
	"context"
)

// Collection refs used by the typed CRUD surface.
var (
	refQuests     = colRef{top: KeyQuests}
	refNotes      = colRef{top: KeyNotes}
	refItems      = colRef{top: KeyItems}
	refLocations  = colRef{top: KeyLocations}
	refPlayers    = colRef{top: KeyPlayers}
	refFactions   = colRef{top: KeyFactions}
	refActivities = colRef{top: KeyGuild, sub: keyActivities}
	refResources  = colRef{top: KeyGuild, sub: keyResources}
)

// --- Quests ---

// QuestUpdate is an update request for a quest. Nil fields are left
// unchanged; Status transitions go through the quest's history log.
type QuestUpdate struct {
	Title       *string
	Description *string
	Type        *QuestType
	Status      *QuestStatus
}

// AddQuest validates and appends a constructed quest.
func (r *Repository) AddQuest(ctx context.Context, q *Quest) error {
	if q == nil {
		return invalidArgumentf("quest cannot be nil")
	}
	if err := q.Validate(); err != nil {
		return invalidArgumentf("invalid quest: %s", err)
	}
	return addEntity(ctx, r, refQuests, q)
}

// QuestByID returns the quest with the given id.
func (r *Repository) QuestByID(id string) (*Quest, error) {
	return getEntity[Quest](r, refQuests, "quest", id)
}

// Quests returns every quest in storage order.
func (r *Repository) Quests() ([]*Quest, error) {
	return listEntities[Quest](r, refQuests)
}

// UpdateQuest applies an update request to a quest and persists it.
func (r *Repository) UpdateQuest(ctx context.Context, id string, u QuestUpdate) (*Quest, error) {
	return r.ModifyQuest(ctx, id, func(q *Quest) error {
		if u.Title != nil {
			if err := validateName("title", *u.Title); err != nil {
				return err
			}
			q.Title = *u.Title
		}
		if u.Description != nil {
			q.Description = *u.Description
		}
		if u.Type != nil {
			if err := u.Type.Validate(); err != nil {
				return err
			}
			q.Type = *u.Type
		}
		if u.Status != nil {
			if err := q.SetStatus(*u.Status); err != nil {
				return err
			}
		}
		q.touch()
		return nil
	})
}

// ModifyQuest runs fn against the quest and persists the validated
// result. The stored quest is untouched if fn or validation fails.
func (r *Repository) ModifyQuest(ctx context.Context, id string, fn func(*Quest) error) (*Quest, error) {
	return modifyEntity(ctx, r, refQuests, "quest", id, (*Quest).Validate, fn)
}

// DeleteQuest removes a quest by id.
func (r *Repository) DeleteQuest(ctx context.Context, id string) error {
	return deleteEntity(ctx, r, refQuests, "quest", id)
}

// --- Notes ---

// NoteUpdate is an update request for a note.
type NoteUpdate struct {
	Title    *string
	Content  *string
	Category *NoteCategory
	Tags     *[]string
}

// AddNote validates and appends a constructed note.
func (r *Repository) AddNote(ctx context.Context, n *Note) error {
	if n == nil {
		return invalidArgumentf("note cannot be nil")
	}
	if err := n.Validate(); err != nil {
		return invalidArgumentf("invalid note: %s", err)
	}
	n.Normalize()
	return addEntity(ctx, r, refNotes, n)
}

// NoteByID returns the note with the given id, with its list fields
// re-normalized.
func (r *Repository) NoteByID(id string) (*Note, error) {
	n, err := getEntity[Note](r, refNotes, "note", id)
	if err != nil {
		return nil, err
	}
	n.Normalize()
	return n, nil
}

// Notes returns every note in storage order, re-normalized.
func (r *Repository) Notes() ([]*Note, error) {
	notes, err := listEntities[Note](r, refNotes)
	if err != nil {
		return nil, err
	}
	for _, n := range notes {
		n.Normalize()
	}
	return notes, nil
}

// UpdateNote applies an update request to a note and persists it.
func (r *Repository) UpdateNote(ctx context.Context, id string, u NoteUpdate) (*Note, error) {
	return r.ModifyNote(ctx, id, func(n *Note) error {
		if u.Title != nil {
			if err := validateName("title", *u.Title); err != nil {
				return err
			}
			n.Title = *u.Title
		}
		if u.Content != nil {
			n.Content = *u.Content
		}
		if u.Category != nil {
			if err := u.Category.Validate(); err != nil {
				return err
			}
			n.Category = *u.Category
		}
		if u.Tags != nil {
			n.Tags = append([]string{}, (*u.Tags)...)
		}
		n.touch()
		return nil
	})
}

// ModifyNote runs fn against the note and persists the validated result.
func (r *Repository) ModifyNote(ctx context.Context, id string, fn func(*Note) error) (*Note, error) {
	return modifyEntity(ctx, r, refNotes, "note", id, (*Note).Validate, func(n *Note) error {
		n.Normalize()
		return fn(n)
	})
}

// DeleteNote removes a note by id.
func (r *Repository) DeleteNote(ctx context.Context, id string) error {
	return deleteEntity(ctx, r, refNotes, "note", id)
}

// --- Items ---

// ItemUpdate is an update request for an item. ClearOwner and
// ClearQuestSource null the respective references.
type ItemUpdate struct {
	Name             *string
	Description      *string
	Type             *ItemType
	Rarity           *ItemRarity
	OwnerID          *string
	ClearOwner       bool
	QuestSourceID    *string
	ClearQuestSource bool
}

// AddItem validates and appends a constructed item.
func (r *Repository) AddItem(ctx context.Context, it *Item) error {
	if it == nil {
		return invalidArgumentf("item cannot be nil")
	}
	if err := it.Validate(); err != nil {
		return invalidArgumentf("invalid item: %s", err)
	}
	return addEntity(ctx, r, refItems, it)
}

// ItemByID returns the item with the given id.
func (r *Repository) ItemByID(id string) (*Item, error) {
	return getEntity[Item](r, refItems, "item", id)
}

// Items returns every item in storage order.
func (r *Repository) Items() ([]*Item, error) {
	return listEntities[Item](r, refItems)
}

// UpdateItem applies an update request to an item and persists it.
func (r *Repository) UpdateItem(ctx context.Context, id string, u ItemUpdate) (*Item, error) {
	return r.ModifyItem(ctx, id, func(it *Item) error {
		if u.Name != nil {
			if err := validateName("name", *u.Name); err != nil {
				return err
			}
			it.Name = *u.Name
		}
		if u.Description != nil {
			it.Description = *u.Description
		}
		if u.Type != nil {
			if err := u.Type.Validate(); err != nil {
				return err
			}
			it.Type = *u.Type
		}
		if u.Rarity != nil {
			if err := u.Rarity.Validate(); err != nil {
				return err
			}
			it.Rarity = *u.Rarity
		}
		switch {
		case u.ClearOwner:
			it.OwnerID = nil
		case u.OwnerID != nil:
			it.OwnerID = u.OwnerID
		}
		switch {
		case u.ClearQuestSource:
			it.QuestSourceID = nil
		case u.QuestSourceID != nil:
			it.QuestSourceID = u.QuestSourceID
		}
		it.touch()
		return nil
	})
}

// ModifyItem runs fn against the item and persists the validated result.
func (r *Repository) ModifyItem(ctx context.Context, id string, fn func(*Item) error) (*Item, error) {
	return modifyEntity(ctx, r, refItems, "item", id, (*Item).Validate, fn)
}

// DeleteItem removes an item by id.
func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	return deleteEntity(ctx, r, refItems, "item", id)
}

// --- Locations ---

// LocationUpdate is an update request for a location.
type LocationUpdate struct {
	Name        *string
	Description *string
	Type        *LocationType
	Coordinates *Coordinates
	Discovered  *bool
}

// AddLocation validates and appends a constructed location.
func (r *Repository) AddLocation(ctx context.Context, l *Location) error {
	if l == nil {
		return invalidArgumentf("location cannot be nil")
	}
	if err := l.Validate(); err != nil {
		return invalidArgumentf("invalid location: %s", err)
	}
	return addEntity(ctx, r, refLocations, l)
}

// LocationByID returns the location with the given id.
func (r *Repository) LocationByID(id string) (*Location, error) {
	return getEntity[Location](r, refLocations, "location", id)
}

// Locations returns every location in storage order.
func (r *Repository) Locations() ([]*Location, error) {
	return listEntities[Location](r, refLocations)
}

// UpdateLocation applies an update request to a location and persists it.
func (r *Repository) UpdateLocation(ctx context.Context, id string, u LocationUpdate) (*Location, error) {
	return r.ModifyLocation(ctx, id, func(l *Location) error {
		if u.Name != nil {
			if err := validateName("name", *u.Name); err != nil {
				return err
			}
			l.Name = *u.Name
		}
		if u.Description != nil {
			l.Description = *u.Description
		}
		if u.Type != nil {
			if err := u.Type.Validate(); err != nil {
				return err
			}
			l.Type = *u.Type
		}
		if u.Coordinates != nil {
			l.Coordinates = *u.Coordinates
		}
		if u.Discovered != nil {
			l.Discovered = *u.Discovered
		}
		l.touch()
		return nil
	})
}

// ModifyLocation runs fn against the location and persists the
// validated result.
func (r *Repository) ModifyLocation(ctx context.Context, id string, fn func(*Location) error) (*Location, error) {
	return modifyEntity(ctx, r, refLocations, "location", id, (*Location).Validate, fn)
}

// DeleteLocation removes a location by id.
func (r *Repository) DeleteLocation(ctx context.Context, id string) error {
	return deleteEntity(ctx, r, refLocations, "location", id)
}

// --- Players ---

// PlayerUpdate is an update request for a player character.
type PlayerUpdate struct {
	Name  *string
	Class *PlayerClass
}

// AddPlayer validates and appends a constructed player character.
func (r *Repository) AddPlayer(ctx context.Context, p *Player) error {
	if p == nil {
		return invalidArgumentf("player cannot be nil")
	}
	if err := p.Validate(); err != nil {
		return invalidArgumentf("invalid player: %s", err)
	}
	return addEntity(ctx, r, refPlayers, p)
}

// PlayerByID returns the player with the given id.
func (r *Repository) PlayerByID(id string) (*Player, error) {
	return getEntity[Player](r, refPlayers, "player", id)
}

// Players returns every player in storage order.
func (r *Repository) Players() ([]*Player, error) {
	return listEntities[Player](r, refPlayers)
}

// UpdatePlayer applies an update request to a player and persists it.
func (r *Repository) UpdatePlayer(ctx context.Context, id string, u PlayerUpdate) (*Player, error) {
	return r.ModifyPlayer(ctx, id, func(p *Player) error {
		if u.Name != nil {
			if err := validateName("name", *u.Name); err != nil {
				return err
			}
			p.Name = *u.Name
		}
		if u.Class != nil {
			if err := u.Class.Validate(); err != nil {
				return err
			}
			p.Class = *u.Class
		}
		p.touch()
		return nil
	})
}

// ModifyPlayer runs fn against the player and persists the validated
// result.
func (r *Repository) ModifyPlayer(ctx context.Context, id string, fn func(*Player) error) (*Player, error) {
	return modifyEntity(ctx, r, refPlayers, "player", id, (*Player).Validate, fn)
}

// DeletePlayer removes a player by id.
func (r *Repository) DeletePlayer(ctx context.Context, id string) error {
	return deleteEntity(ctx, r, refPlayers, "player", id)
}

// --- Guild activities ---

// GuildActivityUpdate is an update request for a guild activity.
type GuildActivityUpdate struct {
	Name        *string
	Description *string
	Type        *GuildActivityType
	Status      *GuildActivityStatus
}

// AddGuildActivity validates and appends a constructed guild activity.
func (r *Repository) AddGuildActivity(ctx context.Context, a *GuildActivity) error {
	if a == nil {
		return invalidArgumentf("guild activity cannot be nil")
	}
	if err := a.Validate(); err != nil {
		return invalidArgumentf("invalid guild activity: %s", err)
	}
	return addEntity(ctx, r, refActivities, a)
}

// GuildActivityByID returns the guild activity with the given id.
func (r *Repository) GuildActivityByID(id string) (*GuildActivity, error) {
	return getEntity[GuildActivity](r, refActivities, "guild activity", id)
}

// GuildActivities returns every guild activity in storage order.
func (r *Repository) GuildActivities() ([]*GuildActivity, error) {
	return listEntities[GuildActivity](r, refActivities)
}

// UpdateGuildActivity applies an update request to a guild activity
// and persists it.
func (r *Repository) UpdateGuildActivity(ctx context.Context, id string, u GuildActivityUpdate) (*GuildActivity, error) {
	return r.ModifyGuildActivity(ctx, id, func(a *GuildActivity) error {
		if u.Name != nil {
			if err := validateName("name", *u.Name); err != nil {
				return err
			}
			a.Name = *u.Name
		}
		if u.Description != nil {
			a.Description = *u.Description
		}
		if u.Type != nil {
			if err := u.Type.Validate(); err != nil {
				return err
			}
			a.Type = *u.Type
		}
		if u.Status != nil {
			if err := a.SetStatus(*u.Status); err != nil {
				return err
			}
		}
		a.touch()
		return nil
	})
}

// ModifyGuildActivity runs fn against the activity and persists the
// validated result.
func (r *Repository) ModifyGuildActivity(ctx context.Context, id string, fn func(*GuildActivity) error) (*GuildActivity, error) {
	return modifyEntity(ctx, r, refActivities, "guild activity", id, (*GuildActivity).Validate, fn)
}

// DeleteGuildActivity removes a guild activity by id.
func (r *Repository) DeleteGuildActivity(ctx context.Context, id string) error {
	return deleteEntity(ctx, r, refActivities, "guild activity", id)
}

// --- Guild resources ---

// GuildResourceUpdate is an update request for a guild resource.
type GuildResourceUpdate struct {
	Name *string
	Type *GuildResourceType
}

// AddGuildResource validates and appends a constructed guild resource.
func (r *Repository) AddGuildResource(ctx context.Context, res *GuildResource) error {
	if res == nil {
		return invalidArgumentf("guild resource cannot be nil")
	}
	if err := res.Validate(); err != nil {
		return invalidArgumentf("invalid guild resource: %s", err)
	}
	return addEntity(ctx, r, refResources, res)
}

// GuildResourceByID returns the guild resource with the given id.
func (r *Repository) GuildResourceByID(id string) (*GuildResource, error) {
	return getEntity[GuildResource](r, refResources, "guild resource", id)
}

// GuildResources returns every guild resource in storage order.
func (r *Repository) GuildResources() ([]*GuildResource, error) {
	return listEntities[GuildResource](r, refResources)
}

// UpdateGuildResource applies an update request to a guild resource
// and persists it.
func (r *Repository) UpdateGuildResource(ctx context.Context, id string, u GuildResourceUpdate) (*GuildResource, error) {
	return r.ModifyGuildResource(ctx, id, func(res *GuildResource) error {
		if u.Name != nil {
			if err := validateName("name", *u.Name); err != nil {
				return err
			}
			res.Name = *u.Name
		}
		if u.Type != nil {
			if err := u.Type.Validate(); err != nil {
				return err
			}
			res.Type = *u.Type
		}
		res.touch()
		return nil
	})
}

// ModifyGuildResource runs fn against the resource and persists the
// validated result.
func (r *Repository) ModifyGuildResource(ctx context.Context, id string, fn func(*GuildResource) error) (*GuildResource, error) {
	return modifyEntity(ctx, r, refResources, "guild resource", id, (*GuildResource).Validate, fn)
}

// DeleteGuildResource removes a guild resource by id.
func (r *Repository) DeleteGuildResource(ctx context.Context, id string) error {
	return deleteEntity(ctx, r, refResources, "guild resource", id)
}

// --- Factions ---

// FactionUpdate is an update request for a faction.
type FactionUpdate struct {
	Name     *string
	Type     *FactionType
	Attitude *FactionAttitude
	Active   *bool
}

// AddFaction validates and appends a constructed faction.
func (r *Repository) AddFaction(ctx context.Context, f *Faction) error {
	if f == nil {
		return invalidArgumentf("faction cannot be nil")
	}
	if err := f.Validate(); err != nil {
		return invalidArgumentf("invalid faction: %s", err)
	}
	return addEntity(ctx, r, refFactions, f)
}

// FactionByID returns the faction with the given id.
func (r *Repository) FactionByID(id string) (*Faction, error) {
	return getEntity[Faction](r, refFactions, "faction", id)
}

// Factions returns every faction in storage order.
func (r *Repository) Factions() ([]*Faction, error) {
	return listEntities[Faction](r, refFactions)
}

// UpdateFaction applies an update request to a faction and persists it.
func (r *Repository) UpdateFaction(ctx context.Context, id string, u FactionUpdate) (*Faction, error) {
	return r.ModifyFaction(ctx, id, func(f *Faction) error {
		if u.Name != nil {
			if err := validateName("name", *u.Name); err != nil {
				return err
			}
			f.Name = *u.Name
		}
		if u.Type != nil {
			if err := u.Type.Validate(); err != nil {
				return err
			}
			f.Type = *u.Type
		}
		if u.Attitude != nil {
			if err := f.SetAttitude(*u.Attitude); err != nil {
				return err
			}
		}
		if u.Active != nil {
			f.SetActive(*u.Active)
		}
		f.touch()
		return nil
	})
}

// ModifyFaction runs fn against the faction and persists the validated
// result.
func (r *Repository) ModifyFaction(ctx context.Context, id string, fn func(*Faction) error) (*Faction, error) {
	return modifyEntity(ctx, r, refFactions, "faction", id, (*Faction).Validate, fn)
}

// DeleteFaction removes a faction by id.
func (r *Repository) DeleteFaction(ctx context.Context, id string) error {
	return deleteEntity(ctx, r, refFactions, "faction", id)
}

// --- Preferences ---

// Preferences returns the UI preferences sub-record.
func (r *Repository) Preferences() map[string]any {
	prefs, _ := r.store.Tree()[KeyPreferences].(map[string]any)
	return prefs
}

// UpdatePreferences shallow-merges partial into the preferences
// sub-record after schema validation.
func (r *Repository) UpdatePreferences(ctx context.Context, partial map[string]any) error {
	if len(partial) == 0 {
		return invalidArgumentf("preferences update cannot be empty")
	}
	return r.commit(ctx, map[string]any{KeyPreferences: partial})
}
