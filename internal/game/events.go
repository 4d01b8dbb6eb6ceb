package game

import "github.com/DoyleJ11/lane-arena/internal/content"

type EventType string

const (
	EvtDamage        EventType = "damage"
	EvtHeal          EventType = "heal"
	EvtKill          EventType = "kill"
	EvtDeath         EventType = "death"
	EvtRespawn       EventType = "respawn"
	EvtTowerKill     EventType = "tower_kill"
	EvtCreepLastHit  EventType = "creep_lasthit"
	EvtGoldChange    EventType = "gold_change"
	EvtLevelUp       EventType = "level_up"
	EvtAbilityUsed   EventType = "ability_used"
	EvtItemPurchased EventType = "item_purchased"
	EvtItemSold      EventType = "item_sold"
	EvtWardPlaced    EventType = "ward_placed"
	EvtRunePicked    EventType = "rune_picked"
	EvtRoshanKilled  EventType = "roshan_killed"
	EvtGameOver      EventType = "game_over"
)

// Event is a discriminated record of why state changed. Which fields are
// set depends on Type; unset fields are omitted on the wire.
type Event struct {
	Type        EventType          `json:"type"`
	Tick        int                `json:"tick"`
	SourceID    string             `json:"sourceId,omitempty"`
	TargetID    string             `json:"targetId,omitempty"`
	PlayerID    string             `json:"playerId,omitempty"`
	Team        Team               `json:"team,omitempty"`
	Zone        ZoneID             `json:"zone,omitempty"`
	Amount      int                `json:"amount,omitempty"`
	DamageType  content.DamageType `json:"damageType,omitempty"`
	AbilityID   string             `json:"abilityId,omitempty"`
	ItemID      string             `json:"itemId,omitempty"`
	Level       int                `json:"level,omitempty"`
	RespawnTick int                `json:"respawnTick,omitempty"`
	Rune        RuneKind           `json:"rune,omitempty"`
	Denied      bool               `json:"denied,omitempty"`
	Reason      string             `json:"reason,omitempty"`
}

// References reports whether any id field of the event names id.
func (e Event) References(id string) bool {
	if id == "" {
		return false
	}
	return e.SourceID == id || e.TargetID == id || e.PlayerID == id
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

func FilterEvents(events []Event, eventType EventType) []Event {
	var out []Event
	for _, e := range events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
