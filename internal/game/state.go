// Package game is the data model of one arena match: the state a tick
// reads and writes, the commands players submit and the events a tick
// emits.
package game

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/DoyleJ11/lane-arena/internal/content"
	"github.com/DoyleJ11/lane-arena/internal/topology"
)

type Team = topology.Team
type ZoneID = topology.ZoneID

const (
	TeamRadiant = topology.TeamRadiant
	TeamDire    = topology.TeamDire
)

var Teams = []Team{TeamRadiant, TeamDire}

type Phase string

const (
	PhasePicking Phase = "picking"
	PhasePlaying Phase = "playing"
	PhaseEnded   Phase = "ended"
)

type TeamStats struct {
	Kills      int `json:"kills"`
	TowerKills int `json:"towerKills"`
	Gold       int `json:"gold"`
}

const (
	BuffStun         = "stun"
	BuffSilence      = "silence"
	BuffRoot         = "root"
	BuffShield       = "shield"
	BuffAttackBonus  = "attack_bonus"
	BuffRegeneration = "regeneration"
	BuffDoubleDamage = "double_damage"
)

type Buff struct {
	ID             string `json:"id"`
	Stacks         int    `json:"stacks"`
	TicksRemaining int    `json:"ticksRemaining"`
	SourceID       string `json:"sourceId,omitempty"`
}

const InventorySize = 6

// Inventory slots hold item ids; an empty string is an empty slot and is
// encoded as null.
type Inventory [InventorySize]string

func (inv Inventory) MarshalJSON() ([]byte, error) {
	out := make([]*string, InventorySize)
	for i := range inv {
		if inv[i] != "" {
			id := inv[i]
			out[i] = &id
		}
	}
	return json.Marshal(out)
}

func (inv *Inventory) UnmarshalJSON(data []byte) error {
	var in []*string
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*inv = Inventory{}
	for i := 0; i < len(in) && i < InventorySize; i++ {
		if in[i] != nil {
			inv[i] = *in[i]
		}
	}
	return nil
}

// Index returns the first slot holding item, or -1.
func (inv Inventory) Index(item string) int {
	if item == "" {
		return -1
	}
	return slices.Index(inv[:], item)
}

// FreeSlot returns the first empty slot, or -1 when full.
func (inv Inventory) FreeSlot() int { return slices.Index(inv[:], "") }

func (inv Inventory) Items() []string {
	var out []string
	for _, id := range inv {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Team   Team   `json:"team"`
	HeroID string `json:"heroId,omitempty"`
	Zone   ZoneID `json:"zone"`

	HP    int `json:"hp"`
	MaxHP int `json:"maxHp"`
	MP    int `json:"mp"`
	MaxMP int `json:"maxMp"`
	Level int `json:"level"`
	XP    int `json:"xp"`
	Gold  int `json:"gold"`

	Items         Inventory            `json:"items"`
	Cooldowns     map[content.Slot]int `json:"cooldowns"`
	ItemCooldowns map[string]int       `json:"itemCooldowns,omitempty"`
	Buffs         []Buff               `json:"buffs"`

	Alive       bool `json:"alive"`
	RespawnTick *int `json:"respawnTick"`

	Kills       int `json:"kills"`
	Deaths      int `json:"deaths"`
	Assists     int `json:"assists"`
	HeroDamage  int `json:"heroDamage"`
	TowerDamage int `json:"towerDamage"`

	// attacker id -> last tick that attacker damaged this player
	RecentAttackers map[string]int `json:"-"`
}

func (p *Player) Buff(id string) (Buff, bool) {
	for _, b := range p.Buffs {
		if b.ID == id {
			return b, true
		}
	}
	return Buff{}, false
}

func (p *Player) HasBuff(id string) bool {
	_, ok := p.Buff(id)
	return ok
}

func (p *Player) Stunned() bool { return p.HasBuff(BuffStun) }

func (p *Player) Silenced() bool { return p.HasBuff(BuffSilence) }

func (p *Player) Rooted() bool { return p.HasBuff(BuffRoot) }

// AddBuff applies b, refreshing an existing buff with the same id to the
// longer duration and larger stack count.
func (p *Player) AddBuff(b Buff) {
	if b.TicksRemaining <= 0 {
		return
	}
	for i := range p.Buffs {
		if p.Buffs[i].ID == b.ID {
			p.Buffs[i].TicksRemaining = max(p.Buffs[i].TicksRemaining, b.TicksRemaining)
			p.Buffs[i].Stacks = max(p.Buffs[i].Stacks, b.Stacks)
			p.Buffs[i].SourceID = b.SourceID
			return
		}
	}
	p.Buffs = append(p.Buffs, b)
}

func (p *Player) RemoveBuff(id string) {
	p.Buffs = slices.DeleteFunc(p.Buffs, func(b Buff) bool { return b.ID == id })
}

func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	c := *p
	c.Cooldowns = maps.Clone(p.Cooldowns)
	c.ItemCooldowns = maps.Clone(p.ItemCooldowns)
	c.RecentAttackers = maps.Clone(p.RecentAttackers)
	c.Buffs = slices.Clone(p.Buffs)
	if p.RespawnTick != nil {
		rt := *p.RespawnTick
		c.RespawnTick = &rt
	}
	return &c
}

type CreepKind string

const (
	CreepMelee  CreepKind = "melee"
	CreepRanged CreepKind = "ranged"
	CreepSiege  CreepKind = "siege"
)

type Creep struct {
	ID    string        `json:"id"`
	Team  Team          `json:"team"`
	Zone  ZoneID        `json:"zone"`
	Lane  topology.Lane `json:"lane"`
	HP    int           `json:"hp"`
	MaxHP int           `json:"maxHp"`
	Kind  CreepKind     `json:"type"`
}

type Tower struct {
	Team  Team          `json:"team"`
	Zone  ZoneID        `json:"zone"`
	Lane  topology.Lane `json:"lane"`
	Tier  int           `json:"tier"`
	HP    int           `json:"hp"`
	MaxHP int           `json:"maxHp"`
	Alive bool          `json:"alive"`
}

type Ward struct {
	Team       Team   `json:"team"`
	OwnerID    string `json:"ownerId,omitempty"`
	PlacedTick int    `json:"placedTick"`
	ExpiryTick int    `json:"expiryTick"`
}

type ZoneState struct {
	Zone   ZoneID   `json:"zone"`
	Wards  []Ward   `json:"wards"`
	Creeps []string `json:"creeps"`
}

func (z *ZoneState) Clone() *ZoneState {
	if z == nil {
		return nil
	}
	c := *z
	c.Wards = slices.Clone(z.Wards)
	c.Creeps = slices.Clone(z.Creeps)
	return &c
}

type RuneKind string

const (
	RuneDoubleDamage RuneKind = "double_damage"
	RuneRegeneration RuneKind = "regeneration"
	RuneBounty       RuneKind = "bounty"
)

var RuneKinds = []RuneKind{RuneDoubleDamage, RuneRegeneration, RuneBounty}

type Rune struct {
	Kind      RuneKind `json:"kind"`
	Zone      ZoneID   `json:"zone"`
	SpawnTick int      `json:"spawnTick"`
}

type Roshan struct {
	HP          int  `json:"hp"`
	MaxHP       int  `json:"maxHp"`
	Alive       bool `json:"alive"`
	RespawnTick int  `json:"respawnTick,omitempty"`
}

// RoshanID is the source id Roshan uses in events.
const RoshanID = "roshan"

type State struct {
	ID      string                `json:"id"`
	Tick    int                   `json:"tick"`
	Phase   Phase                 `json:"phase"`
	Winner  Team                  `json:"winner,omitempty"`
	Teams   map[Team]TeamStats    `json:"teams"`
	Players map[string]*Player    `json:"players"`
	Zones   map[ZoneID]*ZoneState `json:"zones"`
	Creeps  []Creep               `json:"creeps"`
	Towers  []Tower               `json:"towers"`
	Runes   map[ZoneID]Rune       `json:"runes"`
	Roshan  Roshan                `json:"roshan"`
	Events  []Event               `json:"events"`
	Rules   Rules                 `json:"rules"`

	Seed        uint64 `json:"-"`
	Waves       int    `json:"waves"`
	RuneSpawns  int    `json:"-"`
	NextCreepID int    `json:"-"`
}

// Clone returns a deep copy; mutating the copy never affects s.
func (s State) Clone() State {
	c := s
	c.Teams = maps.Clone(s.Teams)
	if s.Players != nil {
		c.Players = make(map[string]*Player, len(s.Players))
		for id, p := range s.Players {
			c.Players[id] = p.Clone()
		}
	}
	if s.Zones != nil {
		c.Zones = make(map[ZoneID]*ZoneState, len(s.Zones))
		for id, z := range s.Zones {
			c.Zones[id] = z.Clone()
		}
	}
	c.Creeps = slices.Clone(s.Creeps)
	c.Towers = slices.Clone(s.Towers)
	c.Runes = maps.Clone(s.Runes)
	c.Events = slices.Clone(s.Events)
	return c
}

func (s *State) Player(id string) (*Player, bool) {
	p, ok := s.Players[id]
	return p, ok && p != nil
}

// PlayerIDs returns every player id in sorted order, which is the order
// all per-player passes iterate in.
func (s *State) PlayerIDs() []string {
	ids := make([]string, 0, len(s.Players))
	for id := range s.Players {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// PlayersIn returns the ids of alive players of team standing in zone.
// An empty team matches both sides.
func (s *State) PlayersIn(zone ZoneID, team Team) []string {
	var out []string
	for _, id := range s.PlayerIDs() {
		p := s.Players[id]
		if p.Alive && p.Zone == zone && (team == "" || p.Team == team) {
			out = append(out, id)
		}
	}
	return out
}

func (s *State) TeamPlayers(team Team) []string {
	var out []string
	for _, id := range s.PlayerIDs() {
		if s.Players[id].Team == team {
			out = append(out, id)
		}
	}
	return out
}

func (s *State) Zone(id ZoneID) *ZoneState {
	if s.Zones == nil {
		s.Zones = map[ZoneID]*ZoneState{}
	}
	z, ok := s.Zones[id]
	if !ok {
		z = &ZoneState{Zone: id}
		s.Zones[id] = z
	}
	return z
}

// CreepsIn returns the creeps in zone ordered by id. This is the order
// creep-by-index targets refer to.
func (s *State) CreepsIn(zone ZoneID) []Creep {
	var out []Creep
	for _, c := range s.Creeps {
		if c.Zone == zone && c.HP > 0 {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b Creep) int { return compareCreepIDs(a.ID, b.ID) })
	return out
}

func compareCreepIDs(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (s *State) Creep(id string) (*Creep, bool) {
	for i := range s.Creeps {
		if s.Creeps[i].ID == id {
			return &s.Creeps[i], true
		}
	}
	return nil, false
}

func (s *State) Tower(zone ZoneID) (*Tower, bool) {
	for i := range s.Towers {
		if s.Towers[i].Zone == zone {
			return &s.Towers[i], true
		}
	}
	return nil, false
}

func (s *State) AliveTowers(team Team) int {
	n := 0
	for _, t := range s.Towers {
		if t.Team == team && t.Alive {
			n++
		}
	}
	return n
}

// TowerTargetable reports whether the tower in zone may be attacked by
// team: it must be an alive enemy tower and the tower one tier below it
// on the same lane must already be destroyed.
func (s *State) TowerTargetable(zone ZoneID, by Team) bool {
	t, ok := s.Tower(zone)
	if !ok || !t.Alive || t.Team == by {
		return false
	}
	if t.Tier <= 1 {
		return true
	}
	for _, other := range s.Towers {
		if other.Team == t.Team && other.Lane == t.Lane && other.Tier == t.Tier-1 {
			return !other.Alive
		}
	}
	return true
}

// ActiveWards counts a team's wards across all zones.
func (s *State) ActiveWards(team Team) int {
	n := 0
	for _, z := range s.Zones {
		for _, w := range z.Wards {
			if w.Team == team {
				n++
			}
		}
	}
	return n
}

// AppendEvents adds events to the recent-event log, keeping only the last
// Rules.EventLogCap entries.
func (s *State) AppendEvents(events ...Event) {
	s.Events = append(s.Events, events...)
	limit := s.Rules.EventLogCap
	if limit > 0 && len(s.Events) > limit {
		s.Events = slices.Clone(s.Events[len(s.Events)-limit:])
	}
}

// RefreshZoneCreeps rebuilds the per-zone creep occupancy lists.
func (s *State) RefreshZoneCreeps() {
	for _, z := range s.Zones {
		z.Creeps = nil
	}
	for _, c := range s.Creeps {
		z := s.Zone(c.Zone)
		z.Creeps = append(z.Creeps, c.ID)
	}
	for _, z := range s.Zones {
		slices.SortFunc(z.Creeps, compareCreepIDs)
	}
}

// RecalculateTeamGold sets each team's gold aggregate to the sum of its
// players' gold.
func (s *State) RecalculateTeamGold() {
	if s.Teams == nil {
		s.Teams = map[Team]TeamStats{}
	}
	for _, team := range Teams {
		ts := s.Teams[team]
		ts.Gold = 0
		for _, id := range s.TeamPlayers(team) {
			ts.Gold += s.Players[id].Gold
		}
		s.Teams[team] = ts
	}
}

func (s *State) AddTeamKill(team Team) {
	if s.Teams == nil {
		s.Teams = map[Team]TeamStats{}
	}
	ts := s.Teams[team]
	ts.Kills++
	s.Teams[team] = ts
}

func (s *State) AddTeamTowerKill(team Team) {
	if s.Teams == nil {
		s.Teams = map[Team]TeamStats{}
	}
	ts := s.Teams[team]
	ts.TowerKills++
	s.Teams[team] = ts
}
