package game

import "github.com/DoyleJ11/lane-arena/internal/content"

type CommandType string

const (
	CmdMove   CommandType = "move"
	CmdAttack CommandType = "attack"
	CmdCast   CommandType = "cast"
	CmdUse    CommandType = "use"
	CmdBuy    CommandType = "buy"
	CmdSell   CommandType = "sell"
	CmdWard   CommandType = "ward"
	CmdScan   CommandType = "scan"
	CmdStatus CommandType = "status"
	CmdMap    CommandType = "map"
	CmdChat   CommandType = "chat"
	CmdPing   CommandType = "ping"
)

type TargetKind string

const (
	TargetHero   TargetKind = "hero"
	TargetCreep  TargetKind = "creep"
	TargetTower  TargetKind = "tower"
	TargetRoshan TargetKind = "roshan"
	TargetSelf   TargetKind = "self"
)

// TargetRef names what a command aims at. Name is used by hero targets,
// Index by creep targets and Zone by tower targets.
type TargetRef struct {
	Kind  TargetKind `json:"kind"`
	Name  string     `json:"name,omitempty"`
	Index int        `json:"index,omitempty"`
	Zone  ZoneID     `json:"zone,omitempty"`
}

func Hero(name string) *TargetRef { return &TargetRef{Kind: TargetHero, Name: name} }

func CreepAt(index int) *TargetRef { return &TargetRef{Kind: TargetCreep, Index: index} }

func TowerIn(zone ZoneID) *TargetRef { return &TargetRef{Kind: TargetTower, Zone: zone} }

func Self() *TargetRef { return &TargetRef{Kind: TargetSelf} }

func RoshanTarget() *TargetRef { return &TargetRef{Kind: TargetRoshan} }

type ChatChannel string

const (
	ChannelAll  ChatChannel = "all"
	ChannelTeam ChatChannel = "team"
)

type Command struct {
	Type     CommandType  `json:"type"`
	PlayerID string       `json:"playerId"`
	Zone     ZoneID       `json:"zone,omitempty"`
	Target   *TargetRef   `json:"target,omitempty"`
	Slot     content.Slot `json:"slot,omitempty"`
	Item     string       `json:"item,omitempty"`
	Channel  ChatChannel  `json:"channel,omitempty"`
	Text     string       `json:"text,omitempty"`
}

// Queued reports whether the command is resolved on the next tick. The
// rest are answered immediately and never touch game state.
func (c Command) Queued() bool {
	switch c.Type {
	case CmdMove, CmdAttack, CmdCast, CmdUse, CmdBuy, CmdSell, CmdWard:
		return true
	default:
		return false
	}
}

// Shop reports whether the command belongs to the shop sub-protocol.
func (c Command) Shop() bool {
	return c.Type == CmdBuy || c.Type == CmdSell || c.Type == CmdUse
}
