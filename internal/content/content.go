// Package content holds the static hero and item tables the simulation
// reads. Tables are loaded once at startup and never mutated afterwards.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

var ErrUnknownHero = errors.New("unknown hero")
var ErrUnknownItem = errors.New("unknown item")

type Slot string

const (
	SlotQ Slot = "q"
	SlotW Slot = "w"
	SlotE Slot = "e"
	SlotR Slot = "r"
)

var Slots = []Slot{SlotQ, SlotW, SlotE, SlotR}

func ParseSlot(s string) (Slot, bool) {
	slot := Slot(s)
	return slot, slices.Contains(Slots, slot)
}

type TargetType string

const (
	TargetNone TargetType = "none" // self cast
	TargetUnit TargetType = "unit" // enemy hero, creep or tower
	TargetAlly TargetType = "ally" // self or allied hero
	TargetArea TargetType = "area" // every enemy in the caster's zone
)

type EffectKind string

const (
	EffectDamage  EffectKind = "damage"
	EffectHeal    EffectKind = "heal"
	EffectMana    EffectKind = "mana"
	EffectShield  EffectKind = "shield"
	EffectBuff    EffectKind = "buff"
	EffectStun    EffectKind = "stun"
	EffectSilence EffectKind = "silence"
	EffectRoot    EffectKind = "root"
)

type DamageType string

const (
	DamagePhysical DamageType = "physical"
	DamageMagical  DamageType = "magical"
	DamagePure     DamageType = "pure"
)

type Effect struct {
	Kind       EffectKind `yaml:"kind" json:"kind"`
	Amount     int        `yaml:"amount,omitempty" json:"amount,omitempty"`
	DamageType DamageType `yaml:"damageType,omitempty" json:"damageType,omitempty"`
	Duration   int        `yaml:"duration,omitempty" json:"duration,omitempty"`
	BuffID     string     `yaml:"buff,omitempty" json:"buff,omitempty"`
}

// CrowdControl reports whether the effect disables its target.
func (e Effect) CrowdControl() bool {
	return e.Kind == EffectStun || e.Kind == EffectSilence || e.Kind == EffectRoot
}

type Ability struct {
	ID       string     `yaml:"id" json:"id"`
	Name     string     `yaml:"name" json:"name"`
	Slot     Slot       `yaml:"-" json:"slot,omitempty"`
	ManaCost int        `yaml:"manaCost" json:"manaCost"`
	Cooldown int        `yaml:"cooldown" json:"cooldown"`
	Target   TargetType `yaml:"target" json:"target"`
	MinLevel int        `yaml:"minLevel,omitempty" json:"minLevel,omitempty"`
	Effects  []Effect   `yaml:"effects" json:"effects"`
}

// Instant abilities resolve before movement in a tick.
func (a Ability) Instant() bool {
	return slices.ContainsFunc(a.Effects, Effect.CrowdControl)
}

type Stats struct {
	HP     int `yaml:"hp" json:"hp"`
	MP     int `yaml:"mp" json:"mp"`
	Attack int `yaml:"attack" json:"attack"`
}

func (s Stats) Add(o Stats) Stats {
	return Stats{HP: s.HP + o.HP, MP: s.MP + o.MP, Attack: s.Attack + o.Attack}
}

type Hero struct {
	ID        string           `yaml:"id" json:"id"`
	Name      string           `yaml:"name" json:"name"`
	Base      Stats            `yaml:"base" json:"base"`
	Growth    Stats            `yaml:"growth" json:"growth"`
	Abilities map[Slot]Ability `yaml:"abilities" json:"abilities"`
}

// StatsAt returns the hero's stats at the given level, before items.
func (h Hero) StatsAt(level int) Stats {
	if level < 1 {
		level = 1
	}
	n := level - 1
	return Stats{
		HP:     h.Base.HP + n*h.Growth.HP,
		MP:     h.Base.MP + n*h.Growth.MP,
		Attack: h.Base.Attack + n*h.Growth.Attack,
	}
}

type Item struct {
	ID         string   `yaml:"id" json:"id"`
	Name       string   `yaml:"name" json:"name"`
	Cost       int      `yaml:"cost" json:"cost"`
	Bonus      Stats    `yaml:"bonus,omitempty" json:"bonus"`
	Consumable bool     `yaml:"consumable,omitempty" json:"consumable,omitempty"`
	Active     *Ability `yaml:"active,omitempty" json:"active,omitempty"`
}

// SellValue is the gold refunded when the item is sold back.
func (i Item) SellValue() int { return i.Cost / 2 }

type Catalog struct {
	DefaultStats Stats
	heroes       map[string]Hero
	items        map[string]Item
}

type file struct {
	DefaultStats Stats  `yaml:"defaultStats"`
	Heroes       []Hero `yaml:"heroes"`
	Items        []Item `yaml:"items"`
}

//go:embed default.yaml
var defaultYAML []byte

// Default returns the catalog bundled with the server.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultYAML))
	if err != nil {
		panic("content: bundled catalog is invalid: " + err.Error())
	}
	return c
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open content %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a YAML catalog.
func Load(r io.Reader) (*Catalog, error) {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	c := &Catalog{
		DefaultStats: f.DefaultStats,
		heroes:       make(map[string]Hero, len(f.Heroes)),
		items:        make(map[string]Item, len(f.Items)),
	}
	var errs error
	for _, h := range f.Heroes {
		if _, dup := c.heroes[h.ID]; dup {
			errs = multierr.Append(errs, fmt.Errorf("hero %q defined twice", h.ID))
			continue
		}
		for slot, a := range h.Abilities {
			a.Slot = slot
			h.Abilities[slot] = a
		}
		c.heroes[h.ID] = h
	}
	for _, it := range f.Items {
		if _, dup := c.items[it.ID]; dup {
			errs = multierr.Append(errs, fmt.Errorf("item %q defined twice", it.ID))
			continue
		}
		c.items[it.ID] = it
	}
	errs = multierr.Append(errs, c.Validate())
	if errs != nil {
		return nil, errs
	}
	return c, nil
}

func (c *Catalog) Hero(id string) (Hero, bool) {
	h, ok := c.heroes[id]
	return h, ok
}

func (c *Catalog) Item(id string) (Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

// HeroIDs returns the sorted hero ids.
func (c *Catalog) HeroIDs() []string {
	ids := make([]string, 0, len(c.heroes))
	for id := range c.heroes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (c *Catalog) ItemIDs() []string {
	ids := make([]string, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
