package content

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validate reports every problem in the catalog at once.
func (c *Catalog) Validate() error {
	var errs error
	if c.DefaultStats.HP <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("defaultStats.hp must be positive"))
	}
	for _, id := range c.HeroIDs() {
		h := c.heroes[id]
		if h.ID == "" {
			errs = multierr.Append(errs, fmt.Errorf("hero with empty id"))
		}
		if h.Base.HP <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("hero %s: base hp must be positive", id))
		}
		for _, slot := range Slots {
			a, ok := h.Abilities[slot]
			if !ok {
				errs = multierr.Append(errs, fmt.Errorf("hero %s: missing ability %s", id, slot))
				continue
			}
			errs = multierr.Append(errs, validateAbility(fmt.Sprintf("hero %s ability %s", id, slot), a))
		}
		if len(h.Abilities) != len(Slots) {
			errs = multierr.Append(errs, fmt.Errorf("hero %s: want %d abilities, got %d", id, len(Slots), len(h.Abilities)))
		}
	}
	for _, id := range c.ItemIDs() {
		it := c.items[id]
		if it.Cost <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("item %s: cost must be positive", id))
		}
		if it.Consumable && it.Active == nil {
			errs = multierr.Append(errs, fmt.Errorf("item %s: consumable without active", id))
		}
		if it.Active != nil {
			errs = multierr.Append(errs, validateAbility("item "+id, *it.Active))
		}
	}
	return errs
}

func validateAbility(where string, a Ability) error {
	var errs error
	switch a.Target {
	case TargetNone, TargetUnit, TargetAlly, TargetArea:
	default:
		errs = multierr.Append(errs, fmt.Errorf("%s: unknown target type %q", where, a.Target))
	}
	if a.ManaCost < 0 || a.Cooldown < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s: negative cost or cooldown", where))
	}
	if len(a.Effects) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s: no effects", where))
	}
	for i, e := range a.Effects {
		switch e.Kind {
		case EffectDamage:
			switch e.DamageType {
			case DamagePhysical, DamageMagical, DamagePure:
			default:
				errs = multierr.Append(errs, fmt.Errorf("%s effect %d: unknown damage type %q", where, i, e.DamageType))
			}
			if e.Amount <= 0 {
				errs = multierr.Append(errs, fmt.Errorf("%s effect %d: damage must be positive", where, i))
			}
		case EffectHeal, EffectMana:
			if e.Amount <= 0 {
				errs = multierr.Append(errs, fmt.Errorf("%s effect %d: amount must be positive", where, i))
			}
		case EffectShield:
			if e.Amount <= 0 || e.Duration <= 0 {
				errs = multierr.Append(errs, fmt.Errorf("%s effect %d: shield needs amount and duration", where, i))
			}
		case EffectBuff:
			if e.BuffID == "" || e.Duration <= 0 {
				errs = multierr.Append(errs, fmt.Errorf("%s effect %d: buff needs id and duration", where, i))
			}
		case EffectStun, EffectSilence, EffectRoot:
			if e.Duration <= 0 {
				errs = multierr.Append(errs, fmt.Errorf("%s effect %d: %s needs a duration", where, i, e.Kind))
			}
		default:
			errs = multierr.Append(errs, fmt.Errorf("%s effect %d: unknown kind %q", where, i, e.Kind))
		}
	}
	return errs
}
