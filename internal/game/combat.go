package game

import "slices"

type DamageResult struct {
	Dealt    int
	Absorbed int
	Killed   bool
}

// DamagePlayer applies amount to an alive player. A shield buff absorbs
// first; hp never drops below zero and reaching zero flips Alive. When the
// source is an enemy player the hit counts toward assists and hero damage.
func (s *State) DamagePlayer(id string, amount int, sourceID string) DamageResult {
	p, ok := s.Player(id)
	if !ok || !p.Alive || amount <= 0 {
		return DamageResult{}
	}
	var res DamageResult
	for i := range p.Buffs {
		if p.Buffs[i].ID != BuffShield {
			continue
		}
		res.Absorbed = min(p.Buffs[i].Stacks, amount)
		p.Buffs[i].Stacks -= res.Absorbed
		if p.Buffs[i].Stacks <= 0 {
			p.RemoveBuff(BuffShield)
		}
		break
	}
	res.Dealt = min(amount-res.Absorbed, p.HP)
	p.HP -= res.Dealt

	if src, ok := s.Player(sourceID); ok && src.Team != p.Team {
		src.HeroDamage += res.Dealt
		if p.RecentAttackers == nil {
			p.RecentAttackers = map[string]int{}
		}
		p.RecentAttackers[sourceID] = s.Tick
	}
	if p.HP == 0 {
		p.Alive = false
		res.Killed = true
	}
	return res
}

// HealPlayer restores hp to an alive player up to MaxHP and returns the
// amount actually healed.
func (s *State) HealPlayer(id string, amount int) int {
	p, ok := s.Player(id)
	if !ok || !p.Alive || amount <= 0 {
		return 0
	}
	healed := min(amount, p.MaxHP-p.HP)
	p.HP += healed
	return healed
}

func (s *State) RestoreMana(id string, amount int) int {
	p, ok := s.Player(id)
	if !ok || !p.Alive || amount <= 0 {
		return 0
	}
	restored := min(amount, p.MaxMP-p.MP)
	p.MP += restored
	return restored
}

// DamageCreep removes the creep from the list the moment its hp reaches
// zero; the returned Creep is its last state.
func (s *State) DamageCreep(id string, amount int) (dealt int, killed bool, c Creep, ok bool) {
	i := slices.IndexFunc(s.Creeps, func(c Creep) bool { return c.ID == id })
	if i < 0 || amount <= 0 {
		return 0, false, Creep{}, i >= 0
	}
	dealt = min(amount, s.Creeps[i].HP)
	s.Creeps[i].HP -= dealt
	c = s.Creeps[i]
	if c.HP <= 0 {
		s.Creeps = slices.Delete(s.Creeps, i, i+1)
		return dealt, true, c, true
	}
	return dealt, false, c, true
}

// DamageTower damages an alive tower. Destroyed towers stay in the list.
func (s *State) DamageTower(zone ZoneID, amount int) (dealt int, destroyed bool) {
	t, ok := s.Tower(zone)
	if !ok || !t.Alive || amount <= 0 {
		return 0, false
	}
	dealt = min(amount, t.HP)
	t.HP -= dealt
	if t.HP == 0 {
		t.Alive = false
		destroyed = true
	}
	return dealt, destroyed
}

func (s *State) DamageRoshan(amount int) (dealt int, killed bool) {
	if !s.Roshan.Alive || amount <= 0 {
		return 0, false
	}
	dealt = min(amount, s.Roshan.HP)
	s.Roshan.HP -= dealt
	if s.Roshan.HP == 0 {
		s.Roshan.Alive = false
		killed = true
	}
	return dealt, killed
}

// Assisters returns the killer's teammates that damaged victim within the
// assist window, sorted by id.
func (s *State) Assisters(victimID, killerID string) []string {
	victim, ok := s.Player(victimID)
	killer, kok := s.Player(killerID)
	if !ok || !kok {
		return nil
	}
	var out []string
	for attacker, tick := range victim.RecentAttackers {
		if attacker == killerID || s.Tick-tick > s.Rules.AssistWindowTicks {
			continue
		}
		if p, ok := s.Player(attacker); ok && p.Team == killer.Team {
			out = append(out, attacker)
		}
	}
	slices.Sort(out)
	return out
}
