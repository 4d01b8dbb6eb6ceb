package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/lane-arena/internal/content"
)

func testState() State {
	rt := 9
	return State{
		Tick:  3,
		Teams: map[Team]TeamStats{TeamRadiant: {}, TeamDire: {}},
		Players: map[string]*Player{
			"a": {ID: "a", Team: TeamRadiant, Zone: "mid_lane", HP: 100, MaxHP: 100, MP: 50, MaxMP: 100, Alive: true, Cooldowns: map[content.Slot]int{content.SlotQ: 2}},
			"b": {ID: "b", Team: TeamDire, Zone: "mid_lane", HP: 80, MaxHP: 100, Alive: true},
			"c": {ID: "c", Team: TeamRadiant, Zone: "radiant_fountain", HP: 0, MaxHP: 100, RespawnTick: &rt},
		},
		Zones: map[ZoneID]*ZoneState{"mid_lane": {Zone: "mid_lane", Wards: []Ward{{Team: TeamRadiant}}}},
		Creeps: []Creep{
			{ID: "c10", Team: TeamDire, Zone: "mid_lane", HP: 5, MaxHP: 550},
			{ID: "c2", Team: TeamDire, Zone: "mid_lane", HP: 300, MaxHP: 550},
		},
		Towers: []Tower{
			{Team: TeamDire, Zone: "dire_mid_t1", Lane: "mid", Tier: 1, HP: 10, MaxHP: 1800, Alive: true},
			{Team: TeamDire, Zone: "dire_mid_t2", Lane: "mid", Tier: 2, HP: 2100, MaxHP: 2100, Alive: true},
		},
		Rules: DefaultRules(),
	}
}

func TestClone_IsDeep(t *testing.T) {
	s := testState()
	c := s.Clone()

	c.Players["a"].HP = 1
	c.Players["a"].Cooldowns[content.SlotQ] = 9
	*c.Players["c"].RespawnTick = 99
	c.Zones["mid_lane"].Wards[0].Team = TeamDire
	c.Creeps[0].HP = 0
	c.Towers[0].Alive = false

	assert.Equal(t, 100, s.Players["a"].HP)
	assert.Equal(t, 2, s.Players["a"].Cooldowns[content.SlotQ])
	assert.Equal(t, 9, *s.Players["c"].RespawnTick)
	assert.Equal(t, TeamRadiant, s.Zones["mid_lane"].Wards[0].Team)
	assert.Equal(t, 5, s.Creeps[0].HP)
	assert.True(t, s.Towers[0].Alive)
}

func TestDamagePlayer_ClampsAndFlipsAlive(t *testing.T) {
	s := testState()
	res := s.DamagePlayer("b", 500, "a")
	assert.Equal(t, 80, res.Dealt)
	assert.True(t, res.Killed)
	assert.Equal(t, 0, s.Players["b"].HP)
	assert.False(t, s.Players["b"].Alive)
	assert.Equal(t, 80, s.Players["a"].HeroDamage)
	assert.Equal(t, 3, s.Players["b"].RecentAttackers["a"])

	again := s.DamagePlayer("b", 10, "a")
	assert.Equal(t, DamageResult{}, again, "dead players take no damage")
}

func TestDamagePlayer_ShieldAbsorbsFirst(t *testing.T) {
	s := testState()
	s.Players["b"].AddBuff(Buff{ID: BuffShield, Stacks: 30, TicksRemaining: 2})

	res := s.DamagePlayer("b", 50, "a")
	assert.Equal(t, 30, res.Absorbed)
	assert.Equal(t, 20, res.Dealt)
	assert.False(t, s.Players["b"].HasBuff(BuffShield))

	s.Players["b"].AddBuff(Buff{ID: BuffShield, Stacks: 100, TicksRemaining: 2})
	res = s.DamagePlayer("b", 40, "a")
	assert.Equal(t, 0, res.Dealt)
	sh, ok := s.Players["b"].Buff(BuffShield)
	require.True(t, ok)
	assert.Equal(t, 60, sh.Stacks)
}

func TestHealAndMana_ClampAtMax(t *testing.T) {
	s := testState()
	assert.Equal(t, 20, s.HealPlayer("b", 50))
	assert.Equal(t, 100, s.Players["b"].HP)
	assert.Equal(t, 50, s.RestoreMana("a", 80))
	assert.Equal(t, 0, s.HealPlayer("c", 50), "dead players cannot be healed")
	assert.Equal(t, 0, s.HealPlayer("nobody", 50))
}

func TestDamageCreep_RemovesOnDeath(t *testing.T) {
	s := testState()
	dealt, killed, c, ok := s.DamageCreep("c10", 60)
	require.True(t, ok)
	assert.True(t, killed)
	assert.Equal(t, 5, dealt)
	assert.Equal(t, "c10", c.ID)
	_, found := s.Creep("c10")
	assert.False(t, found)
	assert.Len(t, s.Creeps, 1)

	_, _, _, ok = s.DamageCreep("missing", 10)
	assert.False(t, ok)
}

func TestCreepsIn_OrdersNumerically(t *testing.T) {
	s := testState()
	creeps := s.CreepsIn("mid_lane")
	require.Len(t, creeps, 2)
	assert.Equal(t, "c2", creeps[0].ID)
	assert.Equal(t, "c10", creeps[1].ID)
}

func TestTowerTargetable_TierGate(t *testing.T) {
	s := testState()
	assert.True(t, s.TowerTargetable("dire_mid_t1", TeamRadiant))
	assert.False(t, s.TowerTargetable("dire_mid_t2", TeamRadiant), "t1 still standing")
	assert.False(t, s.TowerTargetable("dire_mid_t1", TeamDire), "own tower")

	_, destroyed := s.DamageTower("dire_mid_t1", 50)
	require.True(t, destroyed)
	assert.True(t, s.TowerTargetable("dire_mid_t2", TeamRadiant))
	assert.False(t, s.TowerTargetable("dire_mid_t1", TeamRadiant), "dead towers are not targets")
	assert.Equal(t, 1, s.AliveTowers(TeamDire))
	assert.Len(t, s.Towers, 2, "dead towers stay in the list")
}

func TestAssisters_RespectWindowAndTeam(t *testing.T) {
	s := testState()
	s.Players["d"] = &Player{ID: "d", Team: TeamRadiant, Alive: true, HP: 10, MaxHP: 10}
	s.Players["b"].RecentAttackers = map[string]int{"a": 3, "c": 3, "d": -10}
	assert.Equal(t, []string{"c"}, s.Assisters("b", "a"))
	assert.Nil(t, s.Assisters("b", "ghost"))
}

func TestAppendEvents_Caps(t *testing.T) {
	s := testState()
	s.Rules.EventLogCap = 3
	for i := 0; i < 5; i++ {
		s.AppendEvents(Event{Type: EvtDamage, Tick: i})
	}
	require.Len(t, s.Events, 3)
	assert.Equal(t, 2, s.Events[0].Tick)
}

func TestInventoryJSON_EmptySlotsAreNull(t *testing.T) {
	inv := Inventory{"tango", "", "dagon"}
	data, err := json.Marshal(inv)
	require.NoError(t, err)
	assert.JSONEq(t, `["tango",null,"dagon",null,null,null]`, string(data))

	var back Inventory
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, inv, back)
	assert.Equal(t, 1, back.FreeSlot())
	assert.Equal(t, 2, back.Index("dagon"))
	assert.Equal(t, -1, back.Index(""))
}

func TestAddBuff_Refreshes(t *testing.T) {
	p := &Player{}
	p.AddBuff(Buff{ID: BuffStun, Stacks: 1, TicksRemaining: 1})
	p.AddBuff(Buff{ID: BuffStun, Stacks: 1, TicksRemaining: 3})
	p.AddBuff(Buff{ID: BuffRoot, TicksRemaining: 0})
	require.Len(t, p.Buffs, 1)
	assert.Equal(t, 3, p.Buffs[0].TicksRemaining)
	assert.True(t, p.Stunned())
	assert.False(t, p.Rooted())
}

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1}, {229, 1}, {230, 2}, {600, 3}, {18045, 20}, {999999, 20},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LevelForXP(tc.xp), "xp=%d", tc.xp)
	}
}

func TestRecalculateTeamGold(t *testing.T) {
	s := testState()
	s.Players["a"].Gold = 100
	s.Players["c"].Gold = 50
	s.Players["b"].Gold = 7
	s.RecalculateTeamGold()
	assert.Equal(t, 150, s.Teams[TeamRadiant].Gold)
	assert.Equal(t, 7, s.Teams[TeamDire].Gold)
}
