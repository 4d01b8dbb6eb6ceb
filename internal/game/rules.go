package game

type CreepStats struct {
	HP     int `json:"hp"`
	Damage int `json:"damage"`
}

// Rules carries every tunable the simulation reads. A game keeps its own
// copy so tests can bend one rule without touching the others.
type Rules struct {
	StartingGold int `json:"startingGold"`
	PassiveGold  int `json:"passiveGold"`

	LastHitMin        int `json:"lastHitMin"`
	LastHitMax        int `json:"lastHitMax"`
	SiegeBounty       int `json:"siegeBounty"`
	DenyThresholdPct  int `json:"denyThresholdPct"`
	KillBountyBase    int `json:"killBountyBase"`
	KillStreakBonus   int `json:"killStreakBonus"`
	KillStreakCap     int `json:"killStreakCap"`
	AssistBounty      int `json:"assistBounty"`
	AssistWindowTicks int `json:"assistWindowTicks"`
	TowerBounty       int `json:"towerBounty"`
	RoshanBounty      int `json:"roshanBounty"`

	XPLastHit      int `json:"xpLastHit"`
	XPDeny         int `json:"xpDeny"`
	XPKillBase     int `json:"xpKillBase"`
	XPKillPerLevel int `json:"xpKillPerLevel"`
	XPAssist       int `json:"xpAssist"`
	XPTower        int `json:"xpTower"`
	XPRoshan       int `json:"xpRoshan"`

	RespawnBase      int `json:"respawnBase"`
	RespawnPerLevel  int `json:"respawnPerLevel"`
	FountainRegenPct int `json:"fountainRegenPct"`

	WaveInterval      int        `json:"waveInterval"`
	SiegeEveryNthWave int        `json:"siegeEveryNthWave"`
	MeleePerWave      int        `json:"meleePerWave"`
	RangedPerWave     int        `json:"rangedPerWave"`
	Melee             CreepStats `json:"melee"`
	Ranged            CreepStats `json:"ranged"`
	Siege             CreepStats `json:"siege"`

	TowerHP     [3]int `json:"towerHp"`
	TowerDamage int    `json:"towerDamage"`

	WardCap      int `json:"wardCap"`
	WardDuration int `json:"wardDuration"`

	RuneInterval     int `json:"runeInterval"`
	RuneBuffDuration int `json:"runeBuffDuration"`
	RuneRegen        int `json:"runeRegen"`
	RuneBountyGold   int `json:"runeBountyGold"`

	RoshanHP           int `json:"roshanHp"`
	RoshanDamage       int `json:"roshanDamage"`
	RoshanRespawnTicks int `json:"roshanRespawnTicks"`

	EventLogCap int `json:"eventLogCap"`
}

// DefaultRules are tuned for a 4 second tick.
func DefaultRules() Rules {
	return Rules{
		StartingGold: 600,
		PassiveGold:  4,

		LastHitMin:        30,
		LastHitMax:        50,
		SiegeBounty:       75,
		DenyThresholdPct:  50,
		KillBountyBase:    150,
		KillStreakBonus:   30,
		KillStreakCap:     5,
		AssistBounty:      120,
		AssistWindowTicks: 5,
		TowerBounty:       300,
		RoshanBounty:      150,

		XPLastHit:      40,
		XPDeny:         20,
		XPKillBase:     100,
		XPKillPerLevel: 20,
		XPAssist:       50,
		XPTower:        120,
		XPRoshan:       200,

		RespawnBase:      3,
		RespawnPerLevel:  1,
		FountainRegenPct: 20,

		WaveInterval:      8,
		SiegeEveryNthWave: 5,
		MeleePerWave:      3,
		RangedPerWave:     1,
		Melee:             CreepStats{HP: 550, Damage: 22},
		Ranged:            CreepStats{HP: 300, Damage: 26},
		Siege:             CreepStats{HP: 800, Damage: 45},

		TowerHP:     [3]int{1800, 2100, 2600},
		TowerDamage: 120,

		WardCap:      3,
		WardDuration: 90,

		RuneInterval:     15,
		RuneBuffDuration: 5,
		RuneRegen:        60,
		RuneBountyGold:   75,

		RoshanHP:           4000,
		RoshanDamage:       90,
		RoshanRespawnTicks: 45,

		EventLogCap: 64,
	}
}

func (r Rules) Creep(kind CreepKind) CreepStats {
	switch kind {
	case CreepRanged:
		return r.Ranged
	case CreepSiege:
		return r.Siege
	default:
		return r.Melee
	}
}

// AverageCreepBounty is the mean melee/ranged last-hit bounty.
func (r Rules) AverageCreepBounty() int { return (r.LastHitMin + r.LastHitMax) / 2 }

// LevelThresholds[i] is the total xp needed to reach level i+1.
var LevelThresholds = []int{
	0, 230, 600, 1080, 1660, 2260, 2980, 3730, 4620, 5550,
	6520, 7530, 8580, 9805, 11055, 12330, 13630, 14955, 16455, 18045,
}

func MaxLevel() int { return len(LevelThresholds) }

// LevelForXP returns the level a hero with xp total experience has earned.
func LevelForXP(xp int) int {
	level := 1
	for i, need := range LevelThresholds {
		if xp >= need {
			level = i + 1
		}
	}
	return level
}
