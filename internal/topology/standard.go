package topology

import (
	"fmt"
	"strings"
)

var standard = mustBuildStandard()

// Standard returns the shared three-lane arena map. The map is immutable,
// so sharing one instance across games is safe.
func Standard() *Map { return standard }

func TowerZoneID(team Team, lane Lane, tier int) ZoneID {
	return ZoneID(fmt.Sprintf("%s_%s_t%d", team, lane, tier))
}

func LaneZoneID(lane Lane) ZoneID { return ZoneID(string(lane) + "_lane") }

const (
	RadiantFountain ZoneID = "radiant_fountain"
	RadiantBase     ZoneID = "radiant_base"
	RadiantJungle   ZoneID = "radiant_jungle"
	DireFountain    ZoneID = "dire_fountain"
	DireBase        ZoneID = "dire_base"
	DireJungle      ZoneID = "dire_jungle"
	RiverTop        ZoneID = "river_top"
	RiverBot        ZoneID = "river_bot"
	RoshanPit       ZoneID = "roshan_pit"
)

func mustBuildStandard() *Map {
	zones := map[ZoneID]*Zone{}
	add := func(z Zone) { zones[z.ID] = &z }
	link := func(a, b ZoneID) {
		zones[a].Neighbors = append(zones[a].Neighbors, b)
		zones[b].Neighbors = append(zones[b].Neighbors, a)
	}

	add(Zone{ID: RadiantFountain, Name: "Radiant Fountain", Type: ZoneFountain, Team: TeamRadiant, IsShop: true})
	add(Zone{ID: RadiantBase, Name: "Radiant Ancient", Type: ZoneBase, Team: TeamRadiant})
	add(Zone{ID: RadiantJungle, Name: "Radiant Jungle", Type: ZoneJungle, Team: TeamRadiant})
	add(Zone{ID: DireFountain, Name: "Dire Fountain", Type: ZoneFountain, Team: TeamDire, IsShop: true})
	add(Zone{ID: DireBase, Name: "Dire Ancient", Type: ZoneBase, Team: TeamDire})
	add(Zone{ID: DireJungle, Name: "Dire Jungle", Type: ZoneJungle, Team: TeamDire})
	add(Zone{ID: RiverTop, Name: "Top River", Type: ZoneRiver, Team: TeamNeutral})
	add(Zone{ID: RiverBot, Name: "Bottom River", Type: ZoneRiver, Team: TeamNeutral})
	add(Zone{ID: RoshanPit, Name: "Roshan Pit", Type: ZoneObjective, Team: TeamNeutral})

	link(RadiantFountain, RadiantBase)
	link(DireFountain, DireBase)

	routes := map[Team]map[Lane][]ZoneID{TeamRadiant: {}, TeamDire: {}}
	for _, lane := range Lanes {
		mid := LaneZoneID(lane)
		// top and bot lanes carry the side shops
		add(Zone{
			ID:     mid,
			Name:   title(lane) + " Lane",
			Type:   ZoneLane,
			Team:   TeamNeutral,
			Lane:   lane,
			IsShop: lane != LaneMid,
		})
		for _, team := range []Team{TeamRadiant, TeamDire} {
			for tier := 1; tier <= 3; tier++ {
				add(Zone{
					ID:       TowerZoneID(team, lane, tier),
					Name:     fmt.Sprintf("%s %s Tier %d", title(team), title(lane), tier),
					Type:     ZoneLane,
					Team:     team,
					HasTower: true,
					Lane:     lane,
					Tier:     tier,
				})
			}
			link(TowerZoneID(team, lane, 3), TowerZoneID(team, lane, 2))
			link(TowerZoneID(team, lane, 2), TowerZoneID(team, lane, 1))
			link(TowerZoneID(team, lane, 1), mid)
		}
		link(RadiantBase, TowerZoneID(TeamRadiant, lane, 3))
		link(DireBase, TowerZoneID(TeamDire, lane, 3))
		link(RadiantJungle, TowerZoneID(TeamRadiant, lane, 2))
		link(DireJungle, TowerZoneID(TeamDire, lane, 2))

		var radiant []ZoneID
		for tier := 3; tier >= 1; tier-- {
			radiant = append(radiant, TowerZoneID(TeamRadiant, lane, tier))
		}
		radiant = append(radiant, mid)
		for tier := 1; tier <= 3; tier++ {
			radiant = append(radiant, TowerZoneID(TeamDire, lane, tier))
		}
		dire := make([]ZoneID, len(radiant))
		for i, id := range radiant {
			dire[len(radiant)-1-i] = id
		}
		routes[TeamRadiant][lane] = radiant
		routes[TeamDire][lane] = dire
	}

	link(RiverTop, LaneZoneID(LaneTop))
	link(RiverTop, LaneZoneID(LaneMid))
	link(RiverBot, LaneZoneID(LaneBot))
	link(RiverBot, LaneZoneID(LaneMid))
	link(RiverTop, RoshanPit)
	link(RiverBot, RoshanPit)
	link(RiverTop, DireJungle)
	link(RiverBot, RadiantJungle)

	list := make([]Zone, 0, len(zones))
	for _, z := range zones {
		list = append(list, *z)
	}
	m, err := New(list, routes, []ZoneID{RiverTop, RiverBot}, RoshanPit)
	if err != nil {
		panic("topology: standard map: " + err.Error())
	}
	return m
}

func title[T ~string](s T) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}
