package topology

import (
	"errors"
	"fmt"
	"slices"
)

var ErrAsymmetric = errors.New("zone adjacency is not symmetric")
var ErrDisconnected = errors.New("zone graph is not connected")
var ErrUnknownZone = errors.New("unknown zone")

type ZoneID string

type Team string

const (
	TeamRadiant Team = "radiant"
	TeamDire    Team = "dire"
	TeamNeutral Team = "neutral"
)

// Enemy returns the opposing side. Neutral has no enemy.
func (t Team) Enemy() Team {
	switch t {
	case TeamRadiant:
		return TeamDire
	case TeamDire:
		return TeamRadiant
	default:
		return TeamNeutral
	}
}

func (t Team) Valid() bool { return t == TeamRadiant || t == TeamDire }

type ZoneType string

const (
	ZoneBase      ZoneType = "base"
	ZoneFountain  ZoneType = "fountain"
	ZoneLane      ZoneType = "lane"
	ZoneJungle    ZoneType = "jungle"
	ZoneRiver     ZoneType = "river"
	ZoneObjective ZoneType = "objective"
)

type Lane string

const (
	LaneTop Lane = "top"
	LaneMid Lane = "mid"
	LaneBot Lane = "bot"
)

var Lanes = []Lane{LaneTop, LaneMid, LaneBot}

type Zone struct {
	ID        ZoneID   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Type      ZoneType `json:"type" yaml:"type"`
	Team      Team     `json:"team" yaml:"team"`
	HasTower  bool     `json:"hasTower" yaml:"hasTower"`
	IsShop    bool     `json:"isShop" yaml:"isShop"`
	Lane      Lane     `json:"lane,omitempty" yaml:"lane,omitempty"`
	Tier      int      `json:"tier,omitempty" yaml:"tier,omitempty"`
	Neighbors []ZoneID `json:"neighbors" yaml:"neighbors"`
}

// Map is an immutable zone graph. All accessors return copies.
type Map struct {
	zones  map[ZoneID]Zone
	order  []ZoneID
	routes map[Team]map[Lane][]ZoneID
	runes  []ZoneID
	roshan ZoneID
}

// New builds a Map from zone definitions and per-team lane routes and
// checks that adjacency is symmetric and both fountains reach every zone.
func New(zones []Zone, routes map[Team]map[Lane][]ZoneID, runeSpots []ZoneID, roshan ZoneID) (*Map, error) {
	m := &Map{
		zones:  make(map[ZoneID]Zone, len(zones)),
		routes: map[Team]map[Lane][]ZoneID{},
		runes:  slices.Clone(runeSpots),
		roshan: roshan,
	}
	for _, z := range zones {
		z.Neighbors = slices.Clone(z.Neighbors)
		slices.Sort(z.Neighbors)
		m.zones[z.ID] = z
		m.order = append(m.order, z.ID)
	}
	slices.Sort(m.order)

	for team, lanes := range routes {
		m.routes[team] = map[Lane][]ZoneID{}
		for lane, route := range lanes {
			for _, id := range route {
				if _, ok := m.zones[id]; !ok {
					return nil, fmt.Errorf("route %s/%s: %w: %s", team, lane, ErrUnknownZone, id)
				}
			}
			m.routes[team][lane] = slices.Clone(route)
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the graph invariants: symmetric adjacency and
// connectivity from either fountain.
func (m *Map) Validate() error {
	for _, id := range m.order {
		z := m.zones[id]
		for _, n := range z.Neighbors {
			other, ok := m.zones[n]
			if !ok {
				return fmt.Errorf("zone %s: %w: %s", id, ErrUnknownZone, n)
			}
			if !slices.Contains(other.Neighbors, id) {
				return fmt.Errorf("%w: %s -> %s", ErrAsymmetric, id, n)
			}
		}
	}
	for _, team := range []Team{TeamRadiant, TeamDire} {
		start := m.Fountain(team)
		if start == "" {
			continue
		}
		if reached := m.reachable(start); reached != len(m.order) {
			return fmt.Errorf("%w: %d of %d zones reachable from %s", ErrDisconnected, reached, len(m.order), start)
		}
	}
	return nil
}

func (m *Map) reachable(start ZoneID) int {
	seen := map[ZoneID]bool{start: true}
	queue := []ZoneID{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range m.zones[cur].Neighbors {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return len(seen)
}

func (m *Map) Zone(id ZoneID) (Zone, bool) {
	z, ok := m.zones[id]
	if !ok {
		return Zone{}, false
	}
	z.Neighbors = slices.Clone(z.Neighbors)
	return z, true
}

func (m *Map) Has(id ZoneID) bool {
	_, ok := m.zones[id]
	return ok
}

// Zones returns every zone sorted by id.
func (m *Map) Zones() []Zone {
	out := make([]Zone, 0, len(m.order))
	for _, id := range m.order {
		z, _ := m.Zone(id)
		out = append(out, z)
	}
	return out
}

func (m *Map) Neighbors(id ZoneID) []ZoneID {
	return slices.Clone(m.zones[id].Neighbors)
}

func (m *Map) Adjacent(a, b ZoneID) bool {
	return slices.Contains(m.zones[a].Neighbors, b)
}

// WithNeighbors returns id followed by its neighbors.
func (m *Map) WithNeighbors(id ZoneID) []ZoneID {
	if _, ok := m.zones[id]; !ok {
		return nil
	}
	return append([]ZoneID{id}, m.zones[id].Neighbors...)
}

func (m *Map) Fountain(team Team) ZoneID { return m.find(team, ZoneFountain) }

func (m *Map) Base(team Team) ZoneID { return m.find(team, ZoneBase) }

func (m *Map) find(team Team, typ ZoneType) ZoneID {
	for _, id := range m.order {
		z := m.zones[id]
		if z.Team == team && z.Type == typ {
			return id
		}
	}
	return ""
}

// Route is the ordered creep path for a team's lane, starting next to
// the team's base and ending at the enemy base approach.
func (m *Map) Route(team Team, lane Lane) []ZoneID {
	return slices.Clone(m.routes[team][lane])
}

// NextOnRoute returns the zone after from on the team's lane route.
// ok is false when from is the last segment or not on the route.
func (m *Map) NextOnRoute(team Team, lane Lane, from ZoneID) (ZoneID, bool) {
	route := m.routes[team][lane]
	i := slices.Index(route, from)
	if i < 0 || i+1 >= len(route) {
		return "", false
	}
	return route[i+1], true
}

// TowerZones lists the zones holding a team's towers.
func (m *Map) TowerZones(team Team) []Zone {
	var out []Zone
	for _, id := range m.order {
		z := m.zones[id]
		if z.HasTower && z.Team == team {
			out = append(out, z)
		}
	}
	return out
}

func (m *Map) RuneSpots() []ZoneID { return slices.Clone(m.runes) }

func (m *Map) RoshanPit() ZoneID { return m.roshan }

// Path returns the shortest zone path from -> to inclusive of both ends.
// Ties are broken by neighbor id order so the result is deterministic.
func (m *Map) Path(from, to ZoneID) []ZoneID {
	if _, ok := m.zones[from]; !ok {
		return nil
	}
	if _, ok := m.zones[to]; !ok {
		return nil
	}
	if from == to {
		return []ZoneID{from}
	}
	prev := map[ZoneID]ZoneID{from: ""}
	queue := []ZoneID{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range m.zones[cur].Neighbors {
			if _, seen := prev[n]; seen {
				continue
			}
			prev[n] = cur
			if n == to {
				return unwind(prev, from, to)
			}
			queue = append(queue, n)
		}
	}
	return nil
}

func unwind(prev map[ZoneID]ZoneID, from, to ZoneID) []ZoneID {
	var path []ZoneID
	for cur := to; cur != from; cur = prev[cur] {
		path = append(path, cur)
	}
	path = append(path, from)
	slices.Reverse(path)
	return path
}

// Distance is the number of hops between two zones, or -1 if unreachable.
func (m *Map) Distance(a, b ZoneID) int {
	p := m.Path(a, b)
	if p == nil {
		return -1
	}
	return len(p) - 1
}
