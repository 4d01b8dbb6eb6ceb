package vision

import (
	"slices"

	"github.com/DoyleJ11/lane-arena/internal/game"
	"github.com/DoyleJ11/lane-arena/internal/topology"
)

// ZoneReport is what a scan shows for one zone.
type ZoneReport struct {
	Zone   game.ZoneID  `json:"zone"`
	Name   string       `json:"name"`
	Heroes []PlayerView `json:"heroes"`
	Creeps []game.Creep `json:"creeps"`
	Tower  *game.Tower  `json:"tower,omitempty"`
	Wards  []game.Ward  `json:"wards"`
	Rune   *game.Rune   `json:"rune,omitempty"`
}

// Scan reports the player's zone and its neighbors. It is built from the
// player's filtered view, so it can never show more than the view does.
func Scan(s *game.State, m *topology.Map, playerID string) ([]ZoneReport, error) {
	v, err := Filter(s, m, playerID, nil)
	if err != nil {
		return nil, err
	}
	p := s.Players[playerID]
	ids := make([]string, 0, len(v.Players))
	for id := range v.Players {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var out []ZoneReport
	for _, zone := range m.WithNeighbors(p.Zone) {
		r := ZoneReport{Zone: zone, Heroes: []PlayerView{}, Creeps: []game.Creep{}, Wards: v.Zones[zone].Wards}
		if z, ok := m.Zone(zone); ok {
			r.Name = z.Name
		}
		for _, id := range ids {
			pv := v.Players[id]
			if pv.Detail != nil && pv.Detail.Alive && pv.Detail.Zone == zone {
				r.Heroes = append(r.Heroes, pv)
			}
		}
		for _, c := range v.Creeps {
			if c.Zone == zone {
				r.Creeps = append(r.Creeps, c)
			}
		}
		for i := range v.Towers {
			if v.Towers[i].Zone == zone {
				r.Tower = &v.Towers[i]
			}
		}
		for i := range v.Runes {
			if v.Runes[i].Zone == zone {
				r.Rune = &v.Runes[i]
			}
		}
		out = append(out, r)
	}
	return out, nil
}
