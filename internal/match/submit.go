package match

import (
	"errors"

	"github.com/DoyleJ11/lane-arena/internal/game"
	"github.com/DoyleJ11/lane-arena/internal/topology"
	"github.com/DoyleJ11/lane-arena/internal/vision"
)

var ErrBadChannel = errors.New("unknown chat channel")

// submit answers queries straight away and queues everything else for the
// next tick. Shop commands are checked now so the player learns about a
// rejection without waiting for the tick.
func (m *Match) submit(playerID string, cmd game.Command) Answer {
	s, err := m.store.Get(m.id)
	if err != nil {
		return Answer{Err: err}
	}
	p, ok := s.Player(playerID)
	if !ok {
		return Answer{Err: ErrPlayerNotFound}
	}
	cmd.PlayerID = playerID

	switch cmd.Type {
	case game.CmdStatus:
		return m.status(playerID)
	case game.CmdScan:
		reports, err := vision.Scan(&s, m.eng.Map(), playerID)
		return Answer{Scan: reports, Err: err}
	case game.CmdMap:
		return Answer{Map: m.eng.Map().Zones()}
	case game.CmdChat:
		return Answer{Err: m.chat(&s, p, cmd)}
	case game.CmdPing:
		return Answer{Err: m.ping(&s, p, cmd)}
	}

	if s.Phase != game.PhasePlaying {
		return Answer{Err: ErrNotRunning}
	}
	if cmd.Shop() {
		if err := m.eng.CheckShop(&s, cmd); err != nil {
			return Answer{Err: err}
		}
	}
	m.pending[playerID] = cmd
	return Answer{}
}

func (m *Match) status(playerID string) Answer {
	s, err := m.store.Get(m.id)
	if err != nil {
		return Answer{Err: err}
	}
	v, err := vision.Filter(&s, m.eng.Map(), playerID, m.events)
	if err != nil {
		return Answer{Err: ErrPlayerNotFound}
	}
	return Answer{View: &v}
}

func (m *Match) chat(s *game.State, from *game.Player, cmd game.Command) error {
	var to []string
	switch cmd.Channel {
	case game.ChannelAll:
		to = s.PlayerIDs()
	case game.ChannelTeam, "":
		to = s.TeamPlayers(from.Team)
		cmd.Channel = game.ChannelTeam
	default:
		return ErrBadChannel
	}
	c := &Chat{From: from.ID, Name: from.Name, Team: from.Team, Channel: cmd.Channel, Text: cmd.Text}
	for _, id := range to {
		m.send(id, Frame{Kind: FrameChat, Tick: s.Tick, Chat: c})
	}
	return nil
}

func (m *Match) ping(s *game.State, from *game.Player, cmd game.Command) error {
	if !m.eng.Map().Has(cmd.Zone) {
		return topology.ErrUnknownZone
	}
	c := &Chat{From: from.ID, Name: from.Name, Team: from.Team, Channel: game.ChannelTeam, Zone: cmd.Zone}
	for _, id := range s.TeamPlayers(from.Team) {
		m.send(id, Frame{Kind: FramePing, Tick: s.Tick, Chat: c})
	}
	return nil
}
