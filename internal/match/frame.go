package match

import (
	"github.com/DoyleJ11/lane-arena/internal/engine"
	"github.com/DoyleJ11/lane-arena/internal/game"
	"github.com/DoyleJ11/lane-arena/internal/vision"
)

type FrameKind string

const (
	FrameView     FrameKind = "view"
	FrameShop     FrameKind = "shop"
	FrameChat     FrameKind = "chat"
	FramePing     FrameKind = "ping"
	FrameGameOver FrameKind = "game_over"
)

// Frame is one message pushed to a client outbox. Kind says which of the
// payload fields is set.
type Frame struct {
	Kind    FrameKind
	Tick    int
	View    *vision.View
	Shop    *engine.ShopOutcome
	Chat    *Chat
	Summary *engine.Summary
}

// Chat carries both chat lines and pings. Pings set Zone and leave Text
// empty.
type Chat struct {
	From    string
	Name    string
	Team    game.Team
	Channel game.ChatChannel
	Text    string
	Zone    game.ZoneID
}
