// Package textcmd parses the typed command line players use in text
// clients, e.g. `attack hero:Sniper` or `chat team "push top"`.
package textcmd

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var lex = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Punct", Pattern: `[:]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// Line is one command line. Exactly one field is set after parsing.
type Line struct {
	Move   *MoveCmd   `parser:"  @@"`
	Attack *AttackCmd `parser:"| @@"`
	Cast   *CastCmd   `parser:"| @@"`
	Use    *UseCmd    `parser:"| @@"`
	Buy    *ItemCmd   `parser:"| 'buy' @@"`
	Sell   *ItemCmd   `parser:"| 'sell' @@"`
	Ward   *ZoneCmd   `parser:"| 'ward' @@"`
	Ping   *ZoneCmd   `parser:"| 'ping' @@"`
	Chat   *ChatCmd   `parser:"| @@"`
	Scan   bool       `parser:"| @'scan'"`
	Status bool       `parser:"| @'status'"`
	Map    bool       `parser:"| @'map'"`
}

type MoveCmd struct {
	Zone string `parser:"'move' @Ident"`
}

type AttackCmd struct {
	Target *Target `parser:"'attack' @@"`
}

type CastCmd struct {
	Slot   string  `parser:"'cast' @('q' | 'w' | 'e' | 'r')"`
	Target *Target `parser:"@@?"`
}

type UseCmd struct {
	Item   string  `parser:"'use' @Ident"`
	Target *Target `parser:"@@?"`
}

type ItemCmd struct {
	Item string `parser:"@Ident"`
}

type ZoneCmd struct {
	Zone string `parser:"@Ident"`
}

type ChatCmd struct {
	Channel string `parser:"'chat' @('all' | 'team')"`
	Text    string `parser:"@String"`
}

// Target is hero:<name>, creep:<index>, tower:<zone>, roshan or self.
type Target struct {
	Hero   *string `parser:"  'hero' ':' @(Ident | String)"`
	Creep  *int    `parser:"| 'creep' ':' @Int"`
	Tower  *string `parser:"| 'tower' ':' @Ident"`
	Roshan bool    `parser:"| @'roshan'"`
	Self   bool    `parser:"| @'self'"`
}

var parser = participle.MustBuild[Line](
	participle.Lexer(lex),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
	participle.CaseInsensitive("Ident"),
)
