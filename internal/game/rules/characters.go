package rules

import "github.com/kbang/bang-server-go/internal/card"

// CharacterPolicy is the per-character rules row: how many cards the draw
// phase yields, which look-ahead variant applies, and bang limits. Values
// come from the rules table, never from code scattered across the engine.
type CharacterPolicy struct {
	Name string

	// DrawCount is the number of cards drawn in the draw phase.
	DrawCount int

	// DrawVariant selects a non-standard draw phase:
	// card.ReactionKitCarlson peeks DrawCount+1 cards into the selection
	// pocket and the player picks DrawCount of them.
	DrawVariant card.ReactionType

	// DrawFromGraveyard lets the first card of the draw phase come from
	// the graveyard top when it is non-empty.
	DrawFromGraveyard bool

	// ChecksDeck flips deck cards when the character responds to a
	// challenge (lucky-duke); the flip result is fixed for the remainder
	// of that challenge.
	ChecksDeck bool

	// UnlimitedBangs lifts the one-bang-per-turn limit.
	UnlimitedBangs bool
}

// DefaultPolicy applies to characters without a dedicated row.
var DefaultPolicy = CharacterPolicy{DrawCount: 2}

var characterPolicies = map[string]CharacterPolicy{
	"Lucky Duke": {
		Name:       "Lucky Duke",
		DrawCount:  2,
		ChecksDeck: true,
	},
	"Kit Carlson": {
		Name:        "Kit Carlson",
		DrawCount:   2,
		DrawVariant: card.ReactionKitCarlson,
	},
	"Willy the Kid": {
		Name:           "Willy the Kid",
		DrawCount:      2,
		UnlimitedBangs: true,
	},
	"Jesse Jones": {
		Name:              "Jesse Jones",
		DrawCount:         2,
		DrawFromGraveyard: true,
	},
}

// PolicyFor returns the rules row for a character name.
func PolicyFor(name string) CharacterPolicy {
	if p, ok := characterPolicies[name]; ok {
		return p
	}
	p := DefaultPolicy
	p.Name = name
	return p
}

// StartingLife returns the life total for a role. The sheriff plays with one
// extra life point.
func StartingLife(role card.PlayerRole, base int) int {
	if role == card.RoleSheriff {
		return base + 1
	}
	return base
}
