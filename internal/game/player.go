package game

import "github.com/kbang/bang-server-go/internal/card"

// Player is the per-seat mutable state. It is only ever mutated by the
// engine under the game lock; everything outside receives snapshots.
type Player struct {
	Seat      int
	Name      string
	Role      card.PlayerRole
	Character *card.Card
	Life      int
	MaxLife   int
	Alive     bool
	Host      bool
	AI        bool

	// BangsPlayed counts bang-kind cards played this turn, reset when the
	// turn advances.
	BangsPlayed int
}

// HandLimit is the end-of-turn hand size limit: current life, floored at
// zero. Character policies may override it through the rules table.
func (p *Player) HandLimit() int {
	if p.Life < 0 {
		return 0
	}
	return p.Life
}

// PlayerSnapshot captures public player data for external use. Role is
// disclosed only for the sheriff and for dead players.
type PlayerSnapshot struct {
	Seat      int
	Name      string
	Role      string
	Character string
	Life      int
	MaxLife   int
	Alive     bool
	AI        bool
	HandCount int
}

func (p *Player) snapshot(handCount int) PlayerSnapshot {
	role := card.RoleUnknown.String()
	if p.Role == card.RoleSheriff || !p.Alive {
		role = p.Role.String()
	}
	character := ""
	if p.Character != nil {
		character = p.Character.Name
	}
	return PlayerSnapshot{
		Seat:      p.Seat,
		Name:      p.Name,
		Role:      role,
		Character: character,
		Life:      p.Life,
		MaxLife:   p.MaxLife,
		Alive:     p.Alive,
		AI:        p.AI,
		HandCount: handCount,
	}
}
