package rules

import "github.com/kbang/bang-server-go/internal/card"

// SeatStatus is the minimal per-seat input for win evaluation.
type SeatStatus struct {
	Role  card.PlayerRole
	Alive bool
}

// Winners identifies the pool that won the game.
type Winners string

const (
	WinnersNone     Winners = ""
	WinnersLawful   Winners = "sheriff-and-deputies"
	WinnersOutlaws  Winners = "outlaws"
	WinnersRenegade Winners = "renegade"
)

// EvaluateWin checks the role-based termination conditions after a mutation:
// the sheriff dying hands the game to the outlaws unless the renegade is the
// sole survivor; eliminating every outlaw and the renegade hands it to the
// sheriff's side.
func EvaluateWin(seats []SeatStatus) (Winners, bool) {
	var sheriffAlive, renegadeAlive, outlawAlive bool
	living := 0
	for _, s := range seats {
		if !s.Alive {
			continue
		}
		living++
		switch s.Role {
		case card.RoleSheriff:
			sheriffAlive = true
		case card.RoleRenegade:
			renegadeAlive = true
		case card.RoleOutlaw:
			outlawAlive = true
		}
	}

	if !sheriffAlive {
		if renegadeAlive && living == 1 {
			return WinnersRenegade, true
		}
		return WinnersOutlaws, true
	}
	if !outlawAlive && !renegadeAlive {
		return WinnersLawful, true
	}
	return WinnersNone, false
}
