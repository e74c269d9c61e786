package rules

import (
	"testing"

	"github.com/kbang/bang-server-go/internal/card"
)

func seats(roles []card.PlayerRole, dead ...int) []SeatStatus {
	out := make([]SeatStatus, len(roles))
	for i, r := range roles {
		out[i] = SeatStatus{Role: r, Alive: true}
	}
	for _, d := range dead {
		out[d].Alive = false
	}
	return out
}

var fourPlayerRoles = []card.PlayerRole{card.RoleSheriff, card.RoleRenegade, card.RoleOutlaw, card.RoleOutlaw}

func TestEvaluateWinGameStillRunning(t *testing.T) {
	winners, finished := EvaluateWin(seats(fourPlayerRoles))
	if finished {
		t.Fatalf("game should still be running, got winners %q", winners)
	}
	// one outlaw down changes nothing
	winners, finished = EvaluateWin(seats(fourPlayerRoles, 2))
	if finished {
		t.Fatalf("game should still be running, got winners %q", winners)
	}
}

func TestEvaluateWinSheriffDeadOutlawsWin(t *testing.T) {
	winners, finished := EvaluateWin(seats(fourPlayerRoles, 0))
	if !finished || winners != WinnersOutlaws {
		t.Fatalf("expected outlaws to win, got %q finished=%v", winners, finished)
	}
	// outlaws win even with the renegade dead
	winners, finished = EvaluateWin(seats(fourPlayerRoles, 0, 1))
	if !finished || winners != WinnersOutlaws {
		t.Fatalf("expected outlaws to win, got %q finished=%v", winners, finished)
	}
}

func TestEvaluateWinRenegadeSoleSurvivor(t *testing.T) {
	// renegade is the only player left when the sheriff falls
	winners, finished := EvaluateWin(seats(fourPlayerRoles, 0, 2, 3))
	if !finished || winners != WinnersRenegade {
		t.Fatalf("expected renegade to win alone, got %q finished=%v", winners, finished)
	}

	// sheriff dead but an outlaw still standing: outlaws, not the renegade
	winners, finished = EvaluateWin(seats(fourPlayerRoles, 0, 2))
	if !finished || winners != WinnersOutlaws {
		t.Fatalf("expected outlaws to win, got %q finished=%v", winners, finished)
	}
}

func TestEvaluateWinLawfulSide(t *testing.T) {
	roles := []card.PlayerRole{card.RoleSheriff, card.RoleRenegade, card.RoleOutlaw, card.RoleOutlaw, card.RoleDeputy}
	winners, finished := EvaluateWin(seats(roles, 1, 2, 3))
	if !finished || winners != WinnersLawful {
		t.Fatalf("expected sheriff-and-deputies, got %q finished=%v", winners, finished)
	}
	if string(WinnersLawful) != "sheriff-and-deputies" {
		t.Fatalf("unexpected winners label %q", WinnersLawful)
	}
}
