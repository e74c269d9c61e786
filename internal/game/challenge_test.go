package game

import (
	"testing"

	"github.com/kbang/bang-server-go/internal/card"
	"github.com/kbang/bang-server-go/internal/game/rules"
)

func TestChallengeRespondersAnswerInOrder(t *testing.T) {
	spec, _ := rules.ChallengeFor(card.ReactionGatling)
	ch := newChallenge(spec, nil, 0, []int{1, 2, 3})

	if got := ch.currentResponder(); got != 1 {
		t.Fatalf("expected seat 1 first, got %d", got)
	}
	ch.recordAnswer(true)
	if got := ch.currentResponder(); got != 2 {
		t.Fatalf("expected seat 2 next, got %d", got)
	}
	ch.recordAnswer(false)
	ch.recordAnswer(true)
	if !ch.resolved() {
		t.Fatal("expected the challenge to resolve after every answer")
	}
	if ch.currentResponder() != NoOwner {
		t.Fatalf("resolved challenge still names a responder: %d", ch.currentResponder())
	}
}

func TestChallengeCommittedAfterFirstAnswer(t *testing.T) {
	spec, _ := rules.ChallengeFor(card.ReactionBang)
	ch := newChallenge(spec, nil, 0, []int{2})

	if ch.committed {
		t.Fatal("fresh challenge must not be committed")
	}
	ch.recordAnswer(false)
	if !ch.committed {
		t.Fatal("any answer commits the challenge")
	}
}

func TestDuelAlternatesUntilPass(t *testing.T) {
	spec, _ := rules.ChallengeFor(card.ReactionDuel)
	ch := newChallenge(spec, nil, 0, []int{3})

	if got := ch.currentResponder(); got != 3 {
		t.Fatalf("the challenged seat answers first, got %d", got)
	}
	ch.recordAnswer(true)
	if got := ch.currentResponder(); got != 0 {
		t.Fatalf("obligation must bounce to the originator, got %d", got)
	}
	ch.recordAnswer(true)
	if got := ch.currentResponder(); got != 3 {
		t.Fatalf("obligation must bounce back, got %d", got)
	}
	if ch.resolved() {
		t.Fatal("duel must stay open while cards keep coming")
	}
	ch.recordAnswer(false)
	if !ch.resolved() {
		t.Fatal("first pass ends the duel")
	}
}

func TestRemoveResponderSkipsDeadSeat(t *testing.T) {
	spec, _ := rules.ChallengeFor(card.ReactionIndians)
	ch := newChallenge(spec, nil, 0, []int{1, 2, 3})

	ch.recordAnswer(false)
	ch.removeResponder(3)
	if got := ch.currentResponder(); got != 2 {
		t.Fatalf("expected seat 2, got %d", got)
	}
	ch.recordAnswer(false)
	if !ch.resolved() {
		t.Fatal("challenge should resolve with the dead seat removed")
	}
}

func TestDodgesOnHeartFlip(t *testing.T) {
	spec, _ := rules.ChallengeFor(card.ReactionBang)
	ch := newChallenge(spec, nil, 0, []int{1})

	ch.deckChecks[1] = []*card.Card{
		card.NewPlayingCard("Bang!", card.SuitClubs, 5, card.ReactionBang),
	}
	if ch.dodges(1) {
		t.Fatal("clubs must not dodge")
	}
	ch.deckChecks[1] = append(ch.deckChecks[1],
		card.NewPlayingCard("Beer", card.SuitHearts, 9, card.ReactionLastSave))
	if !ch.dodges(1) {
		t.Fatal("a heart in the flips dodges")
	}
	if ch.dodges(2) {
		t.Fatal("seat without flips must not dodge")
	}
}
