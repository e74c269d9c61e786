package game

import (
	"github.com/kbang/bang-server-go/internal/card"
	"github.com/kbang/bang-server-go/internal/game/rules"
)

// pendingChallenge is the transient negotiation opened by a challenge-bearing
// card (or by a lethal hit, for last-save windows). Responders answer
// strictly in order; each answer is bound atomically as accept-and-apply or
// record-pass-and-advance. While one is open no other intent is accepted.
//
// Lives entirely under the game lock; no internal synchronization.
type pendingChallenge struct {
	spec       rules.ChallengeSpec
	card       *card.Card // played card, nil for last-save windows
	originator int

	// responders in seating order; idx points at the seat currently
	// obliged to answer. Each responder answers exactly once.
	responders []int
	idx        int

	// committed flips when any responder has answered; from then on the
	// originator can no longer cancel.
	committed bool

	// duelTurn carries the alternating obligation of a duel. A duel ends
	// on the first pass rather than when the responder list is exhausted.
	duelTurn int

	// deckChecks holds the fixed per-seat deck flips performed when the
	// challenge opened (barrel holders, deck-checking characters). The
	// result never changes for the remainder of the challenge.
	deckChecks map[int][]*card.Card
}

func newChallenge(spec rules.ChallengeSpec, played *card.Card, originator int, responders []int) *pendingChallenge {
	ch := &pendingChallenge{
		spec:       spec,
		card:       played,
		originator: originator,
		responders: responders,
		deckChecks: make(map[int][]*card.Card),
	}
	if spec.Alternates && len(responders) > 0 {
		ch.duelTurn = responders[0]
	}
	return ch
}

// currentResponder returns the seat obliged to answer now, or NoOwner when
// every slot is resolved.
func (ch *pendingChallenge) currentResponder() int {
	if ch.spec.Alternates {
		return ch.duelTurn
	}
	if ch.idx >= len(ch.responders) {
		return NoOwner
	}
	return ch.responders[ch.idx]
}

// recordAnswer marks the current responder's slot as answered. For duels a
// card answer bounces the obligation to the other duelist and the challenge
// stays open; everything else advances down the responder list.
func (ch *pendingChallenge) recordAnswer(answeredWithCard bool) {
	ch.committed = true
	if ch.spec.Alternates {
		if !answeredWithCard {
			// a pass ends the duel
			ch.idx = len(ch.responders)
			return
		}
		if ch.duelTurn == ch.originator {
			ch.duelTurn = ch.responders[0]
		} else {
			ch.duelTurn = ch.originator
		}
		return
	}
	ch.idx++
}

// removeResponder drops a seat from the outstanding slots, used when a
// responder dies from an earlier answer of the same challenge.
func (ch *pendingChallenge) removeResponder(seat int) {
	for i := ch.idx; i < len(ch.responders); i++ {
		if ch.responders[i] == seat {
			ch.responders = append(ch.responders[:i:i], ch.responders[i+1:]...)
			return
		}
	}
	if ch.spec.Alternates && ch.duelTurn == seat {
		ch.idx = len(ch.responders)
	}
}

// resolved reports whether every enumerated responder has answered.
func (ch *pendingChallenge) resolved() bool {
	if ch.spec.Alternates {
		return ch.idx >= len(ch.responders) && ch.committed
	}
	return ch.idx >= len(ch.responders)
}

// dodges reports whether the seat's fixed deck check contains a heart, which
// answers the challenge without a card.
func (ch *pendingChallenge) dodges(seat int) bool {
	for _, c := range ch.deckChecks[seat] {
		if c.Suit == card.SuitHearts {
			return true
		}
	}
	return false
}
