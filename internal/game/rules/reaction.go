package rules

import "github.com/kbang/bang-server-go/internal/card"

// TargetMode describes who must answer a challenge-bearing card.
type TargetMode int

const (
	// TargetNone resolves immediately with no responders.
	TargetNone TargetMode = iota
	// TargetSingle demands a single living target seat.
	TargetSingle
	// TargetAllOthers enumerates every living seat except the originator,
	// in seating order starting after the originator.
	TargetAllOthers
	// TargetAllFromOriginator enumerates every living seat starting with
	// the originator (general-store picking order).
	TargetAllFromOriginator
)

// ChallengeSpec is one row of the reaction dispatch table: how a reaction
// kind selects its responders and what a response or a pass does. Card
// behavior differences are data here, not a type hierarchy.
type ChallengeSpec struct {
	Kind card.ReactionType

	Target TargetMode

	// Response is the card reaction kind that answers the challenge.
	// ReactionNone means no card answers it (selection rounds).
	Response card.ReactionType

	// PassLife is the life lost by a responder who passes.
	PassLife int

	// Alternates bounces the obligation between responder and originator
	// until one of them passes (duel).
	Alternates bool

	// OpensSelection deals one deck card per responder into the selection
	// pocket; responders pick instead of playing response cards, and
	// passing is rejected.
	OpensSelection bool

	// AllowsDeckCheck lets barrel holders and deck-checking characters
	// flip deck cards for an automatic dodge when the challenge opens.
	AllowsDeckCheck bool
}

var challengeSpecs = map[card.ReactionType]ChallengeSpec{
	card.ReactionBang: {
		Kind:            card.ReactionBang,
		Target:          TargetSingle,
		Response:        card.ReactionBang,
		PassLife:        1,
		AllowsDeckCheck: true,
	},
	card.ReactionGatling: {
		Kind:            card.ReactionGatling,
		Target:          TargetAllOthers,
		Response:        card.ReactionBang,
		PassLife:        1,
		AllowsDeckCheck: true,
	},
	card.ReactionIndians: {
		Kind:     card.ReactionIndians,
		Target:   TargetAllOthers,
		Response: card.ReactionBang,
		PassLife: 1,
	},
	card.ReactionDuel: {
		Kind:       card.ReactionDuel,
		Target:     TargetSingle,
		Response:   card.ReactionBang,
		PassLife:   1,
		Alternates: true,
	},
	card.ReactionGeneralStore: {
		Kind:           card.ReactionGeneralStore,
		Target:         TargetAllFromOriginator,
		Response:       card.ReactionNone,
		OpensSelection: true,
	},
	// A lethal hit opens a last-save window for the dying player: answer
	// with a last-save card to stay alive, pass to die. Never opened by
	// playing a card directly.
	card.ReactionLastSave: {
		Kind:     card.ReactionLastSave,
		Target:   TargetSingle,
		Response: card.ReactionLastSave,
	},
}

// ChallengeFor looks up the dispatch-table row for a reaction kind. The
// look-ahead kinds (lucky-duke, kit-carlson) are character draw variants, not
// playable challenges, and have no row.
func ChallengeFor(kind card.ReactionType) (ChallengeSpec, bool) {
	spec, ok := challengeSpecs[kind]
	return spec, ok
}

// OpensChallenge reports whether playing a card of this reaction kind opens
// a pending challenge. Last-save cards are immediate when played from the
// turn phase (they restore one life) and only act as responses inside a
// last-save window.
func OpensChallenge(kind card.ReactionType) bool {
	if kind == card.ReactionLastSave {
		return false
	}
	_, ok := challengeSpecs[kind]
	return ok
}
