package game

import (
	"math/rand"
	"strings"

	"github.com/kbang/bang-server-go/internal/card"
)

// PocketType identifies a card container.
type PocketType int

const (
	PocketInvalid PocketType = iota
	PocketDeck
	PocketGraveyard
	PocketHand
	PocketTable
	PocketSelection
)

var pocketNames = map[PocketType]string{
	PocketDeck:      "deck",
	PocketGraveyard: "graveyard",
	PocketHand:      "hand",
	PocketTable:     "table",
	PocketSelection: "selection",
}

func (p PocketType) String() string {
	if name, ok := pocketNames[p]; ok {
		return name
	}
	return ""
}

// ParsePocketType converts a pocket name into a PocketType value.
func ParsePocketType(s string) PocketType {
	switch strings.ToLower(s) {
	case "deck":
		return PocketDeck
	case "graveyard":
		return PocketGraveyard
	case "hand":
		return PocketHand
	case "table":
		return PocketTable
	case "selection":
		return PocketSelection
	}
	return PocketInvalid
}

// NoOwner marks a pocket scoped to the game rather than a seat.
const NoOwner = -1

// Pocket addresses one container: deck, graveyard and selection are
// game-scoped (Owner == NoOwner), hand and table belong to a seat.
type Pocket struct {
	Type  PocketType
	Owner int
}

// DeckPocket, GraveyardPocket and SelectionPocket address the game-scoped
// containers.
var (
	DeckPocket      = Pocket{Type: PocketDeck, Owner: NoOwner}
	GraveyardPocket = Pocket{Type: PocketGraveyard, Owner: NoOwner}
	SelectionPocket = Pocket{Type: PocketSelection, Owner: NoOwner}
)

// HandPocket addresses a seat's hand.
func HandPocket(seat int) Pocket { return Pocket{Type: PocketHand, Owner: seat} }

// TablePocket addresses a seat's table row.
func TablePocket(seat int) Pocket { return Pocket{Type: PocketTable, Owner: seat} }

// PocketManager owns card location for one game. It is the only component
// allowed to change where a card lives; everything else holds read views.
// A card is in exactly one pocket at any instant and every move is a single
// remove-then-insert step.
//
// Ordered pockets (deck, graveyard) keep their top card at the end of the
// slice. The manager is not goroutine safe on its own; all callers run under
// the per-game lock.
type PocketManager struct {
	rng       *rand.Rand
	location  map[string]Pocket
	deck      []*card.Card
	graveyard []*card.Card
	selection []*card.Card
	hands     map[int][]*card.Card
	tables    map[int][]*card.Card
}

// NewPocketManager registers every card of the supplied deck and shuffles it.
// The seed keeps shuffles reproducible in tests.
func NewPocketManager(deck []*card.Card, seed int64) *PocketManager {
	pm := &PocketManager{
		rng:      rand.New(rand.NewSource(seed)),
		location: make(map[string]Pocket, len(deck)),
		deck:     make([]*card.Card, 0, len(deck)),
		hands:    make(map[int][]*card.Card),
		tables:   make(map[int][]*card.Card),
	}
	for _, c := range deck {
		pm.deck = append(pm.deck, c)
		pm.location[c.ID] = DeckPocket
	}
	pm.shuffleDeck()
	return pm
}

func (pm *PocketManager) shuffleDeck() {
	pm.rng.Shuffle(len(pm.deck), func(i, j int) {
		pm.deck[i], pm.deck[j] = pm.deck[j], pm.deck[i]
	})
}

// MoveCard relocates the card from one pocket to another as a single step.
// It fails with a CardAccountingError when the card is not where the caller
// claims, which indicates a bug in the rules code.
func (pm *PocketManager) MoveCard(c *card.Card, from, to Pocket) error {
	loc, ok := pm.location[c.ID]
	if !ok {
		return &CardAccountingError{Detail: "card " + c.ID + " is not tracked"}
	}
	if loc != from {
		return &CardAccountingError{
			Detail: "card " + c.ID + " expected in " + from.Type.String() + ", found in " + loc.Type.String(),
		}
	}
	if !pm.removeFrom(c, from) {
		return &CardAccountingError{Detail: "card " + c.ID + " missing from " + from.Type.String()}
	}
	pm.appendTo(c, to)
	pm.location[c.ID] = to
	return nil
}

func (pm *PocketManager) removeFrom(c *card.Card, p Pocket) bool {
	cards := pm.cardsIn(p)
	for i, held := range cards {
		if held.ID == c.ID {
			pm.setCards(p, append(cards[:i:i], cards[i+1:]...))
			return true
		}
	}
	return false
}

func (pm *PocketManager) appendTo(c *card.Card, p Pocket) {
	pm.setCards(p, append(pm.cardsIn(p), c))
}

func (pm *PocketManager) cardsIn(p Pocket) []*card.Card {
	switch p.Type {
	case PocketDeck:
		return pm.deck
	case PocketGraveyard:
		return pm.graveyard
	case PocketSelection:
		return pm.selection
	case PocketHand:
		return pm.hands[p.Owner]
	case PocketTable:
		return pm.tables[p.Owner]
	}
	return nil
}

func (pm *PocketManager) setCards(p Pocket, cards []*card.Card) {
	switch p.Type {
	case PocketDeck:
		pm.deck = cards
	case PocketGraveyard:
		pm.graveyard = cards
	case PocketSelection:
		pm.selection = cards
	case PocketHand:
		pm.hands[p.Owner] = cards
	case PocketTable:
		pm.tables[p.Owner] = cards
	}
}

// DrawTopTo moves the top deck card into the destination pocket. When the
// deck is exhausted the graveyard is shuffled into a fresh deck first;
// regenerated reports that this happened so the caller can emit
// deck-regenerate before the draw message. Both containers empty is a fatal
// accounting violation.
func (pm *PocketManager) DrawTopTo(to Pocket) (c *card.Card, regenerated bool, err error) {
	if len(pm.deck) == 0 {
		if len(pm.graveyard) == 0 {
			return nil, false, &CardAccountingError{Detail: "deck and graveyard both empty"}
		}
		pm.regenerateDeck()
		regenerated = true
	}
	c = pm.deck[len(pm.deck)-1]
	if err := pm.MoveCard(c, DeckPocket, to); err != nil {
		return nil, regenerated, err
	}
	return c, regenerated, nil
}

// DrawGraveyardTopTo moves the top graveyard card into the destination
// pocket, for characters that draw from the discard pile.
func (pm *PocketManager) DrawGraveyardTopTo(to Pocket) (*card.Card, error) {
	if len(pm.graveyard) == 0 {
		return nil, badCard("", "graveyard is empty")
	}
	c := pm.graveyard[len(pm.graveyard)-1]
	if err := pm.MoveCard(c, GraveyardPocket, to); err != nil {
		return nil, err
	}
	return c, nil
}

func (pm *PocketManager) regenerateDeck() {
	pm.deck = pm.graveyard
	pm.graveyard = nil
	for _, c := range pm.deck {
		pm.location[c.ID] = DeckPocket
	}
	pm.shuffleDeck()
}

// Location reports the pocket currently holding the card.
func (pm *PocketManager) Location(cardID string) (Pocket, bool) {
	p, ok := pm.location[cardID]
	return p, ok
}

// Hand returns the cards in a seat's hand. The slice is shared; callers must
// not mutate it.
func (pm *PocketManager) Hand(seat int) []*card.Card { return pm.hands[seat] }

// Table returns the cards on a seat's table row.
func (pm *PocketManager) Table(seat int) []*card.Card { return pm.tables[seat] }

// Selection returns the transient selection pocket.
func (pm *PocketManager) Selection() []*card.Card { return pm.selection }

// DeckSize returns the number of cards left in the deck.
func (pm *PocketManager) DeckSize() int { return len(pm.deck) }

// GraveyardSize returns the number of cards in the graveyard.
func (pm *PocketManager) GraveyardSize() int { return len(pm.graveyard) }

// GraveyardTop returns the top graveyard card without removing it.
func (pm *PocketManager) GraveyardTop() *card.Card {
	if len(pm.graveyard) == 0 {
		return nil
	}
	return pm.graveyard[len(pm.graveyard)-1]
}

// FindInHand locates a card by id in a seat's hand.
func (pm *PocketManager) FindInHand(seat int, cardID string) (*card.Card, bool) {
	for _, c := range pm.hands[seat] {
		if c.ID == cardID {
			return c, true
		}
	}
	return nil, false
}

// FindInSelection locates a card by id in the selection pocket.
func (pm *PocketManager) FindInSelection(cardID string) (*card.Card, bool) {
	for _, c := range pm.selection {
		if c.ID == cardID {
			return c, true
		}
	}
	return nil, false
}

// TotalCount returns the number of tracked cards across all pockets. It is
// constant for the lifetime of a game.
func (pm *PocketManager) TotalCount() int {
	n := len(pm.deck) + len(pm.graveyard) + len(pm.selection)
	for _, h := range pm.hands {
		n += len(h)
	}
	for _, t := range pm.tables {
		n += len(t)
	}
	return n
}
