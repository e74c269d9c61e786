package game

import (
	"testing"

	"github.com/kbang/bang-server-go/internal/card"
)

func newTestPockets(t *testing.T) *PocketManager {
	t.Helper()
	return NewPocketManager(card.StandardDeck(), 42)
}

func TestPocketManagerStartsWithFullDeck(t *testing.T) {
	pm := newTestPockets(t)
	if pm.DeckSize() != pm.TotalCount() {
		t.Fatalf("expected all %d cards in the deck, deck has %d", pm.TotalCount(), pm.DeckSize())
	}
	if pm.GraveyardSize() != 0 {
		t.Fatalf("expected empty graveyard, got %d", pm.GraveyardSize())
	}
}

func TestMoveCardUpdatesLocation(t *testing.T) {
	pm := newTestPockets(t)
	c := pm.deck[len(pm.deck)-1]

	if err := pm.MoveCard(c, DeckPocket, HandPocket(2)); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	loc, ok := pm.Location(c.ID)
	if !ok || loc != HandPocket(2) {
		t.Fatalf("expected card in seat 2's hand, got %+v", loc)
	}
	if len(pm.Hand(2)) != 1 {
		t.Fatalf("expected one card in hand, got %d", len(pm.Hand(2)))
	}

	if err := pm.MoveCard(c, HandPocket(2), GraveyardPocket); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if pm.GraveyardTop() != c {
		t.Fatal("expected moved card on top of the graveyard")
	}
	if len(pm.Hand(2)) != 0 {
		t.Fatal("card left a stale hand entry behind")
	}
}

func TestMoveCardRejectsWrongSource(t *testing.T) {
	pm := newTestPockets(t)
	c := pm.deck[0]

	err := pm.MoveCard(c, HandPocket(0), GraveyardPocket)
	if err == nil {
		t.Fatal("expected a card accounting error")
	}
	if _, ok := err.(*CardAccountingError); !ok {
		t.Fatalf("expected CardAccountingError, got %T", err)
	}
	// nothing moved
	if loc, _ := pm.Location(c.ID); loc != DeckPocket {
		t.Fatalf("card moved despite the error: %+v", loc)
	}
}

func TestMoveCardRejectsUntrackedCard(t *testing.T) {
	pm := newTestPockets(t)
	stranger := card.NewPlayingCard("Bang!", card.SuitSpades, card.RankAce, card.ReactionBang)

	err := pm.MoveCard(stranger, DeckPocket, GraveyardPocket)
	if _, ok := err.(*CardAccountingError); !ok {
		t.Fatalf("expected CardAccountingError, got %v", err)
	}
}

func TestTotalCountIsConstant(t *testing.T) {
	pm := newTestPockets(t)
	total := pm.TotalCount()

	for i := 0; i < 10; i++ {
		if _, _, err := pm.DrawTopTo(HandPocket(i % 4)); err != nil {
			t.Fatalf("draw %d failed: %v", i, err)
		}
	}
	for _, c := range append([]*card.Card(nil), pm.Hand(0)...) {
		if err := pm.MoveCard(c, HandPocket(0), GraveyardPocket); err != nil {
			t.Fatalf("discard failed: %v", err)
		}
	}
	if pm.TotalCount() != total {
		t.Fatalf("total card count drifted: started %d, now %d", total, pm.TotalCount())
	}
}

func TestDrawTopToRegeneratesFromGraveyard(t *testing.T) {
	pm := newTestPockets(t)

	// run the whole deck into the graveyard
	for pm.DeckSize() > 0 {
		if _, _, err := pm.DrawTopTo(GraveyardPocket); err != nil {
			t.Fatalf("draw failed: %v", err)
		}
	}
	if pm.GraveyardSize() == 0 {
		t.Fatal("graveyard should hold the whole set")
	}

	c, regenerated, err := pm.DrawTopTo(HandPocket(0))
	if err != nil {
		t.Fatalf("draw after exhaustion failed: %v", err)
	}
	if !regenerated {
		t.Fatal("expected the deck to regenerate")
	}
	if c == nil {
		t.Fatal("expected a drawn card")
	}
	if pm.GraveyardSize() != 0 {
		t.Fatalf("graveyard should be empty after regeneration, has %d", pm.GraveyardSize())
	}

	// a followup draw must not report another regeneration
	_, regenerated, err = pm.DrawTopTo(HandPocket(0))
	if err != nil {
		t.Fatalf("second draw failed: %v", err)
	}
	if regenerated {
		t.Fatal("deck regenerated twice for one exhaustion")
	}
}

func TestDrawTopToBothEmptyIsFatal(t *testing.T) {
	pm := newTestPockets(t)
	for pm.DeckSize() > 0 {
		if _, _, err := pm.DrawTopTo(HandPocket(0)); err != nil {
			t.Fatalf("draw failed: %v", err)
		}
	}
	// deck and graveyard both empty now
	_, _, err := pm.DrawTopTo(HandPocket(1))
	if _, ok := err.(*CardAccountingError); !ok {
		t.Fatalf("expected CardAccountingError, got %v", err)
	}
}

func TestDrawGraveyardTop(t *testing.T) {
	pm := newTestPockets(t)
	if _, err := pm.DrawGraveyardTopTo(HandPocket(0)); err == nil {
		t.Fatal("expected an error drawing from an empty graveyard")
	}

	want, _, err := pm.DrawTopTo(GraveyardPocket)
	if err != nil {
		t.Fatalf("seed discard failed: %v", err)
	}
	got, err := pm.DrawGraveyardTopTo(HandPocket(0))
	if err != nil {
		t.Fatalf("graveyard draw failed: %v", err)
	}
	if got != want {
		t.Fatalf("expected the top graveyard card %s, got %s", want, got)
	}
}

func TestFindInHandAndSelection(t *testing.T) {
	pm := newTestPockets(t)
	c, _, err := pm.DrawTopTo(HandPocket(3))
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	if found, ok := pm.FindInHand(3, c.ID); !ok || found != c {
		t.Fatal("card not found in hand")
	}
	if _, ok := pm.FindInHand(1, c.ID); ok {
		t.Fatal("card found in the wrong hand")
	}

	s, _, err := pm.DrawTopTo(SelectionPocket)
	if err != nil {
		t.Fatalf("selection draw failed: %v", err)
	}
	if found, ok := pm.FindInSelection(s.ID); !ok || found != s {
		t.Fatal("card not found in selection")
	}
}

func TestShuffleIsSeeded(t *testing.T) {
	deck := card.StandardDeck()
	a := NewPocketManager(deck, 7)
	b := NewPocketManager(deck, 7)
	for i := range a.deck {
		if a.deck[i].ID != b.deck[i].ID {
			t.Fatal("same seed produced different shuffles")
		}
	}
}
