package game

import (
	"time"

	"github.com/kbang/bang-server-go/internal/game/rules"
)

// PublicGameView is the snapshot every observer may see: life totals,
// face-up cards and hand sizes, but never hand contents or hidden roles.
type PublicGameView struct {
	GameID        string
	Name          string
	State         string
	PlayState     string
	ActiveSeat    int
	Players       []PlayerSnapshot
	Tables        map[int][]CardView
	DeckSize      int
	GraveyardSize int
	GraveyardTop  *CardView
	Selection     []CardView
	ChallengeOpen bool
	Responder     int
	Winners       string
	CreatedAt     time.Time
	StartedAt     time.Time
	FinishedAt    time.Time
}

// PrivatePlayerView is issued only to the owning seat and adds full hand
// contents and the seat's own role.
type PrivatePlayerView struct {
	Seat      int
	Role      string
	Character string
	Hand      []CardView
}

// PublicView builds the observer snapshot of the game.
func (g *Game) PublicView() PublicGameView {
	g.mu.Lock()
	defer g.mu.Unlock()

	view := PublicGameView{
		GameID:     g.id,
		Name:       g.name,
		State:      g.state.String(),
		ActiveSeat: g.active,
		Responder:  NoOwner,
		Winners:    string(g.winners),
		CreatedAt:  g.createdAt,
		StartedAt:  g.startedAt,
		FinishedAt: g.finishedAt,
		Tables:     make(map[int][]CardView, len(g.players)),
	}
	if g.state == GameStatePlaying {
		view.PlayState = g.playState.String()
	}
	if ch := g.cur(); ch != nil {
		view.ChallengeOpen = true
		view.Responder = ch.currentResponder()
	}
	for _, p := range g.players {
		handCount := 0
		if g.pockets != nil {
			handCount = len(g.pockets.Hand(p.Seat))
			view.Tables[p.Seat] = cardViews(g.pockets.Table(p.Seat))
		}
		view.Players = append(view.Players, p.snapshot(handCount))
	}
	if g.pockets != nil {
		view.DeckSize = g.pockets.DeckSize()
		view.GraveyardSize = g.pockets.GraveyardSize()
		view.GraveyardTop = cardView(g.pockets.GraveyardTop())
		// selection contents are public only during a selection challenge
		if ch := g.cur(); ch != nil && ch.spec.OpensSelection {
			view.Selection = cardViews(g.pockets.Selection())
		}
	}
	return view
}

// PrivateView builds the owning seat's full view of its own state.
func (g *Game) PrivateView(seat int) (PrivatePlayerView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.playerAt(seat)
	if err != nil {
		return PrivatePlayerView{}, err
	}
	view := PrivatePlayerView{
		Seat: seat,
		Role: p.Role.String(),
	}
	if p.Character != nil {
		view.Character = p.Character.Name
	}
	if g.pockets != nil {
		view.Hand = cardViews(g.pockets.Hand(seat))
	}
	return view, nil
}

// Subscribe attaches an ordered observer channel bound to a seat; use
// NoOwner for spectators. The returned handle unsubscribes.
func (g *Game) Subscribe(seat int) (<-chan Message, int) {
	return g.stream.Subscribe(seat)
}

// Unsubscribe detaches an observer.
func (g *Game) Unsubscribe(handle int) {
	g.stream.Unsubscribe(handle)
}

// History returns the message log as seen by the given seat.
func (g *Game) History(seat int) []Message {
	return g.stream.History(seat)
}

// State returns the current lifecycle state.
func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Winners returns the winning pool once the game has finished.
func (g *Game) Winners() rules.Winners {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winners
}

// PlayerCount returns the number of seated players.
func (g *Game) PlayerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players)
}
