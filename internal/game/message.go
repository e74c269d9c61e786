package game

import (
	"sync"
	"time"

	"github.com/kbang/bang-server-go/internal/card"
)

// MessageType indicates the category of a game message.
type MessageType string

const (
	MessageGameStarted             MessageType = "game-started"
	MessageGameFinished            MessageType = "game-finished"
	MessagePlayerDrawFromDeck      MessageType = "player-draw-from-deck"
	MessagePlayerDrawFromGraveyard MessageType = "player-draw-from-graveyard"
	MessagePlayerDiscardCard       MessageType = "player-discard-card"
	MessagePlayerPlayCard          MessageType = "player-play-card"
	MessagePlayerRespondWithCard   MessageType = "player-respond-with-card"
	MessagePlayerPass              MessageType = "player-pass"
	MessagePlayerPickFromSelection MessageType = "player-pick-from-selection"
	MessagePlayerCheckDeck         MessageType = "player-check-deck"
	MessagePlayerStealCard         MessageType = "player-steal-card"
	MessagePlayerCancelCard        MessageType = "player-cancel-card"
	MessageDeckRegenerate          MessageType = "deck-regenerate"
	MessagePlayerDied              MessageType = "player-died"
	MessageInvalid                 MessageType = ""
)

// CardView is the card payload carried inside game messages.
type CardView struct {
	ID       string
	Name     string
	Suit     string
	Rank     string
	Reaction string
}

func cardView(c *card.Card) *CardView {
	if c == nil {
		return nil
	}
	return &CardView{
		ID:       c.ID,
		Name:     c.Name,
		Suit:     c.Suit.String(),
		Rank:     c.Rank.String(),
		Reaction: c.Reaction.String(),
	}
}

func cardViews(cards []*card.Card) []CardView {
	views := make([]CardView, 0, len(cards))
	for _, c := range cards {
		if v := cardView(c); v != nil {
			views = append(views, *v)
		}
	}
	return views
}

// Message is one entry of the append-only game log. The sequence of messages
// is the single source of truth every observer replays, delivered to each
// observer in the exact order generated. Payloads carry enough structure to
// reconstruct the state delta without re-deriving rules.
type Message struct {
	Seq       int
	Type      MessageType
	Player    int // acting seat, NoOwner when not player-scoped
	Target    int // target seat, NoOwner when absent
	Card      *CardView
	Cards     []CardView // selection contents, checked deck flips
	CardCount int        // draw counts when identity is private
	LifeDelta int
	Role      string // revealed role on death
	Winners   string // winning pool on game-finished
	// PrivateTo scopes card identity to one seat. Observers of other seats
	// receive the message with Card/Cards scrubbed but counts intact.
	PrivateTo int
	Timestamp time.Time
}

// filterFor returns the message as seen by the given seat (NoOwner for
// spectators). Private card identity never leaks into another seat's copy.
func (m Message) filterFor(seat int) Message {
	if m.PrivateTo == NoOwner || m.PrivateTo == seat {
		return m
	}
	m.Card = nil
	m.Cards = nil
	return m
}

// Stream is the ordered game message channel. The engine appends under the
// game lock; observers subscribe and drain their own buffered channel.
// Delivery to a single observer preserves append order. An observer that
// stops draining is dropped rather than allowed to stall the game.
type Stream struct {
	mu         sync.Mutex
	seq        int
	history    []Message
	observers  map[int]*streamObserver
	nextHandle int
}

type streamObserver struct {
	seat int
	ch   chan Message
}

const observerBuffer = 256

// NewStream constructs an empty message stream.
func NewStream() *Stream {
	return &Stream{observers: make(map[int]*streamObserver)}
}

// Subscribe registers an observer bound to a seat (NoOwner for spectators)
// and returns the ordered delivery channel plus an unsubscribe handle.
func (s *Stream) Subscribe(seat int) (<-chan Message, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	handle := s.nextHandle
	s.nextHandle++
	obs := &streamObserver{seat: seat, ch: make(chan Message, observerBuffer)}
	s.observers[handle] = obs
	return obs.ch, handle
}

// Unsubscribe removes the observer identified by the handle.
func (s *Stream) Unsubscribe(handle int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if obs, ok := s.observers[handle]; ok {
		delete(s.observers, handle)
		close(obs.ch)
	}
}

// Append assigns the next sequence number, records the message and fans it
// out. Channel sends are non-blocking: a full buffer means the observer
// stopped draining and it is disconnected.
func (s *Stream) Append(m Message) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	m.Seq = s.seq
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	s.history = append(s.history, m)
	for handle, obs := range s.observers {
		select {
		case obs.ch <- m.filterFor(obs.seat):
		default:
			delete(s.observers, handle)
			close(obs.ch)
		}
	}
	return m
}

// History returns the full log as seen by the given seat.
func (s *Stream) History(seat int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, 0, len(s.history))
	for _, m := range s.history {
		out = append(out, m.filterFor(seat))
	}
	return out
}

// Len returns the number of appended messages.
func (s *Stream) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}
