package game

import (
	"testing"
)

func TestStreamAssignsSequenceInOrder(t *testing.T) {
	s := NewStream()
	ch, _ := s.Subscribe(NoOwner)

	for i := 0; i < 5; i++ {
		s.Append(Message{Type: MessagePlayerPass, Player: i, Target: NoOwner, PrivateTo: NoOwner})
	}
	for i := 1; i <= 5; i++ {
		m := <-ch
		if m.Seq != i {
			t.Fatalf("expected seq %d, got %d", i, m.Seq)
		}
		if m.Player != i-1 {
			t.Fatalf("messages delivered out of order: %+v", m)
		}
	}
	if s.Len() != 5 {
		t.Fatalf("expected 5 messages in history, got %d", s.Len())
	}
}

func TestStreamScrubsPrivateCardIdentity(t *testing.T) {
	s := NewStream()
	owner, _ := s.Subscribe(1)
	other, _ := s.Subscribe(2)
	spectator, _ := s.Subscribe(NoOwner)

	s.Append(Message{
		Type:      MessagePlayerDrawFromDeck,
		Player:    1,
		Target:    NoOwner,
		Card:      &CardView{ID: "c1", Name: "Bang!"},
		CardCount: 1,
		PrivateTo: 1,
	})

	m := <-owner
	if m.Card == nil || m.Card.Name != "Bang!" {
		t.Fatalf("owner lost the card identity: %+v", m)
	}

	m = <-other
	if m.Card != nil {
		t.Fatalf("card identity leaked to another seat: %+v", m)
	}
	if m.CardCount != 1 {
		t.Fatalf("count must survive scrubbing, got %d", m.CardCount)
	}

	m = <-spectator
	if m.Card != nil {
		t.Fatalf("card identity leaked to a spectator: %+v", m)
	}
}

func TestStreamPublicMessagesReachEveryone(t *testing.T) {
	s := NewStream()
	other, _ := s.Subscribe(2)

	s.Append(Message{
		Type:      MessagePlayerPlayCard,
		Player:    0,
		Target:    1,
		Card:      &CardView{ID: "c9", Name: "Duel"},
		PrivateTo: NoOwner,
	})
	m := <-other
	if m.Card == nil || m.Card.Name != "Duel" {
		t.Fatalf("public card identity was scrubbed: %+v", m)
	}
}

func TestStreamHistoryFiltersPerSeat(t *testing.T) {
	s := NewStream()
	s.Append(Message{Type: MessagePlayerDrawFromDeck, Player: 0, Target: NoOwner, Card: &CardView{ID: "x"}, PrivateTo: 0})
	s.Append(Message{Type: MessagePlayerDied, Player: 1, Target: NoOwner, Role: "outlaw", PrivateTo: NoOwner})

	mine := s.History(0)
	if len(mine) != 2 || mine[0].Card == nil {
		t.Fatalf("owner history lost data: %+v", mine)
	}
	theirs := s.History(3)
	if theirs[0].Card != nil {
		t.Fatalf("foreign history leaked a private card: %+v", theirs[0])
	}
	if theirs[1].Role != "outlaw" {
		t.Fatalf("public fields must survive filtering: %+v", theirs[1])
	}
}

func TestStreamUnsubscribeClosesChannel(t *testing.T) {
	s := NewStream()
	ch, handle := s.Subscribe(NoOwner)
	s.Unsubscribe(handle)
	if _, open := <-ch; open {
		t.Fatal("expected the observer channel to be closed")
	}
	// double unsubscribe is harmless
	s.Unsubscribe(handle)
}

func TestStreamDropsStalledObserver(t *testing.T) {
	s := NewStream()
	ch, _ := s.Subscribe(NoOwner)

	for i := 0; i < observerBuffer+1; i++ {
		s.Append(Message{Type: MessagePlayerPass, Player: 0, Target: NoOwner, PrivateTo: NoOwner})
	}
	if len(s.observers) != 0 {
		t.Fatal("stalled observer was not dropped")
	}

	// the buffered backlog is still readable, then the channel closes
	n := 0
	for range ch {
		n++
	}
	if n != observerBuffer {
		t.Fatalf("expected %d buffered messages, got %d", observerBuffer, n)
	}
}
