package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kbang/bang-server-go/internal/card"
	"github.com/kbang/bang-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// Options carries the rule-table values a game is created with.
type Options struct {
	MinPlayers int
	MaxPlayers int
	BaseLife   int
	Seed       int64
}

// DefaultOptions returns the base-game table values.
func DefaultOptions() Options {
	return Options{MinPlayers: 4, MaxPlayers: 7, BaseLife: 4}
}

// Game is the authoritative state machine for one game. Every participant
// intent enters through one of the exported methods below, which serialize
// under a single mutex: validate, mutate zones and player state, emit
// messages, then evaluate win conditions. No partial mutation is ever
// visible to another caller.
type Game struct {
	mu     sync.Mutex
	logger *zap.Logger

	id        string
	name      string
	opts      Options
	rng       *rand.Rand
	createdAt time.Time

	state     GameState
	players   []*Player
	pockets   *PocketManager
	stream    *Stream
	playState PlayState
	active    int

	// challenges is a stack: a last-save window opened by a lethal hit
	// nests inside the challenge that caused it. The top entry is the one
	// being answered.
	challenges []*pendingChallenge

	// pendingPicks counts outstanding selection picks of a look-ahead
	// draw phase (kit-carlson variant).
	pendingPicks int

	winners    rules.Winners
	startedAt  time.Time
	finishedAt time.Time

	// onFinished is invoked once, asynchronously, when the game reaches
	// Finished.
	onFinished func(*Game)
}

// NewGame creates a game in WaitingForPlayers with the creator seated at
// seat 0 holding host permission.
func NewGame(name, creator string, opts Options, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	g := &Game{
		logger:    logger,
		id:        uuid.New().String(),
		name:      name,
		opts:      opts,
		rng:       rand.New(rand.NewSource(opts.Seed + 1)),
		createdAt: time.Now(),
		state:     GameStateWaitingForPlayers,
		stream:    NewStream(),
		active:    NoOwner,
	}
	g.players = append(g.players, &Player{Seat: 0, Name: creator, Host: true})
	return g
}

// ID returns the game id.
func (g *Game) ID() string { return g.id }

// Name returns the game name.
func (g *Game) Name() string { return g.name }

// SetOnFinished registers the lifecycle hook called when the game finishes.
func (g *Game) SetOnFinished(fn func(*Game)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onFinished = fn
}

// Join seats a new player. Fails once the game has started or is full.
func (g *Game) Join(name string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GameStateWaitingForPlayers {
		return NoOwner, badGameState("game %s has already started", g.id)
	}
	if len(g.players) >= g.opts.MaxPlayers {
		return NoOwner, badGameState("game %s is full", g.id)
	}
	seat := len(g.players)
	g.players = append(g.players, &Player{Seat: seat, Name: name})
	g.logger.Info("player joined game",
		zap.String("game_id", g.id),
		zap.String("player", name),
		zap.Int("seat", seat),
	)
	return seat, nil
}

// Start deals roles, characters and opening hands, then hands the first turn
// to seat 0. Only the host may start, and only with enough players seated.
func (g *Game) Start(seat int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GameStateWaitingForPlayers {
		return badGameState("game %s is %s", g.id, g.state)
	}
	p, err := g.playerAt(seat)
	if err != nil {
		return err
	}
	if !p.Host {
		return badPlayer("seat %d does not have permission to start the game", seat)
	}
	if len(g.players) < g.opts.MinPlayers {
		return badGameState("need at least %d players, have %d", g.opts.MinPlayers, len(g.players))
	}

	roles := card.RolesForPlayerCount(len(g.players))
	if roles == nil {
		return badGameState("unsupported player count %d", len(g.players))
	}
	g.rng.Shuffle(len(roles), func(i, j int) { roles[i], roles[j] = roles[j], roles[i] })

	roster := card.CharacterRoster()
	g.rng.Shuffle(len(roster), func(i, j int) { roster[i], roster[j] = roster[j], roster[i] })

	g.pockets = NewPocketManager(card.StandardDeck(), g.opts.Seed)

	for i, p := range g.players {
		p.Role = roles[i]
		p.Character = roster[i%len(roster)]
		p.Life = rules.StartingLife(p.Role, g.opts.BaseLife)
		p.MaxLife = p.Life
		p.Alive = true
	}

	// opening hand: one card per life point
	for _, p := range g.players {
		for i := 0; i < p.Life; i++ {
			if _, _, err := g.pockets.DrawTopTo(HandPocket(p.Seat)); err != nil {
				return g.fatal(err)
			}
		}
	}

	g.state = GameStatePlaying
	g.startedAt = time.Now()
	g.active = 0
	g.playState = PlayStateDraw
	g.emit(Message{Type: MessageGameStarted, Player: NoOwner, Target: NoOwner, PrivateTo: NoOwner})
	g.logger.Info("game started",
		zap.String("game_id", g.id),
		zap.Int("players", len(g.players)),
	)
	return nil
}

// Draw performs the active player's draw phase. n must match the character's
// mandated draw count. With reveal set, drawn card identity is broadcast
// publicly instead of staying private to the drawing seat.
func (g *Game) Draw(seat, n int, reveal bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.guardActive(seat, PlayStateDraw); err != nil {
		return err
	}
	if g.pendingPicks > 0 {
		return badGameState("seat %d must pick from selection first", seat)
	}
	p := g.players[seat]
	policy := rules.PolicyFor(g.characterName(seat))
	if n != policy.DrawCount {
		return badGameState("seat %d must draw %d cards, asked for %d", seat, policy.DrawCount, n)
	}

	if policy.DrawVariant == card.ReactionKitCarlson {
		return g.drawWithLookahead(p, n)
	}

	remaining := n
	if policy.DrawFromGraveyard && g.pockets.GraveyardSize() > 0 {
		c, err := g.pockets.DrawGraveyardTopTo(HandPocket(seat))
		if err != nil {
			return err
		}
		// graveyard tops are public knowledge
		g.emit(Message{
			Type:      MessagePlayerDrawFromGraveyard,
			Player:    seat,
			Target:    NoOwner,
			Card:      cardView(c),
			CardCount: 1,
			PrivateTo: NoOwner,
		})
		remaining--
	}

	for i := 0; i < remaining; i++ {
		if err := g.drawOne(seat, reveal); err != nil {
			return err
		}
	}
	g.playState = PlayStateTurn
	return nil
}

// drawOne moves one deck card to the seat's hand and emits the draw message,
// preceded by deck-regenerate when the deck was recycled.
func (g *Game) drawOne(seat int, reveal bool) error {
	c, regenerated, err := g.pockets.DrawTopTo(HandPocket(seat))
	if err != nil {
		return g.fatal(err)
	}
	if regenerated {
		g.emitDeckRegenerate()
	}
	privateTo := seat
	if reveal {
		privateTo = NoOwner
	}
	g.emit(Message{
		Type:      MessagePlayerDrawFromDeck,
		Player:    seat,
		Target:    NoOwner,
		Card:      cardView(c),
		CardCount: 1,
		PrivateTo: privateTo,
	})
	return nil
}

// drawWithLookahead deals n+1 cards face down into the selection pocket; the
// player keeps n of them through PickFromSelection and the leftover goes back
// on top of the deck.
func (g *Game) drawWithLookahead(p *Player, n int) error {
	var peeked []*card.Card
	for i := 0; i < n+1; i++ {
		c, regenerated, err := g.pockets.DrawTopTo(SelectionPocket)
		if err != nil {
			return g.fatal(err)
		}
		if regenerated {
			g.emitDeckRegenerate()
		}
		peeked = append(peeked, c)
	}
	g.emit(Message{
		Type:      MessagePlayerDrawFromDeck,
		Player:    p.Seat,
		Target:    NoOwner,
		Cards:     cardViews(peeked),
		CardCount: n + 1,
		PrivateTo: p.Seat,
	})
	g.pendingPicks = n
	return nil
}

// Play plays a card from hand. During an open challenge this is the respond
// path for the current responder; otherwise it is only legal for the active
// player in the turn phase.
func (g *Game) Play(seat int, cardID string, target int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GameStatePlaying {
		return badGameState("game %s is %s", g.id, g.state)
	}
	if _, err := g.playerAt(seat); err != nil {
		return err
	}

	if ch := g.cur(); ch != nil {
		return g.respond(ch, seat, cardID)
	}

	if err := g.guardActive(seat, PlayStateTurn); err != nil {
		return err
	}
	p := g.players[seat]
	c, ok := g.pockets.FindInHand(seat, cardID)
	if !ok {
		return badCard(cardID, "not in seat %d's hand", seat)
	}

	if rules.OpensChallenge(c.Reaction) {
		return g.playChallengeCard(p, c, target)
	}
	return g.playImmediateCard(p, c, target)
}

// playChallengeCard validates a reaction-bearing card, moves it to the
// graveyard and opens the pending challenge its dispatch row describes.
func (g *Game) playChallengeCard(p *Player, c *card.Card, target int) error {
	spec, _ := rules.ChallengeFor(c.Reaction)
	policy := rules.PolicyFor(g.characterName(p.Seat))

	if c.Reaction == card.ReactionBang && p.BangsPlayed >= 1 && !policy.UnlimitedBangs {
		return badGameState("seat %d already played a bang this turn", p.Seat)
	}

	var responders []int
	switch spec.Target {
	case rules.TargetSingle:
		t, err := g.playerAt(target)
		if err != nil {
			return badGameState("card %s needs a living target", c.Name)
		}
		if !t.Alive || t.Seat == p.Seat {
			return badGameState("card %s needs a living target other than the player", c.Name)
		}
		responders = []int{t.Seat}
	case rules.TargetAllOthers:
		responders = g.livingSeatsAfter(p.Seat, false)
	case rules.TargetAllFromOriginator:
		responders = g.livingSeatsAfter(p.Seat, true)
	}

	if err := g.pockets.MoveCard(c, HandPocket(p.Seat), GraveyardPocket); err != nil {
		return g.fatal(err)
	}
	if c.Reaction == card.ReactionBang {
		p.BangsPlayed++
	}
	g.emit(Message{
		Type:      MessagePlayerPlayCard,
		Player:    p.Seat,
		Target:    targetOrNoOwner(spec, responders),
		Card:      cardView(c),
		PrivateTo: NoOwner,
	})

	if len(responders) == 0 {
		// nobody left to answer; resolves on the spot
		return nil
	}

	if spec.OpensSelection {
		var dealt []*card.Card
		for range responders {
			sc, regenerated, err := g.pockets.DrawTopTo(SelectionPocket)
			if err != nil {
				return g.fatal(err)
			}
			if regenerated {
				g.emitDeckRegenerate()
			}
			dealt = append(dealt, sc)
		}
		g.emit(Message{
			Type:      MessagePlayerCheckDeck,
			Player:    p.Seat,
			Target:    NoOwner,
			Cards:     cardViews(dealt),
			PrivateTo: NoOwner,
		})
	}

	g.openChallenge(spec, c, p.Seat, responders)
	return nil
}

func targetOrNoOwner(spec rules.ChallengeSpec, responders []int) int {
	if spec.Target == rules.TargetSingle && len(responders) == 1 {
		return responders[0]
	}
	return NoOwner
}

// immediateEffect applies a no-reaction card. Effects are zone moves and
// life changes only; each emits the messages that describe its delta.
type immediateEffect func(g *Game, p *Player, c *card.Card, target int) error

var immediateEffects = map[string]immediateEffect{
	"Beer":        playBeer,
	"Stagecoach":  playDrawCards(2),
	"Wells Fargo": playDrawCards(3),
	"Panic!":      playPanic,
	"Cat Balou":   playCatBalou,
	"Barrel":      playEquipment,
	"Mustang":     playEquipment,
	"Scope":       playEquipment,
}

// playImmediateCard resolves a card with no reaction kind: zone move plus
// state effect, turn phase unchanged.
func (g *Game) playImmediateCard(p *Player, c *card.Card, target int) error {
	effect, ok := immediateEffects[c.Name]
	if !ok {
		effect = playDiscardOnly
	}
	return effect(g, p, c, target)
}

func playBeer(g *Game, p *Player, c *card.Card, _ int) error {
	if p.Life >= p.MaxLife {
		return badGameState("seat %d is already at full life", p.Seat)
	}
	if err := g.pockets.MoveCard(c, HandPocket(p.Seat), GraveyardPocket); err != nil {
		return g.fatal(err)
	}
	p.Life++
	g.emit(Message{
		Type:      MessagePlayerPlayCard,
		Player:    p.Seat,
		Target:    NoOwner,
		Card:      cardView(c),
		LifeDelta: 1,
		PrivateTo: NoOwner,
	})
	return nil
}

func playDrawCards(n int) immediateEffect {
	return func(g *Game, p *Player, c *card.Card, _ int) error {
		if err := g.pockets.MoveCard(c, HandPocket(p.Seat), GraveyardPocket); err != nil {
			return g.fatal(err)
		}
		g.emit(Message{
			Type:      MessagePlayerPlayCard,
			Player:    p.Seat,
			Target:    NoOwner,
			Card:      cardView(c),
			PrivateTo: NoOwner,
		})
		for i := 0; i < n; i++ {
			if err := g.drawOne(p.Seat, false); err != nil {
				return err
			}
		}
		return nil
	}
}

func playPanic(g *Game, p *Player, c *card.Card, target int) error {
	t, err := g.playerAt(target)
	if err != nil || !t.Alive || t.Seat == p.Seat {
		return badGameState("%s needs a living target other than the player", c.Name)
	}
	hand := g.pockets.Hand(t.Seat)
	if len(hand) == 0 {
		return badGameState("seat %d has no cards to steal", t.Seat)
	}
	if err := g.pockets.MoveCard(c, HandPocket(p.Seat), GraveyardPocket); err != nil {
		return g.fatal(err)
	}
	g.emit(Message{
		Type:      MessagePlayerPlayCard,
		Player:    p.Seat,
		Target:    t.Seat,
		Card:      cardView(c),
		PrivateTo: NoOwner,
	})
	// blind grab; the thief never chooses which card
	stolen := hand[g.rng.Intn(len(hand))]
	if err := g.pockets.MoveCard(stolen, HandPocket(t.Seat), HandPocket(p.Seat)); err != nil {
		return g.fatal(err)
	}
	// stolen identity is known to the thief only
	g.emit(Message{
		Type:      MessagePlayerStealCard,
		Player:    p.Seat,
		Target:    t.Seat,
		Card:      cardView(stolen),
		CardCount: 1,
		PrivateTo: p.Seat,
	})
	return nil
}

func playCatBalou(g *Game, p *Player, c *card.Card, target int) error {
	t, err := g.playerAt(target)
	if err != nil || !t.Alive || t.Seat == p.Seat {
		return badGameState("%s needs a living target other than the player", c.Name)
	}
	hand := g.pockets.Hand(t.Seat)
	if len(hand) == 0 {
		return badGameState("seat %d has no cards to discard", t.Seat)
	}
	if err := g.pockets.MoveCard(c, HandPocket(p.Seat), GraveyardPocket); err != nil {
		return g.fatal(err)
	}
	g.emit(Message{
		Type:      MessagePlayerPlayCard,
		Player:    p.Seat,
		Target:    t.Seat,
		Card:      cardView(c),
		PrivateTo: NoOwner,
	})
	dropped := hand[g.rng.Intn(len(hand))]
	if err := g.pockets.MoveCard(dropped, HandPocket(t.Seat), GraveyardPocket); err != nil {
		return g.fatal(err)
	}
	g.emit(Message{
		Type:      MessagePlayerDiscardCard,
		Player:    t.Seat,
		Target:    NoOwner,
		Card:      cardView(dropped),
		PrivateTo: NoOwner,
	})
	return nil
}

func playEquipment(g *Game, p *Player, c *card.Card, _ int) error {
	for _, held := range g.pockets.Table(p.Seat) {
		if held.Name == c.Name {
			return badGameState("seat %d already has %s in play", p.Seat, c.Name)
		}
	}
	if err := g.pockets.MoveCard(c, HandPocket(p.Seat), TablePocket(p.Seat)); err != nil {
		return g.fatal(err)
	}
	g.emit(Message{
		Type:      MessagePlayerPlayCard,
		Player:    p.Seat,
		Target:    NoOwner,
		Card:      cardView(c),
		PrivateTo: NoOwner,
	})
	return nil
}

func playDiscardOnly(g *Game, p *Player, c *card.Card, _ int) error {
	if err := g.pockets.MoveCard(c, HandPocket(p.Seat), GraveyardPocket); err != nil {
		return g.fatal(err)
	}
	g.emit(Message{
		Type:      MessagePlayerPlayCard,
		Player:    p.Seat,
		Target:    NoOwner,
		Card:      cardView(c),
		PrivateTo: NoOwner,
	})
	return nil
}

// respond handles the current responder answering an open challenge with a
// card. The answer is bound atomically: the card is accepted and its effect
// applied, or the whole intent is rejected.
func (g *Game) respond(ch *pendingChallenge, seat int, cardID string) error {
	if ch.spec.OpensSelection {
		return badGameState("challenge requires picking from the selection")
	}
	if ch.currentResponder() != seat {
		return badGameState("seat %d is not the current responder", seat)
	}
	c, ok := g.pockets.FindInHand(seat, cardID)
	if !ok {
		return badCard(cardID, "not in seat %d's hand", seat)
	}
	if c.Reaction != ch.spec.Response {
		return badCard(cardID, "%s does not answer a %s challenge", c.Name, ch.spec.Kind)
	}
	if err := g.pockets.MoveCard(c, HandPocket(seat), GraveyardPocket); err != nil {
		return g.fatal(err)
	}
	lifeDelta := 0
	if ch.spec.Kind == card.ReactionLastSave {
		// rescued: back to one life point
		p := g.players[seat]
		lifeDelta = 1 - p.Life
		p.Life = 1
	}
	g.emit(Message{
		Type:      MessagePlayerRespondWithCard,
		Player:    seat,
		Target:    ch.originator,
		Card:      cardView(c),
		LifeDelta: lifeDelta,
		PrivateTo: NoOwner,
	})
	ch.recordAnswer(true)
	g.advanceChallenge()
	return nil
}

// Pass declines to answer the open challenge and takes its pass effect.
func (g *Game) Pass(seat int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GameStatePlaying {
		return badGameState("game %s is %s", g.id, g.state)
	}
	if _, err := g.playerAt(seat); err != nil {
		return err
	}
	ch := g.cur()
	if ch == nil {
		return badGameState("no pending challenge to pass on")
	}
	if ch.spec.OpensSelection {
		return badGameState("challenge requires picking from the selection")
	}
	if ch.currentResponder() != seat {
		return badGameState("seat %d is not the current responder", seat)
	}

	g.emit(Message{
		Type:      MessagePlayerPass,
		Player:    seat,
		Target:    ch.originator,
		LifeDelta: -ch.spec.PassLife,
		PrivateTo: NoOwner,
	})
	ch.recordAnswer(false)

	if ch.spec.Kind == card.ReactionLastSave {
		g.popChallenge()
		g.commitDeath(seat)
	} else if ch.spec.PassLife > 0 {
		g.loseLife(seat, ch.spec.PassLife)
	}
	g.advanceChallenge()
	return nil
}

// Discard discards a card in the discard phase, or answers an open challenge
// the same way Play would.
func (g *Game) Discard(seat int, cardID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GameStatePlaying {
		return badGameState("game %s is %s", g.id, g.state)
	}
	if _, err := g.playerAt(seat); err != nil {
		return err
	}
	if ch := g.cur(); ch != nil {
		return g.respond(ch, seat, cardID)
	}
	if err := g.guardActive(seat, PlayStateDiscard); err != nil {
		return err
	}
	c, ok := g.pockets.FindInHand(seat, cardID)
	if !ok {
		return badCard(cardID, "not in seat %d's hand", seat)
	}
	if err := g.pockets.MoveCard(c, HandPocket(seat), GraveyardPocket); err != nil {
		return g.fatal(err)
	}
	g.emit(Message{
		Type:      MessagePlayerDiscardCard,
		Player:    seat,
		Target:    NoOwner,
		Card:      cardView(c),
		PrivateTo: NoOwner,
	})
	return nil
}

// FinishTurn ends the active player's turn. When the hand exceeds the
// life-based limit the phase switches to discard and the intent fails with
// TooManyCardsInHandError instead of advancing.
func (g *Game) FinishTurn(seat int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GameStatePlaying {
		return badGameState("game %s is %s", g.id, g.state)
	}
	if _, err := g.playerAt(seat); err != nil {
		return err
	}
	if g.cur() != nil {
		return badGameState("cannot finish turn with a pending challenge")
	}
	if seat != g.active {
		return badGameState("seat %d is not the active player", seat)
	}
	if g.playState != PlayStateTurn && g.playState != PlayStateDiscard {
		return badGameState("cannot finish turn during the %s phase", g.playState)
	}

	p := g.players[seat]
	if handSize := len(g.pockets.Hand(seat)); handSize > p.HandLimit() {
		g.playState = PlayStateDiscard
		return &TooManyCardsInHandError{HandSize: handSize, Limit: p.HandLimit()}
	}
	g.advanceTurn()
	return nil
}

// PickFromSelection takes one card out of the selection pocket, either as a
// pick of a selection challenge or to complete a look-ahead draw phase.
func (g *Game) PickFromSelection(seat int, cardID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GameStatePlaying {
		return badGameState("game %s is %s", g.id, g.state)
	}
	if _, err := g.playerAt(seat); err != nil {
		return err
	}

	if ch := g.cur(); ch != nil {
		if !ch.spec.OpensSelection {
			return badGameState("pending challenge is not a selection")
		}
		if ch.currentResponder() != seat {
			return badGameState("seat %d is not the current responder", seat)
		}
		c, ok := g.pockets.FindInSelection(cardID)
		if !ok {
			return badCard(cardID, "not in the selection")
		}
		if err := g.pockets.MoveCard(c, SelectionPocket, HandPocket(seat)); err != nil {
			return g.fatal(err)
		}
		g.emit(Message{
			Type:      MessagePlayerPickFromSelection,
			Player:    seat,
			Target:    NoOwner,
			Card:      cardView(c),
			PrivateTo: NoOwner,
		})
		ch.recordAnswer(true)
		g.advanceChallenge()
		return nil
	}

	if g.pendingPicks > 0 && seat == g.active && g.playState == PlayStateDraw {
		c, ok := g.pockets.FindInSelection(cardID)
		if !ok {
			return badCard(cardID, "not in the selection")
		}
		if err := g.pockets.MoveCard(c, SelectionPocket, HandPocket(seat)); err != nil {
			return g.fatal(err)
		}
		g.emit(Message{
			Type:      MessagePlayerPickFromSelection,
			Player:    seat,
			Target:    NoOwner,
			Card:      cardView(c),
			PrivateTo: seat,
		})
		g.pendingPicks--
		if g.pendingPicks == 0 {
			// leftover peeks go back on top of the deck
			for _, rest := range append([]*card.Card(nil), g.pockets.Selection()...) {
				if err := g.pockets.MoveCard(rest, SelectionPocket, DeckPocket); err != nil {
					return g.fatal(err)
				}
			}
			g.playState = PlayStateTurn
		}
		return nil
	}

	return badGameState("no selection to pick from")
}

// Cancel aborts the originator's unresolved challenge before any responder
// has committed.
func (g *Game) Cancel(seat int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GameStatePlaying {
		return badGameState("game %s is %s", g.id, g.state)
	}
	if _, err := g.playerAt(seat); err != nil {
		return err
	}
	ch := g.cur()
	if ch == nil {
		return badGameState("no pending challenge to cancel")
	}
	if ch.card == nil || ch.originator != seat {
		return badPlayer("seat %d did not originate the pending challenge", seat)
	}
	if ch.committed {
		return badGameState("challenge already has committed responses")
	}
	g.emit(Message{
		Type:      MessagePlayerCancelCard,
		Player:    seat,
		Target:    NoOwner,
		Card:      cardView(ch.card),
		PrivateTo: NoOwner,
	})
	g.popChallenge()
	g.advanceChallenge()
	return nil
}

// SetPlayerAI flags a seat as AI-substituted, typically after a disconnect.
func (g *Game) SetPlayerAI(seat int, ai bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, err := g.playerAt(seat)
	if err != nil {
		return err
	}
	p.AI = ai
	g.logger.Info("player AI substitution changed",
		zap.String("game_id", g.id),
		zap.Int("seat", seat),
		zap.Bool("ai", ai),
	)
	return nil
}

// AutoRespond unblocks a stalled challenge on behalf of the seat: selection
// challenges pick the first available card, everything else passes. It
// re-enters the same synchronous intent path remote callers use.
func (g *Game) AutoRespond(seat int) error {
	g.mu.Lock()
	ch := g.cur()
	if ch == nil || ch.currentResponder() != seat {
		g.mu.Unlock()
		return badGameState("seat %d has nothing to auto-respond to", seat)
	}
	selection := g.pockets.Selection()
	pickSelection := ch.spec.OpensSelection && len(selection) > 0
	var pickID string
	if pickSelection {
		pickID = selection[0].ID
	}
	g.mu.Unlock()

	if pickSelection {
		return g.PickFromSelection(seat, pickID)
	}
	return g.Pass(seat)
}

// --- internals; all run with g.mu held ---

func (g *Game) cur() *pendingChallenge {
	if len(g.challenges) == 0 {
		return nil
	}
	return g.challenges[len(g.challenges)-1]
}

func (g *Game) popChallenge() {
	if len(g.challenges) > 0 {
		g.challenges = g.challenges[:len(g.challenges)-1]
	}
}

func (g *Game) playerAt(seat int) (*Player, error) {
	if seat < 0 || seat >= len(g.players) {
		return nil, badPlayer("no player at seat %d", seat)
	}
	return g.players[seat], nil
}

func (g *Game) guardActive(seat int, want PlayState) error {
	if g.state != GameStatePlaying {
		return badGameState("game %s is %s", g.id, g.state)
	}
	if _, err := g.playerAt(seat); err != nil {
		return err
	}
	if seat != g.active {
		return badGameState("seat %d is not the active player", seat)
	}
	if g.playState != want {
		return badGameState("intent requires the %s phase, game is in %s", want, g.playState)
	}
	return nil
}

func (g *Game) characterName(seat int) string {
	if p := g.players[seat]; p.Character != nil {
		return p.Character.Name
	}
	return ""
}

func (g *Game) hasTableCard(seat int, name string) bool {
	for _, c := range g.pockets.Table(seat) {
		if c.Name == name {
			return true
		}
	}
	return false
}

// livingSeatsAfter enumerates living seats in seating order starting after
// the given seat and wrapping; includeSelf prepends the seat itself
// (general-store picking order).
func (g *Game) livingSeatsAfter(seat int, includeSelf bool) []int {
	var seats []int
	if includeSelf && g.players[seat].Alive {
		seats = append(seats, seat)
	}
	n := len(g.players)
	for i := 1; i < n; i++ {
		s := (seat + i) % n
		if g.players[s].Alive {
			seats = append(seats, s)
		}
	}
	return seats
}

func (g *Game) nextLivingSeat(after int) int {
	n := len(g.players)
	for i := 1; i <= n; i++ {
		s := (after + i) % n
		if g.players[s].Alive {
			return s
		}
	}
	return NoOwner
}

func (g *Game) advanceTurn() {
	next := g.nextLivingSeat(g.active)
	if next == NoOwner {
		return
	}
	g.active = next
	g.players[next].BangsPlayed = 0
	g.pendingPicks = 0
	g.playState = PlayStateDraw
}

// openChallenge performs the fixed deck checks for the enumerated
// responders, pushes the challenge and advances through any automatic
// answers.
func (g *Game) openChallenge(spec rules.ChallengeSpec, played *card.Card, originator int, responders []int) {
	ch := newChallenge(spec, played, originator, responders)

	if spec.AllowsDeckCheck && !spec.Alternates {
		for _, seat := range responders {
			flips := 0
			if rules.PolicyFor(g.characterName(seat)).ChecksDeck {
				flips = 2
			} else if g.hasTableCard(seat, "Barrel") {
				flips = 1
			}
			if flips == 0 {
				continue
			}
			var flipped []*card.Card
			for i := 0; i < flips; i++ {
				c, regenerated, err := g.pockets.DrawTopTo(GraveyardPocket)
				if err != nil {
					g.fatal(err)
					return
				}
				if regenerated {
					g.emitDeckRegenerate()
				}
				flipped = append(flipped, c)
			}
			ch.deckChecks[seat] = flipped
			g.emit(Message{
				Type:      MessagePlayerCheckDeck,
				Player:    seat,
				Target:    NoOwner,
				Cards:     cardViews(flipped),
				PrivateTo: NoOwner,
			})
		}
	}

	g.challenges = append(g.challenges, ch)
	g.playState = PlayStateResponse
	g.advanceChallenge()
}

// advanceChallenge walks the challenge stack: automatic dodges answer their
// slots, resolved challenges pop, and the phase returns to turn once the
// stack empties. Stops as soon as a responder has to answer.
func (g *Game) advanceChallenge() {
	for len(g.challenges) > 0 {
		if g.state != GameStatePlaying {
			g.challenges = nil
			return
		}
		ch := g.cur()
		if ch.resolved() {
			g.popChallenge()
			continue
		}
		r := ch.currentResponder()
		if r == NoOwner {
			g.popChallenge()
			continue
		}
		if !ch.spec.Alternates && ch.dodges(r) {
			// the fixed deck check answers for this seat
			g.emit(Message{
				Type:      MessagePlayerRespondWithCard,
				Player:    r,
				Target:    ch.originator,
				PrivateTo: NoOwner,
			})
			ch.recordAnswer(true)
			continue
		}
		return
	}

	if g.state != GameStatePlaying {
		return
	}
	if !g.players[g.active].Alive {
		g.advanceTurn()
		return
	}
	g.playState = PlayStateTurn
}

// loseLife applies a life loss and opens a last-save window when it is
// lethal and the player holds a last-save card; otherwise lethal damage
// commits death immediately.
func (g *Game) loseLife(seat, n int) {
	p := g.players[seat]
	p.Life -= n
	if p.Life > 0 {
		return
	}
	if g.holdsLastSave(seat) {
		spec, _ := rules.ChallengeFor(card.ReactionLastSave)
		g.challenges = append(g.challenges, newChallenge(spec, nil, seat, []int{seat}))
		return
	}
	g.commitDeath(seat)
}

func (g *Game) holdsLastSave(seat int) bool {
	for _, c := range g.pockets.Hand(seat) {
		if c.Reaction == card.ReactionLastSave {
			return true
		}
	}
	return false
}

// commitDeath marks the seat dead, reveals its role, moves its cards to the
// graveyard, removes it from any open challenge and re-evaluates the win
// conditions.
func (g *Game) commitDeath(seat int) {
	p := g.players[seat]
	if !p.Alive {
		return
	}
	p.Alive = false

	for _, c := range append([]*card.Card(nil), g.pockets.Hand(seat)...) {
		if err := g.pockets.MoveCard(c, HandPocket(seat), GraveyardPocket); err != nil {
			g.fatal(err)
			return
		}
	}
	for _, c := range append([]*card.Card(nil), g.pockets.Table(seat)...) {
		if err := g.pockets.MoveCard(c, TablePocket(seat), GraveyardPocket); err != nil {
			g.fatal(err)
			return
		}
	}

	g.emit(Message{
		Type:      MessagePlayerDied,
		Player:    seat,
		Target:    NoOwner,
		Role:      p.Role.String(),
		PrivateTo: NoOwner,
	})
	g.logger.Info("player died",
		zap.String("game_id", g.id),
		zap.Int("seat", seat),
		zap.String("role", p.Role.String()),
	)

	for _, ch := range g.challenges {
		ch.removeResponder(seat)
	}
	g.checkWin()
}

// checkWin evaluates the role-based termination conditions and finishes the
// game exactly once.
func (g *Game) checkWin() {
	if g.state != GameStatePlaying {
		return
	}
	seats := make([]rules.SeatStatus, len(g.players))
	for i, p := range g.players {
		seats[i] = rules.SeatStatus{Role: p.Role, Alive: p.Alive}
	}
	winners, finished := rules.EvaluateWin(seats)
	if !finished {
		return
	}
	g.finish(winners)
}

func (g *Game) finish(winners rules.Winners) {
	g.state = GameStateFinished
	g.winners = winners
	g.finishedAt = time.Now()
	g.challenges = nil
	g.emit(Message{
		Type:      MessageGameFinished,
		Player:    NoOwner,
		Target:    NoOwner,
		Winners:   string(winners),
		PrivateTo: NoOwner,
	})
	g.logger.Info("game finished",
		zap.String("game_id", g.id),
		zap.String("winners", string(winners)),
	)
	if g.onFinished != nil {
		go g.onFinished(g)
	}
}

// fatal handles a card accounting violation: the session aborts rather than
// continuing with inconsistent state.
func (g *Game) fatal(err error) error {
	g.logger.Error("fatal game invariant violation",
		zap.String("game_id", g.id),
		zap.Error(err),
	)
	if g.state == GameStatePlaying {
		g.finish(rules.WinnersNone)
	}
	return err
}

func (g *Game) emit(m Message) {
	g.stream.Append(m)
}

func (g *Game) emitDeckRegenerate() {
	g.emit(Message{Type: MessageDeckRegenerate, Player: NoOwner, Target: NoOwner, PrivateTo: NoOwner})
	g.logger.Debug("deck regenerated from graveyard", zap.String("game_id", g.id))
}
