package card

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Suit represents the suit of a playing card.
type Suit int

const (
	SuitInvalid Suit = iota
	SuitSpades
	SuitHearts
	SuitDiamonds
	SuitClubs
)

var suitNames = map[Suit]string{
	SuitSpades:   "spades",
	SuitHearts:   "hearts",
	SuitDiamonds: "diamonds",
	SuitClubs:    "clubs",
}

func (s Suit) String() string {
	if name, ok := suitNames[s]; ok {
		return name
	}
	return ""
}

// ParseSuit converts a suit name into a Suit value.
func ParseSuit(s string) Suit {
	switch strings.ToLower(s) {
	case "spades":
		return SuitSpades
	case "hearts":
		return SuitHearts
	case "diamonds":
		return SuitDiamonds
	case "clubs":
		return SuitClubs
	}
	return SuitInvalid
}

// Rank represents the rank of a playing card. Values 2-10 are numeric,
// 11=J, 12=Q, 13=K, 14=A.
type Rank int

const (
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
	RankAce   Rank = 14
)

func (r Rank) String() string {
	switch {
	case r >= 2 && r <= 10:
		return strconv.Itoa(int(r))
	case r == RankJack:
		return "J"
	case r == RankQueen:
		return "Q"
	case r == RankKing:
		return "K"
	case r == RankAce:
		return "A"
	}
	return ""
}

// ParseRank converts a rank string ("2".."10", "J", "Q", "K", "A") into a Rank.
// Returns 0 for unrecognized input.
func ParseRank(s string) Rank {
	switch strings.ToUpper(s) {
	case "A":
		return RankAce
	case "K":
		return RankKing
	case "Q":
		return RankQueen
	case "J":
		return RankJack
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 2 || n > 10 {
		return 0
	}
	return Rank(n)
}

// Type categorizes a card definition.
type Type int

const (
	TypeUnknown Type = iota
	TypePlaying
	TypeCharacter
	TypeRole
)

var typeNames = map[Type]string{
	TypePlaying:   "playing",
	TypeCharacter: "character",
	TypeRole:      "role",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return ""
}

// ParseType converts a card type name into a Type value.
func ParseType(s string) Type {
	switch strings.ToLower(s) {
	case "playing":
		return TypePlaying
	case "character":
		return TypeCharacter
	case "role":
		return TypeRole
	}
	return TypeUnknown
}

// ReactionType tags a playing card with the kind of challenge or response it
// represents. Cards with ReactionNone resolve immediately when played.
type ReactionType int

const (
	ReactionNone ReactionType = iota
	ReactionBang
	ReactionGatling
	ReactionIndians
	ReactionDuel
	ReactionGeneralStore
	ReactionLastSave
	ReactionLuckyDuke
	ReactionKitCarlson
)

var reactionNames = map[ReactionType]string{
	ReactionBang:         "bang",
	ReactionGatling:      "gatling",
	ReactionIndians:      "indians",
	ReactionDuel:         "duel",
	ReactionGeneralStore: "general-store",
	ReactionLastSave:     "last-save",
	ReactionLuckyDuke:    "lucky-duke",
	ReactionKitCarlson:   "kit-carlson",
}

func (r ReactionType) String() string {
	if name, ok := reactionNames[r]; ok {
		return name
	}
	return ""
}

// ParseReactionType converts a reaction name into a ReactionType value.
func ParseReactionType(s string) ReactionType {
	switch strings.ToLower(s) {
	case "bang":
		return ReactionBang
	case "gatling":
		return ReactionGatling
	case "indians":
		return ReactionIndians
	case "duel":
		return ReactionDuel
	case "general-store":
		return ReactionGeneralStore
	case "last-save":
		return ReactionLastSave
	case "lucky-duke":
		return ReactionLuckyDuke
	case "kit-carlson":
		return ReactionKitCarlson
	}
	return ReactionNone
}

// Card is an immutable card definition plus its per-game instance identity.
// Only a card's pocket membership ever changes, and that lives in the pocket
// manager, never on the card itself.
type Card struct {
	ID       string
	Name     string
	Type     Type
	Suit     Suit
	Rank     Rank
	Reaction ReactionType
}

// NewPlayingCard creates a playing-card instance with a fresh instance ID.
func NewPlayingCard(name string, suit Suit, rank Rank, reaction ReactionType) *Card {
	return &Card{
		ID:       uuid.New().String(),
		Name:     name,
		Type:     TypePlaying,
		Suit:     suit,
		Rank:     rank,
		Reaction: reaction,
	}
}

// NewCharacterCard creates a character-card instance.
func NewCharacterCard(name string) *Card {
	return &Card{
		ID:   uuid.New().String(),
		Name: name,
		Type: TypeCharacter,
	}
}

func (c *Card) String() string {
	if c == nil {
		return "<nil card>"
	}
	if c.Type == TypePlaying {
		return fmt.Sprintf("%s (%s %s)", c.Name, c.Rank, c.Suit)
	}
	return c.Name
}
