package card

// setEntry describes one card name in the base set: how many copies the deck
// carries and which reaction kind the card opens (or satisfies).
type setEntry struct {
	name     string
	count    int
	reaction ReactionType
}

// baseSet is the playing-card composition of the base game. Asset metadata
// (art, locales) is loaded elsewhere; the engine only needs identity, count
// and reaction tags.
var baseSet = []setEntry{
	{"Bang!", 25, ReactionBang},
	{"Gatling", 2, ReactionGatling},
	{"Indians!", 2, ReactionIndians},
	{"Duel", 3, ReactionDuel},
	{"General Store", 3, ReactionGeneralStore},
	{"Beer", 6, ReactionLastSave},
	{"Stagecoach", 2, ReactionNone},
	{"Wells Fargo", 1, ReactionNone},
	{"Panic!", 4, ReactionNone},
	{"Cat Balou", 4, ReactionNone},
	{"Barrel", 2, ReactionNone},
	{"Mustang", 2, ReactionNone},
	{"Scope", 1, ReactionNone},
}

// baseCharacters is the character roster the lifecycle controller deals from.
// Per-character rule behavior lives in the rules package policy table keyed
// by these names.
var baseCharacters = []string{
	"Lucky Duke",
	"Kit Carlson",
	"Willy the Kid",
	"El Gringo",
	"Jesse Jones",
	"Rose Doolan",
	"Suzy Lafayette",
	"Vulture Sam",
}

var dealSuits = []Suit{SuitSpades, SuitHearts, SuitDiamonds, SuitClubs}

// StandardDeck builds a fresh, unshuffled deck of playing-card instances for
// one game. Suit and rank cycle deterministically over the set; shuffling is
// the pocket manager's job.
func StandardDeck() []*Card {
	var deck []*Card
	suitIdx, rank := 0, Rank(2)
	for _, entry := range baseSet {
		for i := 0; i < entry.count; i++ {
			deck = append(deck, NewPlayingCard(entry.name, dealSuits[suitIdx], rank, entry.reaction))
			suitIdx = (suitIdx + 1) % len(dealSuits)
			rank++
			if rank > RankAce {
				rank = 2
			}
		}
	}
	return deck
}

// CharacterRoster builds one character-card instance per roster name.
func CharacterRoster() []*Card {
	roster := make([]*Card, 0, len(baseCharacters))
	for _, name := range baseCharacters {
		roster = append(roster, NewCharacterCard(name))
	}
	return roster
}
