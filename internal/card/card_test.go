package card

import "testing"

func TestSuitRoundTrip(t *testing.T) {
	for _, s := range []Suit{SuitSpades, SuitHearts, SuitDiamonds, SuitClubs} {
		if got := ParseSuit(s.String()); got != s {
			t.Fatalf("expected %v to round-trip, got %v", s, got)
		}
	}
	if got := ParseSuit("cups"); got != SuitInvalid {
		t.Fatalf("expected invalid suit, got %v", got)
	}
}

func TestRankStrings(t *testing.T) {
	cases := []struct {
		rank Rank
		want string
	}{
		{2, "2"},
		{10, "10"},
		{RankJack, "J"},
		{RankQueen, "Q"},
		{RankKing, "K"},
		{RankAce, "A"},
	}
	for _, tc := range cases {
		if got := tc.rank.String(); got != tc.want {
			t.Fatalf("rank %d: expected %q, got %q", tc.rank, tc.want, got)
		}
		if got := ParseRank(tc.want); got != tc.rank {
			t.Fatalf("ParseRank(%q): expected %d, got %d", tc.want, tc.rank, got)
		}
	}
	if got := ParseRank("1"); got != 0 {
		t.Fatalf("expected rank 1 to be rejected, got %d", got)
	}
	if got := ParseRank("15"); got != 0 {
		t.Fatalf("expected rank 15 to be rejected, got %d", got)
	}
}

func TestReactionTypeRoundTrip(t *testing.T) {
	kinds := []ReactionType{
		ReactionBang, ReactionGatling, ReactionIndians, ReactionDuel,
		ReactionGeneralStore, ReactionLastSave, ReactionLuckyDuke, ReactionKitCarlson,
	}
	for _, k := range kinds {
		if got := ParseReactionType(k.String()); got != k {
			t.Fatalf("expected %v to round-trip, got %v", k, got)
		}
	}
	if got := ParseReactionType("dynamite"); got != ReactionNone {
		t.Fatalf("expected unknown reaction to map to none, got %v", got)
	}
}

func TestParsePlayerRole(t *testing.T) {
	for _, r := range []PlayerRole{RoleUnknown, RoleOutlaw, RoleDeputy, RoleSheriff, RoleRenegade} {
		if got := ParsePlayerRole(r.String()); got != r {
			t.Fatalf("expected %v to round-trip, got %v", r, got)
		}
	}
	if got := ParsePlayerRole("bandit"); got != RoleInvalid {
		t.Fatalf("expected invalid role, got %v", got)
	}
}

func TestRolesForPlayerCount(t *testing.T) {
	for n := 4; n <= 7; n++ {
		roles := RolesForPlayerCount(n)
		if len(roles) != n {
			t.Fatalf("%d players: expected %d roles, got %d", n, n, len(roles))
		}
		counts := make(map[PlayerRole]int)
		for _, r := range roles {
			counts[r]++
		}
		if counts[RoleSheriff] != 1 {
			t.Fatalf("%d players: expected exactly one sheriff, got %d", n, counts[RoleSheriff])
		}
		if counts[RoleRenegade] != 1 {
			t.Fatalf("%d players: expected exactly one renegade, got %d", n, counts[RoleRenegade])
		}
		if counts[RoleOutlaw] < 2 {
			t.Fatalf("%d players: expected at least two outlaws, got %d", n, counts[RoleOutlaw])
		}
	}
	if roles := RolesForPlayerCount(3); roles != nil {
		t.Fatalf("expected nil roles for 3 players, got %v", roles)
	}
	if roles := RolesForPlayerCount(8); roles != nil {
		t.Fatalf("expected nil roles for 8 players, got %v", roles)
	}
}

func TestStandardDeckComposition(t *testing.T) {
	deck := StandardDeck()

	counts := make(map[string]int)
	ids := make(map[string]bool)
	for _, c := range deck {
		counts[c.Name]++
		if ids[c.ID] {
			t.Fatalf("duplicate card instance id %s", c.ID)
		}
		ids[c.ID] = true
		if c.Type != TypePlaying {
			t.Fatalf("deck card %s has type %v", c.Name, c.Type)
		}
		if c.Suit == SuitInvalid || c.Rank.String() == "" {
			t.Fatalf("deck card %s missing suit or rank", c.Name)
		}
	}

	want := map[string]int{
		"Bang!":         25,
		"Gatling":       2,
		"Indians!":      2,
		"Duel":          3,
		"General Store": 3,
		"Beer":          6,
		"Stagecoach":    2,
		"Wells Fargo":   1,
		"Panic!":        4,
		"Cat Balou":     4,
		"Barrel":        2,
		"Mustang":       2,
		"Scope":         1,
	}
	for name, n := range want {
		if counts[name] != n {
			t.Fatalf("expected %d copies of %s, got %d", n, name, counts[name])
		}
	}
	total := 0
	for _, n := range want {
		total += n
	}
	if len(deck) != total {
		t.Fatalf("expected %d cards total, got %d", total, len(deck))
	}
}

func TestDeckReactionTags(t *testing.T) {
	for _, c := range StandardDeck() {
		switch c.Name {
		case "Bang!":
			if c.Reaction != ReactionBang {
				t.Fatalf("Bang! tagged %v", c.Reaction)
			}
		case "Beer":
			if c.Reaction != ReactionLastSave {
				t.Fatalf("Beer tagged %v", c.Reaction)
			}
		case "Barrel", "Panic!", "Cat Balou", "Stagecoach":
			if c.Reaction != ReactionNone {
				t.Fatalf("%s tagged %v", c.Name, c.Reaction)
			}
		}
	}
}

func TestCharacterRoster(t *testing.T) {
	roster := CharacterRoster()
	if len(roster) < 4 {
		t.Fatalf("roster too small: %d", len(roster))
	}
	seen := make(map[string]bool)
	for _, c := range roster {
		if c.Type != TypeCharacter {
			t.Fatalf("roster card %s has type %v", c.Name, c.Type)
		}
		if seen[c.Name] {
			t.Fatalf("duplicate character %s", c.Name)
		}
		seen[c.Name] = true
	}
}
