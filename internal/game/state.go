package game

// GameState is the lifecycle state of one game. Playing to Finished is
// terminal; no intent is accepted afterwards.
type GameState int

const (
	GameStateInvalid GameState = iota
	GameStateWaitingForPlayers
	GameStatePlaying
	GameStateFinished
)

var gameStateNames = map[GameState]string{
	GameStateWaitingForPlayers: "WaitingForPlayers",
	GameStatePlaying:           "Playing",
	GameStateFinished:          "Finished",
}

func (s GameState) String() string {
	if name, ok := gameStateNames[s]; ok {
		return name
	}
	return "Invalid"
}

// PlayState is the active player's sub-phase within their turn.
type PlayState int

const (
	PlayStateInvalid PlayState = iota
	PlayStateDraw
	PlayStateTurn
	PlayStateResponse
	PlayStateDiscard
)

var playStateNames = map[PlayState]string{
	PlayStateDraw:     "draw",
	PlayStateTurn:     "turn",
	PlayStateResponse: "response",
	PlayStateDiscard:  "discard",
}

func (s PlayState) String() string {
	if name, ok := playStateNames[s]; ok {
		return name
	}
	return "invalid"
}
