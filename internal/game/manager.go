package game

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Manager owns the lifecycle of every game on the server: creation, joining,
// lookup and teardown. Cross-game queries are read-only snapshots and never
// take a per-game lock for longer than one snapshot build.
type Manager struct {
	logger     *zap.Logger
	serverName string
	version    string
	opts       Options
	startTime  time.Time

	mu       sync.RWMutex
	games    map[string]*Game
	maxGames int

	onGameFinished func(*Game)
}

// GameListing is one row of the joinable-game list.
type GameListing struct {
	GameID     string
	Name       string
	State      string
	Players    int
	MaxPlayers int
}

// ServerInfo is the read-only server summary.
type ServerInfo struct {
	Name          string
	Version       string
	Uptime        time.Duration
	GamesTotal    int
	GamesWaiting  int
	GamesPlaying  int
	PlayersSeated int
}

// NewManager creates a new game manager.
func NewManager(serverName, version string, opts Options, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		logger:     logger,
		serverName: serverName,
		version:    version,
		opts:       opts,
		startTime:  time.Now(),
		games:      make(map[string]*Game),
	}
}

// SetMaxGames caps how many games may be registered at once; zero leaves the
// server uncapped. Removing a finished game frees its slot.
func (m *Manager) SetMaxGames(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxGames = n
}

// SetOnGameFinished registers a hook invoked once per finished game, outside
// any game lock. Used to archive results.
func (m *Manager) SetOnGameFinished(fn func(*Game)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onGameFinished = fn
}

// CreateGame registers a new game with the creator seated as host. It fails
// with BadGameStateError once the server-wide game cap is reached.
func (m *Manager) CreateGame(name, creator string) (*Game, error) {
	m.mu.Lock()
	if m.maxGames > 0 && len(m.games) >= m.maxGames {
		m.mu.Unlock()
		return nil, badGameState("server already hosts %d games", m.maxGames)
	}
	g := NewGame(name, creator, m.opts, m.logger)
	g.SetOnFinished(m.gameFinished)
	m.games[g.ID()] = g
	m.mu.Unlock()

	m.logger.Info("game created",
		zap.String("game_id", g.ID()),
		zap.String("name", name),
		zap.String("creator", creator),
	)
	return g, nil
}

// GetGame looks a game up by id.
func (m *Manager) GetGame(gameID string) (*Game, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[gameID]
	return g, ok
}

// JoinGame seats a player in an existing game. Unknown ids fail with
// BadGameError, started games with BadGameStateError.
func (m *Manager) JoinGame(gameID, name string) (*Game, int, error) {
	g, ok := m.GetGame(gameID)
	if !ok {
		return nil, NoOwner, &BadGameError{GameID: gameID}
	}
	seat, err := g.Join(name)
	if err != nil {
		return nil, NoOwner, err
	}
	return g, seat, nil
}

// RemoveGame drops a game from the registry.
func (m *Manager) RemoveGame(gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, gameID)
}

// ListGames returns a snapshot of all games.
func (m *Manager) ListGames() []GameListing {
	m.mu.RLock()
	games := make([]*Game, 0, len(m.games))
	for _, g := range m.games {
		games = append(games, g)
	}
	m.mu.RUnlock()

	listings := make([]GameListing, 0, len(games))
	for _, g := range games {
		listings = append(listings, GameListing{
			GameID:     g.ID(),
			Name:       g.Name(),
			State:      g.State().String(),
			Players:    g.PlayerCount(),
			MaxPlayers: m.opts.MaxPlayers,
		})
	}
	return listings
}

// Info returns the read-only server summary.
func (m *Manager) Info() ServerInfo {
	listings := m.ListGames()
	info := ServerInfo{
		Name:       m.serverName,
		Version:    m.version,
		Uptime:     time.Since(m.startTime),
		GamesTotal: len(listings),
	}
	for _, l := range listings {
		info.PlayersSeated += l.Players
		switch l.State {
		case GameStateWaitingForPlayers.String():
			info.GamesWaiting++
		case GameStatePlaying.String():
			info.GamesPlaying++
		}
	}
	return info
}

func (m *Manager) gameFinished(g *Game) {
	m.mu.RLock()
	hook := m.onGameFinished
	m.mu.RUnlock()
	if hook != nil {
		hook(g)
	}
}
