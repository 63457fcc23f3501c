package app

import (
    "context"
    "errors"
    "math/rand"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/jaminalder/tictactoe-negamax/internal/ai"
    "github.com/jaminalder/tictactoe-negamax/internal/domain"
)

// Errors exposed by the service layer.
var (
    ErrNotFound    = errors.New("game not found")
    ErrNotYourTurn = errors.New("not your turn")
    ErrNotAPlayer  = errors.New("not a player")
    ErrOccupied    = errors.New("cell occupied")
    ErrOutOfBounds = errors.New("out of bounds")
    ErrGameOver    = errors.New("game over")
)

// Mode selects who owns the seats of a game.
type Mode int

const (
    // TwoPlayer seats two humans.
    TwoPlayer Mode = iota
    // OnePlayer seats one human against the computer.
    OnePlayer
)

// ComputerID occupies the computer's seat in one-player games.
const ComputerID = "computer"

// GameState is a point-in-time snapshot of a game, safe to hand out
// across the service boundary.
type GameState struct {
    ID        string
    Mode      Mode
    HumanSide domain.Player
    PlayerOne string
    PlayerTwo string
    Board     [3][3]domain.Player
    Turn      domain.Player
    Over      bool
    Result    domain.Result
    Line      []domain.Move
    Created   time.Time
    Updated   time.Time
}

// game is the live, mutable record behind a GameState snapshot.
type game struct {
    id        string
    mode      Mode
    humanSide domain.Player
    playerOne string
    playerTwo string
    board     *domain.Board
    created   time.Time
    updated   time.Time
}

type subscriber struct {
    ch        chan []byte
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games, seats, subscribers, and the computer
// opponent.
type Service struct {
    mu     sync.Mutex
    games  map[string]*game
    subs   map[string]map[*subscriber]struct{}
    render func(GameState) []byte
    search *ai.Searcher
    rng    *rand.Rand
    delay  DelayPolicy
}

// NewService creates a service with a default renderer (encodes nothing useful).
func NewService() *Service { return NewServiceWithRenderer(func(gs GameState) []byte { return nil }) }

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(renderer func(GameState) []byte) *Service {
    if renderer == nil {
        renderer = func(gs GameState) []byte { return nil }
    }
    return &Service{
        games:  make(map[string]*game),
        subs:   make(map[string]map[*subscriber]struct{}),
        render: renderer,
        search: ai.NewSearcher(),
        rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
    }
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if renderer == nil {
        s.render = func(gs GameState) []byte { return nil }
        return
    }
    s.render = renderer
}

// SetDelayPolicy changes the computer reply pacing.
func (s *Service) SetDelayPolicy(p DelayPolicy) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.delay = p
}

// CreateGame creates and registers a new game. humanSide is ignored
// in two-player mode; in one-player mode it names the human's seat,
// and if the human sits as PlayerTwo the computer opens the game.
func (s *Service) CreateGame(mode Mode, humanSide domain.Player) (*GameState, error) {
    s.mu.Lock()
    id := uuid.NewString()
    now := time.Now()
    g := &game{
        id:      id,
        mode:    mode,
        board:   domain.New(),
        created: now,
        updated: now,
    }
    if mode == OnePlayer {
        if humanSide != domain.PlayerTwo {
            humanSide = domain.PlayerOne
        }
        g.humanSide = humanSide
        if humanSide == domain.PlayerOne {
            g.playerTwo = ComputerID
        } else {
            g.playerOne = ComputerID
        }
    }
    s.games[id] = g
    gs := snapshot(g)
    opener := mode == OnePlayer && g.humanSide == domain.PlayerTwo
    s.mu.Unlock()
    if opener {
        s.scheduleComputer(id)
    }
    return &gs, nil
}

// Get returns a snapshot of the game if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    g, ok := s.games[id]
    if !ok {
        return nil, false
    }
    gs := snapshot(g)
    return &gs, true
}

// Join assigns a free seat to the player; returns Unplayed for
// spectators. The computer's seat is never assignable.
func (s *Service) Join(id, playerID string) (domain.Player, *GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    g, ok := s.games[id]
    if !ok {
        return domain.Unplayed, nil, ErrNotFound
    }
    side := domain.Unplayed
    if g.playerOne != ComputerID && (g.playerOne == "" || g.playerOne == playerID) {
        g.playerOne = playerID
        side = domain.PlayerOne
    } else if g.playerTwo != ComputerID && (g.playerTwo == "" || g.playerTwo == playerID) {
        g.playerTwo = playerID
        side = domain.PlayerTwo
    }
    g.updated = time.Now()
    gs := snapshot(g)
    return side, &gs, nil
}

// Play validates seat and turn, applies a move, and broadcasts. In
// one-player mode a successful human move schedules the computer's
// reply.
func (s *Service) Play(id, playerID string, r, c int) (*GameState, error) {
    if r < 0 || r > 2 || c < 0 || c > 2 {
        return nil, ErrOutOfBounds
    }
    s.mu.Lock()
    g, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    seat := seatOf(g, playerID)
    if seat == domain.Unplayed {
        s.mu.Unlock()
        return nil, ErrNotAPlayer
    }
    if over, _ := g.board.CheckResult(); over {
        s.mu.Unlock()
        return nil, ErrGameOver
    }
    if seat != g.board.Turn() {
        s.mu.Unlock()
        return nil, ErrNotYourTurn
    }
    if !g.board.ApplyMove(r, c) {
        s.mu.Unlock()
        return nil, ErrOccupied
    }
    g.updated = time.Now()
    gs := snapshot(g)
    reply := g.mode == OnePlayer && !gs.Over && gs.Turn != g.humanSide
    s.mu.Unlock()

    s.broadcast(id, gs)
    if reply {
        s.scheduleComputer(id)
    }
    return &gs, nil
}

// Undo reverts the latest move, or the latest two in one-player mode
// so the human ends up back on turn. A finished game cannot be
// reopened. Reverting nothing is not an error; the current state is
// returned either way.
func (s *Service) Undo(id, playerID string) (*GameState, error) {
    s.mu.Lock()
    g, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    if seatOf(g, playerID) == domain.Unplayed {
        s.mu.Unlock()
        return nil, ErrNotAPlayer
    }
    if over, _ := g.board.CheckResult(); over {
        s.mu.Unlock()
        return nil, ErrGameOver
    }
    undone := false
    if _, ok := g.board.UndoMove(); ok {
        undone = true
        if g.mode == OnePlayer && g.board.Turn() != g.humanSide {
            g.board.UndoMove()
        }
    }
    if undone {
        g.updated = time.Now()
    }
    gs := snapshot(g)
    s.mu.Unlock()
    if undone {
        s.broadcast(id, gs)
    }
    return &gs, nil
}

// Restart resets the board, keeping mode and seats. In one-player
// mode with the human seated as PlayerTwo the computer opens again.
func (s *Service) Restart(id, playerID string) (*GameState, error) {
    s.mu.Lock()
    g, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    if seatOf(g, playerID) == domain.Unplayed {
        s.mu.Unlock()
        return nil, ErrNotAPlayer
    }
    g.board.Reset()
    g.updated = time.Now()
    gs := snapshot(g)
    opener := g.mode == OnePlayer && g.humanSide == domain.PlayerTwo
    s.mu.Unlock()

    s.broadcast(id, gs)
    if opener {
        s.scheduleComputer(id)
    }
    return &gs, nil
}

// scheduleComputer arms a timer for the computer's reply per the
// delay policy. The reply re-validates the game under the lock, so a
// restart or undo racing the timer is harmless.
func (s *Service) scheduleComputer(id string) {
    s.mu.Lock()
    d := s.delay.duration(s.rng)
    s.mu.Unlock()
    time.AfterFunc(d, func() { s.computerMove(id) })
}

func (s *Service) computerMove(id string) {
    s.mu.Lock()
    g, ok := s.games[id]
    if !ok || g.mode != OnePlayer {
        s.mu.Unlock()
        return
    }
    if over, _ := g.board.CheckResult(); over || g.board.Turn() == g.humanSide {
        s.mu.Unlock()
        return
    }
    m, ok := s.search.NextMove(g.board, g.board.Turn())
    if !ok {
        s.mu.Unlock()
        return
    }
    g.board.ApplyMove(m.Row, m.Col)
    g.updated = time.Now()
    gs := snapshot(g)
    s.mu.Unlock()

    s.broadcast(id, gs)
}

// broadcast fans a rendered snapshot out to the game's subscribers.
func (s *Service) broadcast(id string, gs GameState) {
    s.mu.Lock()
    subs := s.copySubsLocked(id)
    payload := s.render(gs)
    s.mu.Unlock()

    var toDrop []*subscriber
    for sub := range subs {
        select {
        case sub.ch <- payload:
        default:
            // drop slow subscriber
            sub.close()
            toDrop = append(toDrop, sub)
        }
    }
    if len(toDrop) > 0 {
        s.mu.Lock()
        for _, sub := range toDrop {
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
        }
        s.mu.Unlock()
    }
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.games[id]; !ok {
        // create lazily to allow subscriptions before CreateGame in some flows
        now := time.Now()
        s.games[id] = &game{id: id, board: domain.New(), created: now, updated: now}
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan []byte, 1)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            s.mu.Unlock()
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
    out := make(map[*subscriber]struct{})
    if set, ok := s.subs[id]; ok {
        for k := range set {
            out[k] = struct{}{}
        }
    }
    return out
}

func seatOf(g *game, playerID string) domain.Player {
    switch playerID {
    case "":
        return domain.Unplayed
    case g.playerOne:
        return domain.PlayerOne
    case g.playerTwo:
        return domain.PlayerTwo
    }
    return domain.Unplayed
}

func snapshot(g *game) GameState {
    gs := GameState{
        ID:        g.id,
        Mode:      g.mode,
        HumanSide: g.humanSide,
        PlayerOne: g.playerOne,
        PlayerTwo: g.playerTwo,
        Turn:      g.board.Turn(),
        Created:   g.created,
        Updated:   g.updated,
    }
    for r := 0; r < 3; r++ {
        for c := 0; c < 3; c++ {
            gs.Board[r][c] = g.board.Cell(r, c)
        }
    }
    gs.Over, gs.Result = g.board.CheckResult()
    if gs.Over && gs.Result != domain.Tie {
        gs.Line = g.board.WinningLine()
    }
    return gs
}
