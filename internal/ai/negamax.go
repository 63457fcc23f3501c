package ai

import (
    "math/rand"
    "time"

    "github.com/jaminalder/tictactoe-negamax/internal/domain"
)

// Value is a game-tree value relative to the player to move. It is a
// separate scale from domain.Result on purpose: Result names an
// absolute winner, Value names an outcome from one side's
// perspective, and conflating the two invites sign bugs.
type Value int8

const (
    Win  Value = 1
    Tie  Value = 0
    Loss Value = -1
    // worst is strictly below Loss and is only ever a starting bound;
    // it must never reach a Neg call.
    worst Value = -100
)

// Neg flips the value to the opponent's perspective.
func (v Value) Neg() Value {
    if v == worst {
        panic("ai: negating the sentinel bound")
    }
    return -v
}

// Searcher picks optimal moves via negamax with alpha-beta pruning.
// Equally good moves are broken uniformly at random using rng, so a
// fixed source makes move selection reproducible.
type Searcher struct {
    rng *rand.Rand
}

// NewSearcher returns a Searcher seeded from the current time.
func NewSearcher() *Searcher {
    return NewSearcherFromSource(rand.NewSource(time.Now().UnixNano()))
}

// NewSearcherFromSource returns a Searcher drawing tie-break
// randomness from src.
func NewSearcherFromSource(src rand.Source) *Searcher {
    return &Searcher{rng: rand.New(src)}
}

// NextMove returns an optimal move for player on b, or false if the
// board has no legal moves. The search mutates b while exploring but
// always restores it before returning, so the caller's board is
// unchanged. Callers serialize access to a board; NextMove holds it
// exclusively for the duration of one call.
func (s *Searcher) NextMove(b *domain.Board, player domain.Player) (domain.Move, bool) {
    best := worst
    var bestMoves []domain.Move
    for _, m := range b.LegalMoves() {
        b.ApplyMove(m.Row, m.Col)
        v := negamax(b, player.Other(), Loss, Win).Neg()
        b.UndoMove()
        if v > best {
            best = v
            bestMoves = bestMoves[:0]
        }
        if v == best {
            bestMoves = append(bestMoves, m)
        }
    }
    if len(bestMoves) == 0 {
        return domain.Move{}, false
    }
    if best == Win {
        bestMoves = immediateWins(b, bestMoves)
    }
    return bestMoves[s.rng.Intn(len(bestMoves))], true
}

// immediateWins narrows moves to those that end the game on the spot,
// when any do. The value scale carries no depth term, so a win-in-one
// and a longer forced win score the same; a winning move must leave
// the board reporting the win.
func immediateWins(b *domain.Board, moves []domain.Move) []domain.Move {
    var now []domain.Move
    for _, m := range moves {
        b.ApplyMove(m.Row, m.Col)
        if over, _ := b.CheckResult(); over {
            now = append(now, m)
        }
        b.UndoMove()
    }
    if len(now) == 0 {
        return moves
    }
    return now
}

// negamax evaluates b from the perspective of player, who is about to
// move. alpha and beta bound the values still worth distinguishing;
// once alpha reaches beta the remaining siblings cannot matter.
func negamax(b *domain.Board, player domain.Player, alpha, beta Value) Value {
    if over, result := b.CheckResult(); over {
        return terminalValue(result, player)
    }
    best := worst
    for _, m := range b.LegalMoves() {
        b.ApplyMove(m.Row, m.Col)
        v := negamax(b, player.Other(), beta.Neg(), alpha.Neg()).Neg()
        b.UndoMove()
        if v > best {
            best = v
        }
        if v > alpha {
            alpha = v
        }
        if alpha >= beta {
            break
        }
    }
    return best
}

// terminalValue maps an absolute result onto the relative scale for
// the player whose turn it would be. A result of 0 is a tie; the
// product of the result and player values is +1 when they name the
// same side.
func terminalValue(result domain.Result, player domain.Player) Value {
    return Value(int8(result) * int8(player))
}
