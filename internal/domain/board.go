package domain

import "fmt"

// Player marks a board cell. The numeric values are load-bearing: a
// row/column/diagonal sums to +3 or -3 exactly when it is a win, and
// dividing that sum by 3 yields the winner.
type Player int8

const (
    PlayerOne Player = 1
    PlayerTwo Player = -1
    Unplayed  Player = 0
)

// Other returns the opposing player. Calling it on Unplayed is a
// programmer error.
func (p Player) Other() Player {
    if p == Unplayed {
        panic("domain: Unplayed has no opponent")
    }
    return -p
}

const maxLineSum = 3

// Move is a 0-indexed board coordinate.
type Move struct {
    Row int
    Col int
}

// Result is the absolute outcome of a game.
type Result int8

const (
    PlayerOneWin Result = 1
    PlayerTwoWin Result = -1
    Tie          Result = 0
    NoWinYet     Result = 2
)

// Board is a 3x3 tic-tac-toe board with a move stack for undo.
// The zero value is not ready to use; call New.
type Board struct {
    grid  [3][3]Player
    turn  Player
    moves []Move
}

// New returns an empty board with PlayerOne to move.
func New() *Board {
    return &Board{turn: PlayerOne, moves: make([]Move, 0, 9)}
}

// Turn returns the player to move.
func (b *Board) Turn() Player { return b.turn }

// Cell returns the mark at row r, column c (0..2).
func (b *Board) Cell(r, c int) Player {
    checkBounds(r, c)
    return b.grid[r][c]
}

// MoveCount returns the number of moves applied and not undone.
func (b *Board) MoveCount() int { return len(b.moves) }

// ApplyMove places the current player's mark at row r, column c and
// flips the turn. It returns false, leaving the board unchanged, if
// the cell is already occupied. Out-of-range coordinates panic.
func (b *Board) ApplyMove(r, c int) bool {
    checkBounds(r, c)
    if b.grid[r][c] != Unplayed {
        return false
    }
    b.grid[r][c] = b.turn
    b.moves = append(b.moves, Move{Row: r, Col: c})
    b.turn = b.turn.Other()
    return true
}

// UndoMove reverts the most recent move and returns its coordinate.
// It reports false when there is nothing to undo, and may be called
// repeatedly down to the empty board.
func (b *Board) UndoMove() (Move, bool) {
    if len(b.moves) == 0 {
        return Move{}, false
    }
    m := b.moves[len(b.moves)-1]
    b.moves = b.moves[:len(b.moves)-1]
    b.grid[m.Row][m.Col] = Unplayed
    b.turn = b.turn.Other()
    return m, true
}

// Reset clears the board to its initial state.
func (b *Board) Reset() {
    b.grid = [3][3]Player{}
    b.turn = PlayerOne
    b.moves = b.moves[:0]
}

// CheckResult reports whether the game is over and who won. Rows and
// columns are scanned before the diagonals, in index order; the same
// scan order is used by WinningLine.
func (b *Board) CheckResult() (bool, Result) {
    for i := 0; i < 3; i++ {
        col := int(b.grid[0][i]) + int(b.grid[1][i]) + int(b.grid[2][i])
        row := int(b.grid[i][0]) + int(b.grid[i][1]) + int(b.grid[i][2])
        if abs(col) == maxLineSum {
            return true, Result(col / maxLineSum)
        }
        if abs(row) == maxLineSum {
            return true, Result(row / maxLineSum)
        }
    }
    topToBottom := int(b.grid[0][0]) + int(b.grid[1][1]) + int(b.grid[2][2])
    bottomToTop := int(b.grid[2][0]) + int(b.grid[1][1]) + int(b.grid[0][2])
    if abs(topToBottom) == maxLineSum {
        return true, Result(topToBottom / maxLineSum)
    }
    if abs(bottomToTop) == maxLineSum {
        return true, Result(bottomToTop / maxLineSum)
    }
    if len(b.moves) == 9 {
        return true, Tie
    }
    return false, NoWinYet
}

// WinningLine returns the three coordinates of the winning line, in
// the scan order of CheckResult, or nil if the game is not won.
func (b *Board) WinningLine() []Move {
    for i := 0; i < 3; i++ {
        col := int(b.grid[0][i]) + int(b.grid[1][i]) + int(b.grid[2][i])
        row := int(b.grid[i][0]) + int(b.grid[i][1]) + int(b.grid[i][2])
        if abs(col) == maxLineSum {
            return []Move{{0, i}, {1, i}, {2, i}}
        }
        if abs(row) == maxLineSum {
            return []Move{{i, 0}, {i, 1}, {i, 2}}
        }
    }
    topToBottom := int(b.grid[0][0]) + int(b.grid[1][1]) + int(b.grid[2][2])
    bottomToTop := int(b.grid[2][0]) + int(b.grid[1][1]) + int(b.grid[0][2])
    if abs(topToBottom) == maxLineSum {
        return []Move{{0, 0}, {1, 1}, {2, 2}}
    }
    if abs(bottomToTop) == maxLineSum {
        return []Move{{2, 0}, {1, 1}, {0, 2}}
    }
    return nil
}

// LegalMoves returns the empty cells in row-major order.
func (b *Board) LegalMoves() []Move {
    moves := make([]Move, 0, 9-len(b.moves))
    for r := 0; r < 3; r++ {
        for c := 0; c < 3; c++ {
            if b.grid[r][c] == Unplayed {
                moves = append(moves, Move{Row: r, Col: c})
            }
        }
    }
    return moves
}

func checkBounds(r, c int) {
    if r < 0 || r > 2 || c < 0 || c > 2 {
        panic(fmt.Sprintf("domain: coordinate (%d,%d) out of range", r, c))
    }
}

func abs(n int) int {
    if n < 0 {
        return -n
    }
    return n
}
