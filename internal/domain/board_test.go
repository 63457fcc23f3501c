package domain

import (
    "testing"
)

// helper to apply a sequence of moves
func playMoves(t *testing.T, b *Board, moves [][2]int) {
    t.Helper()
    for i, m := range moves {
        if !b.ApplyMove(m[0], m[1]) {
            t.Fatalf("move %d (%v) rejected", i, m)
        }
    }
}

func TestNewBoardInitialState(t *testing.T) {
    b := New()
    if b.Turn() != PlayerOne {
        t.Fatalf("expected PlayerOne to move first, got %v", b.Turn())
    }
    if b.MoveCount() != 0 {
        t.Fatalf("expected 0 moves, got %d", b.MoveCount())
    }
    for r := 0; r < 3; r++ {
        for c := 0; c < 3; c++ {
            if b.Cell(r, c) != Unplayed {
                t.Fatalf("expected empty board, cell (%d,%d) = %v", r, c, b.Cell(r, c))
            }
        }
    }
    if over, res := b.CheckResult(); over || res != NoWinYet {
        t.Fatalf("empty board should not be terminal; over=%v result=%v", over, res)
    }
}

func TestApplyMoveOutOfBoundsPanics(t *testing.T) {
    cases := [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {5, 5}}
    for _, m := range cases {
        func() {
            defer func() {
                if recover() == nil {
                    t.Fatalf("expected panic for %v", m)
                }
            }()
            New().ApplyMove(m[0], m[1])
        }()
    }
}

func TestApplyMoveOccupiedLeavesBoardUnchanged(t *testing.T) {
    b := New()
    if !b.ApplyMove(0, 0) {
        t.Fatalf("first move rejected")
    }
    if b.ApplyMove(0, 0) {
        t.Fatalf("expected occupied cell to be rejected")
    }
    if b.Cell(0, 0) != PlayerOne {
        t.Fatalf("occupied cell overwritten to %v", b.Cell(0, 0))
    }
    if b.Turn() != PlayerTwo || b.MoveCount() != 1 {
        t.Fatalf("failed apply mutated state: turn=%v moves=%d", b.Turn(), b.MoveCount())
    }
}

func TestTurnAlternation(t *testing.T) {
    b := New()
    seq := [][2]int{{0, 0}, {1, 1}, {0, 1}, {1, 0}, {2, 2}}
    for n, m := range seq {
        want := PlayerOne
        if n%2 == 1 {
            want = PlayerTwo
        }
        if b.Turn() != want {
            t.Fatalf("after %d moves expected %v to move, got %v", n, want, b.Turn())
        }
        if !b.ApplyMove(m[0], m[1]) {
            t.Fatalf("move %d rejected", n)
        }
    }
}

func TestUndoIsInverseOfApply(t *testing.T) {
    b := New()
    playMoves(t, b, [][2]int{{1, 1}, {0, 0}, {2, 2}})
    grid := b.grid
    turn := b.Turn()
    depth := b.MoveCount()

    if !b.ApplyMove(0, 2) {
        t.Fatalf("apply failed")
    }
    m, ok := b.UndoMove()
    if !ok {
        t.Fatalf("expected a move to undo")
    }
    if m != (Move{Row: 0, Col: 2}) {
        t.Fatalf("undo returned wrong move: %v", m)
    }
    if b.grid != grid {
        t.Fatalf("grid not restored: %v", b.grid)
    }
    if b.Turn() != turn || b.MoveCount() != depth {
        t.Fatalf("turn/stack not restored: turn=%v moves=%d", b.Turn(), b.MoveCount())
    }
}

func TestUndoOnEmptyBoard(t *testing.T) {
    b := New()
    if _, ok := b.UndoMove(); ok {
        t.Fatalf("undo on empty board should report nothing to undo")
    }
    playMoves(t, b, [][2]int{{0, 0}, {1, 1}})
    b.UndoMove()
    b.UndoMove()
    if _, ok := b.UndoMove(); ok {
        t.Fatalf("undo past empty board should report nothing to undo")
    }
    if b.Turn() != PlayerOne || b.MoveCount() != 0 {
        t.Fatalf("repeated undo corrupted state: turn=%v moves=%d", b.Turn(), b.MoveCount())
    }
}

var winningLines = [][3][2]int{
    // rows
    {{0, 0}, {0, 1}, {0, 2}},
    {{1, 0}, {1, 1}, {1, 2}},
    {{2, 0}, {2, 1}, {2, 2}},
    // cols
    {{0, 0}, {1, 0}, {2, 0}},
    {{0, 1}, {1, 1}, {2, 1}},
    {{0, 2}, {1, 2}, {2, 2}},
    // diags
    {{0, 0}, {1, 1}, {2, 2}},
    {{0, 2}, {1, 1}, {2, 0}},
}

func TestWinDetectionAllLines(t *testing.T) {
    for _, line := range winningLines {
        for _, winner := range []Player{PlayerOne, PlayerTwo} {
            b := New()
            // Fill just the line, bypassing turn order, so each of the
            // 8 lines is checked in isolation.
            for _, m := range line {
                b.grid[m[0]][m[1]] = winner
            }
            over, res := b.CheckResult()
            if !over {
                t.Fatalf("line %v for %v not detected as terminal", line, winner)
            }
            want := PlayerOneWin
            if winner == PlayerTwo {
                want = PlayerTwoWin
            }
            if res != want {
                t.Fatalf("line %v for %v: expected %v, got %v", line, winner, want, res)
            }
        }
    }
}

func TestTieOnFullBoard(t *testing.T) {
    b := New()
    // X O X / X X O / O X O -- no three in a row
    seq := [][2]int{
        {0, 0}, {0, 1}, {0, 2},
        {1, 2}, {1, 0}, {2, 0},
        {1, 1}, {2, 2}, {2, 1},
    }
    playMoves(t, b, seq)
    over, res := b.CheckResult()
    if !over || res != Tie {
        t.Fatalf("expected tie on full board; over=%v result=%v", over, res)
    }
    if b.WinningLine() != nil {
        t.Fatalf("tie should have no winning line, got %v", b.WinningLine())
    }
}

func TestWinningLineMatchesCheckResult(t *testing.T) {
    b := New()
    // PlayerOne takes the top-to-bottom diagonal, PlayerTwo fills
    // non-blocking cells.
    seq := [][2]int{{0, 0}, {0, 1}, {1, 1}, {0, 2}, {2, 2}}
    playMoves(t, b, seq)
    over, res := b.CheckResult()
    if !over || res != PlayerOneWin {
        t.Fatalf("expected PlayerOneWin; over=%v result=%v", over, res)
    }
    want := []Move{{0, 0}, {1, 1}, {2, 2}}
    got := b.WinningLine()
    if len(got) != 3 {
        t.Fatalf("expected 3 coordinates, got %v", got)
    }
    for i := range want {
        if got[i] != want[i] {
            t.Fatalf("winning line mismatch at %d: got %v want %v", i, got, want)
        }
    }
}

func TestWinningLineEmptyWhileInProgress(t *testing.T) {
    b := New()
    playMoves(t, b, [][2]int{{0, 0}, {1, 1}})
    if b.WinningLine() != nil {
        t.Fatalf("in-progress game should have no winning line")
    }
}

func TestLegalMovesRowMajor(t *testing.T) {
    b := New()
    if n := len(b.LegalMoves()); n != 9 {
        t.Fatalf("expected 9 legal moves on empty board, got %d", n)
    }
    playMoves(t, b, [][2]int{{0, 0}, {1, 1}})
    got := b.LegalMoves()
    want := []Move{{0, 1}, {0, 2}, {1, 0}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}
    if len(got) != len(want) {
        t.Fatalf("expected %d legal moves, got %d", len(want), len(got))
    }
    for i := range want {
        if got[i] != want[i] {
            t.Fatalf("legal move %d: got %v want %v", i, got[i], want[i])
        }
    }
}

func TestReset(t *testing.T) {
    b := New()
    playMoves(t, b, [][2]int{{0, 0}, {1, 1}, {2, 2}})
    b.Reset()
    if b.Turn() != PlayerOne || b.MoveCount() != 0 {
        t.Fatalf("reset incomplete: turn=%v moves=%d", b.Turn(), b.MoveCount())
    }
    for r := 0; r < 3; r++ {
        for c := 0; c < 3; c++ {
            if b.Cell(r, c) != Unplayed {
                t.Fatalf("cell (%d,%d) not cleared", r, c)
            }
        }
    }
    if _, ok := b.UndoMove(); ok {
        t.Fatalf("reset should clear the move stack")
    }
}

func TestOtherPlayer(t *testing.T) {
    if PlayerOne.Other() != PlayerTwo || PlayerTwo.Other() != PlayerOne {
        t.Fatalf("Other should swap players")
    }
    defer func() {
        if recover() == nil {
            t.Fatalf("expected panic for Unplayed.Other()")
        }
    }()
    Unplayed.Other()
}
