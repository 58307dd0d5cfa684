package positionid

import (
	"testing"
)

// startingBoard returns the standard starting position; both sides are
// laid out identically from their own perspective.
func startingBoard() Board {
	var board Board
	for side := 0; side < 2; side++ {
		board[side][5] = 5
		board[side][7] = 3
		board[side][12] = 5
		board[side][23] = 2
	}
	return board
}

// Known gnubg position ID of the starting position.
const startingPositionID = "4HPwATDgc/ABMA"

func TestPositionIDStartingPosition(t *testing.T) {
	if got := PositionID(startingBoard()); got != startingPositionID {
		t.Errorf("PositionID = %s, want %s", got, startingPositionID)
	}
}

func TestPositionIDRoundTrip(t *testing.T) {
	boards := map[string]Board{
		"starting": startingBoard(),
	}

	var bar Board
	bar[1][24] = 2
	bar[1][5] = 13
	bar[0][0] = 15
	boards["bar"] = bar

	var race Board
	race[0][0] = 3
	race[0][3] = 4
	race[1][2] = 9
	boards["race"] = race

	for name, board := range boards {
		t.Run(name, func(t *testing.T) {
			got, err := BoardFromPositionID(PositionID(board))
			if err != nil {
				t.Fatalf("BoardFromPositionID: %v", err)
			}
			if got != board {
				t.Errorf("round trip mismatch:\n got  %v\n want %v", got, board)
			}
		})
	}
}

func TestBoardFromPositionIDIgnoresMatchID(t *testing.T) {
	board, err := BoardFromPositionID(startingPositionID + ":cIkqAAAAAAAA")
	if err != nil {
		t.Fatalf("BoardFromPositionID: %v", err)
	}
	if board != startingBoard() {
		t.Errorf("decoded board differs from starting position")
	}
}

func TestBoardFromPositionIDInvalid(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"empty", ""},
		{"short", "4HPwATDgc"},
		{"bad character", "4HPwATDgc/AB!A"},
		{"too many checkers", "//////////////"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BoardFromPositionID(tt.id); err != ErrInvalidPositionID {
				t.Errorf("BoardFromPositionID(%q) error = %v, want %v", tt.id, err, ErrInvalidPositionID)
			}
		})
	}
}

func TestPositionKeyIncludesBar(t *testing.T) {
	board := startingBoard()
	hit := board
	hit[0][24] = 1
	hit[0][5] = 4

	if MakePositionKey(board) == MakePositionKey(hit) {
		t.Error("checker on the bar produced the same key")
	}
}

func TestPositionKeyDistinguishesSides(t *testing.T) {
	board := startingBoard()
	board[1][5]--
	board[1][4]++

	if MakePositionKey(board) == MakePositionKey(SwapSides(board)) {
		t.Error("swapped board produced the same key")
	}
}

func TestCheckPosition(t *testing.T) {
	if !CheckPosition(startingBoard()) {
		t.Error("starting position rejected")
	}

	overlap := startingBoard()
	overlap[1][0] = 1 // side 0 holds its point 23, the same point
	if CheckPosition(overlap) {
		t.Error("board with both sides on one point accepted")
	}

	var closed Board
	for i := 0; i < 6; i++ {
		closed[0][i] = 2
		closed[1][i] = 2
	}
	closed[0][24] = 1
	closed[1][24] = 1
	if CheckPosition(closed) {
		t.Error("both sides on the bar against closed boards accepted")
	}
}
