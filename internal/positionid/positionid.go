// Package positionid encodes backgammon positions in the formats used by
// GNU Backgammon: a 14-character base64 position ID for exchanging
// positions with other tools, and a fixed-size key for equality checks.
package positionid

import (
	"encoding/base64"
	"errors"
	"strings"
)

// PositionIDLength is the length of a position ID string.
const PositionIDLength = 14

// ErrInvalidPositionID is returned when a position ID cannot be decoded
// into a legal board.
var ErrInvalidPositionID = errors.New("invalid position ID")

// Board holds checker counts as [side][point] where each side counts from
// its own perspective: point 0 is the side's ace point, 24 is the bar.
// Side 1 is the player on roll, side 0 its opponent.
type Board [2][25]uint8

// PositionKey packs a board into 4 bits per point.
type PositionKey struct {
	Data [7]uint32
}

// MakePositionKey builds the packed key for a board.
func MakePositionKey(board Board) PositionKey {
	var key PositionKey
	for j := 0; j < 24; j++ {
		shift := uint(4 * (j % 8))
		key.Data[j/8] |= uint32(board[1][j]) << shift
		key.Data[3+j/8] |= uint32(board[0][j]) << shift
	}
	key.Data[6] = uint32(board[0][24]) | uint32(board[1][24])<<4
	return key
}

// idBits is the 80-bit layout behind a position ID: for each side and
// point, one set bit per checker followed by a clear separator bit.
type idBits [10]byte

func packBits(board Board) idBits {
	var bits idBits
	pos := 0
	for side := 0; side < 2; side++ {
		for point := 0; point < 25; point++ {
			for n := 0; n < int(board[side][point]); n++ {
				bits[pos/8] |= 1 << uint(pos%8)
				pos++
			}
			pos++
		}
	}
	return bits
}

func unpackBits(bits idBits) (Board, bool) {
	var board Board
	side, point := 0, 0
	for pos := 0; pos < 80; pos++ {
		if bits[pos/8]&(1<<uint(pos%8)) != 0 {
			if side >= 2 {
				return board, false
			}
			board[side][point]++
			continue
		}
		point++
		if point == 25 {
			side++
			point = 0
		}
	}
	return board, true
}

// PositionID returns the gnubg position ID of a board.
func PositionID(board Board) string {
	bits := packBits(board)
	return base64.StdEncoding.EncodeToString(bits[:])[:PositionIDLength]
}

// BoardFromPositionID decodes a position ID. A trailing ":matchID" part,
// as printed by gnubg, is ignored.
func BoardFromPositionID(posID string) (Board, error) {
	if i := strings.IndexByte(posID, ':'); i >= 0 {
		posID = posID[:i]
	}
	posID = strings.TrimSpace(posID)
	if len(posID) != PositionIDLength {
		return Board{}, ErrInvalidPositionID
	}

	raw, err := base64.StdEncoding.DecodeString(posID + "==")
	if err != nil || len(raw) != len(idBits{}) {
		return Board{}, ErrInvalidPositionID
	}
	var bits idBits
	copy(bits[:], raw)

	board, ok := unpackBits(bits)
	if !ok || !CheckPosition(board) {
		return Board{}, ErrInvalidPositionID
	}
	return board, nil
}

// CheckPosition reports whether a board could occur in a game: at most 15
// checkers per side, no point held by both sides, and not both sides on
// the bar against closed home boards.
func CheckPosition(board Board) bool {
	var total [2]int
	for i := 0; i < 25; i++ {
		total[0] += int(board[0][i])
		total[1] += int(board[1][i])
		if total[0] > 15 || total[1] > 15 {
			return false
		}
	}

	for i := 0; i < 24; i++ {
		if board[0][i] > 0 && board[1][23-i] > 0 {
			return false
		}
	}

	for i := 0; i < 6; i++ {
		if board[0][i] < 2 || board[1][i] < 2 {
			return true
		}
	}
	return board[0][24] == 0 || board[1][24] == 0
}

// SwapSides exchanges the two sides, giving the board as seen by the
// other player.
func SwapSides(board Board) Board {
	return Board{board[1], board[0]}
}
