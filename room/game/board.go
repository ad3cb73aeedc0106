package game

// Mark is a participant's fixed token within a paired session. The inviter
// always plays X and moves first; the invitee plays O.
type Mark string

const (
	MarkNone Mark = ""
	MarkX    Mark = "X"
	MarkO    Mark = "O"
)

// Other returns the opposing mark. The zero mark maps to itself.
func (m Mark) Other() Mark {
	switch m {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	}
	return MarkNone
}

// BoardSize is the number of cells on a tic-tac-toe board.
const BoardSize = 9

// Board holds the 9 cells in row-major order. An unset cell holds MarkNone.
type Board [BoardSize]Mark

// winLines enumerates the eight winning index triples: three rows, three
// columns, and the two diagonals.
var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Winner returns the mark completing a winning line, or MarkNone when no
// line is complete.
func (b Board) Winner() Mark {
	for _, line := range winLines {
		a, c, d := b[line[0]], b[line[1]], b[line[2]]
		if a != MarkNone && a == c && a == d {
			return a
		}
	}
	return MarkNone
}

// Full reports whether every cell holds a mark.
func (b Board) Full() bool {
	for _, cell := range b {
		if cell == MarkNone {
			return false
		}
	}
	return true
}
