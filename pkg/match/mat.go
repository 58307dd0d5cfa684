package match

import (
	"bufio"
	"fmt"
	"io"

	"github.com/yourusername/bgagents/pkg/game"
)

// Transcripts use the Jellyfish .mat layout read by gnubg:
//
//	 ; [Player 1 "ExpectiMinMax"]
//	 ; [Player 2 "Eater"]
//	 Unlimited match
//
//	 Game 1
//	 ExpectiMinMax : 0                          Eater : 0
//	  1) 31: 8/5 6/5                    52: 24/22 13/8
//
// X is player 1 and writes the left column. Points are numbered 1-24 from
// the mover's side.

const matColumn = 34

// WriteMAT writes games as one money-play session. Games that did not
// finish are written without a result line.
func WriteMAT(w io.Writer, games []Result) error {
	bw := bufio.NewWriter(w)
	names := [2]string{"Player 1", "Player 2"}
	if len(games) > 0 {
		names = games[0].Agents
	}

	fmt.Fprintf(bw, " ; [Player 1 \"%s\"]\n", names[game.X])
	fmt.Fprintf(bw, " ; [Player 2 \"%s\"]\n", names[game.O])
	fmt.Fprintf(bw, " Unlimited match\n\n")

	var score [2]int
	for i, r := range games {
		writeGameMAT(bw, i+1, names, score, r)
		if r.Finished() {
			score[r.Winner]++
		}
	}
	return bw.Flush()
}

func writeGameMAT(w io.Writer, number int, names [2]string, score [2]int, r Result) {
	fmt.Fprintf(w, " Game %d\n", number)
	fmt.Fprintf(w, " %s : %d                          %s : %d\n",
		names[game.X], score[game.X], names[game.O], score[game.O])

	line := 0
	open := false
	for _, t := range r.Turns {
		text := fmt.Sprintf("%d%d: %s", t.Roll.High, t.Roll.Low, t.Move.Notation(t.Player))
		switch {
		case t.Player == game.X:
			if open {
				fmt.Fprintln(w)
			}
			line++
			fmt.Fprintf(w, "%3d) %-*s", line, matColumn, text)
			open = true
		case open:
			fmt.Fprintf(w, "%s\n", text)
			open = false
		default:
			// O opened the game or X's turn is missing.
			line++
			fmt.Fprintf(w, "%3d) %-*s%s\n", line, matColumn, "", text)
		}
	}
	if open {
		fmt.Fprintln(w)
	}

	if r.Finished() {
		indent := 5
		if r.Winner == game.O {
			indent += matColumn
		}
		fmt.Fprintf(w, "%*sWins 1 point\n", indent, "")
	}
	fmt.Fprintln(w)
}
