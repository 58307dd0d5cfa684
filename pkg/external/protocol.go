// Package external implements gnubg's external player protocol so that
// gnubg can play against the agents.
//
// gnubg connects over TCP and sends one command per line. A FIBS board
// line asks for the move of the player on roll; the reply is the move in
// standard notation, or "cannot move" when the roll has no legal play.
// The agents do not handle the doubling cube: they never double and
// always take.
package external

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/bgagents/pkg/agent"
	"github.com/yourusername/bgagents/pkg/game"
	"github.com/yourusername/bgagents/pkg/heuristic"
)

// Version is the reply to the version command.
const Version = "bgagents external player 1.0"

// MaxDepth bounds "set depth".
const MaxDepth = 3

// Options configures a Server. Every connection starts from these and may
// change its own copy with set commands.
type Options struct {
	Agent  string           // agent kind, default agent.KindExpectiminimax
	Depth  int              // search depth, 0 means agent.DefaultDepth
	Seed   uint64           // seed of the first move, incremented per move
	Cache  *heuristic.Cache // shared evaluation cache, may be nil
	Prompt bool             // write "> " before each command
}

// Server answers external player connections.
type Server struct {
	opts Options

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

// NewServer returns a server for opts.
func NewServer(opts Options) *Server {
	if opts.Agent == "" {
		opts.Agent = agent.KindExpectiminimax
	}
	return &Server{opts: opts, conns: make(map[net.Conn]struct{})}
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then closes ln and
// every open connection and waits for their handlers to return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log.Info().
		Str("addr", ln.Addr().String()).
		Str("agent", s.opts.Agent).
		Msg("external-started")

	stop := context.AfterFunc(ctx, func() {
		ln.Close()
		s.mu.Lock()
		for c := range s.conns {
			c.Close()
		}
		s.mu.Unlock()
	})
	defer stop()

	var err error
	for {
		var conn net.Conn
		conn, err = ln.Accept()
		if err != nil {
			break
		}
		s.track(conn, true)
		if ctx.Err() != nil {
			conn.Close()
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.track(conn, false)
			s.handle(conn)
		}()
	}

	s.wg.Wait()
	if ctx.Err() != nil && errors.Is(err, net.ErrClosed) {
		log.Info().Msg("external-stopped")
		return nil
	}
	return err
}

func (s *Server) track(c net.Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.conns[c] = struct{}{}
	} else {
		delete(s.conns, c)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	remote := conn.RemoteAddr().String()
	log.Info().Str("remote", remote).Msg("external-connected")
	defer log.Info().Str("remote", remote).Msg("external-disconnected")

	sess := &session{opts: s.opts}
	w := bufio.NewWriter(conn)
	scanner := bufio.NewScanner(conn)
	for {
		if sess.opts.Prompt {
			w.WriteString("> ")
		}
		if err := w.Flush(); err != nil {
			return
		}
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		reply, done := sess.command(line)
		log.Debug().Str("remote", remote).Str("command", line).Str("reply", reply).Msg("external-command")
		w.WriteString(reply + "\n")
		if done {
			w.Flush()
			return
		}
	}
}

// session is the state of one connection.
type session struct {
	opts  Options
	moves uint64
}

// command runs one line and returns the reply and whether the connection
// should close.
func (s *session) command(line string) (string, bool) {
	if strings.HasPrefix(line, "board:") {
		return s.play(line), false
	}
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "version":
		return Version, false
	case "help":
		return help, false
	case "exit", "quit":
		return "Goodbye", true
	case "set":
		return s.set(fields[1:]), false
	case "evaluation", "eval":
		return s.evaluate(boardArg(line)), false
	case "fibsboard":
		return s.play(boardArg(line)), false
	}
	return fmt.Sprintf("Error: unknown command '%s'", fields[0]), false
}

const help = `Available commands:
  board:...             Choose a move for the player on roll
  fibsboard board:...   Same as above
  evaluation board:...  Heuristic score for the player on roll
  set agent <kind>      Agent choosing moves (expectiminimax, capture, block, random)
  set depth <n>         Search depth for expectiminimax (1-3)
  version               Show version information
  exit                  Close connection`

// boardArg returns the board: part of a command line.
func boardArg(line string) string {
	if i := strings.Index(line, "board:"); i >= 0 {
		return line[i:]
	}
	return ""
}

func (s *session) set(args []string) string {
	if len(args) != 2 {
		return "Error: set requires option and value"
	}
	switch strings.ToLower(args[0]) {
	case "agent":
		if _, err := agent.New(args[1], game.X, agent.Config{}); err != nil {
			return fmt.Sprintf("Error: %v", err)
		}
		s.opts.Agent = args[1]
		return "agent set to " + args[1]
	case "depth":
		d, err := strconv.Atoi(args[1])
		if err != nil || d < 1 || d > MaxDepth {
			return fmt.Sprintf("Error: depth must be 1-%d", MaxDepth)
		}
		s.opts.Depth = d
		return fmt.Sprintf("depth set to %d", d)
	}
	return fmt.Sprintf("Error: unknown option '%s'", args[0])
}

func (s *session) evaluate(board string) string {
	if board == "" {
		return "Error: no board specified"
	}
	fb, err := ParseFIBSBoard(board)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	st, err := fb.State()
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return strconv.FormatFloat(heuristic.Score(st, game.X), 'f', 6, 64)
}

func (s *session) play(board string) string {
	if board == "" {
		return "Error: no board specified"
	}
	fb, err := ParseFIBSBoard(board)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	if fb.WasDoubled {
		return "take"
	}
	st, err := fb.State()
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	roll, rolled, err := fb.Roll()
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	if !rolled {
		return "roll"
	}

	legal := st.LegalMoves(roll, game.X)
	if len(legal) == 0 {
		return "cannot move"
	}
	a, err := agent.New(s.opts.Agent, game.X, agent.Config{
		Depth: s.opts.Depth,
		Seed:  s.opts.Seed + s.moves,
		Cache: s.opts.Cache,
	})
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	s.moves++
	m, err := a.SelectMove(legal, st)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return m.Notation(game.X)
}
