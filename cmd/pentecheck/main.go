package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/park285/pente-server/internal/adapter/statepresenter"
	"github.com/park285/pente-server/internal/penteclient"
	"github.com/park285/pente-server/pkg/pentedto"
)

const occupiedMsg = "Space already occupied"

type check struct {
	name string
	run  func(ctx context.Context, r *runner) (string, error)
}

// runner sends moves and prints a summary line for each reply.
type runner struct {
	c   *penteclient.Client
	f   *statepresenter.Formatter
	out io.Writer
}

func (r *runner) move(ctx context.Context, id, row, col int) (*pentedto.MoveResponse, error) {
	mv, err := r.c.NextMove(ctx, id, row, col)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(r.out, r.f.Move(mv))
	return mv, nil
}

func main() {
	baseURL := os.Getenv("PENTE_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}
	client := penteclient.NewClient(baseURL, penteclient.WithTimeout(5*time.Second))
	f := statepresenter.NewFormatter(nil)
	r := &runner{c: client, f: f, out: os.Stdout}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	h, err := client.Health(ctx)
	cancel()
	if err != nil {
		log.Fatalf("/healthz error: %v", err)
	}
	log.Printf("/healthz ok: games=%d run=%s", h.Games, h.RunID)

	checks := []check{
		{"ai_makes_initial_move", aiMakesInitialMove},
		{"player_makes_initial_move", playerMakesInitialMove},
		{"same_game_from_id_when_ai_starts", sameGameWhenAIStarts},
		{"same_game_from_id_when_player_starts", sameGameWhenPlayerStarts},
		{"win_five_horizontal", winFive(func(i int) (int, int) { return 0, i })},
		{"win_five_vertical", winFive(func(i int) (int, int) { return i, 0 })},
		{"win_five_diagonal", winFive(func(i int) (int, int) { return i, i })},
	}

	failed := 0
	for _, ch := range checks {
		fmt.Printf("\n--- TESTING: %s ---\n", ch.name)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		state, err := ch.run(ctx, r)
		cancel()
		if state != "" {
			fmt.Println(f.Board(state))
		}
		if err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", ch.name, err)
			continue
		}
		fmt.Printf("ok %s\n", ch.name)
	}
	if failed > 0 {
		fmt.Printf("\n%d of %d checks failed\n", failed, len(checks))
		os.Exit(1)
	}
	fmt.Println("\nAll checks passed!")
}

func expect(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return fmt.Errorf(format, args...)
}

func aiMakesInitialMove(ctx context.Context, r *runner) (string, error) {
	g, err := r.c.NewGame(ctx, "X")
	if err != nil {
		return "", err
	}
	s, err := statepresenter.Parse(g.State)
	if err != nil {
		return g.State, err
	}
	board := strings.Join(s.Rows[:], "")
	return g.State, firstErr(
		expect(s.Next == "O", "next player %s, want O", s.Next),
		expect(strings.Count(board, "X") == 1, "want one opening X stone"),
		expect(s.CapturedX == 0 && s.CapturedO == 0, "captures %d/%d", s.CapturedX, s.CapturedO),
	)
}

func playerMakesInitialMove(ctx context.Context, r *runner) (string, error) {
	g, err := r.c.NewGame(ctx, "O")
	if err != nil {
		return "", err
	}
	s, err := statepresenter.Parse(g.State)
	if err != nil {
		return g.State, err
	}
	board := strings.Join(s.Rows[:], "")
	return g.State, firstErr(
		expect(s.Next == "X", "next player %s, want X", s.Next),
		expect(strings.Trim(board, "-") == "", "board should be empty"),
	)
}

// sameGameWhenAIStarts plays (0,0) after the computer's opening. The
// opening may land on (0,0) itself, so a blocked game is replaced.
func sameGameWhenAIStarts(ctx context.Context, r *runner) (string, error) {
	for {
		g, err := r.c.NewGame(ctx, "X")
		if err != nil {
			return "", err
		}
		mv, err := r.move(ctx, g.ID, 0, 0)
		if penteclient.IsMessage(err, occupiedMsg) {
			continue
		}
		if err != nil {
			return "", err
		}
		s, err := statepresenter.Parse(mv.State)
		if err != nil {
			return mv.State, err
		}
		board := strings.Join(s.Rows[:], "")
		return mv.State, firstErr(
			expect(s.Next == "O", "next player %s, want O", s.Next),
			expect(strings.Count(board, "X") == 2, "want two X stones"),
			expect(strings.Count(board, "O") == 1, "want one O stone"),
			expect(s.At(0, 0) == 'O', "human stone missing at (0,0)"),
		)
	}
}

func sameGameWhenPlayerStarts(ctx context.Context, r *runner) (string, error) {
	g, err := r.c.NewGame(ctx, "O")
	if err != nil {
		return "", err
	}
	mv, err := r.move(ctx, g.ID, 0, 0)
	if err != nil {
		return "", err
	}
	s, err := statepresenter.Parse(mv.State)
	if err != nil {
		return mv.State, err
	}
	board := strings.Join(s.Rows[:], "")
	return mv.State, firstErr(
		expect(s.Next == "X", "next player %s, want X", s.Next),
		expect(strings.Count(board, "X") == 1 && strings.Count(board, "O") == 1, "want one stone each"),
		expect(s.At(0, 0) == 'X', "human stone missing at (0,0)"),
		expect(mv.Row != nil && mv.Col != nil, "computer reply missing"),
	)
}

// winFive plays five human stones along at, starting from the board edge so
// no pair on the line can be bracketed. A random reply can still block the
// line; the game is then abandoned and a new one started.
func winFive(at func(i int) (int, int)) func(context.Context, *runner) (string, error) {
	return func(ctx context.Context, r *runner) (string, error) {
	restart:
		for {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			g, err := r.c.NewGame(ctx, "O")
			if err != nil {
				return "", err
			}
			var last string
			var winner string
			for i := 0; i < 5; i++ {
				row, col := at(i)
				mv, err := r.move(ctx, g.ID, row, col)
				if penteclient.IsMessage(err, occupiedMsg) {
					continue restart
				}
				if err != nil {
					return last, err
				}
				last, winner = mv.State, mv.Winner
			}
			s, err := statepresenter.Parse(last)
			if err != nil {
				return last, err
			}
			board := strings.Join(s.Rows[:], "")
			return last, firstErr(
				expect(strings.Count(board, "X") == 5, "want five X stones, got %d", strings.Count(board, "X")),
				expect(winner == "X", "winner %q, want X", winner),
				expect(s.Next == "X", "finished state should keep the winner as next, got %s", s.Next),
			)
		}
	}
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
