package registry

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/park285/pente-server/internal/domain"
	"github.com/park285/pente-server/internal/pente"
)

// sparseSelector keeps computer stones on even rows/cols of the top half so
// they never form a line or a capturable pair.
var sparseSelector = pente.SelectorFunc(func(open []pente.Coord) pente.Coord {
	for _, c := range open {
		if c.Row < 9 && c.Row%2 == 0 && c.Col%2 == 0 {
			return c
		}
	}
	return open[0]
})

type fakeRecorder struct {
	mu      sync.Mutex
	results []*domain.GameResult
	err     error
}

func (f *fakeRecorder) Record(ctx context.Context, r *domain.GameResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, r)
	return f.err
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	m := NewManager(sparseSelector, 0)
	ctx := context.Background()
	for want := 0; want < 3; want++ {
		snap, err := m.Create(ctx, "O")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if snap.ID != want {
			t.Fatalf("id: got %d want %d", snap.ID, want)
		}
	}
	if m.Len() != 3 {
		t.Fatalf("Len: %d", m.Len())
	}
}

func TestCreateComputerOnO(t *testing.T) {
	m := NewManager(sparseSelector, 0)
	snap, err := m.Create(context.Background(), "O")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	parts := strings.Split(snap.State, "#")
	if parts[0] != "X" {
		t.Fatalf("next: %q", parts[0])
	}
	if strings.Count(parts[1], "X") != 0 || strings.Count(parts[1], "O") != 0 {
		t.Fatalf("expected empty board, got %q", parts[1])
	}
}

func TestCreateComputerOnX(t *testing.T) {
	m := NewManager(nil, 0)
	snap, err := m.Create(context.Background(), "X")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	parts := strings.Split(snap.State, "#")
	if parts[0] != "O" {
		t.Fatalf("next: %q", parts[0])
	}
	if strings.Count(parts[1], "X") != 1 {
		t.Fatalf("expected one X stone, got %q", parts[1])
	}
	if parts[2] != "0" || parts[3] != "0" {
		t.Fatalf("captures: %q %q", parts[2], parts[3])
	}
}

func TestCreateRejectsInvalidSide(t *testing.T) {
	m := NewManager(nil, 0)
	for _, side := range []string{"", "x", "Z", "XO"} {
		if _, err := m.Create(context.Background(), side); !errors.Is(err, pente.ErrInvalidSide) {
			t.Fatalf("side %q: expected ErrInvalidSide, got %v", side, err)
		}
	}
	if m.Len() != 0 {
		t.Fatalf("no game should be stored, got %d", m.Len())
	}
}

func TestCreateRespectsMaxGames(t *testing.T) {
	m := NewManager(nil, 2)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := m.Create(ctx, "O"); err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
	}
	if _, err := m.Create(ctx, "O"); !errors.Is(err, ErrRegistryFull) {
		t.Fatalf("expected ErrRegistryFull, got %v", err)
	}
}

func TestPlayHumanUnknownGame(t *testing.T) {
	m := NewManager(nil, 0)
	ctx := context.Background()
	for _, id := range []int{-1, 0, 5} {
		if _, err := m.PlayHuman(ctx, id, 0, 0); !errors.Is(err, ErrGameNotFound) {
			t.Fatalf("id %d: expected ErrGameNotFound, got %v", id, err)
		}
		if _, err := m.Snapshot(ctx, id); !errors.Is(err, ErrGameNotFound) {
			t.Fatalf("snapshot id %d: expected ErrGameNotFound, got %v", id, err)
		}
	}
}

func TestPlayHumanSameGameFromID(t *testing.T) {
	m := NewManager(sparseSelector, 0)
	ctx := context.Background()
	snap, err := m.Create(ctx, "X")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := m.PlayHuman(ctx, snap.ID, 1, 1)
	if err != nil {
		t.Fatalf("PlayHuman: %v", err)
	}
	parts := strings.Split(res.State, "#")
	if parts[0] != "O" {
		t.Fatalf("next: %q", parts[0])
	}
	if strings.Count(parts[1], "X") != 2 || strings.Count(parts[1], "O") != 1 {
		t.Fatalf("unexpected board %q", parts[1])
	}
	if parts[1][pente.Size+1] != 'O' {
		t.Fatalf("human stone missing at (1,1)")
	}
	if res.AI == nil {
		t.Fatalf("expected computer reply")
	}
}

func TestPlayHumanOccupiedLeavesState(t *testing.T) {
	m := NewManager(sparseSelector, 0)
	ctx := context.Background()
	snap, _ := m.Create(ctx, "O")
	if _, err := m.PlayHuman(ctx, snap.ID, 5, 5); err != nil {
		t.Fatalf("PlayHuman: %v", err)
	}
	before, _ := m.Snapshot(ctx, snap.ID)

	if _, err := m.PlayHuman(ctx, snap.ID, 5, 5); !errors.Is(err, pente.ErrCellOccupied) {
		t.Fatalf("expected ErrCellOccupied, got %v", err)
	}
	after, _ := m.Snapshot(ctx, snap.ID)
	if before.State != after.State || before.MoveCount != after.MoveCount {
		t.Fatalf("state changed after rejected move")
	}
}

func TestFinishedGameIsRecordedOnce(t *testing.T) {
	m := NewManager(sparseSelector, 0)
	rec := &fakeRecorder{}
	m.AttachRecorder(rec)
	ctx := context.Background()
	snap, _ := m.Create(ctx, "O")

	var res *pente.MoveResult
	var err error
	for col := 0; col < 5; col++ {
		res, err = m.PlayHuman(ctx, snap.ID, 10, col)
		if err != nil {
			t.Fatalf("PlayHuman col=%d: %v", col, err)
		}
	}
	if !res.Finished || res.Winner != pente.X || res.AI != nil {
		t.Fatalf("expected X to win without a reply: %+v", res)
	}
	if _, err := m.PlayHuman(ctx, snap.ID, 12, 0); !errors.Is(err, pente.ErrGameFinished) {
		t.Fatalf("expected ErrGameFinished, got %v", err)
	}

	if len(rec.results) != 1 {
		t.Fatalf("expected 1 recorded result, got %d", len(rec.results))
	}
	r := rec.results[0]
	if r.GameID != snap.ID || r.Winner != "X" || r.Method != "line" {
		t.Fatalf("unexpected result %+v", r)
	}
	if r.RunID == "" || r.RunID != m.RunID() {
		t.Fatalf("run id: %q vs %q", r.RunID, m.RunID())
	}
	if r.MoveCount != 9 || len(r.Moves) != 9 {
		t.Fatalf("move count: %d (%d)", r.MoveCount, len(r.Moves))
	}
	if r.Moves[0] != "X:10,0" {
		t.Fatalf("first move: %q", r.Moves[0])
	}
	if !r.WinnerIsHuman() {
		t.Fatalf("expected human winner")
	}
	if r.FinalState != res.State {
		t.Fatalf("final state mismatch")
	}
}

func TestRecorderErrorDoesNotFailMove(t *testing.T) {
	m := NewManager(sparseSelector, 0)
	m.AttachRecorder(&fakeRecorder{err: errors.New("db down")})
	ctx := context.Background()
	snap, _ := m.Create(ctx, "O")
	for col := 0; col < 5; col++ {
		if _, err := m.PlayHuman(ctx, snap.ID, 10, col); err != nil {
			t.Fatalf("PlayHuman col=%d: %v", col, err)
		}
	}
}

func TestConcurrentMovesAreSerialized(t *testing.T) {
	m := NewManager(sparseSelector, 0)
	ctx := context.Background()
	snap, _ := m.Create(ctx, "O")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			row, col := 10+(i/5)*2, (i%5)*2
			// turn order is enforced by the session, so every move succeeds
			if _, err := m.PlayHuman(ctx, snap.ID, row, col); err != nil {
				t.Errorf("PlayHuman (%d,%d): %v", row, col, err)
			}
		}(i)
	}
	wg.Wait()

	got, _ := m.Snapshot(ctx, snap.ID)
	if got.MoveCount != 20 {
		t.Fatalf("expected 20 moves, got %d", got.MoveCount)
	}
	board := strings.Split(got.State, "#")[1]
	if strings.Count(board, "-") != pente.Cells-20 {
		t.Fatalf("open cells mismatch")
	}
	if got.Next != pente.X {
		t.Fatalf("next: %s", got.Next)
	}
}

func TestIndependentGamesInParallel(t *testing.T) {
	m := NewManager(sparseSelector, 0)
	ctx := context.Background()
	const n = 8
	var wg sync.WaitGroup
	ids := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := m.Create(ctx, "O")
			if err != nil {
				t.Errorf("Create: %v", err)
				return
			}
			if _, err := m.PlayHuman(ctx, snap.ID, 12, 12); err != nil {
				t.Errorf("PlayHuman: %v", err)
			}
			ids <- snap.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
		snap, _ := m.Snapshot(ctx, id)
		if snap.MoveCount != 2 {
			t.Fatalf("game %d: %d moves", id, snap.MoveCount)
		}
	}
	if len(seen) != n {
		t.Fatalf("expected %d games, got %d", n, len(seen))
	}
}
