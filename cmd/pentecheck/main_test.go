package main

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/park285/pente-server/internal/adapter/statepresenter"
	"github.com/park285/pente-server/internal/httpapi"
	"github.com/park285/pente-server/internal/pente"
	"github.com/park285/pente-server/internal/penteclient"
	"github.com/park285/pente-server/internal/registry"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func newRunner(t *testing.T) (*runner, *bytes.Buffer) {
	t.Helper()
	sel := pente.SelectorFunc(func(open []pente.Coord) pente.Coord { return open[len(open)-1] })
	api := httpapi.New(registry.NewManager(sel, 0), httpapi.Options{})
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: api.Handler()}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	c := penteclient.NewClient("http://pente.test/",
		penteclient.WithDial(func(string) (net.Conn, error) { return ln.Dial() }),
		penteclient.WithTimeout(2*time.Second))
	var out bytes.Buffer
	return &runner{c: c, f: statepresenter.NewFormatter(nil), out: &out}, &out
}

func TestRunnerPrintsMoveSummary(t *testing.T) {
	r, out := newRunner(t)
	ctx := context.Background()
	g, err := r.c.NewGame(ctx, "O")
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if _, err := r.move(ctx, g.ID, 0, 0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if !strings.Contains(out.String(), "Computer played (18, 18)") {
		t.Fatalf("missing move summary: %q", out.String())
	}
}

func TestChecksPassAgainstServer(t *testing.T) {
	r, out := newRunner(t)
	checks := []func(context.Context, *runner) (string, error){
		playerMakesInitialMove,
		sameGameWhenPlayerStarts,
		sameGameWhenAIStarts,
		aiMakesInitialMove,
		winFive(func(i int) (int, int) { return 0, i }),
		winFive(func(i int) (int, int) { return i, 0 }),
		winFive(func(i int) (int, int) { return i, i }),
	}
	for i, run := range checks {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		state, err := run(ctx, r)
		cancel()
		if err != nil {
			t.Fatalf("check %d: %v (state %q)", i, err, state)
		}
	}
	if got := strings.Count(out.String(), ": X won,"); got != 3 {
		t.Fatalf("expected 3 finished games in output, got %d:\n%s", got, out.String())
	}
}
