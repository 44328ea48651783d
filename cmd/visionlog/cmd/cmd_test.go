package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayvision/visionlog/internal/app"
	"github.com/relayvision/visionlog/internal/app/apptest"
	"github.com/relayvision/visionlog/internal/client"
	"github.com/relayvision/visionlog/internal/routes"
)

const testPassword = "correct-horse-battery"

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// user is one CLI installation: its own home directory against a shared server.
type user struct {
	t      *testing.T
	server string
	home   string
}

func newUser(t *testing.T, server string) *user {
	return &user{t: t, server: server, home: t.TempDir()}
}

func (u *user) runContext(ctx context.Context, out *syncBuffer, stdin string, args ...string) error {
	root := RootCmd()
	root.SetOut(out)
	root.SetErr(&syncBuffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--server", u.server, "--home", u.home, "--timeout", "5s"}, args...))
	return root.ExecuteContext(ctx)
}

func (u *user) run(args ...string) (string, error) {
	out := &syncBuffer{}
	err := u.runContext(context.Background(), out, "", args...)
	return out.String(), err
}

func (u *user) must(args ...string) string {
	u.t.Helper()
	out, err := u.run(args...)
	require.NoError(u.t, err, "visionlog %s", strings.Join(args, " "))
	return out
}

// id pulls the short id out of "Added <id> ..." style output.
func id(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		for i, f := range fields {
			if (f == "Added" || f == "Captured") && i+1 < len(fields) {
				if fields[i+1] == "goal" || fields[i+1] == "vision" {
					return fields[i+2]
				}
				return fields[i+1]
			}
		}
	}
	t.Fatalf("no id in %q", out)
	return ""
}

func (u *user) userID() string {
	u.t.Helper()
	s, err := client.LoadSession(filepath.Join(u.home, "credentials.json"))
	require.NoError(u.t, err)
	require.NotNil(u.t, s.Current())
	return s.Current().User.ID
}

func startServer(t *testing.T) (*app.App, string) {
	t.Helper()
	a := apptest.New(t, apptest.NewMemStorage())
	srv := httptest.NewServer(routes.SetupRoutes(a))
	t.Cleanup(srv.Close)
	return a, srv.URL
}

func signup(t *testing.T, server, email string) *user {
	t.Helper()
	u := newUser(t, server)
	out := u.must("signup", "--email", email, "--password", testPassword)
	require.Contains(t, out, "Signed in as "+email)
	return u
}

func TestModeIsRemembered(t *testing.T) {
	u := newUser(t, "http://127.0.0.1:1")

	assert.Contains(t, u.must("mode"), "NIGHT")
	assert.Contains(t, u.must("mode", "toggle"), "MORNING")
	assert.Contains(t, u.must("mode"), "MORNING")
	assert.Contains(t, u.must("mode", "night"), "NIGHT")

	_, err := u.run("mode", "noon")
	assert.Error(t, err)

	_, err = u.run("board", "--tab", "vault")
	assert.ErrorContains(t, err, "morning")
}

func TestSignedOutCommandsFail(t *testing.T) {
	_, server := startServer(t)
	u := newUser(t, server)

	for _, args := range [][]string{
		{"board"},
		{"whoami"},
		{"mission", "add", "write"},
		{"ally", "invites"},
	} {
		_, err := u.run(args...)
		assert.ErrorIs(t, err, errSignedOut, "visionlog %s", strings.Join(args, " "))
	}
}

func TestNightToMorning(t *testing.T) {
	_, server := startServer(t)
	u := signup(t, server, "night@example.com")

	assert.Contains(t, u.must("whoami"), "night@example.com")

	thought := id(t, u.must("capture", "build", "the", "thing"))
	goal := id(t, u.must("goal", "add", "Health", "--color", "green"))
	first := id(t, u.must("mission", "add", "run 5k", "--goal", goal))
	second := id(t, u.must("mission", "add", "ship it"))

	board := u.must("board")
	assert.Contains(t, board, "NIGHT // CAPTURE")
	assert.Contains(t, board, "build the thing")
	assert.Contains(t, board, "run 5k")
	assert.Contains(t, board, "[Health]")

	assert.Contains(t, u.must("ignite", thought), "Ignited")
	assert.Contains(t, u.must("ignite", thought), "Extinguished")

	u.must("mode", "morning")
	assert.Contains(t, u.must("mission", "crush", first), "CRUSHED IT.")
	assert.Contains(t, u.must("mission", "done", second), "BOARD CLEARED")
	assert.Contains(t, u.must("mission", "done", second), "Reopened")

	assert.Contains(t, u.must("board"), "MORNING // MISSION")
	assert.Contains(t, u.must("streak"), "1 active days")
	assert.Contains(t, u.must("streak", "--run"), "1 day run")

	assert.Contains(t, u.must("mission", "rollover"), "Rolled over 2 missions")
	assert.Contains(t, u.must("mission", "recent"), "ship it")
	assert.Contains(t, u.must("mission", "recent", "--pick", "1"), "Added")

	assert.Contains(t, u.must("archive", thought), "Archived")
	assert.Contains(t, u.must("board", "--tab", "vault"), "build the thing")
	assert.Contains(t, u.must("thought", "rm", thought), "Deleted")

	u.must("logout")
	_, err := u.run("board")
	assert.ErrorIs(t, err, errSignedOut)
}

func TestVisions(t *testing.T) {
	_, server := startServer(t)
	u := signup(t, server, "vision@example.com")

	v := id(t, u.must("vision", "add", "Read 50 books", "--target", "50", "--unit", "books"))
	out := u.must("vision", "update", v, "25")
	assert.Contains(t, out, "50%")
	assert.Contains(t, out, "25 → 50 books")

	u.must("vision", "edit", v, "--content", "Read 100 books", "--target", "100")
	u.must("mode", "morning")
	board := u.must("board", "--tab", "vision")
	assert.Contains(t, board, "Read 100 books")
	assert.Contains(t, board, "25%")

	assert.Contains(t, u.must("vision", "update", v, "100"), "VISION REALIZED")
	u.must("vision", "rm", v)
	assert.Contains(t, u.must("board", "--tab", "vision"), "no visions yet")
}

func TestGuardsRunBeforeAnyRequest(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	huge := filepath.Join(t.TempDir(), "huge.png")
	f, err := os.Create(huge)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(200<<20))
	require.NoError(t, f.Close())

	u := newUser(t, srv.URL)
	for _, args := range [][]string{
		{"capture"},
		{"capture", "   "},
		{"capture", "look", "--image", huge},
		{"capture", "hue", "--color", "plaid"},
		{"mission", "add", "  "},
		{"mission", "cheer", "abc", " "},
		{"goal", "add", " "},
		{"vision", "add", "x", "--target", "-1"},
		{"vision", "update", "abc", "NaN"},
		{"signup", "--email", "not-an-email", "--password", testPassword},
		{"signup", "--email", "a@example.com", "--password", "short"},
		{"ally", "invite", "nobody"},
		{"watch", "--table", "secrets"},
	} {
		_, err := u.run(args...)
		assert.Error(t, err, "visionlog %s", strings.Join(args, " "))
	}
	assert.Zero(t, requests.Load())
}

func TestAllyCheerAndWatch(t *testing.T) {
	a, server := startServer(t)
	ana := signup(t, server, "ana@example.com")
	ben := signup(t, server, "ben@example.com")

	ana.must("ally", "invite", "ben@example.com")
	assert.Contains(t, ben.must("ally", "invites"), shortID(ana.userID()))
	assert.Contains(t, ben.must("ally", "confirm"), "Allied with")

	task := id(t, ana.must("mission", "add", "run 5k"))
	assert.Contains(t, ben.must("mission", "cheer", task, "go", "go"), "Cheered run 5k")
	assert.Contains(t, ana.must("board"), `"go go"`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watched := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- ana.runContext(ctx, watched, "", "watch", "--quiet")
	}()
	require.Eventually(t, func() bool { return a.Hub.Connections(ana.userID()) == 1 }, 5*time.Second, 20*time.Millisecond)

	mine := id(t, ben.must("mission", "add", "deadlift"))
	ben.must("mission", "crush", mine)

	require.Eventually(t, func() bool {
		return strings.Contains(watched.String(), "ALLY CRUSHED IT deadlift")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}

	assert.Contains(t, ben.must("ally", "sever", "--yes"), "Alliance severed")
	_, err := ben.run("mission", "cheer", task, "again")
	assert.Error(t, err)
}

func TestResolveByPrefix(t *testing.T) {
	rows := []string{"abc123", "abd456", "xyz789"}
	self := func(s string) string { return s }

	got, err := resolve(rows, self, "abc", "mission")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)

	_, err = resolve(rows, self, "ab", "mission")
	assert.ErrorContains(t, err, "matches 2 missions")

	_, err = resolve(rows, self, "q", "mission")
	assert.ErrorContains(t, err, "no mission")

	_, err = resolve(rows, self, "", "mission")
	assert.Error(t, err)
}

func TestGuidePrintsEverySlide(t *testing.T) {
	u := newUser(t, "http://127.0.0.1:1")
	out := u.must("guide")
	for _, want := range []string{"01 / 03", "DEFINE", "EXECUTE", "03 / 03", "MOMENTUM", "GET TO WORK"} {
		assert.Contains(t, out, want)
	}
}
