package e2e_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhuravskayyar/cardastica-server/internal/api"
	"github.com/zhuravskayyar/cardastica-server/internal/factory"
	"github.com/zhuravskayyar/cardastica-server/internal/services/presence"
	"github.com/zhuravskayyar/cardastica-server/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "cardctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/cardctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	app  *factory.App
	addr string
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := testutil.NopLogger()

	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		Registry:      app.Presence,
		Gateway:       app.Gateway,
		AllowedOrigin: "*",
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	})

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		app:  app,
		addr: serverURL,
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type onlineResponse struct {
	OK    bool `json:"ok"`
	Count int  `json:"count"`
	List  []struct {
		PlayerID string `json:"playerId"`
		Name     string `json:"name"`
		Power    *int   `json:"power"`
	} `json:"list"`
}

type playerResponse struct {
	OK     bool `json:"ok"`
	Player *struct {
		PlayerID string `json:"playerId"`
		Name     string `json:"name"`
		Profile  struct {
			Name    string `json:"name"`
			Title   string `json:"title"`
			Ratings struct {
				Deck   int    `json:"deck"`
				League string `json:"league"`
			} `json:"ratings"`
		} `json:"profile"`
	} `json:"player"`
}

func TestCLIHealth(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var health struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &health))
	assert.Equal(t, "ok", health.Status)
}

func TestCLIOnlineList(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.addr)

	ctx := context.Background()
	require.NoError(t, ts.app.Presence.Hello(ctx, presence.HelloInput{
		PlayerID: "p1", Name: "Alice", Power: float64(1200),
	}))
	require.NoError(t, ts.app.Presence.Hello(ctx, presence.HelloInput{
		PlayerID: "p2", Name: "Bob", Power: float64(900),
	}))

	output, err := cli.run("online")
	require.NoError(t, err, "output: %s", output)

	var list onlineResponse
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Equal(t, 2, list.Count)
	assert.Equal(t, "p1", list.List[0].PlayerID) // higher power first
	assert.Equal(t, "p2", list.List[1].PlayerID)
}

func TestCLIOnlineQuery(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.addr)

	ctx := context.Background()
	require.NoError(t, ts.app.Presence.Hello(ctx, presence.HelloInput{
		PlayerID: "p1", Name: "Zorana",
	}))
	require.NoError(t, ts.app.Presence.Hello(ctx, presence.HelloInput{
		PlayerID: "p2", Name: "Mira",
	}))

	output, err := cli.run("online", "zor")
	require.NoError(t, err, "output: %s", output)

	var list onlineResponse
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Zorana", list.List[0].Name)
}

func TestCLIPlayerProfile(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.addr)

	require.NoError(t, ts.app.Presence.Hello(context.Background(), presence.HelloInput{
		PlayerID: "p1", Name: "Alice", Power: float64(1200), League: "Gold",
	}))

	output, err := cli.run("player", "p1")
	require.NoError(t, err, "output: %s", output)

	var player playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &player))
	require.True(t, player.OK)
	require.NotNil(t, player.Player)
	assert.Equal(t, "Alice", player.Player.Name)
	assert.Equal(t, 1200, player.Player.Profile.Ratings.Deck)
	assert.Equal(t, "Gold", player.Player.Profile.Ratings.League)
}

func TestCLIPlayerNotFound(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "ghost")
	require.Error(t, err)
	assert.Contains(t, output, "PLAYER_NOT_FOUND")
}
