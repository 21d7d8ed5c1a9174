package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"sigil/internal/app"
	"sigil/internal/domain"
)

// setupHome points the CLI at a fresh data dir with cheap argon2 costs.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, app.ConfigFilename), []byte(
		"kdf:\n  time: 1\n  memory_kib: 64\n  threads: 1\n"), 0o600))
	t.Setenv(app.EnvHome, home)
	t.Setenv(app.EnvRelay, "")
	t.Setenv(app.EnvLogLevel, "")
	t.Setenv(app.EnvLogFormat, "")
	t.Setenv(EnvPassword, "")
	return home
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

var idLine = regexp.MustCompile(`ID:\s+(\S+)`)

func TestCLI_AccountLifecycle(t *testing.T) {
	setupHome(t)

	out, err := run(t, "", "account", "list")
	require.NoError(t, err)
	require.Contains(t, out, "No accounts.")

	_, err = run(t, "", "account", "create", "Alice")
	require.ErrorContains(t, err, "password required")

	out, err = run(t, "", "account", "create", "Alice", "-p", "pw")
	require.NoError(t, err)
	require.Contains(t, out, "Active: true")
	alice := idLine.FindStringSubmatch(out)[1]

	t.Setenv(EnvPassword, "pw")
	out, err = run(t, "nsec1vl029mgpspedva04g90vltkh6fvh240zqtv9k0t9af8935ke9laqsnlfe5\n", "account", "import", "Bob")
	require.NoError(t, err)
	require.Contains(t, out, "Active: false")
	bob := idLine.FindStringSubmatch(out)[1]

	out, err = run(t, "", "account", "list")
	require.NoError(t, err)
	require.Contains(t, out, "Alice")
	require.Contains(t, out, "Bob")

	_, err = run(t, "", "account", "use", bob)
	require.NoError(t, err)
	_, err = run(t, "", "account", "use", "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)

	out, err = run(t, "", "account", "delete", bob)
	require.NoError(t, err)
	require.Contains(t, out, "Active account: "+alice)

	_, err = run(t, "", "account", "delete", alice, "-p", "wrong")
	require.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestCLI_SignAndVerify(t *testing.T) {
	setupHome(t)
	t.Setenv(EnvPassword, "pw")

	_, err := run(t, "", "sign", "hello")
	require.Error(t, err, "no account yet")

	_, err = run(t, "", "account", "create", "Alice")
	require.NoError(t, err)

	out, err := run(t, "", "sign", "hello", "-t", "t,nostr")
	require.NoError(t, err)
	var ev domain.SignedEvent
	require.NoError(t, json.Unmarshal([]byte(out), &ev))
	require.Equal(t, "hello", ev.Content)
	require.Equal(t, [][]string{{"t", "nostr"}}, ev.Tags)

	out, err = run(t, out, "verify")
	require.NoError(t, err)
	require.Contains(t, out, "Valid event "+ev.ID)

	ev.Content = "hellp"
	tampered, err := json.Marshal(ev)
	require.NoError(t, err)
	_, err = run(t, "", "verify", string(tampered))
	require.ErrorIs(t, err, errInvalidSignature)

	_, err = run(t, "", "verify", `{"id":"xyz"}`)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestCLI_Post(t *testing.T) {
	setupHome(t)
	t.Setenv(EnvPassword, "pw")
	_, err := run(t, "", "account", "create", "Alice")
	require.NoError(t, err)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var frame []json.RawMessage
		if json.Unmarshal(data, &frame) != nil || len(frame) != 2 {
			return
		}
		var ev domain.SignedEvent
		if json.Unmarshal(frame[1], &ev) != nil {
			return
		}
		reply, _ := json.Marshal([]any{"OK", ev.ID, ev.Content != "spam", "blocked: spam"})
		_ = conn.WriteMessage(websocket.TextMessage, reply)
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()
	relayAddr := "ws" + strings.TrimPrefix(srv.URL, "http")

	out, err := run(t, "", "post", "hello", "--relay", relayAddr)
	require.NoError(t, err)
	require.Contains(t, out, "Published ")

	_, err = run(t, "", "post", "spam", "--relay", relayAddr)
	require.ErrorContains(t, err, "blocked: spam")

	_, err = run(t, "", "post", "hello", "--relay", "https://relay.example")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestCLI_Keygen(t *testing.T) {
	home := setupHome(t)
	out, err := run(t, "", "keygen")
	require.NoError(t, err)
	require.Regexp(t, `Secret key: nsec1`, out)
	require.Regexp(t, `Public key: npub1`, out)

	_, err = os.Stat(filepath.Join(home, "keystore.json"))
	require.True(t, os.IsNotExist(err))
}
