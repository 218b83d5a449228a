package bridge

import (
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quillgo/logging"
)

type recordingRouter struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (r *recordingRouter) OpenFiles(paths []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, paths...)
	return r.err
}

// shortSocketPath keeps the socket path under the sun_path length limit.
func shortSocketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "qh")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return SocketPath(dir)
}

func startHandoff(t *testing.T, router HandoffRouter) string {
	t.Helper()
	sock := shortSocketPath(t)
	srv, err := NewHandoffServer(sock, router, nil)
	require.NoError(t, err)
	go srv.Serve()
	t.Cleanup(srv.Close)
	return sock
}

func TestHandoffOpenFiles(t *testing.T) {
	router := &recordingRouter{}
	sock := startHandoff(t, router)
	client := NewHandoffClient(sock)

	assert.True(t, client.Ping())
	require.NoError(t, client.OpenFiles([]string{"/docs/a.md", "/docs/b.md"}))

	router.mu.Lock()
	defer router.mu.Unlock()
	assert.Equal(t, []string{"/docs/a.md", "/docs/b.md"}, router.paths)
}

func TestHandoffRouterError(t *testing.T) {
	sock := startHandoff(t, &recordingRouter{err: errors.New("window gone")})
	err := NewHandoffClient(sock).OpenFiles([]string{"/a.md"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window gone")
}

func TestHandoffPingWithoutPrimary(t *testing.T) {
	assert.False(t, NewHandoffClient(shortSocketPath(t)).Ping())
}

func TestHandoffUnknownRequest(t *testing.T) {
	srv := &HandoffServer{router: &recordingRouter{}, logger: logging.Discard()}
	resp := srv.handleRequest([]byte(`{"type":"Shutdown"}`))
	assert.Equal(t, "Error", resp.Type)
	assert.Equal(t, CodeMethodNotFound, resp.Code)

	resp = srv.handleRequest([]byte(`nope`))
	assert.Equal(t, CodeParseError, resp.Code)
}
