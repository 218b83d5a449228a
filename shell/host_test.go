package shell

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type hostFixture struct {
	host   *Host
	token  *StartupToken
	runner *MockScriptRunner
	window *MockNativeWindow
	jobs   *capturedJobs
}

func newHostFixture(t *testing.T, launch string) *hostFixture {
	mc := gomock.NewController(t)
	f := &hostFixture{
		token:  NewStartupToken(launch),
		runner: NewMockScriptRunner(mc),
		window: NewMockNativeWindow(mc),
		jobs:   &capturedJobs{},
	}
	f.host = NewHost(HostOptions{
		Token:     f.token,
		Deliverer: NewDeliverer(f.jobs, f.runner, fastPolicy(2), nil),
		Closer:    NewCloseController(f.window, f.runner, NewMockGeometryStore(mc), f.jobs, nil),
		QueueSize: 2,
	})
	return f
}

func TestFileOpenBeforePullGoesToToken(t *testing.T) {
	f := newHostFixture(t, "")
	f.host.handle(Event{Kind: EventFileOpened, Path: "/docs/early.md"})

	assert.Empty(t, f.jobs.names, "nothing is pushed while the page can still pull")
	p, ok := f.token.Take()
	assert.True(t, ok)
	assert.Equal(t, "/docs/early.md", p)
}

func TestFileOpenAfterPullIsPushed(t *testing.T) {
	f := newHostFixture(t, "")
	f.token.Take()
	path := writeDoc(t, "late.md", "late")

	f.host.handle(Event{Kind: EventFileOpened, Path: path})
	require.Equal(t, []string{"deliver-file"}, f.jobs.names)

	f.runner.EXPECT().EvalJS(gomock.Any(), OpenFileScript(path, "late")).Return(nil)
	f.jobs.runAll(t)
}

func TestFileOpenWithPendingLaunchFileIsPushed(t *testing.T) {
	f := newHostFixture(t, "/docs/launch.md")
	f.host.handle(Event{Kind: EventFileOpened, Path: "/docs/second.md"})
	assert.Equal(t, []string{"deliver-file"}, f.jobs.names)

	p, _ := f.token.Take()
	assert.Equal(t, "/docs/launch.md", p)
}

func TestNonDocumentOpenEventsAreIgnored(t *testing.T) {
	f := newHostFixture(t, "")
	f.host.handle(Event{Kind: EventFileOpened, Path: "/usr/bin/python3.py"})
	assert.Empty(t, f.jobs.names)
	assert.True(t, f.token.Offer("/still/free.md"))
}

func TestResizeAndLoadTrackBounds(t *testing.T) {
	f := newHostFixture(t, "")
	f.host.handle(Event{Kind: EventMoved, X: 10, Y: 10})
	assert.Empty(t, f.jobs.names)

	f.host.handle(Event{Kind: EventResized, Width: 800, Height: 600})
	f.host.handle(Event{Kind: EventLoaded})
	assert.Equal(t, []string{"track-bounds", "track-bounds"}, f.jobs.names)
}

func TestHandleCloseDelegates(t *testing.T) {
	f := newHostFixture(t, "")
	assert.False(t, f.host.HandleClose())
	assert.Equal(t, []string{"app-close"}, f.jobs.names)
}

func TestPostDropsWhenFull(t *testing.T) {
	f := newHostFixture(t, "")
	assert.True(t, f.host.Post(Event{Kind: EventMoved}))
	assert.True(t, f.host.Post(Event{Kind: EventMoved}))
	assert.False(t, f.host.Post(Event{Kind: EventMoved}))
	assert.Error(t, f.host.OpenFiles([]string{"/a.md"}))
}

func TestRunConsumesUntilCancelled(t *testing.T) {
	f := newHostFixture(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.host.Run(ctx) }()

	require.NoError(t, f.host.OpenFiles([]string{"/docs/handoff.md"}))
	require.Eventually(t, func() bool {
		f.token.mu.Lock()
		defer f.token.mu.Unlock()
		return f.token.set
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
	assert.False(t, f.host.Post(Event{Kind: EventLoaded}))
	assert.ErrorIs(t, f.host.OpenFiles([]string{"/x.md"}), ErrQueueClosed)

	p, _ := f.token.Take()
	assert.Equal(t, "/docs/handoff.md", p)
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "file-opened", EventFileOpened.String())
	assert.Equal(t, "event(9)", EventKind(9).String())
}
