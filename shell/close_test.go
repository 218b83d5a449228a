package shell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"quillgo/settings"
)

type closeFixture struct {
	ctrl   *CloseController
	window *MockNativeWindow
	runner *MockScriptRunner
	store  *MockGeometryStore
	jobs   *capturedJobs
}

func newCloseFixture(t *testing.T) *closeFixture {
	mc := gomock.NewController(t)
	f := &closeFixture{
		window: NewMockNativeWindow(mc),
		runner: NewMockScriptRunner(mc),
		store:  NewMockGeometryStore(mc),
		jobs:   &capturedJobs{},
	}
	f.ctrl = NewCloseController(f.window, f.runner, f.store, f.jobs, nil)
	return f
}

func TestFirstCloseIsAlwaysDenied(t *testing.T) {
	f := newCloseFixture(t)

	assert.False(t, f.ctrl.OnCloseRequested())
	assert.Equal(t, CloseIdle, f.ctrl.State())
	require.Equal(t, []string{"app-close"}, f.jobs.names)

	// The page is signalled from the worker, never inline.
	f.runner.EXPECT().EvalJS(gomock.Any(), "window._quillHandleAppClose()").Return(nil)
	for _, err := range f.jobs.runAll(t) {
		assert.NoError(t, err)
	}

	// Without a confirmation the window stays open, however often it is asked.
	assert.False(t, f.ctrl.OnCloseRequested())
	assert.Len(t, f.jobs.names, 2)
}

func TestConfirmedCloseSavesGeometryAndAllows(t *testing.T) {
	f := newCloseFixture(t)
	require.False(t, f.ctrl.OnCloseRequested())
	f.jobs.jobs = nil

	f.ctrl.ConfirmClose()
	assert.Equal(t, CloseForced, f.ctrl.State())
	require.Equal(t, "force-close", f.jobs.names[len(f.jobs.names)-1])

	f.window.EXPECT().RequestClose().Return(nil)
	f.jobs.runAll(t)

	g := settings.Geometry{X: 12, Y: 34, Width: 1100, Height: 760}
	gomock.InOrder(
		f.window.EXPECT().Bounds().Return(g, nil),
		f.store.EXPECT().SetGeometry(g),
	)
	assert.True(t, f.ctrl.OnCloseRequested())
	assert.Equal(t, CloseTerminated, f.ctrl.State())

	// Terminated is final.
	assert.True(t, f.ctrl.OnCloseRequested())
	f.ctrl.ConfirmClose()
	assert.Empty(t, f.jobs.jobs)
}

func TestGeometryFailureDoesNotBlockClose(t *testing.T) {
	f := newCloseFixture(t)
	f.ctrl.ConfirmClose()

	f.window.EXPECT().Bounds().Return(settings.Geometry{}, errors.New("window gone"))
	assert.True(t, f.ctrl.OnCloseRequested())
	assert.Equal(t, CloseTerminated, f.ctrl.State())
}

func TestEmptyBoundsAreNotPersisted(t *testing.T) {
	f := newCloseFixture(t)
	f.ctrl.ConfirmClose()

	f.window.EXPECT().Bounds().Return(settings.Geometry{X: 5}, nil)
	assert.True(t, f.ctrl.OnCloseRequested())
}

func TestCloseDeniedEvenWhenDispatchFails(t *testing.T) {
	f := newCloseFixture(t)
	f.jobs.err = ErrQueueFull

	assert.False(t, f.ctrl.OnCloseRequested())
	assert.Equal(t, CloseIdle, f.ctrl.State())
}

func TestCloseStateString(t *testing.T) {
	assert.Equal(t, "idle", CloseIdle.String())
	assert.Equal(t, "force-close", CloseForced.String())
	assert.Equal(t, "unknown", CloseState(42).String())
}

func TestUnconfirmedCloseKeepsTrackedBounds(t *testing.T) {
	f := newCloseFixture(t)
	g := settings.Geometry{X: 7, Y: 8, Width: 900, Height: 640}

	f.ctrl.TrackBounds()
	require.Equal(t, []string{"track-bounds"}, f.jobs.names)
	f.window.EXPECT().Bounds().Return(g, nil)
	f.jobs.runAll(t)

	got, ok := f.ctrl.LastBounds()
	require.True(t, ok)
	assert.Equal(t, g, got)

	f.store.EXPECT().SetGeometry(g)
	f.ctrl.Finish()
	assert.Equal(t, CloseTerminated, f.ctrl.State())

	// Only once.
	f.ctrl.Finish()
}

func TestTrackBoundsIgnoresFailures(t *testing.T) {
	f := newCloseFixture(t)
	f.ctrl.TrackBounds()
	f.ctrl.TrackBounds()
	gomock.InOrder(
		f.window.EXPECT().Bounds().Return(settings.Geometry{}, errors.New("window gone")),
		f.window.EXPECT().Bounds().Return(settings.Geometry{Width: 0, Height: 300}, nil),
	)
	f.jobs.runAll(t)

	_, ok := f.ctrl.LastBounds()
	assert.False(t, ok)
	f.ctrl.Finish()
	assert.Equal(t, CloseTerminated, f.ctrl.State())
}

func TestFinishAfterConfirmedCloseKeepsHandshakeGeometry(t *testing.T) {
	f := newCloseFixture(t)
	tracked := settings.Geometry{X: 1, Y: 1, Width: 500, Height: 400}
	final := settings.Geometry{X: 2, Y: 2, Width: 800, Height: 600}

	f.ctrl.TrackBounds()
	f.window.EXPECT().Bounds().Return(tracked, nil)
	f.jobs.runAll(t)

	f.ctrl.ConfirmClose()
	f.window.EXPECT().RequestClose().Return(nil)
	f.jobs.runAll(t)

	gomock.InOrder(
		f.window.EXPECT().Bounds().Return(final, nil),
		f.store.EXPECT().SetGeometry(final),
	)
	require.True(t, f.ctrl.OnCloseRequested())
	f.ctrl.Finish()
}
