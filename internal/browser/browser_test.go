package browser

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/go-rod/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcess struct {
	launchErr error
	kills     atomic.Int32
}

func (f *fakeProcess) Launch() (string, error) {
	if f.launchErr != nil {
		return "", f.launchErr
	}
	return "ws://127.0.0.1:9222/devtools/browser/fake", nil
}

func (f *fakeProcess) Kill() { f.kills.Add(1) }

func tracked(p process) bool {
	launchedMu.Lock()
	defer launchedMu.Unlock()
	_, ok := launched[p]
	return ok
}

func TestStartKillsChromeWhenConnectFails(t *testing.T) {
	p := &fakeProcess{}
	_, _, err := start(p, func(string) (*rod.Browser, error) {
		return nil, errors.New("connection refused")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Chrome")
	assert.Equal(t, int32(1), p.kills.Load())
	assert.False(t, tracked(p))
}

func TestStartLaunchFailure(t *testing.T) {
	p := &fakeProcess{launchErr: errors.New("no chrome")}
	_, _, err := start(p, func(string) (*rod.Browser, error) {
		t.Fatal("connect must not run when launch fails")
		return nil, nil
	})
	require.Error(t, err)
	assert.Zero(t, p.kills.Load())
	assert.False(t, tracked(p))
}

func TestReleaseAndKillLaunched(t *testing.T) {
	ok := func(string) (*rod.Browser, error) { return rod.New(), nil }

	closed, leaked := &fakeProcess{}, &fakeProcess{}
	_, release, err := start(closed, ok)
	require.NoError(t, err)
	_, _, err = start(leaked, ok)
	require.NoError(t, err)
	assert.True(t, tracked(closed))
	assert.True(t, tracked(leaked))

	release()
	assert.False(t, tracked(closed))
	assert.Equal(t, int32(1), closed.kills.Load())

	// only the browser that was never released is left to kill
	assert.Equal(t, 1, KillLaunched())
	assert.Equal(t, int32(1), leaked.kills.Load())
	assert.Equal(t, int32(1), closed.kills.Load())
	assert.False(t, tracked(leaked))
	assert.Zero(t, KillLaunched())
}
