package terminal

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *PtyManager {
	t.Helper()
	return NewPtyManager(WithShell("/bin/sh"), WithOutput(io.Discard))
}

func TestPtyManager_CreateAndFind(t *testing.T) {
	m := newTestManager(t)

	term, err := m.Create("Tunnel: demo/app1")
	require.NoError(t, err)
	defer func() { _ = term.Dispose() }()

	assert.Equal(t, "Tunnel: demo/app1", term.Name())
	assert.Greater(t, term.PID(), 0)

	found, ok := m.Find("Tunnel: demo/app1")
	require.True(t, ok)
	assert.Equal(t, term.PID(), found.PID())

	_, ok = m.Find("Tunnel: other")
	assert.False(t, ok)
}

func TestPtyManager_DuplicateNameRejected(t *testing.T) {
	m := newTestManager(t)

	term, err := m.Create("dup")
	require.NoError(t, err)
	defer func() { _ = term.Dispose() }()

	_, err = m.Create("dup")
	assert.Error(t, err)
}

func TestPtyManager_CloseNotificationCarriesPID(t *testing.T) {
	m := newTestManager(t)

	closed := make(chan int, 1)
	m.OnDidClose(func(pid int) { closed <- pid })

	term, err := m.Create("closing")
	require.NoError(t, err)

	require.NoError(t, term.SendText("exit"))

	select {
	case pid := <-closed:
		assert.Equal(t, term.PID(), pid)
	case <-time.After(10 * time.Second):
		t.Fatal("closure notification never fired")
	}

	_, ok := m.Find("closing")
	assert.False(t, ok, "closed terminal must leave the registry")
}

func TestPtyManager_DisposeTriggersClosure(t *testing.T) {
	m := newTestManager(t)

	closed := make(chan int, 1)
	m.OnDidClose(func(pid int) { closed <- pid })

	term, err := m.Create("killed")
	require.NoError(t, err)
	require.NoError(t, term.Dispose())

	select {
	case pid := <-closed:
		assert.Equal(t, term.PID(), pid)
	case <-time.After(10 * time.Second):
		t.Fatal("closure notification never fired after dispose")
	}
}
