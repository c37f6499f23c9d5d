package app

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/authkit/log"
)

type fakeServer struct {
	runErr   error
	stop     chan struct{}
	once     sync.Once
	shutdown bool
	mu       sync.Mutex
}

func newFakeServer() *fakeServer {
	return &fakeServer{stop: make(chan struct{})}
}

func (s *fakeServer) Run() error {
	if s.runErr != nil {
		return s.runErr
	}
	<-s.stop
	return http.ErrServerClosed
}

func (s *fakeServer) Shutdown(context.Context) error {
	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()
	s.once.Do(func() { close(s.stop) })
	return nil
}

func (s *fakeServer) wasShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown
}

func TestNew(t *testing.T) {
	app := New(WithServer(newFakeServer(), nil, newFakeServer()), nil)

	info := app.Info()
	assert.Equal(t, 2, info.ServerCount)
	assert.False(t, info.Started)
}

func TestStartStop(t *testing.T) {
	s := newFakeServer()
	var closed []string
	var mu sync.Mutex
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			closed = append(closed, name)
			return nil
		}
	}

	app := New(
		WithLogger(log.Nop()),
		WithServer(s),
		WithClose("logger", record("logger"), 0),
		WithClose("database", record("database"), time.Second),
	)
	require.NoError(t, app.RegisterClose("redis", record("redis"), 0))

	go func() {
		time.Sleep(50 * time.Millisecond)
		app.Stop()
	}()

	require.NoError(t, app.Start())
	assert.True(t, s.wasShutdown())
	assert.Equal(t, []string{"redis", "database", "logger"}, closed)

	assert.ErrorIs(t, app.Start(), ErrAlreadyStarted)
	assert.ErrorIs(t, app.AddServer(newFakeServer()), ErrAlreadyStarted)
}

func TestContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newFakeServer()
	app := New(WithContext(ctx), WithLogger(log.Nop()), WithServer(s))
	require.NoError(t, app.Start())
	assert.True(t, s.wasShutdown())
}

func TestServerFailure(t *testing.T) {
	bad := newFakeServer()
	bad.runErr = errors.New("listen tcp :80: bind: permission denied")
	good := newFakeServer()

	closed := false
	app := New(
		WithLogger(log.Nop()),
		WithServer(bad, good),
		WithClose("x", func(context.Context) error { closed = true; return nil }, 0),
	)

	err := app.Start()
	assert.EqualError(t, err, "listen tcp :80: bind: permission denied")
	assert.True(t, good.wasShutdown())
	assert.True(t, closed, "close functions run on failure too")
}

func TestAddNil(t *testing.T) {
	app := New()
	assert.ErrorIs(t, app.AddServer(nil), ErrNilServer)
	assert.ErrorIs(t, app.RegisterClose("x", nil, 0), ErrNilClose)

	New(WithClose("nil", nil, 0))
	assert.Equal(t, 0, app.Info().CloseCount)
}

func TestCloseFuncPanic(t *testing.T) {
	app := New(WithLogger(log.Nop()))
	err := app.runCloseTask(CloseFunc{Name: "panic", Fn: func(context.Context) error { panic("boom") }})
	assert.ErrorIs(t, err, ErrClosePanic)
}

func TestCloseFuncTimeout(t *testing.T) {
	app := New(WithLogger(log.Nop()))
	err := app.runCloseTask(CloseFunc{
		Name:    "slow",
		Timeout: 10 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			time.Sleep(time.Second)
			return nil
		},
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCloseBeforeStart(t *testing.T) {
	var closed []string
	app := New(WithLogger(log.Nop()))
	require.NoError(t, app.RegisterClose("a", func(context.Context) error { closed = append(closed, "a"); return nil }, 0))
	require.NoError(t, app.RegisterClose("b", func(context.Context) error { closed = append(closed, "b"); return nil }, 0))

	app.Close()
	assert.Equal(t, []string{"b", "a"}, closed)
}
