package bot

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/aichat/internal/bot/tasks"
	"github.com/edgard/aichat/internal/config"
	"github.com/edgard/aichat/internal/health"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_SchedulesEnabledTasks(t *testing.T) {
	var runs atomic.Int32
	taskMap := map[string]tasks.ScheduledTaskFunc{
		"sweep":    func(context.Context) error { runs.Add(1); return nil },
		"disabled": func(context.Context) error { return nil },
		"empty":    func(context.Context) error { return nil },
		"bad_cron": func(context.Context) error { return nil },
	}
	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"sweep":    {Enabled: true, Schedule: "0 */10 * * * *"},
		"disabled": {Enabled: false, Schedule: "0 */10 * * * *"},
		"empty":    {Enabled: true},
		"bad_cron": {Enabled: true, Schedule: "every tuesday"},
		"unknown":  {Enabled: true, Schedule: "0 */10 * * * *"},
	}}

	s, err := NewScheduler(testLogger(), cfg, taskMap)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	assert.Error(t, s.Start(), "second start must fail")

	assert.Equal(t, []string{"sweep"}, s.JobNames())

	require.NoError(t, s.RunNow("sweep"))
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Error(t, s.RunNow("unknown"))

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
}

// fakeTelegram answers getUpdates with an empty batch after a short delay.
func fakeTelegram(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/getUpdates") {
			select {
			case <-time.After(20 * time.Millisecond):
			case <-r.Context().Done():
				return
			}
			_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func newTestBot(t *testing.T, healthAddr string) *Bot {
	t.Helper()
	b, err := tgbot.New("123456:test-token", tgbot.WithServerURL(fakeTelegram(t)), tgbot.WithSkipGetMe())
	require.NoError(t, err)

	s, err := NewScheduler(testLogger(), &config.SchedulerConfig{}, nil)
	require.NoError(t, err)

	return NewBot(testLogger(), b, health.NewServer(healthAddr, testLogger()), s)
}

func TestBot_RunStopsOnCancel(t *testing.T) {
	b := newTestBot(t, "127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("bot did not stop after cancellation")
	}
}

func TestBot_RunFailsWhenHealthPortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	b := newTestBot(t, ln.Addr().String())

	done := make(chan error, 1)
	go func() { done <- b.Run(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to bind health endpoint")
	case <-time.After(10 * time.Second):
		t.Fatal("bot did not fail on bind error")
	}
}
