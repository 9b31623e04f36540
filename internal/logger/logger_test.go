package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHub struct {
	mu       sync.Mutex
	messages []LogEntry
}

func (h *recordingHub) Broadcast(msgType string, payload any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if msgType == MessageLogEntry {
		h.messages = append(h.messages, payload.(LogEntry))
	}
	return nil
}

func TestRingBuffer_Overwrite(t *testing.T) {
	rb := NewRingBuffer[int](3)
	assert.Equal(t, 3, rb.Cap())
	assert.Empty(t, rb.GetAll())

	for i := 1; i <= 5; i++ {
		rb.Push(i)
	}

	assert.Equal(t, 3, rb.Len())
	assert.Equal(t, []int{3, 4, 5}, rb.GetAll())

	rb.Clear()
	assert.Equal(t, 0, rb.Len())
	rb.Push(9)
	assert.Equal(t, []int{9}, rb.GetAll())
}

func TestLogBroadcaster_Write(t *testing.T) {
	hub := &recordingHub{}
	b := NewLogBroadcaster(nil, 10)

	_, err := b.Write([]byte(`{"level":"info","time":"2026-01-02T03:04:05Z","component":"slots","message":"parsed","release":"Movie"}`))
	require.NoError(t, err)

	b.SetHub(hub)
	_, err = b.Write([]byte(`{"level":"warn","message":"second"}`))
	require.NoError(t, err)

	n, err := b.Write([]byte("not json"))
	require.NoError(t, err)
	assert.Equal(t, len("not json"), n)

	logs := b.GetRecentLogs()
	require.Len(t, logs, 2)
	assert.Equal(t, "info", logs[0].Level)
	assert.Equal(t, "slots", logs[0].Component)
	assert.Equal(t, "parsed", logs[0].Message)
	assert.Equal(t, "2026-01-02T03:04:05Z", logs[0].Timestamp)
	assert.Equal(t, map[string]any{"release": "Movie"}, logs[0].Fields)
	assert.Nil(t, logs[1].Fields)

	require.Len(t, hub.messages, 1)
	assert.Equal(t, "second", hub.messages[0].Message)
}

func TestFilterEntries(t *testing.T) {
	entries := []LogEntry{
		{Level: "debug", Component: "slots", Message: "a"},
		{Level: "info", Component: "quality", Message: "b"},
		{Level: "warn", Component: "slots", Message: "c"},
		{Level: "error", Component: "api", Message: "d"},
	}

	tests := []struct {
		name   string
		filter LogFilter
		want   []string
	}{
		{"no filter", LogFilter{}, []string{"a", "b", "c", "d"}},
		{"min level", LogFilter{MinLevel: "warn"}, []string{"c", "d"}},
		{"component", LogFilter{Component: "SLOTS"}, []string{"a", "c"}},
		{"limit keeps newest", LogFilter{Limit: 2}, []string{"c", "d"}},
		{"combined", LogFilter{MinLevel: "info", Component: "slots", Limit: 5}, []string{"c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterEntries(entries, tt.filter)
			messages := make([]string, len(got))
			for i, e := range got {
				messages[i] = e.Message
			}
			assert.Equal(t, tt.want, messages)
		})
	}
}

func TestNew_StreamingAndFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	log := New(Config{
		Level:           "debug",
		Format:          "json",
		Path:            dir,
		EnableStreaming: true,
		BufferSize:      5,
		Output:          &console,
	})
	defer log.Close()

	hub := &recordingHub{}
	log.SetBroadcastHub(hub)

	log.Info().Str("component", "api").Msg("listening")
	slotsLog := log.WithComponent("slots")
	slotsLog.Warn().Msg("slow parse")

	assert.Contains(t, console.String(), `"message":"listening"`)
	assert.Equal(t, filepath.Join(dir, LogFileName), log.GetLogFilePath())

	data, err := os.ReadFile(log.GetLogFilePath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "slow parse")

	recent := log.GetRecentLogs()
	require.Len(t, recent, 2)
	assert.Equal(t, "api", recent[0].Component)
	assert.Equal(t, "slots", recent[1].Component)
	assert.Len(t, hub.messages, 2)

	warnings := log.QueryLogs(LogFilter{MinLevel: "warn"})
	require.Len(t, warnings, 1)
	assert.Equal(t, "slow parse", warnings[0].Message)
}

func TestNew_WithoutStreaming(t *testing.T) {
	log := New(Config{Level: "info", Output: &bytes.Buffer{}})
	defer log.Close()

	log.Info().Msg("hello")
	assert.Nil(t, log.GetRecentLogs())
	assert.Empty(t, log.QueryLogs(LogFilter{}))
	assert.Empty(t, log.GetLogFilePath())
	log.SetBroadcastHub(&recordingHub{})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", ParseLevel("DEBUG").String())
	assert.Equal(t, "warn", ParseLevel("warning").String())
	assert.Equal(t, "info", ParseLevel("bogus").String())
}
