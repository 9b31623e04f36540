package logger

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const defaultBufferSize = 1000

// MessageLogEntry is the websocket message type of a streamed log entry.
const MessageLogEntry = "logs:entry"

// Broadcaster is the interface for broadcasting messages.
type Broadcaster interface {
	Broadcast(msgType string, payload any) error
}

// LogEntry represents a parsed log entry for streaming.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Component string         `json:"component,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// LogFilter narrows the buffered entries returned by Query.
type LogFilter struct {
	MinLevel  string // entries below this level are dropped
	Component string
	Limit     int // newest N entries, 0 for all
}

// LogBroadcaster implements io.Writer. It keeps recent zerolog JSON entries
// in a ring buffer and forwards each one to the hub.
type LogBroadcaster struct {
	hub    Broadcaster
	buffer *RingBuffer[LogEntry]
	mu     sync.RWMutex
}

// NewLogBroadcaster creates a new log broadcaster.
// Hub can be nil initially and set later with SetHub.
func NewLogBroadcaster(hub Broadcaster, bufferSize int) *LogBroadcaster {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &LogBroadcaster{
		hub:    hub,
		buffer: NewRingBuffer[LogEntry](bufferSize),
	}
}

// SetHub sets the broadcaster hub for sending messages.
func (b *LogBroadcaster) SetHub(hub Broadcaster) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hub = hub
}

// Write implements io.Writer.
func (b *LogBroadcaster) Write(p []byte) (n int, err error) {
	n = len(p)

	entry, parseErr := parseLogEntry(p)
	if parseErr != nil {
		return n, nil //nolint:nilerr // Silently ignore malformed log entries
	}

	b.buffer.Push(entry)

	b.mu.RLock()
	hub := b.hub
	b.mu.RUnlock()

	if hub != nil {
		_ = hub.Broadcast(MessageLogEntry, entry)
	}

	return n, nil
}

// GetRecentLogs returns all buffered log entries, oldest first.
func (b *LogBroadcaster) GetRecentLogs() []LogEntry {
	return b.buffer.GetAll()
}

// Query returns the buffered entries accepted by the filter, oldest first.
func (b *LogBroadcaster) Query(filter LogFilter) []LogEntry {
	return FilterEntries(b.buffer.GetAll(), filter)
}

// FilterEntries applies a filter to entries ordered oldest first.
func FilterEntries(entries []LogEntry, filter LogFilter) []LogEntry {
	minLevel := zerolog.TraceLevel
	if filter.MinLevel != "" {
		minLevel = ParseLevel(filter.MinLevel)
	}

	result := make([]LogEntry, 0, len(entries))
	for _, e := range entries {
		if filter.Component != "" && !strings.EqualFold(e.Component, filter.Component) {
			continue
		}
		if lvl, err := zerolog.ParseLevel(e.Level); err == nil && lvl < minLevel {
			continue
		}
		result = append(result, e)
	}

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[len(result)-filter.Limit:]
	}
	return result
}

func parseLogEntry(data []byte) (LogEntry, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return LogEntry{}, err
	}

	entry := LogEntry{}

	if ts, ok := raw[zerolog.TimestampFieldName].(string); ok {
		entry.Timestamp = ts
		delete(raw, zerolog.TimestampFieldName)
	}
	if level, ok := raw[zerolog.LevelFieldName].(string); ok {
		entry.Level = level
		delete(raw, zerolog.LevelFieldName)
	}
	if component, ok := raw["component"].(string); ok {
		entry.Component = component
		delete(raw, "component")
	}
	if msg, ok := raw[zerolog.MessageFieldName].(string); ok {
		entry.Message = msg
		delete(raw, zerolog.MessageFieldName)
	}

	if len(raw) > 0 {
		entry.Fields = raw
	}

	return entry, nil
}
