// Package progress tracks long running activities, such as folder scans,
// and broadcasts their state to connected WebSocket clients.
package progress

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ActivityType identifies the type of activity being tracked.
type ActivityType string

const (
	ActivityTypeScan ActivityType = "scan"
)

// Status represents the current state of an activity.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Activity represents a trackable activity with progress.
type Activity struct {
	ID          string         `json:"id"`
	Type        ActivityType   `json:"type"`
	Title       string         `json:"title"`
	Subtitle    string         `json:"subtitle"`
	Progress    int            `json:"progress"` // 0-100, -1 for indeterminate
	Status      Status         `json:"status"`
	StartedAt   time.Time      `json:"startedAt"`
	CompletedAt *time.Time     `json:"completedAt"`
	Metadata    map[string]any `json:"metadata"`
}

// EventType identifies the type of progress event.
type EventType string

const (
	EventTypeStarted   EventType = "progress:started"
	EventTypeUpdate    EventType = "progress:update"
	EventTypeCompleted EventType = "progress:completed"
	EventTypeError     EventType = "progress:error"
)

// Broadcaster delivers events to clients.
type Broadcaster interface {
	Broadcast(msgType string, payload any) error
}

// Manager tracks and broadcasts progress for all activities.
type Manager struct {
	hub        Broadcaster
	activities map[string]*Activity
	mu         sync.RWMutex
	logger     zerolog.Logger
	now        func() time.Time
}

// NewManager creates a new progress manager. hub may be nil.
func NewManager(hub Broadcaster, logger zerolog.Logger) *Manager {
	return &Manager{
		hub:        hub,
		activities: make(map[string]*Activity),
		logger:     logger.With().Str("component", "progress").Logger(),
		now:        time.Now,
	}
}

// StartActivity creates and starts tracking a new activity.
func (m *Manager) StartActivity(id string, activityType ActivityType, title string) *Activity {
	m.mu.Lock()
	defer m.mu.Unlock()

	activity := &Activity{
		ID:        id,
		Type:      activityType,
		Title:     title,
		Subtitle:  "Starting...",
		Progress:  -1,
		Status:    StatusInProgress,
		StartedAt: m.now(),
		Metadata:  make(map[string]any),
	}

	m.activities[id] = activity
	m.broadcast(EventTypeStarted, activity)

	m.logger.Debug().
		Str("id", id).
		Str("type", string(activityType)).
		Str("title", title).
		Msg("Activity started")

	return activity
}

// UpdateActivity updates an in-progress activity. Updates to finished or
// unknown activities are ignored.
func (m *Manager) UpdateActivity(id string, subtitle string, progress int, metadata map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	activity, ok := m.activities[id]
	if !ok || activity.Status != StatusInProgress {
		return
	}

	activity.Subtitle = subtitle
	activity.Progress = progress
	for k, v := range metadata {
		activity.Metadata[k] = v
	}
	m.broadcast(EventTypeUpdate, activity)
}

// CompleteActivity marks an activity as completed.
func (m *Manager) CompleteActivity(id string, subtitle string) {
	m.finish(id, StatusCompleted, subtitle, EventTypeCompleted)
}

// FailActivity marks an activity as failed.
func (m *Manager) FailActivity(id string, errorMsg string) {
	m.finish(id, StatusFailed, errorMsg, EventTypeError)
}

func (m *Manager) finish(id string, status Status, subtitle string, event EventType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	activity, ok := m.activities[id]
	if !ok || activity.Status != StatusInProgress {
		return
	}

	now := m.now()
	activity.Status = status
	activity.Subtitle = subtitle
	activity.CompletedAt = &now
	if status == StatusCompleted {
		activity.Progress = 100
	}
	m.broadcast(event, activity)

	m.logger.Debug().
		Str("id", id).
		Str("status", string(status)).
		Dur("duration", now.Sub(activity.StartedAt)).
		Msg("Activity finished")
}

// GetActivity returns a copy of an activity, or nil if unknown.
func (m *Manager) GetActivity(id string) *Activity {
	m.mu.RLock()
	defer m.mu.RUnlock()

	activity, ok := m.activities[id]
	if !ok {
		return nil
	}
	return activity.clone()
}

// GetAllActivities returns copies of every activity, newest first.
func (m *Manager) GetAllActivities() []*Activity {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Activity, 0, len(m.activities))
	for _, a := range m.activities {
		result = append(result, a.clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	return result
}

// Prune drops finished activities that completed before cutoff.
func (m *Manager) Prune(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, a := range m.activities {
		if a.CompletedAt != nil && a.CompletedAt.Before(cutoff) {
			delete(m.activities, id)
			removed++
		}
	}
	return removed
}

// broadcast sends an activity update to all connected clients. Callers hold m.mu.
func (m *Manager) broadcast(eventType EventType, activity *Activity) {
	if m.hub == nil {
		return
	}
	if err := m.hub.Broadcast(string(eventType), activity.clone()); err != nil {
		m.logger.Debug().Err(err).Str("id", activity.ID).Msg("Dropped progress event")
	}
}

func (a *Activity) clone() *Activity {
	c := *a
	c.Metadata = make(map[string]any, len(a.Metadata))
	for k, v := range a.Metadata {
		c.Metadata[k] = v
	}
	if a.CompletedAt != nil {
		t := *a.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
