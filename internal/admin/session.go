package admin

import (
	"context"
	"sync"
)

// InputKind names the free-text reply a session is waiting for. The empty kind is Idle.
type InputKind string

const (
	Idle               InputKind = ""
	AwaitUserSearch    InputKind = "user_search"
	AwaitBalanceChange InputKind = "balance_change"
	AwaitTaskTitle     InputKind = "task_title"
	AwaitTaskDesc      InputKind = "task_description"
	AwaitTaskReward    InputKind = "task_reward"
	AwaitTaskURL       InputKind = "task_url"
	AwaitAnnouncement  InputKind = "announcement_message"
)

// TaskDraft accumulates the fields of the task creation sequence.
type TaskDraft struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Reward      int64  `json:"reward,omitempty"`
}

// Session is the per-chat conversation state.
type Session struct {
	Awaiting     InputKind `json:"awaiting,omitempty"`
	TargetUserID int64     `json:"target_user_id,omitempty"`
	Draft        TaskDraft `json:"draft"`
}

func (s Session) IsIdle() bool { return s.Awaiting == Idle }

// Reset drops any partial data and returns to Idle.
func (s *Session) Reset() { *s = Session{} }

// SessionStore persists sessions by chat id. Get returns an Idle session when none is stored.
type SessionStore interface {
	Get(ctx context.Context, chatID int64) (Session, error)
	Save(ctx context.Context, chatID int64, s Session) error
	Clear(ctx context.Context, chatID int64) error
}

// MemorySessionStore keeps sessions in process memory; they are lost on restart.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[int64]Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[int64]Session)}
}

func (m *MemorySessionStore) Get(_ context.Context, chatID int64) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[chatID], nil
}

func (m *MemorySessionStore) Save(_ context.Context, chatID int64, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.IsIdle() {
		delete(m.sessions, chatID)
		return nil
	}
	m.sessions[chatID] = s
	return nil
}

func (m *MemorySessionStore) Clear(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
	return nil
}
