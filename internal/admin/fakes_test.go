package admin

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"zoolbot-admin/internal/domain/announcement"
	"zoolbot-admin/internal/domain/settings"
	"zoolbot-admin/internal/domain/task"
	"zoolbot-admin/internal/domain/transaction"
	"zoolbot-admin/internal/domain/user"
)

var errStore = errors.New("store unavailable")

type fakeUsers struct {
	byID map[int64]*user.User
	err  error
}

func newFakeUsers(users ...user.User) *fakeUsers {
	f := &fakeUsers{byID: make(map[int64]*user.User)}
	for i := range users {
		u := users[i]
		f.byID[u.TelegramID] = &u
	}
	return f
}

func (f *fakeUsers) GetByTelegramID(_ context.Context, id int64) (*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) ListRecent(_ context.Context, limit int) ([]user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]user.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeUsers) NotBannedIDs(context.Context) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	var ids []int64
	for id, u := range f.byID {
		if !u.IsBanned {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeUsers) Stats(_ context.Context, since time.Time) (user.Stats, error) {
	if f.err != nil {
		return user.Stats{}, f.err
	}
	var st user.Stats
	for _, u := range f.byID {
		st.TotalUsers++
		st.TotalDiamonds += u.Diamonds
		if u.IsBanned {
			st.BannedUsers++
		}
		if u.LastActive != nil && !u.LastActive.Before(since) {
			st.ActiveToday++
		}
	}
	return st, nil
}

func (f *fakeUsers) IncrementDiamonds(_ context.Context, id int64, delta int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return false, nil
	}
	u.Diamonds += delta
	return true, nil
}

func (f *fakeUsers) SetDiamonds(_ context.Context, id int64, value int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return false, nil
	}
	u.Diamonds = value
	return true, nil
}

func (f *fakeUsers) Ban(_ context.Context, id int64, reason string, at time.Time) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	u, ok := f.byID[id]
	if !ok || u.IsBanned {
		return false, nil
	}
	u.IsBanned, u.BanReason, u.BannedAt = true, reason, &at
	return true, nil
}

func (f *fakeUsers) Unban(_ context.Context, id int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	u, ok := f.byID[id]
	if !ok || !u.IsBanned {
		return false, nil
	}
	u.IsBanned, u.BanReason, u.BannedAt = false, "", nil
	return true, nil
}

type fakeTasks struct {
	items []task.Task
	err   error
}

func (f *fakeTasks) Create(_ context.Context, t *task.Task) (primitive.ObjectID, error) {
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	t.ID = primitive.NewObjectID()
	f.items = append(f.items, *t)
	return t.ID, nil
}

func (f *fakeTasks) ListRecent(_ context.Context, limit int) ([]task.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := append([]task.Task(nil), f.items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeTasks) ToggleActive(_ context.Context, id primitive.ObjectID) (bool, bool, error) {
	if f.err != nil {
		return false, false, f.err
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].IsActive = !f.items[i].IsActive
			return f.items[i].IsActive, true, nil
		}
	}
	return false, false, nil
}

type fakeLedger struct {
	entries []transaction.Transaction
	err     error
}

func (f *fakeLedger) Append(_ context.Context, tx *transaction.Transaction) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, *tx)
	return nil
}

func (f *fakeLedger) ListRecent(_ context.Context, limit int) ([]transaction.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]transaction.Transaction, 0, len(f.entries))
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

type fakeSettings struct {
	doc *settings.Settings
	err error
}

func (f *fakeSettings) Get(context.Context) (*settings.Settings, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.doc == nil {
		return nil, nil
	}
	cp := *f.doc
	return &cp, nil
}

func (f *fakeSettings) SetMaintenance(_ context.Context, on bool, at time.Time) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.doc == nil {
		return false, nil
	}
	f.doc.MaintenanceMode = on
	f.doc.UpdatedAt = at
	return true, nil
}

type fakeAnnouncements struct {
	recorded []announcement.Announcement
}

func (f *fakeAnnouncements) Record(_ context.Context, a *announcement.Announcement) error {
	f.recorded = append(f.recorded, *a)
	return nil
}

type sent struct {
	ChatID    int64
	MessageID int
	Text      string
	Menu      *Menu
}

type answer struct {
	ID    string
	Text  string
	Alert bool
}

// fakeMessenger records deliveries; sends to chat ids in fail are rejected.
type fakeMessenger struct {
	mu      sync.Mutex
	sends   []sent
	edits   []sent
	answers []answer
	fail    map[int64]bool
}

func newFakeMessenger(fail ...int64) *fakeMessenger {
	m := &fakeMessenger{fail: make(map[int64]bool)}
	for _, id := range fail {
		m.fail[id] = true
	}
	return m
}

func (m *fakeMessenger) Send(_ context.Context, chatID int64, text string, menu *Menu) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[chatID] {
		return errors.New("bot was blocked by the user")
	}
	m.sends = append(m.sends, sent{ChatID: chatID, Text: text, Menu: menu})
	return nil
}

func (m *fakeMessenger) Edit(_ context.Context, chatID int64, messageID int, text string, menu *Menu) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits = append(m.edits, sent{ChatID: chatID, MessageID: messageID, Text: text, Menu: menu})
	return nil
}

func (m *fakeMessenger) AnswerCallback(_ context.Context, id, text string, alert bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = append(m.answers, answer{ID: id, Text: text, Alert: alert})
	return nil
}

func (m *fakeMessenger) sentTo(chatID int64) []sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sent
	for _, s := range m.sends {
		if s.ChatID == chatID {
			out = append(out, s)
		}
	}
	return out
}

func (m *fakeMessenger) lastSend() sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sends) == 0 {
		return sent{}
	}
	return m.sends[len(m.sends)-1]
}

func (m *fakeMessenger) lastEdit() sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.edits) == 0 {
		return sent{}
	}
	return m.edits[len(m.edits)-1]
}

// menuData flattens a keyboard into its callback payloads.
func menuData(m *Menu) []string {
	if m == nil {
		return nil
	}
	var out []string
	for _, r := range m.Rows {
		for _, b := range r {
			out = append(out, b.Data)
		}
	}
	return out
}
