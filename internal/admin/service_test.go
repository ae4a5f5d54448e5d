package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "zoolbot-admin/internal/common/errors"
	"zoolbot-admin/internal/domain/settings"
	"zoolbot-admin/internal/domain/task"
	"zoolbot-admin/internal/domain/transaction"
	"zoolbot-admin/internal/domain/user"
)

var testNow = time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)

type serviceFixture struct {
	users     *fakeUsers
	tasks     *fakeTasks
	ledger    *fakeLedger
	settings  *fakeSettings
	announced *fakeAnnouncements
	out       *fakeMessenger
	svc       *Service
}

func newServiceFixture(users ...user.User) *serviceFixture {
	doc := settings.Default(testNow.Add(-24 * time.Hour))
	f := &serviceFixture{
		users:     newFakeUsers(users...),
		tasks:     &fakeTasks{},
		ledger:    &fakeLedger{},
		settings:  &fakeSettings{doc: &doc},
		announced: &fakeAnnouncements{},
		out:       newFakeMessenger(),
	}
	f.svc = NewService(f.users, f.tasks, f.ledger, f.settings).
		WithBroadcast(f.out, f.announced, 0).
		WithClock(func() time.Time { return testNow })
	return f
}

func TestAdjustBalanceSubtract(t *testing.T) {
	f := newServiceFixture(user.User{TelegramID: 42, Diamonds: 1000})

	adj, err := ParseAdjustment("-500")
	require.NoError(t, err)
	require.NoError(t, f.svc.AdjustBalance(context.Background(), 42, adj))

	assert.Equal(t, int64(500), f.users.byID[42].Diamonds)
	require.Len(t, f.ledger.entries, 1)
	tx := f.ledger.entries[0]
	assert.Equal(t, int64(42), tx.UserID)
	assert.Equal(t, int64(500), tx.Amount)
	assert.Equal(t, "subtract", tx.Operation)
	assert.Equal(t, transaction.TypeAdminAdjustment, tx.Type)
	assert.Equal(t, transaction.CurrencyDiamonds, tx.Currency)
	assert.Equal(t, transaction.StatusCompleted, tx.Status)
	assert.Equal(t, testNow, tx.CreatedAt)
}

func TestAdjustBalanceModes(t *testing.T) {
	f := newServiceFixture(user.User{TelegramID: 7, Diamonds: 100})
	ctx := context.Background()

	require.NoError(t, f.svc.AdjustBalance(ctx, 7, Add(50)))
	assert.Equal(t, int64(150), f.users.byID[7].Diamonds)

	require.NoError(t, f.svc.AdjustBalance(ctx, 7, Set(2000)))
	assert.Equal(t, int64(2000), f.users.byID[7].Diamonds)

	// no floor
	require.NoError(t, f.svc.AdjustBalance(ctx, 7, Subtract(2500)))
	assert.Equal(t, int64(-500), f.users.byID[7].Diamonds)

	require.Len(t, f.ledger.entries, 3)
	assert.Equal(t, "set", f.ledger.entries[1].Operation)
	assert.Equal(t, int64(2000), f.ledger.entries[1].Amount)
}

func TestAdjustBalanceUnknownUser(t *testing.T) {
	f := newServiceFixture()

	err := f.svc.AdjustBalance(context.Background(), 99, Add(10))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUserNotFound))
	assert.Empty(t, f.ledger.entries)
}

func TestAdjustBalanceLedgerFailure(t *testing.T) {
	f := newServiceFixture(user.User{TelegramID: 42, Diamonds: 1000})
	f.ledger.err = errStore

	err := f.svc.AdjustBalance(context.Background(), 42, Add(1))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDatabaseError))
	// the balance write is not rolled back
	assert.Equal(t, int64(1001), f.users.byID[42].Diamonds)
}

func TestToggleTaskTwice(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	id, err := f.svc.CreateTask(ctx, TaskDraft{Title: "Visit", Description: "d", Reward: 100}, "https://example.com")
	require.NoError(t, err)
	require.Len(t, f.tasks.items, 1)
	created := f.tasks.items[0]
	assert.True(t, created.IsActive)
	assert.Equal(t, task.VerificationURLVisit, created.VerificationType)
	assert.Equal(t, id, created.ID.Hex())

	active, err := f.svc.ToggleTask(ctx, id)
	require.NoError(t, err)
	assert.False(t, active)

	active, err = f.svc.ToggleTask(ctx, id)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestToggleTaskUnknown(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	_, err := f.svc.ToggleTask(ctx, "not-an-id")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTaskNotFound))

	_, err = f.svc.ToggleTask(ctx, "65f2a1b2c3d4e5f607182930")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTaskNotFound))
}

func TestToggleTaskStoreFailure(t *testing.T) {
	f := newServiceFixture()
	f.tasks.err = errStore

	_, err := f.svc.ToggleTask(context.Background(), "65f2a1b2c3d4e5f607182930")
	assert.ErrorIs(t, err, errStore)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDatabaseError))
}

func TestAdjustBalanceLookupFailure(t *testing.T) {
	f := newServiceFixture(user.User{TelegramID: 42, Diamonds: 1000})
	f.users.err = errStore

	err := f.svc.AdjustBalance(context.Background(), 42, Add(1))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDatabaseError))
	assert.Empty(t, f.ledger.entries)
}

func TestAdjustBalanceUnknownMode(t *testing.T) {
	f := newServiceFixture(user.User{TelegramID: 42, Diamonds: 1000})

	err := f.svc.AdjustBalance(context.Background(), 42, Adjustment{Mode: "multiply", Amount: 2})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
	assert.Equal(t, int64(1000), f.users.byID[42].Diamonds)
}

func TestCreateTaskFailure(t *testing.T) {
	f := newServiceFixture()
	f.tasks.err = errStore

	_, err := f.svc.CreateTask(context.Background(), TaskDraft{Title: "x"}, "u")
	require.Error(t, err)
	assert.ErrorIs(t, err, errStore)
}

func TestBanUnbanReportModification(t *testing.T) {
	f := newServiceFixture(user.User{TelegramID: 5})
	ctx := context.Background()

	assert.True(t, f.svc.Ban(ctx, 5, DefaultBanReason))
	assert.False(t, f.svc.Ban(ctx, 5, DefaultBanReason))
	assert.Equal(t, DefaultBanReason, f.users.byID[5].BanReason)
	require.NotNil(t, f.users.byID[5].BannedAt)

	assert.True(t, f.svc.Unban(ctx, 5))
	assert.False(t, f.svc.Unban(ctx, 5))
	assert.Nil(t, f.users.byID[5].BannedAt)

	assert.False(t, f.svc.Ban(ctx, 404, "x"))
}

func TestBroadcastSkipsBannedAndCountsFailures(t *testing.T) {
	f := newServiceFixture(
		user.User{TelegramID: 1},
		user.User{TelegramID: 2},
		user.User{TelegramID: 3, IsBanned: true},
		user.User{TelegramID: 4},
	)
	f.out.fail[2] = true

	res := f.svc.Broadcast(context.Background(), "Hello <everyone>")

	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, 1, res.Failed)
	assert.NotEmpty(t, res.ID)
	assert.Empty(t, f.out.sentTo(3))
	require.Len(t, f.out.sentTo(1), 1)
	assert.Equal(t, "Hello &lt;everyone&gt;", f.out.sentTo(1)[0].Text)

	require.Len(t, f.announced.recorded, 1)
	rec := f.announced.recorded[0]
	assert.Equal(t, res.ID, rec.BroadcastID)
	assert.Equal(t, "Hello <everyone>", rec.Message)
	assert.Equal(t, 2, rec.Sent)
	assert.Equal(t, 1, rec.Failed)
}

func TestBroadcastCancelled(t *testing.T) {
	f := newServiceFixture(user.User{TelegramID: 1}, user.User{TelegramID: 2})
	f.svc.WithBroadcast(f.out, f.announced, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := f.svc.Broadcast(ctx, "hi")

	// the first recipient is attempted before any pause
	assert.Equal(t, 1, res.Sent+res.Failed)
	require.Len(t, f.announced.recorded, 1)
}

func TestBroadcastNoRecipients(t *testing.T) {
	f := newServiceFixture(user.User{TelegramID: 1, IsBanned: true})

	res := f.svc.Broadcast(context.Background(), "hi")
	assert.Zero(t, res.Sent)
	assert.Zero(t, res.Failed)
	assert.Empty(t, f.out.sends)
}

func TestStats(t *testing.T) {
	today := testNow.Add(-time.Hour)
	yesterday := testNow.Add(-24 * time.Hour)
	f := newServiceFixture(
		user.User{TelegramID: 1, Diamonds: 100, LastActive: &today},
		user.User{TelegramID: 2, Diamonds: 250, LastActive: &yesterday},
		user.User{TelegramID: 3, Diamonds: -50, IsBanned: true},
	)

	st := f.svc.Stats(context.Background())
	assert.Equal(t, user.Stats{TotalUsers: 3, ActiveToday: 1, BannedUsers: 1, TotalDiamonds: 300}, st)
}

func TestStatsEmptyAndFailure(t *testing.T) {
	f := newServiceFixture()
	assert.Equal(t, user.Stats{}, f.svc.Stats(context.Background()))

	f.users.err = errStore
	assert.Equal(t, user.Stats{}, f.svc.Stats(context.Background()))
	assert.Nil(t, f.svc.FindUser(context.Background(), 1))
	assert.Nil(t, f.svc.RecentUsers(context.Background()))
}

func TestRecentUsersOrderAndLimit(t *testing.T) {
	var users []user.User
	for i := 0; i < 15; i++ {
		users = append(users, user.User{TelegramID: int64(i + 1), CreatedAt: testNow.Add(time.Duration(i) * time.Minute)})
	}
	f := newServiceFixture(users...)

	got := f.svc.RecentUsers(context.Background())
	require.Len(t, got, RecentUsersLimit)
	assert.Equal(t, int64(15), got[0].TelegramID)
}

func TestToggleMaintenance(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	on, ok := f.svc.ToggleMaintenance(ctx)
	require.True(t, ok)
	assert.True(t, on)
	assert.True(t, f.settings.doc.MaintenanceMode)
	assert.Equal(t, testNow, f.settings.doc.UpdatedAt)

	on, ok = f.svc.ToggleMaintenance(ctx)
	require.True(t, ok)
	assert.False(t, on)

	f.settings.doc = nil
	_, ok = f.svc.ToggleMaintenance(ctx)
	assert.False(t, ok)
}

func TestRecentTransactions(t *testing.T) {
	f := newServiceFixture(user.User{TelegramID: 1})
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		require.NoError(t, f.svc.AdjustBalance(ctx, 1, Add(int64(i))))
	}

	txs := f.svc.RecentTransactions(ctx)
	require.Len(t, txs, RecentTransactionsLimit)
	assert.Equal(t, int64(11), txs[0].Amount)
}

func TestStartOfDay(t *testing.T) {
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), startOfDay(testNow))
}
