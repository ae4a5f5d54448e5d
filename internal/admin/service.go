package admin

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "zoolbot-admin/internal/common/errors"
	"zoolbot-admin/internal/common/logger"
	"zoolbot-admin/internal/domain/announcement"
	"zoolbot-admin/internal/domain/settings"
	"zoolbot-admin/internal/domain/task"
	"zoolbot-admin/internal/domain/transaction"
	"zoolbot-admin/internal/domain/user"
)

const (
	RecentUsersLimit        = 10
	TaskListLimit           = 50
	RecentTransactionsLimit = 10
	DefaultBroadcastDelay   = 50 * time.Millisecond
	DefaultBanReason        = "Banned by administrator"
)

// Service holds the console operations. Store and transport faults are logged and turned
// into conservative results (nil, empty, zero, false) instead of being returned. The
// task and balance writes return AppErrors so the flow can tell a missing target from a
// store failure.
type Service struct {
	users         user.Repository
	tasks         task.Repository
	ledger        transaction.Repository
	settings      settings.Repository
	announcements announcement.Repository
	sender        Sender
	delay         time.Duration
	now           func() time.Time
}

func NewService(users user.Repository, tasks task.Repository, ledger transaction.Repository, st settings.Repository) *Service {
	return &Service{
		users:    users,
		tasks:    tasks,
		ledger:   ledger,
		settings: st,
		delay:    DefaultBroadcastDelay,
		now:      time.Now,
	}
}

// WithBroadcast enables announcements through sender with delay between sends.
// announcements may be nil, in which case runs are not recorded.
func (s *Service) WithBroadcast(sender Sender, announcements announcement.Repository, delay time.Duration) *Service {
	s.sender = sender
	s.announcements = announcements
	s.delay = delay
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// FindUser returns nil when the user does not exist or the lookup failed.
func (s *Service) FindUser(ctx context.Context, telegramID int64) *user.User {
	u, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", telegramID).Msg("Failed to get user")
		return nil
	}
	return u
}

func (s *Service) RecentUsers(ctx context.Context) []user.User {
	users, err := s.users.ListRecent(ctx, RecentUsersLimit)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list recent users")
		return nil
	}
	return users
}

func (s *Service) Tasks(ctx context.Context) []task.Task {
	tasks, err := s.tasks.ListRecent(ctx, TaskListLimit)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list tasks")
		return nil
	}
	return tasks
}

// Stats recomputes the aggregates on every call. Active users are those seen since the
// start of the current local day.
func (s *Service) Stats(ctx context.Context) user.Stats {
	st, err := s.users.Stats(ctx, startOfDay(s.now()))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to compute user stats")
		return user.Stats{}
	}
	return st
}

// CreateTask inserts an active url_visit task and returns its hex id.
func (s *Service) CreateTask(ctx context.Context, draft TaskDraft, url string) (string, error) {
	t := &task.Task{
		Title:            draft.Title,
		Description:      draft.Description,
		Reward:           draft.Reward,
		URL:              url,
		VerificationType: task.VerificationURLVisit,
		IsActive:         true,
		CreatedAt:        s.now(),
	}
	id, err := s.tasks.Create(ctx, t)
	if err != nil {
		logger.Error().Err(err).Str("title", draft.Title).Msg("Failed to create task")
		return "", apperrors.NewDatabaseError("create task", err)
	}
	logger.Info().Str("task_id", id.Hex()).Msg("Task created")
	return id.Hex(), nil
}

// ToggleTask flips the active flag and returns the new state. Malformed and unknown ids
// give a task-not-found error.
func (s *Service) ToggleTask(ctx context.Context, taskID string) (bool, error) {
	id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return false, apperrors.NewTaskNotFoundError(taskID)
	}
	active, found, err := s.tasks.ToggleActive(ctx, id)
	if err != nil {
		logger.Error().Err(err).Str("task_id", taskID).Msg("Failed to toggle task")
		return false, apperrors.NewDatabaseError("toggle task", err).WithDetail("task_id", taskID)
	}
	if !found {
		return false, apperrors.NewTaskNotFoundError(taskID)
	}
	logger.Info().Str("task_id", taskID).Bool("active", active).Msg("Task toggled")
	return active, nil
}

// AdjustBalance applies adj and then appends one ledger entry. The two writes are not
// atomic: if the ledger insert fails the balance stays changed and an error is returned.
func (s *Service) AdjustBalance(ctx context.Context, telegramID int64, adj Adjustment) error {
	u, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", telegramID).Msg("Failed to get user")
		return apperrors.NewDatabaseError("get user", err)
	}
	if u == nil {
		return apperrors.NewUserNotFoundError(telegramID)
	}

	var matched bool
	switch adj.Mode {
	case ModeAdd:
		matched, err = s.users.IncrementDiamonds(ctx, telegramID, adj.Amount)
	case ModeSubtract:
		matched, err = s.users.IncrementDiamonds(ctx, telegramID, -adj.Amount)
	case ModeSet:
		matched, err = s.users.SetDiamonds(ctx, telegramID, adj.Amount)
	default:
		return apperrors.NewValidationError("balance change", "unknown mode "+string(adj.Mode))
	}
	if err != nil {
		logger.Error().Err(err).Int64("user_id", telegramID).Msg("Failed to update balance")
		return apperrors.NewDatabaseError("update balance", err)
	}
	if !matched {
		return apperrors.NewUserNotFoundError(telegramID)
	}

	tx := &transaction.Transaction{
		UserID:    telegramID,
		Type:      transaction.TypeAdminAdjustment,
		Amount:    adj.Amount,
		Currency:  transaction.CurrencyDiamonds,
		Status:    transaction.StatusCompleted,
		Operation: string(adj.Mode),
		CreatedAt: s.now(),
	}
	if err := s.ledger.Append(ctx, tx); err != nil {
		logger.Error().Err(err).
			Int64("user_id", telegramID).
			Str("operation", string(adj.Mode)).
			Int64("amount", adj.Amount).
			Msg("Balance updated but ledger entry was not written")
		return apperrors.NewDatabaseError("append ledger entry", err)
	}
	logger.Info().
		Int64("user_id", telegramID).
		Str("operation", string(adj.Mode)).
		Int64("amount", adj.Amount).
		Msg("Balance adjusted")
	return nil
}

// Ban reports whether the user was actually banned now.
func (s *Service) Ban(ctx context.Context, telegramID int64, reason string) bool {
	ok, err := s.users.Ban(ctx, telegramID, reason, s.now())
	if err != nil {
		logger.Error().Err(err).Int64("user_id", telegramID).Msg("Failed to ban user")
		return false
	}
	return ok
}

func (s *Service) Unban(ctx context.Context, telegramID int64) bool {
	ok, err := s.users.Unban(ctx, telegramID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", telegramID).Msg("Failed to unban user")
		return false
	}
	return ok
}

type BroadcastResult struct {
	ID     string
	Sent   int
	Failed int
}

// Broadcast sends message to every non-banned user one by one with a fixed pause between
// sends. Failed recipients are counted and never retried. Cancelling ctx stops the run
// and returns the counts so far.
func (s *Service) Broadcast(ctx context.Context, message string) BroadcastResult {
	res := BroadcastResult{ID: uuid.NewString()}
	if s.sender == nil {
		logger.Error().Str("broadcast_id", res.ID).Msg("Broadcast requested without a sender")
		return res
	}
	started := s.now()

	ids, err := s.users.NotBannedIDs(ctx)
	if err != nil {
		logger.Error().Err(err).Str("broadcast_id", res.ID).Msg("Failed to load broadcast recipients")
		return res
	}
	logger.Info().Str("broadcast_id", res.ID).Int("recipients", len(ids)).Msg("Broadcast started")

	text := escapeHTML(message)
	for i, id := range ids {
		if i > 0 && !pause(ctx, s.delay) {
			logger.Warn().Str("broadcast_id", res.ID).Int("remaining", len(ids)-i).Msg("Broadcast cancelled")
			break
		}
		if err := s.sender.Send(ctx, id, text, nil); err != nil {
			res.Failed++
			logger.Warn().Err(err).Str("broadcast_id", res.ID).Int64("user_id", id).Msg("Broadcast send failed")
			continue
		}
		res.Sent++
	}

	if s.announcements != nil {
		a := &announcement.Announcement{
			BroadcastID: res.ID,
			Message:     message,
			Sent:        res.Sent,
			Failed:      res.Failed,
			StartedAt:   started,
			FinishedAt:  s.now(),
		}
		// Uses a fresh context so a cancelled run is still recorded.
		recCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.announcements.Record(recCtx, a); err != nil {
			logger.Error().Err(err).Str("broadcast_id", res.ID).Msg("Failed to record announcement")
		}
	}
	logger.Info().Str("broadcast_id", res.ID).Int("sent", res.Sent).Int("failed", res.Failed).Msg("Broadcast finished")
	return res
}

// Settings returns nil when the singleton is missing or unreadable.
func (s *Service) Settings(ctx context.Context) *settings.Settings {
	st, err := s.settings.Get(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read settings")
		return nil
	}
	return st
}

// ToggleMaintenance flips the persisted maintenance flag. ok is false when the settings
// document is missing or the write failed.
func (s *Service) ToggleMaintenance(ctx context.Context) (on bool, ok bool) {
	current := s.Settings(ctx)
	if current == nil {
		return false, false
	}
	next := !current.MaintenanceMode
	matched, err := s.settings.SetMaintenance(ctx, next, s.now())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to toggle maintenance mode")
		return false, false
	}
	if !matched {
		return false, false
	}
	logger.Info().Bool("maintenance", next).Msg("Maintenance mode changed")
	return next, true
}

func (s *Service) RecentTransactions(ctx context.Context) []transaction.Transaction {
	txs, err := s.ledger.ListRecent(ctx, RecentTransactionsLimit)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list transactions")
		return nil
	}
	return txs
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// pause waits for d unless ctx is done first; it reports whether the wait completed.
func pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
