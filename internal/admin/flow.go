package admin

import (
	"context"
	"strconv"
	"strings"

	apperrors "zoolbot-admin/internal/common/errors"
	"zoolbot-admin/internal/common/logger"
	"zoolbot-admin/internal/common/validation"
)

// Flow routes bot updates through the per-chat session state machine.
type Flow struct {
	svc       *Service
	sessions  SessionStore
	authorize Authorizer
	out       Messenger
}

func NewFlow(svc *Service, sessions SessionStore, authorize Authorizer, out Messenger) *Flow {
	return &Flow{
		svc:       svc,
		sessions:  sessions,
		authorize: authorize,
		out:       out,
	}
}

// Handle processes one update. Returned errors come from the session store or the
// transport; domain failures are already turned into admin-facing replies.
func (f *Flow) Handle(ctx context.Context, ev Event) error {
	if !f.authorize(ev.UserID) {
		logger.Warn().Int64("user_id", ev.UserID).Int64("chat_id", ev.ChatID).Msg("Rejected non-admin update")
		if ev.IsCallback() {
			return f.out.AnswerCallback(ctx, ev.CallbackID, textForbidden, true)
		}
		return f.out.Send(ctx, ev.ChatID, textForbidden, nil)
	}

	sess, err := f.sessions.Get(ctx, ev.ChatID)
	if err != nil {
		logger.Error().Err(err).Int64("chat_id", ev.ChatID).Msg("Failed to load session, starting idle")
		sess = Session{}
	}

	var replies []Reply
	switch {
	case ev.IsCallback():
		sess.Reset()
		replies = f.onCallback(ctx, &sess, ev)
	case ev.Command != "":
		replies = f.onCommand(ctx, &sess, ev)
	default:
		replies = f.onText(ctx, &sess, ev)
	}

	saveErr := f.persist(ctx, ev.ChatID, sess)
	if ev.IsCallback() {
		f.answer(ctx, ev, replies)
	}
	for _, r := range replies {
		if err := f.deliver(ctx, ev, r); err != nil {
			return err
		}
	}
	return saveErr
}

func (f *Flow) persist(ctx context.Context, chatID int64, sess Session) error {
	var err error
	if sess.IsIdle() {
		err = f.sessions.Clear(ctx, chatID)
	} else {
		err = f.sessions.Save(ctx, chatID, sess)
	}
	if err != nil {
		logger.Error().Err(err).Int64("chat_id", chatID).Str("awaiting", string(sess.Awaiting)).Msg("Failed to persist session")
		return apperrors.NewSessionError("persist", err)
	}
	return nil
}

// answer acknowledges a callback exactly once so the client stops its spinner.
func (f *Flow) answer(ctx context.Context, ev Event, replies []Reply) {
	var text string
	var alert bool
	if len(replies) > 0 {
		text, alert = replies[0].Notice, replies[0].Alert
	}
	if err := f.out.AnswerCallback(ctx, ev.CallbackID, text, alert); err != nil {
		logger.Warn().Err(err).Int64("chat_id", ev.ChatID).Msg("Failed to answer callback")
	}
}

func (f *Flow) deliver(ctx context.Context, ev Event, r Reply) error {
	if r.Text == "" {
		return nil
	}
	if r.Edit && ev.MessageID != 0 {
		return f.out.Edit(ctx, ev.ChatID, ev.MessageID, r.Text, r.Menu)
	}
	return f.out.Send(ctx, ev.ChatID, r.Text, r.Menu)
}

func edit(text string, m *Menu) []Reply {
	return []Reply{{Text: text, Menu: m, Edit: true}}
}

func send(text string, m *Menu) []Reply {
	return []Reply{{Text: text, Menu: m}}
}

func notice(text string, alert bool) []Reply {
	return []Reply{{Notice: text, Alert: alert}}
}

func (f *Flow) onCommand(ctx context.Context, sess *Session, ev Event) []Reply {
	switch ev.Command {
	case "start", "help":
		sess.Reset()
		return send(textWelcome, mainMenu())
	case "cancel":
		sess.Reset()
		return send(textCancelled, mainMenu())
	case "stats":
		return send(statsText(f.svc.Stats(ctx), f.svc.now()), statsMenu())
	default:
		// unknown commands while awaiting input are treated as the input itself
		if !sess.IsIdle() {
			return f.onText(ctx, sess, ev)
		}
		return send(textUseMenu, nil)
	}
}

func (f *Flow) onCallback(ctx context.Context, sess *Session, ev Event) []Reply {
	data := ev.Data
	switch data {
	case cbMainMenu:
		return edit(textMainMenu, mainMenu())
	case cbStats:
		return edit(statsText(f.svc.Stats(ctx), f.svc.now()), statsMenu())
	case cbUsersMenu:
		return edit(textUsersMenu, usersMenu())
	case cbSearchUser, cbModifyBalance, cbBanUser:
		// balance and ban actions live on the user card, so both start with a lookup
		sess.Awaiting = AwaitUserSearch
		return edit(textAskUserID, nil)
	case cbListUsers:
		return edit(userListText(f.svc.RecentUsers(ctx)), backMenu(cbUsersMenu))
	case cbTasksMenu:
		return edit(textTasksMenu, tasksMenu())
	case cbNewTask:
		sess.Awaiting = AwaitTaskTitle
		return edit(textAskTitle, nil)
	case cbListTasks:
		return edit(taskListText(f.svc.Tasks(ctx)), backMenu(cbTasksMenu))
	case cbToggleTask:
		tasks := f.svc.Tasks(ctx)
		if len(tasks) == 0 {
			return edit(textNoTasks, backMenu(cbTasksMenu))
		}
		return edit(textToggleHint, taskToggleMenu(tasks))
	case cbAnnouncement:
		sess.Awaiting = AwaitAnnouncement
		return edit(textAskMessage, nil)
	case cbTransactions:
		return edit(transactionsText(f.svc.RecentTransactions(ctx)), backMenu(cbMainMenu))
	case cbMaintenance:
		return f.toggleMaintenance(ctx)
	case cbSettings:
		st := f.svc.Settings(ctx)
		if st == nil {
			return edit(textNoSettings, backMenu(cbMainMenu))
		}
		return edit(settingsText(st), backMenu(cbMainMenu))
	}

	switch {
	case strings.HasPrefix(data, cbToggleTaskPrefix):
		return f.toggleTask(ctx, strings.TrimPrefix(data, cbToggleTaskPrefix))
	case strings.HasPrefix(data, cbModBalancePrefix):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, cbModBalancePrefix), 10, 64)
		if err != nil {
			return notice(textUserNotFound, true)
		}
		sess.Awaiting = AwaitBalanceChange
		sess.TargetUserID = id
		return edit(askBalanceText(id), nil)
	case strings.HasPrefix(data, cbToggleBanPrefix):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, cbToggleBanPrefix), 10, 64)
		if err != nil {
			return notice(textUserNotFound, true)
		}
		return f.toggleBan(ctx, id)
	}

	logger.Warn().Str("data", data).Int64("chat_id", ev.ChatID).Msg("Unknown callback")
	return notice("", false)
}

func (f *Flow) toggleMaintenance(ctx context.Context) []Reply {
	on, ok := f.svc.ToggleMaintenance(ctx)
	if !ok {
		return notice(textNoSettings, true)
	}
	return []Reply{{
		Text:   maintenanceText(on),
		Menu:   maintenanceMenu(on),
		Edit:   true,
		Notice: "Maintenance mode " + onOff(on),
	}}
}

func (f *Flow) toggleTask(ctx context.Context, taskID string) []Reply {
	active, err := f.svc.ToggleTask(ctx, taskID)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.IsNotFound() {
			return notice(textTaskNotFound, true)
		}
		return notice(textToggleFailed, true)
	}
	return []Reply{{
		Text:   textToggleHint,
		Menu:   taskToggleMenu(f.svc.Tasks(ctx)),
		Edit:   true,
		Notice: taskToggledText(active),
	}}
}

func (f *Flow) toggleBan(ctx context.Context, telegramID int64) []Reply {
	u := f.svc.FindUser(ctx, telegramID)
	if u == nil {
		return notice(textUserNotFound, true)
	}

	var changed bool
	if u.IsBanned {
		changed = f.svc.Unban(ctx, telegramID)
	} else {
		changed = f.svc.Ban(ctx, telegramID, DefaultBanReason)
	}
	if !changed {
		return notice(textBanFailed, true)
	}

	r := Reply{Notice: banToggledText(!u.IsBanned), Alert: true}
	if fresh := f.svc.FindUser(ctx, telegramID); fresh != nil {
		r.Text = userCardText(fresh)
		r.Menu = userCardMenu(telegramID)
		r.Edit = true
	}
	return []Reply{r}
}

func (f *Flow) onText(ctx context.Context, sess *Session, ev Event) []Reply {
	text := strings.TrimSpace(ev.Text)

	switch sess.Awaiting {
	case AwaitUserSearch:
		sess.Reset()
		return f.showUser(ctx, text)

	case AwaitBalanceChange:
		target := sess.TargetUserID
		sess.Reset()
		return f.applyBalance(ctx, target, text)

	case AwaitTaskTitle:
		sess.Draft.Title = text
		sess.Awaiting = AwaitTaskDesc
		return send(textAskDesc, nil)

	case AwaitTaskDesc:
		sess.Draft.Description = text
		sess.Awaiting = AwaitTaskReward
		return send(textAskReward, nil)

	case AwaitTaskReward:
		reward, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return send(textBadReward, nil)
		}
		if reward < 0 {
			return send(textNegReward, nil)
		}
		sess.Draft.Reward = reward
		sess.Awaiting = AwaitTaskURL
		return send(textAskURL, nil)

	case AwaitTaskURL:
		draft := sess.Draft
		sess.Reset()
		id, err := f.svc.CreateTask(ctx, draft, text)
		if err != nil {
			return send("❌ Failed to create the task: "+escapeHTML(err.Error()), tasksMenu())
		}
		return send(taskCreatedText(draft, text, id), tasksMenu())

	case AwaitAnnouncement:
		sess.Reset()
		return f.broadcast(ctx, ev, text)
	}

	return send(textUseMenu, nil)
}

func (f *Flow) showUser(ctx context.Context, input string) []Reply {
	id, err := strconv.ParseInt(input, 10, 64)
	if err != nil || validation.ValidateTelegramUserID(id) != nil {
		return send(textBadUserID, backMenu(cbUsersMenu))
	}
	u := f.svc.FindUser(ctx, id)
	if u == nil {
		return send(textUserNotFound, backMenu(cbUsersMenu))
	}
	return send(userCardText(u), userCardMenu(u.TelegramID))
}

func (f *Flow) applyBalance(ctx context.Context, telegramID int64, input string) []Reply {
	adj, err := ParseAdjustment(input)
	if err == nil {
		err = f.svc.AdjustBalance(ctx, telegramID, adj)
	}
	if err != nil {
		text := textBalanceFail
		if apperrors.HasCode(err, apperrors.ErrCodeValidation) {
			text = textBadBalance
		} else if appErr, ok := apperrors.AsAppError(err); ok && appErr.IsNotFound() {
			text = textUserNotFound
		}
		return send(text, backMenu(cbUsersMenu))
	}
	u := f.svc.FindUser(ctx, telegramID)
	var m *Menu
	if u != nil {
		m = userCardMenu(telegramID)
	}
	return send(balanceUpdatedText(u, adj), m)
}

// broadcast clears the session before sending starts.
func (f *Flow) broadcast(ctx context.Context, ev Event, msg string) []Reply {
	if err := validation.ValidateMessageText(msg); err != nil {
		return send("❌ "+escapeHTML(err.Error()), mainMenu())
	}
	// persist logs its own failure and Handle clears the session again afterwards.
	_ = f.persist(ctx, ev.ChatID, Session{})
	if err := f.out.Send(ctx, ev.ChatID, textSending, nil); err != nil {
		logger.Warn().Err(err).Int64("chat_id", ev.ChatID).Msg("Failed to send broadcast notice")
	}
	res := f.svc.Broadcast(ctx, msg)
	return send(broadcastText(res, msg), mainMenu())
}
