package admin

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"zoolbot-admin/internal/common/validation"
	"zoolbot-admin/internal/domain/settings"
	"zoolbot-admin/internal/domain/task"
	"zoolbot-admin/internal/domain/transaction"
	"zoolbot-admin/internal/domain/user"
)

// Replies use Telegram HTML parse mode; anything typed by users goes through escapeHTML.

var numbers = message.NewPrinter(language.English)

// Rune caps for user-supplied fields. Escaping can grow a field up to six times,
// so task confirmations stay below the message limit even in the worst case.
const (
	maxTitleRunes  = 60
	maxButtonRunes = 40
	maxDescRunes   = 300
	maxURLRunes    = 100
	listURLRunes   = 50

	// room left for the "…and N more" footer of a cut list
	listFooterRunes = 32
)

func formatNumber(n int64) string {
	return numbers.Sprintf("%d", n)
}

const (
	textWelcome      = "🤖 <b>Zoolbot Admin</b>\n\nWelcome to the admin panel. Use the buttons to navigate:"
	textMainMenu     = "🤖 <b>Admin Panel</b>\n\nChoose an option:"
	textUsersMenu    = "👥 <b>User Management</b>\n\nChoose an option:"
	textTasksMenu    = "📝 <b>Task Management</b>\n\nChoose an option:"
	textForbidden    = "❌ You are not allowed to use this bot."
	textAskUserID    = "🔍 <b>Find User</b>\n\nSend the user's Telegram ID:"
	textAskTitle     = "➕ <b>New Task</b>\n\nSend the task title:"
	textAskDesc      = "📝 Now send the task description:"
	textAskReward    = "💎 Send the reward in diamonds (numbers only):"
	textAskURL       = "🔗 Send the task link/URL:"
	textAskMessage   = "📢 <b>Send Announcement</b>\n\nWrite the message to send to every user:"
	textSending      = "📢 Sending the announcement to all users..."
	textUserNotFound = "❌ User not found."
	textBadUserID    = "❌ Invalid ID. It must be a number."
	textBadReward    = "❌ The reward must be a whole number."
	textNegReward    = "❌ The reward must be a positive number."
	textBadBalance   = "❌ Invalid format. Use +1000, -500 or =2000"
	textBalanceFail  = "❌ Failed to update the balance."
	textNoUsers      = "❌ No registered users."
	textNoTasks      = "❌ No tasks created."
	textNoTxs        = "❌ No transactions yet."
	textNoSettings   = "❌ Settings document not found. Run the database setup."
	textCancelled    = "✖️ Cancelled."
	textUseMenu      = "ℹ️ Use /start to open the admin panel."
	textToggleHint   = "✅ <b>Enable/Disable Tasks</b>\n\nPress a task to flip its state:"
	textTaskNotFound = "❌ Task not found"
	textToggleFailed = "❌ Failed to change the task"
	textBanFailed    = "❌ Failed to change the user's status"
)

func statsText(s user.Stats, now time.Time) string {
	return fmt.Sprintf(
		"📊 <b>Bot Statistics</b>\n\n"+
			"👥 <b>Total users:</b> %s\n"+
			"🟢 <b>Active today:</b> %s\n"+
			"🚫 <b>Banned:</b> %s\n"+
			"💎 <b>Total diamonds:</b> %s\n"+
			"🕒 <b>Updated:</b> %s",
		formatNumber(s.TotalUsers),
		formatNumber(s.ActiveToday),
		formatNumber(s.BannedUsers),
		formatNumber(s.TotalDiamonds),
		now.Format("15:04:05"),
	)
}

func userListText(users []user.User) string {
	if len(users) == 0 {
		return textNoUsers
	}
	entries := make([]string, 0, len(users))
	for i, u := range users {
		status := "✅"
		if u.IsBanned {
			status = "🚫"
		}
		entries = append(entries, fmt.Sprintf("%d. %s <b>%s</b>\n   ID: <code>%d</code>\n   💎: %s\n   📅: %s\n\n",
			i+1, status, escapeHTML(truncate(u.DisplayName(), maxTitleRunes)), u.TelegramID,
			formatNumber(u.Diamonds), u.CreatedAt.Format("02/01/2006")))
	}
	return listText(fmt.Sprintf("👥 <b>Last %d registered users:</b>\n\n", len(users)), entries)
}

func userCardText(u *user.User) string {
	status := "✅ Active"
	if u.IsBanned {
		status = "🚫 Banned"
	}
	username := "N/A"
	if u.Username != "" {
		username = "@" + u.Username
	}
	lastActive := "N/A"
	if u.LastActive != nil {
		lastActive = u.LastActive.Format("02/01/2006 15:04")
	}

	var b strings.Builder
	b.WriteString("👤 <b>User Info</b>\n\n")
	fmt.Fprintf(&b, "<b>Name:</b> %s\n", escapeHTML(u.DisplayName()))
	fmt.Fprintf(&b, "<b>Username:</b> %s\n", escapeHTML(username))
	fmt.Fprintf(&b, "<b>ID:</b> <code>%d</code>\n", u.TelegramID)
	fmt.Fprintf(&b, "<b>Status:</b> %s\n", status)
	if u.IsBanned && u.BanReason != "" {
		fmt.Fprintf(&b, "<b>Ban reason:</b> %s\n", escapeHTML(u.BanReason))
	}
	fmt.Fprintf(&b, "<b>💎 Diamonds:</b> %s\n", formatNumber(u.Diamonds))
	fmt.Fprintf(&b, "<b>👥 Referrals:</b> %d\n", len(u.Referrals))
	fmt.Fprintf(&b, "<b>📅 Registered:</b> %s\n", u.CreatedAt.Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "<b>🕒 Last active:</b> %s", lastActive)
	return b.String()
}

func taskListText(tasks []task.Task) string {
	if len(tasks) == 0 {
		return textNoTasks
	}
	entries := make([]string, 0, len(tasks))
	for i, t := range tasks {
		entries = append(entries, fmt.Sprintf("%d. %s <b>%s</b>\n   💎 Reward: %s\n   🔗 URL: %s\n   📅 Created: %s\n\n",
			i+1, statusMark(t.IsActive), escapeHTML(truncate(t.Title, maxTitleRunes)),
			formatNumber(t.Reward), escapeHTML(truncate(t.URL, listURLRunes)), t.CreatedAt.Format("02/01/2006")))
	}
	return listText("📝 <b>Tasks:</b>\n\n", entries)
}

func taskCreatedText(d TaskDraft, url, id string) string {
	return fmt.Sprintf(
		"✅ <b>Task Created</b>\n\n"+
			"<b>Title:</b> %s\n"+
			"<b>Description:</b> %s\n"+
			"<b>Reward:</b> %s 💎\n"+
			"<b>URL:</b> %s\n"+
			"<b>ID:</b> <code>%s</code>",
		escapeHTML(truncate(d.Title, maxTitleRunes)),
		escapeHTML(truncate(d.Description, maxDescRunes)),
		formatNumber(d.Reward),
		escapeHTML(truncate(url, maxURLRunes)),
		id,
	)
}

func taskToggledText(active bool) string {
	if active {
		return "✅ Task enabled"
	}
	return "❌ Task disabled"
}

func askBalanceText(telegramID int64) string {
	return fmt.Sprintf(
		"💎 <b>Change Balance</b>\n\n"+
			"User ID: <code>%d</code>\n\n"+
			"Send the balance change:\n"+
			"• <code>+1000</code> to add 1000 diamonds\n"+
			"• <code>-500</code> to remove 500 diamonds\n"+
			"• <code>=2000</code> to set the balance to 2000 diamonds",
		telegramID,
	)
}

func balanceUpdatedText(u *user.User, adj Adjustment) string {
	name, balance := "N/A", "N/A"
	if u != nil {
		name = escapeHTML(u.DisplayName())
		balance = formatNumber(u.Diamonds)
	}
	return fmt.Sprintf(
		"✅ <b>Balance Updated</b>\n\n"+
			"User: %s\n"+
			"Operation: %s\n"+
			"Amount: %s 💎\n"+
			"Current balance: %s 💎",
		name, adj.Mode, formatNumber(adj.Amount), balance,
	)
}

func banToggledText(banned bool) string {
	if banned {
		return "✅ User banned"
	}
	return "✅ User unbanned"
}

func broadcastText(res BroadcastResult, msg string) string {
	return fmt.Sprintf(
		"📢 <b>Announcement Sent</b>\n\n"+
			"✅ <b>Sent:</b> %d\n"+
			"❌ <b>Failed:</b> %d\n"+
			"📝 <b>Message:</b> %s",
		res.Sent, res.Failed, escapeHTML(truncate(msg, 100)),
	)
}

func transactionsText(txs []transaction.Transaction) string {
	if len(txs) == 0 {
		return textNoTxs
	}
	entries := make([]string, 0, len(txs))
	for i, tx := range txs {
		op := tx.Operation
		if op == "" {
			op = tx.Type
		}
		entries = append(entries, fmt.Sprintf("%d. <code>%d</code> %s %s %s (%s)\n   📅 %s\n\n",
			i+1, tx.UserID, escapeHTML(op), formatNumber(tx.Amount), escapeHTML(tx.Currency),
			escapeHTML(tx.Status), tx.CreatedAt.Format("02/01/2006 15:04")))
	}
	return listText(fmt.Sprintf("💰 <b>Last %d transactions:</b>\n\n", len(txs)), entries)
}

func settingsText(s *settings.Settings) string {
	return fmt.Sprintf(
		"⚙️ <b>Settings</b>\n\n"+
			"🔧 <b>Maintenance:</b> %s\n"+
			"💱 <b>Diamonds per TON:</b> %s\n"+
			"👥 <b>Referral share:</b> %.0f%%\n"+
			"⏱ <b>Task verification timeout:</b> %s\n"+
			"💸 <b>Minimum withdrawal:</b> %g TON\n"+
			"🕒 <b>Updated:</b> %s",
		onOff(s.MaintenanceMode),
		formatNumber(s.DiamondToTonRate),
		s.ReferralPercentage*100,
		(time.Duration(s.TaskVerificationTimeout) * time.Second).String(),
		s.MinWithdrawalAmount,
		s.UpdatedAt.Format("02/01/2006 15:04"),
	)
}

func maintenanceText(on bool) string {
	return fmt.Sprintf("🔧 <b>Maintenance Mode</b>\n\nStatus: %s", strings.ToUpper(onOff(on)))
}

// listText appends entries after header and stops before the message would exceed
// the Telegram limit, noting how many entries were left out.
func listText(header string, entries []string) string {
	var b strings.Builder
	b.WriteString(header)
	used := utf8.RuneCountInString(header)
	for i, e := range entries {
		n := utf8.RuneCountInString(e)
		if used+n+listFooterRunes > validation.MaxMessageLength {
			fmt.Fprintf(&b, "…and %d more", len(entries)-i)
			break
		}
		b.WriteString(e)
		used += n
	}
	return b.String()
}

func onOff(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

func statusMark(active bool) string {
	if active {
		return "✅"
	}
	return "❌"
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

func escapeHTML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}
