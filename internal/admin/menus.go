package admin

import (
	"strconv"

	"zoolbot-admin/internal/domain/task"
)

// Callback payloads. Parameterised ones are followed by an id.
const (
	cbMainMenu      = "main_menu"
	cbStats         = "stats"
	cbUsersMenu     = "users_menu"
	cbSearchUser    = "search_user"
	cbListUsers     = "list_users"
	cbModifyBalance = "modify_balance"
	cbBanUser       = "ban_user"
	cbTasksMenu     = "tasks_menu"
	cbNewTask       = "new_task"
	cbListTasks     = "list_tasks"
	cbToggleTask    = "toggle_task"
	cbAnnouncement  = "announcement"
	cbTransactions  = "transactions"
	cbMaintenance   = "maintenance"
	cbSettings      = "settings"

	cbToggleTaskPrefix = "toggle_task_"
	cbModBalancePrefix = "mod_balance_"
	cbToggleBanPrefix  = "toggle_ban_"
)

func mainMenu() *Menu {
	return menu(
		row(Button{"📊 Statistics", cbStats}, Button{"👥 Users", cbUsersMenu}),
		row(Button{"📝 Tasks", cbTasksMenu}, Button{"💰 Transactions", cbTransactions}),
		row(Button{"📢 Announcement", cbAnnouncement}, Button{"🔧 Maintenance", cbMaintenance}),
		row(Button{"⚙️ Settings", cbSettings}),
	)
}

func usersMenu() *Menu {
	return menu(
		row(Button{"🔍 Find user", cbSearchUser}, Button{"📋 Recent users", cbListUsers}),
		row(Button{"💎 Change balance", cbModifyBalance}, Button{"🚫 Ban/Unban", cbBanUser}),
		row(backButton(cbMainMenu)),
	)
}

func tasksMenu() *Menu {
	return menu(
		row(Button{"➕ New task", cbNewTask}, Button{"📋 List tasks", cbListTasks}),
		row(Button{"✅ Enable/Disable", cbToggleTask}),
		row(backButton(cbMainMenu)),
	)
}

func statsMenu() *Menu {
	return menu(
		row(Button{"🔄 Refresh", cbStats}),
		row(backButton(cbMainMenu)),
	)
}

func maintenanceMenu(on bool) *Menu {
	label := "🔧 Enable"
	if on {
		label = "🔧 Disable"
	}
	return menu(
		row(Button{label, cbMaintenance}),
		row(backButton(cbMainMenu)),
	)
}

func userCardMenu(telegramID int64) *Menu {
	id := strconv.FormatInt(telegramID, 10)
	return menu(
		row(Button{"💎 Change balance", cbModBalancePrefix + id}, Button{"🚫 Ban/Unban", cbToggleBanPrefix + id}),
		row(backButton(cbUsersMenu)),
	)
}

// taskToggleMenu lists one button per task; pressing it flips the task's active flag.
func taskToggleMenu(tasks []task.Task) *Menu {
	rows := make([][]Button, 0, len(tasks)+1)
	for _, t := range tasks {
		rows = append(rows, row(Button{
			Text: statusMark(t.IsActive) + " " + truncate(t.Title, maxButtonRunes),
			Data: cbToggleTaskPrefix + t.ID.Hex(),
		}))
	}
	rows = append(rows, row(backButton(cbTasksMenu)))
	return &Menu{Rows: rows}
}

func backMenu(to string) *Menu {
	return menu(row(backButton(to)))
}

func backButton(to string) Button {
	return Button{Text: "⬅️ Back", Data: to}
}
