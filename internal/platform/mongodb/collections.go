package mongodb

// Collection names shared by the setup CLI, the admin bot and the user-facing bot.
const (
	CollectionUsers         = "users"
	CollectionTasks         = "tasks"
	CollectionMissions      = "missions"
	CollectionUserTasks     = "user_tasks"
	CollectionTransactions  = "transactions"
	CollectionAnnouncements = "announcements"
	CollectionSettings      = "settings"
)

// Collections lists every collection the schema expects, in creation order.
func Collections() []string {
	return []string{
		CollectionUsers,
		CollectionTasks,
		CollectionMissions,
		CollectionUserTasks,
		CollectionTransactions,
		CollectionAnnouncements,
		CollectionSettings,
	}
}
