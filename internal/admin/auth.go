package admin

// Authorizer decides whether a Telegram user may use the console.
type Authorizer func(telegramID int64) bool

// AllowIDs authorizes exactly the given Telegram IDs.
func AllowIDs(ids ...int64) Authorizer {
	allowed := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}
	return func(telegramID int64) bool {
		_, ok := allowed[telegramID]
		return ok
	}
}
