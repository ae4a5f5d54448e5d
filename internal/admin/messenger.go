package admin

import "context"

// Button is one inline action; Data is the opaque callback payload.
type Button struct {
	Text string
	Data string
}

// Menu is a grid of buttons rendered under a message.
type Menu struct {
	Rows [][]Button
}

func row(buttons ...Button) []Button { return buttons }

func menu(rows ...[]Button) *Menu { return &Menu{Rows: rows} }

// Event is one inbound update from the transport: a message (Text/Command) or a
// callback press (CallbackID/Data).
type Event struct {
	ChatID     int64
	UserID     int64
	MessageID  int
	CallbackID string
	Data       string
	Command    string
	Text       string
}

func (e Event) IsCallback() bool { return e.CallbackID != "" }

// Reply is what a handler wants shown. Edit replaces the message that carried the
// pressed keyboard instead of sending a new one. Notice answers the callback.
type Reply struct {
	Text   string
	Menu   *Menu
	Edit   bool
	Notice string
	Alert  bool
}

// Messenger delivers replies through the bot transport.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string, m *Menu) error
	Edit(ctx context.Context, chatID int64, messageID int, text string, m *Menu) error
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
}

// Sender is the part of Messenger used by broadcasts.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string, m *Menu) error
}
