package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Limits imposed by the Bot API.
const (
	MaxMessageLength = 4096
	MaxCallbackData  = 64
)

// ValidateMessageText checks text that will be sent verbatim as a Telegram message.
func ValidateMessageText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if n := utf8.RuneCountInString(text); n > MaxMessageLength {
		return fmt.Errorf("message cannot exceed %d characters, got %d", MaxMessageLength, n)
	}
	return nil
}

// ValidateTelegramUserID rejects ids that cannot belong to a user; chats and channels
// use negative ids.
func ValidateTelegramUserID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("telegram user id must be positive")
	}
	return nil
}

// ValidateCallbackData checks the payload size of an inline button.
func ValidateCallbackData(data string) error {
	if data == "" {
		return fmt.Errorf("callback data cannot be empty")
	}
	if len(data) > MaxCallbackData {
		return fmt.Errorf("callback data cannot exceed %d bytes", MaxCallbackData)
	}
	return nil
}
