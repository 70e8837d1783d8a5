package entities

import (
	"strconv"
	"time"
)

// User is a Telegram user who has talked to the bot.
// Inactive users (blocked the bot, chat gone) get no reminders.
type User struct {
	ID        int64 // Telegram user ID
	ChatID    int64
	IsActive  bool
	CreatedAt time.Time
}

func NewUser(id, chatID int64) *User {
	return &User{
		ID:        id,
		ChatID:    chatID,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
}

// UserNamespace is the key prefix of a user's settings and reading progress.
func UserNamespace(userID int64) string {
	return strconv.FormatInt(userID, 10) + ":"
}
