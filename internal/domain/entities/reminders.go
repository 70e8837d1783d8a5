package entities

import "time"

// ReminderPayload is used to build a "continue reading" reminder message.
type ReminderPayload struct {
	Chapter    Chapter
	VerseIndex int
	LastReadAt time.Time
}

// ReminderState is persisted per user to avoid repeating a reminder for the same read.
type ReminderState struct {
	LastSentAt int64 `json:"lastSentAt"` // unix milliseconds
}

// ReminderPolicy decides when a user should be reminded to continue reading.
type ReminderPolicy struct {
	IdleAfter time.Duration // time since the last read before a reminder is due
	StartHour int           // first hour (UTC) reminders may be sent
	EndHour   int           // reminders are not sent from this hour (UTC) on
}

// DefaultReminderPolicy returns the policy used when nothing is configured.
func DefaultReminderPolicy() ReminderPolicy {
	return ReminderPolicy{
		IdleAfter: 24 * time.Hour,
		StartHour: 8,
		EndHour:   20,
	}
}

// Due reports whether a reminder should be sent now.
//
// A reminder is due when:
//  1. the current hour is inside the sending window;
//  2. the last read is older than IdleAfter;
//  3. no reminder was sent after the last read.
func (p ReminderPolicy) Due(progress ReadingProgress, state ReminderState, now time.Time) bool {
	hour := now.UTC().Hour()
	if hour < p.StartHour || hour >= p.EndHour {
		return false
	}

	if now.Sub(progress.ReadAt()) < p.IdleAfter {
		return false
	}

	return state.LastSentAt < progress.Timestamp
}
