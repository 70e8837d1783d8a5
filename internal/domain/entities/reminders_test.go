package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReminderPolicyDue(t *testing.T) {
	policy := DefaultReminderPolicy()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	lastRead := now.Add(-30 * time.Hour)
	progress := ReadingProgress{ChapterNumber: 2, VerseIndex: 10, Timestamp: lastRead.UnixMilli()}

	tests := []struct {
		name     string
		progress ReadingProgress
		state    ReminderState
		now      time.Time
		want     bool
	}{
		{name: "idle long enough", progress: progress, now: now, want: true},
		{
			name:     "read recently",
			progress: ReadingProgress{ChapterNumber: 2, Timestamp: now.Add(-time.Hour).UnixMilli()},
			now:      now,
			want:     false,
		},
		{
			name:     "already reminded after last read",
			progress: progress,
			state:    ReminderState{LastSentAt: lastRead.Add(time.Hour).UnixMilli()},
			now:      now,
			want:     false,
		},
		{name: "outside window", progress: progress, now: time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Due(tt.progress, tt.state, tt.now))
		})
	}
}
