package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-reader-bot/internal/repository"
	"github.com/aliskhannn/quran-reader-bot/internal/storage"
)

type sentReminder struct {
	chatID  int64
	payload entities.ReminderPayload
}

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []sentReminder
	blocked map[int64]bool
}

func (n *fakeNotifier) SendReminder(_ context.Context, chatID int64, payload entities.ReminderPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.blocked[chatID] {
		return fmt.Errorf("send message: %w", ErrRecipientUnavailable)
	}
	n.sent = append(n.sent, sentReminder{chatID: chatID, payload: payload})
	return nil
}

func newReminderFixture(t *testing.T, now time.Time) (*ReminderService, *storage.UserRegistry, *storage.MemoryStore, *fakeNotifier) {
	t.Helper()

	chapters, err := repository.NewChapterRepository("../../assets/data/chapters.json")
	require.NoError(t, err)

	users := storage.NewUserRegistry()
	kv := storage.NewMemoryStore()
	stores := func(userID int64) KeyValueStore {
		return storage.NewNamespaced(kv, entities.UserNamespace(userID))
	}

	svc := NewReminderService(users, stores, chapters, entities.DefaultReminderPolicy(), "", zap.NewNop())
	svc.now = func() time.Time { return now }

	notifier := &fakeNotifier{blocked: map[int64]bool{}}
	svc.SetNotifier(notifier)

	return svc, users, kv, notifier
}

func saveProgressAt(t *testing.T, kv *storage.MemoryStore, userID int64, chapter, verse int, at time.Time) {
	t.Helper()

	value := fmt.Sprintf(`{"surahNumber":%d,"ayahNumber":%d,"timestamp":%d}`, chapter, verse, at.UnixMilli())
	require.NoError(t, kv.Set(context.Background(), fmt.Sprintf("%d:%s", userID, progressKey), value))
}

func TestReminderServiceSendDue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	svc, users, kv, notifier := newReminderFixture(t, now)

	for _, id := range []int64{1, 2, 3} {
		_, err := users.Save(ctx, entities.NewUser(id, id*10))
		require.NoError(t, err)
	}

	saveProgressAt(t, kv, 1, 18, 10, now.Add(-48*time.Hour)) // idle
	saveProgressAt(t, kv, 2, 2, 255, now.Add(-time.Hour))    // read recently
	// user 3 never read

	sent, err := svc.SendDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	require.Len(t, notifier.sent, 1)
	got := notifier.sent[0]
	assert.Equal(t, int64(10), got.chatID)
	assert.Equal(t, 18, got.payload.Chapter.Number)
	assert.Equal(t, "Al-Kahf", got.payload.Chapter.Transliteration)
	assert.Equal(t, 10, got.payload.VerseIndex)

	// The same idle read is reminded only once.
	sent, err = svc.SendDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestReminderServiceDeactivatesBlockedUsers(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	svc, users, kv, notifier := newReminderFixture(t, now)

	_, err := users.Save(ctx, entities.NewUser(7, 70))
	require.NoError(t, err)
	saveProgressAt(t, kv, 7, 1, 1, now.Add(-72*time.Hour))
	notifier.blocked[70] = true

	sent, err := svc.SendDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)

	active, err := users.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestReminderServiceMalformedStateLogged(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	svc, users, kv, notifier := newReminderFixture(t, now)

	core, logs := observer.New(zap.WarnLevel)
	svc.logger = zap.New(core)

	_, err := users.Save(ctx, entities.NewUser(5, 50))
	require.NoError(t, err)
	saveProgressAt(t, kv, 5, 36, 3, now.Add(-30*time.Hour))
	require.NoError(t, kv.Set(ctx, fmt.Sprintf("5:%s", reminderStateKey), "{broken"))

	sent, err := svc.SendDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, notifier.sent, 1)

	warnings := logs.FilterMessage("malformed reminder state, ignoring").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, int64(5), warnings[0].ContextMap()["user_id"])
}

func TestReminderServiceWithoutNotifier(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	svc, _, _, _ := newReminderFixture(t, now)
	svc.SetNotifier(nil)

	_, err := svc.SendDue(context.Background())
	assert.Error(t, err)
}

func TestReminderServiceStartRejectsBadSchedule(t *testing.T) {
	svc := NewReminderService(storage.NewUserRegistry(), nil, nil, entities.DefaultReminderPolicy(), "not a schedule", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Error(t, svc.Start(ctx))
}
