package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/quran-reader-bot/internal/config"
	"github.com/aliskhannn/quran-reader-bot/internal/delivery/telegram"
	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-reader-bot/internal/infra/alquran"
	"github.com/aliskhannn/quran-reader-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/quran-reader-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/quran-reader-bot/internal/logger"
	"github.com/aliskhannn/quran-reader-bot/internal/repository"
	"github.com/aliskhannn/quran-reader-bot/internal/service"
	"github.com/aliskhannn/quran-reader-bot/internal/storage"
)

var commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Запустить бота"},
	{Command: "surahs", Description: "Список сур"},
	{Command: "surah", Description: "Открыть суру (использование: /surah 36)"},
	{Command: "play", Description: "Слушать"},
	{Command: "pause", Description: "Пауза"},
	{Command: "next", Description: "Следующий аят"},
	{Command: "prev", Description: "Предыдущий аят"},
	{Command: "goto", Description: "Перейти к аяту (использование: /goto 5)"},
	{Command: "tafsir", Description: "Тафсир текущего аята"},
	{Command: "reciter", Description: "Выбрать чтеца"},
	{Command: "progress", Description: "Где я остановился"},
	{Command: "settings", Description: "Настройки"},
	{Command: "reset", Description: "Сбросить прогресс"},
	{Command: "help", Description: "Помощь"},
}

// backend is the persistence selected by the storage driver.
type backend struct {
	kv    service.KeyValueStore
	users service.UserRepository
	close func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return fmt.Errorf("create bot api: %w", err)
	}
	bot.Debug = cfg.Env != "production"

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	chapterRepo, err := repository.NewChapterRepository(cfg.ChaptersJSONPath)
	if err != nil {
		return fmt.Errorf("load chapters: %w", err)
	}

	be, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer be.close()

	client := alquran.NewClient(alquran.Options{
		BaseURL:           cfg.QuranAPI.BaseURL,
		AudioCDNURL:       cfg.QuranAPI.AudioCDNURL,
		AudioBitrate:      cfg.QuranAPI.AudioBitrate,
		TextEdition:       cfg.QuranAPI.TextEdition,
		CommentaryEdition: cfg.QuranAPI.CommentaryEdition,
		Timeout:           cfg.QuranAPI.Timeout,
	}, lg.Named("alquran"))

	userStore := func(userID int64) service.KeyValueStore {
		return storage.NewNamespaced(be.kv, entities.UserNamespace(userID))
	}

	newReader := func(userID int64, transport service.AudioTransport) *service.Reader {
		kv := userStore(userID)
		l := lg.With(zap.Int64("user_id", userID))
		return service.NewReader(
			client,
			transport,
			service.NewSettingsStore(kv, l),
			service.NewProgressStore(kv, l),
			l,
		)
	}

	handler := telegram.NewHandler(
		bot,
		lg.Named("telegram"),
		chapterRepo,
		service.NewUserService(be.users, lg),
		service.NewCommentaryService(client, lg),
		newReader,
	)

	policy := entities.DefaultReminderPolicy()
	if cfg.Reminders.IdleAfter > 0 {
		policy.IdleAfter = cfg.Reminders.IdleAfter
	}
	policy.StartHour = cfg.Reminders.StartHour
	policy.EndHour = cfg.Reminders.EndHour

	reminders := service.NewReminderService(
		be.users,
		userStore,
		chapterRepo,
		policy,
		cfg.Reminders.Schedule,
		lg.Named("reminders"),
	)
	reminders.SetNotifier(handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return handler.Run(gctx) })
	g.Go(func() error { return reminders.Start(gctx) })

	err = g.Wait()
	bot.StopReceivingUpdates()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	lg.Info("shutdown signal received")
	return nil
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, err
		}

		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections), // range checked by config.Load
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
			PingTimeout:     10 * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}

		return &backend{
			kv:    pgrepo.NewKVRepository(pool),
			users: pgrepo.NewUserRepository(pool),
			close: pool.Close,
		}, nil

	case config.StorageFile:
		fs, err := storage.NewFileStore(cfg.Storage.FilePath)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return &backend{kv: fs, users: storage.NewUserRegistry(), close: func() {}}, nil

	default:
		return &backend{kv: storage.NewMemoryStore(), users: storage.NewUserRegistry(), close: func() {}}, nil
	}
}
