package workers

import (
	"context"
	"sync"
	"time"

	"transport_backend/internal/logger"
	"transport_backend/internal/repositories"

	"gorm.io/gorm"
)

const workerName = "cleanup"

// CleanupConfig задает период и срок хранения прочитанных уведомлений
type CleanupConfig struct {
	Interval          time.Duration
	NotificationAfter time.Duration
}

func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{
		Interval:          time.Hour,
		NotificationAfter: 30 * 24 * time.Hour,
	}
}

// CleanupWorker удаляет просроченные коды, записи реестра токенов
// и старые прочитанные уведомления.
type CleanupWorker struct {
	db               *gorm.DB
	codeRepo         repositories.OneTimeCodeRepository
	usedTokenRepo    repositories.UsedTokenRepository
	notificationRepo repositories.NotificationRepository
	cfg              CleanupConfig
	now              func() time.Time

	wg sync.WaitGroup
}

func NewCleanupWorker(
	db *gorm.DB,
	codeRepo repositories.OneTimeCodeRepository,
	usedTokenRepo repositories.UsedTokenRepository,
	notificationRepo repositories.NotificationRepository,
	cfg CleanupConfig,
) *CleanupWorker {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultCleanupConfig().Interval
	}
	return &CleanupWorker{
		db:               db,
		codeRepo:         codeRepo,
		usedTokenRepo:    usedTokenRepo,
		notificationRepo: notificationRepo,
		cfg:              cfg,
		now:              time.Now,
	}
}

// Start запускает фоновый цикл; остановка через отмену ctx
func (w *CleanupWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.loop(ctx)
}

// Wait ждет завершения цикла после отмены ctx
func (w *CleanupWorker) Wait() {
	w.wg.Wait()
}

func (w *CleanupWorker) loop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce выполняет один проход очистки
func (w *CleanupWorker) RunOnce(ctx context.Context) {
	db := w.db.WithContext(ctx)
	now := w.now()

	affected, err := w.codeRepo.PurgeExpired(db, now)
	logger.WorkerLog(workerName, "purge_otp_codes", affected, err)

	affected, err = w.usedTokenRepo.PurgeExpired(db, now)
	logger.WorkerLog(workerName, "purge_used_tokens", affected, err)

	if w.cfg.NotificationAfter > 0 {
		affected, err = w.notificationRepo.DeleteReadNotifications(db, now.Add(-w.cfg.NotificationAfter))
		logger.WorkerLog(workerName, "purge_read_notifications", affected, err)
	}
}
