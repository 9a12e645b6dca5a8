package email

import (
	"context"
	"errors"
	"sync"
	"time"

	"transport_backend/internal/logger"

	"github.com/cenkalti/backoff/v5"
)

var (
	ErrQueueFull        = errors.New("email queue is full")
	ErrDispatcherClosed = errors.New("email dispatcher is closed")
)

// DefaultMaxTries - сколько раз пытаться отправить письмо
const DefaultMaxTries uint = 5

// RetryPolicy управляет повторами отправки
type RetryPolicy struct {
	MaxTries        uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxTries:        DefaultMaxTries,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
	}
}

func (p RetryPolicy) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	return b
}

// SendWithRetry отправляет письмо с экспоненциальными повторами.
// Ошибки конфигурации провайдера не повторяются.
func SendWithRetry(ctx context.Context, provider Provider, msg *Email, policy RetryPolicy) error {
	if err := provider.Validate(); err != nil {
		return err
	}
	if policy.MaxTries == 0 {
		policy.MaxTries = DefaultMaxTries
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, provider.Send(ctx, msg)
	},
		backoff.WithBackOff(policy.backOff()),
		backoff.WithMaxTries(policy.MaxTries),
	)
	return err
}

// Dispatcher - очередь исходящих писем с пулом воркеров.
// Используется там, где вызывающему не нужен результат отправки.
type Dispatcher struct {
	provider Provider
	policy   RetryPolicy
	queue    chan *Email
	workers  int

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

func NewDispatcher(provider Provider, workers, queueSize int, policy RetryPolicy) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		provider: provider,
		policy:   policy,
		queue:    make(chan *Email, queueSize),
		workers:  workers,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start запускает воркеры
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
	logger.Info("Email dispatcher started", "workers", d.workers)
}

// Enqueue ставит письмо в очередь без блокировки
func (d *Dispatcher) Enqueue(msg *Email) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for msg := range d.queue {
		err := SendWithRetry(d.ctx, d.provider, msg, d.policy)
		if err != nil {
			logger.Error("Failed to deliver email", "to", msg.To, "subject", msg.Subject, "error", err)
			continue
		}
		logger.Debug("Email delivered", "to", msg.To, "subject", msg.Subject)
	}
}

// Shutdown закрывает очередь и ждет, пока воркеры дошлют оставшееся.
// Если ctx истекает раньше, текущие повторы прерываются.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}
