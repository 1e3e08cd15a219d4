package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultSyncInterval период фонового опроса сервера
const DefaultSyncInterval = 7 * time.Second

// Poller фоновая синхронизация кеша: раз в interval перечитывает документ
// сервера и заменяет кеш целиком. Ошибки опроса глотаются (только warn в
// лог) — фоновая синхронизация не должна дёргать пользователя.
type Poller struct {
	store    *Store
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewPoller(store *Store, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &Poller{
		store:    store,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает цикл опроса в отдельной горутине
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting booking sync poller",
		zap.Duration("interval", p.interval))
	go p.run(ctx)
}

// Stop останавливает цикл; повторные вызовы безопасны
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		p.logger.Info("Stopping booking sync poller")
		close(p.stopChan)
	})
}

// run цикл опроса. Опрос выполняется в этой же горутине, поэтому
// перекрывающихся fetch-ей не бывает: пока медленный опрос не вернулся,
// тики тикера просто схлопываются.
func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.store.ForceSync(ctx); err != nil {
				p.logger.Warn("Background sync failed", zap.Error(err))
			}
		case <-p.stopChan:
			p.logger.Info("Booking sync poller stopped")
			return
		case <-ctx.Done():
			p.logger.Info("Booking sync poller cancelled")
			return
		}
	}
}
