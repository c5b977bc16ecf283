package background

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ratewatch/rates-service/internal/usecase"
)

// Poller owns the recurring poll cycle. Start and Stop are idempotent,
// Stop waits for the in-flight cycle to observe cancellation and exit.
type Poller struct {
	sync     usecase.RateSyncUsecase
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(syncUsecase usecase.RateSyncUsecase, interval time.Duration) *Poller {
	return &Poller{
		sync:     syncUsecase,
		interval: interval,
	}
}

func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.loop(ctx, p.done)

	slog.Info("poller started", "interval", p.interval)
}

// RunCycle executes one cycle synchronously, outside the recurring
// schedule. The sync usecase serializes it against a running cycle.
func (p *Poller) RunCycle(ctx context.Context) error {
	return p.sync.RunCycle(ctx)
}

func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel == nil {
		return
	}

	p.cancel()
	<-p.done
	p.cancel = nil
	p.done = nil

	slog.Info("poller stopped")
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.sync.RunCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("poll cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
