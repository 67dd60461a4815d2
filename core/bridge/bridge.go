package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"s3bridge/core/failure"
	"s3bridge/core/metrics"

	"go.uber.org/zap"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("execution bridge closed")

// Config holds configuration for the execution bridge.
type Config struct {
	// OperationTimeoutSeconds bounds a single operation. 0 disables the bound.
	OperationTimeoutSeconds int `mapstructure:"operation_timeout_seconds" default:"0"`
}

// Bridge drives context-aware operations to completion for synchronous callers.
type Bridge struct {
	cfg     Config
	logger  *zap.Logger
	metrics *metrics.Metrics

	once   sync.Once
	mu     sync.RWMutex
	base   context.Context
	cancel context.CancelFunc
	closed bool
}

// New creates a bridge. The base context is not created until the first Run.
func New(cfg Config, logger *zap.Logger, m *metrics.Metrics) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{cfg: cfg, logger: logger, metrics: m}
}

func (b *Bridge) init() {
	b.once.Do(func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.base, b.cancel = context.WithCancel(context.Background())
		b.logger.Debug("Execution bridge started")
	})
}

// opContext returns the context for one operation.
func (b *Bridge) opContext() (context.Context, context.CancelFunc, error) {
	b.init()

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, nil, ErrClosed
	}
	if b.cfg.OperationTimeoutSeconds > 0 {
		ctx, cancel := context.WithTimeout(b.base, time.Duration(b.cfg.OperationTimeoutSeconds)*time.Second)
		return ctx, cancel, nil
	}
	ctx, cancel := context.WithCancel(b.base)
	return ctx, cancel, nil
}

// Close cancels every running operation and rejects new ones.
func (b *Bridge) Close() {
	b.init()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.cancel()
	b.logger.Debug("Execution bridge closed")
}

type result[T any] struct {
	value T
	err   error
}

// Run executes op on a worker goroutine and blocks until it returns.
func Run[T any](b *Bridge, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	ctx, cancel, err := b.opContext()
	if err != nil {
		return zero, err
	}
	defer cancel()

	done := b.metrics.BridgeStarted()
	defer done()

	ch := make(chan result[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Operation panicked", zap.Any("panic", r))
				ch <- result[T]{err: failure.Wrap(failure.KindBackend, "", "operation panicked", fmt.Errorf("%v", r))}
			}
		}()
		v, err := op(ctx)
		ch <- result[T]{value: v, err: err}
	}()

	res := <-ch
	return res.value, res.err
}
