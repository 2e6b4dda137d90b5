package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

var (
	ErrPoolClosed = errors.New("worker pool is closed")
	ErrPanicked   = errors.New("task panicked")
)

// Task is one unit of work. It should return promptly once ctx is done.
type Task func(ctx context.Context) error

// ============= 配置 =============

// Config 配置
type Config struct {
	Workers     int  `mapstructure:"workers"`      // 并发上限
	NonBlocking bool `mapstructure:"non_blocking"` // 池满时立即返回 ants.ErrPoolOverload
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Workers: 8,
	}
}

// ============= 统计信息 =============

// Statistics counters, safe to read while the pool runs
type Statistics struct {
	Submitted int64
	Completed int64
	Failed    int64
}

type counters struct {
	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

func (c *counters) snapshot() Statistics {
	return Statistics{
		Submitted: c.submitted.Load(),
		Completed: c.completed.Load(),
		Failed:    c.failed.Load(),
	}
}

// ============= Worker Pool =============

// Pool bounds the number of concurrently running tasks
type Pool struct {
	pool   *ants.Pool
	stats  counters
	logger *zap.Logger
}

// New 创建 Worker Pool
func New(config *Config, logger *zap.Logger) (*Pool, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	size := config.Workers
	if size <= 0 {
		size = DefaultConfig().Workers
	}

	antsPool, err := ants.NewPool(size,
		ants.WithNonblocking(config.NonBlocking),
		ants.WithPanicHandler(func(err interface{}) {
			logger.Error("worker panic", zap.Any("error", err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ants pool: %w", err)
	}

	return &Pool{pool: antsPool, logger: logger}, nil
}

// Submit 提交任务
func (p *Pool) Submit(task func()) error {
	if p.pool.IsClosed() {
		return ErrPoolClosed
	}
	p.stats.submitted.Add(1)
	return p.pool.Submit(task)
}

// Run executes every task on the pool and waits for all of them.
// errs[i] is the outcome of tasks[i]. Tasks not yet started when ctx is done
// are skipped and report ctx.Err().
func (p *Pool) Run(ctx context.Context, tasks []Task) []error {
	errs := make([]error, len(tasks))
	var wg sync.WaitGroup

	for i, task := range tasks {
		i, task := i, task
		wg.Add(1)
		err := p.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					p.stats.failed.Add(1)
					errs[i] = fmt.Errorf("%w: %v", ErrPanicked, r)
					p.logger.Error("task panic", zap.Int("task", i), zap.Any("error", r))
				}
			}()

			if err := ctx.Err(); err != nil {
				errs[i] = err
				p.stats.failed.Add(1)
				return
			}
			if err := task(ctx); err != nil {
				errs[i] = err
				p.stats.failed.Add(1)
				return
			}
			p.stats.completed.Add(1)
		})
		if err != nil {
			wg.Done()
			errs[i] = err
			p.stats.failed.Add(1)
		}
	}

	wg.Wait()
	return errs
}

// Running 运行中的 worker 数
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Cap 并发上限
func (p *Pool) Cap() int {
	return p.pool.Cap()
}

// Stats 统计信息
func (p *Pool) Stats() Statistics {
	return p.stats.snapshot()
}

// Shutdown 关闭
func (p *Pool) Shutdown() {
	p.pool.Release()
}
