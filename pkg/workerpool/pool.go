// Package workerpool 固定数量 worker 的异步任务池
// 变更推送等后台任务在此执行，不占用请求协程
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	activeTasks = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "inventory",
		Subsystem: "workerpool",
		Name:      "active_tasks",
		Help:      "Tasks currently running, by pool.",
	}, []string{"pool"})

	tasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inventory",
		Subsystem: "workerpool",
		Name:      "tasks_total",
		Help:      "Tasks finished, by pool and result.",
	}, []string{"pool", "result"})
)

var (
	// ErrWorkerPoolFull 任务队列已满
	ErrWorkerPoolFull = errors.New("worker pool queue is full")
	// ErrWorkerPoolClosed 任务池已关闭
	ErrWorkerPoolClosed = errors.New("worker pool is closed")
	// ErrTaskCancelled 任务开始执行前 context 已取消
	ErrTaskCancelled = errors.New("task was cancelled")
)

// Config 任务池配置，零值字段使用默认值
type Config struct {
	Name           string  // 池名称，用于日志与指标
	MaxWorkers     int     // worker 数量
	QueueSize      int     // 等待队列长度
	WarningPercent float64 // 活跃 worker 占比达到该值时告警
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{Name: "default", MaxWorkers: 16, QueueSize: 1000, WarningPercent: 0.8}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Name == "" {
		c.Name = def.Name
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = def.MaxWorkers
	}
	if c.QueueSize <= 0 {
		c.QueueSize = def.QueueSize
	}
	if c.WarningPercent <= 0 || c.WarningPercent > 1 {
		c.WarningPercent = def.WarningPercent
	}
	return c
}

type job struct {
	ctx context.Context
	fn  func(context.Context) error
}

// Pool 任务池
type Pool struct {
	config Config
	logger *zap.Logger

	jobs   chan job
	wg     sync.WaitGroup
	active atomic.Int64

	// stop 关闭超时后取消仍在执行的任务
	stop   context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

// New 创建并启动任务池，cfg 为 nil 时使用默认配置
func New(cfg *Config, logger *zap.Logger) *Pool {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	c = c.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	stop, cancel := context.WithCancel(context.Background())
	p := &Pool{
		config: c,
		logger: logger,
		jobs:   make(chan job, c.QueueSize),
		stop:   stop,
		cancel: cancel,
	}

	p.wg.Add(c.MaxWorkers)
	for i := 0; i < c.MaxWorkers; i++ {
		go p.worker()
	}

	logger.Info("worker pool started",
		zap.String("pool", c.Name),
		zap.Int("maxWorkers", c.MaxWorkers),
		zap.Int("queueSize", c.QueueSize))
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for j := range p.jobs {
		p.execute(j)
	}
}

func (p *Pool) execute(j job) {
	n := p.active.Add(1)
	activeTasks.WithLabelValues(p.config.Name).Inc()
	defer func() {
		p.active.Add(-1)
		activeTasks.WithLabelValues(p.config.Name).Dec()
	}()

	if float64(n) >= float64(p.config.MaxWorkers)*p.config.WarningPercent {
		p.logger.Warn("worker pool approaching capacity",
			zap.String("pool", p.config.Name),
			zap.Int64("activeCount", n),
			zap.Int("maxWorkers", p.config.MaxWorkers))
	}

	ctx, cancel := mergeCancel(j.ctx, p.stop)
	defer cancel()

	err := ErrTaskCancelled
	if ctx.Err() == nil {
		err = p.run(ctx, j.fn)
	}

	if err != nil {
		tasksTotal.WithLabelValues(p.config.Name, "failed").Inc()
		return
	}
	tasksTotal.WithLabelValues(p.config.Name, "ok").Inc()
}

// run 执行任务，panic 转换为错误，worker 不退出
func (p *Pool) run(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker pool task panic: %v", r)
			p.logger.Error("worker pool task panic",
				zap.String("pool", p.config.Name),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()
	return fn(ctx)
}

// mergeCancel 返回的 context 在 ctx 或 stop 任一结束时取消，保留 ctx 中的值
func mergeCancel(ctx, stop context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-stop.Done():
			cancel()
		case <-merged.Done():
		}
	}()
	return merged, cancel
}

// SubmitAsync 投递任务，不等待结果，失败只记录日志
func (p *Pool) SubmitAsync(ctx context.Context, fn func(context.Context) error) error {
	return p.enqueue(job{ctx: ctx, fn: func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil {
			p.logger.Warn("worker pool async task failed", zap.String("pool", p.config.Name), zap.Error(err))
		}
		return err
	}})
}

// Submit 投递任务并等待结果
func (p *Pool) Submit(ctx context.Context, fn func(context.Context) error) error {
	done := make(chan error, 1)
	err := p.enqueue(job{ctx: ctx, fn: func(ctx context.Context) (err error) {
		defer func() { done <- err }()
		return p.run(ctx, fn)
	}})
	if err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stop.Done():
		select {
		case err := <-done:
			return err
		default:
			return ErrWorkerPoolClosed
		}
	}
}

// enqueue 在读锁内投递，Shutdown 关闭通道前需要写锁
func (p *Pool) enqueue(j job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrWorkerPoolClosed
	}
	select {
	case p.jobs <- j:
		return nil
	default:
		return ErrWorkerPoolFull
	}
}

// IsClosed 是否已关闭
func (p *Pool) IsClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// Shutdown 停止接收任务并等待队列中的任务执行完
// ctx 结束时取消仍在执行的任务并返回 ctx.Err()
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.logger.Info("worker pool shutting down",
		zap.String("pool", p.config.Name),
		zap.Int64("activeCount", p.active.Load()),
		zap.Int("queuedCount", len(p.jobs)))

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		p.logger.Warn("worker pool shutdown timeout, cancelling running tasks", zap.String("pool", p.config.Name))
		return ctx.Err()
	}
}

// Metrics 任务池状态
type Metrics struct {
	MaxWorkers    int
	ActiveCount   int64
	QueuedCount   int
	QueueCapacity int
	IsClosed      bool
}

// GetMetrics 获取当前状态
func (p *Pool) GetMetrics() Metrics {
	return Metrics{
		MaxWorkers:    p.config.MaxWorkers,
		ActiveCount:   p.active.Load(),
		QueuedCount:   len(p.jobs),
		QueueCapacity: p.config.QueueSize,
		IsClosed:      p.IsClosed(),
	}
}
