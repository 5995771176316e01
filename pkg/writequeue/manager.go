// Package writequeue 按键串行化的写队列
// 同一键（同一实体）的写操作按 FIFO 顺序逐个执行，定向更新的"读快照-写入"窗口不会被同实体的其他写入穿插
package writequeue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrWriteQueueFull 某个键的等待队列已满
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed 管理器已关闭
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout 排队等待超时，写操作未执行
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config 写队列配置，零值字段使用默认值
type Config struct {
	QueueCapacity int           // 每个键最多等待的写操作数
	WriteTimeout  time.Duration // 排队等待开始执行的最长时间
	IdleTimeout   time.Duration // 空闲多久后回收该键的队列
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		QueueCapacity: 100,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   10 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = def.QueueCapacity
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = def.IdleTimeout
	}
	return c
}

// 写操作状态，由调用方与队列 goroutine 通过 CAS 争夺
const (
	opQueued int32 = iota
	opRunning
	opAbandoned
)

type writeOp struct {
	ctx    context.Context
	fn     func() error
	result chan error
	state  *atomic.Int32
}

// lane 单个键的队列，由一个 goroutine 顺序消费
type lane struct {
	ops      chan writeOp
	inflight atomic.Int64 // 已入队但尚未执行完的操作数
	lastUsed time.Time    // 受 Manager.mu 保护
}

// Manager 管理所有键的写队列
type Manager struct {
	config Config
	logger *zap.Logger

	mu     sync.Mutex
	lanes  map[string]*lane
	closed bool

	workers sync.WaitGroup
	stop    chan struct{}
}

// New 创建写队列管理器，cfg 为 nil 时使用默认配置
func New(cfg *Config, logger *zap.Logger) *Manager {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	c = c.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		config: c,
		logger: logger,
		lanes:  make(map[string]*lane),
		stop:   make(chan struct{}),
	}
	go m.reapIdle()

	logger.Info("write queue manager started",
		zap.Int("queueCapacity", c.QueueCapacity),
		zap.Duration("writeTimeout", c.WriteTimeout),
		zap.Duration("idleTimeout", c.IdleTimeout))
	return m
}

// Execute 将 fn 排入 key 的队列并等待执行结果
// 同一键的操作串行执行，不同键之间互不阻塞
// 超时与 ctx 取消只作用于排队阶段：fn 一旦开始执行，Execute 必定等待并返回 fn 的结果
func (m *Manager) Execute(ctx context.Context, key string, fn func() error) error {
	op := writeOp{ctx: ctx, fn: fn, result: make(chan error, 1), state: new(atomic.Int32)}
	if err := m.enqueue(key, op); err != nil {
		return err
	}

	timer := time.NewTimer(m.config.WriteTimeout)
	defer timer.Stop()

	var giveUp error
	select {
	case err := <-op.result:
		return err
	case <-ctx.Done():
		giveUp = ctx.Err()
	case <-timer.C:
		giveUp = ErrWriteTimeout
	}

	if op.state.CompareAndSwap(opQueued, opAbandoned) {
		return giveUp
	}
	// 已开始执行，等待真实结果
	return <-op.result
}

// enqueue 入队在锁内完成，关闭队列同样持锁，因此不会向已关闭的通道发送
func (m *Manager) enqueue(key string, op writeOp) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrWriteQueueClosed
	}

	l, ok := m.lanes[key]
	if !ok {
		l = &lane{ops: make(chan writeOp, m.config.QueueCapacity)}
		m.lanes[key] = l
		m.workers.Add(1)
		go m.consume(key, l)
		m.logger.Debug("created write queue", zap.String("key", key))
	}

	select {
	case l.ops <- op:
		l.inflight.Add(1)
		l.lastUsed = time.Now()
		return nil
	default:
		return ErrWriteQueueFull
	}
}

func (m *Manager) consume(key string, l *lane) {
	defer m.workers.Done()
	for op := range l.ops {
		op.result <- m.run(key, op)
		l.inflight.Add(-1)
	}
	m.logger.Debug("write queue worker stopped", zap.String("key", key))
}

// run 执行单个写操作，调用方已放弃等待时跳过执行
func (m *Manager) run(key string, op writeOp) (err error) {
	if !op.state.CompareAndSwap(opQueued, opRunning) {
		return ErrWriteTimeout
	}
	if err := op.ctx.Err(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("write queue %s: panic: %v", key, r)
			m.logger.Error("write queue operation panic", zap.String("key", key), zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	return op.fn()
}

// reapIdle 定期回收空闲且没有待执行操作的队列
func (m *Manager) reapIdle() {
	ticker := time.NewTicker(m.config.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for key, l := range m.lanes {
				if l.inflight.Load() == 0 && now.Sub(l.lastUsed) > m.config.IdleTimeout {
					close(l.ops)
					delete(m.lanes, key)
				}
			}
			m.mu.Unlock()
		}
	}
}

// Shutdown 停止接收写操作，等待已入队的操作执行完
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.stop)
	for key, l := range m.lanes {
		close(l.ops)
		delete(m.lanes, key)
	}
	m.mu.Unlock()

	m.logger.Info("write queue manager shutting down")

	done := make(chan struct{})
	go func() {
		m.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("write queue manager shutdown completed")
		return nil
	case <-ctx.Done():
		m.logger.Warn("write queue manager shutdown timeout")
		return ctx.Err()
	}
}

// QueueCount 当前存在的队列数
func (m *Manager) QueueCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lanes)
}

// IsClosed 是否已关闭
func (m *Manager) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Metrics 写队列状态
type Metrics struct {
	QueueCapacity int
	ActiveQueues  int
	IsClosed      bool
}

// GetMetrics 获取当前状态
func (m *Manager) GetMetrics() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Metrics{
		QueueCapacity: m.config.QueueCapacity,
		ActiveQueues:  len(m.lanes),
		IsClosed:      m.closed,
	}
}
