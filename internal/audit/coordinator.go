package audit

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Transactor opens an all-or-nothing scope. fn receives a context bound to the scope;
// returning an error rolls every write in it back.
// Transactor 开启一个全部成功或全部回滚的范围，fn 返回错误时回滚
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Step is one mutation of an atomic run
// Step 原子操作中的一个步骤
type Step func(ctx context.Context, ac ActorContext) error

// Coordinator runs several audited mutations as one unit. History produced by the steps
// is buffered and only appended after the scope commits.
// Coordinator 将多个被审计的变更作为一个整体执行，历史记录在提交后才写入
type Coordinator struct {
	tx      Transactor
	capture *Capture
	logger  *zap.Logger
}

// NewCoordinator creates a Coordinator
func NewCoordinator(tx Transactor, capture *Capture, lg *zap.Logger) *Coordinator {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Coordinator{tx: tx, capture: capture, logger: lg}
}

// RunAtomic executes steps in order inside one transaction.
// The first failing step aborts the run: all writes are rolled back, buffered history is
// discarded and the error is returned wrapped with the step index.
// Calling RunAtomic from inside a step joins the outer run.
// RunAtomic 在同一事务内依次执行各步骤
// 任一步骤失败即中止：回滚全部写入，丢弃暂存的历史记录，并返回带步骤序号的错误
func (c *Coordinator) RunAtomic(ctx context.Context, ac ActorContext, steps ...Step) error {
	if InAtomicScope(ctx) {
		return runSteps(ctx, ac, steps)
	}

	var buf *pending
	err := c.tx.Transaction(ctx, func(txCtx context.Context) error {
		var scoped context.Context
		scoped, buf = withPending(txCtx)
		return runSteps(scoped, ac, steps)
	})

	if err != nil {
		discarded := 0
		if buf != nil {
			discarded = len(buf.drain())
		}
		atomicRunsTotal.WithLabelValues("aborted").Inc()
		c.logger.Warn("atomic run aborted",
			zap.Int("discarded", discarded),
			zap.Error(err))
		return err
	}

	atomicRunsTotal.WithLabelValues("committed").Inc()
	if buf != nil {
		records := buf.drain()
		c.logger.Debug("atomic run committed", zap.Int("steps", len(steps)), zap.Int("records", len(records)))
		c.capture.flush(ctx, records)
	}
	return nil
}

func runSteps(ctx context.Context, ac ActorContext, steps []Step) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "atomic step %d", i)
		}
		if err := step(ctx, ac); err != nil {
			return errors.Wrapf(err, "atomic step %d", i)
		}
	}
	return nil
}
