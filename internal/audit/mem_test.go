package audit

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/pkg/diff"
)

// widget 测试用的被审计实体
type widget struct {
	ID        uuid.UUID
	Name      string
	Price     float64
	Note      *string
	Active    bool
	Version   int64
	UpdatedBy *uuid.UUID
	UpdatedAt time.Time
}

func (w *widget) EntityType() string      { return "Widget" }
func (w *widget) EntityID() uuid.UUID      { return w.ID }
func (w *widget) UpdatedByID() *uuid.UUID { return w.UpdatedBy }

func (w *widget) Snapshot() diff.Snapshot {
	return diff.Of(
		diff.F("id", w.ID),
		diff.F("name", w.Name),
		diff.F("price", w.Price),
		diff.F("note", w.Note),
		diff.F("active", w.Active),
		diff.F("version", w.Version),
		diff.F("updated_by", w.UpdatedBy),
		diff.F("updated_at", w.UpdatedAt),
	)
}

// memWidgetRepo 内存实现的 domain.Repository[*widget]
type memWidgetRepo struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]widget
	order   []uuid.UUID
	failGet bool          // 更新后重新读取失败
	delay   time.Duration // UpdateOne 写入前的耗时
	updates int
}

func newMemWidgetRepo() *memWidgetRepo {
	return &memWidgetRepo{rows: make(map[uuid.UUID]widget)}
}

func (m *memWidgetRepo) Create(ctx context.Context, w *widget) (*widget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	w.Version = 1
	w.UpdatedAt = time.Now()
	m.rows[w.ID] = *w
	m.order = append(m.order, w.ID)
	out := *w
	return &out, nil
}

func (m *memWidgetRepo) FindByID(ctx context.Context, id uuid.UUID) (*widget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errors.New("read replica unavailable")
	}
	row, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

func (m *memWidgetRepo) FindOne(ctx context.Context, q domain.Query) (*widget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.match(q)
	if !ok {
		return nil, domain.ErrNotFound
	}
	row := m.rows[id]
	return &row, nil
}

func (m *memWidgetRepo) UpdateOne(ctx context.Context, q domain.Query, p domain.Patch) (*widget, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.match(q)
	if !ok {
		return nil, domain.ErrNotFound
	}
	row := m.rows[id]
	for _, name := range p.Fields() {
		v, _ := p.Get(name)
		switch name {
		case "name":
			row.Name = v.(string)
		case "price":
			row.Price = v.(float64)
		case "note":
			row.Note, _ = v.(*string)
		case "active":
			row.Active = v.(bool)
		case "updated_by":
			row.UpdatedBy, _ = v.(*uuid.UUID)
		}
	}
	row.Version++
	row.UpdatedAt = time.Now()
	m.rows[id] = row
	m.updates++
	out := row
	return &out, nil
}

func (m *memWidgetRepo) match(q domain.Query) (uuid.UUID, bool) {
	for _, id := range m.order {
		row := m.rows[id]
		snap := row.Snapshot()
		matched := true
		for col, want := range q {
			got, _ := snap.Get(col)
			if !diff.Equal(got, want) {
				matched = false
				break
			}
		}
		if matched {
			return id, true
		}
	}
	return uuid.Nil, false
}

func (m *memWidgetRepo) save() map[uuid.UUID]widget {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uuid.UUID]widget, len(m.rows))
	for k, v := range m.rows {
		out[k] = v
	}
	return out
}

func (m *memWidgetRepo) restore(rows map[uuid.UUID]widget) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = rows
}

// memHistory 内存实现的 domain.HistoryRepository
type memHistory struct {
	domain.HistoryRepository
	mu       sync.Mutex
	records  []*domain.HistoryRecord
	seq      int
	failWith error
}

func (h *memHistory) Append(ctx context.Context, rec *domain.HistoryRecord) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failWith != nil {
		return "", h.failWith
	}
	h.seq++
	cp := *rec
	cp.ID = fmt.Sprintf("%06d", h.seq)
	h.records = append(h.records, &cp)
	return cp.ID, nil
}

func (h *memHistory) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*domain.HistoryRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*domain.HistoryRecord
	for _, r := range h.records {
		if r.EntityType == entityType && r.EntityID == entityID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (h *memHistory) all() []*domain.HistoryRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*domain.HistoryRecord(nil), h.records...)
}

// memTx 事务回滚时恢复仓储内容
type memTx struct {
	repos []*memWidgetRepo
	calls int
}

func (t *memTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	saved := make([]map[uuid.UUID]widget, len(t.repos))
	for i, r := range t.repos {
		saved[i] = r.save()
	}
	if err := fn(ctx); err != nil {
		for i, r := range t.repos {
			r.restore(saved[i])
		}
		return err
	}
	return nil
}

// stepClock 每次调用前进一毫秒
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Millisecond)
		return now
	}
}
