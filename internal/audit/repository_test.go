package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/pkg/diff"
	"github.com/haierkeys/inventory-audit-service/pkg/writequeue"
)

type fixture struct {
	repo    *memWidgetRepo
	history *memHistory
	capture *Capture
	audited *AuditedRepository[*widget]
}

func newFixture(t *testing.T, queue Serializer, opts ...Option) *fixture {
	t.Helper()
	repo := newMemWidgetRepo()
	history := &memHistory{}
	opts = append([]Option{WithClock(stepClock(time.Unix(1700000000, 0)))}, opts...)
	capture := NewCapture(history, nil, opts...)
	return &fixture{
		repo:    repo,
		history: history,
		capture: capture,
		audited: NewAuditedRepository[*widget]("Widget", repo, capture, queue),
	}
}

func changeMap(changes []diff.Change) map[string]diff.Change {
	out := make(map[string]diff.Change, len(changes))
	for _, c := range changes {
		out[c.Field] = c
	}
	return out
}

func TestAuditedRepository_WidgetLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	user := uuid.New()
	ac := Session(user)

	created, err := f.audited.Create(ctx, ac, &widget{Name: "A", Price: 10, Active: true})
	require.NoError(t, err)

	records := f.history.all()
	require.Len(t, records, 1)
	create := records[0]
	assert.Equal(t, domain.ActionCreate, create.Action)
	assert.Equal(t, "Widget", create.EntityType)
	assert.Equal(t, created.ID, create.EntityID)
	require.NotNil(t, create.ActorID)
	assert.Equal(t, user, *create.ActorID)

	fields := changeMap(create.Changes)
	assert.Equal(t, diff.Change{Field: "name", From: nil, To: "A"}, fields["name"])
	assert.Equal(t, diff.Change{Field: "price", From: nil, To: float64(10)}, fields["price"])
	for _, system := range []string{"id", "version", "updated_at", "updated_by"} {
		assert.NotContains(t, fields, system)
	}
	assert.Equal(t, diff.Change{Field: "note", From: nil, To: nil}, fields["note"])

	_, err = f.audited.Update(ctx, ac, domain.ActiveByID(created.ID), domain.NewPatch(diff.F("price", float64(12))))
	require.NoError(t, err)

	records = f.history.all()
	require.Len(t, records, 2)
	update := records[1]
	assert.Equal(t, domain.ActionUpdate, update.Action)
	assert.Equal(t, []diff.Change{{Field: "price", From: float64(10), To: float64(12)}}, update.Changes)
	require.NotNil(t, update.ActorID)
	assert.Equal(t, user, *update.ActorID)
	assert.True(t, update.Timestamp.After(create.Timestamp))
}

func TestAuditedRepository_UpdateWithoutChangeRecordsNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	created, err := f.audited.Create(ctx, System(), &widget{Name: "A", Price: 10, Active: true})
	require.NoError(t, err)

	_, err = f.audited.Update(ctx, System(), domain.ByID(created.ID), domain.NewPatch(diff.F("price", float64(10))))
	require.NoError(t, err)

	assert.Len(t, f.history.all(), 1)
	assert.Equal(t, 1, f.repo.updates, "the write itself still happens")
}

func TestAuditedRepository_UpdateOnlyComparesTouchedFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	created, err := f.audited.Create(ctx, System(), &widget{Name: "A", Price: 10, Active: true})
	require.NoError(t, err)

	// 绕过审计直接修改名称
	_, err = f.repo.UpdateOne(ctx, domain.ByID(created.ID), domain.NewPatch(diff.F("name", "B")))
	require.NoError(t, err)

	_, err = f.audited.Update(ctx, System(), domain.ByID(created.ID), domain.NewPatch(diff.F("price", float64(11))))
	require.NoError(t, err)

	records := f.history.all()
	require.Len(t, records, 2)
	assert.Equal(t, []diff.Change{{Field: "price", From: float64(10), To: float64(11)}}, records[1].Changes)
}

func TestAuditedRepository_SoftDeleteRecordsSingleDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	note := "fragile"

	created, err := f.audited.Create(ctx, System(), &widget{Name: "A", Price: 10, Note: &note, Active: true})
	require.NoError(t, err)

	deleted, err := f.audited.SoftDelete(ctx, Session(uuid.New()), domain.ActiveByID(created.ID))
	require.NoError(t, err)
	assert.False(t, deleted.Active)

	records := f.history.all()
	require.Len(t, records, 2)
	del := records[1]
	assert.Equal(t, domain.ActionDelete, del.Action)

	fields := changeMap(del.Changes)
	assert.Equal(t, diff.Change{Field: "name", From: "A", To: nil}, fields["name"])
	assert.Equal(t, diff.Change{Field: "note", From: "fragile", To: nil}, fields["note"])
	assert.Equal(t, diff.Change{Field: "active", From: true, To: nil}, fields["active"])
	assert.NotContains(t, fields, "updated_by")
}

func TestAuditedRepository_MissingEntityRecordsNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.audited.Update(ctx, System(), domain.ActiveByID(uuid.New()), domain.NewPatch(diff.F("price", float64(1))))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.history.all())
	assert.Zero(t, f.repo.updates)
}

func TestAuditedRepository_RefetchFailureKeepsWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	created, err := f.audited.Create(ctx, System(), &widget{Name: "A", Price: 10, Active: true})
	require.NoError(t, err)

	f.repo.failGet = true
	updated, err := f.audited.Update(ctx, System(), domain.ByID(created.ID), domain.NewPatch(diff.F("price", float64(20))))
	require.NoError(t, err)
	assert.Equal(t, float64(20), updated.Price)
	assert.Len(t, f.history.all(), 1)
}

func TestAuditedRepository_AppendFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.history.failWith = errors.New("disk full")

	created, err := f.audited.Create(ctx, System(), &widget{Name: "A", Price: 10, Active: true})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	_, err = f.audited.Update(ctx, System(), domain.ByID(created.ID), domain.NewPatch(diff.F("price", float64(12))))
	require.NoError(t, err)
	assert.Empty(t, f.history.all())
}

type panicPublisher struct{}

func (panicPublisher) Publish(ctx context.Context, rec *domain.HistoryRecord) {
	panic("publisher exploded")
}

func TestAuditedRepository_PanicInCaptureIsContained(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, WithPublisher(panicPublisher{}))

	assert.NotPanics(t, func() {
		created, err := f.audited.Create(ctx, System(), &widget{Name: "A", Price: 10, Active: true})
		require.NoError(t, err)
		_, err = f.audited.Update(ctx, System(), domain.ByID(created.ID), domain.NewPatch(diff.F("name", "B")))
		require.NoError(t, err)
	})
	assert.Len(t, f.history.all(), 2)
}

func TestAuditedRepository_ActorFallsBackToUpdatedBy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	owner := uuid.New()

	created, err := f.audited.Create(ctx, System(), &widget{Name: "A", Price: 10, Active: true, UpdatedBy: &owner})
	require.NoError(t, err)

	_, err = f.audited.Update(ctx, System(), domain.ByID(created.ID), domain.NewPatch(diff.F("name", "B")))
	require.NoError(t, err)

	for _, rec := range f.history.all() {
		require.NotNil(t, rec.ActorID)
		assert.Equal(t, owner, *rec.ActorID)
	}
}

func TestAuditedRepository_StampsUpdatedBy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	user := uuid.New()

	created, err := f.audited.Create(ctx, System(), &widget{Name: "A", Price: 10, Active: true})
	require.NoError(t, err)

	updated, err := f.audited.Update(ctx, Session(user), domain.ByID(created.ID), domain.NewPatch(diff.F("name", "B")))
	require.NoError(t, err)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, user, *updated.UpdatedBy)

	records := f.history.all()
	require.Len(t, records, 2)
	assert.Equal(t, []diff.Change{{Field: "name", From: "A", To: "B"}}, records[1].Changes)
}

func TestAuditedRepository_AnnotationIsCopied(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	ac := System().WithAnnotation(Annotation{Reason: "recount", ReferenceID: "PO-1", ReferenceModel: "PurchaseOrder", Notes: "dock 3"})

	_, err := f.audited.Create(ctx, ac, &widget{Name: "A", Price: 10, Active: true})
	require.NoError(t, err)

	rec := f.history.all()[0]
	assert.Equal(t, "recount", rec.Reason)
	assert.Equal(t, "PO-1", rec.ReferenceID)
	assert.Equal(t, "PurchaseOrder", rec.ReferenceModel)
	assert.Equal(t, "dock 3", rec.Notes)
}

func TestAuditedRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	created, err := f.audited.Create(ctx, System(), &widget{Name: "A", Price: 1, Active: true})
	require.NoError(t, err)
	for _, price := range []float64{2, 3} {
		_, err = f.audited.Update(ctx, System(), domain.ByID(created.ID), domain.NewPatch(diff.F("price", price)))
		require.NoError(t, err)
	}

	list, err := f.history.ListByEntity(ctx, "Widget", created.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, domain.ActionUpdate, list[0].Action)
	assert.Equal(t, float64(3), list[0].Changes[0].To)
	assert.Equal(t, float64(2), list[1].Changes[0].To)
	assert.Equal(t, domain.ActionCreate, list[2].Action)
}

func TestAuditedRepository_ConcurrentUpdatesAreSerialized(t *testing.T) {
	ctx := context.Background()
	queue := writequeue.New(nil, nil)
	defer queue.Shutdown(ctx)
	f := newFixture(t, queue)

	created, err := f.audited.Create(ctx, System(), &widget{Name: "A", Price: 0, Active: true})
	require.NoError(t, err)

	const writers = 20
	var wg sync.WaitGroup
	for i := 1; i <= writers; i++ {
		wg.Add(1)
		go func(price float64) {
			defer wg.Done()
			_, err := f.audited.Update(ctx, System(), domain.ByID(created.ID), domain.NewPatch(diff.F("price", price)))
			assert.NoError(t, err)
		}(float64(i))
	}
	wg.Wait()

	records := f.history.all()
	require.Len(t, records, writers+1)

	// 每条 UPDATE 的 from 等于上一条的 to
	prev := float64(0)
	for _, rec := range records[1:] {
		require.Len(t, rec.Changes, 1)
		assert.Equal(t, prev, rec.Changes[0].From)
		prev = rec.Changes[0].To.(float64)
	}
}

func TestAuditedRepository_SlowWriteOutlivesQueueTimeout(t *testing.T) {
	ctx := context.Background()
	queue := writequeue.New(&writequeue.Config{WriteTimeout: 50 * time.Millisecond}, nil)
	defer queue.Shutdown(ctx)
	f := newFixture(t, queue)

	created, err := f.audited.Create(ctx, System(), &widget{Name: "A", Price: 10, Active: true})
	require.NoError(t, err)
	f.repo.delay = 200 * time.Millisecond

	updated, err := f.audited.Update(ctx, System(), domain.ByID(created.ID), domain.NewPatch(diff.F("price", float64(12))))
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, float64(12), updated.Price)

	stored, err := f.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(12), stored.Price)
	require.Len(t, f.history.all(), 2)
}

func TestAuditedRepository_QueuedWriteTimeoutIsNotApplied(t *testing.T) {
	ctx := context.Background()
	queue := writequeue.New(&writequeue.Config{WriteTimeout: 50 * time.Millisecond}, nil)
	defer queue.Shutdown(ctx)
	f := newFixture(t, queue)

	created, err := f.audited.Create(ctx, System(), &widget{Name: "A", Price: 10, Active: true})
	require.NoError(t, err)
	f.repo.delay = 200 * time.Millisecond

	first := make(chan error, 1)
	go func() {
		_, err := f.audited.Update(ctx, System(), domain.ByID(created.ID), domain.NewPatch(diff.F("price", float64(12))))
		first <- err
	}()
	assert.Eventually(t, func() bool { return queue.QueueCount() == 1 }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	_, err = f.audited.Update(ctx, System(), domain.ByID(created.ID), domain.NewPatch(diff.F("price", float64(99))))
	assert.ErrorIs(t, err, writequeue.ErrWriteTimeout)
	require.NoError(t, <-first)

	// 空操作排在被放弃的写之后，执行完说明队列已排空
	require.NoError(t, queue.Execute(ctx, "Widget:"+created.ID.String(), func() error { return nil }))
	stored, err := f.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(12), stored.Price)
	records := f.history.all()
	require.Len(t, records, 2)
	assert.Equal(t, float64(12), records[1].Changes[0].To)
}

func TestResolveActor(t *testing.T) {
	session, options, stored := uuid.New(), uuid.New(), uuid.New()
	nilID := uuid.Nil

	tests := []struct {
		name      string
		ac        ActorContext
		updatedBy *uuid.UUID
		want      *uuid.UUID
	}{
		{"session wins", ActorContext{Session: &session, Options: &options}, &stored, &session},
		{"options before entity", ActorContext{Options: &options}, &stored, &options},
		{"entity updated_by", ActorContext{}, &stored, &stored},
		{"nothing known", ActorContext{}, nil, nil},
		{"nil uuid is absent", ActorContext{Session: &nilID}, &stored, &stored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveActor(tt.ac, tt.updatedBy)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestFromContext(t *testing.T) {
	user := uuid.New()
	ac := FromContext(WithActor(context.Background(), user))
	require.NotNil(t, ac.Session)
	assert.Equal(t, user, *ac.Session)

	assert.Nil(t, FromContext(context.Background()).Session)
	assert.Nil(t, FromContext(WithActor(context.Background(), uuid.Nil)).Session)
}
