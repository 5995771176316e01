package dao

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/goutil/dump"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/pkg/diff"
)

// newTestDao 创建基于内存 SQLite 的 Dao
func newTestDao(t *testing.T) *Dao {
	t.Helper()
	cfg := DatabaseConfig{
		Type:         "sqlite",
		Path:         ":memory:",
		AutoMigrate:  true,
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}
	db, err := NewDBEngineWithConfig(cfg, nil)
	require.NoError(t, err)

	d := New(db, context.Background(), WithConfig(&cfg))
	require.NoError(t, d.MigrateAll())

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return d
}

func seedProduct(t *testing.T, d *Dao) (*domain.Category, *domain.Product) {
	t.Helper()
	ctx := context.Background()
	cat, err := NewCategoryRepository(d).Create(ctx, &domain.Category{Name: "TOOLS", Description: "hand tools", Active: true})
	require.NoError(t, err)
	p, err := NewProductRepository(d).Create(ctx, &domain.Product{
		Name:        "Hammer",
		Description: "claw hammer",
		CategoryID:  cat.ID,
		Price:       10,
		SKU:         "HM-1",
		Active:      true,
	})
	require.NoError(t, err)
	return cat, p
}

func TestProductRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)
	cat, p := seedProduct(t, d)
	repo := NewProductRepository(d)

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	dump.P(got)
	assert.Equal(t, "Hammer", got.Name)
	assert.Equal(t, cat.ID, got.CategoryID)
	assert.Equal(t, int64(1), got.Version)

	withCat, err := repo.GetActiveWithCategory(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "TOOLS", withCat.CategoryName)

	list, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)

	exists, err := repo.ExistsActive(ctx, "sku", "HM-1")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.ExistsActive(ctx, "password", "x")
	assert.Error(t, err)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductRepository_UpdateOne(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)
	_, p := seedProduct(t, d)
	repo := NewProductRepository(d)
	actor := uuid.New()

	updated, err := repo.UpdateOne(ctx, domain.ActiveByID(p.ID), domain.NewPatch(
		diff.F("price", float64(12)),
		diff.F("updated_by", &actor),
	))
	require.NoError(t, err)
	assert.Equal(t, float64(12), updated.Price)
	assert.Equal(t, int64(2), updated.Version)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, actor, *updated.UpdatedBy)

	_, err = repo.UpdateOne(ctx, domain.ActiveByID(uuid.New()), domain.NewPatch(diff.F("price", float64(1))))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	deleted, err := repo.UpdateOne(ctx, domain.ActiveByID(p.ID), domain.SoftDeletePatch())
	require.NoError(t, err)
	assert.False(t, deleted.Active)

	_, err = repo.FindOne(ctx, domain.ActiveByID(p.ID))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStockRepository_ListActive(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)
	_, p := seedProduct(t, d)
	repo := NewStockRepository(d)

	s, err := repo.Create(ctx, &domain.Stock{ProductID: p.ID, Quantity: 5, Active: true})
	require.NoError(t, err)

	views, err := repo.ListActive(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, s.ID, views[0].ID)
	assert.Equal(t, "Hammer", views[0].ProductName)
	assert.Equal(t, "TOOLS", views[0].CategoryName)
	assert.Equal(t, int64(5), views[0].Quantity)

	views, err = repo.ListActive(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestHistoryRepository_AppendAndList(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)
	repo := NewHistoryRepository(d)
	entityID := uuid.New()
	actor := uuid.New()
	base := time.UnixMilli(1700000000000)

	// 前两条时间戳相同，按ID区分先后
	stamps := []time.Time{base, base, base.Add(time.Second)}
	var ids []string
	for i, ts := range stamps {
		id, err := repo.Append(ctx, &domain.HistoryRecord{
			EntityType: domain.EntityProduct,
			EntityID:   entityID,
			Action:     domain.ActionUpdate,
			ActorID:    &actor,
			Changes:    []diff.Change{{Field: "price", From: float64(i), To: float64(i + 1)}},
			Reason:     "recount",
			Timestamp:  ts,
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Less(t, ids[0], ids[1])

	list, err := repo.ListByEntity(ctx, domain.EntityProduct, entityID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{list[0].ID, list[1].ID, list[2].ID})

	newest := list[0]
	assert.Equal(t, domain.ActionUpdate, newest.Action)
	assert.Equal(t, "recount", newest.Reason)
	require.NotNil(t, newest.ActorID)
	assert.Equal(t, actor, *newest.ActorID)
	require.Len(t, newest.Changes, 1)
	assert.Equal(t, "price", newest.Changes[0].Field)
	assert.Equal(t, float64(3), newest.Changes[0].To)

	page, err := repo.ListByEntityPage(ctx, domain.EntityProduct, entityID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)

	count, err := repo.CountByEntity(ctx, domain.EntityProduct, entityID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	_, err = repo.Append(ctx, &domain.HistoryRecord{EntityType: domain.EntityProduct, EntityID: entityID, Action: "MOVE"})
	assert.Error(t, err)
}

func TestDao_TransactionRollback(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)
	_, p := seedProduct(t, d)
	repo := NewProductRepository(d)
	boom := errors.New("boom")

	err := d.Transaction(ctx, func(ctx context.Context) error {
		if _, err := repo.UpdateOne(ctx, domain.ByID(p.ID), domain.NewPatch(diff.F("price", float64(99)))); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(10), got.Price)
}

func TestRoleRepository_EnsureLabel(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)
	repo := NewRoleRepository(d)

	first, err := repo.EnsureLabel(ctx, "admin")
	require.NoError(t, err)
	second, err := repo.EnsureLabel(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	roles, err := repo.ListByIDs(ctx, []uuid.UUID{first.ID})
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "admin", roles[0].Label)
}
