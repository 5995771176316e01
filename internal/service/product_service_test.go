package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haierkeys/inventory-audit-service/internal/domain"
	"github.com/haierkeys/inventory-audit-service/internal/dto"
	"github.com/haierkeys/inventory-audit-service/pkg/code"
)

func TestCategoryService_CreateUpperCasesAndRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := asUser(uuid.New())

	cat, err := f.categories.Create(ctx, &dto.CategoryCreateRequest{Name: "  tools ", Description: "hand tools"})
	require.NoError(t, err)
	assert.Equal(t, "TOOLS", cat.Name)

	_, err = f.categories.Create(ctx, &dto.CategoryCreateRequest{Name: "Tools"})
	assert.ErrorIs(t, err, code.ErrorCategoryExists)

	list, err := f.categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, f.categories.Delete(ctx, cat.ID.String(), dto.AuditNote{Reason: "merged"}))
	assert.ErrorIs(t, f.categories.Delete(ctx, cat.ID.String(), dto.AuditNote{}), code.ErrorCategoryNotFound)

	records := f.historyOf(t, domain.EntityCategory, cat.ID)
	require.Len(t, records, 2)
	assert.Equal(t, domain.ActionDelete, records[0].Action)
	assert.Equal(t, "merged", records[0].Reason)
	assert.Equal(t, domain.ActionCreate, records[1].Action)
}

func TestProductService_CreateUpdateScenario(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()
	ctx := asUser(user)
	_, p, _ := f.seed(t, ctx)

	records := f.historyOf(t, domain.EntityProduct, p.ID)
	require.Len(t, records, 1)
	create := records[0]
	assert.Equal(t, domain.ActionCreate, create.Action)
	require.NotNil(t, create.ActorID)
	assert.Equal(t, user, *create.ActorID)

	fields := map[string]any{}
	for _, c := range create.Changes {
		assert.Nil(t, c.From)
		fields[c.Field] = c.To
	}
	assert.Equal(t, "Widget", fields["name"])
	assert.EqualValues(t, 10, fields["price"])
	assert.NotContains(t, fields, "version")
	assert.NotContains(t, fields, "updated_at")

	updated, err := f.products.Patch(ctx, p.ID.String(), &dto.ProductPatchRequest{Price: ptr(float64(12))})
	require.NoError(t, err)
	assert.Equal(t, float64(12), updated.Price)

	records = f.historyOf(t, domain.EntityProduct, p.ID)
	require.Len(t, records, 2)
	assert.Equal(t, domain.ActionUpdate, records[0].Action)
	require.Len(t, records[0].Changes, 1)
	assert.Equal(t, "price", records[0].Changes[0].Field)
	assert.EqualValues(t, 10, records[0].Changes[0].From)
	assert.EqualValues(t, 12, records[0].Changes[0].To)

	// 相同的更新不产生新记录
	_, err = f.products.Patch(ctx, p.ID.String(), &dto.ProductPatchRequest{Price: ptr(float64(12))})
	require.NoError(t, err)
	assert.Len(t, f.historyOf(t, domain.EntityProduct, p.ID), 2)
}

func TestProductService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := asUser(uuid.New())
	cat, p, _ := f.seed(t, ctx)

	tests := []struct {
		name string
		req  dto.ProductCreateRequest
		want *code.Code
	}{
		{"duplicate name", dto.ProductCreateRequest{Name: p.Name, Description: "other", CategoryID: cat.ID.String(), Price: 2, SKU: "X-1"}, code.ErrorProductExists},
		{"duplicate sku", dto.ProductCreateRequest{Name: "Gadget", Description: "other", CategoryID: cat.ID.String(), Price: 2, SKU: "WG-1"}, code.ErrorSKUExists},
		{"unknown category", dto.ProductCreateRequest{Name: "Gadget", Description: "other", CategoryID: uuid.NewString(), Price: 2, SKU: "X-2"}, code.ErrorCategoryNotFound},
		{"bad category id", dto.ProductCreateRequest{Name: "Gadget", Description: "other", CategoryID: "nope", Price: 2, SKU: "X-3"}, code.ErrorInvalidID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.products.Create(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	require.NoError(t, f.categories.Delete(ctx, cat.ID.String(), dto.AuditNote{}))
	_, err := f.products.Create(ctx, &dto.ProductCreateRequest{Name: "Gadget", Description: "other", CategoryID: cat.ID.String(), Price: 2, SKU: "X-4"})
	assert.ErrorIs(t, err, code.ErrorCategoryInactive)
}

func TestProductService_PatchRules(t *testing.T) {
	f := newFixture(t)
	ctx := asUser(uuid.New())
	_, p, _ := f.seed(t, ctx)

	_, err := f.products.Patch(ctx, p.ID.String(), &dto.ProductPatchRequest{})
	assert.ErrorIs(t, err, code.ErrorUpdateNotAllowed)

	_, err = f.products.Patch(ctx, uuid.NewString(), &dto.ProductPatchRequest{Price: ptr(float64(3))})
	assert.ErrorIs(t, err, code.ErrorProductNotFound)

	_, err = f.products.Patch(ctx, p.ID.String(), &dto.ProductPatchRequest{CategoryID: ptr(uuid.NewString())})
	assert.ErrorIs(t, err, code.ErrorCategoryNotFound)

	assert.Len(t, f.historyOf(t, domain.EntityProduct, p.ID), 1)
}

func TestProductService_SoftDeleteRecordsOneDelete(t *testing.T) {
	f := newFixture(t)
	ctx := asUser(uuid.New())
	_, p, _ := f.seed(t, ctx)

	require.NoError(t, f.products.Delete(ctx, p.ID.String(), dto.AuditNote{Reason: "discontinued"}))

	records := f.historyOf(t, domain.EntityProduct, p.ID)
	require.Len(t, records, 2)
	del := records[0]
	assert.Equal(t, domain.ActionDelete, del.Action)
	assert.Equal(t, "discontinued", del.Reason)
	for _, c := range del.Changes {
		assert.Nil(t, c.To, c.Field)
	}

	_, err := f.products.Get(ctx, p.ID.String())
	assert.ErrorIs(t, err, code.ErrorProductNotFound)
	assert.ErrorIs(t, f.products.Delete(ctx, p.ID.String(), dto.AuditNote{}), code.ErrorProductNotFound)
}

func TestProductService_FullUpdateCommits(t *testing.T) {
	f := newFixture(t)
	ctx := asUser(uuid.New())
	cat, p, st := f.seed(t, ctx)

	res, err := f.products.FullUpdate(ctx, p.ID.String(), &dto.ProductFullUpdateRequest{
		Price:       ptr(float64(15)),
		Description: ptr("green widget"),
		CategoryID:  ptr(cat.ID.String()),
		Quantity:    ptr(int64(9)),
		AuditNote:   dto.AuditNote{ReferenceID: "PO-7", ReferenceModel: "PurchaseOrder"},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(15), res.Product.Price)
	assert.Equal(t, "green widget", res.Product.Description)
	assert.Equal(t, int64(9), res.Stock.Quantity)

	productRecords := f.historyOf(t, domain.EntityProduct, p.ID)
	require.Len(t, productRecords, 2)
	assert.Equal(t, "PO-7", productRecords[0].ReferenceID)

	stockRecords := f.historyOf(t, domain.EntityStock, st.ID)
	require.Len(t, stockRecords, 2)
	require.Len(t, stockRecords[0].Changes, 1)
	assert.Equal(t, "quantity", stockRecords[0].Changes[0].Field)
}

func TestProductService_FullUpdateRollsBackWhenStockMissing(t *testing.T) {
	f := newFixture(t)
	ctx := asUser(uuid.New())
	cat, p, st := f.seed(t, ctx)
	require.NoError(t, f.stocks.Delete(ctx, st.ID.String(), dto.AuditNote{}))

	_, err := f.products.FullUpdate(ctx, p.ID.String(), &dto.ProductFullUpdateRequest{
		Price:       ptr(float64(99)),
		Description: ptr("changed"),
		CategoryID:  ptr(cat.ID.String()),
		Quantity:    ptr(int64(1)),
	})
	assert.ErrorIs(t, err, code.ErrorFullUpdateFailed)

	got, err := f.products.Get(context.Background(), p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, float64(10), got.Price)
	assert.Len(t, f.historyOf(t, domain.EntityProduct, p.ID), 1)
}

func TestProductService_FullUpdateRequiresAllFields(t *testing.T) {
	f := newFixture(t)
	ctx := asUser(uuid.New())
	_, p, _ := f.seed(t, ctx)

	_, err := f.products.FullUpdate(ctx, p.ID.String(), &dto.ProductFullUpdateRequest{Price: ptr(float64(3))})
	assert.ErrorIs(t, err, code.ErrorFullUpdateFieldsRequired)
}
