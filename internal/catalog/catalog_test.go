package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikobuddy/caygnusecomers/internal/store"
)

type fakeStore struct {
	docs map[string]map[string]store.Document
	err  error

	lastQueryField string
	lastQueryOp    store.Operator
	lastQueryValue interface{}
}

func (f *fakeStore) GetDocument(_ context.Context, collection, id string) (store.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	doc, ok := f.docs[collection][id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return doc, nil
}

func (f *fakeStore) SetDocument(context.Context, string, string, store.Document) error {
	return nil
}

func (f *fakeStore) UpdateFields(context.Context, string, string, store.Document) error {
	return nil
}

func (f *fakeStore) QueryByField(_ context.Context, collection, field string, op store.Operator, value interface{}) ([]store.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastQueryField = field
	f.lastQueryOp = op
	f.lastQueryValue = value

	var out []store.Document
	for _, doc := range f.docs[collection] {
		if op == store.OpEqual && doc[field] != value {
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

func TestGetProduct(t *testing.T) {
	st := &fakeStore{docs: map[string]map[string]store.Document{
		"products": {
			"p1": {"name": "Keyboard", "price": 10.0, "stock": 4},
		},
	}}
	sut := NewService(st)

	product, err := sut.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)
	assert.Equal(t, "Keyboard", product.Name)
	assert.Equal(t, 10.0, product.Price)
}

func TestGetProduct_NotFound(t *testing.T) {
	sut := NewService(&fakeStore{})

	_, err := sut.GetProduct(context.Background(), "missing")
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestGetProduct_StoreError(t *testing.T) {
	sut := NewService(&fakeStore{err: fmt.Errorf("database error")})

	_, err := sut.GetProduct(context.Background(), "p1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrProductNotFound)
}

func TestListProducts(t *testing.T) {
	st := &fakeStore{docs: map[string]map[string]store.Document{
		"products": {
			"p1": {"name": "Keyboard", "price": 10.0},
			"p2": {"name": "Mouse", "price": 5.0},
		},
	}}
	sut := NewService(st)

	products, err := sut.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "price", st.lastQueryField)
	assert.Equal(t, store.OpGreaterOrEqual, st.lastQueryOp)
}

func TestListByCategory(t *testing.T) {
	st := &fakeStore{docs: map[string]map[string]store.Document{
		"products": {
			"p1": {"name": "Keyboard", "price": 10.0, "category": "peripherals"},
			"p2": {"name": "Desk", "price": 200.0, "category": "furniture"},
		},
	}}
	sut := NewService(st)

	products, err := sut.ListByCategory(context.Background(), "peripherals")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Keyboard", products[0].Name)
}

func TestListBanners_ActiveOnly(t *testing.T) {
	st := &fakeStore{docs: map[string]map[string]store.Document{
		"banners": {
			"b1": {"image": "sale.png", "active": true},
			"b2": {"image": "old.png", "active": false},
		},
	}}
	sut := NewService(st)

	banners, err := sut.ListBanners(context.Background())
	require.NoError(t, err)
	require.Len(t, banners, 1)
	assert.Equal(t, "sale.png", banners[0].Image)
}
