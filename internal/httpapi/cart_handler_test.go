package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikobuddy/caygnusecomers/internal/cart"
	"github.com/nikobuddy/caygnusecomers/internal/catalog"
	"github.com/nikobuddy/caygnusecomers/internal/coupon"
	"github.com/nikobuddy/caygnusecomers/internal/domain"
	"github.com/nikobuddy/caygnusecomers/internal/identity"
	"github.com/nikobuddy/caygnusecomers/internal/pricing"
)

type fakeCartRepo struct {
	m    sync.Mutex
	cart *domain.Cart
}

func (f *fakeCartRepo) GetCart(context.Context, string) (*domain.Cart, error) {
	f.m.Lock()
	defer f.m.Unlock()
	if f.cart == nil {
		return nil, cart.ErrCartNotFound
	}
	return f.cart, nil
}

func (f *fakeCartRepo) ReplaceItems(_ context.Context, userID string, items []domain.CartItem) error {
	f.m.Lock()
	defer f.m.Unlock()
	if f.cart == nil {
		f.cart = &domain.Cart{UserID: userID}
	}
	f.cart.Items = items
	return nil
}

func (f *fakeCartRepo) PushItem(_ context.Context, userID string, item domain.CartItem) error {
	f.m.Lock()
	defer f.m.Unlock()
	if f.cart == nil {
		f.cart = &domain.Cart{UserID: userID}
	}
	f.cart.Items = append(f.cart.Items, item)
	return nil
}

func (f *fakeCartRepo) SetItemQuantity(_ context.Context, _, itemID string, quantity int) error {
	f.m.Lock()
	defer f.m.Unlock()
	for i := range f.cart.Items {
		if f.cart.Items[i].ID == itemID {
			f.cart.Items[i].Quantity = quantity
			return nil
		}
	}
	return cart.ErrItemNotFound
}

func (f *fakeCartRepo) PullItem(_ context.Context, _, itemID string) error {
	f.m.Lock()
	defer f.m.Unlock()
	if f.cart == nil {
		return cart.ErrCartNotFound
	}
	for i, item := range f.cart.Items {
		if item.ID == itemID {
			f.cart.Items = append(f.cart.Items[:i], f.cart.Items[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeCartRepo) DeleteCart(context.Context, string) error {
	f.m.Lock()
	defer f.m.Unlock()
	f.cart = nil
	return nil
}

type fakeCartCache struct {
	m    sync.Mutex
	cart *domain.Cart
}

func (f *fakeCartCache) Get(context.Context, string) (*domain.Cart, error) {
	f.m.Lock()
	defer f.m.Unlock()
	if f.cart == nil {
		return nil, cart.ErrCacheMiss
	}
	return f.cart, nil
}

func (f *fakeCartCache) Set(_ context.Context, _ string, c *domain.Cart) error {
	f.m.Lock()
	defer f.m.Unlock()
	f.cart = c
	return nil
}

func (f *fakeCartCache) Delete(context.Context, string) error {
	f.m.Lock()
	defer f.m.Unlock()
	f.cart = nil
	return nil
}

type fakeProducts struct {
	products map[string]*domain.Product
}

func (f *fakeProducts) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

type fakeShipping struct {
	cost float64
}

func (f *fakeShipping) Cost(context.Context) float64 { return f.cost }

type fakeCouponRepo struct {
	m       sync.Mutex
	coupons []domain.Coupon
}

func (f *fakeCouponRepo) FindAll(context.Context) ([]domain.Coupon, error) {
	f.m.Lock()
	defer f.m.Unlock()
	return f.coupons, nil
}

func (f *fakeCouponRepo) Redeem(_ context.Context, couponID string) error {
	f.m.Lock()
	defer f.m.Unlock()
	for i := range f.coupons {
		if f.coupons[i].ID == couponID {
			if f.coupons[i].Used >= f.coupons[i].Limit {
				return coupon.ErrLimitReached
			}
			f.coupons[i].Used++
			return nil
		}
	}
	return coupon.ErrLimitReached
}

func (f *fakeCouponRepo) SetUsed(_ context.Context, couponID string, used int) error {
	f.m.Lock()
	defer f.m.Unlock()
	for i := range f.coupons {
		if f.coupons[i].ID == couponID {
			f.coupons[i].Used = used
		}
	}
	return nil
}

func newTestCartHandler(repo *fakeCartRepo, coupons []domain.Coupon) *CartHandler {
	cartService := cart.NewService(repo, &fakeCartCache{}, cart.WriteModeOverwrite)
	evaluator := coupon.NewEvaluator(&fakeCouponRepo{coupons: coupons}, coupon.ModeAtomic)
	products := &fakeProducts{products: map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Keyboard", Price: 10, Image: "kb.png"},
		"p3": {ID: "p3", Name: "Monitor", Price: 120},
	}}
	return NewCartHandler(cartService, products, evaluator, &fakeShipping{cost: 3}, pricing.Config{}, 5*time.Second)
}

func seededCartRepo() *fakeCartRepo {
	return &fakeCartRepo{cart: &domain.Cart{
		UserID: "u1",
		Items: []domain.CartItem{
			{ID: "p1", Name: "Keyboard", Price: 10, Quantity: 2},
			{ID: "p2", Name: "Mouse", Price: 5, Quantity: 1},
		},
	}}
}

func authedRequest(t *testing.T, method, target, body string, session *identity.Session, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := req.Context()
	if session != nil {
		ctx = context.WithValue(ctx, sessionKey, *session)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) CartResponseDTO {
	t.Helper()
	var resp CartResponseDTO
	require.NoError(t, jsonDecode(rec, &resp))
	return resp
}

func jsonDecode(rec *httptest.ResponseRecorder, out interface{}) error {
	return json.NewDecoder(rec.Body).Decode(out)
}

func TestGetCart_Unauthorized(t *testing.T) {
	sut := newTestCartHandler(seededCartRepo(), nil)

	rec := httptest.NewRecorder()
	sut.GetCart(rec, authedRequest(t, http.MethodGet, "/cart", "", nil, nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetCart(t *testing.T) {
	sut := newTestCartHandler(seededCartRepo(), nil)

	rec := httptest.NewRecorder()
	sut.GetCart(rec, authedRequest(t, http.MethodGet, "/cart", "", &identity.Session{UserID: "u1"}, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCart(t, rec)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 25.0, resp.Subtotal)
	assert.Equal(t, 3.0, resp.Shipping)
	assert.Equal(t, 28.0, resp.Total)
}

func TestGetCart_EmptyCartForNewUser(t *testing.T) {
	sut := newTestCartHandler(&fakeCartRepo{}, nil)

	rec := httptest.NewRecorder()
	sut.GetCart(rec, authedRequest(t, http.MethodGet, "/cart", "", &identity.Session{UserID: "u1"}, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCart(t, rec)
	assert.NotNil(t, resp.Items)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 3.0, resp.Total)
}

func TestAddItem_SnapshotsCatalogFields(t *testing.T) {
	repo := seededCartRepo()
	sut := newTestCartHandler(repo, nil)

	rec := httptest.NewRecorder()
	body := `{"product_id":"p3","quantity":1}`
	sut.AddItem(rec, authedRequest(t, http.MethodPost, "/cart/items", body, &identity.Session{UserID: "u1"}, nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeCart(t, rec)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, "Monitor", resp.Items[2].Name)
	assert.Equal(t, 120.0, resp.Items[2].Price)
	assert.Equal(t, 145.0, resp.Subtotal)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	sut := newTestCartHandler(seededCartRepo(), nil)

	rec := httptest.NewRecorder()
	body := `{"product_id":"missing","quantity":1}`
	sut.AddItem(rec, authedRequest(t, http.MethodPost, "/cart/items", body, &identity.Session{UserID: "u1"}, nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddItem_InvalidBody(t *testing.T) {
	sut := newTestCartHandler(seededCartRepo(), nil)

	for _, body := range []string{"not-json", `{"product_id":"p1","quantity":0}`, `{"quantity":1}`} {
		rec := httptest.NewRecorder()
		sut.AddItem(rec, authedRequest(t, http.MethodPost, "/cart/items", body, &identity.Session{UserID: "u1"}, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestSetQuantity_ZeroIsPreserved(t *testing.T) {
	repo := seededCartRepo()
	sut := newTestCartHandler(repo, nil)

	rec := httptest.NewRecorder()
	req := authedRequest(t, http.MethodPut, "/cart/items/p1", `{"quantity":0}`, &identity.Session{UserID: "u1"}, map[string]string{"item_id": "p1"})
	sut.SetQuantity(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCart(t, rec)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 0, resp.Items[0].Quantity)
	assert.Equal(t, 5.0, resp.Subtotal)
}

func TestSetQuantity_MissingField(t *testing.T) {
	sut := newTestCartHandler(seededCartRepo(), nil)

	rec := httptest.NewRecorder()
	req := authedRequest(t, http.MethodPut, "/cart/items/p1", `{}`, &identity.Session{UserID: "u1"}, map[string]string{"item_id": "p1"})
	sut.SetQuantity(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdjustQuantity_FloorsAtOne(t *testing.T) {
	repo := seededCartRepo()
	sut := newTestCartHandler(repo, nil)

	rec := httptest.NewRecorder()
	req := authedRequest(t, http.MethodPost, "/cart/items/p2/adjust", `{"delta":-1}`, &identity.Session{UserID: "u1"}, map[string]string{"item_id": "p2"})
	sut.AdjustQuantity(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCart(t, rec)
	assert.Equal(t, 1, resp.Items[1].Quantity)
}

func TestRemoveItem(t *testing.T) {
	repo := seededCartRepo()
	sut := newTestCartHandler(repo, nil)

	rec := httptest.NewRecorder()
	req := authedRequest(t, http.MethodDelete, "/cart/items/p1", "", &identity.Session{UserID: "u1"}, map[string]string{"item_id": "p1"})
	sut.RemoveItem(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCart(t, rec)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "p2", resp.Items[0].ID)
	assert.Equal(t, 8.0, resp.Total)
}

func TestApplyCoupon_Applied(t *testing.T) {
	coupons := []domain.Coupon{{ID: "c1", Code: "SAVE20", Discount: 20, Limit: 5}}
	sut := newTestCartHandler(seededCartRepo(), coupons)

	rec := httptest.NewRecorder()
	body := `{"code":"SAVE20"}`
	sut.ApplyCoupon(rec, authedRequest(t, http.MethodPost, "/cart/coupon", body, &identity.Session{UserID: "u1"}, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp QuoteResponseDTO
	require.NoError(t, jsonDecode(rec, &resp))
	assert.Equal(t, coupon.StatusApplied, resp.Status)
	assert.Equal(t, "Coupon applied successfully!", resp.Message)
	assert.Equal(t, 5.0, resp.Discount)
	assert.Equal(t, 23.0, resp.Total)
}

func TestApplyCoupon_UnknownCodeResetsDiscount(t *testing.T) {
	sut := newTestCartHandler(seededCartRepo(), nil)

	rec := httptest.NewRecorder()
	body := `{"code":"NOPE","current_discount":4}`
	sut.ApplyCoupon(rec, authedRequest(t, http.MethodPost, "/cart/coupon", body, &identity.Session{UserID: "u1"}, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp QuoteResponseDTO
	require.NoError(t, jsonDecode(rec, &resp))
	assert.Equal(t, coupon.StatusInvalid, resp.Status)
	assert.Equal(t, "Invalid coupon code.", resp.Message)
	assert.Equal(t, 0.0, resp.Discount)
	assert.Equal(t, 28.0, resp.Total)
}

func TestApplyCoupon_RejectionKeepsPriorDiscount(t *testing.T) {
	coupons := []domain.Coupon{{ID: "c1", Code: "WELCOME", Discount: 10, NewUsersOnly: true, Limit: 100}}
	sut := newTestCartHandler(seededCartRepo(), coupons)

	rec := httptest.NewRecorder()
	body := `{"code":"WELCOME","current_discount":4}`
	sut.ApplyCoupon(rec, authedRequest(t, http.MethodPost, "/cart/coupon", body, &identity.Session{UserID: "u1", IsNewUser: false}, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp QuoteResponseDTO
	require.NoError(t, jsonDecode(rec, &resp))
	assert.Equal(t, coupon.StatusNewUsersOnly, resp.Status)
	assert.Equal(t, "This coupon is only for new users.", resp.Message)
	assert.Equal(t, 4.0, resp.Discount)
	assert.Equal(t, 24.0, resp.Total)
}
