package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	commonerrors "github.com/PKL-SST-2025/BatikKita-Be/common/errors"
	"github.com/PKL-SST-2025/BatikKita-Be/models"
	"github.com/PKL-SST-2025/BatikKita-Be/repository"
)

// mockCheckoutStore keeps everything in maps and snapshots state around
// Transaction so a failed callback observably rolls back.
type mockCheckoutStore struct {
	products map[uuid.UUID]*models.Product
	coupons  map[string]*models.Coupon

	orders     []models.Order
	orderItems []models.OrderItem

	cartCleared      bool
	failCreateItems  bool
	createItemsCalls int
	// stolenStock simulates a concurrent checkout committing between the
	// read and the guarded decrement for these products.
	stolenStock map[uuid.UUID]bool
}

func newMockCheckoutStore() *mockCheckoutStore {
	return &mockCheckoutStore{
		products:    map[uuid.UUID]*models.Product{},
		coupons:     map[string]*models.Coupon{},
		stolenStock: map[uuid.UUID]bool{},
	}
}

func (m *mockCheckoutStore) addProduct(name string, price int64, stock int) uuid.UUID {
	id := uuid.New()
	m.products[id] = &models.Product{ID: id, Name: name, Price: price, Stock: stock, IsActive: true}
	return id
}

func (m *mockCheckoutStore) addCoupon(coupon models.Coupon) {
	coupon.ID = uuid.New()
	coupon.IsActive = true
	if coupon.ValidFrom.IsZero() {
		coupon.ValidFrom = time.Now().Add(-time.Hour)
	}
	if coupon.ValidUntil.IsZero() {
		coupon.ValidUntil = time.Now().Add(time.Hour)
	}
	m.coupons[coupon.Code] = &coupon
}

func (m *mockCheckoutStore) snapshot() *mockCheckoutStore {
	copied := newMockCheckoutStore()
	for id, p := range m.products {
		clone := *p
		copied.products[id] = &clone
	}
	for code, c := range m.coupons {
		clone := *c
		copied.coupons[code] = &clone
	}
	copied.orders = append([]models.Order(nil), m.orders...)
	copied.orderItems = append([]models.OrderItem(nil), m.orderItems...)
	copied.cartCleared = m.cartCleared
	return copied
}

func (m *mockCheckoutStore) Transaction(ctx context.Context, fn func(tx repository.CheckoutStore) error) error {
	before := m.snapshot()
	if err := fn(m); err != nil {
		m.products = before.products
		m.coupons = before.coupons
		m.orders = before.orders
		m.orderItems = before.orderItems
		m.cartCleared = before.cartCleared
		return err
	}
	return nil
}

func (m *mockCheckoutStore) GetActiveProductForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := m.products[id]
	if !ok || !product.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *product
	return &clone, nil
}

func (m *mockCheckoutStore) GetValidCouponForUpdate(ctx context.Context, code string, now time.Time) (*models.Coupon, error) {
	coupon, ok := m.coupons[code]
	if !ok || !coupon.IsActive || now.Before(coupon.ValidFrom) || now.After(coupon.ValidUntil) {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *coupon
	return &clone, nil
}

func (m *mockCheckoutStore) IncrementCouponUsage(ctx context.Context, id uuid.UUID) error {
	for _, coupon := range m.coupons {
		if coupon.ID == id {
			coupon.UsedCount++
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockCheckoutStore) CreateOrder(ctx context.Context, order *models.Order) error {
	order.ID = uuid.New()
	m.orders = append(m.orders, *order)
	return nil
}

func (m *mockCheckoutStore) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	m.createItemsCalls++
	if m.failCreateItems {
		return errors.New("insert failed")
	}
	m.orderItems = append(m.orderItems, items...)
	return nil
}

func (m *mockCheckoutStore) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	if m.stolenStock[productID] {
		return false, nil
	}
	product, ok := m.products[productID]
	if !ok || product.Stock < quantity {
		return false, nil
	}
	product.Stock -= quantity
	product.SoldCount += quantity
	return true, nil
}

func (m *mockCheckoutStore) ClearCart(ctx context.Context, userID uuid.UUID) error {
	m.cartCleared = true
	return nil
}

type mockPublisher struct {
	events []models.DomainEvent
	err    error
}

func (p *mockPublisher) Publish(ctx context.Context, event models.DomainEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func testAddress() models.Address {
	return models.Address{
		FullName:   "Dewi Lestari",
		Phone:      "+62811111111",
		Street:     "Jl. Malioboro 1",
		City:       "Yogyakarta",
		Province:   "DIY",
		PostalCode: "55213",
		Country:    "Indonesia",
	}
}

func checkoutRequest(items ...models.OrderItemRequest) *models.CreateOrderRequest {
	return &models.CreateOrderRequest{
		Items:           items,
		ShippingAddress: testAddress(),
		PaymentMethod:   "bank_transfer",
	}
}

func TestCheckoutComputesTotalsAndDecrementsStock(t *testing.T) {
	store := newMockCheckoutStore()
	batikA := store.addProduct("Batik Parang", 100_000, 10)
	batikB := store.addProduct("Batik Kawung", 50_000, 1)
	publisher := &mockPublisher{}
	svc := NewCheckoutService(store, publisher, nil, zap.NewNop())

	result, svcErr := svc.Checkout(context.Background(), uuid.New(), checkoutRequest(
		models.OrderItemRequest{ProductID: batikA, Quantity: 2},
		models.OrderItemRequest{ProductID: batikB, Quantity: 1},
	))

	assert.Nil(t, svcErr)
	assert.Equal(t, int64(250_000), result.Order.TotalAmount)
	assert.Equal(t, int64(15_000), result.Order.ShippingCost)
	assert.Nil(t, result.Order.DiscountAmount)
	assert.Equal(t, int64(265_000), result.Order.FinalAmount)
	assert.Equal(t, models.OrderStatusPending, result.Order.Status)
	assert.Equal(t, models.PaymentStatusPending, result.Order.PaymentStatus)
	assert.True(t, strings.HasPrefix(result.Order.OrderNumber, "BK-"))
	assert.Len(t, result.Items, 2)

	assert.Equal(t, 8, store.products[batikA].Stock)
	assert.Equal(t, 0, store.products[batikB].Stock)
	assert.Equal(t, 2, store.products[batikA].SoldCount)
	assert.True(t, store.cartCleared)

	assert.Len(t, publisher.events, 1)
	assert.Equal(t, models.EventOrderCreated, publisher.events[0].Event)
	assert.Equal(t, result.Order.OrderNumber, publisher.events[0].OrderNumber)
}

func TestCheckoutSnapshotsProductData(t *testing.T) {
	store := newMockCheckoutStore()
	productID := store.addProduct("Batik Parang", 100_000, 5)
	store.products[productID].ImageURL = "https://img.example/parang.jpg"
	svc := NewCheckoutService(store, nil, nil, zap.NewNop())

	result, svcErr := svc.Checkout(context.Background(), uuid.New(), checkoutRequest(
		models.OrderItemRequest{ProductID: productID, Quantity: 3},
	))

	assert.Nil(t, svcErr)
	item := result.Items[0]
	assert.Equal(t, "Batik Parang", item.ProductName)
	assert.Equal(t, "https://img.example/parang.jpg", item.ProductImage)
	assert.Equal(t, int64(100_000), item.PriceAtTime)
	assert.Equal(t, int64(300_000), item.TotalPrice)
	assert.Equal(t, result.Order.ID, item.OrderID)
}

func TestCheckoutFreeShippingAboveThreshold(t *testing.T) {
	store := newMockCheckoutStore()
	productID := store.addProduct("Batik Tulis Premium", 250_000, 10)
	svc := NewCheckoutService(store, nil, nil, zap.NewNop())

	result, svcErr := svc.Checkout(context.Background(), uuid.New(), checkoutRequest(
		models.OrderItemRequest{ProductID: productID, Quantity: 2},
	))

	assert.Nil(t, svcErr)
	assert.Equal(t, int64(500_000), result.Order.TotalAmount)
	assert.Equal(t, int64(0), result.Order.ShippingCost)
	assert.Equal(t, int64(500_000), result.Order.FinalAmount)
}

func TestCheckoutPercentageCoupon(t *testing.T) {
	store := newMockCheckoutStore()
	productID := store.addProduct("Batik Parang", 125_000, 10)
	store.addCoupon(models.Coupon{
		Code:          "SAVE10",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 10,
	})
	svc := NewCheckoutService(store, nil, nil, zap.NewNop())

	code := "SAVE10"
	req := checkoutRequest(models.OrderItemRequest{ProductID: productID, Quantity: 2})
	req.CouponCode = &code

	result, svcErr := svc.Checkout(context.Background(), uuid.New(), req)

	assert.Nil(t, svcErr)
	assert.NotNil(t, result.Order.DiscountAmount)
	assert.Equal(t, int64(25_000), *result.Order.DiscountAmount)
	// 250000 + 15000 - 25000
	assert.Equal(t, int64(240_000), result.Order.FinalAmount)
	assert.Equal(t, 1, store.coupons["SAVE10"].UsedCount)
}

func TestCheckoutCouponCodeIsCaseInsensitive(t *testing.T) {
	store := newMockCheckoutStore()
	productID := store.addProduct("Batik Parang", 100_000, 10)
	store.addCoupon(models.Coupon{
		Code:          "SAVE10",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 10,
	})
	svc := NewCheckoutService(store, nil, nil, zap.NewNop())

	code := "save10"
	req := checkoutRequest(models.OrderItemRequest{ProductID: productID, Quantity: 1})
	req.CouponCode = &code

	result, svcErr := svc.Checkout(context.Background(), uuid.New(), req)

	assert.Nil(t, svcErr)
	assert.NotNil(t, result.Order.DiscountAmount)
}

func TestCheckoutFixedCouponClampedToMaxDiscount(t *testing.T) {
	store := newMockCheckoutStore()
	productID := store.addProduct("Batik Parang", 100_000, 10)
	maxDiscount := int64(30_000)
	store.addCoupon(models.Coupon{
		Code:              "FLAT50",
		DiscountType:      models.DiscountTypeFixed,
		DiscountValue:     50_000,
		MaxDiscountAmount: &maxDiscount,
	})
	svc := NewCheckoutService(store, nil, nil, zap.NewNop())

	code := "FLAT50"
	req := checkoutRequest(models.OrderItemRequest{ProductID: productID, Quantity: 1})
	req.CouponCode = &code

	result, svcErr := svc.Checkout(context.Background(), uuid.New(), req)

	assert.Nil(t, svcErr)
	assert.Equal(t, int64(30_000), *result.Order.DiscountAmount)
	assert.Equal(t, int64(100_000+15_000-30_000), result.Order.FinalAmount)
}

func TestCheckoutCouponBelowMinimumOrder(t *testing.T) {
	store := newMockCheckoutStore()
	productID := store.addProduct("Batik Parang", 100_000, 10)
	minOrder := int64(200_000)
	store.addCoupon(models.Coupon{
		Code:           "BIG",
		DiscountType:   models.DiscountTypeFixed,
		DiscountValue:  20_000,
		MinOrderAmount: &minOrder,
	})
	svc := NewCheckoutService(store, nil, nil, zap.NewNop())

	code := "BIG"
	req := checkoutRequest(models.OrderItemRequest{ProductID: productID, Quantity: 1})
	req.CouponCode = &code

	result, svcErr := svc.Checkout(context.Background(), uuid.New(), req)

	assert.Nil(t, result)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	assert.Equal(t, commonerrors.ErrCouponMinimumNotMet.Message, svcErr.Message)
	assert.Empty(t, store.orders)
	assert.Equal(t, 0, store.coupons["BIG"].UsedCount)
}

func TestCheckoutCouponUsageLimitExceeded(t *testing.T) {
	store := newMockCheckoutStore()
	productID := store.addProduct("Batik Parang", 100_000, 10)
	limit := 3
	store.addCoupon(models.Coupon{
		Code:          "LIMITED",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 10_000,
		UsageLimit:    &limit,
	})
	store.coupons["LIMITED"].UsedCount = 3
	svc := NewCheckoutService(store, nil, nil, zap.NewNop())

	code := "LIMITED"
	req := checkoutRequest(models.OrderItemRequest{ProductID: productID, Quantity: 1})
	req.CouponCode = &code

	result, svcErr := svc.Checkout(context.Background(), uuid.New(), req)

	assert.Nil(t, result)
	assert.Equal(t, commonerrors.ErrCouponLimitExceeded.Message, svcErr.Message)
}

func TestCheckoutInvalidCoupon(t *testing.T) {
	store := newMockCheckoutStore()
	productID := store.addProduct("Batik Parang", 100_000, 10)
	svc := NewCheckoutService(store, nil, nil, zap.NewNop())

	code := "NOPE"
	req := checkoutRequest(models.OrderItemRequest{ProductID: productID, Quantity: 1})
	req.CouponCode = &code

	result, svcErr := svc.Checkout(context.Background(), uuid.New(), req)

	assert.Nil(t, result)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	assert.Equal(t, commonerrors.ErrInvalidCoupon.Message, svcErr.Message)
}

func TestCheckoutExpiredCouponRejected(t *testing.T) {
	store := newMockCheckoutStore()
	productID := store.addProduct("Batik Parang", 100_000, 10)
	store.addCoupon(models.Coupon{
		Code:          "OLD",
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 10_000,
		ValidFrom:     time.Now().Add(-48 * time.Hour),
		ValidUntil:    time.Now().Add(-24 * time.Hour),
	})
	svc := NewCheckoutService(store, nil, nil, zap.NewNop())

	code := "OLD"
	req := checkoutRequest(models.OrderItemRequest{ProductID: productID, Quantity: 1})
	req.CouponCode = &code

	_, svcErr := svc.Checkout(context.Background(), uuid.New(), req)

	assert.Equal(t, commonerrors.ErrInvalidCoupon.Message, svcErr.Message)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	store := newMockCheckoutStore()
	productID := store.addProduct("Batik Kawung", 50_000, 1)
	publisher := &mockPublisher{}
	svc := NewCheckoutService(store, publisher, nil, zap.NewNop())

	result, svcErr := svc.Checkout(context.Background(), uuid.New(), checkoutRequest(
		models.OrderItemRequest{ProductID: productID, Quantity: 2},
	))

	assert.Nil(t, result)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	assert.Contains(t, svcErr.Message, "Insufficient stock")
	assert.Equal(t, 1, store.products[productID].Stock)
	assert.Empty(t, store.orders)
	assert.False(t, store.cartCleared)
	assert.Empty(t, publisher.events)
}

func TestCheckoutUnknownProduct(t *testing.T) {
	store := newMockCheckoutStore()
	svc := NewCheckoutService(store, nil, nil, zap.NewNop())

	missing := uuid.New()
	result, svcErr := svc.Checkout(context.Background(), uuid.New(), checkoutRequest(
		models.OrderItemRequest{ProductID: missing, Quantity: 1},
	))

	assert.Nil(t, result)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	assert.Contains(t, svcErr.Message, "Product not found")
}

func TestCheckoutRollsBackEverythingOnFailure(t *testing.T) {
	store := newMockCheckoutStore()
	batikA := store.addProduct("Batik Parang", 100_000, 10)
	store.addCoupon(models.Coupon{
		Code:          "SAVE10",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 10,
	})
	store.failCreateItems = true
	publisher := &mockPublisher{}
	svc := NewCheckoutService(store, publisher, nil, zap.NewNop())

	code := "SAVE10"
	req := checkoutRequest(models.OrderItemRequest{ProductID: batikA, Quantity: 2})
	req.CouponCode = &code

	result, svcErr := svc.Checkout(context.Background(), uuid.New(), req)

	assert.Nil(t, result)
	assert.Equal(t, http.StatusInternalServerError, svcErr.StatusCode)
	assert.Equal(t, 1, store.createItemsCalls)
	assert.Empty(t, store.orders)
	assert.Equal(t, 10, store.products[batikA].Stock)
	assert.Equal(t, 0, store.coupons["SAVE10"].UsedCount)
	assert.False(t, store.cartCleared)
	assert.Empty(t, publisher.events)
}

func TestCheckoutBillingDefaultsToShipping(t *testing.T) {
	store := newMockCheckoutStore()
	productID := store.addProduct("Batik Parang", 100_000, 10)
	svc := NewCheckoutService(store, nil, nil, zap.NewNop())

	result, svcErr := svc.Checkout(context.Background(), uuid.New(), checkoutRequest(
		models.OrderItemRequest{ProductID: productID, Quantity: 1},
	))

	assert.Nil(t, svcErr)
	assert.Equal(t, result.Order.ShippingAddress, result.Order.BillingAddress)
}

// A concurrent checkout can win the stock between this transaction's read
// and its guarded decrement; the guard must then fail the whole order.
func TestCheckoutRollsBackWhenDecrementGuardFails(t *testing.T) {
	store := newMockCheckoutStore()
	batikA := store.addProduct("Batik Parang", 100_000, 10)
	batikB := store.addProduct("Batik Kawung", 50_000, 5)
	store.stolenStock[batikB] = true
	store.addCoupon(models.Coupon{
		Code:          "SAVE10",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 10,
	})
	publisher := &mockPublisher{}
	svc := NewCheckoutService(store, publisher, nil, zap.NewNop())

	code := "SAVE10"
	req := checkoutRequest(
		models.OrderItemRequest{ProductID: batikA, Quantity: 2},
		models.OrderItemRequest{ProductID: batikB, Quantity: 1},
	)
	req.CouponCode = &code

	result, svcErr := svc.Checkout(context.Background(), uuid.New(), req)

	assert.Nil(t, result)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	assert.Equal(t, commonerrors.ErrInsufficientStock.Message+" for product: Batik Kawung", svcErr.Message)
	assert.Empty(t, store.orders)
	assert.Empty(t, store.orderItems)
	assert.Equal(t, 10, store.products[batikA].Stock)
	assert.Equal(t, 0, store.products[batikA].SoldCount)
	assert.Equal(t, 0, store.coupons["SAVE10"].UsedCount)
	assert.False(t, store.cartCleared)
	assert.Empty(t, publisher.events)
}

type mockCatalogCache struct {
	invalidated []uuid.UUID
}

func (c *mockCatalogCache) Invalidate(ctx context.Context, id uuid.UUID) {
	c.invalidated = append(c.invalidated, id)
}

func TestCheckoutInvalidatesCachedProducts(t *testing.T) {
	store := newMockCheckoutStore()
	batikA := store.addProduct("Batik Parang", 100_000, 10)
	batikB := store.addProduct("Batik Kawung", 50_000, 5)
	catalog := &mockCatalogCache{}
	svc := NewCheckoutService(store, nil, catalog, zap.NewNop())

	_, svcErr := svc.Checkout(context.Background(), uuid.New(), checkoutRequest(
		models.OrderItemRequest{ProductID: batikA, Quantity: 1},
		models.OrderItemRequest{ProductID: batikB, Quantity: 1},
	))

	assert.Nil(t, svcErr)
	assert.ElementsMatch(t, []uuid.UUID{batikA, batikB}, catalog.invalidated)
}

func TestCheckoutKeepsCacheOnFailure(t *testing.T) {
	store := newMockCheckoutStore()
	productID := store.addProduct("Batik Kawung", 50_000, 1)
	catalog := &mockCatalogCache{}
	svc := NewCheckoutService(store, nil, catalog, zap.NewNop())

	_, svcErr := svc.Checkout(context.Background(), uuid.New(), checkoutRequest(
		models.OrderItemRequest{ProductID: productID, Quantity: 2},
	))

	assert.NotNil(t, svcErr)
	assert.Empty(t, catalog.invalidated)
}

func TestCheckoutPublishFailureDoesNotFailOrder(t *testing.T) {
	store := newMockCheckoutStore()
	productID := store.addProduct("Batik Parang", 100_000, 10)
	publisher := &mockPublisher{err: errors.New("broker down")}
	svc := NewCheckoutService(store, publisher, nil, zap.NewNop())

	result, svcErr := svc.Checkout(context.Background(), uuid.New(), checkoutRequest(
		models.OrderItemRequest{ProductID: productID, Quantity: 1},
	))

	assert.Nil(t, svcErr)
	assert.NotNil(t, result)
}
