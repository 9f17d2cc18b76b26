package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/PKL-SST-2025/BatikKita-Be/models"
)

type mockProductRepository struct {
	products map[uuid.UUID]*models.Product
	reviews  []models.Review
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: map[uuid.UUID]*models.Product{}}
}

func (m *mockProductRepository) addProduct(name string, price int64, stock int) uuid.UUID {
	id := uuid.New()
	m.products[id] = &models.Product{ID: id, Name: name, Price: price, Stock: stock, IsActive: true}
	return id
}

func (m *mockProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	var out []models.Product
	for _, p := range m.products {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProductRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok || !p.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *mockProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.ID = uuid.New()
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *models.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	p, ok := m.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.IsActive = false
	return nil
}

func (m *mockProductRepository) ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var out []models.Review
	for _, r := range m.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockProductRepository) HasReview(ctx context.Context, productID, userID uuid.UUID) (bool, error) {
	for _, r := range m.reviews {
		if r.ProductID == productID && r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockProductRepository) CreateReview(ctx context.Context, review *models.Review) error {
	review.ID = uuid.New()
	m.reviews = append(m.reviews, *review)
	return nil
}

type mockCartRepository struct {
	carts map[uuid.UUID]*models.Cart
	items map[uuid.UUID]*models.CartItem
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{
		carts: map[uuid.UUID]*models.Cart{},
		items: map[uuid.UUID]*models.CartItem{},
	}
}

func (m *mockCartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if cart, ok := m.carts[userID]; ok {
		return cart, nil
	}
	cart := &models.Cart{ID: uuid.New(), UserID: userID}
	m.carts[userID] = cart
	return cart, nil
}

func (m *mockCartRepository) ItemsWithProduct(ctx context.Context, cartID uuid.UUID) ([]models.CartItemWithProduct, error) {
	return nil, nil
}

func strEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (m *mockCartRepository) FindItem(ctx context.Context, cartID, productID uuid.UUID, size, color *string) (*models.CartItem, error) {
	for _, item := range m.items {
		if item.CartID == cartID && item.ProductID == productID && strEq(item.Size, size) && strEq(item.Color, color) {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCartRepository) FindItemOwned(ctx context.Context, itemID, userID uuid.UUID) (*models.CartItem, error) {
	item, ok := m.items[itemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cart, ok := m.carts[userID]
	if !ok || item.CartID != cart.ID {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (m *mockCartRepository) CreateItem(ctx context.Context, item *models.CartItem) error {
	item.ID = uuid.New()
	m.items[item.ID] = item
	return nil
}

func (m *mockCartRepository) UpdateItem(ctx context.Context, item *models.CartItem) error {
	m.items[item.ID] = item
	return nil
}

func (m *mockCartRepository) DeleteItemOwned(ctx context.Context, itemID, userID uuid.UUID) (bool, error) {
	if _, err := m.FindItemOwned(ctx, itemID, userID); err != nil {
		return false, nil
	}
	delete(m.items, itemID)
	return true, nil
}

func (m *mockCartRepository) ClearByUser(ctx context.Context, userID uuid.UUID) error {
	cart, ok := m.carts[userID]
	if !ok {
		return nil
	}
	for id, item := range m.items {
		if item.CartID == cart.ID {
			delete(m.items, id)
		}
	}
	return nil
}

func TestAddToCartMergesSameVariant(t *testing.T) {
	products := newMockProductRepository()
	productID := products.addProduct("Batik Parang", 100_000, 10)
	carts := newMockCartRepository()
	svc := NewCartService(carts, products, zap.NewNop())
	userID := uuid.New()

	size := "M"
	first, svcErr := svc.AddItem(context.Background(), userID, &models.AddToCartRequest{
		ProductID: productID, Quantity: 2, Size: &size,
	})
	assert.Nil(t, svcErr)

	second, svcErr := svc.AddItem(context.Background(), userID, &models.AddToCartRequest{
		ProductID: productID, Quantity: 3, Size: &size,
	})
	assert.Nil(t, svcErr)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)
	assert.Len(t, carts.items, 1)
}

func TestAddToCartDifferentVariantIsSeparateLine(t *testing.T) {
	products := newMockProductRepository()
	productID := products.addProduct("Batik Parang", 100_000, 10)
	carts := newMockCartRepository()
	svc := NewCartService(carts, products, zap.NewNop())
	userID := uuid.New()

	sizeM, sizeL := "M", "L"
	_, svcErr := svc.AddItem(context.Background(), userID, &models.AddToCartRequest{
		ProductID: productID, Quantity: 1, Size: &sizeM,
	})
	assert.Nil(t, svcErr)

	_, svcErr = svc.AddItem(context.Background(), userID, &models.AddToCartRequest{
		ProductID: productID, Quantity: 1, Size: &sizeL,
	})
	assert.Nil(t, svcErr)

	assert.Len(t, carts.items, 2)
}

func TestAddToCartRejectsOverStock(t *testing.T) {
	products := newMockProductRepository()
	productID := products.addProduct("Batik Kawung", 50_000, 3)
	carts := newMockCartRepository()
	svc := NewCartService(carts, products, zap.NewNop())
	userID := uuid.New()

	_, svcErr := svc.AddItem(context.Background(), userID, &models.AddToCartRequest{
		ProductID: productID, Quantity: 2,
	})
	assert.Nil(t, svcErr)

	// Merged quantity would exceed stock.
	_, svcErr = svc.AddItem(context.Background(), userID, &models.AddToCartRequest{
		ProductID: productID, Quantity: 2,
	})
	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	assert.Contains(t, svcErr.Message, "Insufficient stock")
}

func TestAddToCartUnknownProduct(t *testing.T) {
	svc := NewCartService(newMockCartRepository(), newMockProductRepository(), zap.NewNop())

	_, svcErr := svc.AddItem(context.Background(), uuid.New(), &models.AddToCartRequest{
		ProductID: uuid.New(), Quantity: 1,
	})
	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)
}

func TestUpdateCartItemForeignOwnerFailsClosed(t *testing.T) {
	products := newMockProductRepository()
	productID := products.addProduct("Batik Parang", 100_000, 10)
	carts := newMockCartRepository()
	svc := NewCartService(carts, products, zap.NewNop())
	owner := uuid.New()

	item, svcErr := svc.AddItem(context.Background(), owner, &models.AddToCartRequest{
		ProductID: productID, Quantity: 1,
	})
	assert.Nil(t, svcErr)

	_, svcErr = svc.UpdateItem(context.Background(), item.ID, uuid.New(), &models.UpdateCartItemRequest{Quantity: 2})
	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)
}

func TestRemoveCartItem(t *testing.T) {
	products := newMockProductRepository()
	productID := products.addProduct("Batik Parang", 100_000, 10)
	carts := newMockCartRepository()
	svc := NewCartService(carts, products, zap.NewNop())
	userID := uuid.New()

	item, svcErr := svc.AddItem(context.Background(), userID, &models.AddToCartRequest{
		ProductID: productID, Quantity: 1,
	})
	assert.Nil(t, svcErr)

	assert.Nil(t, svc.RemoveItem(context.Background(), item.ID, userID))
	assert.Empty(t, carts.items)

	svcErr = svc.RemoveItem(context.Background(), item.ID, userID)
	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)
}
