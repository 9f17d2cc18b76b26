package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	commonerrors "github.com/PKL-SST-2025/BatikKita-Be/common/errors"
	"github.com/PKL-SST-2025/BatikKita-Be/models"
	"github.com/PKL-SST-2025/BatikKita-Be/repository"
)

const (
	freeShippingThreshold = 500_000
	flatShippingFee       = 15_000
)

// EventPublisher is the outbound side of the event pipeline. Implementations
// must be safe for concurrent use.
type EventPublisher interface {
	Publish(ctx context.Context, event models.DomainEvent) error
}

// CatalogCache is the slice of the product cache checkout needs: dropping
// entries whose stock just changed.
type CatalogCache interface {
	Invalidate(ctx context.Context, id uuid.UUID)
}

type CheckoutService interface {
	Checkout(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.OrderWithItems, *ServiceError)
}

type checkoutServiceImpl struct {
	store   repository.CheckoutStore
	events  EventPublisher
	catalog CatalogCache
	logger  *zap.Logger
}

func NewCheckoutService(store repository.CheckoutStore, events EventPublisher, catalog CatalogCache, logger *zap.Logger) CheckoutService {
	return &checkoutServiceImpl{store: store, events: events, catalog: catalog, logger: logger}
}

// Checkout validates, prices and persists an order in one database
// transaction. Any failure past the first write rolls everything back:
// stock, coupon usage and the order itself either all land or none do.
func (s *checkoutServiceImpl) Checkout(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.OrderWithItems, *ServiceError) {
	var result *models.OrderWithItems
	var svcErr *ServiceError

	err := s.store.Transaction(ctx, func(tx repository.CheckoutStore) error {
		var subtotal int64
		items := make([]models.OrderItem, 0, len(req.Items))

		for _, item := range req.Items {
			product, err := tx.GetActiveProductForUpdate(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					svcErr = fromCommon(commonerrors.ErrProductNotFound, ": "+item.ProductID.String())
					return svcErr
				}
				return err
			}
			if product.Stock < item.Quantity {
				svcErr = fromCommon(commonerrors.ErrInsufficientStock, " for product: "+product.Name)
				return svcErr
			}

			lineTotal := product.Price * int64(item.Quantity)
			subtotal += lineTotal
			items = append(items, models.OrderItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductImage: product.ImageURL,
				Quantity:     item.Quantity,
				Size:         item.Size,
				Color:        item.Color,
				PriceAtTime:  product.Price,
				TotalPrice:   lineTotal,
			})
		}

		var discount int64
		if req.CouponCode != nil && strings.TrimSpace(*req.CouponCode) != "" {
			// Codes are stored uppercased.
			code := strings.ToUpper(strings.TrimSpace(*req.CouponCode))
			coupon, err := tx.GetValidCouponForUpdate(ctx, code, time.Now())
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					svcErr = fromCommon(commonerrors.ErrInvalidCoupon, "")
					return svcErr
				}
				return err
			}
			if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
				svcErr = fromCommon(commonerrors.ErrCouponLimitExceeded, "")
				return svcErr
			}
			if coupon.MinOrderAmount != nil && subtotal < *coupon.MinOrderAmount {
				svcErr = fromCommon(commonerrors.ErrCouponMinimumNotMet, "")
				return svcErr
			}

			switch coupon.DiscountType {
			case models.DiscountTypePercentage:
				discount = subtotal * coupon.DiscountValue / 100
			case models.DiscountTypeFixed:
				discount = coupon.DiscountValue
			}
			if coupon.MaxDiscountAmount != nil && discount > *coupon.MaxDiscountAmount {
				discount = *coupon.MaxDiscountAmount
			}
			if discount > subtotal {
				discount = subtotal
			}

			if err := tx.IncrementCouponUsage(ctx, coupon.ID); err != nil {
				return err
			}
		}

		var shipping int64 = flatShippingFee
		if subtotal >= freeShippingThreshold {
			shipping = 0
		}

		billing := req.ShippingAddress
		if req.BillingAddress != nil {
			billing = *req.BillingAddress
		}

		order := models.Order{
			OrderNumber:     newOrderNumber(),
			UserID:          userID,
			Status:          models.OrderStatusPending,
			TotalAmount:     subtotal,
			ShippingCost:    shipping,
			FinalAmount:     subtotal + shipping - discount,
			PaymentMethod:   req.PaymentMethod,
			PaymentStatus:   models.PaymentStatusPending,
			ShippingAddress: req.ShippingAddress,
			BillingAddress:  billing,
			Notes:           req.Notes,
		}
		if discount > 0 {
			order.DiscountAmount = &discount
		}
		if err := tx.CreateOrder(ctx, &order); err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.CreateOrderItems(ctx, items); err != nil {
			return err
		}

		// Stock was checked under the row lock above, but the guarded update
		// is what actually enforces stock >= 0.
		for _, item := range items {
			ok, err := tx.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				svcErr = fromCommon(commonerrors.ErrInsufficientStock, " for product: "+item.ProductName)
				return svcErr
			}
		}

		if err := tx.ClearCart(ctx, userID); err != nil {
			return err
		}

		result = &models.OrderWithItems{Order: order, Items: items}
		return nil
	})

	if svcErr != nil {
		return nil, svcErr
	}
	if err != nil {
		s.logger.Error("checkout transaction failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, internal("Failed to create order")
	}

	// The committed stock change makes any cached copy of these products
	// stale; drop them rather than serve old stock for the TTL.
	if s.catalog != nil {
		for _, item := range result.Items {
			s.catalog.Invalidate(ctx, item.ProductID)
		}
	}

	s.publishOrderCreated(ctx, result.Order)
	return result, nil
}

// publishOrderCreated runs after commit; a broker failure is logged and
// otherwise ignored so it can never fail a paid-for order.
func (s *checkoutServiceImpl) publishOrderCreated(ctx context.Context, order models.Order) {
	if s.events == nil {
		return
	}
	orderID := order.ID
	event := models.DomainEvent{
		Event:       models.EventOrderCreated,
		UserID:      order.UserID,
		OrderID:     &orderID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		FinalAmount: order.FinalAmount,
		Timestamp:   time.Now(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish order.created event",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
	}
}

func newOrderNumber() string {
	return "BK-" + strings.ToUpper(strings.SplitN(uuid.NewString(), "-", 2)[0])
}
