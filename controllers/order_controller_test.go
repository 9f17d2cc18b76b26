package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/PKL-SST-2025/BatikKita-Be/middleware"
	"github.com/PKL-SST-2025/BatikKita-Be/models"
	"github.com/PKL-SST-2025/BatikKita-Be/services"
)

type stubCheckoutService struct {
	result *models.OrderWithItems
	err    *services.ServiceError
	gotReq *models.CreateOrderRequest
}

func (s *stubCheckoutService) Checkout(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.OrderWithItems, *services.ServiceError) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func checkoutRouter(stub *stubCheckoutService, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ctrl := NewOrderController(stub, nil)
	router.POST("/api/checkout", func(c *gin.Context) {
		c.Set(middleware.UserContextKey, userID.String())
	}, ctrl.Checkout)
	return router
}

func validCheckoutBody() []byte {
	body, _ := json.Marshal(models.CreateOrderRequest{
		Items: []models.OrderItemRequest{{ProductID: uuid.New(), Quantity: 1}},
		ShippingAddress: models.Address{
			FullName:   "Dewi Lestari",
			Phone:      "+62811111111",
			Street:     "Jl. Malioboro 1",
			City:       "Yogyakarta",
			Province:   "DIY",
			PostalCode: "55213",
			Country:    "Indonesia",
		},
		PaymentMethod: "bank_transfer",
	})
	return body
}

func TestCheckoutEndpointCreatesOrder(t *testing.T) {
	stub := &stubCheckoutService{
		result: &models.OrderWithItems{
			Order: models.Order{ID: uuid.New(), OrderNumber: "BK-ABCD1234", FinalAmount: 115_000},
		},
	}
	router := checkoutRouter(stub, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewReader(validCheckoutBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "BK-ABCD1234")
	assert.NotNil(t, stub.gotReq)
}

func TestCheckoutEndpointRejectsEmptyItems(t *testing.T) {
	stub := &stubCheckoutService{}
	router := checkoutRouter(stub, uuid.New())

	body, _ := json.Marshal(gin.H{
		"items":            []any{},
		"shipping_address": gin.H{},
		"payment_method":   "bank_transfer",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, stub.gotReq)
}

func TestCheckoutEndpointPropagatesServiceStatus(t *testing.T) {
	stub := &stubCheckoutService{
		err: &services.ServiceError{StatusCode: http.StatusBadRequest, Message: "Insufficient stock for product: Batik Kawung"},
	}
	router := checkoutRouter(stub, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewReader(validCheckoutBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient stock")
}
