package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PKL-SST-2025/BatikKita-Be/models"
	"github.com/PKL-SST-2025/BatikKita-Be/services"
)

type OrderController struct {
	checkout services.CheckoutService
	orders   services.OrderService
}

func NewOrderController(checkout services.CheckoutService, orders services.OrderService) *OrderController {
	return &OrderController{checkout: checkout, orders: orders}
}

func (ctrl *OrderController) Checkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, svcErr := ctrl.checkout.Checkout(c.Request.Context(), userID, &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (ctrl *OrderController) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orders, svcErr := ctrl.orders.ListByUser(c.Request.Context(), userID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (ctrl *OrderController) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	order, svcErr := ctrl.orders.GetByID(c.Request.Context(), orderID, userID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (ctrl *OrderController) AdminList(c *gin.Context) {
	orders, svcErr := ctrl.orders.AdminList(c.Request.Context())
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, svcErr := ctrl.orders.UpdateStatus(c.Request.Context(), orderID, &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, order)
}
