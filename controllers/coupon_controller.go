package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PKL-SST-2025/BatikKita-Be/models"
	"github.com/PKL-SST-2025/BatikKita-Be/services"
)

type CouponController struct {
	coupons services.CouponService
}

func NewCouponController(coupons services.CouponService) *CouponController {
	return &CouponController{coupons: coupons}
}

func (ctrl *CouponController) Create(c *gin.Context) {
	var req models.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coupon, svcErr := ctrl.coupons.Create(c.Request.Context(), &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, coupon)
}

func (ctrl *CouponController) List(c *gin.Context) {
	coupons, svcErr := ctrl.coupons.List(c.Request.Context())
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupons": coupons})
}

func (ctrl *CouponController) Deactivate(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid code"})
		return
	}

	if svcErr := ctrl.coupons.Deactivate(c.Request.Context(), code); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Coupon deactivated"})
}
