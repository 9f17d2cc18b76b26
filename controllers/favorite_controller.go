package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PKL-SST-2025/BatikKita-Be/services"
)

type FavoriteController struct {
	favorites services.FavoriteService
}

func NewFavoriteController(favorites services.FavoriteService) *FavoriteController {
	return &FavoriteController{favorites: favorites}
}

func (ctrl *FavoriteController) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	favorites, svcErr := ctrl.favorites.List(c.Request.Context(), userID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

func (ctrl *FavoriteController) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "productId")
	if !ok {
		return
	}

	if svcErr := ctrl.favorites.Add(c.Request.Context(), userID, productID); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Favorite added"})
}

func (ctrl *FavoriteController) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "productId")
	if !ok {
		return
	}

	if svcErr := ctrl.favorites.Remove(c.Request.Context(), userID, productID); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Favorite removed"})
}
