package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PKL-SST-2025/BatikKita-Be/middleware"
	"github.com/PKL-SST-2025/BatikKita-Be/services"
)

// currentUserID resolves the authenticated user's id from the context set by
// AuthRequired. On failure it writes the response itself; callers just return.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, false
	}
	return id, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func respondError(c *gin.Context, svcErr *services.ServiceError) {
	c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
}
