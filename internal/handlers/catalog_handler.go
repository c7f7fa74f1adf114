package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/patinhas/internal/models"
	"github.com/joshua-takyi/patinhas/internal/services"
)

func ListServices(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		svcs := cs.ListServices()
		c.JSON(http.StatusOK, models.ListResponse(svcs, len(svcs)))
	}
}

func BookingOptions(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.SuccessResponse(cs.Options(), ""))
	}
}
