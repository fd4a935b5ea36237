package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/albanianalps/agency-backend/internal/database"
)

// TourHandler serves the read-only tour catalog
type TourHandler struct {
	tours  *database.TourRepository
	logger *logrus.Logger
}

// NewTourHandler creates a new TourHandler
func NewTourHandler(tours *database.TourRepository, logger *logrus.Logger) *TourHandler {
	return &TourHandler{
		tours:  tours,
		logger: logger,
	}
}

// List returns all tours
// @Summary List tours
// @Tags Tours
// @Produce json
// @Success 200 {array} models.Tour
// @Router /tours [get]
func (h *TourHandler) List(c *gin.Context) {
	tours, err := h.tours.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list tours")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tours"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tours": tours,
		"count": len(tours),
	})
}

// GetByID returns a single tour
// @Summary Get a tour
// @Tags Tours
// @Produce json
// @Param id path int true "Tour ID"
// @Success 200 {object} models.Tour
// @Failure 404 {object} map[string]interface{} "Tour not found"
// @Router /tours/{id} [get]
func (h *TourHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tour id"})
		return
	}

	tour, err := h.tours.FindByID(c.Request.Context(), id)
	if err != nil {
		h.logger.WithError(err).WithField("tour_id", id).Error("Failed to load tour")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tour"})
		return
	}
	if tour == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tour not found"})
		return
	}

	c.JSON(http.StatusOK, tour)
}
