package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/application"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/response"
)

// VehicleHandler handles HTTP requests for the vehicle catalog.
type VehicleHandler struct {
	service *application.FleetService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(service *application.FleetService) *VehicleHandler {
	return &VehicleHandler{service: service}
}

// RegisterRoutes registers catalog routes on the given router group.
// The catalog is a public read surface.
func (h *VehicleHandler) RegisterRoutes(r *gin.RouterGroup) {
	vehicles := r.Group("/api/v1/vehicles")
	{
		vehicles.GET("", h.ListVehicles)
		vehicles.GET("/:id", h.GetVehicle)
	}
}

// ListVehicles handles GET /api/v1/vehicles.
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	page, limit := parsePagination(c)
	q := application.VehicleListQuery{
		Type:         c.Query("type"),
		Availability: c.Query("availability"),
		Page:         page,
		Limit:        limit,
	}

	result, err := h.service.ListVehicles(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetVehicle handles GET /api/v1/vehicles/:id.
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	result, err := h.service.GetVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
