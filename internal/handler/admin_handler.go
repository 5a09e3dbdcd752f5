package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/application"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/auth"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/middleware"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/response"
)

// AdminHandler handles admin HTTP requests for booking and fleet management.
type AdminHandler struct {
	bookings *application.BookingService
	fleet    *application.FleetService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookings *application.BookingService, fleet *application.FleetService) *AdminHandler {
	return &AdminHandler{bookings: bookings, fleet: fleet}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, adminRole)
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/bookings/number/:number", h.GetBookingByNumber)
		admin.GET("/stats/bookings", h.BookingStats)
		admin.GET("/stats/vehicles", h.FleetStats)
		admin.PATCH("/vehicles/:id/availability", h.SetVehicleAvailability)
	}
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	bookings, total, err := h.bookings.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, bookings, total, page, limit)
}

// GetBookingByNumber handles GET /api/v1/admin/bookings/number/:number.
// Support staff resolve the number quoted by a renter to the booking.
func (h *AdminHandler) GetBookingByNumber(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.bookings.GetBookingByNumber(c.Request.Context(), actor, c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// BookingStats handles GET /api/v1/admin/stats/bookings.
func (h *AdminHandler) BookingStats(c *gin.Context) {
	stats, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// FleetStats handles GET /api/v1/admin/stats/vehicles.
func (h *AdminHandler) FleetStats(c *gin.Context) {
	stats, err := h.fleet.GetFleetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// SetVehicleAvailability handles PATCH /api/v1/admin/vehicles/:id/availability.
func (h *AdminHandler) SetVehicleAvailability(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	var req application.SetAvailabilityRequest
	if err := bindStrictJSON(c, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.fleet.SetVehicleAvailability(c.Request.Context(), vehicleID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
