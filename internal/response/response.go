package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain"
)

// envelope is the uniform success payload shape.
type envelope struct {
	Data interface{} `json:"data"`
}

// paginatedEnvelope wraps a page of items with paging metadata.
type paginatedEnvelope struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// errorBody is the uniform error payload shape.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes a 200 response with the data envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Data: data})
}

// Created writes a 201 response with the data envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Data: data})
}

// Paginated writes a 200 response with paging metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, paginatedEnvelope{Data: items, Total: total, Page: page, Limit: limit})
}

// BadRequest writes a 400 response with a validation error body.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorBody{Code: string(domain.CodeValidation), Message: message})
}

// Error maps a typed application error to its HTTP status. Unclassified
// errors become opaque 500s so internals never leak to clients.
func Error(c *gin.Context, err error) {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, errorBody{Code: "INTERNAL", Message: "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case domain.CodeValidation:
		status = http.StatusBadRequest
	case domain.CodeNotFound:
		status = http.StatusNotFound
	case domain.CodeConflict, domain.CodeVehicleUnavailable, domain.CodeInvalidState:
		status = http.StatusConflict
	case domain.CodeForbidden, domain.CodeNotVerified:
		status = http.StatusForbidden
	case domain.CodeUnauthorized:
		status = http.StatusUnauthorized
	}

	c.JSON(status, errorBody{Code: string(appErr.Code), Message: appErr.Message})
}
