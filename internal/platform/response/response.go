// Package response provides the shared HTTP response envelope and the
// mapping from application errors to status codes.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlas-transfers/service-pricing/internal/domain/pricing"
	"github.com/atlas-transfers/service-pricing/internal/platform/apperrors"
)

// Envelope is the common response shape.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Error: message})
}

// Error maps an error to its HTTP status. Pricing misses are 422 — the
// request was well-formed, the catalog just does not cover it; transport and
// infrastructure failures stay 500.
func Error(c *gin.Context, err error) {
	if errors.Is(err, pricing.ErrPricingNotFound) {
		c.JSON(http.StatusUnprocessableEntity, Envelope{Success: false, Error: "route not serviced"})
		return
	}

	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		c.JSON(http.StatusBadRequest, Envelope{Success: false, Error: err.Error()})
	case apperrors.KindNotFound:
		c.JSON(http.StatusNotFound, Envelope{Success: false, Error: err.Error()})
	case apperrors.KindConflict:
		c.JSON(http.StatusConflict, Envelope{Success: false, Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, Envelope{Success: false, Error: "internal server error"})
	}
}
