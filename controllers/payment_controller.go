package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"travel-backend/middleware"
	"travel-backend/services"
	"travel-backend/utils"
)

type PaymentController struct {
	PaymentSvc *services.PaymentService
}

func NewPaymentController(svc *services.PaymentService) *PaymentController {
	return &PaymentController{PaymentSvc: svc}
}

// Verify handles /api/payments/verify?tx_ref=... — the gateway's callback
// target. Registered for every method so non-GET calls get a 405 rather
// than a route miss. The endpoint is deliberately unauthenticated: the
// gateway redirects browsers here.
func (ctrl *PaymentController) Verify(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Invalid request method"})
		return
	}

	txRef := c.Query("tx_ref")
	if txRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing tx_ref"})
		return
	}

	outcome, err := ctrl.PaymentSvc.VerifyTransaction(c.Request.Context(), txRef)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		case errors.Is(err, services.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		default:
			log.Printf("Verify %s error: %v", txRef, err)
			utils.JSONStatus(c, http.StatusBadGateway, "error", "Payment verification unavailable")
		}
		return
	}

	if outcome.Succeeded {
		utils.JSONStatus(c, http.StatusOK, "success", "Payment verified, booking confirmed")
		return
	}
	utils.JSONStatus(c, http.StatusOK, "failed", "Payment verification failed")
}

// GET /api/payments
func (ctrl *PaymentController) GetUserPayments(c *gin.Context) {
	payments, err := ctrl.PaymentSvc.ListForUser(middleware.UserID(c))
	if err != nil {
		log.Printf("GetUserPayments error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}
