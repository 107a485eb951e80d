package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"travel-backend/middleware"
	"travel-backend/models"
	"travel-backend/services"
	"travel-backend/utils"
)

type CreateBookingPayload struct {
	ListingID uint   `json:"listing_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type BookingController struct {
	BookingSvc *services.BookingService
	UserSvc    *services.UserService
}

func NewBookingController(bookingSvc *services.BookingService, userSvc *services.UserService) *BookingController {
	return &BookingController{BookingSvc: bookingSvc, UserSvc: userSvc}
}

func (ctrl *BookingController) currentUser(c *gin.Context) (models.User, bool) {
	user, err := ctrl.UserSvc.GetByID(middleware.UserID(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return models.User{}, false
	}
	return user, true
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// POST /api/bookings
//
// Persists a pending booking, initiates payment with the gateway and records
// the Pending payment. On gateway failure the booking stays pending with no
// payment and the client gets a 400 with the provider's message.
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var payload CreateBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, ok := ctrl.currentUser(c)
	if !ok {
		return
	}

	start, err := parseDate(payload.StartDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := parseDate(payload.EndDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}

	result, err := ctrl.BookingSvc.Create(c.Request.Context(), user, services.CreateBookingInput{
		ListingID: payload.ListingID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		ctrl.respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":       "success",
		"booking_id":   result.Booking.ReferenceCode,
		"checkout_url": result.CheckoutURL,
	})
}

// POST /api/bookings/:id/pay
//
// Re-initiates payment for an existing pending booking. Rejected when a
// Pending or Completed payment already exists for it.
func (ctrl *BookingController) InitiatePayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, ok := ctrl.currentUser(c)
	if !ok {
		return
	}

	result, err := ctrl.BookingSvc.InitiatePayment(c.Request.Context(), user, id)
	if err != nil {
		ctrl.respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":       "success",
		"booking_id":   result.Booking.ReferenceCode,
		"checkout_url": result.CheckoutURL,
	})
}

func (ctrl *BookingController) respondBookingError(c *gin.Context, err error) {
	var initErr *services.PaymentInitiationError

	switch {
	case errors.Is(err, services.ErrListingNotFound):
		utils.JSONError(c, http.StatusBadRequest, "Listing not found")
	case errors.Is(err, services.ErrInvalidDateRange):
		utils.JSONError(c, http.StatusBadRequest, "end_date must be after start_date")
	case errors.Is(err, services.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "Booking not found")
	case errors.Is(err, services.ErrBookingNotPending):
		utils.JSONError(c, http.StatusConflict, "Booking is not pending payment")
	case errors.Is(err, services.ErrPaymentAlreadyInitiated):
		utils.JSONError(c, http.StatusConflict, "A payment for this booking is already in progress")
	case errors.As(err, &initErr):
		utils.JSONStatus(c, http.StatusBadRequest, "failed", initErr.Message)
	default:
		log.Printf("Booking error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to process booking")
	}
}

// GET /api/bookings
func (ctrl *BookingController) GetBookings(c *gin.Context) {
	bookings, err := ctrl.BookingSvc.ListForUser(middleware.UserID(c))
	if err != nil {
		log.Printf("GetBookings error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GET /api/bookings/:id
func (ctrl *BookingController) GetBookingByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	booking, err := ctrl.BookingSvc.GetForUser(middleware.UserID(c), id)
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Booking not found")
			return
		}
		log.Printf("GetBookingByID %d error: %v", id, err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch booking")
		return
	}
	c.JSON(http.StatusOK, booking)
}
