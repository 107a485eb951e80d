package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"travel-backend/middleware"
	"travel-backend/models"
	"travel-backend/services"
	"travel-backend/utils"
)

type ListingController struct {
	ListingSvc *services.ListingService
}

func NewListingController(svc *services.ListingService) *ListingController {
	return &ListingController{ListingSvc: svc}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// GET /api/listings
func (ctrl *ListingController) GetListings(c *gin.Context) {
	listings, err := ctrl.ListingSvc.GetAll()
	if err != nil {
		log.Printf("GetListings error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch listings")
		return
	}
	c.JSON(http.StatusOK, listings)
}

// GET /api/listings/:id
func (ctrl *ListingController) GetListingByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	listing, err := ctrl.ListingSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Listing not found")
			return
		}
		log.Printf("GetListingByID %d error: %v", id, err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch listing")
		return
	}
	c.JSON(http.StatusOK, listing)
}

// POST /api/listings
func (ctrl *ListingController) CreateListing(c *gin.Context) {
	var listing models.Listing
	if err := c.ShouldBindJSON(&listing); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if listing.Title == "" {
		utils.JSONError(c, http.StatusBadRequest, "Title is required")
		return
	}

	listing.HostID = middleware.UserID(c)
	if err := ctrl.ListingSvc.Create(&listing); err != nil {
		log.Printf("CreateListing error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create listing")
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// PUT /api/listings/:id
func (ctrl *ListingController) UpdateListing(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if _, err := ctrl.ListingSvc.GetByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Listing not found")
			return
		}
		log.Printf("UpdateListing %d lookup error: %v", id, err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch listing")
		return
	}

	var listing models.Listing
	if err := c.ShouldBindJSON(&listing); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	listing.ID = id

	if err := ctrl.ListingSvc.Update(c.Request.Context(), &listing); err != nil {
		log.Printf("UpdateListing %d error: %v", id, err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update listing")
		return
	}
	c.JSON(http.StatusOK, listing)
}

// DELETE /api/listings/:id
func (ctrl *ListingController) DeleteListing(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.ListingSvc.Delete(c.Request.Context(), id); err != nil {
		log.Printf("DeleteListing %d error: %v", id, err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete listing")
		return
	}
	c.Status(http.StatusNoContent)
}
