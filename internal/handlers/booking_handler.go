package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/patinhas/internal/middleware"
	"github.com/joshua-takyi/patinhas/internal/models"
	"github.com/joshua-takyi/patinhas/internal/services"
)

// SendBookingConfirmation stores a booking submitted by the booking form and
// emails the owner when an address was given.
func SendBookingConfirmation(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		req, err := services.DecodeBookingRequest(body)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		var userID *uuid.UUID
		var accessToken string
		if identity := middleware.CurrentIdentity(c); identity != nil {
			userID = &identity.UserID
			accessToken = identity.AccessToken
		}

		result, err := bs.SubmitBooking(c.Request.Context(), req, userID, accessToken)
		if err != nil {
			var vErr *services.ValidationError
			if errors.As(err, &vErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   vErr.Error(),
					"fields":  vErr.Fields,
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.ConfirmationResponse{
			Success:   true,
			Booking:   result.Booking,
			EmailSent: result.EmailSent,
			Message:   result.Message(),
		})
	}
}

// ListBookings returns the caller's bookings ordered by date. With
// ?group=true the rows come back split into upcoming and past.
func ListBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := middleware.CurrentIdentity(c)
		if identity == nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}

		if c.Query("group") == "true" {
			lists, err := bs.PartitionForUser(c.Request.Context(), identity.UserID, identity.AccessToken)
			if err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
				return
			}
			c.JSON(http.StatusOK, models.SuccessResponse(lists, ""))
			return
		}

		bookings, err := bs.ListForUser(c.Request.Context(), identity.UserID, identity.AccessToken)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(bookings, len(bookings)))
	}
}

// CancelBooking cancels one of the caller's pending bookings.
func CancelBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := middleware.CurrentIdentity(c)
		if identity == nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid booking ID format"))
			return
		}

		err = bs.CancelBooking(c.Request.Context(), id, identity.UserID, identity.AccessToken)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"id": id, "status": models.StatusCancelled}, "Reserva cancelada"))
		case errors.Is(err, services.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
		}
	}
}

func DashboardStats(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := middleware.CurrentIdentity(c)
		if identity == nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}

		stats, err := bs.DashboardStats(c.Request.Context(), identity.UserID, identity.AccessToken)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(stats, ""))
	}
}

func BookingNotifications(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := middleware.CurrentIdentity(c)
		if identity == nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid booking ID format"))
			return
		}

		attempts, err := bs.NotificationAttempts(c.Request.Context(), id, identity.UserID, identity.AccessToken)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, models.ListResponse(attempts, len(attempts)))
		case errors.Is(err, services.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
		}
	}
}
