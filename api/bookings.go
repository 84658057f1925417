package api

import (
	"net/http"
	"time"

	"github.com/M-A-Yakout/Booking-Flight/internal/domain"
	"github.com/M-A-Yakout/Booking-Flight/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	Username     string `json:"username"`
	FlightNumber string `json:"flight_number"`
}

type bookingResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	FlightNumber string `json:"flight_number"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

type bookingDetailsResponse struct {
	bookingResponse
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/bookings", h.create)
	router.GET("/bookings", h.listAll)
	router.GET("/bookings/:id", h.get)
	router.DELETE("/bookings/:id", h.cancel)
	router.GET("/users/:username/bookings", h.listForUser)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		Username:     req.Username,
		FlightNumber: req.FlightNumber,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) get(c *gin.Context) {
	found, err := h.service.GetBookingByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(found))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	// Identity rides in a header so it stays out of access logs. Verifying
	// it is the job of the auth layer in front of this service.
	requestingUser := c.GetHeader("X-Username")
	if requestingUser == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Username header is required"})
		return
	}

	cancelled, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"), requestingUser)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(cancelled))
}

func (h *BookingHandler) listForUser(c *gin.Context) {
	details, err := h.service.GetBookingsForUser(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDetailsResponse(details))
}

func (h *BookingHandler) listAll(c *gin.Context) {
	details, err := h.service.GetAllBookings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDetailsResponse(details))
}

func toDetailsResponse(details []booking.BookingDetails) []bookingDetailsResponse {
	resp := make([]bookingDetailsResponse, 0, len(details))
	for _, d := range details {
		resp = append(resp, bookingDetailsResponse{
			bookingResponse: *toBookingResponse(&d.Booking),
			Origin:          d.Origin,
			Destination:     d.Destination,
		})
	}
	return resp
}

func toBookingResponse(b *domain.Booking) *bookingResponse {
	return &bookingResponse{
		ID:           b.ID,
		Username:     b.Username,
		FlightNumber: b.FlightNumber,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
	}
}
