package handler

import (
	"errors"   // errors.Is comparisons against repository sentinels
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters
	"time"     // event timestamps

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-room-reservation/internal/model"
	"github.com/iliyamo/event-room-reservation/internal/queue"
	"github.com/iliyamo/event-room-reservation/internal/repository"
	"github.com/iliyamo/event-room-reservation/internal/service"
)

// BookingHandler exposes the three reservation operations over HTTP.
// All methods assume that JWT authentication and role validation has
// already been performed by middleware; they may still return 401 when
// the user ID cannot be extracted from the context.
//
// Status mapping follows the platform's established contract: missing
// rooms, bookings or enrollments are 404; a disqualifying ticket, an
// out-of-capacity room at creation time and a duplicate booking are
// all 409; lacking standing to change a booking is 403.
type BookingHandler struct {
	Reservations *service.ReservationService // reservation engine
	Rooms        service.RoomLedger          // room lookups for event payloads
}

// NewBookingHandler constructs a BookingHandler. Both dependencies must
// be non-nil.
func NewBookingHandler(reservations *service.ReservationService, rooms service.RoomLedger) *BookingHandler {
	if reservations == nil || rooms == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Reservations: reservations, Rooms: rooms}
}

type roomPart struct {
	ID       uint64 `json:"id"`
	HotelID  uint64 `json:"hotel_id"`
	Name     string `json:"name"`
	Capacity uint32 `json:"capacity"`
}

// GetBooking handles GET /v1/booking. It returns the caller's active
// booking together with its room, or 404 when none exists.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	b, room, err := h.Reservations.GetBooking(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) || errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":        b.ID,
		"reference": b.Reference,
		"room": roomPart{
			ID:       room.ID,
			HotelID:  room.HotelID,
			Name:     room.Name,
			Capacity: room.Capacity,
		},
	})
}

// CreateBooking handles POST /v1/booking. The request body must carry
// a JSON object with a positive "room_id". On success it responds with
// the new booking's ID and room and publishes a booking.created event.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		RoomID uint64 `json:"room_id"`
	}
	if err := c.Bind(&body); err != nil || body.RoomID == 0 {
		// An absent room reference is reported as not-found, not as a
		// malformed request.
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	}
	ctx := c.Request().Context()
	b, err := h.Reservations.CreateBooking(ctx, userID, body.RoomID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound),
			errors.Is(err, repository.ErrEnrollmentNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrNotEligible),
			errors.Is(err, repository.ErrRoomFull):
			return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrNotEligible.Error()})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "user already has a booking"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
	h.publishEvent(c, queue.EventTypeBookingCreated, b, 0)
	return c.JSON(http.StatusOK, echo.Map{
		"booking_id": b.ID,
		"reference":  b.Reference,
		"room_id":    b.RoomID,
	})
}

// ChangeRoom handles PUT /v1/booking/:bookingId. It moves the booking
// to the room given in the body and publishes a booking.room_changed
// event on success.
func (h *BookingHandler) ChangeRoom(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	var body struct {
		RoomID uint64 `json:"room_id"`
	}
	if err := c.Bind(&body); err != nil || body.RoomID == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	}
	ctx := c.Request().Context()
	prev, _, prevErr := h.Reservations.GetBooking(ctx, userID)
	b, err := h.Reservations.ChangeRoom(ctx, userID, bookingID, body.RoomID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrRoomNotFound),
			errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to change room"})
	}
	var prevRoomID uint64
	if prevErr == nil && prev != nil {
		prevRoomID = prev.RoomID
	}
	h.publishEvent(c, queue.EventTypeBookingRoomChanged, b, prevRoomID)
	return c.JSON(http.StatusOK, echo.Map{
		"booking_id": b.ID,
		"reference":  b.Reference,
		"room_id":    b.RoomID,
	})
}

// publishEvent emits a booking event to the broker. Delivery is best
// effort: errors are logged by the publisher and never fail the
// request.
func (h *BookingHandler) publishEvent(c echo.Context, eventType string, b *model.Booking, prevRoomID uint64) {
	ctx := c.Request().Context()
	var hotelID uint64
	if room, err := h.Rooms.GetByID(ctx, b.RoomID); err == nil {
		hotelID = room.HotelID
	}
	_ = queue.PublishBookingEvent(ctx, queue.BookingEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		BookingID:  b.ID,
		Reference:  b.Reference,
		UserID:     b.UserID,
		RoomID:     b.RoomID,
		PrevRoomID: prevRoomID,
		HotelID:    hotelID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}
