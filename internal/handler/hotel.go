package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-room-reservation/internal/repository"
)

// HotelHandler serves the public, read-only browse endpoints for
// hotels and their rooms. Hotels are provisioned elsewhere; this
// surface exists so attendees can inspect availability before
// reserving. Responses are cacheable and the routes sit behind the
// response cache middleware.
type HotelHandler struct {
	Hotels *repository.HotelRepo
	Rooms  *repository.RoomRepo
}

// NewHotelHandler constructs a HotelHandler and panics if any
// dependency is nil.
func NewHotelHandler(hotels *repository.HotelRepo, rooms *repository.RoomRepo) *HotelHandler {
	if hotels == nil || rooms == nil {
		panic("nil repository passed to NewHotelHandler")
	}
	return &HotelHandler{Hotels: hotels, Rooms: rooms}
}

// ListHotels handles GET /v1/hotels. It returns all hotels; an empty
// array when none exist.
func (h *HotelHandler) ListHotels(c echo.Context) error {
	hotels, err := h.Hotels.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hotels"})
	}
	items := make([]echo.Map, 0, len(hotels))
	for _, ht := range hotels {
		items = append(items, echo.Map{
			"id":    ht.ID,
			"name":  ht.Name,
			"image": ht.Image,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListHotelRooms handles GET /v1/hotels/:id/rooms. It returns each
// room of the hotel with its remaining capacity and the number of
// active bookings referencing it. Unknown hotels yield 404.
func (h *HotelHandler) ListHotelRooms(c echo.Context) error {
	hotelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || hotelID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx := c.Request().Context()
	exists, err := h.Hotels.Exists(ctx, hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
	}
	rooms, err := h.Rooms.ListByHotel(ctx, hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rooms"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rooms})
}
