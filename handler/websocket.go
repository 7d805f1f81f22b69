package handler

import (
	"bus_booking/helper"
	"bus_booking/model"
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/contrib/websocket"
)

// SeatStream sends the seat map once, then forwards every seat event
// published for the schedule until the client goes away.
func (h *Handler) SeatStream(c *websocket.Conn) {
	id64, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id64 == 0 {
		slog.Warn("seat stream with invalid schedule id", "id", c.Params("id"))
		c.Close()
		return
	}
	scheduleId := uint(id64)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer c.Close()

	seats, err := h.Seats.GetSeats(ctx, scheduleId)
	if err != nil {
		slog.Warn("seat stream initial load failed", "schedule_id", scheduleId, "error", err)
		return
	}
	if err := c.WriteJSON(helper.SeatEvent{ScheduleId: scheduleId, Seats: model.ToSeatUI(seats), At: time.Now()}); err != nil {
		return
	}

	// Reading detects the close frame.
	go func() {
		defer cancel()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if h.Events == nil {
		<-ctx.Done()
		return
	}

	pubsub := h.Events.Subscribe(ctx, scheduleId)
	defer pubsub.Close()
	channel := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-channel:
			if !ok {
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				slog.Debug("seat stream write failed", "schedule_id", scheduleId, "error", err)
				return
			}
		}
	}
}
