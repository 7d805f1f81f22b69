package helper

import (
	"bus_booking/model"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func SeatChannel(scheduleId uint) string {
	return fmt.Sprintf("schedule:%d", scheduleId)
}

type SeatEvent struct {
	ScheduleId uint           `json:"scheduleId"`
	Seats      []model.SeatUI `json:"seats"`
	At         time.Time      `json:"at"`
}

// SeatEvents fans seat changes out over redis pubsub so every instance can
// push them to its websocket clients.
type SeatEvents struct {
	client *redis.Client
}

func NewSeatEvents(client *redis.Client) *SeatEvents {
	return &SeatEvents{client: client}
}

func (e *SeatEvents) PublishSeats(ctx context.Context, scheduleId uint, seats []model.Seat) error {
	payload, err := json.Marshal(SeatEvent{
		ScheduleId: scheduleId,
		Seats:      model.ToSeatUI(seats),
		At:         time.Now(),
	})
	if err != nil {
		return err
	}
	return e.client.Publish(ctx, SeatChannel(scheduleId), payload).Err()
}

func (e *SeatEvents) Subscribe(ctx context.Context, scheduleId uint) *redis.PubSub {
	return e.client.Subscribe(ctx, SeatChannel(scheduleId))
}
