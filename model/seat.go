package model

import "time"

type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatHeld      SeatStatus = "HELD"
	SeatBooked    SeatStatus = "BOOKED"
)

type SeatType string

const (
	SeatWindow SeatType = "WINDOW"
	SeatAisle  SeatType = "AISLE"
	SeatMiddle SeatType = "MIDDLE"
)

const DefaultSeatsPerRow = 4

type Seat struct {
	DTO
	ScheduleId   uint       `gorm:"not null;uniqueIndex:idx_schedule_seat_number" json:"scheduleId"`
	SeatNumber   string     `gorm:"size:8;not null;uniqueIndex:idx_schedule_seat_number" json:"seatNumber"`
	RowNumber    int        `gorm:"column:seat_row" json:"rowNumber"`
	ColumnNumber int        `gorm:"column:seat_col" json:"columnNumber"`
	SeatType     SeatType   `gorm:"size:16" json:"seatType"`
	Status       SeatStatus `gorm:"size:16;not null;default:AVAILABLE;index" json:"status"`
	Price        float64    `json:"price"`
	LockedAt     *time.Time `json:"lockedAt"`
}

type SeatUI struct {
	Id         uint       `json:"id"`
	SeatNumber string     `json:"seatNumber"`
	Row        int        `json:"row"`
	Column     int        `json:"column"`
	Type       SeatType   `json:"type"`
	Status     SeatStatus `json:"status"`
	Price      float64    `json:"price"`
}

func ToSeatUI(seats []Seat) []SeatUI {
	out := make([]SeatUI, 0, len(seats))
	for _, s := range seats {
		out = append(out, SeatUI{
			Id:         s.ID,
			SeatNumber: s.SeatNumber,
			Row:        s.RowNumber,
			Column:     s.ColumnNumber,
			Type:       s.SeatType,
			Status:     s.Status,
			Price:      s.Price,
		})
	}
	return out
}
