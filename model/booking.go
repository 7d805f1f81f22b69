package model

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingExpired   BookingStatus = "EXPIRED"
)

type Booking struct {
	DTO
	UserId        uint          `gorm:"index;not null" json:"userId"`
	User          User          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ScheduleId    uint          `gorm:"index;not null" json:"scheduleId"`
	Schedule      Schedule      `json:"schedule"`
	HoldId        *string       `gorm:"size:36;index" json:"holdId"`
	TotalAmount   float64       `json:"totalAmount"`
	Status        BookingStatus `gorm:"size:16;not null;default:PENDING;index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"size:16;default:PENDING" json:"paymentStatus"`
	BookingDate   time.Time     `json:"bookingDate"`
	Passengers    []Passenger   `gorm:"foreignKey:BookingId;constraint:OnDelete:CASCADE" json:"passengers"`
}

func (b Booking) SeatIds() []uint {
	ids := make([]uint, 0, len(b.Passengers))
	for _, p := range b.Passengers {
		ids = append(ids, p.SeatId)
	}
	return ids
}

// Passenger pairs one traveller with one seat of the booking.
type Passenger struct {
	DTO
	BookingId  uint    `gorm:"index;not null" json:"bookingId"`
	SeatId     uint    `gorm:"index;not null" json:"seatId"`
	SeatNumber string  `json:"seatNumber"`
	Price      float64 `json:"price"`
	Name       string  `gorm:"not null" json:"name"`
	Age        int     `json:"age"`
	Gender     string  `gorm:"size:8" json:"gender"`
	Contact    string  `json:"contact"`
	Email      string  `json:"email"`
}

type PassengerInput struct {
	SeatId  uint   `json:"seatId" validate:"required,gt=0"`
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Age     int    `json:"age" validate:"required,min=1,max=120"`
	Gender  string `json:"gender" validate:"required,oneof=MALE FEMALE OTHER"`
	Contact string `json:"contact" validate:"required,mobile"`
	Email   string `json:"email" validate:"required,email"`
}

type CreateBookingInput struct {
	UserId     uint             `json:"userId"`
	ScheduleId uint             `json:"scheduleId" validate:"required,gt=0"`
	Passengers []PassengerInput `json:"passengers" validate:"required,min=1,max=10,dive"`
}
