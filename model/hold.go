package model

import "time"

// Hold is a time-boxed claim on seats of one schedule.
type Hold struct {
	ID         string     `gorm:"primaryKey;size:36" json:"holdId"`
	ScheduleId uint       `gorm:"index" json:"scheduleId"`
	UserId     uint       `gorm:"index" json:"userId"`
	ExpiresAt  time.Time  `gorm:"index" json:"expiresAt"`
	CreatedAt  time.Time  `json:"createdAt"`
	Seats      []HoldSeat `gorm:"foreignKey:HoldId;constraint:OnDelete:CASCADE" json:"seats"`
}

// HoldSeat rows carry a unique seat id, so a seat belongs to at most one hold.
type HoldSeat struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	HoldId string `gorm:"size:36;index;not null" json:"-"`
	SeatId uint   `gorm:"uniqueIndex;not null" json:"seatId"`
}

func (h Hold) SeatIds() []uint {
	ids := make([]uint, 0, len(h.Seats))
	for _, s := range h.Seats {
		ids = append(ids, s.SeatId)
	}
	return ids
}

func (h Hold) Expired(now time.Time) bool {
	return !h.ExpiresAt.After(now)
}

type LockSeatsInput struct {
	UserId          uint   `json:"userId"`
	ScheduleId      uint   `json:"scheduleId" validate:"required,gt=0"`
	SelectedSeatIds []uint `json:"selectedSeatIds" validate:"required,min=1,max=10,dive,gt=0"`
}

type ReleaseHoldInput struct {
	HoldId string `json:"holdId" validate:"required,uuid"`
}

type LockSeatsResponse struct {
	Success   bool      `json:"success"`
	HoldId    string    `json:"holdId"`
	SeatIds   []uint    `json:"seatIds"`
	ExpiresAt time.Time `json:"expiresAt"`
}
