package model

import "time"

type Schedule struct {
	DTO
	PublicCode    string    `gorm:"size:64;uniqueIndex" json:"publicCode"`
	BusId         uint      `gorm:"index" json:"busId"`
	Bus           Bus       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"bus"`
	Source        string    `gorm:"index:idx_schedule_search" json:"source"`
	Destination   string    `gorm:"index:idx_schedule_search" json:"destination"`
	ScheduleDate  time.Time `gorm:"type:date;index:idx_schedule_search" json:"scheduleDate"`
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
	IsActive      bool      `gorm:"default:true" json:"isActive"`
	Seats         []Seat    `gorm:"foreignKey:ScheduleId" json:"seats,omitempty"`
}

type CreateScheduleInput struct {
	BusId         uint   `json:"busId" validate:"required,gt=0"`
	Source        string `json:"source" validate:"required"`
	Destination   string `json:"destination" validate:"required,nefield=Source"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	DepartureTime string `json:"departureTime" validate:"required,datetime=15:04"`
	ArrivalTime   string `json:"arrivalTime" validate:"required,datetime=15:04"`
}

type SearchScheduleInput struct {
	Source      string `query:"source" validate:"required"`
	Destination string `query:"destination" validate:"required"`
	Date        string `query:"date" validate:"required,datetime=2006-01-02"`
}

type ScheduleResponse struct {
	ID             uint      `json:"id"`
	PublicCode     string    `json:"publicCode"`
	BusName        string    `json:"busName"`
	BusNumber      string    `json:"busNumber"`
	BusType        string    `json:"busType"`
	Source         string    `json:"source"`
	Destination    string    `json:"destination"`
	ScheduleDate   string    `json:"scheduleDate"`
	DepartureTime  time.Time `json:"departureTime"`
	ArrivalTime    time.Time `json:"arrivalTime"`
	Price          float64   `json:"price"`
	TotalSeats     int64     `json:"totalSeats"`
	AvailableSeats int64     `json:"availableSeats"`
}
