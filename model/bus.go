package model

type City struct {
	DTO
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

type BusType struct {
	DTO
	Type string `gorm:"uniqueIndex;not null" json:"type"` // AC Sleeper, Non-AC Seater ...
}

type Bus struct {
	DTO
	BusNumber string  `gorm:"uniqueIndex;not null" json:"busNumber"`
	BusName   string  `gorm:"not null" json:"busName"`
	BusTypeId uint    `json:"busTypeId"`
	BusType   BusType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"busType"`
	VendorId  uint    `gorm:"index" json:"vendorId"`
	Vendor    Vendor  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	SeatRows  int     `json:"seatRows"`
	SeatCols  int     `json:"seatCols"`
	Price     float64 `json:"price"`
	ImageUrl  *string `json:"imageUrl"`
}

// TotalSeats falls back to four seats per row when the column count is unset.
func (b Bus) TotalSeats() int {
	cols := b.SeatCols
	if cols <= 0 {
		cols = DefaultSeatsPerRow
	}
	return b.SeatRows * cols
}

type Route struct {
	DTO
	VendorId          uint   `gorm:"index" json:"vendorId"`
	Name              string `json:"name"`
	SourceCityId      uint   `json:"sourceCityId"`
	SourceCity        City   `gorm:"foreignKey:SourceCityId" json:"sourceCity"`
	DestinationCityId uint   `json:"destinationCityId"`
	DestinationCity   City   `gorm:"foreignKey:DestinationCityId" json:"destinationCity"`
}

type CreateBusInput struct {
	BusNumber string  `json:"busNumber" validate:"required,min=3,max=20"`
	BusName   string  `json:"busName" validate:"required,min=2,max=100"`
	BusTypeId uint    `json:"busTypeId" validate:"required,gt=0"`
	SeatRows  int     `json:"seatRows" validate:"required,min=1,max=20"`
	SeatCols  int     `json:"seatCols" validate:"omitempty,min=2,max=6"`
	Price     float64 `json:"price" validate:"required,gt=0"`
}

type UpdateBusInput struct {
	BusName   string  `json:"busName" validate:"omitempty,min=2,max=100"`
	BusTypeId uint    `json:"busTypeId" validate:"omitempty,gt=0"`
	Price     float64 `json:"price" validate:"omitempty,gt=0"`
}

type CreateRouteInput struct {
	Name              string `json:"name" validate:"required"`
	SourceCityId      uint   `json:"sourceCityId" validate:"required,gt=0"`
	DestinationCityId uint   `json:"destinationCityId" validate:"required,gt=0,nefield=SourceCityId"`
}

type CreateCityInput struct {
	Name string `json:"name" validate:"required,min=2,max=80"`
}
