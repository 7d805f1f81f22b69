package model

type Feedback struct {
	DTO
	UserId            uint    `gorm:"index" json:"userId"`
	BookingId         uint    `gorm:"uniqueIndex" json:"bookingId"`
	Rating            int     `json:"rating"`
	Cleanliness       int     `json:"cleanliness"`
	Punctuality       int     `json:"punctuality"`
	StaffBehavior     int     `json:"staffBehavior"`
	Comfort           int     `json:"comfort"`
	OverallExperience int     `json:"overallExperience"`
	Comments          string  `gorm:"size:1000" json:"comments"`
	Category          string  `gorm:"size:20;default:GENERAL;index" json:"category"`
	BusName           string  `gorm:"index" json:"busName"`
	JourneyDate       string  `json:"journeyDate"`
	Booking           Booking `json:"-"`
}

type CreateFeedbackInput struct {
	BookingId         uint   `json:"bookingId" validate:"required,gt=0"`
	Rating            int    `json:"rating" validate:"required,min=1,max=5"`
	Cleanliness       int    `json:"cleanliness" validate:"omitempty,min=1,max=5"`
	Punctuality       int    `json:"punctuality" validate:"omitempty,min=1,max=5"`
	StaffBehavior     int    `json:"staffBehavior" validate:"omitempty,min=1,max=5"`
	Comfort           int    `json:"comfort" validate:"omitempty,min=1,max=5"`
	OverallExperience int    `json:"overallExperience" validate:"omitempty,min=1,max=5"`
	Comments          string `json:"comments" validate:"max=1000"`
	Category          string `json:"category" validate:"omitempty,oneof=GENERAL CLEANLINESS PUNCTUALITY STAFF_BEHAVIOR COMFORT SAFETY COMPLAINT SUGGESTION"`
}

type FeedbackStatistics struct {
	TotalFeedbacks       int64   `json:"totalFeedbacks"`
	AverageRating        float64 `json:"averageRating"`
	AverageCleanliness   float64 `json:"averageCleanliness"`
	AveragePunctuality   float64 `json:"averagePunctuality"`
	AverageStaffBehavior float64 `json:"averageStaffBehavior"`
	AverageComfort       float64 `json:"averageComfort"`
	AverageOverall       float64 `json:"averageOverall"`
}
