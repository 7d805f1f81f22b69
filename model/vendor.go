package model

type VendorStatus string

const (
	VendorPending  VendorStatus = "PENDING"
	VendorApproved VendorStatus = "APPROVED"
	VendorRejected VendorStatus = "REJECTED"
)

type Vendor struct {
	DTO
	VendorName    string       `gorm:"not null" json:"vendorName"`
	Email         string       `gorm:"uniqueIndex;not null" json:"email"`
	Password      string       `gorm:"not null" json:"-"`
	PhoneNumber   string       `json:"phoneNumber"`
	Address       string       `json:"address"`
	LicenseNumber string       `gorm:"uniqueIndex" json:"licenseNumber"`
	Status        VendorStatus `gorm:"size:16;default:PENDING;index" json:"status"`
	Buses         []Bus        `gorm:"foreignKey:VendorId" json:"buses,omitempty"`
}

type RegisterVendorInput struct {
	VendorName    string `json:"vendorName" validate:"required,min=2,max=120"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=6"`
	PhoneNumber   string `json:"phoneNumber" validate:"required,mobile"`
	Address       string `json:"address" validate:"required"`
	LicenseNumber string `json:"licenseNumber" validate:"required,alphanum,min=5,max=30"`
}

type UpdateVendorInput struct {
	VendorName  string `json:"vendorName" validate:"omitempty,min=2,max=120"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,mobile"`
	Address     string `json:"address"`
}
