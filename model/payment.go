package model

import "time"

type PaymentMethod string

const (
	PaymentCard       PaymentMethod = "CARD"
	PaymentUPI        PaymentMethod = "UPI"
	PaymentNetBanking PaymentMethod = "NET_BANKING"
	PaymentWallet     PaymentMethod = "WALLET"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

type RefundStatus string

const (
	RefundNone     RefundStatus = "NONE"
	RefundPending  RefundStatus = "PENDING"
	RefundRefunded RefundStatus = "REFUNDED"
)

type Payment struct {
	DTO
	BookingId              uint          `gorm:"index;not null" json:"bookingId"`
	Amount                 float64       `gorm:"not null" json:"amount"`
	Method                 PaymentMethod `gorm:"size:16" json:"method"`
	Status                 PaymentStatus `gorm:"size:16;default:PENDING;index" json:"status"`
	Reference              string        `gorm:"size:36;uniqueIndex" json:"reference"`
	GatewayTransactionId   string        `json:"gatewayTransactionId,omitempty"`
	GatewayResponseCode    string        `json:"gatewayResponseCode,omitempty"`
	GatewayResponseMessage string        `json:"gatewayResponseMessage,omitempty"`
	FailureReason          string        `json:"failureReason,omitempty"`
	CardLastFour           string        `gorm:"size:4" json:"cardLastFour,omitempty"`
	UpiId                  string        `json:"upiId,omitempty"`
	BankName               string        `json:"bankName,omitempty"`
	WalletName             string        `json:"walletName,omitempty"`
	RefundStatus           RefundStatus  `gorm:"size:16;default:NONE;index" json:"refundStatus"`
	RefundAttempts         int           `json:"-"`
	RefundedAt             *time.Time    `json:"refundedAt,omitempty"`
}

// Method specific fields are checked by the settlement service.
type ProcessPaymentInput struct {
	UserId        uint          `json:"userId"`
	BookingId     uint          `json:"bookingId" validate:"required,gt=0"`
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"required,oneof=CARD UPI NET_BANKING WALLET"`
	CardNumber    string        `json:"cardNumber"`
	CardHolder    string        `json:"cardHolder"`
	ExpiryMonth   int           `json:"expiryMonth"`
	ExpiryYear    int           `json:"expiryYear"`
	Cvv           string        `json:"cvv"`
	UpiId         string        `json:"upiId"`
	BankName      string        `json:"bankName"`
	WalletName    string        `json:"walletName"`
}

type PaymentResult struct {
	Success   bool          `json:"success"`
	BookingId uint          `json:"bookingId"`
	PaymentId uint          `json:"paymentId"`
	Reference string        `json:"reference"`
	Status    PaymentStatus `json:"status"`
	Message   string        `json:"message,omitempty"`
}
