package service

import (
	"bus_booking/model"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type ChargeRequest struct {
	Reference string
	Amount    float64
	Method    model.PaymentMethod
	Input     model.ProcessPaymentInput
}

type ChargeResult struct {
	Approved      bool
	TransactionId string
	ResponseCode  string
	Message       string
}

// PaymentGateway charges and refunds by payment reference. Refund must be
// idempotent for a reference.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
	Refund(ctx context.Context, reference string, amount float64) error
}

// SimulatedGateway approves everything except cards ending in 0000 and
// UPI ids starting with "fail".
type SimulatedGateway struct {
	mu       sync.Mutex
	refunded map[string]float64
}

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{refunded: make(map[string]float64)}
}

func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return ChargeResult{}, err
	}
	switch {
	case req.Method == model.PaymentCard && strings.HasSuffix(req.Input.CardNumber, "0000"):
		return ChargeResult{ResponseCode: "05", Message: "card declined"}, nil
	case req.Method == model.PaymentUPI && strings.HasPrefix(strings.ToLower(req.Input.UpiId), "fail"):
		return ChargeResult{ResponseCode: "U30", Message: "upi collect request rejected"}, nil
	}
	return ChargeResult{
		Approved:      true,
		TransactionId: "SIM-" + strings.ToUpper(uuid.NewString()[:8]),
		ResponseCode:  "00",
		Message:       fmt.Sprintf("approved %.2f", req.Amount),
	}, nil
}

func (g *SimulatedGateway) Refund(ctx context.Context, reference string, amount float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, done := g.refunded[reference]; !done {
		g.refunded[reference] = amount
	}
	return nil
}

func (g *SimulatedGateway) Refunded(reference string) (float64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	amount, ok := g.refunded[reference]
	return amount, ok
}
