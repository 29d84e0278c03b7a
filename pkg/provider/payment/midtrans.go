package payment

import (
	"context"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
)

// Provider returns money. Refund is the only operation the back office
// needs from the gateway.
type Provider interface {
	Refund(ctx context.Context, orderRef string, amount float64, reason string) error
}

type MidtransProvider struct {
	client coreapi.Client
}

var _ Provider = &MidtransProvider{}

func NewMidtransProvider(serverKey string, production bool) *MidtransProvider {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	var c coreapi.Client
	c.New(serverKey, env)

	return &MidtransProvider{client: c}
}

func (p *MidtransProvider) Refund(ctx context.Context, orderRef string, amount float64, reason string) error {
	refundReq := &coreapi.RefundReq{
		Amount: int64(amount),
		Reason: reason,
	}

	_, midErr := p.client.RefundTransaction(orderRef, refundReq)
	if midErr != nil {
		return fmt.Errorf("midtrans refund error: %v", midErr.GetMessage())
	}

	return nil
}
