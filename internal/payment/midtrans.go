package payment

import (
	"context"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// MidtransProvider creates hosted Snap checkout pages. Midtrans amounts are
// whole IDR (zero-decimal), so the unit exponent is 0.
type MidtransProvider struct {
	client   snap.Client
	exponent int32
}

// NewMidtransProvider builds a Snap client against the sandbox or production
// environment depending on env ("production" selects the live API).
func NewMidtransProvider(serverKey, env string) *MidtransProvider {
	environment := midtrans.Sandbox
	if env == "production" {
		environment = midtrans.Production
	}

	client := snap.Client{}
	client.New(serverKey, environment)

	return &MidtransProvider{client: client, exponent: 0}
}

// Tag implements Provider
func (p *MidtransProvider) Tag() string { return "midtrans" }

// CreateSession implements Provider
func (p *MidtransProvider) CreateSession(ctx context.Context, session *CheckoutSession) (string, error) {
	items := make([]midtrans.ItemDetails, len(session.Items))
	for i, line := range session.Items {
		name := line.Name
		if line.Description != "" {
			name = fmt.Sprintf("%s (%s)", line.Name, line.Description)
		}
		items[i] = midtrans.ItemDetails{
			ID:    line.ProductID,
			Name:  name,
			Price: MinorUnits(line.UnitPrice, p.exponent),
			Qty:   int32(line.Quantity),
		}
	}

	// Snap has no cancel-URL or shipping-country fields; SuccessURL maps to
	// the finish callback, the rest of those session fields only apply to
	// providers whose APIs carry them.
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  session.Reference,
			GrossAmt: MinorUnits(session.Total(), p.exponent),
		},
		Items: &items,
		Callbacks: &snap.Callbacks{
			Finish: session.SuccessURL,
		},
	}

	resp, err := p.client.CreateTransaction(req)
	if err != nil {
		return "", fmt.Errorf("snap transaction: %w", err)
	}

	return resp.RedirectURL, nil
}
