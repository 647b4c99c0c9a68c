package payments

import "context"

const (
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// Provider abstracts the hosted payment processor. CreatePayment opens a
// checkout session and returns the hosted pay URL plus the provider's
// invoice reference; HandleWebhook authenticates a callback body and
// resolves it to our session id and a terminal status.
type Provider interface {
	Name() string
	CreatePayment(ctx context.Context, sessionID, accountID string, amount float64, returnURL string) (payURL, invoice string, err error)
	HandleWebhook(ctx context.Context, body []byte, headers map[string]string) (sessionID, status string, err error)
}
