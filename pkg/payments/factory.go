package payments

import (
	"fmt"

	"github.com/communityarts/raffle-service/config"
	"github.com/communityarts/raffle-service/pkg/payments/stub"
)

func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.PaymentProvider {
	case "stub":
		return stub.New(cfg.PaymentWebhookSecret, cfg.BasePublicURL), nil
	default:
		return nil, fmt.Errorf("unknown payment provider: %s", cfg.PaymentProvider)
	}
}
