package stub

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Stub provider for local development:
// - CreatePayment returns a /pay/stub link carrying the session id.
// - Webhooks arrive at POST /webhooks/payment signed with X-Signature
//   (HMAC-SHA256 over the raw body).
type Provider struct {
	secret  string
	baseURL string
}

func New(secret, baseURL string) *Provider {
	return &Provider{secret: secret, baseURL: strings.TrimRight(baseURL, "/")}
}

func (p *Provider) Name() string { return "stub" }

func (p *Provider) CreatePayment(ctx context.Context, sessionID, accountID string, amount float64, returnURL string) (string, string, error) {
	invoice := fmt.Sprintf("%s:%s:%d", sessionID, accountID, time.Now().Unix())

	url := "/pay/stub?session=" + sessionID
	if p.baseURL != "" {
		url = p.baseURL + url
	}
	return url, invoice, nil
}

type webhookPayload struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"` // paid/cancelled
}

func (p *Provider) HandleWebhook(ctx context.Context, body []byte, headers map[string]string) (string, string, error) {
	sig := headers["x-signature"]
	expected := signHex(p.secret, body)
	if sig == "" || !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", "", fmt.Errorf("invalid signature")
	}

	var pl webhookPayload
	if err := json.Unmarshal(body, &pl); err != nil {
		return "", "", err
	}
	if pl.SessionID == "" {
		return "", "", fmt.Errorf("missing session_id")
	}

	status := strings.TrimSpace(pl.Status)
	if status == "" {
		status = "paid"
	}
	return pl.SessionID, status, nil
}

// Sign computes the webhook signature for a body; exported so tests and
// the local pay page can produce valid callbacks.
func (p *Provider) Sign(body []byte) string {
	return signHex(p.secret, body)
}

func signHex(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
