package stub

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreatePayment_URLCarriesSession(t *testing.T) {
	p := New("secret", "https://raffle.example.com/")

	url, invoice, err := p.CreatePayment(context.Background(), "sess-1", "acct-1", 50, "")

	assert.NoError(t, err)
	assert.Equal(t, "https://raffle.example.com/pay/stub?session=sess-1", url)
	assert.True(t, strings.HasPrefix(invoice, "sess-1:acct-1:"))
}

func TestHandleWebhook_ValidSignature(t *testing.T) {
	p := New("secret", "")
	body := []byte(`{"session_id":"sess-1","status":"paid"}`)

	sessionID, status, err := p.HandleWebhook(context.Background(), body, map[string]string{
		"x-signature": p.Sign(body),
	})

	assert.NoError(t, err)
	assert.Equal(t, "sess-1", sessionID)
	assert.Equal(t, "paid", status)
}

func TestHandleWebhook_DefaultsToPaid(t *testing.T) {
	p := New("secret", "")
	body := []byte(`{"session_id":"sess-1"}`)

	_, status, err := p.HandleWebhook(context.Background(), body, map[string]string{
		"x-signature": p.Sign(body),
	})

	assert.NoError(t, err)
	assert.Equal(t, "paid", status)
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	p := New("secret", "")
	body := []byte(`{"session_id":"sess-1","status":"paid"}`)

	_, _, err := p.HandleWebhook(context.Background(), body, map[string]string{
		"x-signature": "deadbeef",
	})

	assert.Error(t, err)
}

func TestHandleWebhook_MissingSignature(t *testing.T) {
	p := New("secret", "")

	_, _, err := p.HandleWebhook(context.Background(), []byte(`{}`), map[string]string{})

	assert.Error(t, err)
}

func TestHandleWebhook_WrongSecret(t *testing.T) {
	signer := New("other-secret", "")
	p := New("secret", "")
	body := []byte(`{"session_id":"sess-1","status":"paid"}`)

	_, _, err := p.HandleWebhook(context.Background(), body, map[string]string{
		"x-signature": signer.Sign(body),
	})

	assert.Error(t, err)
}

func TestHandleWebhook_MissingSession(t *testing.T) {
	p := New("secret", "")
	body := []byte(`{"status":"paid"}`)

	_, _, err := p.HandleWebhook(context.Background(), body, map[string]string{
		"x-signature": p.Sign(body),
	})

	assert.Error(t, err)
}
