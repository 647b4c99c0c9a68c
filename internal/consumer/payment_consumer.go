package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/communityarts/raffle-service/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
)

// paymentEvent is the gateway's confirmation message. Delivery is
// at-least-once; the checkout service's session idempotency makes the
// issuance effect exactly-once.
type paymentEvent struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

type PaymentConsumer struct {
	checkout service.CheckoutService
}

func NewPaymentConsumer(checkout service.CheckoutService) *PaymentConsumer {
	return &PaymentConsumer{checkout: checkout}
}

// Start listens for payment confirmations and drives ticket issuance.
func (pc *PaymentConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			pc.handleMessage(msg)
		}
		log.Println("[PaymentConsumer] channel closed, stopping consumer")
	}()
}

func (pc *PaymentConsumer) handleMessage(msg amqp.Delivery) {
	var event paymentEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("[PaymentConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}

	if event.Status != "paid" {
		log.Printf("[PaymentConsumer] ignoring session %s with status %q", event.SessionID, event.Status)
		msg.Ack(false)
		return
	}

	tickets, err := pc.checkout.CompleteSession(context.Background(), event.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound),
			errors.Is(err, service.ErrSessionExpired),
			errors.Is(err, service.ErrSessionCancelled):
			// Permanently unprocessable, drop it
			log.Printf("[PaymentConsumer] dropping session %s: %v", event.SessionID, err)
			msg.Nack(false, false)
		default:
			log.Printf("[PaymentConsumer] failed to issue tickets for session %s: %v", event.SessionID, err)
			msg.Nack(false, true) // requeue
		}
		return
	}

	log.Printf("[PaymentConsumer] session %s confirmed, %d tickets issued", event.SessionID, len(tickets))
	msg.Ack(false)
}
