package fcm

import (
	"context"
	"errors"
	"log"
)

// Sender delivers one message to one device token.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// TokenStore forgets device tokens the gateway reported as dead.
type TokenStore interface {
	DeleteToken(token string) error
}

type Outcome string

const (
	Delivered    Outcome = "delivered"
	TokenRemoved Outcome = "token_removed"
	Failed       Outcome = "failed"
)

// Result is the typed outcome of one send attempt.
type Result struct {
	Outcome Outcome
	Err     error
}

func (r Result) OK() bool { return r.Outcome == Delivered }

// Dispatcher sends through a Sender and prunes tokens on permanent gateway errors.
type Dispatcher struct {
	sender Sender
	tokens TokenStore
}

func NewDispatcher(sender Sender, tokens TokenStore) *Dispatcher {
	return &Dispatcher{sender: sender, tokens: tokens}
}

func (d *Dispatcher) Send(ctx context.Context, msg Message) Result {
	err := d.sender.Send(ctx, msg)
	if err == nil {
		return Result{Outcome: Delivered}
	}

	var deliveryErr *DeliveryError
	if errors.As(err, &deliveryErr) && deliveryErr.Permanent {
		log.Printf("[FCM] Removing dead token %s (%s)", shortToken(msg.Token), deliveryErr.Code)
		if delErr := d.tokens.DeleteToken(msg.Token); delErr != nil {
			log.Printf("[FCM] Failed to remove token %s: %v", shortToken(msg.Token), delErr)
			return Result{Outcome: Failed, Err: errors.Join(err, delErr)}
		}
		return Result{Outcome: TokenRemoved, Err: err}
	}

	log.Printf("[FCM] Send to %s failed: %v", shortToken(msg.Token), err)
	return Result{Outcome: Failed, Err: err}
}
