// Package webhook verifies GitHub webhook deliveries and routes them to the
// handlers registered for their event kind.
package webhook

import (
	"context"
	"fmt"
	"net/http"

	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/google/go-github/v69/github"
)

// EventKind is the value of the X-GitHub-Event header.
type EventKind string

// Event kinds neuron reacts to.
const (
	EventPush EventKind = "push"
	EventPing EventKind = "ping"
)

// Handler reacts to one parsed webhook event.
type Handler interface {
	Handle(ctx context.Context, event interface{}) error
}

// Table maps an event kind to its handlers, run in order.
type Table map[EventKind][]Handler

// Dispatcher routes verified deliveries through a Table built once at start up.
type Dispatcher struct {
	table  Table
	secret []byte
	logger lumber.Logger
}

// NewDispatcher returns a dispatcher verifying payloads with secret. An empty
// secret accepts unsigned deliveries.
func NewDispatcher(secret string, table Table, logger lumber.Logger) *Dispatcher {
	return &Dispatcher{table: table, secret: []byte(secret), logger: logger}
}

// Dispatch verifies the delivery in r and runs every handler of its kind.
// Unknown kinds are acknowledged and ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, r *http.Request) error {
	payload, err := github.ValidatePayload(r, d.secret)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidSignature, err)
	}
	kind := EventKind(github.WebHookType(r))
	handlers, ok := d.table[kind]
	if !ok {
		d.logger.Debugf("ignoring webhook event %q, delivery %s", kind, github.DeliveryID(r))
		return nil
	}
	event, err := github.ParseWebHook(string(kind), payload)
	if err != nil {
		return &errs.ValidationError{Field: "payload", Message: err.Error()}
	}
	for _, h := range handlers {
		if err := h.Handle(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
