// Package purchase drives the ticket purchase flow: flight selection,
// passenger details, CAPTCHA gating, one submission at a time and the
// mapping of the response to a user-facing message.
//
// A Controller belongs to a single event loop. Its methods are not safe for
// concurrent use; the network call of a submission runs elsewhere through
// Attempt.Do and its Result is handed back with Complete.
package purchase

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/meetupaws/flight_ticket_booking/internal/contract"
)

type Buyer interface {
	Buy(ctx context.Context, req contract.BuyRequest) ([]byte, error)
}

// Challenge yields the CAPTCHA proof token, "" when not passed.
type Challenge interface {
	GetResponse() string
}

type Controller struct {
	buyer     Buyer
	challenge Challenge
	log       logrus.FieldLogger

	state     State
	selection string
	name      string
	email     string
	message   Message
	result    Result

	attempt uint64
	closed  bool
}

// Attempt is an accepted submission whose request has not been sent yet.
type Attempt struct {
	ID      uint64
	Request contract.BuyRequest

	buyer Buyer
	log   logrus.FieldLogger
}

// Do sends the request and classifies the answer. It is safe to call off
// the event loop.
func (a *Attempt) Do(ctx context.Context) Result {
	body, err := a.buyer.Buy(ctx, a.Request)
	result := Classify(body, err)
	if f, ok := result.(Failure); ok {
		entry := a.log.WithFields(logrus.Fields{"attempt": a.ID, "kind": f.Kind.String()})
		switch f.Kind {
		case Transport:
			entry.WithError(f.Err).Warn("purchase request failed")
		case Unexpected:
			entry.WithField("body", string(body)).Warn("purchase response has neither ticket nor error")
		}
	}
	return result
}

// SelectFlight records id as the chosen flight and clears the message.
// While a submission is in flight the choice is kept for the next attempt
// but state and message stay as they are. A blank id clears the selection.
func (c *Controller) SelectFlight(id string) {
	c.selection = id
	if c.state == Submitting {
		return
	}
	c.message = Message{}
	c.result = nil
	if id == "" {
		c.state = Idle
		return
	}
	c.state = FlightSelected
}

func (c *Controller) SetPassenger(name string, email string) {
	c.name = name
	c.email = email
}

// Submit evaluates the purchase guards. It returns the Attempt to perform
// when a flight is selected and the challenge is passed, and nil otherwise,
// in which case the message explains what is missing. Submit is a no-op
// while another attempt is in flight.
func (c *Controller) Submit() *Attempt {
	if c.closed || c.state == Submitting {
		return nil
	}
	if c.selection == "" {
		c.message = Message{Kind: MessageValidation, Text: TextChooseFlight}
		return nil
	}
	token := ""
	if c.challenge != nil {
		token = c.challenge.GetResponse()
	}
	if token == "" {
		c.message = Message{Kind: MessageValidation, Text: TextCompleteCaptcha}
		return nil
	}

	c.attempt++
	c.state = Submitting
	c.result = nil
	c.message = Message{Kind: MessageInFlight, Text: TextSubmitting}
	c.log.WithFields(logrus.Fields{"attempt": c.attempt, "flight_id": c.selection}).Info("submitting purchase")

	return &Attempt{
		ID: c.attempt,
		Request: contract.BuyRequest{
			FlightID:      c.selection,
			PassengerName: c.name,
			Email:         c.email,
			CaptchaToken:  token,
		},
		buyer: c.buyer,
		log:   c.log,
	}
}

// Complete applies the result of attempt id. Results of stale attempts and
// results arriving after Close are dropped; applied reports which happened.
func (c *Controller) Complete(id uint64, r Result) (applied bool) {
	if c.closed || c.state != Submitting || id != c.attempt {
		c.log.WithField("attempt", id).Debug("dropping purchase result")
		return false
	}

	c.result = r
	c.message = messageFor(r)
	if _, ok := r.(Success); ok {
		c.state = Succeeded
	} else {
		c.state = Failed
	}
	c.log.WithFields(logrus.Fields{"attempt": id, "state": c.state.String()}).Info("purchase finished")
	return true
}

// SubmitAndWait runs a whole submission on the calling goroutine and
// returns the resulting state.
func (c *Controller) SubmitAndWait(ctx context.Context) State {
	attempt := c.Submit()
	if attempt == nil {
		return c.state
	}
	c.Complete(attempt.ID, attempt.Do(ctx))
	return c.state
}

// Close marks the controller torn down. Pending results are ignored.
func (c *Controller) Close() {
	c.closed = true
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Selection() string {
	return c.selection
}

func (c *Controller) Message() Message {
	return c.message
}

// Result is the outcome of the last finished attempt, nil if none or if the
// flow moved on since.
func (c *Controller) Result() Result {
	return c.result
}

func (c *Controller) Passenger() (name string, email string) {
	return c.name, c.email
}

func NewController(buyer Buyer, challenge Challenge, log logrus.FieldLogger) *Controller {
	return &Controller{
		buyer:     buyer,
		challenge: challenge,
		log:       log,
		state:     Idle,
	}
}
