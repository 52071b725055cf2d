// Package contract holds the JSON shapes exchanged between the booking
// client and the ticket API.
package contract

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// FlightID is an opaque flight identifier. It is sent as a JSON string but
// accepts numeric ids on input, since older catalogs keyed flights by serial.
type FlightID string

func (id *FlightID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlightID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrap(err, "flight id must be a string or a number")
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return errors.Wrap(err, "flight id")
	}
	*id = FlightID(n.String())
	return nil
}

type FlightOffer struct {
	ID        FlightID `json:"id"`
	Number    string   `json:"number"`
	Departure string   `json:"departure"`
	Arrival   string   `json:"arrival"`
	Price     float64  `json:"price"`
}

type BuyRequest struct {
	FlightID      string `json:"flight_id"`
	PassengerName string `json:"passenger_name"`
	Email         string `json:"email"`
	CaptchaToken  string `json:"captcha_token"`
}

type BuyResponse struct {
	TicketID  string `json:"ticket_id,omitempty"`
	TicketURL string `json:"ticket_url,omitempty"`
	Error     string `json:"error,omitempty"`
}

type TicketResponse struct {
	TicketURL string `json:"ticket_url"`
}
