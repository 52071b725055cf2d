package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Itinerary is the flight information printed on a ticket.
type Itinerary struct {
	Number    string
	Departure string
	Arrival   string
	Price     float64
}

func DocumentKey(ticketID string) string {
	return fmt.Sprintf("ticket_%s.txt", ticketID)
}

// Document renders the plain text ticket handed to the passenger.
func Document(t Ticket, it Itinerary) []byte {
	b := strings.Builder{}
	fmt.Fprintf(&b, "Ticket ID: %s\n", t.ID)
	fmt.Fprintf(&b, "Passenger: %s\n", t.PassengerName)
	fmt.Fprintf(&b, "E-mail: %s\n", t.Email)
	fmt.Fprintf(&b, "Flight: %s %s → %s\n", it.Number, it.Departure, it.Arrival)
	fmt.Fprintf(&b, "Price: %s ₽\n", strconv.FormatFloat(it.Price, 'f', -1, 64))
	fmt.Fprintf(&b, "Purchased: %s\n", t.CreatedAt.UTC().Format(time.RFC3339))
	return []byte(b.String())
}
