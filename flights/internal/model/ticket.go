package model

import "time"

type Ticket struct {
	ID            string    `json:"id"`
	FlightID      string    `json:"flight_id"`
	PassengerName string    `json:"passenger_name"`
	Email         string    `json:"email"`
	TicketURL     string    `json:"ticket_url"`
	CreatedAt     time.Time `json:"created_at"`
}
