package model

type QueueMsgTicketIssued struct {
	TicketID      string `json:"ticket_id"`
	FlightNumber  string `json:"flight_number"`
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
	PassengerName string `json:"passenger_name"`
	Email         string `json:"email"`
	TicketURL     string `json:"ticket_url"`
}
