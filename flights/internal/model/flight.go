package model

type Flight struct {
	ID        string  `json:"id"`
	Number    string  `json:"number"`
	Departure string  `json:"departure"`
	Arrival   string  `json:"arrival"`
	Price     float64 `json:"price"`
}
