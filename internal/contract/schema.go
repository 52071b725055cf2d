package contract

import "github.com/xeipuuv/gojsonschema"

// BuyRequestSchema requires every purchase field to be a non-empty string.
var BuyRequestSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["flight_id", "passenger_name", "email", "captcha_token"],
	"properties": {
		"flight_id": {"type": "string", "minLength": 1},
		"passenger_name": {"type": "string", "minLength": 1},
		"email": {"type": "string", "minLength": 1},
		"captcha_token": {"type": "string", "minLength": 1}
	}
}`)

// FlightsSchema describes the catalog returned by GET /flights.
var FlightsSchema = gojsonschema.NewStringLoader(`{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "number", "departure", "arrival", "price"],
		"properties": {
			"id": {"type": ["string", "integer"]},
			"number": {"type": "string"},
			"departure": {"type": "string"},
			"arrival": {"type": "string"},
			"price": {"type": "number"}
		}
	}
}`)

// Validate checks document against schema.
func Validate(schema gojsonschema.JSONLoader, document []byte) (*gojsonschema.Result, error) {
	return gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(document))
}
