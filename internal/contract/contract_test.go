package contract

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestFlightOffer_UnmarshalID(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    FlightOffer
		wantErr bool
	}{
		{
			name: "string id",
			body: `{"id":"FL42","number":"SU 100","departure":"SVO","arrival":"LED","price":4500}`,
			want: FlightOffer{ID: "FL42", Number: "SU 100", Departure: "SVO", Arrival: "LED", Price: 4500},
		},
		{
			name: "numeric id",
			body: `{"id":7,"number":"SU 7","departure":"SVO","arrival":"AER","price":99.5}`,
			want: FlightOffer{ID: "7", Number: "SU 7", Departure: "SVO", Arrival: "AER", Price: 99.5},
		},
		{
			name:    "object id",
			body:    `{"id":{"x":1}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlightOffer{}
			err := json.Unmarshal([]byte(tt.body), &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Differences found: (-want,+got)\n%s", diff)
			}
		})
	}
}

func TestValidate_BuyRequest(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		valid bool
	}{
		{
			name:  "complete request",
			body:  `{"flight_id":"FL42","passenger_name":"Ann","email":"a@b.com","captcha_token":"tok"}`,
			valid: true,
		},
		{
			name:  "missing captcha token",
			body:  `{"flight_id":"FL42","passenger_name":"Ann","email":"a@b.com"}`,
			valid: false,
		},
		{
			name:  "empty passenger name",
			body:  `{"flight_id":"FL42","passenger_name":"","email":"a@b.com","captcha_token":"tok"}`,
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Validate(BuyRequestSchema, []byte(tt.body))
			require.NoError(t, err)
			require.Equal(t, tt.valid, result.Valid())
		})
	}
}
