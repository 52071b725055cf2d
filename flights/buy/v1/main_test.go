package main

import (
	"context"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meetupaws/flight_ticket_booking/flights/internal/model"
	"github.com/meetupaws/flight_ticket_booking/flights/internal/repository"
	"github.com/meetupaws/flight_ticket_booking/flights/internal/verifier"
	"github.com/meetupaws/flight_ticket_booking/internal"
)

type FlightsRepositoryMock struct {
	mock.Mock
}

func (m *FlightsRepositoryMock) Find(id string) (model.Flight, error) {
	ret := m.Called(id)
	return ret.Get(0).(model.Flight), ret.Error(1)
}

type TicketsRepositoryMock struct {
	mock.Mock
}

func (m *TicketsRepositoryMock) Save(t model.Ticket) (model.Ticket, error) {
	ret := m.Called(t)
	return ret.Get(0).(model.Ticket), ret.Error(1)
}

type StorageMock struct {
	mock.Mock
}

func (m *StorageMock) Put(key string, body []byte, contentType string) (string, error) {
	ret := m.Called(key, body, contentType)
	return ret.String(0), ret.Error(1)
}

type VerifierMock struct {
	mock.Mock
}

func (m *VerifierMock) Verify(ctx context.Context, token string) error {
	ret := m.Called(token)
	return ret.Error(0)
}

type EnqueuerMock struct {
	mock.Mock
}

func (m *EnqueuerMock) SendMsg(msg interface{}, queue string) error {
	ret := m.Called(msg, queue)
	return ret.Error(0)
}

var (
	issuedAt  = time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	flightOne = model.Flight{
		ID:        "FL42",
		Number:    "SU 1402",
		Departure: "SVO",
		Arrival:   "LED",
		Price:     5400,
	}
	ticketURL = "https://storage.example/tickets-bucket/ticket_t-1.txt"
)

const validBody = `{
	"flight_id": "FL42",
	"passenger_name": "Ann",
	"email": "a@b.com",
	"captcha_token": "tok-abc"
}`

func issuedTicket() model.Ticket {
	return model.Ticket{
		ID:            "t-1",
		FlightID:      "FL42",
		PassengerName: "Ann",
		Email:         "a@b.com",
		TicketURL:     ticketURL,
		CreatedAt:     issuedAt,
	}
}

func TestAdapter(t *testing.T) {

	type mocks struct {
		flights  *FlightsRepositoryMock
		tickets  *TicketsRepositoryMock
		storage  *StorageMock
		verifier *VerifierMock
		enqueuer *EnqueuerMock
	}

	newMocks := func() mocks {
		return mocks{
			flights:  &FlightsRepositoryMock{},
			tickets:  &TicketsRepositoryMock{},
			storage:  &StorageMock{},
			verifier: &VerifierMock{},
			enqueuer: &EnqueuerMock{},
		}
	}

	tests := []struct {
		name   string
		req    events.APIGatewayProxyRequest
		want   events.APIGatewayProxyResponse
		mocks  mocks
		mocker func(m mocks)
	}{
		{
			name: "Get a 200 status code after succesfully buying a ticket",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Body:       validBody,
			},
			want:  internal.Respond(http.StatusOK, `{"ticket_id":"t-1","ticket_url":"`+ticketURL+`"}`),
			mocks: newMocks(),
			mocker: func(m mocks) {
				m.verifier.On("Verify", "tok-abc").Return(nil).Once()
				m.flights.On("Find", "FL42").Return(flightOne, nil).Once()

				ticket := issuedTicket()
				ticket.TicketURL = ""
				document := model.Document(ticket, model.Itinerary{
					Number:    "SU 1402",
					Departure: "SVO",
					Arrival:   "LED",
					Price:     5400,
				})
				m.storage.On("Put", "ticket_t-1.txt", document, "text/plain; charset=utf-8").
					Return(ticketURL, nil).Once()
				m.tickets.On("Save", issuedTicket()).Return(issuedTicket(), nil).Once()
				m.enqueuer.On("SendMsg", model.QueueMsgTicketIssued{
					TicketID:      "t-1",
					FlightNumber:  "SU 1402",
					Departure:     "SVO",
					Arrival:       "LED",
					PassengerName: "Ann",
					Email:         "a@b.com",
					TicketURL:     ticketURL,
				}, "tickets").Return(nil).Once()
			},
		},
		{
			name: "Get a 200 status code even when the notification could not be enqueued",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Body:       validBody,
			},
			want:  internal.Respond(http.StatusOK, `{"ticket_id":"t-1","ticket_url":"`+ticketURL+`"}`),
			mocks: newMocks(),
			mocker: func(m mocks) {
				m.verifier.On("Verify", "tok-abc").Return(nil).Once()
				m.flights.On("Find", "FL42").Return(flightOne, nil).Once()
				m.storage.On("Put", "ticket_t-1.txt", mock.Anything, mock.Anything).Return(ticketURL, nil).Once()
				m.tickets.On("Save", issuedTicket()).Return(issuedTicket(), nil).Once()
				m.enqueuer.On("SendMsg", mock.Anything, "tickets").Return(errors.New("queue down")).Once()
			},
		},
		{
			name: "Get a 400 status because request body is malformed",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Body: `{
							"flight_id": "FL42",
						}`,
			},
			want:   internal.Respond(http.StatusBadRequest, `{"error":"invalid character '}' looking for beginning of object key string"}`),
			mocks:  newMocks(),
			mocker: func(m mocks) {},
		},
		{
			name: "Get a 403 status because the captcha was rejected",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Body:       validBody,
			},
			want:  internal.Respond(http.StatusForbidden, `{"error":"captcha_failed"}`),
			mocks: newMocks(),
			mocker: func(m mocks) {
				m.verifier.On("Verify", "tok-abc").Return(verifier.ErrCaptchaFailed).Once()
			},
		},
		{
			name: "Get a 500 status because the captcha service is unreachable",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Body:       validBody,
			},
			want:  internal.Respond(http.StatusInternalServerError, `{"error":"dial tcp: refused"}`),
			mocks: newMocks(),
			mocker: func(m mocks) {
				m.verifier.On("Verify", "tok-abc").Return(errors.New("dial tcp: refused")).Once()
			},
		},
		{
			name: "Get a 404 status because the flight was not found",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Body:       validBody,
			},
			want:  internal.Respond(http.StatusNotFound, `{"error":"flight_not_found"}`),
			mocks: newMocks(),
			mocker: func(m mocks) {
				m.verifier.On("Verify", "tok-abc").Return(nil).Once()
				m.flights.On("Find", "FL42").Return(model.Flight{}, repository.ErrFlightNotFound).Once()
			},
		},
		{
			name: "Get a 500 status because the ticket upload failed",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Body:       validBody,
			},
			want:  internal.Respond(http.StatusInternalServerError, `{"error":"bucket gone"}`),
			mocks: newMocks(),
			mocker: func(m mocks) {
				m.verifier.On("Verify", "tok-abc").Return(nil).Once()
				m.flights.On("Find", "FL42").Return(flightOne, nil).Once()
				m.storage.On("Put", "ticket_t-1.txt", mock.Anything, mock.Anything).Return("", errors.New("bucket gone")).Once()
			},
		},
		{
			name: "Get a 500 status because the ticket could not be saved",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Body:       validBody,
			},
			want:  internal.Respond(http.StatusInternalServerError, `{"error":"unexpected_save"}`),
			mocks: newMocks(),
			mocker: func(m mocks) {
				m.verifier.On("Verify", "tok-abc").Return(nil).Once()
				m.flights.On("Find", "FL42").Return(flightOne, nil).Once()
				m.storage.On("Put", "ticket_t-1.txt", mock.Anything, mock.Anything).Return(ticketURL, nil).Once()
				m.tickets.On("Save", issuedTicket()).Return(model.Ticket{}, errors.New("unexpected_save")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			tt.mocker(tt.mocks)

			// Act
			handler := Adapter(Deps{
				Flights:  tt.mocks.flights,
				Tickets:  tt.mocks.tickets,
				Storage:  tt.mocks.storage,
				Verifier: tt.mocks.verifier,
				Enqueuer: tt.mocks.enqueuer,
				Queue:    "tickets",
				Log:      discardLogger(),
				Now:      func() time.Time { return issuedAt },
				NewID:    func() string { return "t-1" },
			})
			got, err := handler(context.Background(), tt.req)

			// Assert
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Differences found: (-want,+got)\n%s", diff)
			}
			tt.mocks.verifier.AssertExpectations(t)
			tt.mocks.flights.AssertExpectations(t)
			tt.mocks.storage.AssertExpectations(t)
			tt.mocks.tickets.AssertExpectations(t)
			tt.mocks.enqueuer.AssertExpectations(t)
		})
	}

}

func TestAdapter_MissingFields(t *testing.T) {
	bodies := map[string]string{
		"flight_id is missing":      `{"passenger_name":"Ann","email":"a@b.com","captcha_token":"tok"}`,
		"captcha_token is empty":    `{"flight_id":"FL42","passenger_name":"Ann","email":"a@b.com","captcha_token":""}`,
		"passenger_name is blank":   `{"flight_id":"FL42","passenger_name":"   ","email":"a@b.com","captcha_token":"tok"}`,
		"every field is missing":    `{}`,
		"flight_id is not a string": `{"flight_id":42,"passenger_name":"Ann","email":"a@b.com","captcha_token":"tok"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			verifierMock := &VerifierMock{}
			handler := Adapter(Deps{
				Verifier: verifierMock,
				Log:      discardLogger(),
			})

			got, err := handler(context.Background(), events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Body:       body,
			})

			require.NoError(t, err)
			require.Equal(t, http.StatusBadRequest, got.StatusCode)
			decoded := struct {
				Error string `json:"error"`
			}{}
			if got.Body != "" {
				require.NoError(t, json.Unmarshal([]byte(got.Body), &decoded))
			}
			require.NotEmpty(t, decoded.Error)
			verifierMock.AssertNotCalled(t, "Verify", mock.Anything)
		})
	}
}

func TestAdapter_Preflight(t *testing.T) {
	handler := Adapter(Deps{Log: discardLogger()})

	got, err := handler(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodOptions})

	require.NoError(t, err)
	require.Equal(t, internal.Respond(http.StatusOK, ""), got)
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)
	return logger
}
