package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/meetupaws/flight_ticket_booking/flights/internal/model"
	"github.com/meetupaws/flight_ticket_booking/flights/internal/repository"
	"github.com/meetupaws/flight_ticket_booking/flights/internal/verifier"
	"github.com/meetupaws/flight_ticket_booking/internal"
	"github.com/meetupaws/flight_ticket_booking/internal/contract"
)

type Handler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

var ErrMissingFields = errors.New("missing fields")

type FlightsRepository interface {
	Find(id string) (model.Flight, error)
}

type TicketsRepository interface {
	Save(t model.Ticket) (model.Ticket, error)
}

type Storage interface {
	Put(key string, body []byte, contentType string) (string, error)
}

type CaptchaVerifier interface {
	Verify(ctx context.Context, token string) error
}

type Enqueuer interface {
	SendMsg(msg interface{}, queue string) error
}

// Deps groups the collaborators of the buy handler. Enqueuer is optional;
// without it no notification is sent.
type Deps struct {
	Flights  FlightsRepository
	Tickets  TicketsRepository
	Storage  Storage
	Verifier CaptchaVerifier
	Enqueuer Enqueuer
	Queue    string
	Log      logrus.FieldLogger
	Now      func() time.Time
	NewID    func() string
}

func Adapter(d Deps) Handler {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if resp, ok := internal.Preflight(req); ok {
			return resp, nil
		}
		log := d.Log.WithFields(internal.RequestFields(req))

		request := contract.BuyRequest{}
		err := json.Unmarshal([]byte(req.Body), &request)
		if err != nil {
			return internal.Error(http.StatusBadRequest, err), nil
		}

		// Validations
		result, err := contract.Validate(contract.BuyRequestSchema, []byte(req.Body))
		if err != nil {
			return internal.Error(http.StatusBadRequest, err), nil
		}
		if !result.Valid() || internal.Blank(request.FlightID) || internal.Blank(request.PassengerName) ||
			internal.Blank(request.Email) || internal.Blank(request.CaptchaToken) {
			return internal.SchemaErrors(http.StatusBadRequest, ErrMissingFields, result.Errors()), nil
		}

		// Captcha
		err = d.Verifier.Verify(ctx, request.CaptchaToken)
		if err == verifier.ErrCaptchaFailed {
			log.WithField("flight_id", request.FlightID).Warn("captcha rejected")
			return internal.Error(http.StatusForbidden, err), nil
		}
		if err != nil {
			log.WithError(err).Error("captcha verification unavailable")
			return internal.Error(http.StatusInternalServerError, err), nil
		}

		// Find the flight
		flight, err := d.Flights.Find(request.FlightID)
		if err == repository.ErrFlightNotFound {
			return internal.Error(http.StatusNotFound, err), nil
		}
		if err != nil {
			log.WithError(err).Error("find flight")
			return internal.Error(http.StatusInternalServerError, err), nil
		}

		// Issue the ticket document
		ticket := model.Ticket{
			ID:            d.NewID(),
			FlightID:      flight.ID,
			PassengerName: request.PassengerName,
			Email:         request.Email,
			CreatedAt:     d.Now(),
		}
		document := model.Document(ticket, model.Itinerary{
			Number:    flight.Number,
			Departure: flight.Departure,
			Arrival:   flight.Arrival,
			Price:     flight.Price,
		})
		ticket.TicketURL, err = d.Storage.Put(model.DocumentKey(ticket.ID), document, "text/plain; charset=utf-8")
		if err != nil {
			log.WithError(err).Error("upload ticket")
			return internal.Error(http.StatusInternalServerError, err), nil
		}

		_, err = d.Tickets.Save(ticket)
		if err != nil {
			log.WithError(err).Error("save ticket")
			return internal.Error(http.StatusInternalServerError, err), nil
		}
		log = log.WithFields(logrus.Fields{"ticket_id": ticket.ID, "flight_id": flight.ID})

		// Notify, the ticket stays valid if the queue is unavailable
		if d.Enqueuer != nil {
			err = d.Enqueuer.SendMsg(model.QueueMsgTicketIssued{
				TicketID:      ticket.ID,
				FlightNumber:  flight.Number,
				Departure:     flight.Departure,
				Arrival:       flight.Arrival,
				PassengerName: ticket.PassengerName,
				Email:         ticket.Email,
				TicketURL:     ticket.TicketURL,
			}, d.Queue)
			if err != nil {
				log.WithError(err).Warn("enqueue ticket notification")
			}
		}

		log.Info("ticket issued")
		return internal.JSON(http.StatusOK, contract.BuyResponse{
			TicketID:  ticket.ID,
			TicketURL: ticket.TicketURL,
		}), nil
	}
}

func main() {
	flightsTable := internal.MustEnv("DYNAMODB_FLIGHTS")
	ticketsTable := internal.MustEnv("DYNAMODB_TICKETS")
	endpointURL := internal.MustEnv("S3_ENDPOINT_URL")
	bucket := internal.EnvOr("BUCKET_NAME", "tickets-bucket")
	log := internal.NewLogger()

	session := session.New()
	dynamodbClient := dynamodb.New(session)
	s3Client := s3.New(session, &aws.Config{
		Endpoint:         aws.String(endpointURL),
		S3ForcePathStyle: aws.Bool(true),
	})

	var captcha CaptchaVerifier = verifier.Disabled{}
	if secret := os.Getenv("SMARTCAPTCHA_SECRET"); !internal.Blank(secret) {
		captcha = verifier.NewSmartCaptcha(
			internal.EnvOr("SMARTCAPTCHA_VERIFY_URL", verifier.DefaultVerifyURL),
			secret,
		)
	} else {
		log.Warn("SMARTCAPTCHA_SECRET is empty, captcha verification is disabled")
	}

	deps := Deps{
		Flights:  repository.NewFlightsRepository(dynamodbClient, flightsTable),
		Tickets:  repository.NewTicketsRepository(dynamodbClient, ticketsTable),
		Storage:  internal.NewUploader(s3Client, bucket, endpointURL),
		Verifier: captcha,
		Log:      log,
		Now:      time.Now,
		NewID:    uuid.NewString,
	}
	if queue := os.Getenv("TICKETS_QUEUE"); !internal.Blank(queue) {
		deps.Enqueuer = internal.NewEnqueuer(sqs.New(session))
		deps.Queue = queue
	}

	lambda.Start(Adapter(deps))
}
