package main

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/sirupsen/logrus"

	"github.com/meetupaws/flight_ticket_booking/flights/internal/model"
	"github.com/meetupaws/flight_ticket_booking/flights/internal/repository"
	"github.com/meetupaws/flight_ticket_booking/internal"
	"github.com/meetupaws/flight_ticket_booking/internal/contract"
)

type Handler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

type FlightsRepository interface {
	List() ([]model.Flight, error)
}

func Adapter(flightsRepo FlightsRepository, log logrus.FieldLogger) Handler {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if resp, ok := internal.Preflight(req); ok {
			return resp, nil
		}
		log := log.WithFields(internal.RequestFields(req))

		flights, err := flightsRepo.List()
		if err != nil {
			log.WithError(err).Error("list flights")
			return internal.Error(http.StatusInternalServerError, err), nil
		}

		// Prepare response
		response := make([]contract.FlightOffer, len(flights))
		for i, f := range flights {
			response[i] = contract.FlightOffer{
				ID:        contract.FlightID(f.ID),
				Number:    f.Number,
				Departure: f.Departure,
				Arrival:   f.Arrival,
				Price:     f.Price,
			}
		}

		log.WithField("count", len(response)).Info("listed flights")
		return internal.JSON(http.StatusOK, response), nil
	}
}

func main() {
	flightsTable := os.Getenv("DYNAMODB_FLIGHTS")
	if internal.Blank(flightsTable) {
		panic("DYNAMODB_FLIGHTS is empty")
	}
	session := session.New()
	dynamodbClient := dynamodb.New(session)
	flightsRepo := repository.NewFlightsRepository(dynamodbClient, flightsTable)
	lambda.Start(Adapter(flightsRepo, internal.NewLogger()))
}
