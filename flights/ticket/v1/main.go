package main

import (
	"context"
	"errors"
	"net/http"

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

type TicketsRepository interface {
	Find(id string) (model.Ticket, error)
}

func Adapter(ticketsRepo TicketsRepository, log logrus.FieldLogger) Handler {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if resp, ok := internal.Preflight(req); ok {
			return resp, nil
		}

		ticketID := req.PathParameters["id"]
		if internal.Blank(ticketID) {
			return internal.Error(http.StatusBadRequest, errors.New("missing ticket id")), nil
		}

		ticket, err := ticketsRepo.Find(ticketID)
		if err == repository.ErrTicketNotFound {
			return internal.Error(http.StatusNotFound, err), nil
		}
		if err != nil {
			log.WithFields(internal.RequestFields(req)).WithError(err).Error("find ticket")
			return internal.Error(http.StatusInternalServerError, err), nil
		}

		return internal.JSON(http.StatusOK, contract.TicketResponse{TicketURL: ticket.TicketURL}), nil
	}
}

func main() {
	ticketsTable := internal.MustEnv("DYNAMODB_TICKETS")
	session := session.New()
	dynamodbClient := dynamodb.New(session)
	ticketsRepo := repository.NewTicketsRepository(dynamodbClient, ticketsTable)
	lambda.Start(Adapter(ticketsRepo, internal.NewLogger()))
}
