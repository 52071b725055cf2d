package repository

import (
	"errors"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	pkgerrors "github.com/pkg/errors"

	"github.com/meetupaws/flight_ticket_booking/flights/internal/model"
)

var (
	ErrTicketNotFound = errors.New("ticket_not_found")
	ErrTicketExists   = errors.New("ticket_already_exists")
)

type TicketsRepository struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

// Save stores a new ticket. Ticket ids are never overwritten.
func (r *TicketsRepository) Save(m model.Ticket) (model.Ticket, error) {
	_, err := r.client.PutItem(&dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		ConditionExpression: aws.String("attribute_not_exists(id)"),
		Item: map[string]*dynamodb.AttributeValue{
			"id": {
				S: aws.String(m.ID),
			},
			"flight_id": {
				S: aws.String(m.FlightID),
			},
			"passenger_name": {
				S: aws.String(m.PassengerName),
			},
			"email": {
				S: aws.String(m.Email),
			},
			"ticket_url": {
				S: aws.String(m.TicketURL),
			},
			"created_at": {
				S: aws.String(m.CreatedAt.UTC().Format(time.RFC3339Nano)),
			},
		},
	})
	if isConditionFailure(err) {
		return model.Ticket{}, ErrTicketExists
	}
	if err != nil {
		return model.Ticket{}, pkgerrors.Wrapf(err, "save ticket %s", m.ID)
	}

	return m, nil
}

func (r *TicketsRepository) Find(id string) (model.Ticket, error) {
	out, err := r.client.GetItem(&dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		ConsistentRead: aws.Bool(true),
		Key: map[string]*dynamodb.AttributeValue{
			"id": {
				S: aws.String(id),
			},
		},
	})
	if err != nil {
		return model.Ticket{}, pkgerrors.Wrapf(err, "find ticket %s", id)
	}
	if len(out.Item) == 0 {
		return model.Ticket{}, ErrTicketNotFound
	}
	return r.hydrate(out.Item)
}

func (r *TicketsRepository) hydrate(item map[string]*dynamodb.AttributeValue) (model.Ticket, error) {
	ticket := model.Ticket{}
	str := func(name string) string {
		if v, ok := item[name]; ok && v.S != nil {
			return *v.S
		}
		return ""
	}
	ticket.ID = str("id")
	ticket.FlightID = str("flight_id")
	ticket.PassengerName = str("passenger_name")
	ticket.Email = str("email")
	ticket.TicketURL = str("ticket_url")
	if created := str("created_at"); created != "" {
		createdAt, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return model.Ticket{}, pkgerrors.Wrapf(err, "ticket %s created_at", ticket.ID)
		}
		ticket.CreatedAt = createdAt
	}
	return ticket, nil
}

func isConditionFailure(err error) bool {
	var awsErr interface{ Code() string }
	return errors.As(err, &awsErr) && awsErr.Code() == dynamodb.ErrCodeConditionalCheckFailedException
}

func NewTicketsRepository(client dynamodbiface.DynamoDBAPI, table string) *TicketsRepository {
	return &TicketsRepository{
		client: client,
		table:  table,
	}
}
