package repository

import (
	"errors"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	pkgerrors "github.com/pkg/errors"

	"github.com/meetupaws/flight_ticket_booking/flights/internal/model"
)

var (
	ErrFlightNotFound = errors.New("flight_not_found")
)

type FlightsRepository struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func (r *FlightsRepository) Save(m model.Flight) (model.Flight, error) {
	_, err := r.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item: map[string]*dynamodb.AttributeValue{
			"id": {
				S: aws.String(m.ID),
			},
			"number": {
				S: aws.String(m.Number),
			},
			"departure": {
				S: aws.String(m.Departure),
			},
			"arrival": {
				S: aws.String(m.Arrival),
			},
			"price": {
				N: aws.String(strconv.FormatFloat(m.Price, 'f', -1, 64)),
			},
		},
	})
	if err != nil {
		return model.Flight{}, pkgerrors.Wrapf(err, "save flight %s", m.ID)
	}

	return m, nil
}

func (r *FlightsRepository) Find(id string) (model.Flight, error) {
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
		return model.Flight{}, pkgerrors.Wrapf(err, "find flight %s", id)
	}

	if len(out.Item) == 0 {
		return model.Flight{}, ErrFlightNotFound
	}

	flights, err := r.hydrate([]map[string]*dynamodb.AttributeValue{out.Item})
	if err != nil {
		return model.Flight{}, err
	}
	return flights[0], nil
}

// List returns every flight ordered by id.
func (r *FlightsRepository) List() ([]model.Flight, error) {
	items := []map[string]*dynamodb.AttributeValue{}
	err := r.client.ScanPages(&dynamodb.ScanInput{
		TableName: aws.String(r.table),
	}, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		items = append(items, page.Items...)
		return true
	})
	if err != nil {
		return []model.Flight{}, pkgerrors.Wrap(err, "scan flights")
	}

	flights, err := r.hydrate(items)
	if err != nil {
		return []model.Flight{}, err
	}
	sort.SliceStable(flights, func(i, j int) bool {
		return lessID(flights[i].ID, flights[j].ID)
	})
	return flights, nil
}

// lessID orders numeric ids numerically and everything else lexically,
// numeric ids first.
func lessID(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

func (r *FlightsRepository) hydrate(items []map[string]*dynamodb.AttributeValue) ([]model.Flight, error) {

	flights := make([]model.Flight, len(items))
	for i, item := range items {

		if v, ok := item["id"]; ok && v.S != nil {
			flights[i].ID = *v.S
		}
		if v, ok := item["number"]; ok && v.S != nil {
			flights[i].Number = *v.S
		}
		if v, ok := item["departure"]; ok && v.S != nil {
			flights[i].Departure = *v.S
		}
		if v, ok := item["arrival"]; ok && v.S != nil {
			flights[i].Arrival = *v.S
		}
		if v, ok := item["price"]; ok && v.N != nil {
			price, err := strconv.ParseFloat(*v.N, 64)
			if err != nil {
				return []model.Flight{}, pkgerrors.Wrapf(err, "flight %s price", flights[i].ID)
			}
			flights[i].Price = price
		}

	}
	return flights, nil

}

func NewFlightsRepository(client dynamodbiface.DynamoDBAPI, table string) *FlightsRepository {
	return &FlightsRepository{
		client: client,
		table:  table,
	}
}
