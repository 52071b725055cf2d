// Package api is the HTTP client for the ticket API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/meetupaws/flight_ticket_booking/internal/contract"
)

// DefaultBaseURL is the API Gateway the client talks to unless told otherwise.
const DefaultBaseURL = "https://d5dk7mk1tt8shgpqk2ll.9bgyfspn.apigw.yandexcloud.net"

var (
	// ErrMalformedResponse means the API answered with something that is
	// not the JSON it promises.
	ErrMalformedResponse = errors.New("malformed_response")
	ErrTicketNotFound    = errors.New("ticket_not_found")
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// ListFlights fetches the flight catalog.
func (c *Client) ListFlights(ctx context.Context) ([]contract.FlightOffer, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/flights", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, pkgerrors.Errorf("list flights: status %d: %s", status, errorField(body))
	}

	result, err := contract.Validate(contract.FlightsSchema, body)
	if err != nil {
		return nil, pkgerrors.Wrap(ErrMalformedResponse, err.Error())
	}
	if !result.Valid() {
		c.log.WithField("errors", fmt.Sprint(result.Errors())).Warn("flight catalog does not match schema")
		return nil, ErrMalformedResponse
	}

	flights := []contract.FlightOffer{}
	if err := json.Unmarshal(body, &flights); err != nil {
		return nil, pkgerrors.Wrap(ErrMalformedResponse, err.Error())
	}
	return flights, nil
}

// Buy submits a purchase and returns the raw JSON body whatever the status
// code, because rejections carry their reason in the body. An error is
// returned only when the request fails in transit or the body is not JSON.
func (c *Client) Buy(ctx context.Context, req contract.BuyRequest) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "marshal buy request")
	}

	status, body, err := c.do(ctx, http.MethodPost, "/buy", payload)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		c.log.WithFields(logrus.Fields{"status": status, "body": string(body)}).Warn("buy answered with a non-JSON body")
		return nil, pkgerrors.Wrapf(ErrMalformedResponse, "buy: status %d", status)
	}
	return body, nil
}

// Ticket looks up the document URL of an issued ticket.
func (c *Client) Ticket(ctx context.Context, id string) (contract.TicketResponse, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/ticket/"+url.PathEscape(id), nil)
	if err != nil {
		return contract.TicketResponse{}, err
	}
	if status == http.StatusNotFound {
		return contract.TicketResponse{}, ErrTicketNotFound
	}
	if status != http.StatusOK {
		return contract.TicketResponse{}, pkgerrors.Errorf("ticket %s: status %d: %s", id, status, errorField(body))
	}

	ticket := contract.TicketResponse{}
	if err := json.Unmarshal(body, &ticket); err != nil {
		return contract.TicketResponse{}, pkgerrors.Wrap(ErrMalformedResponse, err.Error())
	}
	return ticket, nil
}

func (c *Client) do(ctx context.Context, method string, path string, payload []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, pkgerrors.Wrapf(err, "%s %s", method, path)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, pkgerrors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, pkgerrors.Wrapf(err, "read %s %s", method, path)
	}
	c.log.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
	}).Debug("api call")
	return resp.StatusCode, body, nil
}

func errorField(body []byte) string {
	decoded := struct {
		Error string `json:"error"`
	}{}
	if err := json.Unmarshal(body, &decoded); err != nil || decoded.Error == "" {
		return strings.TrimSpace(string(body))
	}
	return decoded.Error
}

func NewClient(baseURL string, httpClient *http.Client, log logrus.FieldLogger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}
