package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/meetupaws/flight_ticket_booking/flights/internal/model"
	"github.com/meetupaws/flight_ticket_booking/internal"
)

type Handler func(ctx context.Context, event events.SQSEvent) error

type Mailer interface {
	SendEmail(subject string, body string, from string, to []string, cc []string) error
}

const emailSubject = "Your flight ticket"

var emailTemplate = `Hello, %v!
Your ticket for flight %v (%v → %v) is ready: %v
`

func Adapter(mailer Mailer, senderEmail string, log logrus.FieldLogger) Handler {
	return func(ctx context.Context, event events.SQSEvent) error {
		for _, record := range event.Records {
			msgBody := model.QueueMsgTicketIssued{}
			err := json.Unmarshal([]byte(record.Body), &msgBody)
			if err != nil {
				// a malformed message never becomes valid, retrying it is pointless
				log.WithError(err).WithField("message_id", record.MessageId).Error("drop malformed message")
				continue
			}

			emailBody := fmt.Sprintf(
				emailTemplate,
				msgBody.PassengerName,
				msgBody.FlightNumber,
				msgBody.Departure,
				msgBody.Arrival,
				msgBody.TicketURL,
			)

			err = mailer.SendEmail(
				emailSubject,
				emailBody,
				senderEmail,
				[]string{msgBody.Email},
				nil,
			)
			if err != nil {
				return errors.Wrapf(err, "ticket %s", msgBody.TicketID)
			}
			log.WithField("ticket_id", msgBody.TicketID).Info("ticket e-mail sent")
		}
		return nil
	}
}

func main() {
	senderEmail := internal.MustEnv("SENDER_EMAIL")
	session := session.New()
	sesClient := ses.New(session)
	mailer := internal.NewMailer(sesClient)
	lambda.Start(Adapter(mailer, senderEmail, internal.NewLogger()))
}
