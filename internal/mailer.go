package internal

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	"github.com/pkg/errors"
)

const charset = "UTF-8"

type Mailer struct {
	client sesiface.SESAPI
}

// SendEmail sends a plain text message. cc may be nil.
func (m *Mailer) SendEmail(
	subject string,
	body string,
	from string,
	to []string,
	cc []string,
) error {
	input := &ses.SendEmailInput{
		Destination: &ses.Destination{
			ToAddresses: aws.StringSlice(to),
		},
		Message: &ses.Message{
			Body: &ses.Body{
				Text: &ses.Content{
					Charset: aws.String(charset),
					Data:    aws.String(body),
				},
			},
			Subject: &ses.Content{
				Charset: aws.String(charset),
				Data:    aws.String(subject),
			},
		},
		Source: aws.String(from),
	}
	if len(cc) > 0 {
		input.Destination.CcAddresses = aws.StringSlice(cc)
	}

	_, err := m.client.SendEmail(input)
	return errors.Wrap(err, "ses send email")
}

func NewMailer(client sesiface.SESAPI) *Mailer {
	return &Mailer{
		client: client,
	}
}
