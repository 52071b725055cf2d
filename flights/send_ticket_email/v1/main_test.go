package main

import (
	"context"
	"errors"
	"io/ioutil"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MailerMock struct {
	mock.Mock
}

func (m *MailerMock) SendEmail(subject string, body string, from string, to []string, cc []string) error {
	ret := m.Called(subject, body, from, to, cc)
	return ret.Error(0)
}

const issuedMsg = `{
	"ticket_id": "t-1",
	"flight_number": "SU 1402",
	"departure": "SVO",
	"arrival": "LED",
	"passenger_name": "Ann",
	"email": "a@b.com",
	"ticket_url": "https://x/1"
}`

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)
	return logger
}

func TestAdapter(t *testing.T) {
	tests := []struct {
		name    string
		event   events.SQSEvent
		mocker  func(m *MailerMock)
		wantErr bool
	}{
		{
			name:  "Send one e-mail per record",
			event: events.SQSEvent{Records: []events.SQSMessage{{Body: issuedMsg}}},
			mocker: func(m *MailerMock) {
				m.On(
					"SendEmail",
					"Your flight ticket",
					"Hello, Ann!\nYour ticket for flight SU 1402 (SVO → LED) is ready: https://x/1\n",
					"noreply@example.com",
					[]string{"a@b.com"},
					[]string(nil),
				).Return(nil).Once()
			},
		},
		{
			name:   "Drop malformed records",
			event:  events.SQSEvent{Records: []events.SQSMessage{{MessageId: "m-1", Body: "{"}}},
			mocker: func(m *MailerMock) {},
		},
		{
			name:  "Fail the batch when the mailer fails so the queue retries it",
			event: events.SQSEvent{Records: []events.SQSMessage{{Body: issuedMsg}}},
			mocker: func(m *MailerMock) {
				m.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(errors.New("throttled")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			mailer := &MailerMock{}
			tt.mocker(mailer)

			// Act
			err := Adapter(mailer, "noreply@example.com", discardLogger())(context.Background(), tt.event)

			// Assert
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			mailer.AssertExpectations(t)
		})
	}
}
