package internal

import (
	"encoding/json"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	"github.com/pkg/errors"
)

type Enqueuer struct {
	client sqsiface.SQSAPI
	// queue name -> url, resolved once per container
	urls map[string]*string
}

// SendMsg marshals msg as JSON and sends it to the named queue.
func (e *Enqueuer) SendMsg(msg interface{}, queue string) error {
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "marshal queue message")
	}

	queueURL, err := e.queueURL(queue)
	if err != nil {
		return err
	}

	_, err = e.client.SendMessage(&sqs.SendMessageInput{
		MessageBody: aws.String(string(msgBytes)),
		QueueUrl:    queueURL,
	})
	return errors.Wrapf(err, "send message to %s", queue)
}

func (e *Enqueuer) queueURL(queue string) (*string, error) {
	if url, ok := e.urls[queue]; ok {
		return url, nil
	}
	out, err := e.client.GetQueueUrl(&sqs.GetQueueUrlInput{
		QueueName: aws.String(queue),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "resolve queue %s", queue)
	}
	e.urls[queue] = out.QueueUrl
	return out.QueueUrl, nil
}

func NewEnqueuer(client sqsiface.SQSAPI) *Enqueuer {
	return &Enqueuer{
		client: client,
		urls:   map[string]*string{},
	}
}
