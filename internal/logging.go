package internal

import (
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

// NewLogger builds the JSON logger used by every handler. LOG_LEVEL
// selects the level, defaulting to info.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(EnvOr("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func RequestFields(req events.APIGatewayProxyRequest) logrus.Fields {
	return logrus.Fields{
		"method":     req.HTTPMethod,
		"path":       req.Path,
		"request_id": req.RequestContext.RequestID,
	}
}
