package internal

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/xeipuuv/gojsonschema"
)

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type,Authorization",
	"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
}

func headers() map[string]string {
	h := map[string]string{
		"Content-Type": "application/json",
	}
	for k, v := range corsHeaders {
		h[k] = v
	}
	return h
}

func Respond(statusCode int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers(),
		Body:       body,
	}
}

func JSON(statusCode int, v interface{}) events.APIGatewayProxyResponse {
	responseBytes, err := json.Marshal(v)
	if err != nil {
		return Error(http.StatusInternalServerError, err)
	}
	return Respond(statusCode, string(responseBytes))
}

func Error(statusCode int, err error) events.APIGatewayProxyResponse {
	responseBytes, _ := json.Marshal(map[string]interface{}{
		"error": err.Error(),
	})

	return Respond(statusCode, string(responseBytes))
}

func SchemaErrors(statusCode int, err error, schemaErrors []gojsonschema.ResultError) events.APIGatewayProxyResponse {
	details := []string{}

	for _, schemaErr := range schemaErrors {
		details = append(details, fmt.Sprintf("%v", schemaErr))
	}

	body, _ := json.Marshal(map[string]interface{}{
		"error":   err.Error(),
		"details": details,
	})

	return Respond(statusCode, string(body))
}

// Preflight answers CORS preflight requests. ok is false for any other method.
func Preflight(req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, bool) {
	if req.HTTPMethod != http.MethodOptions {
		return events.APIGatewayProxyResponse{}, false
	}
	return Respond(http.StatusOK, ""), true
}
