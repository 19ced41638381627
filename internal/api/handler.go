package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
)

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}, nil
}

// ParseDays reads an optional "days" query parameter bounded to
// [1, max]; absent or malformed values fall back to def.
func ParseDays(params map[string]string, def, max int) int {
	str, ok := params["days"]
	if !ok {
		return def
	}

	days, err := strconv.Atoi(str)
	if err != nil || days < 1 {
		return def
	}
	if days > max {
		return max
	}
	return days
}
