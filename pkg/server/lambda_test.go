package server

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"support-desk-api/internal/handlers"
)

func TestNewLambdaHandler_ServesSubsetAndCleansUp(t *testing.T) {
	t.Setenv("DATA_STORE", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "lambda.db"))
	t.Setenv("RESEND_API_KEY", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("LOG_LEVEL", "error")

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	handler, cm := NewLambdaHandler(logger, handlers.FunctionTicketGet)

	resp, err := handler(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		Path:                  "/api/" + handlers.FunctionTicketGet,
		QueryStringParameters: map[string]string{"customerId": "42"},
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, body = %s", resp.StatusCode, resp.Body)
	}

	resp, err = handler(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/api/" + handlers.FunctionTicketCreate,
		Body:       `{}`,
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("functions outside the subset should 404, got %d", resp.StatusCode)
	}

	if err := cm.Cleanup(); err != nil {
		t.Errorf("Cleanup() error = %v", err)
	}
}
