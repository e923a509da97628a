package server

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"support-desk-api/internal/config"
	"support-desk-api/pkg/lambda"
)

// FlushTimeout bounds how long an invocation waits for queued notifications
const FlushTimeout = 8 * time.Second

// APIGatewayFunc is the handler signature aws-lambda-go invokes
type APIGatewayFunc func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// NewLambdaHandler builds an API Gateway handler serving the named functions.
// The container is built on the first invocation and reused while the
// sandbox stays warm. The returned manager owns the container.
func NewLambdaHandler(logger *logrus.Logger, functions ...string) (APIGatewayFunc, *lambda.ConnectionManager) {
	build := func() (*lambda.Runtime, error) {
		cfg, err := config.GetOptimizedConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		container, err := NewContainer(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize container: %w", err)
		}

		runtime := container.Runtime()
		if len(functions) > 0 {
			runtime.Router = runtime.Router.Subset(functions...)
		}
		return runtime, nil
	}

	cm := lambda.NewConnectionManager(build, logger)
	return lambda.APIGatewayHandler(cm, FlushTimeout), cm
}

// StartLambda runs the named functions until the sandbox shuts down, then
// drains notifications and closes the container.
func StartLambda(functions ...string) {
	logger := config.NewLogger(config.GetEnv("LOG_LEVEL", "info"), true)
	handler, cm := NewLambdaHandler(logger, functions...)

	awslambda.StartWithOptions(handler, awslambda.WithEnableSIGTERM(func() {
		if err := cm.Cleanup(); err != nil {
			logger.WithError(err).Warn("Failed to release function runtime")
		}
	}))
}
