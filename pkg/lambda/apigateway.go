package lambda

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

// FromAPIGateway converts an API Gateway proxy event to a generic request
func FromAPIGateway(event events.APIGatewayProxyRequest) *Request {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		if decoded, err := base64.StdEncoding.DecodeString(event.Body); err == nil {
			body = decoded
		}
	}

	query := event.QueryStringParameters
	if query == nil {
		query = map[string]string{}
	}

	return &Request{
		Method:      event.HTTPMethod,
		Path:        event.Path,
		Headers:     event.Headers,
		QueryParams: query,
		Body:        body,
		PathParams:  event.PathParameters,
	}
}

// ToAPIGateway converts a generic response to an API Gateway proxy response
func (r *Response) ToAPIGateway() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: r.StatusCode,
		Headers:    r.Headers,
		Body:       string(r.Body),
	}
}

// Flusher waits for background work started during an invocation
type Flusher interface {
	Wait(ctx context.Context) error
}

// APIGatewayHandler adapts the connection manager's router to the aws-lambda-go
// handler signature. After every invocation it waits up to flushTimeout for
// queued notifications, since a frozen sandbox would drop them.
func APIGatewayHandler(cm *ConnectionManager, flushTimeout time.Duration) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		runtime, err := cm.Runtime()
		if err != nil {
			cm.logger.WithError(err).Error("Failed to initialize function")
			return decorate(Error(500, "service unavailable")).ToAPIGateway(), nil
		}

		resp := runtime.Router.Serve(ctx, FromAPIGateway(event))

		if runtime.Flusher != nil {
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
			if err := runtime.Flusher.Wait(flushCtx); err != nil {
				cm.logger.WithError(err).Warn("Pending notifications did not finish before timeout")
			}
			cancel()
		}

		return resp.ToAPIGateway(), nil
	}
}
