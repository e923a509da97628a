package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testRouter() *Router {
	router := NewRouter(quietLogger())
	router.Register(Endpoint{
		Name: "ticket-get",
		Methods: map[string]HandlerFunc{
			"get": func(ctx context.Context, req *Request) (*Response, error) {
				return JSON(http.StatusOK, map[string]string{"ticketId": req.Query("ticketId")})
			},
		},
	})
	router.Register(Endpoint{
		Name: "broken",
		Methods: map[string]HandlerFunc{
			http.MethodGet: func(ctx context.Context, req *Request) (*Response, error) {
				return nil, errors.New("boom")
			},
			http.MethodPost: func(ctx context.Context, req *Request) (*Response, error) {
				panic("nil map")
			},
		},
	})
	return router
}

func assertDefaultHeaders(t *testing.T, resp *Response) {
	t.Helper()
	for key, value := range DefaultHeaders {
		assert.Equal(t, value, resp.Headers[key], key)
	}
}

func TestRouter_RoutesByLastPathSegment(t *testing.T) {
	router := testRouter()

	for _, path := range []string{"/api/ticket-get", "/.netlify/functions/ticket-get", "ticket-get/"} {
		resp := router.Serve(context.Background(), &Request{
			Method:      "GET",
			Path:        path,
			QueryParams: map[string]string{"ticketId": " tkt_1 "},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.JSONEq(t, `{"ticketId":"tkt_1"}`, string(resp.Body))
		assertDefaultHeaders(t, resp)
	}
}

func TestRouter_PathParamWins(t *testing.T) {
	resp := testRouter().Serve(context.Background(), &Request{
		Method:     "GET",
		Path:       "/api/whatever",
		PathParams: map[string]string{"function": "ticket-get"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_PreflightAndMethodRules(t *testing.T) {
	router := testRouter()

	resp := router.Serve(context.Background(), &Request{Method: "OPTIONS", Path: "/api/ticket-get"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assertDefaultHeaders(t, resp)

	resp = router.Serve(context.Background(), &Request{Method: "DELETE", Path: "/api/ticket-get"})
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assertDefaultHeaders(t, resp)

	resp = router.Serve(context.Background(), &Request{Method: "GET", Path: "/api/ticket-delete"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assertDefaultHeaders(t, resp)
}

func TestRouter_HandlerFailuresBecome500(t *testing.T) {
	router := testRouter()

	for _, method := range []string{"GET", "POST"} {
		resp := router.Serve(context.Background(), &Request{Method: method, Path: "/broken"})
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode, method)

		var body map[string]string
		require.NoError(t, json.Unmarshal(resp.Body, &body))
		assert.Equal(t, "Internal Server Error", body["error"])
		assert.NotContains(t, body["message"], "boom")
	}
}

func TestRouter_Endpoints(t *testing.T) {
	assert.Equal(t, []string{"broken", "ticket-get"}, testRouter().Endpoints())
}

func TestRouter_Subset(t *testing.T) {
	sub := testRouter().Subset("ticket-get", "missing")
	assert.Equal(t, []string{"ticket-get"}, sub.Endpoints())

	resp := sub.Serve(context.Background(), &Request{Method: http.MethodGet, Path: "/api/broken"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPIGatewayConversion(t *testing.T) {
	req := FromAPIGateway(events.APIGatewayProxyRequest{
		HTTPMethod:      "POST",
		Path:            "/api/ticket-create",
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"a":1}`)),
		IsBase64Encoded: true,
		Headers:         map[string]string{"content-type": "application/json"},
	})
	assert.Equal(t, `{"a":1}`, string(req.Body))
	assert.NotNil(t, req.QueryParams)
	assert.Equal(t, "application/json", req.Header("Content-Type"))

	out := (&Response{StatusCode: 201, Headers: map[string]string{"X": "1"}, Body: []byte("{}")}).ToAPIGateway()
	assert.Equal(t, 201, out.StatusCode)
	assert.Equal(t, "{}", out.Body)
}

type countingFlusher struct {
	waits int
}

func (f *countingFlusher) Wait(ctx context.Context) error {
	f.waits++
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("wait must be bounded")
	}
	return nil
}

func TestAPIGatewayHandler_BuildsOnceAndFlushes(t *testing.T) {
	builds := 0
	flusher := &countingFlusher{}
	cm := NewConnectionManager(func() (*Runtime, error) {
		builds++
		return &Runtime{Router: testRouter(), Flusher: flusher}, nil
	}, quietLogger())

	handler := APIGatewayHandler(cm, time.Second)
	for i := 0; i < 2; i++ {
		resp, err := handler(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: "GET", Path: "/api/ticket-get"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, 1, builds)
	assert.Equal(t, 2, flusher.waits)
}

func TestConnectionManager_CleanupAndIdleRebuild(t *testing.T) {
	builds, closes := 0, 0
	cm := NewConnectionManager(func() (*Runtime, error) {
		builds++
		return &Runtime{Router: testRouter(), Close: func() error { closes++; return nil }}, nil
	}, quietLogger())

	clock := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	cm.now = func() time.Time { return clock }

	_, err := cm.Runtime()
	require.NoError(t, err)
	clock = clock.Add(time.Minute)
	_, err = cm.Runtime()
	require.NoError(t, err)
	assert.Equal(t, 1, builds)

	clock = clock.Add(DefaultMaxIdle)
	_, err = cm.Runtime()
	require.NoError(t, err)
	assert.Equal(t, 2, builds)
	assert.Equal(t, 1, closes)

	require.NoError(t, cm.Cleanup())
	require.NoError(t, cm.Cleanup())
	assert.Equal(t, 2, closes)
}

func TestAPIGatewayHandler_BuildFailureIsRetried(t *testing.T) {
	attempts := 0
	cm := NewConnectionManager(func() (*Runtime, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("no credentials")
		}
		return &Runtime{Router: testRouter()}, nil
	}, quietLogger())
	handler := APIGatewayHandler(cm, time.Second)

	resp, err := handler(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: "GET", Path: "/ticket-get"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])

	resp, err = handler(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: "GET", Path: "/ticket-get"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
