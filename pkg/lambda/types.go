package lambda

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// Request represents a generic HTTP request for serverless functions
type Request struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	QueryParams map[string]string `json:"query_params"`
	Body        []byte            `json:"body"`
	PathParams  map[string]string `json:"path_params"`
}

// Response represents a generic HTTP response for serverless functions
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
}

// HandlerFunc is a framework-agnostic handler interface
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// DefaultHeaders decorate every response
var DefaultHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type, Authorization",
	"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
}

// Query returns a trimmed query parameter, or "" when absent
func (r *Request) Query(name string) string {
	if r.QueryParams == nil {
		return ""
	}
	return strings.TrimSpace(r.QueryParams[name])
}

// Header returns a header value, matching the name case-insensitively
func (r *Request) Header(name string) string {
	for key, value := range r.Headers {
		if strings.EqualFold(key, name) {
			return value
		}
	}
	return ""
}

// JSON builds a response with a JSON-encoded body
func JSON(status int, payload interface{}) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}, nil
}

// errorBody mirrors the handlers' error response shape
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Error builds a JSON error response
func Error(status int, message string) *Response {
	body, _ := json.Marshal(errorBody{Error: http.StatusText(status), Message: message})
	return &Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}

// decorate fills in every default header the handler did not set itself
func decorate(resp *Response) *Response {
	if resp.Headers == nil {
		resp.Headers = make(map[string]string, len(DefaultHeaders))
	}
	for key, value := range DefaultHeaders {
		if _, ok := resp.Headers[key]; !ok {
			resp.Headers[key] = value
		}
	}
	return resp
}
