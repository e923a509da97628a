package lambda

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Endpoint is one named function and the handlers for the verbs it accepts
type Endpoint struct {
	Name    string
	Methods map[string]HandlerFunc
}

// Router dispatches requests to endpoints by function name
type Router struct {
	endpoints map[string]*Endpoint
	logger    *logrus.Logger
}

// NewRouter creates an empty router
func NewRouter(logger *logrus.Logger) *Router {
	if logger == nil {
		logger = logrus.New()
	}
	return &Router{
		endpoints: make(map[string]*Endpoint),
		logger:    logger,
	}
}

// Register adds an endpoint, replacing any endpoint with the same name
func (r *Router) Register(endpoint Endpoint) {
	methods := make(map[string]HandlerFunc, len(endpoint.Methods))
	for method, handler := range endpoint.Methods {
		methods[strings.ToUpper(method)] = handler
	}
	r.endpoints[endpoint.Name] = &Endpoint{Name: endpoint.Name, Methods: methods}
}

// Endpoints lists the registered endpoint names in order
func (r *Router) Endpoints() []string {
	names := make([]string, 0, len(r.endpoints))
	for name := range r.endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Subset returns a router serving only the named endpoints. Unknown names are ignored.
func (r *Router) Subset(names ...string) *Router {
	sub := &Router{endpoints: make(map[string]*Endpoint, len(names)), logger: r.logger}
	for _, name := range names {
		if endpoint, ok := r.endpoints[name]; ok {
			sub.endpoints[name] = endpoint
		}
	}
	return sub
}

// EndpointName extracts the function name from a request path. The last path
// segment wins, so /api/ticket-get and /.netlify/functions/ticket-get both
// resolve to ticket-get.
func EndpointName(path string) string {
	path = strings.Trim(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Serve routes a request and always returns a decorated response
func (r *Router) Serve(ctx context.Context, req *Request) *Response {
	name := req.PathParams["function"]
	if name == "" {
		name = EndpointName(req.Path)
	}

	endpoint, ok := r.endpoints[name]
	if !ok {
		return decorate(Error(http.StatusNotFound, fmt.Sprintf("unknown function %q", name)))
	}

	method := strings.ToUpper(req.Method)
	if method == http.MethodOptions {
		return decorate(&Response{StatusCode: http.StatusOK, Body: []byte{}})
	}

	handler, ok := endpoint.Methods[method]
	if !ok {
		return decorate(Error(http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed", method)))
	}

	resp, err := r.invoke(ctx, handler, req)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"function": name,
			"method":   method,
		}).WithError(err).Error("Handler failed")
		return decorate(Error(http.StatusInternalServerError, "internal server error"))
	}
	if resp == nil {
		resp = &Response{StatusCode: http.StatusNoContent}
	}
	return decorate(resp)
}

// invoke runs a handler, turning a panic into an error
func (r *Router) invoke(ctx context.Context, handler HandlerFunc, req *Request) (resp *Response, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			resp = nil
			err = fmt.Errorf("panic: %v", recovered)
		}
	}()
	return handler(ctx, req)
}
