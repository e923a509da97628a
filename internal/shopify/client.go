// Package shopify reads and writes customer equipment profiles through the
// commerce platform's GraphQL Admin API.
package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"support-desk-api/internal/repositories"

	graphql "github.com/hasura/go-graphql-client"
	"github.com/sirupsen/logrus"
)

// DefaultAPIVersion is used when no API version is configured
const DefaultAPIVersion = "2024-10"

// Client is a GraphQL Admin API client authenticated with an admin access token
type Client struct {
	endpoint string
	token    string
	gql      *graphql.Client
	logger   *logrus.Logger
}

// NewClient creates a new GraphQL Admin API client for a store domain such as "acme.myshopify.com"
func NewClient(storeDomain, token, apiVersion string, timeout time.Duration, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	c := &Client{
		token:  token,
		logger: logger,
	}
	if domain := strings.TrimRight(storeDomain, "/"); domain != "" {
		if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
			domain = "https://" + domain
		}
		c.endpoint = fmt.Sprintf("%s/admin/api/%s/graphql.json", domain, apiVersion)
	}

	c.gql = graphql.NewClient(c.endpoint, &http.Client{Timeout: timeout}).
		WithRequestModifier(func(req *http.Request) {
			req.Header.Set("Accept", "application/json")
			req.Header.Set("X-Shopify-Access-Token", c.token)
		})
	return c
}

// UserError is a mutation-level error returned in a payload's userErrors list
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
	Code    string   `json:"code"`
}

func (c *Client) checkConfigured() error {
	if c.endpoint == "" {
		return repositories.ConfigurationError("commerce API", "SHOPIFY_STORE_DOMAIN")
	}
	if c.token == "" {
		return repositories.ConfigurationError("commerce API", "SHOPIFY_ADMIN_TOKEN")
	}
	return nil
}

// Do runs a query or mutation and decodes its data object into result
func (c *Client) Do(ctx context.Context, operation, query string, variables map[string]any, result any) error {
	if err := c.checkConfigured(); err != nil {
		return err
	}

	start := time.Now()
	data, err := c.gql.ExecRaw(ctx, query, variables, graphql.OperationName(operation))
	fields := logrus.Fields{
		"operation": operation,
		"duration":  time.Since(start),
	}
	if err != nil {
		msg := graphQLMessage(err)
		c.logger.WithFields(fields).WithField("error", msg).Error("Commerce API query failed")
		return repositories.UpstreamError(operation, "commerce API", errors.New(msg))
	}

	c.logger.WithFields(fields).Debug("Commerce API request completed")

	if result != nil {
		if len(data) == 0 || string(data) == "null" {
			return repositories.UpstreamError(operation, "commerce API", fmt.Errorf("response has no data"))
		}
		if err := json.Unmarshal(data, result); err != nil {
			return repositories.UpstreamError(operation, "commerce API", fmt.Errorf("decode data: %w", err))
		}
	}
	return nil
}

// graphQLMessage flattens the errors list of a GraphQL response
func graphQLMessage(err error) string {
	var gqlErrs graphql.Errors
	if !errors.As(err, &gqlErrs) || len(gqlErrs) == 0 {
		return err.Error()
	}
	messages := make([]string, 0, len(gqlErrs))
	for _, e := range gqlErrs {
		messages = append(messages, e.Message)
	}
	return strings.Join(messages, "; ")
}

func joinUserErrors(errs []UserError) string {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		if len(e.Field) > 0 {
			messages = append(messages, fmt.Sprintf("%s: %s", strings.Join(e.Field, "."), e.Message))
		} else {
			messages = append(messages, e.Message)
		}
	}
	return strings.Join(messages, "; ")
}
