package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"support-desk-api/internal/models"
	"support-desk-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// Default metafield location of the equipment profile
const (
	DefaultMetafieldNamespace = "custom"
	DefaultMetafieldKey       = "equipment"
)

const customerEquipmentQuery = `query CustomerEquipment($id: ID!, $namespace: String!, $key: String!) {
  customer(id: $id) {
    id
    metafield(namespace: $namespace, key: $key) {
      value
    }
  }
}`

const equipmentCustomersQuery = `query EquipmentCustomers($first: Int!, $after: String, $namespace: String!, $key: String!) {
  customers(first: $first, after: $after) {
    nodes {
      id
      email
      firstName
      lastName
      metafield(namespace: $namespace, key: $key) {
        value
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`

const saveEquipmentMutation = `mutation SaveEquipment($metafields: [MetafieldsSetInput!]!) {
  metafieldsSet(metafields: $metafields) {
    metafields {
      id
    }
    userErrors {
      field
      message
      code
    }
  }
}`

type metafieldNode struct {
	Value string `json:"value"`
}

type customerNode struct {
	ID        string         `json:"id"`
	Email     *string        `json:"email"`
	FirstName *string        `json:"firstName"`
	LastName  *string        `json:"lastName"`
	Metafield *metafieldNode `json:"metafield"`
}

// EquipmentRepository implements repositories.EquipmentRepository over a customer metafield
type EquipmentRepository struct {
	client    *Client
	namespace string
	key       string
	logger    *logrus.Logger
}

// NewEquipmentRepository creates a metafield-backed equipment repository
func NewEquipmentRepository(client *Client, namespace, key string, logger *logrus.Logger) *EquipmentRepository {
	if namespace == "" {
		namespace = DefaultMetafieldNamespace
	}
	if key == "" {
		key = DefaultMetafieldKey
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &EquipmentRepository{client: client, namespace: namespace, key: key, logger: logger}
}

// ListCustomers returns the customers on one page of the customer connection that have saved equipment
func (r *EquipmentRepository) ListCustomers(ctx context.Context, cursor string, limit int) ([]models.EquipmentCustomer, models.PageInfo, error) {
	variables := map[string]any{
		"first":     limit,
		"namespace": r.namespace,
		"key":       r.key,
	}
	if cursor != "" {
		variables["after"] = cursor
	}

	var data struct {
		Customers *struct {
			Nodes    []customerNode `json:"nodes"`
			PageInfo struct {
				HasNextPage bool    `json:"hasNextPage"`
				EndCursor   *string `json:"endCursor"`
			} `json:"pageInfo"`
		} `json:"customers"`
	}
	if err := r.client.Do(ctx, "EquipmentCustomers", equipmentCustomersQuery, variables, &data); err != nil {
		return nil, models.PageInfo{}, err
	}
	if data.Customers == nil {
		return nil, models.PageInfo{}, repositories.UpstreamError("EquipmentCustomers", "commerce API", fmt.Errorf("customers connection missing"))
	}

	customers := []models.EquipmentCustomer{}
	for _, node := range data.Customers.Nodes {
		if node.Metafield == nil {
			continue
		}
		profile, err := ParseProfile(node.Metafield.Value)
		if err != nil {
			r.logger.WithFields(logrus.Fields{
				"customer_id": node.ID,
				"error":       err.Error(),
			}).Warn("Skipping customer with unreadable equipment profile")
			continue
		}
		if len(profile.Machines) == 0 {
			continue
		}
		customers = append(customers, models.EquipmentCustomer{
			ID:           CustomerNumericID(node.ID),
			Email:        derefString(node.Email),
			FirstName:    derefString(node.FirstName),
			LastName:     derefString(node.LastName),
			MachineCount: len(profile.Machines),
		})
	}

	pageInfo := models.PageInfo{HasNextPage: data.Customers.PageInfo.HasNextPage}
	if data.Customers.PageInfo.EndCursor != nil {
		pageInfo.EndCursor = *data.Customers.PageInfo.EndCursor
	}
	return customers, pageInfo, nil
}

// GetProfile returns a customer's profile, or an empty one when the metafield is unset
func (r *EquipmentRepository) GetProfile(ctx context.Context, customerID string) (*models.EquipmentProfile, error) {
	gid, err := CustomerGID(customerID)
	if err != nil {
		return nil, err
	}

	var data struct {
		Customer *customerNode `json:"customer"`
	}
	variables := map[string]any{"id": gid, "namespace": r.namespace, "key": r.key}
	if err := r.client.Do(ctx, "CustomerEquipment", customerEquipmentQuery, variables, &data); err != nil {
		return nil, err
	}
	if data.Customer == nil {
		return nil, repositories.NotFoundError("customer", customerID)
	}
	if data.Customer.Metafield == nil {
		return models.NewEquipmentProfile(), nil
	}

	profile, err := ParseProfile(data.Customer.Metafield.Value)
	if err != nil {
		return nil, repositories.UpstreamError("CustomerEquipment", "equipment profile", err)
	}
	return profile, nil
}

// SaveProfile writes the whole profile as one JSON metafield value
func (r *EquipmentRepository) SaveProfile(ctx context.Context, customerID string, profile *models.EquipmentProfile) error {
	gid, err := CustomerGID(customerID)
	if err != nil {
		return err
	}

	value, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode equipment profile: %w", err)
	}

	variables := map[string]any{
		"metafields": []map[string]any{{
			"ownerId":   gid,
			"namespace": r.namespace,
			"key":       r.key,
			"type":      "json",
			"value":     string(value),
		}},
	}

	var data struct {
		MetafieldsSet *struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"metafieldsSet"`
	}
	if err := r.client.Do(ctx, "SaveEquipment", saveEquipmentMutation, variables, &data); err != nil {
		return err
	}
	if data.MetafieldsSet == nil {
		return repositories.UpstreamError("SaveEquipment", "commerce API", fmt.Errorf("metafieldsSet payload missing"))
	}
	if len(data.MetafieldsSet.UserErrors) > 0 {
		return repositories.UpstreamError("SaveEquipment", "equipment profile", fmt.Errorf("%s", joinUserErrors(data.MetafieldsSet.UserErrors)))
	}

	r.logger.WithFields(logrus.Fields{
		"customer_id": gid,
		"machines":    len(profile.Machines),
	}).Info("Equipment profile saved")
	return nil
}

// ParseProfile decodes a stored metafield value. Both the document form
// {"machines": [...]} and a bare machine list are accepted.
func ParseProfile(value string) (*models.EquipmentProfile, error) {
	raw := bytes.TrimSpace([]byte(value))
	if len(raw) == 0 || string(raw) == "null" {
		return models.NewEquipmentProfile(), nil
	}

	profile := models.NewEquipmentProfile()
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &profile.Machines); err != nil {
			return nil, fmt.Errorf("decode equipment list: %w", err)
		}
		return profile, nil
	}

	if err := json.Unmarshal(raw, profile); err != nil {
		return nil, fmt.Errorf("decode equipment profile: %w", err)
	}
	if profile.Machines == nil {
		profile.Machines = []models.Machine{}
	}
	return profile, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
