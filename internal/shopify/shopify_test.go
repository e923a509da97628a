package shopify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"support-desk-api/internal/models"
	"support-desk-api/internal/repositories"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

func newTestRepository(t *testing.T, handler func(req capturedRequest) string) *EquipmentRepository {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2024-10/graphql.json", r.URL.Path)
		assert.Equal(t, "admin-token", r.Header.Get("X-Shopify-Access-Token"))

		var req capturedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(handler(req)))
	}))
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	client := NewClient(server.URL, "admin-token", "", time.Second, logger)
	return NewEquipmentRepository(client, "", "", logger)
}

func TestCustomerGID(t *testing.T) {
	gid, err := CustomerGID("7012345")
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Customer/7012345", gid)

	gid, err = CustomerGID("gid://shopify/Customer/7012345")
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Customer/7012345", gid)

	for _, bad := range []string{"", "abc", "gid://shopify/Order/1", "12a"} {
		_, err := CustomerGID(bad)
		assert.True(t, repositories.IsValidation(err), "expected validation error for %q", bad)
	}
}

func TestEquipmentRepository_GetProfile(t *testing.T) {
	repo := newTestRepository(t, func(req capturedRequest) string {
		assert.Contains(t, req.Query, "CustomerEquipment")
		assert.Equal(t, "CustomerEquipment", req.OperationName)
		assert.Equal(t, "gid://shopify/Customer/42", req.Variables["id"])
		assert.Equal(t, "custom", req.Variables["namespace"])
		assert.Equal(t, "equipment", req.Variables["key"])
		return `{"data":{"customer":{"id":"gid://shopify/Customer/42","metafield":{"value":"{\"machines\":[{\"id\":\"mch_1\",\"name\":\"Mower\",\"favorite\":true}],\"updatedAt\":\"2025-01-01T00:00:00Z\"}"}}}}`
	})

	profile, err := repo.GetProfile(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, profile.Machines, 1)
	assert.Equal(t, "Mower", profile.Machines[0].Name)
	assert.True(t, profile.Machines[0].Favorite)
}

func TestEquipmentRepository_GetProfileWithoutMetafield(t *testing.T) {
	repo := newTestRepository(t, func(req capturedRequest) string {
		return `{"data":{"customer":{"id":"gid://shopify/Customer/42","metafield":null}}}`
	})

	profile, err := repo.GetProfile(context.Background(), "gid://shopify/Customer/42")
	require.NoError(t, err)
	assert.NotNil(t, profile.Machines)
	assert.Empty(t, profile.Machines)
}

func TestEquipmentRepository_GetProfileUnknownCustomer(t *testing.T) {
	repo := newTestRepository(t, func(req capturedRequest) string {
		return `{"data":{"customer":null}}`
	})

	_, err := repo.GetProfile(context.Background(), "42")
	assert.True(t, repositories.IsNotFound(err))
}

func TestEquipmentRepository_GraphQLErrors(t *testing.T) {
	repo := newTestRepository(t, func(req capturedRequest) string {
		return `{"errors":[{"message":"Throttled"}]}`
	})

	_, err := repo.GetProfile(context.Background(), "42")
	require.Error(t, err)
	assert.True(t, repositories.IsUpstream(err))
	assert.Contains(t, err.Error(), "Throttled")
}

func TestEquipmentRepository_HTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	repo := NewEquipmentRepository(NewClient(server.URL, "admin-token", "", time.Second, nil), "", "", nil)
	_, err := repo.GetProfile(context.Background(), "42")
	require.Error(t, err)
	assert.True(t, repositories.IsUpstream(err))
}

func TestEquipmentRepository_ListCustomersSkipsEmptyProfiles(t *testing.T) {
	repo := newTestRepository(t, func(req capturedRequest) string {
		assert.Equal(t, float64(50), req.Variables["first"])
		assert.Equal(t, "cursor-1", req.Variables["after"])
		return `{"data":{"customers":{
			"nodes":[
				{"id":"gid://shopify/Customer/1","email":"a@example.com","firstName":"Ann","lastName":"Lee","metafield":{"value":"{\"machines\":[{\"id\":\"m1\"},{\"id\":\"m2\"}]}"}},
				{"id":"gid://shopify/Customer/2","email":"b@example.com","firstName":null,"lastName":null,"metafield":null},
				{"id":"gid://shopify/Customer/3","email":"c@example.com","firstName":"Cy","lastName":"Ng","metafield":{"value":"{\"machines\":[]}"}},
				{"id":"gid://shopify/Customer/4","email":"d@example.com","firstName":"Di","lastName":"Ox","metafield":{"value":"not json"}}
			],
			"pageInfo":{"hasNextPage":true,"endCursor":"cursor-2"}}}}`
	})

	customers, pageInfo, err := repo.ListCustomers(context.Background(), "cursor-1", 50)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, models.EquipmentCustomer{ID: "1", Email: "a@example.com", FirstName: "Ann", LastName: "Lee", MachineCount: 2}, customers[0])
	assert.True(t, pageInfo.HasNextPage)
	assert.Equal(t, "cursor-2", pageInfo.EndCursor)
}

func TestEquipmentRepository_SaveProfile(t *testing.T) {
	repo := newTestRepository(t, func(req capturedRequest) string {
		assert.Contains(t, req.Query, "metafieldsSet")
		metafields := req.Variables["metafields"].([]any)
		require.Len(t, metafields, 1)
		mf := metafields[0].(map[string]any)
		assert.Equal(t, "gid://shopify/Customer/42", mf["ownerId"])
		assert.Equal(t, "json", mf["type"])

		var stored models.EquipmentProfile
		require.NoError(t, json.Unmarshal([]byte(mf["value"].(string)), &stored))
		assert.Len(t, stored.Machines, 1)
		return `{"data":{"metafieldsSet":{"metafields":[{"id":"gid://shopify/Metafield/9"}],"userErrors":[]}}}`
	})

	profile := &models.EquipmentProfile{Machines: []models.Machine{{ID: "mch_1", Name: "Tractor"}}}
	require.NoError(t, repo.SaveProfile(context.Background(), "42", profile))
}

func TestEquipmentRepository_SaveProfileUserErrors(t *testing.T) {
	repo := newTestRepository(t, func(req capturedRequest) string {
		return `{"data":{"metafieldsSet":{"metafields":[],"userErrors":[{"field":["metafields","0","value"],"message":"is too long","code":"INVALID_VALUE"}]}}}`
	})

	err := repo.SaveProfile(context.Background(), "42", models.NewEquipmentProfile())
	require.Error(t, err)
	assert.True(t, repositories.IsUpstream(err))
	assert.Contains(t, err.Error(), "is too long")
}

func TestClient_MissingConfiguration(t *testing.T) {
	repo := NewEquipmentRepository(NewClient("", "", "", time.Second, nil), "", "", nil)
	_, err := repo.GetProfile(context.Background(), "42")
	assert.True(t, repositories.IsConfiguration(err))
}

func TestParseProfile(t *testing.T) {
	profile, err := ParseProfile("")
	require.NoError(t, err)
	assert.Empty(t, profile.Machines)

	profile, err = ParseProfile(`[{"id":"a"},{"id":"b"}]`)
	require.NoError(t, err)
	assert.Len(t, profile.Machines, 2)

	profile, err = ParseProfile(`{"machines":null}`)
	require.NoError(t, err)
	assert.NotNil(t, profile.Machines)

	_, err = ParseProfile(`{broken`)
	assert.Error(t, err)
}
