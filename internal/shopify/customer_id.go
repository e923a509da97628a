package shopify

import (
	"strings"

	"support-desk-api/internal/repositories"
)

const customerGIDPrefix = "gid://shopify/Customer/"

// CustomerGID normalizes a numeric or global customer id to its global form
func CustomerGID(id string) (string, error) {
	id = strings.TrimSpace(id)
	numeric := strings.TrimPrefix(id, customerGIDPrefix)
	if numeric == "" || !isDigits(numeric) {
		return "", repositories.ValidationMessage("customer", "invalid customerId %q", id)
	}
	return customerGIDPrefix + numeric, nil
}

// CustomerNumericID strips the global id prefix
func CustomerNumericID(gid string) string {
	return strings.TrimPrefix(gid, customerGIDPrefix)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
