package graph

import (
	"github.com/goccy/go-json"
	"github.com/graphql-go/graphql"

	"eco-swift-backend/apperr"
)

// decodeInput converts a raw GraphQL argument value into a typed input
// struct. Inputs are checked at this boundary before any business logic
// runs.
func decodeInput(src interface{}, dst interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return apperr.Validation("Invalid input")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return apperr.Validation("Invalid input")
	}
	return nil
}

func stringArg(p graphql.ResolveParams, name string) string {
	if v, ok := p.Args[name].(string); ok {
		return v
	}
	return ""
}

func intArg(p graphql.ResolveParams, name string, fallback int64) int64 {
	if v, ok := p.Args[name].(int); ok {
		return int64(v)
	}
	return fallback
}

func boolArgPtr(p graphql.ResolveParams, name string) *bool {
	if v, ok := p.Args[name].(bool); ok {
		return &v
	}
	return nil
}

func intArgPtr(p graphql.ResolveParams, name string) *int {
	if v, ok := p.Args[name].(int); ok {
		return &v
	}
	return nil
}

func stringArgPtr(p graphql.ResolveParams, name string) *string {
	if v, ok := p.Args[name].(string); ok {
		return &v
	}
	return nil
}
