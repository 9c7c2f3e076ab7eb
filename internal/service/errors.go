package service

import (
	"errors"
	"fmt"
)

// Business-rule reasons surfaced by the resolver
const (
	ReasonUnknownProduct         = "UnknownProduct"
	ReasonInvalidColorOverride   = "InvalidColorOverride"
	ReasonInvalidStorageOverride = "InvalidStorageOverride"
	ReasonIncompatibleOverride   = "IncompatibleOverride"
)

// ShapeError reports a request-schema violation: the failing field path and a
// machine-readable reason. Always a client fault (400).
type ShapeError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// BusinessRuleError reports a request that is well-formed but illegal against
// the catalog (unknown product, illegal variant selection). Client fault (400).
type BusinessRuleError struct {
	Reason    string `json:"reason"`
	ProductID string `json:"product_id"`
	Detail    string `json:"detail"`
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

// ProviderError wraps a failure of an external provider call. Surfaced to the
// client as a generic 500; the cause is for operator logs only.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s request failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Auth failures
var (
	ErrBadCredentials = errors.New("invalid credentials")
	ErrBadToken       = errors.New("missing or invalid bearer token")
)

// ErrUnknownCurrency is returned for display-conversion requests naming a
// currency code the rates source does not know
var ErrUnknownCurrency = errors.New("unknown currency code")

func shapeErr(field, reason string) *ShapeError {
	return &ShapeError{Field: field, Reason: reason}
}

func businessErr(reason, productID, detail string) *BusinessRuleError {
	return &BusinessRuleError{Reason: reason, ProductID: productID, Detail: detail}
}
