package payment

import (
	"context"
	"fmt"
	"sort"

	"storefront-service/internal/models"

	"github.com/shopspring/decimal"
)

// CheckoutSession is a fully resolved purchase handed to a provider. Prices
// are decimals in the catalog base currency's major unit; each provider owns
// the conversion to its wire unit.
type CheckoutSession struct {
	Reference        string
	Currency         string
	Items            []models.LineItem
	SuccessURL       string
	CancelURL        string
	AllowedCountries []string
}

// Total sums the line item totals
func (s *CheckoutSession) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Total())
	}
	return total
}

// Provider creates hosted checkout sessions with an external payment provider
type Provider interface {
	// Tag is the provider identifier carried in checkout requests
	Tag() string
	// CreateSession requests a hosted session and returns its redirect URL
	CreateSession(ctx context.Context, session *CheckoutSession) (string, error)
}

// Registry holds the providers enabled for this deployment. Provider support
// is a configuration-time capability, not a per-variant code path.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider under its tag
func (r *Registry) Register(p Provider) {
	r.providers[p.Tag()] = p
}

// Get returns the provider registered under tag
func (r *Registry) Get(tag string) (Provider, error) {
	p, ok := r.providers[tag]
	if !ok {
		return nil, fmt.Errorf("no payment provider registered for tag %q", tag)
	}
	return p, nil
}

// Tags lists the registered provider tags, sorted
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.providers))
	for tag := range r.providers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
