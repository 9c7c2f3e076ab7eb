package service

import "fmt"

// CheckoutRequest is the wire shape of POST /create-checkout-session
type CheckoutRequest struct {
	Type  string                `json:"type"`
	Items []CheckoutRequestItem `json:"items"`
}

// CheckoutRequestItem is one requested purchase
type CheckoutRequestItem struct {
	ID        string             `json:"id"`
	Quantity  int                `json:"quantity"`
	Overrides *SelectedOverrides `json:"overrides,omitempty"`
}

// SelectedOverrides is the client's variant selection for an item
type SelectedOverrides struct {
	Color string `json:"color"`
	Size  int    `json:"size"`
}

// CheckoutValidator checks the shape of a checkout request against a fixed
// contract before any field is trusted. Shape only: product existence and
// variant legality belong to the resolver, a separate failure domain.
type CheckoutValidator struct {
	providers       map[string]struct{}
	requireVariants bool
}

// NewCheckoutValidator builds a validator accepting the given provider tags.
// requireVariants marks a deployment whose catalog carries variant overrides,
// making the per-item overrides object mandatory.
func NewCheckoutValidator(providerTags []string, requireVariants bool) *CheckoutValidator {
	providers := make(map[string]struct{}, len(providerTags))
	for _, tag := range providerTags {
		providers[tag] = struct{}{}
	}
	return &CheckoutValidator{providers: providers, requireVariants: requireVariants}
}

// Validate returns the first shape violation found, or nil
func (v *CheckoutValidator) Validate(req *CheckoutRequest) *ShapeError {
	if req.Type == "" {
		return shapeErr("type", "required")
	}
	if _, ok := v.providers[req.Type]; !ok {
		return shapeErr("type", "unsupported provider")
	}
	if len(req.Items) == 0 {
		return shapeErr("items", "must contain at least one item")
	}
	for i, item := range req.Items {
		if item.ID == "" {
			return shapeErr(fmt.Sprintf("items[%d].id", i), "required")
		}
		if item.Quantity < 1 {
			return shapeErr(fmt.Sprintf("items[%d].quantity", i), "must be a positive integer")
		}
		if v.requireVariants {
			if item.Overrides == nil {
				return shapeErr(fmt.Sprintf("items[%d].overrides", i), "required")
			}
			if item.Overrides.Color == "" {
				return shapeErr(fmt.Sprintf("items[%d].overrides.color", i), "required")
			}
			if item.Overrides.Size <= 0 {
				return shapeErr(fmt.Sprintf("items[%d].overrides.size", i), "must be a positive integer")
			}
		}
	}
	return nil
}
