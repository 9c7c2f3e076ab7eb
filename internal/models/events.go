package models

import "time"

// Event types
const (
	EventTypeCatalogReplaced        = "CATALOG_REPLACED"
	EventTypeCheckoutSessionCreated = "CHECKOUT_SESSION_CREATED"
	EventTypeAdminLogin             = "ADMIN_LOGIN"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// CatalogReplacedEvent published after the admin replaces the product list
type CatalogReplacedEvent struct {
	BaseEvent
	ProductCount int `json:"product_count"`
}

// CheckoutSessionCreatedEvent published after a provider session is created
type CheckoutSessionCreatedEvent struct {
	BaseEvent
	Reference string         `json:"reference"`
	Provider  string         `json:"provider"`
	Currency  string         `json:"currency"`
	Total     string         `json:"total"`
	Items     []LineItemData `json:"items"`
}

// AdminLoginEvent published on a successful admin login
type AdminLoginEvent struct {
	BaseEvent
	RemoteAddr string `json:"remote_addr,omitempty"`
}

// LineItemData is the event-side projection of a resolved line item
type LineItemData struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}
