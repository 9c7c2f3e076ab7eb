package service

import (
	"context"
	"time"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/payment"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogSource supplies catalog snapshots for resolution. Implemented by
// CatalogService.
type CatalogSource interface {
	Snapshot(ctx context.Context) (map[string]*models.Product, error)
}

// CheckoutService runs the checkout pipeline: shape validation, line-item
// resolution against a catalog snapshot, then a single provider call. No
// local state is mutated, so there is nothing to roll back on failure.
type CheckoutService struct {
	validator        *CheckoutValidator
	catalog          CatalogSource
	providers        *payment.Registry
	publisher        *broker.EventPublisher
	baseCurrency     string
	successURL       string
	cancelURL        string
	allowedCountries []string
	providerTimeout  time.Duration
	logger           *zap.Logger
}

// CheckoutOptions carries the deployment-level checkout configuration
type CheckoutOptions struct {
	RequireVariants  bool
	BaseCurrency     string
	SuccessURL       string
	CancelURL        string
	AllowedCountries []string
	ProviderTimeout  time.Duration
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	catalog CatalogSource,
	providers *payment.Registry,
	publisher *broker.EventPublisher,
	opts CheckoutOptions,
) *CheckoutService {
	return &CheckoutService{
		validator:        NewCheckoutValidator(providers.Tags(), opts.RequireVariants),
		catalog:          catalog,
		providers:        providers,
		publisher:        publisher,
		baseCurrency:     opts.BaseCurrency,
		successURL:       opts.SuccessURL,
		cancelURL:        opts.CancelURL,
		allowedCountries: opts.AllowedCountries,
		providerTimeout:  opts.ProviderTimeout,
		logger:           util.GetLogger(),
	}
}

// CheckoutResponse carries the provider's redirect URL
type CheckoutResponse struct {
	URL string `json:"url"`
}

// CreateSession validates the request, resolves line items, and asks the
// named provider for a hosted checkout session. Each call produces an
// independent session; repeating a request yields a second session with
// identical pricing.
func (s *CheckoutService) CreateSession(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.CreateSession")
	defer span.End()

	if serr := s.validator.Validate(req); serr != nil {
		util.CheckoutFailedTotal.WithLabelValues("shape").Inc()
		return nil, serr
	}

	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		util.CheckoutFailedTotal.WithLabelValues("catalog").Inc()
		return nil, err
	}

	lineItems, err := ResolveLineItems(req.Items, snapshot)
	if err != nil {
		util.CheckoutFailedTotal.WithLabelValues("business_rule").Inc()
		return nil, err
	}

	provider, err := s.providers.Get(req.Type)
	if err != nil {
		// the validator only admits registered tags
		util.CheckoutFailedTotal.WithLabelValues("provider_tag").Inc()
		return nil, shapeErr("type", "unsupported provider")
	}

	session := &payment.CheckoutSession{
		Reference:        uuid.New().String(),
		Currency:         s.baseCurrency,
		Items:            lineItems,
		SuccessURL:       s.successURL,
		CancelURL:        s.cancelURL,
		AllowedCountries: s.allowedCountries,
	}

	providerCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	start := time.Now()
	url, err := provider.CreateSession(providerCtx, session)
	util.ProviderRequestLatency.WithLabelValues(req.Type).Observe(time.Since(start).Seconds())

	if err != nil {
		util.CheckoutFailedTotal.WithLabelValues("provider").Inc()
		s.logger.Error("Provider session creation failed",
			zap.String("provider", req.Type),
			zap.String("reference", session.Reference),
			zap.Error(err))
		return nil, &ProviderError{Provider: req.Type, Err: err}
	}

	util.CheckoutSessionsCreatedTotal.WithLabelValues(req.Type).Inc()
	s.logger.Info("Checkout session created",
		zap.String("provider", req.Type),
		zap.String("reference", session.Reference),
		zap.Int("items", len(lineItems)))

	if s.publisher != nil {
		items := make([]models.LineItemData, len(lineItems))
		for i, li := range lineItems {
			items[i] = models.LineItemData{
				ProductID: li.ProductID,
				Quantity:  li.Quantity,
				UnitPrice: li.UnitPrice.String(),
			}
		}
		event := &models.CheckoutSessionCreatedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeCheckoutSessionCreated,
				Timestamp: time.Now(),
			},
			Reference: session.Reference,
			Provider:  req.Type,
			Currency:  session.Currency,
			Total:     session.Total().String(),
			Items:     items,
		}
		if err := s.publisher.PublishCheckoutSessionCreated(ctx, event); err != nil {
			s.logger.Error("Failed to publish CheckoutSessionCreated event", zap.Error(err))
		}
	}

	return &CheckoutResponse{URL: url}, nil
}
