package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront-service/internal/redisclient"
	"storefront-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CurrencyClient looks up conversion rates from an external rates service and
// caches them in Redis. Display-only: converted prices never reach the
// checkout pipeline.
type CurrencyClient struct {
	ratesURL string
	base     string
	cacheTTL time.Duration
	http     *http.Client
	redis    *redisclient.Client
	logger   *zap.Logger
}

// NewCurrencyClient creates a currency client converting from base
func NewCurrencyClient(ratesURL, base string, timeout, cacheTTL time.Duration, redis *redisclient.Client) *CurrencyClient {
	return &CurrencyClient{
		ratesURL: ratesURL,
		base:     base,
		cacheTTL: cacheTTL,
		http:     &http.Client{Timeout: timeout},
		redis:    redis,
		logger:   util.GetLogger(),
	}
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// Rate returns the conversion rate from the base currency to code.
// ErrUnknownCurrency is returned for codes the rates source does not know.
func (c *CurrencyClient) Rate(ctx context.Context, code string) (decimal.Decimal, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return decimal.Zero, ErrUnknownCurrency
	}
	if code == c.base {
		return decimal.NewFromInt(1), nil
	}

	if c.redis != nil {
		cached, err := c.redis.GetRate(ctx, code)
		if err != nil {
			c.logger.Warn("Rate cache lookup failed", zap.Error(err))
		} else if cached != "" {
			rate, err := decimal.NewFromString(cached)
			if err == nil {
				return rate, nil
			}
		}
	}

	rate, err := c.fetchRate(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}

	if c.redis != nil {
		if err := c.redis.SetRate(ctx, code, rate.String(), c.cacheTTL); err != nil {
			c.logger.Warn("Rate cache store failed", zap.Error(err))
		}
	}

	return rate, nil
}

// Convert converts a base-currency amount to code, rounded to 2 dp
func (c *CurrencyClient) Convert(ctx context.Context, amount decimal.Decimal, code string) (decimal.Decimal, error) {
	rate, err := c.Rate(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate).Round(2), nil
}

func (c *CurrencyClient) fetchRate(ctx context.Context, code string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/%s", strings.TrimRight(c.ratesURL, "/"), c.base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, &ProviderError{Provider: "currency", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, &ProviderError{
			Provider: "currency",
			Err:      fmt.Errorf("rates service returned status %d", resp.StatusCode),
		}
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, &ProviderError{Provider: "currency", Err: err}
	}

	rate, ok := body.Rates[code]
	if !ok {
		return decimal.Zero, ErrUnknownCurrency
	}

	return decimal.NewFromFloat(rate), nil
}
