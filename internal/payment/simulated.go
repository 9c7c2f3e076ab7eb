package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// SimulatedProvider is an in-process provider for development and tests. It
// hands out fake redirect URLs and records the sessions it was asked to
// create.
type SimulatedProvider struct {
	mu       sync.Mutex
	tag      string
	sessions []CheckoutSession
	failWith error
}

// NewSimulatedProvider creates a simulated provider answering to tag
func NewSimulatedProvider(tag string) *SimulatedProvider {
	return &SimulatedProvider{tag: tag}
}

// Tag implements Provider
func (p *SimulatedProvider) Tag() string { return p.tag }

// CreateSession implements Provider
func (p *SimulatedProvider) CreateSession(ctx context.Context, session *CheckoutSession) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failWith != nil {
		return "", p.failWith
	}

	p.sessions = append(p.sessions, *session)
	return fmt.Sprintf("https://pay.example.com/session/%s", uuid.New().String()), nil
}

// FailWith makes every subsequent CreateSession call fail with err
func (p *SimulatedProvider) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failWith = err
}

// Sessions returns a copy of the sessions created so far
func (p *SimulatedProvider) Sessions() []CheckoutSession {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]CheckoutSession, len(p.sessions))
	copy(out, p.sessions)
	return out
}
