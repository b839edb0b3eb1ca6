package enrichment

import (
	"context"

	"campaign-enricher/internal/models"
)

// Producer is one enrichment lookup. Produce receives its own copy of the
// input and may perform I/O; it should honor ctx cancellation.
type Producer interface {
	Name() string
	Produce(ctx context.Context, input models.CampaignInput) (interface{}, error)
}

// ProducerFunc adapts a function to the Producer interface.
type ProducerFunc struct {
	name string
	fn   func(ctx context.Context, input models.CampaignInput) (interface{}, error)
}

func NewProducerFunc(name string, fn func(ctx context.Context, input models.CampaignInput) (interface{}, error)) ProducerFunc {
	return ProducerFunc{name: name, fn: fn}
}

func (p ProducerFunc) Name() string {
	return p.name
}

func (p ProducerFunc) Produce(ctx context.Context, input models.CampaignInput) (interface{}, error) {
	return p.fn(ctx, input)
}

// Producers groups the lookups by the slot they fill in the result.
// Nil producers fill their slot with the fallback.
type Producers struct {
	Demographics Producer
	Trends       []Producer
	Benchmarks   Producer
	Events       Producer
}
