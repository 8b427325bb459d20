package messaging

import (
	"context"

	"github.com/jhoicas/udeservering-api/internal/application/invoicing"
)

// RoutingKeyLineApproved routing key de las líneas que pasan a TilFakturering.
const RoutingKeyLineApproved = "fakturalinje.til_fakturering"

var _ invoicing.EventPublisher = (*LineEvents)(nil)

// LineEvents adapta un Publisher al puerto de eventos del flujo de facturación.
type LineEvents struct {
	pub Publisher
}

func NewLineEvents(pub Publisher) *LineEvents {
	return &LineEvents{pub: pub}
}

func (e *LineEvents) PublishLineApproved(ctx context.Context, ev invoicing.LineApproved) error {
	return e.pub.Publish(ctx, RoutingKeyLineApproved, ev)
}
