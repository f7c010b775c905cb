package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/aaravmahajanofficial/stock-manager/internal/metrics"
	"github.com/aaravmahajanofficial/stock-manager/pkg/sendgrid"
	"github.com/google/uuid"
)

// LowStockAlert reports a product whose stock fell to or below the threshold.
type LowStockAlert struct {
	ProductID uuid.UUID
	Name      string
	InStock   int64
	Threshold int64
}

type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, alerts []LowStockAlert) error
}

type emailLowStockNotifier struct {
	email     sendgrid.EmailService
	recipient string
}

func NewEmailLowStockNotifier(email sendgrid.EmailService, recipient string) LowStockNotifier {
	return &emailLowStockNotifier{email: email, recipient: recipient}
}

func (n *emailLowStockNotifier) NotifyLowStock(ctx context.Context, alerts []LowStockAlert) error {
	if len(alerts) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Low stock: %s", alerts[0].Name)
	if len(alerts) > 1 {
		subject = fmt.Sprintf("Low stock: %d products", len(alerts))
	}

	var text, markup strings.Builder

	markup.WriteString("<ul>")

	for _, alert := range alerts {
		fmt.Fprintf(&text, "%s (%s) has %d units left (threshold %d)\n", alert.Name, alert.ProductID, alert.InStock, alert.Threshold)
		fmt.Fprintf(&markup, "<li><strong>%s</strong> has %d units left</li>", html.EscapeString(alert.Name), alert.InStock)
	}

	markup.WriteString("</ul>")

	err := n.email.Send(ctx, &sendgrid.Email{
		To:          n.recipient,
		Subject:     subject,
		Content:     text.String(),
		HTMLContent: markup.String(),
	})
	if err != nil {
		metrics.RecordLowStockAlert(metrics.OutcomeFailure)
		return fmt.Errorf("sending low stock alert: %w", err)
	}

	metrics.RecordLowStockAlert(metrics.OutcomeSuccess)

	return nil
}

type noopLowStockNotifier struct{}

// NewNoopLowStockNotifier drops every alert. Used when no mail provider is configured.
func NewNoopLowStockNotifier() LowStockNotifier {
	return noopLowStockNotifier{}
}

func (noopLowStockNotifier) NotifyLowStock(context.Context, []LowStockAlert) error {
	return nil
}
