// internal/adapters/out/mail/sendgrid_mailer.go
package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	orderdom "freshmart/internal/domain/order"
)

// SendGridMailer sends transactional mail through SendGrid. It satisfies the
// usecase Mailer port.
type SendGridMailer struct {
	apiKey   string
	from     string
	fromName string
	log      *zap.Logger
}

func NewSendGridMailer(apiKey, from, fromName string, log *zap.Logger) *SendGridMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &SendGridMailer{
		apiKey:   strings.TrimSpace(apiKey),
		from:     strings.TrimSpace(from),
		fromName: strings.TrimSpace(fromName),
		log:      log,
	}
}

// SendOrderConfirmation mails the customer a plain-text summary of the order.
func (m *SendGridMailer) SendOrderConfirmation(ctx context.Context, to string, o orderdom.Order) error {
	if m == nil || m.apiKey == "" {
		return fmt.Errorf("sendgrid_mailer: api key is empty")
	}
	if m.from == "" {
		return fmt.Errorf("sendgrid_mailer: from address is empty")
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return fmt.Errorf("sendgrid_mailer: to address is empty")
	}

	subject := fmt.Sprintf("Order confirmed: %s", o.Number)
	body := buildOrderBody(o)

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail(m.fromName, m.from),
		subject,
		sgmail.NewEmail("", to),
		body,
		fmt.Sprintf("<pre>%s</pre>", body),
	)

	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid_mailer: send error: %w", err)
	}
	if response.StatusCode >= 400 {
		m.log.Warn("sendgrid rejected mail",
			zap.Int("status", response.StatusCode),
			zap.String("body", response.Body))
		return fmt.Errorf("sendgrid_mailer: send failed: status=%d", response.StatusCode)
	}

	m.log.Info("order confirmation mail sent",
		zap.Int("status", response.StatusCode),
		zap.String("orderNumber", o.Number))
	return nil
}

func buildOrderBody(o orderdom.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order %s.\n\n", o.Number)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "  %s x%d @ %s = %s\n",
			it.ProductName, it.Quantity, it.UnitPrice.String(), it.LineTotal.String())
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n", o.Subtotal.String())
	fmt.Fprintf(&b, "Total:    %s\n", o.TotalAmount.String())
	fmt.Fprintf(&b, "\nShipping to: %s %s, %s %s, %s\n",
		o.ShippingAddress.FirstName, o.ShippingAddress.LastName,
		o.ShippingAddress.AddressLine1, o.ShippingAddress.City,
		o.ShippingAddress.Country)
	return b.String()
}
