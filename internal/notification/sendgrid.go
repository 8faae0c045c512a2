package notification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendgridNotifier struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

var _ Notifier = (*SendgridNotifier)(nil)

func NewSendgridNotifier(apiKey, fromName, fromAddress string) *SendgridNotifier {
	return &SendgridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(fromName, fromAddress),
	}
}

func (n *SendgridNotifier) SendReceipt(ctx context.Context, receipt Receipt) error {
	msg, err := RenderReceipt(receipt)
	if err != nil {
		return err
	}
	return n.send(ctx, msg)
}

func (n *SendgridNotifier) SendReminder(ctx context.Context, reminder Reminder) error {
	msg, err := RenderReminder(reminder)
	if err != nil {
		return err
	}
	return n.send(ctx, msg)
}

func (n *SendgridNotifier) prepare(msg *Message) *sgmail.SGMailV3 {
	return sgmail.NewSingleEmail(n.from, msg.Subject, sgmail.NewEmail("", msg.To), msg.Text, msg.HTML)
}

func (n *SendgridNotifier) send(ctx context.Context, msg *Message) error {
	res, err := n.client.SendWithContext(ctx, n.prepare(msg))
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sending email - status: %d - body: %s", res.StatusCode, res.Body)
	}
	return nil
}
