package notification

import (
	"context"

	"github.com/segyhp/fee-ledger/pkg/logger"
)

// ConsoleNotifier logs rendered emails instead of sending them. Used in
// development and whenever no SendGrid key is configured.
type ConsoleNotifier struct {
	log logger.Logger
}

var _ Notifier = (*ConsoleNotifier)(nil)

func NewConsoleNotifier(log logger.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{log: log}
}

func (n *ConsoleNotifier) SendReceipt(_ context.Context, receipt Receipt) error {
	msg, err := RenderReceipt(receipt)
	if err != nil {
		return err
	}
	n.print(msg)
	return nil
}

func (n *ConsoleNotifier) SendReminder(_ context.Context, reminder Reminder) error {
	msg, err := RenderReminder(reminder)
	if err != nil {
		return err
	}
	n.print(msg)
	return nil
}

func (n *ConsoleNotifier) print(msg *Message) {
	n.log.Info("email", logger.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
		"body":    msg.Text,
	})
}
