// Package notification sends payment receipts and overdue reminders.
package notification

import (
	"bytes"
	"context"
	"fmt"
	htmltmpl "html/template"
	texttmpl "text/template"
	"time"

	"github.com/segyhp/fee-ledger/pkg/utils"
)

// Notifier delivers fee emails. Callers treat failures as non-fatal.
type Notifier interface {
	SendReceipt(ctx context.Context, receipt Receipt) error
	SendReminder(ctx context.Context, reminder Reminder) error
}

// Receipt describes one recorded payment.
type Receipt struct {
	To          string
	StudentName string
	SchoolName  string
	PaymentID   string
	Mode        string
	Amount      int64
	Currency    string
	Description string
	PaidAt      time.Time
	Balance     int64
}

// ReminderLine is one unpaid bill in a reminder.
type ReminderLine struct {
	Period  string
	Balance int64
	DueDate time.Time
}

// Reminder lists a student's overdue bills.
type Reminder struct {
	To          string
	StudentName string
	SchoolName  string
	Currency    string
	Lines       []ReminderLine
	Outstanding int64
}

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

var funcs = map[string]interface{}{
	"money": utils.FormatMinorUnits,
	"date":  func(t time.Time) string { return t.Format("02 Jan 2006") },
}

var receiptText = texttmpl.Must(texttmpl.New("receipt.txt").Funcs(funcs).Parse(
	`Dear {{.StudentName}},

We have received your {{.Mode}} payment of {{.Currency}} {{money .Amount}} on {{date .PaidAt}}.
{{.Description}}
Receipt number: {{.PaymentID}}
Remaining balance on this bill: {{.Currency}} {{money .Balance}}

{{.SchoolName}}
`))

var receiptHTML = htmltmpl.Must(htmltmpl.New("receipt.html").Funcs(funcs).Parse(
	`<p>Dear {{.StudentName}},</p>
<p>We have received your {{.Mode}} payment of <strong>{{.Currency}} {{money .Amount}}</strong> on {{date .PaidAt}}.</p>
<p>{{.Description}}<br>Receipt number: {{.PaymentID}}<br>Remaining balance on this bill: {{.Currency}} {{money .Balance}}</p>
<p>{{.SchoolName}}</p>
`))

var reminderText = texttmpl.Must(texttmpl.New("reminder.txt").Funcs(funcs).Parse(
	`Dear {{.StudentName}},

The following fees are overdue:
{{range .Lines}}- {{.Period}}: {{$.Currency}} {{money .Balance}} (due {{date .DueDate}})
{{end}}
Total outstanding: {{.Currency}} {{money .Outstanding}}

{{.SchoolName}}
`))

var reminderHTML = htmltmpl.Must(htmltmpl.New("reminder.html").Funcs(funcs).Parse(
	`<p>Dear {{.StudentName}},</p>
<p>The following fees are overdue:</p>
<ul>{{range .Lines}}<li>{{.Period}}: {{$.Currency}} {{money .Balance}} (due {{date .DueDate}})</li>{{end}}</ul>
<p>Total outstanding: <strong>{{.Currency}} {{money .Outstanding}}</strong></p>
<p>{{.SchoolName}}</p>
`))

// RenderReceipt builds the receipt email.
func RenderReceipt(receipt Receipt) (*Message, error) {
	msg := &Message{
		To:      receipt.To,
		Subject: fmt.Sprintf("[%s] Payment receipt %s", receipt.SchoolName, receipt.PaymentID),
	}
	if err := render(msg, receiptText, receiptHTML, receipt); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return msg, nil
}

// RenderReminder builds the overdue reminder email.
func RenderReminder(reminder Reminder) (*Message, error) {
	msg := &Message{
		To:      reminder.To,
		Subject: fmt.Sprintf("[%s] Overdue fee reminder", reminder.SchoolName),
	}
	if err := render(msg, reminderText, reminderHTML, reminder); err != nil {
		return nil, fmt.Errorf("render reminder: %w", err)
	}
	return msg, nil
}

func render(msg *Message, text *texttmpl.Template, html *htmltmpl.Template, data interface{}) error {
	var textBuf, htmlBuf bytes.Buffer
	if err := text.Execute(&textBuf, data); err != nil {
		return err
	}
	if err := html.Execute(&htmlBuf, data); err != nil {
		return err
	}
	msg.Text = textBuf.String()
	msg.HTML = htmlBuf.String()
	return nil
}
