// Package notify delivers order confirmation emails outside the request path.
// Submissions enqueue a Notification; a Worker drains the queue and sends it
// through a Mailer, retrying transient failures.
package notify

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"

	"github.com/amadcodez/vendor-ready/models"
)

type Notification struct {
	OrderID  string `json:"orderID"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"htmlBody"`
	Attempts int    `json:"attempts,omitempty"`
}

var confirmationTmpl = template.Must(template.New("confirmation").Funcs(template.FuncMap{
	"rs":    formatAmount,
	"upper": strings.ToUpper,
}).Parse(`<div style="max-width:600px;margin:30px auto;padding:30px;border-radius:8px;font-family:Arial,sans-serif;background:#fff;border:1px solid #e2e2e2;text-align:center">
  <h2 style="font-size:22px;margin-bottom:10px">Order Confirmation</h2>
  <p style="font-size:16px;color:#333">Thanks for your order, <strong>{{.FirstName}}</strong>!</p>
  <p style="margin:15px 0">Your order ID is shown below:</p>
  <div style="background:#ff4d00;color:#fff;display:inline-block;padding:12px 24px;border-radius:6px;font-size:20px;font-weight:bold;letter-spacing:1px;margin-bottom:20px;">{{.OrderID}}</div>
  <div style="text-align:left;margin-top:30px;background:#f9f9f9;padding:20px;border-radius:6px">
    <h3 style="margin:0 0 10px">Order Summary:</h3>
{{- range .CartItems}}
    <p style="margin:5px 0;font-size:14px">• {{.Title}} – Rs.{{rs .Price}} × {{.Quantity}}</p>
{{- end}}
    <p style="margin:10px 0;font-weight:bold">Total: Rs.{{rs .Total}}</p>
    <p style="margin:5px 0">Payment Method: <strong>{{upper (printf "%s" .PaymentMethod)}}</strong></p>
  </div>
  <div style="text-align:left;margin-top:20px;background:#f1f1f1;padding:20px;border-radius:6px">
    <h3 style="margin:0 0 10px">Shipping Information:</h3>
    <p style="margin:5px 0;font-size:14px"><strong>Name:</strong> {{.FirstName}} {{.LastName}}</p>
    <p style="margin:5px 0;font-size:14px"><strong>Phone:</strong> {{.Phone}}</p>
    <p style="margin:5px 0;font-size:14px"><strong>Address:</strong> {{.Address}}, {{.City}}</p>
  </div>
  <p style="font-size:12px;color:#999;margin-top:30px">You'll receive another email when your order is shipped.<br />If you didn't place this order, you can safely ignore this message.</p>
  <p style="font-size:13px;color:#888;margin-top:20px">Team Covo</p>
</div>
`))

// formatAmount prints the shortest decimal form, so 10 renders as "10" and 9.5 as "9.5".
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ConfirmationSubject is the subject line of the buyer's confirmation email.
func ConfirmationSubject(orderID string) string {
	return "Order Confirmation - " + orderID
}

// RenderConfirmation builds the confirmation email for a persisted order.
func RenderConfirmation(order models.Order) (Notification, error) {
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, order); err != nil {
		return Notification{}, err
	}
	return Notification{
		OrderID:  order.OrderID,
		To:       order.Email,
		Subject:  ConfirmationSubject(order.OrderID),
		HTMLBody: buf.String(),
	}, nil
}
