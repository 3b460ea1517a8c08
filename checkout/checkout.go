// Package checkout validates the shopper's checkout form before an order is
// placed. Rules run in a fixed order and the first failure is reported.
package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/amadcodez/vendor-ready/models"
)

// Reason is a stable, machine-readable validation failure code.
type Reason string

const (
	ReasonFirstName     Reason = "first_name_invalid"
	ReasonLastName      Reason = "last_name_invalid"
	ReasonAddress       Reason = "address_required"
	ReasonCity          Reason = "city_required"
	ReasonEmail         Reason = "email_invalid"
	ReasonPhone         Reason = "phone_invalid"
	ReasonTransactionID Reason = "transaction_id_invalid"
	ReasonProofImage    Reason = "proof_image_required"
	ReasonPaymentMethod Reason = "payment_method_invalid"

	// Raised by order submission, not by Validate.
	ReasonCartEmpty Reason = "cart_empty"
	ReasonLineItem  Reason = "line_item_invalid"
	ReasonTotal     Reason = "total_invalid"
)

var (
	nameRegex          = regexp.MustCompile(`^[A-Za-z\s]{2,}$`)
	emailRegex         = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@(gmail|hotmail|yahoo)\.com$`)
	phoneRegex         = regexp.MustCompile(`^(0\d{10}|\+92\d{10})$`)
	transactionIDRegex = regexp.MustCompile(`^\d{12}$`)
)

// Form is the shopper-entered part of a checkout.
type Form struct {
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Phone      string `json:"phone"`
	UID        string `json:"uid"`
	ProofImage string `json:"proofImage"`
}

// Rule is one entry of the schema.
type Rule struct {
	Field   string
	Reason  Reason
	Message string
	Valid   func(f Form, method models.PaymentMethod) bool
}

// Rules is the checkout schema, in evaluation order.
var Rules = []Rule{
	{
		Field:   "firstName",
		Reason:  ReasonFirstName,
		Message: "First name should only contain letters and spaces.",
		Valid:   func(f Form, _ models.PaymentMethod) bool { return nameRegex.MatchString(f.FirstName) },
	},
	{
		Field:   "lastName",
		Reason:  ReasonLastName,
		Message: "Last name should only contain letters and spaces if entered.",
		Valid: func(f Form, _ models.PaymentMethod) bool {
			return f.LastName == "" || nameRegex.MatchString(f.LastName)
		},
	},
	{
		Field:   "address",
		Reason:  ReasonAddress,
		Message: "Address is required.",
		Valid:   func(f Form, _ models.PaymentMethod) bool { return strings.TrimSpace(f.Address) != "" },
	},
	{
		Field:   "city",
		Reason:  ReasonCity,
		Message: "City is required.",
		Valid:   func(f Form, _ models.PaymentMethod) bool { return strings.TrimSpace(f.City) != "" },
	},
	{
		Field:   "email",
		Reason:  ReasonEmail,
		Message: "Only Gmail, Hotmail, or Yahoo emails are allowed.",
		Valid:   func(f Form, _ models.PaymentMethod) bool { return emailRegex.MatchString(f.Email) },
	},
	{
		Field:   "phone",
		Reason:  ReasonPhone,
		Message: "Phone number must start with 0 or +92 and be valid.",
		Valid:   func(f Form, _ models.PaymentMethod) bool { return phoneRegex.MatchString(f.Phone) },
	},
	{
		Field:   "uid",
		Reason:  ReasonTransactionID,
		Message: "Transaction UID must be exactly 12 digits.",
		Valid: func(f Form, m models.PaymentMethod) bool {
			return m != models.PaymentMethodOnline || transactionIDRegex.MatchString(f.UID)
		},
	},
	{
		Field:   "proofImage",
		Reason:  ReasonProofImage,
		Message: "Please upload payment proof image.",
		Valid: func(f Form, m models.PaymentMethod) bool {
			return m != models.PaymentMethodOnline || isDataURI(f.ProofImage)
		},
	},
	{
		Field:   "paymentMethod",
		Reason:  ReasonPaymentMethod,
		Message: "Payment method must be cod or online.",
		Valid:   func(_ Form, m models.PaymentMethod) bool { return m.Valid() },
	},
}

// Result is the outcome of Validate. When OK is false, Reason, Field and
// Message describe the first failing rule.
type Result struct {
	OK      bool   `json:"ok"`
	Reason  Reason `json:"reason,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

// Err returns nil for a passing result and a *ValidationError otherwise.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return &ValidationError{Reason: r.Reason, Field: r.Field, Message: r.Message}
}

// ValidationError carries the failing rule.
type ValidationError struct {
	Reason  Reason
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// Validate evaluates Rules against the form.
func Validate(f Form, method models.PaymentMethod) Result {
	for _, rule := range Rules {
		if !rule.Valid(f, method) {
			return Result{Reason: rule.Reason, Field: rule.Field, Message: rule.Message}
		}
	}
	return Result{OK: true}
}

func isDataURI(s string) bool {
	return len(s) > len("data:") && strings.HasPrefix(s, "data:")
}
