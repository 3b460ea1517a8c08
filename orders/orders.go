// Package orders turns a checked-out cart into a persisted order and queues
// the buyer's confirmation email.
package orders

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"time"

	"github.com/amadcodez/vendor-ready/checkout"
	"github.com/amadcodez/vendor-ready/models"
	"github.com/amadcodez/vendor-ready/notify"
	"github.com/amadcodez/vendor-ready/repository"
)

var (
	ErrValidation  = errors.New("invalid order")
	ErrPersistence = errors.New("order could not be saved")
)

const (
	orderIDLength   = 8
	orderIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// SubmitRequest is the body of POST /api/submit-order.
type SubmitRequest struct {
	Email         string                `json:"email"`
	FirstName     string                `json:"firstName"`
	LastName      string                `json:"lastName"`
	Address       string                `json:"address"`
	City          string                `json:"city"`
	Phone         string                `json:"phone"`
	PaymentMethod string                `json:"paymentMethod"`
	UID           string                `json:"uid"`
	ProofImage    string                `json:"proofImage"`
	CartItems     []models.CartLineItem `json:"cartItems"`
	Total         float64               `json:"total"`
}

func (r SubmitRequest) form() checkout.Form {
	return checkout.Form{
		Email:      r.Email,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Address:    r.Address,
		City:       r.City,
		Phone:      r.Phone,
		UID:        r.UID,
		ProofImage: r.ProofImage,
	}
}

// Publisher receives every stored order. The live vendor feed implements it.
type Publisher interface {
	Publish(order models.Order)
}

type Service struct {
	repo      repository.OrderRepository
	queue     notify.Queue
	publisher Publisher
	now       func() time.Time
	newID     func() (string, error)
}

type Option func(*Service)

func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Service) { s.newID = gen }
}

func NewService(repo repository.OrderRepository, queue notify.Queue, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		queue: queue,
		now:   time.Now,
		newID: GenerateOrderID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks the request without side effects. Errors wrap ErrValidation
// and a *checkout.ValidationError.
func Validate(req SubmitRequest) error {
	method := models.ParsePaymentMethod(req.PaymentMethod)
	if err := checkout.Validate(req.form(), method).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if len(req.CartItems) == 0 {
		return fmt.Errorf("%w: %w", ErrValidation, &checkout.ValidationError{
			Reason: checkout.ReasonCartEmpty, Field: "cartItems", Message: "Your cart is empty.",
		})
	}
	for i, item := range req.CartItems {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, &checkout.ValidationError{
				Reason:  checkout.ReasonLineItem,
				Field:   fmt.Sprintf("cartItems[%d]", i),
				Message: err.Error(),
			})
		}
	}
	// The total is stored as submitted; only reject values no cart could produce.
	if req.Total < 0 || math.IsNaN(req.Total) || math.IsInf(req.Total, 0) {
		return fmt.Errorf("%w: %w", ErrValidation, &checkout.ValidationError{
			Reason: checkout.ReasonTotal, Field: "total", Message: "Order total is invalid.",
		})
	}
	return nil
}

// Submit validates, stamps and stores the order, then queues the confirmation
// email. Notification problems are logged and never fail the submission.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*models.Order, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	orderID, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("generate order id: %w", err)
	}

	order := &models.Order{
		OrderID:       orderID,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Address:       req.Address,
		City:          req.City,
		Phone:         req.Phone,
		PaymentMethod: models.ParsePaymentMethod(req.PaymentMethod),
		CartItems:     append([]models.CartLineItem(nil), req.CartItems...),
		Total:         req.Total,
		Date:          s.now().UTC().Format(models.OrderDateLayout),
	}
	if order.PaymentMethod == models.PaymentMethodOnline {
		order.UID = req.UID
		order.ProofImage = req.ProofImage
	}

	if err := s.repo.InsertOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	slog.Info("Order stored", "order_id", order.OrderID, "stores", order.StoreIDs(), "items", len(order.CartItems))

	s.notify(ctx, *order)
	if s.publisher != nil {
		s.publisher.Publish(*order)
	}
	return order, nil
}

func (s *Service) notify(ctx context.Context, order models.Order) {
	if s.queue == nil {
		return
	}
	n, err := notify.RenderConfirmation(order)
	if err != nil {
		slog.Error("Failed to render order confirmation", "order_id", order.OrderID, "error", err)
		return
	}
	if err := s.queue.Enqueue(ctx, n); err != nil {
		slog.Error("Failed to queue order confirmation", "order_id", order.OrderID, "error", err)
	}
}

// OrdersForStore returns every stored order containing a line item of storeID.
func (s *Service) OrdersForStore(ctx context.Context, storeID string) ([]models.Order, error) {
	return s.repo.FindOrdersByStore(ctx, storeID)
}

// GenerateOrderID draws orderIDLength characters uniformly from A-Z0-9.
// Uniqueness is not checked.
func GenerateOrderID() (string, error) {
	max := big.NewInt(int64(len(orderIDAlphabet)))
	b := make([]byte, orderIDLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = orderIDAlphabet[n.Int64()]
	}
	return string(b), nil
}
