package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"evently/internal/domain"
)

const (
	metadataEventID = "eventId"
	metadataBuyerID = "buyerId"
)

type orderService struct {
	orderRepo      domain.OrderRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	verifier       domain.PaymentVerifier
	checkout       domain.CheckoutProvider
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewOrderService(orderRepo domain.OrderRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	verifier domain.PaymentVerifier,
	checkout domain.CheckoutProvider,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.OrderService {
	return &orderService{
		orderRepo:      orderRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		verifier:       verifier,
		checkout:       checkout,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// Intake authenticates a raw payment notification and turns a completed
// checkout into an order. Redelivered notifications return the stored order
// with Created false. The result is non-nil whenever verification ran.
func (s *orderService) Intake(ctx context.Context, payload []byte, signature string) (*domain.IntakeResult, error) {
	result := &domain.IntakeResult{State: domain.IntakeUnverified}

	notification, err := s.verifier.Verify(payload, signature)
	if err != nil {
		result.State = domain.IntakeRejected
		if !errors.Is(err, domain.ErrVerification) {
			err = fmt.Errorf("%w: %v", domain.ErrVerification, err)
		}
		return result, err
	}
	result.State = domain.IntakeVerified
	result.NotificationType = notification.Type

	if notification.Type != domain.CheckoutCompletedType || notification.Checkout == nil {
		return result, nil
	}
	completion := notification.Checkout
	if completion.SessionID == "" {
		return result, fmt.Errorf("%w: checkout session id is missing", domain.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	order := &domain.Order{
		StripeID:    completion.SessionID,
		EventID:     completion.Metadata[metadataEventID],
		BuyerID:     completion.Metadata[metadataBuyerID],
		TotalAmount: domain.FormatMinorUnits(completion.AmountTotal),
		CreatedAt:   time.Now().UTC(),
	}
	created, err := s.orderRepo.CreateIfAbsent(ctx, order)
	if err != nil {
		return result, fmt.Errorf("create order: %w", err)
	}
	result.Order = order
	result.Created = created

	if created {
		s.sendConfirmation(ctx, order)
	} else {
		s.logger.InfoContext(ctx, "duplicate payment notification", "stripe_id", order.StripeID, "order_id", order.ID)
	}
	return result, nil
}

// sendConfirmation emails the buyer. Failures are logged only.
func (s *orderService) sendConfirmation(ctx context.Context, order *domain.Order) {
	if s.emailService == nil || order.BuyerID == "" {
		return
	}
	buyer, err := s.userRepo.GetByID(ctx, order.BuyerID)
	if err != nil {
		s.logger.WarnContext(ctx, "order confirmation skipped", "order_id", order.ID, "err", err)
		return
	}
	data := &domain.OrderConfirmationEmailData{
		Email:       buyer.Email,
		FirstName:   buyer.FirstName,
		OrderID:     order.ID,
		TotalAmount: order.TotalAmount,
	}
	if event, err := s.eventRepo.GetByID(ctx, order.EventID); err == nil {
		data.EventTitle = event.Title
		data.EventLocation = event.Location
		if !event.StartDateTime.IsZero() {
			data.StartDateTime = event.StartDateTime.Format("Mon, Jan 2 2006 15:04 MST")
		}
	}
	if err := s.emailService.SendOrderConfirmation(ctx, data); err != nil {
		s.logger.ErrorContext(ctx, "order confirmation failed", "order_id", order.ID, "err", err)
	}
}

// Checkout starts a hosted payment for one ticket to eventID and returns the
// URL to redirect the buyer to.
func (s *orderService) Checkout(ctx context.Context, eventID, buyerID string) (string, error) {
	if buyerID == "" {
		return "", domain.ErrForbidden
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get event: %w", err)
	}

	var amount int64
	if !event.IsFree {
		amount, err = domain.ParseMinorUnits(event.Price)
		if err != nil {
			return "", err
		}
	}
	url, err := s.checkout.CreateSession(ctx, domain.CheckoutSessionInput{
		EventID:     event.ID,
		EventTitle:  event.Title,
		BuyerID:     buyerID,
		AmountMinor: amount,
	})
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return url, nil
}

func (s *orderService) ListOrdersByEvent(ctx context.Context, eventID, actorID, search string) ([]*domain.EventOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := domain.EnsureOrganizer(event, actorID); err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListByEvent(ctx, eventID, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []*domain.EventOrder{}
	}
	return orders, nil
}

func (s *orderService) ListOrdersByUser(ctx context.Context, userID string, params domain.PaginationParams) (*domain.OrderPage, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	orders, total, err := s.orderRepo.ListByBuyer(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []*domain.UserOrder{}
	}
	return &domain.OrderPage{Data: orders, TotalPages: params.TotalPages(total)}, nil
}
