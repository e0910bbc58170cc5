package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"go-paper-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApologyMessage is returned once every attempt has failed.
const ApologyMessage = "We apologize, but we are currently unable to process your request due to a temporary system issue. " +
	"Please try again later or contact our support team for assistance."

type PipelineStatus string

const (
	StatusFulfilled PipelineStatus = "fulfilled"
	StatusPartial   PipelineStatus = "partial"
	StatusRejected  PipelineStatus = "rejected"
	StatusExhausted PipelineStatus = "exhausted"
)

// PipelineResult is the structured outcome of one successful attempt, handed
// to the ResponseComposer.
type PipelineResult struct {
	Request   *CustomerRequest
	Inventory *InventoryResult
	Pricing   *PricingResult
	Order     *OrderResult
	Status    PipelineStatus
}

// Failures returns resolution failures followed by order failures.
func (r *PipelineResult) Failures() []LineFailure {
	failures := append([]LineFailure{}, r.Inventory.Failures...)
	return append(failures, r.Order.Failures...)
}

// Notes collects restock notes from the inventory stage.
func (r *PipelineResult) Notes() []string {
	var notes []string
	for _, l := range r.Inventory.Lines {
		if l.Note != "" {
			notes = append(notes, fmt.Sprintf("%s: %s", l.ItemName, l.Note))
		}
	}
	return notes
}

type ResponseComposer interface {
	Compose(result *PipelineResult) (string, error)
}

type PipelineResponse struct {
	RequestID      uuid.UUID       `json:"request_id"`
	Status         PipelineStatus  `json:"status"`
	Attempts       int             `json:"attempts"`
	Message        string          `json:"message"`
	Total          decimal.Decimal `json:"total"`
	DeliveryDate   string          `json:"delivery_date,omitempty"`
	Lines          []OrderLine     `json:"lines"`
	Failures       []LineFailure   `json:"failures"`
	Notes          []string        `json:"notes,omitempty"`
	HistoryMatches int             `json:"history_matches"`
	Err            error           `json:"-"`
}

// PipelineService runs customer requests through inventory, pricing and
// order execution. Handle never returns an error; failures are reported in
// the response.
type PipelineService interface {
	Handle(ctx context.Context, req CustomerRequest) *PipelineResponse
}

type pipelineService struct {
	inventory   InventoryStage
	pricing     PricingStage
	order       OrderStage
	interpreter RequestInterpreter
	composer    ResponseComposer
	policy      RetryPolicy
	logger      *slog.Logger

	mu sync.Mutex
}

func NewPipelineService(inventory InventoryStage, pricing PricingStage, order OrderStage, interpreter RequestInterpreter, composer ResponseComposer, policy RetryPolicy, logger *slog.Logger) PipelineService {
	if logger == nil {
		logger = slog.Default()
	}
	return &pipelineService{
		inventory:   inventory,
		pricing:     pricing,
		order:       order,
		interpreter: interpreter,
		composer:    composer,
		policy:      policy,
		logger:      logger,
	}
}

func (s *pipelineService) Handle(ctx context.Context, req CustomerRequest) *PipelineResponse {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	response := &PipelineResponse{RequestID: req.ID, Total: decimal.Zero}
	logger := s.logger.With("request_id", req.ID)

	if strings.TrimSpace(req.Date) == "" {
		req.Date = model.FormatDate(now())
	}
	date, err := model.NormalizeDate(req.Date)
	if err != nil {
		return reject(response, err)
	}
	req.Date = date

	if len(req.Items) == 0 && s.interpreter != nil {
		req.Items = s.interpreter.Interpret(req.Text)
	}
	if len(req.Items) == 0 {
		return reject(response, fmt.Errorf("%w: no items could be identified in the request", model.ErrInvalidQuantity))
	}

	// One request at a time against the ledger.
	s.mu.Lock()
	defer s.mu.Unlock()

	var result *PipelineResult
	var message string
	attempts, err := s.policy.Run(ctx, func(attempt int) (err error) {
		// A panicking stage or collaborator counts as a failed attempt.
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("pipeline panic: %v", r)
			}
		}()

		logger.Info("pipeline attempt", "attempt", attempt, "items", len(req.Items), "date", req.Date)
		r, err := s.run(ctx, &req)
		if err != nil {
			return err
		}
		text, err := s.compose(r)
		if err != nil {
			return fmt.Errorf("compose response: %w", err)
		}
		result, message = r, text
		return nil
	}, func(attempt int, err error) {
		logger.Warn("pipeline attempt failed", "attempt", attempt, "max_attempts", s.policy.MaxAttempts, "error", err)
	})
	response.Attempts = attempts

	if err != nil {
		logger.Error("pipeline exhausted", "attempts", attempts, "error", err)
		response.Status = StatusExhausted
		response.Message = ApologyMessage
		response.Err = fmt.Errorf("%w: %v", model.ErrPipelineExhausted, err)
		return response
	}

	response.Status = result.Status
	response.Message = message
	response.Total = result.Order.Total
	response.DeliveryDate = result.Order.DeliveryDate
	response.Lines = result.Order.Lines
	response.Failures = result.Failures()
	response.Notes = result.Notes()
	response.HistoryMatches = len(result.Pricing.History)
	logger.Info("pipeline finished", "status", response.Status, "total", response.Total.StringFixed(2), "attempts", attempts)
	return response
}

func (s *pipelineService) run(ctx context.Context, req *CustomerRequest) (*PipelineResult, error) {
	inventory, err := s.inventory.Resolve(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("inventory stage: %w", err)
	}
	pricing, err := s.pricing.Price(ctx, req, inventory)
	if err != nil {
		return nil, fmt.Errorf("pricing stage: %w", err)
	}
	order, err := s.order.Execute(ctx, req, pricing)
	if err != nil {
		return nil, fmt.Errorf("order stage: %w", err)
	}

	result := &PipelineResult{Request: req, Inventory: inventory, Pricing: pricing, Order: order}
	switch {
	case len(order.Lines) == 0:
		result.Status = StatusRejected
	case len(result.Failures()) > 0:
		result.Status = StatusPartial
	default:
		result.Status = StatusFulfilled
	}
	return result, nil
}

func (s *pipelineService) compose(result *PipelineResult) (string, error) {
	if s.composer == nil {
		return fmt.Sprintf("Order %s: %d line(s) processed, total $%s.", result.Status, len(result.Order.Lines), result.Order.Total.StringFixed(2)), nil
	}
	return s.composer.Compose(result)
}

func reject(response *PipelineResponse, err error) *PipelineResponse {
	response.Status = StatusRejected
	response.Message = err.Error()
	response.Err = err
	return response
}
