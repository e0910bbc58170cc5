package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go-paper-ledger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapResolver map[string]string

func (r mapResolver) Resolve(description string) (string, bool) {
	name, ok := r[strings.ToLower(description)]
	return name, ok
}

type lineInterpreter struct{}

func (lineInterpreter) Interpret(text string) []ItemRequest {
	var items []ItemRequest
	for _, item := range ParseQuoteLines(text) {
		var qty int
		for _, c := range item.Quantity {
			qty = qty*10 + int(c-'0')
		}
		items = append(items, ItemRequest{Description: item.Name, Quantity: qty})
	}
	return items
}

type flakyComposer struct {
	failures int
	calls    int
}

func (c *flakyComposer) Compose(result *PipelineResult) (string, error) {
	c.calls++
	if c.calls <= c.failures {
		return "", errors.New("composer unavailable")
	}
	return "status=" + string(result.Status), nil
}

type brokenOrderStage struct{ calls int }

func (s *brokenOrderStage) Execute(context.Context, *CustomerRequest, *PricingResult) (*OrderResult, error) {
	s.calls++
	return nil, errors.New("database is locked")
}

type stubHistory struct {
	queries [][]string
	byTerm  map[string][]model.QuoteRecord
}

func (h *stubHistory) SearchHistory(_ context.Context, terms []string, limit int) ([]model.QuoteRecord, error) {
	h.queries = append(h.queries, terms)
	if h.byTerm != nil {
		records := h.byTerm[terms[0]]
		if len(records) > limit {
			records = records[:limit]
		}
		return records, nil
	}
	return []model.QuoteRecord{{ID: 1, OriginalRequest: "500 sheets of A4 paper"}}, nil
}

type panickingComposer struct {
	panics int
	calls  int
}

func (c *panickingComposer) Compose(result *PipelineResult) (string, error) {
	c.calls++
	if c.calls <= c.panics {
		var templates map[string]string
		templates["reply"] = "unreachable"
	}
	return "status=" + string(result.Status), nil
}

type pipelineFixture struct {
	*ledgerFixture
	waits   []time.Duration
	history *stubHistory
}

func newPipelineFixture(t *testing.T, cash string) *pipelineFixture {
	t.Helper()
	f := &pipelineFixture{ledgerFixture: newLedgerFixture(t), history: &stubHistory{}}
	f.append(t, model.NewCashInjection(dec(cash), "2025-01-01"))
	return f
}

func (f *pipelineFixture) pipeline(order OrderStage, composer ResponseComposer) PipelineService {
	refs := []model.InventoryReference{
		{ItemName: "A4 paper", UnitPrice: dec("0.05"), MinStockLevel: 100},
		{ItemName: "Cardstock", UnitPrice: dec("0.15"), MinStockLevel: 50},
	}
	resolver := mapResolver{"a4 printer paper": "A4 paper", "heavy cardstock": "Cardstock"}
	inventory := NewInventoryStage(f.catalog, refs, f.state, f.fulfillment, resolver, nil)
	pricing := NewPricingStage(NewPricingService(f.catalog), f.history, nil)
	if order == nil {
		order = NewOrderStage(f.fulfillment, nil)
	}
	policy := RetryPolicy{MaxAttempts: 3, BackoffUnit: time.Second, Sleep: recordingSleep(&f.waits)}
	return NewPipelineService(inventory, pricing, order, lineInterpreter{}, composer, policy, nil)
}

func TestPipeline_FulfilsWithRestock(t *testing.T) {
	f := newPipelineFixture(t, "50000")
	ctx := context.Background()

	resp := f.pipeline(nil, &flakyComposer{}).Handle(ctx, CustomerRequest{
		Date:  "2025-04-01",
		Items: []ItemRequest{{Description: "A4 printer paper", Quantity: 500}},
	})

	require.NoError(t, resp.Err)
	assert.Equal(t, StatusFulfilled, resp.Status)
	assert.Equal(t, 1, resp.Attempts)
	assert.Equal(t, "status=fulfilled", resp.Message)
	assert.True(t, dec("22.50").Equal(resp.Total))
	assert.Equal(t, "2025-04-05", resp.DeliveryDate)
	assert.Equal(t, 1, resp.HistoryMatches)
	assert.Equal(t, [][]string{{"A4 paper"}}, f.history.queries)
	require.Len(t, resp.Lines, 1)
	assert.NotZero(t, resp.Lines[0].TransactionID)

	// 0 in stock: restock to 500 requested + 100 minimum, then sell 500
	stock, err := f.state.StockLevel(ctx, "A4 paper", "2025-04-01")
	require.NoError(t, err)
	assert.Equal(t, 100, stock)
	assert.Equal(t, int64(3), f.count(t))
}

func TestPipeline_SkipsRestockWhenStocked(t *testing.T) {
	f := newPipelineFixture(t, "50000")
	f.append(t, model.NewStockOrder("Cardstock", 300, dec("45"), "2025-01-01"))

	resp := f.pipeline(nil, nil).Handle(context.Background(), CustomerRequest{
		Date:  "2025-04-01",
		Items: []ItemRequest{{Description: "heavy cardstock", Quantity: 100}},
	})

	assert.Equal(t, StatusFulfilled, resp.Status)
	assert.True(t, dec("14.25").Equal(resp.Total))
	assert.Equal(t, int64(3), f.count(t))
}

func TestPipeline_PartialWhenNameUnresolved(t *testing.T) {
	f := newPipelineFixture(t, "50000")

	resp := f.pipeline(nil, nil).Handle(context.Background(), CustomerRequest{
		Date: "2025-04-01",
		Items: []ItemRequest{
			{Description: "heavy cardstock", Quantity: 10},
			{Description: "unicorn glitter", Quantity: 5},
		},
	})

	assert.Equal(t, StatusPartial, resp.Status)
	require.Len(t, resp.Failures, 1)
	assert.ErrorIs(t, resp.Failures[0].Err, model.ErrUnknownCatalogItem)
	assert.Equal(t, "unicorn glitter", resp.Failures[0].Description)
}

func TestPipeline_RestockRefusalBecomesNote(t *testing.T) {
	f := newPipelineFixture(t, "10")

	resp := f.pipeline(nil, nil).Handle(context.Background(), CustomerRequest{
		Date:  "2025-04-01",
		Items: []ItemRequest{{Description: "A4 printer paper", Quantity: 1000}},
	})

	assert.Equal(t, StatusRejected, resp.Status)
	assert.Equal(t, 1, resp.Attempts)
	require.Len(t, resp.Notes, 1)
	assert.Contains(t, resp.Notes[0], "insufficient funds")
	require.Len(t, resp.Failures, 1)
	assert.ErrorIs(t, resp.Failures[0].Err, model.ErrInsufficientStock)
	assert.Equal(t, int64(1), f.count(t))
}

func TestPipeline_InterpretsFreeText(t *testing.T) {
	f := newPipelineFixture(t, "50000")

	resp := f.pipeline(nil, nil).Handle(context.Background(), CustomerRequest{
		Date: "2025-04-01T10:00:00",
		Text: "A4 printer paper: 20",
	})

	assert.Equal(t, StatusFulfilled, resp.Status)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "A4 paper", resp.Lines[0].ItemName)
	assert.Equal(t, "2025-04-02", resp.DeliveryDate)
}

func TestPipeline_RejectsEmptyAndUndatedRequests(t *testing.T) {
	f := newPipelineFixture(t, "50000")
	pipeline := f.pipeline(nil, nil)

	resp := pipeline.Handle(context.Background(), CustomerRequest{Date: "2025-04-01", Text: "hello there"})
	assert.Equal(t, StatusRejected, resp.Status)
	assert.Zero(t, resp.Attempts)

	resp = pipeline.Handle(context.Background(), CustomerRequest{
		Date:  "April first",
		Items: []ItemRequest{{Description: "A4 printer paper", Quantity: 1}},
	})
	assert.Equal(t, StatusRejected, resp.Status)
	assert.ErrorIs(t, resp.Err, model.ErrMalformedDate)
}

func TestPipeline_RetriesThenSucceeds(t *testing.T) {
	f := newPipelineFixture(t, "50000")
	composer := &flakyComposer{failures: 1}

	resp := f.pipeline(nil, composer).Handle(context.Background(), CustomerRequest{
		Date:  "2025-04-01",
		Items: []ItemRequest{{Description: "heavy cardstock", Quantity: 10}},
	})

	assert.Equal(t, StatusFulfilled, resp.Status)
	assert.Equal(t, 2, resp.Attempts)
	assert.Equal(t, []time.Duration{2 * time.Second}, f.waits)
}

func TestPipeline_ExhaustedKeepsRestocks(t *testing.T) {
	f := newPipelineFixture(t, "50000")
	order := &brokenOrderStage{}

	resp := f.pipeline(order, nil).Handle(context.Background(), CustomerRequest{
		Date:  "2025-04-01",
		Items: []ItemRequest{{Description: "A4 printer paper", Quantity: 500}},
	})

	assert.Equal(t, StatusExhausted, resp.Status)
	assert.Equal(t, ApologyMessage, resp.Message)
	assert.Equal(t, 3, resp.Attempts)
	assert.Equal(t, 3, order.calls)
	assert.ErrorIs(t, resp.Err, model.ErrPipelineExhausted)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, f.waits)

	// The first attempt restocked; later attempts found enough stock.
	assert.Equal(t, int64(2), f.count(t))
	stock, err := f.state.StockLevel(context.Background(), "A4 paper", "2025-04-01")
	require.NoError(t, err)
	assert.Equal(t, 600, stock)
}

func TestPipeline_PanickingCollaboratorYieldsApology(t *testing.T) {
	f := newPipelineFixture(t, "50000")
	composer := &panickingComposer{panics: 3}

	var resp *PipelineResponse
	require.NotPanics(t, func() {
		resp = f.pipeline(nil, composer).Handle(context.Background(), CustomerRequest{
			Date:  "2025-04-01",
			Items: []ItemRequest{{Description: "heavy cardstock", Quantity: 10}},
		})
	})

	assert.Equal(t, StatusExhausted, resp.Status)
	assert.Equal(t, ApologyMessage, resp.Message)
	assert.Equal(t, 3, resp.Attempts)
	assert.Equal(t, 3, composer.calls)
	assert.ErrorIs(t, resp.Err, model.ErrPipelineExhausted)
	assert.Contains(t, resp.Err.Error(), "pipeline panic")
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, f.waits)
}

func TestPipeline_RecoversAfterPanickingAttempt(t *testing.T) {
	f := newPipelineFixture(t, "50000")
	composer := &panickingComposer{panics: 1}

	resp := f.pipeline(nil, composer).Handle(context.Background(), CustomerRequest{
		Date:  "2025-04-01",
		Items: []ItemRequest{{Description: "heavy cardstock", Quantity: 10}},
	})

	require.NoError(t, resp.Err)
	assert.Equal(t, 2, resp.Attempts)
	assert.Equal(t, "status=fulfilled", resp.Message)
	assert.Equal(t, []time.Duration{2 * time.Second}, f.waits)
}

func TestPipeline_HistoryLookupPerItem(t *testing.T) {
	f := newPipelineFixture(t, "50000")
	f.history.byTerm = map[string][]model.QuoteRecord{
		"A4 paper":  {{ID: 1, OriginalRequest: "A4 paper for a conference"}, {ID: 2, OriginalRequest: "A4 paper and cardstock"}},
		"Cardstock": {{ID: 2, OriginalRequest: "A4 paper and cardstock"}, {ID: 3, OriginalRequest: "cardstock invitations"}},
	}

	resp := f.pipeline(nil, nil).Handle(context.Background(), CustomerRequest{
		Date: "2025-04-01",
		Items: []ItemRequest{
			{Description: "A4 printer paper", Quantity: 100},
			{Description: "heavy cardstock", Quantity: 100},
		},
	})

	require.NoError(t, resp.Err)
	assert.Equal(t, [][]string{{"A4 paper"}, {"Cardstock"}}, f.history.queries)
	assert.Equal(t, 3, resp.HistoryMatches, "records matched by several items are counted once")
}
