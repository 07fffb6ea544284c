package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orderledger/backend/internal/domain"
)

// ReconciliationServiceConfig holds configuration for the reconciliation service
type ReconciliationServiceConfig struct {
	BaseOrigin         string
	CacheTTL           time.Duration
	EnableDebugLogging bool
}

// ReconciliationService resolves line item prices of orders from fetched
// order-detail markup and allocates the rest of each order total.
// It holds no per-call state; concurrent calls only share the reporter and cache.
type ReconciliationService struct {
	fragments *FragmentExtractor
	fields    *FieldExtractor
	matcher   *ItemMatcher
	dedup     *Deduplicator
	allocator *PriceAllocator

	cache    domain.CacheRepository
	reporter domain.DiagnosticReporter
	cacheTTL time.Duration
	debug    bool
	clock    func() time.Time
}

// NewReconciliationService creates the service. cache may be nil to disable caching.
func NewReconciliationService(
	cache domain.CacheRepository,
	reporter domain.DiagnosticReporter,
	config ReconciliationServiceConfig,
) (*ReconciliationService, error) {
	fields, err := NewFieldExtractor(config.BaseOrigin)
	if err != nil {
		return nil, err
	}

	if reporter == nil {
		reporter = domain.NopReporter{}
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &ReconciliationService{
		fragments: NewFragmentExtractor(),
		fields:    fields,
		matcher:   NewItemMatcher(config.EnableDebugLogging),
		dedup:     NewDeduplicator(),
		allocator: NewPriceAllocator(config.EnableDebugLogging),
		cache:     cache,
		reporter:  reporter,
		cacheTTL:  cacheTTL,
		debug:     config.EnableDebugLogging,
		clock:     time.Now,
	}, nil
}

// emitter stamps diagnostics with the run and order they belong to
type emitter struct {
	reporter domain.DiagnosticReporter
	clock    func() time.Time
	runID    string
	orderID  string
	warnings []domain.Diagnostic
}

func (e *emitter) emit(kind domain.DiagnosticKind, severity domain.Severity, message, detail string) {
	d := domain.Diagnostic{
		Kind:     kind,
		Severity: severity,
		RunID:    e.runID,
		OrderID:  e.orderID,
		Message:  message,
		Detail:   detail,
		At:       e.clock(),
	}
	if severity == domain.SeverityWarning {
		e.warnings = append(e.warnings, d)
	}
	e.reporter.Report(d)
}

// ReconcileBatch reconciles orders one after another. A failing order is
// recorded in Failed and does not affect the others. Cancellation is only
// observed between orders.
func (s *ReconciliationService) ReconcileBatch(ctx context.Context, inputs []domain.OrderInput) domain.BatchResult {
	result := domain.BatchResult{
		RunID:  uuid.NewString(),
		Orders: make([]domain.ReconcileResult, 0, len(inputs)),
	}

	for i := range inputs {
		if err := ctx.Err(); err != nil {
			for _, rest := range inputs[i:] {
				result.Failed = append(result.Failed, domain.FailedOrder{OrderID: rest.Order.OrderID, Error: err.Error()})
			}
			break
		}

		input := &inputs[i]
		reconciled, err := s.reconcile(ctx, result.RunID, &input.Order, input.Pages)
		if err != nil {
			s.reporter.Report(domain.Diagnostic{
				Kind:     domain.KindFailedOrder,
				Severity: domain.SeverityInfo,
				RunID:    result.RunID,
				OrderID:  input.Order.OrderID,
				Message:  "order reconciliation aborted",
				Detail:   err.Error(),
				At:       s.clock(),
			})
			result.Failed = append(result.Failed, domain.FailedOrder{OrderID: input.Order.OrderID, Error: err.Error()})
			continue
		}
		result.Orders = append(result.Orders, *reconciled)
	}

	log.Printf("[RECONCILE] Run %s: %d reconciled, %d failed", result.RunID, len(result.Orders), len(result.Failed))
	return result
}

// ReconcileOrder prices the items of order in place using the given pages
// and returns the per-order report. Orders without an id or a usable total
// are rejected with domain.ErrInvalidOrder or domain.ErrMissingOrderTotal.
// A cached result is returned with its warnings restamped to this run and
// reported again.
func (s *ReconciliationService) ReconcileOrder(ctx context.Context, order *domain.Order, pages []string) (*domain.ReconcileResult, error) {
	return s.reconcile(ctx, uuid.NewString(), order, pages)
}

func (s *ReconciliationService) reconcile(ctx context.Context, runID string, order *domain.Order, pages []string) (*domain.ReconcileResult, error) {
	if order == nil || strings.TrimSpace(order.OrderID) == "" {
		return nil, domain.ErrInvalidOrder
	}
	if !strings.ContainsAny(order.OrderTotal, "0123456789") {
		return nil, fmt.Errorf("%w: order %s has total %q", domain.ErrMissingOrderTotal, order.OrderID, order.OrderTotal)
	}

	cacheKey := s.generateCacheKey(order, pages)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		order.Items = cached.Order.Items
		s.replayWarnings(runID, cached)
		return cached, nil
	}

	em := &emitter{reporter: s.reporter, clock: s.clock, runID: runID, orderID: order.OrderID}
	result := &domain.ReconcileResult{}

	var matches []domain.MatchResult
	for pageIdx, page := range pages {
		fragments, err := s.fragments.Extract(page)
		if err != nil {
			em.emit(domain.KindMalformedFragment, domain.SeverityInfo, fmt.Sprintf("page %d could not be parsed: %v", pageIdx, err), page)
			continue
		}
		if len(fragments) == 0 {
			em.emit(domain.KindExtractionMiss, domain.SeverityDebug, fmt.Sprintf("page %d yielded no shipment fragments", pageIdx), "")
			continue
		}

		for _, raw := range fragments {
			result.FragmentCount++
			fragment, err := s.fields.Extract(raw)
			if err != nil {
				em.emit(domain.KindMalformedFragment, domain.SeverityInfo, err.Error(), raw)
				continue
			}
			s.reportMissingFields(em, fragment)

			match := s.matcher.Match(fragment, order.Items)
			if !match.Matched {
				em.emit(domain.KindMatchMiss, domain.SeverityInfo, match.Reason,
					fmt.Sprintf("productId=%q title=%q", fragment.ProductID, fragment.Title))
				match.Fragment.Raw = ""
				result.Unmatched = append(result.Unmatched, match)
				continue
			}
			result.Matched++
			matches = append(matches, match)
		}
	}

	items, fellBack := s.dedup.Merge(order.Items, matches)
	if fellBack && len(order.Items) > 0 {
		em.emit(domain.KindPricesLost, domain.SeverityInfo,
			"no fragment matched any line item, keeping original items", fmt.Sprintf("%d fragments", result.FragmentCount))
	}

	total := domain.ParseMoney(order.OrderTotal)
	allocation, err := s.allocator.Allocate(items, total)
	if err != nil {
		return nil, fmt.Errorf("allocating order %s: %w", order.OrderID, err)
	}
	if !allocation.Consistent {
		em.emit(domain.KindAllocationInconsistency, domain.SeverityWarning, allocation.Reason,
			fmt.Sprintf("total=%s known=%s remaining=%s", total, allocation.KnownSum, allocation.Remaining))
	}

	order.Items = allocation.Items
	result.Order = *order
	result.Warnings = em.warnings

	if s.debug {
		log.Printf("[RECONCILE] Order %s: %d fragments, %d matched, %d unmatched, %d items",
			order.OrderID, result.FragmentCount, result.Matched, len(result.Unmatched), len(order.Items))
	}

	if err := s.setInCache(ctx, cacheKey, result); err != nil {
		log.Printf("[RECONCILE] Cache write failed for order %s: %v", order.OrderID, err)
	}

	return result, nil
}

// replayWarnings restamps the warnings of a cached result with the current
// run and reports them again.
func (s *ReconciliationService) replayWarnings(runID string, cached *domain.ReconcileResult) {
	for i := range cached.Warnings {
		cached.Warnings[i].RunID = runID
		cached.Warnings[i].At = s.clock()
		s.reporter.Report(cached.Warnings[i])
	}
}

// reportMissingFields logs extraction misses at debug severity
func (s *ReconciliationService) reportMissingFields(em *emitter, fragment domain.ShipmentFragment) {
	var missing []string
	if fragment.Price == "" {
		missing = append(missing, "price")
	}
	if fragment.ProductID == "" {
		missing = append(missing, "productId")
	}
	if fragment.Title == "" {
		missing = append(missing, "title")
	}
	if !fragment.QuantityFound {
		missing = append(missing, "quantity")
	}
	if len(missing) > 0 {
		em.emit(domain.KindExtractionMiss, domain.SeverityDebug, "fields not found: "+strings.Join(missing, ", "), "")
	}
}

// generateCacheKey derives a key from the order and its markup.
// Format: "reconcile:{orderId}:{sha256 of total, items and pages}"
func (s *ReconciliationService) generateCacheKey(order *domain.Order, pages []string) string {
	h := sha256.New()
	h.Write([]byte(order.OrderTotal))
	if items, err := json.Marshal(order.Items); err == nil {
		h.Write(items)
	}
	for _, page := range pages {
		h.Write([]byte{0})
		h.Write([]byte(page))
	}
	return fmt.Sprintf("reconcile:%s:%s", order.OrderID, hex.EncodeToString(h.Sum(nil)))
}

// getFromCache retrieves a reconciled order from cache
func (s *ReconciliationService) getFromCache(ctx context.Context, key string) (*domain.ReconcileResult, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var result domain.ReconcileResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Join(domain.ErrCacheMiss, err)
	}
	return &result, nil
}

// setInCache stores a reconciled order in cache
func (s *ReconciliationService) setInCache(ctx context.Context, key string, result *domain.ReconcileResult) error {
	if s.cache == nil {
		return nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}
