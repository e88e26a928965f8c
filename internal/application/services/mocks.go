package services

import (
	"context"
	"sync"
	"time"

	"github.com/commercekit/amazonpay-gateway/internal/amazon"
	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockOrderRepository
type MockOrderRepository struct {
	mu      sync.RWMutex
	orders  map[string]*domain.OrderPayment
	refunds map[string][]domain.Refund

	CreateFn            func(ctx context.Context, order *domain.OrderPayment) error
	FindByIDFn          func(ctx context.Context, orderID string) (*domain.OrderPayment, error)
	FindByReferenceIDFn func(ctx context.Context, referenceID string) (*domain.OrderPayment, error)
	UpdateFn            func(ctx context.Context, order *domain.OrderPayment) error
	AddRefundFn         func(ctx context.Context, orderID string, refund domain.Refund) error
	RefundedTotalFn     func(ctx context.Context, orderID string) (decimal.Decimal, error)
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders:  make(map[string]*domain.OrderPayment),
		refunds: make(map[string][]domain.Refund),
	}
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.OrderPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateFn != nil {
		return m.CreateFn(ctx, order)
	}
	m.orders[order.OrderID] = order
	return nil
}

func (m *MockOrderRepository) FindByID(ctx context.Context, orderID string) (*domain.OrderPayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, orderID)
	}
	if o, ok := m.orders[orderID]; ok {
		return o, nil
	}
	return nil, domain.NewOrderNotFoundError(orderID)
}

func (m *MockOrderRepository) FindByReferenceID(ctx context.Context, referenceID string) (*domain.OrderPayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindByReferenceIDFn != nil {
		return m.FindByReferenceIDFn(ctx, referenceID)
	}
	for _, o := range m.orders {
		if o.ReferenceID != nil && *o.ReferenceID == referenceID {
			return o, nil
		}
	}
	return nil, domain.NewOrderNotFoundError(referenceID)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *domain.OrderPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, order)
	}
	m.orders[order.OrderID] = order
	return nil
}

func (m *MockOrderRepository) AddRefund(ctx context.Context, orderID string, refund domain.Refund) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddRefundFn != nil {
		return m.AddRefundFn(ctx, orderID, refund)
	}
	m.refunds[orderID] = append(m.refunds[orderID], refund)
	return nil
}

func (m *MockOrderRepository) RefundedTotal(ctx context.Context, orderID string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.RefundedTotalFn != nil {
		return m.RefundedTotalFn(ctx, orderID)
	}
	total := decimal.Zero
	for _, r := range m.refunds[orderID] {
		total = total.Add(r.Amount.Amount)
	}
	return total, nil
}

// MockNoteStore
type MockNoteStore struct {
	mu    sync.RWMutex
	notes map[string][]domain.OrderNote

	AddFn func(ctx context.Context, orderID, note string) error
}

func NewMockNoteStore() *MockNoteStore {
	return &MockNoteStore{notes: make(map[string][]domain.OrderNote)}
}

func (m *MockNoteStore) Add(ctx context.Context, orderID, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddFn != nil {
		return m.AddFn(ctx, orderID, note)
	}
	m.notes[orderID] = append(m.notes[orderID], domain.OrderNote{
		ID:        uuid.New().String(),
		OrderID:   orderID,
		Note:      note,
		CreatedAt: time.Now(),
	})
	return nil
}

func (m *MockNoteStore) FindByOrderID(ctx context.Context, orderID string) ([]domain.OrderNote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.notes[orderID], nil
}

// NotesFor returns the recorded note texts for assertions.
func (m *MockNoteStore) NotesFor(orderID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.notes[orderID]))
	for _, n := range m.notes[orderID] {
		out = append(out, n.Note)
	}
	return out
}

// MockScheduleStore
type MockScheduleStore struct {
	mu     sync.RWMutex
	checks map[string]application.ScheduledCheck

	ScheduleFn func(ctx context.Context, check application.ScheduledCheck) error
	CancelFn   func(ctx context.Context, orderID, kind string) error
	FindDueFn  func(ctx context.Context, now time.Time, limit int) ([]application.ScheduledCheck, error)
}

func NewMockScheduleStore() *MockScheduleStore {
	return &MockScheduleStore{checks: make(map[string]application.ScheduledCheck)}
}

func scheduleKey(orderID, kind string) string {
	return orderID + "/" + kind
}

func (m *MockScheduleStore) Schedule(ctx context.Context, check application.ScheduledCheck) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ScheduleFn != nil {
		return m.ScheduleFn(ctx, check)
	}
	m.checks[scheduleKey(check.OrderID, check.Kind)] = check
	return nil
}

func (m *MockScheduleStore) Cancel(ctx context.Context, orderID, kind string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CancelFn != nil {
		return m.CancelFn(ctx, orderID, kind)
	}
	delete(m.checks, scheduleKey(orderID, kind))
	return nil
}

func (m *MockScheduleStore) FindDue(ctx context.Context, now time.Time, limit int) ([]application.ScheduledCheck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindDueFn != nil {
		return m.FindDueFn(ctx, now, limit)
	}
	var due []application.ScheduledCheck
	for _, c := range m.checks {
		if !c.RunAt.After(now) {
			due = append(due, c)
			if len(due) == limit {
				break
			}
		}
	}
	return due, nil
}

// Scheduled reports whether a check is queued for the order.
func (m *MockScheduleStore) Scheduled(orderID, kind string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.checks[scheduleKey(orderID, kind)]
	return ok
}

// MockNotifier records buyer notifications per kind.
type MockNotifier struct {
	mu        sync.RWMutex
	OnHold    []string
	Declined  []string
	Completed []string

	PaymentOnHoldFn    func(ctx context.Context, orderID, email string) error
	PaymentDeclinedFn  func(ctx context.Context, orderID, email string) error
	PaymentCompletedFn func(ctx context.Context, orderID, email string) error
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) PaymentOnHold(ctx context.Context, orderID, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PaymentOnHoldFn != nil {
		return m.PaymentOnHoldFn(ctx, orderID, email)
	}
	m.OnHold = append(m.OnHold, orderID)
	return nil
}

func (m *MockNotifier) PaymentDeclined(ctx context.Context, orderID, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PaymentDeclinedFn != nil {
		return m.PaymentDeclinedFn(ctx, orderID, email)
	}
	m.Declined = append(m.Declined, orderID)
	return nil
}

func (m *MockNotifier) PaymentCompleted(ctx context.Context, orderID, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PaymentCompletedFn != nil {
		return m.PaymentCompletedFn(ctx, orderID, email)
	}
	m.Completed = append(m.Completed, orderID)
	return nil
}

// MockAmazonClient implements amazon.Client with per-call overrides and
// call counting.
type MockAmazonClient struct {
	mu    sync.Mutex
	Calls []string

	AuthorizeFn                func(ctx context.Context, req amazon.AuthorizeRequest) (*amazon.AuthorizationDetails, error)
	GetAuthorizationDetailsFn  func(ctx context.Context, authorizationID string) (*amazon.AuthorizationDetails, error)
	CloseAuthorizationFn       func(ctx context.Context, authorizationID string) error
	CaptureFn                  func(ctx context.Context, req amazon.CaptureRequest) (*amazon.CaptureDetails, error)
	GetCaptureDetailsFn        func(ctx context.Context, captureID string) (*amazon.CaptureDetails, error)
	RefundFn                   func(ctx context.Context, req amazon.RefundRequest) (*amazon.RefundDetails, error)
	GetRefundDetailsFn         func(ctx context.Context, refundID string) (*amazon.RefundDetails, error)
	GetOrderReferenceDetailsFn func(ctx context.Context, referenceID, accessToken string) (*amazon.OrderReferenceDetails, error)
	CancelOrderReferenceFn     func(ctx context.Context, referenceID, reason string) error
	CloseOrderReferenceFn      func(ctx context.Context, referenceID string) error
}

func NewMockAmazonClient() *MockAmazonClient {
	return &MockAmazonClient{}
}

func (m *MockAmazonClient) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

// CallCount returns how many times the named operation ran.
func (m *MockAmazonClient) CallCount(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == call {
			n++
		}
	}
	return n
}

func (m *MockAmazonClient) Authorize(ctx context.Context, req amazon.AuthorizeRequest) (*amazon.AuthorizationDetails, error) {
	m.record("Authorize")
	if m.AuthorizeFn != nil {
		return m.AuthorizeFn(ctx, req)
	}
	return &amazon.AuthorizationDetails{State: amazon.StateOpen}, nil
}

func (m *MockAmazonClient) GetAuthorizationDetails(ctx context.Context, authorizationID string) (*amazon.AuthorizationDetails, error) {
	m.record("GetAuthorizationDetails")
	if m.GetAuthorizationDetailsFn != nil {
		return m.GetAuthorizationDetailsFn(ctx, authorizationID)
	}
	return &amazon.AuthorizationDetails{AuthorizationID: authorizationID, State: amazon.StateOpen}, nil
}

func (m *MockAmazonClient) CloseAuthorization(ctx context.Context, authorizationID string) error {
	m.record("CloseAuthorization")
	if m.CloseAuthorizationFn != nil {
		return m.CloseAuthorizationFn(ctx, authorizationID)
	}
	return nil
}

func (m *MockAmazonClient) Capture(ctx context.Context, req amazon.CaptureRequest) (*amazon.CaptureDetails, error) {
	m.record("Capture")
	if m.CaptureFn != nil {
		return m.CaptureFn(ctx, req)
	}
	return &amazon.CaptureDetails{State: amazon.StateCompleted}, nil
}

func (m *MockAmazonClient) GetCaptureDetails(ctx context.Context, captureID string) (*amazon.CaptureDetails, error) {
	m.record("GetCaptureDetails")
	if m.GetCaptureDetailsFn != nil {
		return m.GetCaptureDetailsFn(ctx, captureID)
	}
	return &amazon.CaptureDetails{CaptureID: captureID, State: amazon.StateCompleted}, nil
}

func (m *MockAmazonClient) Refund(ctx context.Context, req amazon.RefundRequest) (*amazon.RefundDetails, error) {
	m.record("Refund")
	if m.RefundFn != nil {
		return m.RefundFn(ctx, req)
	}
	return &amazon.RefundDetails{RefundID: "refund-1", State: amazon.StatePending}, nil
}

func (m *MockAmazonClient) GetRefundDetails(ctx context.Context, refundID string) (*amazon.RefundDetails, error) {
	m.record("GetRefundDetails")
	if m.GetRefundDetailsFn != nil {
		return m.GetRefundDetailsFn(ctx, refundID)
	}
	return &amazon.RefundDetails{RefundID: refundID, State: amazon.StateCompleted}, nil
}

func (m *MockAmazonClient) GetOrderReferenceDetails(ctx context.Context, referenceID, accessToken string) (*amazon.OrderReferenceDetails, error) {
	m.record("GetOrderReferenceDetails")
	if m.GetOrderReferenceDetailsFn != nil {
		return m.GetOrderReferenceDetailsFn(ctx, referenceID, accessToken)
	}
	return &amazon.OrderReferenceDetails{ReferenceID: referenceID, State: amazon.StateOpen}, nil
}

func (m *MockAmazonClient) CancelOrderReference(ctx context.Context, referenceID, reason string) error {
	m.record("CancelOrderReference")
	if m.CancelOrderReferenceFn != nil {
		return m.CancelOrderReferenceFn(ctx, referenceID, reason)
	}
	return nil
}

func (m *MockAmazonClient) CloseOrderReference(ctx context.Context, referenceID string) error {
	m.record("CloseOrderReference")
	if m.CloseOrderReferenceFn != nil {
		return m.CloseOrderReferenceFn(ctx, referenceID)
	}
	return nil
}
