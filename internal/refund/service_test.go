package refund

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/logging"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/notification"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/payment"
)

// fakeRepository keeps the refunds of one payment in memory and runs the
// check the way the real repository does under the payment lock.
type fakeRepository struct {
	mock.Mock
	payment *payment.Payment
	issued  []ledger.RefundRecord
}

func (f *fakeRepository) CreateChecked(_ context.Context, r *Refund, check Check) error {
	if r.PaymentID != f.payment.ID {
		return payment.ErrNotFound
	}
	if err := check(f.payment, f.issued); err != nil {
		return err
	}
	f.issued = append(f.issued, r.Record())
	r.ID = fmt.Sprintf("r%d", len(f.issued))
	r.BookingID = f.payment.BookingID
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id string) (*Refund, error) {
	args := f.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Refund), args.Error(1)
}

func (f *fakeRepository) List(ctx context.Context, filter Filter) ([]*Refund, int, error) {
	args := f.Called(ctx, filter)
	return args.Get(0).([]*Refund), args.Int(1), args.Error(2)
}

type recordingPublisher struct {
	events []notification.Event
}

func (p *recordingPublisher) Publish(e notification.Event) {
	p.events = append(p.events, e)
}

var (
	admin = auth.Principal{UserID: "admin-1", Role: auth.RoleAdmin}
	staff = auth.Principal{UserID: "staff-1", Role: auth.RoleStaff}
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newFake() *fakeRepository {
	return &fakeRepository{payment: &payment.Payment{
		ID:        "p1",
		BookingID: "b1",
		Amount:    d("1000"),
		Method:    payment.MethodGCash,
	}}
}

func TestIssueRefundScenario(t *testing.T) {
	repo := newFake()
	pub := &recordingPublisher{}
	svc := NewService(repo, pub, logging.Discard())

	first, err := svc.Issue(context.Background(), admin, IssueRequest{PaymentID: "p1", Amount: d("400"), Reason: " typhoon "})
	require.NoError(t, err)
	assert.Equal(t, payment.MethodGCash, first.Method)
	assert.Equal(t, "typhoon", first.Reason)
	assert.Equal(t, "b1", first.BookingID)
	assert.Equal(t, admin.UserID, *first.IssuedBy)

	_, err = svc.Issue(context.Background(), admin, IssueRequest{PaymentID: "p1", Amount: d("700"), Method: "cash"})
	var rej *ledger.Rejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, ledger.FieldAmount, rej.Field)
	assert.Equal(t, "amount exceeds refundable balance of ₱600.00 for this payment", rej.Reason)

	last, err := svc.Issue(context.Background(), admin, IssueRequest{PaymentID: "p1", Amount: d("600"), Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, payment.MethodCash, last.Method)

	require.Len(t, pub.events, 2)
	assert.Equal(t, notification.RefundIssued, pub.events[0].Name)
	assert.Equal(t, "₱600.00", pub.events[0].Data["refundable"])
	assert.Equal(t, "₱0.00", pub.events[1].Data["refundable"])
}

func TestIssueRefundChecks(t *testing.T) {
	tests := []struct {
		name    string
		actor   auth.Principal
		req     IssueRequest
		wantErr error
	}{
		{"staff cannot refund", staff, IssueRequest{PaymentID: "p1", Amount: d("10")}, ErrPermissionDenied},
		{"missing payment", admin, IssueRequest{Amount: d("10")}, ErrPaymentRequired},
		{"unknown method", admin, IssueRequest{PaymentID: "p1", Amount: d("10"), Method: "barter"}, payment.ErrInvalidMethod},
		{"unknown payment", admin, IssueRequest{PaymentID: "p9", Amount: d("10")}, payment.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newFake(), notification.Discard, logging.Discard())
			_, err := svc.Issue(context.Background(), tt.actor, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestIssueRefundRejectsZero(t *testing.T) {
	svc := NewService(newFake(), notification.Discard, logging.Discard())
	_, err := svc.Issue(context.Background(), admin, IssueRequest{PaymentID: "p1", Amount: decimal.Zero})

	var rej *ledger.Rejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, "must be greater than zero", rej.Reason)
}

// spareCapacityRepository hands the check a refund slice with room to grow.
type spareCapacityRepository struct {
	*fakeRepository
	existing []ledger.RefundRecord
}

func (s *spareCapacityRepository) CreateChecked(_ context.Context, r *Refund, check Check) error {
	s.existing = make([]ledger.RefundRecord, 1, 4)
	s.existing[0] = ledger.RefundRecord{Amount: d("100")}
	if err := check(s.payment, s.existing); err != nil {
		return err
	}
	r.ID = "r1"
	return nil
}

func TestIssueRefundLeavesLockedRefundsUntouched(t *testing.T) {
	repo := &spareCapacityRepository{fakeRepository: newFake()}
	pub := &recordingPublisher{}
	svc := NewService(repo, pub, logging.Discard())

	_, err := svc.Issue(context.Background(), admin, IssueRequest{PaymentID: "p1", Amount: d("300")})
	require.NoError(t, err)

	assert.Len(t, repo.existing, 1)
	assert.Equal(t, ledger.RefundRecord{}, repo.existing[:2][1])
	require.Len(t, pub.events, 1)
	assert.Equal(t, "₱600.00", pub.events[0].Data["refundable"])
}
