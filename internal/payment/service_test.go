package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/booking"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/file"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/logging"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/notification"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/rebooking"
)

type mockRepository struct {
	mock.Mock
}

// CreateChecked runs check against the configured State, the way the real
// repository does while the rows are locked.
func (m *mockRepository) CreateChecked(ctx context.Context, p *Payment, check func(State) error) error {
	args := m.Called(ctx, p)
	if err := args.Error(1); err != nil {
		return err
	}
	if err := check(args.Get(0).(State)); err != nil {
		return err
	}
	p.ID = "p-new"
	return nil
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, filter Filter) ([]*Payment, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*Payment), args.Int(1), args.Error(2)
}

func (m *mockRepository) SetReceipt(ctx context.Context, id, fileID string) (*string, error) {
	args := m.Called(ctx, id, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

type stubBookings struct {
	booking.Service
	owner string
}

func (s stubBookings) Get(_ context.Context, actor auth.Principal, id string) (*booking.Booking, error) {
	if !actor.IsStaff() && actor.UserID != s.owner {
		return nil, booking.ErrNotFound
	}
	return &booking.Booking{ID: id}, nil
}

type recordingFiles struct {
	file.Service
	deleted []string
}

func (f *recordingFiles) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type recordingPublisher struct {
	events []notification.Event
}

func (p *recordingPublisher) Publish(e notification.Event) {
	p.events = append(p.events, e)
}

var (
	fixedNow = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	staff    = auth.Principal{UserID: "staff-1", Role: auth.RoleStaff}
	customer = auth.Principal{UserID: "cust-1", Role: auth.RoleCustomer}
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestService(repo Repository, files file.Service, pub notification.Publisher) *service {
	s := NewService(repo, stubBookings{owner: customer.UserID}, files, pub, logging.Discard()).(*service)
	s.now = func() time.Time { return fixedNow }
	return s
}

// bookingState is a 5000 booking with 2000 already paid.
func bookingState() State {
	return State{Booking: &booking.Booking{
		ID:          "b1",
		GuestName:   "Ana Reyes",
		Status:      booking.StatusConfirmed,
		TotalAmount: d("5000"),
		Payments:    []ledger.PaymentRecord{{ID: "p1", Amount: d("2000")}},
	}}
}

// rebookingState adds a rebooking from 4000 to 4500 with a 200 fee.
func rebookingState() State {
	st := bookingState()
	st.Rebooking = &rebooking.Rebooking{
		ID:             "rb1",
		BookingID:      "b1",
		OriginalAmount: d("4000"),
		NewAmount:      d("4500"),
		RebookingFee:   d("200"),
		Status:         rebooking.StatusApproved,
	}
	return st
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var r *ledger.Rejection
	require.True(t, errors.As(err, &r), "expected a ledger rejection, got %v", err)
	return map[string]string{r.Field: r.Reason}
}

func TestRecordPaymentScenario(t *testing.T) {
	repo := new(mockRepository)
	repo.On("CreateChecked", mock.Anything, mock.Anything).Return(bookingState(), nil)
	pub := &recordingPublisher{}
	svc := newTestService(repo, nil, pub)

	_, err := svc.Record(context.Background(), staff, RecordRequest{BookingID: "b1", Amount: d("3500"), Method: "cash"})
	assert.Equal(t, map[string]string{ledger.FieldAmount: "amount exceeds remaining balance of ₱3,000.00"}, fieldsOf(t, err))
	assert.Empty(t, pub.events)

	receipt, err := svc.Record(context.Background(), staff, RecordRequest{
		BookingID:       "b1",
		Amount:          d("3000"),
		Method:          "gcash",
		ReferenceNumber: " 0917-123 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "p-new", receipt.Payment.ID)
	assert.True(t, decimal.Zero.Equal(receipt.Balance))
	assert.Equal(t, "0917-123", receipt.Payment.ReferenceNumber)
	assert.Equal(t, fixedNow, receipt.Payment.PaidAt)
	assert.Equal(t, staff.UserID, *receipt.Payment.RecordedBy)

	require.Len(t, pub.events, 1)
	e := pub.events[0]
	assert.Equal(t, notification.PaymentRecorded, e.Name)
	assert.Equal(t, "payment", e.Data["kind"])
	assert.Equal(t, "₱3,000.00", e.Data["amount"])
	assert.Equal(t, "₱0.00", e.Data["balance"])
	assert.NotContains(t, e.Data, "rebooking_id")
}

func TestRecordDownPaymentWithoutRequirement(t *testing.T) {
	repo := new(mockRepository)
	repo.On("CreateChecked", mock.Anything, mock.Anything).Return(bookingState(), nil)
	svc := newTestService(repo, nil, notification.Discard)

	_, err := svc.Record(context.Background(), staff, RecordRequest{BookingID: "b1", Amount: d("100"), IsDownPayment: true, Method: "cash"})
	assert.Contains(t, fieldsOf(t, err), ledger.FieldIsDownPayment)
}

func TestRecordRebookingPaymentScenario(t *testing.T) {
	repo := new(mockRepository)
	repo.On("CreateChecked", mock.Anything, mock.Anything).Return(rebookingState(), nil)
	pub := &recordingPublisher{}
	svc := newTestService(repo, nil, pub)

	req := RecordRequest{BookingID: "b1", RebookingID: "rb1", Amount: d("800"), Method: "card"}
	_, err := svc.Record(context.Background(), staff, req)
	assert.Equal(t, map[string]string{ledger.FieldAmount: "amount exceeds remaining rebooking adjustment of ₱700.00"}, fieldsOf(t, err))

	req.Amount = d("700")
	receipt, err := svc.Record(context.Background(), staff, req)
	require.NoError(t, err)
	assert.True(t, receipt.Payment.IsRebookingPayment)
	assert.Equal(t, "rb1", *receipt.Payment.RebookingID)
	assert.True(t, decimal.Zero.Equal(receipt.Balance))

	require.Len(t, pub.events, 1)
	assert.Equal(t, "rebooking payment", pub.events[0].Data["kind"])
	assert.Equal(t, "rb1", pub.events[0].Data["rebooking_id"])
}

func TestRecordRejectsBadState(t *testing.T) {
	closed := bookingState()
	closed.Booking.Status = booking.StatusCheckedOut

	foreign := rebookingState()
	foreign.Rebooking.BookingID = "b2"

	rejected := rebookingState()
	rejected.Rebooking.Status = rebooking.StatusRejected

	tests := []struct {
		name    string
		state   State
		req     RecordRequest
		wantErr error
	}{
		{"checked-out booking", closed, RecordRequest{BookingID: "b1", Amount: d("100"), Method: "cash"}, ErrBookingClosed},
		{"rebooking of another booking", foreign, RecordRequest{BookingID: "b1", RebookingID: "rb1", Amount: d("100"), Method: "cash"}, ErrRebookingNotFound},
		{"rejected rebooking", rejected, RecordRequest{BookingID: "b1", RebookingID: "rb1", Amount: d("100"), Method: "cash"}, ErrRebookingClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepository)
			repo.On("CreateChecked", mock.Anything, mock.Anything).Return(tt.state, nil)
			svc := newTestService(repo, nil, notification.Discard)

			_, err := svc.Record(context.Background(), staff, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRecordUnknownRebooking(t *testing.T) {
	repo := new(mockRepository)
	repo.On("CreateChecked", mock.Anything, mock.Anything).Return(State{}, rebooking.ErrNotFound)
	svc := newTestService(repo, nil, notification.Discard)

	_, err := svc.Record(context.Background(), staff, RecordRequest{BookingID: "b1", RebookingID: "rb9", Amount: d("100"), Method: "cash"})
	assert.ErrorIs(t, err, ErrRebookingNotFound)
}

func TestRecordRequestChecks(t *testing.T) {
	future := fixedNow.Add(time.Hour)

	tests := []struct {
		name    string
		actor   auth.Principal
		req     RecordRequest
		wantErr error
	}{
		{"customer", customer, RecordRequest{BookingID: "b1", Amount: d("100"), Method: "cash"}, ErrPermissionDenied},
		{"no booking", staff, RecordRequest{Amount: d("100"), Method: "cash"}, ErrBookingRequired},
		{"unknown method", staff, RecordRequest{BookingID: "b1", Amount: d("100"), Method: "barter"}, ErrInvalidMethod},
		{"paid in the future", staff, RecordRequest{BookingID: "b1", Amount: d("100"), Method: "cash", PaidAt: &future}, ErrPaidAtInFuture},
		{"rebooking down payment", staff, RecordRequest{BookingID: "b1", RebookingID: "rb1", Amount: d("100"), IsDownPayment: true, Method: "cash"}, ErrRebookingDownPayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepository)
			svc := newTestService(repo, nil, notification.Discard)

			_, err := svc.Record(context.Background(), tt.actor, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "CreateChecked", mock.Anything, mock.Anything)
		})
	}
}

func TestGetScopesCustomers(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetByID", mock.Anything, "p1").Return(&Payment{ID: "p1", BookingID: "b1"}, nil)
	svc := newTestService(repo, nil, notification.Discard)

	_, err := svc.Get(context.Background(), auth.Principal{UserID: "cust-2", Role: auth.RoleCustomer}, "p1")
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := svc.Get(context.Background(), customer, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
}

func TestListRequiresBookingForCustomers(t *testing.T) {
	repo := new(mockRepository)
	repo.On("List", mock.Anything, Filter{BookingID: "b1"}).Return([]*Payment{}, 0, nil)
	svc := newTestService(repo, nil, notification.Discard)

	_, _, err := svc.List(context.Background(), customer, Filter{})
	assert.ErrorIs(t, err, ErrBookingRequired)

	_, _, err = svc.List(context.Background(), customer, Filter{BookingID: "b1"})
	require.NoError(t, err)

	_, _, err = svc.List(context.Background(), staff, Filter{Method: "barter"})
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestAttachReceiptDeletesReplacedFile(t *testing.T) {
	old := "f-old"
	repo := new(mockRepository)
	repo.On("SetReceipt", mock.Anything, "p1", "f-new").Return(&old, nil)
	files := &recordingFiles{}
	svc := newTestService(repo, files, notification.Discard)

	require.NoError(t, svc.AttachReceipt(context.Background(), staff, "p1", "f-new"))
	assert.Equal(t, []string{"f-old"}, files.deleted)

	assert.ErrorIs(t, svc.AttachReceipt(context.Background(), customer, "p1", "f-new"), ErrPermissionDenied)
}

func TestRecordLeavesLockedPaymentsUntouched(t *testing.T) {
	payments := make([]ledger.PaymentRecord, 1, 4)
	payments[0] = ledger.PaymentRecord{ID: "p1", Amount: d("2000")}
	st := bookingState()
	st.Booking.Payments = payments

	repo := new(mockRepository)
	repo.On("CreateChecked", mock.Anything, mock.Anything).Return(st, nil)
	svc := newTestService(repo, nil, notification.Discard)

	receipt, err := svc.Record(context.Background(), staff, RecordRequest{BookingID: "b1", Amount: d("1000"), Method: "cash"})
	require.NoError(t, err)
	assert.True(t, d("2000").Equal(receipt.Balance))

	assert.Len(t, st.Booking.Payments, 1)
	assert.Equal(t, ledger.PaymentRecord{}, payments[:2][1])
}
