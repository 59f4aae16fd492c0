package feedback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/booking"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/logging"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/notification"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, f *Feedback) error {
	if err := m.Called(ctx, f).Error(0); err != nil {
		return err
	}
	f.ID = "fb-1"
	return nil
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Feedback), args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, filter Filter) ([]*Feedback, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*Feedback), args.Int(1), args.Error(2)
}

func (m *mockRepository) SetPublished(ctx context.Context, id string, published bool) (*Feedback, error) {
	args := m.Called(ctx, id, published)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Feedback), args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// stubBookings knows one booking, b1, owned by cust-1 and made with
// ana@example.com.
type stubBookings struct {
	booking.Service
}

func (stubBookings) known() *booking.Booking {
	owner := "cust-1"
	return &booking.Booking{ID: "b1", UserID: &owner, GuestName: "Ana Reyes", GuestEmail: "ana@example.com"}
}

func (s stubBookings) Get(_ context.Context, actor auth.Principal, id string) (*booking.Booking, error) {
	b := s.known()
	if id != b.ID || (!actor.IsStaff() && actor.UserID != *b.UserID) {
		return nil, booking.ErrNotFound
	}
	return b, nil
}

func (s stubBookings) Lookup(_ context.Context, id, email string) (*booking.Booking, error) {
	b := s.known()
	if id != b.ID || email != b.GuestEmail {
		return nil, booking.ErrNotFound
	}
	return b, nil
}

type recordingPublisher struct {
	events []notification.Event
}

func (p *recordingPublisher) Publish(e notification.Event) {
	p.events = append(p.events, e)
}

var customer = auth.Principal{UserID: "cust-1", Role: auth.RoleCustomer}

func ref(s string) *string { return &s }

func TestSubmitForOwnBooking(t *testing.T) {
	repo := new(mockRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(f *Feedback) bool {
		return f.BookingID != nil && *f.BookingID == "b1" &&
			f.UserID != nil && *f.UserID == "cust-1" &&
			f.Name == "Ana Reyes" && f.Email == "ana@example.com" && !f.IsPublished
	})).Return(nil)
	pub := &recordingPublisher{}
	svc := NewService(repo, stubBookings{}, pub, logging.Discard())

	f, err := svc.Submit(context.Background(), customer, SubmitRequest{
		BookingID: ref("b1"),
		Rating:    5,
		Comment:   " Lovely sunsets. ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Lovely sunsets.", f.Comment)

	require.Len(t, pub.events, 1)
	assert.Equal(t, notification.FeedbackSubmitted, pub.events[0].Name)
	assert.Equal(t, "Ana Reyes", pub.events[0].Data["guest_name"])
	assert.Equal(t, "5", pub.events[0].Data["rating"])
	repo.AssertExpectations(t)
}

func TestSubmitForSomeoneElsesBooking(t *testing.T) {
	svc := NewService(new(mockRepository), stubBookings{}, notification.Discard, logging.Discard())

	other := auth.Principal{UserID: "cust-2", Role: auth.RoleCustomer}
	_, err := svc.Submit(context.Background(), other, SubmitRequest{BookingID: ref("b1"), Rating: 4})
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestSubmitAsGuest(t *testing.T) {
	repo := new(mockRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(f *Feedback) bool {
		return f.UserID == nil && *f.BookingID == "b1"
	})).Return(nil)
	svc := NewService(repo, stubBookings{}, notification.Discard, logging.Discard())

	_, err := svc.Submit(context.Background(), auth.Principal{}, SubmitRequest{
		BookingID: ref("b1"),
		Email:     "ANA@example.com",
		Rating:    3,
	})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), auth.Principal{}, SubmitRequest{BookingID: ref("b1"), Rating: 3})
	assert.ErrorIs(t, err, booking.ErrNotFound)

	_, err = svc.Submit(context.Background(), auth.Principal{}, SubmitRequest{
		BookingID: ref("b1"),
		Email:     "someone@example.com",
		Rating:    3,
	})
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestSubmitChecks(t *testing.T) {
	svc := NewService(new(mockRepository), stubBookings{}, notification.Discard, logging.Discard())

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Submit(context.Background(), customer, SubmitRequest{Name: "Ana", Rating: rating})
		assert.ErrorIs(t, err, ErrInvalidRating, "rating %d", rating)
	}

	_, err := svc.Submit(context.Background(), auth.Principal{}, SubmitRequest{Name: "  ", Rating: 4})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestSetPublished(t *testing.T) {
	repo := new(mockRepository)
	repo.On("SetPublished", mock.Anything, "fb-1", true).Return(&Feedback{ID: "fb-1", IsPublished: true}, nil)
	svc := NewService(repo, stubBookings{}, notification.Discard, logging.Discard())

	f, err := svc.SetPublished(context.Background(), "fb-1", true)
	require.NoError(t, err)
	assert.True(t, f.IsPublished)
}

func TestListRejectsBadRating(t *testing.T) {
	svc := NewService(new(mockRepository), stubBookings{}, notification.Discard, logging.Discard())
	_, _, err := svc.List(context.Background(), Filter{Rating: 9})
	assert.ErrorIs(t, err, ErrInvalidRating)
}
