package feedback

import (
	"context"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/booking"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/notification"
)

type SubmitRequest struct {
	// BookingID optionally ties the feedback to a stay. Guests without an
	// account must give the email the booking was made with.
	BookingID *string
	Name      string
	Email     string
	Rating    int
	Comment   string
}

type Service interface {
	Submit(ctx context.Context, actor auth.Principal, req SubmitRequest) (*Feedback, error)
	GetByID(ctx context.Context, id string) (*Feedback, error)
	List(ctx context.Context, filter Filter) ([]*Feedback, int, error)
	SetPublished(ctx context.Context, id string, published bool) (*Feedback, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo      Repository
	bookings  booking.Service
	publisher notification.Publisher
	log       logrus.FieldLogger
}

func NewService(repo Repository, bookings booking.Service, publisher notification.Publisher, log logrus.FieldLogger) Service {
	return &service{repo: repo, bookings: bookings, publisher: publisher, log: log}
}

func (s *service) Submit(ctx context.Context, actor auth.Principal, req SubmitRequest) (*Feedback, error) {
	if req.Rating < MinRating || req.Rating > MaxRating {
		return nil, ErrInvalidRating
	}

	f := &Feedback{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
	}
	if !actor.IsAnonymous() {
		userID := actor.UserID
		f.UserID = &userID
	}

	if req.BookingID != nil && *req.BookingID != "" {
		b, err := s.stay(ctx, actor, *req.BookingID, f.Email)
		if err != nil {
			return nil, err
		}
		f.BookingID = &b.ID
		if f.Name == "" {
			f.Name = b.GuestName
		}
		if f.Email == "" {
			f.Email = b.GuestEmail
		}
	}
	if f.Name == "" {
		return nil, ErrNameRequired
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"feedback_id": f.ID,
		"rating":      f.Rating,
	}).Info("feedback submitted")

	s.publisher.Publish(notification.Event{
		Name:       notification.FeedbackSubmitted,
		Subject:    "New feedback from " + f.Name,
		OccurredAt: f.CreatedAt,
		Data: map[string]string{
			"feedback_id": f.ID,
			"guest_name":  f.Name,
			"rating":      strconv.Itoa(f.Rating),
			"comment":     f.Comment,
		},
	})
	return f, nil
}

// stay resolves the referenced booking. Customers may only reference their
// own bookings; guests prove ownership with the booking email.
func (s *service) stay(ctx context.Context, actor auth.Principal, bookingID, email string) (*booking.Booking, error) {
	if actor.IsAnonymous() {
		if email == "" {
			return nil, booking.ErrNotFound
		}
		return s.bookings.Lookup(ctx, bookingID, email)
	}
	return s.bookings.Get(ctx, actor, bookingID)
}

func (s *service) GetByID(ctx context.Context, id string) (*Feedback, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Feedback, int, error) {
	if filter.Rating != 0 && (filter.Rating < MinRating || filter.Rating > MaxRating) {
		return nil, 0, ErrInvalidRating
	}
	return s.repo.List(ctx, filter)
}

func (s *service) SetPublished(ctx context.Context, id string, published bool) (*Feedback, error) {
	f, err := s.repo.SetPublished(ctx, id, published)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"feedback_id": id,
		"published":   published,
	}).Info("feedback visibility changed")
	return f, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("feedback_id", id).Info("feedback deleted")
	return nil
}

