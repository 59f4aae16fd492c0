package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/accommodation"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/api"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/booking"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/config"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/faq"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/feedback"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/file"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/notification"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/payment"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/storage"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/rate"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/rebooking"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/refund"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/user"
)

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	// Dispatcher must be started with Run for notifications to go out.
	Dispatcher *notification.Dispatcher

	UserService          user.Service
	AccommodationService accommodation.Service
	RateService          rate.Service
	FAQService           faq.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg *config.Config, pool *pgxpool.Pool, log *logrus.Logger) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTokenTTL)

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	// Notifications
	hub := notification.NewHub(log)
	var mailer notification.Mailer = notification.NewLogMailer(log)
	if cfg.Mail.SMTPHost != "" {
		mailer = notification.NewSMTPMailer(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.SMTPUsername, cfg.Mail.SMTPPassword, cfg.Mail.From)
	}
	dispatcher := notification.NewDispatcher(cfg.NotifyQueueSize, hub, mailer, cfg.Mail.AdminEmails, log)

	// User Module
	userService := user.NewService(user.NewPgxRepository(pool), passwordHasher, log)

	// File Module
	fileService := file.NewService(file.NewPgxRepository(pool), store, log)

	// Inventory
	accommodationService := accommodation.NewService(accommodation.NewPgxRepository(pool), fileService, log)
	rateService := rate.NewService(rate.NewPgxRepository(pool), accommodationService)

	// Booking Module
	pricer := booking.NewPricer(accommodationService, rateService)
	bookingService := booking.NewService(booking.NewPgxRepository(pool), pricer, dispatcher, cfg.DownPaymentPercent, log)

	// Rebooking, Payment and Refund Modules
	rebookingService := rebooking.NewService(rebooking.NewPgxRepository(pool), bookingService, pricer, dispatcher, cfg.RebookingFee, log)
	paymentService := payment.NewService(payment.NewPgxRepository(pool), bookingService, fileService, dispatcher, log)
	refundService := refund.NewService(refund.NewPgxRepository(pool), dispatcher, log)

	// Guest-facing content
	feedbackService := feedback.NewService(feedback.NewPgxRepository(pool), bookingService, dispatcher, log)
	faqService := faq.NewService(faq.NewPgxRepository(pool), log)

	router := api.NewRouter(api.Config{
		IsProduction:         cfg.IsProduction,
		ProdOrigins:          cfg.ProdOrigins,
		Logger:               log,
		UserService:          userService,
		AccommodationService: accommodationService,
		RateService:          rateService,
		BookingService:       bookingService,
		PaymentService:       paymentService,
		RefundService:        refundService,
		RebookingService:     rebookingService,
		FeedbackService:      feedbackService,
		FAQService:           faqService,
		FileService:          fileService,
		Hub:                  hub,
		JWTManager:           jwtManager,
	})

	return &Container{
		Router:               router,
		JWTManager:           jwtManager,
		Dispatcher:           dispatcher,
		UserService:          userService,
		AccommodationService: accommodationService,
		RateService:          rateService,
		FAQService:           faqService,
	}, nil
}
