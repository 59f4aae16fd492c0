package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/accommodation"
	accommodationHttp "github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/accommodation/http"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/booking"
	bookingHttp "github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/booking/http"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/faq"
	faqHttp "github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/faq/http"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/feedback"
	feedbackHttp "github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/feedback/http"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/file"
	fileHttp "github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/file/http"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/logging"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/notification"
	notificationHttp "github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/notification/http"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/payment"
	paymentHttp "github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/payment/http"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/rate"
	rateHttp "github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/rate/http"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/rebooking"
	rebookingHttp "github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/rebooking/http"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/refund"
	refundHttp "github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/refund/http"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/user"
	userHttp "github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/user/http"
)

// Config holds everything the router needs.
type Config struct {
	IsProduction bool
	// ProdOrigins is a comma separated list of origins allowed in production.
	ProdOrigins string
	Logger      *logrus.Logger

	UserService          user.Service
	AccommodationService accommodation.Service
	RateService          rate.Service
	BookingService       booking.Service
	PaymentService       payment.Service
	RefundService        refund.Service
	RebookingService     rebooking.Service
	FeedbackService      feedback.Service
	FAQService           faq.Service
	FileService          file.Service
	Hub                  *notification.Hub
	JWTManager           *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - RequestLogger: Tags each request with an id and logs the outcome.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(logging.RequestLogger(cfg.Logger), gin.Recovery())

	origins := allowedOrigins(cfg)
	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", logging.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{logging.RequestIDHeader}
	corsConfig.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// optionalAuth: Identifies the caller when a token is sent, lets guests through otherwise.
	optionalAuth := auth.OptionalAuth(cfg.JWTManager)
	// staffMiddleware / adminMiddleware: Re-check the role against the database.
	staffMiddleware := RequireRole(cfg.UserService, auth.RoleStaff, auth.RoleAdmin)
	adminMiddleware := RequireRole(cfg.UserService, auth.RoleAdmin)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	fileHandler := fileHttp.NewHandler(cfg.FileService)
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	accommodationHandler := accommodationHttp.NewHandler(cfg.AccommodationService, fileHandler)
	rateHandler := rateHttp.NewHandler(cfg.RateService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	paymentHandler := paymentHttp.NewHandler(cfg.PaymentService, fileHandler)
	refundHandler := refundHttp.NewHandler(cfg.RefundService)
	rebookingHandler := rebookingHttp.NewHandler(cfg.RebookingService)
	feedbackHandler := feedbackHttp.NewHandler(cfg.FeedbackService)
	faqHandler := faqHttp.NewHandler(cfg.FAQService)
	notificationHandler := notificationHttp.NewHandler(cfg.Hub, cfg.JWTManager, cfg.UserService, origins)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		fileHttp.RegisterRoutes(v1, fileHandler, optionalAuth)
		accommodationHttp.RegisterRoutes(v1, accommodationHandler, optionalAuth, authMiddleware, adminMiddleware)
		rateHttp.RegisterRoutes(v1, rateHandler, optionalAuth, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, optionalAuth, authMiddleware, adminMiddleware)
		paymentHttp.RegisterRoutes(v1, paymentHandler, authMiddleware, staffMiddleware)
		refundHttp.RegisterRoutes(v1, refundHandler, authMiddleware, staffMiddleware, adminMiddleware)
		rebookingHttp.RegisterRoutes(v1, rebookingHandler, authMiddleware, staffMiddleware)
		feedbackHttp.RegisterRoutes(v1, feedbackHandler, optionalAuth, authMiddleware, adminMiddleware)
		faqHttp.RegisterRoutes(v1, faqHandler, optionalAuth, authMiddleware, adminMiddleware)
		notificationHttp.RegisterRoutes(v1, notificationHandler)
	}

	return r
}

// allowedOrigins returns the CORS origins. Development allows the local
// admin UI; production uses PROD_ORIGINS. An empty result allows any origin.
func allowedOrigins(cfg Config) []string {
	if !cfg.IsProduction {
		return []string{"http://localhost:5173", "http://localhost:8081"}
	}
	var out []string
	for _, o := range strings.Split(cfg.ProdOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
