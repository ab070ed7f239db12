package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fitfolio/internal/auth"
	"fitfolio/internal/booking"
	"fitfolio/internal/class"
	"fitfolio/internal/config"
	"fitfolio/internal/email"
	"fitfolio/internal/forum"
	"fitfolio/internal/logger"
	"fitfolio/internal/newsletter"
	"fitfolio/internal/payment"
	"fitfolio/internal/review"
	"fitfolio/internal/slot"
	"fitfolio/internal/stats"
	"fitfolio/internal/trainer"
	"fitfolio/internal/user"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	config *config.Config
}

type handlers struct {
	auth       *auth.Handler
	users      *user.Handler
	trainers   *trainer.Handler
	classes    *class.Handler
	slots      *slot.Handler
	bookings   *booking.Handler
	forums     *forum.Handler
	reviews    *review.Handler
	newsletter *newsletter.Handler
	payments   *payment.Handler
	stats      *stats.Handler
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service, payments payment.IntentCreator) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware(cfg.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	trainerRepo := trainer.NewRepository(db)
	classRepo := class.NewRepository(db)
	slotRepo := slot.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	subscriberRepo := newsletter.NewRepository(db)
	bookingService := booking.NewService(bookingRepo, trainerRepo, classRepo, slotRepo, emailService)

	h := handlers{
		auth:       auth.NewHandler(cfg.JWTSecret),
		users:      user.NewHandler(userService),
		trainers:   trainer.NewHandler(trainer.NewService(trainerRepo, emailService)),
		classes:    class.NewHandler(class.NewService(classRepo)),
		slots:      slot.NewHandler(slot.NewService(slotRepo, trainerRepo, classRepo)),
		bookings:   booking.NewHandler(bookingService),
		forums:     forum.NewHandler(forum.NewService(forum.NewRepository(db), userRepo)),
		reviews:    review.NewHandler(review.NewService(review.NewRepository(db), bookingRepo)),
		newsletter: newsletter.NewHandler(subscriberRepo, emailService),
		payments:   payment.NewHandler(payments, cfg.Currency),
		stats:      stats.NewHandler(subscriberRepo, bookingRepo),
	}

	registerRoutes(router, h, auth.AuthMiddleware(cfg.JWTSecret), userService)

	router.GET("/", Root)
	router.GET("/health", Health(db))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	admin := router.Group("/admin", auth.AuthMiddleware(cfg.JWTSecret), auth.RequireRole(userService, user.RoleAdmin))
	admin.GET("/test-email", TestEmail(emailService))

	return &Server{
		router: router,
		config: cfg,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func registerRoutes(router *gin.Engine, h handlers, authn gin.HandlerFunc, roles auth.RoleLookup) {
	router.POST("/jwt", h.auth.IssueToken)
	router.POST("/register", h.users.Register)
	router.POST("/social-login", h.users.SocialLogin)
	router.GET("/user/role/:email", h.users.GetRole)
	router.POST("/newsletter/subscribe", h.newsletter.Subscribe)
	router.GET("/classes", h.classes.List)
	router.GET("/classes/featured", h.classes.Featured)
	router.GET("/reviews", h.reviews.List)
	router.GET("/forums/latest", h.forums.Latest)
	router.GET("/trainers/approved", h.trainers.ListApproved)
	router.GET("/trainers/featured", h.trainers.ListFeatured)
	router.GET("/trainers-by-class/:className", h.trainers.ListByClass)
	router.GET("/trainerdetails/:id", h.trainers.GetByID)
	router.GET("/slots/trainers/:email", h.slots.ListAvailable)
	router.POST("/create-payment-intent", h.payments.CreateIntent)

	member := router.Group("/", authn)
	{
		member.POST("/trainer/apply", h.trainers.Apply)
		member.GET("/trainer/applications/activity-log", h.trainers.ActivityLog)
		member.POST("/check-slot-availability", h.slots.CheckAvailability)
		member.POST("/order", h.bookings.PlaceOrder)
		member.GET("/bookings", h.bookings.ListMine)
		member.GET("/forums/:id", h.forums.Get)
		member.POST("/forums/:id/vote", h.forums.Vote)
		member.POST("/reviews", h.reviews.Create)
	}

	admin := router.Group("/", authn, auth.RequireRole(roles, user.RoleAdmin))
	{
		admin.GET("/trainer/applications", h.trainers.ListApplications)
		admin.PATCH("/trainer/applications/:id/approve", h.trainers.Approve)
		admin.PATCH("/trainer/applications/:id/reject", h.trainers.Reject)
		admin.PATCH("/users/remove-trainer/:id", h.trainers.Demote)
		admin.GET("/users/trainers", h.users.ListTrainers)
		admin.POST("/classes", h.classes.Create)
		admin.GET("/newsletter/all", h.newsletter.ListAll)
		admin.GET("/admin/booking-summary", h.bookings.Summary)
		admin.GET("/admin/overview-counts", h.stats.Overview)
	}

	trainers := router.Group("/", authn, auth.RequireRole(roles, user.RoleTrainer))
	{
		trainers.POST("/add-slot", h.slots.Add)
		trainers.DELETE("/slot/:id", h.slots.Delete)
		trainers.GET("/slots/:trainerEmail", h.slots.ListOwn)
		trainers.GET("/trainer/details/:email", h.trainers.GetByEmail)
	}

	staff := router.Group("/", authn, auth.RequireRole(roles, user.RoleAdmin, user.RoleTrainer))
	staff.POST("/forums", h.forums.Create)
}

func (s *Server) Router() http.Handler {
	return s.router
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	logger.Info("server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
