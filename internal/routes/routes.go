package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/horacerta/internal/audit"
	"github.com/BruksfildServices01/horacerta/internal/config"
	"github.com/BruksfildServices01/horacerta/internal/domain/billing"
	"github.com/BruksfildServices01/horacerta/internal/domain/chat"
	"github.com/BruksfildServices01/horacerta/internal/handlers"
	infraRepo "github.com/BruksfildServices01/horacerta/internal/infra/repository"
	"github.com/BruksfildServices01/horacerta/internal/metrics"
	"github.com/BruksfildServices01/horacerta/internal/middleware"
	"github.com/BruksfildServices01/horacerta/internal/notify"
	"github.com/BruksfildServices01/horacerta/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/horacerta/internal/usecase/appointment"
	ucChat "github.com/BruksfildServices01/horacerta/internal/usecase/chat"
	ucLoyalty "github.com/BruksfildServices01/horacerta/internal/usecase/loyalty"
	ucPayment "github.com/BruksfildServices01/horacerta/internal/usecase/payment"
	ucSchedule "github.com/BruksfildServices01/horacerta/internal/usecase/schedule"
	ucSubscription "github.com/BruksfildServices01/horacerta/internal/usecase/subscription"
	"github.com/BruksfildServices01/horacerta/pkg/logging"
)

// Deps are the process-wide collaborators built in main.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Logger *logging.Logger

	Messenger chat.Messenger
	Gateway   billing.Gateway
	Locker    ucChat.Locker
	Mailer    notify.EmailSender
	Audit     *audit.Dispatcher

	// Registry receives the application metrics and backs /metrics.
	Registry *prometheus.Registry

	Now func() time.Time
}

// Jobs are the background use cases main schedules.
type Jobs struct {
	Materialize *ucAppointment.MaterializeSubscriptions
}

func RegisterRoutes(r *gin.Engine, deps Deps) Jobs {
	cfg := deps.Config
	db := deps.DB
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}

	loc := timezone.Location(cfg.Timezone)

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	billingRepo := infraRepo.NewBillingGormRepository(db)
	balanceRepo := infraRepo.NewBalanceGormRepository(db)
	chatRepo := infraRepo.NewChatGormRepository(db)
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)

	bookingMetrics := metrics.NewBookingMetrics(deps.Registry)
	chatMetrics := metrics.NewChatMetrics(deps.Registry)

	appointmentDeps := ucAppointment.Deps{
		Audit:           deps.Audit,
		Metrics:         bookingMetrics,
		Logger:          deps.Logger,
		Location:        loc,
		WeeksToSchedule: cfg.WeeksToSchedule,
		Now:             deps.Now,
	}

	// ======================================================
	// 🧠 USE CASES: APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo, appointmentDeps)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(appointmentRepo, appointmentDeps)
	listUpcomingUC := ucAppointment.NewListUpcoming(appointmentRepo, appointmentDeps)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, appointmentDeps)
	materializeUC := ucAppointment.NewMaterializeSubscriptions(appointmentRepo, appointmentDeps)

	// ======================================================
	// 🧠 USE CASES: BILLING
	// ======================================================
	createOrderUC := ucPayment.NewCreateOrder(billingRepo, deps.Gateway, deps.Logger)
	countStampsUC := ucLoyalty.NewCountStamps(billingRepo)
	redeemRewardUC := ucLoyalty.NewRedeemReward(billingRepo, deps.Audit, deps.Now)
	createSubscriptionUC := ucSubscription.NewCreate(billingRepo, deps.Gateway, deps.Logger)
	cancelSubscriptionUC := ucSubscription.NewCancel(billingRepo, deps.Gateway, deps.Audit, deps.Now)
	createSchedulesUC := ucSchedule.NewCreateSchedules(scheduleRepo)

	// ======================================================
	// 🧠 CHAT ENGINE
	// ======================================================
	engine := ucChat.NewEngine(ucChat.Deps{
		Repo:         chatRepo,
		Messenger:    deps.Messenger,
		Locker:       deps.Locker,
		Availability: availabilityUC,
		Booker:       createAppointmentUC,
		Canceler:     cancelAppointmentUC,
		Upcoming:     listUpcomingUC,
		Wallet:       balanceRepo,
		Orders:       createOrderUC,
		Mailer:       deps.Mailer,
		Metrics:      chatMetrics,
		Logger:       deps.Logger,
	}, ucChat.Config{
		Window:        cfg.ChatSessionWindow,
		MaxSteps:      cfg.ChatMaxSteps,
		HiddenShopIDs: cfg.HiddenShopIDs,
		SiteURL:       cfg.PlatformSiteURL,
		Location:      loc,
		Now:           deps.Now,
	})

	webhookUC := ucPayment.NewHandleWebhook(billingRepo, deps.Gateway, engine, deps.Audit, deps.Logger, deps.Now)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db, balanceRepo)
	appointmentHandler := handlers.NewAppointmentHandler(listUpcomingUC, cancelAppointmentUC, loc)
	loyaltyHandler := handlers.NewLoyaltyHandler(countStampsUC, redeemRewardUC)
	subscriptionHandler := handlers.NewSubscriptionHandler(createSubscriptionUC, cancelSubscriptionUC)
	publicHandler := handlers.NewPublicHandler(db, availabilityUC)
	chatHandler := handlers.NewChatHandler(engine, deps.Logger)
	paymentHandler := handlers.NewPaymentHandler(webhookUC)
	adminHandler := handlers.NewAdminHandler(createSchedulesUC, materializeUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, loc)

	chatLimiter := middleware.NewRateLimiter(cfg.ChatRatePerMinute)

	// ======================================================
	// 📈 OBSERVABILIDADE
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 WEBHOOKS
		// ------------------------------
		api.POST("/chats", chatLimiter.Limit(), chatHandler.Receive)
		api.POST("/payments/webhook", paymentHandler.Webhook)

		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/shops", publicHandler.ListShops)
			publicAPI.GET("/:shopId/barbers", publicHandler.ListBarbers)
			publicAPI.GET("/:shopId/services", publicHandler.ListServices)
			publicAPI.GET("/:shopId/dates", publicHandler.Dates)
			publicAPI.GET("/:shopId/times", publicHandler.Times)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA (cliente)
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("", meHandler.GetMe)
			secured.GET("/balance", meHandler.Balance)

			secured.GET("/appointments", appointmentHandler.ListMine)
			secured.DELETE("/appointments/:id", appointmentHandler.Cancel)

			secured.GET("/stamps", loyaltyHandler.Stamps)
			secured.POST("/stamps/redeem", loyaltyHandler.Redeem)

			secured.POST("/subscriptions", subscriptionHandler.Create)
			secured.DELETE("/subscriptions/:id", subscriptionHandler.Cancel)
		}

		// ------------------------------
		// 🛠 ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AdminMiddleware(cfg.AdminToken))
		{
			admin.POST("/schedules", adminHandler.CreateSchedules)
			admin.POST("/jobs/materialize-subscriptions", adminHandler.MaterializeSubscriptions)
			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}

	return Jobs{Materialize: materializeUC}
}
