package bootstrap

import (
	"context"
	"log"

	"member-access-be/internal/config"
	"member-access-be/internal/controller"
	"member-access-be/internal/handler"
	"member-access-be/internal/pkg/locker"
	"member-access-be/internal/pkg/logger"
	"member-access-be/internal/pkg/mailer"
	"member-access-be/internal/repository/implementation"
	"member-access-be/internal/repository/unitofwork"
	"member-access-be/internal/service"
	"member-access-be/internal/websocket"
	"member-access-be/pkg/admin/audit"
	adminEvents "member-access-be/pkg/admin/events"
	"member-access-be/pkg/admin/grant"
	"member-access-be/pkg/admin/lifecycle"
	"member-access-be/pkg/admin/refund"
	"member-access-be/pkg/provider/community"
	"member-access-be/pkg/provider/course"
	"member-access-be/pkg/provider/payment"
	pkgSync "member-access-be/pkg/sync"

	pktNats "member-access-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const adminAlertTopic = "ADMIN_ALERTS"

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	AdminController   controller.IAdminController
	CatalogController controller.ICatalogController

	// Background Services (Exposed for main.go to run)
	NotifyConsumerService service.INotifyConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
	)

	// 2. In-process bus for fire-and-forget admin alerts
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	grantLocker := locker.NewRedisLocker(rdb)

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// External providers
	communityProvider := community.NewClient(cfg.Providers.CommunityBaseURL, cfg.Providers.CommunityToken)
	courseProvider := course.NewClient(cfg.Providers.CourseBaseURL, cfg.Providers.CourseToken)
	paymentProvider := payment.NewMidtransProvider(cfg.Providers.MidtransServerKey, cfg.Providers.MidtransProduction)
	syncCoordinator := pkgSync.NewCoordinator(communityProvider, courseProvider, cfg.Providers.Timeout, sysLogger)

	// 3. Domain Components
	adminEventPublisher := adminEvents.NewNatsPublisher(natsPub, sysLogger)
	auditRecorder := audit.NewRecorder(sysLogger)

	notifyService := service.NewNotifyService(pubSub, adminAlertTopic)
	notifyConsumer := service.NewNotifyConsumerService(pubSub, adminAlertTopic, emailService, cfg.SMTP.AdminEmail)

	grantOrchestrator := grant.NewOrchestrator(sysLogger, syncCoordinator, grantLocker, auditRecorder, adminEventPublisher, notifyService)
	lifecycleMachine := lifecycle.NewMachine(sysLogger, syncCoordinator, auditRecorder, adminEventPublisher)
	refundOrchestrator := refund.NewOrchestrator(sysLogger, paymentProvider, lifecycleMachine, auditRecorder, adminEventPublisher)

	// 4. Services
	authService := service.NewAuthService(uowFactory, cfg.Auth)
	accessService := service.NewAccessService(uowFactory, sysLogger, grantOrchestrator, lifecycleMachine, refundOrchestrator)
	catalogService := service.NewCatalogService(uowFactory)

	// 5. Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger) // Hub implements NotificationDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	// 6. Controllers
	return &Container{
		AuthController:    controller.NewAuthController(authService),
		AdminController:   controller.NewAdminController(accessService),
		CatalogController: controller.NewCatalogController(catalogService),

		NotifyConsumerService: notifyConsumer,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
