package main

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/righttechcentre/lms-api/internal/core/ports"
	"github.com/righttechcentre/lms-api/internal/core/service"
	"github.com/righttechcentre/lms-api/internal/infrastructure/db/mongo"
	"github.com/righttechcentre/lms-api/internal/infrastructure/db/redis"
	"github.com/righttechcentre/lms-api/internal/infrastructure/llm/openai"
	"github.com/righttechcentre/lms-api/internal/infrastructure/mail/sendgrid"
	"github.com/righttechcentre/lms-api/internal/infrastructure/payment/stripe"
	"github.com/righttechcentre/lms-api/internal/pkg/config"
	"github.com/righttechcentre/lms-api/pkg/logger"
)

// app holds the connected stores and the wired services.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	mongo *mongodriver.Client
	db    *mongodriver.Database
	redis *goredis.Client

	courseRepo     *mongo.CourseRepository
	enrollmentRepo *mongo.EnrollmentRepository

	auth         *service.AuthService
	users        *service.UserService
	courses      *service.CourseService
	enrollments  *service.EnrollmentService
	payments     *service.PaymentService
	tutor        *service.TutorService
	certificates *service.CertificateService
	analytics    *service.AnalyticsService
	seed         *service.SeedService
}

func loadConfig(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "lms-api",
	})
	return cfg, log, nil
}

// newApp connects to MongoDB (and Redis when configured), ensures indexes
// and wires every service.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	a := &app{cfg: cfg, log: log, mongo: client, db: db}

	var dedup service.DedupChecker
	redisCfg := redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	if redisCfg.Enabled() {
		rdb, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		a.redis = rdb
		dedup = redis.NewEventLedger(rdb)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, webhook dedup relies on the ledger guard only")
	}

	var gateway ports.PaymentGateway
	if cfg.Stripe.APIKey != "" {
		gateway = stripe.NewClient(stripe.Config{
			APIKey:        cfg.Stripe.APIKey,
			WebhookSecret: cfg.Stripe.WebhookSecret,
			BaseURL:       cfg.Stripe.BaseURL,
			Timeout:       cfg.Stripe.Timeout,
		}, logger.Component("stripe"))
	} else {
		log.Warn().Msg("STRIPE_API_KEY not set, payments disabled")
	}

	var model ports.ChatModel
	if cfg.LLM.APIKey != "" {
		model = openai.NewClient(openai.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		}, logger.Component("llm"))
	} else {
		log.Warn().Msg("LLM_API_KEY not set, AI tutor disabled")
	}

	var notifier ports.CertificateNotifier
	if cfg.Mail.SendGridAPIKey != "" {
		notifier = sendgrid.NewNotifier(sendgrid.Config{
			APIKey:   cfg.Mail.SendGridAPIKey,
			From:     cfg.Mail.From,
			FromName: cfg.Mail.FromName,
		}, logger.Component("mail"))
	}

	userRepo := mongo.NewUserRepository(db)
	a.courseRepo = mongo.NewCourseRepository(db)
	a.enrollmentRepo = mongo.NewEnrollmentRepository(db, cfg.Mongo.Transactions)
	paymentRepo := mongo.NewPaymentRepository(db)
	certRepo := mongo.NewCertificateRepository(db)
	chatRepo := mongo.NewChatRepository(db)

	a.auth = service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))
	a.users = service.NewUserService(userRepo, logger.Component("users"))
	a.courses = service.NewCourseService(a.courseRepo, logger.Component("courses"))
	a.enrollments = service.NewEnrollmentService(a.enrollmentRepo, a.courseRepo, logger.Component("enrollments"))
	a.payments = service.NewPaymentService(paymentRepo, a.courseRepo, a.enrollmentRepo, a.enrollments, gateway, dedup, cfg.Stripe.Currency, logger.Component("payments"))
	a.tutor = service.NewTutorService(model, chatRepo, logger.Component("tutor"))
	a.certificates = service.NewCertificateService(certRepo, a.enrollmentRepo, a.courseRepo, userRepo, notifier, cfg.Certificate.Prefix, logger.Component("certificates"))
	a.analytics = service.NewAnalyticsService(mongo.NewAnalyticsRepository(db))
	a.seed = service.NewSeedService(a.courseRepo, userRepo, service.AdminAccount{
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	}, logger.Component("seed"))

	return a, nil
}

func (a *app) pingMongo(ctx context.Context) error {
	return a.mongo.Ping(ctx, nil)
}

func (a *app) pingRedis(ctx context.Context) error {
	return a.redis.Ping(ctx).Err()
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn().Err(err).Msg("redis close")
		}
	}
	if err := a.mongo.Disconnect(ctx); err != nil {
		a.log.Warn().Err(err).Msg("mongo disconnect")
	}
}
