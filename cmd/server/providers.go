package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/aifirstlegal/masterclass-server/internal/config"
	"github.com/aifirstlegal/masterclass-server/internal/domain/admin"
	"github.com/aifirstlegal/masterclass-server/internal/domain/chat"
	"github.com/aifirstlegal/masterclass-server/internal/domain/chatlog"
	"github.com/aifirstlegal/masterclass-server/internal/domain/instruction"
	"github.com/aifirstlegal/masterclass-server/internal/domain/intake"
	"github.com/aifirstlegal/masterclass-server/internal/domain/knowledge"
	"github.com/aifirstlegal/masterclass-server/internal/domain/lead"
	"github.com/aifirstlegal/masterclass-server/internal/domain/masterclass"
	"github.com/aifirstlegal/masterclass-server/internal/domain/question"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/audit"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/auth"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/completion"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/crontab"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/database"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/objectstore"
	chatlogrepo "github.com/aifirstlegal/masterclass-server/internal/infrastructure/repository/chatlog"
	instructionrepo "github.com/aifirstlegal/masterclass-server/internal/infrastructure/repository/instruction"
	knowledgerepo "github.com/aifirstlegal/masterclass-server/internal/infrastructure/repository/knowledge"
	leadrepo "github.com/aifirstlegal/masterclass-server/internal/infrastructure/repository/lead"
	masterclassrepo "github.com/aifirstlegal/masterclass-server/internal/infrastructure/repository/masterclass"
	questionrepo "github.com/aifirstlegal/masterclass-server/internal/infrastructure/repository/question"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/sessionstore"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/webhook"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/adminhandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/chathandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/formhandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/intakehandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/knowledgehandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/masterclasshandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/questionhandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/routes"
	v1 "github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/routes/v1"
	"github.com/aifirstlegal/masterclass-server/internal/worker"
	"github.com/aifirstlegal/masterclass-server/pkg/telemetry"
)

// services holds the domain services shared by the handlers and background jobs.
type services struct {
	chat        *chat.DefaultService
	intake      *intake.DefaultService
	question    *question.DefaultService
	knowledge   *knowledge.DefaultService
	instruction *instruction.DefaultService
	chatlog     *chatlog.DefaultService
	lead        *lead.DefaultService
	masterclass *masterclass.DefaultService
	admin       *admin.DefaultService
}

// buildApplication assembles every component. The returned cleanup releases connections
// in reverse order of creation.
func buildApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Application, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	fail := func(err error) (*Application, func(), error) {
		cleanup()
		return nil, func() {}, err
	}

	db, err := newGormDB(ctx, cfg, log)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	})

	store, sweeper, closeStore, err := newSessionStore(ctx, cfg, log)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, closeStore)

	objects, err := objectstore.NewS3Store(ctx, objectstore.Config{
		Bucket:       cfg.KnowledgeS3Bucket,
		Region:       cfg.KnowledgeS3Region,
		Endpoint:     cfg.KnowledgeS3Endpoint,
		AccessKeyID:  cfg.KnowledgeS3AccessKeyID,
		SecretKey:    cfg.KnowledgeS3SecretKey,
		UsePathStyle: cfg.KnowledgeS3UsePathStyle,
	}, log)
	if err != nil {
		return fail(err)
	}

	issuer := auth.NewIssuer(cfg.AuthIssuer, cfg.AdminTokenSecret, cfg.AccessTokenSecret)
	verifier, err := auth.NewAdminVerifier(ctx, issuer, auth.ExternalConfig{
		JWKSURL:  cfg.AuthJWKSURL,
		Issuer:   cfg.AuthJWKSIssuer,
		Audience: cfg.AuthJWKSAudience,
	}, log)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, verifier.Close)

	pool := worker.NewPool(worker.Config{
		WorkerCount: cfg.WorkerCount,
		QueueSize:   cfg.WorkerQueueSize,
		TaskTimeout: cfg.SideEffectTimeout,
	}, log)

	content, err := intake.LoadContent(cfg.ChatContentFile)
	if err != nil {
		return fail(err)
	}

	svc := newServices(cfg, log, db, store, objects, issuer, pool, content)

	handlerProvider := newHandlerProvider(cfg, svc, audit.NewLogger(db, log))
	routeProvider := routes.NewProvider(v1.NewRoutes(handlerProvider, verifier))
	httpServer := httpserver.New(cfg, log, routeProvider, readinessCheck(db))

	cron := crontab.NewCrontab(svc.chatlog, sweeper, crontab.Config{
		Schedule:      cfg.MaintenanceCron,
		RetentionDays: cfg.ChatLogRetentionDays,
	}, log)

	return NewApplication(httpServer, pool, cron, cfg, log), cleanup, nil
}

func newServices(
	cfg *config.Config,
	log zerolog.Logger,
	db *gorm.DB,
	store intake.SessionStore,
	objects *objectstore.S3Store,
	issuer *auth.Issuer,
	pool *worker.Pool,
	content *intake.Content,
) *services {
	sanitizer := telemetry.NewSanitizer(telemetry.ParsePIILevel(cfg.LogPIILevel), cfg.LogPIISalt)

	poster := webhook.NewPoster(webhook.Config{
		Timeout:     cfg.WebhookTimeout,
		MaxAttempts: cfg.WebhookMaxRetries,
		RetryDelay:  cfg.WebhookRetryDelay,
	}, log)

	completer := completion.NewClient(completion.Config{
		APIKey:      cfg.CompletionAPIKey,
		BaseURL:     cfg.CompletionBaseURL,
		Model:       cfg.CompletionModel,
		Temperature: cfg.CompletionTemperature,
		MaxTokens:   cfg.CompletionMaxTokens,
		Timeout:     cfg.CompletionTimeout,
		Referer:     cfg.CompletionReferer,
		Title:       cfg.CompletionTitle,
	}, log)

	// Optional stores stay nil interfaces without a database so the services skip them.
	var (
		submissions   lead.SubmissionRepository
		registrations masterclass.Repository
	)
	if db != nil {
		submissions = leadrepo.NewSubmissionRepository(db)
		registrations = masterclassrepo.NewPostgresRepository(db)
	}

	s := &services{}
	s.question = question.NewService(questionrepo.NewPostgresRepository(db))
	s.instruction = instruction.NewService(instructionrepo.NewPostgresRepository(db))
	s.knowledge = knowledge.NewService(knowledgerepo.NewPostgresRepository(db), objects, knowledge.Config{
		MaxFileBytes: cfg.KnowledgeMaxFileBytes,
	}, log)
	s.chatlog = chatlog.NewService(chatlogrepo.NewPostgresRepository(db), s.question, log)
	s.chat = chat.NewService(completer, s.instruction, s.knowledge, s.chatlog, chat.Config{
		StoreConfigured: db != nil,
		KnowledgeLimit:  cfg.KnowledgeContextLimit,
	}, log)
	s.lead = lead.NewService(poster, leadrepo.NewProfileRepository(db), submissions, lead.Config{
		URLs: map[lead.Target]string{
			lead.TargetLead:         cfg.LeadWebhookURL,
			lead.TargetRegistration: cfg.RegistrationWebhookURL,
			lead.TargetAccess:       cfg.AccessWebhookURL,
		},
	}, sanitizer, log)
	s.intake = intake.NewService(store, s.chat, s.question, s.lead, pool, content, intake.Config{
		SourceMarkers: cfg.TrafficSourceMarkers,
		TriggerTurns:  cfg.IntakeTriggerTurns,
		NotifyTurn:    cfg.IntakeNotifyTurn,
	}, sanitizer, log)
	s.masterclass = masterclass.NewService(registrations, issuer, s.lead, pool, masterclass.Config{
		AccessTTL:       cfg.AccessTokenTTL,
		BlockedDomains:  cfg.BlockedEmailDomains,
		LeadSkipSources: cfg.TrafficSourceMarkers,
	}, sanitizer, log)
	s.admin = admin.NewService(issuer, admin.Config{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		TokenTTL: cfg.AdminTokenTTL,
	}, log)
	return s
}

func newHandlerProvider(cfg *config.Config, s *services, auditLog *audit.Logger) *handlers.Provider {
	return &handlers.Provider{
		Chat:        chathandler.NewChatHandler(s.chat, cfg.ServiceName),
		Intake:      intakehandler.NewIntakeHandler(s.intake, cfg.ServiceName),
		Question:    questionhandler.NewQuestionHandler(s.question),
		Knowledge:   knowledgehandler.NewKnowledgeHandler(s.knowledge),
		Form:        formhandler.NewFormHandler(s.lead),
		Masterclass: masterclasshandler.NewMasterclassHandler(s.masterclass),

		AdminAuth:        adminhandler.NewAuthHandler(s.admin, auditLog),
		AdminInstruction: adminhandler.NewInstructionHandler(s.instruction, auditLog),
		AdminKnowledge:   adminhandler.NewKnowledgeHandler(s.knowledge, auditLog, cfg.KnowledgeMaxFileBytes),
		AdminChatLog:     adminhandler.NewChatLogHandler(s.chatlog),
	}
}

// newGormDB returns nil without error when no DSN is configured; database-backed
// operations then report database_not_configured.
func newGormDB(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	if !cfg.DatabaseConfigured() {
		log.Warn().Msg("DATABASE_URL not set; database-backed endpoints will report a configuration error")
		return nil, nil
	}
	db, err := database.Connect(ctx, database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, db, log); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}
	return db, nil
}

// newSessionStore selects the configured session store. The sweeper is nil for Redis,
// which expires keys itself.
func newSessionStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (intake.SessionStore, crontab.SessionSweeper, func(), error) {
	if cfg.SessionStore == "redis" {
		store, err := sessionstore.NewRedisStore(ctx, cfg.RedisURL, cfg.SessionTTL, cfg.SessionLockTTL, log)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect session store: %w", err)
		}
		closeStore := func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("close session store")
			}
		}
		return store, nil, closeStore, nil
	}

	store, err := sessionstore.NewMemoryStore(cfg.SessionCacheSize, cfg.SessionTTL, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create session store: %w", err)
	}
	return store, store, func() {}, nil
}

func readinessCheck(db *gorm.DB) httpserver.ReadinessCheck {
	return func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}
}
