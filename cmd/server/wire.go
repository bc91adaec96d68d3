//go:build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/aifirstlegal/masterclass-server/internal/config"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/audit"
	"github.com/aifirstlegal/masterclass-server/internal/infrastructure/auth"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/adminhandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/chathandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/formhandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/intakehandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/knowledgehandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/masterclasshandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/questionhandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/middlewares"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/routes"
)

var handlerSet = wire.NewSet(
	provideChatHandler,
	provideIntakeHandler,
	provideQuestionHandler,
	provideKnowledgeHandler,
	provideFormHandler,
	provideMasterclassHandler,
	provideAdminAuthHandler,
	provideAdminInstructionHandler,
	provideAdminKnowledgeHandler,
	provideAdminChatLogHandler,
	wire.Bind(new(adminhandler.AuditRecorder), new(*audit.Logger)),
	handlers.HandlerProvider,
)

// BuildHTTPServer demonstrates how the HTTP layer is assembled with Wire once the
// services are built.
func BuildHTTPServer(
	cfg *config.Config,
	log zerolog.Logger,
	s *services,
	auditLog *audit.Logger,
	verifier *auth.AdminVerifier,
	ready httpserver.ReadinessCheck,
) *httpserver.HTTPServer {
	wire.Build(
		handlerSet,
		wire.Bind(new(middlewares.AdminTokenVerifier), new(*auth.AdminVerifier)),
		routes.RouteProvider,
		httpserver.New,
	)
	return nil
}

func provideChatHandler(cfg *config.Config, s *services) *chathandler.ChatHandler {
	return chathandler.NewChatHandler(s.chat, cfg.ServiceName)
}

func provideIntakeHandler(cfg *config.Config, s *services) *intakehandler.IntakeHandler {
	return intakehandler.NewIntakeHandler(s.intake, cfg.ServiceName)
}

func provideQuestionHandler(s *services) *questionhandler.QuestionHandler {
	return questionhandler.NewQuestionHandler(s.question)
}

func provideKnowledgeHandler(s *services) *knowledgehandler.KnowledgeHandler {
	return knowledgehandler.NewKnowledgeHandler(s.knowledge)
}

func provideFormHandler(s *services) *formhandler.FormHandler {
	return formhandler.NewFormHandler(s.lead)
}

func provideMasterclassHandler(s *services) *masterclasshandler.MasterclassHandler {
	return masterclasshandler.NewMasterclassHandler(s.masterclass)
}

func provideAdminAuthHandler(s *services, recorder adminhandler.AuditRecorder) *adminhandler.AuthHandler {
	return adminhandler.NewAuthHandler(s.admin, recorder)
}

func provideAdminInstructionHandler(s *services, recorder adminhandler.AuditRecorder) *adminhandler.InstructionHandler {
	return adminhandler.NewInstructionHandler(s.instruction, recorder)
}

func provideAdminKnowledgeHandler(cfg *config.Config, s *services, recorder adminhandler.AuditRecorder) *adminhandler.KnowledgeHandler {
	return adminhandler.NewKnowledgeHandler(s.knowledge, recorder, cfg.KnowledgeMaxFileBytes)
}

func provideAdminChatLogHandler(s *services) *adminhandler.ChatLogHandler {
	return adminhandler.NewChatLogHandler(s.chatlog)
}
