package handlers

import (
	"github.com/google/wire"

	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/adminhandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/chathandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/formhandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/intakehandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/knowledgehandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/masterclasshandler"
	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers/questionhandler"
)

// Provider groups every HTTP handler for route registration.
type Provider struct {
	Chat        *chathandler.ChatHandler
	Intake      *intakehandler.IntakeHandler
	Question    *questionhandler.QuestionHandler
	Knowledge   *knowledgehandler.KnowledgeHandler
	Form        *formhandler.FormHandler
	Masterclass *masterclasshandler.MasterclassHandler

	AdminAuth        *adminhandler.AuthHandler
	AdminInstruction *adminhandler.InstructionHandler
	AdminKnowledge   *adminhandler.KnowledgeHandler
	AdminChatLog     *adminhandler.ChatLogHandler
}

var HandlerProvider = wire.NewSet(
	wire.Struct(new(Provider), "*"),
)
