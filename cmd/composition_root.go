package cmd

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"dispatcher/internal/adapters/out/anthropicllm"
	"dispatcher/internal/adapters/out/inmemory"
	"dispatcher/internal/adapters/out/postgres/chatlog"
	"dispatcher/internal/core/application/usecases/commands"
	"dispatcher/internal/core/application/usecases/queries"
	"dispatcher/internal/core/ports"
	"dispatcher/internal/jobs"

	"gorm.io/gorm"
)

// defaultSessionTTL applies when SESSION_TTL_MINUTES is missing or malformed.
const defaultSessionTTL = 30 * time.Minute

type CompositionRoot struct {
	configs  Config
	sessions *inmemory.SessionRepository
	model    ports.AssistantModel
	chatLog  ports.ChatLogRepository
	logger   *slog.Logger
	testMode bool
}

// NewCompositionRoot wires the shared adapters once. A missing API key leaves
// the assistant model nil and the chat degrades to a configuration notice. A
// nil gormDB disables the conversation audit log.
func NewCompositionRoot(configs Config, gormDB *gorm.DB) CompositionRoot {
	root := CompositionRoot{
		configs:  configs,
		sessions: inmemory.NewSessionRepository(),
		logger:   slog.New(slog.NewJSONHandler(os.Stdout, nil)),
		testMode: configs.TestMode == "true",
	}

	if configs.AnthropicAPIKey != "" {
		root.model = anthropicllm.NewClient(configs.AnthropicAPIKey, configs.AnthropicModel)
	}
	if gormDB != nil {
		root.chatLog = chatlog.NewGormChatLogRepository(gormDB)
	}

	return root
}

func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

func (c *CompositionRoot) CreateCreateSessionCommandHandler() commands.CreateSessionCommandHandler {
	return commands.NewCreateSessionCommandHandler(c.sessions)
}

func (c *CompositionRoot) CreateMoveOrderCommandHandler() commands.MoveOrderCommandHandler {
	return commands.NewMoveOrderCommandHandler(c.sessions)
}

func (c *CompositionRoot) CreateChatCommandHandler() commands.ChatCommandHandler {
	return commands.NewChatCommandHandler(c.sessions, c.model, c.chatLog, c.logger)
}

func (c *CompositionRoot) CreateGetSandboxQueryHandler() queries.GetSandboxQueryHandler {
	return queries.NewGetSandboxQueryHandler(c.sessions)
}

func (c *CompositionRoot) CreateCheckFeasibilityQueryHandler() queries.CheckFeasibilityQueryHandler {
	return queries.NewCheckFeasibilityQueryHandler(c.sessions)
}

func (c *CompositionRoot) CreateValidateRouteQueryHandler() queries.ValidateRouteQueryHandler {
	return queries.NewValidateRouteQueryHandler(c.sessions, c.model, c.testMode)
}

func (c *CompositionRoot) CreateExplainOrdersQueryHandler() queries.ExplainOrdersQueryHandler {
	return queries.NewExplainOrdersQueryHandler(c.sessions, c.model, c.testMode)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.sessions, c.sessionTTL(), c.logger)
}

func (c *CompositionRoot) sessionTTL() time.Duration {
	minutes, err := strconv.Atoi(c.configs.SessionTTLMinutes)
	if err != nil || minutes <= 0 {
		return defaultSessionTTL
	}
	return time.Duration(minutes) * time.Minute
}
