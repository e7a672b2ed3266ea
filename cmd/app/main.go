package main

import (
	"fmt"
	"net/http"
	"os"

	"dispatcher/cmd"
	httpin "dispatcher/internal/adapters/in/http"
	"dispatcher/internal/adapters/out/postgres/chatlog"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	app := cmd.NewCompositionRoot(
		configs,
		connectDB(configs),
	)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:          goDotEnvVariable("HTTP_PORT"),
		AnthropicAPIKey:   goDotEnvVariable("ANTHROPIC_API_KEY"),
		AnthropicModel:    goDotEnvVariable("ANTHROPIC_MODEL"),
		TestMode:          goDotEnvVariable("TEST_MODE"),
		SessionTTLMinutes: goDotEnvVariable("SESSION_TTL_MINUTES"),
		DBHost:            goDotEnvVariable("DB_HOST"),
		DBPort:            goDotEnvVariable("DB_PORT"),
		DBUser:            goDotEnvVariable("DB_USER"),
		DBPassword:        goDotEnvVariable("DB_PASSWORD"),
		DBName:            goDotEnvVariable("DB_NAME"),
		DBSslMode:         goDotEnvVariable("DB_SSLMODE"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

// connectDB opens the audit log database. Without DB_HOST the application
// runs with the conversation audit trail disabled.
func connectDB(configs cmd.Config) *gorm.DB {
	if configs.DBHost == "" {
		return nil
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&chatlog.TranscriptDTO{}, &chatlog.ToolExecutionDTO{}); err != nil {
		log.Fatalf("Failed to migrate chat log tables: %v", err)
	}

	return db
}

func startWebServer(app cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpin.NewServer(
		app.CreateCreateSessionCommandHandler(),
		app.CreateMoveOrderCommandHandler(),
		app.CreateChatCommandHandler(),
		app.CreateGetSandboxQueryHandler(),
		app.CreateCheckFeasibilityQueryHandler(),
		app.CreateValidateRouteQueryHandler(),
		app.CreateExplainOrdersQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
