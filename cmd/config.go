package cmd

type Config struct {
	HTTPPort          string
	AnthropicAPIKey   string
	AnthropicModel    string
	TestMode          string
	SessionTTLMinutes string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSslMode         string
}
