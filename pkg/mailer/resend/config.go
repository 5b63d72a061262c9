package resend

// Config holds Resend email provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey string `yaml:"api_key" env:"RESEND_API_KEY"`
}
