package ses

// Config holds AWS SES v2 provider configuration.
// Empty static credentials fall back to the default AWS credential chain.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Region          string `yaml:"region" env:"SES_REGION"`
	AccessKeyID     string `yaml:"access_key_id" env:"SES_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"SES_SECRET_ACCESS_KEY"`
}
