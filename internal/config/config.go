package config

import "strings"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	Mpesa Mpesa `envPrefix:"MPESA_"`
	JWT   JWT   `envPrefix:"JWT_"`
}

// ApplyDefaults fills values derived from other settings. An explicit
// MPESA_CALLBACK_URL wins; otherwise the callback URL is the public base URL
// plus the callback route.
func (c *Config) ApplyDefaults() {
	if c.Mpesa.CallbackURL == "" && c.BaseURL != "" {
		c.Mpesa.CallbackURL = strings.TrimSuffix(c.BaseURL, "/") + "/api/payments/stk-callback"
	}
}

type Mpesa struct {
	ConsumerKey    string `env:"CONSUMER_KEY"`
	ConsumerSecret string `env:"CONSUMER_SECRET"`
	ShortCode      string `env:"SHORT_CODE" envDefault:"174379"`
	PassKey        string `env:"PASS_KEY"`
	GrantURL       string `env:"GRANT_URL"`
	STKPushURL     string `env:"STK_PUSH_URL"`
	CallbackURL    string `env:"CALLBACK_URL"`
}

type JWT struct {
	Secret   string `env:"SECRET"`
	Issuer   string `env:"ISSUER" envDefault:"rustic-lights"`
	Audience string `env:"AUDIENCE" envDefault:"rustic-lights-api"`
	Realm    string `env:"REALM" envDefault:"rustic-lights"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
