package config

import (
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const configPathEnv = "CONFIG_PATH"

// Predict route targets for POST /predict.
const (
	PredictRouteFinancial = "financial"
	PredictRouteExpense   = "expense"
)

type ServerConfig struct {
	Port         string `yaml:"port" env:"PORT" env-default:"8080"`
	TemplateDir  string `yaml:"template_dir" env:"TEMPLATE_DIR" env-default:"web/templates"`
	StaticDir    string `yaml:"static_dir" env:"STATIC_DIR" env-default:"web/static"`
	SecureCookie bool   `yaml:"secure_cookie" env:"SECURE_COOKIE" env-default:"false"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" env:"DB_PATH" env-default:"users.db"`
}

type AuthConfig struct {
	SecretKey     string `yaml:"secret_key" env:"SECRET_KEY" env-required:"true"`
	AdminUsername string `yaml:"admin_username" env:"ADMIN_USERNAME"`
	AdminPassword string `yaml:"admin_password" env:"ADMIN_PASSWORD"`
}

type ModelsConfig struct {
	ExpensePath   string `yaml:"expense_path" env:"EXPENSE_MODEL_PATH" env-default:"models/expense_predictor_model.json"`
	FinancialPath string `yaml:"financial_path" env:"FINANCIAL_MODEL_PATH" env-default:"models/custom_predictor_model.json"`
	// PredictRoute selects the model behind POST /predict.
	PredictRoute string `yaml:"predict_route" env:"PREDICT_ROUTE_MODEL" env-default:"financial"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Models   ModelsConfig   `yaml:"models"`
	LogEnv   string         `yaml:"log_env" env:"LOG_ENV" env-default:"dev"`
}

// Load reads configuration once at startup. A .env file in the working
// directory is loaded first when present; CONFIG_PATH optionally points at a
// YAML file whose values environment variables override.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "loading .env")
	}

	var cfg Config
	var err error
	if path := os.Getenv(configPathEnv); path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Models.PredictRoute {
	case PredictRouteFinancial, PredictRouteExpense:
	default:
		return errors.Errorf("PREDICT_ROUTE_MODEL must be %q or %q, got %q",
			PredictRouteFinancial, PredictRouteExpense, c.Models.PredictRoute)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}
