package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Schedule ScheduleConfig
	Pricing  PricingConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// ScheduleConfig holds the scheduling grid parameters. Start times snap up
// to RoundStepMinutes; GapMinutes of turnover time is added after every show.
type ScheduleConfig struct {
	GapMinutes       int
	RoundStepMinutes int
}

// PricingConfig holds the global price envelope. No modifier combination may
// push a resolved total outside [TotalMin, TotalMax]; individual deltas must
// stay inside [DeltaMin, DeltaMax].
type PricingConfig struct {
	TotalMin int64
	TotalMax int64
	DeltaMin int64
	DeltaMax int64
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("SCHEDULE_GAP_MINUTES", 10)
	viper.SetDefault("SCHEDULE_ROUND_STEP_MINUTES", 5)
	viper.SetDefault("PRICE_TOTAL_MIN", 30000)
	viper.SetDefault("PRICE_TOTAL_MAX", 500000)
	viper.SetDefault("PRICE_DELTA_MIN", -100000)
	viper.SetDefault("PRICE_DELTA_MAX", 100000)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Schedule: ScheduleConfig{
			GapMinutes:       viper.GetInt("SCHEDULE_GAP_MINUTES"),
			RoundStepMinutes: viper.GetInt("SCHEDULE_ROUND_STEP_MINUTES"),
		},
		Pricing: PricingConfig{
			TotalMin: viper.GetInt64("PRICE_TOTAL_MIN"),
			TotalMax: viper.GetInt64("PRICE_TOTAL_MAX"),
			DeltaMin: viper.GetInt64("PRICE_DELTA_MIN"),
			DeltaMax: viper.GetInt64("PRICE_DELTA_MAX"),
		},
	}

	return config, nil
}
