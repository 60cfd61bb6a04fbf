package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuracion del servicio.
type Config struct {
	HTTPPort               string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL            string `env:"DATABASE_URL,required"`
	DatasetPath            string `env:"DATASET_PATH" envDefault:"cleaned_individual_footprint.csv"`
	NATSURL                string `env:"NATS_URL"`
	EventsTopic            string `env:"EVENTS_TOPIC" envDefault:"carbon-footprint-events"`
	RecommendationsEnabled bool   `env:"RECOMMENDATIONS_ENABLED" envDefault:"true"`
	RedisAddr              string `env:"REDIS_ADDR"`
	RedisPassword          string `env:"REDIS_PASSWORD"`
	RedisDB                int    `env:"REDIS_DB" envDefault:"0"`
	JWTSecret              string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes    int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	JWTRefreshTTLMinutes   int    `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"43200"`
}

// LoadConfig carga la configuracion desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
