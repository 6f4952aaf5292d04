package main

import (
	"github.com/fastprodman/golfwager/internal/config"
)

type apiConfig struct {
	HTTP     config.HTTPConfig
	Postgres config.PostgresConfig
	Auth     config.AuthConfig
	NATS     config.NATSConfig
	Matches  config.MatchesConfig
	Log      config.LogConfig
}
