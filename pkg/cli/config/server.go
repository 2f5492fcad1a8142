package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	controller "github.com/mindhaven/mindhaven/pkg/controller/http"
	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr           string
	RateLimit      int
	AllowedOrigins []string
	ResultLimit    int
}

// Flags returns CLI flags for Server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Sources:     cli.EnvVars("MINDHAVEN_ADDR"),
			Destination: &s.Addr,
		},
		&cli.IntFlag{
			Name:        "rate-limit",
			Usage:       "Requests per second allowed per client IP (0 disables)",
			Value:       20,
			Sources:     cli.EnvVars("MINDHAVEN_RATE_LIMIT"),
			Destination: &s.RateLimit,
		},
		&cli.StringSliceFlag{
			Name:        "cors-origin",
			Usage:       "Allowed CORS origin, repeatable (default: any)",
			Sources:     cli.EnvVars("MINDHAVEN_CORS_ORIGINS"),
			Destination: &s.AllowedOrigins,
		},
		&cli.IntFlag{
			Name:        "result-limit",
			Usage:       "Number of results returned by the history endpoint when no limit is given",
			Value:       50,
			Sources:     cli.EnvVars("MINDHAVEN_RESULT_LIMIT"),
			Destination: &s.ResultLimit,
		},
	}
}

// Validate validates the server configuration
func (s *Server) Validate() error {
	if s.Addr == "" {
		return goerr.New("server address is required")
	}
	if s.RateLimit < 0 {
		return goerr.New("rate limit must not be negative", goerr.V("rateLimit", s.RateLimit))
	}
	if s.ResultLimit <= 0 {
		return goerr.New("result limit must be positive", goerr.V("resultLimit", s.ResultLimit))
	}
	return nil
}

// Controller returns the HTTP controller configuration
func (s *Server) Controller() controller.Config {
	return controller.Config{
		Addr:           s.Addr,
		RateLimit:      s.RateLimit,
		AllowedOrigins: s.AllowedOrigins,
	}
}

// LogValue returns structured log value
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.Addr),
		slog.Int("rateLimit", s.RateLimit),
		slog.Any("allowedOrigins", s.AllowedOrigins),
		slog.Int("resultLimit", s.ResultLimit),
	)
}
