package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/leetboard/internal/seed"
	"github.com/okian/leetboard/pkg/logger"
)

// Default configuration constants.
const (
	defaultParticipants = 50
	defaultWorkers      = 4
	defaultTimeout      = 15 * time.Second
	defaultRunTimeout   = 5 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:8080", "Base URL of the service")
		participants = flag.Int("participants", defaultParticipants, "Number of participants to register")
		workers      = flag.Int("workers", defaultWorkers, "Number of concurrent workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose      = flag.Bool("verbose", false, "Log every registration")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &seed.Config{
		BaseURL:         *baseURL,
		NumParticipants: *participants,
		Workers:         *workers,
		Timeout:         *timeout,
		Verbose:         *verbose,
	}

	if err := seed.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("seeding failed: " + err.Error() + "\n")
		return
	}
}
