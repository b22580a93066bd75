// Package seed posts synthetic registrations against a running instance.
// It exists for local development: an empty leaderboard makes the UI and
// the weekly snapshot path hard to exercise by hand.
package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/leetboard/internal/domain/model"
	"github.com/okian/leetboard/pkg/logger"
)

// Config controls a seeding run.
type Config struct {
	// BaseURL of the running service, e.g. http://localhost:8080.
	BaseURL string

	// NumParticipants to register.
	NumParticipants int

	// Workers posting concurrently.
	Workers int

	// Timeout per HTTP request.
	Timeout time.Duration

	// Verbose logs every registration instead of a summary.
	Verbose bool
}

type submission struct {
	Name             string `json:"name"`
	Department       string `json:"department"`
	LeetcodeUsername string `json:"leetcodeUsername"`
}

var firstNames = []string{
	"Aarav", "Diya", "Ishaan", "Meera", "Rohan", "Sanya",
	"Vikram", "Ananya", "Karthik", "Priya", "Arjun", "Nisha",
}

// Run registers cfg.NumParticipants synthetic users and prints a summary.
// Duplicate rejections are expected on re-runs and are counted, not fatal.
func Run(ctx context.Context, cfg *Config) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("base URL must not be empty")
	}
	if cfg.NumParticipants <= 0 {
		return fmt.Errorf("participant count must be positive")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	log := logger.Named("seed")
	client := &http.Client{Timeout: cfg.Timeout}

	jobs := make(chan submission)
	var created, rejected, failed atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sub := range jobs {
				status, errMsg, err := post(ctx, client, cfg.BaseURL+"/submit", sub)
				switch {
				case err != nil:
					failed.Add(1)
					log.Warn(ctx, "submission failed",
						logger.String("handle", sub.LeetcodeUsername),
						logger.Error(err),
					)
				case status == http.StatusCreated:
					created.Add(1)
					if cfg.Verbose {
						log.Info(ctx, "registered",
							logger.String("handle", sub.LeetcodeUsername),
							logger.String("department", sub.Department),
						)
					}
				default:
					rejected.Add(1)
					if cfg.Verbose {
						log.Info(ctx, "rejected",
							logger.String("handle", sub.LeetcodeUsername),
							logger.Int("status", status),
							logger.String("error", errMsg),
						)
					}
				}
			}
		}()
	}

	for i := 0; i < cfg.NumParticipants; i++ {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- generate(i):
		}
	}
	close(jobs)
	wg.Wait()

	log.Info(ctx, "seeding finished",
		logger.Int64("created", created.Load()),
		logger.Int64("rejected", rejected.Load()),
		logger.Int64("failed", failed.Load()),
	)
	return nil
}

// generate builds a synthetic registration. The uuid suffix keeps handles
// unique across runs against the same instance.
func generate(i int) submission {
	name := firstNames[i%len(firstNames)]
	dept := model.Departments[rand.Intn(len(model.Departments))]
	handle := fmt.Sprintf("%s-%s", name, uuid.NewString()[:8])
	return submission{
		Name:             fmt.Sprintf("%s %d", name, i+1),
		Department:       dept,
		LeetcodeUsername: handle,
	}
}

func post(ctx context.Context, client *http.Client, url string, sub submission) (int, string, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return 0, "", fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("post submission: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var parsed struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &parsed)

	return resp.StatusCode, parsed.Error, nil
}
