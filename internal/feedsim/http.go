package feedsim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matchpulse/liveticker/pkg/logger"
)

// HTTPClient wraps http.Client with a timeout and bearer auth.
type HTTPClient struct {
	client *http.Client
	token  string
}

func newHTTPClient(timeout time.Duration, token string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
		token:  token,
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs an authenticated POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	return c.client.Do(req)
}

func drainBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// submitEvents posts commentary events concurrently using a worker pool.
// Events are fed to workers in order; with Interval > 0 each worker paces
// its own submissions.
func submitEvents(ctx context.Context, config *Config, client *HTTPClient, events []Commentary, stats *Stats) error {
	logger.Get().Info(ctx, "submitting commentary events",
		logger.Int("events", len(events)),
		logger.Int("workers", config.Workers))

	url := config.BaseURL + "/api/live-commentary"

	var (
		successful int64
		rejected   int64
		failed     int64
		submitted  int64
	)

	eventChan := make(chan Commentary, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for event := range eventChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				atomic.AddInt64(&submitted, 1)
				switch submitSingleEvent(ctx, client, url, event) {
				case resultSuccess:
					atomic.AddInt64(&successful, 1)
				case resultRejected:
					atomic.AddInt64(&rejected, 1)
				case resultFailed:
					atomic.AddInt64(&failed, 1)
				}

				if config.Verbose {
					logger.Get().Debug(ctx, "submission progress",
						logger.Int("submitted", int(atomic.LoadInt64(&submitted))),
						logger.Int("total", len(events)))
				}

				if config.Interval > 0 {
					select {
					case <-ctx.Done():
						return
					case <-time.After(config.Interval):
					}
				}
			}
		}()
	}

	go func() {
		defer close(eventChan)
		for _, event := range events {
			select {
			case <-ctx.Done():
				return
			case eventChan <- event:
			}
		}
	}()

	wg.Wait()

	stats.EventsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.EventsSuccessful = int(atomic.LoadInt64(&successful))
	stats.EventsRejected = int(atomic.LoadInt64(&rejected))
	stats.EventsFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "event submission completed",
		logger.Int("successful", stats.EventsSuccessful),
		logger.Int("rejected", stats.EventsRejected),
		logger.Int("failed", stats.EventsFailed))
	return nil
}

type submitResult int

const (
	resultSuccess submitResult = iota
	resultRejected
	resultFailed
)

func submitSingleEvent(ctx context.Context, client *HTTPClient, url string, event Commentary) submitResult {
	resp, err := client.Post(ctx, url, event)
	if err != nil {
		return resultFailed
	}
	defer drainBody(resp)

	switch {
	case resp.StatusCode == http.StatusCreated:
		return resultSuccess
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return resultRejected
	default:
		return resultFailed
	}
}
