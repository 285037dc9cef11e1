package healthcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrUnhealthy is returned when the endpoint answers with a non-200 status.
var ErrUnhealthy = errors.New("healthcheck: unhealthy")

// Check performs GET {baseURL}/api/trpc/healthcheck and returns the body
// on 200. The caller bounds the call through ctx or client.Timeout.
func Check(ctx context.Context, client *http.Client, baseURL string) (string, error) {
	if baseURL == "" {
		return "", errors.New("healthcheck: base url is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+Path, nil)
	if err != nil {
		return "", fmt.Errorf("healthcheck: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("healthcheck: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("healthcheck: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return string(body), nil
}
