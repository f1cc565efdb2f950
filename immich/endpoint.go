package immich

import (
	"context"
	"log/slog"
	"net/http"

	apperrors "github.com/alexjbarnes/immich-sync/internal/errors"
)

// ProbeFunc checks whether a base URL's health endpoint answers.
type ProbeFunc func(ctx context.Context, baseURL string) error

// Probe returns the default ProbeFunc: a one-off unauthenticated ping.
func Probe(httpClient *http.Client) ProbeFunc {
	return func(ctx context.Context, baseURL string) error {
		return NewClient(httpClient, baseURL, "").Ping(ctx)
	}
}

// SelectEndpoint picks the single base URL used for the rest of the
// run. The primary, when configured, gets one short-timeout probe; any
// failure falls through to the fallback, which is trusted without a
// probe so startup latency is bounded by a single health check. The
// selection is never re-evaluated mid-run, even if connectivity
// changes. With no usable URL it returns ErrNoEndpoint.
func SelectEndpoint(ctx context.Context, primary, fallback string, probe ProbeFunc, logger *slog.Logger) (string, error) {
	if primary != "" {
		logger.Info("checking connection", slog.String("url", primary))

		err := probe(ctx, primary)
		if err == nil {
			logger.Info("primary endpoint reachable", slog.String("url", primary))
			return primary, nil
		}

		logger.Info("primary endpoint unreachable",
			slog.String("url", primary),
			slog.String("error", err.Error()),
		)
	}

	if fallback != "" {
		logger.Info("using fallback endpoint", slog.String("url", fallback))
		return fallback, nil
	}

	return "", apperrors.ErrNoEndpoint
}
