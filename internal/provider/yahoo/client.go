// Package yahoo fetches daily bars and quotes from the Yahoo Finance
// chart API.
package yahoo

import (
	"github.com/agustinp/tradepulse/pkg/config"
	"github.com/agustinp/tradepulse/pkg/httputil"
	"github.com/agustinp/tradepulse/pkg/logger"
)

// SourceName tags bars ingested through this provider.
const SourceName = "yahoo"

// Client handles communication with the Yahoo Finance chart API.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Yahoo Finance client. The shared HTTP client
// carries the rate limit, so bursts across jobs stay within the
// provider's tolerance.
func NewClient(cfg config.ProviderConfig, log *logger.Logger) *Client {
	// One failed fetch fails that symbol for the run; the job level
	// never retries, so the transport does not either.
	httpClient := httputil.NewWithTimeout(cfg.Timeout, log).
		WithRateLimit(cfg.RequestsPerSec).
		DisableRetry()

	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.BaseURL,
	}
}
