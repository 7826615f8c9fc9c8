package httputil_test

import (
	"context"
	"fmt"
	"time"

	"github.com/agustinp/tradepulse/pkg/config"
	"github.com/agustinp/tradepulse/pkg/httputil"
	"github.com/agustinp/tradepulse/pkg/logger"
)

// Example_basic demonstrates basic HTTP client usage
func Example_basic() {
	cfg := &config.Config{
		Env:      "production",
		LogLevel: "info",
	}
	log := logger.New(cfg)

	client := httputil.New(log)

	ctx := context.Background()
	resp, err := client.Get(ctx, "https://query1.finance.yahoo.com/v8/finance/chart/AAPL")
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	fmt.Printf("Status: %d\n", resp.StatusCode)
}

// Example_rateLimited demonstrates pacing outbound requests
func Example_rateLimited() {
	cfg := &config.Config{
		Env:      "production",
		LogLevel: "info",
	}
	log := logger.New(cfg)

	// At most 2 requests per second across all callers
	client := httputil.NewWithTimeout(30*time.Second, log).
		WithRateLimit(2.0)

	ctx := context.Background()
	for _, symbol := range []string{"AAPL", "MSFT", "SPY"} {
		resp, err := client.Get(ctx, "https://query1.finance.yahoo.com/v8/finance/chart/"+symbol)
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			continue
		}
		resp.Body.Close()
	}
}

// Example_disableRetry demonstrates failing fast on provider errors
func Example_disableRetry() {
	cfg := &config.Config{
		Env:      "production",
		LogLevel: "info",
	}
	log := logger.New(cfg)

	client := httputil.New(log).DisableRetry()

	ctx := context.Background()
	resp, err := client.Get(ctx, "https://query1.finance.yahoo.com/v8/finance/chart/AAPL")
	if err != nil {
		fmt.Printf("Request failed (no retry): %v\n", err)
		return
	}
	defer resp.Body.Close()

	fmt.Println("Request succeeded on first attempt")
}
