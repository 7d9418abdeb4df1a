package ocr

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedProvider wraps an OCR provider with rate limiting and retry capabilities
type RateLimitedProvider struct {
	provider    Provider
	rateLimiter *rate.Limiter
	maxRetries  int
	backoffMin  time.Duration
	backoffMax  time.Duration
}

// RateLimitConfig holds configuration for rate limiting and retries
type RateLimitConfig struct {
	// RequestsPerMinute is the maximum number of requests allowed per minute
	// If 0 or negative, no rate limiting is applied
	RequestsPerMinute float64

	// MaxRetries is the maximum number of retry attempts
	// If 0 or negative, no retries are attempted
	MaxRetries int

	// BackoffMaxWait is the maximum wait time between retries
	// Defaults to 30 seconds if not specified
	BackoffMaxWait time.Duration
}

// NewRateLimitedProvider creates a new rate-limited OCR provider
func NewRateLimitedProvider(provider Provider, config RateLimitConfig) *RateLimitedProvider {
	var limiter *rate.Limiter
	if config.RequestsPerMinute > 0 {
		rps := rate.Limit(config.RequestsPerMinute / 60.0)
		limiter = rate.NewLimiter(rps, 1) // Burst size of 1
	}

	maxRetries := config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	backoffMax := config.BackoffMaxWait
	if backoffMax <= 0 {
		backoffMax = 30 * time.Second
	}

	return &RateLimitedProvider{
		provider:    provider,
		rateLimiter: limiter,
		maxRetries:  maxRetries,
		backoffMin:  1 * time.Second,
		backoffMax:  backoffMax,
	}
}

// ProcessImage implements Provider with rate limiting and retries
func (r *RateLimitedProvider) ProcessImage(ctx context.Context, imageContent []byte) (*Result, error) {
	if r.rateLimiter != nil {
		if err := r.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}
	}

	var lastErr error
	attempt := 0

	for {
		result, err := r.provider.ProcessImage(ctx, imageContent)
		if err == nil {
			return result, nil
		}

		if attempt >= r.maxRetries {
			if lastErr != nil {
				return nil, fmt.Errorf("all retry attempts failed, last error: %w", err)
			}
			return nil, err
		}

		// Exponential backoff with +/- 20% jitter
		backoff := r.backoffMin * time.Duration(1<<uint(attempt))
		if backoff > r.backoffMax {
			backoff = r.backoffMax
		}
		jitter := time.Duration(float64(backoff) * (0.8 + 0.4*rand.Float64()))

		log.WithError(err).WithField("attempt", attempt+1).Debug("Retrying OCR request")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(jitter):
			attempt++
			lastErr = err
		}
	}
}
