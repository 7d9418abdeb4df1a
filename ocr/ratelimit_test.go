package ocr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider fails the first failCount calls, then succeeds.
type mockProvider struct {
	failCount int
	calls     int
}

func (m *mockProvider) ProcessImage(ctx context.Context, imageContent []byte) (*Result, error) {
	m.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.calls <= m.failCount {
		return nil, errors.New("mock error")
	}
	return &Result{Text: "ok"}, nil
}

func newTestLimited(p Provider, retries int) *RateLimitedProvider {
	r := NewRateLimitedProvider(p, RateLimitConfig{MaxRetries: retries})
	r.backoffMin = time.Millisecond
	r.backoffMax = 5 * time.Millisecond
	return r
}

func TestRateLimitedProvider_Success(t *testing.T) {
	mock := &mockProvider{}
	result, err := newTestLimited(mock, 3).ProcessImage(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Text)
	assert.Equal(t, 1, mock.calls)
}

func TestRateLimitedProvider_EventualSuccess(t *testing.T) {
	mock := &mockProvider{failCount: 2}
	result, err := newTestLimited(mock, 3).ProcessImage(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Text)
	assert.Equal(t, 3, mock.calls)
}

func TestRateLimitedProvider_AllRetriesFail(t *testing.T) {
	mock := &mockProvider{failCount: 10}
	_, err := newTestLimited(mock, 2).ProcessImage(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all retry attempts failed")
	assert.Equal(t, 3, mock.calls)
}

func TestRateLimitedProvider_NoRetries(t *testing.T) {
	mock := &mockProvider{failCount: 1}
	_, err := newTestLimited(mock, 0).ProcessImage(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, "mock error", err.Error())
	assert.Equal(t, 1, mock.calls)
}

func TestRateLimitedProvider_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRateLimitedProvider(&mockProvider{}, RateLimitConfig{RequestsPerMinute: 60})
	_, err := r.ProcessImage(ctx, nil)
	assert.Error(t, err)
}

func TestRateLimitedProvider_Limits(t *testing.T) {
	r := NewRateLimitedProvider(&mockProvider{}, RateLimitConfig{RequestsPerMinute: 600})
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := r.ProcessImage(context.Background(), nil)
		require.NoError(t, err)
	}
	// 10 per second with a burst of one
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}
