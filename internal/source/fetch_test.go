// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Use a tiny base delay so tests finish quickly.
	RetryBaseDelay = 1 * time.Millisecond
}

func statusSequence(t *testing.T, statuses ...int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := int(atomic.AddInt32(&calls, 1))
		status := statuses[len(statuses)-1]
		if n <= len(statuses) {
			status = statuses[n-1]
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func TestDoWithRetry(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []int
		maxRetries int
		wantStatus int
		wantCalls  int32
	}{
		{name: "immediate success", statuses: []int{200}, maxRetries: 3, wantStatus: 200, wantCalls: 1},
		{name: "429 then success", statuses: []int{429, 429, 200}, maxRetries: 3, wantStatus: 200, wantCalls: 3},
		{name: "503 then success", statuses: []int{503, 200}, maxRetries: 3, wantStatus: 200, wantCalls: 2},
		{name: "exhausted retries return last response", statuses: []int{502}, maxRetries: 2, wantStatus: 502, wantCalls: 3},
		{name: "404 is not retried", statuses: []int{404}, maxRetries: 3, wantStatus: 404, wantCalls: 1},
		{name: "zero uses default", statuses: []int{429}, maxRetries: 0, wantStatus: 429, wantCalls: int32(defaultMaxRetries + 1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts, calls := statusSequence(t, tc.statuses...)
			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			require.NoError(t, err)

			var log strings.Builder
			resp, err := doWithRetry(context.Background(), ts.Client(), req, tc.maxRetries, &log)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.Equal(t, tc.wantCalls, atomic.LoadInt32(calls))
			assert.Equal(t, int(tc.wantCalls-1), strings.Count(log.String(), "retrying in"))
		})
	}
}

func TestDoWithRetryContextCancelled(t *testing.T) {
	RetryBaseDelay = time.Hour
	defer func() { RetryBaseDelay = time.Millisecond }()

	ts, _ := statusSequence(t, 429)
	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = doWithRetry(ctx, ts.Client(), req, 3, io.Discard)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
