package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxRetries != 3 {
		t.Errorf("expected MaxRetries=3, got %d", cfg.MaxRetries)
	}
	if cfg.InitialDelay != 100*time.Millisecond {
		t.Errorf("expected InitialDelay=100ms, got %v", cfg.InitialDelay)
	}
	if cfg.MaxDelay != 5*time.Second {
		t.Errorf("expected MaxDelay=5s, got %v", cfg.MaxDelay)
	}
	if cfg.Multiplier != 2.0 {
		t.Errorf("expected Multiplier=2.0, got %f", cfg.Multiplier)
	}
}

func testConfig() *Config {
	return &Config{
		MaxRetries:   3,
		InitialDelay: 5 * time.Millisecond,
		MaxDelay:     50 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDo_Success(t *testing.T) {
	callCount := 0
	err := Do(context.Background(), testConfig(), func() error {
		callCount++
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	callCount := 0
	err := Do(context.Background(), testConfig(), func() error {
		callCount++
		if callCount < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestDo_AllRetriesExhausted(t *testing.T) {
	callCount := 0
	wantErr := errors.New("persistent failure")
	err := Do(context.Background(), testConfig(), func() error {
		callCount++
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Errorf("expected persistent failure, got %v", err)
	}
	if callCount != 4 { // initial attempt + 3 retries
		t.Errorf("expected 4 calls, got %d", callCount)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0
	errCh := make(chan error, 1)

	go func() {
		errCh <- Do(ctx, &Config{
			MaxRetries:   10,
			InitialDelay: time.Second,
			MaxDelay:     time.Second,
			Multiplier:   1.0,
		}, func() error {
			callCount++
			return errors.New("fail")
		})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}

func TestDoWithResult(t *testing.T) {
	callCount := 0
	result, err := DoWithResult(context.Background(), testConfig(), func() (string, error) {
		callCount++
		if callCount < 2 {
			return "", errors.New("transient")
		}
		return "ready", nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != "ready" {
		t.Errorf("expected result=ready, got %s", result)
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("connection refused"), true},
		{errors.New("i/o timeout"), true},
		{errors.New("HTTP 503 Service Unavailable"), true},
		{errors.New("rate limit exceeded"), true},
		{errors.New("syntax error at or near SELECT"), false},
		{errors.New("permission denied"), false},
	}

	for _, c := range cases {
		if got := IsRetryable(c.err); got != c.want {
			t.Errorf("IsRetryable(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

type explicitRetryable struct{ retryable bool }

func (e *explicitRetryable) Error() string     { return "explicit" }
func (e *explicitRetryable) IsRetryable() bool { return e.retryable }

func TestIsRetryable_ExplicitInterface(t *testing.T) {
	if !IsRetryable(&explicitRetryable{retryable: true}) {
		t.Error("expected retryable=true to be honored")
	}
	if IsRetryable(&explicitRetryable{retryable: false}) {
		t.Error("expected retryable=false to be honored")
	}
}

func TestDoIfRetryable_PermanentErrorReturnsImmediately(t *testing.T) {
	callCount := 0
	err := DoIfRetryable(context.Background(), testConfig(), func() error {
		callCount++
		return errors.New("permission denied")
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if callCount != 1 {
		t.Errorf("expected 1 call for permanent error, got %d", callCount)
	}
}

func TestDoIfRetryable_TransientErrorRetries(t *testing.T) {
	callCount := 0
	err := DoIfRetryable(context.Background(), testConfig(), func() error {
		callCount++
		if callCount < 2 {
			return errors.New("connection refused")
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if callCount != 2 {
		t.Errorf("expected 2 calls, got %d", callCount)
	}
}
