package timeouts

import (
	"context"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	Reset()

	if got := Ping(); got != DefaultPing {
		t.Errorf("Ping() = %s, want %s", got, DefaultPing)
	}
	if got := Short(); got != DefaultShort {
		t.Errorf("Short() = %s, want %s", got, DefaultShort)
	}
	if got := Medium(); got != DefaultMedium {
		t.Errorf("Medium() = %s, want %s", got, DefaultMedium)
	}
	if got := Long(); got != DefaultLong {
		t.Errorf("Long() = %s, want %s", got, DefaultLong)
	}
	if got := Sweep(); got != DefaultSweep {
		t.Errorf("Sweep() = %s, want %s", got, DefaultSweep)
	}
}

func TestConfigureOverridesOnlyNonZero(t *testing.T) {
	Reset()
	defer Reset()

	Configure(Config{Sweep: 5 * time.Minute})

	if got := Sweep(); got != 5*time.Minute {
		t.Errorf("Sweep() = %s, want 5m after Configure", got)
	}
	if got := Short(); got != DefaultShort {
		t.Errorf("Short() = %s, want default %s (zero config value must keep current)", got, DefaultShort)
	}

	Configure(Config{Sweep: 0})
	if got := Sweep(); got != 5*time.Minute {
		t.Errorf("Sweep() = %s, want 5m (zero config value must keep current)", got)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	Configure(Config{
		Ping:   time.Second,
		Short:  time.Second,
		Medium: time.Second,
		Long:   time.Second,
		Sweep:  time.Second,
	})
	Reset()

	if got := Sweep(); got != DefaultSweep {
		t.Errorf("Sweep() = %s after Reset, want %s", got, DefaultSweep)
	}
	if got := Long(); got != DefaultLong {
		t.Errorf("Long() = %s after Reset, want %s", got, DefaultLong)
	}
}

func TestWithTimeoutCancel(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Minute, nil, "test op")
	cancel()

	if ctx.Err() != context.Canceled {
		t.Errorf("ctx.Err() = %v, want context.Canceled", ctx.Err())
	}
}
