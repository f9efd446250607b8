package timer

import (
	"testing"
	"time"
)

func TestNewClampsDuration(t *testing.T) {
	cases := []struct {
		name string
		in   time.Duration
		want time.Duration
	}{
		{"zero falls back to default", 0, DefaultDuration},
		{"negative falls back to default", -time.Minute, DefaultDuration},
		{"below minimum clamps up", time.Second, MinDuration},
		{"above maximum clamps down", 48 * time.Hour, MaxDuration},
		{"in range passes through", 10 * time.Minute, 10 * time.Minute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := New(tc.in)
			if r.Duration() != tc.want {
				t.Errorf("Duration() = %v, want %v", r.Duration(), tc.want)
			}
			if r.Remaining(time.Now()) != tc.want {
				t.Errorf("Remaining() = %v, want %v", r.Remaining(time.Now()), tc.want)
			}
		})
	}
}

func TestToggleStartPause(t *testing.T) {
	now := time.Unix(1000, 0)
	r := New(5 * time.Minute)

	r.Toggle(now)
	if !r.Running() {
		t.Fatal("Running() = false after start")
	}
	if r.State() != StateRunning {
		t.Errorf("State() = %v, want running", r.State())
	}

	// Pause immediately: remaining unchanged.
	r.Toggle(now)
	if r.Running() {
		t.Fatal("Running() = true after pause")
	}
	if got := r.Remaining(now); got != 5*time.Minute {
		t.Errorf("Remaining() = %v after immediate start/pause, want 5m", got)
	}
}

func TestTogglePreservesProgressAcrossResume(t *testing.T) {
	now := time.Unix(1000, 0)
	r := New(5 * time.Minute)

	r.Toggle(now)
	now = now.Add(90 * time.Second)
	r.Toggle(now) // pause with 3m30s left

	if got := r.Remaining(now); got != 3*time.Minute+30*time.Second {
		t.Fatalf("Remaining() after pause = %v, want 3m30s", got)
	}

	// Resume: startedAt is back-dated by elapsed so countdown continues.
	now = now.Add(time.Hour) // long pause must not consume time
	r.Toggle(now)
	now = now.Add(30 * time.Second)
	if got := r.Remaining(now); got != 3*time.Minute {
		t.Errorf("Remaining() after resume+30s = %v, want 3m", got)
	}
}

func TestToggleRestartsFinishedTimer(t *testing.T) {
	now := time.Unix(1000, 0)
	r := New(10 * time.Second)

	r.Toggle(now)
	now = now.Add(11 * time.Second)
	if expired := r.Advance(now); !expired {
		t.Fatal("Advance() = false at expiry, want true")
	}
	if !r.Finished() {
		t.Fatal("Finished() = false after expiry")
	}

	r.Toggle(now)
	if !r.Running() {
		t.Fatal("Running() = false after restarting finished timer")
	}
	if r.Finished() {
		t.Error("Finished() = true after restart, want false")
	}
	if got := r.Remaining(now); got != 10*time.Second {
		t.Errorf("Remaining() after restart = %v, want full 10s", got)
	}
}

func TestResetFromEveryState(t *testing.T) {
	now := time.Unix(1000, 0)

	states := map[string]func(*Runtime){
		"idle": func(r *Runtime) {},
		"running": func(r *Runtime) {
			r.Toggle(now)
		},
		"finished": func(r *Runtime) {
			r.Toggle(now)
			r.Advance(now.Add(time.Hour))
		},
	}

	for name, setup := range states {
		t.Run(name, func(t *testing.T) {
			r := New(5 * time.Minute)
			setup(r)
			r.Reset()

			if r.Running() {
				t.Error("Running() = true after reset")
			}
			if r.Finished() {
				t.Error("Finished() = true after reset")
			}
			if got := r.Remaining(now); got != 5*time.Minute {
				t.Errorf("Remaining() = %v after reset, want full duration", got)
			}
		})
	}
}

func TestAdjustSecondsClamps(t *testing.T) {
	r := New(10 * time.Second)

	// Repeated decrements never go below the minimum.
	for i := 0; i < 10; i++ {
		r.AdjustSeconds(-5)
	}
	if r.Duration() != MinDuration {
		t.Errorf("Duration() = %v after repeated decrements, want %v", r.Duration(), MinDuration)
	}

	// Huge increment clamps to the maximum.
	r.AdjustSeconds(1 << 30)
	if r.Duration() != MaxDuration {
		t.Errorf("Duration() = %v after huge increment, want %v", r.Duration(), MaxDuration)
	}
	if r.Remaining(time.Now()) != MaxDuration {
		t.Error("Remaining should track the new duration after adjust")
	}
}

func TestAdjustSecondsIgnoredWhileRunning(t *testing.T) {
	now := time.Unix(1000, 0)
	r := New(time.Minute)
	r.Toggle(now)

	if r.AdjustSeconds(30) {
		t.Error("AdjustSeconds() = true while running, want false")
	}
	if r.Duration() != time.Minute {
		t.Errorf("Duration() = %v, adjustment applied while running", r.Duration())
	}
}

func TestAdjustSecondsClearsFinished(t *testing.T) {
	now := time.Unix(1000, 0)
	r := New(10 * time.Second)
	r.Toggle(now)
	r.Advance(now.Add(time.Minute))

	if !r.AdjustSeconds(5) {
		t.Fatal("AdjustSeconds() = false while finished, want true")
	}
	if r.Finished() {
		t.Error("Finished() = true after adjust, want false")
	}
	if r.Duration() != 15*time.Second {
		t.Errorf("Duration() = %v, want 15s", r.Duration())
	}
}

func TestAdvanceReportsExpiryExactlyOnce(t *testing.T) {
	now := time.Unix(1000, 0)
	r := New(10 * time.Second)
	r.Toggle(now)

	now = now.Add(5 * time.Second)
	if r.Advance(now) {
		t.Error("Advance() = true before expiry")
	}
	if got := r.Remaining(now); got != 5*time.Second {
		t.Errorf("Remaining() = %v mid-countdown, want 5s", got)
	}

	now = now.Add(6 * time.Second)
	if !r.Advance(now) {
		t.Error("Advance() = false at expiry, want true")
	}
	if r.Running() {
		t.Error("Running() = true after expiry")
	}
	if got := r.Remaining(now); got != 0 {
		t.Errorf("Remaining() = %v after expiry, want 0", got)
	}

	// Subsequent ticks never report expiry again.
	for i := 0; i < 3; i++ {
		now = now.Add(time.Second)
		if r.Advance(now) {
			t.Fatal("Advance() reported expiry twice")
		}
	}
}

func TestProgressClamped(t *testing.T) {
	now := time.Unix(1000, 0)
	r := New(100 * time.Second)

	if got := r.Progress(now); got != 100 {
		t.Errorf("Progress() = %d at full, want 100", got)
	}

	r.Toggle(now)
	if got := r.Progress(now.Add(25 * time.Second)); got != 75 {
		t.Errorf("Progress() = %d at 25s elapsed, want 75", got)
	}
	if got := r.Progress(now.Add(time.Hour)); got != 0 {
		t.Errorf("Progress() = %d past expiry, want 0", got)
	}
}
