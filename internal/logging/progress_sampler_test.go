package logging

import "testing"

func TestProgressSamplerEmitsOnBucketBoundaries(t *testing.T) {
	sampler := NewProgressSampler(1000)

	cases := []struct {
		processed int
		want      bool
	}{
		{1, false},
		{500, false},
		{999, false},
		{1000, true},
		{1001, false},
		{1999, false},
		{2000, true},
		{2500, false},
		{5000, true},
	}
	for _, tc := range cases {
		if got := sampler.ShouldLog(tc.processed); got != tc.want {
			t.Errorf("ShouldLog(%d) = %v, want %v", tc.processed, got, tc.want)
		}
	}
}

func TestProgressSamplerDefaultBucketSize(t *testing.T) {
	sampler := NewProgressSampler(0)
	if sampler.ShouldLog(4999) {
		t.Fatal("should not emit below the first boundary")
	}
	if !sampler.ShouldLog(5000) {
		t.Fatal("should emit at the first boundary")
	}
}

func TestProgressSamplerReset(t *testing.T) {
	sampler := NewProgressSampler(1000)
	if !sampler.ShouldLog(2000) {
		t.Fatal("expected initial emit")
	}
	sampler.Reset()
	if !sampler.ShouldLog(1000) {
		t.Fatal("expected emit after reset")
	}
}

func TestProgressSamplerNilReceiver(t *testing.T) {
	var sampler *ProgressSampler
	if !sampler.ShouldLog(1) {
		t.Fatal("nil sampler should always log")
	}
	sampler.Reset()
}
