package logging

// ProgressSampler suppresses repetitive ingest progress logs while preserving
// signal as record counts grow.
type ProgressSampler struct {
	bucketSize int
	lastBucket int
}

// NewProgressSampler constructs a sampler that emits when the processed record
// count crosses bucket boundaries (default every 5000 records).
func NewProgressSampler(bucketSize int) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 5000
	}
	return &ProgressSampler{bucketSize: bucketSize}
}

// ShouldLog reports whether a progress event for the given processed count
// should be logged. Counts below the first bucket boundary never emit; the
// per-source summary covers short sources.
func (s *ProgressSampler) ShouldLog(processed int) bool {
	if s == nil {
		return true
	}
	if processed <= 0 {
		return false
	}
	bucket := processed / s.bucketSize
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		return true
	}
	return false
}

// Reset clears the sampler state (e.g. when a new source starts).
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = 0
}
