// Package metrics provides build performance tracking.
package metrics

import (
	"fmt"
	"time"
)

// BuildMetrics tracks performance data during one bundling pass.
type BuildMetrics struct {
	// Timing
	StartTime    time.Time
	EndTime      time.Time
	SnapshotTime time.Duration
	BundleTime   time.Duration
	ReportTime   time.Duration

	// Counters
	AssetsEmitted int
	BytesEmitted  int64
}

// NewBuildMetrics creates a new metrics instance.
func NewBuildMetrics() *BuildMetrics {
	return &BuildMetrics{
		StartTime: time.Now(),
	}
}

// RecordEnd marks the end of the pass.
func (m *BuildMetrics) RecordEnd() {
	m.EndTime = time.Now()
}

// TotalDuration returns the total pass duration.
func (m *BuildMetrics) TotalDuration() time.Duration {
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// AddAsset records one emitted asset and its gzip size.
func (m *BuildMetrics) AddAsset(gzipSize int64) {
	m.AssetsEmitted++
	m.BytesEmitted += gzipSize
}

// String returns a formatted summary of the pass (minimal single-line format).
func (m *BuildMetrics) String() string {
	return fmt.Sprintf("📊 Emitted %d assets (%d B gzipped) in %v (bundle: %v, snapshot: %v)\n",
		m.AssetsEmitted,
		m.BytesEmitted,
		m.TotalDuration().Round(time.Millisecond),
		m.BundleTime.Round(time.Millisecond),
		m.SnapshotTime.Round(time.Millisecond),
	)
}
