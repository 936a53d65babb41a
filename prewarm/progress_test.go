package prewarm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker(t *testing.T) {
	t.Run("reports at the configured interval", func(t *testing.T) {
		var out bytes.Buffer
		tracker := NewProgressTracker(&out, 10, 5)
		tracker.Start()

		tracker.Increment(3)
		assert.Empty(t, out.String(), "below interval, no report yet")

		tracker.Increment(2)
		assert.Contains(t, out.String(), "5/10")

		tracker.Finish()
		assert.Contains(t, out.String(), "10/10")
		assert.Contains(t, out.String(), "100.0%")
	})

	t.Run("increment caps at total", func(t *testing.T) {
		var out bytes.Buffer
		tracker := NewProgressTracker(&out, 4, 1)
		tracker.Start()
		tracker.Increment(10)
		assert.Contains(t, out.String(), "4/4")
		assert.False(t, strings.Contains(out.String(), "10/4"))
	})

	t.Run("updates before start are ignored", func(t *testing.T) {
		var out bytes.Buffer
		tracker := NewProgressTracker(&out, 4, 1)
		tracker.Increment(2)
		tracker.Finish()
		assert.Empty(t, out.String())
		assert.Zero(t, tracker.Elapsed())
	})
}
