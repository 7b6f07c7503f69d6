package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name        string
		verbose     bool
		expectInfo bool
	}{
		{name: "quiet logs warnings only", verbose: false},
		{name: "verbose adds progress", verbose: true, expectInfo: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, tc.verbose)

			logger.Debug("debug line")
			logger.Info("processing project", zap.String("project", "acme/widget"))
			logger.Warn("warn line")
			_ = logger.Sync()

			out := buf.String()
			assert.Contains(t, out, "warn line")
			assert.Equal(t, tc.expectInfo, bytes.Contains(buf.Bytes(), []byte("acme/widget")))
			assert.NotContains(t, out, "debug line")
		})
	}
}
