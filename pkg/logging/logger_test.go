package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_IncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "meterdb")

	logger.Info().Str("feed", "freezer").Msg("stored readings")

	out := buf.String()
	assert.Contains(t, out, "component=meterdb")
	assert.Contains(t, out, "feed=freezer")
	assert.Contains(t, out, "stored readings")
}

func TestSetVerbose(t *testing.T) {
	t.Cleanup(func() { SetVerbose(false) })

	var buf bytes.Buffer
	logger := New(&buf, "test")

	SetVerbose(false)
	logger.Debug().Msg("hidden")
	assert.NotContains(t, buf.String(), "hidden")

	SetVerbose(true)
	logger.Debug().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}
