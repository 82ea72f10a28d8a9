package logging_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colhub/hubsync/pkg/logging"
)

func TestSetDefault(t *testing.T) {
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	buf := &bytes.Buffer{}
	logging.SetDefault(logging.New(buf))
	logging.Default().Error().Msg("error message")

	assert.Contains(t, buf.String(), "error message")
}

func TestOrDefault(t *testing.T) {
	assert.Same(t, logging.Default(), logging.OrDefault(nil))

	nop := logging.NewNopLogger()
	assert.Same(t, nop, logging.OrDefault(nop))
}

func TestTestLogger(t *testing.T) {
	tl := logging.NewTestLogger(t)

	tl.Logger.Info().Msg("message 1")
	tl.Logger.Error().Msg("message 2")

	tl.AssertContains(t, "message 1")
	tl.AssertContains(t, "message 2")
	tl.AssertNotContains(t, "message 3")
	assert.Equal(t, 2, tl.Count())

	tl.Clear()
	assert.Equal(t, 0, tl.Count())
}
