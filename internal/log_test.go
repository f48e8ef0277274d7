package internal

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LogLevelError, ParseLevel("ERROR"))
	assert.Equal(t, LogLevelDebug, ParseLevel(" debug "))
	assert.Equal(t, LogLevelTrace, ParseLevel("TRACE"))
	assert.Equal(t, LogLevelInfo, ParseLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLevel("verbose"))
}

func TestNamedLoggerFiltersAndPrefixes(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	flags := log.Flags()
	log.SetFlags(0)
	defer log.SetFlags(flags)

	logger := NewLogger(LogLevelWarn).Named("variance")
	logger.Info("hidden")
	logger.Warn("groups %d", 3)

	assert.Equal(t, "[WARN] [variance] groups 3\n", buf.String())
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	flags := log.Flags()
	log.SetFlags(0)
	defer log.SetFlags(flags)

	logger := NewLogger(LogLevelError)
	logger.Debug("hidden")
	logger.SetLevel(LogLevelDebug)
	logger.Debug("shown")

	assert.Equal(t, "[DEBUG] shown\n", buf.String())
}
