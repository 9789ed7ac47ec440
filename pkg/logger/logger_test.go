package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/llm-benchmarks-backend/pkg/logger"
)

func TestInitWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWriter(&buf, "warn", "json")
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Info().Msg("dropped")
	log.Warn().Str("benchmark", "mmlu").Msg("kept")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "mmlu", entry["benchmark"])
	assert.Equal(t, "warn", entry["level"])
}

func TestInitWriterUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWriter(&buf, "verbose", "console")

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	log.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
}
