package logx

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"github.com/wastewise/wastewise-core/internal/core"
)

func TestInitProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(LoggerOpts{Environment: core.Production, Output: &buf})
	t.Cleanup(func() { Init() })

	Debug().Msg("hidden")
	Info().Str("path", "/health").Msg("request")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"path":"/health"`)
	assert.Contains(t, out, `"message":"request"`)
}

func TestInitLevelOverride(t *testing.T) {
	var buf bytes.Buffer
	Init(LoggerOpts{Environment: core.Production, Level: "warn", Output: &buf})
	t.Cleanup(func() { Init() })

	assert.Equal(t, zerolog.WarnLevel, log.Logger.GetLevel())

	Init(LoggerOpts{Environment: core.Testing, Level: "nonsense", Output: &buf})
	assert.Equal(t, zerolog.WarnLevel, log.Logger.GetLevel())
}
