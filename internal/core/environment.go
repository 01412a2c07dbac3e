package core

import (
	"strings"

	"github.com/rs/zerolog"
)

// Environment is the deployment environment the binaries run in.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

func (e Environment) IsProduction() bool {
	return e == Production
}

// DefaultLogLevel is the log level used when LOG_LEVEL is not set.
func (e Environment) DefaultLogLevel() zerolog.Level {
	switch e {
	case Production, Staging:
		return zerolog.InfoLevel
	case Testing:
		return zerolog.WarnLevel
	default:
		return zerolog.DebugLevel
	}
}

// ParseEnvironment accepts any casing and the usual short forms.
// Unknown values fall back to Development.
func ParseEnvironment(v string) Environment {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	case "testing", "test":
		return Testing
	default:
		return Development
	}
}
