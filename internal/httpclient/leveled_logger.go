package httpclient

import (
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// zerologLeveled adapts zerolog to retryablehttp.LeveledLogger
type zerologLeveled struct {
	logger zerolog.Logger
}

var _ retryablehttp.LeveledLogger = zerologLeveled{}

func (l zerologLeveled) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l zerologLeveled) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l zerologLeveled) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l zerologLeveled) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}
