package archive

import (
	"sync/atomic"

	"github.com/go-gum/archive/stream"
	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the archive package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// SetLogger configures the logger of this package and of package stream.
// Passing nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
	stream.SetLogger(l)
}
