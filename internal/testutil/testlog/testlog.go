package testlog

import (
	"testing"

	"github.com/go-gum/archive"
	"github.com/go-gum/archive/internal/logging"
	"go.uber.org/zap"
)

func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	archive.Logger().Info("start", zap.String("test", t.Name()))
}
