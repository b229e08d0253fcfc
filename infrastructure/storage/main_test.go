package storage

import (
	"io"
	"os"
	"testing"

	"channel-insights/infrastructure/logger"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}
