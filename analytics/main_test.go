package analytics_test

import (
	"testing"

	"go.uber.org/goleak"

	"github.com/kbukum/providerkit/logger"
)

func TestMain(m *testing.M) {
	logger.Register("analytics", logger.NewNop())
	logger.Register("provider", logger.NewNop())
	goleak.VerifyTestMain(m)
}
