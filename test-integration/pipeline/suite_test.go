package integration

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/muicebot/plugin-index/internal/logger"
)

var (
	ctx    context.Context
	cancel context.CancelFunc
)

func TestPipelineIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Plugin Index Integration Suite")
}

var _ = BeforeSuite(func() {
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	logger.Set(zap.New(zapcore.NewCore(encoder, zapcore.AddSync(GinkgoWriter), zapcore.DebugLevel)))

	ctx, cancel = context.WithCancel(context.TODO())
})

var _ = AfterSuite(func() {
	cancel()
})
