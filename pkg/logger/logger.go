package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var L *zap.Logger

func init() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	base, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	// 所有日誌帶上 service 欄位，方便多服務環境下過濾
	L = base.With(zap.String("service", "eventify"))
}

// WithComponent 回傳帶有 component 欄位的 logger，供 handler、worker 等使用
func WithComponent(component string) *zap.Logger {
	return L.With(zap.String("component", component))
}
