package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	sharedUtils "github.com/davicafu/wishlab/shared/utils"
)

var log = zap.NewNop()

// Init inicializa el logger global. En modo debug se usa la configuración de desarrollo.
func Init(level string, debug bool) error {
	lvl, err := zapcore.ParseLevel(sharedUtils.Ternary(level == "", "info", level))
	if err != nil {
		return err
	}

	cfg := sharedUtils.Ternary(debug, zap.NewDevelopmentConfig(), zap.NewProductionConfig())
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	if !debug {
		cfg.Encoding = "json" // Logs estructurados en JSON
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.MessageKey = "msg"
		cfg.EncoderConfig.LevelKey = "level"
		cfg.EncoderConfig.CallerKey = "caller"
	}

	built, err := cfg.Build()
	if err != nil {
		return err
	}
	log = built
	return nil
}

// Sugar retorna un logger más “friendly” para usar con printf-like
func Sugar() *zap.SugaredLogger {
	return log.Sugar()
}

// Logger retorna el logger estructurado
func Logger() *zap.Logger {
	return log
}

// Sync vacía los buffers pendientes; se llama al salir.
func Sync() {
	_ = log.Sync()
}
