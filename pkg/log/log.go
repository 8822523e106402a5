package log

import "go.uber.org/zap"

var logger *zap.Logger

func Init(prod bool) error {
	if logger != nil {
		return nil
	}
	var err error
	if prod {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	return err
}

// InitNop installs a no-op logger. Tests use it to silence output.
func InitNop() {
	logger = zap.NewNop()
}

func L() *zap.Logger {
	if logger == nil {
		panic("logger not initialized")
	}
	return logger
}

// Sync flushes buffered entries; safe to call before process exit.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
