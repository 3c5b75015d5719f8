package logger

import (
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/duccv/service-kit/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	zapLogger *zap.Logger
	once      sync.Once
)

// initLogger initializes the Zap logger with the given configuration
func initLogger(cfg config.LoggerConfig) *zap.Logger {
	level := getLogLevel(cfg.Level, cfg.Environment)

	prodEncoderCfg := zap.NewProductionEncoderConfig()
	prodEncoderCfg.TimeKey = "timestamp"
	prodEncoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	prodEncoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	devEncoderCfg := zap.NewDevelopmentEncoderConfig()
	devEncoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	devEncoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	var cores []zapcore.Core

	if cfg.FilePath != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			LocalTime:  cfg.LocalTime,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(prodEncoderCfg), fileWriter, level))
	}

	// Console: colorful outside production, JSON on stdout otherwise (unless a file is configured)
	if cfg.Environment != "production" {
		consoleEncoder := zapcore.NewConsoleEncoder(devEncoderCfg)
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level))
	} else if len(cores) == 0 {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(prodEncoderCfg), zapcore.AddSync(os.Stdout), level))
	}

	return zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

// getLogLevel returns the appropriate log level based on configuration
func getLogLevel(levelStr string, env string) zap.AtomicLevel {
	level, err := zap.ParseAtomicLevel(levelStr)
	if env == "production" {
		if err != nil || level.Level() < zapcore.InfoLevel {
			fmt.Fprintf(
				os.Stderr,
				"[Logger] ⚠️  Log level '%s' not allowed in production. Fallback to INFO\n",
				levelStr,
			)
			return zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
		return level
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "[Logger] ⚠️  Invalid log level '%s', fallback to INFO\n", levelStr)
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return level
}

// GetLogger returns the singleton logger instance
func GetLogger(cfg config.LoggerConfig) *zap.Logger {
	once.Do(func() {
		zapLogger = initLogger(cfg)
	})
	return zapLogger
}

// WithRequest adds HTTP request information to the logger
func WithRequest(logger *zap.Logger, req *http.Request) *zap.Logger {
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("remoteAddr", req.RemoteAddr),
	}

	if req.Referer() != "" {
		fields = append(fields, zap.String("referer", req.Referer()))
	}

	return logger.With(fields...)
}

// WithResponse adds HTTP response information to the logger
func WithResponse(logger *zap.Logger, statusCode int, responseTime time.Duration) *zap.Logger {
	return logger.With(
		zap.Int("statusCode", statusCode),
		zap.Duration("responseTime", responseTime),
	)
}

// WithInvocation adds the remote operation being called to the logger
func WithInvocation(logger *zap.Logger, service, operation string) *zap.Logger {
	return logger.With(
		zap.String("service", service),
		zap.String("operation", operation),
	)
}

// WithComponent adds component information to the logger
func WithComponent(logger *zap.Logger, component string) *zap.Logger {
	return logger.With(zap.String("component", component))
}

// Sync flushes any buffered log entries
func Sync() error {
	if zapLogger != nil {
		return zapLogger.Sync()
	}
	return nil
}
