package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

func InitLogger() {
	Logger.SetReportCaller(true)

	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			filename := filepath.Base(f.File)
			return "", filename + ":" + strconv.Itoa(f.Line)
		},
	})

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		Logger.SetLevel(logrus.DebugLevel)
	case "warn":
		Logger.SetLevel(logrus.WarnLevel)
	case "error":
		Logger.SetLevel(logrus.ErrorLevel)
	default:
		Logger.SetLevel(logrus.InfoLevel)
	}

	Logger.Out = os.Stdout

	if os.Getenv("APP_ENV") == "production" {
		logPath := os.Getenv("LOG_FILE")
		if logPath == "" {
			logPath = filepath.Join("logs", "app.log")
		}
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			Logger.WithError(err).Warn("Failed to create log directory, using stdout instead")
			return
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			Logger.WithError(err).Warn("Failed to open log file, using stdout instead")
			return
		}
		Logger.Out = file
	}
}
