package logger

import (
	"os"

	"github.com/rs/zerolog"
)

var Log zerolog.Logger

// InitLogger sets up the global logger writing to stdout and logs/server.log
func InitLogger() {
	logDir := "logs"
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		panic(err)
	}

	file, err := os.OpenFile("logs/server.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		panic(err)
	}

	multi := zerolog.MultiLevelWriter(os.Stdout, file)

	Log = zerolog.New(multi).With().Timestamp().Logger()
}
