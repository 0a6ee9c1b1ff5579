package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how verbosely the application logs.
type Options struct {
	AppName string
	Env     string
	Level   string
	// File, when set, receives a rotated copy of every entry.
	File string
}

// New creates a configured Logrus logger: text in development, JSON elsewhere.
func New(opts Options) *logrus.Logger {
	log := logrus.New()

	var out io.Writer = os.Stdout
	if opts.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	log.SetOutput(out)

	if opts.Env == "development" {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if opts.Level != "" {
		if lvl, err := logrus.ParseLevel(opts.Level); err == nil {
			log.SetLevel(lvl)
		} else {
			log.WithError(err).Warn("invalid log level, keeping default")
		}
	}

	log.WithFields(logrus.Fields{"app": opts.AppName, "env": opts.Env}).Debug("logger initialized")
	return log
}
