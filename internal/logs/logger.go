package logs

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Options struct {
	Level         string // trace|debug|info|warn|error
	Format        string // text|json
	Dir           string // empty disables the log file
	RetentionDays int
}

// New builds the application logger. When Dir is set the output is mirrored into a
// daily file; the returned close func releases it.
func New(opts Options) (*logrus.Logger, func() error, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if opts.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if opts.Dir == "" {
		logger.SetOutput(os.Stdout)
		return logger, func() error { return nil }, nil
	}
	file, err := OpenDailyFile(opts.Dir, opts.RetentionDays)
	if err != nil {
		logger.SetOutput(os.Stdout)
		return logger, func() error { return nil }, err
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, file))
	return logger, file.Close, nil
}
