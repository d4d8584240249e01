package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// newLogger builds the logrus logger handed to the engine. Logs go to w
// (stderr in practice) so console reports on stdout stay clean.
func newLogger(level string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	})
	return logger, nil
}
