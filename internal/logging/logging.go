// Package logging configures the shared file logger.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFile is the log filename inside the config directory.
const LogFile = "taskdeck.log"

// Logger is the shared logrus instance. Output is discarded until Init runs,
// so library code can log unconditionally.
var Logger = logrus.New()

var once sync.Once

func init() {
	Logger.SetOutput(io.Discard)
}

// Init routes the shared logger to a rotating file under dir. With debug set,
// the level drops to debug and entries are mirrored to stderr.
func Init(dir string, debug bool) {
	once.Do(func() {
		file := &lumberjack.Logger{
			Filename:   filepath.Join(dir, LogFile),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		Logger.SetLevel(logrus.InfoLevel)
		Logger.SetOutput(file)
		if debug {
			Logger.SetLevel(logrus.DebugLevel)
			Logger.SetOutput(io.MultiWriter(file, os.Stderr))
		}
	})
}

// WithComponent tags entries with the component that emitted them.
func WithComponent(name string) *logrus.Entry {
	return Logger.WithField("component", name)
}
