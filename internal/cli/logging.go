package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type logFormatter struct{}

var levelList = []string{
	"PANIC",
	"FATAL",
	"ERROR",
	"WARN",
	"INFO",
	"DEBUG",
	"TRACE",
}

// logLevels are the accepted --log-level values.
var logLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}

func joinLevels() string {
	return strings.Join(logLevels, "|")
}

func (f *logFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	level := levelList[int(entry.Level)]
	caller := ""
	if entry.Caller != nil {
		caller = fmt.Sprintf(" %s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}
	// Example log line:
	// 2024-03-23 12:16:42 WARN metadata.go:75 skipping file error="..." file=/data/a.dcm
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s%s %s", entry.Time.Format("2006-01-02 15:04:05"), level, caller, entry.Message)
	keys := lo.Keys(entry.Data)
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// initLogging configures the standard logrus logger from the global flags.
func initLogging(opts *RootOptions, stderr io.Writer) error {
	level := strings.ToLower(opts.LogLevel)
	if !lo.Contains(logLevels, level) {
		return fmt.Errorf("invalid log level %q: must be one of %s", opts.LogLevel, joinLevels())
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(parsed)
	logrus.SetReportCaller(true)
	logrus.SetFormatter(&logFormatter{})

	if opts.LogFile == "" {
		logrus.SetOutput(stderr)
		return nil
	}
	// lumberjack creates the file and its directory on first write.
	logrus.SetOutput(&lumberjack.Logger{
		Filename:   opts.LogFile,
		MaxSize:    200, // MB before rotation
		MaxBackups: 10,
	})
	logrus.Debug("logging initialised")
	return nil
}
