// Package logs держит общий для приложения logrus-логгер.
package logs

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger — глобальный логгер. До Init пишет в stdout текстом, уровень info.
var Logger = logrus.New()

type Options struct {
	Level  string // trace|debug|info|warn|error|fatal
	Format string // text|json
	File   string // префикс файла: <File>_<время старта>.log, пусто — только stdout
}

// Init собирает новый логгер по опциям и подменяет им Logger.
func Init(opts Options) {
	l := logrus.New()
	l.SetLevel(ParseLevel(opts.Level))
	l.SetFormatter(formatter(opts.Format))

	out, err := output(opts.File, time.Now())
	if err != nil {
		l.Fatalf("logs: %v", err)
	}
	l.SetOutput(out)

	Logger = l
}

func formatter(format string) logrus.Formatter {
	if strings.EqualFold(format, "json") {
		return &logrus.JSONFormatter{TimestampFormat: time.RFC3339}
	}
	return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339}
}

// output дублирует лог в файл, если задан префикс.
func output(prefix string, started time.Time) (io.Writer, error) {
	if prefix == "" {
		return os.Stdout, nil
	}
	name := fmt.Sprintf("%s_%s.log", prefix, started.Format("2006-01-02_15-04-05"))
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", name, err)
	}
	return io.MultiWriter(f, os.Stdout), nil
}

// ParseLevel: неизвестная или пустая строка — info.
func ParseLevel(s string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(s))
	if err != nil || lvl == logrus.PanicLevel {
		return logrus.InfoLevel
	}
	return lvl
}
