package logger

import (
	"fmt"
	"io"
	"net"
	"time"

	logstash "github.com/bshuster-repo/logrus-logstash-hook"
	"github.com/sirupsen/logrus"
)

const logstashDialTimeout = 5 * time.Second

type ELKLogger struct {
	logger *logrus.Logger
	conn   net.Conn
}

var _ Logger = (*ELKLogger)(nil)

// NewELKLogger ships every entry to the Logstash TCP input at addr, tagged with app.
func NewELKLogger(app, addr string) (*ELKLogger, error) {
	conn, err := net.DialTimeout("tcp", addr, logstashDialTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to logstash %s: %w", addr, err)
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.AddHook(logstash.New(conn, logstash.DefaultFormatter(logrus.Fields{"app": app})))
	return &ELKLogger{logger: l, conn: conn}, nil
}

func (l *ELKLogger) Close() error {
	return l.conn.Close()
}

// SetLogLevel accepts any logrus level name and falls back to info.
func (l *ELKLogger) SetLogLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.logger.SetLevel(lvl)
}

func (l *ELKLogger) Info(msg string, fields ...Field)  { l.log(logrus.InfoLevel, msg, fields) }
func (l *ELKLogger) Warn(msg string, fields ...Field)  { l.log(logrus.WarnLevel, msg, fields) }
func (l *ELKLogger) Error(msg string, fields ...Field) { l.log(logrus.ErrorLevel, msg, fields) }
func (l *ELKLogger) Debug(msg string, fields ...Field) { l.log(logrus.DebugLevel, msg, fields) }

func (l *ELKLogger) Fatal(msg string, fields ...Field) {
	l.logger.WithFields(fmtFields(fields)).Fatal(msg)
}

func (l *ELKLogger) Infof(format string, args ...interface{})  { l.logf(logrus.InfoLevel, format, args) }
func (l *ELKLogger) Warnf(format string, args ...interface{})  { l.logf(logrus.WarnLevel, format, args) }
func (l *ELKLogger) Errorf(format string, args ...interface{}) { l.logf(logrus.ErrorLevel, format, args) }
func (l *ELKLogger) Debugf(format string, args ...interface{}) { l.logf(logrus.DebugLevel, format, args) }

func (l *ELKLogger) Fatalf(format string, args ...interface{}) {
	l.logger.Fatalf(format, args...)
}

func (l *ELKLogger) log(level logrus.Level, msg string, fields []Field) {
	l.logger.WithFields(fmtFields(fields)).Log(level, msg)
}

func (l *ELKLogger) logf(level logrus.Level, format string, args []interface{}) {
	l.logger.Logf(level, format, args...)
}

func (l *ELKLogger) SweetenFields(args []interface{}) []Field {
	return sweetenFields(args)
}

// fmtFields flattens errors to strings, logstash's JSON encoder drops them otherwise.
func fmtFields(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		if err, ok := f.Val.(error); ok {
			out[f.Key] = err.Error()
			continue
		}
		out[f.Key] = f.Val
	}
	return out
}
