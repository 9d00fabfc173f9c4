// Package lumber is the logging facade shared by every neuron service.
package lumber

import "github.com/LambdaTest/neuron/pkg/errs"

// LoggingConfig selects the console and rotating file outputs. Logrus has a
// single level across outputs, it uses ConsoleLevel.
type LoggingConfig struct {
	EnableConsole     bool
	ConsoleJSONFormat bool
	ConsoleLevel      string
	EnableFile        bool
	FileJSONFormat    bool
	FileLevel         string
	FileLocation      string
}

// Fields Type to pass when we want to call WithFields for structured logging
type Fields map[string]interface{}

// Common field keys, so the zap and logrus outputs can be queried the same way.
const (
	FieldRepoID = "repo_id"
	FieldSha    = "sha"
	FieldPlugin = "plugin"
	FieldJobID  = "job_id"
)

// CommitFields tags entries with the commit they concern.
func CommitFields(repoID int64, sha string) Fields {
	return Fields{FieldRepoID: repoID, FieldSha: sha}
}

const (
	// Debug has verbose message
	Debug = "debug"
	// Info is default log level
	Info = "info"
	// Warn is for logging messages about possible issues
	Warn = "warn"
	// Error is for logging errors
	Error = "error"
	// Fatal is for logging fatal messages. The system shutsdown after logging the message.
	Fatal = "fatal"
)

// List of supported loggers.
const (
	InstanceZapLogger int = iota
	InstanceLogrusLogger
)

// Logger is implemented by the zap and logrus backends.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	// Fatalf exits the process with status 1 after logging.
	Fatalf(format string, args ...interface{})
	Panicf(format string, args ...interface{})
	// WithFields returns a child logger carrying keyValues on every entry.
	WithFields(keyValues Fields) Logger
}

// NewLogger builds the backend named by loggerInstance. The server runs on
// zap, tests use logrus.
func NewLogger(config LoggingConfig, verbose bool, loggerInstance int) (Logger, error) {
	switch loggerInstance {
	case InstanceZapLogger:
		return newZapLogger(config, verbose), nil
	case InstanceLogrusLogger:
		return newLogrusLogger(config, verbose)
	default:
		return nil, errs.ErrInvalidLoggerInstance
	}
}
