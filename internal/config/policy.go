package config

import "strings"

// RefPolicy decides what a broken reference does to a build.
type RefPolicy string

const (
	// PolicyWarn keeps the build green and reports the problem.
	PolicyWarn RefPolicy = "warn"
	// PolicyFail turns the problem into a build failure.
	PolicyFail RefPolicy = "fail"
	// PolicyIgnore suppresses the problem entirely.
	PolicyIgnore RefPolicy = "ignore"
)

// NormalizeRefPolicy case-folds a policy value; unknown values return "".
func NormalizeRefPolicy(raw string) RefPolicy {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "warn", "warning":
		return PolicyWarn
	case "fail", "error", "strict":
		return PolicyFail
	case "ignore", "off":
		return PolicyIgnore
	}
	return ""
}

// LogLevel enumerates supported logging levels (mapped onto slog levels).
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// NormalizeLogLevel case-folds a level; unknown values return "".
func NormalizeLogLevel(raw string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	}
	return ""
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// NormalizeLogFormat case-folds a format; unknown values return "".
func NormalizeLogFormat(raw string) LogFormat {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "json":
		return LogFormatJSON
	case "text", "console":
		return LogFormatText
	}
	return ""
}
