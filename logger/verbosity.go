package logger

import "go.uber.org/zap/zapcore"

// Levels selected by repeating -v. They gate output categories as well as
// log severity (see output.go).
const (
	VerbosityUser  = 0 // No flags: results and errors only
	VerbosityInfo  = 1 // -v: + operation start/finish
	VerbosityDebug = 2 // -vv: + every tool invocation, config details
	VerbosityTrace = 3 // -vvv: + raw tool output
)

// VerbosityToLevel maps a -v count to the zap level: none logs warnings, -v
// adds info, -vv and above log everything.
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// LevelName names a verbosity for log output.
func LevelName(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "default"
	case VerbosityInfo:
		return "info (-v)"
	case VerbosityDebug:
		return "debug (-vv)"
	case VerbosityTrace:
		return "trace (-vvv)"
	default:
		if verbosity > VerbosityTrace {
			return "trace (-vvv+)"
		}
		return "unknown"
	}
}
