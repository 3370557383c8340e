package core

// DebugWriter receives one line of debug output
type DebugWriter func(string)

var (
	// debugPrintln is set by platform code; no-op by default
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled gates DebugPrintln so pin commands stay fast by default
	debugEnabled bool = false
)

// SetDebugWriter redirects debug output to UART, stdout, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes msg through the platform writer when debug is enabled
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// ReportError logs a command error; it is the firmware's error callback
func ReportError(err error) {
	if err != nil {
		DebugPrintln("[error] " + err.Error())
	}
}
