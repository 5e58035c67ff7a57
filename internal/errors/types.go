package errors

// Exit codes for different error types
const (
	ExitCodeSuccess      = 0
	ExitCodeGenericError = 1
	ExitCodeTimeout      = 124 // Standard timeout exit code
	ExitCodeInterrupted  = 130 // 128 + SIGINT
)

// FieldErrors maps an API field name to the messages reported for it.
type FieldErrors map[string][]string
