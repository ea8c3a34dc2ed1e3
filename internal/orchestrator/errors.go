package orchestrator

import "fmt"

// Code classifies a tool-call failure.
type Code string

const (
	CodeMissingParam   Code = "MISSING_PARAM"
	CodeMissingSession Code = "MISSING_SESSION"
	CodeMissingTool    Code = "MISSING_TOOL"
	CodeUnknownTool    Code = "UNKNOWN_TOOL"
	CodeExecutionError Code = "EXECUTION_ERROR"
	CodeInternalError  Code = "INTERNAL_ERROR"
)

// ToolError is the error half of a tool envelope. Recoverable errors are
// caller-fixable input problems; the rest are internal failures.
type ToolError struct {
	Code        Code   `json:"code"`
	Message     string `json:"message"`
	Recoverable bool   `json:"recoverable"`
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func missingParam(name string) *ToolError {
	return &ToolError{Code: CodeMissingParam, Message: fmt.Sprintf("required parameter %q is missing", name), Recoverable: true}
}

func missingSession() *ToolError {
	return &ToolError{Code: CodeMissingSession, Message: "session id is required", Recoverable: true}
}

func missingTool() *ToolError {
	return &ToolError{Code: CodeMissingTool, Message: "tool name is required", Recoverable: true}
}

func unknownTool(name string) *ToolError {
	return &ToolError{Code: CodeUnknownTool, Message: fmt.Sprintf("no tool named %q", name), Recoverable: true}
}

func executionError(err error) *ToolError {
	return &ToolError{Code: CodeExecutionError, Message: err.Error(), Recoverable: false}
}

func internalError(v any) *ToolError {
	return &ToolError{Code: CodeInternalError, Message: fmt.Sprintf("tool panicked: %v", v), Recoverable: false}
}
