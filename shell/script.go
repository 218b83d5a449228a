package shell

import (
	"context"
	"encoding/json"
	"fmt"
)

// Page entry points the host calls.
const (
	openStartupFileFn = "window._quillOpenStartupFile"
	handleAppCloseFn  = "window._quillHandleAppClose"
)

//go:generate mockgen -package=shell -destination=mock_script_runner_test.go quillgo/shell ScriptRunner

// ScriptRunner evaluates a script in the hosted page. It returns an error
// when the page cannot run it yet, including when the script throws.
type ScriptRunner interface {
	EvalJS(ctx context.Context, script string) error
}

// OpenFileScript builds the call that hands a pushed file to the page.
// Arguments are JSON-encoded, which is valid JavaScript for strings.
func OpenFileScript(path, content string) string {
	p, _ := json.Marshal(path)
	c, _ := json.Marshal(content)
	return fmt.Sprintf("%s(%s, %s)", openStartupFileFn, p, c)
}

// HandleAppCloseScript asks the page to check for unsaved work.
func HandleAppCloseScript() string {
	return handleAppCloseFn + "()"
}
