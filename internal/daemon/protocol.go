package daemon

import (
	"github.com/specter-dev/specter/internal/action"
	"github.com/specter-dev/specter/internal/history"
	"github.com/specter-dev/specter/internal/winctl"
)

// Request is the single envelope every client message decodes into. Type is
// the mandatory operation discriminator; the remaining fields are
// operation-specific and zero when unused.
type Request struct {
	Type string `json:"type"`

	// Sequence operations
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Action      *action.Action `json:"action,omitempty"`
	Limit       int            `json:"limit,omitempty"`

	// Mouse operations
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	Button string `json:"button,omitempty"`
	Amount int    `json:"amount,omitempty"`
	Axis   string `json:"axis,omitempty"`

	// Keyboard operations
	Text string `json:"text,omitempty"`
	Key  string `json:"key,omitempty"`

	// Shell, app and window operations
	Command       string `json:"command,omitempty"`
	App           string `json:"app,omitempty"`
	LaunchCommand string `json:"launch_command,omitempty"`
	Window        string `json:"window,omitempty"`
	Pattern       string `json:"pattern,omitempty"`
	WindowID      string `json:"window_id,omitempty"`
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`

	// Notifications
	Summary string `json:"summary,omitempty"`
	Body    string `json:"body,omitempty"`
}

// Response is the uniform result envelope: success with an optional payload,
// or an error with a machine-readable kind and a human-readable message.
type Response struct {
	Status  string `json:"status"` // "success" or "error"
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`

	// Payload fields, populated per operation.
	Recording *bool               `json:"recording,omitempty"`
	Playing   *bool               `json:"playing,omitempty"`
	Sequence  string              `json:"sequence,omitempty"`
	Sequences []string            `json:"sequences,omitempty"`
	Detail    *action.Sequence    `json:"detail,omitempty"`
	Steps     int                 `json:"steps,omitempty"`
	Total     int                 `json:"total,omitempty"`
	X         *int                `json:"x,omitempty"`
	Y         *int                `json:"y,omitempty"`
	Output    string              `json:"output,omitempty"`
	Running   *bool               `json:"running,omitempty"`
	Visible   *bool               `json:"visible,omitempty"`
	Windows   []winctl.WindowInfo `json:"windows,omitempty"`
	Window    *winctl.WindowInfo  `json:"window,omitempty"`
	Runs      []history.Run       `json:"runs,omitempty"`
	Version   string              `json:"version,omitempty"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

func ok() Response {
	return Response{Status: statusSuccess}
}

func okMsg(msg string) Response {
	return Response{Status: statusSuccess, Message: msg}
}

func fail(err error) Response {
	return Response{Status: statusError, Error: kindOf(err), Message: err.Error()}
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }
