package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/openfroyo/depctl/pkg/engine"
)

// Format selects how command outcomes are written.
type Format string

const (
	// FormatText writes the classic transcript: the echoed command followed by one message per line.
	FormatText Format = "text"

	// FormatJSON writes one JSON object per command.
	FormatJSON Format = "json"
)

// InvalidCommandMessage is printed for lines that do not parse.
const InvalidCommandMessage = "INVALID COMMAND"

// ErrCodeInvalidCommand is the error code reported for unparseable lines in JSON output.
const ErrCodeInvalidCommand = "INVALID_COMMAND"

// NotificationMessage renders a notification as a transcript line.
func NotificationMessage(n engine.Notification) string {
	switch n.Kind {
	case engine.NotificationInstalling:
		return "Installing " + n.Component
	case engine.NotificationRemoving:
		return "Removing " + n.Component
	case engine.NotificationAlreadyInstalled:
		return n.Component + " is already installed"
	case engine.NotificationNotInstalled:
		return n.Component + " is not installed"
	default:
		return fmt.Sprintf("%s %s", n.Kind, n.Component)
	}
}

// RejectionMessage renders a rejected operation as a transcript line.
func RejectionMessage(err error) string {
	var e *engine.EngineError
	if !errors.As(err, &e) {
		return err.Error()
	}

	switch e.Code {
	case engine.ErrCodeCycleRejected:
		return fmt.Sprintf("%s depends on %s, ignoring command", e.DetailString(engine.DetailDependency), e.Component)
	case engine.ErrCodeNameTooLong:
		return fmt.Sprintf("Program name : %s is greater than %d char.", e.Component, engine.MaxNameLength)
	case engine.ErrCodeEmptyName:
		return "Component name is empty, ignoring command"
	case engine.ErrCodeStillNeeded:
		return e.Component + " is still needed"
	default:
		return e.Message
	}
}

// renderer writes the outcome of each processed line.
type renderer interface {
	// Result writes a command and the engine's answer to it.
	Result(cmd Command, res *engine.Result) error

	// Invalid writes a line that did not parse.
	Invalid(line string, err error) error

	// End writes the END acknowledgement.
	End() error
}

func newRenderer(format Format, w io.Writer) renderer {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		return &jsonRenderer{enc: enc}
	}
	return &textRenderer{w: w}
}

type textRenderer struct {
	w io.Writer
}

func (r *textRenderer) Result(cmd Command, res *engine.Result) error {
	var e *engine.EngineError
	if errors.As(res.Err, &e) && e.Code == engine.ErrCodeNameTooLong {
		// The echo stops at the offending name and the rejection shares its line.
		return r.write(echoUntil(cmd, e.Component) + " " + RejectionMessage(res.Err))
	}

	lines := make([]string, 0, len(res.Notifications)+len(res.Installed)+2)
	lines = append(lines, cmd.String())
	for _, note := range res.Notifications {
		lines = append(lines, NotificationMessage(note))
	}
	lines = append(lines, res.Installed...)
	if res.Err != nil {
		lines = append(lines, RejectionMessage(res.Err))
	}
	return r.write(lines...)
}

// echoUntil echoes cmd up to, not including, the first argument equal to name.
func echoUntil(cmd Command, name string) string {
	parts := []string{string(cmd.Keyword)}
	for _, arg := range cmd.Args {
		if arg == name {
			break
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

func (r *textRenderer) Invalid(line string, err error) error {
	return r.write(InvalidCommandMessage)
}

func (r *textRenderer) End() error {
	return r.write(string(KeywordEnd))
}

func (r *textRenderer) write(lines ...string) error {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

// Record is the JSON form of one processed line.
type Record struct {
	Command       string               `json:"command"`
	Args          []string             `json:"args,omitempty"`
	Notifications []RecordNotification `json:"notifications,omitempty"`
	Installed     []string             `json:"installed,omitempty"`
	Error         *RecordError         `json:"error,omitempty"`
}

// RecordNotification is a notification together with its transcript message.
type RecordNotification struct {
	engine.Notification
	Message string `json:"message"`
}

// RecordError describes a rejected or invalid command.
type RecordError struct {
	Code    string `json:"code"`
	Class   string `json:"class,omitempty"`
	Message string `json:"message"`
}

type jsonRenderer struct {
	enc *json.Encoder
}

func (r *jsonRenderer) Result(cmd Command, res *engine.Result) error {
	rec := Record{
		Command:   string(cmd.Keyword),
		Args:      cmd.Args,
		Installed: res.Installed,
	}
	for _, note := range res.Notifications {
		rec.Notifications = append(rec.Notifications, RecordNotification{
			Notification: note,
			Message:      NotificationMessage(note),
		})
	}
	if res.Err != nil {
		rec.Error = &RecordError{
			Code:    engine.CodeOf(res.Err),
			Message: RejectionMessage(res.Err),
		}
		var e *engine.EngineError
		if errors.As(res.Err, &e) {
			rec.Error.Class = string(e.Class)
		}
	}
	return r.enc.Encode(rec)
}

func (r *jsonRenderer) Invalid(line string, err error) error {
	return r.enc.Encode(Record{
		Command: strings.TrimSpace(line),
		Error: &RecordError{
			Code:    ErrCodeInvalidCommand,
			Message: err.Error(),
		},
	})
}

func (r *jsonRenderer) End() error {
	return r.enc.Encode(Record{Command: string(KeywordEnd)})
}
