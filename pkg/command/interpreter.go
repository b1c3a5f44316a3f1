package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/openfroyo/depctl/pkg/engine"
	"github.com/openfroyo/depctl/pkg/telemetry"
)

// maxLineSize bounds a single command line.
const maxLineSize = 1024 * 1024

// Interpreter reads command lines, applies them to an engine and writes the outcome
// of each one. It is not safe for concurrent use; the engine it drives is.
type Interpreter struct {
	engine *engine.Engine
	format Format
	render renderer

	tel       *telemetry.Telemetry
	logger    *telemetry.Logger
	sessionID string

	// lineNo counts every line handed to Execute, blank ones included.
	lineNo int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithFormat selects the output format. The default is FormatText.
func WithFormat(format Format) Option {
	return func(i *Interpreter) {
		i.format = format
	}
}

// WithTelemetry attaches logging, tracing and metrics. Without it the interpreter
// runs with no-op telemetry.
func WithTelemetry(tel *telemetry.Telemetry) Option {
	return func(i *Interpreter) {
		i.tel = tel
	}
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) Option {
	return func(i *Interpreter) {
		i.sessionID = id
	}
}

// NewInterpreter creates an interpreter driving eng and writing to w.
func NewInterpreter(eng *engine.Engine, w io.Writer, opts ...Option) *Interpreter {
	i := &Interpreter{
		engine:    eng,
		format:    FormatText,
		sessionID: uuid.New().String(),
	}
	for _, opt := range opts {
		opt(i)
	}

	if i.tel == nil {
		i.tel = telemetry.NewNoopTelemetry()
	}
	i.render = newRenderer(i.format, w)
	i.logger = i.tel.Logger.NewSubsystemLogger("interpreter").WithSessionID(i.sessionID)

	return i
}

// SessionID returns the ID attached to this interpreter's logs and spans.
func (i *Interpreter) SessionID() string {
	return i.sessionID
}

// Engine returns the engine the interpreter drives.
func (i *Interpreter) Engine() *engine.Engine {
	return i.engine
}

// Run executes lines from r until END, the end of input, or cancellation of ctx.
func (i *Interpreter) Run(ctx context.Context, r io.Reader) error {
	i.logger.Debug("Session started")

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		done, err := i.Execute(ctx, scanner.Text())
		if err != nil {
			return err
		}
		if done {
			i.logger.Debug("Session ended")
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read commands: %w", err)
	}

	i.logger.Debug("Input exhausted without END")
	return nil
}

// Execute processes a single line and writes its outcome.
//
// done is true once END has been processed. Rejected and invalid commands are part
// of the transcript, not errors; err is only set when the output cannot be written.
func (i *Interpreter) Execute(ctx context.Context, line string) (done bool, err error) {
	i.lineNo++

	cmd, err := Parse(line)
	if errors.Is(err, ErrEmptyLine) {
		return false, nil
	}
	if err != nil {
		timer := telemetry.NewTimer()
		i.logger.WithCommand("INVALID", i.lineNo).WithError(err).Debug("Invalid command")
		i.tel.Metrics.RecordRejection(ErrCodeInvalidCommand)
		i.tel.Metrics.RecordCommand("INVALID", telemetry.OutcomeInvalid, timer.Duration())
		return false, i.write(i.render.Invalid(line, err))
	}

	keyword := string(cmd.Keyword)
	logger := i.logger.WithCommand(keyword, i.lineNo)
	if name := cmd.Component(); name != "" {
		logger = logger.WithComponent(name)
	}

	op := telemetry.StartOperation(
		logger.WithContext(i.tel.WithContext(ctx)),
		telemetry.CommandOperation(keyword),
		telemetry.CommandAttributes(keyword, cmd.Component(), i.sessionID)...,
	)

	if cmd.Keyword == KeywordEnd {
		op.End(nil)
		i.tel.Metrics.RecordCommand(keyword, telemetry.OutcomeOK, op.Timer.Duration())
		op.Logger.Debug("End of commands")
		return true, i.write(i.render.End())
	}

	res := i.apply(cmd)
	i.observe(op, cmd, res)
	op.End(res.Err)

	return false, i.write(i.render.Result(cmd, res))
}

// apply dispatches a parsed command to the engine.
func (i *Interpreter) apply(cmd Command) *engine.Result {
	switch cmd.Keyword {
	case KeywordDepend:
		return i.engine.Declare(cmd.Component(), cmd.Dependencies())
	case KeywordInstall:
		return i.engine.Install(cmd.Component())
	case KeywordRemove:
		return i.engine.Remove(cmd.Component())
	default:
		return i.engine.List()
	}
}

// observe records the outcome of a command on its span, in metrics and in the log.
// The span status is left to op.End.
func (i *Interpreter) observe(op *telemetry.InstrumentedContext, cmd Command, res *engine.Result) {
	for _, note := range res.Notifications {
		telemetry.AddNotificationEvent(op.Span, string(note.Kind), note.Component, note.Cascaded)
		i.tel.Metrics.RecordNotification(string(note.Kind))
	}

	installed := i.engine.InstalledCount()
	op.Span.SetAttributes(telemetry.AttrInstalledCount.Int(installed))
	i.tel.Metrics.SetInstalledCount(installed)

	outcome := telemetry.OutcomeOK
	if res.Err != nil {
		outcome = telemetry.OutcomeRejected
		code := engine.CodeOf(res.Err)

		op.Span.SetAttributes(telemetry.AttrErrorCode.String(code))
		var e *engine.EngineError
		if errors.As(res.Err, &e) {
			op.Span.SetAttributes(telemetry.AttrErrorClass.String(string(e.Class)))
		}
		i.tel.Metrics.RecordRejection(code)

		op.Logger.WithError(res.Err).Debug("Command rejected")
	} else {
		op.Logger.WithField("notifications", len(res.Notifications)).Debug("Command applied")
	}

	i.tel.Metrics.RecordCommand(string(cmd.Keyword), outcome, op.Timer.Duration())
}

func (i *Interpreter) write(err error) error {
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
