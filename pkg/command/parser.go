package command

import (
	"errors"
	"fmt"
	"strings"
)

// Keyword is the first token of a command line.
type Keyword string

const (
	// KeywordDepend declares the dependencies of a component.
	KeywordDepend Keyword = "DEPEND"

	// KeywordInstall installs a component.
	KeywordInstall Keyword = "INSTALL"

	// KeywordRemove removes a component.
	KeywordRemove Keyword = "REMOVE"

	// KeywordList lists installed components.
	KeywordList Keyword = "LIST"

	// KeywordEnd stops processing.
	KeywordEnd Keyword = "END"
)

var (
	// ErrInvalidCommand is wrapped by every ParseError.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrEmptyLine is returned for lines holding only whitespace.
	ErrEmptyLine = errors.New("empty line")
)

// arity is the allowed argument count of each keyword; max -1 means unbounded.
var arity = map[Keyword]struct{ min, max int }{
	KeywordDepend:  {1, -1},
	KeywordInstall: {1, 1},
	KeywordRemove:  {1, 1},
	KeywordList:    {0, 0},
	KeywordEnd:     {0, 0},
}

// Command is a parsed command line.
type Command struct {
	Keyword Keyword
	Args    []string
}

// Component returns the component the command acts on, or "" for LIST and END.
func (c Command) Component() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// Dependencies returns the dependency names of a DEPEND command.
func (c Command) Dependencies() []string {
	if c.Keyword != KeywordDepend || len(c.Args) < 2 {
		return nil
	}
	return c.Args[1:]
}

// String returns the command in canonical form, tokens separated by one space.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return string(c.Keyword)
	}
	return string(c.Keyword) + " " + strings.Join(c.Args, " ")
}

// ParseError describes a line that is not a valid command.
type ParseError struct {
	Line   string
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid command %q: %s", e.Line, e.Reason)
}

// Unwrap returns ErrInvalidCommand.
func (e *ParseError) Unwrap() error {
	return ErrInvalidCommand
}

// Parse splits line on runs of whitespace and validates the keyword and its
// argument count. Keywords are case-sensitive.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, ErrEmptyLine
	}

	keyword := Keyword(fields[0])
	bounds, ok := arity[keyword]
	if !ok {
		return Command{}, &ParseError{Line: line, Reason: fmt.Sprintf("unknown keyword %s", fields[0])}
	}

	args := fields[1:]
	if len(args) < bounds.min || (bounds.max >= 0 && len(args) > bounds.max) {
		return Command{}, &ParseError{
			Line:   line,
			Reason: fmt.Sprintf("%s takes %s, got %d", keyword, describeArity(bounds.min, bounds.max), len(args)),
		}
	}

	if len(args) == 0 {
		args = nil
	}
	return Command{Keyword: keyword, Args: args}, nil
}

func describeArity(lo, hi int) string {
	switch {
	case hi < 0:
		return fmt.Sprintf("at least %d argument(s)", lo)
	case lo == hi && lo == 0:
		return "no arguments"
	case lo == hi:
		return fmt.Sprintf("exactly %d argument(s)", lo)
	default:
		return fmt.Sprintf("%d to %d arguments", lo, hi)
	}
}
