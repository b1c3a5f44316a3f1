package command

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Command
	}{
		{
			name: "depend",
			line: "DEPEND TELNET TCPIP NETCARD",
			want: Command{Keyword: KeywordDepend, Args: []string{"TELNET", "TCPIP", "NETCARD"}},
		},
		{
			name: "depend without dependencies",
			line: "DEPEND A",
			want: Command{Keyword: KeywordDepend, Args: []string{"A"}},
		},
		{
			name: "install with surrounding whitespace",
			line: "  INSTALL \t foo  ",
			want: Command{Keyword: KeywordInstall, Args: []string{"foo"}},
		},
		{
			name: "remove",
			line: "REMOVE NETCARD",
			want: Command{Keyword: KeywordRemove, Args: []string{"NETCARD"}},
		},
		{
			name: "list",
			line: "LIST",
			want: Command{Keyword: KeywordList},
		},
		{
			name: "end with carriage return",
			line: "END\r",
			want: Command{Keyword: KeywordEnd},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	lines := []string{
		"XYCBX A B",
		"install foo",
		"DEPEND",
		"INSTALL",
		"INSTALL A B",
		"REMOVE",
		"REMOVE A B",
		"LIST A",
		"END NOW",
		"EN",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			_, err := Parse(line)
			if !errors.Is(err, ErrInvalidCommand) {
				t.Fatalf("Expected ErrInvalidCommand, got %v", err)
			}

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Expected *ParseError, got %T", err)
			}
			if perr.Line != line {
				t.Errorf("Expected line %q, got %q", line, perr.Line)
			}
		})
	}
}

func TestParse_EmptyLine(t *testing.T) {
	for _, line := range []string{"", "   ", "\t\r"} {
		if _, err := Parse(line); !errors.Is(err, ErrEmptyLine) {
			t.Errorf("Expected ErrEmptyLine for %q, got %v", line, err)
		}
	}
}

func TestCommand_Accessors(t *testing.T) {
	cmd := Command{Keyword: KeywordDepend, Args: []string{"A", "B", "C"}}

	if cmd.Component() != "A" {
		t.Errorf("Expected component A, got %s", cmd.Component())
	}
	if want := []string{"B", "C"}; !reflect.DeepEqual(cmd.Dependencies(), want) {
		t.Errorf("Expected %v, got %v", want, cmd.Dependencies())
	}
	if cmd.String() != "DEPEND A B C" {
		t.Errorf("Expected canonical form, got %q", cmd.String())
	}

	list := Command{Keyword: KeywordList}
	if list.Component() != "" || list.Dependencies() != nil || list.String() != "LIST" {
		t.Errorf("Unexpected accessors for %+v", list)
	}

	install := Command{Keyword: KeywordInstall, Args: []string{"A"}}
	if install.Dependencies() != nil {
		t.Errorf("Expected no dependencies for INSTALL, got %v", install.Dependencies())
	}
}
