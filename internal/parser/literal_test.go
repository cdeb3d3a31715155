package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/indaco/pkgmeta/internal/core"
)

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Assignments
	}{
		{
			name:    "empty file",
			content: "",
			want:    Assignments{},
		},
		{
			name:    "double quoted",
			content: `__version__ = "1.2.3"`,
			want:    Assignments{"__version__": "1.2.3"},
		},
		{
			name:    "single quoted without spaces",
			content: `__version__='0.4.0'`,
			want:    Assignments{"__version__": "0.4.0"},
		},
		{
			name:    "annotated",
			content: `__version__: str = "2.0.0"`,
			want:    Assignments{"__version__": "2.0.0"},
		},
		{
			name:    "unrelated bindings kept",
			content: "AUTHOR = \"x\"\n__version__ = \"1.0.0\"\n",
			want:    Assignments{"AUTHOR": "x", "__version__": "1.0.0"},
		},
		{
			name:    "later assignment wins",
			content: "__version__ = \"1.0.0\"\n__version__ = \"1.0.1\"\n",
			want:    Assignments{"__version__": "1.0.1"},
		},
		{
			name: "comments docstrings and imports",
			content: `"""Evil package.

Does evil things.
"""
# pylint: disable=invalid-name
from __future__ import annotations
import sys

__version__ = "3.1.4"  # bumped by release tooling
`,
			want: Assignments{"__version__": "3.1.4"},
		},
		{
			name:    "single line docstring",
			content: "'''one liner'''\n__version__ = \"1.0\"\n",
			want:    Assignments{"__version__": "1.0"},
		},
		{
			name:    "escapes",
			content: `NOTE = "say \"hi\"\tnow"`,
			want:    Assignments{"NOTE": "say \"hi\"\tnow"},
		},
		{
			name:    "raw string keeps backslashes",
			content: `PATTERN = r"\d+"`,
			want:    Assignments{"PATTERN": `\d+`},
		},
		{
			name:    "hash inside string",
			content: `URL = "evilcorp.example/#top"`,
			want:    Assignments{"URL": "evilcorp.example/#top"},
		},
		{
			name:    "crlf line endings",
			content: "__version__ = \"1.2.3\"\r\nAUTHOR = \"Ryan\"\r\n",
			want:    Assignments{"__version__": "1.2.3", "AUTHOR": "Ryan"},
		},
		{
			name:    "byte order mark",
			content: "\ufeff__version__ = \"1.2.3\"\n",
			want:    Assignments{"__version__": "1.2.3"},
		},
		{
			name: "parenthesised import",
			content: `from .core import (
    Client,
    Session,  # re-exported
)
__version__ = "2.4.0"
`,
			want: Assignments{"__version__": "2.4.0"},
		},
		{
			name:    "backslash continued import",
			content: "from .core import Client, \\\n    Session\n__version__ = \"2.4.1\"\n",
			want:    Assignments{"__version__": "2.4.1"},
		},
		{
			name:    "import separated by tab",
			content: "import\tos\n__version__ = \"0.9\"\n",
			want:    Assignments{"__version__": "0.9"},
		},
		{
			name:    "hex escape",
			content: `__version__ = "1.2\x2e3"`,
			want:    Assignments{"__version__": "1.2.3"},
		},
		{
			name:    "unicode and octal escapes",
			content: `__version__ = "1\u002e2\0563"`,
			want:    Assignments{"__version__": "1.2.3"},
		},
		{
			name:    "raw docstring",
			content: "r\"\"\"C:\\path\\doc\"\"\"\n__version__ = \"1.1\"\n",
			want:    Assignments{"__version__": "1.1"},
		},
		{
			name:    "unicode prefixed multiline docstring",
			content: "u'''Package.\n\nMore.\n'''\n__version__ = \"1.2\"\n",
			want:    Assignments{"__version__": "1.2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAssignments([]byte(tt.content))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d bindings %v, want %d %v", len(got), got, len(tt.want), tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("binding %q = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestParseAssignments_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantLine int
		reason   string
	}{
		{
			name:     "function call",
			content:  "__version__ = get_version()",
			wantLine: 1,
			reason:   "expected string literal",
		},
		{
			name:     "arbitrary statement",
			content:  "__version__ = \"1.0\"\nos.system(\"rm -rf /\")\n",
			wantLine: 2,
			reason:   "expected '='",
		},
		{
			name:     "number value",
			content:  "__version__ = 1",
			wantLine: 1,
			reason:   "expected string literal",
		},
		{
			name:     "concatenation",
			content:  `__version__ = "1." + "0"`,
			wantLine: 1,
			reason:   "single string literal",
		},
		{
			name:     "f-string",
			content:  `__version__ = f"{major}.0"`,
			wantLine: 1,
			reason:   "expected string literal",
		},
		{
			name:     "comparison is not assignment",
			content:  `__version__ == "1.0"`,
			wantLine: 1,
			reason:   "expected '='",
		},
		{
			name:     "indented block",
			content:  "if True:\n    __version__ = \"1.0\"\n",
			wantLine: 1,
			reason:   "expected '='",
		},
		{
			name:     "indentation",
			content:  "  __version__ = \"1.0\"",
			wantLine: 1,
			reason:   "unexpected indentation",
		},
		{
			name:     "unterminated string",
			content:  `__version__ = "1.0`,
			wantLine: 1,
			reason:   "unterminated string literal",
		},
		{
			name:     "unterminated docstring",
			content:  "\"\"\"never closed\n__version__ = \"1.0\"\n",
			wantLine: 2,
			reason:   "unterminated docstring",
		},
		{
			name:     "triple quoted value",
			content:  `__version__ = """1.0"""`,
			wantLine: 1,
			reason:   "triple-quoted",
		},
		{
			name:     "tuple unpacking",
			content:  `a, b = "1", "2"`,
			wantLine: 1,
			reason:   "expected '='",
		},
		{
			name:     "unclosed parenthesised import",
			content:  "from .core import (\n    Client,\n",
			wantLine: 2,
			reason:   "unterminated import statement",
		},
		{
			name:     "named unicode escape",
			content:  `__version__ = "1\N{FULL STOP}0"`,
			wantLine: 1,
			reason:   "named unicode escapes",
		},
		{
			name:     "truncated hex escape",
			content:  `__version__ = "1\x2"`,
			wantLine: 1,
			reason:   "escape",
		},
		{
			name:     "statement after single line docstring",
			content:  "\"\"\"doc\"\"\"; __version__ = get_version()\n",
			wantLine: 1,
			reason:   "unexpected content after docstring",
		},
		{
			name:     "statement after multiline docstring",
			content:  "\"\"\"doc\n\"\"\"; __version__ = get_version()\n",
			wantLine: 2,
			reason:   "unexpected content after docstring",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAssignments([]byte(tt.content))
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if perr.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", perr.Line, tt.wantLine)
			}
			if !strings.Contains(perr.Reason, tt.reason) {
				t.Errorf("reason %q does not contain %q", perr.Reason, tt.reason)
			}
		})
	}
}

func TestAssignments_Lookup(t *testing.T) {
	a := Assignments{"__version__": "1.2.3"}

	if got := a.Lookup("__version__", "0.0.0"); got != "1.2.3" {
		t.Errorf("Lookup existing = %q, want %q", got, "1.2.3")
	}
	if got := a.Lookup("AUTHOR", "0.0.0"); got != "0.0.0" {
		t.Errorf("Lookup missing = %q, want fallback", got)
	}
	if !a.Has("__version__") || a.Has("AUTHOR") {
		t.Error("Has returned wrong result")
	}
}

func TestParseError_Error(t *testing.T) {
	err := &ParseError{Path: "pkg/__init__.py", Line: 3, Reason: "boom"}
	if got := err.Error(); got != "pkg/__init__.py:3: boom" {
		t.Errorf("Error() = %q", got)
	}

	err.Path = ""
	if got := err.Error(); got != "line 3: boom" {
		t.Errorf("Error() without path = %q", got)
	}
}

func TestReader_ReadPython(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
		want    string
		wantErr bool
	}{
		{
			name:    "default key",
			content: `__version__ = "1.2.3"`,
			want:    "1.2.3",
		},
		{
			name:    "custom key",
			content: "VERSION = \"4.5.6\"\n__version__ = \"1.2.3\"\n",
			field:   "VERSION",
			want:    "4.5.6",
		},
		{
			name:    "missing key",
			content: `AUTHOR = "Ryan"`,
			wantErr: true,
		},
		{
			name:    "not literal",
			content: `__version__ = compute()`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := core.NewMockFileSystem()
			fs.SetFile("/evil_package/__init__.py", []byte(tt.content))

			reader := NewReader(fs)
			result, err := reader.Read(context.Background(), FileConfig{
				Path:   "/evil_package/__init__.py",
				Format: FormatPython,
				Field:  tt.field,
			})

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.Version != tt.want {
				t.Errorf("got version %q, want %q", result.Version, tt.want)
			}
		})
	}
}

func TestReader_ReadAssignments_SetsPath(t *testing.T) {
	fs := core.NewMockFileSystem()
	fs.SetFile("/pkg/__init__.py", []byte("__version__ = open('x').read()\n"))

	_, err := NewReader(fs).ReadAssignments(context.Background(), "/pkg/__init__.py")

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Path != "/pkg/__init__.py" {
		t.Errorf("Path = %q, want %q", perr.Path, "/pkg/__init__.py")
	}
}
