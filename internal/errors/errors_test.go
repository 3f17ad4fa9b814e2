package errors

import (
	"bytes"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, ""},
		{"simple error", fmt.Errorf("month out of range"), "Error: month out of range"},
		{"wrapped error", fmt.Errorf("load page: %w", fmt.Errorf("not found")), "Error: load page: not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.want {
				t.Errorf("Format(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestFatal(t *testing.T) {
	var buf bytes.Buffer
	code := -1
	oldStderr, oldExit := stderr, exit
	stderr, exit = &buf, func(c int) { code = c }
	t.Cleanup(func() { stderr, exit = oldStderr, oldExit })

	Fatal(nil)
	if code != -1 || buf.Len() != 0 {
		t.Fatalf("Fatal(nil) exited with %d, wrote %q", code, buf.String())
	}

	Fatal(fmt.Errorf("store not initialized"))
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if got := buf.String(); got != "Error: store not initialized\n" {
		t.Errorf("output = %q", got)
	}
}
