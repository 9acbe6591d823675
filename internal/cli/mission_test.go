package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadAnswerData(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "answer.yaml")
	if err := os.WriteFile(file, []byte("first: yes\n"), 0644); err != nil {
		t.Fatalf("failed to write answer file: %v", err)
	}

	tests := []struct {
		name    string
		args    []string
		file    string
		stdin   string
		want    string
		wantErr bool
	}{
		{name: "argument", args: []string{"[a, b]"}, want: "[a, b]"},
		{name: "file", file: file, want: "first: yes"},
		{name: "stdin", stdin: "  4\n", want: "4"},
		{name: "argument and file", args: []string{"4"}, file: file, wantErr: true},
		{name: "empty stdin", stdin: "\n", wantErr: true},
		{name: "missing file", file: filepath.Join(dir, "missing.yaml"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readAnswerData(tt.args, tt.file, strings.NewReader(tt.stdin))
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintMissionTypes(t *testing.T) {
	var out bytes.Buffer
	printMissionTypes(&out)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	// header, separator, nine types
	if len(lines) != 11 {
		t.Fatalf("expected 11 lines, got %d:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[2], "visitBonus") || !strings.Contains(lines[2], "50") {
		t.Errorf("expected visitBonus first, got %q", lines[2])
	}
	if !strings.Contains(lines[10], "effortValue") {
		t.Errorf("expected effortValue last, got %q", lines[10])
	}
}
