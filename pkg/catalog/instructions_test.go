package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/toolc/toolc/pkg/script"
	"github.com/toolc/toolc/pkg/util/assert"
)

func writeInstructionTOML(t *testing.T, names []string) string {
	t.Helper()

	var b strings.Builder

	for i, name := range names {
		b.WriteString("[instruction.")
		b.WriteString(name)
		b.WriteString("]\nopcode = ")
		b.WriteString(itoa(i))
		b.WriteString("\nlarge = false\n\n")
	}

	path := filepath.Join(t.TempDir(), "instructions.toml")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	return path
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}

	return string(digits)
}

func allOpcodeNames() []string {
	names := make([]string, 0, len(script.AllOpcodes()))
	for _, op := range script.AllOpcodes() {
		names = append(names, op.String())
	}

	return names
}

func TestLoadInstructionMapReadyWhenComplete(t *testing.T) {
	path := writeInstructionTOML(t, allOpcodeNames())

	m, err := LoadInstructionMap(path)
	if err != nil {
		t.Fatalf("LoadInstructionMap: %v", err)
	}

	assert.True(t, m.Ready())
	assert.Equal(t, 0, len(m.Missing()))
}

func TestLoadInstructionMapNotReadyWhenIncomplete(t *testing.T) {
	names := allOpcodeNames()
	path := writeInstructionTOML(t, names[:len(names)-1])

	m, err := LoadInstructionMap(path)
	if err != nil {
		t.Fatalf("LoadInstructionMap: %v", err)
	}

	assert.False(t, m.Ready())
	assert.Equal(t, 1, len(m.Missing()))
}

func TestLoadInstructionMapUnknownOpcodeErrors(t *testing.T) {
	path := writeInstructionTOML(t, []string{"NOT_A_REAL_OPCODE"})

	if _, err := LoadInstructionMap(path); err == nil {
		t.Fatalf("expected an error for an unknown opcode name")
	}
}

func TestResolveSatisfiesBytecodeCollaborator(t *testing.T) {
	path := writeInstructionTOML(t, allOpcodeNames())

	m, err := LoadInstructionMap(path)
	if err != nil {
		t.Fatalf("LoadInstructionMap: %v", err)
	}

	entry, ok := m.Resolve(script.Return)
	assert.True(t, ok)
	assert.False(t, entry.Large)
}
