package main

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// sampleReport is a report with one header table and one data table.
// The empty row produces no record.
const sampleReport = `<html><body>
<table><tr><td><h4>Report for pkg Foo.java</h4></td></tr></table>
<table>
<tr><th>Function</th><th>Value</th></tr>
<tr><td>int bar()</td><td>3</td></tr>
<tr></tr>
</table>
</body></html>`

// secondReport names two files and a non-function row.
const secondReport = `<html><body>
<table><tr><td><h4>Metrics for Bar.java</h4></td></tr></table>
<table>
<tr><td>int baz()</td><td>1,5</td></tr>
<tr><td>int field</td><td>7</td></tr>
</table>
<table><tr><td><h4>Metrics for Qux.java</h4></td></tr></table>
<table><tr><td>voidrun()</td><td>0</td></tr></table>
</body></html>`

// writeFile writes content to name inside dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// writeTestConfig writes a configuration file whose history database lives
// in a fresh temporary directory, so tests never touch the user's data.
func writeTestConfig(t *testing.T, extra string) string {
	t.Helper()

	dir := t.TempDir()
	content := "db_dir: " + filepath.Join(dir, "db") + "\n" + extra
	return writeFile(t, dir, "config.yaml", content)
}

// lockedBuffer is a bytes.Buffer safe for the concurrent writes batch
// workers and their logger make to stderr.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// executeCmd runs the root command with args and returns its stdout and stderr.
func executeCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var (
		stdout bytes.Buffer
		stderr lockedBuffer
	)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
