package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

const fullSibJSON = `{
  "ids":   ["S", "D", "A", "B", "C"],
  "sires": ["0", "0", "S", "S", "A"],
  "dams":  ["0", "0", "D", "D", "B"],
  "sex":   ["M", "F", "M", "F", "M"]
}`

// lockedBuffer serializes writes from the logger and the spinner.
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

// testEnv isolates cache and config directories for one test.
type testEnv struct {
	t          *testing.T
	dir        string
	cacheHome  string
	configHome string
	logs       lockedBuffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		t:          t,
		dir:        t.TempDir(),
		cacheHome:  t.TempDir(),
		configHome: t.TempDir(),
	}
	t.Setenv("XDG_CACHE_HOME", env.cacheHome)
	t.Setenv("XDG_CONFIG_HOME", env.configHome)
	return env
}

func (e *testEnv) writeFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatal(err)
	}
	return path
}

func (e *testEnv) writePedigree(content string) string {
	return e.writeFile("pedigree.json", content)
}

// run executes the CLI with args and returns what it printed as results.
func (e *testEnv) run(args ...string) (string, error) {
	var out bytes.Buffer
	c := New(&e.logs, LogInfo)
	c.SetOutput(&out)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&e.logs)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
