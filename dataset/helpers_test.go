package dataset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// recordHandler 记录日志，测试中按级别和属性断言
type recordHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *recordHandler) WithGroup(string) slog.Handler { return h }

// count 统计指定级别且带有 key=value 属性的记录
func (h *recordHandler) count(level slog.Level, key, value string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, r := range h.records {
		if r.Level != level {
			continue
		}
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == key && a.Value.String() == value {
				n++
				return false
			}
			return true
		})
	}
	return n
}

// testConfig 所有目录都位于临时目录下
func testConfig(t *testing.T) *Config {
	t.Helper()
	root := t.TempDir()
	return DefaultConfig().
		WithAnnotations(filepath.Join(root, "annotations.xml")).
		WithImageDir(filepath.Join(root, "images")).
		WithLabelDir(filepath.Join(root, "labels")).
		WithVisualizedDir(filepath.Join(root, "visualized")).
		WithOutputDir(filepath.Join(root, "split"))
}

func newTestPreparer(t *testing.T, config *Config) (*Preparer, *recordHandler) {
	t.Helper()
	h := &recordHandler{}
	p, err := NewPreparer(config, slog.New(h))
	require.NoError(t, err)
	return p, h
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

const sampleXML = `<?xml version="1.0" encoding="utf-8"?>
<annotations>
  <version>1.1</version>
  <image id="0" name="a.jpg" width="100" height="50">
    <polygon label="kernel" points="10,10;90,10;90,40;10,40" />
    <polygon label="cob" points="1,1;2,2;3,3" />
    <polygon label="kernel" points="0,0;50,0;50,25" />
  </image>
  <image id="1" name="b.jpg" width="200" height="100">
    <polygon label="cob" points="5,5;6,6;7,7" />
  </image>
  <image id="2" name="c.jpg" width="10" height="10">
    <polygon label="kernel" points="1.5,2.5;3,4;5,6" />
  </image>
</annotations>
`
