package discovery

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TopLog/pkg/exporting"
	"TopLog/pkg/parsing"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

const topLog = `top - 08:00:00 up 1 day,  1 user,  load average: 0.00, 0.00, 0.00
  PID USER      PR  NI    VIRT    RES    SHR S  %CPU %MEM     TIME+ COMMAND
    1 app       20   0      2m   1000   1000 S   1.0  0.1   0:00.01 worker
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func memOutput(input string) string { return input + "-mem.csv" }

func csvSinks(processes []string) SinkFactory {
	return func(input, output string) (Sink, error) {
		return exporting.NewExporter(output, "csv", &exporting.Table{Processes: processes, Metric: parsing.Memory, Source: input})
	}
}

func TestNewFinder_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFinder(filepath.Join(dir, "missing"), memOutput)
	assert.Error(t, err)

	file := filepath.Join(dir, "file")
	writeFile(t, file, "")
	_, err = NewFinder(file, memOutput)
	assert.ErrorContains(t, err, "is not a directory")

	_, err = NewFinder(dir, nil)
	assert.Error(t, err)
}

func TestFinder_Match(t *testing.T) {
	f, err := NewFinder(t.TempDir(), memOutput)
	require.NoError(t, err)

	for _, name := range []string{"top.log", "top.log.0", "top.log.9"} {
		assert.True(t, f.Match(name), name)
	}
	for _, name := range []string{"top.log.10", "top.logs", "xtop.log", "top.log-mem.csv", "top.log.a"} {
		assert.False(t, f.Match(name), name)
	}
}

func TestFinder_Find(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "top.log"), topLog)
	writeFile(t, filepath.Join(root, "a", "top.log.1"), topLog)
	writeFile(t, filepath.Join(root, "b", "c", "top.log.2"), topLog)
	writeFile(t, filepath.Join(root, "b", "top.log.12"), topLog)
	writeFile(t, filepath.Join(root, "other.log"), topLog)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "top.log"), 0755))

	f, err := NewFinder(root, memOutput)
	require.NoError(t, err)

	found, err := f.Find(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "top.log"),
		filepath.Join(root, "a", "top.log.1"),
		filepath.Join(root, "b", "c", "top.log.2"),
	}, found)
}

func TestFinder_FindFollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(t.TempDir(), "saved.txt")
	writeFile(t, target, topLog)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "logs"), 0755))
	require.NoError(t, os.Symlink(target, filepath.Join(root, "logs", "top.log")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "logs", "top.log.1")))
	require.NoError(t, os.Symlink(t.TempDir(), filepath.Join(root, "logs", "top.log.2")))

	f, err := NewFinder(root, memOutput)
	require.NoError(t, err)

	found, err := f.Find(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "logs", "top.log")}, found)

	sum, err := f.Run(context.Background(), parsing.NewConverter([]string{"worker"}, parsing.Memory), csvSinks([]string{"worker"}))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Written)
	assert.FileExists(t, filepath.Join(root, "logs", "top.log-mem.csv"))
}

func TestFinder_Run(t *testing.T) {
	root := t.TempDir()
	good := filepath.Join(root, "a", "top.log")
	bad := filepath.Join(root, "b", "top.log")
	writeFile(t, good, topLog)
	writeFile(t, bad, "garbage\n"+topLog)

	f, err := NewFinder(root, memOutput)
	require.NoError(t, err)

	conv := parsing.NewConverter([]string{"worker"}, parsing.Memory)
	sum, err := f.Run(context.Background(), conv, csvSinks(conv.Processes()))
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Found)
	assert.Equal(t, 1, sum.Written)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, []string{good + "-mem.csv"}, sum.Outputs)

	data, err := os.ReadFile(good + "-mem.csv")
	require.NoError(t, err)
	assert.Equal(t, "Hour,Minute,Second,worker\n8,0,0,2048\n", string(data))

	_, err = os.Stat(bad + "-mem.csv")
	assert.True(t, errors.Is(err, os.ErrNotExist), "failed outputs are removed")
}

func TestFinder_RunSkipsUnwritableOutputs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "x", "top.log"), topLog)
	writeFile(t, filepath.Join(root, "y", "top.log"), topLog)

	f, err := NewFinder(root, memOutput)
	require.NoError(t, err)

	conv := parsing.NewConverter([]string{"worker"}, parsing.Memory)
	inner := csvSinks(conv.Processes())
	open := func(input, output string) (Sink, error) {
		if strings.Contains(input, string(filepath.Separator)+"x"+string(filepath.Separator)) {
			return nil, os.ErrPermission
		}
		return inner(input, output)
	}

	sum, err := f.Run(context.Background(), conv, open)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Found)
	assert.Equal(t, 1, sum.Written)
	assert.Equal(t, 1, sum.Skipped)
	assert.Zero(t, sum.Failed)
}

func TestFinder_RunCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "top.log"), topLog)

	f, err := NewFinder(root, memOutput)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv := parsing.NewConverter([]string{"worker"}, parsing.Memory)
	_, err = f.Run(ctx, conv, csvSinks(conv.Processes()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenLog(t *testing.T) {
	_, err := OpenLog(filepath.Join(t.TempDir(), "missing"))
	var fae *FileAccessError
	require.ErrorAs(t, err, &fae)
	assert.Equal(t, "open", fae.Op)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "top.log")
	writeFile(t, path, topLog)
	f, err := OpenLog(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
