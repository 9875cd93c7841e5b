package commands

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

const topLog = `top - 10:15:00 up 3 days,  2 users,  load average: 0.10, 0.20, 0.30
Tasks: 2 total,   1 running,   1 sleeping,   0 stopped,   0 zombie

  PID USER      PR  NI    VIRT    RES    SHR S  %CPU %MEM     TIME+ COMMAND
  101 app       20   0    128m   4000   1000 S   3.5  0.1   0:01.00 worker
  102 app       20   0   2048k   2000   1000 S   0.0  0.1   0:00.10 idle
top - 10:16:00 up 3 days,  2 users,  load average: 0.10, 0.20, 0.30
  PID USER      PR  NI    VIRT    RES    SHR S  %CPU %MEM     TIME+ COMMAND
  101 app       20   0    130m   4100   1000 S  12.0  0.1   0:02.00 worker
  102 app       20   0   2048k   2000   1000 S   0.0  0.1   0:00.10 idle
`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConvert_StdinToStdout(t *testing.T) {
	got, err := run(t, topLog, "convert", "--mem", "worker", "idle")
	require.NoError(t, err)

	want := "Hour,Minute,Second,worker,idle\n" +
		"10,15,0,131072,2048\n" +
		"10,16,0,133120,2048\n"
	assert.Equal(t, want, got)
}

func TestConvert_CPU(t *testing.T) {
	got, err := run(t, topLog, "convert", "-c", "worker")
	require.NoError(t, err)

	want := "Hour,Minute,Second,worker\n" +
		"10,15,0,3.5\n" +
		"10,16,0,12.0\n"
	assert.Equal(t, want, got)
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no metric", []string{"convert", "worker"}, "only one of --cpu or --mem"},
		{"both metrics", []string{"convert", "--cpu", "--mem", "worker"}, "none of the others can be"},
		{"no processes", []string{"convert", "--mem"}, "at least one process"},
		{"unknown preset", []string{"convert", "--mem", "-p", "nope"}, "unknown preset 'nope'"},
		{"bad format", []string{"convert", "--mem", "--format", "xml", "worker"}, "invalid output format"},
		{"graph to stdout", []string{"convert", "--mem", "--graph", "worker"}, "--graph needs --output-file"},
		{"missing input", []string{"convert", "--mem", "-i", "/nonexistent/top.log", "worker"}, "error opening file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, topLog, tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestConvert_MalformedRemovesOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")
	_, err := run(t, "garbage\n"+topLog, "convert", "--mem", "-o", out, "worker")
	require.Error(t, err)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvert_FileWithGraph(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "top.log")
	out := filepath.Join(dir, "top.log-mem.csv")
	require.NoError(t, os.WriteFile(in, []byte(topLog), 0644))

	_, err := run(t, "", "convert", "--mem", "-i", in, "-o", out, "--graph", "worker")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Hour,Minute,Second,worker\n"))
	assert.FileExists(t, filepath.Join(dir, "top.log-mem_graphs.html"))
}

func TestConvert_GraphUsesSelectedMetric(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "top.log")
	out := filepath.Join(dir, "usage.csv")
	require.NoError(t, os.WriteFile(in, []byte(topLog), 0644))

	_, err := run(t, "", "convert", "--cpu", "-i", in, "-o", out, "--graph", "worker")
	require.NoError(t, err)

	html, err := os.ReadFile(filepath.Join(dir, "usage_graphs.html"))
	require.NoError(t, err)
	page := string(html)
	assert.Contains(t, page, "metric cpu (%CPU)")
	assert.Contains(t, page, "12.0%")
	assert.NotContains(t, page, "KiB")
}

func TestFind_GraphUsesSelectedMetric(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "top.log"), []byte(topLog), 0644))

	_, err := run(t, "", "find", root, "--cpu", "--format", "tsv", "-g", "worker")
	require.NoError(t, err)

	html, err := os.ReadFile(filepath.Join(root, "top.log-cpu_graphs.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "metric cpu (%CPU)")
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"a/top.log", "b/top.log.1", "b/top.log.10", "c/other.log"} {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(topLog), 0644))
	}

	_, err := run(t, "", "find", root, "--cpu", "worker")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "a/top.log-cpu.csv"))
	assert.FileExists(t, filepath.Join(root, "b/top.log.1-cpu.csv"))
	assert.NoFileExists(t, filepath.Join(root, "b/top.log.10-cpu.csv"))
	assert.NoFileExists(t, filepath.Join(root, "c/other.log-cpu.csv"))
}

func TestFind_Parquet(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "top.log"), []byte(topLog), 0644))

	_, err := run(t, "", "find", root, "--mem", "--format", "parquet", "-g", "worker")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "top.log-mem.parquet"))
	assert.FileExists(t, filepath.Join(root, "top.log-mem_graphs.html"))
}

func TestFind_MissingRoot(t *testing.T) {
	_, err := run(t, "", "find", filepath.Join(t.TempDir(), "missing"), "--mem", "worker")
	assert.Error(t, err)

	_, err = run(t, "", "find")
	assert.Error(t, err)
}

func TestGraph(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "top.log-cpu.csv")
	html := filepath.Join(dir, "cpu.html")
	require.NoError(t, os.WriteFile(data, []byte("Hour,Minute,Second,worker\n10,15,0,3.5\n10,16,0,12.0\n"), 0644))

	got, err := run(t, "", "graph", data, "-o", html)
	require.NoError(t, err)
	assert.FileExists(t, html)
	assert.Equal(t, "Generated graphs in: "+html+"\n", got)

	plain := filepath.Join(dir, "usage.csv")
	require.NoError(t, os.WriteFile(plain, []byte("Hour,Minute,Second,worker\n10,15,0,3.5\n10,16,0,12.0\n"), 0644))
	_, err = run(t, "", "graph", plain, "--metric", "cpu")
	require.NoError(t, err)
	page, err := os.ReadFile(filepath.Join(dir, "usage_graphs.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "metric cpu (%CPU)")

	_, err = run(t, "", "graph", plain, "--metric", "io")
	assert.ErrorContains(t, err, "unknown metric")

	_, err = run(t, "", "graph", filepath.Join(dir, "missing.csv"))
	assert.ErrorContains(t, err, "input file not found")
}

func TestPresets(t *testing.T) {
	got, err := run(t, "", "presets")
	require.NoError(t, err)
	for _, name := range []string{"all", "ats", "cms", "dcs", "ecs", "sms"} {
		assert.Contains(t, got, name+" (")
	}

	got, err = run(t, "", "presets", "ecs")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(got, "\n"))

	_, err = run(t, "", "presets", "nope")
	assert.ErrorContains(t, err, "unknown preset")
}
