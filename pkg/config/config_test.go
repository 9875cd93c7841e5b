package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TopLog/pkg/parsing"
)

func TestResolveProcesses_NamesOnly(t *testing.T) {
	procs, err := ResolveProcesses("", []string{"b", "a", "b", "c", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, procs)
}

func TestResolveProcesses_PresetPlusNames(t *testing.T) {
	ecs, ok := Preset("ecs")
	require.True(t, ok)

	procs, err := ResolveProcesses("ecs", []string{"dbserver", "extra"})
	require.NoError(t, err)
	assert.Len(t, procs, len(ecs)+1, "dbserver is already in the preset")
	assert.Equal(t, ecs, procs[:len(ecs)])
	assert.Equal(t, "extra", procs[len(procs)-1])
}

func TestResolveProcesses_Errors(t *testing.T) {
	_, err := ResolveProcesses("xyz", nil)
	assert.ErrorContains(t, err, "unknown preset 'xyz'")

	_, err = ResolveProcesses("", nil)
	assert.ErrorContains(t, err, "at least one process")
}

func TestPreset_ReturnsCopy(t *testing.T) {
	p, _ := Preset("ats")
	p[0] = "changed"
	again, _ := Preset("ats")
	assert.Equal(t, "ascmanager", again[0])
}

func TestPresetNames(t *testing.T) {
	assert.Equal(t, []string{"all", "ats", "cms", "dcs", "ecs", "sms"}, PresetNames())
}

func TestResolveMetric(t *testing.T) {
	tests := []struct {
		name    string
		mem     bool
		cpu     bool
		want    parsing.Metric
		wantErr bool
	}{
		{"mem", true, false, parsing.Memory, false},
		{"cpu", false, true, parsing.CPU, false},
		{"neither", false, false, 0, true},
		{"both", true, true, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.Memory, c.CPU = tt.mem, tt.cpu
			err := c.ResolveMetric()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Metric)
		})
	}
}

func TestResolve(t *testing.T) {
	c := New()
	c.CPU = true
	require.NoError(t, c.Resolve([]string{"worker"}))
	assert.Equal(t, []string{"worker"}, c.Processes)
	assert.Equal(t, parsing.CPU, c.Metric)

	c = New()
	c.Memory = true
	c.OutputFormat = "xml"
	assert.Error(t, c.Resolve([]string{"worker"}))

}

func TestValidateGraphTarget(t *testing.T) {
	c := New()
	c.GenerateGraphs = true
	assert.Error(t, c.ValidateGraphTarget(), "graphs need a file to read back")

	c.OutputFile = "out.csv"
	assert.NoError(t, c.ValidateGraphTarget())

	c.OutputFile = StdStream
	assert.True(t, c.OutputIsStream())
	assert.True(t, c.InputIsStream())
}

func TestApplyDefaults(t *testing.T) {
	c := &Config{}
	c.ApplyDefaults()
	assert.Equal(t, DefaultFormat, c.OutputFormat)
	assert.Equal(t, parsing.MaxLineSize, c.MaxLineSize)
	assert.NotEmpty(t, c.RunID)
}

func TestOutputPathFor(t *testing.T) {
	c := New()
	c.Metric = parsing.Memory
	assert.Equal(t, "/logs/top.log-mem.csv", c.OutputPathFor("/logs/top.log"))

	c.Metric = parsing.CPU
	assert.Equal(t, "/logs/top.log.3-cpu.csv", c.OutputPathFor("/logs/top.log.3"))

	c.OutputFormat = "parquet"
	assert.Equal(t, "top.log-cpu.parquet", c.OutputPathFor("top.log"))
}

func TestGenerateGraphPath(t *testing.T) {
	c := New()
	assert.Equal(t, "/logs/top.log-mem_graphs.html", c.GenerateGraphPath("/logs/top.log-mem.csv"))

	c.GraphOutput = "/tmp/out.html"
	assert.Equal(t, "/tmp/out.html", c.GenerateGraphPath("/logs/top.log-mem.csv"))
}

func TestTable(t *testing.T) {
	c := New()
	c.Processes = []string{"a"}
	c.Metric = parsing.CPU
	c.Preset = "ecs"
	tbl := c.Table("top.log")
	assert.Equal(t, c.RunID, tbl.RunID)
	assert.Equal(t, "top.log", tbl.Source)
	assert.Equal(t, "ecs", tbl.Metadata["toplog.preset"])
	assert.Equal(t, []string{"Hour", "Minute", "Second", "a"}, tbl.Columns())
}
