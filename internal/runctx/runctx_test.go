package runctx

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOutputPath = "/runner/output"
	testEnvPath    = "/work/Muicebot/.env"
)

func newTestWorkflow(fs afero.Fs) *Workflow {
	w := NewWorkflow(fs, testOutputPath, testEnvPath)
	w.delimiter = func() string { return "EOF_MARK" }
	return w
}

func TestWorkflow_SetOutput(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testOutputPath, []byte("existing=1\n"), 0644))
	w := newTestWorkflow(fs)

	require.NoError(t, w.SetOutput("should_skip", "true"))
	require.NoError(t, w.SetOutput("plugin_name", "天气\n插件"))

	data, err := afero.ReadFile(fs, testOutputPath)
	require.NoError(t, err)
	assert.Equal(t, "existing=1\nshould_skip=true\nplugin_name<<EOF_MARK\n天气\n插件\nEOF_MARK\n", string(data))
}

func TestWorkflow_SetOutputInvalidKey(t *testing.T) {
	t.Parallel()

	w := newTestWorkflow(afero.NewMemMapFs())
	assert.Error(t, w.SetOutput("", "v"))
	assert.Error(t, w.SetOutput("a=b", "v"))
	assert.Error(t, w.SetOutput("a\nb", "v"))
}

func TestWorkflow_SetOutputWithoutPath(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	w := NewWorkflow(fs, "", "")

	require.NoError(t, w.SetOutput("should_skip", "true"))
	require.NoError(t, w.AppendEnv("A=1"))

	entries, err := afero.ReadDir(fs, "/")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWorkflow_AppendEnv(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testEnvPath, []byte("HOST=1"), 0644))
	w := newTestWorkflow(fs)

	require.NoError(t, w.AppendEnv("\n  A=1\nB=\"two words\"\n"))
	require.NoError(t, w.AppendEnv("   "))

	data, err := afero.ReadFile(fs, testEnvPath)
	require.NoError(t, err)
	assert.Equal(t, "HOST=1\nA=1\nB=\"two words\"\n", string(data))
}

func TestWorkflow_WriteFailure(t *testing.T) {
	t.Parallel()

	w := NewWorkflow(afero.NewReadOnlyFs(afero.NewMemMapFs()), testOutputPath, testEnvPath)
	assert.Error(t, w.SetOutput("plugin_name", "Foo"))
	assert.Error(t, w.AppendEnv("A=1"))
}

func TestNewWorkflow_DelimiterIsUnique(t *testing.T) {
	t.Parallel()

	w := NewWorkflow(afero.NewMemMapFs(), testOutputPath, "")
	assert.NotEqual(t, w.delimiter(), w.delimiter())
}
