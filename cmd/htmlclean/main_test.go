package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// resetFlags restores the global flag values after a test.
func resetFlags(t *testing.T) {
	t.Helper()
	oldConfig, oldUnauth, oldFilter := configFile, unauthorized, filter
	oldLevel, oldFormat, oldExit := logLevel, logFormat, overrideExitCode
	t.Cleanup(func() {
		configFile, unauthorized, filter = oldConfig, oldUnauth, oldFilter
		logLevel, logFormat, overrideExitCode = oldLevel, oldFormat, oldExit
	})
	configFile, unauthorized, filter = "", "", false
	logLevel, logFormat, overrideExitCode = "", "", -1
}

func newTestCmd(stdin string) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	return cmd, &stdout, &stderr
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))
	return path
}

func TestRunClean_Stdin(t *testing.T) {
	resetFlags(t)
	cmd, stdout, _ := newTestCmd(`<p onclick="x">hi <script>there</script></p>`)

	require.NoError(t, runClean(cmd, nil))
	assert.Equal(t, "<p>hi there</p>", stdout.String())
}

func TestRunClean_Files(t *testing.T) {
	resetFlags(t)
	a := writeFile(t, "a.html", `<b>one</b>`)
	b := writeFile(t, "b.html", `<i class="x">two</i>`)
	cmd, stdout, _ := newTestCmd("")

	require.NoError(t, runClean(cmd, []string{a, b}))
	assert.Equal(t, "<b>one</b><i>two</i>", stdout.String())
}

func TestRunClean_MissingFile(t *testing.T) {
	resetFlags(t)
	cmd, _, _ := newTestCmd("")

	err := runClean(cmd, []string{filepath.Join(t.TempDir(), "nope.html")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input")
}

func TestRunClean_UnauthorizedFlag(t *testing.T) {
	resetFlags(t)
	unauthorized = "escape"
	cmd, stdout, _ := newTestCmd(`<blink>x</blink>`)

	require.NoError(t, runClean(cmd, nil))
	assert.Equal(t, "&lt;blink&gt;x&lt;/blink&gt;", stdout.String())
}

func TestRunClean_InvalidFlag(t *testing.T) {
	resetFlags(t)
	unauthorized = "explode"
	cmd, _, _ := newTestCmd("")

	err := runClean(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized must be one of")
}

func TestRunClean_Filter(t *testing.T) {
	resetFlags(t)
	filter = true
	cmd, stdout, _ := newTestCmd(`<b>x</b><script>`)

	require.NoError(t, runClean(cmd, nil))
	assert.Equal(t, "&lt;b&gt;x&lt;/b&gt;", stdout.String())
}

func TestRunClean_ConfigPolicyAndDebugLog(t *testing.T) {
	resetFlags(t)
	configFile = writeFile(t, "htmlclean.yaml", `
policy:
  span: [title]
log:
  level: debug
  format: json
`)
	cmd, stdout, stderr := newTestCmd(`<span title="t" id="i">x</span><b>y</b>`)

	require.NoError(t, runClean(cmd, nil))
	assert.Equal(t, `<span title="t">x</span>y`, stdout.String())
	assert.Contains(t, stderr.String(), `"rejected":2`)
	assert.Contains(t, stderr.String(), `"tag":"<b>"`)
}

func TestRunCheckConfig(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		resetFlags(t)
		configFile = writeFile(t, "ok.yaml", "unauthorized: keep\n")
		cmd, stdout, _ := newTestCmd("")

		require.NoError(t, runCheckConfig(cmd, nil))
		assert.Equal(t, ExitSuccess, overrideExitCode)
		assert.Contains(t, stdout.String(), "Configuration is valid")
		assert.Contains(t, stdout.String(), "keep")
	})

	t.Run("invalid", func(t *testing.T) {
		resetFlags(t)
		configFile = writeFile(t, "bad.yaml", "quote_style: none\n")
		cmd, stdout, _ := newTestCmd("")

		require.NoError(t, runCheckConfig(cmd, nil))
		assert.Equal(t, ExitConfig, overrideExitCode)
		assert.Contains(t, stdout.String(), "Configuration is invalid")
	})

	t.Run("no file", func(t *testing.T) {
		resetFlags(t)
		cmd, _, _ := newTestCmd("")

		require.NoError(t, runCheckConfig(cmd, nil))
		assert.Equal(t, ExitConfig, overrideExitCode)
	})
}

func TestRunPolicy(t *testing.T) {
	resetFlags(t)
	cmd, stdout, _ := newTestCmd("")

	require.NoError(t, runPolicy(cmd, nil))

	var table map[string][]string
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &table))
	assert.Equal(t, []string{"href", "title"}, table["a"])
	assert.Contains(t, table, "h6")
	assert.Empty(t, table["b"])
}

func TestRunVersion(t *testing.T) {
	oldVersion, oldCommit, oldBuildDate := version, commit, buildDate
	t.Cleanup(func() {
		version, commit, buildDate = oldVersion, oldCommit, oldBuildDate
	})
	version, commit, buildDate = "1.2.3", "deadbeef", "2026-10-14"

	cmd, stdout, _ := newTestCmd("")
	runVersion(cmd, nil)
	assert.Equal(t, "htmlclean 1.2.3 (commit deadbeef, built 2026-10-14)\n", stdout.String())
}

func TestRootCommand_Execute(t *testing.T) {
	resetFlags(t)
	var stdout bytes.Buffer
	rootCmd.SetIn(strings.NewReader(`<a href="http://x.com" style="s">x</a>`))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"--unauthorized", "drop"})
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, `<a href="http://x.com">x</a>`, stdout.String())
}
