package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/hitvcr/packages/core/config"
	"github.com/abdul-hamid-achik/hitvcr/packages/output"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args in a fresh working directory
// and returns what it printed.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--no-color"))
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

const sampleTests = `package api

// TestLogin logs in.
//
// @vcr fixtures/old
// @vcr fixtures/login.json
func TestLogin(t *testing.T) {}

// TestHealth hits the live endpoint.
func TestHealth(t *testing.T) {}

func TestMain(m *testing.M) {}
`

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "api", "api_test.go"), sampleTests)
	writeFile(t, filepath.Join(dir, "vendor", "lib", "lib_test.go"), sampleTests)

	out, err := execute(t, dir, "list", "./...")
	require.NoError(t, err)
	assert.Contains(t, out, "api_test.go:")
	assert.Contains(t, out, "TestLogin → fixtures/login.json")
	assert.Contains(t, out, "TestHealth (no cassette)")
	assert.NotContains(t, out, "TestMain")
	assert.NotContains(t, out, "vendor")
	assert.Contains(t, out, "Tests: 1 recorded, 1 live, 2 total")
}

func TestListCommand_VerboseLogs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "api_test.go"), sampleTests)
	writeFile(t, filepath.Join(dir, "vendor", "lib", "lib_test.go"), sampleTests)

	out, err := execute(t, dir, "list", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "level=DEBUG msg=\"configuration loaded\" defaults=true")
	assert.Contains(t, out, "msg=\"skipping directory\" path=vendor")
	assert.Contains(t, out, "msg=\"scanned file\" file=api_test.go tests=2")
	assert.Contains(t, out, "TestLogin → fixtures/login.json")

	out, err = execute(t, dir, "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "level=DEBUG")
}

func TestValidateCommand_LogLevelFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".hitvcr.yml"), "logLevel: debug\nlogFormat: json\n")
	writeFile(t, filepath.Join(dir, "bad.json"), `{"request": {}}`)

	out, err := execute(t, dir, "validate", "bad.json")
	require.Error(t, err)
	assert.Contains(t, out, `"msg":"configuration loaded","defaults":false`)
	assert.Contains(t, out, `"msg":"validated cassette","file":"bad.json","format":"json","valid":false`)
}

func TestListCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "api_test.go"), sampleTests)

	out, err := execute(t, dir, "list", "-o", "json")
	require.NoError(t, err)

	var got output.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Listings, 1)
	login := got.Listings[0].Tests[0]
	assert.Equal(t, "TestLogin", login.Name)
	assert.Equal(t, "fixtures/login.json", login.Cassette)
	assert.Equal(t, "json", login.Storage)
	assert.Equal(t, 7, login.Line)
}

func TestListCommand_TagFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".hitvcr.yml"), "tag: \"@cassette\"\n")
	writeFile(t, filepath.Join(dir, "api_test.go"), "package api\n\n// @cassette users\nfunc TestUsers(t *testing.T) {}\n")

	out, err := execute(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "TestUsers → users")
}

func TestListCommand_NoTests(t *testing.T) {
	_, err := execute(t, t.TempDir(), "list")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
}

func TestListCommand_BadConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".hitvcr.yml"), "options: [not, a, mapping]\n")

	_, err := execute(t, dir, "list")
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, ExitCode(err))
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "cassettes", "good.yml"), `- request:
    method: GET
    url: http://example.com/
  response:
    status:
      code: 200
      message: OK
`)
	writeFile(t, filepath.Join(dir, "cassettes", "empty.json"), "")
	writeFile(t, filepath.Join(dir, "cassettes", "notes.txt"), "ignored")

	out, err := execute(t, dir, "validate", "cassettes")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+filepath.Join("cassettes", "good.yml"))
	assert.Contains(t, out, "Cassettes: 2 valid, 2 total")
}

func TestValidateCommand_Invalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.json"), `{"request": {}}`)
	writeFile(t, filepath.Join(dir, "broken.yml"), "key: [unclosed")

	out, err := execute(t, dir, "validate", "bad.json", "broken.yml")
	require.Error(t, err)
	assert.Equal(t, ExitValidationFailure, ExitCode(err))
	assert.Contains(t, out, "✗ bad.json")
	assert.Contains(t, out, "✗ broken.yml")
	assert.Contains(t, out, "decoding yaml")
}

func TestValidateCommand_Usage(t *testing.T) {
	_, err := execute(t, t.TempDir(), "validate")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))

	_, err = execute(t, t.TempDir(), "validate", "--bogus", "x.yml")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))

	_, err = execute(t, t.TempDir(), "list", "-o", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "hitvcr initialized!")
	assert.DirExists(t, filepath.Join(dir, "testdata", "cassettes"))

	cfg, err := config.LoadConfig(filepath.Join(dir, ".hitvcr.yml"))
	require.NoError(t, err)
	assert.Equal(t, "@vcr", cfg.Tag)
	mode, ok := cfg.Options.Get(config.OptionMode)
	require.True(t, ok)
	assert.Equal(t, "new_episodes", mode)
	matchers, ok := cfg.Options.Get(config.OptionRequestMatchers)
	require.True(t, ok)
	assert.Equal(t, []any{"method", "url", "body"}, matchers)

	_, err = execute(t, dir, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, dir, "init", "--force")
	require.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hitvcr version dev")
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "bash completion V2 for hitvcr")
	assert.Contains(t, out, "__start_hitvcr")

	_, err = execute(t, t.TempDir(), "completion", "tcsh")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(assert.AnError))
	assert.Nil(t, withExitCode(ExitConfigError, nil))
}
