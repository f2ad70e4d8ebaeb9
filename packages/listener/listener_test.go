package listener

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/hitvcr/packages/annotation"
	"github.com/abdul-hamid-achik/hitvcr/packages/core/config"
	"github.com/abdul-hamid-achik/hitvcr/packages/vcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registryWith(name, doc string) *annotation.Registry {
	r := annotation.NewRegistry()
	r.Register(name, doc)
	return r
}

func TestStartTest_ScenarioA(t *testing.T) {
	engine := newFakeEngine()
	l := New(engine, registryWith("TestLogin", "@vcr fixtures/login"))

	activated, err := l.StartTest(namedTest("TestLogin"))
	require.NoError(t, err)
	assert.True(t, activated)
	assert.Equal(t, []string{"configure", "turnOn", "insertCassette(fixtures/login)"}, engine.calls)
}

func TestStartTest_ScenarioB_LastDirectiveWins(t *testing.T) {
	engine := newFakeEngine()
	l := New(engine, registryWith("TestLogin", "@vcr a\n@vcr b"),
		WithOptions(config.Options{{Name: "mode", Value: "once"}}))

	activated, err := l.StartTest(namedTest("TestLogin"))
	require.NoError(t, err)
	assert.True(t, activated)
	assert.Equal(t, []string{"configure", "setMode(once)", "turnOn", "insertCassette(b)"}, engine.calls)
}

func TestStartTest_ScenarioC_UnknownOption(t *testing.T) {
	engine := newFakeEngine()
	l := New(engine, registryWith("TestLogin", ""),
		WithOptions(config.Options{{Name: "badKey", Value: 1}}))

	activated, err := l.StartTest(namedTest("TestLogin"))
	require.Error(t, err)
	assert.False(t, activated)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "badKey", cfgErr.Option)
	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.Contains(t, err.Error(), `"badKey"`)

	assert.False(t, engine.called("turnOn"))
	assert.False(t, engine.called("insertCassette"))
}

func TestStartTest_ScenarioD_Unresolvable(t *testing.T) {
	engine := newFakeEngine()
	l := New(engine, registryWith("TestLogin", "@vcr fixtures/login"),
		WithOptions(config.Options{{Name: "badKey", Value: 1}}))

	activated, err := l.StartTest(namedTest("TestGenerated_7"))
	require.NoError(t, err)
	assert.False(t, activated)
	assert.Empty(t, engine.calls)
}

func TestStartTest_NoDirective(t *testing.T) {
	docs := []string{
		"",
		"TestLogin checks the login flow.\n",
		"@vcr\n",
		"@vcr    \n",
	}
	for _, doc := range docs {
		engine := newFakeEngine()
		l := New(engine, registryWith("TestLogin", doc),
			WithOptions(config.Options{{Name: "mode", Value: "none"}}))

		activated, err := l.StartTest(namedTest("TestLogin"))
		require.NoError(t, err)
		assert.False(t, activated, "doc %q", doc)
		assert.Equal(t, []string{"configure", "setMode(none)"}, engine.calls, "options still applied for doc %q", doc)
	}
}

func TestStartTest_LastDirectiveWinsForAnyCount(t *testing.T) {
	for n := 1; n <= 4; n++ {
		doc := ""
		want := ""
		for i := 0; i < n; i++ {
			want = filepath.Join("fixtures", string(rune('a'+i)))
			doc += "@vcr " + want + "  \n"
		}

		engine := newFakeEngine()
		l := New(engine, registryWith("TestLogin", doc))
		_, err := l.StartTest(namedTest("TestLogin"))
		require.NoError(t, err)
		assert.Equal(t, "insertCassette("+want+")", engine.calls[len(engine.calls)-1])
	}
}

func TestStartTest_StorageSuffix(t *testing.T) {
	tests := []struct {
		cassette string
		json     bool
	}{
		{"foo.json", true},
		{"foo.yml", false},
		{"foo.yaml", false},
		// Only the last two characters are checked.
		{"person", true},
		{"fixtures/session", true},
		{"foo.JSON", false},
	}

	for _, tt := range tests {
		t.Run(tt.cassette, func(t *testing.T) {
			engine := newFakeEngine()
			l := New(engine, registryWith("TestLogin", "@vcr "+tt.cassette))

			_, err := l.StartTest(namedTest("TestLogin"))
			require.NoError(t, err)
			assert.Equal(t, tt.json, engine.called("setStorage(json)"))
			assert.Equal(t, tt.json, StorageHint(tt.cassette) == "json")
			if tt.json {
				assert.Equal(t, []string{"configure", "setStorage(json)", "turnOn", "insertCassette(" + tt.cassette + ")"}, engine.calls)
			}
		})
	}
}

func TestStartTest_OptionsAppliedInOrderUntilFailure(t *testing.T) {
	engine := newFakeEngine()
	l := New(engine, registryWith("TestLogin", "@vcr a"),
		WithOptions(config.Options{
			{Name: "mode", Value: "once"},
			{Name: "whiteList", Value: []any{"api.example.com/**"}},
			{Name: "nope", Value: true},
			{Name: "cassettePath", Value: "never/applied"},
		}))

	_, err := l.StartTest(namedTest("TestLogin"))
	require.ErrorIs(t, err, ErrUnknownOption)
	assert.Equal(t, []string{"configure", "setMode(once)", "setWhiteList(api.example.com/**)"}, engine.calls)
}

func TestStartTest_EngineErrorsPropagate(t *testing.T) {
	engineErr := errors.New("cassette directory is not writable")

	for _, step := range []string{"turnOn", "insertCassette", "setMode", "setStorage"} {
		t.Run(step, func(t *testing.T) {
			engine := newFakeEngine()
			engine.fail[step] = engineErr
			l := New(engine, registryWith("TestLogin", "@vcr users.json"),
				WithOptions(config.Options{{Name: "mode", Value: "once"}}))

			activated, err := l.StartTest(namedTest("TestLogin"))
			assert.False(t, activated)
			assert.Equal(t, engineErr, err, "returned unwrapped")
		})
	}
}

func TestStartTest_SubtestsResolveToParent(t *testing.T) {
	engine := newFakeEngine()
	l := New(engine, registryWith("TestLogin", "@vcr login"))

	activated, err := l.StartTest(namedTest("TestLogin/with_valid_password"))
	require.NoError(t, err)
	assert.True(t, activated)
}

func TestStartTest_OptionsCopiedAtConstruction(t *testing.T) {
	opts := config.Options{{Name: "mode", Value: "once"}}
	engine := newFakeEngine()
	l := New(engine, registryWith("TestLogin", ""), WithOptions(opts))
	opts[0].Value = "none"

	_, err := l.StartTest(namedTest("TestLogin"))
	require.NoError(t, err)
	assert.Equal(t, []string{"configure", "setMode(once)"}, engine.calls)
}

func TestStartTest_CustomTag(t *testing.T) {
	engine := newFakeEngine()
	l := New(engine, registryWith("TestLogin", "@vcr ignored\n@cassette used"), WithTag("@cassette"))

	_, err := l.StartTest(namedTest("TestLogin"))
	require.NoError(t, err)
	assert.True(t, engine.called("insertCassette(used)"))
}

func TestEndTest_AlwaysTurnsOff(t *testing.T) {
	engine := newFakeEngine()
	l := New(engine, registryWith("TestLogin", ""))

	activated, err := l.StartTest(namedTest("TestLogin"))
	require.NoError(t, err)
	require.False(t, activated)

	require.NoError(t, l.EndTest(namedTest("TestLogin")))
	require.NoError(t, l.EndTest(namedTest("TestLogin")))
	require.NoError(t, l.EndTest(namedTest("TestUnknown")))
	assert.Equal(t, []string{"configure", "turnOff", "turnOff", "turnOff"}, engine.calls)
}

func TestEndTest_EngineErrorPropagates(t *testing.T) {
	engineErr := errors.New("flush failed")
	engine := newFakeEngine()
	engine.fail["turnOff"] = engineErr
	l := New(engine, annotation.NewRegistry())

	assert.Equal(t, engineErr, l.EndTest(namedTest("TestLogin")))
}

func TestNoopCallbacks(t *testing.T) {
	engine := newFakeEngine()
	l := New(engine, annotation.NewRegistry())
	test := namedTest("TestLogin")
	err := errors.New("boom")

	l.StartSuite("suite")
	l.AddError(test, err)
	l.AddFailure(test, err)
	l.AddWarning(test, err)
	l.AddIncomplete(test, err)
	l.AddSkipped(test, err)
	l.AddRisky(test, err)
	l.EndSuite("suite")

	assert.Empty(t, engine.calls)
}

func TestFromConfig(t *testing.T) {
	dir := t.TempDir()
	src := "package sample\n\n// @cassette from-config.json\nfunc TestConfigured(t *testing.T) {}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sample_test.go"), []byte(src), 0644))

	cfg := config.DefaultConfig()
	cfg.TestDir = dir
	cfg.Tag = "@cassette"
	cfg.Options = config.Options{{Name: "mode", Value: "none"}}

	engine := newFakeEngine()
	l, err := FromConfig(engine, cfg)
	require.NoError(t, err)

	activated, err := l.StartTest(namedTest("TestConfigured"))
	require.NoError(t, err)
	assert.True(t, activated)
	assert.Equal(t, []string{"configure", "setMode(none)", "setStorage(json)", "turnOn", "insertCassette(from-config.json)"}, engine.calls)
}

func TestFromConfig_BadTestDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken_test.go"), []byte("package x\nfunc {"), 0644))

	cfg := config.DefaultConfig()
	cfg.TestDir = dir
	_, err := FromConfig(newFakeEngine(), cfg)
	assert.Error(t, err)
}

func TestEngineFor_SatisfiesEngine(t *testing.T) {
	v := vcr.New()
	engine := EngineFor(v)

	require.NoError(t, engine.Configure().SetMode("none"))
	assert.Equal(t, vcr.ModeNone, v.Configure().Mode())

	require.NoError(t, engine.TurnOn())
	assert.True(t, v.IsOn())
	require.NoError(t, engine.TurnOff())
	assert.False(t, v.IsOn())
}
