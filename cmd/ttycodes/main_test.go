package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryansh-23/ttycodes/internal/ansi"
	"github.com/suryansh-23/ttycodes/internal/config"
	"github.com/suryansh-23/ttycodes/internal/types"
)

func TestResolveConfigPathPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(envConfig, "")

	path, err := resolveConfigPath("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ttycodes", "config.yaml"), path)

	t.Setenv(envConfig, "/tmp/from-env.yaml")
	path, err = resolveConfigPath("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env.yaml", path)

	path, err = resolveConfigPath(" /tmp/flag.yaml ")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.yaml", path)
}

func TestChildEnvKeepsCallerValues(t *testing.T) {
	env := childEnv([]string{"PATH=/bin"}, "/tmp/c.yaml")
	assert.Equal(t, []string{"PATH=/bin", envWrapped + "=1", envConfig + "=/tmp/c.yaml"}, env)

	env = childEnv([]string{envWrapped + "=1", envConfig + "=/other.yaml"}, "/tmp/c.yaml")
	assert.Equal(t, []string{envWrapped + "=1", envConfig + "=/other.yaml"}, env)

	assert.Equal(t, []string{envWrapped + "=1"}, childEnv(nil, ""))
}

func TestExitStatus(t *testing.T) {
	assert.Equal(t, 0, exitStatus(nil))
	assert.Equal(t, 7, exitStatus(fmt.Errorf("run: %w", &exitCodeError{command: "make", code: 7})))
	assert.Equal(t, 2, exitStatus(fmt.Errorf("%w: bad", config.ErrInvalidConfig)))
	assert.Equal(t, 1, exitStatus(errors.New("boom")))
	assert.Equal(t, "make exited with code 7", (&exitCodeError{command: "make", code: 7}).Error())
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, applyOverrides(&cfg, "recolor", true))
	assert.Equal(t, types.ModeRecolor, cfg.Mode)
	assert.True(t, cfg.Debug.Enabled)

	err := applyOverrides(&cfg, "sparkle", false)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Equal(t, types.ModeRecolor, cfg.Mode, "invalid flag leaves mode unchanged")
}

func TestFilterStreamStrip(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mode = types.ModeStrip
	cfg.Input.ChunkSize = 3
	cfg.Output.HighWaterBytes = 2
	var out bytes.Buffer

	stats, err := filterStream(context.Background(), strings.NewReader("\x1b[1mbold\x1b[0m\tx\x07\n"), &out, cfg, nil)

	require.NoError(t, err)
	assert.Equal(t, "bold\tx\n", out.String())
	assert.Equal(t, 2, stats.Counts[ansi.KindCSI])
}

func TestFilterStreamToleratesTruncatedTail(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mode = types.ModePassthrough
	var out bytes.Buffer

	_, err := filterStream(context.Background(), strings.NewReader("done\x1b[3"), &out, cfg, nil)

	require.NoError(t, err)
	assert.Equal(t, "done", out.String())
}

func TestFilterStreamInspect(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mode = types.ModeInspect
	var out bytes.Buffer

	_, err := filterStream(context.Background(), strings.NewReader("a\x1b[B"), &out, cfg, nil)

	require.NoError(t, err)
	assert.Equal(t, "Data: a\nCode: 1B 5B 42\n", out.String())
}

func TestBuildAllowlistCommandsDedupes(t *testing.T) {
	got := buildAllowlistCommands([]string{"vim", " less "}, "vim, htop,,/usr/bin/*")
	assert.Equal(t, []string{"vim", "less", "htop", "/usr/bin/*"}, got)
}

func TestShouldBypassFilter(t *testing.T) {
	cfg := config.DefaultConfig()
	cmd := exec.Command("sh", "-c", "true")

	bypass, err := shouldBypassFilter(cfg, cmd, nil)
	require.NoError(t, err)
	assert.False(t, bypass, "disabled allowlist")

	cfg.Allowlist.Enabled = true
	cfg.Allowlist.Commands = []string{"sh"}
	bypass, err = shouldBypassFilter(cfg, cmd, nil)
	require.NoError(t, err)
	assert.True(t, bypass)

	cfg.Allowlist.Commands = []string{"["}
	_, err = shouldBypassFilter(cfg, cmd, nil)
	assert.Error(t, err)
}

func TestRunSelfTestEveryMode(t *testing.T) {
	for _, mode := range types.Modes {
		cfg := config.DefaultConfig()
		cfg.Mode = mode
		assert.NoError(t, runSelfTest(cfg), "mode %s", mode)
	}
}

func TestRunWithPTYPropagatesExitCode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Input.RawMode = false

	_, err := runWithPTY(context.Background(), cfg, "", exec.Command("/bin/sh", "-c", "exit 3"), nil)

	var exitErr *exitCodeError
	require.True(t, errors.As(err, &exitErr), "err = %v", err)
	assert.Equal(t, 3, exitErr.code)
}

func TestDoctorPrintsEffectiveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.DefaultConfig()
	cfg.Mode = types.ModeInspect
	require.NoError(t, config.Write(path, cfg))

	root := newRootCmd(&appState{})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "doctor"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "config_found=true\n")
	assert.Contains(t, out.String(), "mode=inspect\n")
	assert.Contains(t, out.String(), "strip_keep_c0=lf,cr,ht\n")
}

func TestRootRejectsUnknownModeFlag(t *testing.T) {
	root := newRootCmd(&appState{})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--mode", "bogus", "doctor"})

	err := root.Execute()

	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd(&appState{})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "version"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "ttycodes ")
	assert.Contains(t, out.String(), "keeps lf cr ht")
}

func TestVersionShort(t *testing.T) {
	root := newRootCmd(&appState{})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "version", "--short"})
	require.NoError(t, root.Execute())

	assert.Equal(t, readBuildInfo().version+"\n", out.String())
	assert.NotContains(t, out.String(), "commit")
}

func TestBuildInfoPrint(t *testing.T) {
	var out bytes.Buffer
	buildInfo{version: "v1.2.0", date: "2026-01-02"}.print(&out)
	assert.Equal(t, "ttycodes v1.2.0\nbuilt 2026-01-02\n", out.String())
}

func TestModeDetail(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, "keeps lf cr ht", modeDetail(cfg))

	cfg.Strip.KeepC0 = nil
	assert.Equal(t, "keeps no control codes", modeDetail(cfg))

	cfg.Mode = types.ModeInspect
	cfg.Inspect.Kinds = []string{"csi", "osc"}
	assert.Equal(t, "shows csi osc +data", modeDetail(cfg))

	cfg.Mode = types.ModeRecolor
	assert.Equal(t, "random seed", modeDetail(cfg))
	cfg.Recolor.Seed = 9
	assert.Equal(t, "seed 9", modeDetail(cfg))

	cfg.Mode = types.ModePassthrough
	assert.Equal(t, "writes codes unchanged", modeDetail(cfg))
}

func TestPreviewFollowsFormAnswers(t *testing.T) {
	mode := string(types.ModeStrip)
	keep := []string{"lf", "cr", "ht"}
	kinds := []string{"osc"}
	showData := false
	seed := "0"
	preview := previewFor(config.DefaultConfig(), &mode, &keep, &kinds, &showData, &seed)

	assert.Equal(t, `"ttycodes ok\r\n"`, preview())

	mode = string(types.ModeInspect)
	assert.Equal(t, `"Code: 1B 5D 30 3B 74 69 74 6C 65 07\n"`, preview())

	mode = string(types.ModeRecolor)
	assert.Equal(t, preview(), preview(), "zero seed previews with a fixed seed")
}

func TestInitWizardAdvancesLogoFrame(t *testing.T) {
	w := initWizard{form: huh.NewForm(huh.NewGroup(huh.NewNote().Title("x")))}

	model, cmd := w.Update(frameMsg{})

	require.NotNil(t, cmd)
	assert.Equal(t, 1, model.(initWizard).frame)
}

func TestConfigChanges(t *testing.T) {
	from := config.DefaultConfig()
	from.Mode = types.ModeInspect
	from.Allowlist.Commands = []string{"vim"}

	assert.Equal(t, []string{
		"mode: inspect -> strip",
		"allowlist_commands: vim -> (none)",
	}, configChanges(from, config.DefaultConfig()))
	assert.Empty(t, configChanges(config.DefaultConfig(), config.DefaultConfig()))
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(&appState{})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestResetListsChangesAndWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.DefaultConfig()
	cfg.Mode = types.ModeRecolor
	cfg.Recolor.Seed = 5
	require.NoError(t, config.Write(path, cfg))

	out, err := executeRoot(t, "--config", path, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "  mode: recolor -> strip\n")
	assert.Contains(t, out, "  recolor_seed: 5 -> 0\n")

	loaded, found, err := config.Load(path)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, config.DefaultConfig(), loaded)

	out, err = executeRoot(t, "--config", path, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "already matches the defaults")
}

func TestResetReplacesBrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: bogus\n"), 0o600))

	_, err := executeRoot(t, "--config", path, "doctor")
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	out, err := executeRoot(t, "--config", path, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "does not load")

	_, err = executeRoot(t, "--config", path, "doctor")
	assert.NoError(t, err)
}

func TestResetPurgeRemovesFileAndEmptyDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ttycodes")
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.Write(path, config.DefaultConfig()))

	out, err := executeRoot(t, "--config", path, "reset", "--yes", "--purge")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed config")
	assert.NoDirExists(t, dir)
}
