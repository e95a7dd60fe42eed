package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"robo-tools/cmd/robolib/robots"
	"robo-tools/pkg/lib"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// isolate points the config directory at a fresh temp dir and clears the
// records env var, so only the bundled records are visible.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(envConfigDir, dir)
	t.Setenv(envRecords, "")
	return dir
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func writeRecords(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const roverDoc = `{"records": {"rover": {"name": "rover", "immovable": false,
	"urls": {"Linux": "https://assets.example.com/linux/rover"}}}}`

// ---------------------------------------------------------------------------
// Queries against the bundled records
// ---------------------------------------------------------------------------

func TestList(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "list")
	require.NoError(t, err)
	assert.Equal(t, []string{"baxter", "fetch", "niryo_one", "sawyer", "shadowhand", "ur10", "ur5"}, lines(out))

	out, _, err = runCLI(t, "list", "--platform", "osx")
	require.NoError(t, err)
	assert.NotContains(t, lines(out), "sawyer")
	assert.Contains(t, lines(out), "ur5")
}

func TestURL(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "url", "ur5", "--platform", "Linux")
	require.NoError(t, err)
	assert.Equal(t, "https://tdw-public.s3.amazonaws.com/robots/linux/2020.2/ur5\n", out)

	out, _, err = runCLI(t, "url", "ur5", "-p", "win")
	require.NoError(t, err)
	assert.Equal(t, "https://tdw-public.s3.amazonaws.com/robots/windows/2020.2/ur5\n", out)
}

func TestURL_Errors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		want error
		code int
	}{
		{"unknown robot", []string{"url", "nope", "-p", "Linux"}, robots.ErrNotFound, 2},
		{"no asset for platform", []string{"url", "sawyer", "-p", "Darwin"}, robots.ErrNoAssetForPlatform, 2},
		{"unknown platform", []string{"url", "ur5", "-p", "beos"}, robots.ErrUnknownPlatform, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.code, lib.ExitCode(err))
		})
	}
}

func TestURL_PlatformFromSettings(t *testing.T) {
	dir := isolate(t)
	writeRecords(t, filepath.Join(dir, settingsFileName), "platform: Windows\n")

	out, _, err := runCLI(t, "url", "ur5")
	require.NoError(t, err)
	assert.Contains(t, out, "/windows/")

	out, _, err = runCLI(t, "url", "ur5", "-p", "Darwin")
	require.NoError(t, err)
	assert.Contains(t, out, "/osx/")
}

func TestShow(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "show", "fetch")
	require.NoError(t, err)
	assert.Contains(t, out, "fetch")
	assert.Contains(t, out, "torso_lift_joint")
	assert.Contains(t, out, "https://tdw-public.s3.amazonaws.com/robots/linux/2020.2/fetch")

	_, _, err = runCLI(t, "show", "nope")
	require.ErrorIs(t, err, robots.ErrNotFound)
}

func TestChain(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "chain", "ur5")
	require.NoError(t, err)
	rows := lines(out)
	require.Len(t, rows, 8, "header, rule and six links")
	assert.Contains(t, rows[2], "shoulder_link")
	assert.Contains(t, rows[7], "wrist_3_link")
	assert.Contains(t, rows[7], "fixed")
}

func TestChain_JSON(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "chain", "ur5", "--json")
	require.NoError(t, err)
	var joints []struct {
		Name     string     `json:"name"`
		Rotation *[]float64 `json:"rotation"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &joints))
	require.Len(t, joints, 6)
	assert.Equal(t, "shoulder_link", joints[0].Name)
	assert.Nil(t, joints[5].Rotation)
}

func TestChain_Errors(t *testing.T) {
	isolate(t)

	_, _, err := runCLI(t, "chain", "baxter")
	require.ErrorIs(t, err, robots.ErrNoChain)
	assert.Equal(t, 2, lib.ExitCode(err))

	_, _, err = runCLI(t, "chain", "ur5", "--index", "1")
	require.ErrorIs(t, err, robots.ErrChainIndex)
}

func TestJoints(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "joints", "ur5")
	require.NoError(t, err)
	assert.Equal(t, []string{"shoulder_link", "upper_arm_link", "forearm_link", "wrist_1_link", "wrist_2_link"}, lines(out))
}

func TestBrowse_NoTUI(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "browse", "--no-tui")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "sawyer")
	assert.Contains(t, out, "Linux,Windows")
}

// ---------------------------------------------------------------------------
// Records sources
// ---------------------------------------------------------------------------

func TestRecords_ConfigDirReplacesBundled(t *testing.T) {
	dir := isolate(t)
	writeRecords(t, filepath.Join(dir, recordsDirName, "fleet", "rover.json"), roverDoc)

	out, _, err := runCLI(t, "list")
	require.NoError(t, err)
	assert.Equal(t, []string{"rover"}, lines(out))
}

func TestRecords_EnvAndFlag(t *testing.T) {
	isolate(t)
	envDir := t.TempDir()
	writeRecords(t, filepath.Join(envDir, "rover.json"), roverDoc)
	t.Setenv(envRecords, envDir)

	flagFile := filepath.Join(t.TempDir(), "arm.yml")
	writeRecords(t, flagFile, "records:\n  arm:\n    name: arm\n    immovable: true\n    urls:\n      Darwin: https://assets.example.com/osx/arm\n")

	out, _, err := runCLI(t, "list", "--records", flagFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"arm", "rover"}, lines(out))
}

func TestRecords_InvalidFileFails(t *testing.T) {
	dir := isolate(t)
	writeRecords(t, filepath.Join(dir, recordsDirName, "bad.json"),
		`{"records": {"rover": {"name": "rover", "immovable": false, "urls": {}}}}`)

	_, _, err := runCLI(t, "list")
	require.ErrorIs(t, err, robots.ErrNoAsset)
	assert.Equal(t, 1, lib.ExitCode(err))
}

// syncBuffer lets a test read output that a background command is still
// writing.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch_ReloadsSessionRecords(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, recordsDirName, "rover.json")
	writeRecords(t, path, roverDoc)

	root := newRootCmd()
	var out, errOut syncBuffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"watch", "--debounce", "10ms"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "loaded 1 robots")
	}, 5*time.Second, 20*time.Millisecond)

	arm := `{"records": {"arm": {"name": "arm", "immovable": true, "urls": {"Linux": "u"}}}}`
	require.Eventually(t, func() bool {
		writeRecords(t, filepath.Join(dir, recordsDirName, "arm.json"), arm)
		return strings.Contains(out.String(), "reloaded 2 robots")
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not return after cancel")
	}
	assert.NotContains(t, errOut.String(), "rejected")
}

// ---------------------------------------------------------------------------
// validate / export
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "ok: 7 robots (bundled records)")

	good := filepath.Join(t.TempDir(), "rover.json")
	writeRecords(t, good, roverDoc)
	out, _, err = runCLI(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok: 1 robots from 1 files")

	bad := filepath.Join(t.TempDir(), "bad.json")
	writeRecords(t, bad, `{"records": {"x": {"name": "y", "immovable": false, "urls": {"Linux": "u"}}}}`)
	_, _, err = runCLI(t, "validate", bad)
	require.ErrorIs(t, err, robots.ErrKeyMismatch)

	_, _, err = runCLI(t, "validate", good, good)
	require.ErrorIs(t, err, robots.ErrDuplicateRobot)
}

func TestExport_Revalidates(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "export", "--pretty")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "export.json")
	writeRecords(t, path, out)

	out, _, err = runCLI(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok: 7 robots from 1 files")
}

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

func TestConfigInit(t *testing.T) {
	isolate(t)
	dir := filepath.Join(t.TempDir(), "cfg")

	_, errOut, err := runCLI(t, "config", "init", "--dir", dir, "--platform", "Linux")
	require.NoError(t, err)
	assert.Contains(t, errOut, "initialised "+dir)

	st, err := loadSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, settings{Platform: "Linux", LogLevel: "info", LogFormat: "text"}, st)
	assert.FileExists(t, filepath.Join(dir, recordsDirName, "robots.json"))

	_, _, err = runCLI(t, "config", "init", "--dir", dir, "--platform", "Linux")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = runCLI(t, "config", "init", "--dir", dir, "--platform", "Darwin", "--force")
	require.NoError(t, err)

	t.Setenv(envConfigDir, dir)
	out, _, err := runCLI(t, "url", "ur5")
	require.NoError(t, err)
	assert.Contains(t, out, "/osx/")
}

func TestConfigInit_WithoutBundled(t *testing.T) {
	isolate(t)
	dir := filepath.Join(t.TempDir(), "cfg")

	_, _, err := runCLI(t, "config", "init", "--dir", dir, "-p", "Linux", "--bundled=false")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, settingsFileName))
	assert.NoDirExists(t, filepath.Join(dir, recordsDirName))
}

func TestConfigInit_ExistingRecordsWritesNothing(t *testing.T) {
	isolate(t)
	dir := filepath.Join(t.TempDir(), "cfg")
	existing := filepath.Join(dir, recordsDirName, "robots.json")
	writeRecords(t, existing, roverDoc)

	_, _, err := runCLI(t, "config", "init", "--dir", dir, "-p", "Linux")
	require.Error(t, err)
	assert.Contains(t, err.Error(), existing+" already exists")
	assert.NoFileExists(t, filepath.Join(dir, settingsFileName))

	got, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, roverDoc, string(got))
}

func TestSettings_Errors(t *testing.T) {
	dir := isolate(t)

	writeRecords(t, filepath.Join(dir, settingsFileName), "platfrom: Linux\n")
	_, _, err := runCLI(t, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), settingsFileName)

	writeRecords(t, filepath.Join(dir, settingsFileName), "")
	_, _, err = runCLI(t, "list")
	require.NoError(t, err)

	_, _, err = runCLI(t, "list", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestConfigShow(t *testing.T) {
	dir := isolate(t)
	writeRecords(t, filepath.Join(dir, recordsDirName, "rover.json"), roverDoc)

	out, _, err := runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "config dir:  "+dir)
	assert.Contains(t, out, "(not found)")
	assert.Contains(t, out, filepath.Join(dir, recordsDirName, "rover.json"))
}

func TestSplitColon(t *testing.T) {
	assert.Nil(t, splitColon(""))
	assert.Equal(t, []string{"a", "b"}, splitColon("a::b:"))
}
