package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentx-labs/commitx/internal/compose"
	"github.com/agentx-labs/commitx/internal/config"
	"github.com/agentx-labs/commitx/internal/diffmodel"
	"github.com/agentx-labs/commitx/internal/partition"
	"github.com/agentx-labs/commitx/internal/render"
)

const readmePatch = `diff --git a/README.md b/README.md
index 3b18e51..a9c2f1e 100644
--- a/README.md
+++ b/README.md
@@ -1,3 +1,4 @@
 # demo
+Fix typo in installation section
 
 Usage.
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	planPatches, planJSON, planNative = nil, false, false
	commitDryRun, commitMessage, commitNative = false, "", false
	rulesDefault, versionShort, versionJSON = false, false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestExitCode(t *testing.T) {
	uerr := &compose.UncomposableMessageError{Group: partition.Group{}, Reason: "no subject"}

	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(diffmodel.ErrEmptyStaging))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitUncomposable, ExitCode(uerr))
	assert.Equal(t, ExitUncomposable, ExitCode(errors.Wrap(uerr, "2 group(s) left staged")))
}

func TestPlan_PatchTable(t *testing.T) {
	patch := writeTemp(t, "readme.patch", readmePatch)

	out, err := execute(t, "plan", "--patch", patch)
	require.NoError(t, err)
	assert.Contains(t, out, "== "+patch+" ==")
	assert.Contains(t, out, "📝 docs:")
	assert.Contains(t, out, "README.md")
}

func TestPlan_PatchBatchJSON(t *testing.T) {
	good := writeTemp(t, "readme.patch", readmePatch)
	empty := writeTemp(t, "empty.patch", "")

	out, err := execute(t, "plan", "--json", "--patch", good, "--patch", empty)
	require.Error(t, err)
	assert.True(t, errors.Is(err, diffmodel.ErrEmptyStaging))
	assert.Equal(t, ExitFailure, ExitCode(err))

	var plans []render.PlanJSON
	require.NoError(t, json.Unmarshal([]byte(out), &plans))
	require.Len(t, plans, 2)

	assert.Equal(t, good, plans[0].Source)
	require.Len(t, plans[0].Proposals, 1)
	assert.Equal(t, "docs", plans[0].Proposals[0].Type)
	assert.True(t, strings.HasPrefix(plans[0].Proposals[0].Header, "📝 docs:"))

	assert.Equal(t, empty, plans[1].Source)
	assert.Equal(t, "no staged changes", plans[1].Error)
}

func TestPlan_MissingPatch(t *testing.T) {
	_, err := execute(t, "plan", "--patch", filepath.Join(t.TempDir(), "nope.patch"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading patch")
}

func TestRulesValidate(t *testing.T) {
	out, err := execute(t, "rules", "validate", filepath.Join("..", "rules", "testdata", "valid-custom.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	out, err = execute(t, "rules", "validate", filepath.Join("..", "rules", "testdata", "invalid-bad-type.yaml"))
	require.Error(t, err)
	assert.Contains(t, out, "/paths/0/type")
}

func TestRulesShow(t *testing.T) {
	out, err := execute(t, "rules", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "thresholds:")
	assert.Contains(t, out, "large: 200")

	out, err = execute(t, "rules", "show", "--default")
	require.NoError(t, err)
	assert.Contains(t, out, "paths:")
}

func TestVersion(t *testing.T) {
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2026-01-01"

	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)

	out, err = execute(t, "version", "--json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "abc123", info["commit"])
}

func TestConfigSetGet(t *testing.T) {
	_, err := execute(t, "config", "set", "max_header", "60")
	require.NoError(t, err)

	t.Cleanup(func() { viper.Set(config.KeyMaxHeader, compose.MaxHeader) })

	out, err := execute(t, "config", "get", "max_header")
	require.NoError(t, err)
	assert.Equal(t, "60\n", out)

	_, err = execute(t, "config", "set", "colour", "on")
	assert.Error(t, err)
}

func gitRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
	return strings.TrimSpace(string(out))
}

func stagedRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	gitRun(t, dir, "init", "--quiet")
	gitRun(t, dir, "config", "user.email", "dev@example.com")
	gitRun(t, dir, "config", "user.name", "Dev")
	gitRun(t, dir, "config", "commit.gpgsign", "false")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# demo\n"), 0o644))
	gitRun(t, dir, "add", ".")
	gitRun(t, dir, "commit", "--quiet", "-m", "init")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# demo\n\nFix typo in installation section\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "auth"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "auth", "login.go"), []byte("package auth\n\nfunc Login() {}\n"), 0o644))
	gitRun(t, dir, "add", ".")
	return dir
}

func TestCommit_DryRun(t *testing.T) {
	dir := stagedRepo(t)
	t.Chdir(dir)

	out, err := execute(t, "commit", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "would commit 📝 docs:")
	assert.Contains(t, out, "would commit ✨ feat: Add auth")
	assert.Equal(t, "init", gitRun(t, dir, "log", "--format=%s"))
}

func TestCommit_CreatesAtomicCommits(t *testing.T) {
	dir := stagedRepo(t)
	t.Chdir(dir)

	_, err := execute(t, "commit")
	require.NoError(t, err)

	log := strings.Split(gitRun(t, dir, "log", "--format=%s"), "\n")
	require.Len(t, log, 3)
	assert.Equal(t, "✨ feat: Add auth", log[0])
	assert.True(t, strings.HasPrefix(log[1], "📝 docs:"), log[1])
	assert.Empty(t, gitRun(t, dir, "diff", "--staged", "--name-only"))
}

func TestCommit_NativeReaderWithMessage(t *testing.T) {
	dir := stagedRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "x"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x", "1.bin"), []byte{0, 1, 2, 3}, 0o644))
	gitRun(t, dir, "add", ".")
	t.Chdir(dir)

	_, err := execute(t, "commit", "--native", "-m", "ship the firmware image")
	require.NoError(t, err)
	assert.Contains(t, gitRun(t, dir, "log", "--format=%s"), "🔧 chore: Ship the firmware image")
	assert.Empty(t, gitRun(t, dir, "diff", "--staged", "--name-only"))
}

func TestCommit_NothingStaged(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	gitRun(t, dir, "init", "--quiet")
	t.Chdir(dir)

	_, err := execute(t, "commit")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diffmodel.ErrEmptyStaging))
	assert.Equal(t, ExitFailure, ExitCode(err))
}
