//go:build integration

package integration_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// testRepo is a scratch git repository with one initial commit.
type testRepo struct {
	Dir string
}

// setupRepo creates the repository and sandboxes HOME so no user settings
// leak into the run.
func setupRepo(t *testing.T) *testRepo {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")

	r := &testRepo{Dir: t.TempDir()}
	r.git(t, "init", "--quiet")
	r.git(t, "config", "user.email", "dev@example.com")
	r.git(t, "config", "user.name", "Dev")
	r.git(t, "config", "commit.gpgsign", "false")

	r.write(t, "README.md", "# shop\n")
	r.write(t, "go.mod", "module example.com/shop\n\ngo 1.22\n\nrequire (\n\tgithub.com/spf13/cobra v1.9.0\n)\n")
	for _, name := range []string{"charge", "refund", "invoice", "ledger", "tax"} {
		r.write(t, "src/payments/"+name+".go", "package payments\n\n// "+name+"\n")
	}
	r.git(t, "add", ".")
	r.git(t, "commit", "--quiet", "-m", "init")
	return r
}

func (r *testRepo) git(t *testing.T, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

func (r *testRepo) write(t *testing.T, name, content string) {
	t.Helper()
	p := filepath.Join(r.Dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

// lines returns n generated source lines mentioning a rounding bug fix.
func lines(n int) string {
	var b strings.Builder
	b.WriteString("package payments\n")
	for i := 0; i < n; i++ {
		b.WriteString("// fixed rounding bug in step\n")
	}
	return b.String()
}

func (r *testRepo) commitFiles(t *testing.T, rev string) []string {
	t.Helper()
	out := r.git(t, "show", "--name-only", "--format=", rev)
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
