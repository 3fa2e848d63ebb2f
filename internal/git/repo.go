package git

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/agentx-labs/commitx/internal/compose"
	"github.com/agentx-labs/commitx/internal/diffmodel"
)

// ErrNotRepository is returned when the working directory is not inside a
// git work tree.
var ErrNotRepository = errors.New("not a git repository")

// CommandError is a git invocation that exited non-zero.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := "git " + strings.Join(e.Args, " ")
	if e.Stderr != "" {
		return msg + ": " + e.Stderr
	}
	return msg + ": exit status " + strconv.Itoa(e.ExitCode)
}

// Repo runs git commands in one work tree.
type Repo struct {
	dir string
	bin string
	log *zap.Logger
}

// Open returns a Repo rooted at dir. An empty dir means the current
// directory.
func Open(dir string, log *zap.Logger) *Repo {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repo{dir: dir, bin: "git", log: log}
}

// Dir returns the directory git commands run in.
func (r *Repo) Dir() string { return r.dir }

func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-c", "core.quotePath=false"}, args...)
	cmd := exec.CommandContext(ctx, r.bin, full...)
	if r.dir != "" {
		cmd.Dir = r.dir
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	r.log.Debug("run git", zap.Strings("args", args), zap.String("dir", r.dir))
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cerr := &CommandError{
				Args:     args,
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
			}
			if strings.Contains(cerr.Stderr, "not a git repository") {
				return "", errors.Mark(cerr, ErrNotRepository)
			}
			return "", cerr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", errors.WithHint(errors.Wrapf(err, "running %s", r.bin),
			"install git or use --native to read the index without it")
	}
	return string(out), nil
}

// Root returns the top-level directory of the work tree.
func (r *Repo) Root(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// StagedDiff returns the unified diff of the index against HEAD.
func (r *Repo) StagedDiff(ctx context.Context) (string, error) {
	return r.run(ctx, "diff", "--staged", "--no-color", "--no-ext-diff", "--find-renames")
}

// StagedRecords parses the staged diff into records. It returns an empty
// slice when nothing is staged.
func (r *Repo) StagedRecords(ctx context.Context) ([]diffmodel.Record, error) {
	diff, err := r.StagedDiff(ctx)
	if err != nil {
		return nil, err
	}
	return diffmodel.ParseUnified(diff)
}

// Commit records a commit containing only paths. The header and body become
// separate -m paragraphs.
func (r *Repo) Commit(ctx context.Context, msg compose.Message, paths []string, noVerify bool) error {
	if len(paths) == 0 {
		return errors.New("commit without paths")
	}
	args := []string{"commit", "--quiet"}
	if noVerify {
		args = append(args, "--no-verify")
	}
	args = append(args, "-m", msg.Header)
	if msg.Body != "" {
		args = append(args, "-m", msg.Body)
	}
	args = append(args, "--")
	args = append(args, paths...)

	if _, err := r.run(ctx, args...); err != nil {
		return err
	}
	r.log.Info("committed", zap.String("header", msg.Header), zap.Int("paths", len(paths)))
	return nil
}
