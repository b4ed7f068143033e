package sandbox

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDockerCLI scripts responses per docker subcommand and records every
// invocation so tests can assert on cleanup behavior.
type fakeDockerCLI struct {
	calls     [][]string
	stdout    map[string]string
	errs      map[string]error
	waitDelay time.Duration
}

func newFakeDockerCLI() *fakeDockerCLI {
	return &fakeDockerCLI{
		stdout: map[string]string{
			"create": "abc123def456\n",
			"wait":   "0\n",
			"logs":   "",
		},
		errs: map[string]error{},
	}
}

func (f *fakeDockerCLI) run(ctx context.Context, args ...string) (string, string, error) {
	f.calls = append(f.calls, args)
	sub := args[0]

	if sub == "wait" && f.waitDelay > 0 {
		select {
		case <-time.After(f.waitDelay):
		case <-ctx.Done():
			return "", "", errors.New("docker wait cancelled: " + ctx.Err().Error())
		}
	}
	if err := f.errs[sub]; err != nil {
		return "", "", err
	}
	return f.stdout[sub], "", nil
}

func (f *fakeDockerCLI) subcommands() []string {
	var out []string
	for _, c := range f.calls {
		out = append(out, c[0])
	}
	return out
}

func (f *fakeDockerCLI) find(sub string) []string {
	for _, c := range f.calls {
		if c[0] == sub {
			return c
		}
	}
	return nil
}

func TestNewRunnerMissingImage(t *testing.T) {
	cli := newFakeDockerCLI()
	cli.errs["image"] = errors.New("No such image: osint-tools:latest")

	_, err := newRunner("osint-tools:latest", cli)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"osint-tools:latest" not found`)
	assert.Contains(t, err.Error(), "docker build -t osint-tools:latest")
}

func TestRunSuccess(t *testing.T) {
	cli := newFakeDockerCLI()
	cli.stdout["logs"] = `{"host":"a.example.com"}` + "\n"

	r, err := newRunner("osint-tools:latest", cli)
	require.NoError(t, err)

	res, err := r.Run(context.Background(), "subfinder -d 'example.com' -silent -json", RunOptions{
		TimeoutSeconds: 30,
		Env:            map[string]string{"B_KEY": "2", "A_KEY": "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "a.example.com")

	// Lifecycle: image check, create, start, wait, logs, rm
	assert.Equal(t, []string{"image", "create", "start", "wait", "logs", "rm"}, cli.subcommands())

	create := cli.find("create")
	joined := strings.Join(create, " ")
	assert.Contains(t, joined, "--memory 512m")
	assert.Contains(t, joined, "--cpu-quota 50000")
	assert.Contains(t, joined, "--network bridge")
	// Env flags appear in sorted key order
	assert.Less(t, strings.Index(joined, "A_KEY=1"), strings.Index(joined, "B_KEY=2"))

	rm := cli.find("rm")
	require.NotNil(t, rm)
	assert.Equal(t, []string{"rm", "-f", "abc123def456"}, rm)
}

func TestRunToolFailureIsNotAnError(t *testing.T) {
	cli := newFakeDockerCLI()
	cli.stdout["wait"] = "2\n"
	cli.stdout["logs"] = "partial output\n"

	r, err := newRunner("osint-tools:latest", cli)
	require.NoError(t, err)

	res, err := r.Run(context.Background(), "whatweb 'https://x'", RunOptions{})
	require.NoError(t, err, "a non-zero tool exit is normal data, not a runner error")
	assert.Equal(t, 2, res.ExitCode)
	assert.Equal(t, "partial output\n", res.Stdout)
}

func TestRunTimeoutStillRemovesContainer(t *testing.T) {
	cli := newFakeDockerCLI()
	cli.waitDelay = 5 * time.Second

	r, err := newRunner("osint-tools:latest", cli)
	require.NoError(t, err)

	res, err := r.Run(context.Background(), "sleep 600", RunOptions{TimeoutSeconds: 1})
	require.NoError(t, err, "timeout must return control to the caller, not raise")
	assert.Equal(t, ExitTimeout, res.ExitCode)
	assert.Contains(t, res.Stderr, "timed out")

	rm := cli.find("rm")
	require.NotNil(t, rm, "container must be force-removed after a timeout")
	assert.Equal(t, "-f", rm[1])
}

func TestRunContainerStartFailure(t *testing.T) {
	cli := newFakeDockerCLI()
	cli.errs["start"] = errors.New("oci runtime error")

	r, err := newRunner("osint-tools:latest", cli)
	require.NoError(t, err)

	_, err = r.Run(context.Background(), "true", RunOptions{})
	require.Error(t, err, "a container-level failure surfaces as a runner error")
	assert.Contains(t, err.Error(), "starting container")

	require.NotNil(t, cli.find("rm"), "cleanup runs even when start fails")
}

func TestRunCancellation(t *testing.T) {
	cli := newFakeDockerCLI()
	cli.waitDelay = time.Minute

	r, err := newRunner("osint-tools:latest", cli)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err = r.Run(ctx, "sleep 600", RunOptions{TimeoutSeconds: 300})
	require.Error(t, err, "run-level cancellation propagates, unlike a per-call timeout")
	require.NotNil(t, cli.find("rm"))
}
