package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"
)

// NetworkMode selects the container network for a single tool invocation
type NetworkMode string

const (
	NetworkBridge NetworkMode = "bridge"
	NetworkHost   NetworkMode = "host"
	NetworkNone   NetworkMode = "none"
)

// Resource limits applied uniformly to every container. Fixed rather than
// per-call so resource pressure stays predictable under concurrent phases.
const (
	memoryLimit = "512m"
	cpuPeriod   = "100000"
	cpuQuota    = "50000" // 50% of one core

	// Synthetic exit code returned when a container exceeds its timeout
	ExitTimeout = 124
)

// Result contains the captured output of one sandboxed tool invocation.
// It is ephemeral: adapters must fully parse it before discarding.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunOptions controls a single sandboxed invocation
type RunOptions struct {
	// TimeoutSeconds caps the wall-clock wait on container completion.
	// Zero means the default of 300 seconds.
	TimeoutSeconds int

	// NetworkMode defaults to bridge when empty.
	NetworkMode NetworkMode

	// Env is passed into the container environment.
	Env map[string]string
}

// dockerCLI abstracts invocations of the docker binary so the runner can be
// tested without a container daemon.
type dockerCLI interface {
	run(ctx context.Context, args ...string) (stdout, stderr string, err error)
}

// execDockerCLI shells out to the docker binary on PATH
type execDockerCLI struct{}

func (execDockerCLI) run(ctx context.Context, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.WaitDelay = 5 * time.Second

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return stdoutBuf.String(), stderrBuf.String(), fmt.Errorf("docker %s cancelled: %w", args[0], ctx.Err())
		}
		return stdoutBuf.String(), stderrBuf.String(),
			fmt.Errorf("docker %s failed: %w: %s", args[0], err, strings.TrimSpace(stderrBuf.String()))
	}
	return stdoutBuf.String(), stderrBuf.String(), nil
}

// Runner executes reconnaissance tools inside short-lived, resource-limited
// containers. Construct it once and pass it explicitly to adapters; it is
// safe for concurrent use since every call creates its own container.
type Runner struct {
	cli   dockerCLI
	image string
}

// NewRunner creates a runner bound to the given tool image and verifies the
// image is present locally. A missing image is a startup configuration error,
// not something to retry per call.
func NewRunner(image string) (*Runner, error) {
	return newRunner(image, execDockerCLI{})
}

func newRunner(image string, cli dockerCLI) (*Runner, error) {
	r := &Runner{cli: cli, image: image}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if _, _, err := cli.run(ctx, "image", "inspect", image); err != nil {
		return nil, fmt.Errorf(
			"docker image %q not found. Build it with: docker build -t %s -f docker/Dockerfile.tools .",
			image, image)
	}
	return r, nil
}

// Image returns the tool image this runner was bound to
func (r *Runner) Image() string {
	return r.image
}

// Run executes a shell command inside a fresh container and waits for it to
// finish. A non-zero tool exit code is normal data in the Result; a returned
// error means the container itself could not be executed. On timeout the
// Result carries ExitTimeout and the container is still removed.
//
// Caller-supplied values embedded in command must already be escaped with
// Quote — Run executes the string verbatim under /bin/sh -c.
func (r *Runner) Run(ctx context.Context, command string, opts RunOptions) (res *Result, err error) {
	timeout := time.Duration(opts.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	network := opts.NetworkMode
	if network == "" {
		network = NetworkBridge
	}

	// Create the container first so removal can be deferred before anything
	// that might fail or time out.
	createArgs := []string{
		"create",
		"--network", string(network),
		"--memory", memoryLimit,
		"--cpu-period", cpuPeriod,
		"--cpu-quota", cpuQuota,
	}
	for _, k := range sortedKeys(opts.Env) {
		createArgs = append(createArgs, "-e", k+"="+opts.Env[k])
	}
	createArgs = append(createArgs, r.image, "/bin/sh", "-c", command)

	out, _, err := r.cli.run(ctx, createArgs...)
	if err != nil {
		return nil, fmt.Errorf("creating container: %w", err)
	}
	containerID := strings.TrimSpace(out)
	if containerID == "" {
		return nil, fmt.Errorf("docker create returned no container ID")
	}

	// Force-remove on every exit path: success, tool failure, timeout, or
	// container error. Uses a fresh context so cancellation of the run does
	// not leak the container. A removal failure must never mask the result.
	defer func() {
		rmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, _, rmErr := r.cli.run(rmCtx, "rm", "-f", containerID); rmErr != nil {
			fmt.Printf("[!] Warning: failed to remove container %s: %v\n", shortID(containerID), rmErr)
		}
	}()

	if _, _, err := r.cli.run(ctx, "start", containerID); err != nil {
		return nil, fmt.Errorf("starting container: %w", err)
	}

	// Block on completion up to the per-call timeout
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	waitOut, _, err := r.cli.run(waitCtx, "wait", containerID)
	if err != nil {
		if waitCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return &Result{
				Stderr:   fmt.Sprintf("command timed out after %s", timeout),
				ExitCode: ExitTimeout,
			}, nil
		}
		return nil, fmt.Errorf("waiting for container: %w", err)
	}

	exitCode, err := strconv.Atoi(strings.TrimSpace(waitOut))
	if err != nil {
		return nil, fmt.Errorf("parsing container exit code %q: %w", strings.TrimSpace(waitOut), err)
	}

	// docker logs demuxes the container's stdout and stderr streams
	stdout, stderr, err := r.cli.run(ctx, "logs", containerID)
	if err != nil {
		return nil, fmt.Errorf("reading container logs: %w", err)
	}

	return &Result{Stdout: stdout, Stderr: stderr, ExitCode: exitCode}, nil
}

// sortedKeys returns map keys in stable order so container creation args are
// deterministic across calls.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func shortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}
