package vpn

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"tunnelgate/relay/pkg/config"
)

// ErrSetupTimeout is reported when a run outlasts setup_timeout. Runs cut
// short by the caller's context are not reported with it.
var ErrSetupTimeout = errors.New("vpn setup timed out")

const (
	// maxSetupOutput is how much of the setup script's output is kept.
	maxSetupOutput = 64 * 1024

	// pipeWaitDelay bounds how long Wait blocks on pipes held open by
	// processes the setup script left running in the background.
	pipeWaitDelay = 5 * time.Second
)

// Establisher (re)establishes the VPN tunnel.
type Establisher interface {
	Establish(ctx context.Context) EstablishResult
}

// EstablishResult describes one run of the setup command.
type EstablishResult struct {
	// ExitCode is the process exit code, or -1 if it did not exit normally.
	ExitCode int

	// Output is the combined stdout and stderr, truncated to the last 64KB.
	Output string

	// Duration is the wall time of the run.
	Duration time.Duration

	// Err is set when the command could not be started, failed, or timed out.
	Err error
}

// Succeeded reports whether the command ran and exited with status 0.
func (r EstablishResult) Succeeded() bool {
	return r.Err == nil && r.ExitCode == 0
}

// ScriptEstablisher runs the VPN client's setup script.
type ScriptEstablisher struct {
	command   []string
	dir       string
	timeout   time.Duration
	clientEnv map[string]string

	// environ returns the base environment; os.Environ outside tests.
	environ func() []string
	logger  *slog.Logger
}

// NewScriptEstablisher creates an establisher from VPN configuration.
func NewScriptEstablisher(cfg *config.VPNConfig) *ScriptEstablisher {
	clientEnv := make(map[string]string, len(cfg.ClientEnv))
	for k, v := range cfg.ClientEnv {
		if v != "" {
			clientEnv[k] = v
		}
	}
	return &ScriptEstablisher{
		command:   append([]string(nil), cfg.SetupCommand...),
		dir:       cfg.SetupDir,
		timeout:   cfg.SetupTimeout,
		clientEnv: clientEnv,
		environ:   os.Environ,
		logger:    slog.Default().With("component", "vpn.establisher"),
	}
}

// Establish runs the setup command once and waits for it to finish.
// Failures are reported in the result; the tunnel state is only known after
// a subsequent probe.
func (e *ScriptEstablisher) Establish(ctx context.Context) EstablishResult {
	if len(e.command) == 0 {
		return EstablishResult{ExitCode: -1, Err: errors.New("setup command is empty")}
	}

	parent := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, e.timeout, ErrSetupTimeout)
		defer cancel()
	}

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, e.command[0], e.command[1:]...)
	cmd.Dir = e.dir
	cmd.Env = MergeEnv(e.environ(), e.clientEnv)
	cmd.Stdout = &output
	cmd.Stderr = &output
	cmd.WaitDelay = pipeWaitDelay

	e.logger.InfoContext(ctx, "running vpn setup command",
		"command", strings.Join(e.command, " "),
		"dir", e.dir,
		"client_vars", sortedKeys(e.clientEnv),
	)

	start := time.Now()
	err := cmd.Run()
	result := EstablishResult{
		ExitCode: -1,
		Output:   tail(output.String(), maxSetupOutput),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	switch {
	case err == nil:
	case errors.Is(context.Cause(ctx), ErrSetupTimeout):
		result.Err = fmt.Errorf("%w after %s: %w", ErrSetupTimeout, e.timeout, context.DeadlineExceeded)
	case parent.Err() != nil:
		result.Err = fmt.Errorf("vpn setup aborted by caller: %w", context.Cause(parent))
	default:
		result.Err = fmt.Errorf("vpn setup command failed: %w", err)
	}

	if result.Err != nil {
		e.logger.WarnContext(ctx, "vpn setup command failed",
			"exit_code", result.ExitCode,
			"duration_ms", result.Duration.Milliseconds(),
			"error", result.Err,
			"output", tail(result.Output, 2048),
		)
	} else {
		e.logger.InfoContext(ctx, "vpn setup command finished",
			"exit_code", result.ExitCode,
			"duration_ms", result.Duration.Milliseconds(),
		)
	}

	return result
}

// MergeEnv returns base with the overlay variables applied. Overlay values
// replace existing entries with the same name; new names are appended in
// sorted order.
func MergeEnv(base []string, overlay map[string]string) []string {
	merged := make([]string, 0, len(base)+len(overlay))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		if _, replaced := overlay[name]; replaced {
			continue
		}
		merged = append(merged, kv)
	}
	for _, name := range sortedKeys(overlay) {
		merged = append(merged, name+"="+overlay[name])
	}
	return merged
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
