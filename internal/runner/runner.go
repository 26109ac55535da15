// Package runner executes shell commands across projects, one at a time with
// streamed output or all at once with captured output and a live status line.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/jakoblorz/go-workspace/internal/adapter"
	"github.com/jakoblorz/go-workspace/internal/models"
	"github.com/jakoblorz/go-workspace/internal/tui"
)

const (
	// DefaultPollInterval is how often running children are polled
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultSpinnerDelay is the minimum time between spinner frames
	DefaultSpinnerDelay = 100 * time.Millisecond
)

// Options configures a Runner. Zero values take the defaults.
type Options struct {
	// Stdout receives child output in series mode
	Stdout io.Writer

	// Stderr receives announcements, progress and failure reports
	Stderr io.Writer

	PollInterval time.Duration
	SpinnerDelay time.Duration

	// Now is the clock used by the spinner
	Now func() time.Time

	Logger *slog.Logger
}

// Runner runs commands through each project's adapter.
type Runner struct {
	registry *adapter.Registry
	locator  adapter.Locator
	opts     Options
}

// New creates a Runner.
func New(registry *adapter.Registry, locator adapter.Locator, opts Options) *Runner {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.SpinnerDelay <= 0 {
		opts.SpinnerDelay = DefaultSpinnerDelay
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Runner{registry: registry, locator: locator, opts: opts}
}

// task tracks one project command through its lifecycle.
type task struct {
	name    string
	command string
	status  models.Status
	process *adapter.Process
	result  models.Result
}

func (t *task) finish(code int, stdout, stderr string) {
	t.result = models.Result{Name: t.name, ExitCode: code, Stdout: stdout, Stderr: stderr}
	t.status = t.result.Status()
}

// Run executes every command and returns the aggregate exit code. Failing
// commands never stop the others. An error is only returned when a command
// cannot be started at all.
func (r *Runner) Run(ctx context.Context, commands []models.ProjectCommand, parallel bool) (int, error) {
	tasks := make([]*task, len(commands))
	adapters := make([]adapter.Adapter, len(commands))
	for i, pc := range commands {
		a, err := r.registry.For(pc.Project, r.locator)
		if err != nil {
			return 0, err
		}
		adapters[i] = a
		tasks[i] = &task{name: pc.Project.Name, command: pc.Command, status: models.StatusPending}
	}

	if parallel {
		return r.runParallel(ctx, tasks, adapters)
	}
	return r.runSeries(ctx, tasks, adapters)
}

func (r *Runner) runSeries(ctx context.Context, tasks []*task, adapters []adapter.Adapter) (int, error) {
	out := r.opts.Stderr

	codes := make([]int, 0, len(tasks))
	var failed []string
	for i, t := range tasks {
		fmt.Fprintf(out, "\nRunning %s  (%s)\n\n", tui.Command(t.command), tui.Bold(t.name))

		t.status = models.StatusRunning
		r.opts.Logger.Debug("running command", "project", t.name, "command", t.command)

		code, err := adapters[i].Run(ctx, t.command, r.opts.Stdout, r.opts.Stderr)
		if err != nil {
			return 0, err
		}
		t.finish(code, "", "")
		r.opts.Logger.Debug("command finished", "project", t.name, "exit_code", code, "status", t.status)

		codes = append(codes, code)
		if code != 0 {
			failed = append(failed, t.name)
		}
	}

	fmt.Fprintln(out)
	if len(failed) > 0 {
		fmt.Fprintf(out, "%s: %s\n", tui.ErrorStyle.Render("Some projects failed"), tui.BoldList(failed))
	}
	return ReduceList(codes), nil
}

func (r *Runner) runParallel(ctx context.Context, tasks []*task, adapters []adapter.Adapter) (int, error) {
	out := r.opts.Stderr

	fmt.Fprintf(out, "\nRunning %s\n\n", tui.Command(commandSummary(tasks)))

	running := make([]*task, 0, len(tasks))
	for i, t := range tasks {
		process, err := adapters[i].Start(ctx, t.command)
		if err != nil {
			// children already started still run to completion
			for _, started := range running {
				started.process.Wait()
			}
			return 0, err
		}
		t.process = process
		t.status = models.StatusRunning
		running = append(running, t)
		r.opts.Logger.Debug("started command", "project", t.name, "command", t.command)
	}

	spinner := NewSpinner(DefaultFrames, r.opts.SpinnerDelay, r.opts.Now)
	ticker := time.NewTicker(r.opts.PollInterval)
	defer ticker.Stop()

	var complete []*task
	for len(running) > 0 {
		frame := spinner.Next()

		still := running[:0]
		for _, t := range running {
			code, done := t.process.Poll()
			if !done {
				still = append(still, t)
				continue
			}

			stdout, stderr := t.process.Communicate()
			t.finish(code, stdout, stderr)
			complete = append(complete, t)
			r.opts.Logger.Debug("command finished", "project", t.name, "exit_code", code, "status", t.status)

			if code != 0 {
				fmt.Fprintln(out, tui.ClearLine+tui.ErrorStyle.Render("✘ "+t.name))
			} else {
				fmt.Fprintln(out, tui.ClearLine+tui.SuccessStyle.Render("✔ "+t.name))
			}
		}
		running = still

		if len(running) == 0 {
			break
		}

		names := make([]string, len(running))
		for i, t := range running {
			names[i] = t.name
		}
		fmt.Fprintf(out, "%s%s %s: %s", tui.ClearLine, frame, tui.AccentStyle.Render("Running"), tui.BoldList(names))

		<-ticker.C
	}

	fmt.Fprintln(out)

	sort.SliceStable(complete, func(i, j int) bool {
		return complete[i].name < complete[j].name
	})

	codes := make([]int, 0, len(complete))
	for _, t := range complete {
		codes = append(codes, t.result.ExitCode)
		if t.result.Success() {
			continue
		}
		fmt.Fprintf(out, "%s:\n", tui.ErrorStyle.Render(
			fmt.Sprintf("%s failed with exit code %s", tui.Bold(t.name), tui.Bold(fmt.Sprint(t.result.ExitCode)))))
		fmt.Fprintln(out, t.result.Output())
	}

	return ReduceSet(codes), nil
}

// commandSummary returns the command shared by all tasks, or a placeholder
// when they differ.
func commandSummary(tasks []*task) string {
	if len(tasks) == 0 {
		return ""
	}
	for _, t := range tasks[1:] {
		if t.command != tasks[0].command {
			return "[various commands]"
		}
	}
	return tasks[0].command
}
