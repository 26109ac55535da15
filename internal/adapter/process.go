package adapter

import (
	"bytes"
	"os/exec"
)

// Process is a running child whose output is captured in memory.
//
// A goroutine waits on the child and closes done, so Poll never blocks.
// Stdout and stderr are only read after done is closed.
type Process struct {
	cmd    *exec.Cmd
	stdout bytes.Buffer
	stderr bytes.Buffer
	done   chan struct{}
	code   int
}

func startProcess(cmd *exec.Cmd) (*Process, error) {
	p := &Process{cmd: cmd, done: make(chan struct{})}
	cmd.Stdout = &p.stdout
	cmd.Stderr = &p.stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	go p.wait()
	return p, nil
}

func (p *Process) wait() {
	_ = p.cmd.Wait()
	p.code = exitCode(p.cmd.ProcessState)
	close(p.done)
}

// Poll reports the exit code and true once the process has finished.
func (p *Process) Poll() (int, bool) {
	select {
	case <-p.done:
		return p.code, true
	default:
		return 0, false
	}
}

// Wait blocks until the process exits and returns its exit code.
func (p *Process) Wait() int {
	<-p.done
	return p.code
}

// Communicate blocks until the process exits and returns its captured output.
func (p *Process) Communicate() (stdout, stderr string) {
	<-p.done
	return p.stdout.String(), p.stderr.String()
}
