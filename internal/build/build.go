// Package build compiles a mutant/test source pair into an executable via
// an external C/C++ toolchain subprocess, exactly as
// original_source/src/builder.py's Builder.build_sources does.
package build

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Result captures the outcome of one compile invocation.
type Result struct {
	OK     bool
	Stderr string
	Stdout string
}

// Builder compiles sources into an executable using an external compiler.
type Builder struct {
	Compiler string   // defaults to "gcc"
	Flags    []string // extra compiler flags, applied before the sources
}

// New returns a Builder defaulting to gcc with no extra flags.
func New(compiler string, flags []string) *Builder {
	if compiler == "" {
		compiler = "gcc"
	}

	return &Builder{Compiler: compiler, Flags: flags}
}

// Build compiles sources into output. Standard streams are captured, never
// passed through to the parent's console. A non-zero exit is reported via
// Result.OK=false, never as a Go error — a failed build is a legitimate
// mutation-testing outcome (a kill), not a tool failure.
func (b *Builder) Build(ctx context.Context, sources []string, output string) (Result, error) {
	args := append([]string{}, b.Flags...)
	args = append(args, sources...)
	args = append(args, "-o", output)

	cmd := exec.CommandContext(ctx, b.Compiler, args...)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := Result{
		OK:     err == nil,
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if _, isExit := err.(*exec.ExitError); isExit {
			return result, nil
		}

		// The compiler could not even be started (missing binary, etc.);
		// this is still reported as a failed build rather than aborting
		// the whole run.
		result.Stderr += fmt.Sprintf("\n%s", err.Error())

		return result, nil
	}

	return result, nil
}
