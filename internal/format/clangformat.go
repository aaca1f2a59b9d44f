// Package format pipes the intermediate representation through an external
// clang-format binary.
package format

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"cminify/internal/core/config"
	domainerrors "cminify/internal/core/errors"
)

// Runner tries each candidate binary in order; the first one that runs wins.
type Runner struct {
	Binaries []string
	Args     []string
	Timeout  time.Duration
	// AssumeFilename lets --style=file find the .clang-format next to the
	// output when formatting from stdin.
	AssumeFilename string
}

func NewRunner(cfg config.Format, assumeFilename string) *Runner {
	return &Runner{
		Binaries:       append([]string(nil), cfg.Binaries...),
		Args:           append([]string(nil), cfg.Args...),
		Timeout:        cfg.Timeout,
		AssumeFilename: assumeFilename,
	}
}

func resolve(bin string) (string, error) {
	if strings.ContainsAny(bin, `/\`) {
		info, err := os.Stat(bin)
		if err != nil {
			return "", err
		}
		if info.IsDir() {
			return "", os.ErrInvalid
		}
		return bin, nil
	}
	return exec.LookPath(bin)
}

// Format returns the formatted source or an error when no candidate
// succeeded.
func (r *Runner) Format(ctx context.Context, source string) (string, error) {
	if len(r.Binaries) == 0 {
		return "", domainerrors.New(domainerrors.CodeNotFound, "no formatter binaries configured")
	}

	args := append([]string(nil), r.Args...)
	if r.AssumeFilename != "" {
		args = append(args, "--assume-filename="+r.AssumeFilename)
	}

	var errs []error
	for _, bin := range r.Binaries {
		path, err := resolve(bin)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out, err := r.run(ctx, path, args, source)
		if err != nil {
			errs = append(errs, domainerrors.AddContext(err, domainerrors.CtxBinary, bin))
			continue
		}
		return out, nil
	}

	code := domainerrors.CodeNotFound
	for _, err := range errs {
		if domainerrors.IsCode(err, domainerrors.CodeIO) {
			code = domainerrors.CodeIO
		}
	}
	return "", domainerrors.Wrap(errors.Join(errs...), code, "format intermediate source")
}

func (r *Runner) run(ctx context.Context, path string, args []string, source string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = strings.NewReader(source)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = 500 * time.Millisecond
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "formatter failed"
		}
		return "", domainerrors.Wrap(err, domainerrors.CodeIO, msg)
	}
	return stdout.String(), nil
}
