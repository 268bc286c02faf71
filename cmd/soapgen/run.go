package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/GoSim-25-26J-441/soapgen/internal/export"
	"github.com/GoSim-25-26J-441/soapgen/internal/submission"
)

type runOptions struct {
	WSDLPath    string
	Text        string
	OutDir      string
	Interactive bool
}

type runner struct {
	gen    submission.Generator
	prompt Prompter
	stdout io.Writer
	stderr io.Writer
}

// Run drives one controller from the terminal: collect inputs, submit, show
// the output and save it.
func (r *runner) Run(ctx context.Context, opts runOptions) error {
	ctrl := submission.NewController(r.gen, submission.WithNotifier(submission.NotifierFunc(
		func(_ context.Context, message string) { fmt.Fprintln(r.stderr, message) },
	)))

	path := opts.WSDLPath
	if path == "" && opts.Interactive {
		p, err := r.prompt.FilePath("WSDL file:")
		if err != nil {
			return err
		}
		path = p
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read wsdl: %w", err)
		}
		ctrl.SetFile(submission.File{Name: filepath.Base(path), Data: data})
	}

	text := opts.Text
	if text == "" && opts.Interactive {
		t, err := r.prompt.Requirements("Test requirements:")
		if err != nil {
			return err
		}
		text = t
	}
	ctrl.SetText(text)

	submitErr := ctrl.Submit(ctx)
	if errors.Is(submitErr, submission.ErrMissingFile) {
		return submitErr
	}
	fmt.Fprintln(r.stdout, ctrl.Snapshot().Output)

	save := submitErr == nil
	if opts.Interactive {
		ok, err := r.prompt.Confirm("Save as "+submission.ArtifactName+"?", save)
		if err != nil {
			return err
		}
		save = ok
	}
	if save {
		saver := export.NewFileSaver(opts.OutDir)
		if err := ctrl.Download(ctx, saver); err != nil {
			return err
		}
		fmt.Fprintf(r.stderr, "saved %s\n", saver.Path(submission.ArtifactName))
	}
	return submitErr
}
