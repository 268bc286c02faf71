package submission

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/soapgen/internal/logging"
)

// Controller owns the form state for one UI session and runs the
// Idle -> Pending -> Idle submission cycle against a Generator.
type Controller struct {
	generator Generator
	notifier  Notifier
	sessionID string

	mu       sync.Mutex
	text     string
	file     *File
	output   string
	pending  bool
	lastUsed time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier routes user-facing notices somewhere other than the log.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithSessionID tags the controller's log lines.
func WithSessionID(id string) Option {
	return func(c *Controller) { c.sessionID = id }
}

// NewController creates an idle controller showing DefaultOutput.
func NewController(gen Generator, opts ...Option) *Controller {
	c := &Controller{
		generator: gen,
		output:    DefaultOutput,
		lastUsed:  time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = NotifierFunc(func(ctx context.Context, message string) {
			c.logger(ctx).LogWarnf("notify", "message=%q", message)
		})
	}
	return c
}

func (c *Controller) logger(ctx context.Context) *logging.Logger {
	l := logging.New(ctx)
	if c.sessionID != "" {
		l = l.WithSession(c.sessionID)
	}
	return l
}

// SetText replaces the free-text requirements verbatim.
func (c *Controller) SetText(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = value
	c.lastUsed = time.Now()
}

// SetFile replaces the selected WSDL file. No type or size checks are made.
func (c *Controller) SetFile(f File) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.file = &File{Name: f.Name, Data: f.Data}
	c.lastUsed = time.Now()
}

// ClearFile drops the selected file.
func (c *Controller) ClearFile() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.file = nil
	c.lastUsed = time.Now()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := State{Text: c.text, Output: c.output, Pending: c.pending}
	if c.file != nil {
		cp := *c.file
		s.File = &cp
	}
	return s
}

// Pending reports whether a submission is in flight.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// LastUsed is the time of the last operation that touched this controller.
func (c *Controller) LastUsed() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}

// Submit sends the current file and text to the generator and folds the
// result into the output. It blocks until the call settles.
//
// Without a file it returns ErrMissingFile after notifying the user, and no
// request is made. While another submission is pending it returns
// ErrSubmissionPending. Failures replace the output with FailureOutput and
// return an error wrapping ErrGenerationFailed.
func (c *Controller) Submit(ctx context.Context) error {
	logger := c.logger(ctx)

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		logger.LogWarnf("submit", "rejected: submission already pending")
		return ErrSubmissionPending
	}
	if c.file == nil {
		c.mu.Unlock()
		c.notifier.Notify(ctx, MissingFileNotice)
		return ErrMissingFile
	}
	req := Request{File: *c.file, Text: c.text}
	c.pending = true
	c.lastUsed = time.Now()
	c.mu.Unlock()

	logger.LogInfof("submit", "file=%q bytes=%d text_len=%d", req.File.Name, len(req.File.Data), len(req.Text))
	start := time.Now()
	out, err := c.generate(ctx, req)

	c.mu.Lock()
	if err != nil {
		c.output = FailureOutput
	} else {
		c.output = out
	}
	c.pending = false
	c.lastUsed = time.Now()
	c.mu.Unlock()

	if err != nil {
		logger.LogErrorf("submit", "generation failed after %s: %v", time.Since(start), err)
		return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	logger.LogInfof("submit", "generation succeeded in %s bytes=%d", time.Since(start), len(out))
	return nil
}

// generate isolates the collaborator call so a panicking Generator still
// settles the submission.
func (c *Controller) generate(ctx context.Context, req Request) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()
	return c.generator.Generate(ctx, req)
}

// Download hands the current output to dst as soapui-project.xml. Whatever
// is displayed is saved, placeholder and failure text included.
func (c *Controller) Download(ctx context.Context, dst Saver) error {
	c.mu.Lock()
	output := c.output
	c.lastUsed = time.Now()
	c.mu.Unlock()

	a := Artifact{
		Name:      ArtifactName,
		MediaType: ArtifactMediaType,
		Data:      []byte(output),
	}
	if err := dst.Save(ctx, a); err != nil {
		c.logger(ctx).LogError("download", err)
		return fmt.Errorf("save %s: %w", a.Name, err)
	}
	c.logger(ctx).LogDebugf("download", "saved %s bytes=%d", a.Name, len(a.Data))
	return nil
}
