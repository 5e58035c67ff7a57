// Package workflow implements the siteship commands on top of the API
// client, the credential file and the site file.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/siteship/siteship-cli/client"
	"github.com/siteship/siteship-cli/internal/archive"
	siteerrors "github.com/siteship/siteship-cli/internal/errors"
	"github.com/siteship/siteship-cli/internal/siteconfig"
	"github.com/siteship/siteship-cli/ui"
	"go.uber.org/zap"
)

// API is the subset of the deployment API the commands use.
type API interface {
	Signup(ctx context.Context, email, password string) (*client.Credentials, error)
	Authenticate(ctx context.Context, username, password string) (string, error)
	CreateSite(ctx context.Context) (*client.Site, error)
	ListSites(ctx context.Context) ([]client.Site, error)
	UploadDeploy(ctx context.Context, siteID string, archive io.Reader, size int64, filename string, progress client.ProgressFunc) error
}

// APIFactory returns an API client authenticating with token. An empty
// token means an anonymous client.
type APIFactory func(token string) API

// Archiver builds the upload archive.
type Archiver interface {
	Create(src string) (*archive.Archive, error)
}

// Prompter asks the user for input. Implementations return
// errors.ErrAborted when the user interrupts a prompt.
type Prompter interface {
	Input(label, placeholder string) (string, error)
	Password(label string) (string, error)
	Confirm(question string) (bool, error)
}

// ProgressReporter displays upload progress.
type ProgressReporter interface {
	Update(sent, total int64)
	Finish()
}

// Options wires a Workflow. Sites may be nil for commands that never touch
// the site file.
type Options struct {
	Session     *Session
	Sites       *siteconfig.Store
	API         APIFactory
	Archiver    Archiver
	Prompter    Prompter
	NewProgress func() ProgressReporter
	Out         io.Writer
	Logger      *zap.Logger
	Now         func() time.Time
	// Timeout bounds each API call. Zero means no limit. Time spent at
	// prompts is not counted.
	Timeout time.Duration
}

// Workflow runs the commands of one invocation.
type Workflow struct {
	session     *Session
	sites       *siteconfig.Store
	api         APIFactory
	archiver    Archiver
	prompt      Prompter
	newProgress func() ProgressReporter
	out         io.Writer
	errs        *siteerrors.ErrorHandler
	logger      *zap.Logger
	now         func() time.Time
	timeout     time.Duration
}

// New creates a Workflow.
func New(opts Options) *Workflow {
	w := &Workflow{
		session:     opts.Session,
		sites:       opts.Sites,
		api:         opts.API,
		archiver:    opts.Archiver,
		prompt:      opts.Prompter,
		newProgress: opts.NewProgress,
		out:         opts.Out,
		errs:        siteerrors.NewErrorHandler(),
		logger:      opts.Logger,
		now:         opts.Now,
		timeout:     opts.Timeout,
	}
	if w.out == nil {
		w.out = io.Discard
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	if w.now == nil {
		w.now = time.Now
	}
	if w.newProgress == nil {
		w.newProgress = func() ProgressReporter { return nopProgress{} }
	}
	return w
}

type nopProgress struct{}

func (nopProgress) Update(int64, int64) {}
func (nopProgress) Finish()             {}

// handleAPIError renders validation errors and reports them as handled.
// Every other error is returned unchanged.
func (w *Workflow) handleAPIError(action string, err error) error {
	var verr *siteerrors.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	w.logger.Debug("Validation failed", zap.String("action", action), zap.Int("status_code", verr.StatusCode))
	w.println(ui.Warning(fmt.Sprintf("%s was rejected:", action)))
	w.errs.RenderValidation(w.out, verr)
	return nil
}

// callContext derives the context for one API call.
func (w *Workflow) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, w.timeout)
}

func (w *Workflow) println(s string) {
	_, _ = fmt.Fprintln(w.out, s)
}

// ask keeps prompting until the answer is non-empty.
func (w *Workflow) ask(label, placeholder string) (string, error) {
	for {
		v, err := w.prompt.Input(label, placeholder)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
		w.println(ui.Warning(siteerrors.ErrEmptyInput.Message))
	}
}

func (w *Workflow) askPassword(label string) (string, error) {
	for {
		v, err := w.prompt.Password(label)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
		w.println(ui.Warning(siteerrors.ErrEmptyInput.Message))
	}
}
