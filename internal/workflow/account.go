package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	siteerrors "github.com/siteship/siteship-cli/internal/errors"
	"github.com/siteship/siteship-cli/internal/logger"
	"github.com/siteship/siteship-cli/ui"
	"go.uber.org/zap"
)

// Login authenticates with email and password, prompting for whichever is
// empty, and stores the returned token for the API host. Any rejection is
// fatal.
func (w *Workflow) Login(ctx context.Context, email, password string) error {
	email, password, err := w.askCredentials(email, password)
	if err != nil {
		return err
	}

	callCtx, cancel := w.callContext(ctx)
	token, err := w.api("").Authenticate(callCtx, email, password)
	cancel()
	if err != nil {
		var verr *siteerrors.ValidationError
		if errors.As(err, &verr) {
			return siteerrors.New(siteerrors.ErrTypeAuth, "login failed: "+strings.Join(verr.Lines(), ", ")).
				WithSuggestion("Check your email and password, or run 'siteship register' to create an account")
		}
		return err
	}

	if err := w.session.Save(email, token); err != nil {
		return err
	}
	w.logger.Debug("Logged in", zap.String("host", w.session.Host()), zap.String("token", logger.Redact(token)))
	w.println(ui.Success(fmt.Sprintf("Logged in as %s", email)))
	return nil
}

// Register creates an account and stores its token like Login does.
func (w *Workflow) Register(ctx context.Context, email, password string) error {
	email, password, err := w.askCredentials(email, password)
	if err != nil {
		return err
	}

	callCtx, cancel := w.callContext(ctx)
	creds, err := w.api("").Signup(callCtx, email, password)
	cancel()
	if err != nil {
		return w.handleAPIError("Registration", err)
	}

	if err := w.session.Save(creds.Email, creds.Token); err != nil {
		return err
	}
	w.logger.Debug("Registered", zap.String("host", w.session.Host()), zap.String("token", logger.Redact(creds.Token)))
	w.println(ui.Success(fmt.Sprintf("Registered and logged in as %s", creds.Email)))
	return nil
}

// Logout removes the stored credential after confirmation. Without a
// credential it only says so.
func (w *Workflow) Logout() error {
	cred, ok := w.session.Credential()
	if !ok {
		w.println("Not logged in.")
		return nil
	}

	confirmed, err := w.prompt.Confirm(fmt.Sprintf("Log out %s from %s?", cred.Login, w.session.Host()))
	if err != nil && !errors.Is(err, siteerrors.ErrAborted) {
		return err
	}
	if !confirmed {
		w.println("Aborted.")
		return nil
	}

	if err := w.session.Clear(); err != nil {
		return err
	}
	w.println(ui.Success("Logged out."))
	return nil
}

// Whoami prints the login stored for the API host.
func (w *Workflow) Whoami() error {
	cred, ok := w.session.Credential()
	if !ok {
		w.println("Not logged in.")
		return nil
	}
	w.println(cred.Login)
	return nil
}

func (w *Workflow) askCredentials(email, password string) (string, string, error) {
	var err error
	if email == "" {
		if email, err = w.ask("Email", "you@example.com"); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if password, err = w.askPassword("Password"); err != nil {
			return "", "", err
		}
	}
	return email, password, nil
}
