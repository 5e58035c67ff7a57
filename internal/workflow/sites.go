package workflow

import (
	"context"
	"fmt"

	siteerrors "github.com/siteship/siteship-cli/internal/errors"
	"github.com/siteship/siteship-cli/ui"
)

// List prints the id and domain of every site of the logged in user.
// Without a session it prints how to get one.
func (w *Workflow) List(ctx context.Context) error {
	cred, ok := w.session.Credential()
	if !ok {
		w.println("Not logged in. " + siteerrors.ErrNotLoggedIn.Suggestion + ".")
		return nil
	}

	callCtx, cancel := w.callContext(ctx)
	defer cancel()
	sites, err := w.api(cred.Token).ListSites(callCtx)
	if err != nil {
		return w.handleAPIError("Listing sites", err)
	}
	if len(sites) == 0 {
		w.println("No sites yet. Run 'siteship deploy' to create one.")
		return nil
	}

	rows := make([][2]string, 0, len(sites))
	for _, s := range sites {
		rows = append(rows, [2]string{s.ID.String(), s.Domain})
	}
	w.println(ui.Columns(rows))
	return nil
}

// Status prints the site record deploy acts on.
func (w *Workflow) Status() error {
	if w.sites == nil {
		return siteerrors.New(siteerrors.ErrTypeFatal, "status needs a site file")
	}

	site, ok := w.sites.First()
	if !ok {
		w.println(fmt.Sprintf("No site configured in %s. Run 'siteship deploy' to create one.", w.sites.Path()))
		return nil
	}

	w.println(ui.Columns([][2]string{
		{"id", site.ID},
		{"path", valueOrNone(site.Path)},
		{"domain", valueOrNone(site.Domain)},
	}))
	if cred, ok := w.session.Credential(); ok {
		w.println(ui.Muted(fmt.Sprintf("Logged in to %s as %s", w.session.Host(), cred.Login)))
	} else {
		w.println(ui.Muted(fmt.Sprintf("Not logged in to %s", w.session.Host())))
	}
	return nil
}

func valueOrNone(v string) string {
	if v == "" {
		return "(none)"
	}
	return v
}
