package workflow

import (
	"context"
	"fmt"

	siteerrors "github.com/siteship/siteship-cli/internal/errors"
	"github.com/siteship/siteship-cli/internal/siteconfig"
	"github.com/siteship/siteship-cli/ui"
	"go.uber.org/zap"
)

// DeployOptions are the deploy command flags. Empty values leave the stored
// site record untouched.
type DeployOptions struct {
	// Site selects a section of the site file. An id the file does not know
	// is recorded as an already created site.
	Site   string
	Path   string
	Domain string
}

// Deploy archives the site directory and uploads it. Without a stored
// credential the user is logged in first. Without a site record a site is
// created remotely and recorded before anything is uploaded.
//
// 4xx responses are rendered per field and Deploy returns nil. The
// temporary archive is removed on every path.
func (w *Workflow) Deploy(ctx context.Context, opts DeployOptions) error {
	if w.sites == nil {
		return siteerrors.New(siteerrors.ErrTypeFatal, "deploy needs a site file")
	}

	cred, ok := w.session.Credential()
	if !ok {
		w.logger.Debug("No credential, logging in", zap.String("host", w.session.Host()))
		w.println("You are not logged in to " + w.session.Host() + ".")
		if err := w.Login(ctx, "", ""); err != nil {
			return err
		}
		if cred, ok = w.session.Credential(); !ok {
			return siteerrors.ErrNotLoggedIn
		}
	}
	api := w.api(cred.Token)

	site, ok := w.selectSite(opts.Site)
	if ok && site.Exists() {
		w.logger.Debug("Using existing site", zap.String("id", site.ID), zap.String("path", site.Path))
		changed := site.Merge(opts.Path, opts.Domain)
		if site.Path == "" {
			path, err := w.ask("Path to the site directory", "./public")
			if err != nil {
				return err
			}
			site.Path = path
			changed = true
		}
		if changed {
			if err := w.sites.Upsert(site); err != nil {
				return err
			}
			w.logger.Debug("Site record updated", zap.String("file", w.sites.Path()))
		}
	} else {
		path := opts.Path
		if path == "" {
			var err error
			if path, err = w.ask("Path to the site directory", "./public"); err != nil {
				return err
			}
		}

		w.println(ui.Info("Creating site..."))
		callCtx, cancel := w.callContext(ctx)
		created, err := api.CreateSite(callCtx)
		cancel()
		if err != nil {
			return w.handleAPIError("Site creation", err)
		}

		site = siteconfig.Site{ID: created.ID.String(), Path: path, Domain: created.Domain}
		site.Merge("", opts.Domain)
		if err := w.sites.Upsert(site); err != nil {
			return err
		}
		w.logger.Debug("Site created", zap.String("id", site.ID), zap.String("domain", site.Domain))
		w.println(ui.Success(fmt.Sprintf("Created site %s", site.ID)))
	}

	return w.upload(ctx, api, site)
}

// selectSite picks the site deploy acts on: the one named by id, otherwise
// the first one in the file.
func (w *Workflow) selectSite(id string) (siteconfig.Site, bool) {
	if id == "" {
		return w.sites.First()
	}
	if site, ok := w.sites.Get(id); ok {
		return site, true
	}
	w.logger.Debug("Site not in site file, adopting it", zap.String("id", id), zap.String("file", w.sites.Path()))
	return siteconfig.Site{ID: id}, true
}

func (w *Workflow) upload(ctx context.Context, api API, site siteconfig.Site) error {
	arc, err := w.archiver.Create(site.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := arc.Close(); err != nil {
			w.logger.Warn("Failed to remove temporary archive", zap.String("dir", arc.Dir), zap.Error(err))
		}
	}()

	f, err := arc.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	filename := fmt.Sprintf("%d.zip", w.now().Unix())
	w.println(ui.Info(fmt.Sprintf("Uploading %s...", site.Path)))

	progress := w.newProgress()
	callCtx, cancel := w.callContext(ctx)
	err = api.UploadDeploy(callCtx, site.ID, f, arc.Size, filename, progress.Update)
	cancel()
	progress.Finish()
	if err != nil {
		return w.handleAPIError("Deploy", err)
	}

	w.logger.Debug("Deploy uploaded", zap.String("site", site.ID), zap.String("filename", filename), zap.Int64("size", arc.Size))
	if site.Domain != "" {
		w.println(ui.Success(fmt.Sprintf("Deployed to https://%s", site.Domain)))
	} else {
		w.println(ui.Success(fmt.Sprintf("Deployed site %s", site.ID)))
	}
	return nil
}
