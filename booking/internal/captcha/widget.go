// Package captcha binds the third-party challenge widget that yields the
// proof token attached to a purchase.
package captcha

import (
	"context"

	"github.com/sirupsen/logrus"
)

const (
	DefaultSiteKey = "ysc1_KwOg43ujxx1eWxFlJDRfzPMiaKkgqYFpC5MzEGd02ae283d2"
	// MountPoint is the container the purchase form lays out for the widget.
	MountPoint = "captcha-container"
)

// Widget is the capability the purchase flow consumes.
//
// Load fetches the widget asynchronously and calls done exactly once.
// Render mounts the widget into the named container; it must only be
// called after a successful Load, and repeated calls with the same
// arguments are no-ops. GetResponse returns the current proof token, or
// "" while the challenge has not been passed. It has no side effects.
type Widget interface {
	Load(ctx context.Context, done func(error))
	Render(siteKey string, mountPoint string, visible bool)
	GetResponse() string
}

type Options struct {
	SiteKey    string
	MountPoint string
	Visible    bool
}

// Bind loads w and renders it once loading succeeds, provided mounted
// reports the container exists. A failed load or a missing container skips
// the render silently, leaving GetResponse permanently empty. done receives
// the load error, if any, after the render decision is made.
func Bind(ctx context.Context, w Widget, opts Options, mounted func(id string) bool, log logrus.FieldLogger, done func(error)) {
	w.Load(ctx, func(err error) {
		switch {
		case err != nil:
			log.WithError(err).Warn("captcha widget failed to load, challenge will not be shown")
		case !mounted(opts.MountPoint):
			log.WithField("mount_point", opts.MountPoint).Warn("captcha mount point is missing, challenge will not be shown")
		default:
			w.Render(opts.SiteKey, opts.MountPoint, opts.Visible)
			log.WithField("mount_point", opts.MountPoint).Debug("captcha widget rendered")
		}
		if done != nil {
			done(err)
		}
	})
}

// BindWait is Bind for callers that want to block until the widget
// settles or ctx ends.
func BindWait(ctx context.Context, w Widget, opts Options, mounted func(id string) bool, log logrus.FieldLogger) error {
	result := make(chan error, 1)
	Bind(ctx, w, opts, mounted, log, func(err error) {
		result <- err
	})
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
