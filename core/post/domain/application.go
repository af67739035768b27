package domain

import (
	"time"

	roledomain "photogram/core/role/domain"
	"photogram/modules/auth"
	"photogram/modules/clock"
)

const defaultCursorTTL = 15 * time.Minute

type (
	Application struct {
		reader PostReadStore
		writer PostWriteStore
		images ImageLookup
		signer CursorSigner

		clock     clock.Clock
		cursorTTL time.Duration
	}

	Option func(*Application)
)

func WithClock(c clock.Clock) Option {
	return func(app *Application) { app.clock = c }
}

// WithCursorTTL bounds how long a page cursor stays valid.
func WithCursorTTL(ttl time.Duration) Option {
	return func(app *Application) {
		if ttl > 0 {
			app.cursorTTL = ttl
		}
	}
}

func NewApp(reader PostReadStore, writer PostWriteStore, images ImageLookup, signer CursorSigner, opts ...Option) *Application {
	app := &Application{
		reader:    reader,
		writer:    writer,
		images:    images,
		signer:    signer,
		clock:     clock.RealClockProvider(),
		cursorTTL: defaultCursorTTL,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

func isStaff(p auth.Principal) bool {
	return p.HasAnyRole(roledomain.RoleAdmin, roledomain.RoleModerator)
}

func canView(viewer auth.Principal, p *Post) bool {
	if p.Visibility == Public {
		return true
	}
	return (!viewer.UserID.IsNew() && viewer.UserID == p.UserID) || isStaff(viewer)
}
