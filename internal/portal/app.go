// Package portal holds the client-side state of the registration portal: the
// session, the loaded catalog with the student's registrations, and the
// display preference. App wires them together from configuration.
package portal

import (
	"context"
	"io"
	"time"

	"course-portal/internal/client"
	"course-portal/internal/config"
	domain "course-portal/internal/domain/registration"
	"course-portal/internal/infrastructure/storage"
	"course-portal/pkg/logger"
)

// App is the composition root of the portal client.
type App struct {
	Session *SessionManager
	Courses *CourseStore
	Theme   *ThemePreference

	store storage.KeyValueStore
}

// NewApp builds the portal from configuration and restores any persisted
// session and theme.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := storage.New(cfg)
	if err != nil {
		return nil, err
	}
	api := client.NewAPIClient(cfg.Client.BaseURL, cfg.Client.Timeout())

	app := NewAppWith(api, api, store, cfg.Client.MessageTTL(), WithMaxAge(cfg.Client.SessionMaxAge()))
	app.restore(ctx)
	return app, nil
}

// NewAppWith assembles the portal from explicit collaborators.
func NewAppWith(auth Authenticator, api CatalogAPI, store storage.KeyValueStore, messageTTL time.Duration, opts ...SessionOption) *App {
	return &App{
		Session: NewSessionManager(auth, store, opts...),
		Courses: NewCourseStore(api, messageTTL),
		Theme:   NewThemePreference(store),
		store:   store,
	}
}

func (a *App) restore(ctx context.Context) {
	if err := a.Session.Restore(ctx); err != nil {
		logger.WithField("error", err).Warn("Ignoring persisted session")
	}
	if err := a.Theme.Load(ctx); err != nil {
		logger.WithField("error", err).Warn("Ignoring persisted theme")
	}
}

func notLoggedIn() Result {
	return Result{Error: "Not logged in", Kind: domain.KindUnauthorized}
}

// Login authenticates and, on success, loads the student's data.
func (a *App) Login(ctx context.Context, username, password string) Result {
	res := a.Session.Login(ctx, username, password)
	if !res.Success {
		return res
	}
	a.Courses.Reset()
	return a.LoadData(ctx)
}

// LoadData loads the catalog for the signed-in student.
func (a *App) LoadData(ctx context.Context) Result {
	u := a.Session.User()
	if u == nil || !a.Session.IsAuthenticated() {
		return notLoggedIn()
	}
	return a.Courses.LoadData(ctx, u.ID, a.Session.Token())
}

// Register enrolls the signed-in student in courseID for the loaded term,
// loading the catalog first when needed.
func (a *App) Register(ctx context.Context, courseID int) Result {
	u := a.Session.User()
	if u == nil || !a.Session.IsAuthenticated() {
		return notLoggedIn()
	}
	term := a.Courses.CurrentTerm()
	if term == nil {
		if res := a.LoadData(ctx); !res.Success {
			return res
		}
		term = a.Courses.CurrentTerm()
	}
	return a.Courses.RegisterForCourse(ctx, u.ID, courseID, term.ID, a.Session.Token())
}

// Logout clears the session and every piece of loaded state.
func (a *App) Logout(ctx context.Context) error {
	a.Courses.Reset()
	return a.Session.Logout(ctx)
}

// Close releases timers and the storage connection.
func (a *App) Close() error {
	a.Courses.Close()
	if c, ok := a.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
