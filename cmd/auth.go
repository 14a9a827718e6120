package main

import (
	"context"
	"time"

	"github.com/desertthunder/mcat/internal/formatter"
	"github.com/desertthunder/mcat/internal/session"
	"github.com/urfave/cli/v3"
)

// AuthLogin signs the end user in and stores the server-issued token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	return r.login(ctx, session.EndUser, session.LoginRequest{
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
	})
}

// AuthLogout signs the end user out. The local credential is cleared even if the server call fails.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	return r.logout(ctx, session.EndUser)
}

// AdminLogin signs the administrator in.
func (r *Runner) AdminLogin(ctx context.Context, cmd *cli.Command) error {
	return r.login(ctx, session.Admin, session.LoginRequest{
		Username: cmd.String("username"),
		Password: cmd.String("password"),
	})
}

// AdminLogout signs the administrator out.
func (r *Runner) AdminLogout(ctx context.Context, cmd *cli.Command) error {
	return r.logout(ctx, session.Admin)
}

func (r *Runner) login(ctx context.Context, actor session.ActorKind, req session.LoginRequest) error {
	if err := r.ready(); err != nil {
		return err
	}

	r.logger.Debug("logging in", "actor", actor)
	cred, err := r.store.Login(ctx, r.auth, actor, req)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Signed in as %s\n", cred.DisplayName)
}

func (r *Runner) logout(ctx context.Context, actor session.ActorKind) error {
	if _, ok := r.store.Restore(actor); !ok {
		return r.writePlain("Not signed in\n")
	}

	var auth session.Authenticator
	if r.ready() == nil {
		auth = r.auth
	}
	if err := r.store.Logout(ctx, auth, actor); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out\n")
}

type authStatus struct {
	User  session.State `json:"user"`
	Admin session.State `json:"admin"`
}

// AuthStatus verifies the end-user session with the server and prints both actors' state plus recent
// session events.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	user, err := session.Bootstrap(ctx, r.store, r.auth, session.EndUser)
	if err != nil {
		r.logger.Warn("session verification failed", "error", err)
	}
	status := authStatus{User: user, Admin: r.store.State(session.Admin)}

	if r.format == formatter.JSON {
		return r.writeJSON(status, true)
	}

	r.writePlain("User:  %s\n", describeState(status.User))
	r.writePlain("Admin: %s\n", describeState(status.Admin))

	limit := int(cmd.Int("history"))
	if r.events == nil || limit <= 0 {
		return nil
	}

	events, err := r.events.List("", limit)
	if err != nil {
		r.logger.Warn("failed to read session history", "error", err)
		return nil
	}
	if len(events) == 0 {
		return nil
	}
	r.writePlain("\n")
	return r.render(formatter.EventsTable(events, time.Now()), events)
}

func describeState(s session.State) string {
	if !s.Authenticated {
		return "✗ Not signed in"
	}
	return "✓ Signed in as " + s.DisplayName
}
