package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/mcat/internal/formatter"
	"github.com/desertthunder/mcat/internal/services"
	"github.com/desertthunder/mcat/internal/shared"
	"github.com/urfave/cli/v3"
)

// AccountPlaylists lists the signed-in user's playlists on one tab of the account page.
func (r *Runner) AccountPlaylists(ctx context.Context, cmd *cli.Command) error {
	tab, err := services.ParsePlaylistTab(cmd.String("tab"))
	if err != nil {
		return err
	}
	if err := r.ready(); err != nil {
		return err
	}

	playlists, err := r.account.Playlists(ctx, tab)
	if err != nil {
		return err
	}
	t := formatter.PlaylistsTable(playlists)
	t.Title = fmt.Sprintf("Playlists (%s)", tab)
	return r.render(t, playlists)
}

// AccountComments lists the signed-in user's comments.
func (r *Runner) AccountComments(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	comments, err := r.account.Comments(ctx)
	if err != nil {
		return err
	}
	return r.render(formatter.CommentsTable(comments), comments)
}

// AccountPassword changes the signed-in user's password.
func (r *Runner) AccountPassword(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	err := r.account.ChangePassword(ctx, services.PasswordChange{
		CurrentPassword: cmd.String("current"),
		NewPassword:     cmd.String("new"),
	})
	if err != nil {
		return err
	}
	return r.writePlain("✓ Password changed\n")
}

// AccountNickname changes the signed-in user's display name.
func (r *Runner) AccountNickname(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	nickname := cmd.StringArg("nickname")
	if err := r.account.ChangeNickname(ctx, nickname); err != nil {
		return err
	}
	return r.writePlain("✓ Nickname changed to %s\n", nickname)
}

// AccountDelete deletes the signed-in user's account and forgets the stored credential.
func (r *Runner) AccountDelete(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: pass --yes to delete your account", shared.ErrMissingArgument)
	}
	if err := r.ready(); err != nil {
		return err
	}

	if err := r.account.DeleteAccount(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Account deleted\n")
}
