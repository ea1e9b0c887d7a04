package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/octabyte/salon-gommon/session"
	"github.com/octabyte/salon-gommon/utils"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", os.Getenv("SALON_PASSWORD"), "account password (or SALON_PASSWORD)")
	if err := parse(fs, args); err != nil {
		return err
	}

	sess, err := a.auth.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.session.Login(ctx, *sess); err != nil {
		return err
	}
	return a.print(sess.User)
}

type whoami struct {
	State     string     `json:"state"`
	ID        int64      `json:"id,omitempty"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email,omitempty"`
	Role      string     `json:"role,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	TokenID   string     `json:"tokenId,omitempty"`
}

func (a *app) whoami() error {
	sess, state := a.session.Snapshot()
	out := whoami{State: state.String()}
	if state == session.StateAuthenticated {
		out.ID, out.Name, out.Email, out.Role = sess.User.ID, sess.User.Name, sess.User.Email, sess.User.Role.String()
		if claims, err := utils.ParseTokenClaims(sess.AccessToken); err == nil {
			exp := claims.ExpiresAt.Time.UTC()
			out.ExpiresAt = &exp
		}
		out.TokenID = utils.ClaimString(sess.AccessToken, "jti")
	}
	return a.print(out)
}

func (a *app) refresh(ctx context.Context) error {
	if err := a.session.Guard(ctx); err != nil {
		return err
	}
	if !a.session.RefreshAccessToken(ctx) {
		return errors.New("refresh failed, you have been logged out")
	}
	return a.whoami()
}
