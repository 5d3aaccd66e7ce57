package cli

import (
	"context"
	"fmt"

	"github.com/prodshot/prodshot/internal/client/metadata"
	"github.com/prodshot/prodshot/internal/common"
)

// Register creates a new account interactively. It does not log the user
// in; they are asked to log in afterwards.
func (a *App) Register(ctx context.Context) error {

	name, err := GetSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Register(ctx, name, email, string(password)); err != nil {
		printlnFn("Registration unsuccessful:", err.Error())
		return err
	}

	printlnFn("Account created, you can now log in.")
	return nil
}

// Login authenticates, installs the session token, and caches it in the
// local metadata store so a restarted client can resume the session.
func (a *App) Login(ctx context.Context) error {

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}
	defer common.WipeByteArray(password)

	result, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		printlnFn("Login unsuccessful:", err.Error())
		return err
	}

	a.api.SetToken(result.Token)
	a.userName = result.User.Name

	if err := a.meta.Set(ctx, metadata.KeyAuthToken, []byte(result.Token)); err != nil {
		a.logger.Warn(ctx, "could not cache session token", "error", err.Error())
	}
	if err := a.meta.Set(ctx, metadata.KeyUserEmail, []byte(result.User.Email)); err != nil {
		a.logger.Warn(ctx, "could not cache user email", "error", err.Error())
	}

	printlnFn(fmt.Sprintf("Welcome, %s!", result.User.Name))
	return nil
}

// Logout drops the session token locally; the token itself simply expires
// on the server side.
func (a *App) Logout(ctx context.Context) error {
	a.api.SetToken("")
	a.userName = ""

	if err := a.meta.Clear(ctx); err != nil {
		a.logger.Warn(ctx, "could not clear metadata", "error", err.Error())
	}

	printlnFn("Logged out.")
	return nil
}
