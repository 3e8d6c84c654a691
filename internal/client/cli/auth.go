package cli

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/quillhq/quill/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for account details and creates a new account. The
// password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	fullName, err := getSimpleText(a.reader, "Enter full name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.API().Register(ctx, fullName, email, string(password)); err != nil {
		printlnFn("Registration failed:", err.Error())
		return err
	}

	printlnFn("Account created, you can sign in now.")
	return nil
}

// Login prompts for credentials and signs in. On success the prompt picks up
// the username decoded from the access token.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		switch {
		case errors.Is(err, common.ErrUnauthorized):
			printlnFn("Invalid credentials.")
		case errors.Is(err, common.ErrUnavailable):
			printlnFn("Server unavailable, try again later.")
		default:
			printlnFn("Login failed:", err.Error())
		}
		return err
	}

	s, err := a.session.Session(ctx)
	if err != nil || s == nil {
		return err
	}
	a.userName = s.Username
	printlnFn("Signed in as", a.userName)
	return nil
}

// Logout drops the stored credentials and the notification stream.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.userName = ""
	printlnFn("Signed out.")
	return nil
}

// Whoami prints the current user as decoded from the stored access token.
func (a *App) Whoami(ctx context.Context) error {
	s, err := a.session.Session(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		a.userName = ""
		printlnFn("Not signed in.")
		return nil
	}
	a.userName = s.Username
	printfFn("%s <%s>, token valid until %s\n", s.Username, s.Email, s.ExpiresAt.Local().Format(time.RFC822))
	return nil
}
