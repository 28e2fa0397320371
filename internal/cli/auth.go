// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Code4Vision/ChatBot/internal/model"
	"github.com/Code4Vision/ChatBot/internal/security"
	"github.com/Code4Vision/ChatBot/internal/storage"
)

// =============================================================================
// LOGIN
// =============================================================================

// login authenticates a user and derives the per-user history cipher
// from the password and the stored salt. The password is the only
// source of the encryption key; it is never written anywhere.
func (a *App) login() error {
	username, err := a.input.ReadLine("Username: ")
	if err != nil {
		return err
	}
	username = strings.TrimSpace(username)

	if !a.throttle.Allow(username) {
		fmt.Println(ErrorStyle.Render("Too many login attempts. Try again later."))
		return nil
	}

	password, err := a.input.ReadSecret("Password: ")
	if err != nil {
		return err
	}

	user, lookupErr := a.store.GetUser(username)
	if lookupErr != nil {
		if errors.Is(lookupErr, storage.ErrUserNotFound) {
			// Same message as a bad password so usernames cannot be probed.
			fmt.Println(ErrorStyle.Render("Invalid username or password."))
			return nil
		}
		return fmt.Errorf("look up user: %w", lookupErr)
	}

	if err := security.VerifyPassword(user.PasswordHash, password); err != nil {
		fmt.Println(ErrorStyle.Render("Invalid username or password."))
		return nil
	}

	cipher, err := security.NewCipher(password, user.Salt, a.config().Security.PBKDF2Iterations)
	if err != nil {
		return fmt.Errorf("derive history key: %w", err)
	}

	if user.TOTPEnabled() {
		ok, err := a.verifyTOTP(user, cipher)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println(ErrorStyle.Render("Invalid authentication code."))
			return nil
		}
	}

	if err := a.store.TouchLastLogin(username, time.Now()); err != nil {
		return fmt.Errorf("record login: %w", err)
	}

	prefs, err := a.store.GetPreferences(username)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}

	a.user = user
	a.cipher = cipher
	a.prefs = prefs
	a.touchSession()
	ApplyColorPreference(prefs.Color)

	fmt.Println(SuccessStyle.Render("Welcome back, " + username + "!"))
	return nil
}

// verifyTOTP decrypts the stored TOTP secret and checks a prompted code.
func (a *App) verifyTOTP(user *model.User, cipher *security.Cipher) (bool, error) {
	secret, err := cipher.DecryptString(user.TOTPSecret)
	if err != nil {
		return false, fmt.Errorf("decrypt totp secret: %w", err)
	}

	code, err := a.input.ReadLine("Authentication code: ")
	if err != nil {
		return false, err
	}
	return security.ValidateTOTP(strings.TrimSpace(code), secret), nil
}

// =============================================================================
// REGISTRATION
// =============================================================================

// register creates a new account: validated username, strength-checked
// password hashed with bcrypt, and a fresh salt for history encryption.
func (a *App) register() error {
	username, err := a.input.ReadLine("Choose a username: ")
	if err != nil {
		return err
	}
	username = strings.TrimSpace(username)

	if err := model.ValidateUsername(username); err != nil {
		fmt.Println(ErrorStyle.Render(err.Error()))
		return nil
	}

	password, err := a.input.ReadSecret("Choose a password: ")
	if err != nil {
		return err
	}
	if err := security.ValidatePasswordStrength(password); err != nil {
		fmt.Println(ErrorStyle.Render(err.Error()))
		return nil
	}

	confirm, err := a.input.ReadSecret("Confirm password: ")
	if err != nil {
		return err
	}
	if confirm != password {
		fmt.Println(ErrorStyle.Render("Passwords do not match."))
		return nil
	}

	hash, err := security.HashPassword(password, a.config().Security.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	salt, err := security.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    time.Now(),
	}
	if err := a.store.CreateUser(user); err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			fmt.Println(ErrorStyle.Render("That username is already taken."))
			return nil
		}
		return fmt.Errorf("create user: %w", err)
	}

	if err := a.store.SavePreferences(model.DefaultPreferences(username)); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}

	fmt.Println(SuccessStyle.Render("Account created. You can now log in."))
	return nil
}

// =============================================================================
// TWO-FACTOR SETUP
// =============================================================================

// enableTOTP generates a TOTP secret, confirms the user's authenticator
// produces a valid code, and stores the secret encrypted with the
// session cipher.
func (a *App) enableTOTP() error {
	secret, url, err := security.GenerateTOTPSecret(a.user.Username)
	if err != nil {
		return fmt.Errorf("generate totp secret: %w", err)
	}

	fmt.Println("Add this secret to your authenticator app:")
	fmt.Println("  " + TitleStyle.Render(secret))
	fmt.Println(DimStyle.Render("  " + url))

	code, err := a.input.ReadLine("Enter a code to confirm: ")
	if err != nil {
		return err
	}
	if !security.ValidateTOTP(strings.TrimSpace(code), secret) {
		fmt.Println(ErrorStyle.Render("Code did not match; two-factor auth not enabled."))
		return nil
	}

	encrypted, err := a.cipher.EncryptString(secret)
	if err != nil {
		return fmt.Errorf("encrypt totp secret: %w", err)
	}
	if err := a.store.SetTOTPSecret(a.user.Username, encrypted); err != nil {
		return fmt.Errorf("store totp secret: %w", err)
	}
	a.user.TOTPSecret = encrypted

	fmt.Println(SuccessStyle.Render("Two-factor auth enabled."))
	return nil
}

// disableTOTP turns two-factor auth off after confirming a valid code.
func (a *App) disableTOTP() error {
	ok, err := a.verifyTOTP(a.user, a.cipher)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println(ErrorStyle.Render("Invalid authentication code."))
		return nil
	}
	if err := a.store.SetTOTPSecret(a.user.Username, ""); err != nil {
		return fmt.Errorf("clear totp secret: %w", err)
	}
	a.user.TOTPSecret = ""
	fmt.Println(SuccessStyle.Render("Two-factor auth disabled."))
	return nil
}
