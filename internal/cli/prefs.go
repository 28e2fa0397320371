// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"
)

// personas are the system-prompt flavors the bot engine understands.
var personas = []string{"friendly", "formal", "concise"}

// =============================================================================
// PREFERENCES EDITOR
// =============================================================================

// preferencesMenu shows and edits the logged-in user's preferences.
func (a *App) preferencesMenu() error {
	for {
		fmt.Println()
		fmt.Println(TitleStyle.Render("Preferences"))
		fmt.Println(LabelStyle.Render("Persona:") + a.prefs.Persona)
		fmt.Println(LabelStyle.Render("Color:") + onOff(a.prefs.Color))
		fmt.Println(LabelStyle.Render("Save history:") + onOff(a.prefs.SaveHistory))
		fmt.Println(LabelStyle.Render("Two-factor:") + onOff(a.user.TOTPEnabled()))
		fmt.Println()
		fmt.Println("1. Change persona")
		fmt.Println("2. Toggle color")
		fmt.Println("3. Toggle history saving")
		fmt.Println("4. Two-factor auth")
		fmt.Println("5. Back")

		choice, err := a.input.ReadLine("> ")
		if err != nil {
			return err
		}

		switch strings.TrimSpace(choice) {
		case "1":
			if err := a.changePersona(); err != nil {
				return err
			}
		case "2":
			a.prefs.Color = !a.prefs.Color
			ApplyColorPreference(a.prefs.Color)
			if err := a.savePrefs(); err != nil {
				return err
			}
		case "3":
			a.prefs.SaveHistory = !a.prefs.SaveHistory
			if err := a.savePrefs(); err != nil {
				return err
			}
			if !a.prefs.SaveHistory {
				fmt.Println(DimStyle.Render("New messages will not be saved."))
			}
		case "4":
			var err error
			if a.user.TOTPEnabled() {
				err = a.disableTOTP()
			} else {
				err = a.enableTOTP()
			}
			if err != nil {
				return err
			}
		case "5", "":
			return nil
		default:
			fmt.Println(WarningStyle.Render("Please choose 1-5."))
		}
	}
}

func (a *App) changePersona() error {
	fmt.Println("Available personas: " + strings.Join(personas, ", "))
	choice, err := a.input.ReadLine("Persona: ")
	if err != nil {
		return err
	}
	choice = strings.ToLower(strings.TrimSpace(choice))

	for _, p := range personas {
		if choice == p {
			a.prefs.Persona = p
			return a.savePrefs()
		}
	}
	fmt.Println(WarningStyle.Render("Unknown persona; keeping " + a.prefs.Persona + "."))
	return nil
}

func (a *App) savePrefs() error {
	if err := a.store.SavePreferences(a.prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	fmt.Println(SuccessStyle.Render("Preferences saved."))
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
