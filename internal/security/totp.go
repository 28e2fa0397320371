// Copyright (c) 2024-2025 Code4Vision
// SPDX-License-Identifier: AGPL-3.0-or-later

package security

import (
	"fmt"

	"github.com/pquerna/otp/totp"
)

// =============================================================================
// TWO-FACTOR AUTH (TOTP)
// =============================================================================

// totpIssuer is the issuer shown by authenticator apps.
const totpIssuer = "ChatBot"

// GenerateTOTPSecret creates a new TOTP secret for an account. It returns
// the base32 secret and the otpauth:// provisioning URL for QR enrollment.
func GenerateTOTPSecret(username string) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: username,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate TOTP secret: %w", err)
	}
	return key.Secret(), key.URL(), nil
}

// ValidateTOTP checks a 6-digit code against the account secret.
func ValidateTOTP(code, secret string) bool {
	return totp.Validate(code, secret)
}
