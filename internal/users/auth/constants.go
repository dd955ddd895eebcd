// Copyright (c) 2026 Revuo. All rights reserved.

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// Day-long because there is no refresh flow; re-running the code
	// exchange is the renewal path.
	AccessTokenTTL = 24 * time.Hour

	// ConfirmationCodeTTL is how long an emailed confirmation code can be
	// exchanged for a token. Long enough for slow mail delivery.
	ConfirmationCodeTTL = 24 * time.Hour

	// ConfirmationCodeLength is the character length of the emailed code.
	ConfirmationCodeLength = 16
)
