// Copyright (c) 2026 E-Njams.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and session token utilities.

# Passwords

Passwords are stored as salted bcrypt hashes, never compared as plaintext:

	hash, err := auth.HashPassword(password)
	ok := auth.CheckPassword(password, hash)

# Session Tokens

Sessions are stateless HS256 tokens carrying only the student ID:

	token, err := auth.GenerateSessionToken(studentID, secret)
	claims, err := auth.ValidateSessionToken(token, secret)

Tokens expire after 24 hours. Callers look the student up by
claims.StudentID on every request, so role changes and voting-history
updates take effect immediately without re-issuing tokens.

# ID Generation

Database record IDs are random UUIDs:

	id := auth.NewID()
*/
package auth
