// Copyright (c) 2026 E-Njams.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded first (via godotenv), so a
local development setup needs no exported variables.

# Config Fields

  - Port: Server listen port (default: 8070)
  - DatabaseURL: PostgreSQL connection string (required)
  - SessionSecret: Secret for signing session tokens (required)
  - StorageURL: Base URL of the profile-picture store (optional)
  - StorageBucket: Storage bucket name (default: profile-pictures)
  - StorageKey: Bearer key for the store (optional)

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	SESSION_SECRET → --session-secret
	STORAGE_URL    → --storage-url
	STORAGE_BUCKET → --storage-bucket
	STORAGE_KEY    → --storage-key

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - SESSION_SECRET must be provided

Storage settings are optional; when STORAGE_URL is unset the avatar
endpoints report that storage is not configured.
*/
package cliparse
