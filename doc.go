// Copyright (c) 2026 E-Njams.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Democratic-E API server.

Democratic-E is the backend for a university student-elections app:
student registration and sign-in, candidate applications with admin review,
batch voting for the active election, and ranked results with vote shares.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... SESSION_SECRET=... go run main.go

Or with flags:

	go run main.go -p 8070 -d "postgres://..." --session-secret "..."

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string
  - SESSION_SECRET (--session-secret): Secret for signing session tokens

Optional settings:

  - PORT (-p): Server port (default: 8070)
  - STORAGE_URL (--storage-url): Base URL of the profile-picture store
  - STORAGE_BUCKET (--storage-bucket): Bucket name (default: profile-pictures)
  - STORAGE_KEY (--storage-key): Bearer key for the store

A .env file in the working directory is loaded before flags are read.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (accounts, elections, candidacy, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Password hashing and session tokens
  - avatars: Profile-picture storage client
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
