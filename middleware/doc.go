// Copyright (c) 2026 E-Njams.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP helpers shared by all handlers.

# Helpers

  - WithLogging: request start/completion logging via slog
  - JSONResponse / ErrorResponse: JSON encoding with status codes
  - ParseJSONBody: request body decoding
  - BearerToken: session token extraction from the Authorization header
  - CORS: cross-origin handling including preflight
  - GetClientIP: client address behind proxies

Every handler converts failures to an ErrorResponse at this boundary;
no error propagates past a handler.
*/
package middleware
