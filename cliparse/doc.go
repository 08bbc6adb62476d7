// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Sources

Each setting is taken from the first of:

 1. its CLI flag
 2. the process environment
 3. the .env file named by -env (default ".env", skipped if absent)
 4. the built-in default, if any

# Settings

	-p              PORT                 default 3318
	-d              DATABASE_URL         required
	-t              DATABASE_TYPE        sqlite (default) or postgres
	-media-dir      MEDIA_DIR            default "media"
	-percent-scope  PERCENT_SCOPE        election (default) or position
	-voter-salt     VOTER_TOKEN_SALT     required
	-vote-key       VOTE_ENCRYPTION_KEY  required
	-jwt-secret     JWT_SECRET           required

ParseTallyFlags reads the same sources for read-only tools and does not
require -voter-salt or -jwt-secret.

Secrets may be passed as flags for development but belong in the
environment in production.
*/
package cliparse
