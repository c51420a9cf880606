// Package main provides the entry point of admin-console.
//
// admin-console is the backend of an administrative dashboard. It persists the
// theme, display and system settings in a flat category/key/value table,
// reconciles them against typed defaults, saves edits incrementally or by
// replacing a whole group and records every change in an activity log. Users
// authenticate with OpenID Connect ID tokens.
package main
