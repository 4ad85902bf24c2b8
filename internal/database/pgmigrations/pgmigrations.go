// Package pgmigrations embeds the PostgreSQL schema, applied with goose.
package pgmigrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
