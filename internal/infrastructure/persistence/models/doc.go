// Package models maps the POS tables to GORM structs. Domain types stay free
// of ORM tags; each model converts with ToDomain and a *FromDomain constructor.
//
// The Postgres schema of record, with its foreign keys and checks, is the SQL
// under migrations/. AutoMigrate over All is only used against SQLite in tests.
package models
