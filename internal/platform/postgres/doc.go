// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx driver. It also embeds the goose migrations that
// create the users, question_sets, entries, monthly_goals and tasks tables.
package postgres
