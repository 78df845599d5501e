// Package model contains the records read from and written to the relational store.
// Types carry db tags for sqlx scanning and camelCase json tags for the HTTP surface; no business logic here.
package model
