// Package model holds the catalog's entities and the request payloads the
// handlers bind and validate.
//
// Entities carry both `db` tags (scanned with pgx.RowToStructByName) and
// `json` tags (the wire representation). Payloads implement
// validation.Validatable.
package model

import (
	"strings"

	"github.com/deppfellow/recipe-catalog/internal/validation"
)

// Resource is a row with a serial id.
type Resource struct {
	ID int64 `json:"id" db:"id"`
}

// IDPath binds the :id path parameter of single-resource routes.
type IDPath struct {
	ID int64 `param:"id" json:"-" validate:"required,min=1"`
}

// Validate checks the path id.
func (p *IDPath) Validate() error {
	return validation.Validator().Struct(p)
}

// NoPayload is used by routes that take no input at all.
type NoPayload struct{}

// Validate always succeeds.
func (NoPayload) Validate() error {
	return nil
}

// NormalizeName trims surrounding whitespace from ingredient and tag names.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
