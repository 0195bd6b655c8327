// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

// Package create turns a file selection and the user's form input into a
// request for the torrent creation library.
package create

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/trim21/errgo"

	"seedling/internal/resolve"
)

// Form holds the fields the user can edit before creating the torrent.
type Form struct {
	Comment      string `json:"comment"`
	Trackers     string `json:"trackers" description:"one tracker url per line"`
	Private      bool   `json:"private"`
	ShowAdvanced bool   `json:"show_advanced"`
}

// Request is what the torrent creation library receives.
//
// Name is always the derived default name. Letting the user rename it would
// make the library create a new folder instead of using the files in place.
type Request struct {
	Name     string                   `json:"name" required:"true"`
	Path     string                   `json:"path" required:"true"`
	Comment  string                   `json:"comment"`
	Files    []resolve.FileDescriptor `json:"files" required:"true"`
	Announce []string                 `json:"announce" required:"true"`
	Private  bool                     `json:"private"`
}

// AnnounceList returns the trackers in the tiered form used by the metainfo.
func (r Request) AnnounceList() AnnounceList {
	return Tiers(r.Announce)
}

var validate = NewValidator()

// NewValidator reports fields by their json names.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Validate checks the shape of a selection coming from outside the process.
func Validate(set resolve.FileSet) error {
	if err := validate.Struct(set); err != nil {
		return errgo.Wrap(err, "invalid file selection")
	}

	return nil
}

// Assemble builds the creation request for a selection.
// It returns resolve.ErrEmptySelection when only hidden files were selected.
func Assemble(set resolve.FileSet, form Form) (Request, resolve.Metadata, error) {
	if err := Validate(set); err != nil {
		return Request{}, resolve.Metadata{}, err
	}

	m, err := resolve.Derive(set)
	if err != nil {
		return Request{}, resolve.Metadata{}, err
	}

	announce := ParseTrackers(form.Trackers)
	if announce == nil {
		announce = []string{}
	}

	return Request{
		Name:     m.DefaultName,
		Path:     m.BasePath,
		Files:    resolve.FilterVisible(set).Files,
		Announce: announce,
		Private:  form.Private,
		Comment:  strings.TrimSpace(form.Comment),
	}, m, nil
}
