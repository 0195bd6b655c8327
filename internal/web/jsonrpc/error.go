// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package jsonrpc

import (
	"errors"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorCode is a JSON-RPC 2.0 error code. Positive values are application codes.
type ErrorCode int

const (
	CodeParseError     ErrorCode = -32700
	CodeInvalidRequest ErrorCode = -32600
	CodeMethodNotFound ErrorCode = -32601
	CodeInvalidParams  ErrorCode = -32602
	CodeInternalError  ErrorCode = -32603
)

type Error struct {
	Data    any       `json:"data,omitempty"`
	Message string    `json:"message"`
	Code    ErrorCode `json:"code"`
}

// ErrWithAppCode is an error that carries its own application code.
type ErrWithAppCode interface {
	error
	AppErrCode() ErrorCode
}

// WithCode attaches an application error code to err.
func WithCode(code ErrorCode, err error) error {
	return codedError{err: err, code: code}
}

type codedError struct {
	err  error
	code ErrorCode
}

func (e codedError) Error() string {
	return e.err.Error()
}

func (e codedError) Unwrap() error {
	return e.err
}

func (e codedError) AppErrCode() ErrorCode {
	return e.code
}

// FieldErrors maps a params field, like "files[0].path", to its failed validation tags.
type FieldErrors map[string][]string

func fieldErrors(err error) (FieldErrors, bool) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, false
	}

	fe := make(FieldErrors, len(ve))
	for _, e := range ve {
		// drop the name of the params struct itself
		key := e.Namespace()
		if _, field, ok := strings.Cut(key, "."); ok {
			key = field
		}

		fe[key] = append(fe[key], e.Tag())
	}

	for _, tags := range fe {
		slices.Sort(tags)
	}

	return fe, true
}
