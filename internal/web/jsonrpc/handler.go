// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

// Package jsonrpc serves usecase interactors as JSON-RPC 2.0 methods over HTTP
// and documents them as an OpenAPI document.
package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/swaggest/openapi-go"
	"github.com/swaggest/usecase"

	"seedling/internal/pkg/mempool"
)

const protocolVersion = "2.0"

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      json.RawMessage `json:"id,omitempty"`
}

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// Handler dispatches POSTed JSON-RPC requests to the registered interactors.
//
// Method errors are answered, in order, with the code of an ErrWithAppCode in
// the chain, the code registered by MapError, or CodeInternalError.
type Handler struct {
	OpenAPI   *OpenAPI
	Validator *validator.Validate
	// Security is the OpenAPI security scheme required by every method, if any.
	Security string

	endpoints map[string]endpoint
	mapped    []mappedError
}

type mappedError struct {
	target error
	code   ErrorCode
}

type endpoint struct {
	interactor usecase.Interactor
	input      reflect.Type
	output     reflect.Type
	inputPtr   bool
}

func newEndpoint(u usecase.Interactor) endpoint {
	e := endpoint{interactor: u}

	var withInput usecase.HasInputPort
	if usecase.As(u, &withInput) {
		e.input, e.inputPtr = elem(reflect.TypeOf(withInput.InputPort()))
	}

	var withOutput usecase.HasOutputPort
	if usecase.As(u, &withOutput) {
		e.output, _ = elem(reflect.TypeOf(withOutput.OutputPort()))
	}

	return e
}

func elem(t reflect.Type) (reflect.Type, bool) {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem(), true
	}

	return t, false
}

// MapError answers every method error matching target with code and the
// message of target.
func (h *Handler) MapError(target error, code ErrorCode) {
	h.mapped = append(h.mapped, mappedError{target: target, code: code})
}

// Add registers u under its usecase name. Names must be unique.
func (h *Handler) Add(u usecase.Interactor) {
	var withName usecase.HasName
	if !usecase.As(u, &withName) {
		panic("jsonrpc: interactor has no name")
	}

	name := withName.Name()
	if _, exists := h.endpoints[name]; exists {
		panic(fmt.Sprintf("jsonrpc: method %s registered twice", name))
	}

	if h.endpoints == nil {
		h.endpoints = make(map[string]endpoint)
	}

	h.endpoints[name] = newEndpoint(u)

	if h.OpenAPI == nil {
		return
	}

	err := h.OpenAPI.Collect(name, u, func(op openapi.OperationContext) error {
		if h.Security != "" {
			op.AddSecurity(h.Security)
		}
		return nil
	})
	if err != nil {
		panic("jsonrpc: " + err.Error())
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.write(w, Response{
			JSONRPC: protocolVersion,
			Error:   &Error{Code: CodeParseError, Message: "failed to unmarshal request: " + err.Error()},
		})
		return
	}

	if req.JSONRPC != protocolVersion {
		h.write(w, Response{
			JSONRPC: protocolVersion,
			Error:   &Error{Code: CodeInvalidRequest, Message: fmt.Sprintf("invalid jsonrpc value: %q", req.JSONRPC)},
		})
		return
	}

	start := time.Now()
	resp := h.call(r.Context(), req)

	log.Debug().
		Str("method", req.Method).
		Dur("took", time.Since(start)).
		Bool("ok", resp.Error == nil).
		Msg("json-rpc call")

	h.write(w, resp)
}

func (h *Handler) call(ctx context.Context, req Request) Response {
	resp := Response{JSONRPC: protocolVersion, ID: req.ID}

	e, found := h.endpoints[req.Method]
	if !found {
		resp.Error = &Error{Code: CodeMethodNotFound, Message: "method not found: " + req.Method}
		return resp
	}

	input, rpcErr := h.decodeParams(e, req.Params)
	if rpcErr != nil {
		resp.Error = rpcErr
		return resp
	}

	var output any
	if e.output != nil {
		output = reflect.New(e.output).Interface()
	}

	if err := e.interactor.Interact(ctx, input, output); err != nil {
		log.Debug().Err(err).Str("method", req.Method).Msg("json-rpc method failed")
		resp.Error = h.methodError(err)
		return resp
	}

	result, err := json.Marshal(output)
	if err != nil {
		resp.Error = &Error{Code: CodeInternalError, Message: "failed to marshal result: " + err.Error()}
		return resp
	}

	resp.Result = result

	return resp
}

// decodeParams fills a new input value from params. Missing params leave it zero.
func (h *Handler) decodeParams(e endpoint, params json.RawMessage) (any, *Error) {
	if e.input == nil {
		return nil, nil
	}

	v := reflect.New(e.input)

	if len(params) != 0 {
		if err := json.Unmarshal(params, v.Interface()); err != nil {
			return nil, &Error{Code: CodeInvalidParams, Message: "failed to unmarshal parameters", Data: err.Error()}
		}
	}

	if h.Validator != nil && e.input.Kind() == reflect.Struct {
		if err := h.Validator.Struct(v.Interface()); err != nil {
			if fields, ok := fieldErrors(err); ok {
				return nil, &Error{Code: CodeInvalidParams, Message: "invalid parameters", Data: fields}
			}

			return nil, &Error{Code: CodeInvalidParams, Message: "invalid parameters", Data: err.Error()}
		}
	}

	if e.inputPtr {
		return v.Interface(), nil
	}

	return v.Elem().Interface(), nil
}

func (h *Handler) methodError(err error) *Error {
	var coded ErrWithAppCode
	if errors.As(err, &coded) {
		return &Error{Code: coded.AppErrCode(), Message: err.Error()}
	}

	for _, m := range h.mapped {
		if errors.Is(err, m.target) {
			return &Error{Code: m.code, Message: m.target.Error()}
		}
	}

	return &Error{Code: CodeInternalError, Message: "operation failed", Data: err.Error()}
}

func (h *Handler) write(w http.ResponseWriter, resp Response) {
	buf := mempool.Get()
	defer mempool.Put(buf)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(resp); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(buf.B)
}
