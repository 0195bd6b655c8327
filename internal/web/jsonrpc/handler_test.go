// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package jsonrpc_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"github.com/swaggest/usecase"

	"seedling/internal/web/jsonrpc"
)

func call(t *testing.T, h http.Handler, body string) string {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, "/", bytes.NewReader([]byte(body)))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	return w.Body.String()
}

type echoParams struct {
	Name  string   `json:"name" validate:"required"`
	Paths []string `json:"paths" validate:"dive,required"`
	Size  int      `json:"size"`
}

type echoResult struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func echoHandler() *jsonrpc.Handler {
	h := &jsonrpc.Handler{Validator: validator.New()}

	u := usecase.NewInteractor[*echoParams, echoResult](func(ctx context.Context, in *echoParams, out *echoResult) error {
		out.Name = in.Name
		out.Count = len(in.Paths)
		return nil
	})
	u.SetName("echo")
	h.Add(u)

	return h
}

func TestHandler_Call(t *testing.T) {
	t.Parallel()

	require.JSONEq(t, `{"jsonrpc":"2.0","result":{"name":"abc","count":2},"id":1}`,
		call(t, echoHandler(), `{"jsonrpc":"2.0","method":"echo","params":{"name":"abc","paths":["/a","/b"]},"id":1}`))
}

func TestHandler_Protocol(t *testing.T) {
	t.Parallel()

	h := echoHandler()

	require.JSONEq(t, `{"jsonrpc":"2.0","error":{"code":-32601,"message":"method not found: nope"},"id":2}`,
		call(t, h, `{"jsonrpc":"2.0","method":"nope","id":2}`))

	require.JSONEq(t, `{"jsonrpc":"2.0","error":{"code":-32600,"message":"invalid jsonrpc value: \"1.0\""},"id":null}`,
		call(t, h, `{"jsonrpc":"1.0","method":"echo","id":3}`))

	require.Contains(t, call(t, h, `{"jsonrpc":`), `"code":-32700`)
}

func TestHandler_InvalidParams(t *testing.T) {
	t.Parallel()

	h := echoHandler()

	require.JSONEq(t, `{"jsonrpc":"2.0","error":{"code":-32602,"message":"failed to unmarshal parameters","data":"json: cannot unmarshal string into Go struct field echoParams.size of type int"},"id":1}`,
		call(t, h, `{"jsonrpc":"2.0","method":"echo","params":{"name":"abc","size":"big"},"id":1}`))

	require.JSONEq(t, `{"jsonrpc":"2.0","error":{"code":-32602,"message":"invalid parameters","data":{"Name":["required"],"Paths[1]":["required"]}},"id":1}`,
		call(t, h, `{"jsonrpc":"2.0","method":"echo","params":{"paths":["/a",""]},"id":1}`))

	// missing params are validated like empty ones
	require.JSONEq(t, `{"jsonrpc":"2.0","error":{"code":-32602,"message":"invalid parameters","data":{"Name":["required"]}},"id":1}`,
		call(t, h, `{"jsonrpc":"2.0","method":"echo","id":1}`))
}

var errNothingSelected = errors.New("nothing selected")

func TestHandler_MethodErrors(t *testing.T) {
	t.Parallel()

	h := &jsonrpc.Handler{}
	h.MapError(errNothingSelected, 1)

	add := func(name string, err error) {
		u := usecase.NewInteractor[*struct{}, struct{}](func(ctx context.Context, _ *struct{}, _ *struct{}) error {
			return err
		})
		u.SetName(name)
		h.Add(u)
	}

	add("mapped", fmt.Errorf("derive: %w", errNothingSelected))
	add("coded", jsonrpc.WithCode(7, errors.New("creator is gone")))
	add("coded.mapped", jsonrpc.WithCode(3, errNothingSelected))
	add("plain", errors.New("disk full"))

	require.JSONEq(t, `{"jsonrpc":"2.0","error":{"code":1,"message":"nothing selected"},"id":1}`,
		call(t, h, `{"jsonrpc":"2.0","method":"mapped","params":{},"id":1}`))

	require.JSONEq(t, `{"jsonrpc":"2.0","error":{"code":7,"message":"creator is gone"},"id":1}`,
		call(t, h, `{"jsonrpc":"2.0","method":"coded","params":{},"id":1}`))

	require.JSONEq(t, `{"jsonrpc":"2.0","error":{"code":3,"message":"nothing selected"},"id":1}`,
		call(t, h, `{"jsonrpc":"2.0","method":"coded.mapped","params":{},"id":1}`))

	require.JSONEq(t, `{"jsonrpc":"2.0","error":{"code":-32603,"message":"operation failed","data":"disk full"},"id":1}`,
		call(t, h, `{"jsonrpc":"2.0","method":"plain","params":{},"id":1}`))
}

func TestHandler_DuplicateMethod(t *testing.T) {
	t.Parallel()

	h := jsonrpc.Handler{}

	u := usecase.NewInteractor[*struct{}, struct{}](func(ctx context.Context, _ *struct{}, _ *struct{}) error {
		return nil
	})
	u.SetName("twice")
	h.Add(u)

	require.Panics(t, func() { h.Add(u) })
}
