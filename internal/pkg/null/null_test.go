// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package null_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"seedling/internal/pkg/null"
)

func TestNull_Default(t *testing.T) {
	t.Parallel()

	n := null.String{Set: true, Value: "a"}
	require.Equal(t, "a", n.Default("b"))

	n = null.String{Set: false, Value: "a"}
	require.Equal(t, "b", n.Default("b"))
}

func TestNull_JSON(t *testing.T) {
	t.Parallel()

	var s struct {
		N null.String `json:"n"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"n":"/tmp"}`), &s))
	require.Equal(t, null.New("/tmp"), s.N)

	require.NoError(t, json.Unmarshal([]byte(`{"n":null}`), &s))
	require.False(t, s.N.Set)

	s.N = null.String{}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &s))
	require.False(t, s.N.Set)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	require.JSONEq(t, `{"n":null}`, string(b))
}
