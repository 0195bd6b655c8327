// Copyright 2024 trim21 <trim21.me@gmail.com>
// Copyright 2021 Viacheslav Poturaev
// SPDX-License-Identifier: MIT
// https://github.com/swaggest/jsonrpc/blob/master/LICENSE

package jsonrpc

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/swaggest/usecase"
)

// OpenAPI collects OpenAPI documentation of JSON-RPC methods.
// Every method is documented as a POST operation named after the method.
type OpenAPI struct {
	gen *openapi3.Reflector
	mu  sync.Mutex
}

// Reflector is an accessor to OpenAPI Reflector instance.
func (c *OpenAPI) Reflector() *openapi3.Reflector {
	if c.gen == nil {
		c.gen = &openapi3.Reflector{}
	}

	return c.gen
}

// Collect adds use case handler to documentation.
func (c *OpenAPI) Collect(name string, u usecase.Interactor, annotations ...func(op openapi.OperationContext) error) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	defer func() {
		if err != nil {
			err = fmt.Errorf("reflect API schema for %s: %w", name, err)
		}
	}()

	reflector := c.Reflector()
	reflector.SpecEns().WithMapOfAnythingItem("x-envelope", "jsonrpc-2.0")

	oc, err := reflector.NewOperationContext(http.MethodPost, name)
	if err != nil {
		return err
	}

	var (
		hasInput       usecase.HasInputPort
		hasOutput      usecase.HasOutputPort
		hasTitle       usecase.HasTitle
		hasDescription usecase.HasDescription
		hasTags        usecase.HasTags
		hasDeprecated  usecase.HasIsDeprecated
	)

	if usecase.As(u, &hasInput) {
		oc.AddReqStructure(hasInput.InputPort(), openapi.WithContentType("application/json"))
	}

	if usecase.As(u, &hasOutput) {
		oc.AddRespStructure(hasOutput.OutputPort(), openapi.WithContentType("application/json"))
	}

	if usecase.As(u, &hasTitle) {
		oc.SetSummary(hasTitle.Title())
	}

	if usecase.As(u, &hasDescription) {
		oc.SetDescription(hasDescription.Description())
	}

	if usecase.As(u, &hasTags) {
		oc.SetTags(hasTags.Tags()...)
	}

	if usecase.As(u, &hasDeprecated) && hasDeprecated.IsDeprecated() {
		oc.SetIsDeprecated(true)
	}

	oc.SetID(name)

	for _, annotate := range annotations {
		if err := annotate(oc); err != nil {
			return err
		}
	}

	return reflector.AddOperation(oc)
}

func (c *OpenAPI) ServeHTTP(rw http.ResponseWriter, _ *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()

	document, err := c.Reflector().SpecEns().MarshalJSON()
	if err != nil {
		http.Error(rw, err.Error(), http.StatusInternalServerError)

		return
	}

	rw.Header().Set("Content-Type", "application/json; charset=utf-8")

	_, _ = rw.Write(document)
}
