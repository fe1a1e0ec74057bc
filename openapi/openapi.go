// Package openapi derives tools from an OpenAPI v3 document. Each
// operation becomes a registrable tool whose handler performs the
// corresponding HTTP request, so an existing API can be exposed through a
// tool server without writing handlers by hand.
package openapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"

	"github.com/loopwork-ai/toolrpc/schema"
	"github.com/loopwork-ai/toolrpc/tool"
)

// Tools parses an OpenAPI v3 document and returns one tool per operation,
// in path order. Tool names use the operationId when present, falling back
// to "METHOD path". BaseURL is the server the handlers call; client may be
// nil, in which case http.DefaultClient is used.
func Tools(specData []byte, baseURL string, client *http.Client) ([]tool.Tool, error) {
	doc, err := libopenapi.NewDocument(specData)
	if err != nil {
		return nil, fmt.Errorf("error parsing OpenAPI document: %w", err)
	}

	model, errs := doc.BuildV3Model()
	if errs != nil {
		return nil, fmt.Errorf("error building OpenAPI model: %w", errors.Join(errs...))
	}

	if client == nil {
		client = http.DefaultClient
	}

	var tools []tool.Tool
	if model.Model.Paths == nil || model.Model.Paths.PathItems == nil {
		return tools, nil
	}
	for pair := model.Model.Paths.PathItems.First(); pair != nil; pair = pair.Next() {
		path := pair.Key()
		pathItem := pair.Value()

		if pathItem.Get != nil {
			tools = append(tools, newTool(http.MethodGet, path, pathItem.Get, baseURL, client))
		}
		if pathItem.Post != nil {
			tools = append(tools, newTool(http.MethodPost, path, pathItem.Post, baseURL, client))
		}
		if pathItem.Put != nil {
			tools = append(tools, newTool(http.MethodPut, path, pathItem.Put, baseURL, client))
		}
		if pathItem.Delete != nil {
			tools = append(tools, newTool(http.MethodDelete, path, pathItem.Delete, baseURL, client))
		}
		if pathItem.Patch != nil {
			tools = append(tools, newTool(http.MethodPatch, path, pathItem.Patch, baseURL, client))
		}
	}
	return tools, nil
}

func newTool(method, path string, operation *v3.Operation, baseURL string, client *http.Client) tool.Tool {
	name := operation.OperationId
	if name == "" {
		name = fmt.Sprintf("%s %s", method, path)
	}

	description := operation.Description
	if description == "" {
		description = operation.Summary
	}

	return tool.Tool{
		Name:        name,
		Description: description,
		InputSchema: inputSchema(operation),
		Handler:     &httpHandler{method: method, url: baseURL + path, client: client},
	}
}

// inputSchema builds the tool's input schema from the operation's JSON
// request body and its declared parameters.
func inputSchema(operation *v3.Operation) *schema.Schema {
	s := &schema.Schema{
		Type:       schema.TypeObject,
		Properties: map[string]*schema.Schema{},
	}

	if operation.RequestBody != nil && operation.RequestBody.Content != nil {
		if mediaType, ok := operation.RequestBody.Content.Get("application/json"); ok && mediaType != nil && mediaType.Schema != nil {
			if body := mediaType.Schema.Schema(); body != nil {
				if body.Properties != nil {
					for pair := body.Properties.First(); pair != nil; pair = pair.Next() {
						s.Properties[pair.Key()] = propertySchema(pair.Value().Schema())
					}
				}
				s.Required = append(s.Required, body.Required...)
			}
		}
	}

	for _, param := range operation.Parameters {
		if param.Schema == nil {
			continue
		}
		s.Properties[param.Name] = propertySchema(param.Schema.Schema())
		if param.Required != nil && *param.Required {
			s.Required = append(s.Required, param.Name)
		}
	}

	return s
}

// propertySchema maps an OpenAPI property schema onto the validator's
// descriptor form. Only the type and description carry over; anything the
// document does not constrain is accepted.
func propertySchema(src *base.Schema) *schema.Schema {
	if src == nil {
		return &schema.Schema{}
	}

	s := &schema.Schema{Description: src.Description}
	if len(src.Type) > 0 {
		switch src.Type[0] {
		case "string":
			s.Type = schema.TypeString
		case "number":
			s.Type = schema.TypeNumber
		case "integer":
			s.Type = schema.TypeInteger
		case "boolean":
			s.Type = schema.TypeBoolean
		case "array":
			s.Type = schema.TypeArray
		case "object":
			s.Type = schema.TypeObject
		}
	}
	return s
}
