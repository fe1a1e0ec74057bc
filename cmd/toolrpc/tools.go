package main

import (
	"context"
	"encoding/json"

	"github.com/loopwork-ai/toolrpc/schema"
	"github.com/loopwork-ai/toolrpc/tool"
)

// Calculator returns the built-in arithmetic tool
func Calculator() tool.Tool {
	return tool.Tool{
		Name:        "calculator",
		Description: "Perform basic arithmetic operations",
		InputSchema: schema.Object(map[string]*schema.Schema{
			"x":         schema.Number("First number in the calculation"),
			"y":         schema.Number("Second number in the calculation"),
			"operation": schema.StringEnum("The operation to perform", "add", "subtract", "multiply", "divide"),
		}, "x", "y", "operation"),
		Handler: tool.HandlerFunc(calculate),
	}
}

func calculate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var params struct {
		X         float64 `json:"x"`
		Y         float64 `json:"y"`
		Operation string  `json:"operation"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, tool.InvalidArgumentf("invalid arguments: %v", err)
	}

	switch params.Operation {
	case "add":
		return params.X + params.Y, nil
	case "subtract":
		return params.X - params.Y, nil
	case "multiply":
		return params.X * params.Y, nil
	case "divide":
		if params.Y == 0 {
			return nil, tool.ExecutionFailuref("division by zero")
		}
		return params.X / params.Y, nil
	default:
		return nil, tool.InvalidArgumentf("unknown operation: %s", params.Operation)
	}
}
