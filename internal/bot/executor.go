// SPDX-License-Identifier: AGPL-3.0-only
package bot

import (
	"context"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/seshasairaw/smarthub-operations/internal/agent"
	"github.com/seshasairaw/smarthub-operations/internal/logging"
	"github.com/seshasairaw/smarthub-operations/internal/utils"
)

// DataService is the subset of the dashboard API the assistant's tools call.
type DataService interface {
	Summary(ctx context.Context) (string, error)
	LiveExceptions(ctx context.Context, limit int) (string, error)
	DelayedShipments(ctx context.Context) (string, error)
	Vendors(ctx context.Context) (string, error)
}

// toolHandler runs one tool against the data service with parsed arguments.
type toolHandler func(ctx context.Context, args map[string]interface{}) (string, error)

// Executor runs tool calls requested by the model against the dashboard API.
// It never returns an error: every outcome, including unknown tools and
// upstream failures, becomes a payload string the model can read.
type Executor struct {
	handlers map[string]toolHandler
	schemas  map[string]*gojsonschema.Schema
	timeout  time.Duration
	logger   *logging.Logger
}

// NewExecutor builds an Executor over the given data service. The dispatch
// table and argument schemas are built once from the tool registry.
func NewExecutor(data DataService, timeout time.Duration, logger *logging.Logger) (*Executor, error) {
	defs := Definitions()
	schemas := make(map[string]*gojsonschema.Schema, len(defs))
	for _, def := range defs {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(def.Parameters))
		if err != nil {
			return nil, err
		}
		schemas[def.Name] = schema
	}

	handlers := map[string]toolHandler{
		toolGetSummary: func(ctx context.Context, _ map[string]interface{}) (string, error) {
			return data.Summary(ctx)
		},
		toolGetExceptions: func(ctx context.Context, args map[string]interface{}) (string, error) {
			return data.LiveExceptions(ctx, exceptionLimit(args))
		},
		toolGetDelayedShipments: func(ctx context.Context, _ map[string]interface{}) (string, error) {
			return data.DelayedShipments(ctx)
		},
		toolGetVendors: func(ctx context.Context, _ map[string]interface{}) (string, error) {
			return data.Vendors(ctx)
		},
	}

	return &Executor{
		handlers: handlers,
		schemas:  schemas,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// Execute dispatches a single tool call and returns its result payload.
func (e *Executor) Execute(ctx context.Context, call agent.ToolCall) string {
	handler, ok := e.handlers[call.Name]
	if !ok {
		e.logger.Warnf("Model requested unknown tool: %s", call.Name)
		return utils.MarshalToString(map[string]string{"error": "Unknown tool: " + call.Name})
	}

	args := e.parseArgs(call)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	out, err := handler(ctx, args)
	if err != nil {
		e.logger.Warnf("Tool %s failed: %v", call.Name, err)
		return utils.MarshalToString(map[string]string{"error": err.Error()})
	}
	return out
}

// parseArgs decodes and validates the model-supplied arguments. Malformed
// JSON and schema violations degrade to empty arguments rather than failing
// the call, since the tools all work without arguments.
func (e *Executor) parseArgs(call agent.ToolCall) map[string]interface{} {
	if call.Arguments == "" {
		return map[string]interface{}{}
	}

	var args map[string]interface{}
	if err := utils.JsonUnmarshal([]byte(call.Arguments), &args); err != nil || args == nil {
		e.logger.Warnf("Tool %s sent malformed arguments %q, ignoring them", call.Name, call.Arguments)
		return map[string]interface{}{}
	}

	if schema, ok := e.schemas[call.Name]; ok {
		result, err := schema.Validate(gojsonschema.NewGoLoader(args))
		if err != nil || !result.Valid() {
			e.logger.Warnf("Tool %s arguments failed schema validation, ignoring them", call.Name)
			return map[string]interface{}{}
		}
	}
	return args
}

// exceptionLimit reads the optional limit argument for get_exceptions.
// JSON numbers decode as float64.
func exceptionLimit(args map[string]interface{}) int {
	if v, ok := args["limit"]; ok {
		if f, ok := v.(float64); ok && int(f) > 0 {
			return int(f)
		}
	}
	return defaultExceptionLimit
}
