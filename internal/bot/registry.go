// SPDX-License-Identifier: AGPL-3.0-only

// Package bot implements the conversational assistant: a tool registry over
// the dashboard API, a tool executor, the chat orchestration loop and the
// HTTP surface the frontend talks to.
package bot

import (
	"github.com/seshasairaw/smarthub-operations/internal/agent"
)

// Tool names offered to the model.
const (
	toolGetSummary          = "get_summary"
	toolGetExceptions       = "get_exceptions"
	toolGetDelayedShipments = "get_delayed_shipments"
	toolGetVendors          = "get_vendors"
)

// defaultExceptionLimit applies when the model calls get_exceptions without
// a limit argument.
const defaultExceptionLimit = 10

// Definitions returns the tool registry offered to the model on the first
// completion call. The descriptions are how the model decides which tool to
// use, so they spell out when each one applies.
func Definitions() []agent.ToolDefinition {
	return []agent.ToolDefinition{
		{
			Name:        toolGetSummary,
			Description: "Get overall platform statistics including shipments in transit, active exceptions count, on time delivery rate and number of active vendors. Use this for general overview questions.",
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
				"required":   []string{},
			},
		},
		{
			Name:        toolGetExceptions,
			Description: "Get list of active exceptions including delays, damages, temperature breaches and address issues. Use this when user asks about specific exceptions, delays or problems.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Number of exceptions to fetch, default is 10",
					},
				},
				"required": []string{},
			},
		},
		{
			Name:        toolGetDelayedShipments,
			Description: "Get list of delayed shipments with their origin, destination and ETA. Use this when user asks specifically about delayed shipments or wants details of delays.",
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
				"required":   []string{},
			},
		},
		{
			Name:        toolGetVendors,
			Description: "Get list of vendors and their details including vendor type, pricing model and active status. Use this when user asks about vendors.",
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
				"required":   []string{},
			},
		},
	}
}
