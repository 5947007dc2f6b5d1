// SPDX-License-Identifier: AGPL-3.0-only

// Package dataservice is an HTTP client for the smarthub dashboard API. The
// assistant's tools call through it, so responses are returned as raw JSON
// strings suitable for feeding back to the model verbatim.
package dataservice

import (
	"context"
	"strconv"
	"time"

	"github.com/imroc/req/v3"

	apperrors "github.com/seshasairaw/smarthub-operations/internal/errors"
)

// Client calls the dashboard API.
type Client struct {
	http *req.Client
}

// New creates a Client for the dashboard API at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: req.C().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetCommonHeader("Accept", "application/json"),
	}
}

// Summary fetches aggregate shipment statistics.
func (c *Client) Summary(ctx context.Context) (string, error) {
	return c.get(ctx, "/api/shipments/summary", nil)
}

// LiveExceptions fetches active shipment exceptions, newest first.
func (c *Client) LiveExceptions(ctx context.Context, limit int) (string, error) {
	query := map[string]string{}
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}
	return c.get(ctx, "/api/exceptions/live", query)
}

// DelayedShipments fetches undelivered shipments past their estimated
// delivery time.
func (c *Client) DelayedShipments(ctx context.Context) (string, error) {
	return c.get(ctx, "/api/shipments/delayed", nil)
}

// Vendors fetches the vendor roster.
func (c *Client) Vendors(ctx context.Context) (string, error) {
	return c.get(ctx, "/api/vendors", nil)
}

func (c *Client) get(ctx context.Context, path string, query map[string]string) (string, error) {
	r := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		r.SetQueryParams(query)
	}

	resp, err := r.Get(path)
	if err != nil {
		return "", apperrors.Upstream("dashboard API", err)
	}
	if !resp.IsSuccessState() {
		return "", apperrors.Upstream("dashboard API",
			&statusError{status: resp.StatusCode, body: resp.String()})
	}
	return resp.String(), nil
}

// statusError reports a non-2xx response from the dashboard API.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return "HTTP " + strconv.Itoa(e.status) + ": " + e.body
}
