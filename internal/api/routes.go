// SPDX-License-Identifier: AGPL-3.0-only
package api

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()

	// standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(s.cfg.Server.CORSOrigin))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)

		r.Get("/customers", s.handleListCustomers)
		r.Get("/vendors", s.handleListVendors)
		r.Get("/vendors/{vendorID}/performance", s.handleVendorPerformance)

		r.Get("/exceptions/live", s.handleLiveExceptions)
		r.Get("/exceptions/by-type", s.handleExceptionsByType)

		r.Get("/pod/search", s.handlePODSearch)

		r.Get("/shipments", s.handleListShipments)
		r.Get("/shipments/summary", s.handleShipmentSummary)
		r.Get("/shipments/trend", s.handleShipmentTrend)
		r.Get("/shipments/delayed", s.handleDelayedShipments)
		r.Get("/shipments/{shipmentID}", s.handleGetShipment)

		r.Get("/hubs/status", s.handleHubStatuses)
	})

	return r
}
