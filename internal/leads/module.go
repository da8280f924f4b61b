// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and
// route registration.
package leads

import (
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/leads/handler"
	"leadflow_backend/internal/leads/ports"
	"leadflow_backend/internal/leads/refdata"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/service"
	"leadflow_backend/platform/events"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module with all its
// dependencies. extractor and jobs may be nil when the corresponding
// backends are not configured; the affected endpoints degrade to 503.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, extractor ports.Extractor, jobs service.Jobs, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, refdata.Default(), extractor, eventBus, jobs, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the leads service for external use (worker handlers).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
