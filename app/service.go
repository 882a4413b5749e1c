package app

import (
	"context"

	"shoplens/internal"
	"shoplens/internal/auth"
	"shoplens/internal/errors"
	"shoplens/ports"
)

// DashboardService dispatches renders to the controller registered for the
// session's role. The role->sections mapping is static configuration built
// at construction; dispatch is exhaustive over the role enum.
type DashboardService struct {
	controllers map[auth.Role]Controller
	log         *internal.Logger
}

// NewDashboardService wires one controller per role.
func NewDashboardService(gw ports.ProcedureGateway, catalog ports.Catalog) *DashboardService {
	log := internal.DefaultLogger
	controllers := map[auth.Role]Controller{
		auth.RoleAdmin:            NewAdminController(gw, catalog),
		auth.RoleUserAnalyst:      NewUserController(gw),
		auth.RoleFinanceAnalyst:   NewFinanceController(gw),
		auth.RoleMarketingAnalyst: NewMarketingController(gw, catalog),
	}
	return &DashboardService{controllers: controllers, log: log}
}

// Sections returns the ordered section list for a role.
func (s *DashboardService) Sections(role auth.Role) ([]SectionID, error) {
	ctrl, ok := s.controllers[role]
	if !ok {
		return nil, errors.NotFound("dashboard for role")
	}
	return ctrl.Sections(), nil
}

// RenderDashboard renders every section of the role's dashboard in order.
// Sections are independent: a failure inside one becomes that section's
// placeholder and the loop continues.
func (s *DashboardService) RenderDashboard(ctx context.Context, sc auth.SessionContext) ([]Section, error) {
	ctrl, ok := s.controllers[sc.Role]
	if !ok {
		return nil, errors.NotFound("dashboard for role")
	}
	ids := ctrl.Sections()
	sections := make([]Section, 0, len(ids))
	for _, id := range ids {
		sections = append(sections, s.renderOne(ctx, ctrl, sc, id, Params{}))
	}
	return sections, nil
}

// RenderSection renders a single section with user-chosen parameters. The
// section must belong to the session role's dashboard.
func (s *DashboardService) RenderSection(ctx context.Context, sc auth.SessionContext, id SectionID, p Params) (Section, error) {
	ctrl, ok := s.controllers[sc.Role]
	if !ok {
		return Section{}, errors.NotFound("dashboard for role")
	}
	owned := false
	for _, own := range ctrl.Sections() {
		if own == id {
			owned = true
			break
		}
	}
	if !owned {
		return Section{}, errors.NotFound("section")
	}
	return s.renderOne(ctx, ctrl, sc, id, p), nil
}

// renderOne isolates a panicking section the same way a failing one is
// isolated: the section degrades, the page does not.
func (s *DashboardService) renderOne(ctx context.Context, ctrl Controller, sc auth.SessionContext, id SectionID, p Params) (section Section) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("section %s panicked: %v", id, r)
			section = emptySection(id, string(id), "section failed to render")
		}
	}()
	return ctrl.RenderSection(ctx, sc, id, p)
}
