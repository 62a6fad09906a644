package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"officine.sn/internal/audit"
	"officine.sn/internal/auth"
	"officine.sn/internal/grid"
	"officine.sn/internal/inspection"
	"officine.sn/internal/obs"
	"officine.sn/internal/validation"
)

// Dispatcher is the single entry point of the core. It routes commands to
// the owning service and is the only place input validation happens; callers
// above it (the HTTP layer) only translate transport, callers below it (the
// services) trust their input shapes.
type Dispatcher struct {
	auth  *auth.Service
	insp  *inspection.Service
	grids grid.Catalog
	trail audit.Recorder
}

// NewDispatcher wires the dispatcher. The audit recorder may be nil.
func NewDispatcher(authSvc *auth.Service, inspSvc *inspection.Service, grids grid.Catalog, trail audit.Recorder) (*Dispatcher, error) {
	if authSvc == nil || inspSvc == nil || grids == nil {
		return nil, errors.New("dispatcher requires auth service, inspection service and grid catalog")
	}
	return &Dispatcher{auth: authSvc, insp: inspSvc, grids: grids, trail: trail}, nil
}

func invalid(messages ...string) error {
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(messages, "; "))
}

// Dispatch executes one command and returns its result value. The actor, if
// any, is taken from the context. Every dispatch is observed with its wire
// name and outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) (any, error) {
	if cmd == nil {
		return nil, ErrUnknownCommand
	}
	start := time.Now()
	result, err := d.dispatch(ctx, cmd)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	obs.ObserveCommand(cmd.Name(), outcome, time.Since(start))
	return result, err
}

func (d *Dispatcher) dispatch(ctx context.Context, cmd Command) (any, error) {
	var actor *auth.Actor
	if a, ok := auth.ActorFromContext(ctx); ok {
		actor = &a
	}

	switch c := cmd.(type) {
	case Login:
		return d.auth.Login(ctx, c.Username, c.Password)
	case Logout:
		return nil, d.auth.Logout(ctx, c.Token)
	case ValidateSession:
		return d.auth.ValidateSession(ctx, c.Token)

	case ListUsers:
		return d.auth.ListUsers(ctx)
	case CreateUser:
		if r := validation.Username(c.Username); !r.Valid {
			return nil, invalid(r.Error)
		}
		if r := validation.Password(c.Password); !r.Valid {
			return nil, invalid(r.Error)
		}
		if r := validation.UserRole(string(c.Role)); !r.Valid {
			return nil, invalid(r.Error)
		}
		return d.auth.CreateUser(ctx, c.CreateUserRequest, actor)
	case UpdateUser:
		if c.Update.Role != nil {
			if r := validation.UserRole(string(*c.Update.Role)); !r.Valid {
				return nil, invalid(r.Error)
			}
		}
		return d.auth.UpdateUser(ctx, c.UserID, c.Update, actor)
	case ChangePassword:
		if r := validation.Password(c.NewPassword); !r.Valid {
			return nil, invalid(r.Error)
		}
		return nil, d.auth.ChangePassword(ctx, c.UserID, c.NewPassword, actor)
	case DeleteUser:
		return nil, d.auth.DeactivateUser(ctx, c.UserID, actor)

	case CreateInspection:
		if r := validation.InspectionCreate(c.CreateRequest); !r.Valid {
			return nil, invalid(r.Errors...)
		}
		if _, found := d.grids.Find(c.GridID); !found {
			return nil, fmt.Errorf("%w: %q", ErrGridNotFound, c.GridID)
		}
		return d.insp.Create(ctx, c.CreateRequest, actor)
	case ListInspections:
		return d.insp.List(ctx, inspection.Filter{MineOnly: c.MineOnly, Status: c.Status}, actor)
	case GetInspection:
		return d.insp.Get(ctx, c.ID)
	case GetResponses:
		return d.insp.Responses(ctx, c.InspectionID)
	case SaveResponse:
		if r := validation.CriterionResponse(c.CriterionID, c.Observation); !r.Valid {
			return nil, invalid(r.Error)
		}
		return nil, d.insp.SaveResponse(ctx, c.InspectionID, c.CriterionID, c.Conforme, c.Observation, actor)
	case SetInspectionStatus:
		return nil, d.insp.SetStatus(ctx, c.InspectionID, c.Status, actor)
	case UpdateInspectionMeta:
		if r := validation.InspectionCreate(c.CreateRequest); !r.Valid {
			return nil, invalid(r.Errors...)
		}
		return nil, d.insp.UpdateMeta(ctx, c.InspectionID, c.CreateRequest, actor)
	case DeleteInspection:
		return nil, d.insp.Delete(ctx, c.InspectionID)

	case QueryAudit:
		if d.trail == nil {
			return []audit.Entry{}, nil
		}
		return d.trail.Query(ctx, c.Filter)
	case CountAudit:
		if d.trail == nil {
			return 0, nil
		}
		return d.trail.Count(ctx)

	case ListGrids:
		grids := d.grids.List()
		summaries := make([]grid.Summary, 0, len(grids))
		for _, g := range grids {
			summaries = append(summaries, g.Summarize())
		}
		return summaries, nil
	case GetGrid:
		g, found := d.grids.Find(c.ID)
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrGridNotFound, c.ID)
		}
		return g, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Name())
	}
}
