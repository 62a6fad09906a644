// Package command models the invocation boundary of the application core.
//
// Every operation a caller can perform is one typed command. The set is
// sealed: commands are declared here and nowhere else, and the dispatcher
// switches over them exhaustively, so an unhandled command is a compile-time
// smell rather than a silent no-op.
package command

import (
	"errors"

	"officine.sn/internal/audit"
	"officine.sn/internal/auth"
	"officine.sn/internal/inspection"
)

var (
	// ErrUnknownCommand signals a command the dispatcher has no handler for.
	ErrUnknownCommand = errors.New("command: unknown command")
	// ErrValidation signals rejected input; the wrapped text carries the
	// display messages.
	ErrValidation = errors.New("command: validation failed")
	// ErrGridNotFound signals a grid id absent from the catalog.
	ErrGridNotFound = errors.New("command: grid not found")
)

// Command is the sealed invocation type. Name returns the stable wire name
// used in logs and metrics.
type Command interface {
	Name() string
	isCommand()
}

type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Logout struct {
	Token string `json:"token"`
}

type ValidateSession struct {
	Token string `json:"token"`
}

type ListUsers struct{}

type CreateUser struct {
	auth.CreateUserRequest
}

type UpdateUser struct {
	UserID string          `json:"user_id"`
	Update auth.UserUpdate `json:"update"`
}

type ChangePassword struct {
	UserID      string `json:"user_id"`
	NewPassword string `json:"new_password"`
}

// DeleteUser deactivates the account; the record itself is kept.
type DeleteUser struct {
	UserID string `json:"user_id"`
}

type CreateInspection struct {
	inspection.CreateRequest
}

type ListInspections struct {
	MineOnly bool              `json:"mine_only"`
	Status   inspection.Status `json:"status"`
}

type GetInspection struct {
	ID string `json:"id"`
}

type GetResponses struct {
	InspectionID string `json:"inspection_id"`
}

type SaveResponse struct {
	InspectionID string `json:"inspection_id"`
	CriterionID  int    `json:"criterion_id"`
	Conforme     *bool  `json:"conforme"`
	Observation  string `json:"observation"`
}

type SetInspectionStatus struct {
	InspectionID string            `json:"inspection_id"`
	Status       inspection.Status `json:"status"`
}

type UpdateInspectionMeta struct {
	InspectionID string `json:"inspection_id"`
	inspection.CreateRequest
}

// DeleteInspection removes the inspection and its responses for good.
type DeleteInspection struct {
	InspectionID string `json:"inspection_id"`
}

type QueryAudit struct {
	audit.Filter
}

type CountAudit struct{}

type ListGrids struct{}

type GetGrid struct {
	ID string `json:"id"`
}

func (Login) Name() string                { return "cmd_login" }
func (Logout) Name() string               { return "cmd_logout" }
func (ValidateSession) Name() string      { return "cmd_validate_session" }
func (ListUsers) Name() string            { return "cmd_list_users" }
func (CreateUser) Name() string           { return "cmd_create_user" }
func (UpdateUser) Name() string           { return "cmd_update_user" }
func (ChangePassword) Name() string       { return "cmd_change_password" }
func (DeleteUser) Name() string           { return "cmd_delete_user" }
func (CreateInspection) Name() string     { return "cmd_create_inspection" }
func (ListInspections) Name() string      { return "cmd_list_inspections" }
func (GetInspection) Name() string        { return "cmd_get_inspection" }
func (GetResponses) Name() string         { return "cmd_get_responses" }
func (SaveResponse) Name() string         { return "cmd_save_response" }
func (SetInspectionStatus) Name() string  { return "cmd_set_inspection_status" }
func (UpdateInspectionMeta) Name() string { return "cmd_update_inspection_meta" }
func (DeleteInspection) Name() string     { return "cmd_delete_inspection" }
func (QueryAudit) Name() string           { return "cmd_query_audit" }
func (CountAudit) Name() string           { return "cmd_count_audit" }
func (ListGrids) Name() string            { return "list_grids" }
func (GetGrid) Name() string              { return "get_grid" }

func (Login) isCommand()                {}
func (Logout) isCommand()               {}
func (ValidateSession) isCommand()      {}
func (ListUsers) isCommand()            {}
func (CreateUser) isCommand()           {}
func (UpdateUser) isCommand()           {}
func (ChangePassword) isCommand()       {}
func (DeleteUser) isCommand()           {}
func (CreateInspection) isCommand()     {}
func (ListInspections) isCommand()      {}
func (GetInspection) isCommand()        {}
func (GetResponses) isCommand()         {}
func (SaveResponse) isCommand()         {}
func (SetInspectionStatus) isCommand()  {}
func (UpdateInspectionMeta) isCommand() {}
func (DeleteInspection) isCommand()     {}
func (QueryAudit) isCommand()           {}
func (CountAudit) isCommand()           {}
func (ListGrids) isCommand()            {}
func (GetGrid) isCommand()              {}
