// Package pg is the Postgres-backed store. It exposes the same interfaces as
// the in-memory fallback, so the rest of the application cannot tell which
// backend it runs against.
package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"officine.sn/internal/audit"
	"officine.sn/internal/auth"
	"officine.sn/internal/ids"
	"officine.sn/internal/inspection"
)

type Store struct {
	db *sql.DB
}

var (
	_ auth.Store       = (*Store)(nil)
	_ inspection.Store = (*Store)(nil)
	_ audit.Recorder   = (*Store)(nil)
)

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection pool (used by tests).
func NewWithDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// Seed creates the default administrator account when the users table is
// empty. Safe to call on every startup.
func (s *Store) Seed(ctx context.Context, now string) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `select count(*) from users`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		insert into users(id, username, full_name, role, password_hash, active, created_at, updated_at)
		values ($1, 'admin', 'Administrateur', 'admin', $2, true, $3, $3)
	`, ids.New(), hash, now)
	return err
}

const userColumns = `id, username, full_name, role, password_hash, active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (auth.User, error) {
	var u auth.User
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Role, &u.PasswordHash, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.User{}, auth.ErrNotFound
	}
	if err != nil {
		return auth.User{}, err
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u auth.User) error {
	var taken bool
	if err := s.db.QueryRowContext(ctx, `select exists(select 1 from users where username=$1)`, u.Username).Scan(&taken); err != nil {
		return err
	}
	if taken {
		return auth.ErrConflict
	}
	_, err := s.db.ExecContext(ctx, `
		insert into users(`+userColumns+`)
		values ($1,$2,$3,$4,$5,$6,$7,$8)
	`, u.ID, u.Username, u.FullName, u.Role, u.PasswordHash, u.Active, u.CreatedAt, u.UpdatedAt)
	return err
}

func (s *Store) UserByID(ctx context.Context, id string) (auth.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `select `+userColumns+` from users where id=$1`, id))
}

func (s *Store) UserByUsername(ctx context.Context, username string) (auth.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `select `+userColumns+` from users where username=$1`, username))
}

func (s *Store) ListActiveUsers(ctx context.Context) ([]auth.User, error) {
	rows, err := s.db.QueryContext(ctx, `select `+userColumns+` from users where active order by created_at asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []auth.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) UpdateUser(ctx context.Context, id string, upd auth.UserUpdate) error {
	res, err := s.db.ExecContext(ctx, `
		update users set
			full_name  = coalesce($2, full_name),
			role       = coalesce($3, role),
			active     = coalesce($4, active),
			updated_at = coalesce(nullif($5, ''), updated_at)
		where id = $1
	`, id, upd.FullName, (*string)(upd.Role), upd.Active, upd.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) SetPassword(ctx context.Context, id, passwordHash string) error {
	res, err := s.db.ExecContext(ctx, `update users set password_hash=$2 where id=$1`, id, passwordHash)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) DeactivateUser(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `update users set active=false where id=$1`, id)
	if err != nil {
		return err
	}
	if err := requireRow(res); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `delete from sessions where user_id=$1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) PutSession(ctx context.Context, token, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		insert into sessions(token, user_id) values ($1,$2)
		on conflict (token) do update set user_id = excluded.user_id
	`, token, userID)
	return err
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `delete from sessions where token=$1`, token)
	return err
}

func (s *Store) SessionUserID(ctx context.Context, token string) (string, error) {
	var userID string
	err := s.db.QueryRowContext(ctx, `select user_id from sessions where token=$1`, token).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", auth.ErrInvalidSession
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

const inspectionColumns = `id, grid_id, status, date_inspection, establishment, inspection_type,
	inspectors, created_by, created_by_name, validated_by, validated_by_name, validated_at,
	created_at, updated_at, progress_total, progress_answered, progress_conforme, progress_non_conforme`

func scanInspection(row interface{ Scan(...any) error }) (inspection.Inspection, error) {
	var insp inspection.Inspection
	var inspectors []byte
	err := row.Scan(
		&insp.ID, &insp.GridID, &insp.Status, &insp.DateInspection, &insp.Establishment, &insp.InspectionType,
		&inspectors, &insp.CreatedBy, &insp.CreatedByName, &insp.ValidatedBy, &insp.ValidatedByName, &insp.ValidatedAt,
		&insp.CreatedAt, &insp.UpdatedAt,
		&insp.Progress.Total, &insp.Progress.Answered, &insp.Progress.Conforme, &insp.Progress.NonConforme,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return inspection.Inspection{}, inspection.ErrNotFound
	}
	if err != nil {
		return inspection.Inspection{}, err
	}
	if len(inspectors) > 0 {
		if err := json.Unmarshal(inspectors, &insp.Inspectors); err != nil {
			return inspection.Inspection{}, err
		}
	}
	return insp, nil
}

func inspectorsJSON(insp inspection.Inspection) ([]byte, error) {
	if insp.Inspectors == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(insp.Inspectors)
}

func (s *Store) CreateInspection(ctx context.Context, insp inspection.Inspection) error {
	inspectors, err := inspectorsJSON(insp)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		insert into inspections(`+inspectionColumns+`)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`, insp.ID, insp.GridID, insp.Status, insp.DateInspection, insp.Establishment, insp.InspectionType,
		inspectors, insp.CreatedBy, insp.CreatedByName, insp.ValidatedBy, insp.ValidatedByName, insp.ValidatedAt,
		insp.CreatedAt, insp.UpdatedAt,
		insp.Progress.Total, insp.Progress.Answered, insp.Progress.Conforme, insp.Progress.NonConforme)
	return err
}

func (s *Store) Inspection(ctx context.Context, id string) (inspection.Inspection, error) {
	return scanInspection(s.db.QueryRowContext(ctx, `select `+inspectionColumns+` from inspections where id=$1`, id))
}

func (s *Store) ListInspections(ctx context.Context) ([]inspection.Inspection, error) {
	rows, err := s.db.QueryContext(ctx, `select `+inspectionColumns+` from inspections`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []inspection.Inspection
	for rows.Next() {
		insp, err := scanInspection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, insp)
	}
	return out, rows.Err()
}

func (s *Store) UpdateInspection(ctx context.Context, insp inspection.Inspection) error {
	inspectors, err := inspectorsJSON(insp)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		update inspections set
			grid_id=$2, status=$3, date_inspection=$4, establishment=$5, inspection_type=$6,
			inspectors=$7, validated_by=$8, validated_by_name=$9, validated_at=$10, updated_at=$11,
			progress_total=$12, progress_answered=$13, progress_conforme=$14, progress_non_conforme=$15
		where id=$1
	`, insp.ID, insp.GridID, insp.Status, insp.DateInspection, insp.Establishment, insp.InspectionType,
		inspectors, insp.ValidatedBy, insp.ValidatedByName, insp.ValidatedAt, insp.UpdatedAt,
		insp.Progress.Total, insp.Progress.Answered, insp.Progress.Conforme, insp.Progress.NonConforme)
	if err != nil {
		return err
	}
	return requireRowKind(res, inspection.ErrNotFound)
}

func (s *Store) DeleteInspection(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `delete from responses where inspection_id=$1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `delete from inspections where id=$1`, id)
	if err != nil {
		return err
	}
	if err := requireRowKind(res, inspection.ErrNotFound); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Responses(ctx context.Context, inspectionID string) ([]inspection.Response, error) {
	rows, err := s.db.QueryContext(ctx, `
		select criterion_id, conforme, observation, updated_by, updated_at
		from responses where inspection_id=$1 order by criterion_id asc
	`, inspectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []inspection.Response
	for rows.Next() {
		var r inspection.Response
		var conforme sql.NullBool
		if err := rows.Scan(&r.CriterionID, &conforme, &r.Observation, &r.UpdatedBy, &r.UpdatedAt); err != nil {
			return nil, err
		}
		if conforme.Valid {
			v := conforme.Bool
			r.Conforme = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) PutResponse(ctx context.Context, inspectionID string, r inspection.Response) error {
	var conforme sql.NullBool
	if r.Conforme != nil {
		conforme = sql.NullBool{Bool: *r.Conforme, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		insert into responses(inspection_id, criterion_id, conforme, observation, updated_by, updated_at)
		values ($1,$2,$3,$4,$5,$6)
		on conflict (inspection_id, criterion_id) do update set
			conforme = excluded.conforme,
			observation = excluded.observation,
			updated_by = excluded.updated_by,
			updated_at = excluded.updated_at
	`, inspectionID, r.CriterionID, conforme, r.Observation, r.UpdatedBy, r.UpdatedAt)
	return err
}

func (s *Store) Append(ctx context.Context, e audit.Entry) error {
	_, err := s.db.ExecContext(ctx, `
		insert into audit_log(ts, user_id, username, action, entity_type, entity_id, details)
		values ($1,$2,$3,$4,$5,$6,$7)
	`, e.Timestamp, e.UserID, e.Username, e.Action, e.EntityType, e.EntityID, e.Details)
	return err
}

func (s *Store) Query(ctx context.Context, f audit.Filter) ([]audit.Entry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = audit.DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		select id, ts, user_id, username, action, entity_type, entity_id, details
		from audit_log
		where ($1 = '' or user_id = $1)
		  and ($2 = '' or action = $2)
		  and ($3 = '' or entity_type = $3)
		  and ($4 = '' or entity_id = $4)
		order by id desc
		limit $5 offset $6
	`, f.UserID, f.Action, f.EntityType, f.EntityID, limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []audit.Entry
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.UserID, &e.Username, &e.Action, &e.EntityType, &e.EntityID, &e.Details); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `select count(*) from audit_log`).Scan(&n)
	return n, err
}

func requireRow(res sql.Result) error {
	return requireRowKind(res, auth.ErrNotFound)
}

func requireRowKind(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
