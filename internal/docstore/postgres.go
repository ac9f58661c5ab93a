package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	dErrors "pragati/pkg/domain-errors"
	"pragati/pkg/domain"
)

// Postgres stores documents in a JSONB column with a few indexed fields
// promoted to their own columns. One table per collection.
type Postgres[T any, PT Ptr[T]] struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgres creates a collection backed by the named table. The table must
// follow the shared schema from the migrations: id, ref, status, district,
// assigned_to, created_at, updated_at, doc.
func NewPostgres[T any, PT Ptr[T]](pool *pgxpool.Pool, table string) *Postgres[T, PT] {
	return &Postgres[T, PT]{pool: pool, table: table}
}

func (s *Postgres[T, PT]) Insert(ctx context.Context, doc PT) error {
	raw, proj, err := encode(doc)
	if err != nil {
		return err
	}
	meta := doc.DocMeta()

	query := fmt.Sprintf(`
		INSERT INTO %s (id, ref, status, district, assigned_to, created_at, updated_at, doc)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, s.table)
	_, err = s.pool.Exec(ctx, query,
		meta.ID.String(), nullIfEmpty(doc.Ref()),
		projString(proj, "status"), projString(proj, "district"), nullIfEmpty(projString(proj, "assignedTo")),
		meta.CreatedAt, meta.UpdatedAt, raw)
	if err != nil {
		if isUniqueViolation(err) {
			return dErrors.New(dErrors.CodeConflict, "record already exists")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "insert record")
	}
	return nil
}

func (s *Postgres[T, PT]) Get(ctx context.Context, id domain.RecordID) (PT, error) {
	return s.getWhere(ctx, "id = $1", id.String())
}

func (s *Postgres[T, PT]) GetByRef(ctx context.Context, ref string) (PT, error) {
	return s.getWhere(ctx, "ref = $1", ref)
}

func (s *Postgres[T, PT]) getWhere(ctx context.Context, cond string, arg any) (PT, error) {
	var raw []byte
	query := fmt.Sprintf("SELECT doc FROM %s WHERE %s", s.table, cond)
	err := s.pool.QueryRow(ctx, query, arg).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dErrors.New(dErrors.CodeNotFound, "record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load record")
	}
	var doc T
	if err := json.Unmarshal(raw, PT(&doc)); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode record")
	}
	return PT(&doc), nil
}

func (s *Postgres[T, PT]) Update(ctx context.Context, doc PT) error {
	raw, proj, err := encode(doc)
	if err != nil {
		return err
	}
	meta := doc.DocMeta()

	query := fmt.Sprintf(`
		UPDATE %s
		SET ref = $2, status = $3, district = $4, assigned_to = $5, updated_at = $6, doc = $7
		WHERE id = $1`, s.table)
	tag, err := s.pool.Exec(ctx, query,
		meta.ID.String(), nullIfEmpty(doc.Ref()),
		projString(proj, "status"), projString(proj, "district"), nullIfEmpty(projString(proj, "assignedTo")),
		meta.UpdatedAt, raw)
	if err != nil {
		if isUniqueViolation(err) {
			return dErrors.New(dErrors.CodeConflict, "reference number already in use")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "update record")
	}
	if tag.RowsAffected() == 0 {
		return dErrors.New(dErrors.CodeNotFound, "record not found")
	}
	return nil
}

func (s *Postgres[T, PT]) Delete(ctx context.Context, id domain.RecordID) error {
	tag, err := s.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.table), id.String())
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete record")
	}
	if tag.RowsAffected() == 0 {
		return dErrors.New(dErrors.CodeNotFound, "record not found")
	}
	return nil
}

func (s *Postgres[T, PT]) List(ctx context.Context, q Query) (Page[PT], error) {
	where, args, err := s.buildWhere(q)
	if err != nil {
		return Page[PT]{}, err
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", s.table, where)
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return Page[PT]{}, dErrors.Wrap(err, dErrors.CodeInternal, "count records")
	}

	query := fmt.Sprintf("SELECT doc FROM %s%s ORDER BY created_at DESC", s.table, where)
	if q.Limit > 0 {
		page := q.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", q.Limit, (page-1)*q.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return Page[PT]{}, dErrors.Wrap(err, dErrors.CodeInternal, "list records")
	}
	defer rows.Close()

	var items []PT
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return Page[PT]{}, dErrors.Wrap(err, dErrors.CodeInternal, "scan record")
		}
		var doc T
		if err := json.Unmarshal(raw, PT(&doc)); err != nil {
			return Page[PT]{}, dErrors.Wrap(err, dErrors.CodeInternal, "decode record")
		}
		items = append(items, PT(&doc))
	}
	if err := rows.Err(); err != nil {
		return Page[PT]{}, dErrors.Wrap(err, dErrors.CodeInternal, "list records")
	}
	return Page[PT]{Items: items, Total: total}, nil
}

func (s *Postgres[T, PT]) GroupCount(ctx context.Context, field string, q Query) (map[string]int, error) {
	expr, err := fieldExpr(field)
	if err != nil {
		return nil, err
	}
	where, args, err := s.buildWhere(q)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s, COUNT(*) FROM %s%s GROUP BY 1", expr, s.table, where)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "group records")
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key *string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "scan group")
		}
		if key != nil {
			counts[*key] = n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "group records")
	}
	return counts, nil
}

func (s *Postgres[T, PT]) Sum(ctx context.Context, field string, q Query) (decimal.Decimal, error) {
	expr, err := fieldExpr(field)
	if err != nil {
		return decimal.Zero, err
	}
	where, args, err := s.buildWhere(q)
	if err != nil {
		return decimal.Zero, err
	}

	var sum string
	query := fmt.Sprintf("SELECT COALESCE(SUM((%s)::numeric), 0)::text FROM %s%s", expr, s.table, where)
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, dErrors.Wrap(err, dErrors.CodeInternal, "sum records")
	}
	d, err := decimal.NewFromString(sum)
	if err != nil {
		return decimal.Zero, dErrors.Wrap(err, dErrors.CodeInternal, "parse sum")
	}
	return d, nil
}

// buildWhere translates a Query into a WHERE clause. Indexed fields use their
// columns, everything else reads from the JSONB document.
func (s *Postgres[T, PT]) buildWhere(q Query) (string, []any, error) {
	var conds []string
	var args []any

	for field, want := range q.Equals {
		expr, err := fieldExpr(field)
		if err != nil {
			return "", nil, err
		}
		args = append(args, want)
		conds = append(conds, fmt.Sprintf("%s = $%d", expr, len(args)))
	}
	if q.DateField != "" && (!q.From.IsZero() || !q.To.IsZero()) {
		expr, err := dateExpr(q.DateField)
		if err != nil {
			return "", nil, err
		}
		if !q.From.IsZero() {
			args = append(args, q.From)
			conds = append(conds, fmt.Sprintf("%s >= $%d", expr, len(args)))
		}
		if !q.To.IsZero() {
			args = append(args, q.To)
			conds = append(conds, fmt.Sprintf("%s <= $%d", expr, len(args)))
		}
	}
	if len(conds) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func fieldExpr(field string) (string, error) {
	if !validField(field) {
		return "", dErrors.Newf(dErrors.CodeBadRequest, "invalid filter field %q", field)
	}
	switch field {
	case "status":
		return "status", nil
	case "district":
		return "district", nil
	case "assignedTo":
		return "assigned_to::text", nil
	}
	if head, rest, ok := strings.Cut(field, "."); ok {
		return fmt.Sprintf("doc #>> '{%s,%s}'", head, rest), nil
	}
	return fmt.Sprintf("doc ->> '%s'", field), nil
}

func dateExpr(field string) (string, error) {
	switch field {
	case "createdAt":
		return "created_at", nil
	case "updatedAt":
		return "updated_at", nil
	}
	expr, err := fieldExpr(field)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s)::timestamptz", expr), nil
}

// validField admits JSON field names with at most one dotted level. Filter
// fields come from module declarations, this guards against a stray value
// reaching SQL text.
func validField(field string) bool {
	if field == "" || strings.Count(field, ".") > 1 {
		return false
	}
	for _, r := range field {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_':
		default:
			return false
		}
	}
	return true
}

func encode(doc Document) ([]byte, map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode record")
	}
	var proj map[string]any
	if err := json.Unmarshal(raw, &proj); err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode record")
	}
	return raw, proj, nil
}

func projString(proj map[string]any, field string) string {
	s, _ := FieldString(proj[field])
	return s
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
