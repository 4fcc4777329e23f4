package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medhq/hospital-api/internal/store"
)

var knownCollections = map[string]bool{
	store.Users:          true,
	store.Patients:       true,
	store.Appointments:   true,
	store.MedicalRecords: true,
	store.Invoices:       true,
}

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type gateway struct {
	db *sqlx.DB
}

// NewGateway returns a store.Gateway backed by Postgres.
func NewGateway(db *sqlx.DB) store.Gateway {
	return &gateway{db: db}
}

func checkCollection(collection string) error {
	if !knownCollections[collection] {
		return fmt.Errorf("unknown collection %q", collection)
	}
	return nil
}

func checkIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}

func (g *gateway) Select(ctx context.Context, collection string, dest interface{}, opts store.Options) error {
	query, args, err := buildSelect(collection, opts)
	if err != nil {
		return err
	}
	if err := g.db.SelectContext(ctx, dest, query, args...); err != nil {
		return fmt.Errorf("select from %s: %w", collection, err)
	}
	return nil
}

func (g *gateway) Get(ctx context.Context, collection string, id uuid.UUID, dest interface{}, opts store.Options) error {
	opts.Filters = append(opts.Filters, store.Eq("id", id))
	opts.Limit = 1
	query, args, err := buildSelect(collection, opts)
	if err != nil {
		return err
	}
	if err := g.db.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		return fmt.Errorf("get from %s: %w", collection, err)
	}
	return nil
}

func (g *gateway) Insert(ctx context.Context, collection string, row store.Row) (uuid.UUID, error) {
	if err := checkCollection(collection); err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	cols := []string{"id"}
	args := []interface{}{id}
	for _, col := range sortedKeys(row) {
		if err := checkIdent(col); err != nil {
			return uuid.Nil, err
		}
		cols = append(cols, col)
		args = append(args, row[col])
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		collection,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	)

	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		return uuid.Nil, fmt.Errorf("insert into %s: %w", collection, err)
	}
	return id, nil
}

func (g *gateway) Update(ctx context.Context, collection string, id uuid.UUID, patch store.Row) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if len(patch) == 0 {
		return nil
	}

	sets := make([]string, 0, len(patch))
	args := make([]interface{}, 0, len(patch)+1)
	for i, col := range sortedKeys(patch) {
		if err := checkIdent(col); err != nil {
			return err
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, patch[col])
	}
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d",
		collection,
		strings.Join(sets, ", "),
		len(args),
	)

	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}
	return nil
}

func (g *gateway) Delete(ctx context.Context, collection string, id uuid.UUID) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", collection)
	if _, err := g.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete from %s: %w", collection, err)
	}
	return nil
}

func (g *gateway) Count(ctx context.Context, collection string, filters ...store.Filter) (int, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}

	where, args, err := buildWhere(filters, 1)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s t%s", collection, where)
	var count int
	if err := g.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return count, nil
}

// buildSelect assembles a select over the primary collection aliased t,
// with each expand joined in as aliased display columns.
func buildSelect(collection string, opts store.Options) (string, []interface{}, error) {
	if err := checkCollection(collection); err != nil {
		return "", nil, err
	}

	cols := []string{"t.*"}
	joins := make([]string, 0, len(opts.Expands))
	for i, exp := range opts.Expands {
		if err := checkCollection(exp.Collection); err != nil {
			return "", nil, err
		}
		for _, name := range []string{exp.LocalField, exp.Prefix} {
			if err := checkIdent(name); err != nil {
				return "", nil, err
			}
		}
		alias := fmt.Sprintf("e%d", i)
		for _, f := range exp.Fields {
			if err := checkIdent(f); err != nil {
				return "", nil, err
			}
			cols = append(cols, fmt.Sprintf("%s.%s AS %s_%s", alias, f, exp.Prefix, f))
		}
		joins = append(joins, fmt.Sprintf(
			"LEFT JOIN %s %s ON t.%s = %s.id",
			exp.Collection, alias, exp.LocalField, alias,
		))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s t", strings.Join(cols, ", "), collection)
	for _, j := range joins {
		b.WriteString(" ")
		b.WriteString(j)
	}

	where, args, err := buildWhere(opts.Filters, 1)
	if err != nil {
		return "", nil, err
	}
	b.WriteString(where)

	if opts.OrderBy != "" {
		if err := checkIdent(opts.OrderBy); err != nil {
			return "", nil, err
		}
		dir := "ASC"
		if opts.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY t.%s %s", opts.OrderBy, dir)
	}

	if opts.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", opts.Limit)
	}

	return b.String(), args, nil
}

func buildWhere(filters []store.Filter, start int) (string, []interface{}, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	ops := map[store.Op]string{
		store.OpEq:  "=",
		store.OpGte: ">=",
		store.OpLte: "<=",
	}

	clauses := make([]string, 0, len(filters))
	args := make([]interface{}, 0, len(filters))
	for i, f := range filters {
		if err := checkIdent(f.Field); err != nil {
			return "", nil, err
		}
		op, ok := ops[f.Op]
		if !ok {
			return "", nil, fmt.Errorf("unknown filter op %q", f.Op)
		}
		clauses = append(clauses, fmt.Sprintf("t.%s %s $%d", f.Field, op, start+i))
		args = append(args, f.Value)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func sortedKeys(row store.Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
