package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// LogFields flattens err into structured log fields: the top message, the
// typed code when present, the unwrap chain, and any Postgres diagnostics
// found along the chain under a "db_" prefix.
func LogFields(err error) map[string]any {
	if err == nil {
		return map[string]any{}
	}

	fields := map[string]any{"error": err.Error()}
	if typed := As(err); typed != nil {
		fields["error_code"] = typed.Code()
	}

	var chain []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		chain = append(chain, fmt.Sprintf("%T", e))
	}
	if len(chain) > 1 {
		fields["error_chain"] = chain
	}

	for k, v := range postgresFields(err) {
		if v != "" {
			fields["db_"+k] = v
		}
	}
	return fields
}

func postgresFields(err error) map[string]string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return map[string]string{
			"code":       pgxErr.Code,
			"constraint": pgxErr.ConstraintName,
			"table":      pgxErr.TableName,
			"column":     pgxErr.ColumnName,
			"detail":     pgxErr.Detail,
		}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return map[string]string{
			"code":       string(pqErr.Code),
			"constraint": pqErr.Constraint,
			"table":      pqErr.Table,
			"column":     pqErr.Column,
			"detail":     pqErr.Detail,
		}
	}
	return nil
}
