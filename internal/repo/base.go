package repo

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Upsert inserts model or, on a primary key conflict, overwrites every column
// except the key and created_at. The whole row is written; there is no partial update.
// Auto-update timestamps are reset so the write stamps them again.
func Upsert(db *gorm.DB, model any) error {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return fmt.Errorf("parse model: %w", err)
	}
	rv := reflect.Indirect(reflect.ValueOf(model))
	for _, field := range stmt.Schema.Fields {
		if field.AutoUpdateTime > 0 && field.FieldType == timeType {
			if err := field.Set(db.Statement.Context, rv, time.Time{}); err != nil {
				return fmt.Errorf("reset %s: %w", field.DBName, err)
			}
		}
	}

	var (
		conflict []clause.Column
		update   []string
	)
	for _, field := range stmt.Schema.Fields {
		if field.DBName == "" {
			continue
		}
		switch {
		case field.PrimaryKey:
			conflict = append(conflict, clause.Column{Name: field.DBName})
		case field.DBName == "created_at":
		default:
			update = append(update, field.DBName)
		}
	}

	return db.Clauses(clause.OnConflict{
		Columns:   conflict,
		DoUpdates: clause.AssignmentColumns(update),
	}).Create(model).Error
}

var timeType = reflect.TypeOf(time.Time{})

// First loads the first row matching the scoped query into dest and reports
// whether one existed. Missing rows are not an error.
func First(q *gorm.DB, dest any) (bool, error) {
	err := q.Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LikeEscape is the ESCAPE clause to pair with ContainsPattern.
const LikeEscape = ` ESCAPE '\'`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns free text into a lowercase LIKE pattern matching it as
// a literal substring: the wildcards % and _ in text match only themselves.
func ContainsPattern(text string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"
}
