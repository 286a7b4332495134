package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type widget struct {
	ID        int    `gorm:"primaryKey;autoIncrement:false"`
	Name      string `gorm:"not null"`
	Active    bool   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&widget{}))
	return conn
}

func TestUpsertInsertsThenOverwritesWholeRow(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	base := NewBase(db)

	require.NoError(t, Upsert(base.DB(ctx), &widget{ID: 1, Name: "first", Active: true}))
	var created widget
	require.NoError(t, db.First(&created, 1).Error)

	require.NoError(t, Upsert(base.DB(ctx), &widget{ID: 1, Name: "second", Active: false}))

	var got widget
	require.NoError(t, db.First(&got, 1).Error)
	assert.Equal(t, "second", got.Name)
	assert.False(t, got.Active, "false must overwrite true")
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt), "created_at survives upsert")

	var count int64
	require.NoError(t, db.Model(&widget{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFirstReportsMissingRows(t *testing.T) {
	db := openDB(t)
	var w widget
	found, err := First(db.Where("id = ?", 42), &w)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, db.Create(&widget{ID: 42, Name: "x"}).Error)
	found, err = First(db.Where("id = ?", 42), &w)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "x", w.Name)
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%acme%", ContainsPattern("ACME"))
	assert.Equal(t, `%50\%%`, ContainsPattern("50%"))
	assert.Equal(t, `%a\_b%`, ContainsPattern("a_b"))
	assert.Equal(t, `%c:\\temp%`, ContainsPattern(`C:\temp`))
}
