package product

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
)

func TestDiffLinks(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	existing := []models.ProductCategoryLink{{CategoryID: a}, {CategoryID: b}}

	toAdd, toDrop := diffLinks(existing, []uuid.UUID{b, c, c})
	assert.Equal(t, []uuid.UUID{c}, toAdd)
	assert.Equal(t, []uuid.UUID{a}, toDrop)

	toAdd, toDrop = diffLinks(existing, []uuid.UUID{a, b})
	assert.Empty(t, toAdd)
	assert.Empty(t, toDrop)

	toAdd, toDrop = diffLinks(nil, nil)
	assert.Empty(t, toAdd)
	assert.Empty(t, toDrop)
}
