package scripts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/siteadmin-backend/internal/testsupport"
	pkgerrors "github.com/angelmondragon/siteadmin-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(testsupport.OpenDB(t).DB()))
	require.NoError(t, err)
	return svc
}

func TestSaveKeepsContentVerbatim(t *testing.T) {
	svc := newTestService(t)
	content := `<script async src="https://www.googletagmanager.com/gtag/js?id=G-1"></script>`

	dto, err := svc.Save(context.Background(), nil, SaveInput{Name: "Analytics", Placement: "head", Content: content, Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, content, dto.Content)
	assert.NotEqual(t, uuid.Nil, dto.ID)
}

func TestSaveValidatesPlacement(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Save(context.Background(), nil, SaveInput{Name: "x", Placement: "footer", Content: "<script></script>"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	id := uuid.New()
	_, err = svc.Save(context.Background(), &id, SaveInput{Name: "x", Placement: "head", Content: "<script></script>"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestPublicGroupsEnabledScriptsInOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, in := range []SaveInput{
		{Name: "pixel", Placement: "body_end", Content: "<img>", Enabled: true, SortOrder: 2},
		{Name: "chat", Placement: "body_end", Content: "<div>", Enabled: true, SortOrder: 1},
		{Name: "gtm", Placement: "head", Content: "<script>", Enabled: true},
		{Name: "old", Placement: "body_start", Content: "<noscript>", Enabled: false},
	} {
		_, err := svc.Save(ctx, nil, in)
		require.NoError(t, err)
	}

	public, err := svc.Public(ctx)
	require.NoError(t, err)
	require.Len(t, public.Head, 1)
	assert.Empty(t, public.BodyStart)
	require.Len(t, public.BodyEnd, 2)
	assert.Equal(t, "chat", public.BodyEnd[0].Name)
	assert.Equal(t, "pixel", public.BodyEnd[1].Name)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Save(ctx, nil, SaveInput{Name: "gtm", Placement: "head", Content: "<script>", Enabled: true})
	require.NoError(t, err)

	updated, err := svc.Save(ctx, &created.ID, SaveInput{Name: "gtm", Placement: "head", Content: "<script>", Enabled: false})
	require.NoError(t, err)
	assert.False(t, updated.Enabled)
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.True(t, pkgerrors.Is(svc.Delete(ctx, created.ID), pkgerrors.CodeNotFound))
}
