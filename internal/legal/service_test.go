package legal

import (
	"context"
	"testing"

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

func TestSaveSanitizesAndReplaces(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Save(ctx, "aviso-de-privacidad", SaveInput{
		Title:   "Aviso de privacidad",
		Content: `<h2>Datos</h2><p onclick="x()">Texto</p><script>steal()</script>`,
	})
	require.NoError(t, err)
	assert.Equal(t, "<h2>Datos</h2><p>Texto</p>", first.Content)

	second, err := svc.Save(ctx, "aviso-de-privacidad", SaveInput{Title: "Aviso", Content: "<p>v2</p>"})
	require.NoError(t, err)
	assert.Equal(t, "Aviso", second.Title)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "<p>v2</p>", list[0].Content)
}

func TestSaveRejectsInvalidSlugAndTitle(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Save(context.Background(), "Términos Y Condiciones", SaveInput{Title: " "})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	fields, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, fields, "slug")
	assert.Contains(t, fields, "title")
}

func TestGetAndDeleteMissingPage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "terminos")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
	assert.True(t, pkgerrors.Is(svc.Delete(ctx, "terminos"), pkgerrors.CodeNotFound))

	_, err = svc.Save(ctx, "terminos", SaveInput{Title: "Términos"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "terminos"))
	_, err = svc.Get(ctx, "terminos")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
