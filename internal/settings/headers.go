package settings

import (
	"context"

	"github.com/angelmondragon/siteadmin-backend/internal/assets"
	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/siteadmin-backend/pkg/errors"
	"github.com/angelmondragon/siteadmin-backend/pkg/sanitize"
)

func validPageKey(key string) error {
	if !pageKeyPattern.MatchString(key) {
		return pkgerrors.Validation("page key must match [a-z0-9-]+", map[string]string{"page_key": "invalid"})
	}
	return nil
}

func (s *Service) ListHeaders(ctx context.Context) ([]PageHeaderDTO, error) {
	rows, err := s.repo.ListHeaders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list page headers")
	}
	out := make([]PageHeaderDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, headerDTO(row))
	}
	return out, nil
}

// Header returns the header of key, or NOT_FOUND when the page has none.
func (s *Service) Header(ctx context.Context, key string) (PageHeaderDTO, error) {
	if err := validPageKey(key); err != nil {
		return PageHeaderDTO{}, err
	}
	header, found, err := s.repo.FindHeader(ctx, key)
	if err != nil {
		return PageHeaderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load page header")
	}
	if !found {
		return PageHeaderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "page header not found")
	}
	return headerDTO(*header), nil
}

// SaveHeader creates or replaces the header of key.
func (s *Service) SaveHeader(ctx context.Context, key string, in PageHeaderInput, files assets.Files) (PageHeaderDTO, error) {
	if err := validPageKey(key); err != nil {
		return PageHeaderDTO{}, err
	}
	row := models.PageHeader{PageKey: key}
	current, found, err := s.repo.FindHeader(ctx, key)
	if err != nil {
		return PageHeaderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load page header")
	}
	if found {
		row = *current
	}
	row.Title = sanitize.Text(in.Title)
	row.Subtitle = sanitize.Text(in.Subtitle)

	plan := s.assets.Begin()
	slots := []assets.Slot{{Field: FieldImage, Folder: assets.FolderPageHeaders, Name: key, Kind: enums.AssetKindImage, URL: &row.ImageURL}}
	if err := plan.Stage(ctx, slots, files.Singles(), map[string]bool{FieldImage: in.RemoveImage}); err != nil {
		plan.Discard(ctx)
		return PageHeaderDTO{}, err
	}
	if err := s.repo.SaveHeader(ctx, &row); err != nil {
		plan.Discard(ctx)
		return PageHeaderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save page header")
	}
	plan.Commit(ctx)
	return headerDTO(row), nil
}

// DeleteHeader removes the row, then its image best-effort.
func (s *Service) DeleteHeader(ctx context.Context, key string) error {
	header, err := s.Header(ctx, key)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteHeader(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete page header")
	}
	s.assets.RemoveURLs(context.WithoutCancel(ctx), header.ImageURL)
	return nil
}
