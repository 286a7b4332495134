// Package scripts manages admin-supplied snippets injected into public pages.
// Content is stored verbatim; only authenticated admins can write it.
package scripts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/siteadmin-backend/pkg/errors"
	"github.com/angelmondragon/siteadmin-backend/pkg/sanitize"
)

type Service interface {
	List(ctx context.Context) ([]ScriptDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ScriptDTO, error)
	Save(ctx context.Context, id *uuid.UUID, input SaveInput) (*ScriptDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Public(ctx context.Context) (PublicScripts, error)
}

type SaveInput struct {
	Name      string `json:"name" validate:"required,max=160"`
	Placement string `json:"placement" validate:"required"`
	Content   string `json:"content" validate:"required"`
	Enabled   bool   `json:"enabled"`
	SortOrder int    `json:"sort_order"`
}

type ScriptDTO struct {
	ID        uuid.UUID             `json:"id"`
	Name      string                `json:"name"`
	Placement enums.ScriptPlacement `json:"placement"`
	Content   string                `json:"content"`
	Enabled   bool                  `json:"enabled"`
	SortOrder int                   `json:"sort_order"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// PublicScript is the shape served to the public site.
type PublicScript struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// PublicScripts groups enabled scripts by placement, each list in injection order.
type PublicScripts struct {
	Head      []PublicScript `json:"head"`
	BodyStart []PublicScript `json:"body_start"`
	BodyEnd   []PublicScript `json:"body_end"`
}

func toDTO(s models.CustomScript) ScriptDTO {
	return ScriptDTO{
		ID:        s.ID,
		Name:      s.Name,
		Placement: s.Placement,
		Content:   s.Content,
		Enabled:   s.Enabled,
		SortOrder: s.SortOrder,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("scripts repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]ScriptDTO, error) {
	rows, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list scripts")
	}
	out := make([]ScriptDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ScriptDTO, error) {
	script, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*script)
	return &dto, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.CustomScript, error) {
	script, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load script")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "script not found")
	}
	return script, nil
}

func (s *service) Save(ctx context.Context, id *uuid.UUID, input SaveInput) (*ScriptDTO, error) {
	fields := map[string]string{}
	name := sanitize.Text(input.Name)
	if name == "" {
		fields["name"] = "required"
	}
	placement, err := enums.ParseScriptPlacement(input.Placement)
	if err != nil {
		fields["placement"] = "must be head, body_start or body_end"
	}
	if strings.TrimSpace(input.Content) == "" {
		fields["content"] = "required"
	}
	if len(fields) > 0 {
		return nil, pkgerrors.Validation("invalid script", fields)
	}

	script := &models.CustomScript{ID: uuid.New()}
	if id != nil {
		if script, err = s.load(ctx, *id); err != nil {
			return nil, err
		}
	}
	script.Name = name
	script.Placement = placement
	script.Content = input.Content
	script.Enabled = input.Enabled
	script.SortOrder = input.SortOrder

	if err := s.repo.Upsert(ctx, script); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save script")
	}
	dto := toDTO(*script)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete script")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "script not found")
	}
	return nil
}

func (s *service) Public(ctx context.Context) (PublicScripts, error) {
	out := PublicScripts{Head: []PublicScript{}, BodyStart: []PublicScript{}, BodyEnd: []PublicScript{}}
	rows, err := s.repo.List(ctx, true)
	if err != nil {
		return out, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list enabled scripts")
	}
	for _, row := range rows {
		entry := PublicScript{Name: row.Name, Content: row.Content}
		switch row.Placement {
		case enums.ScriptPlacementHead:
			out.Head = append(out.Head, entry)
		case enums.ScriptPlacementBodyStart:
			out.BodyStart = append(out.BodyStart, entry)
		case enums.ScriptPlacementBodyEnd:
			out.BodyEnd = append(out.BodyEnd, entry)
		}
	}
	return out, nil
}
