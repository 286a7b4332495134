package blog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/siteadmin-backend/internal/assets"
	pkgAuth "github.com/angelmondragon/siteadmin-backend/pkg/auth"
	"github.com/angelmondragon/siteadmin-backend/pkg/db"
	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/siteadmin-backend/pkg/errors"
	"github.com/angelmondragon/siteadmin-backend/pkg/pagination"
	"github.com/angelmondragon/siteadmin-backend/pkg/sanitize"
	"github.com/angelmondragon/siteadmin-backend/pkg/slug"
)

// FieldCover is the multipart field carrying a cover image.
const FieldCover = "cover_image"

type Service interface {
	ListPosts(ctx context.Context, input ListInput) (pagination.Page[PostDTO], error)
	ListPublished(ctx context.Context, categorySlug string, page pagination.Params) (pagination.Page[PostDTO], error)
	GetPost(ctx context.Context, id uuid.UUID) (*PostDTO, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*PostDTO, error)
	SavePost(ctx context.Context, principal pkgAuth.Principal, id *uuid.UUID, input PostInput, files assets.Files) (*PostDTO, error)
	DeletePost(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	SaveCategory(ctx context.Context, id *uuid.UUID, input CategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type ListInput struct {
	Query      string
	Status     string
	CategoryID *uuid.UUID
	Page       pagination.Params
}

// PostInput is the full desired state of a post.
type PostInput struct {
	Title          string     `json:"title" validate:"required,max=250"`
	Slug           string     `json:"slug" validate:"omitempty,max=250"`
	Excerpt        string     `json:"excerpt" validate:"max=600"`
	Content        string     `json:"content"`
	CategoryID     *uuid.UUID `json:"category_id"`
	Status         string     `json:"status" validate:"omitempty,oneof=draft published"`
	SEOTitle       string     `json:"seo_title" validate:"max=250"`
	SEODescription string     `json:"seo_description" validate:"max=500"`
	RemoveCover    bool       `json:"remove_cover_image"`
}

type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=160"`
	Slug        string `json:"slug" validate:"omitempty,max=160"`
	Description string `json:"description"`
}

type service struct {
	repo   *Repository
	assets *assets.Manager
	now    func() time.Time
}

func NewService(repo *Repository, assetManager *assets.Manager) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("blog repository required")
	}
	if assetManager == nil {
		return nil, fmt.Errorf("asset manager required")
	}
	return &service{repo: repo, assets: assetManager, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) ListPosts(ctx context.Context, input ListInput) (pagination.Page[PostDTO], error) {
	filter := PostFilter{
		Query:      strings.ToLower(strings.TrimSpace(input.Query)),
		CategoryID: input.CategoryID,
	}
	if input.Status != "" {
		status, err := enums.ParsePostStatus(input.Status)
		if err != nil {
			return pagination.Page[PostDTO]{}, pkgerrors.Validation(err.Error(), map[string]string{"status": "invalid"})
		}
		filter.Status = status
	}
	return s.list(ctx, filter, input.Page)
}

func (s *service) ListPublished(ctx context.Context, categorySlug string, page pagination.Params) (pagination.Page[PostDTO], error) {
	filter := PostFilter{Status: enums.PostStatusPublished}
	if categorySlug != "" {
		category, found, err := s.repo.FindCategoryBySlug(ctx, categorySlug)
		if err != nil {
			return pagination.Page[PostDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load blog category")
		}
		if !found {
			return pagination.NewPage[PostDTO](nil, 0, page), nil
		}
		filter.CategoryID = &category.ID
	}
	return s.list(ctx, filter, page)
}

func (s *service) list(ctx context.Context, filter PostFilter, page pagination.Params) (pagination.Page[PostDTO], error) {
	rows, total, err := s.repo.ListPosts(ctx, filter, page)
	if err != nil {
		return pagination.Page[PostDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list blog posts")
	}
	items := make([]PostDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toPostDTO(row))
	}
	return pagination.NewPage(items, total, page), nil
}

func (s *service) GetPost(ctx context.Context, id uuid.UUID) (*PostDTO, error) {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toPostDTO(*post)
	return &dto, nil
}

func (s *service) GetPublishedBySlug(ctx context.Context, postSlug string) (*PostDTO, error) {
	post, found, err := s.repo.FindPostBySlug(ctx, postSlug)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load blog post")
	}
	if !found || post.Status != enums.PostStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "blog post not found")
	}
	dto := toPostDTO(*post)
	return &dto, nil
}

func (s *service) loadPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	post, found, err := s.repo.FindPost(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load blog post")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "blog post not found")
	}
	return post, nil
}

// SavePost creates or replaces a post. New posts are attributed to principal;
// published_at is stamped the first time the post is published.
func (s *service) SavePost(ctx context.Context, principal pkgAuth.Principal, id *uuid.UUID, input PostInput, files assets.Files) (*PostDTO, error) {
	title := strings.TrimSpace(input.Title)
	fields := map[string]string{}
	if title == "" {
		fields["title"] = "required"
	}
	status := enums.PostStatusDraft
	if input.Status != "" {
		parsed, err := enums.ParsePostStatus(input.Status)
		if err != nil {
			fields["status"] = "invalid"
		}
		status = parsed
	}
	postSlug := slug.Resolve(input.Slug, title)
	if title != "" && postSlug == "" {
		fields["slug"] = "invalid"
	}
	if len(fields) > 0 {
		return nil, pkgerrors.Validation("invalid blog post", fields)
	}

	next := models.BlogPost{ID: uuid.New()}
	if id != nil {
		current, err := s.loadPost(ctx, *id)
		if err != nil {
			return nil, err
		}
		next = *current
	} else {
		if principal.AdminID != uuid.Nil {
			authorID := principal.AdminID
			next.AuthorID = &authorID
		}
		next.AuthorName = principal.DisplayName()
	}
	if input.CategoryID != nil {
		if _, found, err := s.repo.FindCategory(ctx, *input.CategoryID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load blog category")
		} else if !found {
			return nil, pkgerrors.Validation("unknown blog category", map[string]string{"category_id": "unknown"})
		}
	}

	next.Title = title
	next.Slug = postSlug
	next.Excerpt = sanitize.Text(input.Excerpt)
	next.Content = sanitize.HTML(input.Content)
	next.CategoryID = input.CategoryID
	next.Status = status
	next.SEOTitle = sanitize.Text(input.SEOTitle)
	next.SEODescription = sanitize.Text(input.SEODescription)
	if status == enums.PostStatusPublished && next.PublishedAt == nil {
		now := s.now()
		next.PublishedAt = &now
	}

	plan := s.assets.Begin()
	slots := []assets.Slot{{Field: FieldCover, Folder: assets.FolderBlog, Name: postSlug, Kind: enums.AssetKindImage, URL: &next.CoverImageURL}}
	if err := plan.Stage(ctx, slots, files.Singles(), map[string]bool{FieldCover: input.RemoveCover}); err != nil {
		plan.Discard(ctx)
		return nil, err
	}

	if err := s.repo.UpsertPost(ctx, &next); err != nil {
		plan.Discard(ctx)
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a blog post with this slug already exists").
				WithDetails(map[string]string{"slug": postSlug})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save blog post")
	}
	plan.Commit(ctx)

	dto := toPostDTO(next)
	return &dto, nil
}

// DeletePost removes the row, then the cover image best-effort.
func (s *service) DeletePost(ctx context.Context, id uuid.UUID) error {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePost(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete blog post")
	}
	s.assets.RemoveURLs(context.WithoutCancel(ctx), post.CoverImageURL)
	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list blog categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCategoryDTO(row))
	}
	return out, nil
}

func (s *service) SaveCategory(ctx context.Context, id *uuid.UUID, input CategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.Validation("name is required", map[string]string{"name": "required"})
	}
	categorySlug := slug.Resolve(input.Slug, name)
	if categorySlug == "" {
		return nil, pkgerrors.Validation("slug is empty after normalization", map[string]string{"slug": "invalid"})
	}

	next := models.BlogCategory{ID: uuid.New()}
	if id != nil {
		current, found, err := s.repo.FindCategory(ctx, *id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load blog category")
		}
		if !found {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "blog category not found")
		}
		next = *current
	}
	next.Name = name
	next.Slug = categorySlug
	next.Description = sanitize.Text(input.Description)

	if err := s.repo.UpsertCategory(ctx, &next); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a blog category with this slug already exists").
				WithDetails(map[string]string{"slug": categorySlug})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save blog category")
	}
	dto := toCategoryDTO(next)
	return &dto, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, found, err := s.repo.FindCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load blog category")
	} else if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "blog category not found")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete blog category")
	}
	return nil
}
