package leads

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/siteadmin-backend/pkg/db/models"
	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/siteadmin-backend/pkg/errors"
	"github.com/angelmondragon/siteadmin-backend/pkg/logger"
	"github.com/angelmondragon/siteadmin-backend/pkg/pagination"
	"github.com/angelmondragon/siteadmin-backend/pkg/sanitize"
)

// DefaultSource tags submissions that do not say which form they came from.
const DefaultSource = "contact_form"

type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*LeadDTO, error)
	List(ctx context.Context, input ListInput) (pagination.Page[LeadDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*LeadDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*LeadDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubmitInput is a public contact-form submission.
type SubmitInput struct {
	Name    string `json:"name" validate:"required,max=160"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"max=40"`
	Company string `json:"company" validate:"max=160"`
	Message string `json:"message" validate:"required,max=5000"`
	Source  string `json:"source" validate:"max=60"`
}

type ListInput struct {
	Status string
	Query  string
	Page   pagination.Params
}

type LeadDTO struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone"`
	Company   string           `json:"company"`
	Message   string           `json:"message"`
	Source    string           `json:"source"`
	Status    enums.LeadStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func toDTO(l models.Lead) LeadDTO {
	return LeadDTO{
		ID:        l.ID,
		Name:      l.Name,
		Email:     l.Email,
		Phone:     l.Phone,
		Company:   l.Company,
		Message:   l.Message,
		Source:    l.Source,
		Status:    l.Status,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("lead repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*LeadDTO, error) {
	lead := models.Lead{
		ID:      uuid.New(),
		Name:    sanitize.Text(input.Name),
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:   sanitize.Text(input.Phone),
		Company: sanitize.Text(input.Company),
		Message: sanitize.Text(input.Message),
		Source:  sanitize.Text(input.Source),
		Status:  enums.LeadStatusNew,
	}
	if lead.Source == "" {
		lead.Source = DefaultSource
	}

	fields := map[string]string{}
	if lead.Name == "" {
		fields["name"] = "required"
	}
	if _, err := mail.ParseAddress(lead.Email); err != nil {
		fields["email"] = "invalid"
	}
	if lead.Message == "" {
		fields["message"] = "required"
	}
	if len(fields) > 0 {
		return nil, pkgerrors.Validation("invalid contact submission", fields)
	}

	if err := s.repo.Create(ctx, &lead); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert lead")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"lead_id": lead.ID.String(), "source": lead.Source}), "lead.received")

	dto := toDTO(lead)
	return &dto, nil
}

func (s *service) List(ctx context.Context, input ListInput) (pagination.Page[LeadDTO], error) {
	filter := Filter{Query: strings.ToLower(strings.TrimSpace(input.Query))}
	if input.Status != "" {
		status, err := enums.ParseLeadStatus(input.Status)
		if err != nil {
			return pagination.Page[LeadDTO]{}, pkgerrors.Validation(err.Error(), map[string]string{"status": "invalid"})
		}
		filter.Status = status
	}

	rows, total, err := s.repo.List(ctx, filter, input.Page)
	if err != nil {
		return pagination.Page[LeadDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list leads")
	}
	items := make([]LeadDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDTO(row))
	}
	return pagination.NewPage(items, total, input.Page), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*LeadDTO, error) {
	lead, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load lead")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "lead not found")
	}
	dto := toDTO(*lead)
	return &dto, nil
}

// UpdateStatus moves a lead to any valid status.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*LeadDTO, error) {
	parsed, err := enums.ParseLeadStatus(status)
	if err != nil {
		return nil, pkgerrors.Validation(err.Error(), map[string]string{"status": "invalid"})
	}
	updated, err := s.repo.UpdateStatus(ctx, id, parsed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update lead status")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "lead not found")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete lead")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "lead not found")
	}
	return nil
}
