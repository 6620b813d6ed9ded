package services

import (
	"context"
	"strings"

	"ecobloom/internal/apperrors"
	"ecobloom/internal/models"
	"ecobloom/internal/repositories"

	"github.com/go-playground/validator/v10"
)

const DefaultContactPageSize = 10

// ContactInput is a message from the public contact form.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// ContactService handles the contact inbox.
type ContactService struct {
	repo     repositories.ContactRepository
	validate *validator.Validate
}

func NewContactService(repo repositories.ContactRepository) *ContactService {
	return &ContactService{repo: repo, validate: validator.New()}
}

func (s *ContactService) Create(ctx context.Context, in ContactInput) (*models.Contact, error) {
	contact := &models.Contact{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:   strings.TrimSpace(in.Phone),
		Message: strings.TrimSpace(in.Message),
		Status:  models.ContactNew,
	}
	if contact.Name == "" || contact.Email == "" || contact.Message == "" {
		return nil, apperrors.Validation("Name, email and message are required")
	}
	if err := s.validate.Var(contact.Email, "email"); err != nil {
		return nil, apperrors.Validation("Invalid email")
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, wrap(err, "Failed to submit message")
	}
	return contact, nil
}

// List pages the inbox, newest first. An unknown status is ignored.
func (s *ContactService) List(ctx context.Context, q, status string, page Pagination) ([]models.Contact, int64, error) {
	filter := repositories.ContactFilter{Term: strings.TrimSpace(q)}
	if st, ok := models.ParseContactStatus(status); ok {
		filter.Status = st
	}
	contacts, total, err := pageOf(ctx,
		func(ctx context.Context) ([]models.Contact, error) {
			return s.repo.List(ctx, filter, page.repoPage())
		},
		func(ctx context.Context) (int64, error) { return s.repo.Count(ctx, filter) },
	)
	if err != nil {
		return nil, 0, wrap(err, "Failed to load contacts")
	}
	return contacts, total, nil
}

func (s *ContactService) Get(ctx context.Context, id string) (*models.Contact, error) {
	if !models.IsValidID(id) {
		return nil, apperrors.Validation("Invalid id")
	}
	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "Failed to fetch contact")
	}
	return contact, nil
}

func (s *ContactService) SetStatus(ctx context.Context, id, status string) (*models.Contact, error) {
	if !models.IsValidID(id) {
		return nil, apperrors.Validation("Invalid id")
	}
	st, ok := models.ParseContactStatus(status)
	if !ok {
		return nil, apperrors.Validation("Invalid status value")
	}
	contact, err := s.repo.SetStatus(ctx, id, st)
	if err != nil {
		return nil, wrap(err, "Failed to update status")
	}
	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	if !models.IsValidID(id) {
		return apperrors.Validation("Invalid id")
	}
	return wrap(s.repo.Delete(ctx, id), "Failed to delete contact")
}
