package refstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tradsys/venue/internal/models"
	"github.com/tradsys/venue/internal/venueerrors"
)

// CreateClient enforces the unique-email write predicate from §4.6.
func (s *Store) CreateClient(ctx context.Context, email string) (*models.Client, error) {
	var existing models.Client
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		return nil, venueerrors.Newf(venueerrors.Conflict, "client with email %s already exists", email)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "look up client by email")
	}

	client := &models.Client{Email: email}
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "create client")
	}
	return client, nil
}

// RenameClient enforces the unique-email write predicate on update.
func (s *Store) RenameClient(ctx context.Context, id int64, newEmail string) (*models.Client, error) {
	client, err := s.ClientByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var existing models.Client
	err = s.db.WithContext(ctx).Where("email = ? AND id <> ?", newEmail, id).First(&existing).Error
	if err == nil {
		return nil, venueerrors.Newf(venueerrors.Conflict, "client with email %s already exists", newEmail)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "look up client by email")
	}

	client.Email = newEmail
	if err := s.db.WithContext(ctx).Save(client).Error; err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "rename client")
	}
	return client, nil
}

func (s *Store) ClientByID(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	err := s.db.WithContext(ctx).First(&client, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, venueerrors.Newf(venueerrors.NotFound, "client with id %d does not exist", id)
	} else if err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "look up client by id")
	}
	return &client, nil
}

func (s *Store) ClientByEmail(ctx context.Context, email string) (*models.Client, error) {
	var client models.Client
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, venueerrors.Newf(venueerrors.NotFound, "client with email %s does not exist", email)
	} else if err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "look up client by email")
	}
	return &client, nil
}

func (s *Store) ListClients(ctx context.Context, page Pagination) ([]models.Client, error) {
	var clients []models.Client
	err := s.db.WithContext(ctx).Order("id").Offset(page.Offset()).Limit(page.Limit()).Find(&clients).Error
	if err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "list clients")
	}
	return clients, nil
}
