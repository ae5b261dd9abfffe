package refstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tradsys/venue/internal/models"
	"github.com/tradsys/venue/internal/venueerrors"
)

// CreateSubAccount enforces the unique-active-name-per-client write
// predicate: the name only has to be free among the client's *active*
// sub-accounts.
func (s *Store) CreateSubAccount(ctx context.Context, clientID int64, name string) (*models.SubAccount, error) {
	if _, err := s.ClientByID(ctx, clientID); err != nil {
		return nil, err
	}
	if err := s.checkActiveNameFree(ctx, clientID, name, 0); err != nil {
		return nil, err
	}

	sub := &models.SubAccount{ClientID: clientID, Name: name, Status: models.SubAccountActive}
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "create sub-account")
	}
	return sub, nil
}

// UpdateSubAccount changes status and/or name. Re-checks active-name
// uniqueness whenever the result would be active with that name.
func (s *Store) UpdateSubAccount(ctx context.Context, id int64, status *models.SubAccountStatus, name *string) (*models.SubAccount, error) {
	sub, err := s.SubAccountByID(ctx, id)
	if err != nil {
		return nil, err
	}

	nextStatus := sub.Status
	if status != nil {
		nextStatus = *status
	}
	nextName := sub.Name
	if name != nil {
		nextName = *name
	}

	if nextStatus == models.SubAccountActive {
		if err := s.checkActiveNameFree(ctx, sub.ClientID, nextName, id); err != nil {
			return nil, err
		}
	}

	sub.Status, sub.Name = nextStatus, nextName
	if err := s.db.WithContext(ctx).Save(sub).Error; err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "update sub-account")
	}
	return sub, nil
}

func (s *Store) checkActiveNameFree(ctx context.Context, clientID int64, name string, excludeID int64) error {
	var existing models.SubAccount
	err := s.db.WithContext(ctx).
		Where("client_id = ? AND name = ? AND status = ? AND id <> ?", clientID, name, models.SubAccountActive, excludeID).
		First(&existing).Error
	if err == nil {
		return venueerrors.Newf(venueerrors.Conflict, "client already has an active sub-account named %s", name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return venueerrors.Wrap(err, venueerrors.Internal, "look up sub-account by name")
	}
	return nil
}

func (s *Store) SubAccountByID(ctx context.Context, id int64) (*models.SubAccount, error) {
	var sub models.SubAccount
	err := s.db.WithContext(ctx).First(&sub, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, venueerrors.Newf(venueerrors.NotFound, "sub-account with id %d does not exist", id)
	} else if err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "look up sub-account by id")
	}
	return &sub, nil
}

// ActiveSubAccountsByClient lists a client's active sub-accounts only.
func (s *Store) ActiveSubAccountsByClient(ctx context.Context, clientID int64) ([]models.SubAccount, error) {
	var subs []models.SubAccount
	err := s.db.WithContext(ctx).
		Where("client_id = ? AND status = ?", clientID, models.SubAccountActive).
		Order("id").Find(&subs).Error
	if err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "list active sub-accounts")
	}
	return subs, nil
}

func (s *Store) ListSubAccountsByStatus(ctx context.Context, status models.SubAccountStatus, page Pagination) ([]models.SubAccount, error) {
	var subs []models.SubAccount
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("id").Offset(page.Offset()).Limit(page.Limit()).Find(&subs).Error
	if err != nil {
		return nil, venueerrors.Wrap(err, venueerrors.Internal, "list sub-accounts by status")
	}
	return subs, nil
}
