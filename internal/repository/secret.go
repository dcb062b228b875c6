package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JrMarcco/hookify/internal/domain"
	"github.com/JrMarcco/hookify/internal/errs"
	"github.com/JrMarcco/hookify/internal/repository/dao"
	"gorm.io/gorm"
)

type SecretRepo interface {
	GetByClientId(ctx context.Context, clientId uint64) (domain.ClientSecret, error)
	Create(ctx context.Context, cs domain.ClientSecret) (domain.ClientSecret, error)
	Replace(ctx context.Context, cs domain.ClientSecret) (domain.ClientSecret, error)
}

var _ SecretRepo = (*DefaultSecretRepo)(nil)

type DefaultSecretRepo struct {
	secretDAO dao.ClientSecretDAO
}

func (r *DefaultSecretRepo) GetByClientId(ctx context.Context, clientId uint64) (domain.ClientSecret, error) {
	entity, err := r.secretDAO.GetByClientId(ctx, clientId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ClientSecret{}, fmt.Errorf("%w: client id = %d", errs.ErrSecretNotFound, clientId)
		}
		return domain.ClientSecret{}, err
	}
	return r.toDomain(entity), nil
}

func (r *DefaultSecretRepo) Create(ctx context.Context, cs domain.ClientSecret) (domain.ClientSecret, error) {
	entity, err := r.secretDAO.Insert(ctx, r.toEntity(cs))
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ClientSecret{}, fmt.Errorf("%w: client id = %d", errs.ErrSecretConflict, cs.ClientId)
		}
		return domain.ClientSecret{}, err
	}
	return r.toDomain(entity), nil
}

func (r *DefaultSecretRepo) Replace(ctx context.Context, cs domain.ClientSecret) (domain.ClientSecret, error) {
	entity, err := r.secretDAO.Replace(ctx, r.toEntity(cs))
	if err != nil {
		return domain.ClientSecret{}, err
	}
	return r.toDomain(entity), nil
}

func (r *DefaultSecretRepo) toDomain(entity dao.ClientSecret) domain.ClientSecret {
	return domain.ClientSecret{
		ClientId:  entity.ClientId,
		Value:     entity.SecretValue,
		CreatedAt: time.UnixMilli(entity.CreatedAt),
	}
}

func (r *DefaultSecretRepo) toEntity(cs domain.ClientSecret) dao.ClientSecret {
	return dao.ClientSecret{
		ClientId:    cs.ClientId,
		SecretValue: cs.Value,
	}
}

func NewDefaultSecretRepo(secretDAO dao.ClientSecretDAO) *DefaultSecretRepo {
	return &DefaultSecretRepo{
		secretDAO: secretDAO,
	}
}
