package secret

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/JrMarcco/hookify/internal/domain"
	"github.com/JrMarcco/hookify/internal/errs"
	"github.com/JrMarcco/hookify/internal/repository"
	"go.uber.org/zap"
)

// secretByteLen 密钥随机字节数，落库为十六进制字符串。
const secretByteLen = 32

type Service interface {
	GetOrCreate(ctx context.Context, clientId uint64) (domain.ClientSecret, error)
	Regenerate(ctx context.Context, clientId uint64) (domain.ClientSecret, error)
}

var _ Service = (*DefaultService)(nil)

type DefaultService struct {
	secretRepo repository.SecretRepo
	logger     *zap.Logger
}

// GetOrCreate 读取客户密钥，不存在则懒创建。
//
// 并发首次创建依赖 client_id 唯一约束兜底：
// 冲突方丢弃自己生成的值，重新读取胜者写入的密钥。
func (s *DefaultService) GetOrCreate(ctx context.Context, clientId uint64) (domain.ClientSecret, error) {
	cs, err := s.secretRepo.GetByClientId(ctx, clientId)
	if err == nil {
		return cs, nil
	}
	if !errors.Is(err, errs.ErrSecretNotFound) {
		return domain.ClientSecret{}, err
	}

	val, err := generateSecret()
	if err != nil {
		return domain.ClientSecret{}, err
	}

	created, err := s.secretRepo.Create(ctx, domain.ClientSecret{
		ClientId: clientId,
		Value:    val,
	})
	if err == nil {
		s.logger.Info("[hookify] client secret created", zap.Uint64("client_id", clientId))
		return created, nil
	}
	if errors.Is(err, errs.ErrSecretConflict) {
		return s.secretRepo.GetByClientId(ctx, clientId)
	}
	return domain.ClientSecret{}, err
}

// Regenerate 轮换客户密钥。
//
// 旧密钥签出的历史签名自此无法通过客户侧校验，这是显式运维操作的预期结果。
func (s *DefaultService) Regenerate(ctx context.Context, clientId uint64) (domain.ClientSecret, error) {
	val, err := generateSecret()
	if err != nil {
		return domain.ClientSecret{}, err
	}

	cs, err := s.secretRepo.Replace(ctx, domain.ClientSecret{
		ClientId: clientId,
		Value:    val,
	})
	if err != nil {
		return domain.ClientSecret{}, err
	}

	s.logger.Info("[hookify] client secret regenerated", zap.Uint64("client_id", clientId))
	return cs, nil
}

func generateSecret() (string, error) {
	buf := make([]byte, secretByteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("[hookify] failed to generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func NewDefaultService(secretRepo repository.SecretRepo, logger *zap.Logger) *DefaultService {
	return &DefaultService{
		secretRepo: secretRepo,
		logger:     logger,
	}
}
