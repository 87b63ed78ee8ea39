package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const denylistPrefix = "auth:denylist:"

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// Denylist registra tokens revogados por logout até o fim da validade.
// O registro é melhor-esforço: indisponibilidade do redis não derruba o
// logout nem bloqueia requisições.
type Denylist struct {
	redis redisCommander
}

// NewDenylist cria a lista de revogação.
func NewDenylist(client redisCommander) *Denylist {
	return &Denylist{redis: client}
}

// Revoke marca o token como revogado até a expiração informada.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.redis.Set(ctx, denylistPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked informa se o token foi revogado. Em erro de transporte assume
// não revogado, deixando a expiração do próprio token como limite.
func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) bool {
	if tokenID == "" {
		return false
	}
	count, err := d.redis.Exists(ctx, denylistPrefix+tokenID).Result()
	if err != nil {
		log.Warn().Err(err).Msg("denylist indisponível")
		return false
	}
	return count > 0
}
