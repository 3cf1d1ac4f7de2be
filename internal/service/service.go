package service

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/Khrafts/uniswap-v1/internal/amm"
	"github.com/Khrafts/uniswap-v1/internal/service/dto"
)

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock

// Service represents interface for business logic.
type Service interface {
	Quote(ctx context.Context, req dto.QuoteRequest) (*dto.Quote, error)
	Price(ctx context.Context, asset common.Address) (*dto.Price, error)
	Pools(ctx context.Context) []dto.PoolInfo
}

// Registry is the pool lookup the service reads from.
type Registry interface {
	GetPool(assetID common.Address) (*amm.Pool, error)
	Pools() []*amm.Pool
}

// QuoteService answers read-only questions about the registered pools.
type QuoteService struct {
	registry Registry
	logger   zerolog.Logger
}

// NewQuoteService creates QuoteService.
func NewQuoteService(registry Registry, logger zerolog.Logger) *QuoteService {
	return &QuoteService{registry: registry, logger: logger}
}
