package v1

import (
	"github.com/andreyxaxa/thumbnail-worker/internal/usecase"
	"github.com/andreyxaxa/thumbnail-worker/pkg/logger"
)

type V1 struct {
	ledger usecase.LedgerUseCase
	logger logger.Interface
}
