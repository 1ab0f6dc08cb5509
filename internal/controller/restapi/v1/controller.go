package v1

import (
	"github.com/procuredesk/sap-vendor-bridge/internal/usecase"
	"github.com/procuredesk/sap-vendor-bridge/pkg/logger"
)

type V1 struct {
	ingest usecase.IngestUseCase
	wh     usecase.WebhookUseCase
	logger logger.Interface
}
