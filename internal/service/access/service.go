package access

import (
	"docspace/internal/domain/services"
)

// Service bundles point resolution and report aggregation behind the
// AccessService interface.
type Service struct {
	*Engine
	*Reporter
}

// NewService creates the combined access service
func NewService(engine *Engine, reporter *Reporter) services.AccessService {
	return &Service{Engine: engine, Reporter: reporter}
}
