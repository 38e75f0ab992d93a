package port

import "salesiq/internal/domain"

// StatusSink receives pipeline progress updates. The orchestrator is the only
// writer; presentation layers poll via Get.
type StatusSink interface {
	Update(tenantID string, status domain.PipelineStatus)
	Get(tenantID string) domain.PipelineStatus
}
