package http

import (
	"context"
	"encoding/json"
	"time"

	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/domain"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/service"
)

// Runs is what the handlers need from the run service.
type Runs interface {
	Create(ctx context.Context, doc []byte) (*service.Result, error)
	Get(ctx context.Context, runID string) (*domain.RunRecord, error)
	List(ctx context.Context, limit int) ([]domain.RunRecord, error)
	Summary(ctx context.Context, runID string) (*domain.RunSummary, error)
	Delete(ctx context.Context, runID string) error
}

type createRunRequest struct {
	NetworkYAML string `json:"network_yaml"`
}

type runResponse struct {
	RunID     string          `json:"run_id"`
	Network   string          `json:"network"`
	Status    string          `json:"status"`
	CreatedAt string          `json:"created_at"`
	Result    json.RawMessage `json:"result,omitempty"`
}

func toRunResponse(rec *domain.RunRecord) runResponse {
	return runResponse{
		RunID:     rec.RunID,
		Network:   rec.Network,
		Status:    rec.Status,
		CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
		Result:    json.RawMessage(rec.Result),
	}
}
