package server

import (
	"context"

	"github.com/Backland-Labs/courier/internal/core"
	"github.com/Backland-Labs/courier/internal/workflow"
)

// RunEngine is the workflow surface the API drives
type RunEngine interface {
	Start(ctx context.Context, req workflow.StartRequest) (core.RunState, error)
	ApproveEmail(ctx context.Context, runID string, edit workflow.EmailEdit) (core.RunState, error)
	RejectEmail(ctx context.Context, runID, reason string) (core.RunState, error)
	ApproveChat(ctx context.Context, runID string, edited *string) (core.RunState, error)
	RejectChat(ctx context.Context, runID, reason string) (core.RunState, error)
	GetState(ctx context.Context, runID string) (core.RunState, error)
	ListRuns(ctx context.Context) ([]core.RunState, error)
	Discard(ctx context.Context, runID string) error
}
