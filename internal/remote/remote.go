// Package remote is the client for the scheduling service API.
package remote

import (
	"context"
	"fmt"

	"github.com/rcliao/patchdash/internal/model"
)

// Call names, used for logging, metrics and errors.
const (
	CallStats       = "stats"
	CallBestHour    = "best_hour"
	CallNetworkLoad = "network_load"
	CallCrew        = "crew"
	CallPatches     = "patches"
	CallCreatePatch = "create_patch"
	CallOptimize    = "optimize"
	CallChat        = "chat"
)

// Service is the scheduling service surface the dashboard consumes.
type Service interface {
	Stats(ctx context.Context) (model.Stats, error)
	BestHour(ctx context.Context) (model.BestHour, error)
	NetworkLoad(ctx context.Context) ([]model.NetworkLoadSample, error)
	Crew(ctx context.Context) ([]model.CrewMember, error)
	Patches(ctx context.Context) ([]model.Patch, error)
	CreatePatch(ctx context.Context, in model.PatchInput) (model.Patch, error)
	Optimize(ctx context.Context) (OptimizeResult, error)
	Chat(ctx context.Context, message string) (ChatReply, error)
}

// OptimizeResult is a successful optimization: either one schedule or a set of strategies.
type OptimizeResult struct {
	Schedule     []model.ScheduleItem      `json:"schedule"`
	Strategies   map[string]model.Strategy `json:"strategies,omitempty"`
	TotalPatches int                       `json:"total_patches,omitempty"`
	Message      string                    `json:"message,omitempty"`
}

// MultiStrategy reports whether the result carries named strategies.
func (r OptimizeResult) MultiStrategy() bool {
	return len(r.Strategies) > 0
}

// ChatReply is the assistant's answer. Success=false carries the service's fallback text, if any.
type ChatReply struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Fallback string `json:"fallback_message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// APIError is a failed call: a non-2xx status or a success:false payload.
type APIError struct {
	Call    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Call, e.Message)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Call, e.Message, e.Status)
}
