package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	svc *Service
}

func NewHealthService(svc *Service) *HealthService {
	return &HealthService{svc: svc}
}

func (h *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if h.svc == nil {
		status.Status = "down"
		status.Components["service"] = "missing"
		return status
	}

	if h.svc.parser == nil {
		status.Status = "degraded"
		status.Components["parser"] = "missing"
	} else {
		status.Components["parser"] = fmt.Sprintf("ok (dialect %s)", h.svc.cfg.Parse.Dialect)
	}

	if h.svc.builder == nil {
		status.Status = "degraded"
		status.Components["builder"] = "missing"
	} else {
		status.Components["builder"] = fmt.Sprintf("ok (default %s)", h.svc.cfg.Rules.Default)
	}

	status.Components["result_cache"] = fmt.Sprintf("ok (%d entries)", h.svc.cache.len())

	if h.svc.store != nil {
		if _, err := h.svc.store.Recent(ctx, 1); err != nil {
			status.Status = "degraded"
			status.Components["history"] = fmt.Sprintf("error: %v", err)
		} else {
			status.Components["history"] = "ok"
		}
	} else if h.svc.cfg.History.Enabled {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	}

	return status
}
