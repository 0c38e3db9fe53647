package services

import (
	"time"

	"bearcart/pkg/contracts"
)

// HealthService reports process liveness and whether dashboard data is
// available yet.
type HealthService struct {
	startedAt time.Time
	data      *DataService
}

// NewHealthService creates a health service.
func NewHealthService(data *DataService) *HealthService {
	return &HealthService{startedAt: time.Now(), data: data}
}

// Health is the health check response payload.
type Health struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	DataReady bool   `json:"data_ready"`
}

// Check returns the current health status. The service is healthy as soon as
// the process is up; data readiness is reported separately so the frontend
// can distinguish "starting" from "broken".
func (s *HealthService) Check() Health {
	return Health{
		Status:    "healthy",
		Version:   contracts.Version,
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
		DataReady: s.data.Ready(),
	}
}
