package models

import (
	"time"
)

// Envelope is the body of every response under /api/plausible.
type Envelope struct {
	Success   bool              `json:"success"`
	Data      any               `json:"data,omitempty"`
	Error     string            `json:"error,omitempty"`
	Message   string            `json:"message,omitempty"`
	Details   map[string]any    `json:"details,omitempty"`
	Params    map[string]string `json:"params,omitempty"`
	SiteID    string            `json:"site_id,omitempty"`
	Stack     string            `json:"stack,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func NewSuccessEnvelope(data any, params map[string]string) Envelope {
	return Envelope{
		Success:   true,
		Data:      data,
		Params:    params,
		Timestamp: time.Now().UTC(),
	}
}

func NewErrorEnvelope(title, message string) Envelope {
	return Envelope{
		Success:   false,
		Error:     title,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

type HealthStatus struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	Uptime     float64   `json:"uptime"`
	Version    string    `json:"version"`
	InstanceID string    `json:"instance_id"`
}
