package models

import (
	"time"

	"github.com/google/uuid"
)

// Instance identifies a deployment (org/tenant) whose property overrides
// take precedence over global defaults. Read-only after load.
type Instance struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PropertyOverride is an instance-scoped property value. Keyed by
// (InstanceID, Key); when duplicate rows exist the store consults the first
// match, row ordering otherwise unspecified.
type PropertyOverride struct {
	InstanceID uuid.UUID `json:"instance_id"`
	Key        string    `json:"key"`
	Value      string    `json:"value"`
}

// PropertyDefault is a global fallback property value, keyed by Key alone.
type PropertyDefault struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
