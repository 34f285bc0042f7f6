// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/pkg/utils"
)

// Service is implemented by every approval service.
type Service interface {
	ServiceReady() bool
}

// ServiceConfig is the configuration for the Services.
type ServiceConfig struct {
	// UpdateRetries is how many times a revision conflict on the voting is
	// retried during tabulation before giving up.
	UpdateRetries int
	// RosterWorkers bounds the concurrent voter creations of one roster build.
	RosterWorkers int
}

// DefaultServiceConfig returns the configuration used when none is supplied.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		UpdateRetries: 3,
		RosterWorkers: 4,
	}
}

// withDefaults fills an unset worker bound from DefaultServiceConfig.
func (c ServiceConfig) withDefaults() ServiceConfig {
	c.RosterWorkers = utils.Coalesce(c.RosterWorkers, DefaultServiceConfig().RosterWorkers)
	return c
}

// noopLocker is used when no topic locker is configured. Store uniqueness
// still prevents duplicate votings and voters.
type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

func lockerOrNoop(locker domain.TopicLocker) domain.TopicLocker {
	if locker == nil {
		return noopLocker{}
	}
	return locker
}
