/*
 * Copyright 2026 Quartzlane Systems.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package sync converges delayed directory groups to the enrollment-age
// qualified subset of their source groups. One pass recomputes the full
// diff from current directory state; the pass is idempotent, so a rerun
// with no external change is a no-op.
package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quartzlane/groupgate/pkg/logger"
	"github.com/quartzlane/groupgate/pkg/models"
	"github.com/quartzlane/groupgate/pkg/registry"
)

// Run carries the per-pass context: a single reference clock reading, the
// qualification threshold, and the delayed-name suffix. Threading one now
// through the whole pass keeps evaluation deterministic.
type Run struct {
	ID        string
	Now       time.Time
	Threshold time.Duration
	Suffix    string
}

// Service drives reconciliation passes. Groups are processed one at a
// time, members one at a time; the directory API is rate-limited and
// per-operation, so parallelism would only add throttling risk.
type Service struct {
	config    Config
	directory Directory
	clock     Clock
	logger    logger.Logger
}

// New creates a reconciliation service with explicit dependencies.
func New(config *Config, dir Directory, clock Clock, log logger.Logger) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if clock == nil {
		clock = realClock{}
	}

	return &Service{
		config:    *config,
		directory: dir,
		clock:     clock,
		logger:    log.WithComponent("sync"),
	}, nil
}

// Start runs one pass immediately and then on every poll interval until
// the context is canceled. A failed pass is logged and retried on the next
// tick; the engine is convergent, so the next successful pass corrects any
// partial progress.
func (s *Service) Start(ctx context.Context) error {
	if err := s.Sync(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Reconciliation pass failed")
	}

	ticker := s.clock.Ticker(time.Duration(s.config.PollInterval))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			if err := s.Sync(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Reconciliation pass failed")
			}
		}
	}
}

// Sync performs one full reconciliation pass. Only failures that make
// further progress impossible (group listing, inventory fetch) are
// returned; per-group failures are absorbed after logging.
func (s *Service) Sync(ctx context.Context) error {
	run := Run{
		ID:        uuid.NewString(),
		Now:       s.clock.Now().UTC(),
		Threshold: time.Duration(s.config.Threshold),
		Suffix:    s.config.DelaySuffix,
	}

	groups, err := s.directory.ListGroups(ctx, s.config.GroupPrefix)
	if err != nil {
		return fmt.Errorf("failed to list groups with prefix '%s': %w", s.config.GroupPrefix, err)
	}

	devices, err := s.directory.ListManagedDevices(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch device inventory: %w", err)
	}

	idx := registry.Build(devices)

	// The delayed name shares the source prefix, so the one listing holds
	// both sides of every pair. Names already carrying the suffix are
	// excluded from the source set - a delayed group is never its own
	// source.
	byName := make(map[string]models.Group, len(groups))

	var sources []models.Group

	for _, g := range groups {
		byName[g.DisplayName] = g

		if !strings.HasSuffix(g.DisplayName, run.Suffix) {
			sources = append(sources, g)
		}
	}

	s.logger.Info().
		Str("run_id", run.ID).
		Int("source_groups", len(sources)).
		Int("indexed_devices", idx.Len()).
		Msg("Starting reconciliation pass")

	for _, src := range sources {
		// cancellation is honored between groups, never mid-write
		if err := ctx.Err(); err != nil {
			return err
		}

		s.syncGroup(ctx, src, byName, idx, run)
	}

	return nil
}

// syncGroup reconciles one source/delayed pair. Every failure in here is
// local: the group is skipped and the pass moves on.
func (s *Service) syncGroup(
	ctx context.Context,
	src models.Group,
	byName map[string]models.Group,
	idx *registry.Index,
	run Run,
) {
	members, err := s.directory.ListGroupMembers(ctx, src.ID)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("run_id", run.ID).
			Str("group", src.DisplayName).
			Msg("Failed to fetch source members, skipping group")

		return
	}

	if len(members) == 0 {
		// nothing to reconcile; any existing delayed group is left alone
		s.logger.Info().
			Str("run_id", run.ID).
			Str("group", src.DisplayName).
			Msg("Source group has no members, skipping")

		return
	}

	delayed, err := s.resolveDelayedGroup(ctx, src, byName)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("run_id", run.ID).
			Str("group", src.DisplayName).
			Msg("Failed to resolve delayed group, skipping group")

		return
	}

	delayedMembers, err := s.directory.ListGroupMembers(ctx, delayed.ID)
	if err != nil {
		// a delayed group with zero members is a valid starting state
		s.logger.Warn().
			Err(err).
			Str("run_id", run.ID).
			Str("group", delayed.DisplayName).
			Msg("Failed to fetch delayed members, treating delayed group as empty")

		delayedMembers = nil
	}

	plan := BuildPlan(members, delayedMembers, idx, run.Now, run.Threshold, s.logger)

	if plan.Skipped || plan.Empty() {
		s.logger.Debug().
			Str("run_id", run.ID).
			Str("group", src.DisplayName).
			Msg("Delayed group already converged")

		return
	}

	added, removed := s.applyPlan(ctx, delayed, plan)

	s.logger.Info().
		Str("run_id", run.ID).
		Str("group", src.DisplayName).
		Str("delayed_group", delayed.DisplayName).
		Int("planned_add", len(plan.Add)).
		Int("planned_remove", len(plan.Remove)).
		Int("added", added).
		Int("removed", removed).
		Msg("Reconciled group pair")
}
