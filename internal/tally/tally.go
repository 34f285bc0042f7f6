// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package tally computes voting outcomes. A Rule is selected by meeting type
// and applied to a batch of resolved ballots without touching storage.
package tally

import (
	"fmt"

	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
)

const (
	// BoardMajorityFraction is the share of submitted ballots a board
	// decision must strictly exceed.
	BoardMajorityFraction = 0.5
	// ShareMajorityPercent is the total ownership share a general meeting
	// decision must strictly exceed.
	ShareMajorityPercent = 50.0
)

// Ballot is a vote whose label has already been resolved, together with the
// ownership share of the roster entry that cast it.
type Ballot struct {
	Vote  models.VoteType
	Share float64
}

// Result is the outcome of one tabulation.
type Result struct {
	Rule      string
	Approval  float64
	Submitted int
	Accepted  bool
}

// Rule weighs ballots and decides whether an approval total passes.
type Rule interface {
	// Name identifies the rule in logs and metrics.
	Name() string
	// Weight is the approval contribution of a YES ballot.
	Weight(ballot Ballot) float64
	// Accepted reports whether approval passes given the number of submitted ballots.
	Accepted(approval float64, submitted int) bool
}

// HeadCountRule gives every ballot one vote. Used by board meetings.
type HeadCountRule struct{}

// Name implements Rule.
func (HeadCountRule) Name() string { return "head_count" }

// Weight implements Rule.
func (HeadCountRule) Weight(Ballot) float64 { return 1.0 }

// Accepted implements Rule. The threshold is relative to the submitted batch,
// not to the full roster.
func (HeadCountRule) Accepted(approval float64, submitted int) bool {
	return approval > float64(submitted)*BoardMajorityFraction
}

// ShareWeightedRule weighs each ballot by the voter's ownership share.
// Used by general meetings of shareholders and participants.
type ShareWeightedRule struct{}

// Name implements Rule.
func (ShareWeightedRule) Name() string { return "share_weighted" }

// Weight implements Rule.
func (ShareWeightedRule) Weight(ballot Ballot) float64 { return ballot.Share }

// Accepted implements Rule.
func (ShareWeightedRule) Accepted(approval float64, _ int) bool {
	return approval > ShareMajorityPercent
}

// RuleFor selects the tally rule for a meeting type.
func RuleFor(meetingType models.MeetingType) (Rule, error) {
	switch meetingType {
	case models.MeetingTypeBOD:
		return HeadCountRule{}, nil
	case models.MeetingTypeFMS, models.MeetingTypeFMP:
		return ShareWeightedRule{}, nil
	default:
		return nil, fmt.Errorf("no tally rule for meeting type %q: %w", meetingType, models.ErrUnknownLabel)
	}
}

// Tabulate folds the ballots in order and applies the rule. Only YES ballots
// contribute to the approval total; every ballot counts as submitted.
func Tabulate(rule Rule, ballots []Ballot) Result {
	var approval float64
	for _, ballot := range ballots {
		if ballot.Vote == models.VoteTypeYes {
			approval += rule.Weight(ballot)
		}
	}

	return Result{
		Rule:      rule.Name(),
		Approval:  approval,
		Submitted: len(ballots),
		Accepted:  rule.Accepted(approval, len(ballots)),
	}
}
