// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"errors"
	"fmt"
)

// ErrUnknownLabel is returned when a string matches no enumeration label.
var ErrUnknownLabel = errors.New("unknown enumeration label")

// VoteType is the value of a single ballot. The constant value is the stable
// storage code; Label is the external representation.
type VoteType string

const (
	// VoteTypeNotVoted is the default value of a freshly created voter.
	VoteTypeNotVoted VoteType = "NOT_VOTED"
	// VoteTypeYes approves the topic.
	VoteTypeYes VoteType = "YES"
	// VoteTypeNo rejects the topic.
	VoteTypeNo VoteType = "NO"
	// VoteTypeAbstained records an explicit abstention.
	VoteTypeAbstained VoteType = "ABSTAINED"
)

var voteTypeLabels = map[VoteType]string{
	VoteTypeNotVoted:  "Не голосовал",
	VoteTypeYes:       "За",
	VoteTypeNo:        "Против",
	VoteTypeAbstained: "Воздержался",
}

var voteTypesByLabel = map[string]VoteType{
	"Не голосовал": VoteTypeNotVoted,
	"За":           VoteTypeYes,
	"Против":       VoteTypeNo,
	"Воздержался":  VoteTypeAbstained,
}

// VoteTypes lists every vote value in declaration order.
func VoteTypes() []VoteType {
	return []VoteType{VoteTypeNotVoted, VoteTypeYes, VoteTypeNo, VoteTypeAbstained}
}

// Label returns the display label clients send and receive.
func (v VoteType) Label() string {
	return voteTypeLabels[v]
}

// IsValid reports whether v is one of the four known vote values.
func (v VoteType) IsValid() bool {
	_, ok := voteTypeLabels[v]
	return ok
}

// ParseVoteType resolves a display label. Only the four known labels resolve.
func ParseVoteType(label string) (VoteType, error) {
	vote, ok := voteTypesByLabel[label]
	if !ok {
		return "", fmt.Errorf("invalid vote type %q: %w", label, ErrUnknownLabel)
	}
	return vote, nil
}
