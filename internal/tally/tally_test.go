// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package tally

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
)

func yes(share float64) Ballot { return Ballot{Vote: models.VoteTypeYes, Share: share} }
func no(share float64) Ballot  { return Ballot{Vote: models.VoteTypeNo, Share: share} }

func TestTabulate(t *testing.T) {
	tests := []struct {
		name         string
		meetingType  models.MeetingType
		ballots      []Ballot
		wantApproval float64
		wantAccepted bool
	}{
		{
			name:         "board two of three accepted",
			meetingType:  models.MeetingTypeBOD,
			ballots:      []Ballot{yes(0), yes(0), no(0)},
			wantApproval: 2,
			wantAccepted: true,
		},
		{
			name:         "board tie rejected",
			meetingType:  models.MeetingTypeBOD,
			ballots:      []Ballot{yes(0), no(0)},
			wantApproval: 1,
			wantAccepted: false,
		},
		{
			name:         "board ignores shares",
			meetingType:  models.MeetingTypeBOD,
			ballots:      []Ballot{yes(1), no(99)},
			wantApproval: 1,
			wantAccepted: false,
		},
		{
			name:         "board abstentions count as submitted",
			meetingType:  models.MeetingTypeBOD,
			ballots:      []Ballot{yes(0), {Vote: models.VoteTypeAbstained}, {Vote: models.VoteTypeNotVoted}},
			wantApproval: 1,
			wantAccepted: false,
		},
		{
			name:         "shareholders 30 and 25 accepted",
			meetingType:  models.MeetingTypeFMS,
			ballots:      []Ballot{yes(30), yes(25), no(45)},
			wantApproval: 55,
			wantAccepted: true,
		},
		{
			name:         "shares summing to exactly fifty rejected",
			meetingType:  models.MeetingTypeFMP,
			ballots:      []Ballot{yes(20), yes(30), no(50)},
			wantApproval: 50,
			wantAccepted: false,
		},
		{
			name:         "share majority does not depend on batch size",
			meetingType:  models.MeetingTypeFMP,
			ballots:      []Ballot{yes(51)},
			wantApproval: 51,
			wantAccepted: true,
		},
		{
			name:         "board empty batch rejected",
			meetingType:  models.MeetingTypeBOD,
			ballots:      nil,
			wantApproval: 0,
			wantAccepted: false,
		},
		{
			name:         "shareholders empty batch rejected",
			meetingType:  models.MeetingTypeFMS,
			ballots:      []Ballot{},
			wantApproval: 0,
			wantAccepted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := RuleFor(tt.meetingType)
			require.NoError(t, err)

			result := Tabulate(rule, tt.ballots)
			assert.InDelta(t, tt.wantApproval, result.Approval, 1e-9)
			assert.Equal(t, len(tt.ballots), result.Submitted)
			assert.Equal(t, tt.wantAccepted, result.Accepted)
		})
	}
}

func TestTabulate_OrderIndependent(t *testing.T) {
	rule := ShareWeightedRule{}
	forward := Tabulate(rule, []Ballot{yes(10), no(40), yes(45)})
	backward := Tabulate(rule, []Ballot{yes(45), no(40), yes(10)})
	assert.Equal(t, forward, backward)
}

func TestRuleFor(t *testing.T) {
	rule, err := RuleFor(models.MeetingTypeBOD)
	require.NoError(t, err)
	assert.Equal(t, "head_count", rule.Name())

	for _, mt := range []models.MeetingType{models.MeetingTypeFMS, models.MeetingTypeFMP} {
		rule, err = RuleFor(mt)
		require.NoError(t, err)
		assert.Equal(t, "share_weighted", rule.Name())
	}

	_, err = RuleFor(models.MeetingType("AGM"))
	assert.ErrorIs(t, err, models.ErrUnknownLabel)
}
