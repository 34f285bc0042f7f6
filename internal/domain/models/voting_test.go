// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVotingView(t *testing.T) {
	voting := &Voting{UID: "voting-1", TopicUID: "topic-1", Accepted: true}
	voters := []*Voter{{UID: "voter-1"}, {UID: "voter-2"}}

	view := NewVotingView(voting, voters)
	assert.Equal(t, "voting-1", view.UID)
	assert.Equal(t, "topic-1", view.TopicUID)
	assert.True(t, view.Accepted)
	assert.Equal(t, []string{"voter-1", "voter-2"}, view.VoterUIDs)

	empty := NewVotingView(voting, nil)
	assert.NotNil(t, empty.VoterUIDs)
	assert.Empty(t, empty.VoterUIDs)
}

func TestNewVoterView_EmitsLabel(t *testing.T) {
	voter := &Voter{
		UID:              "voter-1",
		VotingUID:        "voting-1",
		RosterEntryUID:   "entry-1",
		Vote:             VoteTypeAbstained,
		RelatedPartyDeal: true,
	}

	view := NewVoterView(voter)
	assert.Equal(t, "Воздержался", view.Vote)
	assert.Equal(t, "entry-1", view.RosterEntryUID)
	assert.True(t, view.RelatedPartyDeal)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"vote":"Воздержался"`)

	assert.Len(t, NewVoterViews([]*Voter{voter, voter}), 2)
}
