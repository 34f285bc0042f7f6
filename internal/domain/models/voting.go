// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

// Voting is the decision process for one topic. Accepted reflects the most
// recent tabulation.
type Voting struct {
	UID       string     `json:"uid"`
	TopicUID  string     `json:"topic_uid"`
	Accepted  bool       `json:"accepted"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// VotingView is the caller-facing representation of a voting.
type VotingView struct {
	UID       string   `json:"uid"`
	TopicUID  string   `json:"topic_uid"`
	Accepted  bool     `json:"accepted"`
	VoterUIDs []string `json:"voter_uids"`
}

// NewVotingView builds the view of a voting and its voters.
func NewVotingView(voting *Voting, voters []*Voter) *VotingView {
	view := &VotingView{
		UID:       voting.UID,
		TopicUID:  voting.TopicUID,
		Accepted:  voting.Accepted,
		VoterUIDs: make([]string, 0, len(voters)),
	}
	for _, voter := range voters {
		view.VoterUIDs = append(view.VoterUIDs, voter.UID)
	}
	return view
}
