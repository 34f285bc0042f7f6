// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

// Voter is one roster entry's ballot within one voting.
type Voter struct {
	UID              string     `json:"uid"`
	VotingUID        string     `json:"voting_uid"`
	TopicUID         string     `json:"topic_uid"`
	RosterEntryUID   string     `json:"roster_entry_uid"`
	Vote             VoteType   `json:"vote"`
	RelatedPartyDeal bool       `json:"related_party_deal"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// VoterView is the caller-facing representation of a voter. Vote carries the
// display label.
type VoterView struct {
	UID              string `json:"uid"`
	VotingUID        string `json:"voting_uid"`
	RosterEntryUID   string `json:"roster_entry_uid"`
	Vote             string `json:"vote"`
	RelatedPartyDeal bool   `json:"related_party_deal"`
}

// NewVoterView converts a stored voter into its view.
func NewVoterView(voter *Voter) *VoterView {
	return &VoterView{
		UID:              voter.UID,
		VotingUID:        voter.VotingUID,
		RosterEntryUID:   voter.RosterEntryUID,
		Vote:             voter.Vote.Label(),
		RelatedPartyDeal: voter.RelatedPartyDeal,
	}
}

// NewVoterViews converts a list of voters.
func NewVoterViews(voters []*Voter) []*VoterView {
	views := make([]*VoterView, 0, len(voters))
	for _, voter := range voters {
		views = append(views, NewVoterView(voter))
	}
	return views
}

// Ballot is one vote submission inside a batch.
type Ballot struct {
	VoterUID         string `json:"voter_uid"`
	Vote             string `json:"vote"`
	RelatedPartyDeal bool   `json:"related_party_deal"`
}
