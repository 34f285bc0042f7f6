// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
)

// BallotsRequest is the body of the submit and tabulate endpoints.
type BallotsRequest struct {
	Ballots []*models.Ballot `json:"ballots"`
}

// SubmitVoteRequest is the body of PUT /voters/{voterUID}/vote.
type SubmitVoteRequest struct {
	Vote             string `json:"vote"`
	RelatedPartyDeal bool   `json:"related_party_deal"`
}

// CreateVoting returns the topic's voting, creating it with its voter roster when absent.
func (a *ApprovalAPI) CreateVoting(w http.ResponseWriter, r *http.Request) {
	view, err := a.services.Voting.CreateVotingForTopic(r.Context(), chi.URLParam(r, "topicUID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

// GetVoting returns the topic's voting with its voter UIDs.
func (a *ApprovalAPI) GetVoting(w http.ResponseWriter, r *http.Request) {
	view, err := a.services.Voting.GetVotingByTopic(r.Context(), chi.URLParam(r, "topicUID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

// DeleteVoting removes the topic's voting and its voters.
func (a *ApprovalAPI) DeleteVoting(w http.ResponseWriter, r *http.Request) {
	if err := a.services.Voting.DeleteVotingForTopic(r.Context(), chi.URLParam(r, "topicUID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitVotes applies a ballot batch and returns the tabulated voting.
func (a *ApprovalAPI) SubmitVotes(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[BallotsRequest](r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := a.services.Voting.SubmitVotes(r.Context(),
		chi.URLParam(r, "companyUID"),
		chi.URLParam(r, "meetingUID"),
		chi.URLParam(r, "topicUID"),
		body.Ballots,
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

// TabulateVoting recomputes the outcome from ballots that were already applied.
func (a *ApprovalAPI) TabulateVoting(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[BallotsRequest](r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := a.services.Voting.Tabulate(r.Context(), chi.URLParam(r, "topicUID"), body.Ballots)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

// ListVoters returns the voters of the topic's voting.
func (a *ApprovalAPI) ListVoters(w http.ResponseWriter, r *http.Request) {
	voters, err := a.services.Voter.ListVotersByTopic(r.Context(), chi.URLParam(r, "topicUID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, models.NewVoterViews(voters))
}

// GetVoter returns a single voter.
func (a *ApprovalAPI) GetVoter(w http.ResponseWriter, r *http.Request) {
	voter, err := a.services.Voter.GetVoter(r.Context(), chi.URLParam(r, "voterUID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, models.NewVoterView(voter))
}

// SubmitVote overwrites a single voter's vote without tabulating.
func (a *ApprovalAPI) SubmitVote(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[SubmitVoteRequest](r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	voter, err := a.services.Voter.SubmitVote(r.Context(), chi.URLParam(r, "voterUID"), body.Vote, body.RelatedPartyDeal)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, models.NewVoterView(voter))
}
