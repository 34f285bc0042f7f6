// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

// NATS subjects that the approval service sends messages about.
const (
	// VotingCreatedSubject is the subject for voting creation events.
	// The subject is of the form: approval.voting.created
	VotingCreatedSubject = "approval.voting.created"

	// VotingTabulatedSubject is the subject for voting tabulation events.
	// The subject is of the form: approval.voting.tabulated
	VotingTabulatedSubject = "approval.voting.tabulated"

	// VotingDeletedSubject is the subject for voting deletion events.
	// The subject is of the form: approval.voting.deleted
	VotingDeletedSubject = "approval.voting.deleted"

	// RosterParticipantAddedSubject is the subject for meeting roster additions.
	// The subject is of the form: approval.roster.participant_added
	RosterParticipantAddedSubject = "approval.roster.participant_added"
)

// NATS wildcard subjects that the approval service handles messages about.
const (
	// ApprovalAPIQueue is the queue group for the approval API.
	// The subject is of the form: approval.api.queue
	ApprovalAPIQueue = "approval.api.queue"
)

// NATS specific subjects that the approval service handles messages about.
const (
	// GetVotingSubject replies with the voting view of a topic.
	GetVotingSubject = "approval.api.get_voting"
	// CreateVotingSubject creates (or returns) the voting of a topic.
	CreateVotingSubject = "approval.api.create_voting"
	// SubmitVotesSubject applies a ballot batch and replies with the tabulated voting.
	SubmitVotesSubject = "approval.api.submit_votes"
	// GetVoterSubject replies with a single voter view.
	GetVoterSubject = "approval.api.get_voter"
	// ListVotersSubject replies with every voter of a topic.
	ListVotersSubject = "approval.api.list_voters"
)

// MessageAction is a type for the action of an event message.
type MessageAction string

// MessageAction constants for the action of an event message.
const (
	ActionCreated   MessageAction = "created"
	ActionTabulated MessageAction = "tabulated"
	ActionDeleted   MessageAction = "deleted"
)

// EventMessage is the envelope published for every approval event.
type EventMessage struct {
	Action  MessageAction     `json:"action"`
	Headers map[string]string `json:"headers"`
	Data    any               `json:"data"`
}

// VotingEventMessage is the payload of voting lifecycle events.
type VotingEventMessage struct {
	VotingUID string   `json:"voting_uid"`
	TopicUID  string   `json:"topic_uid"`
	Accepted  bool     `json:"accepted"`
	VoterUIDs []string `json:"voter_uids,omitempty"`
}

// RosterEventMessage is the payload sent when a participant joins a meeting roster.
type RosterEventMessage struct {
	MeetingUID     string `json:"meeting_uid"`
	RosterEntryUID string `json:"roster_entry_uid"`
	ParticipantUID string `json:"participant_uid"`
}

// TopicRequest is the request body for topic scoped subjects.
type TopicRequest struct {
	TopicUID string `json:"topic_uid"`
}

// VoterRequest is the request body for the get voter subject.
type VoterRequest struct {
	VoterUID string `json:"voter_uid"`
}

// SubmitVotesRequest is the request body for the submit votes subject and endpoint.
type SubmitVotesRequest struct {
	CompanyUID string    `json:"company_uid"`
	MeetingUID string    `json:"meeting_uid"`
	TopicUID   string    `json:"topic_uid"`
	Ballots    []*Ballot `json:"ballots"`
}

// ReplyError describes a failed request/reply call.
type ReplyError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ReplyMessage is the envelope returned on request/reply subjects.
type ReplyMessage struct {
	Data  any         `json:"data,omitempty"`
	Error *ReplyError `json:"error,omitempty"`
}
