// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"fmt"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
)

// NewNatsRepositories wires every NATS repository to its bucket. Buckets are
// looked up by the KVStoreName* constants; a missing bucket leaves the
// repository unavailable instead of failing construction.
func NewNatsRepositories(buckets map[string]INatsKeyValue) domain.Repositories {
	return domain.Repositories{
		Participant:        NewNatsParticipantRepository(buckets[KVStoreNameParticipants]),
		Meeting:            NewNatsMeetingRepository(buckets[KVStoreNameMeetings]),
		Topic:              NewNatsTopicRepository(buckets[KVStoreNameTopics]),
		MeetingParticipant: NewNatsMeetingParticipantRepository(buckets[KVStoreNameMeetingParticipants]),
		Voting:             NewNatsVotingRepository(buckets[KVStoreNameVotings]),
		Voter:              NewNatsVoterRepository(buckets[KVStoreNameVoters]),
	}
}

// withSentinel rewrites a generic not-found error from the base repository
// into one carrying the entity's sentinel. Other errors pass through.
func withSentinel(err error, sentinel error, format string, args ...any) error {
	if err == nil || domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		return err
	}
	return domain.NewNotFoundError(fmt.Sprintf(format, args...), sentinel, err)
}
