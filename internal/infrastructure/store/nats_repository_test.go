// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"sync"
	"testing"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepositories() (domain.Repositories, map[string]*mockNatsKeyValue) {
	mocks := make(map[string]*mockNatsKeyValue, len(KVStoreNames))
	buckets := make(map[string]INatsKeyValue, len(KVStoreNames))
	for _, name := range KVStoreNames {
		mocks[name] = newMockNatsKeyValue()
		buckets[name] = mocks[name]
	}
	return NewNatsRepositories(buckets), mocks
}

func TestNewNatsRepositories_MissingBucket(t *testing.T) {
	repos := NewNatsRepositories(map[string]INatsKeyValue{})

	_, err := repos.Voting.GetByTopic(context.Background(), "topic-1")

	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
}

func TestNatsParticipantRepository(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories()

	owner := &models.Participant{CompanyUID: "company-1", Name: "ООО Ромашка", Share: 60, Type: models.ParticipantTypeOwner, Active: true}
	other := &models.Participant{CompanyUID: "company-2", Name: "Иванов И.И.", Type: models.ParticipantTypeMemberOfBoard, Active: true}
	require.NoError(t, repos.Participant.Create(ctx, owner))
	require.NoError(t, repos.Participant.Create(ctx, other))
	assert.NotEmpty(t, owner.UID)

	got, err := repos.Participant.Get(ctx, owner.UID)
	require.NoError(t, err)
	assert.Equal(t, 60.0, got.Share)

	list, err := repos.Participant.ListByCompany(ctx, "company-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, owner.UID, list[0].UID)

	require.NoError(t, repos.Participant.Delete(ctx, owner.UID))
	_, err = repos.Participant.Get(ctx, owner.UID)
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)

	list, err = repos.Participant.ListByCompany(ctx, "company-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNatsMeetingAndTopicRepository(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories()

	meeting := &models.Meeting{CompanyUID: "company-1", Type: models.MeetingTypeBOD}
	require.NoError(t, repos.Meeting.Create(ctx, meeting))

	meetings, err := repos.Meeting.ListByCompany(ctx, "company-1")
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, models.MeetingTypeBOD, meetings[0].Type)

	first := &models.Topic{MeetingUID: meeting.UID, Title: "Утверждение отчета"}
	second := &models.Topic{MeetingUID: meeting.UID, Title: "Одобрение сделки"}
	require.NoError(t, repos.Topic.Create(ctx, first))
	require.NoError(t, repos.Topic.Create(ctx, second))

	topics, err := repos.Topic.ListByMeeting(ctx, meeting.UID)
	require.NoError(t, err)
	assert.Len(t, topics, 2)

	require.NoError(t, repos.Topic.Delete(ctx, first.UID))
	_, err = repos.Topic.Get(ctx, first.UID)
	assert.ErrorIs(t, err, domain.ErrTopicNotFound)
	err = repos.Topic.Delete(ctx, first.UID)
	assert.ErrorIs(t, err, domain.ErrTopicNotFound)

	require.NoError(t, repos.Meeting.Delete(ctx, meeting.UID))
	_, err = repos.Meeting.Get(ctx, meeting.UID)
	assert.ErrorIs(t, err, domain.ErrMeetingNotFound)
}

func TestNatsMeetingParticipantRepository(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories()
	roster := repos.MeetingParticipant

	entry := &models.MeetingParticipant{MeetingUID: "meeting-1", ParticipantUID: "participant-1"}
	require.NoError(t, roster.Create(ctx, entry))

	t.Run("participant appears once per meeting", func(t *testing.T) {
		err := roster.Create(ctx, &models.MeetingParticipant{MeetingUID: "meeting-1", ParticipantUID: "participant-1"})
		assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)

		require.NoError(t, roster.Create(ctx, &models.MeetingParticipant{MeetingUID: "meeting-2", ParticipantUID: "participant-1"}))
	})

	t.Run("lists entries of a participant", func(t *testing.T) {
		entries, err := roster.ListByParticipant(ctx, "participant-1")
		require.NoError(t, err)
		assert.Len(t, entries, 2)

		entries, err = roster.ListByParticipant(ctx, "participant-2")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("attendance update uses revision", func(t *testing.T) {
		got, revision, err := roster.GetWithRevision(ctx, entry.UID)
		require.NoError(t, err)

		got.Attended = true
		require.NoError(t, roster.Update(ctx, got, revision))

		err = roster.Update(ctx, got, revision)
		assert.ErrorIs(t, err, domain.ErrRevisionMismatch)

		reloaded, err := roster.Get(ctx, entry.UID)
		require.NoError(t, err)
		assert.True(t, reloaded.Attended)
	})

	t.Run("delete frees the participant slot", func(t *testing.T) {
		require.NoError(t, roster.Delete(ctx, entry.UID))

		entries, err := roster.ListByMeeting(ctx, "meeting-1")
		require.NoError(t, err)
		assert.Empty(t, entries)

		_, err = roster.Get(ctx, entry.UID)
		assert.ErrorIs(t, err, domain.ErrRosterEntryNotFound)

		byParticipant, err := roster.ListByParticipant(ctx, "participant-1")
		require.NoError(t, err)
		require.Len(t, byParticipant, 1)
		assert.Equal(t, "meeting-2", byParticipant[0].MeetingUID)

		assert.NoError(t, roster.Create(ctx, &models.MeetingParticipant{MeetingUID: "meeting-1", ParticipantUID: "participant-1"}))
	})
}

func TestNatsVotingRepository(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories()

	_, err := repos.Voting.GetByTopic(ctx, "topic-1")
	assert.ErrorIs(t, err, domain.ErrVotingNotFound)

	voting := &models.Voting{UID: "voting-1", TopicUID: "topic-1"}
	require.NoError(t, repos.Voting.Create(ctx, voting))

	err = repos.Voting.Create(ctx, &models.Voting{UID: "voting-2", TopicUID: "topic-1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	err = repos.Voting.Create(ctx, &models.Voting{UID: "voting-3"})
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))

	got, revision, err := repos.Voting.GetByTopicWithRevision(ctx, "topic-1")
	require.NoError(t, err)
	assert.Equal(t, "voting-1", got.UID)

	got.Accepted = true
	require.NoError(t, repos.Voting.Update(ctx, got, revision))
	assert.ErrorIs(t, repos.Voting.Update(ctx, got, revision), domain.ErrRevisionMismatch)

	reloaded, err := repos.Voting.GetByTopic(ctx, "topic-1")
	require.NoError(t, err)
	assert.True(t, reloaded.Accepted)

	require.NoError(t, repos.Voting.DeleteByTopic(ctx, "topic-1"))
	assert.ErrorIs(t, repos.Voting.DeleteByTopic(ctx, "topic-1"), domain.ErrVotingNotFound)
}

func TestNatsVoterRepository(t *testing.T) {
	ctx := context.Background()
	repos, mocks := newTestRepositories()
	voters := repos.Voter

	newVoter := func(votingUID, topicUID, entryUID string) *models.Voter {
		return &models.Voter{VotingUID: votingUID, TopicUID: topicUID, RosterEntryUID: entryUID, Vote: models.VoteTypeNotVoted}
	}

	t.Run("one voter per roster entry and voting", func(t *testing.T) {
		require.NoError(t, voters.Create(ctx, newVoter("voting-1", "topic-1", "entry-1")))
		require.NoError(t, voters.Create(ctx, newVoter("voting-1", "topic-1", "entry-2")))
		require.NoError(t, voters.Create(ctx, newVoter("voting-2", "topic-2", "entry-1")))

		err := voters.Create(ctx, newVoter("voting-1", "topic-1", "entry-1"))
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)

		byVoting, err := voters.ListByVoting(ctx, "voting-1")
		require.NoError(t, err)
		assert.Len(t, byVoting, 2)

		byTopic, err := voters.ListByTopic(ctx, "topic-2")
		require.NoError(t, err)
		require.Len(t, byTopic, 1)
		assert.Equal(t, "entry-1", byTopic[0].RosterEntryUID)
	})

	t.Run("concurrent creates keep one voter", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			created int
		)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := voters.Create(ctx, newVoter("voting-3", "topic-3", "entry-9")); err == nil {
					mu.Lock()
					created++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, created)
		list, err := voters.ListByVoting(ctx, "voting-3")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("vote update uses revision", func(t *testing.T) {
		list, err := voters.ListByVoting(ctx, "voting-2")
		require.NoError(t, err)
		require.Len(t, list, 1)

		voter, revision, err := voters.GetWithRevision(ctx, list[0].UID)
		require.NoError(t, err)
		voter.Vote = models.VoteTypeYes
		voter.RelatedPartyDeal = true
		require.NoError(t, voters.Update(ctx, voter, revision))
		assert.ErrorIs(t, voters.Update(ctx, voter, revision), domain.ErrRevisionMismatch)

		reloaded, err := voters.Get(ctx, voter.UID)
		require.NoError(t, err)
		assert.Equal(t, models.VoteTypeYes, reloaded.Vote)
		assert.True(t, reloaded.RelatedPartyDeal)
	})

	t.Run("delete by voting removes voters and claims", func(t *testing.T) {
		require.NoError(t, voters.DeleteByVoting(ctx, "voting-1"))

		list, err := voters.ListByVoting(ctx, "voting-1")
		require.NoError(t, err)
		assert.Empty(t, list)

		remaining, err := voters.ListByVoting(ctx, "voting-2")
		require.NoError(t, err)
		assert.Len(t, remaining, 1)

		assert.NoError(t, voters.Create(ctx, newVoter("voting-1", "topic-1", "entry-1")))
	})

	t.Run("missing voter", func(t *testing.T) {
		_, err := voters.Get(ctx, "voter-404")
		assert.ErrorIs(t, err, domain.ErrVoterNotFound)
		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	})

	assert.NotEmpty(t, mocks[KVStoreNameVoters].data)
}
