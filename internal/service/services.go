// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/metrics"
)

// Services bundles every service of the approval domain over one set of
// repositories.
type Services struct {
	Participant *ParticipantService
	Meeting     *MeetingService
	Topic       *TopicService
	Roster      *RosterService
	Voting      *VotingService
	Voter       *VoterService
}

// NewServices wires the services together.
func NewServices(
	repos domain.Repositories,
	messageBuilder domain.MessageBuilder,
	locker domain.TopicLocker,
	m *metrics.Metrics,
	config ServiceConfig,
) *Services {
	config = config.withDefaults()
	voterService := NewVoterService(repos.Meeting, repos.Topic, repos.MeetingParticipant, repos.Voter, m, config)
	votingService := NewVotingService(VotingServiceDeps{
		Repositories:   repos,
		VoterService:   voterService,
		MessageBuilder: messageBuilder,
		Locker:         locker,
		Metrics:        m,
	}, config)
	topicService := NewTopicService(repos.Meeting, repos.Topic, votingService)

	return &Services{
		Participant: NewParticipantService(repos.Participant, repos.MeetingParticipant),
		Meeting:     NewMeetingService(repos.Meeting, repos.MeetingParticipant, repos.Topic, topicService),
		Topic:       topicService,
		Roster:      NewRosterService(repos.Meeting, repos.Participant, repos.MeetingParticipant, votingService, messageBuilder),
		Voting:      votingService,
		Voter:       voterService,
	}
}

// ServiceReady reports whether every service is ready.
func (s *Services) ServiceReady() bool {
	for _, svc := range []Service{s.Participant, s.Meeting, s.Topic, s.Roster, s.Voting, s.Voter} {
		if !svc.ServiceReady() {
			return false
		}
	}
	return true
}
