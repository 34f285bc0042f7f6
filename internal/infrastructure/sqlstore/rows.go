// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package sqlstore

import (
	"time"

	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
)

type participantRow struct {
	UID        string                 `gorm:"primaryKey;size:36"`
	CompanyUID string                 `gorm:"index;size:36;not null"`
	Name       string                 `gorm:"not null"`
	Share      float64                `gorm:"not null"`
	Type       models.ParticipantType `gorm:"size:32;not null"`
	Active     bool                   `gorm:"not null"`
	CreatedAt  *time.Time
	UpdatedAt  *time.Time
}

// TableName returns the table name
func (participantRow) TableName() string { return "participant" }

func newParticipantRow(p *models.Participant) *participantRow {
	return &participantRow{
		UID:        p.UID,
		CompanyUID: p.CompanyUID,
		Name:       p.Name,
		Share:      p.Share,
		Type:       p.Type,
		Active:     p.Active,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (r *participantRow) model() *models.Participant {
	return &models.Participant{
		UID:        r.UID,
		CompanyUID: r.CompanyUID,
		Name:       r.Name,
		Share:      r.Share,
		Type:       r.Type,
		Active:     r.Active,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type meetingRow struct {
	UID          string             `gorm:"primaryKey;size:36"`
	CompanyUID   string             `gorm:"index;size:36;not null"`
	Type         models.MeetingType `gorm:"size:8;not null"`
	Date         time.Time
	Address      string
	ChairmanUID  *string `gorm:"size:36"`
	SecretaryUID *string `gorm:"size:36"`
	CreatedAt    *time.Time
	UpdatedAt    *time.Time
}

// TableName returns the table name
func (meetingRow) TableName() string { return "meeting" }

func newMeetingRow(m *models.Meeting) *meetingRow {
	return &meetingRow{
		UID:          m.UID,
		CompanyUID:   m.CompanyUID,
		Type:         m.Type,
		Date:         m.Date,
		Address:      m.Address,
		ChairmanUID:  m.ChairmanUID,
		SecretaryUID: m.SecretaryUID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r *meetingRow) model() *models.Meeting {
	return &models.Meeting{
		UID:          r.UID,
		CompanyUID:   r.CompanyUID,
		Type:         r.Type,
		Date:         r.Date,
		Address:      r.Address,
		ChairmanUID:  r.ChairmanUID,
		SecretaryUID: r.SecretaryUID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type topicRow struct {
	UID        string `gorm:"primaryKey;size:36"`
	MeetingUID string `gorm:"index;size:36;not null"`
	Title      string `gorm:"not null"`
	CreatedAt  *time.Time
}

// TableName returns the table name
func (topicRow) TableName() string { return "topic" }

func newTopicRow(t *models.Topic) *topicRow {
	return &topicRow{UID: t.UID, MeetingUID: t.MeetingUID, Title: t.Title, CreatedAt: t.CreatedAt}
}

func (r *topicRow) model() *models.Topic {
	return &models.Topic{UID: r.UID, MeetingUID: r.MeetingUID, Title: r.Title, CreatedAt: r.CreatedAt}
}

type meetingParticipantRow struct {
	UID            string `gorm:"primaryKey;size:36"`
	MeetingUID     string `gorm:"uniqueIndex:idx_roster_unique,priority:1;size:36;not null"`
	ParticipantUID string `gorm:"uniqueIndex:idx_roster_unique,priority:2;index:idx_roster_participant;size:36;not null"`
	Attended       bool   `gorm:"not null"`
	Version        uint64 `gorm:"not null;default:1"`
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
}

// TableName returns the table name
func (meetingParticipantRow) TableName() string { return "meeting_participant" }

func newMeetingParticipantRow(e *models.MeetingParticipant) *meetingParticipantRow {
	return &meetingParticipantRow{
		UID:            e.UID,
		MeetingUID:     e.MeetingUID,
		ParticipantUID: e.ParticipantUID,
		Attended:       e.Attended,
		Version:        1,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func (r *meetingParticipantRow) model() *models.MeetingParticipant {
	return &models.MeetingParticipant{
		UID:            r.UID,
		MeetingUID:     r.MeetingUID,
		ParticipantUID: r.ParticipantUID,
		Attended:       r.Attended,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type votingRow struct {
	UID       string `gorm:"primaryKey;size:36"`
	TopicUID  string `gorm:"uniqueIndex;size:36;not null"`
	Accepted  bool   `gorm:"not null"`
	Version   uint64 `gorm:"not null;default:1"`
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// TableName returns the table name
func (votingRow) TableName() string { return "voting" }

func newVotingRow(v *models.Voting) *votingRow {
	return &votingRow{
		UID:       v.UID,
		TopicUID:  v.TopicUID,
		Accepted:  v.Accepted,
		Version:   1,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func (r *votingRow) model() *models.Voting {
	return &models.Voting{
		UID:       r.UID,
		TopicUID:  r.TopicUID,
		Accepted:  r.Accepted,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type voterRow struct {
	UID              string          `gorm:"primaryKey;size:36"`
	VotingUID        string          `gorm:"uniqueIndex:idx_voter_unique,priority:1;size:36;not null"`
	RosterEntryUID   string          `gorm:"uniqueIndex:idx_voter_unique,priority:2;size:36;not null"`
	TopicUID         string          `gorm:"index;size:36;not null"`
	Vote             models.VoteType `gorm:"size:16;not null"`
	RelatedPartyDeal bool            `gorm:"not null"`
	Version          uint64          `gorm:"not null;default:1"`
	CreatedAt        *time.Time
	UpdatedAt        *time.Time
}

// TableName returns the table name
func (voterRow) TableName() string { return "voter" }

func newVoterRow(v *models.Voter) *voterRow {
	return &voterRow{
		UID:              v.UID,
		VotingUID:        v.VotingUID,
		RosterEntryUID:   v.RosterEntryUID,
		TopicUID:         v.TopicUID,
		Vote:             v.Vote,
		RelatedPartyDeal: v.RelatedPartyDeal,
		Version:          1,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

func (r *voterRow) model() *models.Voter {
	return &models.Voter{
		UID:              r.UID,
		VotingUID:        r.VotingUID,
		TopicUID:         r.TopicUID,
		RosterEntryUID:   r.RosterEntryUID,
		Vote:             r.Vote,
		RelatedPartyDeal: r.RelatedPartyDeal,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
