// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

// MeetingParticipant is a roster entry: one participant attending one meeting.
// Voters reference the roster entry, not the bare participant.
type MeetingParticipant struct {
	UID            string     `json:"uid"`
	MeetingUID     string     `json:"meeting_uid"`
	ParticipantUID string     `json:"participant_uid"`
	Attended       bool       `json:"attended"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// RosterEntry is a roster entry joined with the participant fields that
// voting needs.
type RosterEntry struct {
	UID               string  `json:"uid"`
	ParticipantUID    string  `json:"participant_uid"`
	ParticipantShare  float64 `json:"participant_share"`
	ParticipantActive bool    `json:"participant_active"`
	Attended          bool    `json:"attended"`
}
