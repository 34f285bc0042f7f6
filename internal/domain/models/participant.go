// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"time"
)

// ParticipantType is the role a participant holds in its company.
type ParticipantType string

const (
	// ParticipantTypeOwner holds an ownership share and votes at general meetings.
	ParticipantTypeOwner ParticipantType = "OWNER"
	// ParticipantTypeMemberOfBoard sits on the board and votes at BOD meetings.
	ParticipantTypeMemberOfBoard ParticipantType = "MEMBER_OF_BOARD"
)

// ParseParticipantType resolves a participant type code.
func ParseParticipantType(code string) (ParticipantType, error) {
	switch t := ParticipantType(code); t {
	case ParticipantTypeOwner, ParticipantTypeMemberOfBoard:
		return t, nil
	default:
		return "", fmt.Errorf("invalid participant type %q: %w", code, ErrUnknownLabel)
	}
}

// EligibleFor reports whether participants of this type may join a meeting of
// the given type.
func (t ParticipantType) EligibleFor(meetingType MeetingType) bool {
	switch meetingType {
	case MeetingTypeBOD:
		return t == ParticipantTypeMemberOfBoard
	case MeetingTypeFMS, MeetingTypeFMP:
		return t == ParticipantTypeOwner
	default:
		return false
	}
}

// Participant is an owner or board member of a company.
type Participant struct {
	UID        string          `json:"uid"`
	CompanyUID string          `json:"company_uid"`
	Name       string          `json:"name"`
	Share      float64         `json:"share"`
	Type       ParticipantType `json:"type"`
	Active     bool            `json:"active"`
	CreatedAt  *time.Time      `json:"created_at,omitempty"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}
