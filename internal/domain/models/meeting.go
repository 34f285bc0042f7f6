// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"time"
)

// MeetingType selects both roster eligibility and the tally rule of a meeting.
type MeetingType string

const (
	// MeetingTypeBOD is a meeting of the board of directors.
	MeetingTypeBOD MeetingType = "BOD"
	// MeetingTypeFMS is a general meeting of shareholders.
	MeetingTypeFMS MeetingType = "FMS"
	// MeetingTypeFMP is a general meeting of participants.
	MeetingTypeFMP MeetingType = "FMP"
)

var meetingTypeLabels = map[MeetingType]string{
	MeetingTypeBOD: "Заседание совета директоров",
	MeetingTypeFMS: "Общее собрание акционеров",
	MeetingTypeFMP: "Общее собрание участников",
}

// Label returns the human readable meeting type name.
func (t MeetingType) Label() string {
	return meetingTypeLabels[t]
}

// ParseMeetingType resolves a meeting type code (BOD, FMS or FMP).
func ParseMeetingType(code string) (MeetingType, error) {
	t := MeetingType(code)
	if _, ok := meetingTypeLabels[t]; !ok {
		return "", fmt.Errorf("invalid meeting type %q: %w", code, ErrUnknownLabel)
	}
	return t, nil
}

// Meeting is the store representation of a company meeting.
type Meeting struct {
	UID          string      `json:"uid"`
	CompanyUID   string      `json:"company_uid"`
	Type         MeetingType `json:"type"`
	Date         time.Time   `json:"date"`
	Address      string      `json:"address,omitempty"`
	ChairmanUID  *string     `json:"chairman_uid,omitempty"`
	SecretaryUID *string     `json:"secretary_uid,omitempty"`
	CreatedAt    *time.Time  `json:"created_at,omitempty"`
	UpdatedAt    *time.Time  `json:"updated_at,omitempty"`
}
