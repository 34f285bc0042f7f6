// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

// Topic is an agenda item of a meeting. Every topic owns exactly one voting.
type Topic struct {
	UID        string     `json:"uid"`
	MeetingUID string     `json:"meeting_uid"`
	Title      string     `json:"title"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}
