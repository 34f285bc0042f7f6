// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
)

// CreateParticipantRequest is the body of POST /companies/{companyUID}/participants.
type CreateParticipantRequest struct {
	Name   string                 `json:"name"`
	Share  float64                `json:"share"`
	Type   models.ParticipantType `json:"type"`
	Active bool                   `json:"active"`
}

// CreateMeetingRequest is the body of POST /companies/{companyUID}/meetings.
type CreateMeetingRequest struct {
	Type         models.MeetingType `json:"type"`
	Date         time.Time          `json:"date"`
	Address      string             `json:"address"`
	ChairmanUID  *string            `json:"chairman_uid"`
	SecretaryUID *string            `json:"secretary_uid"`
}

// AddRosterParticipantRequest is the body of POST /meetings/{meetingUID}/roster.
type AddRosterParticipantRequest struct {
	ParticipantUID string `json:"participant_uid"`
}

// SetAttendanceRequest is the body of PATCH /roster/{entryUID}.
type SetAttendanceRequest struct {
	Attended bool `json:"attended"`
}

// CreateTopicRequest is the body of POST /meetings/{meetingUID}/topics.
type CreateTopicRequest struct {
	Title string `json:"title"`
}

// CreateTopicResponse carries the new topic and the voting opened for it.
type CreateTopicResponse struct {
	Topic  *models.Topic      `json:"topic"`
	Voting *models.VotingView `json:"voting"`
}

func (a *ApprovalAPI) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[CreateParticipantRequest](r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	participant, err := a.services.Participant.CreateParticipant(r.Context(), &models.Participant{
		CompanyUID: chi.URLParam(r, "companyUID"),
		Name:       body.Name,
		Share:      body.Share,
		Type:       body.Type,
		Active:     body.Active,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, participant)
}

func (a *ApprovalAPI) ListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := a.services.Participant.ListParticipants(r.Context(), chi.URLParam(r, "companyUID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, participants)
}

func (a *ApprovalAPI) GetParticipant(w http.ResponseWriter, r *http.Request) {
	participant, err := a.services.Participant.GetParticipant(r.Context(), chi.URLParam(r, "participantUID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, participant)
}

func (a *ApprovalAPI) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	if err := a.services.Participant.DeleteParticipant(r.Context(), chi.URLParam(r, "participantUID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *ApprovalAPI) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[CreateMeetingRequest](r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	meeting, err := a.services.Meeting.CreateMeeting(r.Context(), &models.Meeting{
		CompanyUID:   chi.URLParam(r, "companyUID"),
		Type:         body.Type,
		Date:         body.Date,
		Address:      body.Address,
		ChairmanUID:  body.ChairmanUID,
		SecretaryUID: body.SecretaryUID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, meeting)
}

func (a *ApprovalAPI) ListMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := a.services.Meeting.ListMeetings(r.Context(), chi.URLParam(r, "companyUID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, meetings)
}

func (a *ApprovalAPI) GetMeeting(w http.ResponseWriter, r *http.Request) {
	meeting, err := a.services.Meeting.GetMeeting(r.Context(), chi.URLParam(r, "meetingUID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, meeting)
}

func (a *ApprovalAPI) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	if err := a.services.Meeting.DeleteMeeting(r.Context(), chi.URLParam(r, "meetingUID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *ApprovalAPI) AddRosterParticipant(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[AddRosterParticipantRequest](r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := a.services.Roster.AddParticipant(r.Context(), chi.URLParam(r, "meetingUID"), body.ParticipantUID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, entry)
}

func (a *ApprovalAPI) ListRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := a.services.Roster.ListRoster(r.Context(), chi.URLParam(r, "meetingUID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, roster)
}

func (a *ApprovalAPI) SetAttendance(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[SetAttendanceRequest](r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := a.services.Roster.SetAttendance(r.Context(), chi.URLParam(r, "entryUID"), body.Attended)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, entry)
}

func (a *ApprovalAPI) RemoveRosterParticipant(w http.ResponseWriter, r *http.Request) {
	if err := a.services.Roster.RemoveParticipant(r.Context(), chi.URLParam(r, "entryUID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *ApprovalAPI) CreateTopic(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[CreateTopicRequest](r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	topic, voting, err := a.services.Topic.CreateTopic(r.Context(), &models.Topic{
		MeetingUID: chi.URLParam(r, "meetingUID"),
		Title:      body.Title,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, CreateTopicResponse{Topic: topic, Voting: voting})
}

func (a *ApprovalAPI) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := a.services.Topic.ListTopics(r.Context(), chi.URLParam(r, "meetingUID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, topics)
}

func (a *ApprovalAPI) GetTopic(w http.ResponseWriter, r *http.Request) {
	topic, err := a.services.Topic.GetTopic(r.Context(), chi.URLParam(r, "topicUID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, topic)
}

func (a *ApprovalAPI) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	if err := a.services.Topic.DeleteTopic(r.Context(), chi.URLParam(r, "topicUID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
