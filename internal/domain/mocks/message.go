// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"encoding/json"
	"sync"

	"github.com/stretchr/testify/mock"
)

// MockMessage is a NATS request for handler tests. Replies passed to
// Respond are recorded and can be read back with Reply.
type MockMessage struct {
	mock.Mock
	data    []byte
	subject string

	mu    sync.Mutex
	reply []byte
}

// NewMockMessage creates a request on subject carrying the raw body.
func NewMockMessage(data []byte, subject string) *MockMessage {
	return &MockMessage{
		data:    data,
		subject: subject,
	}
}

// NewMockRequest creates a request on subject whose body is request encoded
// as JSON. A []byte request is used as the body unchanged.
func NewMockRequest(subject string, request any) (*MockMessage, error) {
	if raw, ok := request.([]byte); ok {
		return NewMockMessage(raw, subject), nil
	}
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	return NewMockMessage(body, subject), nil
}

func (m *MockMessage) Subject() string {
	return m.subject
}

func (m *MockMessage) Data() []byte {
	return m.data
}

func (m *MockMessage) HasReply() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockMessage) Respond(data []byte) error {
	m.mu.Lock()
	m.reply = data
	m.mu.Unlock()

	args := m.Called(data)
	return args.Error(0)
}

// Reply returns the last payload passed to Respond.
func (m *MockMessage) Reply() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reply
}
