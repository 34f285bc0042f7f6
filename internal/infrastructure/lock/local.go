// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package lock

import (
	"context"
	"sync"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
)

// LocalLocker is an in-process keyed mutex. Waiters give up when their
// context is done.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker creates a new in-process topic locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]*slot)}
}

// Lock blocks until the topic is free or ctx is done.
func (l *LocalLocker) Lock(ctx context.Context, topicUID string) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[topicUID]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[topicUID] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(topicUID, s)
		return nil, domain.NewUnavailableError("timed out waiting for topic lock", ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.unref(topicUID, s)
		})
	}, nil
}

func (l *LocalLocker) unref(topicUID string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, topicUID)
	}
}

// held reports how many topics currently have holders or waiters.
func (l *LocalLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
