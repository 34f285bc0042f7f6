// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import "context"

// TopicLocker serializes roster builds and tabulations of a single topic.
// The returned release function must always be called.
type TopicLocker interface {
	Lock(ctx context.Context, topicUID string) (release func(), err error)
}
