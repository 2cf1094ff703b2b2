package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. It doubles
// as the topic name.
type EventType string

const (
	EventPublishLeaderboard EventType = "publish-leaderboard"
)

// PublishLeaderboardMessage asks a worker to post a board to the chat channel.
type PublishLeaderboardMessage struct {
	Board       string `msgpack:"board"`
	DryRun      bool   `msgpack:"dry_run"`
	RequestedAt int64  `msgpack:"requested_at"`
}

// PushEnvelope is the JSON body of a pubsub push delivery.
type PushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		ID   string `json:"messageId"`
		Data string `json:"data"`
	} `json:"message"`
}
