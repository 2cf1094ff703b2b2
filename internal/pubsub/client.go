package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New connects to pubsub for the given project.
func New(ctx context.Context, projectID string) (PubSubClient, error) {
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	teardown := func() {
		if err := pubSubC.Close(); err != nil {
			log.Error("Failed to close pubsub client", "error", err)
		}
	}

	return &client{
		client:   pubSubC,
		teardown: teardown,
	}, nil
}

// SendMessage publishes data encoded as MessagePack and waits for the
// server to acknowledge it.
func (c *client) SendMessage(ctx context.Context, topic EventType, data any) error {
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	message := &pubsub.Message{
		Data: msgpackData,
	}
	result := c.client.Topic(string(topic)).Publish(ctx, message)
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return err
	}
	log.Info("SendMessage", "topic", topic, "serverID", serverID)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	return decodePayload(data, returnValue)
}

func (c *client) Close() {
	if c.teardown != nil {
		c.teardown()
	}
}

func decodePayload(data []byte, returnValue any) error {
	// Unmarshal the MessagePack data into the provided pointer struct
	if err := msgpack.Unmarshal(data, returnValue); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	return nil
}

// ReadPush decodes a push delivery body and returns the raw message data.
func ReadPush(r io.Reader) (PushEnvelope, []byte, error) {
	var env PushEnvelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return PushEnvelope{}, nil, fmt.Errorf("invalid push envelope: %w", err)
	}
	raw, err := base64.StdEncoding.DecodeString(env.Message.Data)
	if err != nil {
		return PushEnvelope{}, nil, fmt.Errorf("invalid base64 data: %w", err)
	}
	return env, raw, nil
}

// EncodePush builds a push delivery body for data. Used by tests and the CLI
// to drive the push endpoint directly.
func EncodePush(subscription string, data any) ([]byte, error) {
	payload, err := msgpack.Marshal(data)
	if err != nil {
		return nil, err
	}
	var env PushEnvelope
	env.Subscription = subscription
	env.Message.Data = base64.StdEncoding.EncodeToString(payload)
	return json.Marshal(env)
}
