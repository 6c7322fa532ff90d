package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pitcrew/pkg/model"
	"google.golang.org/api/iterator"
)

const (
	collectionChatMessages = "chat_messages"
	collectionStatusChecks = "status_checks"

	chatHistoryLimit = 100
	statusCheckLimit = 1000
)

// Firestore implements Repository using Firestore
type Firestore struct {
	client *firestore.Client
}

var _ Repository = (*Firestore)(nil)

// New creates a new Firestore repository
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID),
		)
	}

	return &Firestore{client: client}, nil
}

func (r *Firestore) PutChatMessage(ctx context.Context, msg *model.ChatMessage) error {
	doc := r.client.Collection(collectionChatMessages).Doc(string(msg.ID))
	if _, err := doc.Set(ctx, msg); err != nil {
		return goerr.Wrap(err, "failed to put chat message",
			goerr.V("message_id", msg.ID),
			goerr.V("session_id", msg.SessionID),
		)
	}
	return nil
}

func (r *Firestore) ListChatMessages(ctx context.Context, sessionID string) ([]*model.ChatMessage, error) {
	iter := r.client.Collection(collectionChatMessages).
		Where("session_id", "==", sessionID).
		OrderBy("timestamp", firestore.Asc).
		Limit(chatHistoryLimit).
		Documents(ctx)
	defer iter.Stop()

	messages := []*model.ChatMessage{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list chat messages",
				goerr.V("session_id", sessionID),
			)
		}

		var msg model.ChatMessage
		if err := doc.DataTo(&msg); err != nil {
			return nil, goerr.Wrap(err, "failed to decode chat message",
				goerr.V("doc_id", doc.Ref.ID),
			)
		}
		messages = append(messages, &msg)
	}

	return messages, nil
}

func (r *Firestore) PutStatusCheck(ctx context.Context, check *model.StatusCheck) error {
	doc := r.client.Collection(collectionStatusChecks).Doc(string(check.ID))
	if _, err := doc.Set(ctx, check); err != nil {
		return goerr.Wrap(err, "failed to put status check",
			goerr.V("status_check_id", check.ID),
		)
	}
	return nil
}

func (r *Firestore) ListStatusChecks(ctx context.Context) ([]*model.StatusCheck, error) {
	iter := r.client.Collection(collectionStatusChecks).
		Limit(statusCheckLimit).
		Documents(ctx)
	defer iter.Stop()

	checks := []*model.StatusCheck{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list status checks")
		}

		var check model.StatusCheck
		if err := doc.DataTo(&check); err != nil {
			return nil, goerr.Wrap(err, "failed to decode status check",
				goerr.V("doc_id", doc.Ref.ID),
			)
		}
		checks = append(checks, &check)
	}

	return checks, nil
}

func (r *Firestore) Close() error {
	if err := r.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close firestore client")
	}
	return nil
}
