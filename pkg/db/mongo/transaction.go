package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "roombook/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const transientTransactionLabel = "TransientTransactionError"

type TransactionFunc func(ctx mongo.SessionContext) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client        *mongo.Client
	maxCommitTime time.Duration
}

// NewTransactionManager returns a manager whose commits give up after
// maxCommitTime. Zero leaves the server default.
func NewTransactionManager(client *mongo.Client, maxCommitTime time.Duration) TransactionManager {
	return &mongoTransactionManager{client: client, maxCommitTime: maxCommitTime}
}

// ExecuteTransaction runs fn in a snapshot transaction with majority writes.
// The driver retries fn on transient transaction errors, so fn must be safe
// to run more than once. *AppError values returned by fn pass through as is.
func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(context.WithoutCancel(ctx))

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	if m.maxCommitTime > 0 {
		txnOpts.SetMaxCommitTime(&m.maxCommitTime)
	}

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	}, txnOpts)
	if err == nil {
		return nil
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return fmt.Errorf("transaction failed: %w", err)
}

// IsTransient reports whether err still carries the server's transient
// transaction label, i.e. a write conflict outlasted the driver's retries.
func IsTransient(err error) bool {
	var labeled mongo.LabeledError
	return errors.As(err, &labeled) && labeled.HasErrorLabel(transientTransactionLabel)
}
