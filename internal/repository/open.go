package repository

import (
	"context"

	"skinsense-backend/internal/database"
)

// Open parses a DATABASE_URL and returns the matching store, not yet initialised.
func Open(ctx context.Context, databaseURL string) (FeedbackStore, database.Target, error) {
	target, err := database.Parse(databaseURL)
	if err != nil {
		return nil, target, err
	}

	if target.Driver == database.DriverMongo {
		db, err := database.ConnectMongo(ctx, target.DSN)
		if err != nil {
			return nil, target, err
		}
		return NewMongoFeedbackRepo(db), target, nil
	}

	db, err := database.OpenSQL(ctx, target)
	if err != nil {
		return nil, target, err
	}
	repo, err := NewSQLFeedbackRepo(db, target.Driver)
	if err != nil {
		db.Close()
		return nil, target, err
	}
	return repo, target, nil
}
