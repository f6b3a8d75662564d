package repository

import (
	"context"
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"

	authDomain "github.com/allisson/keyrelay/internal/auth/domain"
	apperrors "github.com/allisson/keyrelay/internal/errors"
)

var bucketApps = []byte("apps")

// BoltAppRepository implements app persistence on a bbolt key-value store.
// Records are JSON-encoded App structs keyed by API key hash, so plain
// keys never touch the database file.
type BoltAppRepository struct {
	db *bolt.DB
}

// NewBoltAppRepository opens the bbolt database at the given path and
// ensures the apps bucket exists. The caller owns the returned repository
// and must Close it on shutdown.
func NewBoltAppRepository(path string) (*BoltAppRepository, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open app store")
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketApps)
		return err
	})
	if err != nil {
		db.Close()
		return nil, apperrors.Wrap(err, "failed to create apps bucket")
	}

	return &BoltAppRepository{db: db}, nil
}

// Close closes the underlying database.
func (b *BoltAppRepository) Close() error {
	return b.db.Close()
}

// Ping verifies the apps bucket is readable. Used by readiness probes.
func (b *BoltAppRepository) Ping() error {
	return b.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketApps) == nil {
			return apperrors.New("apps bucket missing")
		}
		return nil
	})
}

// Create stores a new app keyed by its API key hash.
func (b *BoltAppRepository) Create(_ context.Context, app *authDomain.App) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(app)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketApps).Put([]byte(app.KeyHash), data)
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to create app")
	}
	return nil
}

// RecordAccess marks the app as accessed. The read, increment, and write
// happen inside one transaction, so concurrent authentications with the same
// key never lose access counts. Returns the updated record, or
// ErrAppNotFound if the app was revoked in the meantime.
func (b *BoltAppRepository) RecordAccess(
	_ context.Context,
	keyHash string,
	now time.Time,
) (*authDomain.App, error) {
	var app authDomain.App
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketApps)
		data := bucket.Get([]byte(keyHash))
		if data == nil {
			return authDomain.ErrAppNotFound
		}
		if err := json.Unmarshal(data, &app); err != nil {
			return err
		}
		app.Touch(now)
		updated, err := json.Marshal(&app)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(keyHash), updated)
	})
	if apperrors.Is(err, authDomain.ErrAppNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to record app access")
	}
	return &app, nil
}

// GetByKeyHash retrieves an app by its API key hash.
// Returns ErrAppNotFound if not found.
func (b *BoltAppRepository) GetByKeyHash(_ context.Context, keyHash string) (*authDomain.App, error) {
	var app authDomain.App
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketApps).Get([]byte(keyHash))
		if data == nil {
			return authDomain.ErrAppNotFound
		}
		return json.Unmarshal(data, &app)
	})
	if apperrors.Is(err, authDomain.ErrAppNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get app")
	}
	return &app, nil
}

// List returns all registered apps.
func (b *BoltAppRepository) List(_ context.Context) ([]*authDomain.App, error) {
	var apps []*authDomain.App
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketApps).ForEach(func(_, v []byte) error {
			var app authDomain.App
			if err := json.Unmarshal(v, &app); err != nil {
				return err
			}
			apps = append(apps, &app)
			return nil
		})
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list apps")
	}
	return apps, nil
}

// DeleteByName removes every app registered under the given name and
// returns how many records were deleted. Names are not unique, so a single
// revocation can remove multiple credentials.
func (b *BoltAppRepository) DeleteByName(_ context.Context, name string) (int, error) {
	deleted := 0
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketApps)

		var keys [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			var app authDomain.App
			if err := json.Unmarshal(v, &app); err != nil {
				return err
			}
			if app.Name == name {
				key := make([]byte, len(k))
				copy(key, k)
				keys = append(keys, key)
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, key := range keys {
			if err := bucket.Delete(key); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete apps")
	}
	return deleted, nil
}
