package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"linksift/internal/domain"
)

// BadgerRepository implements the Repository interface using BadgerDB.
type BadgerRepository struct {
	db  *badger.DB
	log logrus.FieldLogger
}

// NewBadgerRepository opens the database at dbPath.
func NewBadgerRepository(dbPath string, logger logrus.FieldLogger) (*BadgerRepository, error) {
	return open(badger.DefaultOptions(dbPath), logger)
}

// NewInMemoryBadgerRepository opens a BadgerDB that lives only in memory.
// Used by the CLI and tests.
func NewInMemoryBadgerRepository(logger logrus.FieldLogger) (*BadgerRepository, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), logger)
}

func open(opts badger.Options, logger logrus.FieldLogger) (*BadgerRepository, error) {
	opts.Logger = &badgerLogger{logger.WithField("component", "badgerdb")}

	db, err := badger.Open(opts)
	if err != nil {
		logger.WithError(err).Error("Failed to open BadgerDB")
		return nil, fmt.Errorf("failed to open badger db at %q: %w", opts.Dir, err)
	}
	logger.WithField("in_memory", opts.InMemory).Info("BadgerDB opened")

	return &BadgerRepository{
		db:  db,
		log: logger.WithField("component", "repository"),
	}, nil
}

// Close closes the BadgerDB database connection.
func (r *BadgerRepository) Close() error {
	r.log.Info("Closing BadgerDB...")
	if err := r.db.Close(); err != nil {
		r.log.WithError(err).Error("Error closing BadgerDB")
		return err
	}
	r.log.Info("BadgerDB closed.")
	return nil
}

// linkKey formats the key of one entry: user:{userID}:url:{id}
func linkKey(userID int64, id string) []byte {
	return []byte(fmt.Sprintf("user:%d:url:%s", userID, id))
}

// userPrefix formats the prefix of all entries of a user: user:{userID}:url:
func userPrefix(userID int64) []byte {
	return []byte(fmt.Sprintf("user:%d:url:", userID))
}

// ReplaceList swaps the user's list in a single transaction.
func (r *BadgerRepository) ReplaceList(ctx context.Context, userID int64, urls []domain.ExtractedURL) error {
	log := r.log.WithFields(logrus.Fields{
		"user_id":   userID,
		"url_count": len(urls),
	})

	values := make([][]byte, len(urls))
	for i, u := range urls {
		b, err := json.Marshal(u)
		if err != nil {
			log.WithError(err).Error("Failed to marshal link to JSON")
			return fmt.Errorf("failed to marshal link %s: %w", u.ID, err)
		}
		values[i] = b
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		if err := deletePrefix(txn, userPrefix(userID)); err != nil {
			return err
		}
		for i, u := range urls {
			if err := txn.SetEntry(badger.NewEntry(linkKey(userID, u.ID), values[i])); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to replace link list")
		return fmt.Errorf("failed to replace list for user %d: %w", userID, err)
	}

	log.Debug("Link list replaced")
	return nil
}

// GetList returns the user's entries ordered by OriginalIndex.
func (r *BadgerRepository) GetList(ctx context.Context, userID int64) ([]domain.ExtractedURL, error) {
	log := r.log.WithField("user_id", userID)

	var links []domain.ExtractedURL
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := userPrefix(userID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var link domain.ExtractedURL
				if err := json.Unmarshal(val, &link); err != nil {
					return fmt.Errorf("failed to unmarshal link data for key %s: %w", item.Key(), err)
				}
				links = append(links, link)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to retrieve links from BadgerDB")
		return nil, fmt.Errorf("failed to get links for user %d: %w", userID, err)
	}

	sort.Slice(links, func(i, j int) bool {
		return links[i].OriginalIndex < links[j].OriginalIndex
	})

	log.WithField("link_count", len(links)).Debug("Links retrieved")
	return links, nil
}

// UpdateLink overwrites a stored entry.
func (r *BadgerRepository) UpdateLink(ctx context.Context, userID int64, link domain.ExtractedURL) error {
	log := r.log.WithFields(logrus.Fields{
		"user_id": userID,
		"id":      link.ID,
	})

	b, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to marshal link %s: %w", link.ID, err)
	}

	key := linkKey(userID, link.ID)
	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return txn.SetEntry(badger.NewEntry(key, b))
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.WithError(err).Error("Failed to update link")
		}
		return fmt.Errorf("failed to update link %s for user %d: %w", link.ID, userID, err)
	}

	log.Debug("Link updated")
	return nil
}

// DeleteLink removes one entry of a user.
func (r *BadgerRepository) DeleteLink(ctx context.Context, userID int64, id string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(linkKey(userID, id))
	})
	if err != nil {
		r.log.WithError(err).WithField("user_id", userID).Error("Failed to delete link from BadgerDB")
		return fmt.Errorf("failed to delete link %s for user %d: %w", id, userID, err)
	}
	return nil
}

// Clear removes every entry of a user.
func (r *BadgerRepository) Clear(ctx context.Context, userID int64) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return deletePrefix(txn, userPrefix(userID))
	})
	if err != nil {
		r.log.WithError(err).WithField("user_id", userID).Error("Failed to clear link list")
		return fmt.Errorf("failed to clear list for user %d: %w", userID, err)
	}
	return nil
}

func deletePrefix(txn *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false

	var keys [][]byte
	it := txn.NewIterator(opts)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Errorf(f, v...)
}
func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warningf(f, v...)
}
func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
