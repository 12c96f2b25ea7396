// Package settings persists gallery parameters between runs in a BoltDB database.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"gallerywall/internal/config"
)

const (
	dbFileName     = "gallerywall.db"
	appName        = "gallerywall"
	SettingsBucket = "Settings" // Bucket name for persisted parameters.
	galleryKey     = "gallery"
)

// Store manages the settings database.
type Store struct {
	db   *bolt.DB
	path string
	log  logrus.FieldLogger
}

// DefaultDir returns the per-user directory holding the database, creating it if needed.
func DefaultDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		logrus.WithError(err).Warn("no user config dir, using current dir")
		return ".", nil
	}
	dir := filepath.Join(configDir, appName)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}
	return dir, nil
}

// Open creates or opens the settings database in dbDir, or in DefaultDir when dbDir is empty.
func Open(dbDir string, log logrus.FieldLogger) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if dbDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dbDir = dir
	}

	dbPath := filepath.Join(dbDir, dbFileName)
	log.WithField("path", dbPath).Debug("using settings database")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(SettingsBucket)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", SettingsBucket, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, path: dbPath, log: log}, nil
}

// Path is the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns the saved configuration laid over base. ok is false when nothing was saved yet.
// A saved configuration that no longer validates is ignored with a warning.
func (s *Store) Load(base config.Config) (cfg config.Config, ok bool, err error) {
	var data []byte
	err = s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(SettingsBucket)).Get([]byte(galleryKey)); v != nil {
			data = append([]byte(nil), v...) // only valid inside the transaction
		}
		return nil
	})
	if err != nil || data == nil {
		return base, false, err
	}

	cfg = base
	if err := json.Unmarshal(data, &cfg); err != nil {
		return base, false, fmt.Errorf("failed to decode saved settings: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		s.log.WithError(err).Warn("ignoring invalid saved settings")
		return base, false, nil
	}
	return cfg, true, nil
}

// Save stores cfg, replacing any previous value.
func (s *Store) Save(cfg config.Config) error {
	if err := config.Validate(cfg); err != nil {
		return err
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(SettingsBucket)).Put([]byte(galleryKey), data)
	})
}

// Reset deletes the saved configuration.
func (s *Store) Reset() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(SettingsBucket)).Delete([]byte(galleryKey))
	})
}
