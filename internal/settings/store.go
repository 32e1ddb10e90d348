// Package settings holds BucketDesk's two persisted records, the storage
// connection settings and the application preferences, and forwards object
// operations to the storage collaborator configured from them.
//
// A Store is the application context: create it once at startup, Load it,
// and pass it to whatever needs settings. Every edit is written through to
// the Persister immediately.
package settings

//go:generate mockgen --destination=storage.mock.go --package=settings . Storage

import (
	"context"
	"sync"
	"time"

	"github.com/koustreak/BucketDesk/internal/errs"
	"github.com/koustreak/BucketDesk/internal/filestore"
	"github.com/koustreak/BucketDesk/internal/keygen"
	"github.com/koustreak/BucketDesk/internal/logger"
)

// ErrCheckFailed is returned by Test whatever the underlying failure was.
var ErrCheckFailed = errs.New(errs.ErrKindCheckFailed, "error occurred while checking if object exists")

// Persister loads and saves named records.
type Persister interface {
	Load(name string, v any) (bool, error)
	Save(name string, v any) error
}

// Storage is the object storage collaborator, bound to one set of settings.
type Storage interface {
	ListObjects(ctx context.Context, onlyOnce bool) ([]filestore.ObjectInfo, error)
	DeleteObject(ctx context.Context, key string) error
	UploadObject(ctx context.Context, file filestore.File, key string) (*filestore.UploadResult, error)
	PresignGetURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Close() error
}

// Connector opens a Storage for the given settings.
type Connector func(ctx context.Context, s StorageSettings) (Storage, error)

// Store owns the current settings records.
type Store struct {
	mu      sync.RWMutex
	storage StorageSettings
	prefs   AppPreferences

	persist Persister
	connect Connector
	keys    keygen.Generator
	log     *logger.Logger
}

// Option customises a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithKeyGenerator replaces the generator behind GenerateKey.
func WithKeyGenerator(g keygen.Generator) Option {
	return func(s *Store) { s.keys = g }
}

// NewStore returns a Store holding default records. Call Load to read the
// persisted ones.
func NewStore(p Persister, connect Connector, opts ...Option) *Store {
	s := &Store{
		storage: DefaultStorageSettings(),
		prefs:   DefaultAppPreferences(),
		persist: p,
		connect: connect,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces both records with their persisted values. A missing field
// keeps its default; a missing record is written out with its defaults.
func (s *Store) Load() error {
	storage := DefaultStorageSettings()
	if err := s.loadOrCreate(StorageRecord, &storage); err != nil {
		return err
	}

	prefs := DefaultAppPreferences()
	if err := s.loadOrCreate(PreferencesRecord, &prefs); err != nil {
		return err
	}

	s.mu.Lock()
	s.storage, s.prefs = storage, prefs
	s.mu.Unlock()

	return nil
}

func (s *Store) loadOrCreate(name string, v any) error {
	found, err := s.persist.Load(name, v)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	s.log.With().Str("record", name).Logger().Debug("record not found, writing defaults")
	return s.save(name, v)
}

// Storage returns a copy of the current storage settings.
func (s *Store) Storage() StorageSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storage
}

// Preferences returns a copy of the current application preferences.
func (s *Store) Preferences() AppPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// UpdateStorage edits the storage settings in place and persists them.
func (s *Store) UpdateStorage(edit func(*StorageSettings)) error {
	s.mu.Lock()
	edit(&s.storage)
	snapshot := s.storage
	s.mu.Unlock()

	return s.save(StorageRecord, snapshot)
}

// UpdatePreferences edits the preferences in place and persists them.
func (s *Store) UpdatePreferences(edit func(*AppPreferences)) error {
	s.mu.Lock()
	edit(&s.prefs)
	snapshot := s.prefs
	s.mu.Unlock()

	return s.save(PreferencesRecord, snapshot)
}

// ResetStorage restores the default storage settings.
func (s *Store) ResetStorage() error {
	return s.UpdateStorage(func(st *StorageSettings) { *st = DefaultStorageSettings() })
}

// ResetPreferences restores the default preferences.
func (s *Store) ResetPreferences() error {
	return s.UpdatePreferences(func(p *AppPreferences) { *p = DefaultAppPreferences() })
}

func (s *Store) save(name string, v any) error {
	if err := s.persist.Save(name, v); err != nil {
		s.log.ErrorWith("failed to persist settings", err, map[string]any{"record": name})
		return err
	}
	return nil
}

// Validity validates both records as they are now.
func (s *Store) Validity() Validity {
	s.mu.RLock()
	storage, prefs := s.storage, s.prefs
	s.mu.RUnlock()

	return ComputeValidity(storage, prefs)
}

// GenerateKey builds an object key for fileName from the current key
// template, convert type and key prefix.
func (s *Store) GenerateKey(fileName string) string {
	s.mu.RLock()
	opts := keygen.Options{
		Type:        s.prefs.ConvertType,
		KeyTemplate: s.prefs.KeyTemplate,
		Prefix:      s.storage.KeyPrefix,
	}
	s.mu.RUnlock()

	return s.keys.Generate(fileName, opts)
}

// Test checks that the current settings can list the bucket.
//
// Any failure is reported as ErrCheckFailed. The underlying error is logged
// but not returned.
func (s *Store) Test(ctx context.Context) error {
	current := s.Storage()
	log := s.log.With().Str("endpoint", current.Endpoint).Str("bucket", current.Bucket).Logger()

	log.Debug("checking if granted to list")

	if err := s.list(ctx, current); err != nil {
		log.WarnWith("connectivity check failed", err, nil)
		return ErrCheckFailed
	}

	log.Debug("granted to list")
	return nil
}

func (s *Store) list(ctx context.Context, current StorageSettings) error {
	storage, err := s.connect(ctx, current)
	if err != nil {
		return err
	}
	defer storage.Close()

	_, err = storage.ListObjects(ctx, true)
	return err
}

// List lists the bucket; onlyOnce stops after the first page.
func (s *Store) List(ctx context.Context, onlyOnce bool) ([]filestore.ObjectInfo, error) {
	storage, err := s.connect(ctx, s.Storage())
	if err != nil {
		return nil, err
	}
	defer storage.Close()

	return storage.ListObjects(ctx, onlyOnce)
}

// Delete removes key from the bucket.
func (s *Store) Delete(ctx context.Context, key string) error {
	storage, err := s.connect(ctx, s.Storage())
	if err != nil {
		return err
	}
	defer storage.Close()

	return storage.DeleteObject(ctx, key)
}

// Upload stores file under key. Callers normally resolve key with
// GenerateKey first; an empty key lets the collaborator generate one.
func (s *Store) Upload(ctx context.Context, file filestore.File, key string) (*filestore.UploadResult, error) {
	storage, err := s.connect(ctx, s.Storage())
	if err != nil {
		return nil, err
	}
	defer storage.Close()

	return storage.UploadObject(ctx, file, key)
}

// PresignURL returns a download URL for key that expires after ttl.
func (s *Store) PresignURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	storage, err := s.connect(ctx, s.Storage())
	if err != nil {
		return "", err
	}
	defer storage.Close()

	return storage.PresignGetURL(ctx, key, ttl)
}

// ResolvePublicURL returns the public URL of key. It performs no I/O.
func (s *Store) ResolvePublicURL(key string) string {
	return filestore.ResolveKeyToURL(key, *s.Storage().FilestoreConfig())
}
