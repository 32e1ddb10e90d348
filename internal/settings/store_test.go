package settings

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/koustreak/BucketDesk/internal/errs"
	"github.com/koustreak/BucketDesk/internal/filestore"
	"github.com/koustreak/BucketDesk/internal/keygen"
	"github.com/koustreak/BucketDesk/internal/kvfile"
	"github.com/koustreak/BucketDesk/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestStore(t *testing.T, storage Storage, opts ...Option) (*Store, *kvfile.File) {
	t.Helper()

	file := kvfile.Open(filepath.Join(t.TempDir(), "settings.yaml"))
	connect := func(context.Context, StorageSettings) (Storage, error) { return storage, nil }

	s := NewStore(file, connect, opts...)
	require.NoError(t, s.Load())
	return s, file
}

type failingPersister struct{ err error }

func (p failingPersister) Load(string, any) (bool, error) { return false, p.err }
func (p failingPersister) Save(string, any) error         { return p.err }

func TestStore_LoadDefaults(t *testing.T) {
	s, file := newTestStore(t, nil)

	assert.Equal(t, DefaultStorageSettings(), s.Storage())
	assert.Equal(t, DefaultAppPreferences(), s.Preferences())

	var prefs AppPreferences
	found, err := file.Load(PreferencesRecord, &prefs)
	require.NoError(t, err)
	assert.True(t, found, "defaults are written on first load")
	assert.Equal(t, DefaultAppPreferences(), prefs)
}

func TestStore_LoadPersisted(t *testing.T) {
	file := kvfile.Open(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, file.Save(StorageRecord, validStorage()))
	require.NoError(t, file.Save(PreferencesRecord, map[string]any{"convertType": "webp"}))

	s := NewStore(file, nil)
	require.NoError(t, s.Load())

	assert.Equal(t, validStorage(), s.Storage())

	prefs := s.Preferences()
	assert.Equal(t, "webp", prefs.ConvertType)
	assert.Equal(t, 0.6, prefs.FuzzySearchThreshold, "missing fields keep defaults")
	assert.Equal(t, keygen.DefaultTemplate, prefs.KeyTemplate)
}

func TestStore_LoadError(t *testing.T) {
	boom := errors.New("disk on fire")
	s := NewStore(failingPersister{err: boom}, nil)

	assert.ErrorIs(t, s.Load(), boom)
	assert.Equal(t, DefaultAppPreferences(), s.Preferences())
}

func TestStore_UpdatePersists(t *testing.T) {
	s, file := newTestStore(t, nil)

	require.NoError(t, s.UpdateStorage(func(st *StorageSettings) { *st = validStorage() }))
	require.NoError(t, s.UpdatePreferences(func(p *AppPreferences) { p.KeyTemplate = "{{filename}}" }))

	reloaded := NewStore(file, nil)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, validStorage(), reloaded.Storage())
	assert.Equal(t, "{{filename}}", reloaded.Preferences().KeyTemplate)
}

func TestStore_Reset(t *testing.T) {
	s, _ := newTestStore(t, nil)

	require.NoError(t, s.UpdateStorage(func(st *StorageSettings) { *st = validStorage() }))
	require.NoError(t, s.UpdatePreferences(func(p *AppPreferences) { p.ConvertType = "png" }))

	require.NoError(t, s.ResetStorage())
	require.NoError(t, s.ResetPreferences())

	assert.Equal(t, DefaultStorageSettings(), s.Storage())
	assert.Equal(t, DefaultAppPreferences(), s.Preferences())
}

func TestStore_SaveErrorIsReturned(t *testing.T) {
	boom := errors.New("read-only file system")
	s := NewStore(failingPersister{err: boom}, nil)

	err := s.UpdateStorage(func(st *StorageSettings) { st.Bucket = "photos" })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "photos", s.Storage().Bucket, "the in-memory edit is kept")
}

func TestStore_ValidityIsRecomputed(t *testing.T) {
	s, _ := newTestStore(t, nil)
	assert.Equal(t, Validity{App: true, Storage: false, All: false}, s.Validity())

	require.NoError(t, s.UpdateStorage(func(st *StorageSettings) { *st = validStorage() }))
	assert.Equal(t, Validity{App: true, Storage: true, All: true}, s.Validity())

	require.NoError(t, s.SetStorageField("bucket", ""))
	assert.Equal(t, Validity{App: true, Storage: false, All: false}, s.Validity())
}

func TestStore_Test(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		storage := NewMockStorage(ctrl)
		storage.EXPECT().ListObjects(gomock.Any(), true).Return([]filestore.ObjectInfo{{Key: "a"}}, nil)
		storage.EXPECT().Close().Return(nil)

		s, _ := newTestStore(t, storage)
		assert.NoError(t, s.Test(context.Background()))
	})

	t.Run("list failure is replaced by a generic error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		storage := NewMockStorage(ctrl)

		cause := errs.Wrap(errs.ErrKindPermissionDenied, "failed to list objects", errors.New("InvalidAccessKeyId: key AKIA123 does not exist"))
		storage.EXPECT().ListObjects(gomock.Any(), true).Return(nil, cause)
		storage.EXPECT().Close().Return(nil)

		buf := &bytes.Buffer{}
		s, _ := newTestStore(t, storage, WithLogger(logger.New(&logger.Config{Level: "warn", Format: "json", Output: buf})))

		err := s.Test(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCheckFailed)
		assert.True(t, errs.IsCheckFailed(err))
		assert.NotErrorIs(t, err, cause)
		assert.NotContains(t, err.Error(), "AKIA123")
		assert.NotContains(t, err.Error(), "InvalidAccessKeyId")
		assert.False(t, errs.IsPermissionDenied(err))

		assert.Contains(t, buf.String(), "AKIA123", "the cause is logged")
	})

	t.Run("connect failure is replaced by a generic error", func(t *testing.T) {
		file := kvfile.Open(filepath.Join(t.TempDir(), "settings.yaml"))
		cause := errors.New("endpoint is required")
		connect := func(context.Context, StorageSettings) (Storage, error) { return nil, cause }

		err := NewStore(file, connect).Test(context.Background())
		assert.ErrorIs(t, err, ErrCheckFailed)
		assert.NotContains(t, err.Error(), cause.Error())
	})
}

func TestStore_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)

	want := []filestore.ObjectInfo{{Key: "imgs/a.png"}, {Key: "imgs/b.png"}}
	storage.EXPECT().ListObjects(gomock.Any(), false).Return(want, nil)
	storage.EXPECT().Close().Return(nil)

	s, _ := newTestStore(t, storage)
	got, err := s.List(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_DelegationPropagatesErrors(t *testing.T) {
	listErr := errs.New(errs.ErrKindPermissionDenied, "failed to list objects")
	deleteErr := errs.New(errs.ErrKindNotFound, "failed to delete object")
	uploadErr := errs.New(errs.ErrKindUploadFailed, "failed to upload file: 403")

	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)
	storage.EXPECT().ListObjects(gomock.Any(), true).Return(nil, listErr)
	storage.EXPECT().DeleteObject(gomock.Any(), "imgs/a.png").Return(deleteErr)
	storage.EXPECT().UploadObject(gomock.Any(), gomock.Any(), "imgs/a.png").Return(nil, uploadErr)
	storage.EXPECT().Close().Return(nil).Times(3)

	s, _ := newTestStore(t, storage)
	ctx := context.Background()

	_, err := s.List(ctx, true)
	assert.Same(t, listErr, err)

	assert.Same(t, deleteErr, s.Delete(ctx, "imgs/a.png"))

	_, err = s.Upload(ctx, filestore.File{Name: "a.png"}, "imgs/a.png")
	assert.Same(t, uploadErr, err)
}

func TestStore_ConnectErrorPropagates(t *testing.T) {
	file := kvfile.Open(filepath.Join(t.TempDir(), "settings.yaml"))
	cause := errs.New(errs.ErrKindInvalidInput, "bucket is required")
	connect := func(context.Context, StorageSettings) (Storage, error) { return nil, cause }

	s := NewStore(file, connect)
	ctx := context.Background()

	_, err := s.List(ctx, false)
	assert.Same(t, cause, err)
	assert.Same(t, cause, s.Delete(ctx, "k"))
	_, err = s.Upload(ctx, filestore.File{}, "k")
	assert.Same(t, cause, err)
}

func TestStore_ConnectUsesCurrentSettings(t *testing.T) {
	file := kvfile.Open(filepath.Join(t.TempDir(), "settings.yaml"))

	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)
	storage.EXPECT().DeleteObject(gomock.Any(), "k").Return(nil)
	storage.EXPECT().Close().Return(nil)

	var seen StorageSettings
	connect := func(_ context.Context, current StorageSettings) (Storage, error) {
		seen = current
		return storage, nil
	}

	s := NewStore(file, connect)
	require.NoError(t, s.UpdateStorage(func(st *StorageSettings) { *st = validStorage() }))
	require.NoError(t, s.Delete(context.Background(), "k"))
	assert.Equal(t, validStorage(), seen)
}

func TestStore_Upload(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)

	file := filestore.File{Name: "cat.png", Size: 4, Body: strings.NewReader("meow")}
	want := &filestore.UploadResult{Key: "imgs/cat.png", StatusCode: 200}
	storage.EXPECT().UploadObject(gomock.Any(), file, "imgs/cat.png").Return(want, nil)
	storage.EXPECT().Close().Return(nil)

	s, _ := newTestStore(t, storage)
	got, err := s.Upload(context.Background(), file, "imgs/cat.png")
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestStore_PresignURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)
	storage.EXPECT().PresignGetURL(gomock.Any(), "imgs/cat.png", 10*time.Minute).Return("https://signed.example/imgs/cat.png?X-Amz-Signature=abc", nil)
	storage.EXPECT().Close().Return(nil)

	s, _ := newTestStore(t, storage)
	got, err := s.PresignURL(context.Background(), "imgs/cat.png", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/imgs/cat.png?X-Amz-Signature=abc", got)
}

func TestStore_ResolvePublicURL(t *testing.T) {
	s, _ := newTestStore(t, nil)
	require.NoError(t, s.UpdateStorage(func(st *StorageSettings) { *st = validStorage() }))
	assert.Equal(t, "https://cdn.example.com/imgs/cat.png", s.ResolvePublicURL("imgs/cat.png"))

	require.NoError(t, s.SetStorageField("pubUrl", ""))
	assert.Equal(t, "https://s3.us-east-1.amazonaws.com/photos/imgs/cat.png", s.ResolvePublicURL("imgs/cat.png"))
}

func TestStore_GenerateKey(t *testing.T) {
	gen := keygen.Generator{
		Now:  func() time.Time { return time.Date(2024, time.January, 15, 0, 0, 1, 0, time.Local) },
		Rand: func(int) int { return 0 },
	}
	s, _ := newTestStore(t, nil, WithKeyGenerator(gen))
	require.NoError(t, s.SetStorageField("keyPrefix", "imgs"))

	assert.Equal(t, "imgs/rs-00.png", s.GenerateKey("cat.png"))

	require.NoError(t, s.SetPreferenceField("convertType", "webp"))
	assert.Equal(t, "imgs/rs-00.webp", s.GenerateKey("cat.png"))

	require.NoError(t, s.SetPreferenceField("keyTemplate", "{{prefix}}/{{filename}}"))
	assert.Equal(t, "imgs/cat.png", s.GenerateKey("cat.png"))

	require.NoError(t, s.SetPreferenceField("keyTemplate", "   "))
	assert.Equal(t, "imgs/rs-00.webp", s.GenerateKey("cat.png"))
}
