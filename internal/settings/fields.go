package settings

import (
	"fmt"
	"strconv"

	"github.com/koustreak/BucketDesk/internal/errs"
)

// StorageFields lists the settings-file names SetStorageField accepts.
var StorageFields = []string{"endpoint", "bucket", "accKeyId", "secretAccKey", "region", "keyPrefix", "pubUrl"}

// PreferenceFields lists the settings-file names SetPreferenceField accepts.
var PreferenceFields = []string{
	"enableAutoRefresh", "enableFuzzySearch", "fuzzySearchThreshold", "convertType",
	"compressionMaxSize", "compressionMaxWidthOrHeight", "keyTemplate", "noLongerShowRootPage",
}

// SetStorageField sets one storage field by its settings-file name and
// persists the record. The value is stored even if it makes the record invalid.
func (s *Store) SetStorageField(name, value string) error {
	var target func(*StorageSettings) *string
	switch name {
	case "endpoint":
		target = func(st *StorageSettings) *string { return &st.Endpoint }
	case "bucket":
		target = func(st *StorageSettings) *string { return &st.Bucket }
	case "accKeyId":
		target = func(st *StorageSettings) *string { return &st.AccessKeyID }
	case "secretAccKey":
		target = func(st *StorageSettings) *string { return &st.SecretAccessKey }
	case "region":
		target = func(st *StorageSettings) *string { return &st.Region }
	case "keyPrefix":
		target = func(st *StorageSettings) *string { return &st.KeyPrefix }
	case "pubUrl":
		target = func(st *StorageSettings) *string { return &st.PublicURLBase }
	default:
		return unknownField(StorageRecord, name)
	}

	return s.UpdateStorage(func(st *StorageSettings) { *target(st) = value })
}

// SetPreferenceField sets one preference by its settings-file name and
// persists the record. Booleans and the threshold must parse; range and
// enum checks are left to Validity.
func (s *Store) SetPreferenceField(name, value string) error {
	var edit func(*AppPreferences)

	switch name {
	case "enableAutoRefresh", "enableFuzzySearch", "noLongerShowRootPage":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errs.Wrap(errs.ErrKindInvalidInput, name+" must be true or false", err)
		}
		edit = func(p *AppPreferences) {
			switch name {
			case "enableAutoRefresh":
				p.AutoRefreshEnabled = b
			case "enableFuzzySearch":
				p.FuzzySearchEnabled = b
			default:
				p.HideRootPageOnce = b
			}
		}
	case "fuzzySearchThreshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errs.Wrap(errs.ErrKindInvalidInput, name+" must be a number", err)
		}
		edit = func(p *AppPreferences) { p.FuzzySearchThreshold = f }
	case "convertType":
		edit = func(p *AppPreferences) { p.ConvertType = value }
	case "compressionMaxSize":
		edit = func(p *AppPreferences) { p.CompressionMaxSizeKB = NumberOrString(value) }
	case "compressionMaxWidthOrHeight":
		edit = func(p *AppPreferences) { p.CompressionMaxDimension = NumberOrString(value) }
	case "keyTemplate":
		edit = func(p *AppPreferences) { p.KeyTemplate = value }
	default:
		return unknownField(PreferencesRecord, name)
	}

	return s.UpdatePreferences(edit)
}

func unknownField(record, name string) error {
	return errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("unknown %s field %q", record, name))
}
