package cli

import (
	"fmt"
	"sort"

	"github.com/koustreak/BucketDesk/internal/errs"
	"github.com/koustreak/BucketDesk/internal/settings"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

func (a *app) newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and edit the settings file",
	}
	cmd.AddCommand(
		a.newSettingsShowCmd(),
		a.newSettingsSetCmd(),
		a.newSettingsResetCmd(),
		a.newSettingsValidateCmd(),
	)
	return cmd
}

func (a *app) newSettingsShowCmd() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print both settings records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			storage := a.store.Storage()
			if !reveal {
				storage = storage.Redacted()
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()

			return enc.Encode(map[string]any{
				settings.StorageRecord:     storage,
				settings.PreferencesRecord: a.store.Preferences(),
			})
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "print the secret access key in full")
	return cmd
}

func (a *app) newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <s3|app> <field> <value>",
		Short: "Set one field and save it",
		Long: fmt.Sprintf("Set one field of a settings record and save it immediately.\n\ns3 fields:  %v\napp fields: %v",
			settings.StorageFields, settings.PreferenceFields),
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, field, value := args[0], args[1], args[2]

			var err error
			switch recordName(record) {
			case settings.StorageRecord:
				err = a.store.SetStorageField(field, value)
			case settings.PreferencesRecord:
				err = a.store.SetPreferenceField(field, value)
			default:
				return unknownRecord(record)
			}
			if err != nil {
				return err
			}

			if v := a.store.Validity(); !v.All {
				a.log.Warn("settings saved but not valid yet, run `bucketdesk settings validate`")
			}
			return nil
		},
	}
}

func (a *app) newSettingsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset [s3|app]",
		Short: "Restore defaults for one record, or both",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if err := a.store.ResetStorage(); err != nil {
					return err
				}
				return a.store.ResetPreferences()
			}

			switch recordName(args[0]) {
			case settings.StorageRecord:
				return a.store.ResetStorage()
			case settings.PreferencesRecord:
				return a.store.ResetPreferences()
			}
			return unknownRecord(args[0])
		},
	}
}

func (a *app) newSettingsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check both records and list failing fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			v := a.store.Validity()

			fmt.Fprintf(out, "s3:  %s\n", verdict(v.Storage))
			printFieldErrors(cmd, settings.FieldErrors(a.store.Storage()))
			fmt.Fprintf(out, "app: %s\n", verdict(v.App))
			printFieldErrors(cmd, settings.FieldErrors(a.store.Preferences()))

			if !v.All {
				return errs.New(errs.ErrKindInvalidInput, "settings are not valid")
			}
			return nil
		},
	}
}

func printFieldErrors(cmd *cobra.Command, fieldErrs map[string]string) {
	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", field, fieldErrs[field])
	}
}

func verdict(ok bool) string {
	if ok {
		return "valid"
	}
	return "invalid"
}

func recordName(arg string) string {
	switch arg {
	case "s3", settings.StorageRecord:
		return settings.StorageRecord
	case "app", settings.PreferencesRecord:
		return settings.PreferencesRecord
	}
	return ""
}

func unknownRecord(arg string) error {
	return errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("unknown settings record %q, want s3 or app", arg))
}
