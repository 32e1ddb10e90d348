package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/koustreak/BucketDesk/internal/errs"
	"github.com/koustreak/BucketDesk/internal/filestore"
	"github.com/spf13/cobra"
)

func (a *app) newTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Check that the saved credentials can list the bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Test(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func (a *app) newListCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List every object in the bucket",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			objects, err := a.store.List(cmd.Context(), once)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			for _, obj := range objects {
				modified := "-"
				if !obj.LastModified.IsZero() {
					modified = obj.LastModified.Local().Format(time.DateTime)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", obj.Size, modified, obj.Key)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, fmt.Sprintf("stop after the first page (%d objects)", filestore.PageSize))
	return cmd
}

func (a *app) newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <key>...",
		Short: "Delete objects by key",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range args {
				if err := a.store.Delete(cmd.Context(), key); err != nil {
					return err
				}
				a.log.Infof("deleted %s", key)
			}
			return nil
		},
	}
}

func (a *app) newUploadCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file under a generated or given key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			f, err := os.Open(path)
			if err != nil {
				return errs.Wrap(errs.ErrKindNotFound, "failed to open "+path, err)
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return errs.Wrap(errs.ErrKindUnknown, "failed to stat "+path, err)
			}
			if info.IsDir() {
				return errs.New(errs.ErrKindInvalidInput, path+" is a directory")
			}

			name := filepath.Base(path)
			if key == "" {
				key = a.store.GenerateKey(name)
			}

			res, err := a.store.Upload(cmd.Context(), filestore.File{
				Name: name,
				Size: info.Size(),
				Body: f,
			}, key)
			if err != nil {
				return err
			}

			a.log.With().Str("key", res.Key).Str("etag", res.ETag).Logger().Info("uploaded")
			fmt.Fprintln(cmd.OutOrStdout(), a.store.ResolvePublicURL(res.Key))
			return nil
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "object key (default: generated from the key template)")
	return cmd
}

func (a *app) newURLCmd() *cobra.Command {
	var presign time.Duration

	cmd := &cobra.Command{
		Use:   "url <key>",
		Short: "Print the public URL of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if presign <= 0 {
				fmt.Fprintln(cmd.OutOrStdout(), a.store.ResolvePublicURL(args[0]))
				return nil
			}

			url, err := a.store.PresignURL(cmd.Context(), args[0], presign)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}

	cmd.Flags().DurationVar(&presign, "presign", 0, "print a signed download URL valid for this long instead")
	return cmd
}

func (a *app) newKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "key <file>",
		Short: "Print the key an upload of file would get",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.store.GenerateKey(filepath.Base(args[0])))
			return nil
		},
	}
}
