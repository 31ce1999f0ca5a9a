package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/2beens/fitdiet/internal/backup"

	"github.com/spf13/cobra"
)

func newBackupCmd(opts *rootOptions) *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and import all saved data",
	}

	var out string
	var toDrive bool
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export profile, entries and diet plans to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				now := time.Now()
				snap, err := backup.Export(ctx, a.kv, now)
				if err != nil {
					return storageFailed("export data", err)
				}

				name := backup.FileName(now)
				path := out
				if path == "" {
					path = filepath.Join(a.cfg.BackupDir, name)
				}
				if err := backup.WriteFile(path, snap); err != nil {
					return storageFailed("write backup file", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d collections to %s\n", len(snap.Collections), path)

				if !toDrive && !a.cfg.GDriveBackupsOn {
					return nil
				}
				uploader, err := a.driveUploader(ctx)
				if err != nil {
					return storageFailed("connect to google drive", err)
				}
				fileID, err := uploader.Upload(ctx, name, snap)
				if err != nil {
					return storageFailed("upload backup to google drive", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded to google drive: %s\n", fileID)
				return nil
			})
		},
	}
	exportCmd.Flags().StringVarP(&out, "out", "o", "", "backup file path (default: <backup_dir>/fitdiet-backup-<time>.json)")
	exportCmd.Flags().BoolVar(&toDrive, "gdrive", false, "also upload the backup to google drive")

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore data from a backup file, replacing what is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				snap, err := backup.ReadFile(args[0])
				if err != nil {
					return &userError{Msg: fmt.Sprintf("cannot read backup file %s", args[0]), Err: err}
				}
				n, err := backup.Import(ctx, a.kv, snap)
				if err != nil {
					return storageFailed("import data", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d collections from %s\n", n, args[0])
				return nil
			})
		},
	}

	remoteCmd := &cobra.Command{
		Use:   "remote",
		Short: "List backups stored on google drive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				uploader, err := a.driveUploader(ctx)
				if err != nil {
					return storageFailed("connect to google drive", err)
				}
				names, err := uploader.List(ctx)
				if err != nil {
					return storageFailed("list google drive backups", err)
				}
				if len(names) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No backups on google drive.")
					return nil
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			})
		},
	}

	backupCmd.AddCommand(exportCmd, importCmd, remoteCmd)
	return backupCmd
}
