package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/rdme-xyz/go-rdme/trajectory"
	"github.com/spf13/cobra"
)

var (
	optSnapshotSaveOut    string
	optSnapshotRestoreOut string
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Bundle trajectory files into portable snapshots",
	Long: `A snapshot is a JSON document embedding the raw trajectory file
bytes plus identifying metadata, so a run can move between machines or
into the catalog without carrying the file separately.`,
}

// snapshotSaveCmd represents the snapshot save command
var snapshotSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Write a snapshot embedding the file bytes",
	Long: `Read a trajectory file and write a snapshot JSON document.

Examples:
  rdme snapshot save run.h5 -o run.json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		r := trajectory.New(nil, args[0])
		snap, err := r.Snapshot()
		if err != nil {
			log.Fatalln(err)
		}

		out := optSnapshotSaveOut
		if out == "" {
			out = snap.ID + ".json"
		}
		if err := trajectory.WriteSnapshotFile(out, snap); err != nil {
			log.Fatalln(err)
		}
		slog.Info("snapshot written", "id", snap.ID, "path", out, "bytes", len(snap.FileContents))
		fmt.Println(out)
	},
}

// snapshotRestoreCmd represents the snapshot restore command
var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore <snap.json>",
	Short: "Materialize a snapshot back into a trajectory file",
	Long: `Read a snapshot JSON document and write its embedded trajectory
file back to disk. Without -o the file lands in a fresh temporary path
(honoring RDME_TMPDIR) and that path is printed.

Examples:
  rdme snapshot restore run.json -o run.h5`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		snap, err := trajectory.ReadSnapshotFile(args[0])
		if err != nil {
			log.Fatalln(err)
		}
		path, err := materialize(snap, optSnapshotRestoreOut)
		if err != nil {
			log.Fatalln(err)
		}
		slog.Info("snapshot restored", "id", snap.ID, "path", path)
		fmt.Println(path)
	},
}

// materialize turns a snapshot back into a file on disk and returns the
// resulting path. With an explicit destination the restored temp file is
// copied there and removed; otherwise the temp path itself is handed over.
func materialize(snap *trajectory.Snapshot, dest string) (string, error) {
	r, err := trajectory.Restore(snap)
	if err != nil {
		return "", err
	}
	if dest == "" {
		return r.Path, nil
	}
	data, err := os.ReadFile(r.Path)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return "", err
	}
	r.Close()
	return dest, nil
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotRestoreCmd)

	snapshotSaveCmd.Flags().StringVarP(&optSnapshotSaveOut, "output", "o", "", "snapshot path (default <id>.json)")
	snapshotRestoreCmd.Flags().StringVarP(&optSnapshotRestoreOut, "output", "o", "", "write the trajectory file here instead of a temp path")
}
