package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/rdme-xyz/go-rdme/catalog"
	"github.com/rdme-xyz/go-rdme/trajectory"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	optCatalogPath       string
	optCatalogRestoreOut string
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the snapshot catalog database",
	Long: `The catalog is a SQLite database holding snapshots by ID. Point
every subcommand at it with --catalog or the RDME_CATALOG environment
variable.

Examples:
  rdme catalog save run.json --catalog runs.db
  rdme catalog list --catalog runs.db
  rdme catalog restore 5d7f... --catalog runs.db -o run.h5
  rdme catalog rm 5d7f... --catalog runs.db`,
}

// openCatalog opens the database named by --catalog or RDME_CATALOG.
func openCatalog() *catalog.Catalog {
	path := viper.GetString("catalog")
	if path == "" {
		log.Fatalln("catalog database required: pass --catalog or set RDME_CATALOG")
	}
	c, err := catalog.Open(path)
	if err != nil {
		log.Fatalln(err)
	}
	return c
}

// catalogListCmd represents the catalog list command
var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		c := openCatalog()
		defer c.Close()

		entries, err := c.List(context.Background())
		if err != nil {
			log.Fatalln(err)
		}
		if len(entries) == 0 {
			fmt.Println("catalog is empty")
			return
		}
		for _, e := range entries {
			name := e.ModelName
			if name == "" {
				name = "-"
			}
			fmt.Printf("%-36s  %-16s  %s  %d bytes\n",
				e.ID, name, e.CreatedAt.Format(time.RFC3339), e.Size)
		}
	},
}

// catalogSaveCmd represents the catalog save command
var catalogSaveCmd = &cobra.Command{
	Use:   "save <snap.json>",
	Short: "Store a snapshot in the catalog",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		c := openCatalog()
		defer c.Close()

		snap, err := trajectory.ReadSnapshotFile(args[0])
		if err != nil {
			log.Fatalln(err)
		}
		if err := c.Save(context.Background(), snap); err != nil {
			log.Fatalln(err)
		}
		slog.Info("snapshot stored", "id", snap.ID)
		fmt.Println(snap.ID)
	},
}

// catalogRestoreCmd represents the catalog restore command
var catalogRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Materialize a cataloged snapshot into a trajectory file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		c := openCatalog()
		defer c.Close()

		snap, err := c.Get(context.Background(), args[0])
		if errors.Is(err, catalog.ErrNotFound) {
			log.Fatalf("no snapshot with id %s", args[0])
		}
		if err != nil {
			log.Fatalln(err)
		}
		path, err := materialize(snap, optCatalogRestoreOut)
		if err != nil {
			log.Fatalln(err)
		}
		slog.Info("snapshot restored", "id", snap.ID, "path", path)
		fmt.Println(path)
	},
}

// catalogRmCmd represents the catalog rm command
var catalogRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a snapshot from the catalog",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		c := openCatalog()
		defer c.Close()

		err := c.Delete(context.Background(), args[0])
		if errors.Is(err, catalog.ErrNotFound) {
			log.Fatalf("no snapshot with id %s", args[0])
		}
		if err != nil {
			log.Fatalln(err)
		}
		slog.Info("snapshot removed", "id", args[0])
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogSaveCmd)
	catalogCmd.AddCommand(catalogRestoreCmd)
	catalogCmd.AddCommand(catalogRmCmd)

	catalogCmd.PersistentFlags().StringVar(&optCatalogPath, "catalog", "", "path to the catalog database (env RDME_CATALOG)")
	viper.BindPFlag("catalog", catalogCmd.PersistentFlags().Lookup("catalog"))

	catalogRestoreCmd.Flags().StringVarP(&optCatalogRestoreOut, "output", "o", "", "write the trajectory file here instead of a temp path")
}
