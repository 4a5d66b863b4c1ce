package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"filedrop/internal/client"

	"github.com/urfave/cli/v3"
)

func main() {
	var serverURL string

	cmd := &cli.Command{
		Name:  "filedropctl",
		Usage: "Manage files on a running filedrop server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "server",
				Usage:       "Base URL of the filedrop server",
				Value:       "http://localhost:8080",
				Sources:     cli.EnvVars("FILEDROP_SERVER"),
				Destination: &serverURL,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all live files",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					files, err := client.New(serverURL).List(ctx)
					if err != nil {
						return err
					}

					w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tNAME\tSIZE\tDOWNLOADS\tEXPIRES")
					for _, f := range files {
						fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
							f.ID, f.OriginalName, f.Size, f.DownloadCount,
							f.ExpiresAt.Format(time.RFC3339))
					}
					return w.Flush()
				},
			},
			{
				Name:      "info",
				Usage:     "Show metadata for one file (by share ID or file ID)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "identifier"}},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					identifier := cmd.StringArg("identifier")
					if identifier == "" {
						return fmt.Errorf("an identifier is required")
					}

					f, err := client.New(serverURL).Info(ctx, identifier)
					if err != nil {
						return err
					}

					fmt.Printf("ID:         %s\n", f.ID)
					fmt.Printf("Name:       %s\n", f.OriginalName)
					fmt.Printf("Size:       %d\n", f.Size)
					fmt.Printf("Type:       %s\n", f.MimeType)
					fmt.Printf("Uploaded:   %s\n", f.UploadedAt.Format(time.RFC3339))
					fmt.Printf("Expires:    %s\n", f.ExpiresAt.Format(time.RFC3339))
					fmt.Printf("Downloads:  %d\n", f.DownloadCount)
					fmt.Printf("Protected:  %t\n", f.IsPasswordProtected)
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a file by its internal ID",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id := cmd.StringArg("id")
					if id == "" {
						return fmt.Errorf("a file ID is required")
					}

					if err := client.New(serverURL).Delete(ctx, id); err != nil {
						return err
					}
					fmt.Printf("deleted %s\n", id)
					return nil
				},
			},
			{
				Name:  "stats",
				Usage: "Show aggregate server statistics",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					stats, err := client.New(serverURL).Stats(ctx)
					if err != nil {
						return err
					}

					fmt.Printf("Active files:    %d\n", stats.ActiveFiles)
					fmt.Printf("Total downloads: %d\n", stats.TotalDownloads)
					fmt.Printf("Storage used:    %s (%d bytes)\n",
						stats.StorageUsedHuman, stats.StorageUsed)
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
