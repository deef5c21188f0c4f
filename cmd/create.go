/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnspecies/internal/ioschema"
	"github.com/gnames/gnspecies/internal/iostore"
	"github.com/spf13/cobra"
)

// getCreateCmd returns the create command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getCreateCmd() *cobra.Command {
	var forceCreate bool

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create SQL schema of the species store",
		Long: `Create tables of the species store from scratch.

This command:
  1. Connects to PostgreSQL or SQLite according to store.backend
  2. Checks for existing tables and prompts for confirmation
  3. Creates hierarchy, species, vernacular and cache tables
     using GORM AutoMigrate

The memory backend has no schema. SQLite schema is also created
automatically on the first search.

Use --force to skip confirmation and drop existing tables.

Examples:
  gnspecies create --backend postgres
  gnspecies create --force
  gnspecies create -f`,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyFlags(cmd, backendFlag)
			err := runCreate(cmd, forceCreate)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	createCmd.Flags().BoolVarP(&forceCreate, "force", "f",
		false, "drop existing tables without confirmation")
	createCmd.Flags().StringP("backend", "b", "",
		"store backend: sqlite or postgres")

	return createCmd
}

func runCreate(cmd *cobra.Command, force bool) error {
	ctx := context.Background()

	if cfg.Store.Backend == "memory" {
		gn.Info("Memory backend does not need a schema. No changes made.")
		return nil
	}

	db, err := iostore.OpenSQL(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	gn.Info("Connected to <em>%s</em> store", cfg.Store.Backend)

	hasTables, err := db.HasTables(ctx)
	if err != nil {
		return err
	}

	if hasTables {
		if !force {
			gn.Warn("\nWarning: Store contains existing tables.")
			gn.Warn("Creating schema will drop ALL existing tables and data.")
			fmt.Fprint(cmd.OutOrStdout(), "\nDo you want to continue? (yes/no): ")
			if !confirmed(cmd.InOrStdin()) {
				gn.Info("Aborted. No changes made.")
				return nil
			}
		}
		gn.Info("Dropping all existing tables...")
		if err = db.DropAllTables(ctx); err != nil {
			return err
		}
		gn.Info("All tables dropped")
	}

	sm := ioschema.NewManager(db.DB())
	if err = sm.Create(ctx); err != nil {
		return err
	}

	gn.Info("\nSchema creation complete!")
	gn.Info("Run 'gnspecies serve' or 'gnspecies warm' to use the store.")
	return nil
}

func confirmed(r io.Reader) bool {
	reader := bufio.NewReader(r)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		gn.Warn("Failed to read user input")
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y"
}
