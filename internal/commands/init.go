package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/auditlog"
	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/gitops"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/store"
)

type initOptions struct {
	backend  string
	currency string
	git      bool
}

func newInitCommand(global *globalOptions) *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new tally data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := config.ResolveDir(global.dir)
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized tally data directory at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.backend, "backend", string(store.BackendJSON), "storage backend (json or sqlite)")
	cmd.Flags().StringVar(&opts.currency, "currency", model.DefaultCurrency, "display currency code")
	cmd.Flags().BoolVar(&opts.git, "git", false, "version the directory with git and commit every change")

	return cmd
}

func runInit(dir string, opts initOptions) error {
	backend, err := store.ParseBackend(opts.backend)
	if err != nil {
		return err
	}
	if backend == store.BackendMemory {
		return fmt.Errorf("the memory backend cannot be initialized on disk")
	}

	configPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists: directory is already initialized", configPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", configPath, err)
	}

	// Create directory structure.
	for _, d := range []string{"logs", "import", filepath.Join("import", "processed")} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write tally.yaml.
	cfg := config.Default()
	cfg.Storage.Backend = string(backend)
	cfg.Currency = strings.ToUpper(strings.TrimSpace(opts.currency))
	cfg.Git.AutoCommit = opts.git
	if err := config.Save(configPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the empty document.
	st, err := cfg.OpenStore(dir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	doc := model.NewDocument()
	doc.Settings.Currency = cfg.Currency
	if err := st.Save(doc); err != nil {
		st.Close()
		return fmt.Errorf("writing document: %w", err)
	}
	if err := st.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}

	// Write .gitignore.
	gitignore := ".env\nimport/processed/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	entry := auditlog.Entry{Timestamp: now(), Action: auditlog.ActionInit, Details: "initialize " + string(backend) + " ledger"}
	if err := auditlog.Append(dir, []auditlog.Entry{entry}); err != nil {
		return fmt.Errorf("writing audit log: %w", err)
	}

	if !opts.git {
		return nil
	}

	// Initialize git and create initial commit.
	if !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return err
		}
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	if _, err := gitops.CommitAll(dir, "init: initialize tally", author); err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	return nil
}
