package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/auditlog"
	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/gitops"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/store"
)

// now is the clock used by every command.
var now = time.Now

// app is the per-invocation view of a data directory.
type app struct {
	dir    string
	cfg    *config.Config
	store  store.Store
	ledger *ledger.Service
	logger *log.Logger
	out    io.Writer
}

func (o *globalOptions) open(cmd *cobra.Command) (*app, error) {
	dir, err := filepath.Abs(config.ResolveDir(o.dir))
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	cfg, err := config.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	st, err := cfg.OpenStore(dir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	logger := o.logger
	if logger == nil {
		logger = log.Discard()
	}
	logger.Debug("opened data directory",
		log.FieldPath, cfg.StoragePath(dir),
		log.FieldBackend, cfg.Backend())

	return &app{
		dir:    dir,
		cfg:    cfg,
		store:  st,
		ledger: ledger.NewService(st).WithClock(now),
		logger: logger,
		out:    cmd.OutOrStdout(),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// readDocument loads the document for read-only commands. A corrupt
// document is replaced by the default one with a warning; mutating
// commands go through the ledger and refuse instead.
func (a *app) readDocument() (*model.Document, error) {
	doc, err := a.store.Load()
	if errors.Is(err, store.ErrCorrupt) {
		a.logger.WithComponent(log.ComponentStorage).Warn("document is corrupt, showing an empty ledger",
			log.FieldPath, a.cfg.StoragePath(a.dir),
			log.FieldError, err)
		return model.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	return doc, nil
}

// currency returns the display currency, preferring the document setting.
func (a *app) currency(doc *model.Document) string {
	if doc != nil && doc.Settings.Currency != "" {
		return doc.Settings.Currency
	}
	return a.cfg.Currency
}

// record commits the change when git auto-commit is on and appends it to
// the audit log. Failures are logged; the change itself already happened.
func (a *app) record(action auditlog.Action, details, txnID string) {
	var hash string
	if a.cfg.Git.AutoCommit && gitops.IsRepo(a.dir) {
		var err error
		author := gitops.Author{Name: a.cfg.Git.AuthorName, Email: a.cfg.Git.AuthorEmail}
		hash, err = gitops.CommitAll(a.dir, fmt.Sprintf("%s: %s", action, details), author)
		if err != nil {
			a.logger.WithComponent(log.ComponentGit).Warn("auto-commit failed", log.FieldError, err)
		} else if hash != "" {
			a.logger.WithComponent(log.ComponentGit).Debug("committed", log.FieldCommit, hash)
		}
	}

	entry := auditlog.Entry{
		Timestamp:     now(),
		Action:        action,
		Details:       details,
		TransactionID: txnID,
		CommitHash:    hash,
	}
	audit := a.logger.WithComponent(log.ComponentAudit)
	if err := auditlog.Append(a.dir, []auditlog.Entry{entry}); err != nil {
		audit.Warn("failed to write audit log", log.FieldError, err)
		return
	}
	audit.Debug("recorded change", log.FieldOperation, string(action), log.FieldTxnID, txnID)
}

// withApp opens the data directory for the duration of fn.
func (o *globalOptions) withApp(cmd *cobra.Command, fn func(a *app) error) error {
	a, err := o.open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
