// Shared helpers for shelf subcommands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/pocketshelf/internal/kv"
	"github.com/mesh-intelligence/pocketshelf/internal/shelf"
	"github.com/mesh-intelligence/pocketshelf/pkg/types"
)

// shortIDLen is the number of ID characters shown in tables.
const shortIDLen = 8

// unsavedWarning is printed to stderr when a mutation applied in memory could
// not be written to storage.
const unsavedWarning = "warning: changes may not be saved"

// exitError carries the process exit code alongside the error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userErr(err error) error { return &exitError{code: exitUserError, err: err} }
func sysErr(err error) error  { return &exitError{code: exitSysError, err: err} }

// classify wraps a store error with the exit code its class deserves.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrAmbiguousID),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidTitle),
		errors.Is(err, types.ErrInvalidStatus),
		errors.Is(err, types.ErrInvalidSort),
		errors.Is(err, types.ErrInvalidFilter),
		errors.Is(err, types.ErrBackendUnknown),
		errors.Is(err, types.ErrBackendEmpty):
		return userErr(err)
	default:
		return sysErr(err)
	}
}

// openStore opens the configured backend and loads the shelf. The returned
// function closes the backend.
func (a *app) openStore() (*shelf.Store, func(), error) {
	dataDir, err := a.storageDir()
	if err != nil {
		return nil, nil, sysErr(fmt.Errorf("resolve data dir: %w", err))
	}
	cfg := types.Config{Backend: a.backend(), DataDir: dataDir}

	storage, err := kv.Open(cfg)
	if err != nil {
		return nil, nil, classify(fmt.Errorf("open storage: %w", err))
	}

	store := shelf.New(storage, shelf.WithLogger(a.logger))
	if err := store.Load(); err != nil {
		_ = storage.Close()
		return nil, nil, sysErr(fmt.Errorf("load shelf: %w", err))
	}

	closeFn := func() {
		if err := storage.Close(); err != nil {
			a.logger.Warn("close storage", zap.Error(err))
		}
	}
	return store, closeFn, nil
}

// resolveItem maps a full ID or unique prefix to a stored item.
func resolveItem(store *shelf.Store, ref string) (types.Item, error) {
	id, err := store.ResolveID(ref)
	if err != nil {
		return types.Item{}, userErr(err)
	}
	item, err := store.Item(id)
	if err != nil {
		return types.Item{}, userErr(err)
	}
	return item, nil
}

// settle turns a mutation result into the command's error. An unsaved write
// prints the warning and still succeeds.
func settle(cmd *cobra.Command, err error) error {
	if shelf.IsNotSaved(err) {
		fmt.Fprintln(cmd.ErrOrStderr(), unsavedWarning)
		return nil
	}
	return classify(err)
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func star(fav bool) string {
	if fav {
		return "★"
	}
	return ""
}

// printItems writes items as an aligned table.
func printItems(w io.Writer, items []types.Item) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tFAV\tTITLE\tAUTHOR\tADDED")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(it.ID),
			it.Status.Label(),
			star(it.Favorite),
			it.Title,
			it.Author,
			it.CreatedAt.Local().Format("2006-01-02"),
		)
	}
	_ = tw.Flush()
}

// printItem writes a single item in key/value form.
func printItem(w io.Writer, it types.Item) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", it.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", it.Title)
	if it.Author != "" {
		fmt.Fprintf(tw, "Author:\t%s\n", it.Author)
	}
	if it.Link != "" {
		fmt.Fprintf(tw, "Link:\t%s\n", it.Link)
	}
	fmt.Fprintf(tw, "Status:\t%s\n", it.Status.Label())
	fmt.Fprintf(tw, "Favorite:\t%t\n", it.Favorite)
	fmt.Fprintf(tw, "Added:\t%s\n", it.CreatedAt.Local().Format("2006-01-02 15:04"))
	if it.Notes != "" {
		fmt.Fprintf(tw, "Notes:\t%s\n", it.Notes)
	}
	_ = tw.Flush()
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysErr(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(w, string(data))
	return nil
}
