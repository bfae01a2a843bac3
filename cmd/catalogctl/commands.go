package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"CatalogEditor/internal/catalog"
	"CatalogEditor/internal/config"
	"CatalogEditor/internal/editor"
	"CatalogEditor/internal/kv"
	"CatalogEditor/pkg/kit"
)

// session is the store opened for one command invocation.
type session struct {
	store *catalog.Store
	close func() error
}

type openFunc func(ctx context.Context) (*session, config.Config, error)

func openFromConfig(ctx context.Context) (*session, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}

	backend, err := kv.Open(ctx, cfg.KVOptions())
	if err != nil {
		return nil, cfg, fmt.Errorf("open storage: %w", err)
	}

	store := catalog.NewStore(catalog.Deps{
		Snapshots: catalog.NewKVSnapshotter(backend, cfg.Storage.Key),
		Log:       kit.NewLogger("catalogctl", cfg.LogLevel),
	})
	store.Load(ctx)

	return &session{store: store, close: backend.Close}, cfg, nil
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(openFromConfig)
}

func newRootCmdWith(open openFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Edit the product catalog directly in its configured storage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		listCmd(open),
		addCmd(open),
		updateCmd(open),
		removeCmd(open),
		tokenCmd(),
	)
	return root
}

func withStore(cmd *cobra.Command, open openFunc, fn func(ctx context.Context, s *catalog.Store) (catalog.Catalog, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sess, _, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.close() }()

	c, err := fn(ctx, sess.store)
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("please enter a valid name and a price greater than 0: %w", verr)
		}
		return err
	}
	return printCatalog(cmd.OutOrStdout(), c)
}

func listCmd(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, open, func(_ context.Context, s *catalog.Store) (catalog.Catalog, error) {
				return s.Snapshot(), nil
			})
		},
	}
}

func addCmd(open openFunc) *cobra.Command {
	return positionalOnly(&cobra.Command{
		Use:   "add NAME PRICE",
		Short: "Append a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, open, func(ctx context.Context, s *catalog.Store) (catalog.Catalog, error) {
				return s.Add(ctx, catalog.Draft{Name: args[0], Price: catalog.DraftPrice(args[1])})
			})
		},
	})
}

func updateCmd(open openFunc) *cobra.Command {
	return positionalOnly(&cobra.Command{
		Use:   "update ID NAME PRICE",
		Short: "Rename or reprice a product in place",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, open, func(ctx context.Context, s *catalog.Store) (catalog.Catalog, error) {
				return s.Update(ctx, id, catalog.Draft{Name: args[1], Price: catalog.DraftPrice(args[2])})
			})
		},
	})
}

// positionalOnly stops flag parsing at the first argument so a price such
// as -5 reaches validation instead of failing as an unknown flag.
func positionalOnly(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func removeCmd(open openFunc) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd, open, func(ctx context.Context, s *catalog.Store) (catalog.Catalog, error) {
				p, ok := s.Get(id)
				if ok && !yes {
					return nil, fmt.Errorf("%s This action cannot be undone; rerun with --yes", catalog.DeletePrompt(p.Name))
				}
				return s.Remove(ctx, id)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		name string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an editor token for the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.EditorJWTSecret == "" {
				return errors.New("EDITOR_JWT_SECRET is not set")
			}

			tok, err := editor.NewTokenMaker(cfg.EditorJWTSecret).New(name, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "editor", "admin", "editor name carried in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad id %q", raw)
	}
	return id, nil
}

func printCatalog(w io.Writer, c catalog.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE")
	if len(c) == 0 {
		fmt.Fprintln(tw, "-\t"+catalog.EmptyCatalogText+"\t-")
	}
	for _, p := range c {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.Name, catalog.FormatPrice(p.Price))
	}
	return tw.Flush()
}
