package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gofhir/resources/codec"
	"github.com/gofhir/resources/internal/config"
	"github.com/gofhir/resources/ndjson"
	"github.com/gofhir/resources/store"
)

// openStore opens the backend named by the store driver setting.
func openStore(ctx context.Context, a *app) (store.Store, error) {
	opts := []store.Option{store.WithLogger(a.log), store.WithMetrics(a.metrics)}

	switch a.cfg.StoreDriver {
	case config.StoreBolt:
		return store.OpenBolt(a.cfg.StorePath, opts...)
	case config.StorePostgres:
		return store.OpenPostgres(ctx, a.cfg.DatabaseURL, opts...)
	default:
		a.log.Warn("Using the memory store: nothing is kept after this command exits")
		return store.NewMemoryStore(opts...), nil
	}
}

// withStore wraps a store subcommand so it runs against an open store.
func withStore(a *app, fn func(cmd *cobra.Command, st store.Store, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context(), a)
		if err != nil {
			return err
		}
		defer st.Close()
		return fn(cmd, st, args)
	}
}

func storeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Persist resources in the configured store",
	}
	cmd.AddCommand(storePutCmd(a))
	cmd.AddCommand(storeGetCmd(a))
	cmd.AddCommand(storeListCmd(a))
	cmd.AddCommand(storeDeleteCmd(a))
	cmd.AddCommand(storeExportCmd(a))
	return cmd
}

// StoredOutput names one stored resource.
type StoredOutput struct {
	ResourceType string `json:"resourceType"`
	ID           string `json:"id"`
}

func storePutCmd(a *app) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "put <file|->...",
		Short: "Decode resources and store them",
		Args:  cobra.MinimumNArgs(1),
		RunE: withStore(a, func(cmd *cobra.Command, st store.Store, args []string) error {
			inputs := readInputs(args, a.in)
			if id != "" && len(inputs) > 1 {
				return errors.New("--id can only be used with a single input")
			}

			c := codec.New(a.codecOptions()...)
			var stored []StoredOutput
			for _, in := range inputs {
				if in.err != nil {
					return fmt.Errorf("%s: %w", in.name, in.err)
				}
				res, err := c.Decode(in.data)
				if err != nil {
					return fmt.Errorf("%s: %w", in.name, err)
				}

				rid := id
				if rid == "" {
					rid = store.NewID()
				}
				if err := st.Put(cmd.Context(), rid, res); err != nil {
					return fmt.Errorf("%s: %w", in.name, err)
				}
				stored = append(stored, StoredOutput{ResourceType: res.ResourceType(), ID: rid})
			}

			if a.cfg.IsJSON() {
				return writeJSON(a.out, stored)
			}
			for _, s := range stored {
				fmt.Fprintf(a.out, "%s/%s\n", s.ResourceType, s.ID)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&id, "id", "", "Id to store the resource under (default: a new uuid)")
	return cmd
}

func storeGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <resourceType> <id>",
		Short: "Print a stored resource",
		Args:  cobra.ExactArgs(2),
		RunE: withStore(a, func(cmd *cobra.Command, st store.Store, args []string) error {
			res, err := st.Get(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("%s/%s: %w", args[0], args[1], err)
			}
			data, err := codec.New(a.codecOptions()...).Encode(res)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, string(data))
			return nil
		}),
	}
}

func storeListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <resourceType>",
		Short: "List the ids stored for a resource type",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(a, func(cmd *cobra.Command, st store.Store, args []string) error {
			entries, err := st.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if a.cfg.IsJSON() {
				c := codec.New(codec.WithIndent(false))
				type listed struct {
					ID       string          `json:"id"`
					Resource json.RawMessage `json:"resource"`
				}
				out := make([]listed, 0, len(entries))
				for _, e := range entries {
					data, err := c.Encode(e.Resource)
					if err != nil {
						return err
					}
					out = append(out, listed{ID: e.ID, Resource: data})
				}
				return writeJSON(a.out, out)
			}

			for _, e := range entries {
				fmt.Fprintf(a.out, "%s/%s\n", e.Resource.ResourceType(), e.ID)
			}
			return nil
		}),
	}
}

func storeDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <resourceType> <id>",
		Short: "Remove a stored resource",
		Args:  cobra.ExactArgs(2),
		RunE: withStore(a, func(cmd *cobra.Command, st store.Store, args []string) error {
			return st.Delete(cmd.Context(), args[0], args[1])
		}),
	}
}

func storeExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <resourceType>",
		Short: "Write every stored resource of a type as NDJSON",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(a, func(cmd *cobra.Command, st store.Store, args []string) error {
			entries, err := st.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := ndjson.NewWriter(a.out, codec.WithMetrics(a.metrics))
			for _, e := range entries {
				if err := w.Write(e.Resource); err != nil {
					return fmt.Errorf("%s/%s: %w", args[0], e.ID, err)
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			a.log.Info("Exported %d %s resources", w.Count(), args[0])
			return nil
		}),
	}
}
