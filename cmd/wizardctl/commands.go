package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"onboarding/internal/core/fields"
	"onboarding/internal/core/id"
	"onboarding/internal/domain/catalog"
	"onboarding/internal/domain/completion"
	"onboarding/internal/domain/snapshot"
)

func (e *env) seed(ctx context.Context, cmd *cli.Command) error {
	sid := cmd.Args().Get(0)
	if sid == "" {
		sid = id.NewSession()
	}

	ds := snapshot.Defaults()
	if fname := cmd.String("file"); fname != "" {
		data, err := os.ReadFile(fname)
		if err != nil {
			return fmt.Errorf("unable to read dataset '%s': %w", fname, err)
		}
		if ds, err = snapshot.ParseDataset(data); err != nil {
			return err
		}
	}

	if err := checkDataset(catalog.Default(), ds); err != nil {
		return err
	}

	raw, err := fields.Encode(ds)
	if err != nil {
		return err
	}

	b, err := e.store(ctx, cmd)
	if err != nil {
		return err
	}
	if err := b.Store.Save(ctx, snapshot.Key(sid), raw); err != nil {
		return fmt.Errorf("unable to save snapshot: %w", err)
	}

	e.log.Infow("snapshot seeded", "session_id", sid, "entities", len(ds), "backend", b.Kind)
	fmt.Fprintln(cmd.Root().Writer, sid)
	return nil
}

func (e *env) inspect(ctx context.Context, cmd *cli.Command) error {
	sid := cmd.Args().Get(0)
	if sid == "" {
		return errors.New("no session id has been specified")
	}

	b, err := e.store(ctx, cmd)
	if err != nil {
		return err
	}

	if _, err := b.Store.Load(ctx, snapshot.Key(sid)); errors.Is(err, snapshot.ErrNotFound) {
		e.log.Warnw("no stored snapshot, showing defaults", "session_id", sid)
	}

	ds := snapshot.NewLoader(b.Store).Load(ctx, snapshot.Key(sid))
	cat := catalog.Default()
	st := completion.Compute(cat, ds, completion.DefaultEngine())

	r := buildReport(sid, cat, st)
	if cmd.Bool("data") {
		r.Data = ds
	}
	return writeYAML(cmd.Root().Writer, r)
}

func (e *env) remove(ctx context.Context, cmd *cli.Command) error {
	sid := cmd.Args().Get(0)
	if sid == "" {
		return errors.New("no session id has been specified")
	}

	b, err := e.store(ctx, cmd)
	if err != nil {
		return err
	}
	if err := b.Store.Delete(ctx, snapshot.Key(sid)); err != nil {
		return fmt.Errorf("unable to delete snapshot: %w", err)
	}
	e.log.Infow("snapshot deleted", "session_id", sid)
	return nil
}

func dumpCatalog(_ context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer
	if fname := cmd.Args().Get(0); fname != "" {
		f, err := os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer f.Close()
		out = f
	}
	_, err := out.Write(catalog.DefaultYAML())
	return err
}

func checkCatalog(_ context.Context, cmd *cli.Command) error {
	fname := cmd.Args().Get(0)
	if fname == "" {
		return errors.New("no catalog file has been specified")
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		return fmt.Errorf("unable to read catalog '%s': %w", fname, err)
	}
	cat, err := catalog.Load(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "ok: %d members, %d accounts, %d registrations\n",
		len(cat.Members()), len(cat.Accounts()), len(cat.Registrations()))
	return nil
}

// checkDataset rejects entity ids the catalog does not know.
func checkDataset(cat *catalog.Catalog, ds fields.Dataset) error {
	for _, eid := range ds.IDs() {
		if cat.Lookup(eid) == nil {
			return fmt.Errorf("dataset has unknown entity '%s'", eid)
		}
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
