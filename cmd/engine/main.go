package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"supplement-catalog/cmd/config"
	migration "supplement-catalog/cmd/database/migrate"
	"supplement-catalog/domain"
	"supplement-catalog/internal/ctxlog"
	"supplement-catalog/internal/utils"

	"github.com/joho/godotenv"
)

const usage = `Usage: engine <command> [flags]

Commands:
  check     validate every record of a region against the active schema
  publish   mirror validated records and images to object storage
  gen       generate a product YAML stub in a category directory
  category  manage the region/cat1/cat2 tree (list | add | rm | sync)
  migrate   create or update the working-store index tables
`

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "engine: %v\n", err)
		os.Exit(1)
	}
}

func run(out io.Writer, args []string) error {
	_ = godotenv.Load()
	utils.LoadConfig()

	logger := slog.New(slog.NewTextHandler(out, nil))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "check":
		return runCheck(ctx, out, args[1:])
	case "publish":
		return runPublish(ctx, out, args[1:])
	case "gen":
		return runGen(ctx, out, args[1:])
	case "category":
		return runCategory(ctx, out, args[1:])
	case "migrate":
		return runMigrate()
	case "-h", "--help", "help":
		fmt.Fprint(out, usage)
		return nil
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func newApp() (*config.App, error) {
	db, err := config.ConnectDB()
	if err != nil {
		return nil, err
	}
	return config.NewApp(db)
}

func runCheck(ctx context.Context, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	region := fs.String("region", domain.DefaultRegion, "catalog region to check")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	summary, err := app.Record.Check(ctx, *region)
	if err != nil {
		return err
	}

	for _, report := range summary.Reports {
		if report.Valid {
			fmt.Fprintf(out, "PASS %s\n", report.SampleID)
			continue
		}
		fmt.Fprintf(out, "FAIL %s (%s)\n", report.SampleID, report.Path)
		for _, violation := range report.Violations {
			fmt.Fprintf(out, "  - %s: %s (%s)\n", violation.Field, violation.Detail, violation.Kind)
		}
	}
	fmt.Fprintf(out, "checked %d record(s): %d passed, %d failed\n",
		summary.Checked, summary.Passed, summary.Failed)

	if summary.Failed > 0 {
		return fmt.Errorf("%d record(s) failed validation", summary.Failed)
	}
	return nil
}

func runPublish(ctx context.Context, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	region := fs.String("region", domain.DefaultRegion, "catalog region to publish")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	summary, err := app.Mirror.PublishRegion(ctx, *region)
	if err != nil {
		return err
	}

	fmt.Fprint(out, app.Report.Summary(summary))

	if err := app.Report.Notify(ctx, summary); err != nil {
		ctxlog.FromContext(ctx).Warn("failed to mail publish report", "error", err)
	}
	return nil
}

func runGen(ctx context.Context, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	region := fs.String("region", domain.DefaultRegion, "catalog region")
	cat1 := fs.String("cat1", "", "first-level category")
	cat2 := fs.String("cat2", "", "second-level category")
	id := fs.String("id", "", "sample identifier, e.g. cn-sup-001")
	name := fs.String("name", "", "product name (used as filename too)")
	desc := fs.String("desc", "", "description / label text")
	overwrite := fs.Bool("overwrite", false, "replace an existing stub")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	path, err := app.Category.GenerateStub(ctx, domain.GenerateStubRequest{
		Region:      *region,
		Cat1:        *cat1,
		Cat2:        *cat2,
		SampleID:    *id,
		Name:        *name,
		Description: *desc,
		Overwrite:   *overwrite,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Generated: %s\n", path)
	return nil
}

func runCategory(ctx context.Context, out io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("category requires an action: list | add | rm | sync")
	}
	action := args[0]

	fs := flag.NewFlagSet("category "+action, flag.ContinueOnError)
	region := fs.String("region", domain.DefaultRegion, "catalog region")
	cat1 := fs.String("cat1", "", "first-level category")
	cat2 := fs.String("cat2", "", "second-level category")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	switch action {
	case "list":
		tree, err := app.Category.List(ctx, *region)
		if err != nil {
			return err
		}
		if len(tree.Cats) == 0 {
			fmt.Fprintf(out, "No categories under %s.\n", *region)
			return nil
		}
		names := make([]string, 0, len(tree.Cats))
		for name := range tree.Cats {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "- %s/%s:", *region, name)
			for _, sub := range tree.Cats[name] {
				fmt.Fprintf(out, " %s", sub)
			}
			fmt.Fprintln(out)
		}
		return nil
	case "add":
		if err := app.Category.Add(ctx, *region, *cat1, *cat2); err != nil {
			return err
		}
		fmt.Fprintln(out, domain.MessageSuccessAddCategory)
		return nil
	case "rm":
		removed, err := app.Category.Remove(ctx, *region, *cat1, *cat2)
		if err != nil {
			return err
		}
		if removed {
			fmt.Fprintln(out, "Removed.")
		} else {
			fmt.Fprintln(out, "Not found.")
		}
		return nil
	case "sync":
		created, err := app.Category.SyncDirs(ctx, *region)
		if err != nil {
			return err
		}
		if len(created) == 0 {
			fmt.Fprintln(out, domain.MessageSuccessSyncDirs)
			return nil
		}
		fmt.Fprintln(out, "Created directories:")
		for _, dir := range created {
			fmt.Fprintf(out, "  %s\n", dir)
		}
		return nil
	default:
		return fmt.Errorf("unknown category action %q", action)
	}
}

func runMigrate() error {
	db, err := config.ConnectDB()
	if err != nil {
		return err
	}
	return migration.Migrate(db)
}
