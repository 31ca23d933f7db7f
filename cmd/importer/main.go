package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	natsadapter "github.com/samirrijal/polylayer/internal/adapters/nats"
	"github.com/samirrijal/polylayer/internal/adapters/postgres"
	"github.com/samirrijal/polylayer/internal/core/ports"
	"github.com/samirrijal/polylayer/internal/core/usecases"
	"github.com/samirrijal/polylayer/internal/importer"
	"github.com/samirrijal/polylayer/internal/pkg/config"
	"github.com/samirrijal/polylayer/internal/pkg/logging"
)

func main() {
	workers := flag.Int("workers", 4, "concurrent layer writes")
	publish := flag.Bool("publish", true, "publish imported layers to NATS")
	dryRun := flag.Bool("dry-run", false, "parse and report shapes without storing them")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: importer [flags] <gtfs.zip|shapes.txt|file.geojson|URL>...\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load("polylayer-importer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()
	client := &http.Client{Timeout: 120 * time.Second}

	var shapes []importer.Shape
	for _, src := range flag.Args() {
		s, err := load(ctx, client, src)
		if err != nil {
			log.Fatalf("%s: %v", src, err)
		}
		slog.Info("shapes loaded", "source", src, "count", len(s))
		shapes = append(shapes, s...)
	}

	if *dryRun {
		for _, s := range shapes {
			fmt.Printf("%s\t%d points\n", s.Name, len(s.Points))
		}
		return
	}

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	var publisher ports.StatePublisher
	if *publish {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, importing without publishing", "error", err)
		} else {
			defer pub.Close()
			publisher = pub
		}
	}

	svc := usecases.NewPolylineService(postgres.NewPolylineRepo(db), nil, publisher)
	res := importer.New(svc, *workers).Run(ctx, shapes)

	slog.Info("import complete",
		"shapes", len(shapes),
		"created", res.Created,
		"rejected", res.Rejected,
		"failed", res.Failed,
	)
	if res.Failed > 0 {
		os.Exit(1)
	}
}

// load reads shapes from a local path or downloads them first when src is
// an http(s) URL.
func load(ctx context.Context, client *http.Client, src string) ([]importer.Shape, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return importer.ReadFile(src)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, src)
	}

	name := filepath.Base(strings.SplitN(src, "?", 2)[0])
	tmp, err := os.CreateTemp("", "polylayer-*-"+name)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return importer.ReadFile(tmp.Name())
}
