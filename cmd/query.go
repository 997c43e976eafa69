package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/brendan-ward/geosafe/feather"
	"github.com/brendan-ward/geosafe/geos"
	"github.com/brendan-ward/geosafe/store"
	"github.com/gosuri/uiprogress"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type queryOptions struct {
	wkt          string
	predicate    string
	buffer       float64
	geomColumn   string
	idColumn     string
	name         string
	description  string
	numWorkers   int
	nodeCapacity int
	precision    int
	progress     io.Writer
}

var flags = queryOptions{}

var queryCmd = &cobra.Command{
	Use:   "query [IN.feather] [OUT.sqlite]",
	Short: "Write the features of a GeoArrow file that match a query geometry",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 {
			return errors.New("feather and sqlite filenames are required")
		}
		if _, err := os.Stat(args[0]); errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("input file '%s' does not exist", args[0])
		}
		outDir, _ := path.Split(args[1])
		if outDir != "" {
			if _, err := os.Stat(outDir); errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("output directory '%s' does not exist", outDir)
			}
		}
		if path.Ext(args[1]) != ".sqlite" {
			return errors.New("sqlite filename must end in '.sqlite'")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// validate flags
		if flags.wkt == "" {
			return errors.New("--wkt is required")
		}
		if flags.numWorkers < 1 {
			flags.numWorkers = 1
		}
		// flags override the configuration file
		if cmd.Flags().Changed("node-capacity") {
			cfg.Index.NodeCapacity = flags.nodeCapacity
		}
		if cmd.Flags().Changed("precision") {
			cfg.Writer.Precision = flags.precision
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		flags.progress = os.Stderr

		return query(args[0], args[1], flags)
	},
	SilenceUsage: true,
}

func init() {
	queryCmd.Flags().StringVar(&flags.wkt, "wkt", "", "query geometry as WKT")
	queryCmd.Flags().StringVarP(&flags.predicate, "predicate", "p", string(geos.PredicateIntersects), "predicate tested between the query geometry and each feature")
	queryCmd.Flags().Float64VarP(&flags.buffer, "buffer", "b", 0, "buffer the query geometry by this distance before testing")
	queryCmd.Flags().StringVarP(&flags.geomColumn, "geometry", "g", "geometry", "WKB column name")
	queryCmd.Flags().StringVar(&flags.idColumn, "id", "", "integer column name to use as feature ID; '__auto__' numbers features")
	queryCmd.Flags().StringVarP(&flags.name, "name", "n", "", "result name")
	queryCmd.Flags().StringVar(&flags.description, "description", "", "result description")
	queryCmd.Flags().IntVarP(&flags.numWorkers, "workers", "w", 4, "number of workers to write features")
	queryCmd.Flags().IntVar(&flags.nodeCapacity, "node-capacity", geos.DefaultNodeCapacity, "spatial index node capacity")
	queryCmd.Flags().IntVar(&flags.precision, "precision", -1, "decimal places of the query WKT stored in metadata; -1 for full precision")
}

// decode parses WKB values into geometries owned by ctx.
func decode(ctx *geos.Context, wkbs [][]byte, progress io.Writer) (*geos.GeometryArray, error) {
	bar := progressbar.NewOptions(len(wkbs),
		progressbar.OptionSetWidth(25),
		progressbar.OptionSetDescription("decoding"),
		progressbar.OptionSetWriter(progress),
	)
	defer bar.Clear()

	geometries := make([]*geos.Geometry, len(wkbs))
	release := func() {
		for _, g := range geometries {
			if g != nil {
				g.Release()
			}
		}
	}
	for i, wkb := range wkbs {
		bar.Add(1)
		if len(wkb) == 0 {
			continue
		}
		g, err := ctx.FromWKB(wkb)
		if err != nil {
			release()
			return nil, fmt.Errorf("could not decode geometry %d: %w", i, err)
		}
		geometries[i] = g
	}
	return geos.NewGeometryArray(geometries)
}

func queryGeometry(ctx *geos.Context, wkt string, buffer float64) (*geos.Geometry, error) {
	g, err := ctx.FromWKT(wkt)
	if err != nil {
		return nil, fmt.Errorf("could not parse query geometry: %w", err)
	}
	if buffer == 0 {
		return g, nil
	}
	defer g.Release()

	buffered, err := g.Buffer(buffer, cfg.Buffer.QuadrantSegments)
	if err != nil {
		return nil, fmt.Errorf("could not buffer query geometry: %w", err)
	}
	return buffered, nil
}

// queryText writes g with the configured writer settings, on the context of g.
func queryText(g *geos.Geometry) (string, error) {
	w, err := g.Context().NewWKTWriter()
	if err != nil {
		return "", err
	}
	defer w.Release()

	if err := w.SetRoundingPrecision(cfg.Writer.Precision); err != nil {
		return "", err
	}
	if err := w.SetTrim(cfg.Writer.Trim); err != nil {
		return "", err
	}
	if err := w.SetOutputDimension(cfg.Writer.OutputDimension); err != nil {
		return "", err
	}
	return w.Write(g)
}

func produce(indexes []int, queue chan<- int, progress *uiprogress.Progress) {
	defer close(queue)

	count := len(indexes)
	bar := progress.AddBar(count).AppendCompleted().PrependElapsed()
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		return fmt.Sprintf("writing (%8v/%8v)", b.Current(), count)
	})

	for _, i := range indexes {
		queue <- i
		bar.Incr()
	}
}

func query(infilename string, outfilename string, opts queryOptions) error {
	pred, err := geos.ParsePredicate(opts.predicate)
	if err != nil {
		return err
	}
	if opts.name == "" {
		opts.name = strings.TrimSuffix(path.Base(infilename), filepath.Ext(infilename))
	}
	if opts.progress == nil {
		opts.progress = io.Discard
	}

	ctx, err := geos.NewContext()
	if err != nil {
		return err
	}
	defer ctx.Release()
	ctx.SetNoticeHandler(func(message string) {
		log.Warn().Str("message", message).Msg("GEOS notice")
	})
	ctx.SetErrorHandler(func(message string) {
		log.Error().Str("message", message).Msg("GEOS error")
	})

	log.Info().Str("path", infilename).Msg("Reading features")
	table, err := feather.Read(infilename, opts.geomColumn, opts.idColumn)
	if err != nil {
		return err
	}

	features, err := decode(ctx, table.WKB, opts.progress)
	if err != nil {
		return err
	}
	defer features.Release()
	if err := features.SetNodeCapacity(cfg.Index.NodeCapacity); err != nil {
		return err
	}

	g, err := queryGeometry(ctx, opts.wkt, opts.buffer)
	if err != nil {
		return err
	}
	defer g.Release()

	indexes, err := features.QueryGeometry(g, pred)
	if err != nil {
		return err
	}
	log.Info().Int("features", features.Size()).Int("matches", len(indexes)).Str("predicate", string(pred)).Msg("Queried features")

	db, err := store.NewWriter(outfilename, opts.numWorkers)
	if err != nil {
		return err
	}
	defer db.Close()

	metadata := store.Metadata{
		Name:        opts.name,
		Description: opts.description,
		Predicate:   string(pred),
		Count:       len(indexes),
	}
	if metadata.Query, err = queryText(g); err != nil {
		return err
	}
	if empty, err := g.IsEmpty(); err == nil && !empty {
		if metadata.Bounds, err = g.Bounds(); err != nil {
			return err
		}
	}
	if err := db.WriteMetadata(metadata); err != nil {
		return err
	}

	progress := uiprogress.New()
	progress.SetOut(opts.progress)
	progress.Start()

	queue := make(chan int)
	var wg sync.WaitGroup
	var errOnce sync.Once
	var writeErr error

	go produce(indexes, queue, progress)

	for i := 0; i < opts.numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			con, err := db.GetConnection()
			if err != nil {
				errOnce.Do(func() { writeErr = err })
				// drain so the producer can finish
				for range queue {
				}
				return
			}
			defer db.CloseConnection(con)

			for i := range queue {
				id := uint64(i)
				if table.IDs != nil {
					id = table.IDs[i]
				}
				if err := store.WriteFeature(con, id, table.WKB[i]); err != nil {
					errOnce.Do(func() { writeErr = err })
				}
			}
		}()
	}

	wg.Wait()
	progress.Stop()

	if writeErr != nil {
		return writeErr
	}

	log.Info().Str("path", outfilename).Int("count", len(indexes)).Msg("Wrote matching features")
	return db.Close()
}
