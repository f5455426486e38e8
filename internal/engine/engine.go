// Package engine orchestrates one sampling run: reader -> sampler ->
// privacy -> writer, followed by statistics collection and the manifest.
package engine

import (
	"context"
	"os"

	"github.com/DNAi-inc/DNUDS/internal/config"
	"github.com/DNAi-inc/DNUDS/internal/format"
	"github.com/DNAi-inc/DNUDS/internal/format/jsonlines"
	"github.com/DNAi-inc/DNUDS/internal/format/logfmt"
	"github.com/DNAi-inc/DNUDS/internal/format/sqldump"
	"github.com/DNAi-inc/DNUDS/internal/format/tabular"
	"github.com/DNAi-inc/DNUDS/internal/manifest"
	"github.com/DNAi-inc/DNUDS/internal/privacy"
	"github.com/DNAi-inc/DNUDS/internal/sampling"
	"github.com/DNAi-inc/DNUDS/internal/stats"
	"github.com/DNAi-inc/DNUDS/internal/util"
)

// Request describes one sampling run end to end.
type Request struct {
	InputPath    string
	OutputPath   string
	InputFormat  format.Type // Unknown triggers detection
	OutputFormat format.Type // Unknown defaults to InputFormat

	Sampler config.SamplerConfig

	// LogParsePattern and LogColumnNames configure the log reader;
	// LogTemplate configures the log writer. Both are optional.
	LogParsePattern string
	LogColumnNames  []string
	LogTemplate     string

	// Now is the UTC ISO-8601 "Z"-suffixed timestamp stamped on the
	// manifest; callers supply it since the engine itself may not call
	// time.Now (kept injectable for deterministic tests).
	Now string
}

// Result is what a successful run reports back to its caller.
type Result struct {
	OutputPath   string
	ActualRows   int
	ManifestPath string
}

// Run executes one sampling request in full.
func Run(ctx context.Context, req Request) (*Result, error) {
	if _, err := os.Stat(req.InputPath); err != nil {
		return nil, util.WrapErrorAs(util.KindInputMissing, err, "input file does not exist")
	}

	inputFormat := req.InputFormat
	if inputFormat == "" || inputFormat == format.Unknown {
		detected, err := format.Detect(req.InputPath)
		if err != nil {
			return nil, util.WrapErrorAs(util.KindIOFailure, err, "failed to detect input format")
		}
		inputFormat = detected
	}
	if inputFormat == format.Unknown {
		return nil, util.NewError(util.KindUnknownFormat, "could not detect input format for "+req.InputPath)
	}

	outputFormat := req.OutputFormat
	if outputFormat == "" || outputFormat == format.Unknown {
		outputFormat = inputFormat
	}

	reader, err := newReader(req, inputFormat)
	if err != nil {
		return nil, err
	}
	readerClosed := false
	defer func() {
		if !readerClosed {
			if cerr := reader.Close(); cerr != nil {
				util.LogError(util.FromContext(ctx), util.WrapError(cerr, "failed to close reader"))
			}
		}
	}()

	columns, err := reader.Columns(ctx)
	if err != nil {
		return nil, util.WrapErrorAs(util.KindIOFailure, err, "failed to read input columns")
	}

	writer, err := newWriter(req, outputFormat)
	if err != nil {
		return nil, err
	}
	writerClosed := false
	defer func() {
		if !writerClosed {
			if cerr := writer.Close(); cerr != nil {
				util.LogError(util.FromContext(ctx), util.WrapError(cerr, "failed to close writer"))
			}
		}
	}()

	if err := writer.WriteHeader(ctx, columns); err != nil {
		return nil, err
	}

	sampler, err := sampling.New(sampling.Config{
		Strategy:   req.Sampler.SamplingMode,
		TargetRows: req.Sampler.TargetRows,
		KeyColumns: req.Sampler.KeyColumns,
		Seed:       req.Sampler.Seed,
	})
	if err != nil {
		return nil, err
	}

	rowc, errc := reader.Rows(ctx)
	sampled, err := sampler.Sample(ctx, rowc, errc)
	if err != nil {
		return nil, err
	}

	var buffered []format.Row
	for _, row := range sampled {
		masked := privacy.Apply(row, req.Sampler.PrivacyRules)
		if err := writer.WriteRow(ctx, masked); err != nil {
			return nil, err
		}
		buffered = append(buffered, masked)
	}

	writerClosed = true
	if err := writer.Close(); err != nil {
		return nil, err
	}
	readerClosed = true
	if err := reader.Close(); err != nil {
		util.LogError(util.FromContext(ctx), err)
	}

	var columnStats []stats.ColumnResult
	if results, err := collectStats(columns, buffered); err == nil {
		columnStats = results
	} else {
		// Statistics failures are swallowed: the manifest is still
		// written, without a statistics block.
		util.LogError(util.FromContext(ctx), util.WrapError(err, "statistics collection failed"))
	}

	manifestPath, err := manifest.Write(manifest.Params{
		InputPath:    req.InputPath,
		OutputPath:   req.OutputPath,
		InputFormat:  inputFormat,
		OutputFormat: outputFormat,
		Strategy:     req.Sampler.SamplingMode,
		TargetRows:   req.Sampler.TargetRows,
		ActualRows:   len(buffered),
		KeyColumns:   req.Sampler.KeyColumns,
		Seed:         req.Sampler.Seed,
		Columns:      columns,
		ColumnStats:  columnStats,
		PrivacyRules: req.Sampler.PrivacyRules,
		Timestamp:    req.Now,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		OutputPath:   req.OutputPath,
		ActualRows:   len(buffered),
		ManifestPath: manifestPath,
	}, nil
}

func collectStats(columns []string, rows []format.Row) ([]stats.ColumnResult, error) {
	collector := stats.NewCollector(columns)
	for _, row := range rows {
		collector.Observe(row)
	}
	return collector.Finish(), nil
}

func newReader(req Request, f format.Type) (format.Reader, error) {
	switch f {
	case format.Tabular:
		return tabular.NewReader(req.InputPath)
	case format.JSONLines:
		return jsonlines.NewReader(req.InputPath)
	case format.Log:
		return logfmt.NewReader(req.InputPath, req.LogParsePattern, req.LogColumnNames)
	case format.SQLDump:
		return sqldump.NewReader(req.InputPath, req.Sampler.Table)
	default:
		return nil, util.NewError(util.KindUnknownFormat, "unsupported input format: "+string(f))
	}
}

func newWriter(req Request, f format.Type) (format.Writer, error) {
	switch f {
	case format.Tabular:
		return tabular.NewWriter(req.OutputPath)
	case format.JSONLines:
		return jsonlines.NewWriter(req.OutputPath)
	case format.Log:
		return logfmt.NewWriter(req.OutputPath, req.LogTemplate)
	case format.SQLDump:
		return sqldump.NewWriter(req.OutputPath, req.Sampler.Table)
	default:
		return nil, util.NewError(util.KindUnknownFormat, "unsupported output format: "+string(f))
	}
}
