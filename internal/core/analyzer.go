// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"image"
	"io"

	"pdf-analyze/internal/config"
	"pdf-analyze/internal/detector/qrscan"
	"pdf-analyze/internal/formatters/text"
	"pdf-analyze/internal/observability"
	imageextractpdfrasterlib "pdf-analyze/internal/preprocessors/image-extractors/image-extract-pdfrasterlib"
	metaextractpdflib "pdf-analyze/internal/preprocessors/meta-extractors/meta-extract-pdflib"
	textextractpdftextlib "pdf-analyze/internal/preprocessors/text-extractors/text-extract-pdftextlib"
	"pdf-analyze/internal/resilience"
	"pdf-analyze/internal/validators/url"
	"pdf-analyze/internal/version"
)

// Report section headers and fixed lines
const (
	SectionMetadata = "Metadata:"
	SectionText     = "Text Analysis:"
	SectionQR       = "QR Code Detection:"
	SectionLinks    = "Links Analysis:"

	LabelExtractedText = "Extracted Text:"
	LabelURLsFound     = "URLs found:"
	MessageNoURLs      = "No direct URLs in the text were found."
	PrefixQRLink       = "QR-Code Link: "

	errorPrefix       = "Error"
	rasterErrorPrefix = "Error extracting images"
)

// StageResult carries a stage's payload, or the error it recorded.
// Value always holds the stage's documented default when Err is set.
type StageResult[T any] struct {
	Value T
	Err   error
}

// OK reports whether the stage succeeded
func (r StageResult[T]) OK() bool {
	return r.Err == nil
}

// Report holds the outcome of every stage of one run
type Report struct {
	FilePath   string
	Metadata   StageResult[*metaextractpdflib.Metadata]
	Text       StageResult[string]
	Pages      StageResult[[]image.Image]
	QRPayloads []string
	URLs       []string
}

// Errors returns the errors recorded by all stages, in stage order
func (r *Report) Errors() []error {
	var errs []error
	for _, err := range []error{r.Metadata.Err, r.Text.Err, r.Pages.Err} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Analyzer runs the extraction stages against one document and prints the report
type Analyzer struct {
	formatter *text.Formatter
	observer  *observability.StandardObserver
	scanner   *qrscan.Scanner
	dpi       float64

	// Stage implementations; replaced in tests
	readMetadata func(path string) (*metaextractpdflib.Metadata, error)
	extractText  func(path string) (string, error)
	rasterize    func(path string, dpi float64) ([]image.Image, error)
}

// NewAnalyzer creates an analyzer writing the report to out
func NewAnalyzer(cfg *config.Config, out io.Writer, useColor bool, observer *observability.StandardObserver) *Analyzer {
	if cfg == nil {
		cfg = config.LoadConfigOrDefault("")
	}
	if observer == nil {
		observer = observability.NewStandardObserver(observability.ObservabilityMetrics, nil)
	}

	return &Analyzer{
		formatter:    text.NewFormatter(out, useColor),
		observer:     observer,
		scanner:      qrscan.NewScanner(observer),
		dpi:          cfg.Raster.DPI,
		readMetadata: metaextractpdflib.ExtractMetadata,
		extractText:  textextractpdftextlib.ExtractText,
		rasterize:    imageextractpdfrasterlib.RasterizePages,
	}
}

// Run executes every stage in order. A failing stage prints its error and
// yields its empty default; later stages always run.
func (a *Analyzer) Run(filePath string) *Report {
	report := &Report{FilePath: filePath}

	var finishRun func(bool, string)
	if a.observer.DebugObserver != nil {
		a.observer.DebugObserver.LogDetail("analyzer", version.Info())
		finishRun = a.observer.DebugObserver.StartStep("analyzer", "run", filePath)
	}

	// Metadata
	a.formatter.Section(SectionMetadata)
	report.Metadata = runStage(a.observer, metaextractpdflib.Stage, filePath, func() (*metaextractpdflib.Metadata, error) {
		return a.readMetadata(filePath)
	})
	if report.Metadata.Err != nil {
		a.formatter.Error(errorPrefix, report.Metadata.Err)
	}
	if report.Metadata.Err != nil || report.Metadata.Value == nil {
		report.Metadata.Value = &metaextractpdflib.Metadata{}
	}
	for _, field := range report.Metadata.Value.Fields {
		a.formatter.Field(field.Name, field.Value)
	}
	a.formatter.Blank()

	// Text
	a.formatter.Section(SectionText)
	report.Text = runStage(a.observer, textextractpdftextlib.Stage, filePath, func() (string, error) {
		return a.extractText(filePath)
	})
	if report.Text.Err != nil {
		a.formatter.Error(errorPrefix, report.Text.Err)
		report.Text.Value = ""
	}
	a.formatter.Line(LabelExtractedText)
	a.formatter.Line(report.Text.Value)
	a.formatter.Blank()

	// Rasterization and QR codes
	a.formatter.Section(SectionQR)
	report.Pages = runStage(a.observer, imageextractpdfrasterlib.Stage, filePath, func() ([]image.Image, error) {
		return a.rasterize(filePath, a.dpi)
	})
	if report.Pages.Err != nil {
		a.formatter.Error(rasterErrorPrefix, report.Pages.Err)
		report.Pages.Value = nil
	}
	a.checkPageCount(report)
	qr := runStage(a.observer, qrscan.Stage, filePath, func() ([]string, error) {
		return a.scanner.Scan(report.Pages.Value), nil
	})
	if qr.Err != nil {
		a.formatter.Error(errorPrefix, qr.Err)
	}
	report.QRPayloads = qr.Value
	for _, payload := range report.QRPayloads {
		a.formatter.Line(PrefixQRLink + payload)
	}
	a.formatter.Blank()

	// Links
	a.formatter.Section(SectionLinks)
	report.URLs = url.FindURLs(report.Text.Value)
	if len(report.URLs) > 0 {
		a.formatter.Found(LabelURLsFound)
		for _, u := range report.URLs {
			a.formatter.Line(u)
		}
	} else {
		a.formatter.Line(MessageNoURLs)
	}
	a.formatter.Blank()

	if finishRun != nil {
		finishRun(true, fmt.Sprintf("%d stage error(s)", len(report.Errors())))
	}

	return report
}

// checkPageCount records the page and field counts on the debug observer and
// notes when the rasterizer and metadata disagree. The report itself is not affected.
func (a *Analyzer) checkPageCount(report *Report) {
	debug := a.observer.DebugObserver
	if debug == nil {
		return
	}
	debug.LogMetric("analyzer", "metadata_fields", report.Metadata.Value.Len())
	debug.LogMetric("analyzer", "rasterized_pages", len(report.Pages.Value))

	if !report.Metadata.OK() || !report.Pages.OK() {
		return
	}
	want := report.Metadata.Value.PageCount
	if got := len(report.Pages.Value); got != want {
		debug.LogDetail("analyzer",
			fmt.Sprintf("page count mismatch: metadata reports %d, rasterizer produced %d", want, got))
	}
}

// runStage times fn on the observer and converts a panic into the stage's error
func runStage[T any](observer *observability.StandardObserver, stage, filePath string, fn func() (T, error)) (result StageResult[T]) {
	finishTiming := observer.StartTiming(stage, "extract", filePath)
	var finishStep func(bool, string)
	if observer.DebugObserver != nil {
		finishStep = observer.DebugObserver.StartStep(stage, "extract", filePath)
	}

	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = StageResult[T]{Value: zero, Err: resilience.PanicError(stage, r)}
		}

		meta := map[string]interface{}{}
		details := ""
		if result.Err != nil {
			meta["error"] = result.Err.Error()
			meta["error_type"] = resilience.TypeOf(result.Err).String()
			details = result.Err.Error()
		}
		finishTiming(result.Err == nil, meta)
		if finishStep != nil {
			finishStep(result.Err == nil, details)
		}
	}()

	value, err := fn()
	if err != nil {
		return StageResult[T]{Value: value, Err: resilience.ClassifyError(stage, err)}
	}
	return StageResult[T]{Value: value}
}
