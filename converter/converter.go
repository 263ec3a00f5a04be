package converter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"darkpdf/converter/colors"
	"darkpdf/converter/direct"
)

// Status is the outcome of converting one document.
type Status int

const (
	StatusConverted Status = iota
	StatusConvertedWithWarnings
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusConverted:
		return "converted"
	case StatusConvertedWithWarnings:
		return "converted-with-warnings"
	default:
		return "failed"
	}
}

// Result reports the outcome of a single document conversion.
type Result struct {
	Status            Status
	Pages             int
	ColorsTransformed int
	ImagesRecolored   int
	Warnings          []string // page-level, best-effort degradations
	Reason            string   // set when Status is StatusFailed
}

// Options holds the configuration for PDF conversion
type Options struct {
	Scheme        colors.Scheme
	RecolorImages bool          // rewrite embedded raster images too
	Curve         *colors.Curve // optional remap curve override
}

// Convert converts sourcePath to dark mode and writes the result to
// destPath. Page-level problems are contained as warnings; only failures to
// open, parse or write the document fail the conversion. The destination is
// written to a temporary file and renamed, so an interrupted run never
// leaves a partial file behind.
func Convert(sourcePath, destPath string, opts Options) Result {
	f, err := os.Open(sourcePath)
	if err != nil {
		return failure("opening source: %v", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return failure("parsing PDF: %v", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return failure("determining page count: %v", err)
	}

	scheme := opts.Scheme
	if scheme.Name == "" {
		scheme = colors.DefaultScheme()
	}
	var transformer *colors.Transformer
	if opts.Curve != nil {
		transformer = colors.NewTransformerWithCurve(scheme, *opts.Curve)
	} else {
		transformer = colors.NewTransformer(scheme)
	}

	engine := direct.NewEngine(transformer, opts.RecolorImages)

	res := Result{Status: StatusConverted, Pages: ctx.PageCount}
	for pageNum := 1; pageNum <= ctx.PageCount; pageNum++ {
		pageRes := engine.ConvertPage(ctx, pageNum)
		res.ColorsTransformed += pageRes.ColorsTransformed
		res.ImagesRecolored += pageRes.ImagesRecolored
		res.Warnings = append(res.Warnings, pageRes.Warnings...)
	}
	if len(res.Warnings) > 0 {
		res.Status = StatusConvertedWithWarnings
	}

	if err := writeAtomically(ctx, destPath); err != nil {
		return failure("writing output: %v", err)
	}

	return res
}

// writeAtomically serializes the context to a temp file next to destPath and
// renames it into place.
func writeAtomically(ctx *model.Context, destPath string) error {
	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(destDir, ".darkpdf-*.pdf")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := api.WriteContext(ctx, tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func failure(format string, args ...any) Result {
	return Result{Status: StatusFailed, Reason: fmt.Sprintf(format, args...)}
}
