package direct

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"darkpdf/converter/colors"
	"darkpdf/converter/raster"
)

// PageResult reports what happened to a single page. Warnings downgrade the
// page to best-effort; they never abort the document.
type PageResult struct {
	ColorsTransformed int
	ImagesRecolored   int
	Warnings          []string
}

// Partial reports whether the page was only partially converted.
func (r PageResult) Partial() bool {
	return len(r.Warnings) > 0
}

// Engine converts pages in place within an open pdfcpu context: background
// underlay first, then color operator rewriting, then embedded image
// recoloring. Fonts, text positioning and annotations are never touched.
type Engine struct {
	rewriter      *Rewriter
	recolorer     *raster.Recolorer
	scheme        colors.Scheme
	recolorImages bool

	// Content streams can be shared between pages; rewriting or prepending
	// twice would double-transform, so processed object numbers are tracked.
	rewritten map[int]bool
	prepended map[int]bool
}

// NewEngine creates a page conversion engine
func NewEngine(t *colors.Transformer, recolorImages bool) *Engine {
	return &Engine{
		rewriter:      NewRewriter(t),
		recolorer:     raster.NewRecolorer(t),
		scheme:        t.Scheme(),
		recolorImages: recolorImages,
		rewritten:     make(map[int]bool),
		prepended:     make(map[int]bool),
	}
}

// ConvertPage converts one page to dark mode. Every failure is contained as
// a warning on the result so the remaining pages still convert.
func (e *Engine) ConvertPage(ctx *model.Context, pageNum int) PageResult {
	var res PageResult

	pageDict, _, inhPAttrs, err := ctx.PageDict(pageNum, false)
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("page %d: resolving page dict: %v", pageNum, err))
		return res
	}

	mediaBox := resolveMediaBox(pageDict, inhPAttrs)
	underlay := Underlay(mediaBox, e.scheme)

	contentsEntry, found := pageDict.Find("Contents")
	if !found {
		// Blank page: the background is the only content
		if err := ctx.AppendContent(pageDict, underlay); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("page %d: adding background: %v", pageNum, err))
		}
		return res
	}

	// Rewrite color operators before prepending, so the underlay's own
	// colors are never re-transformed.
	switch contents := contentsEntry.(type) {
	case types.IndirectRef:
		e.rewriteStream(ctx, contents, pageNum, &res)
	case types.Array:
		for _, item := range contents {
			if ref, ok := item.(types.IndirectRef); ok {
				e.rewriteStream(ctx, ref, pageNum, &res)
			}
		}
	}

	if err := e.prependUnderlay(ctx, contentsEntry, underlay); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("page %d: adding background: %v", pageNum, err))
	}

	if e.recolorImages {
		recolored, warnings := e.recolorer.RecolorPageImages(ctx, pageDict)
		res.ImagesRecolored += recolored
		for _, w := range warnings {
			res.Warnings = append(res.Warnings, fmt.Sprintf("page %d: %s", pageNum, w))
		}
	}

	return res
}

// rewriteStream runs the color rewriter over one content stream
func (e *Engine) rewriteStream(ctx *model.Context, ref types.IndirectRef, pageNum int, res *PageResult) {
	objNr := int(ref.ObjectNumber)
	if e.rewritten[objNr] {
		return
	}
	e.rewritten[objNr] = true

	obj, err := ctx.Dereference(ref)
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("page %d: dereferencing content stream: %v", pageNum, err))
		return
	}

	sd, ok := obj.(types.StreamDict)
	if !ok {
		return
	}

	if err := sd.Decode(); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("page %d: undecodable content stream: %v", pageNum, err))
		return
	}
	if sd.Content == nil {
		return
	}

	newContent, changed := e.rewriter.RewriteStream(string(sd.Content))
	if changed == 0 {
		return
	}

	sd.Content = []byte(newContent)
	if err := writeStream(ctx, ref, sd); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("page %d: re-encoding content stream: %v", pageNum, err))
		return
	}

	res.ColorsTransformed += changed
}

// prependUnderlay inserts the background content at the head of the page's
// first content stream so it renders below everything else.
func (e *Engine) prependUnderlay(ctx *model.Context, contentsEntry types.Object, underlay []byte) error {
	var ref types.IndirectRef

	switch contents := contentsEntry.(type) {
	case types.IndirectRef:
		ref = contents
	case types.Array:
		if len(contents) == 0 {
			return fmt.Errorf("empty contents array")
		}
		r, ok := contents[0].(types.IndirectRef)
		if !ok {
			return fmt.Errorf("contents array holds no stream reference")
		}
		ref = r
	default:
		return fmt.Errorf("unexpected contents type %T", contentsEntry)
	}

	objNr := int(ref.ObjectNumber)
	if e.prepended[objNr] {
		return nil
	}
	e.prepended[objNr] = true

	obj, err := ctx.Dereference(ref)
	if err != nil {
		return err
	}

	sd, ok := obj.(types.StreamDict)
	if !ok {
		return fmt.Errorf("not a stream dict")
	}

	if err := sd.Decode(); err != nil {
		return err
	}

	sd.Content = append(underlay, sd.Content...)
	return writeStream(ctx, ref, sd)
}

// writeStream re-encodes a modified stream and swaps it into the xref table
func writeStream(ctx *model.Context, ref types.IndirectRef, sd types.StreamDict) error {
	if err := sd.Encode(); err != nil {
		return err
	}
	sd.Dict["Length"] = types.Integer(len(sd.Raw))

	entry, found := ctx.FindTableEntryForIndRef(&ref)
	if !found {
		return fmt.Errorf("no xref entry for object %d", int(ref.ObjectNumber))
	}
	entry.Object = sd
	return nil
}
