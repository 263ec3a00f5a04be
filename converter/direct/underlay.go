package direct

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"darkpdf/converter/colors"
)

// Underlay builds the background content for one page: a filled rectangle
// covering the media box, painted before anything else, followed by default
// fill/stroke colors so content that never sets a color still reads as light
// on dark. The graphics state around the rectangle is saved and restored, so
// existing content is never clipped or shifted.
func Underlay(mediaBox *types.Rectangle, scheme colors.Scheme) []byte {
	bg := scheme.Background
	txt := scheme.Text

	content := fmt.Sprintf("q %.4f %.4f %.4f rg %.2f %.2f %.2f %.2f re f Q %.4f %.4f %.4f rg %.4f %.4f %.4f RG\n",
		bg.R, bg.G, bg.B,
		mediaBox.LL.X, mediaBox.LL.Y, mediaBox.Width(), mediaBox.Height(),
		txt.R, txt.G, txt.B,
		txt.R, txt.G, txt.B)

	return []byte(content)
}

// resolveMediaBox finds a page's media box, falling back to inherited
// attributes and finally US Letter.
func resolveMediaBox(pageDict types.Dict, inhPAttrs *model.InheritedPageAttrs) *types.Rectangle {
	if mb, found := pageDict.Find("MediaBox"); found {
		if arr, ok := mb.(types.Array); ok {
			if r := types.RectForArray(arr); r != nil {
				return r
			}
		}
	}

	if inhPAttrs != nil && inhPAttrs.MediaBox != nil {
		return inhPAttrs.MediaBox
	}

	return types.NewRectangle(0, 0, 612, 792)
}
