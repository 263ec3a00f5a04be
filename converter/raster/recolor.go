package raster

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"darkpdf/converter/colors"
)

// Recolorer rewrites the pixel data of embedded image XObjects through the
// color transformer. Dimensions, soft masks and stencil masks are never
// touched. Images it cannot decode are left as-is and reported as warnings
// so the page downgrades to best-effort instead of failing.
type Recolorer struct {
	transformer *colors.Transformer

	// Images and palettes are shared resources; each object is recolored
	// at most once. Palettes are keyed by the lookup stream's object number
	// or, for literal palettes, by the shared ColorSpace object.
	visited  map[int]bool
	palettes map[int]bool
}

// NewRecolorer creates a recolorer for the given transformer
func NewRecolorer(t *colors.Transformer) *Recolorer {
	return &Recolorer{
		transformer: t,
		visited:     make(map[int]bool),
		palettes:    make(map[int]bool),
	}
}

// seenPalette marks a palette object as transformed, reporting whether it
// already was. Object number 0 means the palette is inlined in the image
// dict and cannot be shared.
func (rc *Recolorer) seenPalette(objNr int) bool {
	if objNr == 0 {
		return false
	}
	if rc.palettes[objNr] {
		return true
	}
	rc.palettes[objNr] = true
	return false
}

// RecolorPageImages recolors every image XObject referenced by a page's
// resource dictionary. Returns the number of images rewritten plus warnings
// for the ones left untouched.
func (rc *Recolorer) RecolorPageImages(ctx *model.Context, pageDict types.Dict) (int, []string) {
	var warnings []string

	resObj, found := pageDict.Find("Resources")
	if !found {
		return 0, nil
	}
	resDict, err := ctx.DereferenceDict(resObj)
	if err != nil || resDict == nil {
		return 0, nil
	}

	xObj, found := resDict.Find("XObject")
	if !found {
		return 0, nil
	}
	xDict, err := ctx.DereferenceDict(xObj)
	if err != nil || xDict == nil {
		return 0, nil
	}

	recolored := 0
	for name, entry := range xDict {
		ref, ok := entry.(types.IndirectRef)
		if !ok {
			continue
		}

		objNr := int(ref.ObjectNumber)
		if rc.visited[objNr] {
			continue
		}
		rc.visited[objNr] = true

		obj, err := ctx.Dereference(ref)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("image %s: %v", name, err))
			continue
		}
		sd, ok := obj.(types.StreamDict)
		if !ok {
			continue
		}
		if subtype, ok := sd.Dict["Subtype"].(types.Name); !ok || string(subtype) != "Image" {
			continue
		}

		ok, err = rc.recolorImage(ctx, ref, sd)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("image %s left unconverted: %v", name, err))
			continue
		}
		if ok {
			recolored++
		}
	}

	return recolored, warnings
}

// recolorImage dispatches on the image's filter chain. Returns false with no
// error for images that need no recoloring (stencil masks).
func (rc *Recolorer) recolorImage(ctx *model.Context, ref types.IndirectRef, sd types.StreamDict) (bool, error) {
	// Stencil masks carry no color; the fill operator painting them was
	// already transformed.
	if mask, ok := sd.Dict["ImageMask"].(types.Boolean); ok && bool(mask) {
		return false, nil
	}

	filters := filterChain(ctx, sd.Dict)

	switch {
	case len(filters) == 1 && filters[0] == "DCTDecode":
		if _, found := sd.Dict.Find("Decode"); found {
			return false, fmt.Errorf("JPEG with Decode array")
		}
		if err := rc.recolorJPEG(ctx, ref, sd); err != nil {
			return false, err
		}
		return true, nil

	case len(filters) == 0 || (len(filters) == 1 && filters[0] == "FlateDecode"):
		if hasPredictor(ctx, sd.Dict) {
			return false, fmt.Errorf("predictor-encoded samples")
		}
		if _, found := sd.Dict.Find("Decode"); found {
			return false, fmt.Errorf("image with Decode array")
		}
		return rc.recolorSamples(ctx, ref, sd)

	default:
		return false, fmt.Errorf("unsupported filter chain %v", filters)
	}
}

// recolorJPEG round-trips a DCT image through the stdlib codec. The output
// is always a baseline RGB JPEG, so the color space entry is normalized to
// DeviceRGB.
func (rc *Recolorer) recolorJPEG(ctx *model.Context, ref types.IndirectRef, sd types.StreamDict) error {
	img, err := jpeg.Decode(bytes.NewReader(sd.Raw))
	if err != nil {
		return fmt.Errorf("decoding JPEG: %w", err)
	}

	inverted := rc.InvertImage(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, inverted, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("encoding JPEG: %w", err)
	}

	sd.Raw = buf.Bytes()
	sd.Dict["Length"] = types.Integer(len(sd.Raw))
	sd.Dict["ColorSpace"] = types.Name("DeviceRGB")
	sd.Dict["BitsPerComponent"] = types.Integer(8)

	return swapStream(ctx, ref, sd)
}

// InvertImage applies the color transform to every pixel of a decoded image
func (rc *Recolorer) InvertImage(img image.Image) image.Image {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			result.Set(x, y, rc.transformer.Pixel(img.At(x, y)))
		}
	}

	return result
}

// recolorSamples transforms raw (possibly flate-compressed) sample data in
// place. Indexed images are handled through their palette, which is far
// cheaper and keeps the sample data byte-identical.
func (rc *Recolorer) recolorSamples(ctx *model.Context, ref types.IndirectRef, sd types.StreamDict) (bool, error) {
	space, csArr, csObjNr, err := rc.resolveColorSpace(ctx, sd.Dict)
	if err != nil {
		return false, err
	}

	if space == colors.SpaceIndexed {
		if err := rc.recolorPalette(ctx, csArr, csObjNr); err != nil {
			return false, err
		}
		return true, nil
	}

	bpc := 8
	if i, ok := sd.Dict["BitsPerComponent"].(types.Integer); ok {
		bpc = int(i)
	}
	if bpc != 8 {
		return false, fmt.Errorf("%d bits per component", bpc)
	}

	if err := sd.Decode(); err != nil {
		return false, fmt.Errorf("decoding samples: %w", err)
	}

	data := make([]byte, len(sd.Content))
	copy(data, sd.Content)

	switch space {
	case colors.SpaceGray:
		rc.transformGraySamples(data)
	case colors.SpaceRGB:
		rc.transformRGBSamples(data)
	case colors.SpaceCMYK:
		rc.transformCMYKSamples(data)
	default:
		return false, fmt.Errorf("unsupported color space")
	}

	sd.Content = data
	if err := sd.Encode(); err != nil {
		return false, fmt.Errorf("re-encoding samples: %w", err)
	}
	sd.Dict["Length"] = types.Integer(len(sd.Raw))

	if err := swapStream(ctx, ref, sd); err != nil {
		return false, err
	}
	return true, nil
}

func (rc *Recolorer) transformGraySamples(data []byte) {
	for i, v := range data {
		data[i] = to8(rc.transformer.Gray(float64(v) / 255))
	}
}

func (rc *Recolorer) transformRGBSamples(data []byte) {
	for i := 0; i+2 < len(data); i += 3 {
		r, g, b := rc.transformer.RGB(float64(data[i])/255, float64(data[i+1])/255, float64(data[i+2])/255)
		data[i], data[i+1], data[i+2] = to8(r), to8(g), to8(b)
	}
}

func (rc *Recolorer) transformCMYKSamples(data []byte) {
	for i := 0; i+3 < len(data); i += 4 {
		c, m, y, k := rc.transformer.CMYK(
			float64(data[i])/255, float64(data[i+1])/255,
			float64(data[i+2])/255, float64(data[i+3])/255)
		data[i], data[i+1], data[i+2], data[i+3] = to8(c), to8(m), to8(y), to8(k)
	}
}

// recolorPalette rewrites the lookup table of an Indexed color space
// (csArr = [/Indexed base hival lookup]). A palette shared between images,
// either as a common lookup stream or through a common ColorSpace object,
// is transformed exactly once; transforming it again would round-trip the
// entries back toward their originals.
func (rc *Recolorer) recolorPalette(ctx *model.Context, csArr types.Array, csObjNr int) error {
	if len(csArr) < 4 {
		return fmt.Errorf("malformed Indexed color space")
	}

	base, err := rc.baseSpace(ctx, csArr[1])
	if err != nil {
		return err
	}

	lookupKey := csObjNr
	if ref, ok := csArr[3].(types.IndirectRef); ok {
		lookupKey = int(ref.ObjectNumber)
	}

	lookup, err := ctx.Dereference(csArr[3])
	if err != nil {
		return fmt.Errorf("dereferencing palette: %w", err)
	}

	switch l := lookup.(type) {
	case types.StreamDict:
		ref, ok := csArr[3].(types.IndirectRef)
		if !ok {
			return fmt.Errorf("palette stream without indirect reference")
		}
		if rc.seenPalette(lookupKey) {
			return nil
		}
		if err := l.Decode(); err != nil {
			return fmt.Errorf("decoding palette stream: %w", err)
		}
		pal := make([]byte, len(l.Content))
		copy(pal, l.Content)
		if err := rc.transformPalette(pal, base); err != nil {
			return err
		}
		l.Content = pal
		if err := l.Encode(); err != nil {
			return fmt.Errorf("re-encoding palette stream: %w", err)
		}
		l.Dict["Length"] = types.Integer(len(l.Raw))
		return swapStream(ctx, ref, l)

	case types.HexLiteral:
		if rc.seenPalette(lookupKey) {
			return nil
		}
		pal, err := l.Bytes()
		if err != nil {
			return fmt.Errorf("reading palette: %w", err)
		}
		if err := rc.transformPalette(pal, base); err != nil {
			return err
		}
		csArr[3] = types.HexLiteral(hex.EncodeToString(pal))
		return nil

	default:
		return fmt.Errorf("unsupported palette representation %T", lookup)
	}
}

func (rc *Recolorer) transformPalette(pal []byte, base colors.Space) error {
	switch base {
	case colors.SpaceGray:
		rc.transformGraySamples(pal)
	case colors.SpaceRGB:
		rc.transformRGBSamples(pal)
	case colors.SpaceCMYK:
		rc.transformCMYKSamples(pal)
	default:
		return fmt.Errorf("unsupported palette base space")
	}
	return nil
}

// resolveColorSpace maps a ColorSpace entry onto the closed space set. The
// Indexed case additionally returns the color space array, plus its object
// number when the entry is an indirect reference (0 when inlined), so the
// palette can be rewritten without retransforming a shared one.
func (rc *Recolorer) resolveColorSpace(ctx *model.Context, d types.Dict) (colors.Space, types.Array, int, error) {
	csObj, found := d.Find("ColorSpace")
	if !found {
		return colors.SpaceUnsupported, nil, 0, fmt.Errorf("missing color space")
	}

	csObjNr := 0
	if ref, ok := csObj.(types.IndirectRef); ok {
		csObjNr = int(ref.ObjectNumber)
	}

	cs, err := ctx.Dereference(csObj)
	if err != nil {
		return colors.SpaceUnsupported, nil, 0, err
	}

	switch c := cs.(type) {
	case types.Name:
		return nameToSpace(string(c)), nil, 0, nil
	case types.Array:
		if len(c) > 0 {
			if n, ok := c[0].(types.Name); ok {
				switch string(n) {
				case "Indexed":
					return colors.SpaceIndexed, c, csObjNr, nil
				case "ICCBased":
					sp, err := rc.iccSpace(ctx, c)
					return sp, nil, 0, err
				}
			}
		}
	}

	return colors.SpaceUnsupported, nil, 0, fmt.Errorf("unrecognized color space")
}

// baseSpace resolves the base of an Indexed color space
func (rc *Recolorer) baseSpace(ctx *model.Context, o types.Object) (colors.Space, error) {
	base, err := ctx.Dereference(o)
	if err != nil {
		return colors.SpaceUnsupported, err
	}

	switch b := base.(type) {
	case types.Name:
		return nameToSpace(string(b)), nil
	case types.Array:
		if len(b) > 0 {
			if n, ok := b[0].(types.Name); ok && string(n) == "ICCBased" {
				return rc.iccSpace(ctx, b)
			}
		}
	}
	return colors.SpaceUnsupported, fmt.Errorf("unrecognized base space")
}

// iccSpace maps an ICCBased stream onto a device space via its component count
func (rc *Recolorer) iccSpace(ctx *model.Context, arr types.Array) (colors.Space, error) {
	if len(arr) < 2 {
		return colors.SpaceUnsupported, fmt.Errorf("malformed ICCBased color space")
	}
	obj, err := ctx.Dereference(arr[1])
	if err != nil {
		return colors.SpaceUnsupported, err
	}
	sd, ok := obj.(types.StreamDict)
	if !ok {
		return colors.SpaceUnsupported, fmt.Errorf("ICCBased without profile stream")
	}
	if n, ok := sd.Dict["N"].(types.Integer); ok {
		switch int(n) {
		case 1:
			return colors.SpaceGray, nil
		case 3:
			return colors.SpaceRGB, nil
		case 4:
			return colors.SpaceCMYK, nil
		}
	}
	return colors.SpaceUnsupported, fmt.Errorf("ICCBased with unknown component count")
}

func nameToSpace(name string) colors.Space {
	switch name {
	case "DeviceGray", "CalGray", "G":
		return colors.SpaceGray
	case "DeviceRGB", "CalRGB", "RGB":
		return colors.SpaceRGB
	case "DeviceCMYK", "CMYK":
		return colors.SpaceCMYK
	case "I", "Indexed":
		return colors.SpaceIndexed
	default:
		return colors.SpaceUnsupported
	}
}

// filterChain returns the names of the stream's filters in order
func filterChain(ctx *model.Context, d types.Dict) []string {
	fObj, found := d.Find("Filter")
	if !found {
		return nil
	}
	f, err := ctx.Dereference(fObj)
	if err != nil {
		return []string{"unresolvable"}
	}

	switch ft := f.(type) {
	case types.Name:
		return []string{string(ft)}
	case types.Array:
		var names []string
		for _, o := range ft {
			if n, ok := o.(types.Name); ok {
				names = append(names, string(n))
			}
		}
		return names
	}
	return []string{"unrecognized"}
}

// hasPredictor reports whether DecodeParms declares a PNG/TIFF predictor
func hasPredictor(ctx *model.Context, d types.Dict) bool {
	dpObj, found := d.Find("DecodeParms")
	if !found {
		return false
	}
	dp, err := ctx.DereferenceDict(dpObj)
	if err != nil || dp == nil {
		return false
	}
	if p, ok := dp["Predictor"].(types.Integer); ok {
		return int(p) > 1
	}
	return false
}

// swapStream replaces a stream object in the xref table
func swapStream(ctx *model.Context, ref types.IndirectRef, sd types.StreamDict) error {
	entry, found := ctx.FindTableEntryForIndRef(&ref)
	if !found {
		return fmt.Errorf("no xref entry for object %d", int(ref.ObjectNumber))
	}
	entry.Object = sd
	return nil
}

func to8(f float64) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(f*255 + 0.5)
}
