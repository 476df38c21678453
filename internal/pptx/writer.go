// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pptx assembles OOXML presentation archives from resolved deck
// documents. The output targets PowerPoint and LibreOffice; each input
// slide becomes one slide part, preceded by a generated title slide.
package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"visiondeck/internal/imaging"
	"visiondeck/internal/models"
)

// Layout geometry in inches. Elements without explicit options are
// stacked top to bottom inside the content area.
const (
	marginX       = 0.5
	contentWidth  = 9.0
	titleY        = 0.2
	titleH        = 0.8
	contentTop    = 1.1
	contentBottom = 5.425
	elementGap    = 0.15

	defaultTextH  = 1.2
	defaultImageH = 3.5
	defaultShapeH = 2.0
)

// Writer builds PPTX archives. Image elements are fetched over HTTP at
// build time so the archive is self-contained.
type Writer struct {
	client *http.Client
}

// NewWriter creates a Writer with a bounded fetch timeout for slide
// images.
func NewWriter(timeout time.Duration) *Writer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Writer{client: &http.Client{Timeout: timeout}}
}

// mediaPart is one image file embedded in the archive.
type mediaPart struct {
	name string // e.g. "image1.jpeg"
	data []byte
}

// Build assembles the archive for a presentation. The first slide is a
// generated title slide; every input slide follows in order. Elements
// that would overflow the slide are skipped with a warning rather than
// failing the export.
func (w *Writer) Build(ctx context.Context, p *models.Presentation) ([]byte, error) {
	slideCount := len(p.Slides) + 1 // content slides plus the title slide

	var media []mediaPart
	slides := make([]string, 0, slideCount)
	rels := make([]string, 0, slideCount)

	slides = append(slides, titleSlideXML(p.Title))
	rels = append(rels, slideRelsXML(nil))

	for _, s := range p.Slides {
		slideXML, slideMedia, err := w.contentSlideXML(ctx, &s, &media)
		if err != nil {
			return nil, err
		}
		slides = append(slides, slideXML)
		rels = append(rels, slideRelsXML(slideMedia))
	}

	exts := make([]string, 0, len(media))
	for _, m := range media {
		if dot := strings.LastIndex(m.name, "."); dot >= 0 {
			exts = append(exts, m.name[dot+1:])
		}
	}

	var buf bytes.Buffer
	ar := zip.NewWriter(&buf)

	parts := map[string]string{
		"[Content_Types].xml":                      contentTypesXML(slideCount, exts),
		"_rels/.rels":                              rootRelsXML(),
		"docProps/core.xml":                        corePropsXML(p.Title, time.Now().UTC().Format(time.RFC3339)),
		"docProps/app.xml":                         appPropsXML(slideCount),
		"ppt/presentation.xml":                     presentationXML(slideCount),
		"ppt/_rels/presentation.xml.rels":          presentationRelsXML(slideCount),
		"ppt/presProps.xml":                        presPropsXML(),
		"ppt/slideMasters/slideMaster1.xml":        slideMasterXML(),
		"ppt/slideMasters/_rels/slideMaster1.xml.rels": slideMasterRelsXML(),
		"ppt/slideLayouts/slideLayout1.xml":        slideLayoutXML(),
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels": slideLayoutRelsXML(),
		"ppt/theme/theme1.xml":                     themeXML(),
	}
	for i, xml := range slides {
		parts[fmt.Sprintf("ppt/slides/slide%d.xml", i+1)] = xml
		parts[fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1)] = rels[i]
	}

	for name, content := range parts {
		f, err := ar.Create(name)
		if err != nil {
			return nil, fmt.Errorf("pptx: create part %s: %w", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			return nil, fmt.Errorf("pptx: write part %s: %w", name, err)
		}
	}

	for _, m := range media {
		f, err := ar.Create("ppt/media/" + m.name)
		if err != nil {
			return nil, fmt.Errorf("pptx: create media %s: %w", m.name, err)
		}
		if _, err := f.Write(m.data); err != nil {
			return nil, fmt.Errorf("pptx: write media %s: %w", m.name, err)
		}
	}

	if err := ar.Close(); err != nil {
		return nil, fmt.Errorf("pptx: close archive: %w", err)
	}
	return buf.Bytes(), nil
}

// slideMedia links an embedded media part to its relationship id within
// one slide.
type slideMedia struct {
	relID string
	name  string
}

// slideRelsXML builds the relationship part for a slide: the layout plus
// any embedded images.
func slideRelsXML(media []slideMedia) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`)
	for _, m := range media {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/%s"/>`, m.relID, m.name)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

// titleSlideXML renders the generated cover slide.
func titleSlideXML(title string) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:cSld>`)
	b.WriteString(`<p:bg><p:bgPr><a:solidFill><a:srgbClr val="FFFFFF"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`)
	b.WriteString(`<p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)
	b.WriteString(textShapeXML(2, title, box{x: 1.0, y: 1.0, w: 8.5, h: 2.0}, textStyle{
		size: 36, color: "003366", font: "Arial", bold: true, align: "ctr", anchor: "ctr",
	}))
	b.WriteString(textShapeXML(3, "Generated by VisionDeck", box{x: 1.0, y: 3.0, w: 8.5, h: 1.0}, textStyle{
		size: 24, color: "333333", font: "Arial", align: "ctr", anchor: "ctr",
	}))
	b.WriteString(`</p:spTree>`)
	b.WriteString(`</p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}

// contentSlideXML renders one input slide and appends any fetched images
// to the shared media list.
func (w *Writer) contentSlideXML(ctx context.Context, s *models.Slide, media *[]mediaPart) (string, []slideMedia, error) {
	style := models.LookupTheme(s.Background.Theme)

	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:cSld>`)
	fmt.Fprintf(&b, `<p:bg><p:bgPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`, rgb(style.BGColor))
	b.WriteString(`<p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)

	shapeID := 2
	if s.Title != "" {
		b.WriteString(textShapeXML(shapeID, s.Title, box{x: marginX, y: titleY, w: contentWidth, h: titleH}, textStyle{
			size: 24, color: rgb(style.TextColor), font: style.FontFace, bold: true, align: "ctr", anchor: "t",
		}))
		shapeID++
	}

	var slideRels []slideMedia
	cursor := contentTop

	for _, el := range s.Elements {
		bx, ok := elementBox(&el, &cursor)
		if !ok {
			slog.Warn("slide element overflows, skipping",
				"slide", s.Title, "type", el.Type)
			continue
		}

		switch el.Type {
		case models.ElementText:
			st := textStyle{
				size: 18, color: rgb(style.TextColor), font: style.FontFace,
				align: "ctr", anchor: "ctr",
			}
			if el.Color != "" {
				st.color = rgb(el.Color)
			}
			if el.Options != nil {
				if el.Options.FontSize > 0 {
					st.size = int(el.Options.FontSize)
				}
				if el.Options.Align != "" {
					st.align = ooxmlAlign(el.Options.Align)
				}
				st.bold = el.Options.Bold
			}
			b.WriteString(textShapeXML(shapeID, el.Text, bx, st))
			shapeID++

		case models.ElementImage:
			part, err := w.fetchImage(ctx, el.Path, media)
			if err != nil {
				return "", nil, fmt.Errorf("pptx: embed image %q: %w", el.Path, err)
			}
			relID := fmt.Sprintf("rId%d", len(slideRels)+2)
			slideRels = append(slideRels, slideMedia{relID: relID, name: part.name})

			fit := fitBox(bx, part.width, part.height)
			b.WriteString(imageShapeXML(shapeID, relID, fit))
			shapeID++

		case models.ElementShape:
			b.WriteString(shapeShapeXML(shapeID, el.ShapeType, bx, rgb(style.TextColor)))
			shapeID++
		}
	}

	b.WriteString(`</p:spTree>`)
	b.WriteString(`</p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)

	if tr := models.LookupTransition(s.Background.Transition); tr != "" {
		dir := ""
		if tr == "push" {
			dir = ` dir="l"`
		}
		fmt.Fprintf(&b, `<p:transition spd="med"><p:%s%s/></p:transition>`, tr, dir)
	}

	b.WriteString(`</p:sld>`)
	return b.String(), slideRels, nil
}

// fetchedImage extends mediaPart with pixel dimensions for layout.
type fetchedImage struct {
	name   string
	width  int
	height int
}

// fetchImage downloads an image, sniffs its format, and registers it as a
// media part. Returns the part name and dimensions.
func (w *Writer) fetchImage(ctx context.Context, url string, media *[]mediaPart) (*fetchedImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	info, err := imaging.Inspect(data)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("image%d.%s", len(*media)+1, info.Ext)
	*media = append(*media, mediaPart{name: name, data: data})

	return &fetchedImage{name: name, width: info.Width, height: info.Height}, nil
}

// box is an element rectangle in inches.
type box struct {
	x, y, w, h float64
}

// elementBox determines an element's rectangle. Explicit options win;
// otherwise elements stack below the running cursor. Returns false when
// the element would run past the bottom of the slide.
func elementBox(el *models.Element, cursor *float64) (box, bool) {
	if o := el.Options; o != nil && o.W > 0 && o.H > 0 {
		x, y := o.X, o.Y
		if x == 0 && y == 0 {
			x, y = marginX, *cursor
		}
		if y+o.H > slideHeight {
			return box{}, false
		}
		return box{x: x, y: y, w: o.W, h: o.H}, true
	}

	h := defaultTextH
	switch el.Type {
	case models.ElementImage:
		h = defaultImageH
	case models.ElementShape:
		h = defaultShapeH
	}

	if *cursor+h > contentBottom {
		return box{}, false
	}
	bx := box{x: marginX, y: *cursor, w: contentWidth, h: h}
	*cursor += h + elementGap
	return bx, true
}

// fitBox shrinks and centers an image box to preserve the source aspect
// ratio.
func fitBox(bx box, imgW, imgH int) box {
	if imgW <= 0 || imgH <= 0 {
		return bx
	}
	boxRatio := bx.w / bx.h
	imgRatio := float64(imgW) / float64(imgH)

	out := bx
	if imgRatio > boxRatio {
		out.h = bx.w / imgRatio
		out.y = bx.y + (bx.h-out.h)/2
	} else {
		out.w = bx.h * imgRatio
		out.x = bx.x + (bx.w-out.w)/2
	}
	return out
}

// textStyle carries run-level text formatting.
type textStyle struct {
	size   int    // points
	color  string // rrggbb, no #
	font   string
	bold   bool
	align  string // l, ctr, r
	anchor string // t, ctr, b
}

func ooxmlAlign(a string) string {
	switch a {
	case "left":
		return "l"
	case "right":
		return "r"
	default:
		return "ctr"
	}
}

func textShapeXML(id int, text string, bx box, st textStyle) string {
	bold := "0"
	if st.bold {
		bold = "1"
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, id)
	fmt.Fprintf(&b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`,
		emu(bx.x), emu(bx.y), emu(bx.w), emu(bx.h))
	fmt.Fprintf(&b, `<p:txBody><a:bodyPr wrap="square" anchor="%s"/><a:lstStyle/><a:p><a:pPr algn="%s"/>`, st.anchor, st.align)
	fmt.Fprintf(&b, `<a:r><a:rPr lang="en-US" sz="%d" b="%s" dirty="0"><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:latin typeface="%s"/></a:rPr><a:t>%s</a:t></a:r>`,
		st.size*100, bold, st.color, escape(st.font), escape(text))
	b.WriteString(`</a:p></p:txBody></p:sp>`)
	return b.String()
}

func imageShapeXML(id int, relID string, bx box) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Image %d"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`, id, id)
	fmt.Fprintf(&b, `<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`, relID)
	fmt.Fprintf(&b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`,
		emu(bx.x), emu(bx.y), emu(bx.w), emu(bx.h))
	return b.String()
}

// shapeGeom maps the document shape vocabulary to OOXML preset
// geometries.
var shapeGeom = map[string]string{
	"rectangle": "rect",
	"circle":    "ellipse",
	"triangle":  "triangle",
}

func shapeShapeXML(id int, shapeType string, bx box, color string) string {
	prst, ok := shapeGeom[shapeType]
	if !ok {
		prst = "rect"
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Shape %d"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`, id, id)
	fmt.Fprintf(&b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="%s"><a:avLst/></a:prstGeom>`,
		emu(bx.x), emu(bx.y), emu(bx.w), emu(bx.h), prst)
	fmt.Fprintf(&b, `<a:noFill/><a:ln w="25400"><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:ln></p:spPr>`, color)
	b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/><a:p/></p:txBody></p:sp>`)
	return b.String()
}
