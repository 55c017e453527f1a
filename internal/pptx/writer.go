package pptx

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsOfficeDocRels  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsRelationships  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"

	relTypeOfficeDocument = nsOfficeDocRels + "/officeDocument"
	relTypeCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeExtendedProps  = nsOfficeDocRels + "/extended-properties"
	relTypeSlideMaster    = nsOfficeDocRels + "/slideMaster"
	relTypeSlideLayout    = nsOfficeDocRels + "/slideLayout"
	relTypeSlide          = nsOfficeDocRels + "/slide"
	relTypeTheme          = nsOfficeDocRels + "/theme"
	relTypeImage          = nsOfficeDocRels + "/image"
	relTypePresProps      = nsOfficeDocRels + "/presProps"
	relTypeViewProps      = nsOfficeDocRels + "/viewProps"
	relTypeTableStyles    = nsOfficeDocRels + "/tableStyles"

	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctPresProps    = "application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"
	ctViewProps    = "application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"
	ctTableStyles  = "application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"
	ctCoreProps    = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtProps     = "application/vnd.openxmlformats-officedocument.extended-properties+xml"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// packageNamespace scopes the name-based package identifiers
var packageNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/jonathan/campaign-deck"))

// ID returns a stable identifier derived from the deck's title, author and slide count
func (d *Deck) ID() uuid.UUID {
	return uuid.NewSHA1(packageNamespace, []byte(fmt.Sprintf("%s\x00%s\x00%d", d.Title, d.Author, len(d.Slides))))
}

// Save writes the deck to path, creating parent directories
func (d *Deck) Save(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	writeErr := d.Encode(f)
	closeErr := f.Close()

	if writeErr != nil {
		_ = os.Remove(path)
		return writeErr
	}
	return closeErr
}

// Bytes encodes the deck into memory
func (d *Deck) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes the deck as a presentation package. The output depends only
// on the deck: entries carry no timestamps, parts are written in a fixed
// order, and shape ids are numbered per part at write time.
func (d *Deck) Encode(w io.Writer) error {
	parts, err := newEncoder(d).build()
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, p := range parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate})
		if err != nil {
			return &EncodeError{Message: "failed to create " + p.name, Cause: err}
		}
		if _, err := fw.Write(p.data); err != nil {
			return &EncodeError{Message: "failed to write " + p.name, Cause: err}
		}
	}
	if err := zw.Close(); err != nil {
		return &EncodeError{Message: "failed to finish package", Cause: err}
	}
	return nil
}

type part struct {
	name string
	data []byte
}

type mediaPart struct {
	name string
	ext  string
	data []byte
}

type relationship struct {
	id     string
	typ    string
	target string
}

type relSet struct {
	rels []relationship
}

func (r *relSet) add(typ, target string) string {
	id := fmt.Sprintf("rId%d", len(r.rels)+1)
	r.rels = append(r.rels, relationship{id: id, typ: typ, target: target})
	return id
}

func (r *relSet) xml() []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<Relationships xmlns="%s">`, nsRelationships)
	for _, rel := range r.rels {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`, rel.id, rel.typ, esc(rel.target))
	}
	b.WriteString(`</Relationships>`)
	return []byte(b.String())
}

type encoder struct {
	deck        *Deck
	layouts     []*Layout
	layoutIndex map[string]int
	media       []mediaPart
	mediaByHash map[[32]byte]int
	extensions  []string
}

func newEncoder(d *Deck) *encoder {
	layouts := d.Layouts
	if len(layouts) == 0 {
		layouts = []*Layout{{Name: "BLANK"}}
	}
	idx := make(map[string]int, len(layouts))
	for i, l := range layouts {
		if _, ok := idx[l.Name]; !ok {
			idx[l.Name] = i
		}
	}
	return &encoder{
		deck:        d,
		layouts:     layouts,
		layoutIndex: idx,
		mediaByHash: make(map[[32]byte]int),
	}
}

// addMedia stores image bytes once per distinct content and returns the part name
func (e *encoder) addMedia(data []byte, ext string) string {
	key := sha256.Sum256(append([]byte(ext+"\x00"), data...))
	if i, ok := e.mediaByHash[key]; ok {
		return e.media[i].name
	}
	name := fmt.Sprintf("image%d.%s", len(e.media)+1, ext)
	e.mediaByHash[key] = len(e.media)
	e.media = append(e.media, mediaPart{name: name, ext: ext, data: data})

	seen := false
	for _, x := range e.extensions {
		if x == ext {
			seen = true
			break
		}
	}
	if !seen {
		e.extensions = append(e.extensions, ext)
	}
	return name
}

func (e *encoder) build() ([]part, error) {
	var layoutParts, slideParts []part

	for i, l := range e.layouts {
		rels := &relSet{}
		rels.add(relTypeSlideMaster, "../slideMasters/slideMaster1.xml")
		tree, err := e.spTree(l.Elements, rels)
		if err != nil {
			return nil, &EncodeError{Message: fmt.Sprintf("layout %q", l.Name), Cause: err}
		}
		layoutParts = append(layoutParts,
			part{fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", i+1), layoutXML(l, tree)},
			part{fmt.Sprintf("ppt/slideLayouts/_rels/slideLayout%d.xml.rels", i+1), rels.xml()},
		)
	}

	for i, s := range e.deck.Slides {
		if s == nil {
			return nil, &EncodeError{Message: fmt.Sprintf("slide %d is nil", i+1)}
		}
		rels := &relSet{}
		rels.add(relTypeSlideLayout, fmt.Sprintf("../slideLayouts/slideLayout%d.xml", e.layoutIndex[s.Layout]+1))
		tree, err := e.spTree(s.Elements, rels)
		if err != nil {
			return nil, &EncodeError{Message: fmt.Sprintf("slide %d", i+1), Cause: err}
		}
		slideParts = append(slideParts,
			part{fmt.Sprintf("ppt/slides/slide%d.xml", i+1), slideXML(s, tree)},
			part{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), rels.xml()},
		)
	}

	parts := []part{
		{"[Content_Types].xml", e.contentTypesXML()},
		{"_rels/.rels", rootRelsXML()},
		{"docProps/app.xml", appXML(e.deck)},
		{"docProps/core.xml", coreXML(e.deck)},
		{"ppt/presentation.xml", presentationXML(len(e.deck.Slides))},
		{"ppt/_rels/presentation.xml.rels", e.presentationRelsXML()},
		{"ppt/presProps.xml", presPropsXML()},
		{"ppt/viewProps.xml", viewPropsXML()},
		{"ppt/tableStyles.xml", tableStylesXML()},
		{"ppt/theme/theme1.xml", themeXML(e.deck.Theme)},
		{"ppt/slideMasters/slideMaster1.xml", masterXML(len(e.layouts))},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", e.masterRelsXML()},
	}
	parts = append(parts, layoutParts...)
	parts = append(parts, slideParts...)
	for _, m := range e.media {
		parts = append(parts, part{"ppt/media/" + m.name, m.data})
	}
	return parts, nil
}

func (e *encoder) spTree(elements []Element, rels *relSet) (string, error) {
	var b strings.Builder
	b.WriteString(`<p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)

	id := 2
	for i, el := range elements {
		switch v := el.(type) {
		case *TextBox:
			writeTextBox(&b, id, v, e.deck.lang())
		case *Shape:
			writeShape(&b, id, v)
		case *Picture:
			if len(v.Data) == 0 {
				return "", fmt.Errorf("element %d: picture %q has no image data", i, v.Name)
			}
			ext := v.Ext
			if ext == "" {
				ext = "png"
			}
			rid := rels.add(relTypeImage, "../media/"+e.addMedia(v.Data, ext))
			writePicture(&b, id, v, rid)
		case *Table:
			writeTable(&b, id, v, e.deck.lang())
		case nil:
			return "", fmt.Errorf("element %d is nil", i)
		default:
			return "", fmt.Errorf("element %d: unsupported element %T", i, el)
		}
		id++
	}
	b.WriteString(`</p:spTree>`)
	return b.String(), nil
}

func (e *encoder) contentTypesXML() []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<Types xmlns="%s">`, nsContentTypes)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	for _, ext := range e.extensions {
		fmt.Fprintf(&b, `<Default Extension="%s" ContentType="image/%s"/>`, ext, ext)
	}
	override := func(name, ct string) {
		fmt.Fprintf(&b, `<Override PartName="/%s" ContentType="%s"/>`, name, ct)
	}
	override("ppt/presentation.xml", ctPresentation)
	override("ppt/slideMasters/slideMaster1.xml", ctSlideMaster)
	for i := range e.layouts {
		override(fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", i+1), ctSlideLayout)
	}
	for i := range e.deck.Slides {
		override(fmt.Sprintf("ppt/slides/slide%d.xml", i+1), ctSlide)
	}
	override("ppt/theme/theme1.xml", ctTheme)
	override("ppt/presProps.xml", ctPresProps)
	override("ppt/viewProps.xml", ctViewProps)
	override("ppt/tableStyles.xml", ctTableStyles)
	override("docProps/core.xml", ctCoreProps)
	override("docProps/app.xml", ctExtProps)
	b.WriteString(`</Types>`)
	return []byte(b.String())
}

func rootRelsXML() []byte {
	rels := &relSet{}
	rels.add(relTypeOfficeDocument, "ppt/presentation.xml")
	rels.add(relTypeCoreProps, "docProps/core.xml")
	rels.add(relTypeExtendedProps, "docProps/app.xml")
	return rels.xml()
}

// presentationRelsXML numbers the master rId1 and slides rId2.. so
// presentationXML can compute slide relationship ids without a lookup.
func (e *encoder) presentationRelsXML() []byte {
	rels := &relSet{}
	rels.add(relTypeSlideMaster, "slideMasters/slideMaster1.xml")
	for i := range e.deck.Slides {
		rels.add(relTypeSlide, fmt.Sprintf("slides/slide%d.xml", i+1))
	}
	rels.add(relTypePresProps, "presProps.xml")
	rels.add(relTypeViewProps, "viewProps.xml")
	rels.add(relTypeTheme, "theme/theme1.xml")
	rels.add(relTypeTableStyles, "tableStyles.xml")
	return rels.xml()
}

// masterRelsXML numbers layouts rId1..N, then the theme
func (e *encoder) masterRelsXML() []byte {
	rels := &relSet{}
	for i := range e.layouts {
		rels.add(relTypeSlideLayout, fmt.Sprintf("../slideLayouts/slideLayout%d.xml", i+1))
	}
	rels.add(relTypeTheme, "../theme/theme1.xml")
	return rels.xml()
}
