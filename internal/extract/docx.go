package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

const docxBody = "word/document.xml"

// unsupportedDocxElements are embedded objects whose content is skipped.
var unsupportedDocxElements = map[string]string{
	"object": "embedded object skipped",
	"pict":   "legacy picture skipped",
}

func extractDOCX(data []byte) (string, []string, error) {
	if len(data) == 0 {
		return "", nil, fmt.Errorf("%w: docx: empty file", ErrExtraction)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, fmt.Errorf("%w: docx: not a zip package: %v", ErrExtraction, err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == docxBody {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", nil, fmt.Errorf("%w: docx: %s not found", ErrExtraction, docxBody)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", nil, fmt.Errorf("%w: docx: %v", ErrExtraction, err)
	}
	defer rc.Close()

	return docxText(io.LimitReader(rc, MaxFileSize*4))
}

// docxText walks the body keeping only w:t runs. Paragraphs are separated by
// a blank line; tabs and breaks are kept.
func docxText(r io.Reader) (string, []string, error) {
	decoder := xml.NewDecoder(r)
	var (
		buf      strings.Builder
		para     strings.Builder
		inText   bool
		skipping int
		warned   = map[string]int{}
	)

	flush := func() {
		buf.WriteString(para.String())
		buf.WriteString("\n\n")
		para.Reset()
	}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("%w: docx: malformed document.xml: %v", ErrExtraction, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if _, ok := unsupportedDocxElements[t.Name.Local]; ok {
				warned[t.Name.Local]++
				skipping++
				continue
			}
			if skipping > 0 {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				para.WriteString("\t")
			case "br", "cr":
				para.WriteString("\n")
			}
		case xml.EndElement:
			if _, ok := unsupportedDocxElements[t.Name.Local]; ok {
				if skipping > 0 {
					skipping--
				}
				continue
			}
			if skipping > 0 {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				flush()
			}
		case xml.CharData:
			if inText && skipping == 0 {
				para.Write(t)
			}
		}
	}
	if para.Len() > 0 {
		flush()
	}

	return buf.String(), docxWarnings(warned), nil
}

func docxWarnings(counts map[string]int) []string {
	if len(counts) == 0 {
		return nil
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, fmt.Sprintf("w:%s: %s (%d)", name, unsupportedDocxElements[name], counts[name]))
	}
	return out
}
