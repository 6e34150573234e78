package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF reads pages in order. Text runs on a page are joined by single
// spaces and every page ends with a newline.
func extractPDF(ctx context.Context, data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: pdf: unreadable document: %v", ErrExtraction, rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrExtraction, err)
	}

	var buf strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		buf.WriteString(strings.Join(pageRuns(reader.Page(i)), " "))
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

// rawEncoding passes bytes through when a run has no font selected.
type rawEncoding struct{}

func (rawEncoding) Decode(raw string) string { return raw }

// pageRuns returns the page's text runs in content-stream order. A TJ array
// is one run; its kerning offsets never split a word. Runs that decode to
// nothing are dropped.
func pageRuns(page pdf.Page) []string {
	if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
		return nil
	}

	fonts := make(map[string]pdf.TextEncoding)
	for _, name := range page.Fonts() {
		fonts[name] = page.Font(name).Encoder()
	}

	var (
		enc  pdf.TextEncoding = rawEncoding{}
		runs []string
	)
	emit := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			runs = append(runs, s)
		}
	}

	pdf.Interpret(page.V.Key("Contents"), func(stk *pdf.Stack, op string) {
		args := make([]pdf.Value, stk.Len())
		for i := len(args) - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}

		switch op {
		case "Tf":
			enc = rawEncoding{}
			if len(args) == 2 {
				if e, ok := fonts[args[0].Name()]; ok && e != nil {
					enc = e
				}
			}
		case "Tj", "'", "\"":
			if len(args) > 0 {
				emit(enc.Decode(args[len(args)-1].RawString()))
			}
		case "TJ":
			if len(args) != 1 {
				return
			}
			var b strings.Builder
			for i := 0; i < args[0].Len(); i++ {
				if part := args[0].Index(i); part.Kind() == pdf.String {
					b.WriteString(enc.Decode(part.RawString()))
				}
			}
			emit(b.String())
		}
	})
	return runs
}
