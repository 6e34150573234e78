package s3

import (
	"strings"
	"testing"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "nda/mutual.docx", want: "nda/mutual.docx"},
		{name: "simple prefix", prefix: "templates", key: "nda/mutual.docx", want: "templates/nda/mutual.docx"},
		{name: "prefix trailing slash", prefix: "templates/", key: "nda/mutual.docx", want: "templates/nda/mutual.docx"},
		{name: "prefix and key slashes", prefix: "/templates/", key: "/nda/mutual.docx", want: "templates/nda/mutual.docx"},
		{name: "nested prefix", prefix: "assets/templates", key: "lease.docx", want: "assets/templates/lease.docx"},
		{name: "empty key", prefix: "templates", key: "", want: "templates"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestCountingReader(t *testing.T) {
	c := &countingReader{r: strings.NewReader("contract")}
	buf := make([]byte, 3)
	for {
		if _, err := c.Read(buf); err != nil {
			break
		}
	}
	if c.n != 8 {
		t.Fatalf("expected 8 bytes counted, got %d", c.n)
	}
}
