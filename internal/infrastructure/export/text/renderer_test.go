package text

import (
	"bytes"
	"testing"
)

func TestRenderIsPassthrough(t *testing.T) {
	content := "1. The Seller shall deliver.\n\n2. The Buyer shall pay."

	data, err := New().Render(content, "Obligations & Rights")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Equal(data, []byte(content)) {
		t.Fatalf("data = %q, want content unchanged", data)
	}
}
