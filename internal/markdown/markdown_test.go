package markdown

import (
	"strings"
	"testing"

	"pressline/internal/models"
)

func TestToBlocksHeadingsAndParagraphs(t *testing.T) {
	source := "# Title\n\nFirst paragraph.\n\n## Section\n\nSecond paragraph\nwith a soft break."

	blocks := ToBlocks(source)
	if len(blocks) != 4 {
		t.Fatalf("got %d blocks, want 4: %+v", len(blocks), blocks)
	}

	want := []struct {
		typ   models.BlockType
		level int
		text  string
	}{
		{models.BlockHeading, 1, "Title"},
		{models.BlockParagraph, 0, "First paragraph."},
		{models.BlockHeading, 2, "Section"},
		{models.BlockParagraph, 0, "Second paragraph with a soft break."},
	}
	for i, w := range want {
		b := blocks[i]
		if b.Type != w.typ || b.Level != w.level || b.Text != w.text {
			t.Errorf("blocks[%d] = {%s %d %q}, want {%s %d %q}",
				i, b.Type, b.Level, b.Text, w.typ, w.level, w.text)
		}
		if b.Key == "" {
			t.Errorf("blocks[%d] has no key", i)
		}
	}
}

func TestToBlocksUniqueKeys(t *testing.T) {
	blocks := ToBlocks("one\n\ntwo\n\nthree")
	seen := map[string]bool{}
	for _, b := range blocks {
		if seen[b.Key] {
			t.Fatalf("duplicate block key %q", b.Key)
		}
		seen[b.Key] = true
	}
}

func TestToBlocksPlainText(t *testing.T) {
	blocks := ToBlocks("Just a plain sentence.")
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].Type != models.BlockParagraph || blocks[0].Text != "Just a plain sentence." {
		t.Errorf("block = %+v", blocks[0])
	}
}

func TestToBlocksEmpty(t *testing.T) {
	for _, source := range []string{"", "   \n\n  "} {
		if blocks := ToBlocks(source); len(blocks) != 0 {
			t.Errorf("ToBlocks(%q) = %v, want none", source, blocks)
		}
	}
}

func TestToBlocksListContentIsKept(t *testing.T) {
	blocks := ToBlocks("- alpha\n- beta")
	if len(blocks) == 0 {
		t.Fatal("list content was dropped")
	}
	joined := ""
	for _, b := range blocks {
		joined += b.Text + " "
	}
	if !strings.Contains(joined, "alpha") || !strings.Contains(joined, "beta") {
		t.Errorf("list items missing from blocks: %q", joined)
	}
}

func TestPreviewHTML(t *testing.T) {
	out, err := PreviewHTML("# Hello\n\nSome *emphasis*.")
	if err != nil {
		t.Fatalf("PreviewHTML() error = %v", err)
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "<em>emphasis</em>") {
		t.Errorf("unexpected preview output: %q", out)
	}
}
