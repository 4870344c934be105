package form

import "testing"

func build(c *Container, clicks *int, edits *[]string) {
	c.Heading(2, "Open Specific Notes")
	c.Paragraph("Usage")
	c.List("one", "two")
	row := c.Setting("Note 1", "")
	row.Text("ID", "open-todos", func(v string) { *edits = append(*edits, v) })
	row.Button("Remove", func() { *clicks++ }).Warning = true
	c.Setting("", "").Button("Add New Note", func() { *clicks++ })
}

func TestContainer_Dump(t *testing.T) {
	c := NewContainer()
	var clicks int
	var edits []string
	build(c, &clicks, &edits)

	want := "## Open Specific Notes\n" +
		"Usage\n" +
		"- one\n" +
		"- two\n" +
		"[Note 1]\n" +
		"  ID: \"open-todos\"\n" +
		"  (Remove!)\n" +
		"[]\n" +
		"  (Add New Note)\n"
	if got := c.Dump(); got != want {
		t.Errorf("Dump() =\n%s\nwant\n%s", got, want)
	}
}

func TestContainer_EmptyRebuild(t *testing.T) {
	c := NewContainer()
	var clicks int
	var edits []string

	build(c, &clicks, &edits)
	first := c.Dump()

	c.Empty()
	if c.Len() != 0 {
		t.Fatalf("Len() after Empty = %d", c.Len())
	}
	build(c, &clicks, &edits)
	if c.Dump() != first {
		t.Error("rebuild after Empty differs")
	}
}

func TestControls(t *testing.T) {
	c := NewContainer()
	var clicks int
	var edits []string
	build(c, &clicks, &edits)

	row := c.Find("Note 1")
	if row == nil {
		t.Fatal("Find(Note 1) = nil")
	}
	field := row.Field("ID")
	field.Input("inbox")
	if field.Value() != "inbox" || len(edits) != 1 || edits[0] != "inbox" {
		t.Errorf("Input() value=%q edits=%v", field.Value(), edits)
	}
	if row.Field("Missing") != nil {
		t.Error("Field(Missing) != nil")
	}

	row.ButtonLabeled("Remove").Click()
	c.Find("").ButtonLabeled("Add New Note").Click()
	if clicks != 2 {
		t.Errorf("clicks = %d, want 2", clicks)
	}

	if n := len(c.Controls()); n != 3 {
		t.Errorf("Controls() = %d, want 3", n)
	}
	if n := len(c.Settings()); n != 2 {
		t.Errorf("Settings() = %d, want 2", n)
	}
}
