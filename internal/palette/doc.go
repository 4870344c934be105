// Package palette is the command dispatcher shortcuts are registered with.
//
// Commands are keyed by ID. Registering an ID that already exists replaces
// the earlier command; that replacement is the dispatcher's collision
// policy and callers that register duplicates simply observe it.
//
//	p := palette.New()
//	p.Register(&palette.Command{
//	    ID:      "open-todos",
//	    Title:   "Open My Todos",
//	    Source:  "plugin:open-specific-notes",
//	    Handler: func() error { return open("🌿 Projects/My Todos.md") },
//	})
//	results := p.Search("todo", 10)
//	err := p.Execute("open-todos")
//
// All palette operations are safe for concurrent use. Handlers run without
// the palette lock held.
package palette
