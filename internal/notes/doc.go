// Package notes implements the "open specific notes" plugin: user-defined
// shortcuts that open a vault file, registered as palette commands and
// edited through a settings tab.
//
// # Components
//
//   - State: the in-memory shortcut list, shared by reference with the
//     registry and the editor. Each entry carries a stable key so form
//     handlers survive removals of other entries.
//   - Registry: turns active shortcuts into commands. Sync runs once at load;
//     Resync is used only when live sync is enabled.
//   - Opener: resolves a path and shows it in the active pane, or reports a
//     "File not found" notice.
//   - Editor: the settings tab. Display rebuilds the whole form from State.
//   - Persister: saves settings snapshots in issue order on one goroutine.
//   - Plugin: load and unload ordering.
//
// # Lifecycle
//
// Load runs three steps in order and aborts on the first failure: load the
// settings (defaults merged with the stored document), sync commands, and
// install the editor into the panel host. Commands are not re-registered
// after edits unless live sync is on; by default the user restarts the host.
package notes
