// FILE: lixenwraith/cfgtree/doc.go

// Package cfgtree reads and writes INI-like configuration files holding a
// tree of sections, where every setting's value is a restricted literal
// (booleans, numbers, strings, lists, maps and null) and comments survive a
// load/save round trip.
//
// File Format:
//
//	# describes the "server" section
//	[server]
//	# describes "host"
//	host = "localhost"
//	ports = [8080, 8443]
//
//	[server]
//	[tls]
//	enabled = True
//
// Consecutive header lines nest, so the last block stores "enabled" under
// server.tls. A header that follows an assignment starts again from the top
// level. Comment lines directly above a header or key attach to it; comments
// trailing the last entry are discarded.
//
// Quick Start:
//
//	root := cfgtree.NewRoot("app.cfg")
//	if err := root.Load(); err != nil && !errors.Is(err, cfgtree.ErrConfigNotFound) {
//	    log.Fatal(err)
//	}
//
//	server := root.MustSection("server")
//	server.Set("host", cfgtree.String("0.0.0.0"))
//	server.SetComment("host", "listen address")
//
//	if err := root.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// Sections are created on first access, so root.MustSection("a", "b") always
// returns the same node until it is replaced or deleted. Each section has
// exactly one parent.
//
// Values never execute code: literals are decoded by a small grammar, not
// evaluated.
//
// Interop:
// A tree converts to and from nested Go maps (ToMap, Merge), decodes into
// structs with `cfg` tags (Scan, ScanSection), and exports to or imports from
// TOML, YAML and JSON (Export, Import).
//
// Thread Safety:
// Nodes are not synchronized. Callers sharing a tree across goroutines must
// guard it themselves.
package cfgtree
