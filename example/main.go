// FILE: lixenwraith/cfgtree/example/main.go
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/lixenwraith/cfgtree"
)

// AppConfig is the typed view of the demo file.
type AppConfig struct {
	Breakfast []string `cfg:"breakfast"`
	Server    struct {
		Host        string        `cfg:"host"`
		Ports       []int         `cfg:"ports"`
		IdleTimeout time.Duration `cfg:"idle_timeout"`
		TLS         struct {
			Enabled bool   `cfg:"enabled"`
			Cert    string `cfg:"cert"`
		} `cfg:"tls"`
	} `cfg:"server"`
}

func main() {
	dir, err := os.MkdirTemp("", "cfgtree-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "app.cfg")

	// =========================================================================
	// PART 1: FIRST RUN
	// No file exists yet, so the builder returns defaults and ErrConfigNotFound.
	// =========================================================================
	log.Println("---")
	log.Println("PART 1: Building from defaults...")

	root, err := cfgtree.NewBuilder().
		WithFile(path).
		WithDefaults(applyDefaults).
		WithValidator(validatePorts).
		Build()
	if err != nil && !errors.Is(err, cfgtree.ErrConfigNotFound) {
		log.Fatalf("Builder failed: %v", err)
	}
	if errors.Is(err, cfgtree.ErrConfigNotFound) {
		log.Printf("No file at %s, starting from defaults.", path)
	}

	if err := root.Save(); err != nil {
		log.Fatalf("Save failed: %v", err)
	}
	text, _ := os.ReadFile(path)
	log.Printf("Saved %s:\n%s", path, text)

	// =========================================================================
	// PART 2: EDIT AND RELOAD
	// Change values in code, save, then read the file back into a new tree.
	// =========================================================================
	log.Println("---")
	log.Println("PART 2: Editing the tree...")

	server := root.MustSection("server")
	server.Set("ports", cfgtree.List(cfgtree.Int(8080), cfgtree.Int(8443), cfgtree.Int(9090)))
	server.SetComment("ports", "ports to listen on\nthe first one serves plain HTTP")
	root.MustSection("server", "tls").Set("enabled", cfgtree.Bool(true))
	if err := root.Save(); err != nil {
		log.Fatalf("Save failed: %v", err)
	}

	reloaded := cfgtree.NewRoot(path)
	if err := reloaded.Load(); err != nil {
		log.Fatalf("Reload failed: %v", err)
	}
	log.Printf("Round trip preserved the tree: %v", reloaded.Equal(&root.Node))

	// =========================================================================
	// PART 3: TYPED ACCESS
	// =========================================================================
	log.Println("---")
	log.Println("PART 3: Scanning into a struct...")

	var cfg AppConfig
	if err := reloaded.Scan(&cfg); err != nil {
		log.Fatalf("Scan failed: %v", err)
	}
	printState(&cfg)

	// =========================================================================
	// PART 4: EXPORT
	// =========================================================================
	log.Println("---")
	log.Println("PART 4: Exporting as YAML...")
	if err := reloaded.Export(os.Stdout, cfgtree.FormatYAML); err != nil {
		log.Fatalf("Export failed: %v", err)
	}
}

func applyDefaults(r *cfgtree.Root) error {
	r.Set("breakfast", cfgtree.List(cfgtree.String("eggs"), cfgtree.String("toast")))
	r.SetComment("breakfast", "served daily")

	server := r.MustSection("server")
	server.SetSectionComment("network settings")
	server.Set("host", cfgtree.String("localhost"))
	server.Set("ports", cfgtree.List(cfgtree.Int(8080)))
	server.Set("idle_timeout", cfgtree.String("30s"))

	tls := r.MustSection("server", "tls")
	tls.Set("enabled", cfgtree.Bool(false))
	tls.Set("cert", cfgtree.Null())
	return nil
}

func validatePorts(r *cfgtree.Root) error {
	e, ok := r.Lookup("server", "ports")
	if !ok {
		return nil
	}
	v, _ := e.Value()
	ports, ok := v.AsList()
	if !ok {
		return fmt.Errorf("server.ports must be a list, got %s", v.Kind())
	}
	for _, p := range ports {
		n, ok := p.AsInt()
		if !ok || n < 1 || n > 65535 {
			return fmt.Errorf("invalid port %s", p)
		}
	}
	return nil
}

func printState(cfg *AppConfig) {
	fmt.Printf("  breakfast:    %v\n", cfg.Breakfast)
	fmt.Printf("  host:         %s\n", cfg.Server.Host)
	fmt.Printf("  ports:        %v\n", cfg.Server.Ports)
	fmt.Printf("  idle timeout: %s\n", cfg.Server.IdleTimeout)
	fmt.Printf("  tls enabled:  %t\n", cfg.Server.TLS.Enabled)
}
