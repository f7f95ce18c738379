// Command descstore builds, verifies and inspects descriptor store caches.
//
// Usage:
//
//	descstore build <descriptor>    parse raw files and write the cache
//	descstore verify <descriptor>   cross-check the store against raw files
//	descstore info <descriptor>     print store metadata
//
// Configuration comes from DESCSTORE_* environment variables (and an
// optional .env file); see Config.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hupe1980/descgo"
	"github.com/hupe1980/descgo/model"
	"github.com/hupe1980/descgo/persistence"
	"github.com/hupe1980/descgo/progress"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: descstore build|verify|info <descriptor>")
		os.Exit(2)
	}
	command, descriptor := os.Args[1], os.Args[2]

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	}
	logger := descgo.NewLogger(handler)

	if err := run(command, descriptor, cfg, logger); err != nil {
		logger.Error("command failed", "command", command, "descriptor", descriptor, "error", err)
		os.Exit(1)
	}
}

func run(command, descriptor string, cfg *Config, logger *descgo.Logger) error {
	variant, err := model.ParseVariant(cfg.Variant)
	if err != nil {
		return err
	}
	comp, err := persistence.ParseCompression(cfg.Compression)
	if err != nil {
		return err
	}

	opts := []descgo.Option[float32]{
		descgo.WithVariant[float32](variant),
		descgo.WithRoot[float32](cfg.Root),
		descgo.WithMetaRoot[float32](cfg.MetaRoot),
		descgo.WithCacheDir[float32](cfg.CacheDir),
		descgo.WithCache[float32](!cfg.NoCache),
		descgo.WithNaNFill[float32](cfg.NaNFill),
		descgo.WithCompression[float32](comp),
		descgo.WithLogger[float32](logger),
		descgo.WithProgress[float32](progress.NewSlogReporter(logger.Logger)),
	}

	switch command {
	case "build", "info":
		store, err := descgo.Open(descriptor, opts...)
		if err != nil {
			return err
		}
		fmt.Printf("descriptor: %s\nvariant:    %s\ndimension:  %d\ndescriptors: %d\nsequences:  %d\n",
			store.Name(), store.Variant(), store.Dim(), store.Total(), len(store.Sequences()))
		return nil
	case "verify":
		return verify(descriptor, variant, opts)
	default:
		return fmt.Errorf("unknown command: %q", command)
	}
}

func verify(descriptor string, variant model.Variant, opts []descgo.Option[float32]) error {
	switch variant {
	case model.VariantHPatches:
		store, err := descgo.OpenHPatches(descriptor, opts...)
		if err != nil {
			return err
		}
		if err := store.VerifyAll(); err != nil {
			return err
		}
	case model.VariantPhototourism:
		store, err := descgo.OpenPhototourism(descriptor, opts...)
		if err != nil {
			return err
		}
		if err := store.VerifyAll(); err != nil {
			return err
		}
	}
	fmt.Println("verify: ok")
	return nil
}
