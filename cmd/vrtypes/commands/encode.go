package commands

import (
	"fmt"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/spf13/cobra"

	"github.com/banshee-data/vrtypes/internal/blueprintcfg"
	"github.com/banshee-data/vrtypes/internal/chunk"
	"github.com/banshee-data/vrtypes/internal/config"
	"github.com/banshee-data/vrtypes/internal/monitoring"
)

func encodeBlueprintCmd(e *env) *cobra.Command {
	var (
		output      string
		configPath  string
		compression string
	)
	cmd := &cobra.Command{
		Use:   "encode-blueprint <file>",
		Short: "Compile a blueprint file into a " + chunk.FileExtension + " stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultCodecConfig()
			if configPath != "" {
				var err error
				if cfg, err = config.LoadCodecConfig(e.fsys, configPath); err != nil {
					return err
				}
			}
			comp := cfg.GetCompression()
			if cmd.Flags().Changed("compression") {
				var err error
				if comp, err = chunk.ParseCompression(compression); err != nil {
					return err
				}
			}

			f, err := blueprintcfg.Load(e.fsys, args[0])
			if err != nil {
				return err
			}
			bp, err := blueprintcfg.Compile(f)
			if err != nil {
				return err
			}

			var mem memory.Allocator = memory.DefaultAllocator
			var checked *memory.CheckedAllocator
			if cfg.GetCheckedAllocator() {
				checked = memory.NewCheckedAllocator(memory.NewGoAllocator())
				mem = checked
			}

			chunks, err := bp.Chunks(cfg.GetBlueprintTimeline(),
				chunk.WithAllocator(mem), chunk.WithMaxRows(cfg.GetMaxRowsPerChunk()))
			if err != nil {
				return err
			}
			frames, err := writeStream(e, output, chunks, comp, mem)
			if err != nil {
				return err
			}
			if checked != nil {
				if n := checked.CurrentAlloc(); n != 0 {
					return fmt.Errorf("%d bytes of Arrow memory still allocated after encoding", n)
				}
			}

			monitoring.Logf("%s: %d entities for %q", args[0], len(bp.Entries), bp.ApplicationID)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d chunks (%s) to %s\n", frames, comp, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output stream path")
	cmd.Flags().StringVar(&configPath, "config", "", "codec config JSON (default: built-in defaults)")
	cmd.Flags().StringVar(&compression, "compression", "", "override compression: none, lz4 or zstd")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// writeStream encodes chunks to path and releases them.
func writeStream(e *env, path string, chunks []*chunk.Chunk, comp chunk.Compression, mem memory.Allocator) (int, error) {
	defer func() {
		for _, c := range chunks {
			c.Release()
		}
	}()

	if ext := filepath.Ext(path); ext != chunk.FileExtension {
		monitoring.Logf("output %s does not end in %s", path, chunk.FileExtension)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := e.fsys.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	w, err := e.fsys.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create output: %w", err)
	}

	enc := chunk.NewEncoder(w, chunk.WithCompression(comp), chunk.WithEncoderAllocator(mem))
	for _, c := range chunks {
		if err := enc.Encode(c); err != nil {
			w.Close()
			return 0, err
		}
	}
	if err := enc.Close(); err != nil {
		w.Close()
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("failed to close output: %w", err)
	}
	return enc.Frames(), nil
}
