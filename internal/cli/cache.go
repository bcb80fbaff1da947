package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached traces and rendered artifacts",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. The file cache
// keeps traces and artifacts in separate subtrees, so either layer can be
// cleared on its own.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var tracesOnly, artifactsOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the local cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			root := clearRoot(dir, tracesOnly, artifactsOnly)
			count, err := removeCacheEntries(root)
			if err != nil {
				return err
			}

			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", root)
			return nil
		},
	}

	cmd.Flags().BoolVar(&tracesOnly, "traces", false, "clear only cached trace results")
	cmd.Flags().BoolVar(&artifactsOnly, "artifacts", false, "clear only cached rendered artifacts")
	cmd.MarkFlagsMutuallyExclusive("traces", "artifacts")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// clearRoot maps the layer flags to the directory to purge. With no flag
// set the whole cache directory goes, stray kv entries included.
func clearRoot(dir string, tracesOnly, artifactsOnly bool) string {
	switch {
	case tracesOnly:
		return filepath.Join(dir, "trace")
	case artifactsOnly:
		return filepath.Join(dir, "artifact")
	default:
		return dir
	}
}

// removeCacheEntries deletes every file under root and prunes the emptied
// directories, deepest first. A missing root counts as an empty cache.
func removeCacheEntries(root string) (int, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return 0, nil
	}

	count := 0
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == root {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
			return nil
		}
		if err := os.Remove(path); err == nil {
			count++
		}
		return nil
	})
	if err != nil {
		return count, err
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		os.Remove(dirs[i])
	}
	return count, nil
}
