package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/earlyed-hq/asked/internal/core/domain"
)

var loadCmd = &cobra.Command{
	Use:   "load [chunks.json]",
	Short: "Load pre-chunked documents into the store",
	Long: `Reads a JSON file produced by the offline chunking pipeline, embeds each
chunk and stores it for retrieval.

The file is a JSON array of objects:
  [{"content": "...", "source": "EYFS Framework", "page": 24, "section": "3.28"}]`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

// fileChunk is the on-disk chunk format.
type fileChunk struct {
	Content string `json:"content"`
	Source  string `json:"source"`
	Page    int    `json:"page"`
	Section string `json:"section"`
}

func runLoad(cmd *cobra.Command, args []string) error {
	if chunkLoader == nil {
		return errors.New("loader service not configured")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read chunks file: %w", err)
	}

	var fileChunks []fileChunk
	if err := json.Unmarshal(data, &fileChunks); err != nil {
		return fmt.Errorf("parse chunks file: %w", err)
	}
	if len(fileChunks) == 0 {
		cmd.Println("No chunks to load.")
		return nil
	}

	chunks := make([]domain.DocumentChunk, len(fileChunks))
	for i, c := range fileChunks {
		chunks[i] = domain.DocumentChunk{
			Content: c.Content,
			Metadata: domain.ChunkMetadata{
				Source:  c.Source,
				Page:    c.Page,
				Section: c.Section,
			},
		}
	}

	n, err := chunkLoader.LoadChunks(cmd.Context(), chunks)
	if err != nil {
		return fmt.Errorf("load chunks: %w", err)
	}

	cmd.Printf("Loaded %d chunks.\n", n)
	return nil
}
