package syncer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/takak2166/notion2telegram/internal/logger"
	"github.com/takak2166/notion2telegram/internal/markdown"
	"github.com/takak2166/notion2telegram/internal/telegram"
)

// diagnose logs the text around the offset of a markup rejection and, when a
// dump directory is configured, writes the full message to
// error_<page id>.txt. Other errors are ignored.
func (r *Reconciler) diagnose(pageID, text string, err error) {
	pe, ok := telegram.AsParseError(err)
	if !ok {
		return
	}

	window := markdown.ErrorContext(text, pe.Offset, markdown.DefaultContextRadius)
	logger.Error("Telegram rejected message markup", err, map[string]interface{}{
		"page_id": pageID,
		"offset":  pe.Offset,
		"bytes":   len(text),
		"context": window,
	})

	if r.dumpDir == "" {
		return
	}

	path := filepath.Join(r.dumpDir, fmt.Sprintf("error_%s.txt", pageID))
	content := fmt.Sprintf("Error: %s\n\n%s\n\nFull text:\n%s\n", pe.Description, window, text)
	if err := os.MkdirAll(r.dumpDir, 0o755); err != nil {
		logger.Warn("Failed to create error dump directory", err, map[string]interface{}{"dir": r.dumpDir})
		return
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		logger.Warn("Failed to write error dump", err, map[string]interface{}{"path": path})
		return
	}
	logger.Info("Wrote rejected message to dump file", map[string]interface{}{"path": path})
}
