package treeline

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/treeline-dev/treeline/internal/discover"
	"github.com/treeline-dev/treeline/internal/extract"
	"github.com/treeline-dev/treeline/internal/record"
)

// workItem holds everything an extraction worker needs for one file.
type workItem struct {
	rel  string
	lang string
}

// extractAll runs extraction as a three-phase pipeline:
//
//	Phase A (serial):   language lookup, work list construction.
//	Phase B (parallel): read and parse via a bounded worker pool.
//	Phase C (serial):   collect records.
//
// Output order is unspecified; the caller sorts. On cancellation all
// partial results are discarded and ctx.Err() is returned.
func (e *Engine) extractAll(ctx context.Context, root string, paths []string) ([]record.FileRecord, error) {
	// ---- Phase A ----
	items := make([]workItem, 0, len(paths))
	for _, rel := range paths {
		lang, ok := discover.Language(root, rel)
		if !ok {
			continue
		}
		items = append(items, workItem{rel: rel, lang: lang})
	}
	if len(items) == 0 {
		return nil, nil
	}

	numWorkers := e.cfg.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	numWorkers = min(numWorkers, len(items))

	workCh := make(chan workItem, len(items))
	for _, item := range items {
		workCh <- item
	}
	close(workCh)

	resultCh := make(chan record.FileRecord, len(items))

	// ---- Phase B ----
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workCh {
				select {
				case <-ctx.Done():
					return
				default:
				}
				resultCh <- extractOne(root, item)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// ---- Phase C ----
	records := make([]record.FileRecord, 0, len(items))
	for rec := range resultCh {
		records = append(records, rec)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// extractOne parses a single file. Every failure mode degrades to a
// failed record so one bad file never aborts the run.
func extractOne(root string, item workItem) record.FileRecord {
	extractor, ok := extract.ForLanguage(item.lang)
	if !ok {
		return *record.Failed(item.rel, item.lang, "no extractor registered")
	}
	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(item.rel)))
	if err != nil {
		return *record.Failed(item.rel, item.lang, err.Error())
	}
	return *extractor.Extract(item.rel, content)
}
