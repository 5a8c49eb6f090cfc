package filepipeline

import (
	"context"
	"path/filepath"
	"strings"
)

// BatchCallbacks are invoked by ProcessFiles as it works through paths.
// Any of them may be nil. Result and Error are mutually exclusive per file:
// exactly one fires for each path that is actually attempted.
type BatchCallbacks struct {
	Progress func(path string, index, total int)
	Status   func(path string, status string)
	Result   func(path string, result FileProcessingResult)
	Error    func(path string, err error)

	// ShouldCancel is polled between files, never between a file's
	// segments: a file already being decoded always runs to completion.
	ShouldCancel func() bool
}

// ProcessFiles runs ProcessFile over every path in order, writing each
// file's subtitles under the source file's stem with a ".srt" extension
// inside outDir (or alongside the source file if outDir is empty). A
// per-file error is reported via callbacks.Error and does not abort the
// batch; only ShouldCancel does.
func (p *Processor) ProcessFiles(ctx context.Context, paths []string, outDir string, writeTranslatedSubtitles bool, callbacks BatchCallbacks) []FileProcessingResult {
	results := make([]FileProcessingResult, 0, len(paths))

	for i, path := range paths {
		if callbacks.ShouldCancel != nil && callbacks.ShouldCancel() {
			break
		}
		if callbacks.Progress != nil {
			callbacks.Progress(path, i+1, len(paths))
		}
		if callbacks.Status != nil {
			callbacks.Status(path, "processing")
		}

		outPath := outPathFor(path, outDir)
		res, err := p.ProcessFile(ctx, path, outPath, writeTranslatedSubtitles)
		if err != nil {
			if callbacks.Error != nil {
				callbacks.Error(path, err)
			}
			if callbacks.Status != nil {
				callbacks.Status(path, "failed")
			}
			continue
		}

		results = append(results, res)
		if callbacks.Result != nil {
			callbacks.Result(path, res)
		}
		if callbacks.Status != nil {
			callbacks.Status(path, "done")
		}
	}

	return results
}

// outPathFor derives the default subtitle path for path: same stem, ".srt"
// extension, placed in outDir if given, otherwise next to the source file.
func outPathFor(path, outDir string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name := stem + ".srt"
	if outDir == "" {
		return filepath.Join(filepath.Dir(path), name)
	}
	return filepath.Join(outDir, name)
}
