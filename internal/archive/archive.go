package archive

import (
	"archive/zip"
	"compress/flate"
	"context"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"mongovault/logger"
)

type (
	// Iterator yields one decoded document at a time, so a collection is
	// never fully materialized in memory.
	Iterator interface {
		Next(ctx context.Context) bool
		Decode(out any) error
		Err() error
		Close(ctx context.Context) error
	}

	// FetchFunc opens a document iterator for one collection.
	FetchFunc func(ctx context.Context, collection string) (Iterator, error)

	// Result describes one collection's fate inside the archive.
	Result struct {
		Collection string
		Documents  int
		Err        error
	}
)

// Build streams the named collections into a zip archive and returns the
// read end immediately; entries are written as the consumer drains the
// pipe. Each collection becomes "<name>.json" holding an indented JSON
// array of its documents. A collection that fails to fetch or serialize is
// absorbed as a placeholder entry describing the error - the archive still
// finalizes. Only a failure of the container itself (for instance the
// consumer abandoning the pipe) surfaces, via the reader's error.
func Build(ctx context.Context, collections []string, fetch FetchFunc) io.ReadCloser {
	pr, pw := io.Pipe()

	go func() {
		zw := zip.NewWriter(pw)
		zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(out, flate.BestCompression)
		})

		for _, name := range collections {
			result := writeCollection(ctx, zw, name, fetch)
			if result.Err != nil {
				logger.Warn("collection skipped in archive",
					zap.String("collection", name),
					zap.Error(result.Err))
				if err := writePlaceholder(zw, name, result.Err); err != nil {
					pw.CloseWithError(errors.Wrap(err, "failed to write archive entry"))
					return
				}
			}
		}

		if err := zw.Close(); err != nil {
			pw.CloseWithError(errors.Wrap(err, "failed to finalize archive"))
			return
		}
		pw.Close()
	}()

	return pr
}

func writeCollection(ctx context.Context, zw *zip.Writer, name string, fetch FetchFunc) Result {
	it, err := fetch(ctx, name)
	if err != nil {
		return Result{Collection: name, Err: err}
	}
	defer it.Close(ctx)

	// Documents are buffered per collection before the entry is opened:
	// once bytes are written to a zip entry there is no way to replace it
	// with a placeholder if a later document fails to decode.
	docs := make([]json.RawMessage, 0)
	for it.Next(ctx) {
		var doc map[string]any
		if err := it.Decode(&doc); err != nil {
			return Result{Collection: name, Err: err}
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return Result{Collection: name, Err: err}
		}
		docs = append(docs, raw)
	}
	if err := it.Err(); err != nil {
		return Result{Collection: name, Err: err}
	}

	w, err := zw.Create(name + ".json")
	if err != nil {
		return Result{Collection: name, Err: err}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		return Result{Collection: name, Err: err}
	}
	return Result{Collection: name, Documents: len(docs)}
}

func writePlaceholder(zw *zip.Writer, name string, cause error) error {
	w, err := zw.Create(name + ".json")
	if err != nil {
		return err
	}
	placeholder := map[string]string{
		"collection": name,
		"error":      cause.Error(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(placeholder)
}
