// Package files locates dataset files on disk and watches them for changes.
//
// Discovery: ResolveDatasetPath accepts either a dataset file or a directory;
// for a directory it picks the most recently modified CSV or XLSX file.
//
// Watcher: DatasetWatcher watches the directory holding the dataset and calls
// a reload function once writes have settled for the debounce interval.
// Editors often save by writing a temp file and renaming it over the
// original, so the directory is watched rather than the file itself.
//
// Example usage:
//
//	w, err := files.NewDatasetWatcher("data/blinkit_data.csv", 500*time.Millisecond, reload, logger)
//	if err != nil {
//	    return err
//	}
//	g.Go(func() error { return w.Run(ctx) })
package files
