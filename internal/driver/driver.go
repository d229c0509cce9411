// Package driver orchestrates whole-directory operations: checking that
// every weave file survives a partition/regenerate round trip, and applying
// a transformation across a tree of files in parallel.
package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"reweave/internal/diag"
	"reweave/internal/fragment"
	"reweave/internal/parser"
	"reweave/internal/partition"
	"reweave/internal/project"
	"reweave/internal/regen"
	"reweave/internal/rewrite"
	"reweave/internal/source"
	"reweave/internal/tree"
)

// SourceExt is the file extension of weave sources.
const SourceExt = ".wv"

// FileResult is the outcome of processing one file.
type FileResult struct {
	Path    string
	FileID  source.FileID
	Bag     *diag.Bag
	Output  string // rendered text; empty for check runs
	Changed bool   // rendered text differs from the file content
	Cached  bool   // verdict served from the verification cache
}

// ListSourceFiles returns the sorted paths of all weave sources under dir.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Progress is called once per finished file when set.
type Progress func(res FileResult)

// Options control a directory run.
type Options struct {
	MaxDiagnostics int
	Jobs           int
	Cache          *CheckCache // optional, check runs only
	Progress       Progress    // optional
}

func (o Options) jobs(n int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if jobs > n {
		jobs = n
	}
	return jobs
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return 64
	}
	return o.MaxDiagnostics
}

// CheckDir parses every weave file under dir and verifies that an untouched
// tree regenerates to the original bytes. A verification cache, when given,
// lets unchanged files skip the parse entirely.
func CheckDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []FileResult, error) {
	return runDir(ctx, dir, opts, nil)
}

// ApplyDir parses every weave file under dir, applies transform, and
// renders the result. Files the transform leaves untouched report
// Changed=false and keep their original text as Output.
func ApplyDir(ctx context.Context, dir string, transform rewrite.Transform[tree.Node], opts Options) (*source.FileSet, []FileResult, error) {
	return runDir(ctx, dir, opts, transform)
}

func runDir(ctx context.Context, dir string, opts Options, transform rewrite.Transform[tree.Node]) (*source.FileSet, []FileResult, error) {
	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSet()
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	ids := make(map[string]source.FileID, len(files))
	loadErrs := make(map[string]error, len(files))
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrs[path] = err
			continue
		}
		ids[path] = id
	}

	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = processFile(fileSet, path, ids, loadErrs, opts, transform)
			if opts.Progress != nil {
				opts.Progress(results[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

func processFile(fileSet *source.FileSet, path string, ids map[string]source.FileID, loadErrs map[string]error, opts Options, transform rewrite.Transform[tree.Node]) FileResult {
	bag := diag.NewBag(opts.maxDiagnostics())

	if loadErr, failed := loadErrs[path]; failed {
		bag.Add(diag.NewError(diag.IOLoadFile, source.Span{},
			"failed to load file: "+loadErr.Error()))
		return FileResult{Path: path, Bag: bag}
	}

	id := ids[path]
	file := fileSet.Get(id)
	res := FileResult{Path: path, FileID: id, Bag: bag}

	if transform == nil && opts.Cache != nil {
		if verdict, hit := opts.Cache.Get(project.Digest(file.Hash)); hit {
			res.Cached = true
			if !verdict.Clean {
				bag.Add(diag.NewError(diag.RegenRoundTripMismatch, source.NewRange(id, 0, 0),
					"file previously failed round-trip verification"))
			}
			return res
		}
	}

	parsed := parser.New(file, bag).ParseFile()
	if bag.HasErrors() {
		return res
	}

	frag := partition.Partition(file, parsed.File, partition.Handlers())
	if err := fragment.Validate(frag); err != nil {
		bag.Add(diag.NewError(diag.RegenRoundTripMismatch, parsed.File.Span(),
			"partition produced an inconsistent fragment tree: "+err.Error()))
		return res
	}

	root := tree.Node(parsed.File)
	if transform != nil {
		edited, ok := transform(root)
		if !ok {
			bag.Add(diag.NewError(diag.RegenRoundTripMismatch, parsed.File.Span(),
				"transformation failed on this file"))
			return res
		}
		root = edited
	}

	out := regen.Render(frag, root, file, bag)
	res.Output = out
	res.Changed = out != string(file.Content)

	if transform == nil {
		if res.Changed {
			bag.Add(diag.NewError(diag.RegenRoundTripMismatch, parsed.File.Span(),
				"regenerated text differs from the original source"))
		}
		res.Output = ""
		if opts.Cache != nil {
			opts.Cache.Put(project.Digest(file.Hash), Verdict{Clean: !res.Changed})
		}
	}
	return res
}
