/*
Package vfs provides composable virtual file systems for Go: one path
abstraction over many backends, read-only overlays, mount-based composites,
and lazy depth-first traversal with glob filtering.

# Overview

Every backend hands out paths. A path is an immutable value naming one
location; it knows its string form ("/a/b/c", always slash separated and
rooted) and performs the operations: Metadata, Open, ReadDir, CreateDir,
Remove and so on. Overlays and composites are file systems too, so they
nest freely: an overlay of two composites, a composite of overlays.

# Key Features

  - One contract for every backend, generic or type-erased
  - afero and absfs file systems usable as backends
  - Read-only overlays where upper entries shadow lower ones
  - Composites routing /<mount>/... to named file systems
  - Depth-first traversal as a blocking iterator or a polled stream
  - doublestar glob matching, breadth-first project search, tree copy

# Architecture

Backends implement TypedPath[P] with their own path type P, so generic code
such as Walk keeps static dispatch. Box erases the concrete type and yields
a Path; Path itself satisfies TypedPath[Path], so the same generic code
accepts boxed paths.

Layer is the concrete backend. It wraps an afero.Fs (NewLayer,
NewMemoryLayer, NewPhysicalLayer) or an absfs.FileSystem (NewAbsLayer).

# Basic Usage

	lower := vfs.NewMemoryLayer()
	upper := vfs.NewMemoryLayer()

	// ... populate both layers ...

	ov := vfs.NewOverlay(lower.FileSystem(), upper.FileSystem())
	data, err := vfs.ReadFile(ov.Path("/README.md"))

# Overlays

An overlay is read only. Reads prefer the upper side and fall back to the
lower one. Listing a directory yields the upper entries first, then the
lower entries whose names the upper side did not have. A file on the upper
side hides a lower directory of the same name along with its contents.
CreateDir, Remove, RemoveAll and any Open that could write fail with
ErrPermissionDenied.

# Composites

	c, err := vfs.NewCompositeBuilder().
	    Mount("src", vfs.NewPhysicalLayer("./src").FileSystem()).
	    Mount("docs", vfs.NewPhysicalLayer("./docs").FileSystem()).
	    Build()

	c.Path("/src/main.go")  // main.go in the src mount
	c.Path("/nope/file")    // never exists; operations fail with ErrNotFound
	c.Path("/").ReadDir()   // one directory per mount, sorted by name

The mount table is fixed once Build returns.

# Traversal

Walk yields every file below a directory, depth first. Directories are
expanded only when reached, so memory tracks the depth of the tree rather
than its size.

	w := vfs.Walk(fs.Path("/"), nil)
	for p, err := range w.All() {
	    ...
	}

Stream runs the same traversal without blocking the caller. Poll returns
ErrPending while backend I/O is in flight and Ready signals when to poll
again; Next(ctx) does the waiting.

Glob and GlobStream filter a traversal through doublestar patterns matched
against the full path string without its leading slash, so "{docs,src}/*.md"
matches the Markdown files directly inside /docs and /src.

# Errors

ErrNotFound, ErrPermissionDenied, ErrInvalidPath and ErrAlreadyExists match
their io/fs counterparts with errors.Is. Backend errors are returned as is;
KindOf classifies either.
*/
package vfs
