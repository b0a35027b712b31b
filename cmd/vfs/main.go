package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/absfs/vfs"
	"github.com/docopt/docopt-go"
	log "github.com/sirupsen/logrus"
)

const usage = `vfs inspects directory trees through overlays and mounts.

Usage:
  vfs ls [options] [--mount=<mount>...] [<path>]
  vfs cat [options] [--mount=<mount>...] <path>
  vfs glob [options] [--mount=<mount>...] [--stream] <pattern>...
  vfs find [options] [--mount=<mount>...] [--projects] <pattern>...
  vfs cp [options] [--mount=<mount>...] <src> <dest>
  vfs -h | --help

Commands:
  ls       List a directory.
  cat      Print a file.
  glob     Print every file below / matching any pattern, depth first.
  find     Print matching files breadth first.
  cp       Copy <src> from the served tree to the host path <dest>.

Options:
  -h --help          Show this screen.
  -v --verbose       Enable debug logging.
  -r --root=<dir>    Directory to serve [default: .].
  --lower=<dir>      Serve --root as the upper side of an overlay on <dir>.
  --mount=<mount>    Serve name=dir mounts as one tree instead of --root.
  --stream           Use the polled traversal.
  --projects         Do not descend below directories that matched.
`

func initLog(verbose bool) {
	log.SetReportCaller(verbose)
	log.SetFormatter(&log.TextFormatter{
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			filename := path.Base(f.File)
			return "", fmt.Sprintf("%s:%d", filename, f.Line)
		},
	})
	log.SetLevel(log.InfoLevel)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

func main() {
	arguments, err := docopt.ParseDoc(usage)
	if err != nil {
		log.Fatal(err)
	}
	verbose, _ := arguments.Bool("--verbose")
	initLog(verbose)

	fs, err := buildFS(arguments)
	if err != nil {
		log.Fatal(err)
	}
	if err := run(arguments, fs, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// buildFS assembles the served tree from the command line
func buildFS(arguments docopt.Opts) (vfs.FileSystem, error) {
	if mounts := stringList(arguments["--mount"]); len(mounts) > 0 {
		b := vfs.NewCompositeBuilder()
		for _, m := range mounts {
			name, dir, ok := strings.Cut(m, "=")
			if !ok {
				return nil, fmt.Errorf("mount %q: expected name=dir", m)
			}
			log.WithFields(log.Fields{"mount": name, "dir": dir}).Debug("mounting")
			b.Mount(name, vfs.NewPhysicalLayer(dir).FileSystem())
		}
		return b.Build()
	}

	root, _ := arguments.String("--root")
	upper := vfs.NewPhysicalLayer(root).FileSystem()
	if lower, _ := arguments.String("--lower"); lower != "" {
		log.WithFields(log.Fields{"upper": root, "lower": lower}).Debug("overlay")
		return vfs.NewOverlay(vfs.NewPhysicalLayer(lower).FileSystem(), upper), nil
	}
	return upper, nil
}

func run(arguments docopt.Opts, fs vfs.FileSystem, out io.Writer) error {
	switch {
	case isSet(arguments, "ls"):
		name, _ := arguments.String("<path>")
		if name == "" {
			name = "/"
		}
		return list(fs.Path(name), out)
	case isSet(arguments, "cat"):
		name, _ := arguments.String("<path>")
		return cat(fs.Path(name), out)
	case isSet(arguments, "glob"):
		patterns := stringList(arguments["<pattern>"])
		stream, _ := arguments.Bool("--stream")
		return glob(fs.Path("/"), patterns, stream, out)
	case isSet(arguments, "find"):
		patterns := stringList(arguments["<pattern>"])
		mode := vfs.ResolveFiles
		if projects, _ := arguments.Bool("--projects"); projects {
			mode = vfs.ResolveProjects
		}
		return find(fs.Path("/"), mode, patterns, out)
	case isSet(arguments, "cp"):
		src, _ := arguments.String("<src>")
		dest, _ := arguments.String("<dest>")
		return cp(fs.Path(src), dest)
	}
	return fmt.Errorf("no command given")
}

func isSet(arguments docopt.Opts, key string) bool {
	b, _ := arguments.Bool(key)
	return b
}

// stringList reads a repeatable docopt value, which may come back as a
// single string or a list
func stringList(v interface{}) []string {
	switch v := v.(type) {
	case []string:
		return v
	case string:
		return []string{v}
	}
	return nil
}

func list(dir vfs.Path, out io.Writer) error {
	entries, err := dir.ReadDir()
	if err != nil {
		return err
	}
	defer entries.Close()
	for {
		entry, err := entries.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		m, err := entry.Metadata()
		if err != nil {
			log.WithField("path", entry.String()).Warn(err)
			continue
		}
		name, _ := entry.FileName()
		if m.IsDir() {
			fmt.Fprintf(out, "%s/\n", name)
		} else {
			fmt.Fprintf(out, "%s\t%d\n", name, m.Size)
		}
	}
}

func cat(p vfs.Path, out io.Writer) error {
	f, err := p.Open(vfs.ReadOnly())
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(out, f)
	return err
}

func glob(root vfs.Path, patterns []string, stream bool, out io.Writer) error {
	if stream {
		s, err := vfs.GlobStream(root, patterns...)
		if err != nil {
			return err
		}
		defer s.Close()
		for {
			p, err := s.Next(context.Background())
			if err == io.EOF {
				return nil
			}
			if err != nil {
				log.Warn(err)
				continue
			}
			fmt.Fprintln(out, p.String())
		}
	}

	w, err := vfs.Glob(root, patterns...)
	if err != nil {
		return err
	}
	for p, err := range w.All() {
		if err != nil {
			log.Warn(err)
			continue
		}
		fmt.Fprintln(out, p.String())
	}
	return nil
}

func find(root vfs.Path, mode vfs.ResolveMode, patterns []string, out io.Writer) error {
	r, err := vfs.NewResolver(root, mode, patterns...)
	if err != nil {
		return err
	}
	defer r.Close()
	for {
		p, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			log.Warn(err)
			continue
		}
		fmt.Fprintln(out, p.String())
	}
}

func cp(src vfs.Path, dest string) error {
	abs, err := filepath.Abs(dest)
	if err != nil {
		return err
	}
	dst := vfs.NewPhysicalLayer(filepath.Dir(abs)).FileSystem().Path(filepath.Base(abs))
	stats, err := vfs.Copy(src, dst)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"files": stats.Files,
		"dirs":  stats.Dirs,
		"bytes": stats.Bytes,
	}).Info("copied")
	return nil
}
