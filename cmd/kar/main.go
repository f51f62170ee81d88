// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command kar creates, lists and extracts kar asset archives.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/devblok/glstage/utility/kar"
)

var (
	author   = flag.String("author", currentUserName(), "Set the author of the package when compressing")
	version  = flag.Int64("version", 1, "Archive version number to create it with")
	extract  = flag.String("e", "", "Extract the archive given")
	compress = flag.String("c", "", "Compress the given file/folder")
	list     = flag.String("l", "", "List the contents of the archive given")
	dstFile  = flag.String("f", "out.kar", "Destination file")
	dstDir   = flag.String("d", ".", "Destination directory when extracting")
	silent   = flag.Bool("s", false, "Silent")
)

func currentUserName() string {
	u, err := user.Current()
	if err != nil {
		return "unknown"
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

func main() {
	flag.Parse()
	if *silent {
		log.SetLevel(log.WarnLevel)
	}

	ops := 0
	for _, op := range []string{*extract, *compress, *list} {
		if op != "" {
			ops++
		}
	}
	if ops > 1 {
		log.Fatal("only one operation at a time")
	}

	var err error
	switch {
	case *compress != "":
		err = compressFiles(*compress, *dstFile)
	case *extract != "":
		err = extractFiles(*extract, *dstDir)
	case *list != "":
		err = listFiles(*list, os.Stdout)
	default:
		flag.PrintDefaults()
	}
	if err != nil {
		log.Fatal(err)
	}
}

func compressFiles(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return errors.New("destination file exists, will not overwrite")
	}

	var filesToCompress []string
	if err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		filesToCompress = append(filesToCompress, path)
		return nil
	}); err != nil {
		return err
	}

	karBuilder, err := kar.NewBuilder(kar.Header{
		Author:      *author,
		DateCreated: time.Now().Unix(),
		Version:     *version,
	})
	if err != nil {
		return err
	}
	defer karBuilder.Close()

	bar := newBar(len(filesToCompress), "compressing")
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, ftc := range filesToCompress {
		g.Go(func() error {
			name, err := entryName(src, ftc)
			if err != nil {
				return err
			}
			f, err := os.Open(ftc)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := karBuilder.Add(name, f); err != nil {
				return fmt.Errorf("%s: %w", ftc, err)
			}
			bar.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	n, err := karBuilder.WriteTo(out)
	if err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	log.WithFields(log.Fields{
		"archive": dst,
		"files":   len(filesToCompress),
		"bytes":   n,
	}).Info("archive written")
	return out.Close()
}

// entryName is the slash separated name of path relative to root. A single
// file is stored under its base name.
func entryName(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	if rel == "." {
		rel = filepath.Base(path)
	}
	return filepath.ToSlash(rel), nil
}

func extractFiles(src, dir string) error {
	archive, err := kar.OpenFile(src)
	if err != nil {
		return err
	}
	defer archive.Close()

	names := archive.Names()
	bar := newBar(len(names), "extracting")
	for _, name := range names {
		target, err := extractPath(dir, name)
		if err != nil {
			return err
		}
		if err := extractFile(archive, name, target); err != nil {
			return err
		}
		bar.Add(1)
	}
	log.WithFields(log.Fields{
		"archive": src,
		"files":   len(names),
		"dir":     dir,
	}).Info("archive extracted")
	return nil
}

// extractPath rejects entries that would land outside dir.
func extractPath(dir, name string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: entry escapes the destination directory", name)
	}
	return target, nil
}

func extractFile(archive *kar.Archive, name, target string) error {
	r, err := archive.Open(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	return f.Close()
}

func listFiles(src string, w io.Writer) error {
	archive, err := kar.OpenFile(src)
	if err != nil {
		return err
	}
	defer archive.Close()

	header := archive.Header()
	fmt.Fprintf(w, "author: %s\nversion: %d\ncreated: %s\n\n",
		header.Author, header.Version, time.Unix(header.DateCreated, 0).Format(time.RFC3339))

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "size\tcompressed\tname\t")
	entries := make(map[string]kar.IndexEntry, len(header.Index))
	for _, e := range header.Index {
		entries[e.Name] = e
	}
	for _, name := range archive.Names() {
		e := entries[name]
		fmt.Fprintf(tw, "%d\t%d\t%s\t\n", e.Size, e.CompressedSize, e.Name)
	}
	return tw.Flush()
}

func newBar(n int, description string) *progressbar.ProgressBar {
	if *silent {
		return progressbar.DefaultSilent(int64(n), description)
	}
	return progressbar.Default(int64(n), description)
}
