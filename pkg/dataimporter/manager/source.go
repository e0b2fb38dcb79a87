package manager

import (
	"archive/zip"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/travigo/cifparser/pkg/dataimporter/datasets"
	"golang.org/x/exp/mmap"
)

// Extensions of the timetable files held inside a CIF bundle. Other entries
// such as the station names (.MSN) use a different record layout.
var bundleEntryExtensions = []string{".MCA", ".CIF"}

// Input is one CIF stream. Open may be called once per run.
type Input struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// Inputs resolves a source path or URL into the CIF streams it holds. An
// empty bundle format is detected from the file extension. The returned
// cleanup releases downloads and open archives.
func Inputs(ctx context.Context, source string, bundle datasets.BundleFormat, auth *datasets.SourceAuthentication) ([]Input, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	path := source
	extension := filepath.Ext(source)

	if isValidUrl(source) {
		downloaded, downloadedExtension, err := tempDownloadFile(ctx, source, auth)
		if err != nil {
			return nil, cleanup, err
		}
		cleanups = append(cleanups, func() { os.Remove(downloaded) })

		path = downloaded
		extension = downloadedExtension
	}

	if bundle == "" {
		bundle = DetectBundle(extension)
	}

	log.Debug().Str("source", source).Str("bundle", string(bundle)).Msg("Opening source")

	switch bundle {
	case datasets.BundleFormatNone:
		return []Input{{Name: source, Open: func() (io.ReadCloser, error) { return openMapped(path) }}}, cleanup, nil
	case datasets.BundleFormatGZ:
		return []Input{{Name: source, Open: func() (io.ReadCloser, error) { return openGzip(path) }}}, cleanup, nil
	case datasets.BundleFormatZIP:
		archive, err := zip.OpenReader(path)
		if err != nil {
			return nil, cleanup, fmt.Errorf("opening zip bundle %s: %w", source, err)
		}
		cleanups = append(cleanups, func() { archive.Close() })

		var inputs []Input
		for _, zipFile := range archive.File {
			if !isBundleEntry(zipFile.Name) {
				log.Debug().Str("file", zipFile.Name).Msg("Skipping bundle entry")
				continue
			}

			inputs = append(inputs, Input{
				Name: fmt.Sprintf("%s:%s", source, zipFile.Name),
				Open: zipFile.Open,
			})
		}

		if len(inputs) == 0 {
			return nil, cleanup, fmt.Errorf("zip bundle %s holds no CIF files", source)
		}

		return inputs, cleanup, nil
	default:
		return nil, cleanup, fmt.Errorf("unknown bundle format %s", bundle)
	}
}

func DetectBundle(extension string) datasets.BundleFormat {
	switch strings.ToLower(extension) {
	case ".zip":
		return datasets.BundleFormatZIP
	case ".gz":
		return datasets.BundleFormatGZ
	default:
		return datasets.BundleFormatNone
	}
}

func isBundleEntry(name string) bool {
	extension := strings.ToUpper(filepath.Ext(name))

	for _, allowed := range bundleEntryExtensions {
		if extension == allowed {
			return true
		}
	}

	return false
}

type mappedFile struct {
	*io.SectionReader
	file *mmap.ReaderAt
}

func (m *mappedFile) Close() error {
	return m.file.Close()
}

func openMapped(path string) (io.ReadCloser, error) {
	file, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	return &mappedFile{
		SectionReader: io.NewSectionReader(file, 0, int64(file.Len())),
		file:          file,
	}, nil
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	g.Reader.Close()
	return g.file.Close()
}

func openGzip(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	reader, err := gzip.NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("opening gzip %s: %w", path, err)
	}

	return &gzipFile{Reader: reader, file: file}, nil
}

func isValidUrl(toTest string) bool {
	_, err := url.ParseRequestURI(toTest)
	if err != nil {
		return false
	}

	u, err := url.Parse(toTest)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return true
}
