package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/duskpaper/internal/persist"
)

// Columns is the header written to catalog files.
var Columns = []string{"path", "blue", "green", "red", "light", "dark"}

// DefaultPrecision is the number of decimal places written per fraction.
const DefaultPrecision = 5

// DefaultMaxDecompressedSize caps how much an xz catalog may expand to.
const DefaultMaxDecompressedSize = 256 << 20

// errSizeLimit is returned when a compressed catalog expands past the limit.
var errSizeLimit = errors.New("decompressed catalog exceeds size limit")

// Store reads and writes a catalog file. Paths ending in ".xz" are
// transparently xz-compressed.
type Store struct {
	Path      string
	Precision int
	// MaxDecompressedSize limits xz catalogs. 0 selects
	// DefaultMaxDecompressedSize.
	MaxDecompressedSize int64
	Logger              hclog.Logger
}

// NewStore creates a Store. A precision <= 0 selects DefaultPrecision.
func NewStore(path string, precision int, logger hclog.Logger) *Store {
	if precision <= 0 {
		precision = DefaultPrecision
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Store{Path: path, Precision: precision, Logger: logger}
}

func (s *Store) compressed() bool {
	return strings.HasSuffix(strings.ToLower(s.Path), ".xz")
}

// Load reads the whole catalog.
func (s *Store) Load() (*Catalog, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, persist.Wrap("read", s.Path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if s.compressed() {
		xzr, err := xz.NewReader(f)
		if err != nil {
			return nil, persist.Wrap("decode", s.Path, fmt.Errorf("failed to create xz reader: %w", err))
		}
		limit := s.MaxDecompressedSize
		if limit <= 0 {
			limit = DefaultMaxDecompressedSize
		}
		r = &limitedReader{r: xzr, remaining: limit}
	}

	c, err := Read(r)
	if err != nil {
		return nil, persist.Wrap("decode", s.Path, err)
	}
	s.Logger.Debug("loaded catalog", "path", s.Path, "entries", c.Len())
	return c, nil
}

// Save replaces the catalog file with c.
func (s *Store) Save(c *Catalog) error {
	var buf bytes.Buffer

	if s.compressed() {
		xzw, err := xz.NewWriter(&buf)
		if err != nil {
			return persist.Wrap("encode", s.Path, fmt.Errorf("failed to create xz writer: %w", err))
		}
		if err := Write(xzw, c, s.Precision); err != nil {
			return persist.Wrap("encode", s.Path, err)
		}
		if err := xzw.Close(); err != nil {
			return persist.Wrap("encode", s.Path, err)
		}
	} else if err := Write(&buf, c, s.Precision); err != nil {
		return persist.Wrap("encode", s.Path, err)
	}

	if err := persist.WriteFileAtomic(s.Path, buf.Bytes()); err != nil {
		return err
	}
	s.Logger.Debug("saved catalog", "path", s.Path, "entries", c.Len())
	return nil
}

// Read parses CSV catalog data. Columns are matched by header name and extra
// columns are ignored. Empty input yields an empty catalog.
func Read(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range Columns {
		if _, ok := pos[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	c := New()
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		e, err := parseRow(row, pos)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		c.Add(e)
	}
	return c, nil
}

func parseRow(row []string, pos map[string]int) (Entry, error) {
	field := func(name string) (string, error) {
		i := pos[name]
		if i >= len(row) {
			return "", fmt.Errorf("missing value for %q", name)
		}
		return strings.TrimSpace(row[i]), nil
	}
	fraction := func(name string) (float64, error) {
		s, err := field(name)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", name, s, err)
		}
		if v < 0 || v > 1 {
			return 0, fmt.Errorf("%s value %v out of range [0,1]", name, v)
		}
		return v, nil
	}

	var e Entry
	var err error
	if e.Path, err = field("path"); err != nil {
		return Entry{}, err
	}
	if e.Path == "" {
		return Entry{}, fmt.Errorf("empty path")
	}
	if e.Blue, err = fraction("blue"); err != nil {
		return Entry{}, err
	}
	if e.Green, err = fraction("green"); err != nil {
		return Entry{}, err
	}
	if e.Red, err = fraction("red"); err != nil {
		return Entry{}, err
	}
	if e.Light, err = fraction("light"); err != nil {
		return Entry{}, err
	}
	if e.Dark, err = fraction("dark"); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Write encodes c as CSV with the given number of decimal places.
func Write(w io.Writer, c *Catalog, precision int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}

	format := func(v float64) string {
		return strconv.FormatFloat(v, 'f', precision, 64)
	}
	for _, e := range c.Entries() {
		row := []string{e.Path, format(e.Blue), format(e.Green), format(e.Red), format(e.Light), format(e.Dark)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// limitedReader fails once more than remaining bytes have been read.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		return 0, errSizeLimit
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}
