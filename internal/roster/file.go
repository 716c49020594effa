package roster

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/albapepper/fivea/internal/teams"
)

// ErrUnknownFormat is returned for files whose extension is not yaml, yml,
// json or csv.
var ErrUnknownFormat = errors.New("unknown roster format")

// Format names a roster file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// File is the YAML/JSON document shape. A bare list of players is accepted
// as well.
type File struct {
	Owner   string         `json:"owner,omitempty" yaml:"owner,omitempty"`
	Players []teams.Player `json:"players" yaml:"players"`
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// LoadFile reads and normalizes a roster file.
func LoadFile(path string) (*File, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	roster, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return roster, nil
}

// Decode reads a roster in the given format. CSV rows go through ParseRow;
// structured formats go through Normalize.
func Decode(r io.Reader, format Format) (*File, error) {
	switch format {
	case FormatCSV:
		rows, err := readCSV(r)
		if err != nil {
			return nil, err
		}
		players, _ := ParseRows(rows)
		return &File{Players: players}, nil

	case FormatYAML, FormatJSON:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read roster: %w", err)
		}
		file, err := decodeStructured(data, format)
		if err != nil {
			return nil, err
		}
		for i, p := range file.Players {
			file.Players[i] = Normalize(p)
		}
		return file, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func decodeStructured(data []byte, format Format) (*File, error) {
	unmarshal := json.Unmarshal
	if format == FormatYAML {
		unmarshal = yaml.Unmarshal
	}

	var file File
	err := unmarshal(data, &file)
	if err == nil {
		return &file, nil
	}

	var players []teams.Player
	if listErr := unmarshal(data, &players); listErr != nil {
		return nil, fmt.Errorf("unmarshal roster: %w", err)
	}
	return &File{Players: players}, nil
}

func readCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+1, err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteCSV writes players with the sheet's header row.
func WriteCSV(w io.Writer, players []teams.Player) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range players {
		row := EncodeRow(p).normalize()
		record := make([]string, len(Columns))
		for i, col := range Columns {
			record[i] = row.str(col)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", p.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
