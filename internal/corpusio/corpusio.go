// Package corpusio reads raw clue corpora and auxiliary word tables from
// external sources (JSON Lines clue dumps, line-oriented frequency and
// quality lists) into the shapes internal/corpus builds an Index from.
package corpusio

import (
	"bufio"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"quinian/internal/corpus"
	"quinian/internal/domain"
)

//go:embed schemas/*.json
var schemasFS embed.FS

var clueRecordSchema *jsonschema.Schema

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	data, err := schemasFS.ReadFile("schemas/clue_record.schema.json")
	if err != nil {
		panic(fmt.Sprintf("corpusio: read clue record schema: %v", err))
	}
	if err := compiler.AddResource("clue_record.schema.json", strings.NewReader(string(data))); err != nil {
		panic(fmt.Sprintf("corpusio: add clue record schema: %v", err))
	}
	clueRecordSchema, err = compiler.Compile("clue_record.schema.json")
	if err != nil {
		panic(fmt.Sprintf("corpusio: compile clue record schema: %v", err))
	}
}

// ValidationError reports one clue record that failed schema validation,
// identified by its line number in the source (1-based).
type ValidationError struct {
	Line    int
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ValidationErrors collects every ValidationError found while reading a
// source. Records that failed validation are skipped; they do not
// prevent the well-formed records in the same source from loading.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no errors"
	}
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// JSONLinesSource reads a clue corpus from a JSON Lines stream — one
// {"surface": "...", "answer": "..."} object per line, the shape a
// scraper or TSV importer would emit.
type JSONLinesSource struct {
	r io.Reader
}

// NewJSONLinesSource wraps r as a JSONLinesSource.
func NewJSONLinesSource(r io.Reader) JSONLinesSource {
	return JSONLinesSource{r: r}
}

// ReadAll reads every record from the source, validating each line
// against the embedded clue record schema. Lines that fail to parse or
// fail schema validation are skipped and reported in the returned
// ValidationErrors; the well-formed records still load.
func (s JSONLinesSource) ReadAll() ([]corpus.ClueRecord, ValidationErrors) {
	return ReadClueRecords(s.r)
}

// ReadClueRecords reads a JSON Lines stream — one {"surface":...,
// "answer":...} object per line — validating each line against the clue
// record schema. Lines that fail to parse or fail schema validation are
// skipped and reported in the returned ValidationErrors; the well-formed
// records still load.
func ReadClueRecords(r io.Reader) ([]corpus.ClueRecord, ValidationErrors) {
	var records []corpus.ClueRecord
	var errs ValidationErrors

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var doc interface{}
		if err := json.Unmarshal([]byte(text), &doc); err != nil {
			errs = append(errs, ValidationError{Line: line, Message: fmt.Sprintf("invalid JSON: %v", err)})
			continue
		}
		if err := clueRecordSchema.Validate(doc); err != nil {
			errs = append(errs, ValidationError{Line: line, Message: err.Error()})
			continue
		}

		var rec corpus.ClueRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			errs = append(errs, ValidationError{Line: line, Message: fmt.Sprintf("decode record: %v", err)})
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, ValidationError{Line: line, Message: err.Error()})
	}

	return records, errs
}

// MapFrequencyTable is a corpus.FrequencyTable backed by a plain map, the
// shape produced by LoadFrequencyTable.
type MapFrequencyTable map[domain.Word]int

// Frequency implements corpus.FrequencyTable.
func (m MapFrequencyTable) Frequency(w domain.Word) (int, bool) {
	f, ok := m[w]
	return f, ok
}

// MapQualityTable is a corpus.QualityTable backed by a plain map, the
// shape produced by LoadQualityTable.
type MapQualityTable map[domain.Word]int

// Score implements corpus.QualityTable.
func (m MapQualityTable) Score(w domain.Word) (int, bool) {
	s, ok := m[w]
	return s, ok
}

// LoadFrequencyTable reads a frequency list, one entry per line in
// WORD,count form (count defaults to 0 if omitted). Blank lines and
// lines starting with "#" are skipped.
func LoadFrequencyTable(r io.Reader) (MapFrequencyTable, error) {
	table := make(MapFrequencyTable)
	if err := loadWordIntTable(r, table); err != nil {
		return nil, err
	}
	return table, nil
}

// LoadQualityTable reads a quality score list in the same WORD,score
// form as LoadFrequencyTable.
func LoadQualityTable(r io.Reader) (MapQualityTable, error) {
	table := make(MapQualityTable)
	if err := loadWordIntTable(r, table); err != nil {
		return nil, err
	}
	return table, nil
}

func loadWordIntTable(r io.Reader, dst map[domain.Word]int) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		parts := strings.SplitN(text, ",", 2)
		word := domain.NormalizeAnswer(parts[0])
		if !word.IsValid() {
			continue
		}

		value := 0
		if len(parts) > 1 {
			v, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err != nil {
				return fmt.Errorf("corpusio: line %d: invalid count %q: %w", line, parts[1], err)
			}
			value = v
		}
		dst[word] = value
	}
	return scanner.Err()
}
