package db

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"mxshs/oddscrawler/src/domain"
)

// WriteLinks stores links one per line, sorted.
func WriteLinks(path string, links domain.LinkSet) error {
	return os.WriteFile(path, []byte(strings.Join(links.Sorted(), "\n")), 0o644)
}

// ReadLinks loads a link list file, skipping blank lines and duplicates.
func ReadLinks(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seen := domain.LinkSet{}
	var links []string

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		l := strings.TrimSpace(sc.Text())
		if l == "" || seen.Has(l) {
			continue
		}
		seen.Add(l)
		links = append(links, l)
	}

	return links, sc.Err()
}

// RecordStream appends records to a file, one JSON object per line.
// Records are written from the single sequential match loop.
type RecordStream struct {
	f *os.File
	w *bufio.Writer
}

func OpenRecordStream(path string) (*RecordStream, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	return &RecordStream{f: f, w: bufio.NewWriter(f)}, nil
}

func (rs *RecordStream) Save(ctx context.Context, rec domain.Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	if _, err := rs.w.Write(append(line, '\n')); err != nil {
		return err
	}

	return rs.w.Flush()
}

func (rs *RecordStream) Close() error {
	if err := rs.w.Flush(); err != nil {
		rs.f.Close()
		return err
	}

	return rs.f.Close()
}

// StreamToCSV converts a record stream into a CSV table whose columns follow
// the fields of sample.
func StreamToCSV[R domain.Record](streamPath, csvPath string, sample R) (int, error) {
	in, err := os.Open(streamPath)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(csvPath)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(sample.Columns()); err != nil {
		return 0, err
	}

	rows := 0
	dec := json.NewDecoder(in)
	for {
		var rec R
		err := dec.Decode(&rec)
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("record %d of %s: %w", rows+1, streamPath, err)
		}

		if err := w.Write(rec.Values()); err != nil {
			return rows, err
		}
		rows++
	}

	w.Flush()

	return rows, w.Error()
}

// ReadColumn returns the values of one named column of a CSV file.
func ReadColumn(csvPath, column string) ([]string, error) {
	header, rows, err := readCSV(csvPath)
	if err != nil {
		return nil, err
	}

	idx := indexOf(header, column)
	if idx < 0 {
		return nil, fmt.Errorf("%s has no %q column", csvPath, column)
	}

	values := make([]string, 0, len(rows))
	for _, r := range rows {
		values = append(values, r[idx])
	}

	return values, nil
}

// MergeResults joins a match table with a result table on the link column
// and writes the full table. Matches without a result keep empty cells.
func MergeResults(matchesPath, resultsPath, outPath string) error {
	mHeader, mRows, err := readCSV(matchesPath)
	if err != nil {
		return err
	}

	rHeader, rRows, err := readCSV(resultsPath)
	if err != nil {
		return err
	}

	mLink := indexOf(mHeader, "link")
	rLink := indexOf(rHeader, "link")
	if mLink < 0 || rLink < 0 {
		return fmt.Errorf("both tables need a link column")
	}

	var extra []int
	for i, c := range rHeader {
		if i != rLink && indexOf(mHeader, c) < 0 {
			extra = append(extra, i)
		}
	}

	byLink := make(map[string][]string, len(rRows))
	for _, r := range rRows {
		byLink[r[rLink]] = r
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	w := csv.NewWriter(out)

	header := append([]string(nil), mHeader...)
	for _, i := range extra {
		header = append(header, rHeader[i])
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, m := range mRows {
		row := append([]string(nil), m...)
		r, ok := byLink[m[mLink]]
		for _, i := range extra {
			if ok {
				row = append(row, r[i])
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s is empty", path)
	}

	return records[0], records[1:], nil
}

func indexOf(cols []string, name string) int {
	for i, c := range cols {
		if c == name {
			return i
		}
	}
	return -1
}
