package store

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/pierrec/lz4/v4"

	"airline_sim/internal/models"
)

const archiveExt = ".jsonl.lz4"

type archiveRecord struct {
	Kind   string                  `json:"kind"`
	Ledger *models.LedgerEntry     `json:"ledger,omitempty"`
	Flight *models.CompletedFlight `json:"flight,omitempty"`
}

func writeArchive(dir string, now time.Time, ev models.Evicted) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := filepath.Join(dir, fmt.Sprintf("evicted-%d%s", now.UnixNano(), archiveExt))
	tmp := name + ".tmp"
	fh, err := os.Create(tmp)
	if err != nil {
		return "", err
	}

	zw := lz4.NewWriter(fh)
	enc := json.NewEncoder(zw)
	for i := range ev.Ledger {
		if err = enc.Encode(archiveRecord{Kind: "ledger", Ledger: &ev.Ledger[i]}); err != nil {
			break
		}
	}
	for i := range ev.Flights {
		if err != nil {
			break
		}
		err = enc.Encode(archiveRecord{Kind: "flight", Flight: &ev.Flights[i]})
	}
	if err == nil {
		err = zw.Close()
	}
	if cerr := fh.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return "", err
	}
	return name, os.Rename(tmp, name)
}

// ReadArchive decodes every archive file in dir, oldest first.
func ReadArchive(dir string) (models.Evicted, error) {
	var out models.Evicted
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return out, nil
	} else if err != nil {
		return out, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), archiveExt) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, n := range names {
		if err := readArchiveFile(filepath.Join(dir, n), &out); err != nil {
			return out, fmt.Errorf("%s: %w", n, err)
		}
	}
	return out, nil
}

func readArchiveFile(path string, out *models.Evicted) error {
	fh, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fh.Close()

	sc := bufio.NewScanner(lz4.NewReader(fh))
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		var rec archiveRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return err
		}
		switch {
		case rec.Kind == "ledger" && rec.Ledger != nil:
			out.Ledger = append(out.Ledger, *rec.Ledger)
		case rec.Kind == "flight" && rec.Flight != nil:
			out.Flights = append(out.Flights, *rec.Flight)
		}
	}
	if err := sc.Err(); err != nil && err != io.EOF {
		return err
	}
	return nil
}
