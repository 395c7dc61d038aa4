// Package persist writes and resumes the on-disk evolution record: per-generation population
// snapshots, match logs, pairing history, and a running CSV of generation statistics. Every
// write is atomic (temp file + rename) so a crash mid-write never leaves a torn file behind.
package persist

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/herohde/morlock-evolve/pkg/eval"
	"github.com/herohde/morlock-evolve/pkg/ga"
)

const statsHeader = "generation,individuals,matches,white_wins,black_wins,draws,top_elo,avg_elo,low_elo"

// Store roots all reads and writes under a single evolution directory.
type Store struct {
	root string
}

// NewStore returns a Store rooted at dir (conventionally "evolution").
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Path returns the root directory this Store reads and writes under.
func (s *Store) Path() string {
	return s.root
}

func (s *Store) genDir(gen int) string {
	return filepath.Join(s.root, fmt.Sprintf("gen_%d", gen))
}

// writeAtomic writes data to path via a sibling temp file plus rename, retrying up to 3 times
// with a 100ms backoff per the IOFailure error kind, then returning the final error.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %v: %w", dir, err)
	}

	var lastErr error
	for attempt := 0; attempt < 4; attempt++ {
		if attempt > 0 {
			time.Sleep(100 * time.Millisecond)
		}

		tmp, err := os.CreateTemp(dir, ".tmp-*")
		if err != nil {
			lastErr = err
			continue
		}
		tmpPath := tmp.Name()

		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			lastErr = err
			continue
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmpPath)
			lastErr = err
			continue
		}
		if err := os.Rename(tmpPath, path); err != nil {
			os.Remove(tmpPath)
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("write %v: %w", path, lastErr)
}

// PopulationIndividual is the persisted shape of one Individual within population.json.
type PopulationIndividual struct {
	ID         uint64            `json:"id"`
	Parents    []uint64          `json:"parents"`
	ELO        float64           `json:"elo"`
	Chromosome eval.SearchConfig `json:"chromosome"`
}

// PopulationFile is the persisted shape of population.json.
type PopulationFile struct {
	Generation  int                    `json:"generation"`
	Individuals []PopulationIndividual `json:"individuals"`
}

// WritePopulation atomically (re)writes gen_{n}/population.json.
func (s *Store) WritePopulation(gen int, pop []ga.Individual) error {
	file := PopulationFile{Generation: gen}
	for _, ind := range pop {
		parents := ind.Parents
		if parents == nil {
			parents = []uint64{}
		}
		file.Individuals = append(file.Individuals, PopulationIndividual{
			ID: ind.ID, Parents: parents, ELO: ind.ELO, Chromosome: ind.Chromosome,
		})
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal population: %w", err)
	}
	return writeAtomic(filepath.Join(s.genDir(gen), "population.json"), data)
}

// LoadPopulation reads gen_{n}/population.json back into Individuals, with generation set
// from the file's own field (bookkeeping that isn't redundant: resume needs it even when the
// caller already knows n).
func (s *Store) LoadPopulation(gen int) ([]ga.Individual, error) {
	data, err := os.ReadFile(filepath.Join(s.genDir(gen), "population.json"))
	if err != nil {
		return nil, err
	}

	var file PopulationFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal population: %w", err)
	}

	pop := make([]ga.Individual, len(file.Individuals))
	for i, ind := range file.Individuals {
		pop[i] = ga.Individual{
			ID: ind.ID, Parents: ind.Parents, ELO: ind.ELO, Generation: file.Generation, Chromosome: ind.Chromosome,
		}
	}
	return pop, nil
}

// MatchRecord is one line of gen_{n}/matches.jsonl.
type MatchRecord struct {
	Round       int      `json:"round"`
	WhiteID     uint64   `json:"white_id"`
	BlackID     uint64   `json:"black_id"`
	Result      string   `json:"result"`
	Termination string   `json:"termination"`
	Moves       []string `json:"moves"`
}

// AppendMatch atomically appends one line to gen_{n}/matches.jsonl: the whole file is read,
// extended, and rewritten via writeAtomic, so a torn write never leaves a half-line record.
func (s *Store) AppendMatch(gen int, rec MatchRecord) error {
	path := filepath.Join(s.genDir(gen), "matches.jsonl")

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read matches log: %w", err)
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal match: %w", err)
	}

	data := append(existing, line...)
	data = append(data, '\n')
	return writeAtomic(path, data)
}

// CountMatches returns the number of completed matches recorded for gen, for resume bookkeeping.
func (s *Store) CountMatches(gen int) (int, error) {
	path := filepath.Join(s.genDir(gen), "matches.jsonl")
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if scanner.Text() != "" {
			count++
		}
	}
	return count, scanner.Err()
}

// LoadMatches reads every match recorded for gen, in file order.
func (s *Store) LoadMatches(gen int) ([]MatchRecord, error) {
	path := filepath.Join(s.genDir(gen), "matches.jsonl")
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var recs []MatchRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var rec MatchRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal match line: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, scanner.Err()
}

// PairingsFile is the persisted shape of pairings.json.
type PairingsFile struct {
	Pairs [][2]uint64 `json:"pairs"`
}

// WritePairings atomically (re)writes gen_{n}/pairings.json. Each pair is stored with the
// lower ID first, per the wire contract.
func (s *Store) WritePairings(gen int, pairs [][2]uint64) error {
	normalized := make([][2]uint64, len(pairs))
	for i, p := range pairs {
		if p[0] < p[1] {
			normalized[i] = p
		} else {
			normalized[i] = [2]uint64{p[1], p[0]}
		}
	}

	data, err := json.MarshalIndent(PairingsFile{Pairs: normalized}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal pairings: %w", err)
	}
	return writeAtomic(filepath.Join(s.genDir(gen), "pairings.json"), data)
}

// LoadPairings reads gen_{n}/pairings.json, or an empty set if it does not yet exist.
func (s *Store) LoadPairings(gen int) ([][2]uint64, error) {
	data, err := os.ReadFile(filepath.Join(s.genDir(gen), "pairings.json"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var file PairingsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal pairings: %w", err)
	}
	return file.Pairs, nil
}

// GenerationStats is one finalized generation's row in generation_stats.csv. A generation is
// only considered complete once this row is written.
type GenerationStats struct {
	Generation  int
	Individuals int
	Matches     int
	WhiteWins   int
	BlackWins   int
	Draws       int
	TopELO      float64
	AvgELO      float64
	LowELO      float64
}

// AppendGenerationStats atomically appends one row to generation_stats.csv, writing the header
// first if the file does not yet exist.
func (s *Store) AppendGenerationStats(row GenerationStats) error {
	path := filepath.Join(s.root, "generation_stats.csv")

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read stats: %w", err)
	}
	if len(existing) == 0 {
		existing = []byte(statsHeader + "\n")
	}

	fields := []string{
		strconv.Itoa(row.Generation), strconv.Itoa(row.Individuals), strconv.Itoa(row.Matches),
		strconv.Itoa(row.WhiteWins), strconv.Itoa(row.BlackWins), strconv.Itoa(row.Draws),
		formatFloat(row.TopELO), formatFloat(row.AvgELO), formatFloat(row.LowELO),
	}

	var sb strings.Builder
	for i, v := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v)
	}
	sb.WriteByte('\n')

	data := append(existing, []byte(sb.String())...)
	return writeAtomic(path, data)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// LatestGeneration returns the highest gen_n found under root, and whether any exists.
func (s *Store) LatestGeneration() (int, bool) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, false
	}

	found := false
	highest := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(e.Name(), "gen_%d", &n); err == nil {
			if !found || n > highest {
				highest = n
				found = true
			}
		}
	}
	return highest, found
}

// Reset deletes the entire evolution directory, so the next run starts at generation 0.
func (s *Store) Reset() error {
	return os.RemoveAll(s.root)
}
