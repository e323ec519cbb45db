// Package corpus loads and normalizes the candidate dataset and serves
// memoized per-filter snapshots with fitted TF-IDF models.
package corpus

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Chenxi-dot/smartHR/internal/cache"
	"github.com/Chenxi-dot/smartHR/internal/types"
)

// DefaultMaxCandidates bounds how many rows are loaded into memory.
const DefaultMaxCandidates = 50000

// Source column names in the candidate CSV.
const (
	colID             = "id"
	colName           = "Name"
	colPosition       = "Position"
	colPrimaryKeyword = "Primary Keyword"
	colEnglishLevel   = "English Level"
	colExperience     = "Experience Years"
	colLookingFor     = "Looking For"
	colHighlights     = "Highlights"
	colMoreinfo       = "Moreinfo"
	colCV             = "CV"
)

// rawRecord is one CSV row keyed by header name.
type rawRecord map[string]string

// readRecords parses the candidate CSV into header-keyed rows, capped at max.
func readRecords(path string, max int) ([]rawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open candidate data: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read candidate header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []rawRecord
	for len(records) < max {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read candidate row %d: %w", len(records)+1, err)
		}
		rec := make(rawRecord, len(header))
		for i, field := range row {
			if i < len(header) {
				rec[header[i]] = field
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// normalizeRecord derives a Candidate from a raw row. Missing english levels
// default to basic so the ladder comparison always has a rank.
func normalizeRecord(rec rawRecord, rowIndex int) types.Candidate {
	id := strings.TrimSpace(rec[colID])
	if id == "" {
		id = strconv.Itoa(rowIndex)
	}
	name := strings.TrimSpace(rec[colName])
	if name == "" {
		name = id
	}
	level := types.NormalizeEnglishLevel(rec[colEnglishLevel])
	if level == "" {
		level = types.EnglishBasic
	}

	return types.Candidate{
		ID:              id,
		Name:            name,
		Position:        strings.TrimSpace(rec[colPosition]),
		LongDescription: buildLongDescription(rec, level),
		SkillHints:      extractSkillHints(rec),
		LookingFor:      strings.TrimSpace(rec[colLookingFor]),
		ExperienceYears: parseExperienceYears(rec[colExperience]),
		EnglishLevel:    level,
	}
}

// buildLongDescription assembles the textual summary used for intent
// vectorization and oracle prompts. Field order is fixed; empty fields are
// skipped.
func buildLongDescription(rec rawRecord, level types.EnglishLevel) string {
	var parts []string
	add := func(label, value string) {
		if v := strings.TrimSpace(value); v != "" {
			parts = append(parts, label+": "+v)
		}
	}

	add("Position", rec[colPosition])
	add("Primary Keyword", rec[colPrimaryKeyword])
	add("English Level", string(level))
	add("Experience Years", rec[colExperience])
	add("Looking For", rec[colLookingFor])
	add("Highlights", rec[colHighlights])
	add("Moreinfo", rec[colMoreinfo])
	add("CV", rec[colCV])

	return strings.Join(parts, "\n")
}

// extractSkillHints pulls raw skill tokens out of the free-text fields by
// splitting on commas, semicolons, and slashes. No model involved.
func extractSkillHints(rec rawRecord) []string {
	fields := []string{
		rec[colPrimaryKeyword],
		rec[colHighlights],
		rec[colMoreinfo],
		rec[colCV],
	}

	var tokens []string
	for _, field := range fields {
		normalized := strings.NewReplacer("/", ",", ";", ",").Replace(field)
		for _, tok := range strings.Split(normalized, ",") {
			if t := strings.TrimSpace(tok); t != "" {
				tokens = append(tokens, t)
			}
		}
	}
	return tokens
}

// parseExperienceYears tolerates values like "3", "2.5", and "5y".
func parseExperienceYears(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(strings.TrimSuffix(s, "y"), "Y")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// rowFingerprint covers every source field that feeds normalization, so any
// upstream edit to a row invalidates its cached derivation.
func rowFingerprint(rec rawRecord) string {
	fields := []string{
		rec[colName], rec[colPosition], rec[colPrimaryKeyword],
		rec[colEnglishLevel], rec[colExperience], rec[colLookingFor],
		rec[colHighlights], rec[colMoreinfo], rec[colCV],
	}
	return cache.Fingerprint(strings.Join(fields, "\n"))
}

// normalizeAll converts raw rows to candidates, consulting the tiered cache
// for previously derived records. tc may be nil.
func normalizeAll(ctx context.Context, records []rawRecord, tc *cache.Tiered, logger *zap.Logger) []types.Candidate {
	candidates := make([]types.Candidate, 0, len(records))
	hits := 0
	for i, rec := range records {
		fingerprint := rowFingerprint(rec)
		id := strings.TrimSpace(rec[colID])
		if id == "" {
			id = strconv.Itoa(i)
		}

		if tc != nil {
			if payload, ok := tc.Get(ctx, id, fingerprint); ok {
				var cand types.Candidate
				if err := json.Unmarshal(payload, &cand); err == nil {
					candidates = append(candidates, cand)
					hits++
					continue
				}
				logger.Warn("discarding undecodable cached candidate", zap.String("id", id))
			}
		}

		cand := normalizeRecord(rec, i)
		candidates = append(candidates, cand)

		if tc != nil {
			if payload, err := json.Marshal(cand); err == nil {
				tc.Put(ctx, id, fingerprint, payload)
			}
		}
	}

	logger.Info("normalized candidate corpus",
		zap.Int("total", len(candidates)),
		zap.Int("cache_hits", hits))
	return candidates
}
