package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/adscope/kwc/internal/snapshot"
	"github.com/adscope/kwc/internal/types"
)

// ImportRecord is one row of import history
type ImportRecord struct {
	ID           int64
	Source       string
	ImportedAt   time.Time
	Keywords     int
	Performances int
	Assignments  int
	CampaignSets int
	// HasAssignments and HasCampaignSets record whether the snapshot
	// carried the map at all, so an explicit empty map survives a reload.
	HasAssignments  bool
	HasCampaignSets bool
}

// ImportSnapshot replaces the stored snapshot with snap and records the import.
// The whole replacement happens in one transaction.
func (s *Store) ImportSnapshot(ctx context.Context, snap *snapshot.Snapshot, source string) (*ImportRecord, error) {
	rec := &ImportRecord{
		Source:       source,
		ImportedAt:   time.Now().UTC(),
		Keywords:     len(snap.Keywords),
		Performances: len(snap.Performances),
		Assignments:  len(snap.Assignments),
		CampaignSets: len(snap.CampaignSets),

		HasAssignments:  snap.Assignments != nil,
		HasCampaignSets: snap.CampaignSets != nil,
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"keywords", "performance", "campaign_assignments", "campaign_sets"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		for _, kw := range snap.Keywords {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO keywords (id, keyword, match_type, category)
				VALUES (?, ?, ?, ?)
			`, kw.ID, kw.Keyword, string(kw.MatchType), kw.Category)
			if err != nil {
				return fmt.Errorf("failed to insert keyword %q: %w", kw.Keyword, err)
			}
		}

		for _, p := range snap.Performances {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO performance (keyword_id, keyword, campaign_id,
					impressions, clicks, spend, sales, ctr, cvr, acos, roas)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, p.KeywordID, p.Keyword, p.CampaignID,
				p.Impressions, p.Clicks, p.Spend, p.Sales, p.CTR, p.CVR, p.ACOS, p.ROAS)
			if err != nil {
				return fmt.Errorf("failed to insert performance for %q: %w", p.Keyword, err)
			}
		}

		for identifier, campaign := range snap.Assignments {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO campaign_assignments (identifier, campaign_id) VALUES (?, ?)
			`, identifier, campaign)
			if err != nil {
				return fmt.Errorf("failed to insert assignment for %q: %w", identifier, err)
			}
		}

		for identifier, campaigns := range snap.CampaignSets {
			for pos, campaign := range campaigns {
				_, err := tx.ExecContext(ctx, `
					INSERT INTO campaign_sets (identifier, position, campaign_id) VALUES (?, ?, ?)
				`, identifier, pos, campaign)
				if err != nil {
					return fmt.Errorf("failed to insert campaign set for %q: %w", identifier, err)
				}
			}
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO imports (source, imported_at, keywords, performances,
				assignments, campaign_sets, has_assignments, has_campaign_sets)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, rec.Source, rec.ImportedAt.Format(time.RFC3339Nano),
			rec.Keywords, rec.Performances, rec.Assignments, rec.CampaignSets,
			rec.HasAssignments, rec.HasCampaignSets)
		if err != nil {
			return fmt.Errorf("failed to record import: %w", err)
		}
		rec.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get import id: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[STORE] Imported %d keywords, %d performance records from %s",
		rec.Keywords, rec.Performances, rec.Source)
	return rec, nil
}

// LoadSnapshot reads the stored snapshot back in import order.
// A map absent from the imported snapshot loads as nil; one that was present
// but empty loads as an empty map, so derivation behaves as it did for the file.
func (s *Store) LoadSnapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	snap := &snapshot.Snapshot{}

	kwRows, err := s.db.QueryContext(ctx, `
		SELECT id, keyword, match_type, category FROM keywords ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query keywords: %w", err)
	}
	defer func() { _ = kwRows.Close() }()

	for kwRows.Next() {
		var kw types.KeywordRecord
		var matchType string
		if err := kwRows.Scan(&kw.ID, &kw.Keyword, &matchType, &kw.Category); err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		kw.MatchType = types.MatchType(matchType)
		snap.Keywords = append(snap.Keywords, kw)
	}
	if err := kwRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate keywords: %w", err)
	}

	perfRows, err := s.db.QueryContext(ctx, `
		SELECT keyword_id, keyword, campaign_id,
			impressions, clicks, spend, sales, ctr, cvr, acos, roas
		FROM performance ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query performance: %w", err)
	}
	defer func() { _ = perfRows.Close() }()

	for perfRows.Next() {
		var p types.PerformanceRecord
		var metrics [8]sql.NullFloat64
		if err := perfRows.Scan(&p.KeywordID, &p.Keyword, &p.CampaignID,
			&metrics[0], &metrics[1], &metrics[2], &metrics[3],
			&metrics[4], &metrics[5], &metrics[6], &metrics[7]); err != nil {
			return nil, fmt.Errorf("failed to scan performance: %w", err)
		}
		p.Impressions, p.Clicks, p.Spend, p.Sales = metricValue(metrics[0]), metricValue(metrics[1]), metricValue(metrics[2]), metricValue(metrics[3])
		p.CTR, p.CVR, p.ACOS, p.ROAS = metricValue(metrics[4]), metricValue(metrics[5]), metricValue(metrics[6]), metricValue(metrics[7])
		snap.Performances = append(snap.Performances, p)
	}
	if err := perfRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate performance: %w", err)
	}

	snap.Assignments, err = s.loadAssignments(ctx)
	if err != nil {
		return nil, err
	}
	snap.CampaignSets, err = s.loadCampaignSets(ctx)
	if err != nil {
		return nil, err
	}

	hasAssignments, hasCampaignSets, err := s.latestImportFlags(ctx)
	if err != nil {
		return nil, err
	}
	if hasAssignments && snap.Assignments == nil {
		snap.Assignments = types.CampaignAssignments{}
	}
	if hasCampaignSets && snap.CampaignSets == nil {
		snap.CampaignSets = types.CampaignSets{}
	}

	return snap, nil
}

// latestImportFlags reports which maps the most recent import carried.
// Both are false when nothing was imported yet.
func (s *Store) latestImportFlags(ctx context.Context) (hasAssignments, hasCampaignSets bool, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT has_assignments, has_campaign_sets FROM imports ORDER BY id DESC LIMIT 1
	`).Scan(&hasAssignments, &hasCampaignSets)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to query latest import: %w", err)
	}
	return hasAssignments, hasCampaignSets, nil
}

// metricValue maps NULL back to NaN. SQLite stores NaN as NULL.
func metricValue(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func (s *Store) loadAssignments(ctx context.Context) (types.CampaignAssignments, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT identifier, campaign_id FROM campaign_assignments`)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var assignments types.CampaignAssignments
	for rows.Next() {
		var identifier, campaign string
		if err := rows.Scan(&identifier, &campaign); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		if assignments == nil {
			assignments = make(types.CampaignAssignments)
		}
		assignments[identifier] = campaign
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}
	return assignments, nil
}

func (s *Store) loadCampaignSets(ctx context.Context) (types.CampaignSets, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT identifier, campaign_id FROM campaign_sets ORDER BY identifier, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaign sets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sets types.CampaignSets
	for rows.Next() {
		var identifier, campaign string
		if err := rows.Scan(&identifier, &campaign); err != nil {
			return nil, fmt.Errorf("failed to scan campaign set: %w", err)
		}
		if sets == nil {
			sets = make(types.CampaignSets)
		}
		sets[identifier] = append(sets[identifier], campaign)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate campaign sets: %w", err)
	}
	return sets, nil
}

// ListImports returns import history, newest first. limit <= 0 means no limit.
func (s *Store) ListImports(ctx context.Context, limit int) ([]ImportRecord, error) {
	query := `
		SELECT id, source, imported_at, keywords, performances, assignments, campaign_sets,
			has_assignments, has_campaign_sets
		FROM imports ORDER BY id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query imports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []ImportRecord
	for rows.Next() {
		var rec ImportRecord
		var importedAt string
		if err := rows.Scan(&rec.ID, &rec.Source, &importedAt,
			&rec.Keywords, &rec.Performances, &rec.Assignments, &rec.CampaignSets,
			&rec.HasAssignments, &rec.HasCampaignSets); err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		rec.ImportedAt, err = time.Parse(time.RFC3339Nano, importedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid imported_at %q: %w", importedAt, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate imports: %w", err)
	}
	return records, nil
}
