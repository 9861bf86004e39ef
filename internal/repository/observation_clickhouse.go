package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"SkinPulse/internal/domain/models"
	domrepo "SkinPulse/internal/domain/repository"
	pkgch "SkinPulse/pkg/clickhouse"
	applogger "SkinPulse/pkg/logger"
	"SkinPulse/pkg/util"
)

// SchemaStatements creates the skinpulse database and tables. Both tables use
// ReplacingMergeTree(ver) so a re-saved (skin, date) row collapses to the
// latest version instead of duplicating.
var SchemaStatements = []string{
	"CREATE DATABASE IF NOT EXISTS skinpulse",
	`CREATE TABLE IF NOT EXISTS skinpulse.skins (
        id UInt64,
        name String,
        rarity String,
        category String,
        image_url String,
        listing_url String,
        thesis String,
        ver UInt64
    ) ENGINE = ReplacingMergeTree(ver) ORDER BY id`,
	`CREATE TABLE IF NOT EXISTS skinpulse.price_snapshots (
        skin_id UInt64,
        skin_name String,
        snapshot_date Date,
        price_usd Float64,
        volume_24h Int64,
        source String,
        source_ref String,
        ver UInt64
    ) ENGINE = ReplacingMergeTree(ver) ORDER BY (skin_id, snapshot_date)`,
}

// ClickHouseStore implements ObservationStore on ClickHouse. Reads go through
// FINAL so unmerged ReplacingMergeTree parts never surface stale versions.
type ClickHouseStore struct {
	client *pkgch.Client
	db     *sql.DB
	l      *applogger.Logger
}

// NewClickHouseStore creates the store and ensures the schema exists.
func NewClickHouseStore(ctx context.Context, client *pkgch.Client, l *applogger.Logger) (*ClickHouseStore, error) {
	if err := client.InitSchema(ctx, SchemaStatements); err != nil {
		return nil, fmt.Errorf("observation schema: %w", err)
	}
	return &ClickHouseStore{client: client, db: client.DB(), l: l}, nil
}

func (s *ClickHouseStore) GetSkinByName(ctx context.Context, name string) (*models.Skin, error) {
	const q = `
        SELECT id, name, rarity, category, image_url, listing_url, thesis
        FROM skinpulse.skins FINAL
        WHERE name = ?
        LIMIT 1
    `
	return s.scanSkin(s.db.QueryRowContext(ctx, q, name))
}

func (s *ClickHouseStore) GetSkin(ctx context.Context, id uint64) (*models.Skin, error) {
	const q = `
        SELECT id, name, rarity, category, image_url, listing_url, thesis
        FROM skinpulse.skins FINAL
        WHERE id = ?
        LIMIT 1
    `
	return s.scanSkin(s.db.QueryRowContext(ctx, q, id))
}

func (s *ClickHouseStore) ListSkins(ctx context.Context, names []string) ([]models.Skin, error) {
	q := `
        SELECT id, name, rarity, category, image_url, listing_url, thesis
        FROM skinpulse.skins FINAL
    `
	var args []interface{}
	if len(names) > 0 {
		q += " WHERE name IN (?)"
		args = append(args, names)
	}
	q += " ORDER BY name ASC"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list skins: %w", err)
	}
	defer rows.Close()

	out := make([]models.Skin, 0, len(names))
	for rows.Next() {
		var sk models.Skin
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.Rarity, &sk.Category, &sk.ImageURL, &sk.ListingURL, &sk.Thesis); err != nil {
			return nil, fmt.Errorf("scan skin: %w", err)
		}
		out = append(out, sk)
	}
	return out, rows.Err()
}

func (s *ClickHouseStore) CreateSkin(ctx context.Context, skin *models.Skin) error {
	if skin.ID == 0 {
		skin.ID = models.SkinIDFor(skin.Name)
	}
	return s.writeSkin(ctx, skin)
}

func (s *ClickHouseStore) UpdateSkinMetadata(ctx context.Context, skin *models.Skin) error {
	// ReplacingMergeTree upsert: a higher ver row supersedes the old one.
	return s.writeSkin(ctx, skin)
}

func (s *ClickHouseStore) writeSkin(ctx context.Context, skin *models.Skin) error {
	const q = `
        INSERT INTO skinpulse.skins
            (id, name, rarity, category, image_url, listing_url, thesis, ver)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := s.db.ExecContext(ctx, q,
		skin.ID, skin.Name, skin.Rarity, skin.Category,
		skin.ImageURL, skin.ListingURL, skin.Thesis,
		uint64(time.Now().UnixNano()),
	)
	if err != nil {
		return fmt.Errorf("write skin %q: %w", skin.Name, err)
	}
	return nil
}

func (s *ClickHouseStore) GetSnapshot(ctx context.Context, skinID uint64, date time.Time) (*models.PriceSnapshot, error) {
	const q = `
        SELECT skin_id, skin_name, snapshot_date, price_usd, volume_24h, source, source_ref
        FROM skinpulse.price_snapshots FINAL
        WHERE skin_id = ? AND snapshot_date = ?
        LIMIT 1
    `
	row := s.db.QueryRowContext(ctx, q, skinID, util.Day(date))
	snap, err := scanSnapshot(row)
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

func (s *ClickHouseStore) SaveSnapshot(ctx context.Context, snap *models.PriceSnapshot) error {
	const q = `
        INSERT INTO skinpulse.price_snapshots
            (skin_id, skin_name, snapshot_date, price_usd, volume_24h, source, source_ref, ver)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	start := time.Now()
	_, err := s.db.ExecContext(ctx, q,
		snap.SkinID, snap.SkinName, util.Day(snap.SnapshotDate),
		snap.PriceUSD, snap.Volume24h, snap.Source, snap.SourceRef,
		uint64(time.Now().UnixNano()),
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse save_snapshot error",
				applogger.String("skin", snap.SkinName),
				applogger.String("date", util.FormatDay(snap.SnapshotDate)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("save snapshot: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse save_snapshot ok",
			applogger.String("skin", snap.SkinName),
			applogger.String("date", util.FormatDay(snap.SnapshotDate)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *ClickHouseStore) ListSnapshots(ctx context.Context, skinID uint64) ([]models.PriceSnapshot, error) {
	const q = `
        SELECT skin_id, skin_name, snapshot_date, price_usd, volume_24h, source, source_ref
        FROM skinpulse.price_snapshots FINAL
        WHERE skin_id = ?
        ORDER BY snapshot_date ASC
    `
	rows, err := s.db.QueryContext(ctx, q, skinID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()
	return collectSnapshots(rows)
}

func (s *ClickHouseStore) SnapshotCounts(ctx context.Context, skinIDs []uint64) (map[uint64]int, error) {
	out := make(map[uint64]int, len(skinIDs))
	if len(skinIDs) == 0 {
		return out, nil
	}
	const q = `
        SELECT skin_id, count()
        FROM skinpulse.price_snapshots FINAL
        WHERE skin_id IN (?)
        GROUP BY skin_id
    `
	rows, err := s.db.QueryContext(ctx, q, skinIDs)
	if err != nil {
		return nil, fmt.Errorf("snapshot counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		var n uint64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[id] = int(n)
	}
	return out, rows.Err()
}

func (s *ClickHouseStore) CountDistinctDates(ctx context.Context) (int, error) {
	const q = `SELECT uniqExact(snapshot_date) FROM skinpulse.price_snapshots FINAL`
	var n uint64
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count distinct dates: %w", err)
	}
	return int(n), nil
}

func (s *ClickHouseStore) Summary(ctx context.Context, names []string) (*domrepo.StoreSummary, error) {
	sum := &domrepo.StoreSummary{}

	const qTotals = `
        SELECT count(), uniqExact(snapshot_date), min(snapshot_date), max(snapshot_date)
        FROM skinpulse.price_snapshots FINAL
        WHERE skin_name IN (?)
    `
	var total, dates uint64
	var first, last time.Time
	err := s.db.QueryRowContext(ctx, qTotals, names).Scan(&total, &dates, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("summary totals: %w", err)
	}
	sum.TotalSnapshots = int64(total)
	sum.DistinctDates = int(dates)
	if total > 0 {
		f, l := util.Day(first), util.Day(last)
		sum.FirstDate, sum.LastDate = &f, &l
	}

	const qSources = `
        SELECT source, count()
        FROM skinpulse.price_snapshots FINAL
        WHERE skin_name IN (?)
        GROUP BY source
        ORDER BY source ASC
    `
	rows, err := s.db.QueryContext(ctx, qSources, names)
	if err != nil {
		return nil, fmt.Errorf("summary sources: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sc domrepo.SourceCount
		var n uint64
		if err := rows.Scan(&sc.Source, &n); err != nil {
			return nil, fmt.Errorf("scan source count: %w", err)
		}
		sc.Count = int64(n)
		sum.Sources = append(sum.Sources, sc)
	}
	return sum, rows.Err()
}

func (s *ClickHouseStore) RecentSnapshots(ctx context.Context, names []string, limit int) ([]models.PriceSnapshot, error) {
	const q = `
        SELECT skin_id, skin_name, snapshot_date, price_usd, volume_24h, source, source_ref
        FROM skinpulse.price_snapshots FINAL
        WHERE skin_name IN (?)
        ORDER BY snapshot_date DESC, skin_name ASC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, names, limit)
	if err != nil {
		return nil, fmt.Errorf("recent snapshots: %w", err)
	}
	defer rows.Close()
	return collectSnapshots(rows)
}

func (s *ClickHouseStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

func (s *ClickHouseStore) Close() error {
	return nil // pool owned by pkg client
}

func (s *ClickHouseStore) scanSkin(row *sql.Row) (*models.Skin, error) {
	var sk models.Skin
	err := row.Scan(&sk.ID, &sk.Name, &sk.Rarity, &sk.Category, &sk.ImageURL, &sk.ListingURL, &sk.Thesis)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan skin: %w", err)
	}
	return &sk, nil
}

func scanSnapshot(row *sql.Row) (*models.PriceSnapshot, error) {
	var p models.PriceSnapshot
	var day time.Time
	err := row.Scan(&p.SkinID, &p.SkinName, &day, &p.PriceUSD, &p.Volume24h, &p.Source, &p.SourceRef)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.SnapshotDate = util.Day(day)
	return &p, nil
}

func collectSnapshots(rows *sql.Rows) ([]models.PriceSnapshot, error) {
	var out []models.PriceSnapshot
	for rows.Next() {
		var p models.PriceSnapshot
		var day time.Time
		if err := rows.Scan(&p.SkinID, &p.SkinName, &day, &p.PriceUSD, &p.Volume24h, &p.Source, &p.SourceRef); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		p.SnapshotDate = util.Day(day)
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ domrepo.ObservationStore = (*ClickHouseStore)(nil)
