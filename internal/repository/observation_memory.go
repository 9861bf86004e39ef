package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"SkinPulse/internal/domain/models"
	domrepo "SkinPulse/internal/domain/repository"
	"SkinPulse/pkg/util"
)

// MemoryStore implements ObservationStore in process memory. It backs the
// mock provider mode and the test suites; semantics match the ClickHouse
// store, including one row per (skin, date).
type MemoryStore struct {
	mu        sync.RWMutex
	skins     map[uint64]*models.Skin
	byName    map[string]uint64
	snapshots map[uint64]map[string]*models.PriceSnapshot // skinID -> day string
}

// NewMemoryStore creates an empty in-memory observation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		skins:     make(map[uint64]*models.Skin),
		byName:    make(map[string]uint64),
		snapshots: make(map[uint64]map[string]*models.PriceSnapshot),
	}
}

func (s *MemoryStore) GetSkinByName(_ context.Context, name string) (*models.Skin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[name]
	if !ok {
		return nil, nil
	}
	cp := *s.skins[id]
	return &cp, nil
}

func (s *MemoryStore) GetSkin(_ context.Context, id uint64) (*models.Skin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sk, ok := s.skins[id]
	if !ok {
		return nil, nil
	}
	cp := *sk
	return &cp, nil
}

func (s *MemoryStore) ListSkins(_ context.Context, names []string) ([]models.Skin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Skin
	if len(names) == 0 {
		for _, sk := range s.skins {
			out = append(out, *sk)
		}
	} else {
		for _, name := range names {
			if id, ok := s.byName[name]; ok {
				out = append(out, *s.skins[id])
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) CreateSkin(_ context.Context, skin *models.Skin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if skin.ID == 0 {
		skin.ID = models.SkinIDFor(skin.Name)
	}
	cp := *skin
	s.skins[skin.ID] = &cp
	s.byName[skin.Name] = skin.ID
	return nil
}

func (s *MemoryStore) UpdateSkinMetadata(_ context.Context, skin *models.Skin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *skin
	s.skins[skin.ID] = &cp
	s.byName[skin.Name] = skin.ID
	return nil
}

func (s *MemoryStore) GetSnapshot(_ context.Context, skinID uint64, date time.Time) (*models.PriceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	day := util.FormatDay(date)
	if m, ok := s.snapshots[skinID]; ok {
		if snap, ok := m[day]; ok {
			cp := *snap
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) SaveSnapshot(_ context.Context, snap *models.PriceSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := util.FormatDay(snap.SnapshotDate)
	m, ok := s.snapshots[snap.SkinID]
	if !ok {
		m = make(map[string]*models.PriceSnapshot)
		s.snapshots[snap.SkinID] = m
	}
	cp := *snap
	cp.SnapshotDate = util.Day(snap.SnapshotDate)
	m[day] = &cp
	return nil
}

func (s *MemoryStore) ListSnapshots(_ context.Context, skinID uint64) ([]models.PriceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := s.snapshots[skinID]
	out := make([]models.PriceSnapshot, 0, len(m))
	for _, snap := range m {
		out = append(out, *snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SnapshotDate.Before(out[j].SnapshotDate) })
	return out, nil
}

func (s *MemoryStore) SnapshotCounts(_ context.Context, skinIDs []uint64) (map[uint64]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uint64]int, len(skinIDs))
	for _, id := range skinIDs {
		if n := len(s.snapshots[id]); n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

func (s *MemoryStore) CountDistinctDates(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	days := make(map[string]struct{})
	for _, m := range s.snapshots {
		for day := range m {
			days[day] = struct{}{}
		}
	}
	return len(days), nil
}

func (s *MemoryStore) Summary(_ context.Context, names []string) (*domrepo.StoreSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}

	sum := &domrepo.StoreSummary{}
	days := make(map[string]struct{})
	sources := make(map[string]int64)
	for _, m := range s.snapshots {
		for _, snap := range m {
			if _, ok := wanted[snap.SkinName]; !ok {
				continue
			}
			sum.TotalSnapshots++
			days[util.FormatDay(snap.SnapshotDate)] = struct{}{}
			sources[snap.Source]++
			if sum.FirstDate == nil || snap.SnapshotDate.Before(*sum.FirstDate) {
				d := snap.SnapshotDate
				sum.FirstDate = &d
			}
			if sum.LastDate == nil || snap.SnapshotDate.After(*sum.LastDate) {
				d := snap.SnapshotDate
				sum.LastDate = &d
			}
		}
	}
	sum.DistinctDates = len(days)

	keys := make([]string, 0, len(sources))
	for k := range sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sum.Sources = append(sum.Sources, domrepo.SourceCount{Source: k, Count: sources[k]})
	}
	return sum, nil
}

func (s *MemoryStore) RecentSnapshots(_ context.Context, names []string, limit int) ([]models.PriceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}

	var all []models.PriceSnapshot
	for _, m := range s.snapshots {
		for _, snap := range m {
			if _, ok := wanted[snap.SkinName]; ok {
				all = append(all, *snap)
			}
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].SnapshotDate.Equal(all[j].SnapshotDate) {
			return all[i].SnapshotDate.After(all[j].SnapshotDate)
		}
		return all[i].SkinName < all[j].SkinName
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *MemoryStore) Health(_ context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

var _ domrepo.ObservationStore = (*MemoryStore)(nil)
