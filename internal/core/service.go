// Package core exposes the operations the chat transport calls: setting
// and clearing user timezones, answering time queries, and managing
// per-chat display lists. It is the only layer allowed to turn catalog
// and store errors into decisions.
package core

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/micahreeves/what-time/internal/catalog"
	"github.com/micahreeves/what-time/internal/clock"
	"github.com/micahreeves/what-time/internal/domain"
	"github.com/micahreeves/what-time/internal/store"
)

// Service wires the catalog, store and clock behind the boundary
// operations. One instance serves all requests.
type Service struct {
	store store.Store
	cat   *catalog.Catalog
	clk   clock.Clock
	log   *zap.Logger
}

func New(st store.Store, cat *catalog.Catalog, clk clock.Clock, log *zap.Logger) *Service {
	return &Service{store: st, cat: cat, clk: clk, log: log}
}

// SetUserTimezone validates raw against the catalog, then upserts the
// identity's record. An invalid name never reaches the store.
func (s *Service) SetUserTimezone(ctx context.Context, identity domain.Identity, raw string) (*domain.Record, error) {
	tz, err := s.cat.Normalize(raw)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.Set(ctx, identity, tz)
	if err != nil {
		return nil, err
	}
	s.log.Info("timezone set",
		zap.String("identity", string(identity)),
		zap.String("tz", tz),
	)
	return rec, nil
}

// GetUserTime renders the absolute instant at as wall-clock time in the
// identity's stored timezone.
func (s *Service) GetUserTime(ctx context.Context, identity domain.Identity, at time.Time) (time.Time, error) {
	rec, ok, err := s.store.Get(ctx, identity)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, domain.ErrNoTimezone
	}
	return domain.LocalAt(rec, at)
}

// ConvertTime interprets w in fromIdentity's zone and re-renders it in
// toIdentity's zone. DST gap and fold errors pass through untouched.
func (s *Service) ConvertTime(ctx context.Context, fromIdentity, toIdentity domain.Identity, w domain.Wall) (time.Time, error) {
	from, ok, err := s.store.Get(ctx, fromIdentity)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, errors.WithMessagef(domain.ErrNoTimezone, "identity %s", fromIdentity)
	}
	to, ok, err := s.store.Get(ctx, toIdentity)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, errors.WithMessagef(domain.ErrNoTimezone, "identity %s", toIdentity)
	}
	return domain.Convert(from, to, w)
}

// ClearUserTimezone removes the identity's record if present.
func (s *Service) ClearUserTimezone(ctx context.Context, identity domain.Identity) (bool, error) {
	existed, err := s.store.Clear(ctx, identity)
	if err != nil {
		return false, err
	}
	if existed {
		s.log.Info("timezone cleared", zap.String("identity", string(identity)))
	}
	return existed, nil
}

// UserRecord returns the stored record for an identity, if any.
func (s *Service) UserRecord(ctx context.Context, identity domain.Identity) (*domain.Record, bool, error) {
	return s.store.Get(ctx, identity)
}

// ResolveUserPhrase parses a time phrase in the identity's timezone and
// resolves it to an absolute instant. Clock phrases pass through
// ResolveWall, so gap and fold times come back as errors instead of
// guesses.
func (s *Service) ResolveUserPhrase(ctx context.Context, identity domain.Identity, phrase string) (time.Time, error) {
	rec, ok, err := s.store.Get(ctx, identity)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, domain.ErrNoTimezone
	}
	loc, err := time.LoadLocation(rec.TZ)
	if err != nil {
		return time.Time{}, err
	}

	parsed, err := domain.ParseTimePhrase(phrase, loc, s.clk.Now())
	if err != nil {
		return time.Time{}, err
	}
	if parsed.Kind == domain.KindInstant {
		return parsed.Instant, nil
	}
	return domain.ResolveWall(loc, parsed.Wall)
}

// ConvertPhrase interprets phrase as spoken by fromIdentity and renders
// the result in toIdentity's zone. Clock phrases go through ConvertTime
// so DST edge cases surface; relative phrases are already absolute and
// only need re-rendering.
func (s *Service) ConvertPhrase(ctx context.Context, fromIdentity, toIdentity domain.Identity, phrase string) (time.Time, error) {
	from, ok, err := s.store.Get(ctx, fromIdentity)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, errors.WithMessagef(domain.ErrNoTimezone, "identity %s", fromIdentity)
	}
	loc, err := time.LoadLocation(from.TZ)
	if err != nil {
		return time.Time{}, err
	}

	parsed, err := domain.ParseTimePhrase(phrase, loc, s.clk.Now())
	if err != nil {
		return time.Time{}, err
	}
	if parsed.Kind == domain.KindInstant {
		return s.GetUserTime(ctx, toIdentity, parsed.Instant)
	}
	return s.ConvertTime(ctx, fromIdentity, toIdentity, parsed.Wall)
}

// ZoneTime is one line of a rendered conversion table.
type ZoneTime struct {
	Name  string
	TZ    string
	Local time.Time
}

// ConversionsAt renders the instant at across the chat's display list,
// falling back to the default world list when the chat has none.
func (s *Service) ConversionsAt(ctx context.Context, chatID string, at time.Time) ([]ZoneTime, error) {
	zones, err := s.store.ChatZones(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if len(zones) == 0 {
		zones = defaultZones
	}

	out := make([]ZoneTime, 0, len(zones))
	for _, z := range zones {
		loc, err := time.LoadLocation(z.TZ)
		if err != nil {
			// A zone that validated at write time but fails to load now
			// points at tzdata drift; skip the line rather than fail the
			// whole answer.
			s.log.Warn("stored zone failed to load", zap.String("tz", z.TZ), zap.Error(err))
			continue
		}
		out = append(out, ZoneTime{Name: z.Name, TZ: z.TZ, Local: at.In(loc)})
	}
	return out, nil
}

// AddChatZone validates rawTZ and adds it to the chat's display list
// under name. An empty name derives "Region - City" from the zone, as
// the original display list did.
func (s *Service) AddChatZone(ctx context.Context, chatID, name, rawTZ string) (string, error) {
	tz, err := s.cat.Normalize(rawTZ)
	if err != nil {
		return "", err
	}
	if name == "" {
		name = displayName(tz)
	}
	if err := s.store.PutChatZone(ctx, chatID, name, tz); err != nil {
		return "", err
	}
	s.log.Info("chat zone added",
		zap.String("chat", chatID),
		zap.String("name", name),
		zap.String("tz", tz),
	)
	return tz, nil
}

// RemoveChatZone drops a named zone from the chat's display list.
func (s *Service) RemoveChatZone(ctx context.Context, chatID, name string) (bool, error) {
	return s.store.RemoveChatZone(ctx, chatID, name)
}

// ClearChatZones drops the chat's display list entirely, reverting the
// chat to the default world list.
func (s *Service) ClearChatZones(ctx context.Context, chatID string) error {
	return s.store.ClearChatZones(ctx, chatID)
}

// ChatZones returns the chat's configured display list (may be empty).
func (s *Service) ChatZones(ctx context.Context, chatID string) ([]domain.NamedZone, error) {
	return s.store.ChatZones(ctx, chatID)
}

// ApplyPreset replaces the chat's display list with a named preset.
func (s *Service) ApplyPreset(ctx context.Context, chatID, preset string) ([]domain.NamedZone, error) {
	zones, ok := presets[preset]
	if !ok {
		return nil, errors.Errorf("unknown preset %q (have: %s)", preset, strings.Join(PresetKeys(), ", "))
	}
	if err := s.store.ClearChatZones(ctx, chatID); err != nil {
		return nil, err
	}
	for _, z := range zones {
		if err := s.store.PutChatZone(ctx, chatID, z.Name, z.TZ); err != nil {
			return nil, err
		}
	}
	s.log.Info("chat preset applied", zap.String("chat", chatID), zap.String("preset", preset))
	return zones, nil
}

// Suggestions exposes catalog candidates for transports that offer
// completion.
func (s *Service) Suggestions(prefix string, limit int) []string {
	return s.cat.Candidates(prefix, limit)
}

// Now returns the service clock's current instant.
func (s *Service) Now() time.Time { return s.clk.Now() }

// displayName turns "America/New_York" into "America - New York".
func displayName(tz string) string {
	i := strings.LastIndexByte(tz, '/')
	if i < 0 {
		return tz
	}
	region := tz[:strings.IndexByte(tz, '/')]
	city := strings.ReplaceAll(tz[i+1:], "_", " ")
	return region + " - " + city
}
