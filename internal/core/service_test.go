package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/micahreeves/what-time/internal/catalog"
	"github.com/micahreeves/what-time/internal/clock"
	"github.com/micahreeves/what-time/internal/domain"
	"github.com/micahreeves/what-time/internal/store"
)

var testNow = time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) *Service {
	t.Helper()
	st, err := store.OpenFile(t.TempDir(), clock.Fixed{T: testNow})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cat, err := catalog.New()
	require.NoError(t, err)

	return New(st, cat, clock.Fixed{T: testNow}, zap.NewNop())
}

func TestSetUserTimezone_NormalizesBeforeStoring(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	rec, err := svc.SetUserTimezone(ctx, "u1", "est")
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", rec.TZ)

	got, ok, err := svc.UserRecord(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "America/New_York", got.TZ)
}

func TestSetUserTimezone_InvalidLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.SetUserTimezone(ctx, "u1", "Nonexistent/Place")
	var invalid *domain.InvalidTimezoneError
	require.ErrorAs(t, err, &invalid)

	_, ok, err := svc.UserRecord(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	// An invalid update must not clobber an existing record either.
	_, err = svc.SetUserTimezone(ctx, "u1", "Europe/Berlin")
	require.NoError(t, err)
	_, err = svc.SetUserTimezone(ctx, "u1", "Nonexistent/Place")
	require.Error(t, err)

	got, ok, err := svc.UserRecord(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Europe/Berlin", got.TZ)
}

func TestGetUserTime(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.SetUserTimezone(ctx, "u1", "America/New_York")
	require.NoError(t, err)

	local, err := svc.GetUserTime(ctx, "u1", testNow)
	require.NoError(t, err)
	assert.Equal(t, "08:00:00", local.Format("15:04:05"))

	_, err = svc.GetUserTime(ctx, "stranger", testNow)
	assert.ErrorIs(t, err, domain.ErrNoTimezone)
}

func TestConvertTime(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.SetUserTimezone(ctx, "berlin", "Europe/Berlin")
	require.NoError(t, err)
	_, err = svc.SetUserTimezone(ctx, "tokyo", "Asia/Tokyo")
	require.NoError(t, err)

	w := domain.Wall{Year: 2024, Month: time.July, Day: 10, Hour: 12}
	got, err := svc.ConvertTime(ctx, "berlin", "tokyo", w)
	require.NoError(t, err)
	assert.Equal(t, "19:00", got.Format("15:04"))

	_, err = svc.ConvertTime(ctx, "berlin", "stranger", w)
	assert.ErrorIs(t, err, domain.ErrNoTimezone)
}

func TestConvertPhrase(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.SetUserTimezone(ctx, "them", "Europe/Berlin")
	require.NoError(t, err)
	_, err = svc.SetUserTimezone(ctx, "me", "Asia/Tokyo")
	require.NoError(t, err)

	// 3pm CEST on 2024-07-01 is 13:00 UTC, i.e. 22:00 in Tokyo.
	got, err := svc.ConvertPhrase(ctx, "them", "me", "3pm")
	require.NoError(t, err)
	assert.Equal(t, "22:00", got.Format("15:04"))

	// Relative phrases are absolute already; only re-rendered.
	got, err = svc.ConvertPhrase(ctx, "them", "me", "now")
	require.NoError(t, err)
	assert.Equal(t, "21:00", got.Format("15:04"))

	_, err = svc.ConvertPhrase(ctx, "stranger", "me", "3pm")
	assert.ErrorIs(t, err, domain.ErrNoTimezone)
}

func TestClearUserTimezone(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.SetUserTimezone(ctx, "u1", "UTC")
	require.NoError(t, err)

	existed, err := svc.ClearUserTimezone(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = svc.ClearUserTimezone(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestResolveUserPhrase(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.SetUserTimezone(ctx, "u1", "America/Chicago")
	require.NoError(t, err)

	got, err := svc.ResolveUserPhrase(ctx, "u1", "now")
	require.NoError(t, err)
	assert.True(t, got.Equal(testNow))

	got, err = svc.ResolveUserPhrase(ctx, "u1", "in 2 hours")
	require.NoError(t, err)
	assert.True(t, got.Equal(testNow.Add(2*time.Hour)))

	// 3pm CDT on the same day is 20:00 UTC.
	got, err = svc.ResolveUserPhrase(ctx, "u1", "3pm")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, time.July, 1, 20, 0, 0, 0, time.UTC)))

	_, err = svc.ResolveUserPhrase(ctx, "u1", "soonish")
	assert.ErrorIs(t, err, domain.ErrBadTimePhrase)

	_, err = svc.ResolveUserPhrase(ctx, "stranger", "now")
	assert.ErrorIs(t, err, domain.ErrNoTimezone)
}

func TestResolveUserPhrase_SurfacesDSTGap(t *testing.T) {
	ctx := context.Background()

	st, err := store.OpenFile(t.TempDir(), clock.Fixed{T: testNow})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	cat, err := catalog.New()
	require.NoError(t, err)

	// 01:00 local on 2024-03-10 in New York; "2:30" that morning falls
	// into the spring-forward gap.
	gapMorning := time.Date(2024, time.March, 10, 6, 0, 0, 0, time.UTC)
	svc := New(st, cat, clock.Fixed{T: gapMorning}, zap.NewNop())

	_, err = svc.SetUserTimezone(ctx, "u1", "America/New_York")
	require.NoError(t, err)

	_, err = svc.ResolveUserPhrase(ctx, "u1", "2:30")
	var gap *domain.NonexistentLocalTimeError
	assert.ErrorAs(t, err, &gap)
}

func TestChatZonesAndPresets(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	// No list configured: conversions fall back to the default world list.
	rows, err := svc.ConversionsAt(ctx, "c1", testNow)
	require.NoError(t, err)
	assert.Len(t, rows, len(defaultZones))

	tz, err := svc.AddChatZone(ctx, "c1", "", "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", tz)

	zones, err := svc.ChatZones(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "America - New York", zones[0].Name)

	rows, err = svc.ConversionsAt(ctx, "c1", testNow)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "08:00", rows[0].Local.Format("15:04"))

	zones, err = svc.ApplyPreset(ctx, "c1", "nordic")
	require.NoError(t, err)
	assert.Len(t, zones, 5)

	got, err := svc.ChatZones(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, got, 5)

	_, err = svc.ApplyPreset(ctx, "c1", "atlantis")
	assert.Error(t, err)

	require.NoError(t, svc.ClearChatZones(ctx, "c1"))
	got, err = svc.ChatZones(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSuggestions(t *testing.T) {
	svc := newService(t)

	got := svc.Suggestions("Europe/Hel", 3)
	assert.Contains(t, got, "Europe/Helsinki")
	assert.Empty(t, svc.Suggestions("zzzz", 3))
}

func TestAddChatZone_InvalidZoneRejected(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.AddChatZone(ctx, "c1", "HQ", "Nonexistent/Place")
	var invalid *domain.InvalidTimezoneError
	require.ErrorAs(t, err, &invalid)

	zones, err := svc.ChatZones(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, zones)
}
