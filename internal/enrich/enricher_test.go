package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ecsdash/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// stubResolver answers both facets from static maps and counts every call
type stubResolver struct {
	regions     map[string]string
	regionErrs  map[string]error
	versions    map[string]storage.VersioningState
	versionErrs map[string]error
	delay       func(bucket string) time.Duration

	regionCalls     atomic.Int32
	versioningCalls atomic.Int32
}

func (s *stubResolver) BucketRegion(ctx context.Context, bucket string) (string, error) {
	s.regionCalls.Add(1)
	s.wait(bucket)
	if err, ok := s.regionErrs[bucket]; ok {
		return "", err
	}
	if r, ok := s.regions[bucket]; ok {
		return r, nil
	}
	return "us-east-1", nil
}

func (s *stubResolver) BucketVersioning(ctx context.Context, bucket string) (storage.VersioningState, error) {
	s.versioningCalls.Add(1)
	s.wait(bucket)
	if err, ok := s.versionErrs[bucket]; ok {
		return "", err
	}
	if v, ok := s.versions[bucket]; ok {
		return v, nil
	}
	return storage.VersioningDisabled, nil
}

func (s *stubResolver) wait(bucket string) {
	if s.delay != nil {
		time.Sleep(s.delay(bucket))
	}
}

func (s *stubResolver) calls() int {
	return int(s.regionCalls.Load() + s.versioningCalls.Load())
}

func newTestEnricher(r *stubResolver) *Enricher {
	return NewEnricher(r, r, nil, WithClock(func() time.Time { return fixedNow }))
}

func summaries(n int) []storage.BucketSummary {
	out := make([]storage.BucketSummary, n)
	for i := range out {
		out[i] = storage.BucketSummary{
			Name:      fmt.Sprintf("bucket-%02d", i),
			CreatedAt: fixedNow.Add(-time.Duration(i) * 24 * time.Hour),
		}
	}
	return out
}

func TestEnrich_TwoBucketScenario(t *testing.T) {
	t0 := fixedNow.Add(-30 * 24 * time.Hour)
	r := &stubResolver{
		regions:     map[string]string{"a": "us-west-2"},
		regionErrs:  map[string]error{"b": fmt.Errorf("%w: GetBucketLocation", storage.ErrAccessDenied)},
		versions:    map[string]storage.VersioningState{"a": storage.VersioningEnabled, "b": storage.VersioningDisabled},
		versionErrs: map[string]error{},
	}

	details, err := newTestEnricher(r).Enrich(context.Background(), []storage.BucketSummary{
		{Name: "a", CreatedAt: t0},
		{Name: "b", CreatedAt: t0},
	}, DefaultCap)
	require.NoError(t, err)

	assert.Equal(t, []storage.BucketDetail{
		{Name: "a", CreatedAt: t0, Region: "us-west-2", Versioning: storage.VersioningEnabled, AgeInDays: 30},
		{Name: "b", CreatedAt: t0, Region: storage.RegionUnavailable, Versioning: storage.VersioningDisabled, AgeInDays: 30},
	}, details)
}

func TestEnrich_CardinalityAndOrder(t *testing.T) {
	for k := 0; k <= DefaultCap; k++ {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			in := summaries(k)
			details, err := newTestEnricher(&stubResolver{}).Enrich(context.Background(), in, DefaultCap)
			require.NoError(t, err)
			require.Len(t, details, k)
			for i := range in {
				assert.Equal(t, in[i].Name, details[i].Name)
			}
		})
	}
}

func TestEnrich_OrderIndependentOfCompletion(t *testing.T) {
	in := summaries(8)
	// Earlier buckets answer last
	r := &stubResolver{
		delay: func(bucket string) time.Duration {
			var idx int
			fmt.Sscanf(bucket, "bucket-%d", &idx)
			return time.Duration(8-idx) * 5 * time.Millisecond
		},
	}

	details, err := newTestEnricher(r).Enrich(context.Background(), in, DefaultCap)
	require.NoError(t, err)
	require.Len(t, details, len(in))
	for i := range in {
		assert.Equal(t, in[i].Name, details[i].Name)
	}
}

func TestEnrich_PartialFailureIsolation(t *testing.T) {
	boom := errors.New("connection reset by peer")

	t.Run("region fails, versioning succeeds", func(t *testing.T) {
		r := &stubResolver{
			regionErrs: map[string]error{"logs": boom},
			versions:   map[string]storage.VersioningState{"logs": storage.VersioningSuspended},
		}
		details, err := newTestEnricher(r).Enrich(context.Background(), []storage.BucketSummary{{Name: "logs", CreatedAt: fixedNow}}, 1)
		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.Equal(t, storage.RegionUnavailable, details[0].Region)
		assert.Equal(t, storage.VersioningSuspended, details[0].Versioning)
	})

	t.Run("versioning fails, region succeeds", func(t *testing.T) {
		r := &stubResolver{
			regions:     map[string]string{"logs": "eu-central-1"},
			versionErrs: map[string]error{"logs": boom},
		}
		details, err := newTestEnricher(r).Enrich(context.Background(), []storage.BucketSummary{{Name: "logs", CreatedAt: fixedNow}}, 1)
		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.Equal(t, "eu-central-1", details[0].Region)
		assert.Equal(t, storage.VersioningUnknown, details[0].Versioning)
	})

	t.Run("both fail", func(t *testing.T) {
		r := &stubResolver{
			regionErrs:  map[string]error{"logs": boom},
			versionErrs: map[string]error{"logs": fmt.Errorf("%w: GetBucketVersioning", storage.ErrAccessDenied)},
		}
		details, err := newTestEnricher(r).Enrich(context.Background(), []storage.BucketSummary{{Name: "logs", CreatedAt: fixedNow}}, 1)
		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.Equal(t, storage.RegionUnavailable, details[0].Region)
		assert.Equal(t, storage.VersioningUnknown, details[0].Versioning)
	})
}

func TestEnrich_Idempotent(t *testing.T) {
	r := &stubResolver{
		regions:    map[string]string{"bucket-01": "ap-south-1"},
		regionErrs: map[string]error{"bucket-03": errors.New("throttled")},
		versions:   map[string]storage.VersioningState{"bucket-02": storage.VersioningEnabled},
	}
	e := newTestEnricher(r)
	in := summaries(5)

	first, err := e.Enrich(context.Background(), in, DefaultCap)
	require.NoError(t, err)
	second, err := e.Enrich(context.Background(), in, DefaultCap)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEnrich_AgeInDays(t *testing.T) {
	tests := []struct {
		name    string
		created time.Time
		want    int
	}{
		{"exactly ten days", fixedNow.Add(-10 * 24 * time.Hour), 10},
		{"ten days and change", fixedNow.Add(-10*24*time.Hour - 23*time.Hour), 10},
		{"just under a day", fixedNow.Add(-23*time.Hour - 59*time.Minute), 0},
		{"created now", fixedNow, 0},
		{"clock skew into the future", fixedNow.Add(2 * time.Hour), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details, err := newTestEnricher(&stubResolver{}).Enrich(context.Background(), []storage.BucketSummary{{Name: "x", CreatedAt: tt.created}}, 1)
			require.NoError(t, err)
			require.Len(t, details, 1)
			assert.Equal(t, tt.want, details[0].AgeInDays)
		})
	}
}

func TestEnrich_EmptyInputMakesNoCalls(t *testing.T) {
	r := &stubResolver{}
	e := newTestEnricher(r)

	details, err := e.Enrich(context.Background(), nil, DefaultCap)
	require.NoError(t, err)
	assert.NotNil(t, details)
	assert.Empty(t, details)

	details, err = e.Enrich(context.Background(), []storage.BucketSummary{}, DefaultCap)
	require.NoError(t, err)
	assert.Empty(t, details)

	assert.Zero(t, r.calls())
}

func TestEnrich_CapEnforcement(t *testing.T) {
	r := &stubResolver{}
	in := summaries(15)

	details, err := newTestEnricher(r).Enrich(context.Background(), in, 10)
	require.NoError(t, err)
	require.Len(t, details, 10)
	for i := 0; i < 10; i++ {
		assert.Equal(t, in[i].Name, details[i].Name)
	}
	assert.Equal(t, 20, r.calls())
	assert.EqualValues(t, 10, r.regionCalls.Load())
	assert.EqualValues(t, 10, r.versioningCalls.Load())
}

func TestEnrich_ZeroCap(t *testing.T) {
	r := &stubResolver{}
	details, err := newTestEnricher(r).Enrich(context.Background(), summaries(3), 0)
	require.NoError(t, err)
	assert.Empty(t, details)
	assert.Zero(t, r.calls())
}

func TestEnrich_ContractErrors(t *testing.T) {
	_, err := newTestEnricher(&stubResolver{}).Enrich(context.Background(), summaries(1), -1)
	assert.ErrorIs(t, err, ErrInvalidCap)

	_, err = NewEnricher(nil, &stubResolver{}, nil).Enrich(context.Background(), summaries(1), 1)
	assert.ErrorIs(t, err, ErrNoResolvers)
}

// barrierResolver only answers once every expected lookup is in flight,
// so a sequential implementation would run into the deadline
type barrierResolver struct {
	arrived sync.WaitGroup
	release chan struct{}
	once    sync.Once
}

func newBarrierResolver(lookups int) *barrierResolver {
	b := &barrierResolver{release: make(chan struct{})}
	b.arrived.Add(lookups)
	go func() {
		b.arrived.Wait()
		b.once.Do(func() { close(b.release) })
	}()
	return b
}

func (b *barrierResolver) await(ctx context.Context) error {
	b.arrived.Done()
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *barrierResolver) BucketRegion(ctx context.Context, bucket string) (string, error) {
	if err := b.await(ctx); err != nil {
		return "", err
	}
	return "us-east-2", nil
}

func (b *barrierResolver) BucketVersioning(ctx context.Context, bucket string) (storage.VersioningState, error) {
	if err := b.await(ctx); err != nil {
		return "", err
	}
	return storage.VersioningEnabled, nil
}

func TestEnrich_LookupsRunConcurrently(t *testing.T) {
	const n = 6
	b := newBarrierResolver(2 * n)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	details, err := NewEnricher(b, b, nil).Enrich(ctx, summaries(n), n)
	require.NoError(t, err)
	require.Len(t, details, n)
	for _, d := range details {
		assert.Equal(t, "us-east-2", d.Region)
		assert.Equal(t, storage.VersioningEnabled, d.Versioning)
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, classAccessDenied, classify(fmt.Errorf("wrapped: %w", storage.ErrAccessDenied)))
	assert.Equal(t, classTransient, classify(errors.New("timeout")))
}

func TestEnrich_FailuresLoggedAtWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	r := &stubResolver{
		regionErrs:  map[string]error{"bucket-00": fmt.Errorf("GetBucketLocation: %w", storage.ErrAccessDenied)},
		versionErrs: map[string]error{"bucket-00": errors.New("connection reset by peer")},
	}
	e := NewEnricher(r, r, logger, WithClock(func() time.Time { return fixedNow }))

	_, err := e.Enrich(context.Background(), summaries(1), DefaultCap)
	require.NoError(t, err)

	classes := map[string]string{}
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var rec map[string]interface{}
		require.NoError(t, json.Unmarshal(line, &rec))
		assert.Equal(t, "WARN", rec["level"])
		assert.Equal(t, "bucket-00", rec["bucket"])
		classes[rec["facet"].(string)] = rec["class"].(string)
	}
	assert.Equal(t, map[string]string{
		"region":     "access_denied",
		"versioning": "transient",
	}, classes)
}
