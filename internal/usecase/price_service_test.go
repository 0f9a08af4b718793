package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ratelshop/backend/internal/domain"
	"github.com/ratelshop/backend/internal/infrastructure/cache"
)

// fakeSearchClient implements domain.SearchClient for tests
type fakeSearchClient struct {
	items      []domain.SearchItem
	err        error
	configured bool
	calls      int
	lastQuery  string
}

func (f *fakeSearchClient) Search(ctx context.Context, query string, limit int) ([]domain.SearchItem, error) {
	f.calls++
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeSearchClient) Configured() bool {
	return f.configured
}

func newTestService(search domain.SearchClient, cacheRepo domain.CacheRepository) *PriceService {
	return NewPriceService(search, cacheRepo, PriceServiceConfig{CacheTTL: time.Minute}, zerolog.Nop())
}

func TestAnalyze_InvalidRequest(t *testing.T) {
	svc := newTestService(&fakeSearchClient{configured: true}, nil)
	ctx := context.Background()

	t.Run("nil request", func(t *testing.T) {
		_, err := svc.Analyze(ctx, nil)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("blank product name", func(t *testing.T) {
		_, err := svc.Analyze(ctx, &domain.AnalyzeRequest{ProductName: "   "})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})
}

func TestAnalyze_LiveData(t *testing.T) {
	search := &fakeSearchClient{
		configured: true,
		items: []domain.SearchItem{
			{Title: "Store A", Snippet: "iPhone 12 at ₦300,000", DisplayLink: "a.example.ng", Link: "https://a.example.ng/p1"},
			{Title: "Store B", Snippet: "best price ₦350,000", DisplayLink: "b.example.ng", Link: "https://b.example.ng/p2"},
			{Title: "Store C", Snippet: "now ₦400,000 only", DisplayLink: "c.example.ng", Link: "https://c.example.ng/p3"},
		},
	}
	svc := newTestService(search, nil)

	analysis, err := svc.Analyze(context.Background(), &domain.AnalyzeRequest{ProductName: "iPhone 12"})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if analysis.Simulated {
		t.Error("Simulated = true, want false")
	}
	if analysis.Source != domain.AnalysisSourceSearch {
		t.Errorf("Source = %q, want %q", analysis.Source, domain.AnalysisSourceSearch)
	}
	if analysis.MarketAverage != 350000 {
		t.Errorf("MarketAverage = %v, want 350000", analysis.MarketAverage)
	}
	if analysis.MarketLow != 300000 {
		t.Errorf("MarketLow = %v, want 300000", analysis.MarketLow)
	}
	// 5% below average, floored
	if analysis.RecommendedPrice != 332500 {
		t.Errorf("RecommendedPrice = %v, want 332500", analysis.RecommendedPrice)
	}
	if len(analysis.Sources) != 3 {
		t.Errorf("len(Sources) = %d, want 3", len(analysis.Sources))
	}
	if analysis.Sources[0].Source != "a.example.ng" {
		t.Errorf("Sources[0].Source = %q, want discovery order preserved", analysis.Sources[0].Source)
	}
	if !strings.Contains(search.lastQuery, "price in Nigeria") {
		t.Errorf("query = %q, want region suffix", search.lastQuery)
	}
}

func TestAnalyze_CapsSourcesAtFour(t *testing.T) {
	var items []domain.SearchItem
	for i := 0; i < 6; i++ {
		items = append(items, domain.SearchItem{
			Title:       "Store",
			Snippet:     "price ₦200,000",
			DisplayLink: "store.example.ng",
		})
	}
	svc := newTestService(&fakeSearchClient{configured: true, items: items}, nil)

	analysis, err := svc.Analyze(context.Background(), &domain.AnalyzeRequest{ProductName: "generic product x"})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(analysis.Sources) > 4 {
		t.Errorf("len(Sources) = %d, want <= 4", len(analysis.Sources))
	}
	// But the average still reflects every surviving sample.
	if analysis.MarketAverage != 200000 {
		t.Errorf("MarketAverage = %v, want 200000", analysis.MarketAverage)
	}
}

func TestAnalyze_PlausibilityFilter(t *testing.T) {
	search := &fakeSearchClient{
		configured: true,
		items: []domain.SearchItem{
			{Title: "ok", Snippet: "₦50,000 and ₦70,000", DisplayLink: "ok.example.ng"},
			{Title: "junk low", Snippet: "₦50 airtime", DisplayLink: "low.example.ng"},
			{Title: "junk high", Snippet: "₦99,000,000,000 turnover", DisplayLink: "high.example.ng"},
		},
	}
	svc := newTestService(search, nil)

	analysis, err := svc.Analyze(context.Background(), &domain.AnalyzeRequest{ProductName: "blender"})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if analysis.Simulated {
		t.Fatal("Simulated = true, want live data from the two plausible amounts")
	}
	if analysis.MarketAverage != 60000 {
		t.Errorf("MarketAverage = %v, want 60000 (implausible amounts excluded)", analysis.MarketAverage)
	}
	if len(analysis.Sources) != 2 {
		t.Errorf("len(Sources) = %d, want 2", len(analysis.Sources))
	}
}

func TestAnalyze_FallsBackToSimulation(t *testing.T) {
	ctx := context.Background()

	t.Run("provider not configured", func(t *testing.T) {
		svc := newTestService(&fakeSearchClient{configured: false}, nil)

		analysis, err := svc.Analyze(ctx, &domain.AnalyzeRequest{ProductName: "generic product x"})
		if err != nil {
			t.Fatalf("Analyze() error = %v, want nil (must always resolve)", err)
		}
		if !analysis.Simulated {
			t.Error("Simulated = false, want true")
		}
		if analysis.FallbackReason != domain.FallbackNotConfigured {
			t.Errorf("FallbackReason = %q, want %q", analysis.FallbackReason, domain.FallbackNotConfigured)
		}
	})

	t.Run("provider error", func(t *testing.T) {
		svc := newTestService(&fakeSearchClient{configured: true, err: domain.ErrSearchUnavailable}, nil)

		analysis, err := svc.Analyze(ctx, &domain.AnalyzeRequest{ProductName: "generic product x"})
		if err != nil {
			t.Fatalf("Analyze() error = %v, want nil (must always resolve)", err)
		}
		if !analysis.Simulated {
			t.Error("Simulated = false, want true")
		}
		if analysis.FallbackReason != domain.FallbackProviderError {
			t.Errorf("FallbackReason = %q, want %q", analysis.FallbackReason, domain.FallbackProviderError)
		}
	})

	t.Run("no plausible prices in results", func(t *testing.T) {
		search := &fakeSearchClient{
			configured: true,
			items: []domain.SearchItem{
				{Title: "no prices here", Snippet: "model 2024 with 128 GB"},
			},
		}
		svc := newTestService(search, nil)

		analysis, err := svc.Analyze(ctx, &domain.AnalyzeRequest{ProductName: "generic product x"})
		if err != nil {
			t.Fatalf("Analyze() error = %v, want nil (must always resolve)", err)
		}
		if !analysis.Simulated {
			t.Error("Simulated = false, want true")
		}
		if analysis.FallbackReason != domain.FallbackNoPlausiblePrices {
			t.Errorf("FallbackReason = %q, want %q", analysis.FallbackReason, domain.FallbackNoPlausiblePrices)
		}
	})
}

func TestAnalyze_SimulationShape(t *testing.T) {
	svc := newTestService(&fakeSearchClient{configured: false}, nil)

	analysis, err := svc.Analyze(context.Background(), &domain.AnalyzeRequest{ProductName: "generic product x"})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if analysis.MarketAverage < 30000 || analysis.MarketAverage > 450000 {
		t.Errorf("MarketAverage = %v, want inside simulation bounds", analysis.MarketAverage)
	}
	if len(analysis.Sources) == 0 || len(analysis.Sources) > 4 {
		t.Errorf("len(Sources) = %d, want 1..4", len(analysis.Sources))
	}
	if analysis.MarketLow <= 0 || analysis.MarketLow > analysis.MarketAverage*1.10 {
		t.Errorf("MarketLow = %v, want positive and near the average", analysis.MarketLow)
	}
	if analysis.RecommendedPrice <= 0 {
		t.Errorf("RecommendedPrice = %v, want positive", analysis.RecommendedPrice)
	}
	if analysis.Source != domain.AnalysisSourceSimulation {
		t.Errorf("Source = %q, want %q", analysis.Source, domain.AnalysisSourceSimulation)
	}
	// The -2% synthetic source makes the low sit below the average.
	if analysis.MarketLow >= analysis.MarketAverage {
		t.Errorf("MarketLow = %v, want below average %v", analysis.MarketLow, analysis.MarketAverage)
	}
}

func TestAnalyze_CachesLiveResults(t *testing.T) {
	search := &fakeSearchClient{
		configured: true,
		items: []domain.SearchItem{
			{Title: "Store A", Snippet: "₦120,000", DisplayLink: "a.example.ng", Link: "https://a.example.ng"},
		},
	}
	svc := newTestService(search, cache.NewMemoryCache())
	ctx := context.Background()

	first, err := svc.Analyze(ctx, &domain.AnalyzeRequest{ProductName: "standing fan"})
	if err != nil {
		t.Fatalf("first Analyze() error = %v", err)
	}
	if first.Source != domain.AnalysisSourceSearch {
		t.Fatalf("first Source = %q, want %q", first.Source, domain.AnalysisSourceSearch)
	}

	second, err := svc.Analyze(ctx, &domain.AnalyzeRequest{ProductName: "Standing Fan!"})
	if err != nil {
		t.Fatalf("second Analyze() error = %v", err)
	}

	if search.calls != 1 {
		t.Errorf("provider calls = %d, want 1 (second lookup served from cache)", search.calls)
	}
	if second.Source != domain.AnalysisSourceCache {
		t.Errorf("second Source = %q, want %q", second.Source, domain.AnalysisSourceCache)
	}
	if second.MarketAverage != first.MarketAverage {
		t.Errorf("cached MarketAverage = %v, want %v", second.MarketAverage, first.MarketAverage)
	}
	if len(second.Sources) != len(first.Sources) {
		t.Errorf("cached len(Sources) = %d, want %d", len(second.Sources), len(first.Sources))
	}
	if second.CachedAt.IsZero() {
		t.Error("cached CachedAt is zero, want the stored timestamp restored")
	}
}

func TestAnalyze_DoesNotCacheSimulations(t *testing.T) {
	search := &fakeSearchClient{configured: true, err: domain.ErrSearchUnavailable}
	svc := newTestService(search, cache.NewMemoryCache())
	ctx := context.Background()

	if _, err := svc.Analyze(ctx, &domain.AnalyzeRequest{ProductName: "tv"}); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if _, err := svc.Analyze(ctx, &domain.AnalyzeRequest{ProductName: "tv"}); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if search.calls != 2 {
		t.Errorf("provider calls = %d, want 2 (simulations are not cached)", search.calls)
	}
}

// Simulation mode is the default path without provider credentials, and the
// router serves requests on separate goroutines. Run under -race.
func TestAnalyze_ConcurrentSimulations(t *testing.T) {
	svc := newTestService(&fakeSearchClient{configured: false}, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				analysis, err := svc.Analyze(ctx, &domain.AnalyzeRequest{ProductName: "generic product x"})
				if err != nil {
					t.Errorf("Analyze() error = %v", err)
					return
				}
				if !analysis.Simulated {
					t.Error("Simulated = false, want true")
					return
				}
			}
		}()
	}
	wg.Wait()
}
