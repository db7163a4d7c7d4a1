package model

import (
	"errors"
	"testing"
)

func TestRunReport_FailedUnits(t *testing.T) {
	report := &RunReport{
		Units: []UnitOutcome{
			{Symbol: "AAPL", Source: "Reuters", Kind: KindNewsArticle, Fetched: 3},
			{Symbol: "MSFT", Source: "Reuters", Kind: KindNewsArticle, Err: errors.New("timeout")},
			{Symbol: "AAPL", Kind: KindSocialPost, Fetched: 5, Dropped: 2},
		},
	}

	failed := report.FailedUnits()
	if len(failed) != 1 {
		t.Fatalf("FailedUnits() = %d, want 1", len(failed))
	}
	if failed[0].Symbol != "MSFT" {
		t.Errorf("failed symbol = %q, want MSFT", failed[0].Symbol)
	}
	if !failed[0].Skipped() {
		t.Error("Skipped() = false for unit with error")
	}

	if got := report.TotalFetched(); got != 8 {
		t.Errorf("TotalFetched() = %d, want 8", got)
	}
	if got := report.TotalDropped(); got != 2 {
		t.Errorf("TotalDropped() = %d, want 2", got)
	}
}

func TestKind_String(t *testing.T) {
	cases := []struct {
		kind Kind
		want string
	}{
		{KindMarketBar, "market_bar"},
		{KindNewsArticle, "news_article"},
		{KindSocialPost, "social_post"},
		{Kind(99), "unknown"},
	}
	for _, tc := range cases {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tc.kind, got, tc.want)
		}
	}
}
