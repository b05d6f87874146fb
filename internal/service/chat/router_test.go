package chat

import "testing"

func TestRouterClassify(t *testing.T) {
	router, err := NewRouter()
	if err != nil {
		t.Fatalf("new router: %v", err)
	}

	cases := []struct {
		query string
		want  Route
	}{
		{"how many customers do I have", RouteDeterministic},
		{"total customers please", RouteDeterministic},
		{"show me statistics", RouteDeterministic},
		{"what's my success rate", RouteDeterministic},
		{"who is my top referrer", RouteDeterministic},
		{"find customer named Alice", RouteDeterministic},
		{"search customer John", RouteDeterministic},
		{"what tea do you recommend", RouteConversational},
		{"how long should I steep oolong", RouteConversational},
		{"any business advice for retention", RouteConversational},
		{"hello there", RouteConversational},
		{"thank you", RouteConversational},
		{"tell me about Alice", RouteConversational},
		{"", RouteConversational},
	}
	for _, tc := range cases {
		if got := router.Classify(tc.query); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.query, got, tc.want)
		}
	}
}

func TestRouterOrderIsGreedy(t *testing.T) {
	router, err := NewRouter()
	if err != nil {
		t.Fatalf("new router: %v", err)
	}

	// Mentions tea, but the stats phrasing is checked first and wins.
	if got := router.Classify("show me a summary of my tea customers"); got != RouteDeterministic {
		t.Fatalf("stats phrasing should win over tea topics, got %q", got)
	}
}

func TestExtractNames(t *testing.T) {
	names := ExtractNames("tell me about Alice and her referrals?")
	want := map[string]bool{"Alice": true, "referrals": true}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected name %q", n)
		}
	}

	if names := ExtractNames("who is my customer"); len(names) != 0 {
		t.Errorf("stop words leaked through: %v", names)
	}
}
