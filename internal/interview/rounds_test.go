package interview

import "testing"

func TestParseCompanyType(t *testing.T) {
	cases := []struct {
		give    string
		want    CompanyType
		wantErr bool
	}{
		{give: "product", want: CompanyProduct},
		{give: "service", want: CompanyService},
		{give: "startup", want: CompanyStartup},
		{give: "Product", wantErr: true},
		{give: "faang", wantErr: true},
		{give: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.give, func(t *testing.T) {
			got, err := ParseCompanyType(tc.give)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected an error for %q", tc.give)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestRoundMetadata(t *testing.T) {
	cases := []struct {
		round  Round
		number int
		label  string
	}{
		{RoundCoding, 1, "Online Coding Test"},
		{RoundTechnical, 2, "Technical Interviews"},
		{RoundSystemDesign, 3, "System Design Round"},
		{RoundHR, 4, "HR Round"},
	}

	for _, tc := range cases {
		if got := tc.round.Number(); got != tc.number {
			t.Fatalf("round %d: expected number %d, got %d", tc.round, tc.number, got)
		}
		if got := tc.round.Label(); got != tc.label {
			t.Fatalf("round %d: expected label %q, got %q", tc.round, tc.label, got)
		}
		if tc.round.Tip() == "" {
			t.Fatalf("round %d: expected a tip", tc.round)
		}
	}

	if got := Round(TotalRounds).Label(); got != "" {
		t.Fatalf("expected an empty label out of range, got %q", got)
	}
}

func TestCompanyTypeLabel(t *testing.T) {
	cases := map[CompanyType]string{
		CompanyProduct: "Product-Based",
		CompanyService: "Service-Based",
		CompanyStartup: "Startup",
	}

	for ct, want := range cases {
		if got := ct.Label(); got != want {
			t.Fatalf("%s: expected label %q, got %q", ct, want, got)
		}
	}
}
