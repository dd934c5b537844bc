package company

import "testing"

func TestParseRate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2.7", "0.027"},
		{"2.7%", "0.027"},
		{" 2.7 % ", "0.027"},
		{"0.027", "0.027"},
		{"0.5%", "0.005"},
		{"1", "1"},
		{"100", "1"},
		{"0", "0"},
	}
	for _, tc := range cases {
		got, err := ParseRate(tc.in)
		if err != nil {
			t.Fatalf("ParseRate(%q) failed: %v", tc.in, err)
		}
		if got.String() != tc.want {
			t.Fatalf("ParseRate(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseRateRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "abc", "-1", "-0.5%"} {
		if _, err := ParseRate(in); err == nil {
			t.Fatalf("ParseRate(%q) should fail", in)
		}
	}
}

func TestFormatRatePercent(t *testing.T) {
	rate, err := ParseRate("2.7%")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := FormatRatePercent(rate); got != "2.7%" {
		t.Fatalf("FormatRatePercent = %q, want %q", got, "2.7%")
	}
}
