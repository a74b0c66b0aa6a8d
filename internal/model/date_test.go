package model

import "testing"

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "iso", input: "2024-03-15", want: "2024-03-15", wantOK: true},
		{name: "slashes", input: "2024/03/15", want: "2024-03-15", wantOK: true},
		{name: "dots", input: "2024.03.15", want: "2024-03-15", wantOK: true},
		{name: "us short year", input: "03/15/24", want: "2024-03-15", wantOK: true},
		{name: "us long year", input: "03/15/2024", want: "2024-03-15", wantOK: true},
		{name: "month name", input: "Mar 15, 2024", want: "2024-03-15", wantOK: true},
		{name: "full month name", input: "March 15, 2024", want: "2024-03-15", wantOK: true},
		{name: "day first", input: "15 Mar 2024", want: "2024-03-15", wantOK: true},
		{name: "timestamp", input: "2024-03-15T10:30:00", want: "2024-03-15", wantOK: true},
		{name: "padded whitespace", input: "  2024-03-15  ", want: "2024-03-15", wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "garbage", input: "not a date", wantOK: false},
		{name: "total instead of date", input: "$42.19", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeDate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("NormalizeDate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
