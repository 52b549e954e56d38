package academic

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCurrentSemester(t *testing.T) {
	tests := []struct {
		name      string
		batchName string
		now       time.Time
		want      int
	}{
		{
			name:      "first half of calendar year gives even semester",
			batchName: "2023-2027",
			now:       date(2025, time.March, 15),
			want:      4,
		},
		{
			name:      "second half of calendar year gives odd semester",
			batchName: "2023-2027",
			now:       date(2025, time.September, 10),
			want:      5,
		},
		{
			name:      "first semester right after admission",
			batchName: "2025-2029",
			now:       date(2025, time.August, 1),
			want:      1,
		},
		{
			name:      "june boundary still counts as even half",
			batchName: "2023-2027",
			now:       date(2025, time.June, 30),
			want:      4,
		},
		{
			name:      "july boundary starts the odd half",
			batchName: "2023-2027",
			now:       date(2025, time.July, 1),
			want:      5,
		},
		{
			name:      "section suffix is ignored",
			batchName: "2023-2027 B",
			now:       date(2025, time.March, 15),
			want:      4,
		},
		{
			name:      "clamped to 8 after the programme ends",
			batchName: "2015-2019",
			now:       date(2025, time.September, 1),
			want:      8,
		},
		{
			name:      "clamped to 1 before the programme starts",
			batchName: "2030-2034",
			now:       date(2025, time.March, 1),
			want:      1,
		},
		{
			name:      "missing dash falls back to 1",
			batchName: "abc",
			now:       date(2025, time.March, 1),
			want:      1,
		},
		{
			name:      "non-numeric year falls back to 1",
			batchName: "20xx-2027",
			now:       date(2025, time.March, 1),
			want:      1,
		},
		{
			name:      "empty name falls back to 1",
			batchName: "",
			now:       date(2025, time.March, 1),
			want:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentSemester(tt.batchName, tt.now); got != tt.want {
				t.Errorf("CurrentSemester(%q) = %d, want %d", tt.batchName, got, tt.want)
			}
		})
	}
}

func TestCurrentSemesterAlwaysInRange(t *testing.T) {
	names := []string{"2023-2027", "1990-1994", "2099-2103", "abc", "2023-2027 A"}
	for year := 2020; year <= 2030; year++ {
		for month := time.January; month <= time.December; month++ {
			for _, name := range names {
				got := CurrentSemester(name, date(year, month, 15))
				if got < MinSemester || got > MaxSemester {
					t.Fatalf("CurrentSemester(%q, %d-%02d) = %d, out of [1,8]", name, year, month, got)
				}
			}
		}
	}
}

func TestSemesterDateRange(t *testing.T) {
	now := date(2025, time.March, 1)

	tests := []struct {
		name      string
		batchName string
		semester  int
		wantFrom  time.Time
		wantTo    time.Time
	}{
		{
			name:      "odd semester spans july to december",
			batchName: "2023-2027",
			semester:  5,
			wantFrom:  date(2025, time.July, 1),
			wantTo:    date(2025, time.December, 31),
		},
		{
			name:      "even semester spans january to june of the next year",
			batchName: "2023-2027",
			semester:  4,
			wantFrom:  date(2025, time.January, 1),
			wantTo:    date(2025, time.June, 30),
		},
		{
			name:      "first semester starts with the batch",
			batchName: "2023-2027",
			semester:  1,
			wantFrom:  date(2023, time.July, 1),
			wantTo:    date(2023, time.December, 31),
		},
		{
			name:      "final semester",
			batchName: "2023-2027",
			semester:  8,
			wantFrom:  date(2027, time.January, 1),
			wantTo:    date(2027, time.June, 30),
		},
		{
			name:      "malformed name falls back to the current calendar year",
			batchName: "abc",
			semester:  5,
			wantFrom:  date(2025, time.January, 1),
			wantTo:    date(2025, time.December, 31),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := SemesterDateRange(tt.batchName, tt.semester, now)
			if !from.Equal(tt.wantFrom) {
				t.Errorf("from = %s, want %s", from.Format("2006-01-02"), tt.wantFrom.Format("2006-01-02"))
			}
			if !to.Equal(tt.wantTo) {
				t.Errorf("to = %s, want %s", to.Format("2006-01-02"), tt.wantTo.Format("2006-01-02"))
			}
		})
	}
}
