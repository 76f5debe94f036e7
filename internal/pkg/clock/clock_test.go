package clock

import (
	"testing"
	"time"
)

func TestDay(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		in   time.Time
		loc  *time.Location
		want time.Time
	}{
		{
			name: "utc midday",
			in:   time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
			loc:  time.UTC,
			want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "crosses date line east",
			// 2024-03-01 20:00 UTC is already 2024-03-02 03:00 in Jakarta
			in:   time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC),
			loc:  jakarta,
			want: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "same instant different zone stays local",
			in:   time.Date(2024, 3, 1, 1, 0, 0, 0, jakarta),
			loc:  jakarta,
			want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, c := range cases {
		got := Day(c.in, c.loc)
		if !got.Equal(c.want) {
			t.Errorf("%s: Day() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestFixed(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)
	c := Fixed(ts)
	if !c.Now().Equal(ts) {
		t.Errorf("Fixed clock returned %v, want %v", c.Now(), ts)
	}
}
