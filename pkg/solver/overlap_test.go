package solver

import (
	"testing"

	"github.com/darumasanaz/v4-shift-creation-tool/pkg/model"
)

func TestCoversSameDay(t *testing.T) {
	day := model.Shift{Code: "D", Start: 9, End: 17}
	night := model.Shift{Code: "N", Start: 22, End: 30}

	tests := []struct {
		name   string
		shift  model.Shift
		h1, h2 int
		want   bool
	}{
		{"完全に含む", day, 10, 12, true},
		{"部分重複（前方）", day, 7, 10, true},
		{"部分重複（後方）", day, 16, 20, true},
		{"端点の接触は重ならない（終端）", day, 17, 20, false},
		{"端点の接触は重ならない（始端）", day, 6, 9, false},
		{"完全に外", day, 18, 22, false},
		{"夜勤の当日分", night, 22, 24, true},
		{"夜勤の当日分は24時まで", night, 0, 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coversSameDay(tt.shift, tt.h1, tt.h2); got != tt.want {
				t.Errorf("coversSameDay(%s, %d-%d) = %v, want %v",
					tt.shift.Code, tt.h1, tt.h2, got, tt.want)
			}
		})
	}
}

func TestCoversNextMorning(t *testing.T) {
	day := model.Shift{Code: "D", Start: 9, End: 17}
	night := model.Shift{Code: "N", Start: 22, End: 30}

	tests := []struct {
		name   string
		shift  model.Shift
		h1, h2 int
		want   bool
	}{
		{"日勤は翌朝に及ばない", day, 0, 6, false},
		{"夜勤の翌朝分", night, 0, 6, true},
		{"夜勤の翌朝分（部分）", night, 5, 8, true},
		{"端点の接触は重ならない", night, 6, 9, false},
		{"翌日の昼には及ばない", night, 9, 12, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coversNextMorning(tt.shift, tt.h1, tt.h2); got != tt.want {
				t.Errorf("coversNextMorning(%s, %d-%d) = %v, want %v",
					tt.shift.Code, tt.h1, tt.h2, got, tt.want)
			}
		})
	}
}
