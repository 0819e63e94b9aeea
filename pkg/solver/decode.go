package solver

import (
	"strconv"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"

	"github.com/darumasanaz/v4-shift-creation-tool/pkg/model"
)

// decode は変数値を読み取り、ドメイン表現のシフト表と不足報告に戻す
func decode(n *normalized, m *cpModel, res *cmpb.CpSolverResponse) *model.Schedule {
	out := &model.Schedule{
		Shifts:    make(map[string]map[string][]string, n.days),
		Objective: res.GetObjectiveValue(),
		Proven:    res.GetStatus() == cmpb.CpSolverStatus_OPTIMAL,
	}

	for d := 0; d < n.days; d++ {
		dayKey := strconv.Itoa(d + 1)
		byShift := make(map[string][]string, len(n.shifts))
		for s, shift := range n.shifts {
			// ちょうど1人制約の下では要素は常に1つだが、
			// 将来の緩和に備えて出力はリストのまま保つ
			members := []string{}
			for p := range n.people {
				if cpmodel.SolutionBooleanValue(res, m.assign[p][d][s]) {
					members = append(members, n.people[p].ID)
				}
			}
			byShift[shift.Code] = members
		}
		out.Shifts[dayKey] = byShift
	}

	out.Shortages = []model.ShortageEntry{}
	for _, sv := range m.shortages {
		count := cpmodel.SolutionIntegerValue(res, sv.v)
		if count <= 0 {
			continue
		}
		out.Shortages = append(out.Shortages, model.ShortageEntry{
			Date:          sv.day + 1,
			TimeRange:     sv.req.rangeKey,
			ShortageCount: int(count),
		})
	}

	return out
}
