package solver

import (
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/darumasanaz/v4-shift-creation-tool/pkg/model"
)

// shortageVar 不足量の決定変数と対応する必要人数エントリ
type shortageVar struct {
	day int
	req requirement
	v   cpmodel.IntVar
}

// cpModel 構築済みの CP-SAT モデルと記号表
type cpModel struct {
	builder *cpmodel.Builder

	// assign[p][d][s] スタッフ p が d 日目に区分 s で勤務する
	assign [][][]cpmodel.BoolVar
	// works[p][d] スタッフ p が d 日目に何らかの勤務に入る
	works [][]cpmodel.BoolVar
	// shortages は必要人数エントリごとの不足量（日→時間帯の入力順）
	shortages []shortageVar
}

// buildModel は正規化済みの問題から決定変数と制約一式を組み立てる。
// ここでは求解は行わない
func buildModel(n *normalized) *cpModel {
	b := cpmodel.NewCpModelBuilder()
	m := &cpModel{builder: b}

	numP := len(n.people)
	numS := len(n.shifts)

	// 決定変数。禁止された組も変数自体は確保し 0 に固定する。
	// 変数を間引くと後段の被覆和の添字が揃わなくなる
	m.assign = make([][][]cpmodel.BoolVar, numP)
	m.works = make([][]cpmodel.BoolVar, numP)
	for p := 0; p < numP; p++ {
		m.assign[p] = make([][]cpmodel.BoolVar, n.days)
		m.works[p] = make([]cpmodel.BoolVar, n.days)
		for d := 0; d < n.days; d++ {
			m.assign[p][d] = make([]cpmodel.BoolVar, numS)
			for s := 0; s < numS; s++ {
				m.assign[p][d][s] = b.NewBoolVar().
					WithName(fmt.Sprintf("assign_p%d_d%d_s%d", p, d, s))
				if n.forbidden[p][d][s] {
					b.AddEquality(m.assign[p][d][s], cpmodel.NewConstant(0))
				}
			}
			m.works[p][d] = b.NewBoolVar().
				WithName(fmt.Sprintf("works_p%d_d%d", p, d))
		}
	}

	// 各 (日, 区分) にちょうど1人
	for d := 0; d < n.days; d++ {
		for s := 0; s < numS; s++ {
			var candidates []cpmodel.BoolVar
			for p := 0; p < numP; p++ {
				candidates = append(candidates, m.assign[p][d][s])
			}
			b.AddExactlyOne(candidates...)
		}
	}

	// works と assign の連結。1人1日1区分まで
	for p := 0; p < numP; p++ {
		for d := 0; d < n.days; d++ {
			day := cpmodel.NewLinearExpr()
			for s := 0; s < numS; s++ {
				day.Add(m.assign[p][d][s])
			}
			b.AddEquality(day, m.works[p][d])
		}
	}

	// 月間勤務回数の上下限
	for p := 0; p < numP; p++ {
		total := cpmodel.NewLinearExpr()
		for d := 0; d < n.days; d++ {
			total.Add(m.works[p][d])
		}
		b.AddLinearConstraint(total,
			int64(n.people[p].MonthlyMin), int64(n.monthlyMax[p]))
	}

	// 連続勤務の上限。長さ K+1 の窓すべてで勤務日数 <= K
	for p := 0; p < numP; p++ {
		if n.people[p].ConsecMax == nil {
			continue
		}
		k := *n.people[p].ConsecMax
		for d := 0; d+k < n.days; d++ {
			window := cpmodel.NewLinearExpr()
			for o := 0; o <= k; o++ {
				window.Add(m.works[p][d+o])
			}
			b.AddLessOrEqual(window, cpmodel.NewConstant(int64(k)))
		}
	}

	// 明け休み。区分 s に入った日の翌日から K 日間は勤務不可
	for s, shift := range n.shifts {
		k := n.nightRest[shift.Code]
		if k <= 0 {
			continue
		}
		for p := 0; p < numP; p++ {
			for d := 0; d < n.days; d++ {
				for o := 1; o <= k && d+o < n.days; o++ {
					pair := cpmodel.NewLinearExpr().
						Add(m.assign[p][d][s]).
						Add(m.works[p][d+o])
					b.AddLessOrEqual(pair, cpmodel.NewConstant(1))
				}
			}
		}
	}

	// 被覆と不足量の連結。必要人数 - 充足数を下回らない不足変数を置き、
	// その総和を最小化する
	obj := cpmodel.NewLinearExpr()
	hasRequirement := false
	for d := 0; d < n.days; d++ {
		for _, req := range n.needByDay[d] {
			short := b.NewIntVar(0, int64(req.count)).
				WithName(fmt.Sprintf("short_d%d_%s", d, req.rangeKey))

			cover := cpmodel.NewLinearExpr()
			for s, shift := range n.shifts {
				if coversSameDay(shift, req.startHour, req.endHour) {
					for p := 0; p < numP; p++ {
						cover.Add(m.assign[p][d][s])
					}
				}
				// 日跨ぎ区分は前日の割当が当日早朝の時間帯を充足する。
				// 初日は前月からの持ち越しを符号化しない
				if d >= 1 && coversNextMorning(shift, req.startHour, req.endHour) {
					for p := 0; p < numP; p++ {
						cover.Add(m.assign[p][d-1][s])
					}
				}
			}

			cover.Add(short)
			b.AddGreaterOrEqual(cover, cpmodel.NewConstant(int64(req.count)))

			m.shortages = append(m.shortages, shortageVar{day: d, req: req, v: short})
			obj.Add(short)
			hasRequirement = true
		}
	}

	if hasRequirement {
		b.Minimize(obj)
	} else {
		// 必要人数が未定義でもモデルを整形に保つ
		b.Minimize(cpmodel.NewConstant(0))
	}

	return m
}

// coversSameDay は区分の当日分が時間帯 [h1, h2) と重なるかを返す。
// 端点の接触は重なりとみなさない
func coversSameDay(s model.Shift, h1, h2 int) bool {
	end := s.End
	if end > 24 {
		end = 24
	}
	return max(s.Start, h1) < min(end, h2)
}

// coversNextMorning は日跨ぎ区分の翌日分（24時間引いた窓）が
// 時間帯 [h1, h2) と重なるかを返す
func coversNextMorning(s model.Shift, h1, h2 int) bool {
	if s.End <= 24 {
		return false
	}
	return max(s.Start-24, h1) < min(s.End-24, h2)
}
