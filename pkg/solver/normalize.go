// Package solver は月次シフト作成問題を CP-SAT で求解する。
//
// 処理は正規化 → モデル構築 → 求解 → 復号の4段から成り、
// リクエスト単位で完結する純粋関数として振る舞う。状態は保持しない。
package solver

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/darumasanaz/v4-shift-creation-tool/pkg/apperr"
	"github.com/darumasanaz/v4-shift-creation-tool/pkg/model"
)

// requirement 1日分の必要人数エントリ（時間帯キーは解析済み）
type requirement struct {
	rangeKey  string
	startHour int
	endHour   int
	count     int
}

// normalized 検証・正規化済みの問題表現
type normalized struct {
	days          int
	weekdayOfDay1 int
	shifts        []model.Shift
	people        []model.Person

	// monthlyMax は省略時の既定値（日数 D）を解決した後の値
	monthlyMax []int

	// weekdayLabel[d] は d 日目（0始まり）の曜日ラベル
	weekdayLabel []string

	// wishOff[p] は希望休の集合（0始まりの日添字）
	wishOff []map[int]bool

	// nightRest は勤務区分コード → 明け休み日数
	nightRest map[string]int

	// needByDay[d] はその日の必要人数エントリ（入力順）
	needByDay [][]requirement

	// forbidden[p][d][s] は割当禁止の組
	forbidden [][][]bool
}

// normalize は生の問題入力を検証し、導出テーブルを構築する。
// 失敗時は原因フィールドを示す検証エラーを返す
func normalize(inst *model.ProblemInstance) (*normalized, error) {
	if inst == nil {
		return nil, apperr.InvalidInput("body", "リクエスト本文がありません")
	}
	if inst.Days <= 0 {
		return nil, apperr.InvalidInput("days", "1以上の整数が必要です")
	}
	if len(inst.Shifts) == 0 {
		return nil, apperr.InvalidInput("shifts", "勤務区分が1つも定義されていません")
	}
	if len(inst.People) == 0 {
		return nil, apperr.InvalidInput("people", "スタッフが1人も登録されていません")
	}

	seenCodes := make(map[string]bool, len(inst.Shifts))
	for _, s := range inst.Shifts {
		if s.Code == "" {
			return nil, apperr.InvalidInput("shifts", "code が空の勤務区分があります")
		}
		if seenCodes[s.Code] {
			return nil, apperr.InvalidInput("shifts", "code '"+s.Code+"' が重複しています")
		}
		seenCodes[s.Code] = true
	}

	seenIDs := make(map[string]bool, len(inst.People))
	for _, p := range inst.People {
		if p.ID == "" {
			return nil, apperr.InvalidInput("people", "id が空のスタッフがいます")
		}
		if seenIDs[p.ID] {
			return nil, apperr.InvalidInput("people", "id '"+p.ID+"' が重複しています")
		}
		seenIDs[p.ID] = true
	}

	n := &normalized{
		days:          inst.Days,
		weekdayOfDay1: ((inst.WeekdayOfDay1 % 7) + 7) % 7,
		shifts:        inst.Shifts,
		people:        inst.People,
		nightRest:     map[string]int{},
	}

	// 月間回数の上下限
	n.monthlyMax = make([]int, len(inst.People))
	for i, p := range inst.People {
		if p.MonthlyMin < 0 {
			return nil, apperr.InvalidInput("people",
				"スタッフ '"+p.ID+"' の monthlyMin が負数です")
		}
		maxDays := inst.Days
		if p.MonthlyMax != nil {
			maxDays = *p.MonthlyMax
		}
		if maxDays < p.MonthlyMin {
			return nil, apperr.InvalidInput("people",
				"スタッフ '"+p.ID+"' の monthlyMax が monthlyMin を下回っています")
		}
		if p.ConsecMax != nil && *p.ConsecMax <= 0 {
			return nil, apperr.InvalidInput("people",
				"スタッフ '"+p.ID+"' の consecMax は正の整数が必要です")
		}
		n.monthlyMax[i] = maxDays
	}

	// 曜日テーブル
	n.weekdayLabel = make([]string, inst.Days)
	for d := 0; d < inst.Days; d++ {
		n.weekdayLabel[d] = model.WeekdayLabels[(n.weekdayOfDay1+d)%7]
	}

	// 希望休。整数でない値・0以下は黙って捨てる（エラーにはしない）
	n.wishOff = make([]map[int]bool, len(inst.People))
	for i, p := range inst.People {
		set := make(map[int]bool)
		for _, raw := range inst.WishOffs[p.ID] {
			day := int(raw)
			if float64(day) != raw || day <= 0 {
				continue
			}
			if day <= inst.Days {
				set[day-1] = true
			}
		}
		n.wishOff[i] = set
	}

	// 明け休みルール。該当しない区分コードは無視する
	for code, k := range inst.Rules.NightRest {
		if k > 0 && seenCodes[code] {
			n.nightRest[code] = k
		}
	}

	// 必要人数表。時間帯キーが解析できないエントリは読み飛ばす
	n.needByDay = make([][]requirement, inst.Days)
	for d := 0; d < inst.Days; d++ {
		if d >= len(inst.DayTypeByDate) {
			break
		}
		dayType := inst.DayTypeByDate[d]
		if dayType == "" {
			continue
		}
		for _, b := range inst.NeedTemplate[dayType] {
			h1, h2, ok := parseHourRange(b.Range)
			if !ok || b.Count <= 0 {
				continue
			}
			n.needByDay[d] = append(n.needByDay[d], requirement{
				rangeKey:  b.Range,
				startHour: h1,
				endHour:   h2,
				count:     b.Count,
			})
		}
	}

	// 禁止割当テーブル
	n.forbidden = make([][][]bool, len(inst.People))
	for pi, p := range inst.People {
		n.forbidden[pi] = make([][]bool, inst.Days)
		for d := 0; d < inst.Days; d++ {
			row := make([]bool, len(inst.Shifts))
			dayOff := p.HasFixedOff(n.weekdayLabel[d]) || n.wishOff[pi][d]
			for si, s := range inst.Shifts {
				row[si] = dayOff || !p.CanWorkShift(s.Code)
			}
			n.forbidden[pi][d] = row
		}
	}

	// 実行可能性の事前検査。候補者ゼロの (日, 区分) はモデルに入れても
	// 充足できないため、ここで明確な診断を返す
	for d := 0; d < inst.Days; d++ {
		for si, s := range inst.Shifts {
			ok := lo.SomeBy(lo.Range(len(inst.People)), func(pi int) bool {
				return !n.forbidden[pi][d][si]
			})
			if !ok {
				return nil, apperr.NoAvailableStaff(d+1, s.Code)
			}
		}
	}

	return n, nil
}

// parseHourRange は "H1-H2" 形式の時間帯キーを解析する。
// 0 <= H1 < H2 <= 24 を満たさないものは不正として扱う
func parseHourRange(key string) (int, int, bool) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	h1, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	h2, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	if h1 < 0 || h2 > 24 || h1 >= h2 {
		return 0, 0, false
	}
	return h1, h2, true
}
