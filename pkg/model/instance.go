// Package model はシフト作成問題の入出力データモデルを定義する
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// WeekdayLabels 曜日ラベル表。weekdayOfDay1 の添字に対応する（0 = 日曜）
var WeekdayLabels = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// ProblemInstance 1ヶ月分のシフト作成問題
type ProblemInstance struct {
	Year          int      `json:"year"`
	Month         int      `json:"month"`
	Days          int      `json:"days"`
	WeekdayOfDay1 int      `json:"weekdayOfDay1"`
	Shifts        []Shift  `json:"shifts"`
	People        []Person `json:"people"`

	// wishOffs は ID → 希望休日（1始まりの日付）の対応。
	// フロントからは数値の配列として届くため float64 で受け、
	// 整数でない値の除去は正規化側で行う
	WishOffs map[string][]float64 `json:"wishOffs"`

	Rules         Rules                 `json:"rules"`
	NeedTemplate  map[string]BucketList `json:"needTemplate"`
	DayTypeByDate []string              `json:"dayTypeByDate"`

	// 以下は受理するがソルバ本体では使用しないキー
	PreviousMonthNightCarry json.RawMessage `json:"previousMonthNightCarry,omitempty"`
	StrictNight             json.RawMessage `json:"strictNight,omitempty"`
	Weights                 Weights         `json:"weights,omitempty"`
}

// Shift 勤務区分。End が 24 を超える場合は日跨ぎを表す（22→30 は 22:00〜翌6:00）
type Shift struct {
	Code  string `json:"code"`
	Name  string `json:"name,omitempty"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// CrossesMidnight 日跨ぎ勤務かどうか
func (s Shift) CrossesMidnight() bool {
	return s.End > 24
}

// Person スタッフ
type Person struct {
	ID               string   `json:"id"`
	Name             string   `json:"name,omitempty"`
	CanWork          []string `json:"canWork"`
	FixedOffWeekdays []string `json:"fixedOffWeekdays"`
	MonthlyMin       int      `json:"monthlyMin"`
	MonthlyMax       *int     `json:"monthlyMax"`
	ConsecMax        *int     `json:"consecMax"`
}

// CanWorkShift 指定の勤務区分に入れるかどうか
func (p Person) CanWorkShift(code string) bool {
	for _, c := range p.CanWork {
		if c == code {
			return true
		}
	}
	return false
}

// HasFixedOff 指定の曜日ラベルが固定休かどうか
func (p Person) HasFixedOff(label string) bool {
	for _, w := range p.FixedOffWeekdays {
		if w == label {
			return true
		}
	}
	return false
}

// Rules 勤務ルール
type Rules struct {
	// NightRest は勤務区分 → 明け休み日数 K。その区分で働いた翌日から
	// K 日間は勤務に入れない
	NightRest map[string]int `json:"nightRest"`
}

// Weights 目的関数の重み。現状ソルバは参照しないが、
// 将来の重み付き最適化の拡張点として受理・保持する
type Weights map[string]float64

// RequiredBucket 時間帯キー（"H1-H2"）と必要人数の組
type RequiredBucket struct {
	Range string
	Count int
}

// BucketList 必要人数表の1日種別分。JSONオブジェクトのキー順を保持する
type BucketList []RequiredBucket

// UnmarshalJSON はオブジェクトをキーの出現順のまま読み取る。
// map で受けると順序が失われ、不足報告の並びが入力と一致しなくなる
func (b *BucketList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil { // null
		*b = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("needTemplate: オブジェクトではありません")
	}

	var list BucketList
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("needTemplate: 不正なキー %v", keyTok)
		}

		var count json.Number
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("needTemplate: キー '%s' の値が数値ではありません: %w", key, err)
		}
		n, err := count.Int64()
		if err != nil {
			return fmt.Errorf("needTemplate: キー '%s' の値が整数ではありません: %w", key, err)
		}
		list = append(list, RequiredBucket{Range: key, Count: int(n)})
	}

	// 閉じ括弧
	if _, err := dec.Token(); err != nil {
		return err
	}

	*b = list
	return nil
}

// MarshalJSON はキー順を保持したままオブジェクトとして書き出す
func (b BucketList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rb := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(rb.Range)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", rb.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
