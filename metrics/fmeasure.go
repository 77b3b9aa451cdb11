// Package metrics は評価結果を集計するアキュムレータを提供する。
//
// すべてのカウンタは整数で保持するため、Merge は結合的かつ可換で、
// マージの順序によらず結果は完全に一致する。アキュムレータ自体は
// ゴルーチンセーフではない。並行に集計する場合は呼び出し側で排他制御すること。
package metrics

import (
	"fmt"

	"github.com/YuminosukeSato/seqlearn/sample"
)

// FMeasure は予測スパンと正解スパンの完全一致に基づく適合率・再現率・F値を集計する
type FMeasure struct {
	// Selected は予測されたスパン数
	Selected int64
	// Target は正解スパン数
	Target int64
	// TruePositive は正解と完全一致した予測スパン数
	TruePositive int64
}

// NewFMeasure は空のFMeasureを作成する
func NewFMeasure() *FMeasure {
	return &FMeasure{}
}

// UpdateScores は1サンプル分の正解と予測を加算する
func (f *FMeasure) UpdateScores(references, predictions []sample.Span) {
	f.Selected += int64(len(predictions))
	f.Target += int64(len(references))
	f.TruePositive += int64(CountTruePositives(references, predictions))
}

// Merge は other のカウンタを加算する
func (f *FMeasure) Merge(other *FMeasure) {
	if other == nil {
		return
	}
	f.Selected += other.Selected
	f.Target += other.Target
	f.TruePositive += other.TruePositive
}

// Precision は適合率を返す。予測がない場合は0
func (f *FMeasure) Precision() float64 {
	if f.Selected == 0 {
		return 0
	}
	return float64(f.TruePositive) / float64(f.Selected)
}

// Recall は再現率を返す。正解がない場合は0
func (f *FMeasure) Recall() float64 {
	if f.Target == 0 {
		return 0
	}
	return float64(f.TruePositive) / float64(f.Target)
}

// Value はF値（適合率と再現率の調和平均）を返す。
// 適合率と再現率がともに0の場合は定義できないため -1 を返す。
func (f *FMeasure) Value() float64 {
	p, r := f.Precision(), f.Recall()
	if p+r == 0 {
		return -1
	}
	return 2 * p * r / (p + r)
}

func (f *FMeasure) String() string {
	return fmt.Sprintf("Precision: %v\nRecall: %v\nF-Measure: %v", f.Precision(), f.Recall(), f.Value())
}

// CountTruePositives は予測のうち正解と完全一致するスパン数を数える。
// 同じスパンが複数回現れる場合は、それぞれ一度だけ対応付ける。
func CountTruePositives(references, predictions []sample.Span) int {
	remaining := make(map[sample.Span]int, len(references))
	for _, ref := range references {
		remaining[ref]++
	}
	tp := 0
	for _, pred := range predictions {
		if remaining[pred] > 0 {
			remaining[pred]--
			tp++
		}
	}
	return tp
}
