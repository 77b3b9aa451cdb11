package metrics

import "fmt"

// Accuracy は正解数と総数から正解率を集計する（単語正解率、レンマ正解率など）
type Accuracy struct {
	Correct int64
	Total   int64
}

// NewAccuracy は空のAccuracyを作成する
func NewAccuracy() *Accuracy {
	return &Accuracy{}
}

// Add は1件の判定結果を加算する
func (a *Accuracy) Add(correct bool) {
	a.Total++
	if correct {
		a.Correct++
	}
}

// AddCounts は correct 件の正解を含む total 件を加算する
func (a *Accuracy) AddCounts(correct, total int) {
	a.Correct += int64(correct)
	a.Total += int64(total)
}

// Merge は other のカウンタを加算する
func (a *Accuracy) Merge(other *Accuracy) {
	if other == nil {
		return
	}
	a.Correct += other.Correct
	a.Total += other.Total
}

// Value は正解率を返す。件数が0の場合は0
func (a *Accuracy) Value() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Correct) / float64(a.Total)
}

func (a *Accuracy) String() string {
	return fmt.Sprintf("Accuracy: %v (%d/%d)", a.Value(), a.Correct, a.Total)
}
