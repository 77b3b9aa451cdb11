// Package model は学習器とモデルの契約を定義する。
//
// 交差検証はアルゴリズムの更新規則を知らない。Trainer がストリームから
// Model を作り、Model がサンプルを復号する、という二つの契約だけに依存する。
package model

import (
	"context"

	"github.com/YuminosukeSato/seqlearn/core/params"
	"github.com/YuminosukeSato/seqlearn/core/stream"
)

// Trainer は学習サンプルのストリームからモデルを作るインターフェース
//
// 並列交差検証では互いに素なフォールドに対して同時に呼ばれるため、
// 実装は呼び出しごとに独立していなければならない（グローバルな可変状態を持たない）。
// ctx がキャンセルされたら速やかに ctx.Err() を返すこと。
type Trainer[T any] interface {
	Train(ctx context.Context, samples stream.Stream[T], p *params.TrainingParameters) (Model[T], error)
}

// Model は学習済みモデルのインターフェース
type Model[T any] interface {
	// Predict は参照サンプルの入力部分からラベルを予測し、予測済みサンプルを返す
	Predict(sample T) (T, error)
}

// TrainerFunc は関数を Trainer として使うためのアダプタ
type TrainerFunc[T any] func(ctx context.Context, samples stream.Stream[T], p *params.TrainingParameters) (Model[T], error)

// Train implements Trainer.
func (f TrainerFunc[T]) Train(ctx context.Context, samples stream.Stream[T], p *params.TrainingParameters) (Model[T], error) {
	return f(ctx, samples, p)
}

// ModelFunc は関数を Model として使うためのアダプタ
type ModelFunc[T any] func(sample T) (T, error)

// Predict implements Model.
func (f ModelFunc[T]) Predict(sample T) (T, error) {
	return f(sample)
}
