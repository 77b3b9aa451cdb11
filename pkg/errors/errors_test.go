package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewFoldError(t *testing.T) {
	tests := []struct {
		name    string
		fold    int
		folds   int
		phase   string
		err     error
		wantMsg string
	}{
		{
			name:    "train failure",
			fold:    0,
			folds:   10,
			phase:   PhaseTrain,
			err:     fmt.Errorf("did not converge"),
			wantMsg: "seqlearn: fold 1/10 failed during train: did not converge",
		},
		{
			name:    "evaluate failure",
			fold:    4,
			folds:   5,
			phase:   PhaseEvaluate,
			err:     ErrStreamClosed,
			wantMsg: "seqlearn: fold 5/5 failed during evaluate: stream closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewFoldError(tt.fold, tt.folds, tt.phase, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			var foldErr *FoldError
			if !As(err, &foldErr) {
				t.Fatal("Error should be castable to *FoldError")
			}
			if foldErr.Fold != tt.fold || foldErr.Phase != tt.phase {
				t.Errorf("got fold %d phase %s", foldErr.Fold, foldErr.Phase)
			}

			// 元のエラーまで辿れること
			if !Is(err, tt.err) {
				t.Error("FoldError should unwrap to its cause")
			}
		})
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("k", "must be at least 2", 1)

	want := "seqlearn: validation failed for parameter 'k': must be at least 2 (got: 1)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var valErr *ValidationError
	if !As(err, &valErr) {
		t.Error("Error should be castable to *ValidationError")
	}
}

func TestNewValueError(t *testing.T) {
	err := NewValueError("Argmax", "empty vector")

	if err.Error() != "seqlearn: Argmax: empty vector" {
		t.Errorf("unexpected message %q", err.Error())
	}

	var valErr *ValueError
	if !As(err, &valErr) {
		t.Error("Error should be castable to *ValueError")
	}
}

func TestWrapKeepsSentinel(t *testing.T) {
	err := Wrapf(ErrStreamClosed, "reading fold %d", 3)
	if !Is(err, ErrStreamClosed) {
		t.Error("wrapped error should match ErrStreamClosed")
	}
	if !strings.Contains(err.Error(), "reading fold 3") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("scores", []float64{0.1, -2, 3}); err != nil {
		t.Errorf("finite values should pass, got %v", err)
	}

	err := CheckNumericalStability("scores", []float64{0.1, nanValue()})
	var numErr *NumericalInstabilityError
	if !As(err, &numErr) {
		t.Fatalf("expected NumericalInstabilityError, got %v", err)
	}
	if numErr.Operation != "scores" {
		t.Errorf("operation = %s", numErr.Operation)
	}
}

func nanValue() float64 {
	zero := 0.0
	return zero / zero
}
