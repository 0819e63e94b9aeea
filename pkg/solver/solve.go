package solver

import (
	"time"

	"google.golang.org/protobuf/proto"

	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/darumasanaz/v4-shift-creation-tool/pkg/apperr"
)

// Options 求解パラメータ
type Options struct {
	// TimeLimit 探索の打ち切り時間
	TimeLimit time.Duration
	// Workers 並列探索ワーカー数
	Workers int
}

// DefaultOptions 既定の求解パラメータを返す
func DefaultOptions() Options {
	return Options{
		TimeLimit: 30 * time.Second,
		Workers:   8,
	}
}

// runSolver はモデルを CP-SAT に渡して求解し、終端状態を分類する。
// OPTIMAL / FEASIBLE（時間切れの暫定解を含む）は応答をそのまま返し、
// それ以外は解なしとして扱う
func runSolver(m *cpModel, opts Options) (*cmpb.CpSolverResponse, error) {
	mp, err := m.builder.Model()
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "モデルの生成に失敗しました")
	}

	params := &sppb.SatParameters{
		MaxTimeInSeconds: proto.Float64(opts.TimeLimit.Seconds()),
		NumSearchWorkers: proto.Int32(int32(opts.Workers)),
	}

	res, err := cpmodel.SolveCpModelWithParameters(mp, params)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "ソルバの実行に失敗しました")
	}

	switch res.GetStatus() {
	case cmpb.CpSolverStatus_OPTIMAL, cmpb.CpSolverStatus_FEASIBLE:
		return res, nil
	case cmpb.CpSolverStatus_INFEASIBLE:
		return nil, apperr.Unsolvable()
	default:
		// UNKNOWN / MODEL_INVALID も解なしとして報告する
		return nil, apperr.Unsolvable().WithDetails(res.GetStatus().String())
	}
}
