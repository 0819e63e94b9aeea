package solver

import (
	"time"

	"github.com/darumasanaz/v4-shift-creation-tool/pkg/logger"
	"github.com/darumasanaz/v4-shift-creation-tool/pkg/model"
)

// Solve は既定パラメータで1ヶ月分のシフト表を求解する
func Solve(inst *model.ProblemInstance) (*model.Schedule, error) {
	return SolveWithOptions(inst, DefaultOptions())
}

// SolveWithOptions は指定パラメータでシフト表を求解する。
// 入力不正は検証エラー、解が存在しない場合は解なしエラーを返す
func SolveWithOptions(inst *model.ProblemInstance, opts Options) (*model.Schedule, error) {
	log := logger.NewSolverLogger()

	n, err := normalize(inst)
	if err != nil {
		return nil, err
	}

	log.StartSolve(n.days, len(n.people), len(n.shifts))
	start := time.Now()

	m := buildModel(n)

	res, err := runSolver(m, opts)
	if err != nil {
		log.SolveFailed(errStatus(err), time.Since(start))
		return nil, err
	}

	schedule := decode(n, m, res)
	log.SolveComplete(res.GetStatus().String(), time.Since(start), schedule.Objective)
	return schedule, nil
}

// errStatus はログ用にエラーから状態文字列を取り出す
func errStatus(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
